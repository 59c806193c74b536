package postgres

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sidequest/sidequest-api/internal/domain/poll"
	"github.com/sidequest/sidequest-api/internal/logger"
	"github.com/sidequest/sidequest-api/internal/storage"
)

// PollRepository implements storage.PollRepository using GORM
type PollRepository struct {
	db  *gorm.DB
	log *log.Logger
}

// NewPollRepository creates a new PostgreSQL poll repository
func NewPollRepository(db *gorm.DB) *PollRepository {
	return &PollRepository{
		db:  db,
		log: logger.Repository("poll"),
	}
}

// Create inserts a new poll with its options stored in order.
func (r *PollRepository) Create(p *poll.Poll) error {
	r.log.Debug("creating poll", "poll_id", p.ID, "share_code", p.ShareCode)

	if err := p.Validate(); err != nil {
		r.log.Error("poll validation failed", "error", err, "poll_id", p.ID)
		return fmt.Errorf("poll validation failed: %w", err)
	}

	if err := r.db.Create(p).Error; err != nil {
		if _, ok := uniqueViolationConstraint(err); ok {
			r.log.Warn("share code collision on insert", "poll_id", p.ID, "share_code", p.ShareCode)
			return storage.ErrDuplicateShareCode
		}
		r.log.Error("failed to create poll", "error", err, "poll_id", p.ID)
		return fmt.Errorf("failed to create poll: %w", err)
	}

	r.log.Info("poll created", "poll_id", p.ID, "share_code", p.ShareCode, "options", len(p.Options))
	return nil
}

// GetByShareCode looks up a poll by its public share code.
func (r *PollRepository) GetByShareCode(code string) (*poll.Poll, error) {
	r.log.Debug("retrieving poll by share code", "share_code", code)

	var p poll.Poll
	if err := r.db.Where("share_code = ?", code).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, storage.ErrNotFound
		}
		r.log.Error("failed to retrieve poll by share code", "share_code", code, "error", err)
		return nil, fmt.Errorf("failed to retrieve poll by share code: %w", err)
	}

	return &p, nil
}

// CreateVote inserts a vote. The (poll_id, voter_name) unique index is
// the authority on double voting; losing that race surfaces as
// storage.ErrDuplicateVote, never as a second success.
func (r *PollRepository) CreateVote(v *poll.Vote) error {
	r.log.Debug("creating vote", "vote_id", v.ID, "poll_id", v.PollID, "voter_name", v.VoterName)

	if err := r.db.Create(v).Error; err != nil {
		if _, ok := uniqueViolationConstraint(err); ok {
			r.log.Info("duplicate vote rejected", "poll_id", v.PollID, "voter_name", v.VoterName)
			return storage.ErrDuplicateVote
		}
		r.log.Error("failed to create vote", "error", err, "vote_id", v.ID)
		return fmt.Errorf("failed to create vote: %w", err)
	}

	r.log.Info("vote created", "vote_id", v.ID, "poll_id", v.PollID, "option_index", v.OptionIndex)
	return nil
}

// GetVotesByPollID returns all votes cast on a poll.
func (r *PollRepository) GetVotesByPollID(pollID uuid.UUID) ([]*poll.Vote, error) {
	r.log.Debug("retrieving votes by poll ID", "poll_id", pollID)

	var votes []*poll.Vote
	if err := r.db.Where("poll_id = ?", pollID).Order("created_at ASC").Find(&votes).Error; err != nil {
		r.log.Error("failed to retrieve votes by poll ID", "poll_id", pollID, "error", err)
		return nil, fmt.Errorf("failed to retrieve votes by poll ID: %w", err)
	}

	r.log.Debug("votes retrieved", "poll_id", pollID, "count", len(votes))
	return votes, nil
}
