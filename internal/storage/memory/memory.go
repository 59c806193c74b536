// Package memory provides in-memory implementations of the storage
// repositories. They back handler tests and local development without
// a database, enforcing the same uniqueness rules as the PostgreSQL
// constraints.
package memory

import (
	"sync"

	"github.com/google/uuid"

	"github.com/sidequest/sidequest-api/internal/domain/poll"
	"github.com/sidequest/sidequest-api/internal/domain/waitlist"
	"github.com/sidequest/sidequest-api/internal/storage"
)

// WaitlistRepository is an in-memory storage.WaitlistRepository.
type WaitlistRepository struct {
	mu      sync.Mutex
	entries []*waitlist.Entry
}

// NewWaitlistRepository creates an empty in-memory waitlist repository.
func NewWaitlistRepository() *WaitlistRepository {
	return &WaitlistRepository{}
}

func (r *WaitlistRepository) Create(entry *waitlist.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := entry.Validate(); err != nil {
		return err
	}

	for _, e := range r.entries {
		if e.Email == entry.Email {
			return storage.ErrDuplicateEmail
		}
		if e.ReferralCode == entry.ReferralCode {
			return storage.ErrDuplicateReferralCode
		}
	}

	copied := *entry
	r.entries = append(r.entries, &copied)
	return nil
}

func (r *WaitlistRepository) GetByEmail(email string) (*waitlist.Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, e := range r.entries {
		if e.Email == email {
			copied := *e
			return &copied, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (r *WaitlistRepository) GetByReferralCode(code string) (*waitlist.Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, e := range r.entries {
		if e.ReferralCode == code {
			copied := *e
			return &copied, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (r *WaitlistRepository) Count() (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.entries)), nil
}

// PollRepository is an in-memory storage.PollRepository.
type PollRepository struct {
	mu    sync.Mutex
	polls []*poll.Poll
	votes []*poll.Vote
}

// NewPollRepository creates an empty in-memory poll repository.
func NewPollRepository() *PollRepository {
	return &PollRepository{}
}

func (r *PollRepository) Create(p *poll.Poll) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := p.Validate(); err != nil {
		return err
	}

	for _, existing := range r.polls {
		if existing.ShareCode == p.ShareCode {
			return storage.ErrDuplicateShareCode
		}
	}

	copied := *p
	r.polls = append(r.polls, &copied)
	return nil
}

func (r *PollRepository) GetByShareCode(code string) (*poll.Poll, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range r.polls {
		if p.ShareCode == code {
			copied := *p
			return &copied, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (r *PollRepository) CreateVote(v *poll.Vote) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.votes {
		if existing.PollID == v.PollID && existing.VoterName == v.VoterName {
			return storage.ErrDuplicateVote
		}
	}

	copied := *v
	r.votes = append(r.votes, &copied)
	return nil
}

func (r *PollRepository) GetVotesByPollID(pollID uuid.UUID) ([]*poll.Vote, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var votes []*poll.Vote
	for _, v := range r.votes {
		if v.PollID == pollID {
			copied := *v
			votes = append(votes, &copied)
		}
	}
	return votes, nil
}
