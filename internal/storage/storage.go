package storage

import (
	"errors"

	"github.com/google/uuid"

	"github.com/sidequest/sidequest-api/internal/domain/poll"
	"github.com/sidequest/sidequest-api/internal/domain/waitlist"
)

// Sentinel errors returned by repository implementations. Handlers
// branch on these to map storage outcomes onto HTTP responses; the
// unique-constraint ones are the authoritative signal for races.
var (
	ErrNotFound              = errors.New("record not found")
	ErrDuplicateEmail        = errors.New("email already registered")
	ErrDuplicateReferralCode = errors.New("referral code already in use")
	ErrDuplicateShareCode    = errors.New("share code already in use")
	ErrDuplicateVote         = errors.New("voter has already voted in this poll")
)

// WaitlistRepository defines the persistence operations for waitlist entries.
type WaitlistRepository interface {
	Create(entry *waitlist.Entry) error
	GetByEmail(email string) (*waitlist.Entry, error)
	GetByReferralCode(code string) (*waitlist.Entry, error)
	Count() (int64, error)
}

// PollRepository defines the persistence operations for polls and votes.
type PollRepository interface {
	Create(p *poll.Poll) error
	GetByShareCode(code string) (*poll.Poll, error)
	CreateVote(v *poll.Vote) error
	GetVotesByPollID(pollID uuid.UUID) ([]*poll.Vote, error)
}
