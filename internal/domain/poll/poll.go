package poll

import (
	"crypto/rand"
	"database/sql/driver"
	"encoding/hex"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/sidequest/sidequest-api/internal/validation"
)

// Category classifies what a poll is deciding on.
type Category string

const (
	CategoryMeal        Category = "meal"
	CategoryActivity    Category = "activity"
	CategoryDestination Category = "destination"
	CategoryTime        Category = "time"
	CategoryGeneral     Category = "general"
)

// Valid reports whether the category is one of the known values.
func (c Category) Valid() bool {
	switch c {
	case CategoryMeal, CategoryActivity, CategoryDestination, CategoryTime, CategoryGeneral:
		return true
	}
	return false
}

func (c *Category) Scan(value any) error {
	if value == nil {
		*c = CategoryGeneral
		return nil
	}
	if str, ok := value.(string); ok {
		*c = Category(str)
		return nil
	}
	return fmt.Errorf("cannot scan %T into Category", value)
}

func (c Category) Value() (driver.Value, error) {
	return string(c), nil
}

// Validation bounds for polls and votes.
const (
	QuestionMaxLength = 200
	OptionMaxLength   = 100
	MinOptions        = 2
	MaxOptions        = 8
	NameMaxLength     = 50
)

// DefaultCreatedBy is used when the creator or voter leaves the name blank.
const DefaultCreatedBy = "Anonymous"

// Poll is a shareable multiple-choice question. Options are ordered;
// an option's position is its stable identifier for voting.
type Poll struct {
	ID        uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	ShareCode string         `json:"shareCode" gorm:"not null;uniqueIndex:uq_polls_share_code"`
	Question  string         `json:"question" gorm:"not null"`
	Options   pq.StringArray `json:"options" gorm:"type:text[];not null"`
	Category  Category       `json:"category" gorm:"type:varchar(20);not null;default:general"`
	CreatedBy string         `json:"createdBy" gorm:"not null;default:Anonymous"`
	CreatedAt time.Time      `json:"createdAt" gorm:"autoCreateTime"`
}

// Vote is a single immutable vote on a poll. A named voter can cast at
// most one per poll, enforced by the (poll_id, voter_name) unique index.
type Vote struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	PollID      uuid.UUID `json:"pollId" gorm:"type:uuid;not null;uniqueIndex:uq_poll_votes_poll_voter"`
	OptionIndex int       `json:"optionIndex" gorm:"not null"`
	VoterName   string    `json:"voterName" gorm:"not null;uniqueIndex:uq_poll_votes_poll_voter"`
	CreatedAt   time.Time `json:"createdAt" gorm:"autoCreateTime"`

	Poll Poll `json:"-" gorm:"foreignKey:PollID;constraint:OnDelete:CASCADE"`
}

// TableName overrides the table name
func (Poll) TableName() string {
	return "polls"
}

// TableName overrides the table name
func (Vote) TableName() string {
	return "poll_votes"
}

// BeforeCreate will set a UUID rather than numeric ID.
func (p *Poll) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// BeforeCreate will set a UUID rather than numeric ID.
func (v *Vote) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}

// NewPoll builds a Poll with a freshly generated share code. Empty
// category and creator fall back to their defaults.
func NewPoll(question string, options []string, category Category, createdBy string) (*Poll, error) {
	code, err := GenerateShareCode()
	if err != nil {
		return nil, err
	}

	if category == "" {
		category = CategoryGeneral
	}
	if createdBy == "" {
		createdBy = DefaultCreatedBy
	}

	return &Poll{
		ID:        uuid.New(),
		ShareCode: code,
		Question:  question,
		Options:   pq.StringArray(options),
		Category:  category,
		CreatedBy: createdBy,
	}, nil
}

// NewVote builds a Vote. An empty voter name falls back to the default.
func NewVote(pollID uuid.UUID, optionIndex int, voterName string) *Vote {
	if voterName == "" {
		voterName = DefaultCreatedBy
	}
	return &Vote{
		ID:          uuid.New(),
		PollID:      pollID,
		OptionIndex: optionIndex,
		VoterName:   voterName,
	}
}

// GenerateShareCode returns a short random token suitable for a
// shareable URL segment.
func GenerateShareCode() (string, error) {
	buf := make([]byte, 4)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate share code: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// Validate checks if the poll data is valid
func (p *Poll) Validate() error {
	if utf8.RuneCountInString(p.Question) == 0 {
		return fmt.Errorf("question is required")
	}
	if utf8.RuneCountInString(p.Question) > QuestionMaxLength {
		return fmt.Errorf("question must be at most %d characters", QuestionMaxLength)
	}
	if len(p.Options) < MinOptions || len(p.Options) > MaxOptions {
		return fmt.Errorf("polls must have between %d and %d options", MinOptions, MaxOptions)
	}
	for i, opt := range p.Options {
		if utf8.RuneCountInString(opt) == 0 {
			return fmt.Errorf("option %d must not be empty", i)
		}
		if utf8.RuneCountInString(opt) > OptionMaxLength {
			return fmt.Errorf("option %d must be at most %d characters", i, OptionMaxLength)
		}
	}
	if !p.Category.Valid() {
		return fmt.Errorf("invalid category: %s", p.Category)
	}
	return validation.ValidateLengthBetween(p.CreatedBy, 1, NameMaxLength, "created_by")
}

// Validate checks the vote against its poll's option bounds.
func (v *Vote) Validate(p *Poll) error {
	if v.PollID == uuid.Nil {
		return fmt.Errorf("poll_id is required")
	}
	if v.OptionIndex < 0 || v.OptionIndex >= len(p.Options) {
		return fmt.Errorf("option_index must be between 0 and %d", len(p.Options)-1)
	}
	return validation.ValidateLengthBetween(v.VoterName, 1, NameMaxLength, "voter_name")
}

// OptionResult is the tally for a single option.
type OptionResult struct {
	Option string `json:"option"`
	Votes  int    `json:"votes"`
}

// Tally counts votes per option in the poll's original option order.
// Options with no votes are included with a zero count. Votes whose
// index no longer falls inside the options sequence are ignored.
func (p *Poll) Tally(votes []*Vote) ([]OptionResult, int) {
	results := make([]OptionResult, len(p.Options))
	for i, opt := range p.Options {
		results[i] = OptionResult{Option: opt}
	}

	total := 0
	for _, v := range votes {
		if v.OptionIndex < 0 || v.OptionIndex >= len(results) {
			continue
		}
		results[v.OptionIndex].Votes++
		total++
	}
	return results, total
}
