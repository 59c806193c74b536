package waitlist

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Entry represents a single registrant on the waitlist. Entries are
// created once and never mutated or deleted.
type Entry struct {
	ID           uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Email        string    `json:"email" gorm:"not null;uniqueIndex:uq_waitlist_entries_email"`
	Destination  *string   `json:"destination"`
	TravelDate   *string   `json:"travelDate"`
	TravelType   string    `json:"travelType" gorm:"not null;default:group"`
	University   *string   `json:"university"`
	ReferralCode string    `json:"referralCode" gorm:"not null;uniqueIndex:uq_waitlist_entries_referral_code"`
	ReferredBy   *string   `json:"referredBy"`
	CreatedAt    time.Time `json:"createdAt" gorm:"autoCreateTime"`
}

// TableName overrides the table name
func (Entry) TableName() string {
	return "waitlist_entries"
}

// BeforeCreate will set a UUID rather than numeric ID.
func (e *Entry) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

// DefaultTravelType is applied when a signup does not specify one.
const DefaultTravelType = "group"

// NewEntry builds an Entry with a freshly generated referral code. The
// email must already be normalized.
func NewEntry(email string, destination, travelDate *string, travelType string, university, referredBy *string) (*Entry, error) {
	code, err := GenerateReferralCode()
	if err != nil {
		return nil, err
	}

	if travelType == "" {
		travelType = DefaultTravelType
	}

	return &Entry{
		ID:           uuid.New(),
		Email:        email,
		Destination:  destination,
		TravelDate:   travelDate,
		TravelType:   travelType,
		University:   university,
		ReferralCode: code,
		ReferredBy:   referredBy,
	}, nil
}

// NormalizeEmail lower-cases and trims an email address. All lookups
// and stored values use the normalized form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// GenerateReferralCode returns an 8-hex-character token from 4 random
// bytes. Collisions are caught by the unique constraint at insert time.
func GenerateReferralCode() (string, error) {
	buf := make([]byte, 4)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate referral code: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// Validate checks if the entry data is valid
func (e *Entry) Validate() error {
	if e.Email == "" {
		return fmt.Errorf("email is required")
	}
	if !strings.Contains(e.Email, "@") {
		return fmt.Errorf("email must have a valid format")
	}
	if e.ReferralCode == "" {
		return fmt.Errorf("referral_code is required")
	}
	return nil
}
