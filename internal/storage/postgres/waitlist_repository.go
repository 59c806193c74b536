package postgres

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/sidequest/sidequest-api/internal/domain/waitlist"
	"github.com/sidequest/sidequest-api/internal/logger"
	"github.com/sidequest/sidequest-api/internal/storage"
)

// uniqueViolationConstraint returns the violated constraint name when
// err is a PostgreSQL unique violation (SQLSTATE 23505).
func uniqueViolationConstraint(err error) (string, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return pgErr.ConstraintName, true
	}
	return "", false
}

// WaitlistRepository implements storage.WaitlistRepository using GORM
type WaitlistRepository struct {
	db  *gorm.DB
	log *log.Logger
}

// NewWaitlistRepository creates a new PostgreSQL waitlist repository
func NewWaitlistRepository(db *gorm.DB) *WaitlistRepository {
	return &WaitlistRepository{
		db:  db,
		log: logger.Repository("waitlist"),
	}
}

// Create inserts a new waitlist entry. Unique violations are translated
// to the storage sentinels so callers can tell a lost dedup race from a
// referral code collision.
func (r *WaitlistRepository) Create(entry *waitlist.Entry) error {
	r.log.Debug("creating waitlist entry", "entry_id", entry.ID, "email", entry.Email)

	if err := entry.Validate(); err != nil {
		r.log.Error("waitlist entry validation failed", "error", err, "entry_id", entry.ID)
		return fmt.Errorf("waitlist entry validation failed: %w", err)
	}

	if err := r.db.Create(entry).Error; err != nil {
		if constraint, ok := uniqueViolationConstraint(err); ok {
			if strings.Contains(constraint, "referral_code") {
				r.log.Warn("referral code collision on insert", "entry_id", entry.ID, "referral_code", entry.ReferralCode)
				return storage.ErrDuplicateReferralCode
			}
			r.log.Info("email already registered", "email", entry.Email)
			return storage.ErrDuplicateEmail
		}
		r.log.Error("failed to create waitlist entry", "error", err, "entry_id", entry.ID)
		return fmt.Errorf("failed to create waitlist entry: %w", err)
	}

	r.log.Info("waitlist entry created", "entry_id", entry.ID, "referral_code", entry.ReferralCode)
	return nil
}

// GetByEmail looks up an entry by its normalized email address.
func (r *WaitlistRepository) GetByEmail(email string) (*waitlist.Entry, error) {
	r.log.Debug("retrieving waitlist entry by email", "email", email)

	var entry waitlist.Entry
	if err := r.db.Where("email = ?", email).First(&entry).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, storage.ErrNotFound
		}
		r.log.Error("failed to retrieve waitlist entry by email", "email", email, "error", err)
		return nil, fmt.Errorf("failed to retrieve waitlist entry by email: %w", err)
	}

	return &entry, nil
}

// GetByReferralCode looks up the entry that owns a referral code.
func (r *WaitlistRepository) GetByReferralCode(code string) (*waitlist.Entry, error) {
	r.log.Debug("retrieving waitlist entry by referral code", "referral_code", code)

	var entry waitlist.Entry
	if err := r.db.Where("referral_code = ?", code).First(&entry).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, storage.ErrNotFound
		}
		r.log.Error("failed to retrieve waitlist entry by referral code", "referral_code", code, "error", err)
		return nil, fmt.Errorf("failed to retrieve waitlist entry by referral code: %w", err)
	}

	return &entry, nil
}

// Count returns the total number of waitlist entries.
func (r *WaitlistRepository) Count() (int64, error) {
	var count int64
	if err := r.db.Model(&waitlist.Entry{}).Count(&count).Error; err != nil {
		r.log.Error("failed to count waitlist entries", "error", err)
		return 0, fmt.Errorf("failed to count waitlist entries: %w", err)
	}

	r.log.Debug("waitlist entries counted", "count", count)
	return count, nil
}
