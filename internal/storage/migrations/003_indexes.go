package migrations

import "gorm.io/gorm"

// migration003Up creates supporting indexes. The unique indexes that
// back the business invariants (email, referral code, share code,
// one vote per voter per poll) are created by AutoMigrate from the
// model tags; these only speed up the read paths.
func migration003Up(db *gorm.DB) error {
	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_waitlist_entries_referred_by ON waitlist_entries(referred_by)",
		"CREATE INDEX IF NOT EXISTS idx_waitlist_entries_created_at ON waitlist_entries(created_at DESC)",

		"CREATE INDEX IF NOT EXISTS idx_polls_created_at ON polls(created_at DESC)",

		"CREATE INDEX IF NOT EXISTS idx_poll_votes_poll ON poll_votes(poll_id)",
	}

	for _, indexSQL := range indexes {
		if err := db.Exec(indexSQL).Error; err != nil {
			return err
		}
	}

	return nil
}

// migration003Down drops the supporting indexes
func migration003Down(db *gorm.DB) error {
	indexes := []string{
		"DROP INDEX IF EXISTS idx_waitlist_entries_referred_by",
		"DROP INDEX IF EXISTS idx_waitlist_entries_created_at",
		"DROP INDEX IF EXISTS idx_polls_created_at",
		"DROP INDEX IF EXISTS idx_poll_votes_poll",
	}

	for _, indexSQL := range indexes {
		if err := db.Exec(indexSQL).Error; err != nil {
			return err
		}
	}

	return nil
}
