package migrations

import (
	"gorm.io/gorm"

	"github.com/sidequest/sidequest-api/internal/domain/poll"
	"github.com/sidequest/sidequest-api/internal/domain/waitlist"
)

// AllModels returns every model the schema is derived from. The two
// table groups are independent: waitlist entries on one side, polls
// and their votes on the other.
func AllModels() []any {
	return []any{
		&waitlist.Entry{},
		&poll.Poll{},
		&poll.Vote{},
	}
}

// migration002Up creates all core tables using GORM AutoMigrate
func migration002Up(db *gorm.DB) error {
	return db.AutoMigrate(AllModels()...)
}

// migration002Down drops all core tables
func migration002Down(db *gorm.DB) error {
	tables := []string{
		"poll_votes",
		"polls",
		"waitlist_entries",
	}

	for _, table := range tables {
		if err := db.Exec("DROP TABLE IF EXISTS " + table + " CASCADE").Error; err != nil {
			return err
		}
	}

	return nil
}
