package migrations

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"

	"github.com/masjidhub/prayer-engine/internal/repository"
)

func createPrayerPreferencesTable() *gormigrate.Migration {
	return &gormigrate.Migration{
		ID: "000002_create_prayer_preferences",
		Migrate: func(tx *gorm.DB) error {
			if err := tx.AutoMigrate(&repository.PrayerPreferenceModel{}); err != nil {
				return err
			}
			return tx.Exec(`CREATE INDEX IF NOT EXISTS idx_prayer_prefs_user_id ON prayer_preferences (user_id)`).Error
		},
		Rollback: func(tx *gorm.DB) error {
			return tx.Migrator().DropTable(&repository.PrayerPreferenceModel{})
		},
	}
}
