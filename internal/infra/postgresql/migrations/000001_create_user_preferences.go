package migrations

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"

	"github.com/masjidhub/prayer-engine/internal/repository"
)

func createUserPreferencesTable() *gormigrate.Migration {
	return &gormigrate.Migration{
		ID: "000001_create_user_preferences",
		Migrate: func(tx *gorm.DB) error {
			return tx.AutoMigrate(&repository.UserPreferenceModel{})
		},
		Rollback: func(tx *gorm.DB) error {
			return tx.Migrator().DropTable(&repository.UserPreferenceModel{})
		},
	}
}
