package migrations

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"

	"github.com/masjidhub/prayer-engine/internal/repository"
)

func createEventSubscriptionsTable() *gormigrate.Migration {
	return &gormigrate.Migration{
		ID: "000003_create_event_subscriptions",
		Migrate: func(tx *gorm.DB) error {
			if err := tx.AutoMigrate(&repository.EventSubscriptionModel{}); err != nil {
				return err
			}
			return tx.Exec(`CREATE INDEX IF NOT EXISTS idx_event_subs_category ON event_subscriptions (category) WHERE enabled = true`).Error
		},
		Rollback: func(tx *gorm.DB) error {
			return tx.Migrator().DropTable(&repository.EventSubscriptionModel{})
		},
	}
}
