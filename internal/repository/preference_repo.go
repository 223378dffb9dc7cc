package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/masjidhub/prayer-engine/internal/domain"
)

type PreferenceRepository interface {
	GetPreferenceView(ctx context.Context, userID string) (*domain.PreferenceView, error)
	ListByEventCategory(ctx context.Context, category string) ([]domain.PreferenceView, error)
	SavePrayerPreference(ctx context.Context, userID string, prayer domain.PrayerName, pref domain.PrayerPreference) error
	SaveDeviceToken(ctx context.Context, userID string, channel domain.ChannelKind, token string) error
	SetEventSubscription(ctx context.Context, userID string, category string, enabled bool) error
}

type GormPreferenceRepo struct {
	db *gorm.DB
}

func NewGormPreferenceRepo(db *gorm.DB) *GormPreferenceRepo {
	return &GormPreferenceRepo{db: db}
}

func (r *GormPreferenceRepo) GetPreferenceView(ctx context.Context, userID string) (*domain.PreferenceView, error) {
	var model UserPreferenceModel
	err := r.db.WithContext(ctx).
		Preload("PrayerPreferences").
		Preload("EventSubscriptions").
		First(&model, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return preferenceViewFromModel(&model), nil
}

// ListByEventCategory returns the preference views of every user subscribed
// to the given event category with event alerts enabled, ordered by user id
// so bulk dispatch output is stable across runs.
func (r *GormPreferenceRepo) ListByEventCategory(ctx context.Context, category string) ([]domain.PreferenceView, error) {
	var models []UserPreferenceModel
	err := r.db.WithContext(ctx).
		Preload("PrayerPreferences").
		Preload("EventSubscriptions").
		Joins("JOIN event_subscriptions ON event_subscriptions.user_id = user_preferences.user_id").
		Where("user_preferences.events_enabled = ?", true).
		Where("event_subscriptions.category = ? AND event_subscriptions.enabled = ?", category, true).
		Order("user_preferences.user_id ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	views := make([]domain.PreferenceView, 0, len(models))
	for i := range models {
		views = append(views, *preferenceViewFromModel(&models[i]))
	}
	return views, nil
}

func (r *GormPreferenceRepo) SavePrayerPreference(ctx context.Context, userID string, prayer domain.PrayerName, pref domain.PrayerPreference) error {
	if !prayer.IsValid() {
		return fmt.Errorf("%w: invalid prayer name %q", domain.ErrValidation, prayer)
	}

	model := PrayerPreferenceModel{
		ID:           uuid.NewString(),
		UserID:       userID,
		Prayer:       prayer.String(),
		Enabled:      pref.Enabled,
		AlertMinutes: pref.AlertMinutes,
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "prayer"}},
			DoUpdates: clause.AssignmentColumns([]string{"enabled", "alert_minutes", "updated_at"}),
		}).
		Create(&model).Error
}

func (r *GormPreferenceRepo) SaveDeviceToken(ctx context.Context, userID string, channel domain.ChannelKind, token string) error {
	var column string
	switch channel {
	case domain.ChannelFCM:
		column = "fcm_token"
	case domain.ChannelOneSignal:
		column = "one_signal_token"
	default:
		return fmt.Errorf("%w: unknown channel %q", domain.ErrValidation, channel)
	}

	result := r.db.WithContext(ctx).
		Model(&UserPreferenceModel{}).
		Where("user_id = ?", userID).
		Update(column, token)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		model := UserPreferenceModel{UserID: userID}
		switch channel {
		case domain.ChannelFCM:
			model.FCMToken = token
		case domain.ChannelOneSignal:
			model.OneSignalToken = token
		}
		return r.db.WithContext(ctx).Create(&model).Error
	}
	return nil
}

func (r *GormPreferenceRepo) SetEventSubscription(ctx context.Context, userID string, category string, enabled bool) error {
	model := EventSubscriptionModel{
		ID:       uuid.NewString(),
		UserID:   userID,
		Category: category,
		Enabled:  enabled,
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "category"}},
			DoUpdates: clause.AssignmentColumns([]string{"enabled", "updated_at"}),
		}).
		Create(&model).Error
}
