package repository

import (
	"time"

	"github.com/masjidhub/prayer-engine/internal/domain"
)

// UserPreferenceModel is the persistence model for the user_preferences table.
type UserPreferenceModel struct {
	UserID         string `gorm:"type:uuid;primaryKey"`
	Language       string `gorm:"type:varchar(8);not null;default:en"`
	EventsEnabled  bool   `gorm:"not null;default:true"`
	FCMToken       string `gorm:"type:text"`
	OneSignalToken string `gorm:"type:text"`
	CreatedAt      time.Time
	UpdatedAt      time.Time

	PrayerPreferences  []PrayerPreferenceModel  `gorm:"foreignKey:UserID;references:UserID"`
	EventSubscriptions []EventSubscriptionModel `gorm:"foreignKey:UserID;references:UserID"`
}

func (UserPreferenceModel) TableName() string {
	return "user_preferences"
}

// PrayerPreferenceModel is the persistence model for prayer_preferences.
// One row per user per prayer; absent rows fall back to defaults.
type PrayerPreferenceModel struct {
	ID           string `gorm:"type:uuid;primaryKey"`
	UserID       string `gorm:"type:uuid;not null;uniqueIndex:idx_prayer_prefs_user_prayer"`
	Prayer       string `gorm:"type:varchar(10);not null;uniqueIndex:idx_prayer_prefs_user_prayer"`
	Enabled      bool   `gorm:"not null;default:true"`
	AlertMinutes int    `gorm:"not null;default:0"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (PrayerPreferenceModel) TableName() string {
	return "prayer_preferences"
}

// EventSubscriptionModel is the persistence model for event_subscriptions.
type EventSubscriptionModel struct {
	ID        string `gorm:"type:uuid;primaryKey"`
	UserID    string `gorm:"type:uuid;not null;uniqueIndex:idx_event_subs_user_category"`
	Category  string `gorm:"type:varchar(64);not null;uniqueIndex:idx_event_subs_user_category"`
	Enabled   bool   `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (EventSubscriptionModel) TableName() string {
	return "event_subscriptions"
}

func preferenceViewFromModel(m *UserPreferenceModel) *domain.PreferenceView {
	if m == nil {
		return nil
	}

	lang, err := domain.ParseLanguage(m.Language)
	if err != nil {
		lang = domain.LanguageEnglish
	}

	view := &domain.PreferenceView{
		UserID:        m.UserID,
		PerPrayer:     make(map[domain.PrayerName]domain.PrayerPreference, len(m.PrayerPreferences)),
		EventCategory: make(map[string]bool, len(m.EventSubscriptions)),
		EventsEnabled: m.EventsEnabled,
		Tokens: domain.DeviceTokens{
			FCM:       m.FCMToken,
			OneSignal: m.OneSignalToken,
		},
		Language: lang,
	}

	for _, p := range m.PrayerPreferences {
		name, err := domain.ParsePrayerName(p.Prayer)
		if err != nil {
			continue
		}
		view.PerPrayer[name] = domain.PrayerPreference{
			Enabled:      p.Enabled,
			AlertMinutes: p.AlertMinutes,
		}
	}

	for _, s := range m.EventSubscriptions {
		view.EventCategory[s.Category] = s.Enabled
	}

	return view
}
