package config

import (
	"fmt"

	"github.com/Netflix/go-env"
)

type Config struct {
	DatabaseDSN       string `env:"DATABASE_DSN,required=true"`
	RedisURL          string `env:"REDIS_URL,required=true"`
	PrayerAPIBaseURL  string `env:"PRAYER_API_BASE_URL,default=https://api.aladhan.com/v1"`
	FCMServerKey      string `env:"FCM_SERVER_KEY"`
	FCMEndpoint       string `env:"FCM_ENDPOINT,default=https://fcm.googleapis.com/fcm/send"`
	OneSignalAppID    string `env:"ONESIGNAL_APP_ID"`
	OneSignalAPIKey   string `env:"ONESIGNAL_API_KEY"`
	OneSignalURL      string `env:"ONESIGNAL_URL,default=https://onesignal.com/api/v1/notifications"`
	CalculationMethod int    `env:"CALCULATION_METHOD,default=2"`
	CacheTTLHours     int    `env:"CACHE_TTL_HOURS,default=24"`
	RateLimitPerSec   int    `env:"RATE_LIMIT_PER_SEC,default=50"`
	BulkConcurrency   int    `env:"BULK_CONCURRENCY,default=4"`
	APIPort           int    `env:"API_PORT,default=8080"`
	LogLevel          string `env:"LOG_LEVEL,default=info"`
}

func Load() (*Config, error) {
	var cfg Config
	_, err := env.UnmarshalFromEnviron(&cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}
