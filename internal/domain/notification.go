package domain

import (
	"fmt"
	"strings"
	"time"
)

// ChannelKind identifies a push delivery path.
type ChannelKind string

const (
	ChannelFCM       ChannelKind = "FCM"
	ChannelOneSignal ChannelKind = "ONESIGNAL"
)

func (c ChannelKind) String() string { return string(c) }

func (c ChannelKind) IsValid() bool {
	switch c {
	case ChannelFCM, ChannelOneSignal:
		return true
	}
	return false
}

// MessageKind classifies a composed notification.
type MessageKind string

const (
	KindPrayer MessageKind = "prayer"
	KindEvent  MessageKind = "event"
	KindTest   MessageKind = "test"
)

// PrayerPreference is one prayer's alert configuration.
type PrayerPreference struct {
	Enabled      bool
	AlertMinutes int
}

// DeviceTokens holds the per-channel push tokens for a user. An empty
// string means the channel is not configured.
type DeviceTokens struct {
	FCM       string
	OneSignal string
}

// PreferenceView is the read-only projection of a user's notification
// settings consumed by the orchestrator. The engine never mutates it.
type PreferenceView struct {
	UserID        string
	PerPrayer     map[PrayerName]PrayerPreference
	EventCategory map[string]bool
	EventsEnabled bool
	Tokens        DeviceTokens
	Language      Language
}

// Event is a community announcement eligible for push delivery.
type Event struct {
	ID          string
	Title       string
	Description string
	Date        string
	Category    string
}

func (e Event) Validate() error {
	if strings.TrimSpace(e.ID) == "" {
		return fmt.Errorf("%w: event id is required", ErrValidation)
	}
	if strings.TrimSpace(e.Title) == "" {
		return fmt.Errorf("%w: event title is required", ErrValidation)
	}
	if strings.TrimSpace(e.Description) == "" {
		return fmt.Errorf("%w: event description is required", ErrValidation)
	}
	return nil
}

// ComposedMessage is a fully rendered notification payload, single-use
// per dispatch call.
type ComposedMessage struct {
	Title        string
	Body         string
	Kind         MessageKind
	PrayerName   PrayerName
	EventID      string
	Sound        string
	ChannelGroup string
	TapAction    string
}

// DispatchOutcome records one channel attempt. Channel failures are values,
// never errors: a failed attempt carries ErrorDetail and Success=false.
type DispatchOutcome struct {
	Channel           ChannelKind
	Success           bool
	ProviderMessageID string
	ErrorDetail       string
}

// DispatchResult aggregates the per-channel outcomes of one dispatch call.
// Success is true when at least one channel delivered. A skipped dispatch
// (disabled toggle, unknown prayer, missing category) has zero outcomes and
// a Skipped reason, distinguishing a no-op from a transmission failure.
type DispatchResult struct {
	Success  bool
	Skipped  string
	Outcomes []DispatchOutcome
}

// UserDispatchResult pairs one bulk recipient with their dispatch result.
type UserDispatchResult struct {
	UserID string
	DispatchResult
}

// BulkResult is the full accounting of a bulk event dispatch. PerUser keeps
// the original recipient order.
type BulkResult struct {
	TotalSent   int
	TotalFailed int
	PerUser     []UserDispatchResult
	StartedAt   time.Time
	FinishedAt  time.Time
}
