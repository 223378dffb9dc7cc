package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/masjidhub/prayer-engine/internal/channel"
	"github.com/masjidhub/prayer-engine/internal/composer"
	"github.com/masjidhub/prayer-engine/internal/domain"
	"github.com/masjidhub/prayer-engine/internal/observability"
	"github.com/masjidhub/prayer-engine/internal/ratelimit"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	minBulkConcurrency     = 1
	defaultBulkConcurrency = 4
)

// NotificationService is the dispatch orchestrator: it gates on user
// preferences, composes localized payloads, and fans them out to the
// configured push channels with per-channel accounting.
type NotificationService struct {
	channels    []channel.Channel
	rateLimiter ratelimit.RateLimiter
	logger      *zap.Logger
	metrics     *observability.Metrics
	concurrency int
	now         func() time.Time
}

// NewNotificationService wires the orchestrator. Channels are attempted in
// the order given; the caller passes FCM before OneSignal so a user with
// both tokens always gets both attempts recorded in that order.
func NewNotificationService(
	channels []channel.Channel,
	rateLimiter ratelimit.RateLimiter,
	bulkConcurrency int,
	logger *zap.Logger,
) (*NotificationService, error) {
	if len(channels) == 0 {
		return nil, fmt.Errorf("at least one channel is required")
	}
	if bulkConcurrency < minBulkConcurrency {
		bulkConcurrency = defaultBulkConcurrency
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &NotificationService{
		channels:    channels,
		rateLimiter: rateLimiter,
		logger:      logger,
		concurrency: bulkConcurrency,
		now:         time.Now,
	}, nil
}

// WithMetrics attaches the prometheus collectors. Optional.
func (s *NotificationService) WithMetrics(m *observability.Metrics) *NotificationService {
	s.metrics = m
	return s
}

// DispatchPrayerAlert sends one prayer alert. A disabled toggle or an
// unrecognized prayer name is a deliberate no-op: Success is false, the
// Skipped reason is set, and no channel is called.
func (s *NotificationService) DispatchPrayerAlert(
	ctx context.Context,
	prefs domain.PreferenceView,
	name domain.PrayerName,
	prayerTime string,
) domain.DispatchResult {
	pref, known := prefs.PerPrayer[name]
	if !known {
		return skipped(fmt.Sprintf("prayer %q is not configured for user", name))
	}
	if !pref.Enabled {
		return skipped(fmt.Sprintf("prayer %q alerts are disabled", name))
	}

	msg := composer.PrayerMessage(name, prayerTime, prefs.Language)
	return s.dispatch(ctx, prefs, msg)
}

// DispatchEventAlert sends one event alert. Both the global events toggle
// and the event's category toggle must be on.
func (s *NotificationService) DispatchEventAlert(
	ctx context.Context,
	prefs domain.PreferenceView,
	event domain.Event,
) (domain.DispatchResult, error) {
	if err := event.Validate(); err != nil {
		return domain.DispatchResult{}, err
	}

	if !prefs.EventsEnabled {
		return skipped("event alerts are disabled"), nil
	}
	if !prefs.EventCategory[event.Category] {
		return skipped(fmt.Sprintf("event category %q is disabled", event.Category)), nil
	}

	msg := composer.EventMessage(event, prefs.Language)
	return s.dispatch(ctx, prefs, msg), nil
}

// DispatchTest sends the delivery-check message to every configured token,
// bypassing preference toggles entirely.
func (s *NotificationService) DispatchTest(
	ctx context.Context,
	prefs domain.PreferenceView,
	name domain.PrayerName,
) domain.DispatchResult {
	return s.dispatch(ctx, prefs, composer.TestMessage(name))
}

// DispatchBulkEvent fans one event out to many recipients. Results keep the
// input order and each recipient gets an independent result slot, so one
// user's failure never aborts the batch or corrupts another's outcome.
// Concurrency is bounded; a limit of 1 degrades to strict sequential order.
func (s *NotificationService) DispatchBulkEvent(
	ctx context.Context,
	prefsList []domain.PreferenceView,
	event domain.Event,
) (*domain.BulkResult, error) {
	if err := event.Validate(); err != nil {
		return nil, err
	}
	if ctx == nil {
		ctx = context.Background()
	}

	result := &domain.BulkResult{
		PerUser:   make([]domain.UserDispatchResult, len(prefsList)),
		StartedAt: s.now(),
	}

	g, groupCtx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for i, prefs := range prefsList {
		i, prefs := i, prefs
		g.Go(func() error {
			dispatchResult, err := s.DispatchEventAlert(groupCtx, prefs, event)
			if err != nil {
				// Per-user isolation: record the failure, never abort the batch.
				dispatchResult = domain.DispatchResult{
					Success: false,
					Skipped: fmt.Sprintf("dispatch error: %v", err),
				}
			}
			result.PerUser[i] = domain.UserDispatchResult{
				UserID:         prefs.UserID,
				DispatchResult: dispatchResult,
			}
			return nil
		})
	}

	// Goroutines only ever return nil; Wait is a join.
	_ = g.Wait()

	for _, userResult := range result.PerUser {
		if userResult.Success {
			result.TotalSent++
		} else {
			result.TotalFailed++
		}
	}
	result.FinishedAt = s.now()

	s.logger.Info("bulk event dispatch finished",
		zap.String("eventId", event.ID),
		zap.Int("totalSent", result.TotalSent),
		zap.Int("totalFailed", result.TotalFailed),
	)

	return result, nil
}

// dispatch sends one composed message to every configured token. Channels
// are attempted in order and a failure never short-circuits the next one.
func (s *NotificationService) dispatch(
	ctx context.Context,
	prefs domain.PreferenceView,
	msg domain.ComposedMessage,
) domain.DispatchResult {
	if ctx == nil {
		ctx = context.Background()
	}

	result := domain.DispatchResult{}
	for _, ch := range s.channels {
		token := tokenFor(ch.Kind(), prefs.Tokens)
		if token == "" {
			continue
		}
		channelName := strings.ToLower(ch.Kind().String())

		if s.rateLimiter != nil {
			if err := s.rateLimiter.Wait(ctx, channelName); err != nil {
				s.logger.Warn("rate limiter wait failed, sending anyway",
					zap.String("channel", channelName),
					zap.Error(err),
				)
			}
		}

		start := s.now()
		outcome := ch.Send(ctx, token, msg)
		s.observeSend(channelName, s.now().Sub(start), outcome)

		result.Outcomes = append(result.Outcomes, outcome)
		if outcome.Success {
			result.Success = true
		}
	}

	if len(result.Outcomes) == 0 {
		return skipped("no device tokens configured")
	}

	if !result.Success {
		s.logger.Warn("dispatch delivered to no channel",
			zap.String("userId", prefs.UserID),
			zap.String("kind", string(msg.Kind)),
		)
	}

	return result
}

func (s *NotificationService) observeSend(channelName string, duration time.Duration, outcome domain.DispatchOutcome) {
	if s.metrics == nil {
		return
	}
	s.metrics.ObserveChannelSendDuration(channelName, duration)
	if outcome.Success {
		s.metrics.IncNotificationSent(channelName)
	} else {
		s.metrics.IncNotificationFailed(channelName, failureReason(outcome))
	}
}

func failureReason(outcome domain.DispatchOutcome) string {
	if strings.HasPrefix(outcome.ErrorDetail, "channel not configured") {
		return "not_configured"
	}
	return "send_error"
}

func tokenFor(kind domain.ChannelKind, tokens domain.DeviceTokens) string {
	switch kind {
	case domain.ChannelFCM:
		return strings.TrimSpace(tokens.FCM)
	case domain.ChannelOneSignal:
		return strings.TrimSpace(tokens.OneSignal)
	}
	return ""
}

func skipped(reason string) domain.DispatchResult {
	return domain.DispatchResult{
		Success: false,
		Skipped: reason,
	}
}
