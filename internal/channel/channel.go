// Package channel delivers composed messages to device push channels.
//
// Channels never return errors: every failure mode, including a missing
// token, is captured into the DispatchOutcome so one channel's failure
// cannot prevent the other from being attempted.
package channel

import (
	"context"

	"github.com/masjidhub/prayer-engine/internal/domain"
)

// Channel is one push delivery path addressed by a device token.
type Channel interface {
	Kind() domain.ChannelKind
	Send(ctx context.Context, token string, msg domain.ComposedMessage) domain.DispatchOutcome
}

func notConfigured(kind domain.ChannelKind) domain.DispatchOutcome {
	return domain.DispatchOutcome{
		Channel:     kind,
		Success:     false,
		ErrorDetail: "channel not configured: empty device token",
	}
}

func failure(kind domain.ChannelKind, detail string) domain.DispatchOutcome {
	return domain.DispatchOutcome{
		Channel:     kind,
		Success:     false,
		ErrorDetail: detail,
	}
}
