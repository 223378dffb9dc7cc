package channel

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/masjidhub/prayer-engine/internal/domain"
)

// DefaultOneSignalEndpoint is the OneSignal create-notification endpoint.
const DefaultOneSignalEndpoint = "https://onesignal.com/api/v1/notifications"

type oneSignalRequest struct {
	AppID            string            `json:"app_id"`
	IncludePlayerIDs []string          `json:"include_player_ids"`
	Headings         map[string]string `json:"headings"`
	Contents         map[string]string `json:"contents"`
	Data             map[string]string `json:"data,omitempty"`
	AndroidChannelID string            `json:"existing_android_channel_id,omitempty"`
	Sound            string            `json:"android_sound,omitempty"`
}

// oneSignalResponse reports per-request recipient counts. The engine sends
// one token per call, so recipients is 0 or 1 and partial delivery collapses
// to success/failure of that single attempt.
type oneSignalResponse struct {
	ID         string   `json:"id"`
	Recipients int      `json:"recipients"`
	Errors     []string `json:"errors,omitempty"`
}

// OneSignalChannel sends through OneSignal (channel B).
type OneSignalChannel struct {
	client   *resty.Client
	endpoint string
	appID    string
	apiKey   string
}

func NewOneSignalChannel(endpoint, appID, apiKey string) (*OneSignalChannel, error) {
	client := resty.New()
	client.SetTimeout(defaultSendTimeout)
	client.SetRetryCount(0)

	return NewOneSignalChannelWithClient(endpoint, appID, apiKey, client)
}

func NewOneSignalChannelWithClient(endpoint, appID, apiKey string, client *resty.Client) (*OneSignalChannel, error) {
	trimmed := strings.TrimSpace(endpoint)
	if trimmed == "" {
		trimmed = DefaultOneSignalEndpoint
	}
	if strings.TrimSpace(appID) == "" {
		return nil, fmt.Errorf("onesignal app id is required")
	}
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("onesignal api key is required")
	}
	if client == nil {
		return nil, fmt.Errorf("resty client is required")
	}

	if client.GetClient().Timeout == 0 {
		client.SetTimeout(defaultSendTimeout)
	}
	client.SetRetryCount(0)

	return &OneSignalChannel{
		client:   client,
		endpoint: trimmed,
		appID:    strings.TrimSpace(appID),
		apiKey:   strings.TrimSpace(apiKey),
	}, nil
}

var _ Channel = (*OneSignalChannel)(nil)

func (c *OneSignalChannel) Kind() domain.ChannelKind { return domain.ChannelOneSignal }

func (c *OneSignalChannel) Send(ctx context.Context, token string, msg domain.ComposedMessage) domain.DispatchOutcome {
	if strings.TrimSpace(token) == "" {
		return notConfigured(domain.ChannelOneSignal)
	}

	reqBody := oneSignalRequest{
		AppID:            c.appID,
		IncludePlayerIDs: []string{token},
		Headings:         map[string]string{"en": msg.Title},
		Contents:         map[string]string{"en": msg.Body},
		Data:             messageData(msg),
		AndroidChannelID: msg.ChannelGroup,
		Sound:            msg.Sound,
	}

	response, err := c.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetHeader("Authorization", "Basic "+c.apiKey).
		SetBody(reqBody).
		Post(c.endpoint)
	if err != nil {
		return failure(domain.ChannelOneSignal, fmt.Sprintf("onesignal request failed: %v", err))
	}

	if response.StatusCode() != http.StatusOK {
		return failure(domain.ChannelOneSignal, fmt.Sprintf("onesignal returned status %d", response.StatusCode()))
	}

	var parsed oneSignalResponse
	if err := json.Unmarshal(response.Body(), &parsed); err != nil {
		return failure(domain.ChannelOneSignal, fmt.Sprintf("onesignal response decode failed: %v", err))
	}

	if len(parsed.Errors) > 0 {
		return failure(domain.ChannelOneSignal, fmt.Sprintf("onesignal rejected the message: %s", strings.Join(parsed.Errors, "; ")))
	}
	if parsed.Recipients < 1 {
		return failure(domain.ChannelOneSignal, "onesignal delivered to 0 recipients")
	}

	return domain.DispatchOutcome{
		Channel:           domain.ChannelOneSignal,
		Success:           true,
		ProviderMessageID: parsed.ID,
	}
}
