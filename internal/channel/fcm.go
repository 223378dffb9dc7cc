package channel

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/masjidhub/prayer-engine/internal/domain"
)

const (
	// DefaultFCMEndpoint is the legacy FCM HTTP send endpoint.
	DefaultFCMEndpoint = "https://fcm.googleapis.com/fcm/send"

	defaultSendTimeout = 10 * time.Second
)

type fcmNotification struct {
	Title            string `json:"title"`
	Body             string `json:"body"`
	Sound            string `json:"sound,omitempty"`
	AndroidChannelID string `json:"android_channel_id,omitempty"`
	ClickAction      string `json:"click_action,omitempty"`
}

type fcmRequest struct {
	To           string            `json:"to"`
	Priority     string            `json:"priority"`
	Notification fcmNotification   `json:"notification"`
	Data         map[string]string `json:"data,omitempty"`
}

type fcmResult struct {
	MessageID string `json:"message_id,omitempty"`
	Error     string `json:"error,omitempty"`
}

type fcmResponse struct {
	Success int         `json:"success"`
	Failure int         `json:"failure"`
	Results []fcmResult `json:"results"`
}

// FCMChannel sends through Firebase Cloud Messaging (channel A).
type FCMChannel struct {
	client    *resty.Client
	endpoint  string
	serverKey string
}

func NewFCMChannel(endpoint, serverKey string) (*FCMChannel, error) {
	client := resty.New()
	client.SetTimeout(defaultSendTimeout)
	client.SetRetryCount(0)

	return NewFCMChannelWithClient(endpoint, serverKey, client)
}

func NewFCMChannelWithClient(endpoint, serverKey string, client *resty.Client) (*FCMChannel, error) {
	trimmed := strings.TrimSpace(endpoint)
	if trimmed == "" {
		trimmed = DefaultFCMEndpoint
	}
	if strings.TrimSpace(serverKey) == "" {
		return nil, fmt.Errorf("fcm server key is required")
	}
	if client == nil {
		return nil, fmt.Errorf("resty client is required")
	}

	if client.GetClient().Timeout == 0 {
		client.SetTimeout(defaultSendTimeout)
	}
	client.SetRetryCount(0)

	return &FCMChannel{
		client:    client,
		endpoint:  trimmed,
		serverKey: strings.TrimSpace(serverKey),
	}, nil
}

var _ Channel = (*FCMChannel)(nil)

func (c *FCMChannel) Kind() domain.ChannelKind { return domain.ChannelFCM }

func (c *FCMChannel) Send(ctx context.Context, token string, msg domain.ComposedMessage) domain.DispatchOutcome {
	if strings.TrimSpace(token) == "" {
		return notConfigured(domain.ChannelFCM)
	}

	reqBody := fcmRequest{
		To:       token,
		Priority: "high",
		Notification: fcmNotification{
			Title:            msg.Title,
			Body:             msg.Body,
			Sound:            msg.Sound,
			AndroidChannelID: msg.ChannelGroup,
			ClickAction:      msg.TapAction,
		},
		Data: messageData(msg),
	}

	response, err := c.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetHeader("Authorization", "key="+c.serverKey).
		SetBody(reqBody).
		Post(c.endpoint)
	if err != nil {
		return failure(domain.ChannelFCM, fmt.Sprintf("fcm request failed: %v", err))
	}

	if response.StatusCode() != http.StatusOK {
		return failure(domain.ChannelFCM, fmt.Sprintf("fcm returned status %d", response.StatusCode()))
	}

	var parsed fcmResponse
	if err := json.Unmarshal(response.Body(), &parsed); err != nil {
		return failure(domain.ChannelFCM, fmt.Sprintf("fcm response decode failed: %v", err))
	}

	if parsed.Success < 1 {
		detail := "fcm rejected the message"
		if len(parsed.Results) > 0 && parsed.Results[0].Error != "" {
			detail = fmt.Sprintf("fcm rejected the message: %s", parsed.Results[0].Error)
		}
		return failure(domain.ChannelFCM, detail)
	}

	outcome := domain.DispatchOutcome{
		Channel: domain.ChannelFCM,
		Success: true,
	}
	if len(parsed.Results) > 0 {
		outcome.ProviderMessageID = parsed.Results[0].MessageID
	}
	return outcome
}

// messageData is the custom payload the app reads on tap.
func messageData(msg domain.ComposedMessage) map[string]string {
	data := map[string]string{
		"kind":      string(msg.Kind),
		"tapAction": msg.TapAction,
	}
	if msg.PrayerName != "" {
		data["prayer"] = msg.PrayerName.String()
	}
	if msg.EventID != "" {
		data["eventId"] = msg.EventID
	}
	return data
}
