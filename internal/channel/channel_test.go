package channel

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/masjidhub/prayer-engine/internal/domain"
)

func testMessage() domain.ComposedMessage {
	return domain.ComposedMessage{
		Title:        "Asr Prayer",
		Body:         "It's time for Asr prayer (15:45).",
		Kind:         domain.KindPrayer,
		PrayerName:   domain.PrayerAsr,
		Sound:        "athan.mp3",
		ChannelGroup: "prayer-alerts",
		TapAction:    "prayer",
	}
}

func TestFCMChannelSendSuccess(t *testing.T) {
	t.Parallel()

	var gotAuth string
	var gotBody fcmRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Fatalf("failed to decode request body: %v", err)
		}
		_, _ = w.Write([]byte(`{"success":1,"failure":0,"results":[{"message_id":"fcm-msg-1"}]}`))
	}))
	defer server.Close()

	ch, err := NewFCMChannel(server.URL, "server-key")
	if err != nil {
		t.Fatalf("NewFCMChannel() error = %v", err)
	}

	outcome := ch.Send(context.Background(), "device-token-a", testMessage())
	if !outcome.Success {
		t.Fatalf("Send() failed: %s", outcome.ErrorDetail)
	}
	if outcome.Channel != domain.ChannelFCM {
		t.Fatalf("Channel = %s, want FCM", outcome.Channel)
	}
	if outcome.ProviderMessageID != "fcm-msg-1" {
		t.Fatalf("ProviderMessageID = %q, want fcm-msg-1", outcome.ProviderMessageID)
	}

	if gotAuth != "key=server-key" {
		t.Fatalf("Authorization = %q, want key=server-key", gotAuth)
	}
	if gotBody.To != "device-token-a" {
		t.Fatalf("request.to = %q, want device-token-a", gotBody.To)
	}
	if gotBody.Notification.AndroidChannelID != "prayer-alerts" {
		t.Fatalf("android_channel_id = %q, want prayer-alerts", gotBody.Notification.AndroidChannelID)
	}
	if gotBody.Data["prayer"] != "ASR" {
		t.Fatalf("data.prayer = %q, want ASR", gotBody.Data["prayer"])
	}
}

func TestFCMChannelSendFailuresBecomeOutcomes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		statusCode int
		body       string
	}{
		{name: "http error", statusCode: http.StatusUnauthorized, body: "unauthorized"},
		{name: "rejected token", statusCode: http.StatusOK, body: `{"success":0,"failure":1,"results":[{"error":"NotRegistered"}]}`},
		{name: "malformed body", statusCode: http.StatusOK, body: `{{`},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.statusCode)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			ch, err := NewFCMChannel(server.URL, "server-key")
			if err != nil {
				t.Fatalf("NewFCMChannel() error = %v", err)
			}

			outcome := ch.Send(context.Background(), "device-token-a", testMessage())
			if outcome.Success {
				t.Fatal("Send() should fail")
			}
			if outcome.ErrorDetail == "" {
				t.Fatal("failed outcome should carry an error detail")
			}
		})
	}
}

func TestFCMChannelEmptyTokenIsNotConfigured(t *testing.T) {
	t.Parallel()

	ch, err := NewFCMChannel("http://localhost:0", "server-key")
	if err != nil {
		t.Fatalf("NewFCMChannel() error = %v", err)
	}

	outcome := ch.Send(context.Background(), "  ", testMessage())
	if outcome.Success {
		t.Fatal("empty token should not succeed")
	}
	if outcome.ErrorDetail != "channel not configured: empty device token" {
		t.Fatalf("ErrorDetail = %q", outcome.ErrorDetail)
	}
}

func TestOneSignalChannelSendSuccess(t *testing.T) {
	t.Parallel()

	var gotBody oneSignalRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if auth := r.Header.Get("Authorization"); auth != "Basic rest-key" {
			t.Errorf("Authorization = %q, want Basic rest-key", auth)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Fatalf("failed to decode request body: %v", err)
		}
		_, _ = w.Write([]byte(`{"id":"os-msg-1","recipients":1}`))
	}))
	defer server.Close()

	ch, err := NewOneSignalChannel(server.URL, "app-1", "rest-key")
	if err != nil {
		t.Fatalf("NewOneSignalChannel() error = %v", err)
	}

	outcome := ch.Send(context.Background(), "player-id-b", testMessage())
	if !outcome.Success {
		t.Fatalf("Send() failed: %s", outcome.ErrorDetail)
	}
	if outcome.Channel != domain.ChannelOneSignal {
		t.Fatalf("Channel = %s, want ONESIGNAL", outcome.Channel)
	}
	if outcome.ProviderMessageID != "os-msg-1" {
		t.Fatalf("ProviderMessageID = %q, want os-msg-1", outcome.ProviderMessageID)
	}

	if gotBody.AppID != "app-1" {
		t.Fatalf("app_id = %q, want app-1", gotBody.AppID)
	}
	if len(gotBody.IncludePlayerIDs) != 1 || gotBody.IncludePlayerIDs[0] != "player-id-b" {
		t.Fatalf("include_player_ids = %v, want [player-id-b]", gotBody.IncludePlayerIDs)
	}
	if gotBody.Contents["en"] != "It's time for Asr prayer (15:45)." {
		t.Fatalf("contents.en = %q", gotBody.Contents["en"])
	}
}

func TestOneSignalChannelZeroRecipientsIsFailure(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":"","recipients":0,"errors":["All included players are not subscribed"]}`))
	}))
	defer server.Close()

	ch, err := NewOneSignalChannel(server.URL, "app-1", "rest-key")
	if err != nil {
		t.Fatalf("NewOneSignalChannel() error = %v", err)
	}

	outcome := ch.Send(context.Background(), "player-id-b", testMessage())
	if outcome.Success {
		t.Fatal("zero recipients should be reported as failure")
	}
	if outcome.ErrorDetail == "" {
		t.Fatal("failed outcome should carry an error detail")
	}
}
