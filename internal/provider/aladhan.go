package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	// DefaultBaseURL is the public Aladhan API.
	DefaultBaseURL = "https://api.aladhan.com/v1"

	// DefaultMethod is ISNA (Islamic Society of North America).
	DefaultMethod = 2

	defaultRequestTimeout = 10 * time.Second
)

// AladhanClient calls the Aladhan timetable and qibla endpoints. Each call
// carries the client timeout; no retries are performed here.
type AladhanClient struct {
	client  *resty.Client
	baseURL string
}

func NewAladhanClient(baseURL string) (*AladhanClient, error) {
	client := resty.New()
	client.SetTimeout(defaultRequestTimeout)
	client.SetRetryCount(0)

	return NewAladhanClientWithClient(baseURL, client)
}

func NewAladhanClientWithClient(baseURL string, client *resty.Client) (*AladhanClient, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if trimmed == "" {
		trimmed = DefaultBaseURL
	}
	if _, err := url.ParseRequestURI(trimmed); err != nil {
		return nil, fmt.Errorf("invalid timetable base url: %w", err)
	}
	if client == nil {
		return nil, fmt.Errorf("resty client is required")
	}

	if client.GetClient().Timeout == 0 {
		client.SetTimeout(defaultRequestTimeout)
	}
	client.SetRetryCount(0)

	return &AladhanClient{
		client:  client,
		baseURL: trimmed,
	}, nil
}

var _ TimetableClient = (*AladhanClient)(nil)

// DailyTimes fetches one day's timings. Date must already be resolved to
// DD-MM-YYYY and method to a numeric code by the caller.
func (c *AladhanClient) DailyTimes(ctx context.Context, q TimingsQuery) (*DayData, error) {
	params := map[string]string{
		"latitude":  formatCoordinate(q.Latitude),
		"longitude": formatCoordinate(q.Longitude),
		"method":    strconv.Itoa(q.Method),
	}
	if tz := strings.TrimSpace(q.Timezone); tz != "" {
		params["timezonestring"] = tz
	}

	body, err := c.get(ctx, fmt.Sprintf("%s/timings/%s", c.baseURL, url.PathEscape(q.Date)), params)
	if err != nil {
		return nil, err
	}

	var envelope Envelope[DayData]
	if err := decodeEnvelope(body, &envelope); err != nil {
		return nil, err
	}

	return &envelope.Data, nil
}

// MonthlyTimes fetches a whole month's timings in one calendar call.
func (c *AladhanClient) MonthlyTimes(ctx context.Context, q MonthlyQuery) ([]DayData, error) {
	params := map[string]string{
		"latitude":  formatCoordinate(q.Latitude),
		"longitude": formatCoordinate(q.Longitude),
		"method":    strconv.Itoa(q.Method),
		"month":     strconv.Itoa(q.Month),
		"year":      strconv.Itoa(q.Year),
	}

	body, err := c.get(ctx, c.baseURL+"/calendar", params)
	if err != nil {
		return nil, err
	}

	var envelope Envelope[[]DayData]
	if err := decodeEnvelope(body, &envelope); err != nil {
		return nil, err
	}

	return envelope.Data, nil
}

// Qibla fetches the compass bearing for a coordinate pair.
func (c *AladhanClient) Qibla(ctx context.Context, latitude, longitude float64) (*QiblaData, error) {
	endpoint := fmt.Sprintf("%s/qibla/%s/%s",
		c.baseURL,
		formatCoordinate(latitude),
		formatCoordinate(longitude),
	)

	body, err := c.get(ctx, endpoint, nil)
	if err != nil {
		return nil, err
	}

	var envelope Envelope[QiblaData]
	if err := decodeEnvelope(body, &envelope); err != nil {
		return nil, err
	}

	return &envelope.Data, nil
}

func (c *AladhanClient) get(ctx context.Context, endpoint string, params map[string]string) ([]byte, error) {
	if c == nil || c.client == nil {
		return nil, fmt.Errorf("client is not initialized")
	}

	req := c.client.R().SetContext(ctx)
	if len(params) > 0 {
		req.SetQueryParams(params)
	}

	response, err := req.Get(endpoint)
	if err != nil {
		return nil, &ProviderError{
			Message:   "timetable request failed",
			Transient: !errors.Is(err, context.Canceled),
			Cause:     err,
		}
	}
	if response == nil {
		return nil, &ProviderError{
			Message:   "timetable service returned empty response",
			Transient: true,
		}
	}

	statusCode := response.StatusCode()
	if statusCode < http.StatusOK || statusCode >= http.StatusMultipleChoices {
		return nil, &ProviderError{
			StatusCode: statusCode,
			Message:    fmt.Sprintf("timetable service returned status %d", statusCode),
			Transient:  isTransientHTTPStatus(statusCode),
		}
	}

	return response.Body(), nil
}

func decodeEnvelope[T any](body []byte, envelope *Envelope[T]) error {
	if err := json.Unmarshal(body, envelope); err != nil {
		return &ProviderError{
			Message:   "failed to decode timetable response",
			Transient: false,
			Cause:     err,
		}
	}

	if envelope.Code != http.StatusOK {
		return &ProviderError{
			StatusCode: envelope.Code,
			Message:    fmt.Sprintf("timetable service reported %q (code %d)", envelope.Status, envelope.Code),
			Transient:  isTransientHTTPStatus(envelope.Code),
		}
	}

	return nil
}

func isTransientHTTPStatus(statusCode int) bool {
	return statusCode == http.StatusTooManyRequests || (statusCode >= http.StatusInternalServerError && statusCode <= 599)
}

func formatCoordinate(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
