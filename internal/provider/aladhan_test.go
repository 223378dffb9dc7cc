package provider

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

const dailyResponse = `{
	"code": 200,
	"status": "OK",
	"data": {
		"timings": {
			"Fajr": "05:00 (GMT)",
			"Sunrise": "06:25 (GMT)",
			"Dhuhr": "12:30 (GMT)",
			"Asr": "15:45 (GMT)",
			"Maghrib": "18:20 (GMT)",
			"Isha": "20:00 (GMT)"
		},
		"date": {
			"readable": "01 Mar 2026",
			"hijri": {"date": "12-09-1447", "year": "1447", "weekday": {"en": "Al Ahad"}},
			"gregorian": {"date": "01-03-2026", "weekday": {"en": "Sunday"}}
		},
		"meta": {
			"latitude": 51.5074,
			"longitude": -0.1278,
			"timezone": "Europe/London",
			"method": {"id": 2, "name": "Islamic Society of North America (ISNA)"}
		}
	}
}`

func TestAladhanClientDailyTimes(t *testing.T) {
	t.Parallel()

	var gotPath string
	var gotQuery map[string]string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = map[string]string{
			"latitude":  r.URL.Query().Get("latitude"),
			"longitude": r.URL.Query().Get("longitude"),
			"method":    r.URL.Query().Get("method"),
			"timezone":  r.URL.Query().Get("timezonestring"),
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(dailyResponse))
	}))
	defer server.Close()

	client, err := NewAladhanClient(server.URL)
	if err != nil {
		t.Fatalf("NewAladhanClient() error = %v", err)
	}

	day, err := client.DailyTimes(context.Background(), TimingsQuery{
		Latitude:  51.5074,
		Longitude: -0.1278,
		Date:      "01-03-2026",
		Method:    2,
		Timezone:  "Europe/London",
	})
	if err != nil {
		t.Fatalf("DailyTimes() unexpected error: %v", err)
	}

	if gotPath != "/timings/01-03-2026" {
		t.Fatalf("path = %q, want /timings/01-03-2026", gotPath)
	}
	if gotQuery["latitude"] != "51.5074" || gotQuery["longitude"] != "-0.1278" {
		t.Fatalf("coordinates = %v, want 51.5074/-0.1278", gotQuery)
	}
	if gotQuery["method"] != "2" {
		t.Fatalf("method = %q, want 2", gotQuery["method"])
	}
	if gotQuery["timezone"] != "Europe/London" {
		t.Fatalf("timezonestring = %q, want Europe/London", gotQuery["timezone"])
	}

	if day.Timings.Asr != "15:45 (GMT)" {
		t.Fatalf("Asr = %q, want raw provider string", day.Timings.Asr)
	}
	if day.Date.Hijri.Date != "12-09-1447" {
		t.Fatalf("hijri date = %q, want 12-09-1447", day.Date.Hijri.Date)
	}
	if day.Meta.Method.ID != 2 {
		t.Fatalf("method id = %d, want 2", day.Meta.Method.ID)
	}
}

func TestAladhanClientMonthlyTimes(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/calendar" {
			t.Errorf("path = %q, want /calendar", r.URL.Path)
		}
		if r.URL.Query().Get("month") != "3" || r.URL.Query().Get("year") != "2026" {
			t.Errorf("month/year = %s/%s, want 3/2026", r.URL.Query().Get("month"), r.URL.Query().Get("year"))
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"code": 200,
			"status": "OK",
			"data": [
				{"timings": {"Fajr": "05:00"}, "date": {"gregorian": {"date": "01-03-2026"}}},
				{"timings": {"Fajr": "04:58"}, "date": {"gregorian": {"date": "02-03-2026"}}}
			]
		}`))
	}))
	defer server.Close()

	client, err := NewAladhanClient(server.URL)
	if err != nil {
		t.Fatalf("NewAladhanClient() error = %v", err)
	}

	days, err := client.MonthlyTimes(context.Background(), MonthlyQuery{
		Latitude:  51.5074,
		Longitude: -0.1278,
		Year:      2026,
		Month:     3,
		Method:    2,
	})
	if err != nil {
		t.Fatalf("MonthlyTimes() unexpected error: %v", err)
	}

	if len(days) != 2 {
		t.Fatalf("len(days) = %d, want 2", len(days))
	}
	if days[1].Timings.Fajr != "04:58" {
		t.Fatalf("day 2 fajr = %q, want 04:58", days[1].Timings.Fajr)
	}
}

func TestAladhanClientQibla(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/qibla/51.5074/-0.1278" {
			t.Errorf("path = %q, want /qibla/51.5074/-0.1278", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"code": 200,
			"status": "OK",
			"data": {"latitude": 51.5074, "longitude": -0.1278, "direction": 118.99}
		}`))
	}))
	defer server.Close()

	client, err := NewAladhanClient(server.URL)
	if err != nil {
		t.Fatalf("NewAladhanClient() error = %v", err)
	}

	qibla, err := client.Qibla(context.Background(), 51.5074, -0.1278)
	if err != nil {
		t.Fatalf("Qibla() unexpected error: %v", err)
	}
	if qibla.Direction != 118.99 {
		t.Fatalf("direction = %v, want 118.99", qibla.Direction)
	}
}

func TestAladhanClientErrorClassification(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name          string
		statusCode    int
		body          string
		wantTransient bool
	}{
		{name: "too many requests is transient", statusCode: http.StatusTooManyRequests, wantTransient: true},
		{name: "bad request is permanent", statusCode: http.StatusBadRequest, wantTransient: false},
		{name: "internal server error is transient", statusCode: http.StatusInternalServerError, wantTransient: true},
		{
			name:          "non success envelope code is surfaced",
			statusCode:    http.StatusOK,
			body:          `{"code": 400, "status": "Invalid date", "data": {}}`,
			wantTransient: false,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.statusCode)
				body := tc.body
				if body == "" {
					body = "upstream failed"
				}
				_, _ = w.Write([]byte(body))
			}))
			defer server.Close()

			client, err := NewAladhanClient(server.URL)
			if err != nil {
				t.Fatalf("NewAladhanClient() error = %v", err)
			}

			_, err = client.DailyTimes(context.Background(), TimingsQuery{
				Latitude: 1, Longitude: 1, Date: "01-03-2026", Method: 2,
			})
			if err == nil {
				t.Fatal("DailyTimes() expected error")
			}

			var providerErr *ProviderError
			if !errors.As(err, &providerErr) {
				t.Fatalf("error type = %T, want *ProviderError", err)
			}
			if providerErr.Transient != tc.wantTransient {
				t.Fatalf("Transient = %v, want %v", providerErr.Transient, tc.wantTransient)
			}
		})
	}
}

func TestCalculationMethods(t *testing.T) {
	t.Parallel()

	methods := CalculationMethods()
	if len(methods) == 0 {
		t.Fatal("CalculationMethods() should not be empty")
	}
	for i := 1; i < len(methods); i++ {
		if methods[i-1].ID >= methods[i].ID {
			t.Fatalf("catalog not ordered: %d before %d", methods[i-1].ID, methods[i].ID)
		}
	}

	name, ok := MethodName(DefaultMethod)
	if !ok {
		t.Fatal("MethodName(DefaultMethod) should resolve")
	}
	if name != "Islamic Society of North America (ISNA)" {
		t.Fatalf("MethodName(2) = %q, want ISNA", name)
	}

	if _, ok := MethodName(99); ok {
		t.Fatal("MethodName(99) should not resolve")
	}
}
