package provider

import "context"

// TimingsQuery identifies one day's timetable request.
type TimingsQuery struct {
	Latitude  float64
	Longitude float64
	Date      string // DD-MM-YYYY
	Method    int
	Timezone  string // optional IANA zone, e.g. Europe/London
}

// MonthlyQuery identifies one month's timetable request.
type MonthlyQuery struct {
	Latitude  float64
	Longitude float64
	Year      int
	Month     int
	Method    int
}

// TimetableClient is the outbound port to the prayer-time calculation
// service. Faking this interface in tests gives full control over provider
// behaviour without real HTTP calls.
type TimetableClient interface {
	DailyTimes(ctx context.Context, q TimingsQuery) (*DayData, error)
	MonthlyTimes(ctx context.Context, q MonthlyQuery) ([]DayData, error)
	Qibla(ctx context.Context, latitude, longitude float64) (*QiblaData, error)
}
