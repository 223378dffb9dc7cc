package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/masjidhub/prayer-engine/internal/cache"
	"github.com/masjidhub/prayer-engine/internal/domain"
	"github.com/masjidhub/prayer-engine/internal/observability"
	"github.com/masjidhub/prayer-engine/internal/provider"
	"go.uber.org/zap"
)

// Reference location for location-agnostic Hijri date display: Mecca.
const (
	referenceLatitude  = 21.4225
	referenceLongitude = 39.8262
)

const providerDateLayout = "02-01-2006"

// DailyQuery is a daily timetable request. Zero values take defaults:
// today's date and the ISNA calculation method.
type DailyQuery struct {
	Latitude  float64
	Longitude float64
	Date      string // DD-MM-YYYY, optional
	Method    int    // optional
	Timezone  string // optional
}

// MonthQuery is a monthly timetable request. Zero year/month default to the
// current month.
type MonthQuery struct {
	Latitude  float64
	Longitude float64
	Year      int
	Month     int
	Method    int
}

// TimetableService resolves prayer timetables, qibla directions, and Hijri
// dates through the cache. Network failures surface as *provider.ProviderError;
// retrying is the caller's decision.
type TimetableService struct {
	client  provider.TimetableClient
	store   *cache.Cache
	logger  *zap.Logger
	metrics *observability.Metrics
	now     func() time.Time
}

func NewTimetableService(
	client provider.TimetableClient,
	store *cache.Cache,
	logger *zap.Logger,
) (*TimetableService, error) {
	if client == nil {
		return nil, fmt.Errorf("timetable client is required")
	}
	if store == nil {
		return nil, fmt.Errorf("cache is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &TimetableService{
		client: client,
		store:  store,
		logger: logger,
		now:    time.Now,
	}, nil
}

// WithMetrics attaches the prometheus collectors. Optional; nil metrics are
// safe everywhere.
func (s *TimetableService) WithMetrics(m *observability.Metrics) *TimetableService {
	s.metrics = m
	return s
}

// GetDailyTimes returns one day's normalized prayer set, fetching on cache
// miss. Jumma always mirrors dhuhr.
func (s *TimetableService) GetDailyTimes(ctx context.Context, q DailyQuery) (*domain.PrayerSet, error) {
	if q.Date == "" {
		q.Date = s.now().Format(providerDateLayout)
	}
	if q.Method == 0 {
		q.Method = provider.DefaultMethod
	}

	key := fmt.Sprintf("daily:%s:%s:%s:%d",
		coordKey(q.Latitude), coordKey(q.Longitude), q.Date, q.Method)
	if cached, ok := s.store.Get(key); ok {
		s.recordCache("daily", true)
		set := cached.(domain.PrayerSet)
		return &set, nil
	}
	s.recordCache("daily", false)

	start := s.now()
	day, err := s.client.DailyTimes(ctx, provider.TimingsQuery{
		Latitude:  q.Latitude,
		Longitude: q.Longitude,
		Date:      q.Date,
		Method:    q.Method,
		Timezone:  q.Timezone,
	})
	s.recordProvider("daily", start, err)
	if err != nil {
		return nil, err
	}

	set := prayerSetFromDay(*day)
	s.store.Set(key, set)

	return &set, nil
}

// GetMonthlyTimes returns a month of normalized prayer sets.
func (s *TimetableService) GetMonthlyTimes(ctx context.Context, q MonthQuery) ([]domain.PrayerSet, error) {
	if q.Year == 0 || q.Month == 0 {
		now := s.now()
		if q.Year == 0 {
			q.Year = now.Year()
		}
		if q.Month == 0 {
			q.Month = int(now.Month())
		}
	}
	if q.Method == 0 {
		q.Method = provider.DefaultMethod
	}

	key := fmt.Sprintf("monthly:%s:%s:%d:%d:%d",
		coordKey(q.Latitude), coordKey(q.Longitude), q.Year, q.Month, q.Method)
	if cached, ok := s.store.Get(key); ok {
		s.recordCache("monthly", true)
		return cached.([]domain.PrayerSet), nil
	}
	s.recordCache("monthly", false)

	start := s.now()
	days, err := s.client.MonthlyTimes(ctx, provider.MonthlyQuery{
		Latitude:  q.Latitude,
		Longitude: q.Longitude,
		Year:      q.Year,
		Month:     q.Month,
		Method:    q.Method,
	})
	s.recordProvider("monthly", start, err)
	if err != nil {
		return nil, err
	}

	sets := make([]domain.PrayerSet, 0, len(days))
	for _, day := range days {
		sets = append(sets, prayerSetFromDay(day))
	}
	s.store.Set(key, sets)

	return sets, nil
}

// GetQibla returns the qibla bearing for a coordinate pair. The direction is
// constant for a fixed location, so the entry is cached without expiry.
func (s *TimetableService) GetQibla(ctx context.Context, latitude, longitude float64) (*domain.QiblaInfo, error) {
	key := fmt.Sprintf("qibla:%s:%s", coordKey(latitude), coordKey(longitude))
	if cached, ok := s.store.Get(key); ok {
		s.recordCache("qibla", true)
		info := cached.(domain.QiblaInfo)
		return &info, nil
	}
	s.recordCache("qibla", false)

	start := s.now()
	data, err := s.client.Qibla(ctx, latitude, longitude)
	s.recordProvider("qibla", start, err)
	if err != nil {
		return nil, err
	}

	info := domain.QiblaInfo{
		Direction: data.Direction,
		Latitude:  latitude,
		Longitude: longitude,
	}
	s.store.SetWithTTL(key, info, cache.NoExpiry)

	return &info, nil
}

// GetIslamicDate returns today's Hijri date alongside the Gregorian one.
// Callers without a location get the fixed reference coordinates; the result
// is cached per calendar day.
func (s *TimetableService) GetIslamicDate(ctx context.Context, latitude, longitude float64) (*domain.IslamicDate, error) {
	if latitude == 0 && longitude == 0 {
		latitude = referenceLatitude
		longitude = referenceLongitude
	}

	date := s.now().Format(providerDateLayout)
	key := fmt.Sprintf("hijri:%s:%s:%s", date, coordKey(latitude), coordKey(longitude))
	if cached, ok := s.store.Get(key); ok {
		s.recordCache("hijri", true)
		islamic := cached.(domain.IslamicDate)
		return &islamic, nil
	}
	s.recordCache("hijri", false)

	start := s.now()
	day, err := s.client.DailyTimes(ctx, provider.TimingsQuery{
		Latitude:  latitude,
		Longitude: longitude,
		Date:      date,
		Method:    provider.DefaultMethod,
	})
	s.recordProvider("hijri", start, err)
	if err != nil {
		return nil, err
	}

	islamic := domain.IslamicDate{
		Hijri:     day.Date.Hijri.Date,
		HijriDay:  day.Date.Hijri.Day,
		Gregorian: day.Date.Gregorian.Date,
		Weekday:   day.Date.Gregorian.Weekday.En,
	}
	s.store.Set(key, islamic)

	return &islamic, nil
}

// InvalidateAll clears the timetable cache, including qibla entries.
func (s *TimetableService) InvalidateAll() {
	s.store.Clear()
}

// CacheStats exposes the cache snapshot for diagnostics.
func (s *TimetableService) CacheStats() cache.Stats {
	return s.store.Stats()
}

func (s *TimetableService) recordCache(kind string, hit bool) {
	if s.metrics == nil {
		return
	}
	if hit {
		s.metrics.IncCacheHit(kind)
		return
	}
	s.metrics.IncCacheMiss(kind)
}

func (s *TimetableService) recordProvider(endpoint string, start time.Time, err error) {
	if err != nil {
		s.logger.Warn("timetable fetch failed",
			zap.String("endpoint", endpoint),
			zap.Error(err),
		)
	}
	if s.metrics != nil {
		s.metrics.ObserveProviderRequestDuration(endpoint, s.now().Sub(start))
	}
}

// prayerSetFromDay normalizes one raw provider day: timing strings are
// stripped of timezone suffixes and jumma is derived from dhuhr.
func prayerSetFromDay(day provider.DayData) domain.PrayerSet {
	dhuhr := domain.CleanClock(day.Timings.Dhuhr)

	return domain.PrayerSet{
		Date: domain.DateInfo{
			Readable:  day.Date.Readable,
			Gregorian: day.Date.Gregorian.Date,
			Hijri:     day.Date.Hijri.Date,
		},
		Prayers: map[domain.PrayerName]string{
			domain.PrayerFajr:    domain.CleanClock(day.Timings.Fajr),
			domain.PrayerSunrise: domain.CleanClock(day.Timings.Sunrise),
			domain.PrayerDhuhr:   dhuhr,
			domain.PrayerAsr:     domain.CleanClock(day.Timings.Asr),
			domain.PrayerMaghrib: domain.CleanClock(day.Timings.Maghrib),
			domain.PrayerIsha:    domain.CleanClock(day.Timings.Isha),
			domain.PrayerJumma:   dhuhr,
		},
		Meta: domain.TimetableMeta{
			Latitude:   day.Meta.Latitude,
			Longitude:  day.Meta.Longitude,
			Timezone:   day.Meta.Timezone,
			MethodID:   day.Meta.Method.ID,
			MethodName: day.Meta.Method.Name,
		},
	}
}

func coordKey(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}
