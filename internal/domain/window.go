package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// NextPrayerResult reports the first prayer of the day still ahead of "now".
// NextDay is set when every prayer has already passed, in which case Name is
// fajr and Remaining is empty.
type NextPrayerResult struct {
	Name      PrayerName
	Time      string
	Remaining string
	NextDay   bool
}

// AlertMatch reports the first prayer whose time falls inside the alert window.
type AlertMatch struct {
	Matched      bool
	Name         PrayerName
	Time         string
	MinutesUntil int
}

// NextPrayer scans fajr → isha and returns the first prayer strictly after
// now. Callers inject now so the check stays deterministic under test.
func NextPrayer(set PrayerSet, now time.Time) NextPrayerResult {
	nowMins := now.Hour()*60 + now.Minute()

	for _, name := range AlertablePrayers {
		mins, err := ParseClock(set.Prayers[name])
		if err != nil {
			continue
		}
		if mins > nowMins {
			return NextPrayerResult{
				Name:      name,
				Time:      set.Prayers[name],
				Remaining: FormatRemaining(mins - nowMins),
			}
		}
	}

	// Every prayer has passed; the next one is tomorrow's fajr.
	return NextPrayerResult{
		Name:    PrayerFajr,
		Time:    set.Prayers[PrayerFajr],
		NextDay: true,
	}
}

// MatchAlertWindow returns the first prayer (fajr-first order) whose absolute
// distance from now is at most alertMinutes. Distance is computed within the
// same day: a window straddling midnight never matches the adjacent day's
// prayer.
func MatchAlertWindow(set PrayerSet, now time.Time, alertMinutes int) AlertMatch {
	nowMins := now.Hour()*60 + now.Minute()

	for _, name := range AlertablePrayers {
		mins, err := ParseClock(set.Prayers[name])
		if err != nil {
			continue
		}
		distance := mins - nowMins
		if distance < 0 {
			distance = -distance
		}
		if distance <= alertMinutes {
			return AlertMatch{
				Matched:      true,
				Name:         name,
				Time:         set.Prayers[name],
				MinutesUntil: mins - nowMins,
			}
		}
	}

	return AlertMatch{}
}

// ParseClock converts an "HH:MM" string into minutes since midnight.
func ParseClock(clock string) (int, error) {
	parts := strings.SplitN(strings.TrimSpace(clock), ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("%w: invalid clock %q", ErrValidation, clock)
	}

	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("%w: invalid clock %q", ErrValidation, clock)
	}
	mins, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("%w: invalid clock %q", ErrValidation, clock)
	}
	if hours < 0 || hours > 23 || mins < 0 || mins > 59 {
		return 0, fmt.Errorf("%w: clock out of range %q", ErrValidation, clock)
	}

	return hours*60 + mins, nil
}

// CleanClock strips a trailing timezone annotation from a provider timing
// string, e.g. "15:45 (GMT)" → "15:45".
func CleanClock(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if idx := strings.Index(trimmed, " "); idx >= 0 {
		trimmed = trimmed[:idx]
	}
	return trimmed
}

// FormatRemaining renders a minute count as "45m" below one hour and
// "2h 5m" from one hour up.
func FormatRemaining(minutes int) string {
	if minutes < 0 {
		minutes = 0
	}
	if minutes < 60 {
		return fmt.Sprintf("%dm", minutes)
	}
	return fmt.Sprintf("%dh %dm", minutes/60, minutes%60)
}
