package domain

// DateInfo carries the Gregorian and Hijri representations of one day.
type DateInfo struct {
	Readable  string
	Gregorian string
	Hijri     string
}

// PrayerSet is one day's normalized prayer timetable. Timings are plain
// "HH:MM" strings with any provider timezone suffix already stripped.
// Jumma always mirrors dhuhr. Immutable after construction.
type PrayerSet struct {
	Date    DateInfo
	Prayers map[PrayerName]string
	Meta    TimetableMeta
}

// TimetableMeta is provider-supplied calculation metadata.
type TimetableMeta struct {
	Latitude   float64
	Longitude  float64
	Timezone   string
	MethodID   int
	MethodName string
}

// QiblaInfo is the compass bearing toward the Kaaba from a coordinate pair.
// The direction is constant for a fixed location.
type QiblaInfo struct {
	Direction float64
	Latitude  float64
	Longitude float64
}

// IslamicDate pairs today's Hijri date with its Gregorian equivalent.
type IslamicDate struct {
	Hijri     string
	HijriDay  string
	Gregorian string
	Weekday   string
}
