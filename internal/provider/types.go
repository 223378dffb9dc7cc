package provider

// Envelope is the top-level Aladhan API response shape.
type Envelope[T any] struct {
	Code   int    `json:"code"`
	Status string `json:"status"`
	Data   T      `json:"data"`
}

// DayData holds one day's timings, date info, and calculation metadata.
type DayData struct {
	Timings Timings  `json:"timings"`
	Date    DateInfo `json:"date"`
	Meta    Meta     `json:"meta"`
}

// Timings contains prayer and event times as HH:MM strings. The API may
// append a timezone suffix like " (GMT)"; normalization strips it.
type Timings struct {
	Fajr    string `json:"Fajr"`
	Sunrise string `json:"Sunrise"`
	Dhuhr   string `json:"Dhuhr"`
	Asr     string `json:"Asr"`
	Sunset  string `json:"Sunset"`
	Maghrib string `json:"Maghrib"`
	Isha    string `json:"Isha"`
	Imsak   string `json:"Imsak"`
}

// DateInfo carries the Gregorian and Hijri representations of the day.
type DateInfo struct {
	Readable  string        `json:"readable"`
	Timestamp string        `json:"timestamp"`
	Hijri     HijriDate     `json:"hijri"`
	Gregorian GregorianDate `json:"gregorian"`
}

// HijriDate is the Islamic lunar date as the API reports it.
type HijriDate struct {
	Date    string     `json:"date"`
	Day     string     `json:"day"`
	Weekday WeekdayRef `json:"weekday"`
	Month   MonthRef   `json:"month"`
	Year    string     `json:"year"`
}

// GregorianDate is the civil date alongside the Hijri one.
type GregorianDate struct {
	Date    string     `json:"date"`
	Day     string     `json:"day"`
	Weekday WeekdayRef `json:"weekday"`
	Month   MonthRef   `json:"month"`
	Year    string     `json:"year"`
}

type WeekdayRef struct {
	En string `json:"en"`
	Ar string `json:"ar,omitempty"`
}

type MonthRef struct {
	Number int    `json:"number"`
	En     string `json:"en"`
	Ar     string `json:"ar,omitempty"`
}

// Meta is the calculation metadata attached to each day.
type Meta struct {
	Latitude  float64    `json:"latitude"`
	Longitude float64    `json:"longitude"`
	Timezone  string     `json:"timezone"`
	Method    MethodInfo `json:"method"`
}

type MethodInfo struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// QiblaData is the qibla endpoint's payload: a compass bearing in degrees
// for the requested coordinates.
type QiblaData struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Direction float64 `json:"direction"`
}
