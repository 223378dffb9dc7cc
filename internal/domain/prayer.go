package domain

import (
	"fmt"
	"strings"
)

// PrayerName identifies one of the daily prayers.
type PrayerName string

const (
	PrayerFajr    PrayerName = "FAJR"
	PrayerSunrise PrayerName = "SUNRISE"
	PrayerDhuhr   PrayerName = "DHUHR"
	PrayerAsr     PrayerName = "ASR"
	PrayerMaghrib PrayerName = "MAGHRIB"
	PrayerIsha    PrayerName = "ISHA"
	PrayerJumma   PrayerName = "JUMMA"
)

func (p PrayerName) String() string { return string(p) }

func (p PrayerName) IsValid() bool {
	switch p {
	case PrayerFajr, PrayerSunrise, PrayerDhuhr, PrayerAsr, PrayerMaghrib, PrayerIsha, PrayerJumma:
		return true
	}
	return false
}

func ParsePrayerName(s string) (PrayerName, error) {
	p := PrayerName(strings.ToUpper(strings.TrimSpace(s)))
	if !p.IsValid() {
		return "", fmt.Errorf("%w: invalid prayer name %q", ErrValidation, s)
	}
	return p, nil
}

// AlertablePrayers is the canonical scan order for next-prayer and
// alert-window checks. Sunrise and jumma are never alerted on directly.
var AlertablePrayers = []PrayerName{
	PrayerFajr,
	PrayerDhuhr,
	PrayerAsr,
	PrayerMaghrib,
	PrayerIsha,
}

// Language selects the localized template set for composed messages.
type Language string

const (
	LanguageEnglish Language = "en"
	LanguageArabic  Language = "ar"
	LanguageUrdu    Language = "ur"
)

func (l Language) String() string { return string(l) }

func (l Language) IsValid() bool {
	switch l {
	case LanguageEnglish, LanguageArabic, LanguageUrdu:
		return true
	}
	return false
}

func ParseLanguage(s string) (Language, error) {
	l := Language(strings.ToLower(strings.TrimSpace(s)))
	if !l.IsValid() {
		return "", fmt.Errorf("%w: invalid language %q", ErrValidation, s)
	}
	return l, nil
}
