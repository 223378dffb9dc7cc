// Package composer renders localized push payloads for prayer and event alerts.
package composer

import (
	"fmt"
	"strings"

	"github.com/masjidhub/prayer-engine/internal/domain"
)

const (
	prayerSound        = "athan.mp3"
	defaultSound       = "default"
	prayerChannelGroup = "prayer-alerts"
	eventChannelGroup  = "event-alerts"
	testChannelGroup   = "test-alerts"

	tapActionPrayer = "prayer"
	tapActionEvent  = "event"
	tapActionTest   = "test"
)

type prayerTemplate struct {
	title string
	body  string // %s is the prayer time
}

// Template tables are keyed by language, then prayer. Unsupported languages
// fall back to English; unknown prayer names fall back to fajr's copy.
var prayerTemplates = map[domain.Language]map[domain.PrayerName]prayerTemplate{
	domain.LanguageEnglish: {
		domain.PrayerFajr:    {title: "Fajr Prayer", body: "It's time for Fajr prayer (%s). Start your day with remembrance."},
		domain.PrayerDhuhr:   {title: "Dhuhr Prayer", body: "It's time for Dhuhr prayer (%s)."},
		domain.PrayerAsr:     {title: "Asr Prayer", body: "It's time for Asr prayer (%s)."},
		domain.PrayerMaghrib: {title: "Maghrib Prayer", body: "It's time for Maghrib prayer (%s)."},
		domain.PrayerIsha:    {title: "Isha Prayer", body: "It's time for Isha prayer (%s)."},
		domain.PrayerJumma:   {title: "Jumma Prayer", body: "Jumma prayer begins at %s. Don't miss the khutbah."},
	},
	domain.LanguageArabic: {
		domain.PrayerFajr:    {title: "صلاة الفجر", body: "حان الآن وقت صلاة الفجر (%s)."},
		domain.PrayerDhuhr:   {title: "صلاة الظهر", body: "حان الآن وقت صلاة الظهر (%s)."},
		domain.PrayerAsr:     {title: "صلاة العصر", body: "حان الآن وقت صلاة العصر (%s)."},
		domain.PrayerMaghrib: {title: "صلاة المغرب", body: "حان الآن وقت صلاة المغرب (%s)."},
		domain.PrayerIsha:    {title: "صلاة العشاء", body: "حان الآن وقت صلاة العشاء (%s)."},
		domain.PrayerJumma:   {title: "صلاة الجمعة", body: "تبدأ صلاة الجمعة في %s."},
	},
}

type eventTemplate struct {
	title string // %s is the event title
	body  string // %s is the description, optionally followed by the date
}

var eventTemplates = map[domain.Language]eventTemplate{
	domain.LanguageEnglish: {title: "Event: %s", body: "%s"},
	domain.LanguageArabic:  {title: "فعالية: %s", body: "%s"},
}

// PrayerMessage renders a prayer alert in the requested language.
// Unrecognized prayer names get fajr's template, a deliberate fallback
// rather than an error.
func PrayerMessage(name domain.PrayerName, prayerTime string, lang domain.Language) domain.ComposedMessage {
	table, ok := prayerTemplates[lang]
	if !ok {
		table = prayerTemplates[domain.LanguageEnglish]
	}

	tmpl, ok := table[name]
	if !ok {
		tmpl = table[domain.PrayerFajr]
	}

	return domain.ComposedMessage{
		Title:        tmpl.title,
		Body:         fmt.Sprintf(tmpl.body, prayerTime),
		Kind:         domain.KindPrayer,
		PrayerName:   name,
		Sound:        prayerSound,
		ChannelGroup: prayerChannelGroup,
		TapAction:    tapActionPrayer,
	}
}

// EventMessage renders a community event alert. Date is optional and is
// appended to the body when present.
func EventMessage(event domain.Event, lang domain.Language) domain.ComposedMessage {
	tmpl, ok := eventTemplates[lang]
	if !ok {
		tmpl = eventTemplates[domain.LanguageEnglish]
	}

	body := fmt.Sprintf(tmpl.body, event.Description)
	if date := strings.TrimSpace(event.Date); date != "" {
		body = fmt.Sprintf("%s — %s", body, date)
	}

	return domain.ComposedMessage{
		Title:        fmt.Sprintf(tmpl.title, event.Title),
		Body:         body,
		Kind:         domain.KindEvent,
		EventID:      event.ID,
		Sound:        defaultSound,
		ChannelGroup: eventChannelGroup,
		TapAction:    tapActionEvent,
	}
}

// TestMessage renders the fixed delivery-check copy.
func TestMessage(name domain.PrayerName) domain.ComposedMessage {
	body := "This is a test notification. Your device is set up correctly."
	if name != "" {
		body = fmt.Sprintf("This is a test notification for %s. Your device is set up correctly.", titleCase(name.String()))
	}

	return domain.ComposedMessage{
		Title:        "Test Notification",
		Body:         body,
		Kind:         domain.KindTest,
		PrayerName:   name,
		Sound:        defaultSound,
		ChannelGroup: testChannelGroup,
		TapAction:    tapActionTest,
	}
}

func titleCase(s string) string {
	lower := strings.ToLower(s)
	if lower == "" {
		return lower
	}
	return strings.ToUpper(lower[:1]) + lower[1:]
}
