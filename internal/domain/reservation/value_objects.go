package reservation

import (
	"regexp"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

type Email struct {
	value string
}

func NewEmail(s string) (Email, error) {
	s = strings.TrimSpace(s)
	if !emailRegex.MatchString(s) {
		return Email{}, ErrInvalidEmail
	}
	return Email{value: s}, nil
}

func (e Email) Value() string {
	return e.value
}

// endOfDay is used wherever a slot has no usable time of day.
var endOfDay = civil.Time{Hour: 23, Minute: 59, Second: 59, Nanosecond: 999999999}

// Slot is a calendar date with an optional local time of day.
type Slot struct {
	date    civil.Date
	time    civil.Time
	hasTime bool
}

// NewSlot validates a slot coming from user input. A nil time means "no time given".
func NewSlot(date civil.Date, t *civil.Time) (Slot, error) {
	if date == (civil.Date{}) || !date.IsValid() {
		return Slot{}, ErrInvalidSlot
	}
	if t == nil {
		return Slot{date: date}, nil
	}
	if !t.IsValid() {
		return Slot{}, ErrInvalidSlot
	}
	return Slot{date: date, time: *t, hasTime: true}, nil
}

// RestoreSlot rebuilds a slot from stored text. A blank or malformed time is
// kept as "no time" instead of failing the whole record.
func RestoreSlot(date civil.Date, rawTime string) Slot {
	s := Slot{date: date}
	rawTime = strings.TrimSpace(rawTime)
	if rawTime == "" {
		return s
	}
	if t, ok := parseTimeOfDay(rawTime); ok {
		s.time = t
		s.hasTime = true
	}
	return s
}

func parseTimeOfDay(raw string) (civil.Time, bool) {
	if t, err := civil.ParseTime(raw); err == nil && t.IsValid() {
		return t, true
	}
	if t, err := time.Parse("15:04", raw); err == nil {
		return civil.TimeOf(t), true
	}
	return civil.Time{}, false
}

func (s Slot) Date() civil.Date {
	return s.date
}

// Time returns the time of day and whether one is set.
func (s Slot) Time() (civil.Time, bool) {
	return s.time, s.hasTime
}

func (s Slot) HasTime() bool {
	return s.hasTime
}

// EffectiveTime is the time of day used for ordering and lateness.
func (s Slot) EffectiveTime() civil.Time {
	if !s.hasTime {
		return endOfDay
	}
	return s.time
}

// Instant resolves the slot in the given location.
func (s Slot) Instant(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return civil.DateTime{Date: s.date, Time: s.EffectiveTime()}.In(loc)
}

// TimeText renders the time as HH:MM, or "" when the slot has none.
func (s Slot) TimeText() string {
	if !s.hasTime {
		return ""
	}
	return s.time.String()[:5]
}

// Before orders slots by date, then by effective time of day.
func (s Slot) Before(other Slot) bool {
	if s.date != other.date {
		return s.date.Before(other.date)
	}
	return nanosOfDay(s.EffectiveTime()) < nanosOfDay(other.EffectiveTime())
}

func nanosOfDay(t civil.Time) int64 {
	return ((int64(t.Hour)*60+int64(t.Minute))*60+int64(t.Second))*int64(time.Second) + int64(t.Nanosecond)
}

// StatusChange is one entry of a reservation's status history.
type StatusChange struct {
	Status Status    `json:"status" bson:"status"`
	Action Action    `json:"action,omitempty" bson:"action,omitempty"`
	At     time.Time `json:"at" bson:"at"`
	By     string    `json:"by,omitempty" bson:"by,omitempty"`
}

// ConfirmationCodeFor derives the short code quoted to guests.
func ConfirmationCodeFor(id uuid.UUID) string {
	return strings.ToUpper(strings.ReplaceAll(id.String(), "-", "")[:8])
}
