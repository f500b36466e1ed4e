package clock

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrNoDate is returned when custom mode is requested without a date.
	ErrNoDate = errors.New("custom mode enabled but no date selected")
	// ErrInvalidDate is returned for date text that is malformed or not a real calendar day.
	ErrInvalidDate = errors.New("invalid date format (use DD/MM/YYYY, e.g. 25/02/2026)")
	// ErrInvalidTimeOfDay is returned for time text outside 00:00:00..23:59:59.
	ErrInvalidTimeOfDay = errors.New("invalid time of day (use HH:MM:SS)")
)

var (
	dmyRe = regexp.MustCompile(`^(\d{1,2})[/-](\d{1,2})[/-](\d{4})$`)
	ymdRe = regexp.MustCompile(`^(\d{4})-(\d{1,2})-(\d{1,2})$`)
	hmsRe = regexp.MustCompile(`^(\d{1,2}):(\d{1,2})(?::(\d{1,2}))?$`)
)

// Date is a calendar day without a time component.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// ParseDate accepts D/M/YYYY, D-M-YYYY and YYYY-M-D with a year between 1900
// and 9999.
func ParseDate(s string) (Date, error) {
	raw := strings.TrimSpace(s)
	if raw == "" {
		return Date{}, ErrNoDate
	}

	var y, mo, d int
	if m := dmyRe.FindStringSubmatch(raw); m != nil {
		d, _ = strconv.Atoi(m[1])
		mo, _ = strconv.Atoi(m[2])
		y, _ = strconv.Atoi(m[3])
	} else if m := ymdRe.FindStringSubmatch(raw); m != nil {
		y, _ = strconv.Atoi(m[1])
		mo, _ = strconv.Atoi(m[2])
		d, _ = strconv.Atoi(m[3])
	} else {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, raw)
	}

	if y < 1900 || y > 9999 || mo < 1 || mo > 12 || d < 1 || d > 31 {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, raw)
	}
	t := time.Date(y, time.Month(mo), d, 0, 0, 0, 0, time.UTC)
	if t.Year() != y || t.Month() != time.Month(mo) || t.Day() != d {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, raw)
	}
	return Date{Year: y, Month: time.Month(mo), Day: d}, nil
}

// DateOf returns the UTC calendar day of t.
func DateOf(t time.Time) Date {
	t = t.UTC()
	return Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}
}

// Midnight returns 00:00:00 UTC of the day.
func (d Date) Midnight() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// String formats the day as DD/MM/YYYY, the form ParseDate reads first.
func (d Date) String() string {
	return fmt.Sprintf("%02d/%02d/%04d", d.Day, int(d.Month), d.Year)
}

// TimeOfDay is an hour/minute/second triple within one day.
type TimeOfDay struct {
	Hour   int `json:"hour"`
	Minute int `json:"minute"`
	Second int `json:"second"`
}

// ParseTimeOfDay reads HH:MM:SS or HH:MM.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	m := hmsRe.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return TimeOfDay{}, fmt.Errorf("%w: %q", ErrInvalidTimeOfDay, s)
	}
	h, _ := strconv.Atoi(m[1])
	mi, _ := strconv.Atoi(m[2])
	sec := 0
	if m[3] != "" {
		sec, _ = strconv.Atoi(m[3])
	}
	tod := TimeOfDay{Hour: h, Minute: mi, Second: sec}
	if !tod.Valid() {
		return TimeOfDay{}, fmt.Errorf("%w: %q", ErrInvalidTimeOfDay, s)
	}
	return tod, nil
}

// Valid reports whether every field is in range.
func (t TimeOfDay) Valid() bool {
	return t.Hour >= 0 && t.Hour <= 23 &&
		t.Minute >= 0 && t.Minute <= 59 &&
		t.Second >= 0 && t.Second <= 59
}

// Seconds returns the offset from midnight.
func (t TimeOfDay) Seconds() int {
	return t.Hour*3600 + t.Minute*60 + t.Second
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", t.Hour, t.Minute, t.Second)
}

// Options selects how the clock readings are adjusted.
type Options struct {
	// Custom anchors clock #2 inside [Start, End] on Date instead of keeping it.
	Custom bool `json:"custom"`
	// Date is the raw date text; it is validated when the adjustment runs.
	Date  string    `json:"date,omitempty"`
	Start TimeOfDay `json:"start"`
	End   TimeOfDay `json:"end"`
}

// DefaultOptions returns non-custom options with the 08:00:00..18:00:00 window.
func DefaultOptions() Options {
	return Options{
		Start: TimeOfDay{Hour: 8},
		End:   TimeOfDay{Hour: 18},
	}
}

// Window returns the custom range in seconds from midnight, with end clamped
// so it is never before start.
func (o Options) Window() (start, end int) {
	start, end = o.Start.Seconds(), o.End.Seconds()
	if end < start {
		end = start
	}
	return start, end
}
