// Package clock parses and rewrites the time lines printed by "show clock"
// and adjusts the three clock readings of a transcript.
package clock

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Matches lines like "*10:15:32.123 UTC Mon Mar 1 2026". The leading marker
// is one of the NTP status indicators ("*" unsynchronized, "." not
// authoritative).
var timeLineRe = regexp.MustCompile(
	`^(\s*[*.]?\s*)(\d{1,2}):(\d{2}):(\d{2})(?:\.(\d{1,3}))?\s+(\S+)\s+([A-Za-z]{3})\s+([A-Za-z]{3})\s+(\d{1,2})\s+(\d{4})\s*$`)

// Month names are matched exactly as the device prints them.
var months = map[string]time.Month{
	"Jan": time.January, "Feb": time.February, "Mar": time.March,
	"Apr": time.April, "May": time.May, "Jun": time.June,
	"Jul": time.July, "Aug": time.August, "Sep": time.September,
	"Oct": time.October, "Nov": time.November, "Dec": time.December,
}

// Template is the formatting of a parsed time line, kept so a new instant can
// be written back in the same shape.
type Template struct {
	Prefix    string `json:"prefix"`
	Zone      string `json:"zone"`
	HasMillis bool   `json:"hasMillis"`
}

// Instant is a parsed time line. Time is UTC; the zone label is carried in the
// template and never interpreted.
type Instant struct {
	Time     time.Time `json:"time"`
	Template Template  `json:"template"`
	// Weekday is the abbreviation written on the line. It is not checked
	// against the date and is recomputed on format.
	Weekday string `json:"weekday"`
}

// Parse reads a single time line. It returns false for anything that is not a
// complete, calendar-valid clock display.
func Parse(line string) (Instant, bool) {
	m := timeLineRe.FindStringSubmatch(line)
	if m == nil {
		return Instant{}, false
	}

	hour, _ := strconv.Atoi(m[2])
	minute, _ := strconv.Atoi(m[3])
	second, _ := strconv.Atoi(m[4])
	if hour > 23 || minute > 59 || second > 59 {
		return Instant{}, false
	}

	millis := 0
	if m[5] != "" {
		frac := m[5] + strings.Repeat("0", 3-len(m[5]))
		millis, _ = strconv.Atoi(frac)
	}

	month, ok := months[m[8]]
	if !ok {
		return Instant{}, false
	}
	day, _ := strconv.Atoi(m[9])
	year, _ := strconv.Atoi(m[10])

	t := time.Date(year, month, day, hour, minute, second, millis*int(time.Millisecond), time.UTC)
	if t.Day() != day || t.Month() != month {
		return Instant{}, false
	}

	return Instant{
		Time: t,
		Template: Template{
			Prefix:    m[1],
			Zone:      m[6],
			HasMillis: m[5] != "",
		},
		Weekday: m[7],
	}, true
}

// Format renders t in the shape described by tpl. The weekday always comes
// from the date itself.
func Format(t time.Time, tpl Template) string {
	t = t.UTC()
	var b strings.Builder
	b.WriteString(tpl.Prefix)
	fmt.Fprintf(&b, "%02d:%02d:%02d", t.Hour(), t.Minute(), t.Second())
	if tpl.HasMillis {
		fmt.Fprintf(&b, ".%03d", t.Nanosecond()/int(time.Millisecond))
	}
	fmt.Fprintf(&b, " %s %s %s %d %04d",
		tpl.Zone, t.Weekday().String()[:3], t.Month().String()[:3], t.Day(), t.Year())
	return b.String()
}

// String renders the instant with its own template.
func (i Instant) String() string {
	return Format(i.Time, i.Template)
}
