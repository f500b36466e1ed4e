// Package counters zeroes the interface error counters printed by
// "show interfaces" and records which values were changed.
package counters

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Field is one of the interface error counters.
type Field int

const (
	InputErrors Field = iota
	CRC
	Frame
	Overrun
	Ignored
	Abort
)

// Fields lists every counter in the order they appear on a summary line.
var Fields = []Field{InputErrors, CRC, Frame, Overrun, Ignored, Abort}

var fieldNames = [...]string{"input errors", "CRC", "frame", "overrun", "ignored", "abort"}

func (f Field) String() string {
	if f < 0 || int(f) >= len(fieldNames) {
		return "unknown"
	}
	return fieldNames[f]
}

// MarshalText lets fields key JSON objects by name.
func (f Field) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

func (f *Field) UnmarshalText(text []byte) error {
	for i, name := range fieldNames {
		if strings.EqualFold(name, string(text)) {
			*f = Field(i)
			return nil
		}
	}
	return fmt.Errorf("unknown counter field %q", text)
}

// Each pattern captures (lead)(value)(gap)(name). The first counter is led by
// whitespace or the start of the line, the others by a comma.
var fieldPatterns = map[Field]*regexp.Regexp{
	InputErrors: regexp.MustCompile(`(?i)(^\s*|\s+)([^,\s]+)(\s+)(input\s+errors)\b`),
	CRC:         regexp.MustCompile(`(?i)(,\s*)([^,\s]+)(\s+)(CRC)\b`),
	Frame:       regexp.MustCompile(`(?i)(,\s*)([^,\s]+)(\s+)(frame)\b`),
	Overrun:     regexp.MustCompile(`(?i)(,\s*)([^,\s]+)(\s+)(overrun)\b`),
	Ignored:     regexp.MustCompile(`(?i)(,\s*)([^,\s]+)(\s+)(ignored)\b`),
	Abort:       regexp.MustCompile(`(?i)(,\s*)([^,\s]+)(\s+)(abort)\b`),
}

// LineChange is a line rewritten by the normalizer.
type LineChange struct {
	LineNo int    `json:"lineNo"`
	Before string `json:"before"`
	After  string `json:"after"`
}

// Report aggregates what a normalization run changed.
type Report struct {
	// Changed counts the values forced to zero per field.
	Changed map[Field]int `json:"changedToZero"`
	// From holds the distinct original values per field.
	From  map[Field][]string `json:"changedFrom"`
	Lines []LineChange       `json:"zeroChangedLines,omitempty"`

	seen map[Field]map[string]struct{}
}

func newReport() *Report {
	r := &Report{
		Changed: make(map[Field]int, len(Fields)),
		From:    make(map[Field][]string, len(Fields)),
		seen:    make(map[Field]map[string]struct{}, len(Fields)),
	}
	for _, f := range Fields {
		r.Changed[f] = 0
		r.From[f] = []string{}
		r.seen[f] = make(map[string]struct{})
	}
	return r
}

func (r *Report) record(f Field, value string) {
	r.Changed[f]++
	if _, ok := r.seen[f][value]; ok {
		return
	}
	r.seen[f][value] = struct{}{}
	r.From[f] = append(r.From[f], value)
}

// Total is the number of values forced to zero across all fields.
func (r *Report) Total() int {
	n := 0
	for _, c := range r.Changed {
		n += c
	}
	return n
}

// Normalize returns a copy of lines with every non-zero counter value set to 0.
func Normalize(lines []string) ([]string, *Report) {
	rep := newReport()
	out := make([]string, len(lines))
	for i, before := range lines {
		after := before
		for _, f := range Fields {
			after = zeroField(after, f, rep)
		}
		if after != before {
			rep.Lines = append(rep.Lines, LineChange{LineNo: i + 1, Before: before, After: after})
		}
		out[i] = after
	}
	for _, f := range Fields {
		sortValues(rep.From[f])
	}
	return out, rep
}

func zeroField(line string, f Field, rep *Report) string {
	re := fieldPatterns[f]
	matches := re.FindAllStringSubmatchIndex(line, -1)
	if matches == nil {
		return line
	}

	var b strings.Builder
	last := 0
	for _, m := range matches {
		valStart, valEnd := m[4], m[5]
		value := line[valStart:valEnd]
		if isZero(value) {
			continue
		}
		rep.record(f, value)
		b.WriteString(line[last:valStart])
		b.WriteString("0")
		last = valEnd
	}
	b.WriteString(line[last:])
	return b.String()
}

// isZero accepts "0" and anything else that parses to numeric zero, such as
// "00", "0.0" or "0x0".
func isZero(value string) bool {
	if value == "0" {
		return true
	}
	n, ok := numeric(value)
	return ok && n == 0
}

// numeric reads a counter value as a decimal or a prefixed integer ("0x1f").
func numeric(value string) (float64, bool) {
	if f, err := strconv.ParseFloat(value, 64); err == nil {
		return f, true
	}
	if n, err := strconv.ParseInt(value, 0, 64); err == nil {
		return float64(n), true
	}
	return 0, false
}

// sortValues orders numeric values ascending first, then the rest lexically.
func sortValues(values []string) {
	sort.SliceStable(values, func(i, j int) bool {
		a, aOK := numeric(values[i])
		b, bOK := numeric(values[j])
		switch {
		case aOK && bOK:
			if a != b {
				return a < b
			}
			return values[i] < values[j]
		case aOK:
			return true
		case bOK:
			return false
		default:
			return values[i] < values[j]
		}
	})
}
