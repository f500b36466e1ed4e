// Package commands recognizes the diagnostic commands typed at a device prompt
// and checks them against the expected capture order.
package commands

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrUnknownFamily is returned when a label names no command family.
var ErrUnknownFamily = errors.New("unknown command family")

// Family is a recognized diagnostic command.
type Family int

const (
	Unknown Family = iota
	ShowClock
	ShowVersion
	ShowRun
	ShowLog
	ShowEnvAll
	ShowInterfaceCRC
)

var familyLabels = [...]string{
	Unknown:          "unknown command",
	ShowClock:        "show clock",
	ShowVersion:      "show version",
	ShowRun:          "show run",
	ShowLog:          "show log",
	ShowEnvAll:       "show env all",
	ShowInterfaceCRC: "show interface | i crc",
}

func (f Family) String() string {
	if f < 0 || int(f) >= len(familyLabels) {
		return familyLabels[Unknown]
	}
	return familyLabels[f]
}

func (f Family) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

func (f *Family) UnmarshalText(text []byte) error {
	parsed, err := ParseFamily(string(text))
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

// ParseFamily resolves a label such as "show clock" (case-insensitive). Any
// abbreviated command that Recognize accepts is accepted too.
func ParseFamily(label string) (Family, error) {
	norm := collapse(label)
	for i, l := range familyLabels {
		if strings.EqualFold(l, norm) {
			return Family(i), nil
		}
	}
	if f := classify(norm); f != Unknown {
		return f, nil
	}
	return Unknown, fmt.Errorf("%w: %q", ErrUnknownFamily, label)
}

// Every letter after the shortest unambiguous prefix is optional, the way IOS
// accepts abbreviated commands.
const showPrefix = `(?i)#\s*(?:sh|sho|show)\s+`

var showClockRe = regexp.MustCompile(showPrefix + `cl(?:o(?:c(?:k)?)?)?\b`)

var familyPatterns = []struct {
	family Family
	re     *regexp.Regexp
}{
	{ShowClock, showClockRe},
	{ShowVersion, regexp.MustCompile(showPrefix + `ver(?:s(?:i(?:o(?:n)?)?)?)?\b`)},
	{ShowRun, regexp.MustCompile(showPrefix + `run(?:n(?:i(?:n(?:g(?:-c(?:o(?:n(?:f(?:i(?:g)?)?)?)?)?)?)?)?)?)?\b`)},
	{ShowLog, regexp.MustCompile(showPrefix + `lo(?:g(?:g(?:i(?:n(?:g)?)?)?)?)?\b`)},
	{ShowEnvAll, regexp.MustCompile(showPrefix + `env(?:i(?:r(?:o(?:n(?:m(?:e(?:n(?:t)?)?)?)?)?)?)?)?\s+all\b`)},
	{ShowInterfaceCRC, regexp.MustCompile(showPrefix + `int(?:e(?:r(?:f(?:a(?:c(?:e(?:s)?)?)?)?)?)?)?\s*\|\s*i(?:n(?:c(?:l(?:u(?:d(?:e)?)?)?)?)?)?\s+crc\b`)},
}

var (
	promptRe = regexp.MustCompile(`^\s*[^\s#]+#(.*)$`)
	spaceRe  = regexp.MustCompile(`\s+`)
	pipeRe   = regexp.MustCompile(`\s*\|\s*`)
)

// Command is one command typed at a prompt.
type Command struct {
	Family Family `json:"family"`
	// Display is the typed text, trimmed and whitespace-collapsed.
	Display string `json:"display"`
	LineNo  int    `json:"lineNo"`
}

// Recognize reads a prompt line such as "SW1#sh int | i CRC". It returns false
// for lines without a prompt or with nothing typed after it.
func Recognize(line string) (Command, bool) {
	m := promptRe.FindStringSubmatch(line)
	if m == nil {
		return Command{}, false
	}
	display := collapse(m[1])
	if display == "" {
		return Command{}, false
	}
	return Command{Family: classify(display), Display: display}, true
}

// IsShowClock reports whether line contains a show clock command after a prompt.
func IsShowClock(line string) bool {
	return showClockRe.MatchString(line)
}

// Extract returns the commands of lines in document order.
func Extract(lines []string) []Command {
	var cmds []Command
	for i, line := range lines {
		if c, ok := Recognize(line); ok {
			c.LineNo = i + 1
			cmds = append(cmds, c)
		}
	}
	return cmds
}

func classify(display string) Family {
	probe := "# " + display
	for _, p := range familyPatterns {
		if p.re.MatchString(probe) {
			return p.family
		}
	}
	return Unknown
}

func collapse(s string) string {
	s = spaceRe.ReplaceAllString(strings.TrimSpace(s), " ")
	return pipeRe.ReplaceAllString(s, " | ")
}
