// Package transform sanitizes one show-command capture and reports what it
// changed.
package transform

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/showscrub/backend/internal/clock"
	"github.com/showscrub/backend/internal/commands"
	"github.com/showscrub/backend/internal/counters"
	"github.com/showscrub/backend/internal/textdecode"
)

var (
	clearWordRe = regexp.MustCompile(`(?i)\bclear\b`)
	serialRe    = regexp.MustCompile(`(?i)System\s+serial\s+number\s*:\s*([A-Za-z0-9_-]+)`)
)

// RemovedLine is an input line dropped from the output.
type RemovedLine struct {
	LineNo int    `json:"lineNo"`
	Text   string `json:"text"`
}

// Report is everything a conversion checked and changed.
type Report struct {
	RemovedClear      int                  `json:"removedClear"`
	RemovedClearLines []RemovedLine        `json:"removedClearLines"`
	Counters          *counters.Report     `json:"counters"`
	CommandOrder      commands.OrderReport `json:"commandOrder"`
	Clock             clock.Report         `json:"clock"`
	Serials           []string             `json:"serials"`

	// OldClock is set when the first clock reading is more than a year old.
	OldClock *clock.AgeIssue `json:"oldClockPrecheck,omitempty"`
	// AutoCorrected is true when OldClock switched the run to custom mode.
	AutoCorrected   bool   `json:"autoCorrected"`
	AutoCorrectDate string `json:"autoCorrectDate,omitempty"`
}

// Healthy reports whether the capture ran the expected commands and carries
// exactly three clock readings.
func (r *Report) Healthy() bool {
	return r.CommandOrder.Pass && r.Clock.Found == clock.RequiredBlocks
}

// Result is a converted document.
type Result struct {
	Input  string `json:"-"`
	Output string `json:"-"`
	Report Report `json:"report"`
}

// Pipeline runs the conversion steps in their fixed order.
type Pipeline struct {
	order    []commands.Family
	adjuster *clock.Adjuster
	now      func() time.Time
	logger   zerolog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithOrder replaces the expected command order.
func WithOrder(order []commands.Family) Option {
	return func(p *Pipeline) {
		if len(order) > 0 {
			p.order = order
		}
	}
}

// WithRand sets the random source of the clock adjustment.
func WithRand(r clock.Rand) Option {
	return func(p *Pipeline) { p.adjuster = clock.NewAdjuster(r) }
}

// WithNow sets the clock used by the too-old check.
func WithNow(now func() time.Time) Option {
	return func(p *Pipeline) { p.now = now }
}

// WithLogger sets the logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(p *Pipeline) { p.logger = logger }
}

// New creates a pipeline checking commands.DefaultOrder with a system random source.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		order:    commands.DefaultOrder,
		adjuster: clock.NewAdjuster(nil),
		now:      time.Now,
		logger:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Order returns the expected command order.
func (p *Pipeline) Order() []commands.Family {
	return p.order
}

// Run converts text with opts: it drops "clear" lines, checks the command
// order, zeroes error counters, adjusts the clock readings and collects serial
// numbers. Input problems end up in the report; Run never fails.
func (p *Pipeline) Run(text string, opts clock.Options) Result {
	text = textdecode.NormalizeNewlines(text)
	lines := strings.Split(text, "\n")

	rep := Report{RemovedClearLines: []RemovedLine{}}
	kept := make([]string, 0, len(lines))
	for i, line := range lines {
		if clearWordRe.MatchString(line) {
			rep.RemovedClearLines = append(rep.RemovedClearLines, RemovedLine{LineNo: i + 1, Text: line})
			continue
		}
		kept = append(kept, line)
	}
	rep.RemovedClear = len(rep.RemovedClearLines)

	// Commands are read before any rewriting.
	rep.CommandOrder = commands.CheckOrder(p.order, commands.Extract(kept))

	zeroed, counterRep := counters.Normalize(kept)
	rep.Counters = counterRep

	blocks := clock.FindBlocks(zeroed, commands.IsShowClock)
	out, clockRep := p.adjuster.Adjust(zeroed, blocks, opts)
	rep.Clock = clockRep

	output := strings.Join(out, "\n")
	rep.Serials = FindSerials(output)

	return Result{Input: text, Output: output, Report: rep}
}

// Convert runs the too-old check and then the pipeline. A capture whose first
// clock reading is more than a year old is converted in custom mode anchored at
// today unless custom mode was already requested. A panic inside the run is
// returned as an error.
func (p *Pipeline) Convert(text string, opts clock.Options) (res Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("conversion panicked: %v", r)
		}
	}()

	now := p.now()
	issue := Precheck(text, now)
	autoDate := ""
	if issue != nil && !opts.Custom {
		autoDate = clock.DateOf(now).String()
		opts.Custom = true
		opts.Date = autoDate
		p.logger.Info().
			Str("foundDate", issue.FoundDate).
			Str("oldestAllowed", issue.OldestAllowedDate).
			Str("date", autoDate).
			Msg("Clock too old, converting in custom mode")
	}

	res = p.Run(text, opts)
	res.Report.OldClock = issue
	res.Report.AutoCorrected = autoDate != ""
	res.Report.AutoCorrectDate = autoDate
	return res, nil
}

// Precheck runs the too-old check against the pipeline's clock.
func (p *Pipeline) Precheck(text string) *clock.AgeIssue {
	return Precheck(text, p.now())
}

// Precheck returns the too-old issue of the first show clock reading in text,
// or nil.
func Precheck(text string, now time.Time) *clock.AgeIssue {
	lines := strings.Split(textdecode.NormalizeNewlines(text), "\n")
	return clock.CheckAge(clock.FindBlocks(lines, commands.IsShowClock), now)
}

// FindSerials returns the distinct "System serial number" values of text in
// first-seen order.
func FindSerials(text string) []string {
	serials := []string{}
	seen := make(map[string]struct{})
	for _, m := range serialRe.FindAllStringSubmatch(text, -1) {
		if _, ok := seen[m[1]]; ok {
			continue
		}
		seen[m[1]] = struct{}{}
		serials = append(serials, m[1])
	}
	return serials
}
