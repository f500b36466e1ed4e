package clock

import (
	"fmt"
	"math"
	"math/rand/v2"
	"strings"
	"time"
)

// RequiredBlocks is the number of show clock readings an adjustment needs.
const RequiredBlocks = 3

const (
	day = 24 * time.Hour

	// maxNaturalGapSec is the largest clock #1 to clock #2 gap kept as captured.
	maxNaturalGapSec = 6 * 60

	minRandomGapSec   = 30
	maxRandomGapSec   = 5 * 60
	minTrailingGapSec = 420
	maxTrailingGapSec = 450
)

// Rand is the randomness the adjuster draws from.
type Rand interface {
	// IntN returns a value in [0, n).
	IntN(n int) int
}

// SystemRand draws from the runtime's automatically seeded generator.
type SystemRand struct{}

func (SystemRand) IntN(n int) int { return rand.IntN(n) }

func between(r Rand, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + r.IntN(hi-lo+1)
}

// Block is a show clock command line paired with the time line printed after it.
type Block struct {
	CommandLine int     `json:"commandLine"`
	TimeLine    int     `json:"timeLine"`
	Instant     Instant `json:"instant"`
}

// FindBlocks returns every show clock command whose next non-blank line parses
// as a time display, in document order.
func FindBlocks(lines []string, isClockCommand func(string) bool) []Block {
	var blocks []Block
	for i, line := range lines {
		if !isClockCommand(line) {
			continue
		}
		j := i + 1
		for j < len(lines) && strings.TrimSpace(lines[j]) == "" {
			j++
		}
		if j >= len(lines) {
			continue
		}
		if inst, ok := Parse(lines[j]); ok {
			blocks = append(blocks, Block{CommandLine: i, TimeLine: j, Instant: inst})
		}
	}
	return blocks
}

// Detail is the before/after text of one rewritten clock line.
type Detail struct {
	Label  string `json:"label"`
	Before string `json:"before"`
	After  string `json:"after"`
}

// Report summarizes one adjustment run.
type Report struct {
	Found             int      `json:"found"`
	Adjusted          bool     `json:"adjusted"`
	Reason            string   `json:"reason"`
	RawDelta12Sec     int      `json:"rawDelta12Sec"`
	NewDelta12Sec     int      `json:"newDelta12Sec"`
	Delta12Randomized bool     `json:"delta12Randomized"`
	RawDelta23Sec     int      `json:"rawDelta23Sec"`
	NewDelta23Sec     int      `json:"newDelta23Sec"`
	UsedCustom        bool     `json:"usedCustom"`
	Changed1          bool     `json:"changed1"`
	Changed2          bool     `json:"changed2"`
	Changed3          bool     `json:"changed3"`
	Details           []Detail `json:"details,omitempty"`
}

// Adjuster rewrites the three clock readings of a transcript.
type Adjuster struct {
	rand Rand
}

// NewAdjuster returns an adjuster drawing from r, or from SystemRand when r is nil.
func NewAdjuster(r Rand) *Adjuster {
	if r == nil {
		r = SystemRand{}
	}
	return &Adjuster{rand: r}
}

// Adjust returns a copy of lines with the first three blocks rewritten.
// Missing blocks and unusable custom dates are reported, never returned as errors.
func (a *Adjuster) Adjust(lines []string, blocks []Block, opts Options) ([]string, Report) {
	out := append([]string(nil), lines...)
	rep := Report{Found: len(blocks), UsedCustom: opts.Custom}

	if len(blocks) < RequiredBlocks {
		rep.Reason = fmt.Sprintf("found only %d show clock blocks (exactly %d required)", len(blocks), RequiredBlocks)
		return out, rep
	}

	b1, b2, b3 := blocks[0], blocks[1], blocks[2]
	t1, t2, t3 := b1.Instant.Time, b2.Instant.Time, b3.Instant.Time

	// Only the time-of-day gap counts; day and year jumps in captures are noise.
	gap12 := t2.Sub(t1) % day
	if gap12 < 0 {
		gap12 += day
	}
	rep.RawDelta12Sec = roundSeconds(gap12)
	rep.RawDelta23Sec = roundSeconds(t3.Sub(t2))

	gap := gap12
	if rep.RawDelta12Sec > maxNaturalGapSec {
		gap = time.Duration(between(a.rand, minRandomGapSec, maxRandomGapSec)) * time.Second
		rep.Delta12Randomized = true
	}
	rep.NewDelta12Sec = roundSeconds(gap)

	new2 := t2
	if opts.Custom {
		date, err := ParseDate(opts.Date)
		if err != nil {
			rep.Reason = err.Error()
			return out, rep
		}
		start, end := opts.Window()
		sec := between(a.rand, start, end)
		ms := between(a.rand, 0, 999)
		new2 = date.Midnight().
			Add(time.Duration(sec) * time.Second).
			Add(time.Duration(ms) * time.Millisecond)
	}
	new1 := new2.Add(-gap)

	gap23 := between(a.rand, minTrailingGapSec, maxTrailingGapSec)
	new3 := new2.Add(time.Duration(gap23) * time.Second)
	rep.NewDelta23Sec = gap23

	rep.Changed1 = !new1.Equal(t1)
	rep.Changed2 = opts.Custom && !new2.Equal(t2)
	rep.Changed3 = !new3.Equal(t3)

	if rep.Changed1 {
		out[b1.TimeLine] = Format(new1, b1.Instant.Template)
	}
	if rep.Changed2 {
		out[b2.TimeLine] = Format(new2, b2.Instant.Template)
	}
	// Clock #3 is always rewritten so it is in canonical form.
	out[b3.TimeLine] = Format(new3, b3.Instant.Template)

	rep.Adjusted = true
	summary12 := fmt.Sprintf("raw Δ(1→2)=%ds", rep.RawDelta12Sec)
	if rep.NewDelta12Sec != rep.RawDelta12Sec {
		summary12 += fmt.Sprintf(" → new Δ(1→2)=%ds", rep.NewDelta12Sec)
	}
	rep.Reason = fmt.Sprintf("%s | raw Δ(2→3)=%ds → new Δ(2→3)=%ds", summary12, rep.RawDelta23Sec, gap23)

	rep.Details = []Detail{
		{Label: "clock #1", Before: lines[b1.TimeLine], After: out[b1.TimeLine]},
		{Label: "clock #2", Before: lines[b2.TimeLine], After: out[b2.TimeLine]},
		{Label: "clock #3", Before: lines[b3.TimeLine], After: out[b3.TimeLine]},
	}
	return out, rep
}

// AgeIssue describes a capture whose first clock reading is too old.
type AgeIssue struct {
	LineNo            int    `json:"lineNo"`
	FoundDate         string `json:"foundDate"`
	OldestAllowedDate string `json:"oldestAllowedDate"`
}

// CheckAge reports whether the first block is more than one year before now.
func CheckAge(blocks []Block, now time.Time) *AgeIssue {
	if len(blocks) == 0 {
		return nil
	}
	oldest := now.UTC().AddDate(-1, 0, 0)
	first := blocks[0]
	if !first.Instant.Time.Before(oldest) {
		return nil
	}
	return &AgeIssue{
		LineNo:            first.TimeLine + 1,
		FoundDate:         first.Instant.Time.Format(time.DateOnly),
		OldestAllowedDate: oldest.Format(time.DateOnly),
	}
}

func roundSeconds(d time.Duration) int {
	return int(math.Round(d.Seconds()))
}
