package commands

import (
	"fmt"

	"github.com/showscrub/backend/internal/lcs"
)

// DefaultOrder is the command sequence a complete capture runs.
var DefaultOrder = []Family{
	ShowClock,
	ShowVersion,
	ShowRun,
	ShowLog,
	ShowEnvAll,
	ShowClock,
	ShowInterfaceCRC,
	ShowClock,
	ShowInterfaceCRC,
}

// Missing is an expected command the capture does not contain.
type Missing struct {
	Command    Family `json:"command"`
	Occurrence int    `json:"occurrence"`
	Location   string `json:"location"`
}

// Extra is a typed command that does not fit the expected order.
type Extra struct {
	Command    Family `json:"command"`
	Display    string `json:"display"`
	Occurrence int    `json:"occurrence"`
	Position   int    `json:"position"`
	Location   string `json:"location"`
}

// OrderReport compares the typed commands with the expected order.
type OrderReport struct {
	Expected        []Family  `json:"expected"`
	Observed        []Family  `json:"observed"`
	ObservedDisplay []string  `json:"observedDisplay"`
	Missing         []Missing `json:"missing"`
	Extra           []Extra   `json:"extra"`
	// Pass is true only when the capture runs exactly the expected commands.
	Pass bool `json:"pass"`
}

// CheckOrder aligns observed against expected along their longest common
// subsequence and reports what is missing or extra on either side.
func CheckOrder(expected []Family, observed []Command) OrderReport {
	rep := OrderReport{
		Expected:        append([]Family(nil), expected...),
		Observed:        make([]Family, len(observed)),
		ObservedDisplay: make([]string, len(observed)),
		Missing:         []Missing{},
		Extra:           []Extra{},
	}
	for i, c := range observed {
		rep.Observed[i] = c.Family
		rep.ObservedDisplay[i] = c.Display
	}

	rep.Pass = len(rep.Observed) == len(expected)
	for i := 0; rep.Pass && i < len(expected); i++ {
		rep.Pass = rep.Observed[i] == expected[i]
	}

	inExp, inObs := lcs.Matched(lcs.AlignFromEnd(expected, rep.Observed), len(expected), len(rep.Observed))

	for k, f := range expected {
		if inExp[k] {
			continue
		}
		rep.Missing = append(rep.Missing, Missing{
			Command:    f,
			Occurrence: occurrence(expected, k),
			Location:   locate(expected, inExp, k),
		})
	}
	for k, f := range rep.Observed {
		if inObs[k] {
			continue
		}
		display := rep.ObservedDisplay[k]
		if display == "" {
			display = f.String()
		}
		rep.Extra = append(rep.Extra, Extra{
			Command:    f,
			Display:    display,
			Occurrence: occurrence(rep.Observed, k),
			Position:   k + 1,
			Location:   locate(rep.Observed, inObs, k),
		})
	}
	return rep
}

// occurrence counts how many times seq[idx] appears in seq[:idx+1].
func occurrence(seq []Family, idx int) int {
	n := 0
	for _, f := range seq[:idx+1] {
		if f == seq[idx] {
			n++
		}
	}
	return n
}

// locate describes idx by its nearest matched neighbours.
func locate(seq []Family, matched []bool, idx int) string {
	before := idx - 1
	for before >= 0 && !matched[before] {
		before--
	}
	after := idx + 1
	for after < len(seq) && !matched[after] {
		after++
	}

	label := func(i int) string {
		return fmt.Sprintf("%s (occurrence %d)", seq[i], occurrence(seq, i))
	}
	switch {
	case before >= 0 && after < len(seq):
		return fmt.Sprintf("between %s and %s", label(before), label(after))
	case before >= 0:
		return "after " + label(before)
	case after < len(seq):
		return "before " + label(after)
	default:
		return "no reference point"
	}
}
