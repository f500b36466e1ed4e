package transform

import (
	"fmt"
	"strings"

	"github.com/showscrub/backend/internal/clock"
	"github.com/showscrub/backend/internal/commands"
	"github.com/showscrub/backend/internal/counters"
)

// RenderText writes rep as the plain-text validation report handed to reviewers.
func RenderText(name string, rep *Report) string {
	var b strings.Builder

	if name != "" {
		fmt.Fprintf(&b, "File: %s\n", name)
	}
	status := "COMPLETE"
	if !rep.Healthy() {
		status = "INCOMPLETE"
	}
	fmt.Fprintf(&b, "Status: %s\n", status)

	if rep.OldClock != nil {
		fmt.Fprintf(&b, "\nOld clock: line %d reads %s, older than the oldest accepted date %s\n",
			rep.OldClock.LineNo, rep.OldClock.FoundDate, rep.OldClock.OldestAllowedDate)
		if rep.AutoCorrected {
			fmt.Fprintf(&b, "Auto-corrected: converted again with the clock date set to %s\n", rep.AutoCorrectDate)
		}
	}

	writeOrder(&b, rep.CommandOrder)

	fmt.Fprintf(&b, "\nRemoved clear lines: %d\n", rep.RemovedClear)
	for _, l := range rep.RemovedClearLines {
		fmt.Fprintf(&b, "  - line %d: %s\n", l.LineNo, l.Text)
	}

	writeCounters(&b, rep.Counters)
	writeClock(&b, rep.Clock)

	b.WriteString("\nSystem serial number\n")
	if len(rep.Serials) == 0 {
		fmt.Fprintf(&b, "  none found (output named %s)\n", DefaultArtifactName)
	} else {
		fmt.Fprintf(&b, "  %s\n", strings.Join(rep.Serials, ", "))
	}
	return b.String()
}

func passFail(ok bool) string {
	if ok {
		return "PASS"
	}
	return "FAIL"
}

func writeOrder(b *strings.Builder, order commands.OrderReport) {
	fmt.Fprintf(b, "\nCommand order: %s\n", passFail(order.Pass))

	expected := make([]string, len(order.Expected))
	for i, f := range order.Expected {
		expected[i] = f.String()
	}
	fmt.Fprintf(b, "  expected: %s\n", strings.Join(expected, " -> "))
	if len(order.ObservedDisplay) == 0 {
		b.WriteString("  observed: -\n")
	} else {
		fmt.Fprintf(b, "  observed: %s\n", strings.Join(order.ObservedDisplay, " -> "))
	}

	for _, m := range order.Missing {
		fmt.Fprintf(b, "  missing: %s (occurrence %d), expected %s\n", m.Command, m.Occurrence, m.Location)
	}
	for _, e := range order.Extra {
		fmt.Fprintf(b, "  extra: %s (position %d in observed order), found %s\n", e.Display, e.Position, e.Location)
	}
}

func writeCounters(b *strings.Builder, rep *counters.Report) {
	if rep == nil {
		return
	}
	fmt.Fprintf(b, "\nCounters set to 0: %d\n", rep.Total())
	for _, l := range rep.Lines {
		fmt.Fprintf(b, "  - %s -> %s\n", l.Before, l.After)
	}
	for _, f := range counters.Fields {
		if rep.Changed[f] == 0 {
			continue
		}
		fmt.Fprintf(b, "  %s: %s -> 0 (%d total)\n", f, strings.Join(rep.From[f], ", "), rep.Changed[f])
	}
}

func writeClock(b *strings.Builder, rep clock.Report) {
	if rep.Found == clock.RequiredBlocks {
		b.WriteString("\nClock: PASS\n")
	} else {
		fmt.Fprintf(b, "\nClock: FAIL (found %d)\n", rep.Found)
	}
	if rep.Found < clock.RequiredBlocks {
		fmt.Fprintf(b, "  fewer than %d show clock blocks\n", clock.RequiredBlocks)
	}
	for _, d := range rep.Details {
		fmt.Fprintf(b, "  - %s: %s -> %s\n", d.Label, d.Before, d.After)
	}
	if rep.Reason != "" {
		fmt.Fprintf(b, "  note: %s\n", rep.Reason)
	}
}
