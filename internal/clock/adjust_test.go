package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/showscrub/backend/internal/testutil"
)

// Time lines of testutil.Transcript.
const (
	clock1Line = 1
	clock2Line = 14
	clock3Line = 19
)

func transcriptWithClocks(t *testing.T, c1, c2, c3 string) []string {
	t.Helper()
	lines := testutil.Lines(testutil.Transcript)
	if c1 != "" {
		lines[clock1Line] = c1
	}
	if c2 != "" {
		lines[clock2Line] = c2
	}
	if c3 != "" {
		lines[clock3Line] = c3
	}
	return lines
}

func TestFindBlocks(t *testing.T) {
	lines := testutil.Lines(testutil.Transcript)

	blocks := FindBlocks(lines, testutil.IsShowClock)

	require.Len(t, blocks, 3)
	assert.Equal(t, 0, blocks[0].CommandLine)
	assert.Equal(t, clock1Line, blocks[0].TimeLine)
	assert.Equal(t, clock2Line, blocks[1].TimeLine)
	assert.Equal(t, clock3Line, blocks[2].TimeLine)
}

func TestFindBlocks_SkipsBlankLinesAndUnparseable(t *testing.T) {
	lines := []string{
		"SW1#show clock",
		"",
		"   ",
		"*10:00:00 UTC Wed Feb 25 2026",
		"SW1#show clock",
		"% Invalid input detected",
		"SW1#show clock",
	}

	blocks := FindBlocks(lines, testutil.IsShowClock)

	require.Len(t, blocks, 1)
	assert.Equal(t, 3, blocks[0].TimeLine)
}

func TestAdjust_KeepsShortGap(t *testing.T) {
	lines := testutil.Lines(testutil.Transcript)
	blocks := FindBlocks(lines, testutil.IsShowClock)

	out, rep := NewAdjuster(testutil.MinRand{}).Adjust(lines, blocks, DefaultOptions())

	assert.True(t, rep.Adjusted)
	assert.Equal(t, 45, rep.RawDelta12Sec)
	assert.Equal(t, 45, rep.NewDelta12Sec)
	assert.False(t, rep.Delta12Randomized)
	assert.Equal(t, 6000, rep.RawDelta23Sec)
	assert.Equal(t, 420, rep.NewDelta23Sec)
	assert.False(t, rep.Changed1)
	assert.False(t, rep.Changed2)
	assert.True(t, rep.Changed3)
	assert.Equal(t, "raw Δ(1→2)=45s | raw Δ(2→3)=6000s → new Δ(2→3)=420s", rep.Reason)

	assert.Equal(t, lines[clock1Line], out[clock1Line])
	assert.Equal(t, lines[clock2Line], out[clock2Line])
	assert.Equal(t, "*10:07:45.000 UTC Wed Feb 25 2026", out[clock3Line])
	require.Len(t, rep.Details, 3)
	assert.Equal(t, "*11:40:45.000 UTC Wed Feb 25 2026", rep.Details[2].Before)
	assert.Equal(t, out[clock3Line], rep.Details[2].After)
}

func TestAdjust_TrailingGapWithinWindow(t *testing.T) {
	lines := testutil.Lines(testutil.Transcript)
	blocks := FindBlocks(lines, testutil.IsShowClock)

	for i := 0; i < 50; i++ {
		out, rep := NewAdjuster(nil).Adjust(lines, blocks, DefaultOptions())

		require.GreaterOrEqual(t, rep.NewDelta23Sec, 420)
		require.LessOrEqual(t, rep.NewDelta23Sec, 450)

		third, ok := Parse(out[clock3Line])
		require.True(t, ok)
		gap := third.Time.Sub(blocks[1].Instant.Time)
		require.Equal(t, time.Duration(rep.NewDelta23Sec)*time.Second, gap)
	}
}

func TestAdjust_RandomizesLongGap(t *testing.T) {
	// 09:51:45 -> 10:00:45 is 540s.
	lines := transcriptWithClocks(t, "*09:51:45.000 UTC Wed Feb 25 2026", "", "")
	blocks := FindBlocks(lines, testutil.IsShowClock)

	tests := []struct {
		name     string
		rand     Rand
		wantGap  int
		wantLine string
	}{
		{"lowest draw", testutil.MinRand{}, 30, "*10:00:15.000 UTC Wed Feb 25 2026"},
		{"highest draw", testutil.MaxRand{}, 300, "*09:55:45.000 UTC Wed Feb 25 2026"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, rep := NewAdjuster(tt.rand).Adjust(lines, blocks, DefaultOptions())

			assert.Equal(t, 540, rep.RawDelta12Sec)
			assert.True(t, rep.Delta12Randomized)
			assert.Equal(t, tt.wantGap, rep.NewDelta12Sec)
			assert.True(t, rep.Changed1)
			assert.Equal(t, tt.wantLine, out[clock1Line])
			assert.Contains(t, rep.Reason, "new Δ(1→2)=")
		})
	}
}

func TestAdjust_RandomGapAlwaysInRange(t *testing.T) {
	lines := transcriptWithClocks(t, "*09:51:40.000 UTC Wed Feb 25 2026", "", "")
	blocks := FindBlocks(lines, testutil.IsShowClock)

	for i := 0; i < 50; i++ {
		_, rep := NewAdjuster(nil).Adjust(lines, blocks, DefaultOptions())
		require.True(t, rep.Delta12Randomized)
		require.GreaterOrEqual(t, rep.NewDelta12Sec, 30)
		require.LessOrEqual(t, rep.NewDelta12Sec, 300)
	}
}

func TestAdjust_IgnoresDayJumps(t *testing.T) {
	lines := transcriptWithClocks(t, "*10:00:00.000 UTC Mon Feb 23 2026", "", "")
	blocks := FindBlocks(lines, testutil.IsShowClock)

	out, rep := NewAdjuster(testutil.MinRand{}).Adjust(lines, blocks, DefaultOptions())

	assert.Equal(t, 45, rep.RawDelta12Sec)
	assert.False(t, rep.Delta12Randomized)
	assert.True(t, rep.Changed1)
	assert.Equal(t, "*10:00:00.000 UTC Wed Feb 25 2026", out[clock1Line])
}

func TestAdjust_CustomRange(t *testing.T) {
	lines := testutil.Lines(testutil.Transcript)
	blocks := FindBlocks(lines, testutil.IsShowClock)

	tests := []struct {
		name  string
		rand  Rand
		date  string
		want1 string
		want2 string
		want3 string
	}{
		{
			name:  "start of window",
			rand:  testutil.MinRand{},
			date:  "25/02/2026",
			want1: "*07:59:15.000 UTC Wed Feb 25 2026",
			want2: "*08:00:00.000 UTC Wed Feb 25 2026",
			want3: "*08:07:00.000 UTC Wed Feb 25 2026",
		},
		{
			name:  "end of window",
			rand:  testutil.MaxRand{},
			date:  "15/10/2026",
			want1: "*17:59:15.999 UTC Thu Oct 15 2026",
			want2: "*18:00:00.999 UTC Thu Oct 15 2026",
			want3: "*18:07:30.999 UTC Thu Oct 15 2026",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultOptions()
			opts.Custom = true
			opts.Date = tt.date

			out, rep := NewAdjuster(tt.rand).Adjust(lines, blocks, opts)

			assert.True(t, rep.Adjusted)
			assert.True(t, rep.UsedCustom)
			assert.True(t, rep.Changed1)
			assert.True(t, rep.Changed2)
			assert.True(t, rep.Changed3)
			assert.Equal(t, tt.want1, out[clock1Line])
			assert.Equal(t, tt.want2, out[clock2Line])
			assert.Equal(t, tt.want3, out[clock3Line])
		})
	}
}

func TestAdjust_DrawBounds(t *testing.T) {
	lines := transcriptWithClocks(t, "*09:00:00.000 UTC Wed Feb 25 2026", "", "")
	blocks := FindBlocks(lines, testutil.IsShowClock)

	t.Run("default mode", func(t *testing.T) {
		r := &testutil.SeqRand{}
		NewAdjuster(r).Adjust(lines, blocks, DefaultOptions())
		assert.Equal(t, []int{271, 31}, r.Bounds)
	})

	t.Run("custom mode", func(t *testing.T) {
		r := &testutil.SeqRand{}
		opts := DefaultOptions()
		opts.Custom = true
		opts.Date = "2026-02-25"
		NewAdjuster(r).Adjust(lines, blocks, opts)
		assert.Equal(t, []int{271, 10*3600 + 1, 1000, 31}, r.Bounds)
	})
}

func TestAdjust_CustomWithoutUsableDate(t *testing.T) {
	lines := testutil.Lines(testutil.Transcript)
	blocks := FindBlocks(lines, testutil.IsShowClock)

	tests := []struct {
		name       string
		date       string
		wantReason string
	}{
		{"no date", "", ErrNoDate.Error()},
		{"invalid date", "31/02/2026", "invalid date format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultOptions()
			opts.Custom = true
			opts.Date = tt.date

			out, rep := NewAdjuster(testutil.MinRand{}).Adjust(lines, blocks, opts)

			assert.False(t, rep.Adjusted)
			assert.Contains(t, rep.Reason, tt.wantReason)
			assert.Equal(t, lines, out)
			assert.Empty(t, rep.Details)
		})
	}
}

func TestAdjust_TooFewBlocks(t *testing.T) {
	lines := testutil.Lines(testutil.Transcript)[:10]
	blocks := FindBlocks(lines, testutil.IsShowClock)

	out, rep := NewAdjuster(testutil.MinRand{}).Adjust(lines, blocks, DefaultOptions())

	assert.Equal(t, 1, rep.Found)
	assert.False(t, rep.Adjusted)
	assert.Equal(t, "found only 1 show clock blocks (exactly 3 required)", rep.Reason)
	assert.Equal(t, lines, out)
}

func TestAdjust_CanonicalizesThirdClock(t *testing.T) {
	lines := transcriptWithClocks(t, "", "", "*10:07:45.000  UTC   Wed Feb 25 2026 ")
	blocks := FindBlocks(lines, testutil.IsShowClock)

	out, rep := NewAdjuster(testutil.MinRand{}).Adjust(lines, blocks, DefaultOptions())

	assert.False(t, rep.Changed3)
	assert.Equal(t, "*10:07:45.000 UTC Wed Feb 25 2026", out[clock3Line])
}

func TestAdjust_DoesNotMutateInput(t *testing.T) {
	lines := testutil.Lines(testutil.Transcript)
	orig := append([]string(nil), lines...)
	blocks := FindBlocks(lines, testutil.IsShowClock)

	NewAdjuster(testutil.MaxRand{}).Adjust(lines, blocks, DefaultOptions())

	assert.Equal(t, orig, lines)
}

func TestCheckAge(t *testing.T) {
	now := time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		first string
		want  *AgeIssue
	}{
		{
			name:  "older than a year",
			first: "*10:00:00.000 UTC Tue Oct 14 2025",
			want:  &AgeIssue{LineNo: 2, FoundDate: "2025-10-14", OldestAllowedDate: "2025-10-15"},
		},
		{
			name:  "just inside a year",
			first: "*10:00:00.000 UTC Wed Oct 15 2025",
		},
		{
			name:  "recent",
			first: "*10:00:00.000 UTC Wed Feb 25 2026",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lines := transcriptWithClocks(t, tt.first, "", "")
			blocks := FindBlocks(lines, testutil.IsShowClock)

			assert.Equal(t, tt.want, CheckAge(blocks, now))
		})
	}
}

func TestCheckAge_NoBlocks(t *testing.T) {
	assert.Nil(t, CheckAge(nil, time.Now()))
}
