package diff

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func delRow(no int, text string) Row {
	return Row{Kind: RowPair, Left: &Side{No: no, Text: text, Type: SideDelete}, Right: emptySide()}
}

func insRow(no int, text string) Row {
	return Row{Kind: RowPair, Left: emptySide(), Right: &Side{No: no, Text: text, Type: SideInsert}}
}

func eqRow(in, out int, text string) Row {
	return Row{
		Kind:  RowPair,
		Left:  &Side{No: in, Text: text, Type: SideEqual},
		Right: &Side{No: out, Text: text, Type: SideEqual},
	}
}

func TestNormalizeKey(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"  12 input errors, 3 CRC ", "# input errors # crc"},
		{"5 CRC errors", "# crc errors"},
		{"Gi1/0/1 is up", "gi# # # is up"},
		{"---", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeKey(tt.in))
		})
	}
}

func TestNearest(t *testing.T) {
	assert.Equal(t, 6, nearest([]int{1, 6}, 2, nil), "prefers at-or-after")
	assert.Equal(t, 2, nearest([]int{2, 6}, 2, nil), "same row counts as after")
	assert.Equal(t, 1, nearest([]int{0, 1}, 5, nil), "falls back to closest before")
	assert.Equal(t, 1, nearest([]int{1, 6}, 2, map[int]bool{6: true}), "skips consumed")
	assert.Equal(t, -1, nearest(nil, 2, nil))
}

func TestCompare_RepairsNumeralChange(t *testing.T) {
	res := Compare([]string{"5 CRC errors", "x"}, []string{"x", "0 CRC errors"}, false)

	assert.Equal(t, 1, res.Added)
	assert.Equal(t, 1, res.Removed)
	require.Len(t, res.Rows, 2)

	row := res.Rows[0]
	assert.Equal(t, 1, row.Left.No)
	assert.Equal(t, 2, row.Right.No)
	assert.Equal(t, "0 CRC errors", row.Right.Text)
	assert.Equal(t, SideInsert, row.Right.Type)
	assert.Equal(t, `<span class="diffTokDel">5</span> CRC errors`, row.Left.HTML)
	assert.Equal(t, `<span class="diffTokAdd">0</span> CRC errors`, row.Right.HTML)

	assert.Equal(t, SideEqual, res.Rows[1].Left.Type)
}

func TestReconcile_CounterLines(t *testing.T) {
	rows := []Row{
		delRow(1, "     12 input errors, 3 CRC, 1 frame, 0 overrun, 9 ignored"),
		eqRow(2, 1, "SW1#show clock"),
		insRow(2, "     0 input errors, 0 CRC, 0 frame, 0 overrun, 0 ignored"),
	}

	got := Reconcile(rows)

	require.Len(t, got, 2)
	assert.Equal(t, "     0 input errors, 0 CRC, 0 frame, 0 overrun, 0 ignored", got[0].Right.Text)
	assert.False(t, got[0].Right.Synthetic)
}

func TestReconcile_FuzzyMatch(t *testing.T) {
	rows := []Row{
		delRow(1, "SW1 uptime is 3 weeks, 2 days"),
		eqRow(2, 1, "hostname SW1"),
		insRow(2, "interface Vlan1"),
		insRow(3, "SW1 uptime is about 3 weeks, 2 days"),
	}

	got := Reconcile(rows)

	require.Len(t, got, 3)
	assert.Equal(t, "SW1 uptime is about 3 weeks, 2 days", got[0].Right.Text)
	assert.Equal(t, 3, got[0].Right.No)
	assert.Equal(t, "interface Vlan1", got[2].Right.Text)
	assert.Equal(t, SideEmpty, got[2].Left.Type)
}

func TestReconcile_DissimilarLinesStayApart(t *testing.T) {
	rows := []Row{
		delRow(1, "hostname SW1"),
		insRow(1, "interface Vlan1"),
	}

	got := Reconcile(rows)

	require.Len(t, got, 2)
	assert.Equal(t, SideEmpty, got[0].Right.Type)
	assert.Equal(t, SideEmpty, got[1].Left.Type)
}

func TestReconcile_FuzzyWindow(t *testing.T) {
	build := func(gap int) []Row {
		rows := []Row{delRow(1, "SW1 uptime is 3 weeks, 2 days")}
		for i := 0; i < gap; i++ {
			rows = append(rows, eqRow(i+2, i+1, "line"))
		}
		return append(rows, insRow(gap+1, "SW1 uptime is about 3 weeks, 2 days"))
	}

	near := Reconcile(build(219))
	assert.Equal(t, SideInsert, near[0].Right.Type, "220 rows away is inside the window")

	far := Reconcile(build(220))
	assert.Equal(t, SideEmpty, far[0].Right.Type, "221 rows away is outside the window")
}

func TestReconcile_ExactKeyIgnoresWindow(t *testing.T) {
	rows := []Row{delRow(1, "5 CRC errors")}
	for i := 0; i < 300; i++ {
		rows = append(rows, eqRow(i+2, i+1, "line"))
	}
	rows = append(rows, insRow(301, "0 CRC errors"))

	got := Reconcile(rows)

	assert.Equal(t, "0 CRC errors", got[0].Right.Text)
	assert.Len(t, got, 301)
}

func TestReconcile_SynthesizesZeroedCounterLine(t *testing.T) {
	rows := []Row{delRow(4, "  12 input errors, 3 CRC, 1 frame, 0 overrun, 9 ignored, 2 abort")}

	got := Reconcile(rows)

	require.Len(t, got, 1)
	right := got[0].Right
	assert.True(t, right.Synthetic)
	assert.Equal(t, 0, right.No)
	assert.Equal(t, SideInsert, right.Type)
	assert.Equal(t, "  0 input errors, 0 CRC, 0 frame, 0 overrun, 0 ignored, 0 abort", right.Text)
	assert.True(t, strings.Contains(got[0].Left.HTML, `<span class="diffTokDel">12</span>`))
}

func TestReconcile_MergesSkipRows(t *testing.T) {
	rows := []Row{
		{Kind: RowSkip, Count: 2},
		delRow(3, "5 CRC errors"),
		{Kind: RowSkip, Count: 3},
		insRow(6, "0 CRC errors"),
		{Kind: RowSkip, Count: 1},
	}

	got := Reconcile(rows)

	require.Len(t, got, 3)
	assert.Equal(t, Row{Kind: RowSkip, Count: 2}, got[0])
	assert.Equal(t, "0 CRC errors", got[1].Right.Text)
	assert.Equal(t, Row{Kind: RowSkip, Count: 4}, got[2])
}

func TestReconcile_DoesNotModifyInput(t *testing.T) {
	rows := []Row{
		delRow(1, "5 CRC errors"),
		insRow(1, "0 CRC errors"),
	}

	Reconcile(rows)

	assert.Equal(t, SideEmpty, rows[0].Right.Type)
	assert.Empty(t, rows[0].Left.HTML)
	assert.Len(t, rows, 2)
}

func TestCompare_OnlyChanges(t *testing.T) {
	before := []string{"a", "b", "c", "d", "e"}
	after := []string{"a", "b", "X", "d", "e"}

	res := Compare(before, after, true)

	require.Len(t, res.Rows, 3)
	assert.Equal(t, Row{Kind: RowSkip, Count: 2}, res.Rows[0])
	assert.Equal(t, "c", res.Rows[1].Left.Text)
	assert.Equal(t, "X", res.Rows[1].Right.Text)
	assert.Equal(t, Row{Kind: RowSkip, Count: 2}, res.Rows[2])
}

func TestCompare_Empty(t *testing.T) {
	res := Compare(nil, nil, false)

	assert.NotNil(t, res.Rows)
	assert.Empty(t, res.Rows)
	assert.Zero(t, res.Added)
	assert.Zero(t, res.Removed)
}
