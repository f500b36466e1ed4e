package diff

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sampleEdits = []Edit{
	{Op: Equal, Line: "a"},
	{Op: Delete, Line: "b"},
	{Op: Delete, Line: "c"},
	{Op: Insert, Line: "X"},
	{Op: Equal, Line: "d"},
}

func TestBuildRows_AllLines(t *testing.T) {
	rows := BuildRows(sampleEdits, false)

	require.Len(t, rows, 4)

	assert.Equal(t, RowPair, rows[0].Kind)
	assert.Equal(t, Side{No: 1, Text: "a", Type: SideEqual}, *rows[0].Left)
	assert.Equal(t, Side{No: 1, Text: "a", Type: SideEqual}, *rows[0].Right)

	assert.Equal(t, SideDelete, rows[1].Left.Type)
	assert.Equal(t, 2, rows[1].Left.No)
	assert.Equal(t, SideInsert, rows[1].Right.Type)
	assert.Equal(t, 2, rows[1].Right.No)
	assert.Equal(t, `<span class="diffTokDel">b</span>`, rows[1].Left.HTML)
	assert.Equal(t, `<span class="diffTokAdd">X</span>`, rows[1].Right.HTML)

	assert.Equal(t, Side{No: 3, Text: "c", Type: SideDelete}, *rows[2].Left)
	assert.Equal(t, Side{Type: SideEmpty}, *rows[2].Right)

	assert.Equal(t, 4, rows[3].Left.No)
	assert.Equal(t, 3, rows[3].Right.No)
}

func TestBuildRows_OnlyChanges(t *testing.T) {
	rows := BuildRows(sampleEdits, true)

	require.Len(t, rows, 4)
	assert.Equal(t, Row{Kind: RowSkip, Count: 1}, rows[0])
	assert.Equal(t, "b", rows[1].Left.Text)
	assert.Equal(t, "c", rows[2].Left.Text)
	assert.Equal(t, Row{Kind: RowSkip, Count: 1}, rows[3])
}

func TestBuildRows_InsertRunLongerThanDeleteRun(t *testing.T) {
	rows := BuildRows([]Edit{
		{Op: Delete, Line: "old"},
		{Op: Insert, Line: "new 1"},
		{Op: Insert, Line: "new 2"},
	}, false)

	require.Len(t, rows, 2)
	assert.Equal(t, "old", rows[0].Left.Text)
	assert.Equal(t, "new 1", rows[0].Right.Text)
	assert.Equal(t, SideEmpty, rows[1].Left.Type)
	assert.Equal(t, 0, rows[1].Left.No)
	assert.Equal(t, "new 2", rows[1].Right.Text)
	assert.Equal(t, 2, rows[1].Right.No)
}
