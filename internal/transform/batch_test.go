package transform

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/showscrub/backend/internal/clock"
	"github.com/showscrub/backend/internal/testutil"
)

func TestConvertBatch(t *testing.T) {
	docs := []Document{
		{Name: "1. SW1 rawfile.txt", Text: testutil.Transcript},
		{Name: "2. SW2 rawfile.txt", Text: "SW2#show version"},
		{Name: "3. SW3 rawfile.txt", Text: testutil.Transcript},
	}

	outcomes := newTestPipeline().ConvertBatch(context.Background(), docs, clock.DefaultOptions(), 2)

	require.Len(t, outcomes, 3)
	for i, o := range outcomes {
		assert.Equal(t, i, o.Index)
		assert.Equal(t, docs[i].Name, o.Name)
		require.NoError(t, o.Err)
		require.NotNil(t, o.Result)
	}
	assert.True(t, outcomes[0].Healthy())
	assert.False(t, outcomes[1].Healthy())
	assert.True(t, outcomes[2].Healthy())
	assert.Equal(t, outcomes[0].Result.Output, outcomes[2].Result.Output)

	sum := Summarize(outcomes)
	assert.Equal(t, BatchSummary{Total: 3, Healthy: 2, Unhealthy: 1, Problems: []string{"SW2"}}, sum)
	assert.False(t, sum.Pass())
}

func TestConvertBatch_FailureIsolated(t *testing.T) {
	docs := []Document{
		{Name: "a.log", Text: testutil.Transcript},
		{Name: "b.log", Text: "SW2#show version"},
	}

	outcomes := newTestPipeline(WithRand(panicRand{})).ConvertBatch(context.Background(), docs, clock.DefaultOptions(), 0)

	require.Error(t, outcomes[0].Err)
	assert.Nil(t, outcomes[0].Result)
	require.NoError(t, outcomes[1].Err)
	assert.Equal(t, "SW2#show version", outcomes[1].Result.Output)

	sum := Summarize(outcomes)
	assert.Equal(t, 1, sum.Failed)
	assert.Equal(t, 1, sum.Unhealthy)
	assert.Equal(t, []string{"a", "b"}, sum.Problems)
}

func TestConvertBatch_UnreadableDocument(t *testing.T) {
	readErr := errors.New("permission denied")
	docs := []Document{
		{Name: "a.log", Err: readErr},
		{Name: "b.log", Text: testutil.Transcript},
	}

	outcomes := newTestPipeline().ConvertBatch(context.Background(), docs, clock.DefaultOptions(), 2)

	assert.ErrorIs(t, outcomes[0].Err, readErr)
	assert.Nil(t, outcomes[0].Result)
	assert.True(t, outcomes[1].Healthy())
	assert.Equal(t, []string{"a"}, Summarize(outcomes).Problems)
}

func TestConvertBatch_IndependentDraws(t *testing.T) {
	r := &testutil.SeqRand{Draws: []int{0}}
	docs := []Document{{Name: "a", Text: testutil.Transcript}, {Name: "b", Text: testutil.Transcript}}

	newTestPipeline(WithRand(r)).ConvertBatch(context.Background(), docs, clock.DefaultOptions(), 1)

	// One trailing gap draw per document.
	assert.Equal(t, []int{31, 31}, r.Bounds)
}

func TestConvertBatch_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	outcomes := newTestPipeline().ConvertBatch(ctx, []Document{{Name: "a", Text: "x"}}, clock.DefaultOptions(), 1)

	assert.ErrorIs(t, outcomes[0].Err, context.Canceled)
}

func TestSummarize_AllHealthy(t *testing.T) {
	res := newTestPipeline().Run(testutil.Transcript, clock.DefaultOptions())

	sum := Summarize([]Outcome{{Name: "a", Result: &res}})

	assert.True(t, sum.Pass())
	assert.Empty(t, sum.Problems)
	assert.False(t, Summarize(nil).Pass())
}

func TestDisplayName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"3. SW1 rawfile.txt", "SW1"},
		{"core-01.log", "core-01"},
		{"  ", "-"},
		{"7. Core-SW rawfile.log", "Core-SW"},
		{".log", ".log"},
	}

	for _, tt := range tests {
		t.Run(strings.TrimSpace(tt.in), func(t *testing.T) {
			assert.Equal(t, tt.want, DisplayName(tt.in))
		})
	}
}
