package speed

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAggregateMedian(t *testing.T) {
	t.Parallel()

	got, err := Aggregate([]float64{2, 4, 6}, AggregateMedian)
	require.NoError(t, err)
	require.InDelta(t, 4, got, 1e-9)

	// even length: mean of the two middle values
	got, err = Aggregate([]float64{2, 4}, AggregateMedian)
	require.NoError(t, err)
	require.InDelta(t, 3, got, 1e-9)

	// median ignores a single outlier
	got, err = Aggregate([]float64{10, 11, 950}, AggregateMedian)
	require.NoError(t, err)
	require.InDelta(t, 11, got, 1e-9)
}

func TestAggregateMean(t *testing.T) {
	t.Parallel()

	got, err := Aggregate([]float64{2, 4, 6}, AggregateMean)
	require.NoError(t, err)
	require.InDelta(t, 4, got, 1e-9)

	got, err = Aggregate([]float64{1, 2}, AggregateMean)
	require.NoError(t, err)
	require.InDelta(t, 1.5, got, 1e-9)
}

func TestAggregateEmpty(t *testing.T) {
	t.Parallel()

	_, err := Aggregate(nil, AggregateMedian)
	require.Error(t, err)
}

func TestAggregateUnknownMode(t *testing.T) {
	t.Parallel()

	// callers skipping ParseAggregateMode must not get silent median
	_, err := Aggregate([]float64{1, 2, 3}, AggregateMode("mode"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "unknown aggregate mode")

	// the zero value still means the default
	got, err := Aggregate([]float64{2, 4, 6}, "")
	require.NoError(t, err)
	require.InDelta(t, 4, got, 1e-9)
}

func TestParseAggregateMode(t *testing.T) {
	t.Parallel()

	m, err := ParseAggregateMode("median")
	require.NoError(t, err)
	require.Equal(t, AggregateMedian, m)

	m, err = ParseAggregateMode("mean")
	require.NoError(t, err)
	require.Equal(t, AggregateMean, m)

	// empty defaults to median
	m, err = ParseAggregateMode("")
	require.NoError(t, err)
	require.Equal(t, AggregateMedian, m)

	_, err = ParseAggregateMode("mode")
	require.Error(t, err)
}

func TestWindowCapAndAvg(t *testing.T) {
	t.Parallel()

	w := NewWindow(3)
	require.Equal(t, 0, w.Len())
	require.Zero(t, w.Avg())

	w.Push(1)
	w.Push(2)
	w.Push(3)
	require.Equal(t, 3, w.Len())
	require.InDelta(t, 2, w.Avg(), 1e-9)

	// oldest evicted
	w.Push(6)
	require.Equal(t, 3, w.Len())
	require.Equal(t, []float64{2, 3, 6}, w.Values())
	require.InDelta(t, (2+3+6)/3.0, w.Avg(), 1e-9)
}

func TestWindowReset(t *testing.T) {
	t.Parallel()

	w := NewWindow(10)
	w.Push(42)
	w.Reset()
	require.Equal(t, 0, w.Len())
	require.Zero(t, w.Avg())
}
