// Package speed reduces raw probe samples to the numbers the widget
// displays: one aggregate per measurement and a running average over a
// capped window of recent measurements.
package speed

import (
	"fmt"

	"github.com/montanaflynn/stats"
)

// AggregateMode selects how the probes of one measurement are combined.
type AggregateMode string

const (
	// AggregateMedian is the default; it shrugs off a single slow or
	// fast outlier probe.
	AggregateMedian AggregateMode = "median"
	AggregateMean   AggregateMode = "mean"
)

// ParseAggregateMode validates a config string.
func ParseAggregateMode(s string) (AggregateMode, error) {
	switch AggregateMode(s) {
	case AggregateMedian, AggregateMean:
		return AggregateMode(s), nil
	case "":
		return AggregateMedian, nil
	}
	return "", fmt.Errorf("unknown aggregate mode %q (want median or mean)", s)
}

// Aggregate combines the per-probe Mbps values of one measurement.
// The median of an even-length list is the mean of the two middle values.
func Aggregate(mbps []float64, mode AggregateMode) (float64, error) {
	if len(mbps) == 0 {
		return 0, fmt.Errorf("no samples to aggregate")
	}
	switch mode {
	case AggregateMean:
		return stats.Mean(stats.Float64Data(mbps))
	case AggregateMedian, "":
		return stats.Median(stats.Float64Data(mbps))
	default:
		return 0, fmt.Errorf("unknown aggregate mode %q", mode)
	}
}

// Window holds the most recent measurement results, oldest evicted once
// the cap is reached. It is discarded wholesale when monitoring stops.
type Window struct {
	cap     int
	samples []float64
}

// NewWindow returns a window capped at n entries (minimum 1).
func NewWindow(n int) *Window {
	if n < 1 {
		n = 1
	}
	return &Window{cap: n}
}

// Push appends a measurement, evicting the oldest past the cap.
func (w *Window) Push(mbps float64) {
	w.samples = append(w.samples, mbps)
	if len(w.samples) > w.cap {
		w.samples = w.samples[len(w.samples)-w.cap:]
	}
}

// Avg is the running mean of the window, 0 when empty.
func (w *Window) Avg() float64 {
	if len(w.samples) == 0 {
		return 0
	}
	avg, err := stats.Mean(stats.Float64Data(w.samples))
	if err != nil {
		return 0
	}
	return avg
}

// Len reports how many measurements the window currently holds.
func (w *Window) Len() int { return len(w.samples) }

// Values returns the window contents oldest first.
func (w *Window) Values() []float64 {
	out := make([]float64, len(w.samples))
	copy(out, w.samples)
	return out
}

// Reset empties the window.
func (w *Window) Reset() {
	w.samples = w.samples[:0]
}
