// Package probe measures download throughput with timed HTTP GETs
// against a byte-count endpoint.
package probe

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/Sharx05/netbuddy/internal/speed"
)

// Sample is the result of one timed download.
type Sample struct {
	Bytes    int64
	Duration time.Duration
	Mbps     float64
}

// Measurement is the outcome of a burst of probes.
type Measurement struct {
	Samples []Sample
	Mbps    float64 // aggregate of the successful samples
	Failed  int     // probes that errored within the burst
}

// Prober downloads a payload from a single endpoint and times it.
type Prober struct {
	URL     string
	Mode    speed.AggregateMode
	Timeout time.Duration
	Client  *http.Client
	Log     zerolog.Logger
}

// New returns a Prober with a dedicated client. Timing the transfer
// needs streaming reads of the response body, so the client is plain
// net/http with compression disabled to keep byte counts honest.
func New(url string, mode speed.AggregateMode, timeout time.Duration, log zerolog.Logger) *Prober {
	return &Prober{
		URL:     url,
		Mode:    mode,
		Timeout: timeout,
		Client: &http.Client{
			Transport: &http.Transport{DisableCompression: true},
		},
		Log: log,
	}
}

// Probe runs one timed GET. The clock covers the full request plus the
// body read; bytes are what actually arrived, not the nominal payload
// size.
func (p *Prober) Probe(ctx context.Context) (Sample, error) {
	if p.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.URL, nil)
	if err != nil {
		return Sample{}, fmt.Errorf("build probe request: %w", err)
	}

	start := time.Now()
	resp, err := p.Client.Do(req)
	if err != nil {
		return Sample{}, fmt.Errorf("probe %s: %w", p.URL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Sample{}, fmt.Errorf("probe %s: unexpected status %s", p.URL, resp.Status)
	}

	n, err := io.Copy(io.Discard, resp.Body)
	if err != nil {
		return Sample{}, fmt.Errorf("probe %s: read body: %w", p.URL, err)
	}
	elapsed := time.Since(start)

	if n == 0 {
		return Sample{}, fmt.Errorf("probe %s: empty payload", p.URL)
	}

	s := Sample{Bytes: n, Duration: elapsed, Mbps: mbps(n, elapsed)}
	p.Log.Debug().
		Int64("bytes", s.Bytes).
		Dur("duration", s.Duration).
		Float64("mbps", s.Mbps).
		Msg("probe complete")
	return s, nil
}

// Measure runs n probes sequentially and aggregates the successful
// ones. It fails only when every probe in the burst fails.
func (p *Prober) Measure(ctx context.Context, n int) (Measurement, error) {
	if n < 1 {
		n = 1
	}
	m := Measurement{Samples: make([]Sample, 0, n)}
	var lastErr error
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return Measurement{}, err
		}
		s, err := p.Probe(ctx)
		if err != nil {
			m.Failed++
			lastErr = err
			p.Log.Warn().Err(err).Int("probe", i+1).Msg("probe failed")
			continue
		}
		m.Samples = append(m.Samples, s)
	}
	if len(m.Samples) == 0 {
		return Measurement{}, fmt.Errorf("all %d probes failed: %w", n, lastErr)
	}

	values := make([]float64, len(m.Samples))
	for i, s := range m.Samples {
		values[i] = s.Mbps
	}
	agg, err := speed.Aggregate(values, p.Mode)
	if err != nil {
		return Measurement{}, err
	}
	m.Mbps = agg
	return m, nil
}

// mbps converts a byte count over a duration to megabits per second,
// decimal base.
func mbps(bytes int64, d time.Duration) float64 {
	secs := d.Seconds()
	if secs <= 0 {
		return 0
	}
	return float64(bytes) * 8 / 1e6 / secs
}
