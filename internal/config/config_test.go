package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	// points NETBUDDY_CONFIG at a missing file so only defaults apply
	t.Setenv("NETBUDDY_CONFIG", filepath.Join(t.TempDir(), "missing.toml"))

	c, err := Load()
	require.NoError(t, err)
	require.Equal(t, "cloudflare", c.Probe.Server)
	require.Equal(t, 3, c.Probe.Count)
	require.Equal(t, 30, c.Probe.IntervalSeconds)
	require.Equal(t, "median", c.Probe.Aggregate)
	require.Equal(t, 10, c.UI.HistorySize)
	require.True(t, c.Sound.Enabled)
	require.NotEmpty(t, c.Probe.Servers)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	data := `
[probe]
server = "local"
count = 1
interval_seconds = 5
timeout_seconds = 2
aggregate = "mean"

[[probe.servers]]
name = "local"
url = "http://127.0.0.1:9999/payload"

[ui]
history_size = 4

[sound]
enabled = false
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
	t.Setenv("NETBUDDY_CONFIG", path)

	c, err := Load()
	require.NoError(t, err)
	require.Equal(t, "local", c.Probe.Server)
	require.Equal(t, 1, c.Probe.Count)
	require.Equal(t, 5, c.Probe.IntervalSeconds)
	require.Equal(t, "mean", c.Probe.Aggregate)
	require.Equal(t, 4, c.UI.HistorySize)
	require.False(t, c.Sound.Enabled)

	srv, err := c.ResolveServer(c.Probe.Server)
	require.NoError(t, err)
	require.Equal(t, "http://127.0.0.1:9999/payload", srv.URL)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[probe]\ncount = 0\n"), 0o644))
	t.Setenv("NETBUDDY_CONFIG", path)

	_, err := Load()
	require.Error(t, err)
	require.Contains(t, err.Error(), "probe.count")
}

func TestResolveServer(t *testing.T) {
	t.Parallel()

	c := Config{Probe: ProbeConfig{Servers: []Server{
		{Name: "cloudflare", URL: "https://example.com/cf"},
		{Name: "hetzner", URL: "https://example.com/hz"},
	}}}

	srv, err := c.ResolveServer("cloudflare")
	require.NoError(t, err)
	require.Equal(t, "https://example.com/cf", srv.URL)

	// case-insensitive
	srv, err = c.ResolveServer("Hetzner")
	require.NoError(t, err)
	require.Equal(t, "https://example.com/hz", srv.URL)

	// near miss gets a suggestion
	_, err = c.ResolveServer("cloudflre")
	require.Error(t, err)
	require.Contains(t, err.Error(), `did you mean "cloudflare"`)

	// far miss gets no suggestion
	_, err = c.ResolveServer("zzzzzzzzzzzz")
	require.Error(t, err)
	require.NotContains(t, err.Error(), "did you mean")

	_, err = c.ResolveServer("")
	require.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	t.Setenv("NETBUDDY_CONFIG", path)

	c, err := Load()
	require.NoError(t, err)
	c.Sound.Enabled = false
	c.Probe.Server = "hetzner"
	require.NoError(t, Save(c))

	got, err := Load()
	require.NoError(t, err)
	require.False(t, got.Sound.Enabled)
	require.Equal(t, "hetzner", got.Probe.Server)
	require.Equal(t, c.Probe.Count, got.Probe.Count)
}
