package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Sharx05/netbuddy/internal/config"
	"github.com/Sharx05/netbuddy/internal/probe"
	"github.com/Sharx05/netbuddy/internal/speed"
	"github.com/Sharx05/netbuddy/internal/tier"
)

// Measurer runs one burst of probes and reduces it to a single estimate.
type Measurer interface {
	Measure(ctx context.Context, n int) (probe.Measurement, error)
}

// SoundPlayer plays the cue attached to a tier.
type SoundPlayer interface {
	Play(t tier.Tier) error
	SetMuted(m bool)
	Muted() bool
}

type appState string

const (
	stateIdle       appState = "idle"
	stateMonitoring appState = "monitoring"
)

// App is the speed-buddy widget.
type App struct {
	ctx     context.Context
	cfg     config.Config
	meter   Measurer
	player  SoundPlayer
	log     zerolog.Logger
	table   []tier.Tier
	errTier tier.Tier

	state     appState
	sessionID string
	probing   bool

	// displayed measurement state; speedSet distinguishes "0 Mbps"
	// from "no measurement yet"
	speedMbps float64
	speedSet  bool
	curTier   tier.Tier
	tierOK    bool
	window    *speed.Window
	countdown int

	spin   spinner.Model
	keys   keyMap
	help   help.Model
	status string
	width  int
	height int
}

type keyMap struct {
	Toggle key.Binding
	Mute   key.Binding
	Quit   key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Toggle: key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "start/stop")),
		Mute:   key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "mute")),
		Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Mute, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Toggle, k.Mute, k.Quit}}
}

// New builds the widget around an already-validated tier table.
func New(ctx context.Context, cfg config.Config, meter Measurer, player SoundPlayer, table []tier.Tier, errTier tier.Tier, log zerolog.Logger) *App {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	return &App{
		ctx:     ctx,
		cfg:     cfg,
		meter:   meter,
		player:  player,
		log:     log,
		table:   table,
		errTier: errTier,
		state:   stateIdle,
		window:  speed.NewWindow(cfg.UI.HistorySize),
		spin:    sp,
		keys:    newKeyMap(),
		help:    help.New(),
	}
}

// messages

type measureDoneMsg struct {
	session string
	result  probe.Measurement
}

type measureFailedMsg struct {
	session string
	err     error
}

// tick messages carry the session that armed them: tea.Tick cannot be
// cancelled, so a pending tick surviving a stop/restart must identify
// itself as stale or it would fork a second timer chain
type probeTickMsg struct{ session string }

type countdownTickMsg struct{ session string }

type soundErrMsg struct{ err error }

func (a *App) Init() tea.Cmd {
	return nil
}

// commands

func (a *App) measureCmd(session string) tea.Cmd {
	return func() tea.Msg {
		m, err := a.meter.Measure(a.ctx, a.cfg.Probe.Count)
		if err != nil {
			return measureFailedMsg{session: session, err: err}
		}
		return measureDoneMsg{session: session, result: m}
	}
}

func (a *App) probeTick(session string) tea.Cmd {
	return tea.Tick(a.interval(), func(time.Time) tea.Msg {
		return probeTickMsg{session: session}
	})
}

func (a *App) countdownTick(session string) tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return countdownTickMsg{session: session}
	})
}

func (a *App) playSoundCmd(t tier.Tier) tea.Cmd {
	return func() tea.Msg {
		if err := a.player.Play(t); err != nil {
			return soundErrMsg{err}
		}
		return nil
	}
}

func (a *App) interval() time.Duration {
	return time.Duration(a.cfg.Probe.IntervalSeconds) * time.Second
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = m.Width, m.Height
		a.help.Width = m.Width

	case tea.KeyMsg:
		switch {
		case key.Matches(m, a.keys.Quit):
			return a, tea.Quit
		case key.Matches(m, a.keys.Toggle):
			if a.state == stateIdle {
				return a, a.start()
			}
			a.stop()
		case key.Matches(m, a.keys.Mute):
			a.player.SetMuted(!a.player.Muted())
			a.cfg.Sound.Enabled = !a.player.Muted()
			if err := config.Save(a.cfg); err != nil {
				a.log.Warn().Err(err).Msg("persist mute preference")
			}
			if a.player.Muted() {
				a.status = "sound muted"
			} else {
				a.status = "sound on"
			}
		}

	case probeTickMsg:
		if m.session != a.sessionID || a.state != stateMonitoring {
			return a, nil
		}
		a.probing = true
		a.countdown = a.cfg.Probe.IntervalSeconds
		return a, tea.Batch(a.measureCmd(a.sessionID), a.probeTick(a.sessionID), a.spin.Tick)

	case countdownTickMsg:
		if m.session != a.sessionID || a.state != stateMonitoring {
			return a, nil
		}
		if a.countdown > 0 {
			a.countdown--
		}
		return a, a.countdownTick(a.sessionID)

	case measureDoneMsg:
		// a result racing a stop (or a restart) carries a stale
		// session ID and is dropped
		if m.session != a.sessionID || a.state != stateMonitoring {
			return a, nil
		}
		a.probing = false
		a.speedMbps = m.result.Mbps
		a.speedSet = true
		a.window.Push(m.result.Mbps)
		a.curTier, a.tierOK = tier.Classify(a.table, m.result.Mbps)
		if !a.tierOK {
			a.curTier = a.errTier
		}
		a.status = ""
		a.log.Info().
			Str("session", m.session).
			Float64("mbps", m.result.Mbps).
			Int("probes", len(m.result.Samples)).
			Int("failed", m.result.Failed).
			Str("tier", a.curTier.Name).
			Msg("measurement complete")
		if a.tierOK {
			return a, a.playSoundCmd(a.curTier)
		}

	case measureFailedMsg:
		if m.session != a.sessionID || a.state != stateMonitoring {
			return a, nil
		}
		a.probing = false
		a.speedMbps = 0
		a.speedSet = true
		a.curTier = a.errTier
		a.tierOK = false
		a.status = ""
		a.log.Warn().Str("session", m.session).Err(m.err).Msg("measurement failed")

	case soundErrMsg:
		a.status = "sound playback failed (see log)"
		a.log.Warn().Err(m.err).Msg("sound playback")

	case spinner.TickMsg:
		if !a.probing {
			return a, nil
		}
		var cmd tea.Cmd
		a.spin, cmd = a.spin.Update(m)
		return a, cmd
	}
	return a, nil
}

// start opens a monitoring session: mint an ID, fire the first
// measurement right away, and arm both timers.
func (a *App) start() tea.Cmd {
	a.state = stateMonitoring
	a.sessionID = uuid.NewString()
	a.window.Reset()
	a.speedSet = false
	a.tierOK = false
	a.probing = true
	a.countdown = a.cfg.Probe.IntervalSeconds
	a.status = ""
	a.log.Info().Str("session", a.sessionID).Str("server", a.cfg.Probe.Server).Msg("monitoring started")
	return tea.Batch(a.measureCmd(a.sessionID), a.probeTick(a.sessionID), a.countdownTick(a.sessionID), a.spin.Tick)
}

// stop ends the session. Ticks only reschedule while monitoring, so
// both timers die on their next fire; the displayed speed resets to
// unset.
func (a *App) stop() {
	a.log.Info().Str("session", a.sessionID).Msg("monitoring stopped")
	a.state = stateIdle
	a.sessionID = ""
	a.probing = false
	a.speedSet = false
	a.tierOK = false
	a.window.Reset()
	a.status = ""
}
