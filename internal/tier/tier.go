// Package tier maps a download speed estimate to one of five comedic
// reaction tiers. Ranges are half-open [Min, Max) in Mbps and must be
// contiguous and monotonic.
package tier

import (
	"fmt"
	"math"

	"github.com/charmbracelet/lipgloss"
)

// Tier is one speed range and the reaction attached to it.
type Tier struct {
	Name    string // stable identifier, also the sound file basename
	Min     float64
	Max     float64 // exclusive; +Inf for the top tier
	Comment string
	Icon    string
	Color   lipgloss.Color
}

// Sound returns the sound file name for the tier (one-to-one naming).
func (t Tier) Sound() string {
	return t.Name + ".wav"
}

// Contains reports whether v falls inside the tier's half-open range.
func (t Tier) Contains(v float64) bool {
	return v >= t.Min && v < t.Max
}

// Default is the built-in tier table, slowest first.
func Default() []Tier {
	return []Tier{
		{
			Name:    "snail",
			Min:     0,
			Max:     1,
			Comment: "Dial-up flashbacks. Maybe mail them a USB stick instead.",
			Icon:    "🐌",
			Color:   lipgloss.Color("160"),
		},
		{
			Name:    "sloth",
			Min:     1,
			Max:     5,
			Comment: "Pages load... eventually. Great excuse for a tea break.",
			Icon:    "🦥",
			Color:   lipgloss.Color("208"),
		},
		{
			Name:    "turtle",
			Min:     5,
			Max:     25,
			Comment: "Perfectly adequate. The beige sedan of internet speeds.",
			Icon:    "🐢",
			Color:   lipgloss.Color("220"),
		},
		{
			Name:    "rabbit",
			Min:     25,
			Max:     100,
			Comment: "Zippy! Your downloads finish before your coffee does.",
			Icon:    "🐇",
			Color:   lipgloss.Color("76"),
		},
		{
			Name:    "rocket",
			Min:     100,
			Max:     math.Inf(1),
			Comment: "Ludicrous speed. Are you downloading the whole internet?",
			Icon:    "🚀",
			Color:   lipgloss.Color("45"),
		},
	}
}

// Err is the fallback tier shown when a measurement fails. It sits
// outside the speed table and is never matched by Classify.
func Err() Tier {
	return Tier{
		Name:    "offline",
		Comment: "The internet appears to be a lie. Check your cables?",
		Icon:    "🔌",
		Color:   lipgloss.Color("241"),
	}
}

// Classify returns the tier whose range contains v. A value equal to a
// tier's Min selects that tier, not the one below it. The second return
// is false when v falls outside every range (negative speeds).
func Classify(table []Tier, v float64) (Tier, bool) {
	for _, t := range table {
		if t.Contains(v) {
			return t, true
		}
	}
	return Tier{}, false
}

// Validate rejects tables with gaps, overlaps, or non-monotonic
// boundaries. The table must start at 0 and end open-ended.
func Validate(table []Tier) error {
	if len(table) == 0 {
		return fmt.Errorf("tier table is empty")
	}
	if table[0].Min != 0 {
		return fmt.Errorf("tier %q: table must start at 0, got %v", table[0].Name, table[0].Min)
	}
	for i, t := range table {
		if t.Name == "" {
			return fmt.Errorf("tier %d: missing name", i)
		}
		if t.Max <= t.Min {
			return fmt.Errorf("tier %q: empty range [%v, %v)", t.Name, t.Min, t.Max)
		}
		if i > 0 && t.Min != table[i-1].Max {
			return fmt.Errorf("tier %q: range starts at %v but previous ends at %v", t.Name, t.Min, table[i-1].Max)
		}
	}
	if last := table[len(table)-1]; !math.IsInf(last.Max, 1) {
		return fmt.Errorf("tier %q: top tier must be open-ended", last.Name)
	}
	return nil
}
