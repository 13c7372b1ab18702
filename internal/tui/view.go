package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Underline(true)
	speedStyle    = lipgloss.NewStyle().Bold(true)
	commentStyle  = lipgloss.NewStyle().Italic(true)
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	statusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Background(lipgloss.Color("236")).Padding(0, 1)
	frameStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 2)
	idlePromptClr = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

func (a *App) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("netbuddy"))
	b.WriteString("\n\n")

	switch a.state {
	case stateMonitoring:
		b.WriteString(a.renderMonitoring())
	default:
		b.WriteString(a.renderIdle())
	}

	if a.status != "" {
		b.WriteString("\n" + statusStyle.Render(a.status))
	}
	b.WriteString("\n" + a.help.View(a.keys))
	return b.String()
}

func (a *App) renderIdle() string {
	lines := []string{
		"😴  napping",
		"",
		idlePromptClr.Render("press s to start watching your internet"),
	}
	return frameStyle.Render(strings.Join(lines, "\n")) + "\n"
}

func (a *App) renderMonitoring() string {
	var lines []string

	lines = append(lines, a.renderSpeedLine())
	if a.speedSet {
		lines = append(lines, commentStyle.Foreground(a.curTier.Color).Render(a.curTier.Comment))
	}
	lines = append(lines, "")
	lines = append(lines, a.renderAvgLine())
	lines = append(lines, a.renderNextProbeLine())

	return frameStyle.Render(strings.Join(lines, "\n")) + "\n"
}

func (a *App) renderSpeedLine() string {
	if !a.speedSet {
		return dimStyle.Render("measuring...")
	}
	if !a.tierOK {
		return fmt.Sprintf("%s  %s", a.curTier.Icon,
			speedStyle.Foreground(a.curTier.Color).Render("-- Mbps"))
	}
	return fmt.Sprintf("%s  %s", a.curTier.Icon,
		speedStyle.Foreground(a.curTier.Color).Render(formatMbps(a.speedMbps)))
}

func (a *App) renderAvgLine() string {
	if a.window.Len() == 0 {
		return dimStyle.Render("avg: --")
	}
	return dimStyle.Render(fmt.Sprintf("avg: %s over last %d", formatMbps(a.window.Avg()), a.window.Len()))
}

func (a *App) renderNextProbeLine() string {
	if a.probing {
		return a.spin.View() + dimStyle.Render("probing...")
	}
	return dimStyle.Render(fmt.Sprintf("next probe in %ds", a.countdown))
}

func formatMbps(v float64) string {
	return fmt.Sprintf("%.1f Mbps", v)
}
