package cli

import (
	"github.com/charmbracelet/lipgloss"

	"ingredient-scout/scout/pkg/conflict"
)

// Styles is the terminal theme of the scout command. Lipgloss degrades to
// no color when output is not a TTY.
type Styles struct {
	Header lipgloss.Style
	Label  lipgloss.Style
	Value  lipgloss.Style
	Muted  lipgloss.Style

	Safe   lipgloss.Style
	Danger lipgloss.Style

	// Score colors the risk score by band.
	ScoreLow  lipgloss.Style
	ScoreMid  lipgloss.Style
	ScoreHigh lipgloss.Style

	TableHeader lipgloss.Style
	TableCell   lipgloss.Style
	Border      lipgloss.Style

	Pass lipgloss.Style
	Fail lipgloss.Style
	Warn lipgloss.Style
}

// DefaultStyles returns the default color scheme.
func DefaultStyles() Styles {
	return Styles{
		Header: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63")),
		Label:  lipgloss.NewStyle().Bold(true).Width(12),
		Value:  lipgloss.NewStyle(),
		Muted:  lipgloss.NewStyle().Foreground(lipgloss.Color("241")),

		Safe:   lipgloss.NewStyle().Foreground(lipgloss.Color("40")).Bold(true),
		Danger: lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),

		ScoreLow:  lipgloss.NewStyle().Foreground(lipgloss.Color("40")),
		ScoreMid:  lipgloss.NewStyle().Foreground(lipgloss.Color("220")),
		ScoreHigh: lipgloss.NewStyle().Foreground(lipgloss.Color("196")),

		TableHeader: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63")),
		TableCell:   lipgloss.NewStyle().PaddingRight(1),
		Border:      lipgloss.NewStyle().Foreground(lipgloss.Color("63")),

		Pass: lipgloss.NewStyle().Foreground(lipgloss.Color("40")).Bold(true),
		Fail: lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
		Warn: lipgloss.NewStyle().Foreground(lipgloss.Color("220")),
	}
}

// StatusStyle returns the style for a verdict status.
func (s Styles) StatusStyle(status conflict.Status) lipgloss.Style {
	if status == conflict.StatusDanger {
		return s.Danger
	}
	return s.Safe
}

// ScoreStyle returns the style for a risk score: below 40 low, below 70
// mid, otherwise high.
func (s Styles) ScoreStyle(score int) lipgloss.Style {
	switch {
	case score >= 70:
		return s.ScoreHigh
	case score >= conflict.DangerBaseScore:
		return s.ScoreMid
	default:
		return s.ScoreLow
	}
}
