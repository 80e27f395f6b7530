package views

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
	"github.com/tgienger/pm/internal/ui/styles"
)

// Navigation messages handled by the App
type (
	SelectedProject struct{ ProjectID string }
	BackToProjects  struct{}
	ShowTeam        struct{}
)

// clamp returns val clamped between minVal and maxVal
func clamp(val, minVal, maxVal int) int {
	if val < minVal {
		return minVal
	}
	if val > maxVal {
		return maxVal
	}
	return val
}

func newProgressBar(width int) progress.Model {
	return progress.New(
		progress.WithSolidFill(string(styles.Current.Success)),
		progress.WithoutPercentage(),
		progress.WithWidth(width),
	)
}

// renderProgress draws a bar plus the percentage, e.g. "█████░░░░░  50%"
func renderProgress(bar progress.Model, percent int) string {
	return fmt.Sprintf("%s %3d%%", bar.ViewAs(float64(percent)/100), percent)
}

func renderBadge(s *styles.Styles, label string, color lipgloss.Color) string {
	return s.Badge.Foreground(color).Render(label)
}

// helpLine renders "k desc • k desc" pairs
func helpLine(s *styles.Styles, pairs ...string) string {
	parts := make([]string, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		parts = append(parts, s.HelpKey.Render(pairs[i])+" "+pairs[i+1])
	}
	return s.Help.Render(strings.Join(parts, " • "))
}

func renderHelpPopup(s *styles.Styles, width, height int, pairs ...string) string {
	contentWidth := styles.ContentWidth(width)

	items := []string{s.Title.Render("Keyboard Shortcuts"), ""}
	for i := 0; i+1 < len(pairs); i += 2 {
		items = append(items, s.HelpKey.Render(fmt.Sprintf("%-7s", pairs[i]))+pairs[i+1])
	}
	items = append(items, "", s.TitleMuted.Render("Press any key to close"))

	centered := lipgloss.Place(contentWidth, height,
		lipgloss.Center, lipgloss.Center,
		s.FilterBar.Render(lipgloss.JoinVertical(lipgloss.Left, items...)),
	)
	return styles.CenterView(centered, width, height)
}

func renderDeleteConfirm(s *styles.Styles, width, height int, title, name, detail string) string {
	contentWidth := styles.ContentWidth(width)

	lines := []string{
		s.Title.Foreground(styles.Current.Error).Render(title),
		"",
		s.TitleMuted.Render(fmt.Sprintf("Delete %q?", name)),
	}
	if detail != "" {
		lines = append(lines, s.TitleMuted.Render(detail))
	}
	lines = append(lines, "",
		lipgloss.JoinHorizontal(lipgloss.Center,
			s.ButtonPrimary.Render(" Y - Yes "),
			"  ",
			s.Button.Render(" N - No "),
		),
	)

	centered := lipgloss.Place(contentWidth, height,
		lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center, lines...),
	)
	return styles.CenterView(centered, width, height)
}

// parseHours reads a finite, non-negative number of hours
func parseHours(raw string) (float64, bool) {
	h, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(h) || math.IsInf(h, 0) || h < 0 {
		return 0, false
	}
	return h, true
}
