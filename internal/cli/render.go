package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/tally/internal/constants"
	"github.com/julianstephens/tally/internal/models"
	"github.com/julianstephens/tally/internal/projection"
	"github.com/julianstephens/tally/internal/stats"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true)
	groupStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("244"))
	doneStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#33CF69"))
	dimStyle    = lipgloss.NewStyle().Faint(true)
)

// Swatch renders a coloured block for a tracker colour.
func Swatch(c models.Color) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(c.String())).Render("●")
}

// RenderProjection prints the trackers due on the projected day, grouped as
// in the projection.
func RenderProjection(p projection.Projection) string {
	var b strings.Builder

	title := p.Date.Format(constants.DisplayDateFormat)
	if p.Search != "" {
		title += fmt.Sprintf("  (search: %q)", p.Search)
	}
	b.WriteString(headerStyle.Render(title))
	b.WriteString("\n")

	switch {
	case p.CatalogEmpty:
		b.WriteString(dimStyle.Render("No trackers yet. Add one with 'tally tracker add'."))
		b.WriteString("\n")
		return b.String()
	case p.NoMatches:
		b.WriteString(dimStyle.Render("Nothing due."))
		b.WriteString("\n")
		return b.String()
	}

	for _, g := range p.Groups {
		b.WriteString("\n")
		b.WriteString(groupStyle.Render(strings.ToUpper(g.Title)))
		b.WriteString("\n")
		for _, v := range g.Trackers {
			b.WriteString("  ")
			b.WriteString(TrackerLine(v))
			b.WriteString("\n")
		}
	}
	return b.String()
}

// TrackerLine renders one row: check box, colour, emoji, name and caption.
func TrackerLine(v projection.TrackerView) string {
	box := "[ ]"
	if v.Completed {
		box = doneStyle.Render("[✓]")
	}
	name := strings.TrimSpace(v.Tracker.Emoji + " " + v.Tracker.Name)
	return fmt.Sprintf("%s %s %s  %s", box, Swatch(v.Tracker.Color), name, dimStyle.Render(fmt.Sprintf("%s · %d done", v.Caption, v.CompletedCount)))
}

// RenderStats prints a statistics summary.
func RenderStats(s stats.Summary) string {
	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("Statistics %s to %s", s.From, s.To)))
	b.WriteString("\n\n")

	if s.Empty() {
		b.WriteString(dimStyle.Render("Nothing to analyse yet. Complete a tracker to see statistics."))
		b.WriteString("\n")
		return b.String()
	}

	fmt.Fprintf(&b, "  Best period:        %d days\n", s.BestPeriod)
	fmt.Fprintf(&b, "  Perfect days:       %d\n", s.PerfectDays)
	fmt.Fprintf(&b, "  Trackers completed: %d\n", s.CompletedTotal)
	fmt.Fprintf(&b, "  Average per day:    %d\n", s.AveragePerDay)

	if len(s.Trackers) > 0 {
		b.WriteString("\n")
		b.WriteString(groupStyle.Render("TRACKERS"))
		b.WriteString("\n")
		for _, t := range s.Trackers {
			fmt.Fprintf(&b, "  %-24s %4d done  streak %d (best %d)\n", t.Name, t.Completed, t.CurrentStreak, t.LongestStreak)
		}
	}
	return b.String()
}
