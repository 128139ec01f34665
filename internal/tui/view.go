package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/tally/internal/constants"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.state {
	case StateTrackerForm, StateCategoryForm, StateConfirmDelete:
		content = m.form.View()
		if m.formError != "" {
			content = lipgloss.JoinVertical(lipgloss.Left, content, dangerStyle.Render(m.formError))
		}
	default:
		content = m.today.View()
	}

	var status string
	if m.status != "" {
		status = warningStyle.Render(m.status)
	}

	ui := lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewHeader(),
		m.viewSearch(),
		content,
		status,
		m.help.View(m),
	)
	return docStyle.Render(ui)
}

func (m Model) viewHeader() string {
	label := m.date.Format(constants.DisplayDateFormat)
	now := m.coord.Now()
	switch m.projection.Day {
	case now.Format(constants.DateFormat):
		label = "Today · " + label
	case now.AddDate(0, 0, -1).Format(constants.DateFormat):
		label = "Yesterday · " + label
	}
	done, total := 0, 0
	seen := make(map[string]bool)
	for _, v := range m.projection.Views() {
		if seen[v.Tracker.ID] {
			continue
		}
		seen[v.Tracker.ID] = true
		total++
		if v.Completed {
			done++
		}
	}
	return headerStyle.Render(fmt.Sprintf("%s  %d/%d", label, done, total))
}

func (m Model) viewSearch() string {
	if m.state == StateSearch || m.search.Value() != "" {
		return m.search.View()
	}
	return searchStyle.Render("press / to search")
}
