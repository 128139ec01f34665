// Package today lists the trackers of one projection, grouped by category.
package today

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/tally/internal/projection"
)

type Item struct {
	View  projection.TrackerView
	Group string
}

func (i Item) Title() string {
	mark := "○"
	if i.View.Completed {
		mark = "✓"
	}
	swatch := lipgloss.NewStyle().Foreground(lipgloss.Color(string(i.View.Tracker.Color))).Render("●")
	return strings.TrimSpace(fmt.Sprintf("%s %s %s %s", mark, swatch, i.View.Tracker.Emoji, i.View.Tracker.Name))
}

func (i Item) Description() string {
	parts := []string{i.Group}
	if i.View.Caption != "" {
		parts = append(parts, i.View.Caption)
	}
	parts = append(parts, fmt.Sprintf("%d done", i.View.CompletedCount))
	return strings.Join(parts, " · ")
}

func (i Item) FilterValue() string { return i.View.Tracker.Name }

type Model struct {
	list       list.Model
	projection projection.Projection
}

func New(width, height int) Model {
	l := list.New(nil, list.NewDefaultDelegate(), width, height)
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	// searching goes through the coordinator so grouping stays intact
	l.SetFilteringEnabled(false)
	l.KeyMap.Quit.SetEnabled(false)
	l.KeyMap.ShowFullHelp.SetEnabled(false)
	l.KeyMap.CloseFullHelp.SetEnabled(false)
	return Model{list: l}
}

// SetProjection replaces the items, keeping the cursor on the same tracker
// when it is still visible.
func (m *Model) SetProjection(p projection.Projection) {
	selected, hadSelection := m.Selected()
	m.projection = p

	var items []list.Item
	for _, g := range p.Groups {
		for _, v := range g.Trackers {
			items = append(items, Item{View: v, Group: g.Title})
		}
	}
	m.list.SetItems(items)

	if !hadSelection {
		return
	}
	for i, it := range items {
		if it.(Item).View.Tracker.ID == selected.View.Tracker.ID {
			m.list.Select(i)
			return
		}
	}
}

// Selected returns the item under the cursor.
func (m Model) Selected() (Item, bool) {
	i, ok := m.list.SelectedItem().(Item)
	return i, ok
}

func (m Model) Len() int {
	return len(m.list.Items())
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	switch {
	case m.projection.CatalogEmpty:
		return "\n  No trackers yet.\n  Press 'c' to add a category, then 'a' to add a tracker."
	case m.projection.NoMatches && m.projection.Search != "":
		return fmt.Sprintf("\n  Nothing matches %q.", m.projection.Search)
	case m.projection.NoMatches:
		return "\n  Nothing is due on this day."
	}
	return m.list.View()
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}
