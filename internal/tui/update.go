package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/tally/internal/logger"
	"github.com/julianstephens/tally/internal/utils"
)

// chromeHeight is the space taken by the header, search line and help.
const chromeHeight = 7

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.today.SetSize(msg.Width-4, max(msg.Height-chromeHeight, 1))
		return m, nil

	case StoreChangedMsg:
		if err := m.coord.Reload(); err != nil {
			logger.Warn("Failed to reload store", "path", msg.Change.Path, "error", err)
			m.status = "⚠ reload failed: " + err.Error()
			return m, nil
		}
		m.refresh()
		return m, nil

	case coordChangedMsg:
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.quitting = true
			return m, tea.Quit
		}
	}

	switch m.state {
	case StateSearch:
		return m.updateSearch(msg)
	case StateTrackerForm:
		return m.updateTrackerForm(msg)
	case StateCategoryForm:
		return m.updateCategoryForm(msg)
	case StateConfirmDelete:
		return m.updateConfirmDelete(msg)
	}
	return m.updateToday(msg)
}

func (m Model) updateToday(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		m.today, cmd = m.today.Update(msg)
		return m, cmd
	}

	m.status = ""
	switch {
	case key.Matches(keyMsg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(keyMsg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(keyMsg, m.keys.PrevDay):
		m.selectDate(m.date.AddDate(0, 0, -1))
	case key.Matches(keyMsg, m.keys.NextDay):
		m.selectDate(m.date.AddDate(0, 0, 1))
	case key.Matches(keyMsg, m.keys.Today):
		m.selectDate(utils.StartOfDay(m.coord.Now(), m.coord.Location()))
	case key.Matches(keyMsg, m.keys.Search):
		m.state = StateSearch
		cmd := m.search.Focus()
		return m, cmd
	case key.Matches(keyMsg, m.keys.Toggle):
		m.toggleSelected()
	case key.Matches(keyMsg, m.keys.Pin):
		m.pinSelected()
	case key.Matches(keyMsg, m.keys.Add):
		return m.openTrackerForm(false)
	case key.Matches(keyMsg, m.keys.Edit):
		return m.openTrackerForm(true)
	case key.Matches(keyMsg, m.keys.Delete):
		return m.openConfirmDelete()
	case key.Matches(keyMsg, m.keys.AddCategory):
		m.categoryForm = &CategoryFormModel{}
		m.form = NewCategoryForm(m.categoryForm)
		m.formError = ""
		m.state = StateCategoryForm
		return m, m.form.Init()
	default:
		var cmd tea.Cmd
		m.today, cmd = m.today.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) toggleSelected() {
	item, ok := m.today.Selected()
	if !ok {
		return
	}
	state, err := m.coord.ToggleCompletion(item.View.Tracker.ID, m.date)
	if err != nil {
		m.status = "⚠ " + err.Error()
		return
	}
	m.refresh()
	m.status = fmt.Sprintf("%s is now %s", item.View.Tracker.Name, state)
}

func (m *Model) pinSelected() {
	item, ok := m.today.Selected()
	if !ok {
		return
	}
	if err := m.coord.SetPinned(item.View.Tracker.ID, !item.View.Tracker.Pinned); err != nil {
		m.status = "⚠ " + err.Error()
		return
	}
	m.refresh()
}

func (m Model) updateSearch(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.Type {
		case tea.KeyEsc:
			m.search.SetValue("")
			m.search.Blur()
			m.state = StateToday
			m.selectDate(m.date)
			return m, nil
		case tea.KeyEnter:
			m.search.Blur()
			m.state = StateToday
			return m, nil
		}
	}

	var cmd tea.Cmd
	before := m.search.Value()
	m.search, cmd = m.search.Update(msg)
	if m.search.Value() != before {
		m.selectDate(m.date)
	}
	return m, cmd
}

func (m Model) openTrackerForm(edit bool) (tea.Model, tea.Cmd) {
	categories := m.coord.Categories()
	if len(categories) == 0 {
		m.status = "Add a category first (c)"
		return m, nil
	}

	if edit {
		item, ok := m.today.Selected()
		if !ok {
			return m, nil
		}
		t := item.View.Tracker
		category, _ := m.coord.CategoryOf(t.ID)
		m.trackerForm = newTrackerFormModel(&t, category.Title, m.date)
	} else {
		defaultCategory := categories[0].Title
		if item, ok := m.today.Selected(); ok {
			if c, found := m.coord.CategoryOf(item.View.Tracker.ID); found {
				defaultCategory = c.Title
			}
		}
		m.trackerForm = newTrackerFormModel(nil, defaultCategory, m.date)
	}

	m.form = NewTrackerForm(m.trackerForm, categories, m.coord.FirstWeekday())
	m.formError = ""
	m.state = StateTrackerForm
	return m, m.form.Init()
}

// updateForm forwards msg to the active form. Esc leaves without saving.
func (m *Model) updateForm(msg tea.Msg) (tea.Cmd, bool) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = StateToday
		return nil, true
	}
	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}
	if m.form.State == huh.StateAborted {
		m.state = StateToday
		return cmd, true
	}
	return cmd, false
}

func (m Model) updateTrackerForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmd, done := m.updateForm(msg)
	if done || m.form.State != huh.StateCompleted {
		return m, cmd
	}

	saved, err := m.coord.SaveTracker(m.trackerForm.Command())
	if err != nil {
		// stay in the form so the user can correct it
		m.formError = err.Error()
		m.form.State = huh.StateNormal
		return m, cmd
	}
	m.state = StateToday
	m.refresh()
	m.status = fmt.Sprintf("✓ Saved %q", saved.Name)
	return m, cmd
}

func (m Model) updateCategoryForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmd, done := m.updateForm(msg)
	if done || m.form.State != huh.StateCompleted {
		return m, cmd
	}

	created, err := m.coord.CreateCategory(m.categoryForm.Title)
	if err != nil {
		m.formError = err.Error()
		m.form.State = huh.StateNormal
		return m, cmd
	}
	m.state = StateToday
	m.refresh()
	m.status = fmt.Sprintf("✓ Added category %q", created.Title)
	return m, cmd
}

func (m Model) openConfirmDelete() (tea.Model, tea.Cmd) {
	item, ok := m.today.Selected()
	if !ok {
		return m, nil
	}
	m.deleteID = item.View.Tracker.ID
	m.deleteName = item.View.Tracker.Name
	m.confirmed = new(bool)
	m.form = NewConfirmForm(fmt.Sprintf("Delete %q and its history?", m.deleteName), m.confirmed)
	m.state = StateConfirmDelete
	return m, m.form.Init()
}

func (m Model) updateConfirmDelete(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmd, done := m.updateForm(msg)
	if done || m.form.State != huh.StateCompleted {
		return m, cmd
	}
	m.state = StateToday
	if !*m.confirmed {
		return m, cmd
	}
	if err := m.coord.DeleteTracker(m.deleteID); err != nil {
		m.status = "⚠ " + err.Error()
		return m, cmd
	}
	m.refresh()
	m.status = fmt.Sprintf("✓ Deleted %q", m.deleteName)
	return m, cmd
}
