// Package tui is the interactive host for the coordinator: it renders the
// projection for a selected day and turns key presses into coordinator calls.
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/tally/internal/coordinator"
	"github.com/julianstephens/tally/internal/logger"
	"github.com/julianstephens/tally/internal/projection"
	"github.com/julianstephens/tally/internal/storage"
	"github.com/julianstephens/tally/internal/tui/components/today"
	"github.com/julianstephens/tally/internal/utils"
)

type SessionState int

const (
	StateToday SessionState = iota
	StateSearch
	StateTrackerForm
	StateCategoryForm
	StateConfirmDelete
)

// StoreChangedMsg reports that another process modified the store.
type StoreChangedMsg struct {
	Change storage.Change
}

// coordChangedMsg reports a committed mutation. Deliveries may arrive out
// of order, so the handler reads the coordinator's current projection
// rather than carrying one.
type coordChangedMsg struct{}

type Model struct {
	coord      *coordinator.Coordinator
	state      SessionState
	keys       KeyMap
	help       help.Model
	today      today.Model
	search     textinput.Model
	date       time.Time
	projection projection.Projection

	form         *huh.Form
	trackerForm  *TrackerFormModel
	categoryForm *CategoryFormModel
	confirmed    *bool
	deleteID     string
	deleteName   string

	status    string
	formError string
	quitting  bool
	width     int
	height    int
}

func NewModel(coord *coordinator.Coordinator) Model {
	search := textinput.New()
	search.Placeholder = "search trackers"
	search.Prompt = "/ "

	m := Model{
		coord:  coord,
		state:  StateToday,
		keys:   DefaultKeyMap(),
		help:   help.New(),
		today:  today.New(0, 0),
		search: search,
		date:   utils.StartOfDay(coord.Now(), coord.Location()),
	}
	m.selectDate(m.date)
	return m
}

func (m Model) ShortHelp() []key.Binding {
	return []key.Binding{m.keys.Toggle, m.keys.PrevDay, m.keys.NextDay, m.keys.Add, m.keys.Search, m.keys.Help, m.keys.Quit}
}

func (m Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.keys.PrevDay, m.keys.NextDay, m.keys.Today, m.keys.Search},
		{m.keys.Toggle, m.keys.Pin, m.keys.Add, m.keys.Edit, m.keys.Delete, m.keys.AddCategory},
		{m.keys.Help, m.keys.Quit},
	}
}

func (m Model) Init() tea.Cmd {
	return m.today.Init()
}

// selectDate moves the selection and re-projects.
func (m *Model) selectDate(date time.Time) {
	m.date = date
	m.setProjection(m.coord.Select(date, m.search.Value()))
}

func (m *Model) refresh() {
	m.setProjection(m.coord.Projection())
}

func (m *Model) setProjection(p projection.Projection) {
	m.projection = p
	m.today.SetProjection(p)
}

// Run starts the program and blocks until the user quits. When watcher is
// non-nil, changes made by other processes are reloaded into coord.
func Run(coord *coordinator.Coordinator, watcher *storage.Watcher) error {
	p := tea.NewProgram(NewModel(coord), tea.WithAltScreen())

	// Observers run inside Update for the TUI's own mutations, so the send
	// must not block the event loop.
	changed := func(projection.Projection) { go p.Send(coordChangedMsg{}) }
	unsubscribe := coord.Subscribe(coordinator.ObserverFuncs{
		Trackers:   changed,
		Categories: changed,
		Records:    changed,
	})
	defer unsubscribe()

	if watcher != nil {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go watcher.Run(ctx, func(ch storage.Change) {
			p.Send(StoreChangedMsg{Change: ch})
		})
	}

	if _, err := p.Run(); err != nil {
		logger.Error("TUI exited with error", "error", err)
		return err
	}
	return nil
}
