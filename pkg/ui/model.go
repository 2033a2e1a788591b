package ui

import (
	"context"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"hexatodo/pkg/config"
	"hexatodo/pkg/keymaps"
	"hexatodo/pkg/store"
	"hexatodo/pkg/todo"
)

// InputMode represents the current input mode
type InputMode int

const (
	NormalMode InputMode = iota
	AddMode
	DeleteConfirmMode
	HelpViewMode // Mode for displaying help
)

// Model is the board: one column per state, fed by controller snapshots
type Model struct {
	ctx         context.Context
	ctl         *store.Controller
	snapshot    store.Snapshot
	updates     <-chan store.Snapshot
	unsubscribe func()

	width, height int
	err           error

	// Configuration
	config config.Config
	styles config.Styles
	keyMap keymaps.KeyMap
	help   help.Model

	// Board state
	mode     InputMode
	column   int
	cursors  []int
	deleting *todo.Todo

	descInput textinput.Model

	// Sorting state
	sortBy    SortBy
	sortOrder SortOrder
}

// NewModel creates the board for the controller stored in ctx
func NewModel(ctx context.Context, cfg config.Config, styles config.Styles) Model {
	ctl := store.MustFromContext(ctx)

	descInput := textinput.New()
	descInput.Placeholder = "What needs to be done?"
	descInput.CharLimit = 256
	descInput.Width = 50

	h := help.New()
	h.Styles.ShortKey = lipgloss.NewStyle().Foreground(lipgloss.Color(styles.AccentColor)).Bold(true)
	h.Styles.ShortDesc = lipgloss.NewStyle().Foreground(lipgloss.Color(styles.NormalTextColor))
	h.Styles.ShortSeparator = lipgloss.NewStyle().Foreground(lipgloss.Color(styles.BorderColor))
	h.Styles.FullKey = h.Styles.ShortKey
	h.Styles.FullDesc = h.Styles.ShortDesc
	h.Styles.FullSeparator = h.Styles.ShortSeparator

	updates, unsubscribe := ctl.Subscribe()

	m := Model{
		ctx:         ctx,
		ctl:         ctl,
		snapshot:    ctl.Snapshot(),
		updates:     updates,
		unsubscribe: unsubscribe,
		config:      cfg,
		styles:      styles,
		keyMap:      keymaps.BuildKeyMap(cfg.KeyMap),
		help:        h,
		mode:        NormalMode,
		cursors:     make([]int, len(todo.States)),
		descInput:   descInput,
	}
	m.refreshAffordances()
	return m
}

// Init loads the collection and starts listening for snapshots
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.startCmd(), waitForSnapshot(m.updates))
}

// resetInputs clears the add form
func (m *Model) resetInputs() {
	m.descInput.Reset()
	m.descInput.Focus()
}
