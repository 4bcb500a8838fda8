package tui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/ystepanoff/morsechat/display"
	"github.com/ystepanoff/morsechat/input"
)

const (
	flashCount    = 2
	flashDuration = 50 * time.Millisecond
)

// Presses maps keys to simulated button hold times.
type Presses struct {
	Short    time.Duration
	Long     time.Duration
	Tap      time.Duration
	Recovery time.Duration
}

func DefaultPresses() Presses {
	return Presses{
		Short:    input.DefaultShortPress,
		Long:     input.DefaultLongPress,
		Tap:      50 * time.Millisecond,
		Recovery: 1500 * time.Millisecond,
	}
}

type screenMsg display.Screen

// flashMsg turns the border on; flashOffMsg turns it off and schedules
// the next flash while any remain.
type flashMsg struct{ remaining int }
type flashOffMsg struct{ remaining int }

// Model shows the handset screen and turns keys into button presses.
type Model struct {
	screen   display.Screen
	flashing bool

	events  chan<- input.Event
	presses Presses
	keys    keyMap
	help    help.Model
	log     *zap.Logger
}

func newModel(events chan<- input.Event, presses Presses, log *zap.Logger) Model {
	return Model{
		events:  events,
		presses: presses,
		keys:    defaultKeys(),
		help:    help.New(),
		log:     log,
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case screenMsg:
		m.screen = display.Screen(msg)

	case flashMsg:
		m.flashing = true
		return m, tea.Tick(flashDuration, func(time.Time) tea.Msg {
			return flashOffMsg{remaining: msg.remaining - 1}
		})

	case flashOffMsg:
		m.flashing = false
		if msg.remaining > 0 {
			return m, tea.Tick(flashDuration, func(time.Time) tea.Msg {
				return flashMsg{remaining: msg.remaining}
			})
		}

	case tea.WindowSizeMsg:
		m.help.Width = msg.Width

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		case key.Matches(msg, m.keys.Dot):
			m.press(input.Down, m.presses.Short)
		case key.Matches(msg, m.keys.Dash):
			m.press(input.Down, m.presses.Long)
		case key.Matches(msg, m.keys.Erase):
			m.press(input.Left, m.presses.Tap)
		case key.Matches(msg, m.keys.Commit):
			m.press(input.Right, m.presses.Tap)
		case key.Matches(msg, m.keys.Up):
			m.press(input.Up, m.presses.Tap)
		case key.Matches(msg, m.keys.Recovery):
			m.press(input.Up, m.presses.Recovery)
		}
	}
	return m, nil
}

// press must not block the UI loop; presses are queued in order and
// dropped only when the queue is full.
func (m Model) press(d input.Direction, hold time.Duration) {
	select {
	case m.events <- input.Event{Direction: d, Duration: hold}:
	default:
		m.log.Warn("input queue full, dropping press", zap.Stringer("direction", d))
	}
}

func (m Model) View() string {
	rows := make([]string, 0, display.Rows)
	for i, line := range m.screen.Lines {
		if line == "" {
			line = strings.Repeat(" ", display.Cols)
		}
		if m.screen.Boxed[i] {
			line = styleBoxedRow.Render(line)
		}
		rows = append(rows, line)
	}

	panel := stylePanel
	if m.flashing {
		panel = stylePanelFlash
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		styleTitle.Render("morsechat"),
		panel.Render(strings.Join(rows, "\n")),
		m.help.View(m.keys),
	)
}
