package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/ystepanoff/morsechat/display"
	"github.com/ystepanoff/morsechat/input"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	require.True(t, ok)
	return nm, cmd
}

func drain(ch <-chan input.Event) []input.Event {
	var out []input.Event
	for {
		select {
		case ev := <-ch:
			out = append(out, ev)
		default:
			return out
		}
	}
}

func TestModel_KeysBecomePresses(t *testing.T) {
	events := make(chan input.Event, 16)
	m := newModel(events, DefaultPresses(), zaptest.NewLogger(t))

	for _, msg := range []tea.Msg{
		runes("-"),
		runes("."),
		tea.KeyMsg{Type: tea.KeyRight},
		tea.KeyMsg{Type: tea.KeyBackspace},
		runes("R"),
	} {
		m, _ = update(t, m, msg)
	}

	p := DefaultPresses()
	assert.Equal(t, []input.Event{
		{Direction: input.Down, Duration: p.Long},
		{Direction: input.Down, Duration: p.Short},
		{Direction: input.Right, Duration: p.Tap},
		{Direction: input.Left, Duration: p.Tap},
		{Direction: input.Up, Duration: p.Recovery},
	}, drain(events))
}

func TestModel_FullQueueDrops(t *testing.T) {
	events := make(chan input.Event, 1)
	m := newModel(events, DefaultPresses(), zaptest.NewLogger(t))

	m, _ = update(t, m, runes("."))
	m, _ = update(t, m, runes("-"))

	assert.Len(t, drain(events), 1)
}

func TestModel_Quit(t *testing.T) {
	m := newModel(make(chan input.Event, 1), DefaultPresses(), zaptest.NewLogger(t))
	_, cmd := update(t, m, runes("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestModel_ShowsScreen(t *testing.T) {
	m := newModel(make(chan input.Event, 1), DefaultPresses(), zaptest.NewLogger(t))

	var s display.Screen
	s.Lines[7] = "YOU: SOS"
	m, _ = update(t, m, screenMsg(s))

	assert.Contains(t, m.View(), "YOU: SOS")
	assert.Contains(t, m.View(), "morsechat")
}

func TestModel_DoubleFlash(t *testing.T) {
	m := newModel(make(chan input.Event, 1), DefaultPresses(), zaptest.NewLogger(t))

	var flashes int
	var msg tea.Msg = flashMsg{remaining: flashCount}
	for msg != nil {
		var cmd tea.Cmd
		if _, on := msg.(flashMsg); on {
			flashes++
		}
		m, cmd = update(t, m, msg)
		if _, on := msg.(flashMsg); on {
			assert.True(t, m.flashing)
		}
		if cmd == nil {
			break
		}
		start := time.Now()
		msg = cmd()
		assert.GreaterOrEqual(t, time.Since(start), flashDuration/2)
	}

	assert.Equal(t, flashCount, flashes)
	assert.False(t, m.flashing)
}

func TestModel_HelpToggle(t *testing.T) {
	m := newModel(make(chan input.Event, 1), DefaultPresses(), zaptest.NewLogger(t))
	short := m.View()
	m, _ = update(t, m, runes("?"))
	assert.True(t, m.help.ShowAll)
	assert.True(t, strings.Contains(m.View(), "recovery"))
	assert.NotEqual(t, short, m.View())
}
