// Package tui runs the handset in a terminal: keys stand in for the
// joystick and the screen is drawn from display frames.
package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/ystepanoff/morsechat/display"
	"github.com/ystepanoff/morsechat/input"
)

// QueueSize is a sensible buffer for the events channel handed to New.
const QueueSize = 64

// UI owns the bubbletea program. Present and Notify are safe to call from
// any goroutine.
type UI struct {
	prog *tea.Program
}

// New sends button presses to events in the order the keys were hit.
// events should be buffered; presses that find it full are dropped.
func New(events chan<- input.Event, presses Presses, log *zap.Logger, opts ...tea.ProgramOption) *UI {
	if log == nil {
		log = zap.NewNop()
	}
	return &UI{
		prog: tea.NewProgram(newModel(events, presses, log.Named("tui")), opts...),
	}
}

// Present is a display.Grid sink.
func (u *UI) Present(s display.Screen) error {
	u.prog.Send(screenMsg(s))
	return nil
}

// Notify flashes the screen border twice.
func (u *UI) Notify() {
	u.prog.Send(flashMsg{remaining: flashCount})
}

// Run blocks until the user quits or Quit is called.
func (u *UI) Run() error {
	_, err := u.prog.Run()
	return err
}

func (u *UI) Quit() { u.prog.Quit() }
