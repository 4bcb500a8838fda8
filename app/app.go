// Package app is the handset's main loop: it turns button presses and
// radio frames into chat state, talks to peers and redraws the screen.
package app

import (
	"context"
	"errors"
	"slices"
	"time"

	"go.uber.org/zap"

	"github.com/ystepanoff/morsechat/chatlog"
	"github.com/ystepanoff/morsechat/input"
	"github.com/ystepanoff/morsechat/morse"
	"github.com/ystepanoff/morsechat/protocol"
	"github.com/ystepanoff/morsechat/transport"
)

const (
	DefaultTypingWindow = 10 * time.Second
	DefaultRecoveryHold = time.Second

	// PeerOnline is logged as a system entry when a peer answers or pings.
	PeerOnline = "peer online"
)

// ErrRecoveryEntered is returned by Run when a recovery long-press was
// handled and the Recovery collaborator returned control (host builds).
var ErrRecoveryEntered = errors.New("recovery mode entered")

// Config wires the collaborators. Transport, Display and Recovery are
// required.
type Config struct {
	Transport Transport
	Display   Display
	Notifier  Notifier
	Recovery  Recovery
	Logger    *zap.Logger

	// Now is the clock used for the typing indicator. Defaults to time.Now.
	Now func() time.Time

	TypingWindow time.Duration
	RecoveryHold time.Duration

	// Quiet skips the presence Ping at start.
	Quiet bool
}

// App owns the chat log, the input assembler and the typing indicator.
// All of them are touched only from the goroutine running Run (or, in
// tests, calling the handlers directly).
type App struct {
	transport Transport
	display   Display
	notifier  Notifier
	recovery  Recovery
	log       *zap.Logger
	now       func() time.Time

	typingWindow time.Duration
	recoveryHold time.Duration
	quiet        bool

	chat        *chatlog.Log
	input       *input.Assembler
	typingSince time.Time // zero when the peer is not typing
}

func New(cfg Config) (*App, error) {
	switch {
	case cfg.Transport == nil:
		return nil, errors.New("app: transport is required")
	case cfg.Display == nil:
		return nil, errors.New("app: display is required")
	case cfg.Recovery == nil:
		return nil, errors.New("app: recovery is required")
	}

	a := &App{
		transport:    cfg.Transport,
		display:      cfg.Display,
		notifier:     cfg.Notifier,
		recovery:     cfg.Recovery,
		log:          cfg.Logger,
		now:          cfg.Now,
		typingWindow: cfg.TypingWindow,
		recoveryHold: cfg.RecoveryHold,
		quiet:        cfg.Quiet,
		chat:         chatlog.New(),
		input:        input.NewAssembler(),
	}
	if a.notifier == nil {
		a.notifier = nopNotifier{}
	}
	if a.log == nil {
		a.log = zap.NewNop()
	}
	if a.now == nil {
		a.now = time.Now
	}
	if a.typingWindow <= 0 {
		a.typingWindow = DefaultTypingWindow
	}
	if a.recoveryHold <= 0 {
		a.recoveryHold = DefaultRecoveryHold
	}
	return a, nil
}

// Run announces presence and then serves events until ctx is cancelled.
// Each iteration redraws and then handles whichever event arrives first;
// when both sources are ready the choice between them is random.
// A closed source is ignored from then on.
func (a *App) Run(ctx context.Context, inputs <-chan input.Event, frames <-chan transport.Inbound) error {
	if !a.quiet {
		a.log.Info("announcing presence")
		a.send(ctx, protocol.Ping())
	}

	for {
		a.Render()

		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-inputs:
			if !ok {
				inputs = nil
				continue
			}
			if err := a.HandleInput(ctx, ev); err != nil {
				return err
			}
		case in, ok := <-frames:
			if !ok {
				frames = nil
				continue
			}
			a.HandleFrame(ctx, in)
		}
	}
}

// HandleInput applies one button press. The only error is
// ErrRecoveryEntered.
func (a *App) HandleInput(ctx context.Context, ev input.Event) error {
	if ev.Direction == input.Up {
		if ev.Duration >= a.recoveryHold {
			a.log.Warn("entering recovery mode", zap.Duration("held", ev.Duration))
			a.recovery.Enter()
			return ErrRecoveryEntered
		}
		return nil
	}

	eff := a.input.Handle(ev)
	if eff.Message != "" {
		a.chat.Append(chatlog.Local, eff.Message)
		a.send(ctx, protocol.Text(eff.Message))
	}
	switch eff.Typing {
	case input.TypingStarted:
		a.send(ctx, protocol.Typing(true))
	case input.TypingStopped:
		a.send(ctx, protocol.Typing(false))
	}
	return nil
}

// HandleFrame applies one message from a peer. Undecodable frames are
// logged and dropped.
func (a *App) HandleFrame(ctx context.Context, in transport.Inbound) {
	msg, err := protocol.DecodeMessage(in.Payload)
	if err != nil {
		a.log.Warn("dropping frame", zap.Uint32("from", uint32(in.From)), zap.Uint32("seq", in.Seq), zap.Error(err))
		return
	}
	a.log.Debug("received", zap.Uint32("from", uint32(in.From)), zap.Stringer("message", msg))

	switch msg.Kind {
	case protocol.KindText:
		a.chat.Append(chatlog.Remote, msg.Text)
		a.notifier.Notify()
	case protocol.KindTyping:
		if msg.Typing {
			a.typingSince = a.now()
		} else {
			a.typingSince = time.Time{}
		}
	case protocol.KindPing:
		a.chat.Append(chatlog.System, PeerOnline)
		a.send(ctx, protocol.Pong())
	case protocol.KindPong:
		a.chat.Append(chatlog.System, PeerOnline)
	}

	if ce := a.log.Check(zap.DebugLevel, "chat log"); ce != nil {
		var lines []string
		for e := range a.chat.Entries() {
			lines = append(lines, e.Origin.Label()+": "+e.Text)
		}
		ce.Write(zap.Strings("entries", lines))
	}
}

// send never fails the caller: a lost broadcast is only logged.
func (a *App) send(ctx context.Context, m protocol.Message) {
	payload, err := protocol.EncodeMessage(m)
	if err != nil {
		a.log.Error("encode message", zap.Stringer("message", m), zap.Error(err))
		return
	}
	if err := a.transport.Send(ctx, payload); err != nil {
		a.log.Warn("send failed", zap.Stringer("message", m), zap.Error(err))
	}
}

// View is the state the screen is drawn from.
type View struct {
	Entries    []chatlog.Entry // most recent first
	Text       string
	Pending    []morse.Symbol
	Composing  bool
	PeerTyping bool
}

// View snapshots the current state. The typing indicator is aged here,
// against the clock, rather than cleared by a timer.
func (a *App) View() View {
	return View{
		Entries:    slices.Collect(a.chat.Entries()),
		Text:       a.input.Text(),
		Pending:    a.input.Pending(),
		Composing:  a.input.Composing(),
		PeerTyping: !a.typingSince.IsZero() && a.now().Sub(a.typingSince) <= a.typingWindow,
	}
}

// TypingSince reports when the peer last said it started typing.
func (a *App) TypingSince() (time.Time, bool) {
	return a.typingSince, !a.typingSince.IsZero()
}

// Render draws the current view and presents it.
func (a *App) Render() {
	Draw(a.display, a.View())
	if err := a.display.Flush(); err != nil {
		a.log.Warn("display flush failed", zap.Error(err))
	}
}
