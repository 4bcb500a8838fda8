// Package input turns button presses into composed text.
package input

import (
	"strconv"
	"time"

	"github.com/ystepanoff/morsechat/morse"
)

// Direction names one of the four buttons.
type Direction uint8

const (
	Up Direction = iota
	Down
	Left
	Right
)

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return "direction(" + strconv.Itoa(int(d)) + ")"
	}
}

// ParseDirection accepts the names produced by String.
func ParseDirection(s string) (Direction, bool) {
	for d := Up; d <= Right; d++ {
		if d.String() == s {
			return d, true
		}
	}
	return 0, false
}

// Event is one completed press and release.
type Event struct {
	Direction Direction
	Duration  time.Duration
}

// MaxText bounds the composed message, in characters.
const MaxText = 16

// Typing is the composing signal an edit produces.
type Typing uint8

const (
	TypingUnchanged Typing = iota
	TypingStarted
	TypingStopped
)

// Effect reports what an event did beyond editing local state.
type Effect struct {
	Typing Typing
	// Message is non-empty when the buffer was committed for sending.
	Message string
}

// Assembler accumulates pulses into characters and characters into a
// message. Overflowing pulses or characters are dropped without notice,
// and an unknown pulse sequence stays pending so more pulses can be added.
type Assembler struct {
	pending []morse.Symbol
	text    []rune
}

func NewAssembler() *Assembler {
	return &Assembler{
		pending: make([]morse.Symbol, 0, morse.MaxSequence),
		text:    make([]rune, 0, MaxText),
	}
}

// Handle applies one event. Up presses are not the assembler's business
// and leave it untouched.
func (a *Assembler) Handle(ev Event) Effect {
	switch ev.Direction {
	case Down:
		if len(a.pending) < morse.MaxSequence {
			a.pending = append(a.pending, morse.Classify(ev.Duration))
		}
	case Right:
		if len(a.pending) > 0 {
			return a.commitPulses()
		}
		if len(a.text) > 0 {
			msg := string(a.text)
			a.text = a.text[:0]
			return Effect{Typing: TypingStopped, Message: msg}
		}
	case Left:
		if len(a.pending) > 0 {
			a.pending = a.pending[:len(a.pending)-1]
			return Effect{}
		}
		if len(a.text) > 0 {
			a.text = a.text[:len(a.text)-1]
		}
		return Effect{Typing: TypingStopped}
	}
	return Effect{}
}

func (a *Assembler) commitPulses() Effect {
	c, ok := morse.Decode(a.pending)
	if !ok {
		return Effect{}
	}
	if len(a.text) < MaxText {
		a.text = append(a.text, c)
	}
	a.pending = a.pending[:0]
	return Effect{Typing: TypingStarted}
}

// Pending returns a copy of the unresolved pulses.
func (a *Assembler) Pending() []morse.Symbol {
	out := make([]morse.Symbol, len(a.pending))
	copy(out, a.pending)
	return out
}

// Text returns the message composed so far.
func (a *Assembler) Text() string { return string(a.text) }

// Composing reports whether there is anything to show in the input box.
func (a *Assembler) Composing() bool { return len(a.pending) > 0 || len(a.text) > 0 }
