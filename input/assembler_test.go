package input

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ystepanoff/morsechat/morse"
)

var (
	short = Event{Direction: Down, Duration: 80 * time.Millisecond}
	long  = Event{Direction: Down, Duration: 200 * time.Millisecond}
	right = Event{Direction: Right}
	left  = Event{Direction: Left}
)

func feed(a *Assembler, events ...Event) Effect {
	var last Effect
	for _, ev := range events {
		last = a.Handle(ev)
	}
	return last
}

func TestAssembler_DecodesCharacter(t *testing.T) {
	a := NewAssembler()

	assert.Equal(t, Effect{}, a.Handle(long))
	assert.Equal(t, Effect{}, a.Handle(short))
	assert.Equal(t, []morse.Symbol{morse.Long, morse.Short}, a.Pending())

	eff := a.Handle(right)
	assert.Equal(t, Effect{Typing: TypingStarted}, eff)
	assert.Equal(t, "N", a.Text())
	assert.Empty(t, a.Pending())
}

func TestAssembler_CommitMessage(t *testing.T) {
	a := NewAssembler()
	feed(a, short, short, short, right, long, long, long, right, short, short, short, right)
	require.Equal(t, "SOS", a.Text())

	eff := a.Handle(right)
	assert.Equal(t, Effect{Typing: TypingStopped, Message: "SOS"}, eff)
	assert.Empty(t, a.Text())
	assert.False(t, a.Composing())
}

func TestAssembler_RightOnEmptyDoesNothing(t *testing.T) {
	a := NewAssembler()
	assert.Equal(t, Effect{}, a.Handle(right))
	assert.False(t, a.Composing())
}

func TestAssembler_UnknownSequenceIsRetained(t *testing.T) {
	a := NewAssembler()
	feed(a, long, long, long, long)

	assert.Equal(t, Effect{}, a.Handle(right))
	assert.Len(t, a.Pending(), 4)
	assert.Empty(t, a.Text())

	// one more long pulse makes it a zero
	feed(a, long)
	assert.Equal(t, Effect{Typing: TypingStarted}, a.Handle(right))
	assert.Equal(t, "0", a.Text())
}

func TestAssembler_PendingSaturates(t *testing.T) {
	a := NewAssembler()
	for i := 0; i < morse.MaxSequence; i++ {
		a.Handle(short)
	}
	before := a.Pending()

	a.Handle(long)
	a.Handle(long)
	assert.Equal(t, before, a.Pending())
	assert.Len(t, a.Pending(), morse.MaxSequence)
}

func TestAssembler_TextSaturates(t *testing.T) {
	a := NewAssembler()
	for i := 0; i < MaxText; i++ {
		feed(a, short, right)
	}
	require.Equal(t, strings.Repeat("E", MaxText), a.Text())

	eff := feed(a, long, right)
	assert.Equal(t, Effect{Typing: TypingStarted}, eff)
	assert.Equal(t, strings.Repeat("E", MaxText), a.Text())
	assert.Empty(t, a.Pending(), "pulses are consumed even when the character is dropped")
}

func TestAssembler_Backspace(t *testing.T) {
	a := NewAssembler()
	feed(a, short, right, long, right) // "ET"
	feed(a, short, long)

	// morse-level undo first
	assert.Equal(t, Effect{}, a.Handle(left))
	assert.Equal(t, []morse.Symbol{morse.Short}, a.Pending())
	assert.Equal(t, Effect{}, a.Handle(left))
	assert.Empty(t, a.Pending())

	// then characters
	assert.Equal(t, Effect{Typing: TypingStopped}, a.Handle(left))
	assert.Equal(t, "E", a.Text())
	assert.Equal(t, Effect{Typing: TypingStopped}, a.Handle(left))
	assert.Empty(t, a.Text())

	// still signals on an empty buffer
	assert.Equal(t, Effect{Typing: TypingStopped}, a.Handle(left))
}

func TestAssembler_IgnoresUp(t *testing.T) {
	a := NewAssembler()
	feed(a, short)
	assert.Equal(t, Effect{}, a.Handle(Event{Direction: Up, Duration: 2 * time.Second}))
	assert.Len(t, a.Pending(), 1)
}

func TestParseDirection(t *testing.T) {
	for d := Up; d <= Right; d++ {
		got, ok := ParseDirection(d.String())
		assert.True(t, ok)
		assert.Equal(t, d, got)
	}
	_, ok := ParseDirection("sideways")
	assert.False(t, ok)
}
