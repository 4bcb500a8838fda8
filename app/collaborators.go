package app

import "context"

// Point is a pixel position; text is anchored at its baseline.
type Point struct{ X, Y int }

// Rect is an axis-aligned box of W x H pixels starting at Min.
type Rect struct {
	Min  Point
	W, H int
}

// RectStyle selects how a rectangle is painted on the monochrome panel.
type RectStyle uint8

const (
	Outline RectStyle = iota // 1px border, interior cleared
	Fill                     // all pixels on
	Clear                    // all pixels off
)

// Display receives draw commands for one frame, then Flush presents it.
type Display interface {
	Clear()
	DrawText(at Point, text string)
	DrawRect(r Rect, style RectStyle)
	Flush() error
}

// Transport broadcasts an encoded message to every peer in range. Send
// may block until the radio is free.
type Transport interface {
	Send(ctx context.Context, payload []byte) error
}

// Notifier plays the incoming-message effect. It must not block for long.
type Notifier interface {
	Notify()
}

// Recovery reboots into the firmware download mode. On hardware Enter
// never returns.
type Recovery interface {
	Enter()
}

type NotifierFunc func()

func (f NotifierFunc) Notify() { f() }

type RecoveryFunc func()

func (f RecoveryFunc) Enter() { f() }

type nopNotifier struct{}

func (nopNotifier) Notify() {}
