package app

import "github.com/ystepanoff/morsechat/morse"

// Panel geometry, in pixels.
const (
	ScreenWidth  = 128
	ScreenHeight = 64

	FontHeight  = 7
	LineSpacing = 1

	inputBoxHeight = 10
	textX          = 2
	pulseX         = 60
	pulseSpacing   = 3
	pulseHeight    = 2
	dotWidth       = 2
	dashWidth      = 5
)

// TypingBanner is shown on the top row while the peer is composing.
const TypingBanner = "OTH is typing..."

// Draw emits the draw commands for v. It does not flush.
func Draw(d Display, v View) {
	d.Clear()

	if v.Composing {
		d.DrawRect(Rect{Min: Point{0, ScreenHeight - inputBoxHeight}, W: ScreenWidth, H: inputBoxHeight}, Outline)
	}
	if v.Text != "" {
		d.DrawText(Point{textX, ScreenHeight - 3}, v.Text)
	}
	drawPulses(d, v.Pending)

	y := ScreenHeight - 2
	if v.Composing {
		y = ScreenHeight - inputBoxHeight - 2
	}
	for _, e := range v.Entries {
		if y < FontHeight {
			break
		}
		d.DrawText(Point{0, y}, e.Origin.Label()+": "+e.Text)
		y -= FontHeight + LineSpacing
	}

	if v.PeerTyping {
		d.DrawRect(Rect{Min: Point{0, 0}, W: ScreenWidth, H: FontHeight + 2}, Clear)
		d.DrawText(Point{0, FontHeight}, TypingBanner)
	}
}

func pulseWidth(s morse.Symbol) int {
	if s == morse.Long {
		return dashWidth
	}
	return dotWidth
}

// drawPulses draws the pending symbols as short and long bars over a
// cleared strip on the bottom line.
func drawPulses(d Display, pending []morse.Symbol) {
	if len(pending) == 0 {
		return
	}

	width := pulseSpacing
	for _, s := range pending {
		width += pulseWidth(s) + pulseSpacing
	}
	y := ScreenHeight - 2
	d.DrawRect(Rect{Min: Point{pulseX - pulseSpacing, y}, W: width, H: pulseHeight}, Clear)

	x := pulseX
	for _, s := range pending {
		w := pulseWidth(s)
		d.DrawRect(Rect{Min: Point{x, y}, W: w, H: pulseHeight}, Fill)
		x += w + pulseSpacing
	}
}
