// Package display rasterises the handset's pixel draw commands onto a
// character grid so the screen can be shown in a terminal or a log.
package display

import (
	"slices"
	"strings"

	"github.com/ystepanoff/morsechat/app"
)

// One character cell covers CellWidth x CellHeight pixels of the panel.
const (
	CellWidth  = 6
	CellHeight = 8
	Cols       = app.ScreenWidth / CellWidth
	Rows       = app.ScreenHeight / CellHeight
)

// Screen is one presented frame.
type Screen struct {
	Lines [Rows]string
	Boxed [Rows]bool // row sits inside an outlined box
}

func (s Screen) String() string {
	var b strings.Builder
	for i, line := range s.Lines {
		if s.Boxed[i] {
			b.WriteString("|" + line + "|")
		} else {
			b.WriteString(" " + line)
		}
		if i < Rows-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

type pulse struct {
	x    int
	long bool
}

// Grid implements app.Display. Each primitive is placed on the row that
// holds its vertical centre, so a 7px glyph on a baseline and the bars
// beside it end up on the same text line.
type Grid struct {
	cells  [Rows][Cols]rune
	boxed  [Rows]bool
	pulses [Rows][]pulse

	present func(Screen) error
}

// NewGrid returns a grid that hands every flushed frame to present.
func NewGrid(present func(Screen) error) *Grid {
	g := &Grid{present: present}
	g.Clear()
	return g
}

func rowOf(centreY int) (int, bool) {
	if centreY < 0 {
		return 0, false
	}
	r := centreY / CellHeight
	return r, r < Rows
}

func (g *Grid) Clear() {
	for r := range g.cells {
		for c := range g.cells[r] {
			g.cells[r][c] = ' '
		}
		g.boxed[r] = false
		g.pulses[r] = g.pulses[r][:0]
	}
}

func (g *Grid) DrawText(at app.Point, text string) {
	row, ok := rowOf(at.Y - app.FontHeight/2)
	if !ok {
		return
	}
	col := at.X / CellWidth
	for _, ch := range text {
		if col >= Cols {
			break
		}
		if col >= 0 {
			g.cells[row][col] = ch
		}
		col++
	}
}

func (g *Grid) DrawRect(r app.Rect, style app.RectStyle) {
	row, ok := rowOf(r.Min.Y + r.H/2)
	if !ok {
		return
	}
	switch style {
	case app.Outline:
		g.boxed[row] = true
	case app.Fill:
		g.pulses[row] = append(g.pulses[row], pulse{x: r.Min.X, long: r.W > 2})
	case app.Clear:
		from, to := max(r.Min.X/CellWidth, 0), min((r.Min.X+r.W-1)/CellWidth, Cols-1)
		for c := from; c <= to; c++ {
			g.cells[row][c] = ' '
		}
		g.pulses[row] = slices.DeleteFunc(g.pulses[row], func(p pulse) bool {
			return p.x >= r.Min.X && p.x < r.Min.X+r.W
		})
	}
}

// Flush renders pulses as '.' and '-' runs starting at the first
// pulse's cell, then presents the frame.
func (g *Grid) Flush() error {
	var s Screen
	for r := range Rows {
		line := g.cells[r]
		if ps := g.pulses[r]; len(ps) > 0 {
			col := ps[0].x / CellWidth
			for _, p := range ps {
				if col >= Cols {
					break
				}
				if p.long {
					line[col] = '-'
				} else {
					line[col] = '.'
				}
				col++
			}
		}
		s.Lines[r] = string(line[:])
		s.Boxed[r] = g.boxed[r]
	}
	if g.present == nil {
		return nil
	}
	return g.present(s)
}
