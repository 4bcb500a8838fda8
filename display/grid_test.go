package display

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/ystepanoff/morsechat/app"
	"github.com/ystepanoff/morsechat/chatlog"
	"github.com/ystepanoff/morsechat/morse"
)

func render(t *testing.T, v app.View) Screen {
	t.Helper()
	var got Screen
	g := NewGrid(func(s Screen) error { got = s; return nil })
	app.Draw(g, v)
	require.NoError(t, g.Flush())
	return got
}

func trimmed(s Screen) []string {
	out := make([]string, Rows)
	for i, l := range s.Lines {
		out[i] = strings.TrimRight(l, " ")
	}
	return out
}

func TestGrid_ChatLines(t *testing.T) {
	s := render(t, app.View{Entries: []chatlog.Entry{
		{Origin: chatlog.Remote, Text: "HI"},
		{Origin: chatlog.Local, Text: "HELLO"},
	}})

	lines := trimmed(s)
	assert.Equal(t, "OTH: HI", lines[7])
	assert.Equal(t, "YOU: HELLO", lines[6])
	assert.Empty(t, lines[0])
	assert.Equal(t, [Rows]bool{}, s.Boxed)
}

func TestGrid_Composition(t *testing.T) {
	s := render(t, app.View{
		Composing: true,
		Text:      "SO",
		Pending:   []morse.Symbol{morse.Short, morse.Short, morse.Long},
		Entries:   []chatlog.Entry{{Origin: chatlog.Remote, Text: "HI"}},
	})

	lines := trimmed(s)
	assert.True(t, s.Boxed[7])
	assert.Equal(t, "SO", lines[7][:2])
	assert.Equal(t, "..-", strings.TrimSpace(lines[7][2:]))
	assert.Equal(t, "OTH: HI", lines[6])
}

func TestGrid_TypingBanner(t *testing.T) {
	s := render(t, app.View{PeerTyping: true})
	assert.Equal(t, app.TypingBanner, strings.TrimRight(s.Lines[0], " "))
}

func TestGrid_ClipsLongText(t *testing.T) {
	var got Screen
	g := NewGrid(func(s Screen) error { got = s; return nil })
	g.DrawText(app.Point{X: 0, Y: 62}, strings.Repeat("W", 40))
	g.DrawText(app.Point{X: 0, Y: -20}, "offscreen")
	require.NoError(t, g.Flush())

	assert.Equal(t, strings.Repeat("W", Cols), got.Lines[7])
	for _, l := range got.Lines[:7] {
		assert.NotContains(t, l, "offscreen")
	}
}

func TestGrid_ClearResets(t *testing.T) {
	var got Screen
	g := NewGrid(func(s Screen) error { got = s; return nil })
	g.DrawText(app.Point{X: 0, Y: 62}, "X")
	g.DrawRect(app.Rect{Min: app.Point{X: 0, Y: 54}, W: 128, H: 10}, app.Outline)
	g.Clear()
	require.NoError(t, g.Flush())

	assert.Equal(t, strings.Repeat(" ", Cols), got.Lines[7])
	assert.False(t, got.Boxed[7])
}

func TestLogPresenter_SkipsUnchanged(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	present := LogPresenter(zap.New(core))

	var s Screen
	s.Lines[7] = "YOU: HI"
	require.NoError(t, present(s))
	require.NoError(t, present(s))
	s.Boxed[7] = true
	require.NoError(t, present(s))

	entries := logs.FilterMessage("screen").All()
	require.Len(t, entries, 2)
	assert.Contains(t, entries[1].ContextMap()["rows"], "[YOU: HI]")
}
