package input

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func runScript(t *testing.T, src string) ([]Event, error) {
	t.Helper()
	out := make(chan Event, 256)
	err := NewScript("test", src, zaptest.NewLogger(t)).Run(context.Background(), out)
	close(out)

	var events []Event
	for ev := range out {
		events = append(events, ev)
	}
	return events, err
}

func TestScript_Primitives(t *testing.T) {
	events, err := runScript(t, `
		press("down", 250)
		dot()
		commit()
		backspace()
		press("up", 1500)
	`)
	require.NoError(t, err)

	assert.Equal(t, []Event{
		{Down, 250 * time.Millisecond},
		{Down, DefaultShortPress},
		{Right, tapPress},
		{Left, tapPress},
		{Up, 1500 * time.Millisecond},
	}, events)
}

func TestScript_SendFeedsAssembler(t *testing.T) {
	events, err := runScript(t, `send("sos")`)
	require.NoError(t, err)

	a := NewAssembler()
	var sent []string
	for _, ev := range events {
		if eff := a.Handle(ev); eff.Message != "" {
			sent = append(sent, eff.Message)
		}
	}
	assert.Equal(t, []string{"SOS"}, sent)
}

func TestScript_SpellDoesNotSend(t *testing.T) {
	events, err := runScript(t, `spell("n")`)
	require.NoError(t, err)
	assert.Equal(t, []Event{
		{Down, DefaultLongPress},
		{Down, DefaultShortPress},
		{Right, tapPress},
	}, events)
}

func TestScript_Errors(t *testing.T) {
	_, err := runScript(t, `press("sideways")`)
	assert.ErrorContains(t, err, "unknown direction")

	_, err = runScript(t, `spell("#")`)
	assert.ErrorContains(t, err, "no morse code")

	_, err = runScript(t, `this is not lua`)
	assert.Error(t, err)
}

func TestScript_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- NewScript("slow", `sleep(60000)`, zaptest.NewLogger(t)).Run(ctx, make(chan Event))
	}()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("script did not stop")
	}
}

func TestLoadScript(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hello.lua")
	require.NoError(t, os.WriteFile(path, []byte(`dash()`), 0o600))

	s, err := LoadScript(path, nil)
	require.NoError(t, err)
	assert.Equal(t, path, s.Name)

	_, err = LoadScript(filepath.Join(t.TempDir(), "missing.lua"), nil)
	assert.Error(t, err)
}
