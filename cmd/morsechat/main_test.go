package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ystepanoff/morsechat/capture"
	"github.com/ystepanoff/morsechat/config"
	"github.com/ystepanoff/morsechat/driver/stub"
	"github.com/ystepanoff/morsechat/protocol"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		writePath = ""
	})
	err := rootCmd.Execute()
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "morsechat dev")
}

func isolate(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", dir)
}

func TestConfig_PrintsAndWrites(t *testing.T) {
	isolate(t)

	out, err := execute(t, "config", "--channel", "12", "--driver", "stub")
	require.NoError(t, err)
	assert.Contains(t, out, "channel: 12")
	assert.Contains(t, out, "driver: stub")

	path := filepath.Join(t.TempDir(), "out.yaml")
	_, err = execute(t, "config", "--driver", "stub", "--write", path)
	require.NoError(t, err)
	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "stub", cfg.Radio.Driver)
}

func TestConfig_RejectsInvalid(t *testing.T) {
	isolate(t)
	_, err := execute(t, "config", "--channel", "200")
	assert.ErrorContains(t, err, "radio.channel")
}

func TestDump(t *testing.T) {
	path := filepath.Join(t.TempDir(), "air.pcap")
	tap, err := capture.Create(path, stub.New(), nil)
	require.NoError(t, err)

	payload, err := protocol.EncodeMessage(protocol.Text("SOS"))
	require.NoError(t, err)
	require.NoError(t, tap.Tx(protocol.EncodeFrame(&protocol.Frame{
		SenderID: 0xCAFE, Type: protocol.FrameTypeMessage, Seq: 3, Payload: payload,
	})))
	require.NoError(t, tap.Tx([]byte{0x01}))
	require.NoError(t, tap.Close())

	out, err := execute(t, "dump", path)
	require.NoError(t, err)
	assert.Contains(t, out, `0000cafe #3     text("SOS")`)
	assert.Contains(t, out, "malformed")
	assert.Contains(t, out, "2 frames")
}
