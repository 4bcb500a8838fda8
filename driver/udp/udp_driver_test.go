package udp

import (
	"errors"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	proto "github.com/ystepanoff/morsechat/protocol"
)

func TestNew_Validation(t *testing.T) {
	_, err := New("127.0.0.1:47000", "", nil)
	assert.ErrorContains(t, err, "not a multicast address")

	_, err = New("not an address", "", nil)
	assert.Error(t, err)

	d, err := New("", "", nil)
	require.NoError(t, err)
	assert.Equal(t, 47000, d.group.Port)
}

func TestDriver_UnconfiguredIsClosed(t *testing.T) {
	d, err := New("", "", zaptest.NewLogger(t))
	require.NoError(t, err)

	assert.ErrorIs(t, d.Tx([]byte{1}), net.ErrClosed)
	_, err = d.Rx(time.Millisecond)
	assert.ErrorIs(t, err, net.ErrClosed)
	assert.ErrorIs(t, d.Configure(0, 0, proto.MaxChannel+1), proto.ErrInvalidChannel)
}

func TestDriver_Loopback(t *testing.T) {
	d, err := New("239.77.77.78:47100", "", zaptest.NewLogger(t))
	require.NoError(t, err)
	if err := d.Configure(0, 0, 3); err != nil {
		t.Skipf("multicast unavailable: %v", err)
	}
	defer d.Close()

	frame := proto.EncodeFrame(&proto.Frame{SenderID: 9, Type: proto.FrameTypeMessage, Payload: []byte("hi")})
	if err := d.Tx(frame); err != nil {
		t.Skipf("multicast send unavailable: %v", err)
	}

	got, err := d.Rx(500 * time.Millisecond)
	if errors.Is(err, proto.ErrTimeout) {
		t.Skip("multicast loopback disabled on this host")
	}
	require.NoError(t, err)
	assert.Equal(t, frame, got)

	_, err = d.Rx(10 * time.Millisecond)
	assert.ErrorIs(t, err, proto.ErrTimeout)
}
