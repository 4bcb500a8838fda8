package transport

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	proto "github.com/ystepanoff/morsechat/protocol"
)

// Every handset shares one access address, so each frame reaches all
// peers in range.
const (
	BroadcastAddress uint32 = 0xE7E7E7E7
	BroadcastPrefix  byte   = 0xE7

	DefaultRxTimeout = 100 * time.Millisecond
)

// Inbound is a frame heard from a peer.
type Inbound struct {
	From    proto.DeviceID
	Seq     uint32
	Payload []byte
}

// Link is a connectionless broadcast link over a RadioDriver.
type Link struct {
	id        proto.DeviceID
	driver    RadioDriver
	log       *zap.Logger
	rxTimeout time.Duration

	mu      sync.Mutex
	seq     uint32
	channel uint8
}

func NewLinkWithDriver(id proto.DeviceID, d RadioDriver, log *zap.Logger) *Link {
	if log == nil {
		log = zap.NewNop()
	}
	return &Link{
		id:        id,
		driver:    d,
		log:       log.Named("link"),
		rxTimeout: DefaultRxTimeout,
		channel:   proto.DefaultChannel,
	}
}

// ID returns the sender ID stamped on outgoing frames.
func (l *Link) ID() proto.DeviceID { return l.id }

// Channel returns the channel the radio was last tuned to.
func (l *Link) Channel() uint8 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.channel
}

// SetRxTimeout bounds each receive poll in Listen.
func (l *Link) SetRxTimeout(d time.Duration) {
	if d > 0 {
		l.rxTimeout = d
	}
}

// Initialise tunes the radio to channel on the shared broadcast address.
func (l *Link) Initialise(channel uint8) error {
	if channel > proto.MaxChannel {
		return proto.ErrInvalidChannel
	}
	if err := l.driver.Configure(BroadcastAddress, BroadcastPrefix, channel); err != nil {
		return fmt.Errorf("configure radio: %w", err)
	}
	l.mu.Lock()
	l.channel = channel
	l.mu.Unlock()
	l.log.Info("radio configured", zap.Uint8("channel", channel), zap.Uint32("id", uint32(l.id)))
	return nil
}

// Send broadcasts payload in a single frame. There is no acknowledgement.
func (l *Link) Send(ctx context.Context, payload []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(payload) > proto.MaxPayloadSize {
		return proto.ErrInvalidPayload
	}

	l.mu.Lock()
	seq := l.seq
	l.seq++
	l.mu.Unlock()

	frame := &proto.Frame{
		SenderID: l.id,
		Type:     proto.FrameTypeMessage,
		Seq:      seq,
		Payload:  payload,
	}

	if err := l.driver.Tx(proto.EncodeFrame(frame)); err != nil {
		return fmt.Errorf("transmit seq %d: %w", seq, err)
	}
	l.log.Debug("frame sent", zap.Uint32("seq", seq), zap.Int("bytes", len(payload)))
	return nil
}

// ReceiveFrame waits up to timeout for one well-formed frame.
func (l *Link) ReceiveFrame(timeout time.Duration) (*proto.Frame, error) {
	data, err := l.driver.Rx(timeout)
	if err != nil {
		return nil, err
	}
	return proto.DecodeFrame(data)
}

// Listen feeds frames from other devices into out until ctx is done.
// Corrupt frames and our own echoes are dropped. Listen returns nil on
// cancellation and an error only when the driver fails.
func (l *Link) Listen(ctx context.Context, out chan<- Inbound) error {
	for {
		if ctx.Err() != nil {
			return nil
		}

		frame, err := l.ReceiveFrame(l.rxTimeout)
		switch {
		case err == nil:
		case errors.Is(err, proto.ErrTimeout):
			continue
		case errors.Is(err, proto.ErrMalformedFrame):
			l.log.Debug("dropping frame", zap.Error(err))
			continue
		default:
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("receive: %w", err)
		}

		if frame.SenderID == l.id {
			continue
		}
		if frame.Type != proto.FrameTypeMessage {
			l.log.Debug("ignoring frame type", zap.Uint8("type", frame.Type))
			continue
		}

		in := Inbound{From: frame.SenderID, Seq: frame.Seq, Payload: frame.Payload}
		select {
		case out <- in:
		case <-ctx.Done():
			return nil
		}
	}
}
