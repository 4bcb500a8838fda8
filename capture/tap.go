// Package capture records radio frames to a pcap file and reads them
// back. Frames are stored raw under the DLT_USER0 link type.
package capture

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcapgo"
	"go.uber.org/zap"

	"github.com/ystepanoff/morsechat/protocol"
	"github.com/ystepanoff/morsechat/transport"
)

// LinkType is DLT_USER0, reserved for private link layers.
const LinkType = layers.LinkType(147)

// Tap is a transport.RadioDriver that copies every frame that was
// successfully sent or received to a pcap stream.
type Tap struct {
	transport.RadioDriver

	mu   sync.Mutex
	self protocol.DeviceID
	w    *pcapgo.Writer
	c    io.Closer
	log  *zap.Logger
	now  func() time.Time
}

// NewTap writes the pcap header to w immediately.
func NewTap(d transport.RadioDriver, w io.Writer, log *zap.Logger) (*Tap, error) {
	if log == nil {
		log = zap.NewNop()
	}
	pw := pcapgo.NewWriter(w)
	if err := pw.WriteFileHeader(protocol.MaxFrameSize, LinkType); err != nil {
		return nil, fmt.Errorf("write pcap header: %w", err)
	}
	t := &Tap{RadioDriver: d, w: pw, log: log.Named("capture"), now: time.Now}
	if c, ok := w.(io.Closer); ok {
		t.c = c
	}
	return t, nil
}

// Create opens path for writing and taps d.
func Create(path string, d transport.RadioDriver, log *zap.Logger) (*Tap, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create capture: %w", err)
	}
	t, err := NewTap(d, f, log)
	if err != nil {
		return nil, errors.Join(err, f.Close())
	}
	return t, nil
}

// SkipEchoes stops Rx from recording frames sent by id. A broadcast medium
// that loops our own transmissions back would otherwise store each one
// twice.
func (t *Tap) SkipEchoes(id protocol.DeviceID) {
	t.mu.Lock()
	t.self = id
	t.mu.Unlock()
}

func (t *Tap) Tx(frame []byte) error {
	if err := t.RadioDriver.Tx(frame); err != nil {
		return err
	}
	t.record(frame)
	return nil
}

func (t *Tap) Rx(timeout time.Duration) ([]byte, error) {
	frame, err := t.RadioDriver.Rx(timeout)
	if err != nil {
		return nil, err
	}
	if !t.isEcho(frame) {
		t.record(frame)
	}
	return frame, nil
}

func (t *Tap) isEcho(frame []byte) bool {
	t.mu.Lock()
	self := t.self
	t.mu.Unlock()
	if self == 0 {
		return false
	}
	f, err := protocol.DecodeFrame(frame)
	return err == nil && f.SenderID == self
}

// record never fails the radio path.
func (t *Tap) record(frame []byte) {
	t.mu.Lock()
	defer t.mu.Unlock()
	ci := gopacket.CaptureInfo{
		Timestamp:     t.now(),
		CaptureLength: len(frame),
		Length:        len(frame),
	}
	if err := t.w.WritePacket(ci, frame); err != nil {
		t.log.Warn("capture write failed", zap.Error(err))
	}
}

// Close closes the underlying file, if the tap owns one. The wrapped
// driver is left alone.
func (t *Tap) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.c == nil {
		return nil
	}
	err := t.c.Close()
	t.c = nil
	return err
}
