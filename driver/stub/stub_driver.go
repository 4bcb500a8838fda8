//go:build !tinygo && !baremetal

// Package stub provides an in-memory radio for host-side runs and tests.
// Drivers attached to the same Medium hear each other's transmissions.
package stub

import (
	"sync"
	"time"

	proto "github.com/ystepanoff/morsechat/protocol"
	"github.com/ystepanoff/morsechat/transport"
)

// Medium is the shared air between stub drivers.
type Medium struct {
	mu      sync.Mutex
	drivers []*Driver
}

func NewMedium() *Medium { return &Medium{} }

// Attach creates a driver that broadcasts on m.
func (m *Medium) Attach() *Driver {
	d := &Driver{medium: m, channel: proto.DefaultChannel}
	m.mu.Lock()
	m.drivers = append(m.drivers, d)
	m.mu.Unlock()
	return d
}

func (m *Medium) broadcast(from *Driver, channel uint8, frame []byte) {
	m.mu.Lock()
	peers := make([]*Driver, 0, len(m.drivers))
	for _, d := range m.drivers {
		if d != from {
			peers = append(peers, d)
		}
	}
	m.mu.Unlock()

	for _, d := range peers {
		d.deliver(channel, frame)
	}
}

// Driver implements a mock radio driver for host-side testing
type Driver struct {
	medium *Medium

	mu      sync.Mutex
	channel uint8
	txErr   error
	rxBuf   ringBuffer
	txBuf   ringBuffer
}

var _ transport.RadioDriver = (*Driver)(nil)

// New returns a driver that is not attached to any medium.
func New() *Driver { return &Driver{channel: proto.DefaultChannel} }

func (d *Driver) Configure(address uint32, prefix byte, channel uint8) error {
	if channel > proto.MaxChannel {
		return proto.ErrInvalidChannel
	}
	d.mu.Lock()
	d.channel = channel
	d.mu.Unlock()
	return nil
}

func (d *Driver) Tx(data []byte) error {
	d.mu.Lock()
	if d.txErr != nil {
		err := d.txErr
		d.mu.Unlock()
		return err
	}
	frame := make([]byte, len(data))
	copy(frame, data)
	d.txBuf.push(frame)
	channel := d.channel
	d.mu.Unlock()

	if d.medium != nil {
		d.medium.broadcast(d, channel, frame)
	}
	return nil
}

func (d *Driver) Rx(timeout time.Duration) ([]byte, error) {
	deadline := time.Now().Add(timeout)
	for {
		d.mu.Lock()
		frame, ok := d.rxBuf.pop()
		d.mu.Unlock()
		if ok {
			out := make([]byte, len(frame))
			copy(out, frame)
			return out, nil
		}

		if time.Now().After(deadline) {
			return nil, proto.ErrTimeout
		}
		time.Sleep(1 * time.Millisecond)
	}
}

// FailTx makes every following Tx return err; nil restores normal sends.
func (d *Driver) FailTx(err error) {
	d.mu.Lock()
	d.txErr = err
	d.mu.Unlock()
}

func (d *Driver) InjectRx(data []byte) {
	d.mu.Lock()
	defer d.mu.Unlock()
	frame := make([]byte, len(data))
	copy(frame, data)
	d.rxBuf.push(frame)
}

func (d *Driver) GetTxLog() [][]byte {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.txBuf.snapshot()
}

func (d *Driver) deliver(channel uint8, frame []byte) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.channel != channel {
		return
	}
	d.rxBuf.push(frame)
}

const ringCapacity = 64

type ringBuffer struct {
	data       [ringCapacity][]byte
	head, tail int // head = next pop, tail = next push
	count      int
}

func (rb *ringBuffer) push(frame []byte) {
	if rb.count == ringCapacity {
		// Overwrite the oldest when buffer is full to keep memory bounded
		rb.data[rb.tail] = nil
		rb.head = (rb.head + 1) % ringCapacity
		rb.count--
	}
	rb.data[rb.tail] = frame
	rb.tail = (rb.tail + 1) % ringCapacity
	rb.count++
}

func (rb *ringBuffer) pop() ([]byte, bool) {
	if rb.count == 0 {
		return nil, false
	}
	frame := rb.data[rb.head]
	rb.data[rb.head] = nil
	rb.head = (rb.head + 1) % ringCapacity
	rb.count--
	return frame, true
}

func (rb *ringBuffer) snapshot() [][]byte {
	out := make([][]byte, 0, rb.count)
	for c, i := 0, rb.head; c < rb.count; c, i = c+1, (i+1)%ringCapacity {
		cp := make([]byte, len(rb.data[i]))
		copy(cp, rb.data[i])
		out = append(out, cp)
	}
	return out
}
