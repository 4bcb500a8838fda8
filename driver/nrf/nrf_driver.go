//go:build tinygo || baremetal

package nrf

import (
	"time"
	"unsafe"

	proto "github.com/ystepanoff/morsechat/protocol"
	"github.com/ystepanoff/morsechat/transport"

	"device/nrf"
)

// Driver provides a RadioDriver backed by the real NRF peripheral registers.
// It keeps one DMA buffer shared by TX and RX; the link never overlaps them.
type Driver struct {
	buffer  [proto.MaxFrameSize]byte
	clockOn bool
}

var _ transport.RadioDriver = (*Driver)(nil)

func New() *Driver { return &Driver{} }

func (d *Driver) Configure(address uint32, prefix byte, channel uint8) error {
	if !d.clockOn {
		startClock()
		d.clockOn = true
	}
	return tune(address, prefix, channel)
}

func (d *Driver) Tx(data []byte) error {
	if len(data) > len(d.buffer) {
		return proto.ErrInvalidPayload
	}
	copy(d.buffer[:], data)
	nrf.RADIO.PACKETPTR.Set(uint32(uintptr(unsafe.Pointer(&d.buffer[0]))))
	nrf.RADIO.EVENTS_READY.Set(0)
	nrf.RADIO.EVENTS_END.Set(0)
	nrf.RADIO.TASKS_TXEN.Set(1)
	for nrf.RADIO.EVENTS_READY.Get() == 0 {
	}
	nrf.RADIO.TASKS_START.Set(1)
	for nrf.RADIO.EVENTS_END.Get() == 0 {
	}
	d.disable()
	return nil
}

func (d *Driver) Rx(timeout time.Duration) ([]byte, error) {
	nrf.RADIO.PACKETPTR.Set(uint32(uintptr(unsafe.Pointer(&d.buffer[0]))))
	nrf.RADIO.EVENTS_READY.Set(0)
	nrf.RADIO.EVENTS_END.Set(0)
	nrf.RADIO.TASKS_RXEN.Set(1)
	for nrf.RADIO.EVENTS_READY.Get() == 0 {
	}
	nrf.RADIO.TASKS_START.Set(1)
	start := time.Now()
	for nrf.RADIO.EVENTS_END.Get() == 0 {
		if time.Since(start) > timeout {
			d.disable()
			return nil, proto.ErrTimeout
		}
	}
	d.disable()

	// Hardware CRC failures are caught again by the frame CRC.
	frameLen := int(d.buffer[0]) + 1
	if frameLen > proto.MaxFrameSize {
		frameLen = proto.MaxFrameSize
	}
	out := make([]byte, frameLen)
	copy(out, d.buffer[:frameLen])
	return out, nil
}

func (d *Driver) disable() {
	nrf.RADIO.TASKS_DISABLE.Set(1)
	for nrf.RADIO.STATE.Get() != nrf.RADIO_STATE_STATE_Disabled {
	}
}
