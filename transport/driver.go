package transport

import "time"

// RadioDriver is the interface that wraps the basic radio operations.
//
// Rx blocks for at most timeout and returns protocol.ErrTimeout when
// nothing arrived. Tx may block until the frame is on air.
type RadioDriver interface {
	Configure(address uint32, prefix byte, channel uint8) error
	Tx(data []byte) error
	Rx(timeout time.Duration) ([]byte, error)
}
