package protocol

import (
	"encoding/binary"

	"github.com/google/uuid"
)

// DeviceID identifies the sender of a frame on the shared channel. It is
// not a user-visible name; peers never address each other by it.
type DeviceID uint32

// NewDeviceID draws a random non-zero ID from a version 4 UUID.
func NewDeviceID() DeviceID {
	for {
		u := uuid.New()
		if id := DeviceID(binary.LittleEndian.Uint32(u[:4])); id != 0 {
			return id
		}
	}
}
