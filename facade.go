// Package morsechat wires a handset together: the radio driver for the
// build target, the link on top of it and the recovery hook.
package morsechat

import (
	"go.uber.org/zap"

	"github.com/ystepanoff/morsechat/app"
	"github.com/ystepanoff/morsechat/protocol"
	"github.com/ystepanoff/morsechat/transport"
)

// The target specific constructors live in build-tag files:
// - constructors_nrf.go - embedded builds (//go:build tinygo || baremetal)
// - constructors_host.go - host builds (//go:build !tinygo && !baremetal)

type (
	DeviceID    = protocol.DeviceID
	Message     = protocol.Message
	Link        = transport.Link
	Inbound     = transport.Inbound
	RadioDriver = transport.RadioDriver
)

var (
	ErrInvalidPayload  = protocol.ErrInvalidPayload
	ErrMalformedFrame  = protocol.ErrMalformedFrame
	ErrTextTooLong     = protocol.ErrTextTooLong
	ErrTimeout         = protocol.ErrTimeout
	ErrInvalidChannel  = protocol.ErrInvalidChannel
	ErrRecoveryEntered = app.ErrRecoveryEntered
)

const (
	DefaultChannel = protocol.DefaultChannel
	MaxTextLen     = protocol.MaxTextLen
)

const (
	DriverUDP  = "udp"
	DriverStub = "stub"
)

// DriverOptions picks the host radio stand-in. Hardware builds always
// use the on-chip radio and ignore it.
type DriverOptions struct {
	Kind      string // DriverUDP (default) or DriverStub
	Group     string // multicast group for DriverUDP
	Interface string
}

// NewLink creates the driver for opts and returns a link tuned to channel.
func NewLink(id DeviceID, channel uint8, opts DriverOptions, log *zap.Logger) (*Link, error) {
	d, err := NewDriver(opts, log)
	if err != nil {
		return nil, err
	}
	l := transport.NewLinkWithDriver(id, d, log)
	if err := l.Initialise(channel); err != nil {
		return nil, err
	}
	return l, nil
}
