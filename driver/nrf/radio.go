//go:build tinygo || baremetal

package nrf

import (
	proto "github.com/ystepanoff/morsechat/protocol"

	"device/nrf"
)

// Packet layout: an 8-bit length field and no S0/S1. The length byte is
// the first byte of a protocol frame, so the radio sees frames verbatim.
const (
	lengthBits  = 8
	baseAddrLen = 3 // BALEN; with the prefix byte a 4-byte address
	maxPayload  = proto.MaxFrameSize - 1

	crcBytes = 1
	crcInit  = 0xFF
	crcPoly  = 0x107 // x^8 + x^2 + x + 1
)

// startClock blocks until the crystal oscillator the radio runs from is up.
func startClock() {
	nrf.CLOCK.EVENTS_HFCLKSTARTED.Set(0)
	nrf.CLOCK.TASKS_HFCLKSTART.Set(1)
	for nrf.CLOCK.EVENTS_HFCLKSTARTED.Get() == 0 {
	}
}

// tune programs the whole peripheral for one channel. Every handset uses
// the same logical address 0 for both directions.
func tune(address uint32, prefix byte, channel uint8) error {
	if channel > proto.MaxChannel {
		return proto.ErrInvalidChannel
	}

	r := nrf.RADIO
	r.POWER.Set(1)
	r.MODE.Set(nrf.RADIO_MODE_MODE_Nrf_1Mbit)
	r.TXPOWER.Set(nrf.RADIO_TXPOWER_TXPOWER_0dBm)
	r.FREQUENCY.Set(uint32(channel)) // 2400 + channel MHz

	r.BASE0.Set(address)
	r.PREFIX0.Set(uint32(prefix))
	r.TXADDRESS.Set(0)
	r.RXADDRESSES.Set(1 << 0)

	r.PCNF0.Set(lengthBits << nrf.RADIO_PCNF0_LFLEN_Pos)
	r.PCNF1.Set(maxPayload<<nrf.RADIO_PCNF1_MAXLEN_Pos |
		baseAddrLen<<nrf.RADIO_PCNF1_BALEN_Pos |
		nrf.RADIO_PCNF1_ENDIAN_Little<<nrf.RADIO_PCNF1_ENDIAN_Pos)

	r.CRCCNF.Set(crcBytes)
	r.CRCINIT.Set(crcInit)
	r.CRCPOLY.Set(crcPoly)
	return nil
}
