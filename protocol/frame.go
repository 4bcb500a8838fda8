package protocol

import (
	"encoding/binary"
	"fmt"
	"hash/crc32"
)

// Frame is one radio transmission. Every peer on the channel hears every
// frame; SenderID lets a receiver tell its own echoes apart.
// Layout: Length(1) | SenderID(4) | Type(1) | Seq(4) | Payload(0-113) | CRC32(4) | Terminal(1)
type Frame struct {
	Length   byte
	SenderID DeviceID
	Type     byte
	Seq      uint32
	Payload  []byte
	CRC      uint32 // decoded frames only; ignored by encoder
}

// EncodeFrame serialises f into on-air bytes. Payloads longer than
// MaxPayloadSize are truncated; callers that care check the size first.
func EncodeFrame(f *Frame) []byte {
	if f == nil {
		return make([]byte, 0)
	}

	payload := f.Payload
	if len(payload) > MaxPayloadSize {
		payload = payload[:MaxPayloadSize]
	}

	bodyLen := headerWithoutLen + len(payload) + CRCSize + TerminalSize // bytes AFTER Length field
	totalLen := LengthFieldSize + bodyLen

	data := make([]byte, totalLen)
	data[0] = byte(bodyLen)
	binary.LittleEndian.PutUint32(data[1:5], uint32(f.SenderID))
	data[5] = f.Type
	binary.LittleEndian.PutUint32(data[6:10], f.Seq)
	copy(data[FrameHeaderSize:], payload)

	var crc uint32
	if len(payload) > 0 {
		crc = crc32.ChecksumIEEE(payload)
	}
	crcPos := FrameHeaderSize + len(payload)
	binary.LittleEndian.PutUint32(data[crcPos:crcPos+CRCSize], crc)

	data[totalLen-1] = FrameTerminal

	return data
}

// DecodeFrame parses on-air bytes. Trailing bytes after the terminal are
// ignored, since some radios hand back their whole receive buffer.
func DecodeFrame(data []byte) (*Frame, error) {
	minLen := FrameHeaderSize + CRCSize + TerminalSize
	if len(data) < minLen {
		return nil, fmt.Errorf("%w: %d bytes is shorter than a header", ErrMalformedFrame, len(data))
	}

	bodyLen := int(data[0])
	if bodyLen+LengthFieldSize > len(data) || bodyLen+LengthFieldSize > MaxFrameSize {
		return nil, fmt.Errorf("%w: length byte %d exceeds frame", ErrMalformedFrame, bodyLen)
	}

	if data[LengthFieldSize+bodyLen-1] != FrameTerminal {
		return nil, fmt.Errorf("%w: missing terminal byte", ErrMalformedFrame)
	}

	payloadLen := bodyLen - headerWithoutLen - CRCSize - TerminalSize
	if payloadLen < 0 {
		return nil, fmt.Errorf("%w: length byte %d too small", ErrMalformedFrame, bodyLen)
	}

	crcOffset := FrameHeaderSize + payloadLen
	recvCRC := binary.LittleEndian.Uint32(data[crcOffset : crcOffset+CRCSize])

	var calcCRC uint32
	if payloadLen > 0 {
		calcCRC = crc32.ChecksumIEEE(data[FrameHeaderSize:crcOffset])
	}
	if recvCRC != calcCRC {
		return nil, fmt.Errorf("%w: crc mismatch", ErrMalformedFrame)
	}

	f := &Frame{
		Length:   byte(bodyLen),
		SenderID: DeviceID(binary.LittleEndian.Uint32(data[1:5])),
		Type:     data[5],
		Seq:      binary.LittleEndian.Uint32(data[6:10]),
		CRC:      recvCRC,
		Payload:  make([]byte, payloadLen),
	}
	copy(f.Payload, data[FrameHeaderSize:crcOffset])

	return f, nil
}
