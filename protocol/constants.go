package protocol

// Radio and protocol constants shared by every layer above the driver.
const (
	// Frame layout:
	//   Length (1) | SenderID (4) | Type (1) | Seq (4) | Payload (0-113) | CRC32 (4) | Terminal (1)
	// Length counts everything after the length byte, i.e. total frame size minus 1.
	LengthFieldSize   = 1
	SenderFieldSize   = 4
	TypeFieldSize     = 1
	SequenceFieldSize = 4
	CRCSize           = 4 // CRC32 of the payload, little-endian
	TerminalSize      = 1

	FrameHeaderSize = LengthFieldSize + SenderFieldSize + TypeFieldSize + SequenceFieldSize // 10 bytes

	// Total maximum frame length on air (including length, CRC, terminal)
	MaxFrameSize = 128

	MaxPayloadSize = MaxFrameSize - FrameHeaderSize - CRCSize - TerminalSize

	// RF defaults (can be overridden by configuration)
	DefaultChannel = 7
	MaxChannel     = 125

	// Frame types
	FrameTypeMessage = 0x02

	// Terminal byte value appended to the end of every frame
	FrameTerminal = 0x55

	// MaxTextLen bounds the text carried by a Text message, in bytes.
	MaxTextLen = 16

	headerWithoutLen = FrameHeaderSize - LengthFieldSize
)
