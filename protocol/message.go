package protocol

import (
	"fmt"
	"strconv"
	"unicode/utf8"

	"google.golang.org/protobuf/encoding/protowire"
)

// Kind selects the message variant.
type Kind uint8

const (
	KindText Kind = iota + 1
	KindTyping
	KindPing
	KindPong
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindTyping:
		return "typing"
	case KindPing:
		return "ping"
	case KindPong:
		return "pong"
	default:
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Message is what peers exchange. Fields that Kind does not select stay
// zero; build values with Text, Typing, Ping and Pong.
type Message struct {
	Kind   Kind
	Text   string
	Typing bool
}

// Text builds a chat message, cutting s to MaxTextLen bytes.
func Text(s string) Message {
	return Message{Kind: KindText, Text: truncate(s, MaxTextLen)}
}

// Typing signals that the sender started or stopped composing.
func Typing(active bool) Message { return Message{Kind: KindTyping, Typing: active} }

// Ping announces presence.
func Ping() Message { return Message{Kind: KindPing} }

// Pong answers a Ping.
func Pong() Message { return Message{Kind: KindPong} }

func (m Message) String() string {
	switch m.Kind {
	case KindText:
		return "text(" + strconv.Quote(m.Text) + ")"
	case KindTyping:
		return "typing(" + strconv.FormatBool(m.Typing) + ")"
	default:
		return m.Kind.String()
	}
}

// Wire field numbers. A valid message carries exactly one of them.
const (
	fieldText   protowire.Number = 1
	fieldTyping protowire.Number = 2
	fieldPing   protowire.Number = 3
	fieldPong   protowire.Number = 4
)

// EncodeMessage serialises m using the protobuf wire format.
// Fields that m.Kind does not carry must be zero; anything else would not
// survive the round trip and is rejected.
func EncodeMessage(m Message) ([]byte, error) {
	if err := m.checkUnused(); err != nil {
		return nil, err
	}
	b := make([]byte, 0, 2+MaxTextLen)
	switch m.Kind {
	case KindText:
		if len(m.Text) > MaxTextLen {
			return nil, ErrTextTooLong
		}
		if !utf8.ValidString(m.Text) {
			return nil, fmt.Errorf("%w: text is not valid UTF-8", ErrInvalidPayload)
		}
		b = protowire.AppendTag(b, fieldText, protowire.BytesType)
		b = protowire.AppendString(b, m.Text)
	case KindTyping:
		b = protowire.AppendTag(b, fieldTyping, protowire.VarintType)
		b = protowire.AppendVarint(b, protowire.EncodeBool(m.Typing))
	case KindPing:
		b = protowire.AppendTag(b, fieldPing, protowire.BytesType)
		b = protowire.AppendBytes(b, nil)
	case KindPong:
		b = protowire.AppendTag(b, fieldPong, protowire.BytesType)
		b = protowire.AppendBytes(b, nil)
	default:
		return nil, fmt.Errorf("%w: unknown message %s", ErrInvalidPayload, m.Kind)
	}
	return b, nil
}

func (m Message) checkUnused() error {
	switch {
	case m.Kind != KindText && m.Text != "":
		return fmt.Errorf("%w: %s message carries text", ErrInvalidPayload, m.Kind)
	case m.Kind != KindTyping && m.Typing:
		return fmt.Errorf("%w: %s message carries a typing flag", ErrInvalidPayload, m.Kind)
	}
	return nil
}

// DecodeMessage parses a payload produced by EncodeMessage. Any deviation
// yields ErrMalformedFrame and a zero Message.
func DecodeMessage(b []byte) (Message, error) {
	var (
		m      Message
		fields int
	)
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return Message{}, malformed(protowire.ParseError(n))
		}
		b = b[n:]

		switch {
		case num == fieldText && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return Message{}, malformed(protowire.ParseError(n))
			}
			if len(v) > MaxTextLen || !utf8.Valid(v) {
				return Message{}, fmt.Errorf("%w: bad text payload", ErrMalformedFrame)
			}
			m = Message{Kind: KindText, Text: string(v)}
			b = b[n:]
		case num == fieldTyping && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return Message{}, malformed(protowire.ParseError(n))
			}
			if v > 1 {
				return Message{}, fmt.Errorf("%w: typing flag %d", ErrMalformedFrame, v)
			}
			m = Typing(protowire.DecodeBool(v))
			b = b[n:]
		case (num == fieldPing || num == fieldPong) && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return Message{}, malformed(protowire.ParseError(n))
			}
			if len(v) != 0 {
				return Message{}, fmt.Errorf("%w: %d stray bytes in presence message", ErrMalformedFrame, len(v))
			}
			if num == fieldPing {
				m = Ping()
			} else {
				m = Pong()
			}
			b = b[n:]
		default:
			return Message{}, fmt.Errorf("%w: unexpected field %d (wire type %d)", ErrMalformedFrame, num, typ)
		}
		fields++
	}

	if fields != 1 {
		return Message{}, fmt.Errorf("%w: %d variants present", ErrMalformedFrame, fields)
	}
	return m, nil
}

func malformed(err error) error {
	return fmt.Errorf("%w: %v", ErrMalformedFrame, err)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
