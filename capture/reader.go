package capture

import (
	"errors"
	"fmt"
	"io"
	"iter"
	"time"

	"github.com/google/gopacket/pcapgo"

	"github.com/ystepanoff/morsechat/protocol"
)

// Record is one captured frame. Err is set when the frame or its
// message could not be decoded; Frame and Message are then partial.
type Record struct {
	Time    time.Time
	Raw     []byte
	Frame   *protocol.Frame
	Message protocol.Message
	Err     error
}

// Read returns the records in r. The returned error covers the pcap
// header only; later read failures end the sequence with a Record whose
// Err is set and Raw is nil.
func Read(r io.Reader) (iter.Seq[Record], error) {
	pr, err := pcapgo.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("read pcap header: %w", err)
	}
	if pr.LinkType() != LinkType {
		return nil, fmt.Errorf("unexpected link type %v", pr.LinkType())
	}

	return func(yield func(Record) bool) {
		for {
			data, ci, err := pr.ReadPacketData()
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				yield(Record{Err: err})
				return
			}
			if !yield(decode(ci.Timestamp, data)) {
				return
			}
		}
	}, nil
}

func decode(ts time.Time, data []byte) Record {
	rec := Record{Time: ts, Raw: data}
	rec.Frame, rec.Err = protocol.DecodeFrame(data)
	if rec.Err != nil {
		return rec
	}
	if rec.Frame.Type != protocol.FrameTypeMessage {
		return rec
	}
	rec.Message, rec.Err = protocol.DecodeMessage(rec.Frame.Payload)
	return rec
}
