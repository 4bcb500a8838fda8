package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ystepanoff/morsechat/capture"
	"github.com/ystepanoff/morsechat/protocol"
)

func runDump(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	records, err := capture.Read(f)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	n := 0
	for rec := range records {
		if rec.Raw == nil {
			return fmt.Errorf("frame %d: %w", n+1, rec.Err)
		}
		n++
		ts := rec.Time.Format(time.TimeOnly + ".000")
		switch {
		case rec.Frame == nil:
			fmt.Fprintf(out, "%s  %3dB  %v\n", ts, len(rec.Raw), rec.Err)
		case rec.Frame.Type != protocol.FrameTypeMessage:
			fmt.Fprintf(out, "%s  %08x #%-5d frame type 0x%02x\n", ts, uint32(rec.Frame.SenderID), rec.Frame.Seq, rec.Frame.Type)
		case rec.Err != nil:
			fmt.Fprintf(out, "%s  %08x #%-5d %v\n", ts, uint32(rec.Frame.SenderID), rec.Frame.Seq, rec.Err)
		default:
			fmt.Fprintf(out, "%s  %08x #%-5d %v\n", ts, uint32(rec.Frame.SenderID), rec.Frame.Seq, rec.Message)
		}
	}
	fmt.Fprintf(out, "%d frames\n", n)
	return nil
}
