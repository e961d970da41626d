// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 R. Calloway, Quadrature

package cmd

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/quadrature/xbeemon/pkg/xbee"
	"github.com/spf13/cobra"
)

var (
	captureQuiet  bool
	replayTimed   bool
	replayVerbose bool
)

var captureCmd = &cobra.Command{
	Use:   "capture <file>",
	Short: "Record a frame session to a file",
	Long: `Record every received frame to a capture file for offline analysis.

Frames are stored with timestamps in a compact binary format (CBOR records of
the unescaped wire bytes). Use the replay subcommand to print a capture later,
or feed it to your own tooling.`,
	Args: cobra.ExactArgs(1),
	RunE: runCapture,
}

var replayCmd = &cobra.Command{
	Use:   "replay <file>",
	Short: "Print a recorded capture file",
	Long: `Decode and display a capture file recorded with the capture command.

No connection is needed. With --timed the original inter-frame gaps are
reproduced; useful for driving a downstream consumer at the recorded pace.`,
	Args: cobra.ExactArgs(1),
	RunE: runReplay,
}

func init() {
	rootCmd.AddCommand(captureCmd)
	captureCmd.Flags().BoolVar(&captureQuiet, "quiet", false, "Don't echo frames while recording")

	captureCmd.AddCommand(replayCmd)
	replayCmd.Flags().BoolVar(&replayTimed, "timed", false, "Reproduce the recorded inter-frame timing")
	replayCmd.Flags().BoolVar(&replayVerbose, "verbose", false, "Show the full parameter breakdown of each frame")
}

func runCapture(cmd *cobra.Command, args []string) error {
	out, err := os.Create(args[0])
	if err != nil {
		return fmt.Errorf("create capture file: %v", err)
	}
	defer out.Close()

	d, connInfo, err := OpenDevice()
	if err != nil {
		return err
	}
	defer d.Close()

	fmt.Printf("Xbeemon - Session Capture\n")
	fmt.Printf("Connection: %s\n", connInfo)
	fmt.Printf("Capture file: %s\n", args[0])
	fmt.Printf("Press Ctrl+C to stop\n\n")

	cw := xbee.NewCaptureWriter(out)
	var count atomic.Uint64
	d.OnFrame(func(f xbee.Frame) {
		if err := cw.WriteFrame(xbee.DirIn, xbee.Marshal(f, false)); err != nil {
			fmt.Fprintf(os.Stderr, "Capture write error: %v\n", err)
			return
		}
		count.Add(1)
		if !captureQuiet {
			fmt.Printf("[%s] %s (0x%02X)\n", time.Now().Format("15:04:05.000"),
				xbee.FormatFrameType(f.Type()), byte(f.Type()))
		}
	})

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig

	fmt.Printf("\n%d frame(s) captured\n", count.Load())
	return nil
}

func runReplay(cmd *cobra.Command, args []string) error {
	in, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("open capture file: %v", err)
	}
	defer in.Close()

	cr := xbee.NewCaptureReader(in)

	count := 0
	var prev time.Time
	for {
		rec, err := cr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("record %d: %v", count+1, err)
		}

		if replayTimed && !prev.IsZero() {
			if gap := rec.Time.Sub(prev); gap > 0 {
				time.Sleep(gap)
			}
		}
		prev = rec.Time
		count++

		f, err := rec.Frame()
		if err != nil {
			fmt.Printf("[%s] %s CORRUPT RECORD: %v\n",
				rec.Time.Format("15:04:05.000"), rec.Dir, err)
			continue
		}

		if replayVerbose {
			fmt.Printf("[%s] %s %s", rec.Time.Format("15:04:05.000"), rec.Dir, xbee.FormatFrame(f))
		} else {
			fmt.Printf("[%s] %s %s (0x%02X) len=%d\n", rec.Time.Format("15:04:05.000"),
				rec.Dir, xbee.FormatFrameType(f.Type()), byte(f.Type()), xbee.FrameLength(f))
		}
	}

	fmt.Printf("\n%d record(s)\n", count)
	return nil
}
