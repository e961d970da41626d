// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 R. Calloway, Quadrature

package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/quadrature/xbeemon/pkg/xbee"
	"github.com/spf13/cobra"
)

var framesHex bool

var framesCmd = &cobra.Command{
	Use:   "frames",
	Short: "Display live frame log in human-readable format",
	Long: `Continuously decode and display API frames as they arrive.

Each frame is shown with a timestamp, its type, and a decoded parameter
breakdown. Frames with unassigned type codes are shown as raw payload hex.
Parsing faults (bad checksum, short payloads) are logged and scanning resumes
at the next start delimiter.

Supports both serial and WebSocket connections.`,
	RunE: runFrames,
}

func init() {
	rootCmd.AddCommand(framesCmd)
	framesCmd.Flags().BoolVar(&framesHex, "hex", false, "Also print the raw wire bytes of each frame")
}

func runFrames(cmd *cobra.Command, args []string) error {
	d, connInfo, err := OpenDevice()
	if err != nil {
		return err
	}
	defer d.Close()

	fmt.Printf("Xbeemon - Live Frame Log\n")
	fmt.Printf("Connection: %s\n", connInfo)
	fmt.Printf("Mode: %s\n", d.Mode())
	fmt.Printf("Press Ctrl+C to exit\n\n")

	d.OnFrame(func(f xbee.Frame) {
		fmt.Printf("[%s] %s", time.Now().Format("15:04:05.000"), xbee.FormatFrame(f))
		if framesHex {
			fmt.Printf("  Wire: %s\n", xbee.HexString(f))
		}
	})
	d.OnError(func(err error) {
		fmt.Printf("[%s] ERROR: %v\n", time.Now().Format("15:04:05.000"), err)
	})

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig
	fmt.Println("\nExiting")
	return nil
}
