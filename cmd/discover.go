// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 R. Calloway, Quadrature

package cmd

import (
	"encoding/binary"
	"fmt"
	"os"
	"time"

	"github.com/quadrature/xbeemon/pkg/xbee"
	"github.com/spf13/cobra"
)

var discoverTimeout int

var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Discover modules on the network",
	Long: `Send a node discovery (ND) command and list the modules that answer.

Every module on the network responds with its addresses and node identifier,
spread over a random backoff. Responses are collected until the listen window
expires; the window should be at least the network's NT setting (default 6s on
most firmwares).

Exit codes:
  0 - At least one module found
  1 - No modules answered
  2 - Connection error`,
	RunE: runDiscover,
}

func init() {
	rootCmd.AddCommand(discoverCmd)
	discoverCmd.Flags().IntVar(&discoverTimeout, "timeout", 8, "Listen window in seconds")
}

// nodeRecord is the payload of one ND response: network address,
// 64-bit address, then the null-terminated node identifier string.
type nodeRecord struct {
	addr16 xbee.Address16
	addr64 xbee.Address64
	ident  string
}

func parseNodeRecord(value []byte) (*nodeRecord, error) {
	if len(value) < 11 {
		return nil, fmt.Errorf("node record too short: %d bytes", len(value))
	}
	rec := &nodeRecord{
		addr16: xbee.NewAddress16(binary.BigEndian.Uint16(value[0:2])),
		addr64: xbee.NewAddress64(binary.BigEndian.Uint64(value[2:10])),
	}
	ident := value[10:]
	for i, b := range ident {
		if b == 0 {
			ident = ident[:i]
			break
		}
	}
	rec.ident = string(ident)
	return rec, nil
}

func runDiscover(cmd *cobra.Command, args []string) error {
	d, connInfo, err := OpenDevice()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Connection error: %v\n", err)
		os.Exit(2)
	}
	defer d.Close()

	fmt.Printf("Xbeemon - Node Discovery\n")
	fmt.Printf("Connection: %s\n", connInfo)
	fmt.Printf("Listen window: %d seconds\n\n", discoverTimeout)

	id := d.NextFrameID()
	found := make(chan *nodeRecord, 16)
	d.OnFrame(func(f xbee.Frame) {
		at, ok := f.(*xbee.ATCommandResponse)
		if !ok || at.ID != id || at.Command != "ND" || !at.OK() {
			return
		}
		// A value-less OK response is the end-of-discovery marker on
		// some firmwares; nothing to record.
		if len(at.Value) == 0 {
			return
		}
		rec, err := parseNodeRecord(at.Value)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Bad node record: %v\n", err)
			return
		}
		// Non-blocking: a burst of late responses after the listen
		// window expires must not wedge the reader goroutine (Close
		// waits for it).
		select {
		case found <- rec:
		default:
		}
	})

	req, _ := xbee.NewATCommand(id, "ND", nil)
	if err := d.Send(req); err != nil {
		return err
	}

	deadline := time.NewTimer(time.Duration(discoverTimeout) * time.Second)
	defer deadline.Stop()

	count := 0
	for {
		select {
		case rec := <-found:
			count++
			name := rec.ident
			if name == "" {
				name = "(unnamed)"
			}
			fmt.Printf("  %s / %s  %s\n", rec.addr64, rec.addr16, name)
		case <-deadline.C:
			fmt.Printf("\n%d module(s) found\n", count)
			if count == 0 {
				os.Exit(1)
			}
			return nil
		}
	}
}
