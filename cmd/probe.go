// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 R. Calloway, Quadrature

package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/quadrature/xbeemon/pkg/xbee"
	"github.com/spf13/cobra"
)

var probeTimeout int

var probeCmd = &cobra.Command{
	Use:   "probe",
	Short: "Verify the module answers in API mode",
	Long: `Send an AT command (VR, firmware version) and wait for the response.

Confirms the port, baud rate and API mode flags actually match the attached
module before running longer sessions.

Exit codes:
  0 - Module responded
  1 - No response within the timeout
  2 - Connection error`,
	RunE: runProbe,
}

func init() {
	rootCmd.AddCommand(probeCmd)
	probeCmd.Flags().IntVar(&probeTimeout, "timeout", 3, "Timeout in seconds")
}

func runProbe(cmd *cobra.Command, args []string) error {
	d, connInfo, err := OpenDevice()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Connection error: %v\n", err)
		os.Exit(2)
	}
	defer d.Close()

	fmt.Printf("Xbeemon - Module Probe\n")
	fmt.Printf("Connection: %s\n", connInfo)
	fmt.Printf("Mode: %s\n\n", d.Mode())

	req, _ := xbee.NewATCommand(xbee.NoFrameID, "VR", nil)
	start := time.Now()
	resp, err := d.SendSync(req, time.Duration(probeTimeout)*time.Second)
	if err != nil {
		fmt.Fprintf(os.Stderr, "No response: %v\n", err)
		os.Exit(1)
	}

	at, ok := resp.(*xbee.ATCommandResponse)
	if !ok || !at.OK() {
		fmt.Fprintf(os.Stderr, "Unexpected response:\n%s", xbee.FormatFrame(resp))
		os.Exit(1)
	}

	fmt.Printf("Module responded in %s\n", time.Since(start).Round(time.Millisecond))
	fmt.Printf("Firmware version: % X\n", at.Value)
	return nil
}
