// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 R. Calloway, Quadrature

package cmd

import (
	"encoding/hex"
	"fmt"
	"os"
	"time"

	"github.com/quadrature/xbeemon/pkg/xbee"
	"github.com/spf13/cobra"
)

var (
	txTimeout int
	txHex     bool
	txNoAck   bool
)

var txCmd = &cobra.Command{
	Use:   "tx <dest64> <data>",
	Short: "Transmit RF data to a remote module",
	Long: `Send a transmit request and wait for the delivery report.

The destination is a 64-bit address (use 000000000000FFFF to broadcast). Data
is sent as the literal argument bytes, or hex decoded with --hex. The exit code
reflects the delivery status reported by the local module.

Examples:
  # Send a text payload
  xbeemon tx 0013A20012345678 "hello" --port /dev/ttyUSB0

  # Broadcast raw bytes, don't wait for acknowledgements
  xbeemon tx 000000000000FFFF DEADBEEF --hex --no-ack --port /dev/ttyUSB0

Exit codes:
  0 - Delivered
  1 - Delivery failed or no status within the timeout
  2 - Connection error`,
	Args: cobra.ExactArgs(2),
	RunE: runTx,
}

func init() {
	rootCmd.AddCommand(txCmd)
	txCmd.Flags().IntVar(&txTimeout, "timeout", 5, "Timeout in seconds for the delivery report")
	txCmd.Flags().BoolVar(&txHex, "hex", false, "Decode <data> as hex")
	txCmd.Flags().BoolVar(&txNoAck, "no-ack", false, "Suppress the delivery report (fire and forget)")
}

func runTx(cmd *cobra.Command, args []string) error {
	dest64, err := xbee.ParseAddress64(args[0])
	if err != nil {
		return err
	}

	data := []byte(args[1])
	if txHex {
		data, err = hex.DecodeString(args[1])
		if err != nil {
			return fmt.Errorf("invalid data hex %q: %v", args[1], err)
		}
	}

	d, connInfo, err := OpenDevice()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Connection error: %v\n", err)
		os.Exit(2)
	}
	defer d.Close()

	fmt.Printf("Xbeemon - Transmit\n")
	fmt.Printf("Connection: %s\n", connInfo)
	fmt.Printf("Destination: %s (%d bytes)\n\n", dest64, len(data))

	req := xbee.NewTransmitRequest(xbee.NoFrameID, dest64, xbee.Addr16Unknown, data)

	if txNoAck {
		// Frame ID 0 asks the module not to report delivery.
		if err := d.Send(req); err != nil {
			return err
		}
		fmt.Println("Sent (no delivery report requested)")
		return nil
	}

	resp, err := d.SendSync(req, time.Duration(txTimeout)*time.Second)
	if err != nil {
		fmt.Fprintf(os.Stderr, "No delivery report: %v\n", err)
		os.Exit(1)
	}

	status, ok := resp.(*xbee.TransmitStatus)
	if !ok {
		fmt.Fprintf(os.Stderr, "Unexpected response:\n%s", xbee.FormatFrame(resp))
		os.Exit(1)
	}

	fmt.Printf("Delivery: %s (0x%02X), retries: %d\n",
		xbee.FormatDeliveryStatus(status.DeliveryStatus), status.DeliveryStatus, status.RetryCount)
	if !status.Delivered() {
		os.Exit(1)
	}
	return nil
}
