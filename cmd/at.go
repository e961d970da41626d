// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 R. Calloway, Quadrature

package cmd

import (
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/quadrature/xbeemon/pkg/xbee"
	"github.com/spf13/cobra"
)

var (
	atTimeout int
	atQueue   bool
	atRemote  string
	atApply   bool
)

var atCmd = &cobra.Command{
	Use:   "at <command> [parameter-hex]",
	Short: "Query or set an AT parameter",
	Long: `Send an AT command to the local module, or to a remote module with --remote.

Without a parameter the command is a query and the current register value is
printed. With a parameter (hex encoded) the value is written. Use --queue to
stage the value without applying it (local only); queued values take effect on
the next AC command or non-queued write.

Examples:
  # Read the node identifier
  xbeemon at NI --port /dev/ttyUSB0

  # Set DIO0 to digital output high on a remote module
  xbeemon at D0 05 --remote 0013A20012345678 --apply --port /dev/ttyUSB0`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runAT,
}

func init() {
	rootCmd.AddCommand(atCmd)
	atCmd.Flags().IntVar(&atTimeout, "timeout", 3, "Timeout in seconds")
	atCmd.Flags().BoolVar(&atQueue, "queue", false, "Queue the value instead of applying it (local only)")
	atCmd.Flags().StringVar(&atRemote, "remote", "", "64-bit address of a remote module")
	atCmd.Flags().BoolVar(&atApply, "apply", false, "Apply changes immediately on the remote module")
}

func runAT(cmd *cobra.Command, args []string) error {
	command := strings.ToUpper(args[0])
	var parameter []byte
	if len(args) == 2 {
		var err error
		parameter, err = hex.DecodeString(args[1])
		if err != nil {
			return fmt.Errorf("invalid parameter hex %q: %v", args[1], err)
		}
	}

	var req xbee.Frame
	switch {
	case atRemote != "":
		if atQueue {
			return fmt.Errorf("--queue is not supported with --remote")
		}
		dest64, err := xbee.ParseAddress64(atRemote)
		if err != nil {
			return err
		}
		var options byte
		if atApply {
			options |= xbee.RemoteATOptApplyChanges
		}
		req, err = xbee.NewRemoteATCommand(xbee.NoFrameID, dest64, xbee.Addr16Unknown, options, command, parameter)
		if err != nil {
			return err
		}
	case atQueue:
		var err error
		req, err = xbee.NewATCommandQueue(xbee.NoFrameID, command, parameter)
		if err != nil {
			return err
		}
	default:
		var err error
		req, err = xbee.NewATCommand(xbee.NoFrameID, command, parameter)
		if err != nil {
			return err
		}
	}

	d, connInfo, err := OpenDevice()
	if err != nil {
		return err
	}
	defer d.Close()

	fmt.Printf("Xbeemon - AT Command\n")
	fmt.Printf("Connection: %s\n\n", connInfo)

	resp, err := d.SendSync(req, time.Duration(atTimeout)*time.Second)
	if err != nil {
		return err
	}

	switch t := resp.(type) {
	case *xbee.ATCommandResponse:
		fmt.Printf("%s: %s\n", t.Command, xbee.FormatATStatus(t.Status))
		if len(t.Value) > 0 {
			printATValue(t.Value)
		}
		if !t.OK() {
			return fmt.Errorf("command failed with status 0x%02X", t.Status)
		}
	case *xbee.RemoteATCommandResponse:
		fmt.Printf("%s @ %s: %s\n", t.Command, t.Src64, xbee.FormatATStatus(t.Status))
		if len(t.Value) > 0 {
			printATValue(t.Value)
		}
		if !t.OK() {
			return fmt.Errorf("command failed with status 0x%02X", t.Status)
		}
	default:
		fmt.Print(xbee.FormatFrame(resp))
	}
	return nil
}

// printATValue shows a register value as hex, plus ASCII when it reads
// as text (NI and similar string registers).
func printATValue(value []byte) {
	fmt.Printf("Value: % X", value)
	ascii := true
	for _, b := range value {
		if b < 0x20 || b > 0x7E {
			ascii = false
			break
		}
	}
	if ascii {
		fmt.Printf(" (%q)", value)
	}
	fmt.Println()
}
