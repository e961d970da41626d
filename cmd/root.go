// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 R. Calloway, Quadrature

package cmd

import (
	"github.com/quadrature/xbeemon/pkg/xbee"
	"github.com/spf13/cobra"
)

var (
	// Serial connection flags
	portName string
	baudRate int
	useAPI2  bool

	// WebSocket connection flags
	wsURL         string
	wsUsername    string
	wsNoSSLVerify bool
)

var rootCmd = &cobra.Command{
	Use:   "xbeemon",
	Short: "XBee API Frame Monitor",
	Long: `Xbeemon - A CLI tool for driving and monitoring XBee modules in API mode.

Provides commands for live frame logging, AT parameter access, RF transmission,
network discovery, and session capture/replay. The local module must already be
in API mode (AP=1) or escaped API mode (AP=2, use --api2).

Connection modes:
  Serial:    --port /dev/ttyUSB0 [--baud 115200]
  WebSocket: --url ws://host/path [--username user]

For WebSocket authentication, the password is read from the XBEE_PASSWORD
environment variable, or prompted interactively if not set. The --password
flag is intentionally not provided to avoid leaking credentials in shell history.`,
	Version: "1.2.0",
}

func init() {
	// Serial connection flags
	rootCmd.PersistentFlags().StringVarP(&portName, "port", "p", "", "Serial port device")
	rootCmd.PersistentFlags().IntVarP(&baudRate, "baud", "b", 115200, "Baud rate (serial only)")
	rootCmd.PersistentFlags().BoolVar(&useAPI2, "api2", false, "Escaped API mode (module AP=2)")

	// WebSocket connection flags
	rootCmd.PersistentFlags().StringVarP(&wsURL, "url", "u", "", "WebSocket URL (ws:// or wss://)")
	rootCmd.PersistentFlags().StringVar(&wsUsername, "username", "", "Username for HTTP Basic auth")
	rootCmd.PersistentFlags().BoolVar(&wsNoSSLVerify, "no-ssl-verify", false, "Skip TLS certificate verification (wss:// only)")
}

// apiMode returns the operating mode selected by flags.
func apiMode() xbee.OperatingMode {
	if useAPI2 {
		return xbee.ModeAPIEscaped
	}
	return xbee.ModeAPI
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}
