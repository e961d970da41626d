// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 R. Calloway, Quadrature
//
// xbeemon - XBee API Frame Monitor
//
// A CLI tool for driving and monitoring Digi XBee RF modules in API
// operating mode over a serial port or a WebSocket serial bridge.

package main

import (
	"os"

	"github.com/quadrature/xbeemon/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
