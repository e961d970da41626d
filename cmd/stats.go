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

var statsInterval int

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Track frame and error statistics",
	Long: `Count frames, checksum faults, framing faults and delivery failures.

A summary is printed at each interval and once more on exit. Useful for
soak-testing a link: run it for an hour and look at the error rate.`,
	RunE: runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
	statsCmd.Flags().IntVar(&statsInterval, "interval", 10, "Summary interval in seconds")
}

func runStats(cmd *cobra.Command, args []string) error {
	d, connInfo, err := OpenDevice()
	if err != nil {
		return err
	}
	defer d.Close()

	fmt.Printf("Xbeemon - Link Statistics\n")
	fmt.Printf("Connection: %s\n", connInfo)
	fmt.Printf("Interval: %d seconds, press Ctrl+C to exit\n\n", statsInterval)

	stats := xbee.NewStatistics()
	d.OnFrame(func(f xbee.Frame) { stats.Update(f, nil) })
	d.OnError(func(err error) { stats.Update(nil, err) })

	ticker := time.NewTicker(time.Duration(statsInterval) * time.Second)
	defer ticker.Stop()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

	for {
		select {
		case <-ticker.C:
			fmt.Print(stats.String())
		case <-sig:
			fmt.Println()
			fmt.Print(stats.String())
			return nil
		}
	}
}
