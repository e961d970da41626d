// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 R. Calloway, Quadrature

package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/quadrature/xbeemon/pkg/xbee"
	"github.com/spf13/cobra"
)

var monitorShowAll bool

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Full-screen live monitor",
	Long: `Interactive monitor with link statistics and a scrolling frame log.

Shows per-type frame activity, checksum/framing fault counters, delivery
failures, and the most recent frames. By default only faults and delivery
failures are logged; use --show-all to log every frame.

Keys: q to quit, up/down or pgup/pgdn to scroll the log.`,
	RunE: runMonitor,
}

func init() {
	rootCmd.AddCommand(monitorCmd)
	monitorCmd.Flags().BoolVar(&monitorShowAll, "show-all", false, "Log every frame, not just faults")
}

// Log entry shown in the scrolling pane
type monitorLogEntry struct {
	timestamp time.Time
	message   string
	isError   bool
}

// Messages
type monitorTickMsg time.Time
type monitorFrameMsg struct{ frame xbee.Frame }
type monitorErrMsg struct{ err error }

// monitorModel is the Bubble Tea model for the monitor TUI
type monitorModel struct {
	connInfo string
	mode     xbee.OperatingMode
	showAll  bool

	stats     *xbee.Statistics
	typeCount map[xbee.FrameType]uint64

	log           []monitorLogEntry
	maxLogEntries int
	logView       viewport.Model
	follow        bool

	width    int
	height   int
	quitting bool
}

func initialMonitorModel(connInfo string, mode xbee.OperatingMode, showAll bool) monitorModel {
	return monitorModel{
		connInfo:      connInfo,
		mode:          mode,
		showAll:       showAll,
		stats:         xbee.NewStatistics(),
		typeCount:     make(map[xbee.FrameType]uint64),
		maxLogEntries: 200,
		logView:       viewport.New(80, 10),
		follow:        true,
		width:         80,
		height:        24,
	}
}

func (m monitorModel) Init() tea.Cmd {
	return tea.Batch(
		monitorTickCmd(),
		tea.EnterAltScreen,
	)
}

func monitorTickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return monitorTickMsg(t)
	})
}

func (m monitorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		case "up", "down", "pgup", "pgdown":
			// Manual scrolling pauses follow mode until we reach the
			// bottom again.
			var cmd tea.Cmd
			m.logView, cmd = m.logView.Update(msg)
			m.follow = m.logView.AtBottom()
			return m, cmd
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.logView.Width = msg.Width - 4
		logHeight := msg.Height - 12
		if logHeight < 5 {
			logHeight = 5
		}
		m.logView.Height = logHeight

	case monitorTickMsg:
		return m, monitorTickCmd()

	case monitorFrameMsg:
		m.stats.Update(msg.frame, nil)
		m.typeCount[msg.frame.Type()]++

		logIt := m.showAll
		message := fmt.Sprintf("%s len=%d", xbee.FormatFrameType(msg.frame.Type()), xbee.FrameLength(msg.frame))
		isError := false
		if ts, ok := msg.frame.(*xbee.TransmitStatus); ok && !ts.Delivered() {
			message = fmt.Sprintf("DELIVERY FAILED: %s", xbee.FormatDeliveryStatus(ts.DeliveryStatus))
			logIt = true
			isError = true
		}
		if logIt {
			m.addLogEntry(message, isError)
		}

	case monitorErrMsg:
		m.stats.Update(nil, msg.err)
		m.addLogEntry(fmt.Sprintf("PARSE ERROR: %v", msg.err), true)
	}

	return m, nil
}

func (m *monitorModel) addLogEntry(message string, isError bool) {
	m.log = append(m.log, monitorLogEntry{
		timestamp: time.Now(),
		message:   message,
		isError:   isError,
	})

	// Keep only last N entries
	if len(m.log) > m.maxLogEntries {
		m.log = m.log[len(m.log)-m.maxLogEntries:]
	}
}

func (m monitorModel) View() string {
	if m.quitting {
		return "Shutting down...\n"
	}

	// Styles
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("12")).
		Background(lipgloss.Color("235")).
		Padding(0, 1)

	headerStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))

	labelStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("12")).
		Bold(true)

	valueStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("10"))

	errorStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("9")).
		Bold(true)

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	// Header
	var s strings.Builder
	s.WriteString(titleStyle.Render("XBEEMON - LIVE MONITOR"))
	s.WriteString("\n")
	s.WriteString(headerStyle.Render(fmt.Sprintf("%s | Mode: %s | Press 'q' to quit", m.connInfo, m.mode)))
	s.WriteString("\n\n")

	// Statistics
	snap := m.stats.Snapshot()
	var validPercent float64
	if snap.TotalFrames > 0 {
		validPercent = float64(snap.ValidFrames) * 100.0 / float64(snap.TotalFrames)
	}
	totalErrors := snap.ChecksumErrors + snap.FramingErrors + snap.LengthErrors

	statsContent := strings.Builder{}
	statsContent.WriteString(fmt.Sprintf("%s %s   %s %s   %s %s\n",
		labelStyle.Render("Total:"), valueStyle.Render(fmt.Sprintf("%d", snap.TotalFrames)),
		labelStyle.Render("Valid:"), valueStyle.Render(fmt.Sprintf("%d (%.1f%%)", snap.ValidFrames, validPercent)),
		labelStyle.Render("Errors:"), errorStyle.Render(fmt.Sprintf("%d", totalErrors)),
	))

	if totalErrors > 0 {
		statsContent.WriteString(fmt.Sprintf("%s %s   %s %s   %s %s\n",
			labelStyle.Render("Checksum:"), errorStyle.Render(fmt.Sprintf("%d", snap.ChecksumErrors)),
			labelStyle.Render("Framing:"), errorStyle.Render(fmt.Sprintf("%d", snap.FramingErrors)),
			labelStyle.Render("Length:"), errorStyle.Render(fmt.Sprintf("%d", snap.LengthErrors)),
		))
	}
	if snap.DeliveryFailures > 0 {
		statsContent.WriteString(fmt.Sprintf("%s %s\n",
			labelStyle.Render("Delivery Fails:"), errorStyle.Render(fmt.Sprintf("%d", snap.DeliveryFailures)),
		))
	}

	statsContent.WriteString(fmt.Sprintf("%s %s   %s %s",
		labelStyle.Render("Frame Rate:"), valueStyle.Render(fmt.Sprintf("%.1f frames/s", snap.FrameRate)),
		labelStyle.Render("Error Rate:"), func() string {
			if snap.ErrorRate > 0 {
				return errorStyle.Render(fmt.Sprintf("%.1f err/s", snap.ErrorRate))
			}
			return valueStyle.Render(fmt.Sprintf("%.1f err/s", snap.ErrorRate))
		}(),
	))

	// Per-type counters, densest first
	if len(m.typeCount) > 0 {
		statsContent.WriteString("\n")
		for t := xbee.FrameType(0); t < 0xFF; t++ {
			if n, ok := m.typeCount[t]; ok {
				statsContent.WriteString(fmt.Sprintf("%s %s  ",
					headerStyle.Render(xbee.FormatFrameType(t)+":"), valueStyle.Render(fmt.Sprintf("%d", n))))
			}
		}
	}

	s.WriteString(boxStyle.Render(statsContent.String()))
	s.WriteString("\n\n")

	// Frame log
	s.WriteString(labelStyle.Render("Recent Frames:"))
	s.WriteString("\n")

	logContent := strings.Builder{}
	if len(m.log) == 0 {
		logContent.WriteString(headerStyle.Render("  (no frames yet)"))
	} else {
		for _, entry := range m.log {
			timestamp := entry.timestamp.Format("15:04:05.000")
			if entry.isError {
				logContent.WriteString(fmt.Sprintf("%s %s\n",
					headerStyle.Render(timestamp),
					errorStyle.Render("✗ "+entry.message),
				))
			} else {
				logContent.WriteString(fmt.Sprintf("%s %s\n",
					headerStyle.Render(timestamp),
					valueStyle.Render("• "+entry.message),
				))
			}
		}
	}

	view := m.logView
	view.SetContent(logContent.String())
	if m.follow {
		view.GotoBottom()
	}
	s.WriteString(boxStyle.Width(m.width - 4).Render(view.View()))

	return s.String()
}

func runMonitor(cmd *cobra.Command, args []string) error {
	d, connInfo, err := OpenDevice()
	if err != nil {
		return err
	}
	defer d.Close()

	p := tea.NewProgram(initialMonitorModel(connInfo, d.Mode(), monitorShowAll))

	d.OnFrame(func(f xbee.Frame) { p.Send(monitorFrameMsg{frame: f}) })
	d.OnError(func(err error) { p.Send(monitorErrMsg{err: err}) })

	_, err = p.Run()
	return err
}
