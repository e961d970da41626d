// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 R. Calloway, Quadrature

package xbee

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

// Statistics tracks frame and error counters for a live session. Safe
// for concurrent use: the reader loop updates it while a display
// goroutine renders it.
type Statistics struct {
	mu   sync.Mutex
	snap StatsSnapshot
}

// StatsSnapshot is a point-in-time copy of the counters with rates
// calculated.
type StatsSnapshot struct {
	StartTime      time.Time
	LastUpdateTime time.Time

	// Counters
	TotalFrames      uint64
	ValidFrames      uint64
	ChecksumErrors   uint64
	FramingErrors    uint64
	LengthErrors     uint64
	UnknownTypes     uint64
	DeliveryFailures uint64

	// Rates (calculated)
	FrameRate float64 // frames/sec
	ErrorRate float64 // errors/sec
}

// NewStatistics creates a new statistics tracker.
func NewStatistics() *Statistics {
	now := time.Now()
	return &Statistics{snap: StatsSnapshot{StartTime: now, LastUpdateTime: now}}
}

// Update records one reader-loop outcome: either a parsed frame or a
// per-frame parsing fault.
func (s *Statistics) Update(f Frame, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snap.TotalFrames++
	s.snap.LastUpdateTime = time.Now()

	if err != nil {
		var checksumErr *ChecksumError
		var lengthErr *LengthError
		switch {
		case errors.As(err, &checksumErr):
			s.snap.ChecksumErrors++
		case errors.As(err, &lengthErr):
			s.snap.LengthErrors++
		default:
			s.snap.FramingErrors++
		}
		return
	}

	s.snap.ValidFrames++
	if g, ok := f.(*GenericFrame); ok && FormatFrameType(FrameType(g.Code)) == "UNKNOWN" {
		s.snap.UnknownTypes++
	}
	if ts, ok := f.(*TransmitStatus); ok && !ts.Delivered() {
		s.snap.DeliveryFailures++
	}
}

// Snapshot returns a copy of the counters with rates calculated.
func (s *Statistics) Snapshot() StatsSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := s.snap
	elapsed := time.Since(out.StartTime).Seconds()
	if elapsed > 0 {
		out.FrameRate = float64(out.TotalFrames) / elapsed
		errorCount := out.ChecksumErrors + out.FramingErrors + out.LengthErrors
		out.ErrorRate = float64(errorCount) / elapsed
	}
	return out
}

// Reset resets all statistics counters.
func (s *Statistics) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	s.snap = StatsSnapshot{StartTime: now, LastUpdateTime: now}
}

// String returns a formatted statistics summary.
func (s *Statistics) String() string {
	return s.Snapshot().String()
}

// String returns a formatted statistics summary.
func (snap StatsSnapshot) String() string {
	var validPercent, checksumPercent, framingPercent, lengthPercent float64
	if snap.TotalFrames > 0 {
		validPercent = float64(snap.ValidFrames) * 100.0 / float64(snap.TotalFrames)
		checksumPercent = float64(snap.ChecksumErrors) * 100.0 / float64(snap.TotalFrames)
		framingPercent = float64(snap.FramingErrors) * 100.0 / float64(snap.TotalFrames)
		lengthPercent = float64(snap.LengthErrors) * 100.0 / float64(snap.TotalFrames)
	}

	elapsed := time.Since(snap.StartTime)

	result := fmt.Sprintf("=== Statistics (%.0f seconds) ===\n", elapsed.Seconds())
	result += fmt.Sprintf("Total Frames:    %8d\n", snap.TotalFrames)
	result += fmt.Sprintf("Valid Frames:    %8d (%.1f%%)\n", snap.ValidFrames, validPercent)

	if snap.ChecksumErrors > 0 {
		result += fmt.Sprintf("Checksum Errors: %8d (%.1f%%)\n", snap.ChecksumErrors, checksumPercent)
	}
	if snap.FramingErrors > 0 {
		result += fmt.Sprintf("Framing Errors:  %8d (%.1f%%)\n", snap.FramingErrors, framingPercent)
	}
	if snap.LengthErrors > 0 {
		result += fmt.Sprintf("Length Errors:   %8d (%.1f%%)\n", snap.LengthErrors, lengthPercent)
	}
	if snap.UnknownTypes > 0 {
		result += fmt.Sprintf("Unknown Types:   %8d\n", snap.UnknownTypes)
	}
	if snap.DeliveryFailures > 0 {
		result += fmt.Sprintf("Delivery Fails:  %8d\n", snap.DeliveryFailures)
	}

	result += fmt.Sprintf("Frame Rate:      %8.1f frames/sec\n", snap.FrameRate)
	result += fmt.Sprintf("Error Rate:      %8.1f errors/sec\n", snap.ErrorRate)
	result += "================================\n"

	return result
}
