// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 R. Calloway, Quadrature

package xbee

import (
	"errors"
	"fmt"
)

var (
	// ErrIncompleteFrame is returned when the byte source runs out
	// (timeout or EOF) before a complete frame has been read.
	ErrIncompleteFrame = errors.New("incomplete frame")

	// ErrUnescapedByte is returned when a reserved byte appears
	// unescaped inside a frame in escaped mode.
	ErrUnescapedByte = errors.New("special byte not escaped")

	// ErrInvalidMode is returned when a parser is constructed for an
	// operating mode that carries no API framing.
	ErrInvalidMode = errors.New("unsupported operating mode")

	// ErrResponseTimeout is returned by SendSync when no matching
	// response arrives within the deadline.
	ErrResponseTimeout = errors.New("response timeout")

	// ErrNotOpen is returned when an operation requires a running
	// device whose transport is open.
	ErrNotOpen = errors.New("device not open")

	// ErrAlreadyStarted is returned by Start when the reader loop is
	// already running or has been stopped.
	ErrAlreadyStarted = errors.New("reader loop already started")
)

// ChecksumError is returned when a fully read frame fails the
// integrity check.
type ChecksumError struct {
	Expected byte
	Got      byte
}

func (e *ChecksumError) Error() string {
	return fmt.Sprintf("invalid checksum, expected 0x%02X (got 0x%02X)", e.Expected, e.Got)
}

// LengthError is returned when a known frame type's payload is shorter
// than its minimum length.
type LengthError struct {
	Type FrameType
	Min  int
	Got  int
}

func (e *LengthError) Error() string {
	return fmt.Sprintf("%s (0x%02X): payload too short: got %d bytes, minimum %d",
		FormatFrameType(e.Type), byte(e.Type), e.Got, e.Min)
}
