// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 R. Calloway, Quadrature

package xbee

import (
	"fmt"
	"strings"
)

// Frame is implemented by every concrete API frame type.
//
// Data returns the type-specific API payload including the leading
// frame type code (and the frame ID byte for types that carry one).
// Length and checksum are derived from Data on every call to Marshal;
// they are never cached across payload mutation.
type Frame interface {
	// Type returns the frame type code (payload byte 0).
	Type() FrameType
	// FrameID returns the correlation ID, or NoFrameID for frame
	// types that do not carry one.
	FrameID() byte
	// NeedsFrameID reports whether the frame type carries a frame ID
	// byte after the type code.
	NeedsFrameID() bool
	// IsBroadcast reports whether the frame represents a broadcast
	// transmission or reception.
	IsBroadcast() bool
	// Data returns the API payload bytes, type code first.
	Data() []byte
}

// frameIDSetter is implemented by outbound frame types whose frame ID
// may be assigned by the device just before a synchronous send.
type frameIDSetter interface {
	SetFrameID(id byte)
}

// Marshal serializes f into wire format:
//
//	[0x7E][LEN_MSB][LEN_LSB][payload][checksum]
//
// When escaped is true the bytes from the length field through the
// checksum are run through the API2 escape codec; the start delimiter
// is never escaped. The checksum is always computed over the unescaped
// payload.
func Marshal(f Frame, escaped bool) []byte {
	payload := f.Data()

	body := make([]byte, 0, len(payload)+3)
	body = append(body, byte(len(payload)>>8), byte(len(payload)))
	body = append(body, payload...)
	body = append(body, ChecksumOf(payload))

	if escaped {
		body = escapeAll(body)
	}

	out := make([]byte, 0, len(body)+1)
	out = append(out, StartByte)
	out = append(out, body...)
	return out
}

// escapeAll escapes every reserved byte in data, with no exemption for
// a leading start delimiter. Used on frame bodies, which never begin
// with the delimiter.
func escapeAll(data []byte) []byte {
	result := make([]byte, 0, len(data)*2)
	for _, b := range data {
		if isSpecialByte(b) {
			result = append(result, EscByte, b^EscXor)
		} else {
			result = append(result, b)
		}
	}
	return result
}

// FrameLength returns the value of the frame's two-byte length field,
// i.e. the API payload length.
func FrameLength(f Frame) int {
	return len(f.Data())
}

// FrameChecksum returns the checksum byte for the frame's current
// payload.
func FrameChecksum(f Frame) byte {
	return ChecksumOf(f.Data())
}

// HexString returns the unescaped wire bytes of f as space-separated
// hex, for diagnostics.
func HexString(f Frame) string {
	raw := Marshal(f, false)
	var sb strings.Builder
	for i, b := range raw {
		if i > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "%02X", b)
	}
	return sb.String()
}
