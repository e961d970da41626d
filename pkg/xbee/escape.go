// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 R. Calloway, Quadrature

package xbee

import "fmt"

// isSpecialByte reports whether b is one of the four reserved byte
// values that must be escaped in API2 mode.
func isSpecialByte(b byte) bool {
	switch b {
	case StartByte, EscByte, XonByte, XoffByte:
		return true
	}
	return false
}

// Escape applies API2 byte stuffing to data. Reserved bytes are
// replaced with EscByte followed by the value XORed with EscXor. A
// leading start delimiter is emitted unchanged; it is the only byte of
// a frame that is never escaped.
func Escape(data []byte) []byte {
	result := make([]byte, 0, len(data)*2)

	for i, b := range data {
		if i == 0 && b == StartByte {
			result = append(result, b)
			continue
		}
		if isSpecialByte(b) {
			result = append(result, EscByte, b^EscXor)
		} else {
			result = append(result, b)
		}
	}

	return result
}

// Unescape removes API2 byte stuffing from data. This is the inverse
// of Escape: a leading start delimiter passes through unchanged, and
// any other unescaped reserved byte is a framing fault.
func Unescape(data []byte) ([]byte, error) {
	result := make([]byte, 0, len(data))
	escapeNext := false

	for i, b := range data {
		switch {
		case escapeNext:
			result = append(result, b^EscXor)
			escapeNext = false
		case b == EscByte:
			escapeNext = true
		case i == 0 && b == StartByte:
			result = append(result, b)
		case isSpecialByte(b):
			return nil, fmt.Errorf("%w: 0x%02X at offset %d", ErrUnescapedByte, b, i)
		default:
			result = append(result, b)
		}
	}

	if escapeNext {
		return nil, fmt.Errorf("%w: incomplete escape sequence at end of data", ErrIncompleteFrame)
	}

	return result, nil
}
