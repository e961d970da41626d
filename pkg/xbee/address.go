// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 R. Calloway, Quadrature

package xbee

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"strings"
)

// Address16 is a 16-bit network address. Equality is byte-wise.
type Address16 [2]byte

// Named 16-bit address sentinels.
var (
	Addr16Unknown     = Address16{0xFF, 0xFE}
	Addr16Broadcast   = Address16{0xFF, 0xFF}
	Addr16Coordinator = Address16{0x00, 0x00}
)

// NewAddress16 builds an address from its numeric value, big-endian.
func NewAddress16(v uint16) Address16 {
	var a Address16
	binary.BigEndian.PutUint16(a[:], v)
	return a
}

// Uint16 returns the numeric value of the address.
func (a Address16) Uint16() uint16 {
	return binary.BigEndian.Uint16(a[:])
}

func (a Address16) String() string {
	return fmt.Sprintf("%02X%02X", a[0], a[1])
}

// Address64 is a 64-bit extended (IEEE) address. Equality is byte-wise.
type Address64 [8]byte

// Named 64-bit address sentinels.
var (
	Addr64Unknown     = Address64{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}
	Addr64Broadcast   = Address64{0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0xFF, 0xFF}
	Addr64Coordinator = Address64{}
)

// NewAddress64 builds an address from its numeric value, big-endian.
func NewAddress64(v uint64) Address64 {
	var a Address64
	binary.BigEndian.PutUint64(a[:], v)
	return a
}

// ParseAddress64 parses a 16-hex-digit extended address, with or
// without an "0x" prefix.
func ParseAddress64(s string) (Address64, error) {
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	if len(s) != 16 {
		return Address64{}, fmt.Errorf("invalid 64-bit address %q: want 16 hex digits", s)
	}
	raw, err := hex.DecodeString(s)
	if err != nil {
		return Address64{}, fmt.Errorf("invalid 64-bit address %q: %v", s, err)
	}
	var a Address64
	copy(a[:], raw)
	return a, nil
}

// Uint64 returns the numeric value of the address.
func (a Address64) Uint64() uint64 {
	return binary.BigEndian.Uint64(a[:])
}

func (a Address64) String() string {
	return strings.ToUpper(hex.EncodeToString(a[:]))
}
