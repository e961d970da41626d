// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 R. Calloway, Quadrature

package xbee

// Checksum accumulates the 8-bit running-sum checksum used by API
// frames. The sum is kept in a wider integer and truncated to the low
// 8 bits at generate/validate time. Not safe for concurrent use; each
// generate or validate pass uses its own instance or calls Reset first.
type Checksum struct {
	sum uint32
}

// Add accumulates a single byte.
func (c *Checksum) Add(b byte) {
	c.sum += uint32(b)
}

// AddBytes accumulates a byte slice.
func (c *Checksum) AddBytes(data []byte) {
	for _, b := range data {
		c.sum += uint32(b)
	}
}

// Reset clears the accumulator.
func (c *Checksum) Reset() {
	c.sum = 0
}

// Generate returns the checksum byte for the accumulated payload:
// 0xFF minus the low 8 bits of the sum.
func (c *Checksum) Generate() byte {
	return 0xFF - byte(c.sum&0xFF)
}

// Validate reports whether the accumulated payload plus checksum byte
// sums to 0xFF in the low 8 bits.
func (c *Checksum) Validate() bool {
	return byte(c.sum&0xFF) == 0xFF
}

// ChecksumOf returns the checksum byte for payload.
func ChecksumOf(payload []byte) byte {
	var c Checksum
	c.AddBytes(payload)
	return c.Generate()
}
