// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 R. Calloway, Quadrature

package xbee

import "fmt"

// ByteSource supplies raw wire bytes to the parser one at a time.
// Implementations decide how long a read may block; a source backed by
// a live transport should bound each read (the Device uses a per-byte
// timeout) so that a silent module surfaces as ErrIncompleteFrame
// rather than a hung parser.
type ByteSource interface {
	ReadByte() (byte, error)
}

// Parser reconstructs typed frames from a byte source. The caller is
// responsible for consuming the start delimiter before ParseOne; the
// parser reads the length field, payload and checksum.
type Parser struct {
	mode OperatingMode
}

// NewParser builds a parser for an API operating mode. ModeAT and
// ModeUnknown carry no API framing and are rejected.
func NewParser(mode OperatingMode) (*Parser, error) {
	switch mode {
	case ModeAPI, ModeAPIEscaped:
		return &Parser{mode: mode}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrInvalidMode, mode)
	}
}

// Mode returns the operating mode the parser was built for.
func (p *Parser) Mode() OperatingMode {
	return p.mode
}

// readByte reads one logical byte, applying escape decoding in escaped
// mode. An unescaped reserved byte inside a frame is a framing fault.
func (p *Parser) readByte(src ByteSource) (byte, error) {
	b, err := src.ReadByte()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrIncompleteFrame, err)
	}

	if p.mode != ModeAPIEscaped {
		return b, nil
	}

	if b == EscByte {
		next, err := src.ReadByte()
		if err != nil {
			return 0, fmt.Errorf("%w: %v", ErrIncompleteFrame, err)
		}
		return next ^ EscXor, nil
	}
	if isSpecialByte(b) {
		return 0, fmt.Errorf("%w: 0x%02X", ErrUnescapedByte, b)
	}
	return b, nil
}

// ParseOne reads one complete frame body from src. The start delimiter
// must already have been consumed by the caller. Any structural
// violation (short read, checksum mismatch, unescaped reserved byte,
// short known-type payload) is a parsing fault, never a nil frame.
func (p *Parser) ParseOne(src ByteSource) (Frame, error) {
	msb, err := p.readByte(src)
	if err != nil {
		return nil, err
	}
	lsb, err := p.readByte(src)
	if err != nil {
		return nil, err
	}
	length := int(msb)<<8 | int(lsb)

	payload := make([]byte, length)
	for i := 0; i < length; i++ {
		payload[i], err = p.readByte(src)
		if err != nil {
			return nil, err
		}
	}

	got, err := p.readByte(src)
	if err != nil {
		return nil, err
	}

	var c Checksum
	c.AddBytes(payload)
	c.Add(got)
	if !c.Validate() {
		return nil, &ChecksumError{Expected: ChecksumOf(payload), Got: got}
	}

	return ParsePayload(payload)
}

// sliceSource feeds a byte slice to the parser.
type sliceSource struct {
	data []byte
	pos  int
}

func (s *sliceSource) ReadByte() (byte, error) {
	if s.pos >= len(s.data) {
		return 0, fmt.Errorf("end of data")
	}
	b := s.data[s.pos]
	s.pos++
	return b, nil
}

// ParseFrame decodes one complete wire frame held in raw, start
// delimiter included. Trailing bytes after the frame are ignored.
func ParseFrame(raw []byte, mode OperatingMode) (Frame, error) {
	p, err := NewParser(mode)
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 || raw[0] != StartByte {
		return nil, fmt.Errorf("%w: missing start delimiter", ErrIncompleteFrame)
	}
	return p.ParseOne(&sliceSource{data: raw[1:]})
}
