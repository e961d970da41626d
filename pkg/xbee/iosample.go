// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 R. Calloway, Quadrature

package xbee

import (
	"encoding/binary"
	"fmt"
	"strings"
)

// IOSample is the structured digital/analog sample payload nested
// inside IO Data Sample RX Indicator frames.
//
// Wire layout: sample count (1), digital channel mask (2, big-endian),
// analog channel mask (1), digital values (2, present only when the
// digital mask is non-zero), then one 2-byte reading per set analog
// mask bit, in ascending bit order.
type IOSample struct {
	SampleCount byte
	DigitalMask uint16
	AnalogMask  byte
	Digital     uint16
	Analog      map[int]uint16
}

// ParseIOSample decodes an IO sample payload.
func ParseIOSample(data []byte) (*IOSample, error) {
	if len(data) < 4 {
		return nil, fmt.Errorf("%w: IO sample header needs 4 bytes, got %d", ErrIncompleteFrame, len(data))
	}

	s := &IOSample{
		SampleCount: data[0],
		DigitalMask: binary.BigEndian.Uint16(data[1:3]),
		AnalogMask:  data[3],
	}
	offset := 4

	if s.DigitalMask != 0 {
		if len(data) < offset+2 {
			return nil, fmt.Errorf("%w: IO sample truncated at digital values", ErrIncompleteFrame)
		}
		s.Digital = binary.BigEndian.Uint16(data[offset : offset+2])
		offset += 2
	}

	for ch := 0; ch < 8; ch++ {
		if s.AnalogMask&(1<<ch) == 0 {
			continue
		}
		if len(data) < offset+2 {
			return nil, fmt.Errorf("%w: IO sample truncated at analog channel %d", ErrIncompleteFrame, ch)
		}
		if s.Analog == nil {
			s.Analog = make(map[int]uint16)
		}
		s.Analog[ch] = binary.BigEndian.Uint16(data[offset : offset+2])
		offset += 2
	}

	return s, nil
}

// Encode serializes the sample back to its wire layout.
func (s *IOSample) Encode() []byte {
	out := make([]byte, 0, 6+2*len(s.Analog))
	out = append(out, s.SampleCount)
	out = binary.BigEndian.AppendUint16(out, s.DigitalMask)
	out = append(out, s.AnalogMask)
	if s.DigitalMask != 0 {
		out = binary.BigEndian.AppendUint16(out, s.Digital)
	}
	for ch := 0; ch < 8; ch++ {
		if s.AnalogMask&(1<<ch) != 0 {
			out = binary.BigEndian.AppendUint16(out, s.Analog[ch])
		}
	}
	return out
}

// HasDigital reports whether any digital channel is sampled.
func (s *IOSample) HasDigital() bool {
	return s.DigitalMask != 0
}

// DigitalValue returns the sampled level of a digital channel. The
// second result is false when the channel is not in the sample.
func (s *IOSample) DigitalValue(pin int) (bool, bool) {
	if pin < 0 || pin > 15 || s.DigitalMask&(1<<pin) == 0 {
		return false, false
	}
	return s.Digital&(1<<pin) != 0, true
}

// AnalogValue returns the ADC reading of an analog channel. The second
// result is false when the channel is not in the sample.
func (s *IOSample) AnalogValue(ch int) (uint16, bool) {
	v, ok := s.Analog[ch]
	return v, ok
}

func (s *IOSample) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "samples=%d digital=0x%04X analog=0x%02X", s.SampleCount, s.DigitalMask, s.AnalogMask)
	if s.HasDigital() {
		fmt.Fprintf(&sb, " levels=0x%04X", s.Digital)
	}
	for ch := 0; ch < 8; ch++ {
		if v, ok := s.Analog[ch]; ok {
			fmt.Fprintf(&sb, " AD%d=%d", ch, v)
		}
	}
	return sb.String()
}
