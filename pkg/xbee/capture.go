// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 R. Calloway, Quadrature

package xbee

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/fxamacker/cbor/v2"
)

// Direction of a captured frame relative to the host.
type Direction uint8

const (
	DirIn  Direction = 0
	DirOut Direction = 1
)

func (d Direction) String() string {
	if d == DirOut {
		return "out"
	}
	return "in"
}

// Record is one captured frame: a timestamp, a direction, and the
// unescaped wire bytes including the start delimiter. Records are CBOR
// maps with integer keys, so capture files stay compact and new fields
// can be added without breaking old readers.
type Record struct {
	Time time.Time `cbor:"1,keyasint"`
	Dir  Direction `cbor:"2,keyasint"`
	Raw  []byte    `cbor:"3,keyasint"`
}

// Frame decodes the captured wire bytes into a typed frame.
func (r *Record) Frame() (Frame, error) {
	return ParseFrame(r.Raw, ModeAPI)
}

// CaptureWriter streams capture records to a writer as a CBOR
// sequence. Safe for concurrent use.
type CaptureWriter struct {
	mu  sync.Mutex
	enc *cbor.Encoder
}

// NewCaptureWriter wraps w for capture output.
func NewCaptureWriter(w io.Writer) *CaptureWriter {
	return &CaptureWriter{enc: cbor.NewEncoder(w)}
}

// WriteFrame appends a record for raw wire bytes, stamped now.
func (cw *CaptureWriter) WriteFrame(dir Direction, raw []byte) error {
	return cw.Write(Record{Time: time.Now(), Dir: dir, Raw: raw})
}

// Write appends one record.
func (cw *CaptureWriter) Write(rec Record) error {
	cw.mu.Lock()
	defer cw.mu.Unlock()
	if err := cw.enc.Encode(rec); err != nil {
		return fmt.Errorf("encode capture record: %w", err)
	}
	return nil
}

// CaptureReader streams capture records back out of a capture file.
type CaptureReader struct {
	dec *cbor.Decoder
}

// NewCaptureReader wraps r for capture input.
func NewCaptureReader(r io.Reader) *CaptureReader {
	return &CaptureReader{dec: cbor.NewDecoder(r)}
}

// Next returns the next record, or io.EOF at end of input.
func (cr *CaptureReader) Next() (Record, error) {
	var rec Record
	if err := cr.dec.Decode(&rec); err != nil {
		if err == io.EOF {
			return Record{}, io.EOF
		}
		return Record{}, fmt.Errorf("decode capture record: %w", err)
	}
	return rec, nil
}
