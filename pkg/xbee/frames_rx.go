// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 R. Calloway, Quadrature

package xbee

import "encoding/binary"

// ReceivePacket is a Receive Packet frame (0x90): RF data received from
// a remote module. Carries no frame ID.
type ReceivePacket struct {
	Src64   Address64
	Src16   Address16
	Options byte // RxOpt* bits
	RFData  []byte
}

func (f *ReceivePacket) Type() FrameType    { return FrameTypeReceivePacket }
func (f *ReceivePacket) FrameID() byte      { return NoFrameID }
func (f *ReceivePacket) NeedsFrameID() bool { return false }

func (f *ReceivePacket) IsBroadcast() bool {
	return f.Options&RxOptBroadcast != 0
}

func (f *ReceivePacket) Data() []byte {
	out := make([]byte, 0, 12+len(f.RFData))
	out = append(out, byte(FrameTypeReceivePacket))
	out = append(out, f.Src64[:]...)
	out = append(out, f.Src16[:]...)
	out = append(out, f.Options)
	out = append(out, f.RFData...)
	return out
}

func parseReceivePacket(payload []byte) (*ReceivePacket, error) {
	if len(payload) < minLenReceivePacket {
		return nil, &LengthError{Type: FrameTypeReceivePacket, Min: minLenReceivePacket, Got: len(payload)}
	}
	f := &ReceivePacket{Options: payload[11]}
	copy(f.Src64[:], payload[1:9])
	copy(f.Src16[:], payload[9:11])
	if len(payload) > 12 {
		f.RFData = append([]byte(nil), payload[12:]...)
	}
	return f, nil
}

// IODataSampleRx is an IO Data Sample RX Indicator frame (0x92): a
// digital/analog IO sample pushed by a remote module. The sample bytes
// are retained raw and parsed lazily via Sample.
type IODataSampleRx struct {
	Src64      Address64
	Src16      Address16
	Options    byte
	SampleData []byte

	sample    *IOSample
	sampleErr error
	parsed    bool
}

func (f *IODataSampleRx) Type() FrameType    { return FrameTypeIODataSampleRx }
func (f *IODataSampleRx) FrameID() byte      { return NoFrameID }
func (f *IODataSampleRx) NeedsFrameID() bool { return false }

func (f *IODataSampleRx) IsBroadcast() bool {
	return f.Options&RxOptBroadcast != 0
}

// Sample decodes the IO sample payload. The decode result is cached.
func (f *IODataSampleRx) Sample() (*IOSample, error) {
	if !f.parsed {
		f.parsed = true
		f.sample, f.sampleErr = ParseIOSample(f.SampleData)
	}
	return f.sample, f.sampleErr
}

func (f *IODataSampleRx) Data() []byte {
	out := make([]byte, 0, 12+len(f.SampleData))
	out = append(out, byte(FrameTypeIODataSampleRx))
	out = append(out, f.Src64[:]...)
	out = append(out, f.Src16[:]...)
	out = append(out, f.Options)
	out = append(out, f.SampleData...)
	return out
}

func parseIODataSampleRx(payload []byte) (*IODataSampleRx, error) {
	if len(payload) < minLenIODataSampleRx {
		return nil, &LengthError{Type: FrameTypeIODataSampleRx, Min: minLenIODataSampleRx, Got: len(payload)}
	}
	f := &IODataSampleRx{Options: payload[11]}
	copy(f.Src64[:], payload[1:9])
	copy(f.Src16[:], payload[9:11])
	f.SampleData = append([]byte(nil), payload[12:]...)
	return f, nil
}

// RxIPv4 is an RX IPv4 frame (0xB0): network data received by a
// cellular or Wi-Fi module. Carries no frame ID.
type RxIPv4 struct {
	SrcIP      [4]byte
	DestPort   uint16
	SourcePort uint16
	Protocol   byte
	Status     byte // reserved
	Payload    []byte
}

func (f *RxIPv4) Type() FrameType    { return FrameTypeRxIPv4 }
func (f *RxIPv4) FrameID() byte      { return NoFrameID }
func (f *RxIPv4) NeedsFrameID() bool { return false }
func (f *RxIPv4) IsBroadcast() bool  { return false }

func (f *RxIPv4) Data() []byte {
	out := make([]byte, 0, 11+len(f.Payload))
	out = append(out, byte(FrameTypeRxIPv4))
	out = append(out, f.SrcIP[:]...)
	out = binary.BigEndian.AppendUint16(out, f.DestPort)
	out = binary.BigEndian.AppendUint16(out, f.SourcePort)
	out = append(out, f.Protocol, f.Status)
	out = append(out, f.Payload...)
	return out
}

func parseRxIPv4(payload []byte) (*RxIPv4, error) {
	if len(payload) < minLenRxIPv4 {
		return nil, &LengthError{Type: FrameTypeRxIPv4, Min: minLenRxIPv4, Got: len(payload)}
	}
	f := &RxIPv4{
		DestPort:   binary.BigEndian.Uint16(payload[5:7]),
		SourcePort: binary.BigEndian.Uint16(payload[7:9]),
		Protocol:   payload[9],
		Status:     payload[10],
	}
	copy(f.SrcIP[:], payload[1:5])
	if len(payload) > 11 {
		f.Payload = append([]byte(nil), payload[11:]...)
	}
	return f, nil
}
