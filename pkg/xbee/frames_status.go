// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 R. Calloway, Quadrature

package xbee

// ModemStatus is a Modem Status frame (0x8A): an unsolicited status
// report from the local module. Carries no frame ID.
type ModemStatus struct {
	Status byte // ModemStatus* codes
}

func (f *ModemStatus) Type() FrameType    { return FrameTypeModemStatus }
func (f *ModemStatus) FrameID() byte      { return NoFrameID }
func (f *ModemStatus) NeedsFrameID() bool { return false }
func (f *ModemStatus) IsBroadcast() bool  { return false }

func (f *ModemStatus) Data() []byte {
	return []byte{byte(FrameTypeModemStatus), f.Status}
}

func parseModemStatus(payload []byte) (*ModemStatus, error) {
	if len(payload) < minLenModemStatus {
		return nil, &LengthError{Type: FrameTypeModemStatus, Min: minLenModemStatus, Got: len(payload)}
	}
	return &ModemStatus{Status: payload[1]}, nil
}

// GenericFrame is the fallback for frame type codes the registry does
// not recognize. It preserves the raw type code and payload so unknown
// frame types survive a decode/re-encode round trip, keeping the
// parser forward-compatible.
type GenericFrame struct {
	Code    byte
	Payload []byte
}

func (f *GenericFrame) Type() FrameType    { return FrameType(f.Code) }
func (f *GenericFrame) FrameID() byte      { return NoFrameID }
func (f *GenericFrame) NeedsFrameID() bool { return false }
func (f *GenericFrame) IsBroadcast() bool  { return false }

func (f *GenericFrame) Data() []byte {
	out := make([]byte, 0, 1+len(f.Payload))
	out = append(out, f.Code)
	out = append(out, f.Payload...)
	return out
}

func parseGeneric(payload []byte) *GenericFrame {
	f := &GenericFrame{Code: payload[0]}
	if len(payload) > 1 {
		f.Payload = append([]byte(nil), payload[1:]...)
	}
	return f
}
