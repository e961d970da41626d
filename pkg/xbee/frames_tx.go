// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 R. Calloway, Quadrature

package xbee

// TransmitRequest is a Transmit Request frame (0x10): send RF data to a
// remote module.
type TransmitRequest struct {
	ID              byte
	Dest64          Address64
	Dest16          Address16
	BroadcastRadius byte // BroadcastRadiusMax for the default hop limit
	Options         byte // TxOpt* bits
	RFData          []byte
}

// NewTransmitRequest builds a Transmit Request frame with the default
// broadcast radius and no options set.
func NewTransmitRequest(id byte, dest64 Address64, dest16 Address16, rfData []byte) *TransmitRequest {
	return &TransmitRequest{
		ID:              id,
		Dest64:          dest64,
		Dest16:          dest16,
		BroadcastRadius: BroadcastRadiusMax,
		RFData:          rfData,
	}
}

func (f *TransmitRequest) Type() FrameType    { return FrameTypeTransmitRequest }
func (f *TransmitRequest) FrameID() byte      { return f.ID }
func (f *TransmitRequest) NeedsFrameID() bool { return true }
func (f *TransmitRequest) SetFrameID(id byte) { f.ID = id }

func (f *TransmitRequest) IsBroadcast() bool {
	return f.Dest64 == Addr64Broadcast || f.Dest16 == Addr16Broadcast
}

func (f *TransmitRequest) Data() []byte {
	out := make([]byte, 0, 14+len(f.RFData))
	out = append(out, byte(FrameTypeTransmitRequest), f.ID)
	out = append(out, f.Dest64[:]...)
	out = append(out, f.Dest16[:]...)
	out = append(out, f.BroadcastRadius, f.Options)
	out = append(out, f.RFData...)
	return out
}

func parseTransmitRequest(payload []byte) (*TransmitRequest, error) {
	if len(payload) < minLenTransmitRequest {
		return nil, &LengthError{Type: FrameTypeTransmitRequest, Min: minLenTransmitRequest, Got: len(payload)}
	}
	f := &TransmitRequest{ID: payload[1], BroadcastRadius: payload[12], Options: payload[13]}
	copy(f.Dest64[:], payload[2:10])
	copy(f.Dest16[:], payload[10:12])
	if len(payload) > 14 {
		f.RFData = append([]byte(nil), payload[14:]...)
	}
	return f, nil
}

// TransmitStatus is a Transmit Status frame (0x8B): the module's report
// on the outcome of a Transmit Request, correlated by frame ID.
type TransmitStatus struct {
	ID              byte
	Dest16          Address16
	RetryCount      byte
	DeliveryStatus  byte // Delivery* codes
	DiscoveryStatus byte // Discovery* codes
}

func (f *TransmitStatus) Type() FrameType    { return FrameTypeTransmitStatus }
func (f *TransmitStatus) FrameID() byte      { return f.ID }
func (f *TransmitStatus) NeedsFrameID() bool { return true }
func (f *TransmitStatus) IsBroadcast() bool  { return false }

// Delivered reports whether the transmission was delivered.
func (f *TransmitStatus) Delivered() bool { return f.DeliveryStatus == DeliverySuccess }

func (f *TransmitStatus) Data() []byte {
	out := make([]byte, 0, 7)
	out = append(out, byte(FrameTypeTransmitStatus), f.ID)
	out = append(out, f.Dest16[:]...)
	out = append(out, f.RetryCount, f.DeliveryStatus, f.DiscoveryStatus)
	return out
}

func parseTransmitStatus(payload []byte) (*TransmitStatus, error) {
	if len(payload) < minLenTransmitStatus {
		return nil, &LengthError{Type: FrameTypeTransmitStatus, Min: minLenTransmitStatus, Got: len(payload)}
	}
	f := &TransmitStatus{
		ID:              payload[1],
		RetryCount:      payload[4],
		DeliveryStatus:  payload[5],
		DiscoveryStatus: payload[6],
	}
	copy(f.Dest16[:], payload[2:4])
	return f, nil
}
