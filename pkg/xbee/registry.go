// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 R. Calloway, Quadrature

package xbee

import "fmt"

// ParsePayload decodes a complete, de-escaped API payload (type code
// first, checksum already stripped and verified) into a typed frame.
//
// A payload shorter than the minimum length of its (known) frame type
// is a parsing fault. An unrecognized type code is not: it decodes into
// a GenericFrame so that newer protocol revisions degrade gracefully.
func ParsePayload(payload []byte) (Frame, error) {
	if len(payload) == 0 {
		return nil, fmt.Errorf("%w: empty payload", ErrIncompleteFrame)
	}

	switch FrameType(payload[0]) {
	case FrameTypeATCommand:
		return parseATCommand(payload)
	case FrameTypeATCommandQueue:
		return parseATCommandQueue(payload)
	case FrameTypeATCommandResponse:
		return parseATCommandResponse(payload)
	case FrameTypeRemoteATCommand:
		return parseRemoteATCommand(payload)
	case FrameTypeRemoteATCommandResponse:
		return parseRemoteATCommandResponse(payload)
	case FrameTypeTransmitRequest:
		return parseTransmitRequest(payload)
	case FrameTypeTransmitStatus:
		return parseTransmitStatus(payload)
	case FrameTypeReceivePacket:
		return parseReceivePacket(payload)
	case FrameTypeIODataSampleRx:
		return parseIODataSampleRx(payload)
	case FrameTypeModemStatus:
		return parseModemStatus(payload)
	case FrameTypeRxIPv4:
		return parseRxIPv4(payload)
	default:
		return parseGeneric(payload), nil
	}
}
