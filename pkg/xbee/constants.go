// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 R. Calloway, Quadrature

// Package xbee implements the Digi XBee API frame protocol.
//
// The package provides byte-level framing (start delimiter, length,
// escaping, checksum), a streaming frame parser, typed encoders/decoders
// for the supported API frame types, and a Device layer that runs the
// reader/dispatch loop and correlates synchronous requests with their
// responses via frame IDs.
package xbee

// Protocol framing bytes. In escaped mode (API2) every occurrence of
// these values after the start delimiter is transmitted as EscByte
// followed by the value XORed with EscXor.
const (
	StartByte = 0x7E
	EscByte   = 0x7D
	XonByte   = 0x11
	XoffByte  = 0x13
	EscXor    = 0x20
)

// NoFrameID is the sentinel frame ID meaning "no response requested".
// The frame ID allocator never hands it out.
const NoFrameID byte = 0x00

// FrameType identifies an API frame type code (payload byte 0).
type FrameType byte

// Supported API frame type codes.
const (
	FrameTypeATCommand               FrameType = 0x08
	FrameTypeATCommandQueue          FrameType = 0x09
	FrameTypeTransmitRequest         FrameType = 0x10
	FrameTypeRemoteATCommand         FrameType = 0x17
	FrameTypeATCommandResponse       FrameType = 0x88
	FrameTypeModemStatus             FrameType = 0x8A
	FrameTypeTransmitStatus          FrameType = 0x8B
	FrameTypeReceivePacket           FrameType = 0x90
	FrameTypeIODataSampleRx          FrameType = 0x92
	FrameTypeRemoteATCommandResponse FrameType = 0x97
	FrameTypeRxIPv4                  FrameType = 0xB0
)

// Minimum payload lengths per frame type, type code byte included.
const (
	minLenATCommand               = 4
	minLenATCommandQueue          = 4
	minLenATCommandResponse       = 5
	minLenRemoteATCommand         = 15
	minLenRemoteATCommandResponse = 15
	minLenTransmitRequest         = 14
	minLenTransmitStatus          = 7
	minLenReceivePacket           = 12
	minLenIODataSampleRx          = 16
	minLenModemStatus             = 2
	minLenRxIPv4                  = 11
)

// OperatingMode is the serial operating mode of the local module.
type OperatingMode int

// Operating modes. Only ModeAPI and ModeAPIEscaped are usable by the
// frame parser; ModeAT is transparent (command) mode.
const (
	ModeAT OperatingMode = iota
	ModeAPI
	ModeAPIEscaped
	ModeUnknown
)

func (m OperatingMode) String() string {
	switch m {
	case ModeAT:
		return "AT"
	case ModeAPI:
		return "API"
	case ModeAPIEscaped:
		return "API escaped"
	default:
		return "unknown"
	}
}

// Escaped reports whether the mode applies the API2 escape codec.
func (m OperatingMode) Escaped() bool {
	return m == ModeAPIEscaped
}

// AT command response status codes.
const (
	ATStatusOK               byte = 0x00
	ATStatusError            byte = 0x01
	ATStatusInvalidCommand   byte = 0x02
	ATStatusInvalidParameter byte = 0x03
	ATStatusTxFailure        byte = 0x04
)

// Transmit status delivery codes.
const (
	DeliverySuccess         byte = 0x00
	DeliveryMACAckFail      byte = 0x01
	DeliveryCCAFail         byte = 0x02
	DeliveryInvalidDest     byte = 0x15
	DeliveryNetworkAckFail  byte = 0x21
	DeliveryNotJoined       byte = 0x22
	DeliveryRouteNotFound   byte = 0x25
	DeliveryPayloadTooLarge byte = 0x74
)

// Transmit status discovery codes.
const (
	DiscoveryNone            byte = 0x00
	DiscoveryAddress         byte = 0x01
	DiscoveryRoute           byte = 0x02
	DiscoveryAddressAndRoute byte = 0x03
)

// Modem status codes.
const (
	ModemStatusHardwareReset      byte = 0x00
	ModemStatusWatchdogReset      byte = 0x01
	ModemStatusJoined             byte = 0x02
	ModemStatusDisassociated      byte = 0x03
	ModemStatusCoordinatorStarted byte = 0x06
	ModemStatusNetworkWokeUp      byte = 0x0B
	ModemStatusNetworkWentToSleep byte = 0x0C
)

// Receive options bits.
const (
	RxOptBroadcast byte = 0x01
)

// Transmit request options bits.
const (
	TxOptDisableAck            byte = 0x01
	TxOptDisableRouteDiscovery byte = 0x02
)

// Remote AT command options bits.
const (
	RemoteATOptDisableAck   byte = 0x01
	RemoteATOptApplyChanges byte = 0x02
)

// BroadcastRadiusMax requests the maximum hop radius for a broadcast
// transmission.
const BroadcastRadiusMax byte = 0x00
