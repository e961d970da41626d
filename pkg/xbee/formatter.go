// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 R. Calloway, Quadrature

package xbee

import (
	"fmt"
	"strings"
)

// FormatFrameType returns the human-readable name for a frame type.
func FormatFrameType(t FrameType) string {
	switch t {
	case FrameTypeATCommand:
		return "AT_COMMAND"
	case FrameTypeATCommandQueue:
		return "AT_COMMAND_QUEUE"
	case FrameTypeTransmitRequest:
		return "TRANSMIT_REQUEST"
	case FrameTypeRemoteATCommand:
		return "REMOTE_AT_COMMAND"
	case FrameTypeATCommandResponse:
		return "AT_COMMAND_RESPONSE"
	case FrameTypeModemStatus:
		return "MODEM_STATUS"
	case FrameTypeTransmitStatus:
		return "TRANSMIT_STATUS"
	case FrameTypeReceivePacket:
		return "RECEIVE_PACKET"
	case FrameTypeIODataSampleRx:
		return "IO_DATA_SAMPLE_RX"
	case FrameTypeRemoteATCommandResponse:
		return "REMOTE_AT_COMMAND_RESPONSE"
	case FrameTypeRxIPv4:
		return "RX_IPV4"
	default:
		return "UNKNOWN"
	}
}

// FormatATStatus returns the name of an AT command response status.
func FormatATStatus(status byte) string {
	switch status {
	case ATStatusOK:
		return "OK"
	case ATStatusError:
		return "ERROR"
	case ATStatusInvalidCommand:
		return "INVALID_COMMAND"
	case ATStatusInvalidParameter:
		return "INVALID_PARAMETER"
	case ATStatusTxFailure:
		return "TX_FAILURE"
	default:
		return "UNKNOWN"
	}
}

// FormatDeliveryStatus returns the name of a transmit delivery status.
func FormatDeliveryStatus(status byte) string {
	switch status {
	case DeliverySuccess:
		return "SUCCESS"
	case DeliveryMACAckFail:
		return "MAC_ACK_FAILURE"
	case DeliveryCCAFail:
		return "CCA_FAILURE"
	case DeliveryInvalidDest:
		return "INVALID_DESTINATION"
	case DeliveryNetworkAckFail:
		return "NETWORK_ACK_FAILURE"
	case DeliveryNotJoined:
		return "NOT_JOINED"
	case DeliveryRouteNotFound:
		return "ROUTE_NOT_FOUND"
	case DeliveryPayloadTooLarge:
		return "PAYLOAD_TOO_LARGE"
	default:
		return "UNKNOWN"
	}
}

// FormatModemStatus returns the name of a modem status code.
func FormatModemStatus(status byte) string {
	switch status {
	case ModemStatusHardwareReset:
		return "HARDWARE_RESET"
	case ModemStatusWatchdogReset:
		return "WATCHDOG_RESET"
	case ModemStatusJoined:
		return "JOINED_NETWORK"
	case ModemStatusDisassociated:
		return "DISASSOCIATED"
	case ModemStatusCoordinatorStarted:
		return "COORDINATOR_STARTED"
	case ModemStatusNetworkWokeUp:
		return "NETWORK_WOKE_UP"
	case ModemStatusNetworkWentToSleep:
		return "NETWORK_WENT_TO_SLEEP"
	default:
		return "UNKNOWN"
	}
}

// FormatFrame formats a frame into a human-readable multi-line
// parameter breakdown. Diagnostic only; the wire encoding is what
// round-trips.
func FormatFrame(f Frame) string {
	header := fmt.Sprintf("%s (0x%02X)", FormatFrameType(f.Type()), byte(f.Type()))
	if f.NeedsFrameID() {
		header += fmt.Sprintf(" id=0x%02X", f.FrameID())
	}
	header += fmt.Sprintf(" len=%d\n", FrameLength(f))

	return header + formatFields(f)
}

func formatFields(f Frame) string {
	switch t := f.(type) {
	case *ATCommand:
		return formatATRequest(t.Command, t.Parameter)
	case *ATCommandQueue:
		return formatATRequest(t.Command, t.Parameter) + "  (queued)\n"
	case *ATCommandResponse:
		result := fmt.Sprintf("  Command: %s, Status: %s (0x%02X)\n", t.Command, FormatATStatus(t.Status), t.Status)
		if len(t.Value) > 0 {
			result += "  Value: " + hexDump(t.Value)
		}
		return result

	case *RemoteATCommand:
		result := fmt.Sprintf("  Dest: %s / %s, Options: 0x%02X\n", t.Dest64, t.Dest16, t.Options)
		return result + formatATRequest(t.Command, t.Parameter)
	case *RemoteATCommandResponse:
		result := fmt.Sprintf("  Source: %s / %s\n", t.Src64, t.Src16)
		result += fmt.Sprintf("  Command: %s, Status: %s (0x%02X)\n", t.Command, FormatATStatus(t.Status), t.Status)
		if len(t.Value) > 0 {
			result += "  Value: " + hexDump(t.Value)
		}
		return result

	case *TransmitRequest:
		result := fmt.Sprintf("  Dest: %s / %s, Radius: %d, Options: 0x%02X\n", t.Dest64, t.Dest16, t.BroadcastRadius, t.Options)
		if t.IsBroadcast() {
			result += "  Broadcast\n"
		}
		return result + "  RF Data: " + printable(t.RFData)
	case *TransmitStatus:
		return fmt.Sprintf("  Dest: %s, Retries: %d, Delivery: %s (0x%02X), Discovery: 0x%02X\n",
			t.Dest16, t.RetryCount, FormatDeliveryStatus(t.DeliveryStatus), t.DeliveryStatus, t.DiscoveryStatus)

	case *ReceivePacket:
		result := fmt.Sprintf("  Source: %s / %s, Options: 0x%02X\n", t.Src64, t.Src16, t.Options)
		if t.IsBroadcast() {
			result += "  Broadcast\n"
		}
		return result + "  RF Data: " + printable(t.RFData)
	case *IODataSampleRx:
		result := fmt.Sprintf("  Source: %s / %s, Options: 0x%02X\n", t.Src64, t.Src16, t.Options)
		sample, err := t.Sample()
		if err != nil {
			return result + fmt.Sprintf("  Sample: <%v>\n", err)
		}
		return result + "  Sample: " + sample.String() + "\n"
	case *RxIPv4:
		result := fmt.Sprintf("  Source: %d.%d.%d.%d:%d -> :%d, Protocol: %d\n",
			t.SrcIP[0], t.SrcIP[1], t.SrcIP[2], t.SrcIP[3], t.SourcePort, t.DestPort, t.Protocol)
		return result + "  Data: " + printable(t.Payload)

	case *ModemStatus:
		return fmt.Sprintf("  Status: %s (0x%02X)\n", FormatModemStatus(t.Status), t.Status)
	case *GenericFrame:
		if len(t.Payload) == 0 {
			return "  (no payload)\n"
		}
		return "  Payload: " + hexDump(t.Payload)
	default:
		return "  Payload: " + hexDump(f.Data())
	}
}

func formatATRequest(command string, parameter []byte) string {
	if len(parameter) == 0 {
		return fmt.Sprintf("  Command: %s (query)\n", command)
	}
	return fmt.Sprintf("  Command: %s\n  Parameter: %s", command, hexDump(parameter))
}

// hexDump renders data as wrapped hex, 16 bytes per line.
func hexDump(data []byte) string {
	var sb strings.Builder
	for i, b := range data {
		if i > 0 && i%16 == 0 {
			sb.WriteString("\n           ")
		}
		fmt.Fprintf(&sb, "%02X ", b)
	}
	sb.WriteByte('\n')
	return sb.String()
}

// printable renders data as quoted ASCII when it is fully printable,
// hex otherwise.
func printable(data []byte) string {
	if len(data) == 0 {
		return "(empty)\n"
	}
	for _, b := range data {
		if b < 0x20 || b > 0x7E {
			return hexDump(data)
		}
	}
	return fmt.Sprintf("%q (%d bytes)\n", data, len(data))
}
