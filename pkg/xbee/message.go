// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 R. Calloway, Quadrature

package xbee

import "time"

// Message associates a remote module identity with received RF data.
// Built by the reader loop when dispatching Receive Packet frames to
// data listeners.
type Message struct {
	Addr64    Address64
	Addr16    Address16
	Data      []byte
	Broadcast bool
	Timestamp time.Time
}

// IOSampleMessage associates a remote module identity with a decoded
// IO sample.
type IOSampleMessage struct {
	Addr64    Address64
	Addr16    Address16
	Sample    *IOSample
	Broadcast bool
	Timestamp time.Time
}
