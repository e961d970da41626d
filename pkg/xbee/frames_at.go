// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 R. Calloway, Quadrature

package xbee

import "fmt"

// ATCommand is an AT Command frame (0x08): query or set a parameter on
// the local module, applied immediately.
type ATCommand struct {
	ID        byte
	Command   string // two ASCII characters
	Parameter []byte // empty for a query
}

// NewATCommand builds an AT Command frame. Command must be exactly two
// ASCII characters.
func NewATCommand(id byte, command string, parameter []byte) (*ATCommand, error) {
	if len(command) != 2 {
		return nil, fmt.Errorf("invalid AT command %q: want 2 characters", command)
	}
	return &ATCommand{ID: id, Command: command, Parameter: parameter}, nil
}

func (f *ATCommand) Type() FrameType    { return FrameTypeATCommand }
func (f *ATCommand) FrameID() byte      { return f.ID }
func (f *ATCommand) NeedsFrameID() bool { return true }
func (f *ATCommand) IsBroadcast() bool  { return false }
func (f *ATCommand) SetFrameID(id byte) { f.ID = id }

func (f *ATCommand) Data() []byte {
	out := make([]byte, 0, 4+len(f.Parameter))
	out = append(out, byte(FrameTypeATCommand), f.ID)
	out = append(out, f.Command...)
	out = append(out, f.Parameter...)
	return out
}

func parseATCommand(payload []byte) (*ATCommand, error) {
	if len(payload) < minLenATCommand {
		return nil, &LengthError{Type: FrameTypeATCommand, Min: minLenATCommand, Got: len(payload)}
	}
	f := &ATCommand{ID: payload[1], Command: string(payload[2:4])}
	if len(payload) > 4 {
		f.Parameter = append([]byte(nil), payload[4:]...)
	}
	return f, nil
}

// ATCommandQueue is an AT Command - Queue Parameter Value frame (0x09):
// same layout as ATCommand, but the new value is queued and not applied
// until an AC command or a non-queued write.
type ATCommandQueue struct {
	ID        byte
	Command   string
	Parameter []byte
}

// NewATCommandQueue builds a queued AT Command frame.
func NewATCommandQueue(id byte, command string, parameter []byte) (*ATCommandQueue, error) {
	if len(command) != 2 {
		return nil, fmt.Errorf("invalid AT command %q: want 2 characters", command)
	}
	return &ATCommandQueue{ID: id, Command: command, Parameter: parameter}, nil
}

func (f *ATCommandQueue) Type() FrameType    { return FrameTypeATCommandQueue }
func (f *ATCommandQueue) FrameID() byte      { return f.ID }
func (f *ATCommandQueue) NeedsFrameID() bool { return true }
func (f *ATCommandQueue) IsBroadcast() bool  { return false }
func (f *ATCommandQueue) SetFrameID(id byte) { f.ID = id }

func (f *ATCommandQueue) Data() []byte {
	out := make([]byte, 0, 4+len(f.Parameter))
	out = append(out, byte(FrameTypeATCommandQueue), f.ID)
	out = append(out, f.Command...)
	out = append(out, f.Parameter...)
	return out
}

func parseATCommandQueue(payload []byte) (*ATCommandQueue, error) {
	if len(payload) < minLenATCommandQueue {
		return nil, &LengthError{Type: FrameTypeATCommandQueue, Min: minLenATCommandQueue, Got: len(payload)}
	}
	f := &ATCommandQueue{ID: payload[1], Command: string(payload[2:4])}
	if len(payload) > 4 {
		f.Parameter = append([]byte(nil), payload[4:]...)
	}
	return f, nil
}

// ATCommandResponse is an AT Command Response frame (0x88).
type ATCommandResponse struct {
	ID      byte
	Command string
	Status  byte
	Value   []byte // empty when the command carried no register data
}

func (f *ATCommandResponse) Type() FrameType    { return FrameTypeATCommandResponse }
func (f *ATCommandResponse) FrameID() byte      { return f.ID }
func (f *ATCommandResponse) NeedsFrameID() bool { return true }
func (f *ATCommandResponse) IsBroadcast() bool  { return false }

// OK reports whether the command completed successfully.
func (f *ATCommandResponse) OK() bool { return f.Status == ATStatusOK }

func (f *ATCommandResponse) Data() []byte {
	out := make([]byte, 0, 5+len(f.Value))
	out = append(out, byte(FrameTypeATCommandResponse), f.ID)
	out = append(out, f.Command...)
	out = append(out, f.Status)
	out = append(out, f.Value...)
	return out
}

func parseATCommandResponse(payload []byte) (*ATCommandResponse, error) {
	if len(payload) < minLenATCommandResponse {
		return nil, &LengthError{Type: FrameTypeATCommandResponse, Min: minLenATCommandResponse, Got: len(payload)}
	}
	f := &ATCommandResponse{ID: payload[1], Command: string(payload[2:4]), Status: payload[4]}
	if len(payload) > 5 {
		f.Value = append([]byte(nil), payload[5:]...)
	}
	return f, nil
}
