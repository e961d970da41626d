// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 R. Calloway, Quadrature

package xbee

import "fmt"

// RemoteATCommand is a Remote AT Command Request frame (0x17): query or
// set a parameter on a remote module.
type RemoteATCommand struct {
	ID        byte
	Dest64    Address64
	Dest16    Address16
	Options   byte // RemoteATOpt* bits
	Command   string
	Parameter []byte
}

// NewRemoteATCommand builds a Remote AT Command frame. Command must be
// exactly two ASCII characters.
func NewRemoteATCommand(id byte, dest64 Address64, dest16 Address16, options byte, command string, parameter []byte) (*RemoteATCommand, error) {
	if len(command) != 2 {
		return nil, fmt.Errorf("invalid AT command %q: want 2 characters", command)
	}
	return &RemoteATCommand{
		ID:        id,
		Dest64:    dest64,
		Dest16:    dest16,
		Options:   options,
		Command:   command,
		Parameter: parameter,
	}, nil
}

func (f *RemoteATCommand) Type() FrameType    { return FrameTypeRemoteATCommand }
func (f *RemoteATCommand) FrameID() byte      { return f.ID }
func (f *RemoteATCommand) NeedsFrameID() bool { return true }
func (f *RemoteATCommand) SetFrameID(id byte) { f.ID = id }

func (f *RemoteATCommand) IsBroadcast() bool {
	return f.Dest64 == Addr64Broadcast || f.Dest16 == Addr16Broadcast
}

func (f *RemoteATCommand) Data() []byte {
	out := make([]byte, 0, 15+len(f.Parameter))
	out = append(out, byte(FrameTypeRemoteATCommand), f.ID)
	out = append(out, f.Dest64[:]...)
	out = append(out, f.Dest16[:]...)
	out = append(out, f.Options)
	out = append(out, f.Command...)
	out = append(out, f.Parameter...)
	return out
}

func parseRemoteATCommand(payload []byte) (*RemoteATCommand, error) {
	if len(payload) < minLenRemoteATCommand {
		return nil, &LengthError{Type: FrameTypeRemoteATCommand, Min: minLenRemoteATCommand, Got: len(payload)}
	}
	f := &RemoteATCommand{ID: payload[1], Options: payload[12], Command: string(payload[13:15])}
	copy(f.Dest64[:], payload[2:10])
	copy(f.Dest16[:], payload[10:12])
	if len(payload) > 15 {
		f.Parameter = append([]byte(nil), payload[15:]...)
	}
	return f, nil
}

// RemoteATCommandResponse is a Remote AT Command Response frame (0x97).
type RemoteATCommandResponse struct {
	ID      byte
	Src64   Address64
	Src16   Address16
	Command string
	Status  byte
	Value   []byte
}

func (f *RemoteATCommandResponse) Type() FrameType    { return FrameTypeRemoteATCommandResponse }
func (f *RemoteATCommandResponse) FrameID() byte      { return f.ID }
func (f *RemoteATCommandResponse) NeedsFrameID() bool { return true }
func (f *RemoteATCommandResponse) IsBroadcast() bool  { return false }

// OK reports whether the remote command completed successfully.
func (f *RemoteATCommandResponse) OK() bool { return f.Status == ATStatusOK }

func (f *RemoteATCommandResponse) Data() []byte {
	out := make([]byte, 0, 15+len(f.Value))
	out = append(out, byte(FrameTypeRemoteATCommandResponse), f.ID)
	out = append(out, f.Src64[:]...)
	out = append(out, f.Src16[:]...)
	out = append(out, f.Command...)
	out = append(out, f.Status)
	out = append(out, f.Value...)
	return out
}

func parseRemoteATCommandResponse(payload []byte) (*RemoteATCommandResponse, error) {
	if len(payload) < minLenRemoteATCommandResponse {
		return nil, &LengthError{Type: FrameTypeRemoteATCommandResponse, Min: minLenRemoteATCommandResponse, Got: len(payload)}
	}
	f := &RemoteATCommandResponse{ID: payload[1], Command: string(payload[12:14]), Status: payload[14]}
	copy(f.Src64[:], payload[2:10])
	copy(f.Src16[:], payload[10:12])
	if len(payload) > 15 {
		f.Value = append([]byte(nil), payload[15:]...)
	}
	return f, nil
}
