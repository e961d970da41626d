// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 R. Calloway, Quadrature

package xbee

import (
	"bytes"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"
)

// DeviceState is the lifecycle state of a device's reader loop.
type DeviceState int32

const (
	StateIdle DeviceState = iota
	StateRunning
	StateStopping
	StateStopped
)

const (
	// DefaultQueueSize bounds the inbound frame queue.
	DefaultQueueSize = 40

	// DefaultSyncTimeout is the SendSync deadline when the caller
	// passes a non-positive timeout.
	DefaultSyncTimeout = 2 * time.Second

	// byteReadTimeout bounds each individual byte read inside a frame.
	// A module that goes silent mid-frame surfaces as an
	// incomplete-frame fault instead of a stuck parser.
	byteReadTimeout = 300 * time.Millisecond
)

// Device drives one XBee module over a byte transport. A dedicated
// reader goroutine pulls bytes from the transport, feeds the streaming
// parser, and fans parsed frames out to the inbound queue, frame-ID
// waiters, and registered listeners. All other methods are safe to
// call from any goroutine.
type Device struct {
	conn   io.ReadWriteCloser
	mode   OperatingMode
	parser *Parser

	state atomic.Int32

	// mu guards the frame ID counter, the pending-waiter table and
	// the echo-suppression record.
	mu       sync.Mutex
	frameID  byte
	pending  map[byte]chan Frame
	lastSent []byte

	wmu sync.Mutex // serializes transport writes

	queue *FrameQueue

	lmu            sync.Mutex
	frameListeners []func(Frame)
	dataListeners  []func(*Message)
	ioListeners    []func(*IOSampleMessage)
	modemListeners []func(byte)
	errListeners   []func(error)

	bytesCh   chan byte
	stop      chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
	closeErr  error
}

// NewDevice wraps a connected transport. The mode must be an API
// operating mode; probe and switch the module before constructing the
// device.
func NewDevice(conn io.ReadWriteCloser, mode OperatingMode) (*Device, error) {
	parser, err := NewParser(mode)
	if err != nil {
		return nil, err
	}
	return &Device{
		conn:    conn,
		mode:    mode,
		parser:  parser,
		pending: make(map[byte]chan Frame),
		queue:   NewFrameQueue(DefaultQueueSize),
		bytesCh: make(chan byte, 512),
		stop:    make(chan struct{}),
	}, nil
}

// Mode returns the device's operating mode.
func (d *Device) Mode() OperatingMode { return d.mode }

// State returns the reader loop state.
func (d *Device) State() DeviceState { return DeviceState(d.state.Load()) }

// IsOpen reports whether the reader loop is running.
func (d *Device) IsOpen() bool { return d.State() == StateRunning }

// Queue returns the bounded inbound frame queue. Every successfully
// parsed frame is enqueued before listener fan-out; when the queue is
// full the oldest frame is dropped.
func (d *Device) Queue() *FrameQueue { return d.queue }

// Start launches the reader loop. The inbound queue is cleared of any
// stale content first. Start may be called once per device.
func (d *Device) Start() error {
	if !d.state.CompareAndSwap(int32(StateIdle), int32(StateRunning)) {
		return ErrAlreadyStarted
	}
	d.queue.Clear()
	d.wg.Add(2)
	go d.fill()
	go d.readLoop()
	return nil
}

// Close stops the reader loop and closes the transport. Outstanding
// synchronous senders are resolved with ErrNotOpen rather than left to
// hang. Safe to call more than once.
func (d *Device) Close() error {
	d.closeOnce.Do(func() {
		d.state.CompareAndSwap(int32(StateRunning), int32(StateStopping))
		close(d.stop)
		d.closeErr = d.conn.Close()
		d.wg.Wait()
		d.state.Store(int32(StateStopped))
	})
	return d.closeErr
}

// fill moves raw bytes from the transport into the byte channel. It is
// the only goroutine that reads the transport. A read error is a
// transport fault: the channel is closed and the reader loop exits.
func (d *Device) fill() {
	defer d.wg.Done()
	defer close(d.bytesCh)

	buf := make([]byte, 256)
	for {
		n, err := d.conn.Read(buf)
		for _, b := range buf[:n] {
			select {
			case d.bytesCh <- b:
			case <-d.stop:
				return
			}
		}
		if err != nil {
			return
		}
	}
}

// readLoop scans for start delimiters, parses frame bodies and
// dispatches them. Bytes seen outside a frame that are not the start
// delimiter are silently discarded (resynchronization). A parsing
// fault on a single frame is reported to error listeners and scanning
// resumes; only a transport fault terminates the loop.
func (d *Device) readLoop() {
	defer d.wg.Done()
	defer func() {
		d.state.Store(int32(StateStopped))
		d.failPending()
	}()

	src := &chanByteSource{ch: d.bytesCh, timeout: byteReadTimeout}
	for {
		var b byte
		var ok bool
		select {
		case b, ok = <-d.bytesCh:
			if !ok {
				return
			}
		case <-d.stop:
			return
		}

		if b != StartByte {
			continue
		}

		f, err := d.parser.ParseOne(src)
		if err != nil {
			d.notifyError(err)
			continue
		}
		d.dispatch(f)
	}
}

// dispatch fans one parsed frame out to the queue, a matching frame-ID
// waiter, and all registered listeners, in that order. Listeners run
// synchronously in registration order on the reader goroutine; parsing
// of the next frame does not resume until fan-out completes.
func (d *Device) dispatch(f Frame) {
	raw := Marshal(f, false)

	d.mu.Lock()
	if d.lastSent != nil && bytes.Equal(raw, d.lastSent) {
		// Local echo of our own request (seen on loopback
		// transports); not a response.
		d.lastSent = nil
		d.mu.Unlock()
		return
	}
	var waiter chan Frame
	if f.NeedsFrameID() {
		if ch, ok := d.pending[f.FrameID()]; ok {
			waiter = ch
			delete(d.pending, f.FrameID())
		}
	}
	d.mu.Unlock()

	d.queue.Put(f)

	if waiter != nil {
		select {
		case waiter <- f:
		default:
		}
	}

	d.lmu.Lock()
	frameLs := append([]func(Frame){}, d.frameListeners...)
	dataLs := append([]func(*Message){}, d.dataListeners...)
	ioLs := append([]func(*IOSampleMessage){}, d.ioListeners...)
	modemLs := append([]func(byte){}, d.modemListeners...)
	d.lmu.Unlock()

	for _, fn := range frameLs {
		fn(f)
	}

	switch t := f.(type) {
	case *ReceivePacket:
		if len(dataLs) > 0 {
			msg := &Message{
				Addr64:    t.Src64,
				Addr16:    t.Src16,
				Data:      t.RFData,
				Broadcast: t.IsBroadcast(),
				Timestamp: time.Now(),
			}
			for _, fn := range dataLs {
				fn(msg)
			}
		}
	case *IODataSampleRx:
		if len(ioLs) > 0 {
			sample, err := t.Sample()
			if err != nil {
				d.notifyError(err)
				break
			}
			msg := &IOSampleMessage{
				Addr64:    t.Src64,
				Addr16:    t.Src16,
				Sample:    sample,
				Broadcast: t.IsBroadcast(),
				Timestamp: time.Now(),
			}
			for _, fn := range ioLs {
				fn(msg)
			}
		}
	case *ModemStatus:
		for _, fn := range modemLs {
			fn(t.Status)
		}
	}
}

// failPending resolves every outstanding synchronous waiter after the
// reader loop exits, so no caller hangs on a dead connection.
func (d *Device) failPending() {
	d.mu.Lock()
	for id, ch := range d.pending {
		close(ch)
		delete(d.pending, id)
	}
	d.mu.Unlock()
}

func (d *Device) notifyError(err error) {
	d.lmu.Lock()
	errLs := append([]func(error){}, d.errListeners...)
	d.lmu.Unlock()
	for _, fn := range errLs {
		fn(err)
	}
}

// OnFrame registers a listener invoked for every parsed frame.
func (d *Device) OnFrame(fn func(Frame)) {
	d.lmu.Lock()
	d.frameListeners = append(d.frameListeners, fn)
	d.lmu.Unlock()
}

// OnData registers a listener for received RF data.
func (d *Device) OnData(fn func(*Message)) {
	d.lmu.Lock()
	d.dataListeners = append(d.dataListeners, fn)
	d.lmu.Unlock()
}

// OnIOSample registers a listener for received IO samples.
func (d *Device) OnIOSample(fn func(*IOSampleMessage)) {
	d.lmu.Lock()
	d.ioListeners = append(d.ioListeners, fn)
	d.lmu.Unlock()
}

// OnModemStatus registers a listener for modem status codes.
func (d *Device) OnModemStatus(fn func(byte)) {
	d.lmu.Lock()
	d.modemListeners = append(d.modemListeners, fn)
	d.lmu.Unlock()
}

// OnError registers a listener for per-frame parsing faults caught by
// the reader loop. Such faults never terminate the loop.
func (d *Device) OnError(fn func(error)) {
	d.lmu.Lock()
	d.errListeners = append(d.errListeners, fn)
	d.lmu.Unlock()
}

// NextFrameID returns the next correlation ID, cycling 1..255. The
// NoFrameID sentinel (0, "no response requested") is never returned.
func (d *Device) NextFrameID() byte {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.nextFrameIDLocked()
}

func (d *Device) nextFrameIDLocked() byte {
	d.frameID++
	if d.frameID == NoFrameID {
		d.frameID = 1
	}
	return d.frameID
}

// Send writes a frame to the transport without waiting for a response.
// A frame whose ID is left at NoFrameID asks the module to suppress
// its response frame.
func (d *Device) Send(f Frame) error {
	if !d.IsOpen() {
		return ErrNotOpen
	}
	return d.write(f)
}

// SendSync writes a frame and blocks until a response carrying the
// same frame ID arrives, the timeout elapses (ErrResponseTimeout), or
// the connection dies (ErrNotOpen). Frame types that carry no frame ID
// cannot be correlated; they are sent fire-and-forget and SendSync
// returns a nil frame immediately.
//
// A frame ID is allocated automatically when the frame's ID is still
// NoFrameID. The transient waiter registered for the ID is removed on
// every exit path. A byte-identical local echo of the request is
// ignored, not mistaken for the response.
func (d *Device) SendSync(f Frame, timeout time.Duration) (Frame, error) {
	if !d.IsOpen() {
		return nil, ErrNotOpen
	}
	if !f.NeedsFrameID() {
		return nil, d.write(f)
	}
	if timeout <= 0 {
		timeout = DefaultSyncTimeout
	}

	d.mu.Lock()
	if f.FrameID() == NoFrameID {
		if s, ok := f.(frameIDSetter); ok {
			s.SetFrameID(d.nextFrameIDLocked())
		}
	}
	id := f.FrameID()
	ch := make(chan Frame, 1)
	d.pending[id] = ch
	d.lastSent = Marshal(f, false)
	d.mu.Unlock()

	defer func() {
		d.mu.Lock()
		delete(d.pending, id)
		d.lastSent = nil
		d.mu.Unlock()
	}()

	if err := d.write(f); err != nil {
		return nil, err
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case resp, ok := <-ch:
		if !ok {
			return nil, fmt.Errorf("%w: connection closed while waiting for frame ID 0x%02X", ErrNotOpen, id)
		}
		return resp, nil
	case <-timer.C:
		return nil, fmt.Errorf("%w after %s (frame ID 0x%02X)", ErrResponseTimeout, timeout, id)
	}
}

func (d *Device) write(f Frame) error {
	raw := Marshal(f, d.mode.Escaped())
	d.wmu.Lock()
	defer d.wmu.Unlock()
	if _, err := d.conn.Write(raw); err != nil {
		return fmt.Errorf("write frame: %w", err)
	}
	return nil
}

// chanByteSource feeds the parser from the reader loop's byte channel,
// bounding each byte read so a silent module cannot stall the parser.
type chanByteSource struct {
	ch      <-chan byte
	timeout time.Duration
}

func (s *chanByteSource) ReadByte() (byte, error) {
	timer := time.NewTimer(s.timeout)
	defer timer.Stop()
	select {
	case b, ok := <-s.ch:
		if !ok {
			return 0, io.EOF
		}
		return b, nil
	case <-timer.C:
		return 0, fmt.Errorf("no byte within %s", s.timeout)
	}
}
