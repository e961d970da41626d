// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 R. Calloway, Quadrature

package xbee

import (
	"bytes"
	"errors"
	"io"
	"sync"
	"testing"
	"time"
)

// ============================================================
// Test Transport
// ============================================================

// testTransport is an in-memory io.ReadWriteCloser. Reads block on a
// byte channel the test feeds; writes are delivered to the test on a
// channel so it can react like a module would.
type testTransport struct {
	in     chan byte
	writes chan []byte

	closed chan struct{}
	once   sync.Once
}

func newTestTransport() *testTransport {
	return &testTransport{
		in:     make(chan byte, 4096),
		writes: make(chan []byte, 16),
		closed: make(chan struct{}),
	}
}

func (tt *testTransport) Read(p []byte) (int, error) {
	select {
	case b := <-tt.in:
		p[0] = b
		n := 1
		// Drain whatever else is immediately available.
		for n < len(p) {
			select {
			case b := <-tt.in:
				p[n] = b
				n++
			default:
				return n, nil
			}
		}
		return n, nil
	case <-tt.closed:
		return 0, io.EOF
	}
}

func (tt *testTransport) Write(p []byte) (int, error) {
	select {
	case <-tt.closed:
		return 0, io.EOF
	default:
	}
	tt.writes <- append([]byte(nil), p...)
	return len(p), nil
}

func (tt *testTransport) Close() error {
	tt.once.Do(func() { close(tt.closed) })
	return nil
}

// feed pushes raw wire bytes toward the device's reader loop.
func (tt *testTransport) feed(raw []byte) {
	for _, b := range raw {
		tt.in <- b
	}
}

// feedFrame marshals and pushes one frame.
func (tt *testTransport) feedFrame(t *testing.T, f Frame, escaped bool) {
	t.Helper()
	tt.feed(Marshal(f, escaped))
}

// awaitWrite returns the next chunk the device wrote, failing the test
// on timeout.
func (tt *testTransport) awaitWrite(t *testing.T) []byte {
	t.Helper()
	select {
	case raw := <-tt.writes:
		return raw
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a transport write")
		return nil
	}
}

func startDevice(t *testing.T, mode OperatingMode) (*Device, *testTransport) {
	t.Helper()
	tt := newTestTransport()
	d, err := NewDevice(tt, mode)
	if err != nil {
		t.Fatalf("device build error: %v", err)
	}
	if err := d.Start(); err != nil {
		t.Fatalf("start error: %v", err)
	}
	t.Cleanup(func() { d.Close() })
	return d, tt
}

// ============================================================
// Lifecycle Tests
// ============================================================

func TestDevice_Lifecycle(t *testing.T) {
	tt := newTestTransport()
	d, err := NewDevice(tt, ModeAPI)
	if err != nil {
		t.Fatalf("device build error: %v", err)
	}
	if d.State() != StateIdle {
		t.Errorf("new device should be idle, state=%d", d.State())
	}

	if err := d.Start(); err != nil {
		t.Fatalf("start error: %v", err)
	}
	if !d.IsOpen() {
		t.Error("started device should report open")
	}
	if err := d.Start(); !errors.Is(err, ErrAlreadyStarted) {
		t.Errorf("second start should fail with ErrAlreadyStarted, got %v", err)
	}

	if err := d.Close(); err != nil {
		t.Errorf("close error: %v", err)
	}
	if d.State() != StateStopped {
		t.Errorf("closed device should be stopped, state=%d", d.State())
	}
	if err := d.Close(); err != nil {
		t.Errorf("second close should be a no-op, got %v", err)
	}

	if err := d.Send(&ModemStatus{Status: ModemStatusJoined}); !errors.Is(err, ErrNotOpen) {
		t.Errorf("send on a closed device should fail with ErrNotOpen, got %v", err)
	}
}

func TestNewDevice_RejectsNonAPIMode(t *testing.T) {
	if _, err := NewDevice(newTestTransport(), ModeAT); !errors.Is(err, ErrInvalidMode) {
		t.Errorf("expected ErrInvalidMode, got %v", err)
	}
}

// ============================================================
// Send / Correlation Tests
// ============================================================

func TestDevice_SendSync_Correlated(t *testing.T) {
	d, tt := startDevice(t, ModeAPI)

	// Respond like a module: read the request, echo its frame ID back
	// in an AT command response.
	go func() {
		raw := <-tt.writes
		req, err := ParseFrame(raw, ModeAPI)
		if err != nil {
			return
		}
		tt.feedFrame(t, &ATCommandResponse{
			ID:      req.FrameID(),
			Command: "NI",
			Status:  ATStatusOK,
			Value:   []byte("SENSOR-3"),
		}, false)
	}()

	req, _ := NewATCommand(NoFrameID, "NI", nil)
	resp, err := d.SendSync(req, time.Second)
	if err != nil {
		t.Fatalf("send error: %v", err)
	}

	at, ok := resp.(*ATCommandResponse)
	if !ok {
		t.Fatalf("expected *ATCommandResponse, got %T", resp)
	}
	if !at.OK() || string(at.Value) != "SENSOR-3" {
		t.Errorf("unexpected response: status=0x%02X value=%q", at.Status, at.Value)
	}
	if req.FrameID() == NoFrameID {
		t.Error("SendSync should have assigned a frame ID")
	}
}

func TestDevice_SendSync_Timeout(t *testing.T) {
	d, tt := startDevice(t, ModeAPI)

	go func() {
		raw := <-tt.writes
		req, err := ParseFrame(raw, ModeAPI)
		if err != nil {
			return
		}
		// Wrong frame ID: must not resolve the waiter.
		tt.feedFrame(t, &ATCommandResponse{ID: req.FrameID() + 1, Command: "NI", Status: ATStatusOK}, false)
	}()

	req, _ := NewATCommand(NoFrameID, "NI", nil)
	_, err := d.SendSync(req, 50*time.Millisecond)
	if !errors.Is(err, ErrResponseTimeout) {
		t.Fatalf("expected ErrResponseTimeout, got %v", err)
	}

	// The mismatched frame still reaches the queue.
	if f := d.Queue().Poll(time.Second); f == nil {
		t.Error("uncorrelated frame should land in the queue")
	}
}

func TestDevice_SendSync_FireAndForget(t *testing.T) {
	d, tt := startDevice(t, ModeAPI)

	// A frame type with no frame ID cannot be correlated; SendSync
	// degrades to a plain write.
	resp, err := d.SendSync(&ModemStatus{Status: ModemStatusHardwareReset}, time.Second)
	if err != nil {
		t.Fatalf("send error: %v", err)
	}
	if resp != nil {
		t.Errorf("expected nil response, got %T", resp)
	}
	if raw := tt.awaitWrite(t); raw[3] != byte(FrameTypeModemStatus) {
		t.Errorf("unexpected wire bytes: % X", raw)
	}
}

func TestDevice_SendSync_EchoSuppressed(t *testing.T) {
	d, tt := startDevice(t, ModeAPI)

	go func() {
		raw := <-tt.writes
		// Loopback transport: the device hears its own request before
		// the real response arrives.
		tt.feed(raw)
		req, err := ParseFrame(raw, ModeAPI)
		if err != nil {
			return
		}
		tt.feedFrame(t, &ATCommandResponse{ID: req.FrameID(), Command: "VR", Status: ATStatusOK, Value: []byte{0x10, 0x0A}}, false)
	}()

	req, _ := NewATCommand(NoFrameID, "VR", nil)
	resp, err := d.SendSync(req, time.Second)
	if err != nil {
		t.Fatalf("send error: %v", err)
	}
	if _, ok := resp.(*ATCommandResponse); !ok {
		t.Fatalf("echo must not resolve the waiter; got %T", resp)
	}

	// The echo was dropped before the queue too; only the response
	// may be queued.
	if f := d.Queue().TryPoll(); f != nil {
		if _, isRequest := f.(*ATCommand); isRequest {
			t.Error("echoed request should not be queued")
		}
	}
}

func TestDevice_SendSync_ClosedWhileWaiting(t *testing.T) {
	d, tt := startDevice(t, ModeAPI)

	errCh := make(chan error, 1)
	go func() {
		req, _ := NewATCommand(NoFrameID, "NI", nil)
		_, err := d.SendSync(req, 5*time.Second)
		errCh <- err
	}()

	tt.awaitWrite(t)
	d.Close()

	select {
	case err := <-errCh:
		if !errors.Is(err, ErrNotOpen) {
			t.Errorf("expected ErrNotOpen, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("SendSync still blocked after Close")
	}
}

func TestDevice_NextFrameID_SkipsZero(t *testing.T) {
	d, _ := startDevice(t, ModeAPI)

	seen := make(map[byte]bool)
	for i := 0; i < 510; i++ {
		id := d.NextFrameID()
		if id == NoFrameID {
			t.Fatal("frame ID 0 is reserved for suppressed responses")
		}
		seen[id] = true
	}
	if len(seen) != 255 {
		t.Errorf("expected the full 1..255 cycle, saw %d distinct IDs", len(seen))
	}
}

// ============================================================
// Reader Loop Tests
// ============================================================

func TestDevice_Resync(t *testing.T) {
	d, tt := startDevice(t, ModeAPI)

	frames := make(chan Frame, 1)
	d.OnFrame(func(f Frame) { frames <- f })

	// Line noise before the delimiter must be discarded.
	tt.feed([]byte{0x42, 0x00, 0x13, 0xFF})
	tt.feedFrame(t, &ModemStatus{Status: ModemStatusJoined}, false)

	select {
	case f := <-frames:
		if f.Type() != FrameTypeModemStatus {
			t.Errorf("unexpected frame type 0x%02X", byte(f.Type()))
		}
	case <-time.After(2 * time.Second):
		t.Fatal("frame not parsed after garbage prefix")
	}
}

func TestDevice_BadChecksumReportedAndRecovered(t *testing.T) {
	d, tt := startDevice(t, ModeAPI)

	errs := make(chan error, 1)
	frames := make(chan Frame, 1)
	d.OnError(func(err error) { errs <- err })
	d.OnFrame(func(f Frame) { frames <- f })

	tt.feed([]byte{0x7E, 0x00, 0x02, 0x8A, 0x06, 0x00}) // checksum should be 0x6F
	tt.feedFrame(t, &ModemStatus{Status: ModemStatusJoined}, false)

	select {
	case err := <-errs:
		var checksumErr *ChecksumError
		if !errors.As(err, &checksumErr) {
			t.Errorf("expected ChecksumError, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("checksum fault not reported")
	}

	select {
	case <-frames:
	case <-time.After(2 * time.Second):
		t.Fatal("reader loop did not recover after a bad frame")
	}
}

func TestDevice_MidFrameSilenceTimesOutAndRecovers(t *testing.T) {
	d, tt := startDevice(t, ModeAPI)

	errs := make(chan error, 1)
	frames := make(chan Frame, 1)
	d.OnError(func(err error) { errs <- err })
	d.OnFrame(func(f Frame) { frames <- f })

	// Delimiter plus a partial body, then silence: the per-byte read
	// budget must expire and surface an incomplete-frame fault.
	tt.feed([]byte{0x7E, 0x00, 0x04, 0x08})

	select {
	case err := <-errs:
		if !errors.Is(err, ErrIncompleteFrame) {
			t.Errorf("expected ErrIncompleteFrame, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("mid-frame silence not reported")
	}

	// The loop must resynchronize on the next delimiter.
	tt.feedFrame(t, &ModemStatus{Status: ModemStatusJoined}, false)
	select {
	case f := <-frames:
		if f.Type() != FrameTypeModemStatus {
			t.Errorf("unexpected frame type 0x%02X", byte(f.Type()))
		}
	case <-time.After(2 * time.Second):
		t.Fatal("reader loop did not recover after mid-frame silence")
	}
}

func TestDevice_EscapedMode(t *testing.T) {
	d, tt := startDevice(t, ModeAPIEscaped)

	frames := make(chan Frame, 1)
	d.OnFrame(func(f Frame) { frames <- f })

	rx := &ReceivePacket{
		Src64:  NewAddress64(0x0013A20012345678),
		Src16:  Addr16Unknown,
		RFData: []byte{0x7E, 0x11, 0x13, 0x7D},
	}
	tt.feedFrame(t, rx, true)

	select {
	case f := <-frames:
		got, ok := f.(*ReceivePacket)
		if !ok {
			t.Fatalf("expected *ReceivePacket, got %T", f)
		}
		if !bytes.Equal(got.RFData, rx.RFData) {
			t.Errorf("RF data mismatch: % X", got.RFData)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("escaped frame not parsed")
	}

	// Writes are stuffed as well.
	if err := d.Send(NewTransmitRequest(0x01, Addr64Broadcast, Addr16Unknown, []byte{0x11})); err != nil {
		t.Fatalf("send error: %v", err)
	}
	raw := tt.awaitWrite(t)
	if !bytes.Contains(raw, []byte{0x7D, 0x31}) {
		t.Errorf("outbound XON not stuffed: % X", raw)
	}
}

// ============================================================
// Dispatch Tests
// ============================================================

func TestDevice_DataListener(t *testing.T) {
	d, tt := startDevice(t, ModeAPI)

	msgs := make(chan *Message, 1)
	d.OnData(func(m *Message) { msgs <- m })

	tt.feedFrame(t, &ReceivePacket{
		Src64:   NewAddress64(0x0013A20012345678),
		Src16:   Addr16Unknown,
		Options: RxOptBroadcast,
		RFData:  []byte("hi"),
	}, false)

	select {
	case m := <-msgs:
		if m.Addr64.Uint64() != 0x0013A20012345678 {
			t.Errorf("source mismatch: %s", m.Addr64)
		}
		if !m.Broadcast {
			t.Error("message should be flagged broadcast")
		}
		if string(m.Data) != "hi" {
			t.Errorf("data mismatch: %q", m.Data)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("data listener not invoked")
	}
}

func TestDevice_IOSampleListener(t *testing.T) {
	d, tt := startDevice(t, ModeAPI)

	msgs := make(chan *IOSampleMessage, 1)
	d.OnIOSample(func(m *IOSampleMessage) { msgs <- m })

	sample := &IOSample{SampleCount: 1, DigitalMask: 0x0010, AnalogMask: 0x00, Digital: 0x0010}
	tt.feedFrame(t, &IODataSampleRx{
		Src64:      NewAddress64(0x0013A20012345678),
		Src16:      NewAddress16(0x5E70),
		SampleData: sample.Encode(),
	}, false)

	select {
	case m := <-msgs:
		if level, ok := m.Sample.DigitalValue(4); !ok || !level {
			t.Error("DIO4 should be sampled high")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("IO sample listener not invoked")
	}
}

func TestDevice_ModemStatusListener(t *testing.T) {
	d, tt := startDevice(t, ModeAPI)

	statuses := make(chan byte, 1)
	d.OnModemStatus(func(s byte) { statuses <- s })

	tt.feedFrame(t, &ModemStatus{Status: ModemStatusDisassociated}, false)

	select {
	case s := <-statuses:
		if s != ModemStatusDisassociated {
			t.Errorf("expected 0x03, got 0x%02X", s)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("modem status listener not invoked")
	}
}

func TestDevice_ListenersInRegistrationOrder(t *testing.T) {
	d, tt := startDevice(t, ModeAPI)

	var mu sync.Mutex
	var order []int
	done := make(chan struct{})
	for i := 0; i < 3; i++ {
		i := i
		d.OnFrame(func(Frame) {
			mu.Lock()
			order = append(order, i)
			full := len(order) == 3
			mu.Unlock()
			if full {
				close(done)
			}
		})
	}

	tt.feedFrame(t, &ModemStatus{Status: ModemStatusJoined}, false)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("listeners not invoked")
	}
	mu.Lock()
	defer mu.Unlock()
	for i, got := range order {
		if got != i {
			t.Fatalf("listeners out of registration order: %v", order)
		}
	}
}

// ============================================================
// Queue Tests
// ============================================================

func TestFrameQueue_DropOldest(t *testing.T) {
	q := NewFrameQueue(3)
	for i := 0; i < 5; i++ {
		q.Put(&ModemStatus{Status: byte(i)})
	}

	if q.Len() != 3 {
		t.Fatalf("expected 3 queued frames, got %d", q.Len())
	}
	for want := byte(2); want < 5; want++ {
		f := q.TryPoll()
		if f == nil {
			t.Fatal("queue drained early")
		}
		if got := f.(*ModemStatus).Status; got != want {
			t.Errorf("expected status %d, got %d", want, got)
		}
	}
}

func TestFrameQueue_PollTimeout(t *testing.T) {
	q := NewFrameQueue(3)

	start := time.Now()
	if f := q.Poll(50 * time.Millisecond); f != nil {
		t.Errorf("expected nil from an empty queue, got %T", f)
	}
	if time.Since(start) < 40*time.Millisecond {
		t.Error("poll returned before the timeout")
	}

	go func() {
		time.Sleep(20 * time.Millisecond)
		q.Put(&ModemStatus{Status: ModemStatusJoined})
	}()
	if f := q.Poll(2 * time.Second); f == nil {
		t.Error("poll should return the frame put while waiting")
	}
}
