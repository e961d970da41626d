// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 R. Calloway, Quadrature

package xbee

import (
	"bytes"
	"math/rand"
	"os"
	"strconv"
	"testing"
	"time"
)

// getFuzzRounds returns the number of fuzz rounds from FUZZ_ROUNDS env var, default 1000
func getFuzzRounds() int {
	if envRounds := os.Getenv("FUZZ_ROUNDS"); envRounds != "" {
		if rounds, err := strconv.Atoi(envRounds); err == nil && rounds > 0 {
			return rounds
		}
	}
	return 1000
}

// getFuzzSeed returns the seed from FUZZ_SEED env var, or generates one from current time
func getFuzzSeed() int64 {
	if envSeed := os.Getenv("FUZZ_SEED"); envSeed != "" {
		if seed, err := strconv.ParseInt(envSeed, 10, 64); err == nil {
			return seed
		}
	}
	return time.Now().UnixNano()
}

// newFuzzRng creates a new random number generator and logs the seed for reproducibility
func newFuzzRng(t *testing.T) *rand.Rand {
	seed := getFuzzSeed()
	t.Logf("Seed: %d (reproduce with FUZZ_SEED=%d)", seed, seed)
	return rand.New(rand.NewSource(seed))
}

// randomFrame builds a random well-formed frame.
func randomFrame(rng *rand.Rand) Frame {
	randBytes := func(max int) []byte {
		data := make([]byte, rng.Intn(max+1))
		rng.Read(data)
		return data
	}
	addr64 := NewAddress64(rng.Uint64())
	addr16 := NewAddress16(uint16(rng.Uint32()))
	id := byte(rng.Intn(255) + 1)
	command := string([]byte{byte(rng.Intn(26) + 'A'), byte(rng.Intn(26) + 'A')})

	switch rng.Intn(9) {
	case 0:
		f, _ := NewATCommand(id, command, randBytes(8))
		return f
	case 1:
		f, _ := NewATCommandQueue(id, command, randBytes(8))
		return f
	case 2:
		return &ATCommandResponse{ID: id, Command: command, Status: byte(rng.Intn(5)), Value: randBytes(16)}
	case 3:
		f, _ := NewRemoteATCommand(id, addr64, addr16, byte(rng.Intn(4)), command, randBytes(8))
		return f
	case 4:
		return &RemoteATCommandResponse{ID: id, Src64: addr64, Src16: addr16, Command: command, Status: byte(rng.Intn(5)), Value: randBytes(16)}
	case 5:
		return NewTransmitRequest(id, addr64, addr16, randBytes(64))
	case 6:
		return &TransmitStatus{ID: id, Dest16: addr16, RetryCount: byte(rng.Intn(10)), DeliveryStatus: byte(rng.Intn(3)), DiscoveryStatus: byte(rng.Intn(3))}
	case 7:
		return &ReceivePacket{Src64: addr64, Src16: addr16, Options: byte(rng.Intn(4)), RFData: randBytes(64)}
	default:
		return &ModemStatus{Status: byte(rng.Intn(8))}
	}
}

// ============================================================
// Escape Codec Fuzz Tests
// ============================================================

// TestFuzzEscape_RoundTrip verifies Unescape inverts Escape for
// arbitrary data, including data starting with the delimiter
func TestFuzzEscape_RoundTrip(t *testing.T) {
	rounds := getFuzzRounds()
	rng := newFuzzRng(t)
	t.Logf("Running %d fuzz rounds", rounds)

	for i := 0; i < rounds; i++ {
		length := rng.Intn(256)
		data := make([]byte, length)
		rng.Read(data)
		if length > 0 && rng.Intn(4) == 0 {
			data[0] = StartByte
		}

		got, err := Unescape(Escape(data))
		if err != nil {
			t.Errorf("Round %d: unescape failed: %v", i, err)
			continue
		}
		if !bytes.Equal(got, data) {
			t.Errorf("Round %d: round trip mismatch", i)
		}
	}
}

// ============================================================
// Parser Fuzz Tests
// ============================================================

// TestFuzzParser_RandomBytes feeds random bytes to the parser in both
// modes and verifies it doesn't panic
func TestFuzzParser_RandomBytes(t *testing.T) {
	rounds := getFuzzRounds()
	rng := newFuzzRng(t)
	t.Logf("Running %d fuzz rounds", rounds)

	for i := 0; i < rounds; i++ {
		length := rng.Intn(512) + 1
		raw := make([]byte, length)
		rng.Read(raw)
		raw[0] = StartByte

		// Errors are expected; panics are not.
		ParseFrame(raw, ModeAPI)
		ParseFrame(raw, ModeAPIEscaped)
	}
}

// TestFuzzParser_RandomFrames round-trips random well-formed frames
// through both wire modes
func TestFuzzParser_RandomFrames(t *testing.T) {
	rounds := getFuzzRounds()
	rng := newFuzzRng(t)
	t.Logf("Running %d fuzz rounds", rounds)

	for i := 0; i < rounds; i++ {
		f := randomFrame(rng)
		for _, mode := range []OperatingMode{ModeAPI, ModeAPIEscaped} {
			raw := Marshal(f, mode.Escaped())
			parsed, err := ParseFrame(raw, mode)
			if err != nil {
				t.Errorf("Round %d: parse error (%s): %v", i, mode, err)
				continue
			}
			if !bytes.Equal(parsed.Data(), f.Data()) {
				t.Errorf("Round %d: payload mismatch (%s)", i, mode)
			}
		}
	}
}

// TestFuzzParser_CorruptedFrames corrupts one payload byte and
// verifies the checksum catches it
func TestFuzzParser_CorruptedFrames(t *testing.T) {
	rounds := getFuzzRounds()
	rng := newFuzzRng(t)
	t.Logf("Running %d fuzz rounds", rounds)

	for i := 0; i < rounds; i++ {
		f := randomFrame(rng)
		raw := Marshal(f, false)

		// Corrupt one byte after the length field. The running sum
		// always changes, so every such corruption is detected.
		idx := rng.Intn(len(raw)-3) + 3
		raw[idx] += byte(rng.Intn(255) + 1)

		if _, err := ParseFrame(raw, ModeAPI); err == nil {
			t.Errorf("Round %d: corrupted frame at offset %d parsed cleanly", i, idx)
		}
	}
}

// ============================================================
// IO Sample Fuzz Tests
// ============================================================

// TestFuzzIOSample_RandomBytes feeds random sample payloads and
// verifies no panic
func TestFuzzIOSample_RandomBytes(t *testing.T) {
	rounds := getFuzzRounds()
	rng := newFuzzRng(t)
	t.Logf("Running %d fuzz rounds", rounds)

	for i := 0; i < rounds; i++ {
		data := make([]byte, rng.Intn(32))
		rng.Read(data)
		if s, err := ParseIOSample(data); err == nil {
			// A sample that parsed must re-encode to a payload that
			// parses identically.
			again, err := ParseIOSample(s.Encode())
			if err != nil {
				t.Errorf("Round %d: re-encode failed to parse: %v", i, err)
				continue
			}
			if again.DigitalMask != s.DigitalMask || again.AnalogMask != s.AnalogMask || again.Digital != s.Digital {
				t.Errorf("Round %d: re-encode mismatch", i)
			}
		}
	}
}

// ============================================================
// Formatter Fuzz Tests
// ============================================================

// TestFuzzFormatter_RandomFrames formats random and generic frames and
// verifies non-empty output without panics
func TestFuzzFormatter_RandomFrames(t *testing.T) {
	rounds := getFuzzRounds()
	rng := newFuzzRng(t)
	t.Logf("Running %d fuzz rounds", rounds)

	for i := 0; i < rounds; i++ {
		if out := FormatFrame(randomFrame(rng)); out == "" {
			t.Errorf("Round %d: empty formatter output", i)
		}

		payload := make([]byte, rng.Intn(32)+1)
		rng.Read(payload)
		if out := FormatFrame(parseGeneric(payload)); out == "" {
			t.Errorf("Round %d: empty formatter output for generic frame", i)
		}
	}
}
