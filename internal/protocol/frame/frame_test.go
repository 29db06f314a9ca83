package frame

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"testing"
)

func TestReadWriteFrameRoundTrip(t *testing.T) {
	payload := []byte("intent-1")
	var buf bytes.Buffer
	if err := WriteFrame(&buf, payload); err != nil {
		t.Fatalf("write frame: %v", err)
	}
	out, err := ReadFrame(&buf, DefaultMaxPayloadBytes)
	if err != nil {
		t.Fatalf("read frame: %v", err)
	}
	if !bytes.Equal(out, payload) {
		t.Fatalf("payload mismatch: got=%q want=%q", out, payload)
	}
}

func TestReadFrameEmptyPayload(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteFrame(&buf, nil); err != nil {
		t.Fatalf("write frame: %v", err)
	}
	out, err := ReadFrame(&buf, DefaultMaxPayloadBytes)
	if err != nil {
		t.Fatalf("read frame: %v", err)
	}
	if len(out) != 0 {
		t.Fatalf("expected empty payload, got %d bytes", len(out))
	}
}

func TestReadFrameShortHeaderIsDeterministic(t *testing.T) {
	_, err := ReadFrame(bytes.NewReader([]byte{1, 2, 3}), DefaultMaxPayloadBytes)
	if !errors.Is(err, ErrShortHeader) {
		t.Fatalf("expected ErrShortHeader, got %v", err)
	}
}

func TestReadFramePayloadTooLarge(t *testing.T) {
	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], 1024)
	_, err := ReadFrame(bytes.NewReader(lenBuf[:]), 16)
	if !errors.Is(err, ErrPayloadTooLarge) {
		t.Fatalf("expected ErrPayloadTooLarge, got %v", err)
	}
}

// TestArbitraryChunkingRoundTrips checks that for any sequence of frames
// split arbitrarily across reads, the reader emits exactly the same
// sequence of decoded messages, in order.
func TestArbitraryChunkingRoundTrips(t *testing.T) {
	msgs := [][]byte{
		[]byte("a"),
		[]byte(""),
		bytes.Repeat([]byte{0xAB}, 513),
		[]byte("correlated"),
	}
	var wire bytes.Buffer
	for _, m := range msgs {
		if err := WriteFrame(&wire, m); err != nil {
			t.Fatalf("write frame: %v", err)
		}
	}

	for _, chunkSize := range []int{1, 2, 7, 4096} {
		chunked := chunkReader(wire.Bytes(), chunkSize)
		for i, want := range msgs {
			got, err := ReadFrame(chunked, DefaultMaxPayloadBytes)
			if err != nil {
				t.Fatalf("chunkSize=%d frame=%d: read frame: %v", chunkSize, i, err)
			}
			if !bytes.Equal(got, want) {
				t.Fatalf("chunkSize=%d frame=%d: got=%q want=%q", chunkSize, i, got, want)
			}
		}
	}
}

// chunkReader wraps b so every Read returns at most chunkSize bytes,
// regardless of how the caller sized its buffer.
func chunkReader(b []byte, chunkSize int) io.Reader {
	return &limitedChunkReader{data: b, chunkSize: chunkSize}
}

type limitedChunkReader struct {
	data      []byte
	chunkSize int
}

func (r *limitedChunkReader) Read(p []byte) (int, error) {
	if len(r.data) == 0 {
		return 0, io.EOF
	}
	n := r.chunkSize
	if n > len(p) {
		n = len(p)
	}
	if n > len(r.data) {
		n = len(r.data)
	}
	copy(p, r.data[:n])
	r.data = r.data[n:]
	return n, nil
}
