// Package frame implements the wire framing the plugin speaks with the
// FSM: a 4-byte big-endian length prefix followed by that many bytes of
// protobuf-encoded message. It applies to both directions and carries no
// separator, checksum or version byte — the message itself carries the
// kind discriminator.
package frame

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

const headerLen = 4

var (
	ErrShortHeader     = errors.New("frame: short length prefix")
	ErrPayloadTooLarge = errors.New("frame: payload too large")
)

// DefaultMaxPayloadBytes bounds a single decoded frame. The FSM state-read
// and state-write batches are the largest messages on this wire; 16MiB is
// comfortably above anything the send contract produces in one call.
const DefaultMaxPayloadBytes = 16 * 1024 * 1024

// ReadFrame reads exactly one frame from r: a 4-byte big-endian length
// prefix, then that many payload bytes. It blocks until the full frame is
// available; no partial frame is ever returned.
func ReadFrame(r io.Reader, maxPayloadBytes uint32) ([]byte, error) {
	var lenBuf [headerLen]byte
	if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, ErrShortHeader
		}
		return nil, err
	}
	n := binary.BigEndian.Uint32(lenBuf[:])
	if maxPayloadBytes > 0 && n > maxPayloadBytes {
		return nil, fmt.Errorf("%w: %d", ErrPayloadTooLarge, n)
	}
	payload := make([]byte, n)
	if n > 0 {
		if _, err := io.ReadFull(r, payload); err != nil {
			return nil, err
		}
	}
	return payload, nil
}

// WriteFrame writes one frame to w as a single composed buffer so the
// length prefix and payload are never interleaved with a concurrent
// writer on a shared connection.
func WriteFrame(w io.Writer, payload []byte) error {
	buf := make([]byte, headerLen+len(payload))
	binary.BigEndian.PutUint32(buf[:headerLen], uint32(len(payload)))
	copy(buf[headerLen:], payload)
	_, err := w.Write(buf)
	return err
}
