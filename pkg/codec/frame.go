package codec

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

// LengthSize is the width of the frame length field in bytes
const LengthSize = 4

var (
	// ErrTruncatedPayload means the declared length exceeds the bytes available
	ErrTruncatedPayload = errors.New("truncated payload")
	// ErrPayloadTooLarge means the payload cannot be described by the length field
	ErrPayloadTooLarge = errors.New("payload too large")
)

// Frame is a length-prefixed payload
type Frame struct {
	Length  uint32 // Declared payload length in bytes
	Payload []byte // Payload data
}

// FrameCodec handles serialization and deserialization of frames
type FrameCodec struct{}

// NewFrameCodec creates a new frame codec instance
func NewFrameCodec() *FrameCodec {
	return &FrameCodec{}
}

// Encode serializes a payload into a frame
// Format: [Length(4, big-endian)][Payload]
func (c *FrameCodec) Encode(payload []byte) ([]byte, error) {
	f, err := NewFrame(payload)
	if err != nil {
		return nil, err
	}

	buf := make([]byte, f.Size())
	binary.BigEndian.PutUint32(buf[0:], f.Length)
	copy(buf[LengthSize:], f.Payload)

	return buf, nil
}

// Decode deserializes a frame. The payload aliases data.
func (c *FrameCodec) Decode(data []byte) (*Frame, error) {
	length, err := DeclaredLength(data)
	if err != nil {
		return nil, err
	}

	available := uint64(len(data) - LengthSize)
	if uint64(length) > available {
		return nil, fmt.Errorf("%w: declared %d bytes, %d available", ErrTruncatedPayload, length, available)
	}

	return &Frame{
		Length:  length,
		Payload: data[LengthSize : LengthSize+int(length)],
	}, nil
}

// Size returns the total size of the frame when encoded
func (f *Frame) Size() int {
	return LengthSize + len(f.Payload)
}

// NewFrame wraps payload, failing if its length does not fit the length field
func NewFrame(payload []byte) (*Frame, error) {
	if uint64(len(payload)) > math.MaxUint32 {
		return nil, fmt.Errorf("%w: %d bytes", ErrPayloadTooLarge, len(payload))
	}
	return &Frame{
		Length:  uint32(len(payload)),
		Payload: payload,
	}, nil
}

// DeclaredLength reads the length field at the start of data
func DeclaredLength(data []byte) (uint32, error) {
	if len(data) < LengthSize {
		return 0, fmt.Errorf("%w: %d bytes is shorter than the length field", ErrTruncatedPayload, len(data))
	}
	return binary.BigEndian.Uint32(data[:LengthSize]), nil
}

// FrameBytes returns payload prefixed with its length
func FrameBytes(payload []byte) ([]byte, error) {
	return NewFrameCodec().Encode(payload)
}

// Unframe returns the payload of a frame verbatim
func Unframe(data []byte) ([]byte, error) {
	f, err := NewFrameCodec().Decode(data)
	if err != nil {
		return nil, err
	}
	return f.Payload, nil
}
