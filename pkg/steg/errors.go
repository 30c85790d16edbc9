package steg

import "errors"

var (
	// ErrCapacity means the requested bits per channel is not usable with the
	// buffer's channel depth.
	ErrCapacity = errors.New("invalid bits per channel")
	// ErrInsufficientCapacity means the data does not fit the image. Buffers
	// are never modified when it is returned.
	ErrInsufficientCapacity = errors.New("insufficient capacity")
	// ErrAlignment means a bit sequence is not a whole number of bytes.
	ErrAlignment = errors.New("bit count is not a multiple of 8")
	// ErrPayloadChecksum means the recovered payload does not match the
	// checksum recorded in the header.
	ErrPayloadChecksum = errors.New("payload checksum mismatch")
)
