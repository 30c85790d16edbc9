package codec

import (
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"

	"github.com/ssargent/stegpng/pkg/compress"
)

const (
	// Magic marks the first byte of every header
	Magic byte = 0x42
	// Version is the header layout written by this package
	Version byte = 1
	// HeaderSize is the encoded header size in bytes
	HeaderSize = 16
	// HeaderBits is the number of bits the header occupies in the image
	HeaderBits = HeaderSize * 8

	flagCompressionMask = 0x0f
	flagAlpha           = 0x10
	flagReserved        = 0xe0
)

var (
	ErrBadMagic           = errors.New("no stego header: bad magic")
	ErrUnsupportedVersion = errors.New("unsupported header version")
	ErrHeaderChecksum     = errors.New("header checksum mismatch")
	ErrInvalidHeader      = errors.New("invalid header")
)

// Header describes how a payload was embedded
type Header struct {
	Version        byte
	Compression    compress.Type
	UseAlpha       bool   // Payload bits also written to the alpha channel
	BitsPerChannel uint8  // Low bits used per channel in the payload region
	StartPixel     uint32 // First pixel of the payload region
	PayloadCRC     uint32 // CRC32 of the stored payload bytes
	HeaderCRC      uint32 // CRC32 of the preceding header bytes
}

// NewHeader creates a header for a stored payload and computes both checksums
func NewHeader(bits uint8, useAlpha bool, comp compress.Type, startPixel uint32, stored []byte) *Header {
	h := &Header{
		Version:        Version,
		Compression:    comp,
		UseAlpha:       useAlpha,
		BitsPerChannel: bits,
		StartPixel:     startPixel,
		PayloadCRC:     crc32.ChecksumIEEE(stored),
	}
	h.HeaderCRC = h.calculateCRC32()
	return h
}

// Marshal encodes the header
// Format: [Magic(1)][Version(1)][Flags(1)][Bits(1)][StartPixel(4)][PayloadCRC(4)][HeaderCRC(4)]
func (h *Header) Marshal() []byte {
	buf := make([]byte, HeaderSize)
	h.putFields(buf)
	binary.BigEndian.PutUint32(buf[12:], h.HeaderCRC)
	return buf
}

// ParseHeader decodes and validates a header from the first HeaderSize bytes of data
func ParseHeader(data []byte) (*Header, error) {
	if len(data) < HeaderSize {
		return nil, fmt.Errorf("%w: %d bytes, need %d", ErrInvalidHeader, len(data), HeaderSize)
	}
	if data[0] != Magic {
		return nil, fmt.Errorf("%w: found %#02x, want %#02x", ErrBadMagic, data[0], Magic)
	}
	if data[1] != Version {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, data[1])
	}

	stored := binary.BigEndian.Uint32(data[12:16])
	if got := crc32.ChecksumIEEE(data[:12]); got != stored {
		return nil, fmt.Errorf("%w: %#08x != %#08x", ErrHeaderChecksum, stored, got)
	}

	flags := data[2]
	h := &Header{
		Version:        data[1],
		Compression:    compress.Type(flags & flagCompressionMask),
		UseAlpha:       flags&flagAlpha != 0,
		BitsPerChannel: data[3],
		StartPixel:     binary.BigEndian.Uint32(data[4:8]),
		PayloadCRC:     binary.BigEndian.Uint32(data[8:12]),
		HeaderCRC:      stored,
	}

	if flags&flagReserved != 0 {
		return nil, fmt.Errorf("%w: reserved flags %#02x set", ErrInvalidHeader, flags&flagReserved)
	}
	if h.BitsPerChannel < 1 || h.BitsPerChannel > 16 {
		return nil, fmt.Errorf("%w: %d bits per channel", ErrInvalidHeader, h.BitsPerChannel)
	}
	if !h.Compression.Valid() {
		return nil, fmt.Errorf("%w: compression %d", ErrInvalidHeader, h.Compression)
	}

	return h, nil
}

// Validate checks the header checksum
func (h *Header) Validate() error {
	if got := h.calculateCRC32(); got != h.HeaderCRC {
		return fmt.Errorf("%w: %#08x != %#08x", ErrHeaderChecksum, h.HeaderCRC, got)
	}
	return nil
}

// VerifyPayload checks stored against the payload checksum
func (h *Header) VerifyPayload(stored []byte) bool {
	return crc32.ChecksumIEEE(stored) == h.PayloadCRC
}

func (h *Header) flags() byte {
	f := byte(h.Compression) & flagCompressionMask
	if h.UseAlpha {
		f |= flagAlpha
	}
	return f
}

func (h *Header) putFields(buf []byte) {
	buf[0] = Magic
	buf[1] = h.Version
	buf[2] = h.flags()
	buf[3] = h.BitsPerChannel
	binary.BigEndian.PutUint32(buf[4:], h.StartPixel)
	binary.BigEndian.PutUint32(buf[8:], h.PayloadCRC)
}

// calculateCRC32 computes the checksum over every field except HeaderCRC
func (h *Header) calculateCRC32() uint32 {
	var buf [HeaderSize - 4]byte
	h.putFields(buf[:])
	return crc32.ChecksumIEEE(buf[:])
}
