// Package steg hides payloads in the low-order bits of pixel samples.
//
// An embedded image carries two regions. The header region starts at the
// first pixel and stores a codec.Header at one bit per colour channel; alpha
// is never used there so the header can always be located. The payload
// region starts at Header.StartPixel and stores a length-prefixed frame with
// the layout the header describes.
//
// Bits are taken most significant first from each byte. They are written in
// row-major pixel order, channels in stored order, and within a channel from
// the highest used bit down to bit 0. Encoding checks capacity before the
// first write, so a failed Encode leaves the buffer untouched.
package steg

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/ssargent/stegpng/pkg/codec"
	"github.com/ssargent/stegpng/pkg/compress"
	"github.com/ssargent/stegpng/pkg/pixel"
)

// AutoBits asks Encode to pick the smallest bit density that fits the payload.
const AutoBits = 0

// Options control how a payload is embedded
type Options struct {
	BitsPerChannel int // AutoBits or 1..channel depth
	UseAlpha       bool // ignored for buffers without alpha
	Compression    compress.Type
	RandomOffset   bool // place the payload region at a random pixel inside the slack
}

// DefaultOptions returns one bit per colour channel, no compression
func DefaultOptions() Options {
	return Options{BitsPerChannel: 1}
}

// Report describes a completed Encode
type Report struct {
	PayloadBytes  int // bytes supplied by the caller
	StoredBytes   int // bytes after compression
	CapacityBytes int // payload capacity of the image with the chosen layout
	StartPixel    int
	BitsWritten   int // header and frame bits
	Header        *codec.Header
}

// randIntN picks the random start offset; replaced in tests.
var randIntN = rand.IntN

// Encode embeds payload into buf. buf is modified in place on success only.
func Encode(buf *pixel.Buffer, payload []byte, opts Options) (*Report, error) {
	if err := buf.Validate(); err != nil {
		return nil, err
	}
	if opts.BitsPerChannel < AutoBits || opts.BitsPerChannel > buf.Depth {
		return nil, fmt.Errorf("%w: %d bits with %d-bit channels", ErrCapacity, opts.BitsPerChannel, buf.Depth)
	}

	comp, err := compress.GetCodec(opts.Compression)
	if err != nil {
		return nil, err
	}

	headerPixels := HeaderPixels(buf.Model)
	if buf.PixelCount() < headerPixels {
		return nil, fmt.Errorf("%w: header needs %d pixels, image has %d", ErrInsufficientCapacity, headerPixels, buf.PixelCount())
	}

	stored, err := comp.Compress(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to compress payload: %w", err)
	}
	frame, err := codec.FrameBytes(stored)
	if err != nil {
		return nil, err
	}
	frameBits := len(frame) * 8

	layout := Layout{
		BitsPerChannel: opts.BitsPerChannel,
		IncludeAlpha:   opts.UseAlpha && buf.Model.HasAlpha(),
	}
	if layout.BitsPerChannel == AutoBits {
		layout.BitsPerChannel = chooseBits(buf, layout.IncludeAlpha, frameBits)
	}

	capacityBytes, err := PayloadCapacity(buf, layout)
	if err != nil {
		return nil, err
	}

	slack := buf.PixelCount() - headerPixels - layout.pixelsFor(buf.Model, frameBits)
	if slack < 0 {
		return nil, fmt.Errorf("%w: payload needs %d bytes, image holds %d", ErrInsufficientCapacity, len(stored), capacityBytes)
	}

	start := headerPixels
	if opts.RandomOffset && slack > 0 {
		start += randIntN(slack + 1)
	}
	if uint64(start) > math.MaxUint32 {
		return nil, fmt.Errorf("%w: start pixel %d exceeds header range", ErrInsufficientCapacity, start)
	}

	header := codec.NewHeader(uint8(layout.BitsPerChannel), layout.IncludeAlpha, opts.Compression, uint32(start), stored)
	headerBits := ToBits(header.Marshal())

	// both regions were sized above; neither Embed can fail on capacity
	if err := Embed(buf, headerBits, headerLayout, 0); err != nil {
		return nil, err
	}
	if err := Embed(buf, ToBits(frame), layout, start); err != nil {
		return nil, err
	}

	return &Report{
		PayloadBytes:  len(payload),
		StoredBytes:   len(stored),
		CapacityBytes: capacityBytes,
		StartPixel:    start,
		BitsWritten:   len(headerBits) + frameBits,
		Header:        header,
	}, nil
}

// chooseBits returns the smallest density whose payload region holds
// frameBits, or the channel depth when none does.
func chooseBits(buf *pixel.Buffer, alpha bool, frameBits int) int {
	available := buf.PixelCount() - HeaderPixels(buf.Model)
	for bits := 1; bits < buf.Depth; bits++ {
		l := Layout{BitsPerChannel: bits, IncludeAlpha: alpha}
		if l.pixelsFor(buf.Model, frameBits) <= available {
			return bits
		}
	}
	return buf.Depth
}

// ReadHeader extracts and validates the header of an embedded image
func ReadHeader(buf *pixel.Buffer) (*codec.Header, error) {
	if err := buf.Validate(); err != nil {
		return nil, err
	}
	if buf.PixelCount() < HeaderPixels(buf.Model) {
		return nil, fmt.Errorf("%w: image too small to hold a header", codec.ErrInvalidHeader)
	}

	bits, err := Extract(buf, codec.HeaderBits, headerLayout, 0)
	if err != nil {
		return nil, err
	}
	raw, err := FromBits(bits)
	if err != nil {
		return nil, err
	}
	return codec.ParseHeader(raw)
}

// Decode recovers the payload embedded in buf
func Decode(buf *pixel.Buffer) ([]byte, *codec.Header, error) {
	header, stored, err := readStored(buf)
	if err != nil {
		return nil, header, err
	}

	comp, err := compress.GetCodec(header.Compression)
	if err != nil {
		return nil, header, err
	}
	payload, err := comp.Decompress(stored)
	if err != nil {
		return nil, header, fmt.Errorf("failed to decompress payload: %w", err)
	}
	if payload == nil {
		payload = []byte{}
	}
	return payload, header, nil
}

// readStored returns the header and the verified, still compressed payload
func readStored(buf *pixel.Buffer) (*codec.Header, []byte, error) {
	header, err := ReadHeader(buf)
	if err != nil {
		return nil, nil, err
	}

	if int(header.BitsPerChannel) > buf.Depth {
		return header, nil, fmt.Errorf("%w: %d bits with %d-bit channels", codec.ErrInvalidHeader, header.BitsPerChannel, buf.Depth)
	}
	if header.UseAlpha && !buf.Model.HasAlpha() {
		// opaque RGBA images are written without alpha; every alpha sample was at max
		withAlpha, err := buf.WithAlpha()
		if err != nil {
			return header, nil, fmt.Errorf("%w: alpha layout on %s image", codec.ErrInvalidHeader, buf.Model)
		}
		buf = withAlpha
	}

	start := int(header.StartPixel)
	if start < HeaderPixels(buf.Model) || start > buf.PixelCount() {
		return header, nil, fmt.Errorf("%w: start pixel %d outside payload region", codec.ErrInvalidHeader, start)
	}

	layout := Layout{BitsPerChannel: int(header.BitsPerChannel), IncludeAlpha: header.UseAlpha}
	available, err := Capacity(buf.PixelCount()-start, layout.eligible(buf.Model), layout.BitsPerChannel, buf.Depth)
	if err != nil {
		return header, nil, err
	}

	lengthBits, err := Extract(buf, min(codec.LengthSize*8, available), layout, start)
	if err != nil {
		return header, nil, err
	}
	lengthBytes, err := FromBits(lengthBits[:len(lengthBits)/8*8])
	if err != nil {
		return header, nil, err
	}
	declared, err := codec.DeclaredLength(lengthBytes)
	if err != nil {
		return header, nil, err
	}

	availableBytes := uint64(available/8 - codec.LengthSize)
	if uint64(declared) > availableBytes {
		return header, nil, fmt.Errorf("%w: declared %d bytes, %d available", codec.ErrTruncatedPayload, declared, availableBytes)
	}

	frameBits, err := Extract(buf, (codec.LengthSize+int(declared))*8, layout, start)
	if err != nil {
		return header, nil, err
	}
	frame, err := FromBits(frameBits)
	if err != nil {
		return header, nil, err
	}
	stored, err := codec.Unframe(frame)
	if err != nil {
		return header, nil, err
	}

	if !header.VerifyPayload(stored) {
		return header, nil, ErrPayloadChecksum
	}
	return header, stored, nil
}

// IsNotEmbedded reports whether err means buf carries no stego header at all,
// as opposed to a damaged one.
func IsNotEmbedded(err error) bool {
	return errors.Is(err, codec.ErrBadMagic)
}
