// Package pixel defines the decoded pixel buffer shared by the PNG layer and
// the embedding codec.
package pixel

import (
	"errors"
	"fmt"
)

// ColorModel is the channel layout of a Buffer
type ColorModel uint8

const (
	Gray ColorModel = iota + 1 // one luminance channel
	RGB                        // red, green, blue
	RGBA                       // red, green, blue, alpha
)

// ErrInvalidBuffer is returned by Validate for inconsistent buffers
var ErrInvalidBuffer = errors.New("invalid pixel buffer")

// Channels returns the number of channels per pixel
func (m ColorModel) Channels() int {
	switch m {
	case Gray:
		return 1
	case RGB:
		return 3
	case RGBA:
		return 4
	default:
		return 0
	}
}

// ColorChannels returns the number of non-alpha channels per pixel
func (m ColorModel) ColorChannels() int {
	if m == RGBA {
		return 3
	}
	return m.Channels()
}

// HasAlpha reports whether the last channel of each pixel is alpha
func (m ColorModel) HasAlpha() bool {
	return m == RGBA
}

func (m ColorModel) String() string {
	switch m {
	case Gray:
		return "Gray"
	case RGB:
		return "RGB"
	case RGBA:
		return "RGBA"
	default:
		return "Unknown"
	}
}

// Buffer is a decoded image: one sample per channel per pixel, row-major,
// channels in stored order. Samples hold 8-bit or 16-bit values.
type Buffer struct {
	Width   int
	Height  int
	Model   ColorModel
	Depth   int // bits per channel, 8 or 16
	Samples []uint16
}

// NewBuffer allocates a zeroed buffer
func NewBuffer(width, height int, model ColorModel, depth int) *Buffer {
	return &Buffer{
		Width:   width,
		Height:  height,
		Model:   model,
		Depth:   depth,
		Samples: make([]uint16, width*height*model.Channels()),
	}
}

// Channels returns the number of channels per pixel
func (b *Buffer) Channels() int {
	return b.Model.Channels()
}

// PixelCount returns Width*Height
func (b *Buffer) PixelCount() int {
	return b.Width * b.Height
}

// SampleCount returns the number of channel samples in the buffer
func (b *Buffer) SampleCount() int {
	return len(b.Samples)
}

// MaxValue returns the largest value a sample can hold
func (b *Buffer) MaxValue() uint16 {
	return uint16(1<<b.Depth - 1)
}

// Validate checks dimensions, depth and sample count agree
func (b *Buffer) Validate() error {
	if b.Width < 0 || b.Height < 0 {
		return fmt.Errorf("%w: negative dimensions %dx%d", ErrInvalidBuffer, b.Width, b.Height)
	}
	if b.Model.Channels() == 0 {
		return fmt.Errorf("%w: unknown color model %d", ErrInvalidBuffer, b.Model)
	}
	if b.Depth != 8 && b.Depth != 16 {
		return fmt.Errorf("%w: unsupported depth %d", ErrInvalidBuffer, b.Depth)
	}
	if want := b.PixelCount() * b.Channels(); len(b.Samples) != want {
		return fmt.Errorf("%w: %d samples, want %d", ErrInvalidBuffer, len(b.Samples), want)
	}
	return nil
}

// Clone returns a deep copy of the buffer
func (b *Buffer) Clone() *Buffer {
	c := *b
	c.Samples = make([]uint16, len(b.Samples))
	copy(c.Samples, b.Samples)
	return &c
}

// WithAlpha returns an RGBA copy of an RGB buffer with every alpha sample at
// MaxValue. Buffers that already carry alpha are returned as is.
func (b *Buffer) WithAlpha() (*Buffer, error) {
	switch b.Model {
	case RGBA:
		return b, nil
	case RGB:
	default:
		return nil, fmt.Errorf("%w: cannot add alpha to %s", ErrInvalidBuffer, b.Model)
	}

	out := NewBuffer(b.Width, b.Height, RGBA, b.Depth)
	maxVal := b.MaxValue()
	for p := 0; p < b.PixelCount(); p++ {
		copy(out.Samples[p*4:p*4+3], b.Samples[p*3:p*3+3])
		out.Samples[p*4+3] = maxVal
	}
	return out, nil
}
