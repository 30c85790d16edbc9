package steg

import (
	"fmt"

	"github.com/ssargent/stegpng/pkg/pixel"
)

// cursor walks eligible channels in row-major pixel order, channels in stored
// order, handing out one low-order bit position at a time. Within a channel
// positions run from bit BitsPerChannel-1 down to bit 0.
type cursor struct {
	stride   int // channels per pixel in the buffer
	eligible int // leading channels of each pixel in use
	bits     int // low-order bits used per channel
	base     int // sample index of the current pixel
	channel  int // eligible channel within the current pixel
	bit      int // bits already handed out for the current channel
}

func newCursor(buf *pixel.Buffer, layout Layout, startPixel int) *cursor {
	return &cursor{
		stride:   buf.Channels(),
		eligible: layout.eligible(buf.Model),
		bits:     layout.BitsPerChannel,
		base:     startPixel * buf.Channels(),
	}
}

// next returns the sample index and bit position for the next bit
func (c *cursor) next() (int, uint) {
	idx := c.base + c.channel
	pos := uint(c.bits - 1 - c.bit)

	c.bit++
	if c.bit == c.bits {
		c.bit = 0
		c.channel++
		if c.channel == c.eligible {
			c.channel = 0
			c.base += c.stride
		}
	}
	return idx, pos
}

// checkRegion validates layout and returns the number of bits available from
// startPixel to the end of buf.
func checkRegion(buf *pixel.Buffer, layout Layout, startPixel int) (int, error) {
	if err := buf.Validate(); err != nil {
		return 0, err
	}
	if startPixel < 0 || startPixel > buf.PixelCount() {
		return 0, fmt.Errorf("%w: start pixel %d outside %d pixels", ErrInsufficientCapacity, startPixel, buf.PixelCount())
	}
	return Capacity(buf.PixelCount()-startPixel, layout.eligible(buf.Model), layout.BitsPerChannel, buf.Depth)
}

// Embed writes bits into the low-order bits of buf's eligible channels,
// starting at startPixel. Higher-order bits and every channel past the last
// written bit are left untouched. When bits do not fit, buf is not modified
// and ErrInsufficientCapacity is returned.
func Embed(buf *pixel.Buffer, bits []byte, layout Layout, startPixel int) error {
	available, err := checkRegion(buf, layout, startPixel)
	if err != nil {
		return err
	}
	if len(bits) > available {
		return fmt.Errorf("%w: need %d bits, %d available", ErrInsufficientCapacity, len(bits), available)
	}

	c := newCursor(buf, layout, startPixel)
	for _, bit := range bits {
		idx, pos := c.next()
		mask := uint16(1) << pos
		buf.Samples[idx] = buf.Samples[idx]&^mask | uint16(bit&1)<<pos
	}
	return nil
}

// Extract reads bitCount bits from buf in the same order Embed writes them.
func Extract(buf *pixel.Buffer, bitCount int, layout Layout, startPixel int) ([]byte, error) {
	available, err := checkRegion(buf, layout, startPixel)
	if err != nil {
		return nil, err
	}
	if bitCount < 0 || bitCount > available {
		return nil, fmt.Errorf("%w: need %d bits, %d available", ErrInsufficientCapacity, bitCount, available)
	}

	bits := make([]byte, bitCount)
	c := newCursor(buf, layout, startPixel)
	for i := range bits {
		idx, pos := c.next()
		bits[i] = byte(buf.Samples[idx]>>pos) & 1
	}
	return bits, nil
}
