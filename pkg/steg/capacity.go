package steg

import (
	"fmt"

	"github.com/ssargent/stegpng/pkg/codec"
	"github.com/ssargent/stegpng/pkg/pixel"
)

// Layout selects which channels carry payload bits and how many low-order
// bits of each are used.
type Layout struct {
	BitsPerChannel int
	IncludeAlpha   bool
}

// headerLayout is used for the header region regardless of options.
var headerLayout = Layout{BitsPerChannel: 1}

// eligible returns how many leading channels of each pixel the layout uses.
// Alpha is always the last channel, so eligible channels are a prefix.
func (l Layout) eligible(m pixel.ColorModel) int {
	if l.IncludeAlpha && m.HasAlpha() {
		return m.Channels()
	}
	return m.ColorChannels()
}

// pixelsFor returns how many pixels the layout needs to hold n bits.
func (l Layout) pixelsFor(m pixel.ColorModel, n int) int {
	perPixel := l.eligible(m) * l.BitsPerChannel
	if perPixel == 0 {
		return 0
	}
	return (n + perPixel - 1) / perPixel
}

// Capacity returns the number of bits that fit in pixelCount pixels when
// bitsPerChannel low-order bits of channelsPerPixel channels are used.
func Capacity(pixelCount, channelsPerPixel, bitsPerChannel, channelDepth int) (int, error) {
	if bitsPerChannel < 1 || bitsPerChannel > channelDepth {
		return 0, fmt.Errorf("%w: %d bits with %d-bit channels", ErrCapacity, bitsPerChannel, channelDepth)
	}
	if pixelCount < 0 || channelsPerPixel < 0 {
		return 0, fmt.Errorf("%w: negative pixel or channel count", ErrCapacity)
	}
	return pixelCount * channelsPerPixel * bitsPerChannel, nil
}

// HeaderPixels returns the number of leading pixels reserved for the header.
func HeaderPixels(m pixel.ColorModel) int {
	cc := m.ColorChannels()
	if cc == 0 {
		return 0
	}
	return (codec.HeaderBits + cc - 1) / cc
}

// PayloadCapacity returns how many payload bytes fit in buf with layout once
// the header region and the frame length field are reserved.
func PayloadCapacity(buf *pixel.Buffer, layout Layout) (int, error) {
	pixels := buf.PixelCount() - HeaderPixels(buf.Model)
	if pixels < 0 {
		pixels = 0
	}
	bits, err := Capacity(pixels, layout.eligible(buf.Model), layout.BitsPerChannel, buf.Depth)
	if err != nil {
		return 0, err
	}
	bits -= codec.LengthSize * 8
	if bits < 0 {
		return 0, nil
	}
	return bits / 8, nil
}
