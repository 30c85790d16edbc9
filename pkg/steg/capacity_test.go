package steg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssargent/stegpng/pkg/codec"
	"github.com/ssargent/stegpng/pkg/pixel"
)

func TestCapacity(t *testing.T) {
	bits, err := Capacity(100, 3, 1, 8)
	require.NoError(t, err)
	assert.Equal(t, 300, bits)

	bits, err = Capacity(10, 4, 8, 8)
	require.NoError(t, err)
	assert.Equal(t, 320, bits)

	bits, err = Capacity(10, 1, 16, 16)
	require.NoError(t, err)
	assert.Equal(t, 160, bits)
}

func TestCapacity_RejectsBitsBeyondDepth(t *testing.T) {
	_, err := Capacity(100, 3, 9, 8)
	assert.ErrorIs(t, err, ErrCapacity)

	_, err = Capacity(100, 3, 0, 8)
	assert.ErrorIs(t, err, ErrCapacity)

	_, err = Capacity(-1, 3, 1, 8)
	assert.ErrorIs(t, err, ErrCapacity)
}

func TestHeaderPixels(t *testing.T) {
	assert.Equal(t, 128, HeaderPixels(pixel.Gray))
	assert.Equal(t, 43, HeaderPixels(pixel.RGB))
	assert.Equal(t, 43, HeaderPixels(pixel.RGBA))
	assert.Equal(t, 0, HeaderPixels(pixel.ColorModel(0)))
}

func TestPayloadCapacity(t *testing.T) {
	buf := pixel.NewBuffer(10, 10, pixel.RGBA, 8)

	n, err := PayloadCapacity(buf, Layout{BitsPerChannel: 1})
	require.NoError(t, err)
	// (100-43) pixels * 3 channels = 171 bits, minus the 32-bit length field
	assert.Equal(t, (171-codec.LengthSize*8)/8, n)

	n, err = PayloadCapacity(buf, Layout{BitsPerChannel: 2, IncludeAlpha: true})
	require.NoError(t, err)
	assert.Equal(t, (57*4*2-32)/8, n)

	small := pixel.NewBuffer(4, 4, pixel.RGB, 8)
	n, err = PayloadCapacity(small, Layout{BitsPerChannel: 1})
	require.NoError(t, err)
	assert.Zero(t, n)

	_, err = PayloadCapacity(buf, Layout{BitsPerChannel: 9})
	assert.ErrorIs(t, err, ErrCapacity)
}
