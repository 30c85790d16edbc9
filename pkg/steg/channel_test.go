package steg

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssargent/stegpng/pkg/codec"
	"github.com/ssargent/stegpng/pkg/pixel"
)

func TestEmbedExtract_FrameRoundTrip(t *testing.T) {
	models := []pixel.ColorModel{pixel.Gray, pixel.RGB, pixel.RGBA}

	for _, model := range models {
		for _, depth := range []int{8, 16} {
			for _, bits := range []int{1, 2, 3, 8} {
				for _, alpha := range []bool{false, true} {
					name := fmt.Sprintf("%s/%d/%dbits/alpha=%t", model, depth, bits, alpha)
					t.Run(name, func(t *testing.T) {
						buf := noisyBuffer(32, 16, model, depth, uint64(bits))
						layout := Layout{BitsPerChannel: bits, IncludeAlpha: alpha}
						payload := randomPayload(40, uint64(depth))

						frame, err := codec.FrameBytes(payload)
						require.NoError(t, err)
						stream := ToBits(frame)

						require.NoError(t, Embed(buf, stream, layout, 0))

						got, err := Extract(buf, len(stream), layout, 0)
						require.NoError(t, err)
						raw, err := FromBits(got)
						require.NoError(t, err)
						out, err := codec.Unframe(raw)
						require.NoError(t, err)
						assert.Equal(t, payload, out)
					})
				}
			}
		}
	}
}

func TestEmbed_DistortionBound(t *testing.T) {
	for _, bits := range []int{1, 2, 4, 7} {
		t.Run(fmt.Sprintf("%dbits", bits), func(t *testing.T) {
			orig := noisyBuffer(20, 20, pixel.RGBA, 8, 99)
			buf := orig.Clone()
			layout := Layout{BitsPerChannel: bits, IncludeAlpha: true}

			available, err := Capacity(buf.PixelCount(), 4, bits, 8)
			require.NoError(t, err)
			stream := ToBits(randomPayload(available/8, 5))

			require.NoError(t, Embed(buf, stream, layout, 0))

			bound := 1<<bits - 1
			for i := range buf.Samples {
				d := absDiff(orig.Samples[i], buf.Samples[i])
				require.LessOrEqual(t, d, bound, "sample %d", i)
				// higher-order bits never change
				require.Equal(t, orig.Samples[i]>>bits, buf.Samples[i]>>bits, "sample %d", i)
			}
		})
	}
}

func TestEmbed_LeavesUnusedChannelsUntouched(t *testing.T) {
	orig := noisyBuffer(10, 10, pixel.RGBA, 8, 3)
	buf := orig.Clone()

	// 7 bits: two full pixels of RGB plus one red channel
	stream := []byte{1, 0, 1, 1, 0, 0, 1}
	require.NoError(t, Embed(buf, stream, Layout{BitsPerChannel: 1}, 2))

	written := map[int]bool{8: true, 9: true, 10: true, 12: true, 13: true, 14: true, 16: true}
	for i := range buf.Samples {
		if written[i] {
			continue
		}
		assert.Equal(t, orig.Samples[i], buf.Samples[i], "sample %d changed", i)
	}

	// alpha channels were skipped
	assert.Equal(t, orig.Samples[11], buf.Samples[11])
	assert.Equal(t, orig.Samples[15], buf.Samples[15])
}

func TestEmbed_PartialGroupWritesHighBitsFirst(t *testing.T) {
	buf := pixel.NewBuffer(1, 1, pixel.Gray, 8)
	require.NoError(t, Embed(buf, []byte{1}, Layout{BitsPerChannel: 3}, 0))

	// the single bit lands at position 2 of the 3-bit slot
	assert.Equal(t, uint16(0b100), buf.Samples[0])

	got, err := Extract(buf, 1, Layout{BitsPerChannel: 3}, 0)
	require.NoError(t, err)
	assert.Equal(t, []byte{1}, got)
}

func TestEmbed_InsufficientCapacityDoesNotMutate(t *testing.T) {
	orig := noisyBuffer(4, 4, pixel.RGB, 8, 11)
	buf := orig.Clone()

	stream := make([]byte, 4*4*3+1)
	for i := range stream {
		stream[i] = 1
	}

	err := Embed(buf, stream, Layout{BitsPerChannel: 1}, 0)
	assert.ErrorIs(t, err, ErrInsufficientCapacity)
	assert.Equal(t, orig.Samples, buf.Samples)

	err = Embed(buf, stream[:3], Layout{BitsPerChannel: 1}, 17)
	assert.ErrorIs(t, err, ErrInsufficientCapacity)
	assert.Equal(t, orig.Samples, buf.Samples)
}

func TestEmbed_RejectsBitsBeyondDepth(t *testing.T) {
	buf := pixel.NewBuffer(4, 4, pixel.RGB, 8)

	err := Embed(buf, []byte{1}, Layout{BitsPerChannel: 9}, 0)
	assert.ErrorIs(t, err, ErrCapacity)
}

func TestExtract_Bounds(t *testing.T) {
	buf := pixel.NewBuffer(2, 2, pixel.Gray, 8)

	bits, err := Extract(buf, 4, Layout{BitsPerChannel: 1}, 0)
	require.NoError(t, err)
	assert.Len(t, bits, 4)

	_, err = Extract(buf, 5, Layout{BitsPerChannel: 1}, 0)
	assert.ErrorIs(t, err, ErrInsufficientCapacity)

	_, err = Extract(buf, -1, Layout{BitsPerChannel: 1}, 0)
	assert.ErrorIs(t, err, ErrInsufficientCapacity)

	bits, err = Extract(buf, 0, Layout{BitsPerChannel: 1}, 4)
	require.NoError(t, err)
	assert.Empty(t, bits)
}

func TestCursor_Order(t *testing.T) {
	buf := pixel.NewBuffer(2, 1, pixel.RGBA, 8)
	c := newCursor(buf, Layout{BitsPerChannel: 2}, 0)

	type step struct {
		idx int
		pos uint
	}
	want := []step{
		{0, 1}, {0, 0}, {1, 1}, {1, 0}, {2, 1}, {2, 0},
		{4, 1}, {4, 0}, {5, 1},
	}
	for i, w := range want {
		idx, pos := c.next()
		assert.Equal(t, w, step{idx, pos}, "step %d", i)
	}
}
