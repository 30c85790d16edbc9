package pngio

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssargent/stegpng/pkg/pixel"
)

func patternBuffer(w, h int, model pixel.ColorModel, depth int) *pixel.Buffer {
	buf := pixel.NewBuffer(w, h, model, depth)
	for i := range buf.Samples {
		v := uint16(i*37 + i/3)
		if depth == 8 {
			v &= 0xff
		}
		buf.Samples[i] = v
	}
	if model.HasAlpha() {
		// keep the image non-opaque so the encoder writes an alpha channel
		buf.Samples[3] = 0
	}
	return buf
}

func TestRoundTripPreservesModelAndDepth(t *testing.T) {
	tests := []struct {
		name  string
		model pixel.ColorModel
		depth int
	}{
		{"gray8", pixel.Gray, 8},
		{"gray16", pixel.Gray, 16},
		{"rgb8", pixel.RGB, 8},
		{"rgb16", pixel.RGB, 16},
		{"rgba8", pixel.RGBA, 8},
		{"rgba16", pixel.RGBA, 16},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := patternBuffer(7, 5, tt.model, tt.depth)

			var out bytes.Buffer
			require.NoError(t, Encode(&out, src))

			got, err := Decode(&out)
			require.NoError(t, err)
			assert.Equal(t, src.Width, got.Width)
			assert.Equal(t, src.Height, got.Height)
			assert.Equal(t, tt.model, got.Model)
			assert.Equal(t, tt.depth, got.Depth)
			assert.Equal(t, src.Samples, got.Samples)
		})
	}
}

func TestOpaqueRGBAEncodesWithoutAlpha(t *testing.T) {
	src := pixel.NewBuffer(2, 2, pixel.RGBA, 8)
	for i := range src.Samples {
		src.Samples[i] = 255
	}

	var out bytes.Buffer
	require.NoError(t, Encode(&out, src))

	got, err := Decode(&out)
	require.NoError(t, err)
	assert.Equal(t, pixel.RGB, got.Model)

	restored, err := got.WithAlpha()
	require.NoError(t, err)
	assert.Equal(t, src.Samples, restored.Samples)
}

func TestDecodeRejectsPaletted(t *testing.T) {
	pal := color.Palette{color.Black, color.White}
	img := image.NewPaletted(image.Rect(0, 0, 2, 2), pal)

	var out bytes.Buffer
	require.NoError(t, png.Encode(&out, img))

	_, err := Decode(&out)
	assert.ErrorIs(t, err, ErrUnsupportedImage)
}

func TestDecodeRejectsGarbage(t *testing.T) {
	_, err := Decode(bytes.NewReader([]byte("not a png")))
	assert.Error(t, err)
}

func TestFromImageHonoursStride(t *testing.T) {
	// a sub-image shares Pix with a wider stride
	parent := image.NewGray(image.Rect(0, 0, 4, 4))
	for i := range parent.Pix {
		parent.Pix[i] = uint8(i)
	}
	sub := parent.SubImage(image.Rect(1, 1, 3, 3)).(*image.Gray)

	buf, err := FromImage(sub)
	require.NoError(t, err)
	assert.Equal(t, []uint16{5, 6, 9, 10}, buf.Samples)
}

func TestParseCompressionLevel(t *testing.T) {
	level, err := ParseCompressionLevel("best")
	require.NoError(t, err)
	assert.Equal(t, png.BestCompression, level)

	level, err = ParseCompressionLevel("")
	require.NoError(t, err)
	assert.Equal(t, png.DefaultCompression, level)

	_, err = ParseCompressionLevel("maximum")
	assert.Error(t, err)
}

func TestReadWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.png")
	src := patternBuffer(3, 3, pixel.RGB, 8)

	enc := &Encoder{CompressionLevel: png.BestSpeed}
	require.NoError(t, enc.WriteFile(path, src))

	got, err := enc.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, src.Samples, got.Samples)

	_, err = enc.ReadFile(filepath.Join(t.TempDir(), "missing.png"))
	assert.Error(t, err)
}
