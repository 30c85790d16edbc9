// Package pngio converts PNG streams to and from pixel buffers.
//
// Decoded images keep their sample depth. Truecolor images without an alpha
// channel map to pixel.RGB, images with alpha (including gray+alpha, which
// image/png expands to NRGBA) map to pixel.RGBA. Paletted images are rejected
// since rewriting palette indices would not bound the color distortion.
//
// Encoding an RGBA buffer whose alpha samples are all at the maximum produces a
// truecolor PNG without alpha; the encoder drops alpha for opaque images.
package pngio

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ssargent/stegpng/pkg/pixel"
)

// ErrUnsupportedImage is returned for color types the codec cannot address
var ErrUnsupportedImage = errors.New("unsupported image type")

// Decode reads a PNG stream into a pixel buffer
func Decode(r io.Reader) (*pixel.Buffer, error) {
	img, err := png.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode png: %w", err)
	}
	return FromImage(img)
}

// FromImage copies a decoded image into a pixel buffer
func FromImage(img image.Image) (*pixel.Buffer, error) {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	switch m := img.(type) {
	case *image.Gray:
		buf := pixel.NewBuffer(w, h, pixel.Gray, 8)
		for y := 0; y < h; y++ {
			row := m.Pix[y*m.Stride : y*m.Stride+w]
			for x, v := range row {
				buf.Samples[y*w+x] = uint16(v)
			}
		}
		return buf, nil
	case *image.Gray16:
		buf := pixel.NewBuffer(w, h, pixel.Gray, 16)
		copyWide(buf.Samples, m.Pix, m.Stride, w, h, 1, 1)
		return buf, nil
	case *image.RGBA:
		if !m.Opaque() {
			return nil, fmt.Errorf("%w: premultiplied RGBA with transparency", ErrUnsupportedImage)
		}
		buf := pixel.NewBuffer(w, h, pixel.RGB, 8)
		copyNarrow(buf.Samples, m.Pix, m.Stride, w, h, 4, 3)
		return buf, nil
	case *image.RGBA64:
		if !m.Opaque() {
			return nil, fmt.Errorf("%w: premultiplied RGBA64 with transparency", ErrUnsupportedImage)
		}
		buf := pixel.NewBuffer(w, h, pixel.RGB, 16)
		copyWide(buf.Samples, m.Pix, m.Stride, w, h, 4, 3)
		return buf, nil
	case *image.NRGBA:
		buf := pixel.NewBuffer(w, h, pixel.RGBA, 8)
		copyNarrow(buf.Samples, m.Pix, m.Stride, w, h, 4, 4)
		return buf, nil
	case *image.NRGBA64:
		buf := pixel.NewBuffer(w, h, pixel.RGBA, 16)
		copyWide(buf.Samples, m.Pix, m.Stride, w, h, 4, 4)
		return buf, nil
	case *image.Paletted:
		return nil, fmt.Errorf("%w: paletted images", ErrUnsupportedImage)
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedImage, img)
	}
}

// copyNarrow copies 8-bit samples, keeping the first keep of every stride
// channels per pixel.
func copyNarrow(dst []uint16, pix []byte, stride, w, h, src, keep int) {
	i := 0
	for y := 0; y < h; y++ {
		row := pix[y*stride:]
		for x := 0; x < w; x++ {
			for c := 0; c < keep; c++ {
				dst[i] = uint16(row[x*src+c])
				i++
			}
		}
	}
}

// copyWide is copyNarrow for big-endian 16-bit samples
func copyWide(dst []uint16, pix []byte, stride, w, h, src, keep int) {
	i := 0
	for y := 0; y < h; y++ {
		row := pix[y*stride:]
		for x := 0; x < w; x++ {
			for c := 0; c < keep; c++ {
				o := (x*src + c) * 2
				dst[i] = uint16(row[o])<<8 | uint16(row[o+1])
				i++
			}
		}
	}
}

// ToImage builds an image.Image whose PNG encoding preserves the buffer's
// model and depth.
func ToImage(buf *pixel.Buffer) (image.Image, error) {
	if err := buf.Validate(); err != nil {
		return nil, err
	}
	rect := image.Rect(0, 0, buf.Width, buf.Height)
	s := buf.Samples

	switch {
	case buf.Model == pixel.Gray && buf.Depth == 8:
		m := image.NewGray(rect)
		for i, v := range s {
			m.Pix[i] = uint8(v)
		}
		return m, nil
	case buf.Model == pixel.Gray:
		m := image.NewGray16(rect)
		for i, v := range s {
			m.Pix[i*2], m.Pix[i*2+1] = uint8(v>>8), uint8(v)
		}
		return m, nil
	case buf.Model == pixel.RGB && buf.Depth == 8:
		m := image.NewRGBA(rect)
		for p := 0; p < buf.PixelCount(); p++ {
			m.Pix[p*4], m.Pix[p*4+1], m.Pix[p*4+2] = uint8(s[p*3]), uint8(s[p*3+1]), uint8(s[p*3+2])
			m.Pix[p*4+3] = 0xff
		}
		return m, nil
	case buf.Model == pixel.RGB:
		m := image.NewRGBA64(rect)
		for p := 0; p < buf.PixelCount(); p++ {
			for c := 0; c < 3; c++ {
				v := s[p*3+c]
				m.Pix[p*8+c*2], m.Pix[p*8+c*2+1] = uint8(v>>8), uint8(v)
			}
			m.Pix[p*8+6], m.Pix[p*8+7] = 0xff, 0xff
		}
		return m, nil
	case buf.Model == pixel.RGBA && buf.Depth == 8:
		m := image.NewNRGBA(rect)
		for i, v := range s {
			m.Pix[i] = uint8(v)
		}
		return m, nil
	default:
		m := image.NewNRGBA64(rect)
		for i, v := range s {
			m.Pix[i*2], m.Pix[i*2+1] = uint8(v>>8), uint8(v)
		}
		return m, nil
	}
}

// Encoder writes pixel buffers as PNG
type Encoder struct {
	CompressionLevel png.CompressionLevel
}

// ParseCompressionLevel maps a config name to a png.CompressionLevel
func ParseCompressionLevel(name string) (png.CompressionLevel, error) {
	switch strings.ToLower(name) {
	case "", "default":
		return png.DefaultCompression, nil
	case "none":
		return png.NoCompression, nil
	case "speed", "fast":
		return png.BestSpeed, nil
	case "best":
		return png.BestCompression, nil
	default:
		return 0, fmt.Errorf("unknown png compression level %q", name)
	}
}

// Encode writes buf as PNG to w
func (e *Encoder) Encode(w io.Writer, buf *pixel.Buffer) error {
	img, err := ToImage(buf)
	if err != nil {
		return err
	}
	enc := png.Encoder{CompressionLevel: e.CompressionLevel}
	if err := enc.Encode(w, img); err != nil {
		return fmt.Errorf("failed to encode png: %w", err)
	}
	return nil
}

// Encode writes buf as PNG with default compression
func Encode(w io.Writer, buf *pixel.Buffer) error {
	return (&Encoder{}).Encode(w, buf)
}

// ReadFile decodes the PNG at path
func (e *Encoder) ReadFile(path string) (*pixel.Buffer, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	return Decode(f)
}

// WriteFile encodes buf to path, removing the file again if encoding fails
func (e *Encoder) WriteFile(path string, buf *pixel.Buffer) error {
	f, err := os.Create(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := e.Encode(f, buf); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	return f.Close()
}
