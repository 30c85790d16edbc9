package pngio

import (
	"io"

	"github.com/ssargent/stegpng/pkg/pixel"
)

// ImageCodec reads and writes carrier images
type ImageCodec interface {
	Decode(r io.Reader) (*pixel.Buffer, error)
	Encode(w io.Writer, buf *pixel.Buffer) error
	ReadFile(path string) (*pixel.Buffer, error)
	WriteFile(path string, buf *pixel.Buffer) error
}

var _ ImageCodec = (*Encoder)(nil)

// CodecFactory creates image codecs from a named PNG compression level
type CodecFactory interface {
	CreateCodec(compressionLevel string) (ImageCodec, error)
}

// DefaultCodecFactory is the default implementation of CodecFactory
type DefaultCodecFactory struct{}

// NewCodecFactory creates a new codec factory
func NewCodecFactory() CodecFactory {
	return &DefaultCodecFactory{}
}

// CreateCodec returns a PNG encoder configured with the named level
func (f *DefaultCodecFactory) CreateCodec(compressionLevel string) (ImageCodec, error) {
	level, err := ParseCompressionLevel(compressionLevel)
	if err != nil {
		return nil, err
	}
	return &Encoder{CompressionLevel: level}, nil
}

// Decode reads a PNG stream into a pixel buffer
func (e *Encoder) Decode(r io.Reader) (*pixel.Buffer, error) {
	return Decode(r)
}
