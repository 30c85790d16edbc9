package steg

import (
	"github.com/cespare/xxhash/v2"

	"github.com/ssargent/stegpng/pkg/codec"
	"github.com/ssargent/stegpng/pkg/compress"
	"github.com/ssargent/stegpng/pkg/pixel"
)

// CapacityRow is the payload capacity for one layout
type CapacityRow struct {
	Layout Layout
	Bytes  int
}

// Stat summarises an image and any payload it carries
type Stat struct {
	Width      int
	Height     int
	Model      pixel.ColorModel
	Depth      int
	Capacities []CapacityRow

	Header       *codec.Header // nil when no valid header was found
	HeaderErr    error         // why Header is nil, or why the payload could not be read
	StoredBytes  int
	PayloadBytes int
	Digest       uint64 // xxHash64 of the decoded payload
}

// Embedded reports whether a valid header was found
func (s *Stat) Embedded() bool {
	return s.Header != nil
}

// capacityBits lists the bits-per-channel settings reported by Inspect
var capacityBits = []int{1, 2, 4}

// Inspect reports dimensions, capacity per layout, and the embedded payload
// when one is present. Payload errors are recorded in the Stat rather than
// returned; only an invalid buffer fails.
func Inspect(buf *pixel.Buffer) (*Stat, error) {
	if err := buf.Validate(); err != nil {
		return nil, err
	}

	s := &Stat{
		Width:  buf.Width,
		Height: buf.Height,
		Model:  buf.Model,
		Depth:  buf.Depth,
	}

	alphaOptions := []bool{false}
	if buf.Model.HasAlpha() {
		alphaOptions = append(alphaOptions, true)
	}
	for _, bits := range capacityBits {
		for _, alpha := range alphaOptions {
			layout := Layout{BitsPerChannel: bits, IncludeAlpha: alpha}
			n, err := PayloadCapacity(buf, layout)
			if err != nil {
				continue
			}
			s.Capacities = append(s.Capacities, CapacityRow{Layout: layout, Bytes: n})
		}
	}

	header, stored, err := readStored(buf)
	s.Header = header
	if err != nil {
		s.HeaderErr = err
		return s, nil
	}
	s.StoredBytes = len(stored)

	comp, err := compress.GetCodec(header.Compression)
	if err != nil {
		s.HeaderErr = err
		return s, nil
	}
	payload, err := comp.Decompress(stored)
	if err != nil {
		s.HeaderErr = err
		return s, nil
	}
	s.PayloadBytes = len(payload)
	s.Digest = xxhash.Sum64(payload)

	return s, nil
}
