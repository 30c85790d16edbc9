package compress

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sync"

	"github.com/pierrec/lz4/v4"
)

const (
	lz4ModeRaw   byte = 0
	lz4ModeBlock byte = 1
	lz4Prefix         = 5 // mode(1) + decoded length(4)
)

var errLZ4Corrupt = errors.New("lz4: corrupt block")

var lz4CompressorPool = sync.Pool{
	New: func() any {
		return &lz4.Compressor{}
	},
}

// LZ4Compressor stores LZ4 blocks prefixed with a mode byte and the
// big-endian decoded length. Incompressible input is stored raw.
//
// Format: [Mode(1)][DecodedLength(4)][Data]
type LZ4Compressor struct{}

var _ Codec = (*LZ4Compressor)(nil)

// NewLZ4Compressor creates a new LZ4 compressor.
func NewLZ4Compressor() LZ4Compressor {
	return LZ4Compressor{}
}

// Compress compresses data with a pooled lz4.Compressor.
func (c LZ4Compressor) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	dst := make([]byte, lz4Prefix+lz4.CompressBlockBound(len(data)))
	binary.BigEndian.PutUint32(dst[1:], uint32(len(data)))

	lc, _ := lz4CompressorPool.Get().(*lz4.Compressor)
	defer lz4CompressorPool.Put(lc)

	n, err := lc.CompressBlock(data, dst[lz4Prefix:])
	if err != nil {
		return nil, err
	}
	if n == 0 || n >= len(data) {
		dst[0] = lz4ModeRaw
		n = copy(dst[lz4Prefix:], data)
	} else {
		dst[0] = lz4ModeBlock
	}

	return dst[:lz4Prefix+n], nil
}

// Decompress reverses Compress.
func (c LZ4Compressor) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}
	if len(data) < lz4Prefix {
		return nil, fmt.Errorf("%w: %d bytes", errLZ4Corrupt, len(data))
	}

	size := binary.BigEndian.Uint32(data[1:lz4Prefix])
	body := data[lz4Prefix:]

	switch data[0] {
	case lz4ModeRaw:
		if uint32(len(body)) != size {
			return nil, fmt.Errorf("%w: raw length %d != %d", errLZ4Corrupt, len(body), size)
		}
		out := make([]byte, size)
		copy(out, body)
		return out, nil
	case lz4ModeBlock:
		if size > maxDecodedSize {
			return nil, fmt.Errorf("%w: decoded length %d too large", errLZ4Corrupt, size)
		}
		out := make([]byte, size)
		n, err := lz4.UncompressBlock(body, out)
		if err != nil {
			return nil, fmt.Errorf("lz4 decompression failed: %w", err)
		}
		if uint32(n) != size {
			return nil, fmt.Errorf("%w: decoded %d bytes, want %d", errLZ4Corrupt, n, size)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: mode %d", errLZ4Corrupt, data[0])
	}
}
