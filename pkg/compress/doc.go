// Package compress provides optional payload compression applied before a
// payload is framed and embedded.
//
// Image capacity is small, so shrinking the payload directly increases what
// fits in a carrier. The chosen algorithm is recorded in the stego header and
// reversed transparently on decode.
//
// # Supported Algorithms
//
//   - None: payload stored verbatim
//   - Zstd: best ratio (github.com/klauspost/compress/zstd)
//   - S2: fast, Snappy-compatible (github.com/klauspost/compress/s2)
//   - LZ4: fast block compression (github.com/pierrec/lz4/v4)
//
// # Usage
//
//	codec, err := compress.GetCodec(compress.Zstd)
//	if err != nil {
//	    return err
//	}
//	stored, err := codec.Compress(payload)
//
// # Thread Safety
//
// All codecs are safe for concurrent use; zstd and lz4 pool their state.
package compress
