// Package codec provides the binary formats stegpng writes into pixel data.
//
// Two structures are embedded in every stego image: a fixed-size header that
// describes how the payload was written, and a length-prefixed frame that
// carries the payload itself.
//
// # Header Format
//
// The header is 16 bytes, written at one bit per colour channel starting at
// the first pixel:
//
//	[Magic(1)][Version(1)][Flags(1)][Bits(1)][StartPixel(4)][PayloadCRC(4)][HeaderCRC(4)]
//
// Fields:
//   - Magic: always 0x42
//   - Version: header layout version, currently 1
//   - Flags: low nibble is the compression type, bit 4 marks alpha usage,
//     bits 5-7 are reserved and must be zero
//   - Bits: low-order bits used per channel in the payload region (1-16)
//   - StartPixel: first pixel of the payload region (big-endian)
//   - PayloadCRC: CRC32 (IEEE) of the stored payload bytes (big-endian)
//   - HeaderCRC: CRC32 (IEEE) of the preceding 12 bytes (big-endian)
//
// # Frame Format
//
// Frames are written into the payload region:
//
//	[Length(4)][Payload]
//
// Length is a 32-bit unsigned big-endian integer giving the payload size in
// bytes. An empty payload encodes as a frame of four zero bytes.
//
// # Usage
//
//	framed, err := codec.FrameBytes(payload)
//	if err != nil {
//	    return err
//	}
//
//	payload, err := codec.Unframe(framed)
//	if errors.Is(err, codec.ErrTruncatedPayload) {
//	    // declared length exceeds the data available
//	}
//
// # Error Handling
//
// Every decoding failure wraps one of the exported sentinel errors so callers
// can branch with errors.Is. Decoding never reads past the supplied slice.
package codec
