package steg

import "fmt"

// ToBits expands b into one element per bit, most significant bit first.
// Each element is 0 or 1.
func ToBits(b []byte) []byte {
	bits := make([]byte, len(b)*8)
	for i, v := range b {
		for j := 0; j < 8; j++ {
			bits[i*8+j] = (v >> (7 - j)) & 1
		}
	}
	return bits
}

// FromBits packs bits produced by ToBits back into bytes. Only the lowest bit
// of each element is used.
func FromBits(bits []byte) ([]byte, error) {
	if len(bits)%8 != 0 {
		return nil, fmt.Errorf("%w: %d bits", ErrAlignment, len(bits))
	}
	out := make([]byte, len(bits)/8)
	for i := range out {
		var v byte
		for _, bit := range bits[i*8 : i*8+8] {
			v = v<<1 | bit&1
		}
		out[i] = v
	}
	return out, nil
}
