package steg

import (
	"math/rand/v2"

	"github.com/ssargent/stegpng/pkg/pixel"
)

// noisyBuffer returns a buffer filled with deterministic pseudo-random samples
func noisyBuffer(w, h int, model pixel.ColorModel, depth int, seed uint64) *pixel.Buffer {
	buf := pixel.NewBuffer(w, h, model, depth)
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	for i := range buf.Samples {
		buf.Samples[i] = uint16(rng.UintN(uint(buf.MaxValue()) + 1))
	}
	return buf
}

func randomPayload(n int, seed uint64) []byte {
	rng := rand.New(rand.NewPCG(seed, 7))
	p := make([]byte, n)
	for i := range p {
		p[i] = byte(rng.UintN(256))
	}
	return p
}

func absDiff(a, b uint16) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}
