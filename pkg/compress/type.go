package compress

import (
	"errors"
	"fmt"
	"strings"
)

// Type identifies a payload compression algorithm. Values are stored in the
// low nibble of the stego header flags and must stay below 16.
type Type uint8

const (
	None Type = 0x0 // None stores the payload as is.
	Zstd Type = 0x1 // Zstd represents Zstandard compression.
	S2   Type = 0x2 // S2 represents S2 (Snappy-compatible) compression.
	LZ4  Type = 0x3 // LZ4 represents LZ4 block compression.
)

// ErrUnknownType is returned for unrecognised compression names or values
var ErrUnknownType = errors.New("unknown compression type")

func (t Type) String() string {
	switch t {
	case None:
		return "none"
	case Zstd:
		return "zstd"
	case S2:
		return "s2"
	case LZ4:
		return "lz4"
	default:
		return "unknown"
	}
}

// Valid reports whether t is a known compression type
func (t Type) Valid() bool {
	return t <= LZ4
}

// ParseType maps a name such as "zstd" to its Type. The empty string is None.
func ParseType(name string) (Type, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "none":
		return None, nil
	case "zstd":
		return Zstd, nil
	case "s2":
		return S2, nil
	case "lz4":
		return LZ4, nil
	default:
		return None, fmt.Errorf("%w: %q", ErrUnknownType, name)
	}
}
