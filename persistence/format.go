package persistence

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// MagicNumber identifies snapshot files (ASCII: "LVQ0").
	MagicNumber = 0x4C565130
	// Version is the current file format version.
	Version = 1
)

var (
	ErrInvalidMagic       = errors.New("invalid magic number")
	ErrInvalidVersion     = errors.New("unsupported version")
	ErrInvalidCompression = errors.New("unknown compression")
)

// Compression selects the body compression of a snapshot.
type Compression uint8

const (
	CompressionNone Compression = iota
	CompressionZstd
	CompressionLZ4
)

func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionZstd:
		return "zstd"
	case CompressionLZ4:
		return "lz4"
	default:
		return fmt.Sprintf("Unknown(%d)", uint8(c))
	}
}

// ParseCompression resolves a compression by name.
func ParseCompression(name string) (Compression, error) {
	switch strings.ToLower(name) {
	case "", "none":
		return CompressionNone, nil
	case "zstd":
		return CompressionZstd, nil
	case "lz4":
		return CompressionLZ4, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidCompression, name)
	}
}

// Header flags.
const (
	FlagMasks uint8 = 1 << iota // at least one entry carries a mask
)

// FileHeader is the 32-byte header at the start of every snapshot.
type FileHeader struct {
	Magic       uint32
	Version     uint32
	Compression uint8
	Flags       uint8
	Padding     [2]byte
	Dimension   uint32
	Count       uint64
	Iteration   int64
}
