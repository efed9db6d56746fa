package idb

// Flags byte layout: 0x41 + bitmask.
const (
	flagsBase      = 0x41
	flagSigned     = 1 << 0
	flagCompressed = 1 << 1
)

// Flags is the decoded envelope flags byte.
type Flags struct {
	// Signed indicates the header carries signature fields and the message
	// is followed by a signature.
	Signed bool

	// Compressed indicates the message is zlib compressed before transport
	// encoding.
	Compressed bool
}

// Byte returns the wire form: 0x41 (none), 0x42 (signed), 0x43
// (compressed) or 0x44 (both).
func (f Flags) Byte() byte {
	var mask byte
	if f.Signed {
		mask |= flagSigned
	}
	if f.Compressed {
		mask |= flagCompressed
	}
	return flagsBase + mask
}

// ParseFlags decodes a flags byte.
func ParseFlags(b byte) (Flags, error) {
	if b < flagsBase || b > flagsBase+flagSigned+flagCompressed {
		return Flags{}, ErrInvalidFlags
	}
	mask := b - flagsBase
	return Flags{
		Signed:     mask&flagSigned != 0,
		Compressed: mask&flagCompressed != 0,
	}, nil
}

// String returns a human-readable representation of the flags.
func (f Flags) String() string {
	switch {
	case f.Signed && f.Compressed:
		return "signed|compressed"
	case f.Signed:
		return "signed"
	case f.Compressed:
		return "compressed"
	default:
		return "none"
	}
}
