package idb

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/zlib"
	"github.com/multiformats/go-base32"
)

// MaxMessageSize bounds the inflated size of a compressed message.
const MaxMessageSize = 1 << 20

const base32Block = 8

// EncodeTransport encodes data with the standard base32 alphabet and strips
// the trailing '=' padding.
func EncodeTransport(data []byte) string {
	return strings.TrimRight(base32.StdEncoding.EncodeToString(data), "=")
}

// DecodeTransport restores the '=' padding up to the next multiple of eight
// characters and decodes standard base32.
func DecodeTransport(s string) ([]byte, error) {
	if pad := (base32Block - len(s)%base32Block) % base32Block; pad > 0 {
		s += strings.Repeat("=", pad)
	}
	data, err := base32.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTransport, err)
	}
	return data, nil
}

// compress deflates data with zlib framing at maximum compression.
func compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, err := zlib.NewWriterLevel(&buf, zlib.BestCompression)
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// decompress inflates zlib data, refusing output above MaxMessageSize.
func decompress(data []byte) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecompress, err)
	}
	defer r.Close()

	out, err := io.ReadAll(io.LimitReader(r, MaxMessageSize+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecompress, err)
	}
	if len(out) > MaxMessageSize {
		return nil, ErrMessageTooLarge
	}
	return out, nil
}
