// Package crypto provides the cryptographic primitives used to sign and
// verify barcode datastructures: ECDSA with a selectable SHA-2 digest and
// loading of DER or PEM encoded key material.
package crypto

import (
	"crypto/sha256"
	"crypto/sha512"
	"errors"
	"fmt"
	"hash"
)

// Digest lengths in bytes.
const (
	SHA256LenBytes = 32
	SHA384LenBytes = 48
	SHA512LenBytes = 64
)

// ErrUnsupportedHash is returned for an unknown HashAlgorithm.
var ErrUnsupportedHash = errors.New("crypto: unsupported hash algorithm")

// HashAlgorithm selects the digest computed over a message before signing.
type HashAlgorithm uint8

const (
	SHA256 HashAlgorithm = iota
	SHA384
	SHA512
)

// String returns the lower case algorithm name.
func (h HashAlgorithm) String() string {
	switch h {
	case SHA256:
		return "sha256"
	case SHA384:
		return "sha384"
	case SHA512:
		return "sha512"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(h))
	}
}

// Size returns the digest length in bytes, or 0 for an unknown algorithm.
func (h HashAlgorithm) Size() int {
	switch h {
	case SHA256:
		return SHA256LenBytes
	case SHA384:
		return SHA384LenBytes
	case SHA512:
		return SHA512LenBytes
	default:
		return 0
	}
}

// New returns a hash.Hash for incremental hashing.
func (h HashAlgorithm) New() (hash.Hash, error) {
	switch h {
	case SHA256:
		return sha256.New(), nil
	case SHA384:
		return sha512.New384(), nil
	case SHA512:
		return sha512.New(), nil
	default:
		return nil, ErrUnsupportedHash
	}
}

// Digest computes the digest of message with h.
func Digest(h HashAlgorithm, message []byte) ([]byte, error) {
	hh, err := h.New()
	if err != nil {
		return nil, err
	}
	hh.Write(message)
	return hh.Sum(nil), nil
}
