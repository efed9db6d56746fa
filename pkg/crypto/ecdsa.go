package crypto

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"

	"golang.org/x/crypto/cryptobyte"
	"golang.org/x/crypto/cryptobyte/asn1"
)

// Signature errors
var (
	ErrNilKey                 = errors.New("crypto: nil key")
	ErrInvalidSignatureLength = errors.New("crypto: invalid signature length")
	ErrSignatureConversion    = errors.New("crypto: failed to convert signature format")
)

// SignatureSize returns the length of an r || s signature on curve.
// Each component is zero-padded to the curve's byte size.
func SignatureSize(curve elliptic.Curve) int {
	return 2 * coordinateSize(curve)
}

func coordinateSize(curve elliptic.Curve) int {
	return (curve.Params().BitSize + 7) / 8
}

// Sign signs message using ECDSA over the digest selected by h.
//
// Returns the signature as r || s, each component zero-padded to the
// curve's byte size (64 bytes for P-256).
func Sign(priv *ecdsa.PrivateKey, h HashAlgorithm, message []byte) ([]byte, error) {
	if priv == nil {
		return nil, ErrNilKey
	}

	digest, err := Digest(h, message)
	if err != nil {
		return nil, err
	}

	der, err := ecdsa.SignASN1(rand.Reader, priv, digest)
	if err != nil {
		return nil, fmt.Errorf("ECDSA sign failed: %w", err)
	}

	r, s, err := parseASN1Signature(der)
	if err != nil {
		return nil, err
	}

	size := coordinateSize(priv.Curve)
	sig := make([]byte, 2*size)
	r.FillBytes(sig[:size])
	s.FillBytes(sig[size:])

	return sig, nil
}

// Verify verifies an r || s ECDSA signature over message.
//
// Returns false with a nil error for a well-formed signature that does not
// match. An error is returned only when the inputs cannot be checked at all.
func Verify(pub *ecdsa.PublicKey, h HashAlgorithm, message, signature []byte) (bool, error) {
	if pub == nil {
		return false, ErrNilKey
	}

	size := coordinateSize(pub.Curve)
	if len(signature) != 2*size {
		return false, fmt.Errorf("%w: got %d bytes, want %d", ErrInvalidSignatureLength, len(signature), 2*size)
	}

	digest, err := Digest(h, message)
	if err != nil {
		return false, err
	}

	r := new(big.Int).SetBytes(signature[:size])
	s := new(big.Int).SetBytes(signature[size:])

	var b cryptobyte.Builder
	b.AddASN1(asn1.SEQUENCE, func(b *cryptobyte.Builder) {
		b.AddASN1BigInt(r)
		b.AddASN1BigInt(s)
	})
	der, err := b.Bytes()
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrSignatureConversion, err)
	}

	return ecdsa.VerifyASN1(pub, digest, der), nil
}

// parseASN1Signature extracts r and s from a DER ECDSA-Sig-Value.
func parseASN1Signature(der []byte) (*big.Int, *big.Int, error) {
	var (
		inner cryptobyte.String
		r     = new(big.Int)
		s     = new(big.Int)
	)
	input := cryptobyte.String(der)
	if !input.ReadASN1(&inner, asn1.SEQUENCE) ||
		!input.Empty() ||
		!inner.ReadASN1Integer(r) ||
		!inner.ReadASN1Integer(s) ||
		!inner.Empty() {
		return nil, nil, ErrSignatureConversion
	}
	return r, s, nil
}
