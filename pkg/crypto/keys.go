package crypto

import (
	"crypto/ecdsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
)

// Key loading errors
var (
	ErrInvalidPrivateKey = errors.New("crypto: invalid private key")
	ErrInvalidPublicKey  = errors.New("crypto: invalid public key")
	ErrUnsupportedKey    = errors.New("crypto: key is not an ECDSA key")
)

// DER returns the DER bytes of data. PEM input is unwrapped to the bytes of
// its first block; anything else is returned unchanged.
func DER(data []byte) []byte {
	if block, _ := pem.Decode(data); block != nil {
		return block.Bytes
	}
	return data
}

// LoadPrivateKey parses an ECDSA private key.
// Accepts SEC 1 ("EC PRIVATE KEY") or PKCS #8 encodings, as DER or PEM.
func LoadPrivateKey(data []byte) (*ecdsa.PrivateKey, error) {
	der := DER(data)

	if key, err := x509.ParseECPrivateKey(der); err == nil {
		return key, nil
	}

	parsed, err := x509.ParsePKCS8PrivateKey(der)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPrivateKey, err)
	}
	key, ok := parsed.(*ecdsa.PrivateKey)
	if !ok {
		return nil, ErrUnsupportedKey
	}
	return key, nil
}

// LoadPublicKey parses an ECDSA public key.
// Accepts an X.509 certificate or a PKIX SubjectPublicKeyInfo, as DER or PEM.
func LoadPublicKey(data []byte) (*ecdsa.PublicKey, error) {
	der := DER(data)

	var parsed any
	if cert, err := x509.ParseCertificate(der); err == nil {
		parsed = cert.PublicKey
	} else {
		parsed, err = x509.ParsePKIXPublicKey(der)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidPublicKey, err)
		}
	}

	key, ok := parsed.(*ecdsa.PublicKey)
	if !ok {
		return nil, ErrUnsupportedKey
	}
	return key, nil
}

// MatchesPublicKey reports whether priv is the private half of pub.
func MatchesPublicKey(priv *ecdsa.PrivateKey, pub *ecdsa.PublicKey) bool {
	if priv == nil || pub == nil {
		return false
	}
	return priv.PublicKey.Equal(pub)
}
