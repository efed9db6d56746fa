package idb

import (
	"bytes"
	"crypto/ecdsa"
	"fmt"
	"time"

	"github.com/backkem/idb/pkg/crypto"
)

// SignatureStatus is the outcome of checking a barcode signature.
type SignatureStatus int

const (
	// SignatureUnchecked means no verification took place: the barcode is
	// unsigned or no public key was available.
	SignatureUnchecked SignatureStatus = iota

	// SignatureValid means the signature verifies over the signed bytes.
	SignatureValid

	// SignatureInvalid means verification was attempted and failed.
	SignatureInvalid
)

// String returns a human-readable representation of the status.
func (s SignatureStatus) String() string {
	switch s {
	case SignatureUnchecked:
		return "Unchecked"
	case SignatureValid:
		return "Valid"
	case SignatureInvalid:
		return "Invalid"
	default:
		return fmt.Sprintf("Unknown(%d)", int(s))
	}
}

// CertificateReference returns the last five bytes of a certificate.
func CertificateReference(certificate []byte) ([CertificateRefLength]byte, error) {
	var ref [CertificateRefLength]byte
	if len(certificate) < CertificateRefLength {
		return ref, ErrInvalidCertificate
	}
	copy(ref[:], certificate[len(certificate)-CertificateRefLength:])
	return ref, nil
}

// newSignatureHeader fills the signed header fields. They must be set
// before the signable bytes are captured.
func newSignatureHeader(alg SignatureAlgorithm, certificate []byte, now time.Time) (*SignatureHeader, error) {
	ref, err := CertificateReference(certificate)
	if err != nil {
		return nil, err
	}
	return &SignatureHeader{
		Algorithm:            alg,
		CertificateReference: ref,
		DateMask:             0x00,
		CreationDate:         FormatDate(now),
	}, nil
}

// Sign computes the ECDSA signature over the signable bytes with the digest
// selected by alg.
func Sign(raw []byte, priv *ecdsa.PrivateKey, alg SignatureAlgorithm) ([]byte, error) {
	if priv == nil {
		return nil, configError("private_key", ErrMissingPrivateKey)
	}
	if !alg.Valid() {
		return nil, configError("signature_algorithm", ErrUnsupportedAlgorithm)
	}
	return crypto.Sign(priv, alg.Hash(), raw)
}

// Verify checks signature over the signable bytes with the digest selected
// by alg.
//
// The returned error is a diagnostic explaining an Unchecked or Invalid
// status; it is nil for Valid.
func Verify(raw, signature []byte, pub *ecdsa.PublicKey, alg SignatureAlgorithm) (SignatureStatus, error) {
	if pub == nil {
		return SignatureUnchecked, ErrNoVerificationKey
	}
	if !alg.Valid() {
		return SignatureInvalid, ErrUnknownAlgorithm
	}
	valid, err := crypto.Verify(pub, alg.Hash(), raw, signature)
	if err != nil {
		return SignatureInvalid, err
	}
	if !valid {
		return SignatureInvalid, ErrSignatureMismatch
	}
	return SignatureValid, nil
}

// verifyMessage checks a parsed signed message. A caller-supplied key takes
// precedence over the embedded certificate.
func verifyMessage(msg *Message, pub *ecdsa.PublicKey) (SignatureStatus, error) {
	sig := msg.Header.Signature
	if sig == nil || msg.Signature == nil {
		return SignatureUnchecked, nil
	}

	if msg.SignerCertificate != nil {
		ref, err := CertificateReference(msg.SignerCertificate)
		if err != nil || !bytes.Equal(ref[:], sig.CertificateReference[:]) {
			return SignatureInvalid, ErrCertificateReferenceMismatch
		}
		if pub == nil {
			embedded, err := crypto.LoadPublicKey(msg.SignerCertificate)
			if err != nil {
				return SignatureUnchecked, fmt.Errorf("%w: %v", ErrNoVerificationKey, err)
			}
			pub = embedded
		}
	}

	return Verify(msg.RawSignable, msg.Signature, pub, sig.Algorithm)
}
