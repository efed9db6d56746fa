package idb

import (
	"fmt"
	"strings"

	"github.com/backkem/idb/pkg/c40"
	"github.com/backkem/idb/pkg/crypto"
	"golang.org/x/crypto/cryptobyte"
)

// Header field sizes.
const (
	countryLength        = 2 // characters
	countryPackedLength  = 2 // bytes
	CertificateRefLength = 5
)

// SignatureAlgorithm is the digest used for the header signature. The wire
// value is the ordinal in the order sha256, sha384, sha512.
type SignatureAlgorithm uint8

const (
	SignatureSHA256 SignatureAlgorithm = iota
	SignatureSHA384
	SignatureSHA512
)

// ParseSignatureAlgorithm looks up an algorithm by name ("sha256", "sha384"
// or "sha512", case-insensitive).
func ParseSignatureAlgorithm(name string) (SignatureAlgorithm, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "sha256":
		return SignatureSHA256, nil
	case "sha384":
		return SignatureSHA384, nil
	case "sha512":
		return SignatureSHA512, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedAlgorithm, name)
	}
}

// Valid reports whether a is a known algorithm.
func (a SignatureAlgorithm) Valid() bool {
	return a <= SignatureSHA512
}

// Hash returns the digest used for signing.
func (a SignatureAlgorithm) Hash() crypto.HashAlgorithm {
	switch a {
	case SignatureSHA384:
		return crypto.SHA384
	case SignatureSHA512:
		return crypto.SHA512
	default:
		return crypto.SHA256
	}
}

// String returns the algorithm name.
func (a SignatureAlgorithm) String() string {
	if !a.Valid() {
		return fmt.Sprintf("unknown(%d)", uint8(a))
	}
	return a.Hash().String()
}

// SignatureHeader holds the header fields that are present only in signed
// barcodes. They are part of the signed data.
type SignatureHeader struct {
	Algorithm SignatureAlgorithm

	// CertificateReference is the last five bytes of the signer certificate.
	CertificateReference [CertificateRefLength]byte

	// DateMask is reserved and always 0x00 when built.
	DateMask byte

	// CreationDate is the signing date as YYYY-MM-DD.
	CreationDate string
}

// Header is the fixed part of the signed block.
type Header struct {
	// CountryIdentifier is the two character issuing country.
	CountryIdentifier string

	// Signature is nil for unsigned barcodes.
	Signature *SignatureHeader
}

// marshal appends the header to b. The signature fields are written iff
// signed is true.
func (h *Header) marshal(b *cryptobyte.Builder, signed bool) error {
	country, err := encodeCountry(h.CountryIdentifier)
	if err != nil {
		return err
	}
	b.AddBytes(country)

	if !signed {
		return nil
	}

	sig := h.Signature
	if sig == nil {
		return configError("signature_header", ErrMissingSignatureField)
	}
	if !sig.Algorithm.Valid() {
		return configError("signature_algorithm", ErrUnsupportedAlgorithm)
	}
	date, err := EncodeDate(sig.CreationDate)
	if err != nil {
		return configError("signature_creation_date", err)
	}

	b.AddUint8(uint8(sig.Algorithm))
	b.AddBytes(sig.CertificateReference[:])
	b.AddUint8(sig.DateMask)
	b.AddBytes(date[:])
	return nil
}

func encodeCountry(country string) ([]byte, error) {
	if country == "" {
		return nil, configError("country_identifier", ErrMissingCountry)
	}
	if len(country) != countryLength || !c40.Valid(country) {
		return nil, configError("country_identifier", fmt.Errorf("%w: %q", ErrInvalidCountry, country))
	}
	return c40.Encode(country)
}

// parseHeader reads the header from s.
func parseHeader(s *cryptobyte.String, signed bool) (Header, error) {
	var h Header

	var country []byte
	if !s.ReadBytes(&country, countryPackedLength) {
		return h, formatError(fieldCountry, ErrUnexpectedEOF)
	}
	text, err := c40.Decode(country)
	if err != nil {
		return h, formatError(fieldCountry, err)
	}
	h.CountryIdentifier = c40.TrimFiller(text)

	if !signed {
		return h, nil
	}

	sig := &SignatureHeader{}

	var alg uint8
	if !s.ReadUint8(&alg) {
		return h, formatError(fieldAlgorithm, ErrUnexpectedEOF)
	}
	sig.Algorithm = SignatureAlgorithm(alg)
	if !sig.Algorithm.Valid() {
		return h, formatError(fieldAlgorithm, fmt.Errorf("%w: %d", ErrUnknownAlgorithm, alg))
	}

	var ref []byte
	if !s.ReadBytes(&ref, CertificateRefLength) {
		return h, formatError(fieldCertReference, ErrUnexpectedEOF)
	}
	copy(sig.CertificateReference[:], ref)

	if !s.ReadUint8(&sig.DateMask) {
		return h, formatError(fieldDateMask, ErrUnexpectedEOF)
	}

	var date []byte
	if !s.ReadBytes(&date, dateSize) {
		return h, formatError(fieldCreationDate, ErrUnexpectedEOF)
	}
	sig.CreationDate = DecodeDate([dateSize]byte(date))

	h.Signature = sig
	return h, nil
}
