package idb

import (
	"errors"
	"fmt"
)

// Format errors. These abort a parse and are wrapped in a *FormatError
// naming the offending field.
var (
	ErrInvalidMagic     = errors.New("idb: invalid magic (expected NDB1)")
	ErrInvalidFlags     = errors.New("idb: invalid flags byte")
	ErrUnexpectedEOF    = errors.New("idb: unexpected end of input")
	ErrUnexpectedTag    = errors.New("idb: unexpected tag")
	ErrInvalidLength    = errors.New("idb: invalid field length")
	ErrTrailingData     = errors.New("idb: trailing data after message")
	ErrInvalidTransport = errors.New("idb: invalid base32 content")
	ErrDecompress       = errors.New("idb: decompression failed")
	ErrMessageTooLarge  = errors.New("idb: decompressed message too large")
	ErrUnknownAlgorithm = errors.New("idb: unknown signature algorithm")
)

// Configuration errors. These abort a build before any output is produced
// and are wrapped in a *ConfigError naming the offending option.
var (
	ErrMissingCountry        = errors.New("idb: country identifier is required")
	ErrInvalidCountry        = errors.New("idb: country identifier must be 2 characters of [A-Z0-9 ]")
	ErrInvalidText           = errors.New("idb: text contains characters outside the C40 basic set")
	ErrTextLength            = errors.New("idb: text does not pack to the field length")
	ErrMissingPrivateKey     = errors.New("idb: signing requires a private key")
	ErrMissingCertificate    = errors.New("idb: signing requires a certificate")
	ErrInvalidCertificate    = errors.New("idb: certificate does not hold an ECDSA public key")
	ErrKeyMismatch           = errors.New("idb: private key does not match certificate")
	ErrUnsupportedAlgorithm  = errors.New("idb: unsupported signature algorithm")
	ErrMissingSignatureField = errors.New("idb: signed header requires signature fields")
	ErrInvalidDate           = errors.New("idb: invalid date (expected YYYY-MM-DD)")
)

// Signature diagnostics. These never fail a parse; they accompany a
// SignatureStatus in Result.SignatureError.
var (
	ErrNoVerificationKey            = errors.New("idb: no public key available to verify signature")
	ErrSignatureMismatch            = errors.New("idb: signature does not match signed data")
	ErrCertificateReferenceMismatch = errors.New("idb: certificate reference does not match embedded certificate")
)

// Field paths used in FormatError.
const (
	fieldMagic             = "magic"
	fieldFlags             = "flags"
	fieldContent           = "content"
	fieldCountry           = "content.header.country_identifier"
	fieldAlgorithm         = "content.header.signature_algorithm"
	fieldCertReference     = "content.header.certificate_reference"
	fieldDateMask          = "content.header.date_mask"
	fieldCreationDate      = "content.header.signature_creation_date"
	fieldMessageMarker     = "content.message_marker"
	fieldMessage           = "content.message"
	fieldSignerCertificate = "content.signer_certificate"
	fieldSignature         = "content.signature"
)

// FormatError reports a structural problem in an encoded barcode.
type FormatError struct {
	// Field is the dotted path of the field being decoded.
	Field string
	Err   error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("idb: malformed %s: %v", e.Field, e.Err)
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

// ConfigError reports a build request that cannot produce a barcode.
type ConfigError struct {
	// Option names the offending input (e.g. "private_key", "mrz_td1").
	Option string
	Err    error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("idb: invalid %s: %v", e.Option, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// IsFormatError reports whether err is (or wraps) a *FormatError.
func IsFormatError(err error) bool {
	var fe *FormatError
	return errors.As(err, &fe)
}

// IsConfigError reports whether err is (or wraps) a *ConfigError.
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}

func formatError(field string, err error) error {
	return &FormatError{Field: field, Err: err}
}

func configError(option string, err error) error {
	return &ConfigError{Option: option, Err: err}
}
