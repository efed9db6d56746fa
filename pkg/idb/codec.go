// Package idb encodes and decodes ICAO barcode datastructures ("NDB1").
//
// A barcode is the text
//
//	"NDB1" | flags | base32([zlib(] header | 0x61 | varint(len) | fields | [cert] | [sig] [)])
//
// The header carries the issuing country and, for signed barcodes, the
// signature algorithm, certificate reference and signing date. The message
// block carries any of: MRZ (TD1 or TD3), card access number and photo.
// Signed barcodes end with an ECDSA signature over the header and message
// block exactly as serialized.
//
// A Codec holds no mutable state. Key material is passed to each Build and
// Parse call, so a Codec may be shared between goroutines.
package idb

import (
	"crypto/ecdsa"
	"time"

	"github.com/backkem/idb/pkg/crypto"
	"github.com/pion/logging"
)

// DefaultSignatureAlgorithm is used when BuildOptions.Algorithm is empty.
const DefaultSignatureAlgorithm = SignatureSHA256

// Config configures a Codec.
type Config struct {
	// LoggerFactory is the factory for creating loggers.
	// If nil, logging is disabled.
	LoggerFactory logging.LoggerFactory

	// Now returns the signing date. If nil, time.Now is used.
	Now func() time.Time
}

// BuildOptions controls how a barcode is built.
type BuildOptions struct {
	// Flags selects signing and compression.
	Flags Flags

	// PrivateKey signs the barcode. Required when Flags.Signed is set.
	PrivateKey *ecdsa.PrivateKey

	// Certificate is the signer certificate (X.509 or SubjectPublicKeyInfo,
	// DER or PEM). Required when Flags.Signed is set; its last five DER
	// bytes become the certificate reference.
	Certificate []byte

	// Algorithm names the signature digest: "sha256", "sha384" or
	// "sha512". Empty selects DefaultSignatureAlgorithm.
	Algorithm string

	// IncludeCertificate embeds Certificate in the barcode so it can be
	// verified without an out-of-band key.
	IncludeCertificate bool
}

// ParseOptions controls how a barcode is parsed.
type ParseOptions struct {
	// PublicKey verifies the signature. If nil, the embedded certificate is
	// used when present.
	PublicKey *ecdsa.PublicKey
}

// Result is a parsed barcode.
type Result struct {
	Flags   Flags
	Message *Message

	// SignatureStatus reports the signature check. Parsing succeeds
	// regardless of its value.
	SignatureStatus SignatureStatus

	// SignatureError explains an Unchecked or Invalid status, if known.
	SignatureError error
}

// Codec builds and parses barcodes.
type Codec struct {
	log logging.LeveledLogger
	now func() time.Time
}

// NewCodec creates a new Codec.
func NewCodec(config Config) *Codec {
	c := &Codec{now: config.Now}
	if c.now == nil {
		c.now = time.Now
	}
	if config.LoggerFactory != nil {
		c.log = config.LoggerFactory.NewLogger("idb")
	}
	return c
}

var defaultCodec = NewCodec(Config{})

// Build encodes block with the default Codec.
func Build(block SignableBlock, opts BuildOptions) ([]byte, error) {
	return defaultCodec.Build(block, opts)
}

// Parse decodes a barcode with the default Codec.
func Parse(data []byte, opts ParseOptions) (*Result, error) {
	return defaultCodec.Parse(data, opts)
}

// signer is the validated key material of a signed build.
type signer struct {
	key         *ecdsa.PrivateKey
	certificate []byte
	algorithm   SignatureAlgorithm
}

func newSigner(opts BuildOptions) (*signer, error) {
	if opts.PrivateKey == nil {
		return nil, configError("private_key", ErrMissingPrivateKey)
	}
	if len(opts.Certificate) == 0 {
		return nil, configError("certificate", ErrMissingCertificate)
	}

	alg := DefaultSignatureAlgorithm
	if opts.Algorithm != "" {
		var err error
		if alg, err = ParseSignatureAlgorithm(opts.Algorithm); err != nil {
			return nil, configError("signature_algorithm", err)
		}
	}

	certificate := crypto.DER(opts.Certificate)
	pub, err := crypto.LoadPublicKey(certificate)
	if err != nil {
		return nil, configError("certificate", ErrInvalidCertificate)
	}
	if !crypto.MatchesPublicKey(opts.PrivateKey, pub) {
		return nil, configError("certificate", ErrKeyMismatch)
	}

	return &signer{key: opts.PrivateKey, certificate: certificate, algorithm: alg}, nil
}

// Build encodes block as barcode text.
//
// For signed barcodes the signature header fields of block are replaced
// with values derived from opts and the current date. Configuration
// problems are reported as *ConfigError before any output is produced.
func (c *Codec) Build(block SignableBlock, opts BuildOptions) ([]byte, error) {
	flags := opts.Flags

	var s *signer
	if flags.Signed {
		var err error
		if s, err = newSigner(opts); err != nil {
			return nil, err
		}
		if block.Header.Signature, err = newSignatureHeader(s.algorithm, s.certificate, c.now()); err != nil {
			return nil, configError("certificate", err)
		}
	} else {
		block.Header.Signature = nil
	}

	raw, err := block.marshal(flags.Signed)
	if err != nil {
		return nil, err
	}

	message := raw
	if s != nil {
		signature, err := Sign(raw, s.key, s.algorithm)
		if err != nil {
			return nil, err
		}
		var certificate []byte
		if opts.IncludeCertificate {
			certificate = s.certificate
		}
		message = appendTrailer(raw, certificate, signature)
	}

	content, err := encodeContent(flags, message)
	if err != nil {
		return nil, err
	}
	env := Envelope{Flags: flags, Content: content}
	out := env.Marshal()

	if c.log != nil {
		c.log.Debugf("built barcode: country=%s flags=%s fields=%v message=%d bytes barcode=%d bytes",
			block.Header.CountryIdentifier, flags, block.Fields.Kinds(), len(message), len(out))
	}
	return out, nil
}

// Parse decodes barcode text.
//
// Structural problems are reported as *FormatError. A bad or unverifiable
// signature is not an error: it is reported through Result.SignatureStatus.
func (c *Codec) Parse(data []byte, opts ParseOptions) (*Result, error) {
	env, err := ParseEnvelope(data)
	if err != nil {
		return nil, err
	}

	content, err := decodeContent(env.Flags, env.Content)
	if err != nil {
		return nil, err
	}

	msg, err := parseMessage(content, env.Flags)
	if err != nil {
		return nil, err
	}

	result := &Result{Flags: env.Flags, Message: msg}
	if env.Flags.Signed {
		result.SignatureStatus, result.SignatureError = verifyMessage(msg, opts.PublicKey)
	}

	if c.log != nil {
		c.log.Debugf("parsed barcode: country=%s flags=%s fields=%v signature=%s",
			msg.Header.CountryIdentifier, env.Flags, msg.Fields.Kinds(), result.SignatureStatus)
		if result.SignatureError != nil {
			c.log.Debugf("signature check: %v", result.SignatureError)
		}
	}
	return result, nil
}
