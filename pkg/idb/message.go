package idb

import (
	"github.com/backkem/idb/pkg/varint"
	"golang.org/x/crypto/cryptobyte"
)

// Message structure tags.
const (
	tagMessage           = 0x61
	tagSignerCertificate = 0x7E
	tagSignature         = 0x7F
)

// SignableBlock is the part of a message covered by the signature.
type SignableBlock struct {
	Header Header
	Fields FieldSet
}

// Message is the decoded content of an envelope.
type Message struct {
	SignableBlock

	// RawSignable is the signed byte range exactly as it appeared on the
	// wire: header, message marker, VarInt length and fields.
	RawSignable []byte

	// SignerCertificate is the embedded certificate, if any.
	SignerCertificate []byte

	// Signature is the r || s signature; nil for unsigned barcodes.
	Signature []byte
}

// marshal serializes the signable block:
//
//	header | 0x61 | varint(len(fields)) | fields
func (sb *SignableBlock) marshal(signed bool) ([]byte, error) {
	fields, err := sb.Fields.marshal()
	if err != nil {
		return nil, err
	}

	var b cryptobyte.Builder
	if err := sb.Header.marshal(&b, signed); err != nil {
		return nil, err
	}
	b.AddUint8(tagMessage)
	b.AddBytes(varint.Encode(uint64(len(fields))))
	b.AddBytes(fields)
	return b.Bytes()
}

// appendTrailer continues serialization after the captured signable bytes
// with the optional certificate and the signature.
func appendTrailer(raw, certificate, signature []byte) []byte {
	b := cryptobyte.NewBuilder(append([]byte(nil), raw...))
	if certificate != nil {
		b.AddUint8(tagSignerCertificate)
		b.AddBytes(varint.Encode(uint64(len(certificate))))
		b.AddBytes(certificate)
	}
	if signature != nil {
		b.AddUint8(tagSignature)
		b.AddBytes(varint.Encode(uint64(len(signature))))
		b.AddBytes(signature)
	}
	return b.BytesOrPanic()
}

// parseMessage decodes the envelope content. The signable bytes are captured
// verbatim from data rather than re-encoded.
func parseMessage(data []byte, flags Flags) (*Message, error) {
	s := cryptobyte.String(data)
	msg := &Message{}

	header, err := parseHeader(&s, flags.Signed)
	if err != nil {
		return nil, err
	}
	msg.Header = header

	var marker uint8
	if !s.ReadUint8(&marker) {
		return nil, formatError(fieldMessageMarker, ErrUnexpectedEOF)
	}
	if marker != tagMessage {
		return nil, formatError(fieldMessageMarker, ErrUnexpectedTag)
	}

	block, err := readPrefixed(&s, fieldMessage)
	if err != nil {
		return nil, err
	}
	if msg.Fields, err = parseFieldSet(block); err != nil {
		return nil, err
	}
	msg.RawSignable = data[:len(data)-len(s)]

	if flags.Signed {
		if len(s) > 0 && s[0] == tagSignerCertificate {
			s.Skip(1)
			if msg.SignerCertificate, err = readPrefixed(&s, fieldSignerCertificate); err != nil {
				return nil, err
			}
		}

		var tag uint8
		if !s.ReadUint8(&tag) {
			return nil, formatError(fieldSignature, ErrUnexpectedEOF)
		}
		if tag != tagSignature {
			return nil, formatError(fieldSignature, ErrUnexpectedTag)
		}
		if msg.Signature, err = readPrefixed(&s, fieldSignature); err != nil {
			return nil, err
		}
	}

	if !s.Empty() {
		return nil, formatError(fieldContent, ErrTrailingData)
	}
	return msg, nil
}

// readPrefixed reads a VarInt length followed by that many bytes.
func readPrefixed(s *cryptobyte.String, field string) ([]byte, error) {
	n, read, err := varint.Decode(*s)
	if err != nil {
		return nil, formatError(field, err)
	}
	s.Skip(read)

	var out []byte
	if n > uint64(len(*s)) || !s.ReadBytes(&out, int(n)) {
		return nil, formatError(field, ErrUnexpectedEOF)
	}
	return out, nil
}
