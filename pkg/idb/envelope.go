package idb

import "bytes"

// Magic is the envelope marker of an ICAO barcode datastructure, version 1.
const Magic = "NDB1"

// Envelope is the outer layer of a barcode: magic, flags and the
// transport-encoded content.
type Envelope struct {
	Flags Flags

	// Content is the base32 text (without padding) of the optionally
	// compressed message.
	Content []byte
}

// Marshal returns the envelope as barcode text.
func (e *Envelope) Marshal() []byte {
	out := make([]byte, 0, len(Magic)+1+len(e.Content))
	out = append(out, Magic...)
	out = append(out, e.Flags.Byte())
	out = append(out, e.Content...)
	return out
}

// ParseEnvelope splits barcode text into flags and content.
func ParseEnvelope(data []byte) (*Envelope, error) {
	if len(data) < len(Magic) || !bytes.Equal(data[:len(Magic)], []byte(Magic)) {
		return nil, formatError(fieldMagic, ErrInvalidMagic)
	}
	if len(data) == len(Magic) {
		return nil, formatError(fieldFlags, ErrUnexpectedEOF)
	}

	flags, err := ParseFlags(data[len(Magic)])
	if err != nil {
		return nil, formatError(fieldFlags, err)
	}

	return &Envelope{
		Flags:   flags,
		Content: data[len(Magic)+1:],
	}, nil
}

// encodeContent applies the compression tunnel (if flagged) and the
// transport encoding to a serialized message.
func encodeContent(flags Flags, message []byte) ([]byte, error) {
	if flags.Compressed {
		var err error
		if message, err = compress(message); err != nil {
			return nil, err
		}
	}
	return []byte(EncodeTransport(message)), nil
}

// decodeContent reverses encodeContent.
func decodeContent(flags Flags, content []byte) ([]byte, error) {
	message, err := DecodeTransport(string(content))
	if err != nil {
		return nil, formatError(fieldContent, err)
	}
	if flags.Compressed {
		if message, err = decompress(message); err != nil {
			return nil, formatError(fieldContent, err)
		}
	}
	return message, nil
}
