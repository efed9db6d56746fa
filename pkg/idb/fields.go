package idb

import (
	"fmt"
	"strings"

	"github.com/backkem/idb/pkg/c40"
	"github.com/backkem/idb/pkg/varint"
	"golang.org/x/crypto/cryptobyte"
)

// Message field tags.
const (
	tagMRZTD1 = 0x07
	tagMRZTD3 = 0x08
	tagCAN    = 0x09
	tagPhoto  = 0xF0
)

// Packed lengths of the fixed-size text fields.
const (
	MRZPackedLength = 60
	CANPackedLength = 4
)

// FieldKind identifies an entry of the message block.
type FieldKind uint8

const (
	FieldMRZTD1 FieldKind = iota
	FieldMRZTD3
	FieldCAN
	FieldPhoto
)

// String returns the field name.
func (k FieldKind) String() string {
	switch k {
	case FieldMRZTD1:
		return "mrz_td1"
	case FieldMRZTD3:
		return "mrz_td3"
	case FieldCAN:
		return "can"
	case FieldPhoto:
		return "photo"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(k))
	}
}

// FieldSet holds the optional entries of the message block. Empty strings
// and a nil Photo are absent.
//
// Text fields use '<' as the filler character, as printed in an MRZ.
type FieldSet struct {
	MRZTD1 string
	MRZTD3 string
	CAN    string
	Photo  []byte
}

// Kinds returns the present fields in wire order.
func (f *FieldSet) Kinds() []FieldKind {
	var kinds []FieldKind
	for _, fc := range fieldCodecs {
		if fc.present(f) {
			kinds = append(kinds, fc.kind)
		}
	}
	return kinds
}

// fieldCodec encodes and decodes one tagged entry.
//
// Text entries are tag, packed length, C40 text. The photo entry is tag,
// VarInt length, raw bytes.
type fieldCodec struct {
	kind FieldKind
	tag  byte

	// packedLen is the fixed C40 length; 0 marks the length-prefixed photo.
	packedLen int

	text func(f *FieldSet) *string
}

// fieldCodecs lists the entries in the order they appear on the wire.
// The decoder probes each tag once, in this order.
var fieldCodecs = [...]fieldCodec{
	{kind: FieldMRZTD1, tag: tagMRZTD1, packedLen: MRZPackedLength, text: func(f *FieldSet) *string { return &f.MRZTD1 }},
	{kind: FieldMRZTD3, tag: tagMRZTD3, packedLen: MRZPackedLength, text: func(f *FieldSet) *string { return &f.MRZTD3 }},
	{kind: FieldCAN, tag: tagCAN, packedLen: CANPackedLength, text: func(f *FieldSet) *string { return &f.CAN }},
	{kind: FieldPhoto, tag: tagPhoto},
}

func (fc *fieldCodec) present(f *FieldSet) bool {
	if fc.text == nil {
		return f.Photo != nil
	}
	return *fc.text(f) != ""
}

func (fc *fieldCodec) path() string {
	return fieldMessage + "." + fc.kind.String()
}

func (fc *fieldCodec) marshal(b *cryptobyte.Builder, f *FieldSet) error {
	if fc.text == nil {
		b.AddUint8(fc.tag)
		b.AddBytes(varint.Encode(uint64(len(f.Photo))))
		b.AddBytes(f.Photo)
		return nil
	}

	text := strings.ReplaceAll(*fc.text(f), "<", " ")
	if !c40.Valid(text) {
		return configError(fc.kind.String(), ErrInvalidText)
	}
	packed, err := c40.Encode(text)
	if err != nil {
		return configError(fc.kind.String(), err)
	}
	if len(packed) != fc.packedLen {
		return configError(fc.kind.String(),
			fmt.Errorf("%w: %d bytes, want %d", ErrTextLength, len(packed), fc.packedLen))
	}

	b.AddUint8(fc.tag)
	b.AddUint8(uint8(fc.packedLen))
	b.AddBytes(packed)
	return nil
}

// unmarshal reads the entry after its tag has been consumed.
func (fc *fieldCodec) unmarshal(s *cryptobyte.String, f *FieldSet) error {
	if fc.text == nil {
		photo, err := readPrefixed(s, fc.path())
		if err != nil {
			return err
		}
		f.Photo = photo
		return nil
	}

	var length uint8
	if !s.ReadUint8(&length) {
		return formatError(fc.path(), ErrUnexpectedEOF)
	}
	if int(length) != fc.packedLen {
		return formatError(fc.path(), fmt.Errorf("%w: %d, want %d", ErrInvalidLength, length, fc.packedLen))
	}

	var packed []byte
	if !s.ReadBytes(&packed, fc.packedLen) {
		return formatError(fc.path(), ErrUnexpectedEOF)
	}
	text, err := c40.Decode(packed)
	if err != nil {
		return formatError(fc.path(), err)
	}
	*fc.text(f) = strings.ReplaceAll(c40.TrimFiller(text), " ", "<")
	return nil
}

// marshal encodes the present fields in wire order.
func (f *FieldSet) marshal() ([]byte, error) {
	var b cryptobyte.Builder
	for i := range fieldCodecs {
		fc := &fieldCodecs[i]
		if !fc.present(f) {
			continue
		}
		if err := fc.marshal(&b, f); err != nil {
			return nil, err
		}
	}
	return b.Bytes()
}

// parseFieldSet decodes a message block. Each candidate tag is probed once
// at the current offset; a candidate whose tag does not match contributes
// nothing and the next one is tried.
func parseFieldSet(data []byte) (FieldSet, error) {
	var f FieldSet
	s := cryptobyte.String(data)

	for i := range fieldCodecs {
		fc := &fieldCodecs[i]
		if len(s) == 0 || s[0] != fc.tag {
			continue
		}
		s.Skip(1)
		if err := fc.unmarshal(&s, &f); err != nil {
			return f, err
		}
	}

	if !s.Empty() {
		return f, formatError(fieldMessage, fmt.Errorf("%w: 0x%02X", ErrUnexpectedTag, s[0]))
	}
	return f, nil
}
