package idb

import (
	"bytes"
	"errors"
	"reflect"
	"testing"
)

func TestFieldSetMarshal(t *testing.T) {
	tests := []struct {
		name   string
		fields FieldSet
		want   []byte
	}{
		{
			name:   "empty",
			fields: FieldSet{},
			want:   nil,
		},
		{
			name:   "can",
			fields: FieldSet{CAN: "123456"},
			want:   []byte{0x09, 0x04, 0x20, 0x38, 0x33, 0x73},
		},
		{
			name:   "photo",
			fields: FieldSet{Photo: []byte{0xAA, 0xBB}},
			want:   []byte{0xF0, 0x02, 0xAA, 0xBB},
		},
		{
			name:   "empty photo",
			fields: FieldSet{Photo: []byte{}},
			want:   []byte{0xF0, 0x00},
		},
		{
			name:   "can before photo",
			fields: FieldSet{Photo: []byte{0x01}, CAN: "123456"},
			want:   []byte{0x09, 0x04, 0x20, 0x38, 0x33, 0x73, 0xF0, 0x01, 0x01},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.fields.marshal()
			if err != nil {
				t.Fatalf("marshal failed: %v", err)
			}
			if !bytes.Equal(got, tt.want) {
				t.Errorf("marshal = % X, want % X", got, tt.want)
			}
		})
	}
}

func TestFieldSetWireOrder(t *testing.T) {
	fields := FieldSet{
		Photo:  []byte{0x01},
		CAN:    "123456",
		MRZTD3: testMRZTD3,
		MRZTD1: testMRZTD1,
	}
	data, err := fields.marshal()
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	// tag, length, 60 bytes for each MRZ, then CAN, then photo
	offsets := map[int]byte{0: tagMRZTD1, 62: tagMRZTD3, 124: tagCAN, 130: tagPhoto}
	for off, tag := range offsets {
		if data[off] != tag {
			t.Errorf("byte %d = 0x%02X, want tag 0x%02X", off, data[off], tag)
		}
	}
	if data[1] != MRZPackedLength || data[63] != MRZPackedLength {
		t.Errorf("MRZ length bytes = %d, %d; want %d", data[1], data[63], MRZPackedLength)
	}

	want := []FieldKind{FieldMRZTD1, FieldMRZTD3, FieldCAN, FieldPhoto}
	if got := fields.Kinds(); !reflect.DeepEqual(got, want) {
		t.Errorf("Kinds = %v, want %v", got, want)
	}

	parsed, err := parseFieldSet(data)
	if err != nil {
		t.Fatalf("parseFieldSet failed: %v", err)
	}
	if !reflect.DeepEqual(parsed, fields) {
		t.Errorf("parseFieldSet = %+v, want %+v", parsed, fields)
	}
}

func TestParseFieldSetDuplicateTag(t *testing.T) {
	data := []byte{
		0x09, 0x04, 0x20, 0x38, 0x33, 0x73,
		0x09, 0x04, 0x20, 0x38, 0x33, 0x73,
	}
	_, err := parseFieldSet(data)
	if !errors.Is(err, ErrUnexpectedTag) {
		t.Errorf("error = %v, want %v", err, ErrUnexpectedTag)
	}
}

func TestMRZFillerRoundTrip(t *testing.T) {
	// TD3 has 88 characters; the last one is packed with the escape pair.
	fields := FieldSet{MRZTD3: testMRZTD3}
	data, err := fields.marshal()
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if data[len(data)-2] != 0xFE {
		t.Errorf("final pair = % X, want escape", data[len(data)-2:])
	}

	parsed, err := parseFieldSet(data)
	if err != nil {
		t.Fatalf("parseFieldSet failed: %v", err)
	}
	if parsed.MRZTD3 != testMRZTD3 {
		t.Errorf("MRZTD3 = %q, want %q", parsed.MRZTD3, testMRZTD3)
	}
}

func TestFieldKindString(t *testing.T) {
	tests := []struct {
		kind FieldKind
		want string
	}{
		{FieldMRZTD1, "mrz_td1"},
		{FieldMRZTD3, "mrz_td3"},
		{FieldCAN, "can"},
		{FieldPhoto, "photo"},
		{FieldKind(8), "unknown(8)"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("FieldKind(%d).String() = %q, want %q", uint8(tt.kind), got, tt.want)
		}
	}
}
