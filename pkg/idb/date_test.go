package idb

import (
	"errors"
	"testing"
	"time"
)

func packedInt(v uint32) [dateSize]byte {
	return [dateSize]byte{byte(v >> 16), byte(v >> 8), byte(v)}
}

func TestDecodeDate(t *testing.T) {
	tests := []struct {
		name  string
		value uint32
		want  string
	}{
		{name: "two digit month", value: 11022025, want: "2025-11-02"},
		{name: "october", value: 10022025, want: "2025-10-02"},
		{name: "zero padded month", value: 1022025, want: "2025-01-02"},
		{name: "zero", value: 0, want: "0000-00-00"},
		{name: "max 24-bit", value: 0xFFFFFF, want: "7215-16-77"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DecodeDate(packedInt(tt.value)); got != tt.want {
				t.Errorf("DecodeDate(%d) = %q, want %q", tt.value, got, tt.want)
			}
		})
	}
}

func TestEncodeDate(t *testing.T) {
	tests := []struct {
		input   string
		want    uint32
		wantErr bool
	}{
		{input: "2025-10-02", want: 10022025},
		{input: "2025-01-02", want: 1022025},
		{input: "1999-12-31", want: 12311999},
		{input: "2025-13-01", wantErr: true},
		{input: "02.10.2025", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := EncodeDate(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidDate) {
					t.Errorf("EncodeDate(%q) error = %v, want %v", tt.input, err, ErrInvalidDate)
				}
				return
			}
			if err != nil {
				t.Fatalf("EncodeDate(%q) unexpected error: %v", tt.input, err)
			}
			if got != packedInt(tt.want) {
				t.Errorf("EncodeDate(%q) = % X, want % X", tt.input, got, packedInt(tt.want))
			}
			if back := DecodeDate(got); back != tt.input {
				t.Errorf("DecodeDate(EncodeDate(%q)) = %q", tt.input, back)
			}
		})
	}
}

func TestFormatDate(t *testing.T) {
	got := FormatDate(time.Date(2026, time.March, 7, 23, 59, 0, 0, time.UTC))
	if got != "2026-03-07" {
		t.Errorf("FormatDate = %q, want %q", got, "2026-03-07")
	}
}
