package idb

import (
	"bytes"
	"errors"
	"math/rand/v2"
	"strings"
	"testing"
)

func TestEncodeTransport(t *testing.T) {
	// RFC 4648 Section 10 test vectors, padding stripped.
	tests := []struct {
		input string
		want  string
	}{
		{"", ""},
		{"f", "MY"},
		{"fo", "MZXQ"},
		{"foo", "MZXW6"},
		{"foob", "MZXW6YQ"},
		{"fooba", "MZXW6YTB"},
		{"foobar", "MZXW6YTBOI"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := EncodeTransport([]byte(tt.input)); got != tt.want {
				t.Errorf("EncodeTransport(%q) = %q, want %q", tt.input, got, tt.want)
			}
			got, err := DecodeTransport(tt.want)
			if err != nil {
				t.Fatalf("DecodeTransport(%q) error: %v", tt.want, err)
			}
			if string(got) != tt.input {
				t.Errorf("DecodeTransport(%q) = %q, want %q", tt.want, got, tt.input)
			}
		})
	}
}

func TestDecodeTransportErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "invalid char", input: "MZ!W6"},
		{name: "digit one", input: "MZ1W6"},
		{name: "impossible length", input: "M"},
		{name: "impossible length 3", input: "MZX"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := DecodeTransport(tt.input); !errors.Is(err, ErrInvalidTransport) {
				t.Errorf("DecodeTransport(%q) error = %v, want %v", tt.input, err, ErrInvalidTransport)
			}
		})
	}
}

func TestTransportRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 5))
	for n := 0; n < 64; n++ {
		data := make([]byte, n)
		for i := range data {
			data[i] = byte(rng.UintN(256))
		}
		encoded := EncodeTransport(data)
		if strings.Contains(encoded, "=") {
			t.Fatalf("EncodeTransport left padding in %q", encoded)
		}
		got, err := DecodeTransport(encoded)
		if err != nil {
			t.Fatalf("DecodeTransport(len %d) error: %v", n, err)
		}
		if !bytes.Equal(got, data) {
			t.Fatalf("round trip of %d bytes mismatch", n)
		}
	}
}

func TestCompressRoundTrip(t *testing.T) {
	data := bytes.Repeat([]byte("P<USDOE<<JOHN<<<<<<<<"), 20)

	compressed, err := compress(data)
	if err != nil {
		t.Fatalf("compress failed: %v", err)
	}
	if len(compressed) >= len(data) {
		t.Errorf("compressed size %d not smaller than input %d", len(compressed), len(data))
	}
	// zlib header: CM=8 (deflate), FLEVEL=3 (maximum compression).
	if compressed[0] != 0x78 || compressed[1] != 0xDA {
		t.Errorf("zlib header = % X, want 78 DA", compressed[:2])
	}

	got, err := decompress(compressed)
	if err != nil {
		t.Fatalf("decompress failed: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Error("decompress(compress(data)) mismatch")
	}
}

func TestDecompressErrors(t *testing.T) {
	if _, err := decompress([]byte{0x01, 0x02, 0x03}); !errors.Is(err, ErrDecompress) {
		t.Errorf("garbage error = %v, want %v", err, ErrDecompress)
	}

	bomb, err := compress(make([]byte, MaxMessageSize+1))
	if err != nil {
		t.Fatalf("compress failed: %v", err)
	}
	if _, err := decompress(bomb); err != ErrMessageTooLarge {
		t.Errorf("oversized error = %v, want %v", err, ErrMessageTooLarge)
	}
}
