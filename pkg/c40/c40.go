// Package c40 implements the C40 text compaction scheme (ISO/IEC 16022)
// used by ICAO barcode datastructures.
//
// Three characters from a restricted alphabet pack into two bytes. A single
// trailing character is emitted as a two-byte escape instead.
package c40

import "errors"

// C40 encoding constants
const (
	// alphabet is the C40 basic set. The index is the character value;
	// values 0-2 are shift codes and never appear in encoded text.
	alphabet = "*** 0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

	// Filler is the character produced for the unused values 0-2. A decoder
	// emits it for the padding slot of a final two-character group.
	Filler = '*'

	// firstValue is the first alphabet value that maps to a real character.
	firstValue = 3

	// escape marks a pair holding a single raw character (value + 1).
	escape = 0xFE

	radix1 = 1600 // 40 * 40
	radix2 = 40
)

// decodeTable maps ASCII characters to C40 values.
// Characters outside the basic set are marked with -1.
var decodeTable = func() [256]int8 {
	var t [256]int8
	for i := range t {
		t[i] = -1
	}
	for i := firstValue; i < len(alphabet); i++ {
		t[alphabet[i]] = int8(i)
	}
	return t
}()

// C40 encoding errors
var (
	ErrInvalidChar   = errors.New("c40: invalid character")
	ErrInvalidLength = errors.New("c40: odd input length")
	ErrInvalidValue  = errors.New("c40: value out of range")
)

// Encode packs text into C40 bytes.
//
// The text is processed in groups of three characters:
//   - a full group encodes to value 1600*c1 + 40*c2 + c3 + 1 (big-endian)
//   - a final group of two characters uses value 0 for the missing third
//   - a final single character encodes as 0xFE, char+1
//
// Every character of a packed group must belong to the basic set
// (space, digits, upper case letters).
func Encode(text string) ([]byte, error) {
	if len(text) == 0 {
		return []byte{}, nil
	}

	result := make([]byte, 0, EncodedLength(len(text)))
	for pos := 0; pos < len(text); pos += 3 {
		remaining := len(text) - pos
		if remaining == 1 {
			result = append(result, escape, text[pos]+1)
			break
		}

		v1, ok1 := value(text[pos])
		v2, ok2 := value(text[pos+1])
		if !ok1 || !ok2 {
			return nil, ErrInvalidChar
		}

		var v3 int
		if remaining >= 3 {
			var ok3 bool
			if v3, ok3 = value(text[pos+2]); !ok3 {
				return nil, ErrInvalidChar
			}
		}

		u := radix1*v1 + radix2*v2 + v3 + 1
		result = append(result, byte(u>>8), byte(u))
	}

	return result, nil
}

// Decode unpacks C40 bytes into text.
//
// Each pair yields three characters. A pair starting with 0xFE yields its raw
// character and ends decoding; any pairs after it are ignored. A final group
// that was padded on encode yields a trailing Filler character, which callers
// that know the target length should strip (see TrimFiller).
func Decode(data []byte) (string, error) {
	if len(data)%2 != 0 {
		return "", ErrInvalidLength
	}

	result := make([]byte, 0, len(data)/2*3)
	for pos := 0; pos < len(data); pos += 2 {
		b1, b2 := data[pos], data[pos+1]
		if b1 == escape {
			result = append(result, b2-1)
			break
		}

		u := int(b1)<<8 | int(b2)
		if u == 0 {
			return "", ErrInvalidValue
		}
		u--

		v1 := u / radix1
		v2 := (u - v1*radix1) / radix2
		v3 := u - v1*radix1 - v2*radix2
		if v1 >= len(alphabet) {
			return "", ErrInvalidValue
		}

		result = append(result, alphabet[v1], alphabet[v2], alphabet[v3])
	}

	return string(result), nil
}

// TrimFiller removes trailing Filler characters left by Decode.
func TrimFiller(text string) string {
	end := len(text)
	for end > 0 && text[end-1] == Filler {
		end--
	}
	return text[:end]
}

// EncodedLength returns the number of bytes Encode produces for n characters.
// Every started group of three costs two bytes, including the escape pair.
func EncodedLength(n int) int {
	return (n + 2) / 3 * 2
}

// Valid reports whether every character of text belongs to the basic set.
func Valid(text string) bool {
	for i := 0; i < len(text); i++ {
		if _, ok := value(text[i]); !ok {
			return false
		}
	}
	return true
}

func value(c byte) (int, bool) {
	v := decodeTable[c]
	if v < 0 {
		return 0, false
	}
	return int(v), true
}
