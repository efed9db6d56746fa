// Package varint implements the self-terminating length prefix used by
// ICAO barcode datastructures.
//
// A value is written as base-128 digits, most significant digit first.
// Every byte except the last has its high bit set.
package varint

import "errors"

const (
	continuation = 0x80
	digitMask    = 0x7F

	// MaxLen is the longest encoding of a uint64 (ceil(64/7) bytes).
	MaxLen = 10
)

// VarInt errors
var (
	ErrUnexpectedEOF = errors.New("varint: unexpected end of input")
	ErrOverflow      = errors.New("varint: value overflows uint64")
)

// Size returns the number of bytes needed to encode v.
func Size(v uint64) int {
	n := 1
	for v >>= 7; v != 0; v >>= 7 {
		n++
	}
	return n
}

// Append appends the encoding of v to buf and returns the extended slice.
func Append(buf []byte, v uint64) []byte {
	n := Size(v)
	for i := n - 1; i >= 0; i-- {
		b := byte(v>>(7*uint(i))) & digitMask
		if i > 0 {
			b |= continuation
		}
		buf = append(buf, b)
	}
	return buf
}

// Encode returns the minimal encoding of v.
func Encode(v uint64) []byte {
	return Append(make([]byte, 0, Size(v)), v)
}

// Decode reads one value from the start of data.
// It returns the value and the number of bytes consumed.
func Decode(data []byte) (uint64, int, error) {
	var v uint64
	for i, b := range data {
		if i == MaxLen || v > (1<<57)-1 {
			return 0, 0, ErrOverflow
		}
		v = v<<7 | uint64(b&digitMask)
		if b&continuation == 0 {
			return v, i + 1, nil
		}
	}
	return 0, 0, ErrUnexpectedEOF
}
