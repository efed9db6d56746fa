package idb

import (
	"fmt"
	"time"
)

// DateLayout is the textual form of a signature creation date.
const DateLayout = "2006-01-02"

// dateSize is the packed length of a date.
const dateSize = 3

// EncodeDate packs a YYYY-MM-DD date into three bytes holding the
// big-endian integer MMDDYYYY.
func EncodeDate(date string) ([dateSize]byte, error) {
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return [dateSize]byte{}, fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}
	return packDate(t), nil
}

// DecodeDate renders three packed bytes as YYYY-MM-DD.
//
// The integer is printed as eight zero-padded digits MMDDYYYY and sliced;
// the calendar value is not validated.
func DecodeDate(b [dateSize]byte) string {
	v := uint32(b[0])<<16 | uint32(b[1])<<8 | uint32(b[2])
	s := fmt.Sprintf("%08d", v)
	return s[4:8] + "-" + s[0:2] + "-" + s[2:4]
}

// FormatDate returns t's calendar date as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

func packDate(t time.Time) [dateSize]byte {
	v := uint32(t.Month())*1000000 + uint32(t.Day())*10000 + uint32(t.Year())
	return [dateSize]byte{byte(v >> 16), byte(v >> 8), byte(v)}
}
