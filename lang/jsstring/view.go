package jsstring

import (
	"errors"
	"unicode/utf16"
	"unicode/utf8"
)

// Policy selects how a lone (unpaired) surrogate is handled when converting
// a String out to a host-native (UTF-8) Go string (spec.md §4.2.1, §6.4,
// §7).
type Policy uint8

const (
	// Strict fails the conversion if any lone surrogate is present.
	Strict Policy = iota
	// Escaped renders a lone surrogate as its `\uXXXX` escape.
	Escaped
	// Lossy renders a lone surrogate as U+FFFD, the replacement character.
	Lossy
)

// ErrLoneSurrogate is returned by ToUTF8 under the Strict policy when the
// string contains an unpaired surrogate.
var ErrLoneSurrogate = errors.New("jsstring: lone surrogate in strict UTF-8 conversion")

// utf8ToUTF16 decodes a host-native UTF-8 string into UTF-16 code units.
// This is a pure transcoding algorithm with no ecosystem library to ground
// it on beyond the standard library's own unicode/utf16 package, which is
// the idiomatic Go tool for this exact conversion.
func utf8ToUTF16(s string) []uint16 {
	return utf16.Encode([]rune(s))
}

// ToUTF8 converts the string to a host-native Go string, applying policy to
// any lone surrogate encountered.
func (s String) ToUTF8(policy Policy) (string, error) {
	var b []byte
	it := s.CodePoints()
	for {
		cp, ok := it.Next()
		if !ok {
			break
		}
		if cp.Unpaired {
			switch policy {
			case Strict:
				return "", ErrLoneSurrogate
			case Escaped:
				b = appendEscapedSurrogate(b, cp.Surrogate)
				continue
			case Lossy:
				b = utf8.AppendRune(b, 0xFFFD)
				continue
			}
		}
		b = utf8.AppendRune(b, cp.R)
	}
	return string(b), nil
}

func appendEscapedSurrogate(b []byte, cu uint16) []byte {
	const hex = "0123456789abcdef"
	b = append(b, '\\', 'u')
	for shift := 12; shift >= 0; shift -= 4 {
		b = append(b, hex[(cu>>uint(shift))&0xf])
	}
	return b
}

// IndexOf returns the code-unit index of the first occurrence of needle at
// or after from, and whether it was found. An empty needle matches at from
// itself, provided from <= s.Len() (spec.md §4.2.1, §8.2 property 8).
func (s String) IndexOf(needle String, from int) (int, bool) {
	if from < 0 {
		from = 0
	}
	if needle.IsEmpty() {
		if from <= s.Len() {
			return from, true
		}
		return 0, false
	}
	n, m := s.Len(), needle.Len()
	for i := from; i+m <= n; i++ {
		match := true
		for j := 0; j < m; j++ {
			if s.At(i+j) != needle.At(j) {
				match = false
				break
			}
		}
		if match {
			return i, true
		}
	}
	return 0, false
}
