package jsstring

// isECMAWhitespace reports whether cu is ECMAScript "white space" or a line
// terminator, per the WhiteSpace/LineTerminator productions — a different
// set from Go's unicode.IsSpace, which lacks U+FEFF and includes U+0085
// (spec.md §4.2.1: "ECMAScript-defined set, not Rust-defined").
func isECMAWhitespace(cu uint16) bool {
	switch cu {
	case 0x0009, 0x000B, 0x000C, 0x0020, 0x00A0, 0xFEFF, // WhiteSpace
		0x000A, 0x000D, 0x2028, 0x2029: // LineTerminator
		return true
	case 0x1680, 0x2000, 0x2001, 0x2002, 0x2003, 0x2004, 0x2005, 0x2006,
		0x2007, 0x2008, 0x2009, 0x200A, 0x202F, 0x205F, 0x3000: // Space_Separator
		return true
	}
	return false
}

// Trim returns a string with ECMAScript whitespace removed from both ends.
func (s String) Trim() String { return s.trimRange(true, true) }

// TrimStart returns a string with ECMAScript whitespace removed from the
// start.
func (s String) TrimStart() String { return s.trimRange(true, false) }

// TrimEnd returns a string with ECMAScript whitespace removed from the end.
func (s String) TrimEnd() String { return s.trimRange(false, true) }

func (s String) trimRange(start, end bool) String {
	lo, hi := 0, s.Len()
	if start {
		for lo < hi && isECMAWhitespace(s.At(lo)) {
			lo++
		}
	}
	if end {
		for hi > lo && isECMAWhitespace(s.At(hi-1)) {
			hi--
		}
	}
	if lo == 0 && hi == s.Len() {
		return s
	}
	u := make([]uint16, hi-lo)
	for i := lo; i < hi; i++ {
		u[i-lo] = s.At(i)
	}
	return FromUTF16(u)
}
