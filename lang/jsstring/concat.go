package jsstring

// Concat produces a new string whose contents are a's followed by b's
// (spec.md §4.2.5). The result is Latin-1 iff both inputs are Latin-1;
// otherwise Latin-1 inputs are zero-extended into the UTF-16 result.
func Concat(a, b String) String {
	return ConcatArray([]String{a, b})
}

// ConcatArray produces a new string whose contents are the concatenation of
// every element of ss, in order (spec.md §4.2.5).
func ConcatArray(ss []String) String {
	total := 0
	allLatin1 := true
	for _, s := range ss {
		total += s.Len()
		if s.Encoding() != Latin1 {
			allLatin1 = false
		}
	}
	if total == 0 {
		return Empty()
	}

	if allLatin1 {
		b := make([]byte, 0, total)
		for _, s := range ss {
			for i, n := 0, s.Len(); i < n; i++ {
				b = append(b, byte(s.At(i)))
			}
		}
		return FromLatin1(b)
	}

	u := make([]uint16, 0, total)
	for _, s := range ss {
		for i, n := 0, s.Len(); i < n; i++ {
			u = append(u, s.At(i))
		}
	}
	return FromUTF16(u)
}
