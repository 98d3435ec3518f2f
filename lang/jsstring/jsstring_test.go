package jsstring_test

import (
	"math"
	"testing"

	"github.com/mna/ecmacore/lang/jsstring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTripLatin1(t *testing.T) {
	for _, b := range [][]byte{
		{},
		{0x00},
		{0x41, 0x42, 0x43},
		{0x00, 0xff, 0x7f, 0x80},
	} {
		s := jsstring.FromLatin1(b)
		require.Equal(t, len(b), s.Len())
		for i, want := range b {
			assert.Equal(t, uint16(want), s.At(i))
		}
	}
}

func TestRoundTripUTF16(t *testing.T) {
	for _, u := range [][]uint16{
		{},
		{0x1234, 0xABCD, 0x0041},
		{0xD83D, 0xDE00}, // surrogate pair, U+1F600
	} {
		s := jsstring.FromUTF16(u)
		require.Equal(t, len(u), s.Len())
		for i, want := range u {
			assert.Equal(t, want, s.At(i))
		}
	}
}

func TestEncodingEquivalence(t *testing.T) {
	latin1 := jsstring.FromLatin1([]byte{0x41, 0x42})
	utf16 := jsstring.FromUTF16([]uint16{0x41, 0x42})

	assert.True(t, latin1.Equals(utf16))
	assert.Equal(t, latin1.Hash(), utf16.Hash())
}

func TestInterningIdempotence(t *testing.T) {
	a := jsstring.FromUTF8("length")
	b := jsstring.FromUTF8("length")

	require.True(t, a.IsStatic())
	require.True(t, b.IsStatic())

	ia, ok := jsstring.Intern("length")
	require.True(t, ok)
	assert.True(t, a.Equals(ia))
	// pointer-equality of the interned handle: obtained through two
	// independent paths, both resolve to the exact same static entry.
	assert.True(t, a == b)
}

func TestRefcountInvariant(t *testing.T) {
	base := jsstring.FromUTF8("not a well known interned string")
	require.False(t, base.IsStatic())
	require.EqualValues(t, 1, base.RefCount())

	clones := make([]jsstring.String, 0, 5)
	for i := 0; i < 5; i++ {
		clones = append(clones, base.Clone())
	}
	require.EqualValues(t, 6, base.RefCount())

	for i := 0; i < 3; i++ {
		clones[i].Release()
	}
	assert.EqualValues(t, 3, base.RefCount())

	for i := 3; i < 5; i++ {
		clones[i].Release()
	}
	assert.EqualValues(t, 1, base.RefCount())

	base.Release()
	assert.EqualValues(t, 0, base.RefCount())
}

func TestConcatLengthAndEncoding(t *testing.T) {
	a := jsstring.FromLatin1([]byte("ab"))
	b := jsstring.FromLatin1([]byte("c"))
	got := jsstring.Concat(a, b)
	assert.Equal(t, a.Len()+b.Len(), got.Len())
	assert.Equal(t, jsstring.Latin1, got.Encoding())

	c := jsstring.FromUTF16([]uint16{0x1234})
	mixed := jsstring.Concat(a, c)
	assert.Equal(t, a.Len()+c.Len(), mixed.Len())
	assert.Equal(t, jsstring.UTF16, mixed.Encoding())
}

func TestIndexOfEmptyNeedleLaw(t *testing.T) {
	s := jsstring.FromUTF8("hello")
	for k := 0; k <= s.Len(); k++ {
		idx, ok := s.IndexOf(jsstring.Empty(), k)
		require.True(t, ok)
		assert.Equal(t, k, idx)
	}
	_, ok := s.IndexOf(jsstring.Empty(), s.Len()+1)
	assert.False(t, ok)
}

func TestToNumber(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"0b101", 5},
		{"0x1F", 31},
		{"0o17", 15},
		{"  +Infinity  ", math.Inf(1)},
		{"-Infinity", math.Inf(-1)},
		{"", 0},
		{"   ", 0},
		{"42", 42},
		{"3.5", 3.5},
	}
	for _, c := range cases {
		got := jsstring.FromUTF8(c.in).ToNumber()
		assert.Equal(t, c.want, got, "ToNumber(%q)", c.in)
	}

	assert.True(t, math.IsNaN(jsstring.FromUTF8("0xZZ").ToNumber()))
	assert.True(t, math.IsNaN(jsstring.FromUTF8("not a number").ToNumber()))

	for _, in := range []string{"infinity", "INFINITY", "Inf", "inf", "+infinity", "-INF", "nan", "NAN"} {
		assert.True(t, math.IsNaN(jsstring.FromUTF8(in).ToNumber()), "ToNumber(%q) should be NaN, not a stdlib special float", in)
	}
}

// S1: concat_array of Latin-1 inputs yields a Latin-1 result.
func TestScenarioS1(t *testing.T) {
	got := jsstring.ConcatArray([]jsstring.String{
		jsstring.FromLatin1([]byte("ab")),
		jsstring.FromLatin1([]byte("c")),
	})
	require.Equal(t, jsstring.Latin1, got.Encoding())
	require.Equal(t, 3, got.Len())
	assert.Equal(t, []uint16{0x61, 0x62, 0x63}, got.CodeUnits())
}

// S2: mixing a Latin-1 and a UTF-16 input widens the result.
func TestScenarioS2(t *testing.T) {
	got := jsstring.ConcatArray([]jsstring.String{
		jsstring.FromLatin1([]byte("a")),
		jsstring.FromUTF16([]uint16{0x1234}),
	})
	require.Equal(t, jsstring.UTF16, got.Encoding())
	require.Equal(t, 2, got.Len())
	assert.Equal(t, []uint16{0x0061, 0x1234}, got.CodeUnits())
}

// S3: code_point_at distinguishes a surrogate pair from a lone surrogate.
func TestScenarioS3(t *testing.T) {
	pair := jsstring.FromUTF16([]uint16{0xD83D, 0xDE00})
	cp := pair.CodePointAt(0)
	require.False(t, cp.Unpaired)
	assert.Equal(t, rune(0x1F600), cp.R)

	lone := jsstring.FromUTF16([]uint16{0xD83D})
	cp2 := lone.CodePointAt(0)
	require.True(t, cp2.Unpaired)
	assert.Equal(t, uint16(0xD83D), cp2.Surrogate)
}

// S4: two handles constructed from "length" are pointer-equal (static
// interning).
func TestScenarioS4(t *testing.T) {
	a := jsstring.FromUTF8("length")
	b := jsstring.FromUTF8("length")
	require.True(t, a.IsStatic())
	require.True(t, b.IsStatic())
	assert.True(t, a == b)
}

// S5: index_of finds a substring at the expected position.
func TestScenarioS5(t *testing.T) {
	s := jsstring.FromUTF8("hello world")
	idx, ok := s.IndexOf(jsstring.FromUTF8("world"), 0)
	require.True(t, ok)
	assert.Equal(t, 6, idx)
}

func TestTrim(t *testing.T) {
	s := jsstring.FromUTF8("  \t hello \n ")
	trimmed := s.Trim()
	got, err := trimmed.ToUTF8(jsstring.Strict)
	require.NoError(t, err)
	assert.Equal(t, "hello", got)
}

func TestToUTF8Policies(t *testing.T) {
	lone := jsstring.FromUTF16([]uint16{0x0041, 0xD800, 0x0042})

	_, err := lone.ToUTF8(jsstring.Strict)
	assert.ErrorIs(t, err, jsstring.ErrLoneSurrogate)

	lossy, err := lone.ToUTF8(jsstring.Lossy)
	require.NoError(t, err)
	assert.Equal(t, "A�B", lossy)

	escaped, err := lone.ToUTF8(jsstring.Escaped)
	require.NoError(t, err)
	assert.Equal(t, `A\ud800B`, escaped)
}
