package token

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFormatPos(t *testing.T) {
	fset := NewFileSet()
	f := fset.AddFile("test.js", -1, 20)
	f.SetLinesForContent([]byte("abc\ndef\nghi\n"))

	p1 := f.Pos(0) // line 1, col 1
	p2 := f.Pos(4) // line 2, col 1 ('d')

	require.Equal(t, "test.js:1:1", FormatPos(PosLong, fset, p1, true))
	require.Equal(t, "1:1", FormatPos(PosLong, fset, p1, false))
	require.Equal(t, "test.js:2:1", FormatPos(PosLong, fset, p2, true))
	require.Equal(t, "-:-", FormatPos(PosLong, fset, NoPos, true))

	require.Equal(t, "0", FormatPos(PosOffsets, fset, p1, true))
	require.Equal(t, "4", FormatPos(PosOffsets, fset, p2, true))
	require.Equal(t, "-", FormatPos(PosOffsets, fset, NoPos, true))

	require.Equal(t, "", FormatPos(PosNone, fset, p1, true))
}

func TestPosInside(t *testing.T) {
	fset := NewFileSet()
	f := fset.AddFile("test.js", -1, 100)

	mk := func(s, e int) span { return span{f.Pos(s), f.Pos(e)} }

	cases := []struct {
		ref, test span
		want      bool
	}{
		{mk(0, 1), mk(2, 3), false},
		{mk(0, 2), mk(2, 3), false},
		{mk(0, 3), mk(2, 3), true},
		{mk(1, 3), mk(2, 3), true},
		{mk(2, 3), mk(2, 3), true},
		{mk(3, 4), mk(2, 3), false},
	}
	for _, c := range cases {
		require.Equal(t, c.want, PosInside(c.ref, c.test))
	}
}

type span struct{ s, e Pos }

func (sp span) Span() (start, end Pos) { return sp.s, sp.e }
