package signature

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func names(c *Catalog, ids []int) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = c.At(id).Name
	}
	return out
}

func TestDefaultCatalogHeaderLength(t *testing.T) {
	c := Default()
	require.Greater(t, c.Len(), 0)

	maxLen := 0
	for _, s := range c.Signatures() {
		for _, p := range s.Patterns {
			require.LessOrEqual(t, s.Offset+len(p), c.MaxHeaderLength(), s.Name)
			maxLen = max(maxLen, s.Offset+len(p))
		}
	}
	require.Equal(t, maxLen, c.MaxHeaderLength())
	require.Equal(t, 31, c.MaxHeaderLength())
}

func TestDefaultCatalogIsShared(t *testing.T) {
	require.Same(t, Default(), Default())

	sigs := Builtin()
	sigs[0].Ext = "changed"
	require.Equal(t, "jpg", Default().At(0).Ext)
}

func TestSignaturesDoNotAliasPatterns(t *testing.T) {
	want := FormatPattern(Default().At(0).Patterns[0])

	sigs := Builtin()
	sigs[0].Patterns[0][0] ^= 0xFF
	require.Equal(t, want, FormatPattern(Default().At(0).Patterns[0]))

	pattern := []byte{0xCA, 0xFE}
	c, err := NewCatalog(Signature{Ext: "cafe", Name: "cafe", Patterns: [][]byte{pattern}})
	require.NoError(t, err)

	pattern[0] = 0x00
	require.Equal(t, "CA FE", FormatPattern(c.At(0).Patterns[0]))
	require.Len(t, c.Match([]byte{0xCA, 0xFE}), 1)
}

func TestMatch(t *testing.T) {
	c := Default()

	tests := []struct {
		name   string
		header []byte
		want   []string
	}{
		{
			name:   "jpeg",
			header: []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F'},
			want:   []string{"image/jpg"},
		},
		{
			name:   "utf8 bom",
			header: []byte{0xEF, 0xBB, 0xBF, 'h', 'i'},
			want:   []string{"text/utf8"},
		},
		{
			name:   "utf32 le bom triggers utf16 too",
			header: []byte{0xFF, 0xFE, 0x00, 0x00, 'a', 0x00, 0x00, 0x00},
			want:   []string{"text/utf16", "text/utf32"},
		},
		{
			name:   "mp4 at offset 4",
			header: append([]byte{0x00, 0x00, 0x00, 0x18}, []byte("ftypisom....")...),
			want:   []string{"video/mp4"},
		},
		{
			name:   "riff wave",
			header: []byte("RIFF\x24\x08\x00\x00WAVEfmt "),
			want:   []string{"audio/wav"},
		},
		{
			name:   "short file",
			header: []byte{0xFF, 0xD8},
			want:   []string{},
		},
		{
			name:   "empty",
			header: nil,
			want:   []string{},
		},
		{
			name:   "offset beyond header",
			header: []byte("RIFF\x24\x08"),
			want:   []string{},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, names(c, c.Match(tc.header)))
		})
	}
}

func TestMatchSamePatternDifferentOffsets(t *testing.T) {
	c, err := NewCatalog(
		Signature{Ext: "aaa", Name: "at-zero", Patterns: [][]byte{[]byte("AB")}},
		Signature{Ext: "bbb", Name: "at-two", Patterns: [][]byte{[]byte("AB")}, Offset: 2},
		Signature{Ext: "ccc", Name: "also-zero", Patterns: [][]byte{[]byte("AB"), []byte("AB")}},
	)
	require.NoError(t, err)
	require.Equal(t, 4, c.MaxHeaderLength())

	require.Equal(t, []string{"at-zero", "also-zero"}, names(c, c.Match([]byte("ABxx"))))
	require.Equal(t, []string{"at-two"}, names(c, c.Match([]byte("xxAB"))))
	require.Equal(t, []string{"at-zero", "at-two", "also-zero"}, names(c, c.Match([]byte("ABAB"))))
	require.Equal(t, []string{"at-zero", "also-zero"}, names(c, c.Match([]byte("ABA"))))
}

func TestNewCatalogValidation(t *testing.T) {
	tests := []struct {
		name string
		sig  Signature
	}{
		{"no name", Signature{Ext: "x", Patterns: [][]byte{{1}}}},
		{"no patterns", Signature{Ext: "x", Name: "x"}},
		{"empty pattern", Signature{Ext: "x", Name: "x", Patterns: [][]byte{{}}}},
		{"negative offset", Signature{Ext: "x", Name: "x", Patterns: [][]byte{{1}}, Offset: -1}},
		{"uppercase ext", Signature{Ext: "PNG", Name: "x", Patterns: [][]byte{{1}}}},
		{"dotted alt", Signature{Ext: "x", Name: "x", Alt: []string{".y"}, Patterns: [][]byte{{1}}}},
		{"category without alt", Signature{Name: "x", Patterns: [][]byte{{1}}}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewCatalog(tc.sig)
			require.ErrorIs(t, err, ErrInvalidSignature)
		})
	}
}

func TestWithExtra(t *testing.T) {
	extra := Signature{Ext: "nes", Name: "rom/nes", Patterns: [][]byte{{'N', 'E', 'S', 0x1A}}}

	c, err := WithExtra(extra)
	require.NoError(t, err)
	require.Equal(t, Default().Len()+1, c.Len())
	require.Equal(t, "rom/nes", c.At(c.Len()-1).Name)
	require.Equal(t, []string{"rom/nes"}, names(c, c.Match([]byte("NES\x1a\x01"))))

	require.Empty(t, Default().Match([]byte("NES\x1a\x01")))

	same, err := WithExtra()
	require.NoError(t, err)
	require.Same(t, Default(), same)
}

func TestParsePattern(t *testing.T) {
	p, err := ParsePattern("FF d8  ff E0")
	require.NoError(t, err)
	require.Equal(t, []byte{0xFF, 0xD8, 0xFF, 0xE0}, p)
	require.Equal(t, "FF D8 FF E0", FormatPattern(p))

	for _, bad := range []string{"", "F", "FFF", "GG", "FF,D8"} {
		_, err := ParsePattern(bad)
		require.ErrorIs(t, err, ErrInvalidSignature, bad)
	}
}

func TestAccepts(t *testing.T) {
	jpg := Default().At(0)
	require.True(t, jpg.Accepts("jpg"))
	require.True(t, jpg.Accepts("JPG"))
	require.True(t, jpg.Accepts("jpeg"))
	require.False(t, jpg.Accepts("png"))
	require.False(t, jpg.Accepts(""))
	require.False(t, jpg.IsCategory())
}
