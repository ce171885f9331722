package audit

import (
	"strings"

	"github.com/h2non/filetype"
	"github.com/ostafen/extfix/internal/signature"
)

// hexDump renders b as space separated upper case hex bytes.
func hexDump(b []byte) string {
	return signature.FormatPattern(b)
}

// asciiDump renders b as ASCII text. Bytes above 0x7F become '?', other
// control characters are kept as they are and line breaks are collapsed
// into a literal `\n` so the dump stays on a single log line.
func asciiDump(b []byte) string {
	buf := make([]byte, len(b))
	for i, c := range b {
		if c > 0x7F {
			c = '?'
		}
		buf[i] = c
	}

	s := strings.ReplaceAll(string(buf), "\r\n", `\n`)
	s = strings.ReplaceAll(s, "\n", `\n`)
	return strings.ReplaceAll(s, "\r", `\n`)
}

// guessExt asks filetype for a second opinion on a header none of our
// signatures recognized. It returns an empty string when filetype does not
// know either.
func guessExt(header []byte) string {
	kind, err := filetype.Match(header)
	if err != nil || kind == filetype.Unknown {
		return ""
	}
	return kind.Extension
}
