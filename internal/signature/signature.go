// Copyright (c) 2025 Stefano Scafiti
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.
package signature

import (
	"encoding/hex"
	"errors"
	"fmt"
	"slices"
	"strings"
)

var ErrInvalidSignature = errors.New("invalid signature")

// Signature describes one recognizable file format.
//
// A Signature with an empty Ext is a category: it detects a broad class of
// files (text with a BOM, ZIP containers, ...) that legitimately use many
// extensions, all listed in Alt. For a regular Signature, Alt holds aliases
// of Ext.
type Signature struct {
	Ext      string   // canonical extension, lowercase without dot
	Name     string   // human readable label, e.g. "image/png"
	Alt      []string // acceptable extensions, lowercase without dot
	Patterns [][]byte // any of them identifies the format
	Offset   int      // position of the pattern inside the file
}

// IsCategory reports whether s has no single required extension.
func (s *Signature) IsCategory() bool {
	return s.Ext == ""
}

// Accepts reports whether ext is a valid extension for s. The comparison
// ignores case.
func (s *Signature) Accepts(ext string) bool {
	ext = strings.ToLower(ext)
	if s.Ext != "" && s.Ext == ext {
		return true
	}
	return slices.Contains(s.Alt, ext)
}

// HeaderLength returns how many leading bytes of a file are needed to
// evaluate every pattern of s.
func (s *Signature) HeaderLength() int {
	n := 0
	for _, p := range s.Patterns {
		n = max(n, len(p))
	}
	return s.Offset + n
}

func (s *Signature) validate() error {
	if s.Name == "" {
		return fmt.Errorf("%w: missing name", ErrInvalidSignature)
	}
	if s.Offset < 0 {
		return fmt.Errorf("%w: %s: negative offset %d", ErrInvalidSignature, s.Name, s.Offset)
	}
	if len(s.Patterns) == 0 {
		return fmt.Errorf("%w: %s: no patterns", ErrInvalidSignature, s.Name)
	}
	for i, p := range s.Patterns {
		if len(p) == 0 {
			return fmt.Errorf("%w: %s: pattern %d is empty", ErrInvalidSignature, s.Name, i)
		}
	}
	if s.IsCategory() && len(s.Alt) == 0 {
		return fmt.Errorf("%w: %s: category without acceptable extensions", ErrInvalidSignature, s.Name)
	}

	for _, ext := range append([]string{s.Ext}, s.Alt...) {
		if ext != strings.ToLower(ext) || strings.ContainsAny(ext, "./\\ ") {
			return fmt.Errorf("%w: %s: bad extension %q", ErrInvalidSignature, s.Name, ext)
		}
	}
	return nil
}

func (s Signature) clone() Signature {
	s.Alt = slices.Clone(s.Alt)
	patterns := make([][]byte, len(s.Patterns))
	for i, p := range s.Patterns {
		patterns[i] = slices.Clone(p)
	}
	s.Patterns = patterns
	return s
}

// ParsePattern decodes a pattern written as space separated hex bytes,
// e.g. "FF D8 FF E0".
func ParsePattern(s string) ([]byte, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: empty pattern", ErrInvalidSignature)
	}

	out := make([]byte, 0, len(fields))
	for _, f := range fields {
		if len(f) != 2 {
			return nil, fmt.Errorf("%w: bad byte %q in pattern %q", ErrInvalidSignature, f, s)
		}
		b, err := hex.DecodeString(f)
		if err != nil {
			return nil, fmt.Errorf("%w: bad byte %q in pattern %q", ErrInvalidSignature, f, s)
		}
		out = append(out, b[0])
	}
	return out, nil
}

// FormatPattern is the inverse of ParsePattern.
func FormatPattern(p []byte) string {
	var sb strings.Builder
	for i, b := range p {
		if i > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "%02X", b)
	}
	return sb.String()
}
