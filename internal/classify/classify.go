// Package classify decides, for one file, how its header relates to its
// extension.
package classify

import (
	"strings"

	"github.com/ostafen/extfix/internal/signature"
)

// Kind enumerates the possible classification outcomes.
type Kind int

const (
	// MatchedCorrect: the detected format accepts the file extension.
	MatchedCorrect Kind = iota
	// MatchedCategoryOk: a category was detected and the extension is one it allows.
	MatchedCategoryOk
	// MatchedCategoryWarn: a category was detected but the extension is unexpected for it.
	MatchedCategoryWarn
	// MismatchSuggestRename: the detected format requires another extension.
	MismatchSuggestRename
	// Unknown: no signature matched the header.
	Unknown
)

func (k Kind) String() string {
	switch k {
	case MatchedCorrect:
		return "matched"
	case MatchedCategoryOk:
		return "category-ok"
	case MatchedCategoryWarn:
		return "category-warn"
	case MismatchSuggestRename:
		return "mismatch"
	case Unknown:
		return "unknown"
	}
	return "invalid"
}

// Outcome is the classification of a file against a single signature.
type Outcome struct {
	Kind Kind
	// Signature is the triggered signature; nil for Unknown.
	Signature *signature.Signature
	// Suggested is the extension the file should carry. Only set for
	// MismatchSuggestRename.
	Suggested string
}

// Result lists the outcomes of one file, in catalog order. It is never
// empty: a file no signature recognizes yields a single Unknown outcome.
type Result []Outcome

func (r Result) Unknown() bool {
	return len(r) == 1 && r[0].Kind == Unknown
}

func (r Result) Has(kind Kind) bool {
	for _, o := range r {
		if o.Kind == kind {
			return true
		}
	}
	return false
}

// Mismatches returns the MismatchSuggestRename outcomes of r.
func (r Result) Mismatches() []Outcome {
	var out []Outcome
	for _, o := range r {
		if o.Kind == MismatchSuggestRename {
			out = append(out, o)
		}
	}
	return out
}

// Classifier matches headers against a catalog. It holds no mutable state
// and is safe for concurrent use.
type Classifier struct {
	catalog *signature.Catalog
}

func New(c *signature.Catalog) *Classifier {
	return &Classifier{catalog: c}
}

// HeaderLength returns the number of bytes callers should read from each file.
func (c *Classifier) HeaderLength() int {
	return c.catalog.MaxHeaderLength()
}

// Classify evaluates header, the leading bytes actually read from a file,
// against every signature of the catalog. ext is the file extension
// without the dot; case is ignored.
func (c *Classifier) Classify(header []byte, ext string) Result {
	ext = strings.ToLower(ext)

	ids := c.catalog.Match(header)
	if len(ids) == 0 {
		return Result{{Kind: Unknown}}
	}

	res := make(Result, 0, len(ids))
	for _, id := range ids {
		res = append(res, classifyOne(c.catalog.At(id), ext))
	}
	return res
}

func classifyOne(sig *signature.Signature, ext string) Outcome {
	switch {
	case !sig.IsCategory() && sig.Accepts(ext):
		return Outcome{Kind: MatchedCorrect, Signature: sig}
	case sig.IsCategory() && sig.Accepts(ext):
		return Outcome{Kind: MatchedCategoryOk, Signature: sig}
	case sig.IsCategory():
		return Outcome{Kind: MatchedCategoryWarn, Signature: sig}
	}
	return Outcome{Kind: MismatchSuggestRename, Signature: sig, Suggested: sig.Ext}
}
