package signature

import (
	"fmt"
	"slices"
	"sync"

	"github.com/ostafen/extfix/pkg/table"
)

// Catalog is an immutable, ordered set of signatures.
type Catalog struct {
	sigs   []Signature
	maxLen int
	index  []offsetIndex
}

// offsetIndex holds the patterns anchored at one file offset.
type offsetIndex struct {
	offset int
	table  *table.PrefixTable[[]int]
}

// NewCatalog validates sigs and builds a catalog preserving their order.
func NewCatalog(sigs ...Signature) (*Catalog, error) {
	c := &Catalog{
		sigs: make([]Signature, 0, len(sigs)),
	}

	byOffset := map[int]*table.PrefixTable[[]int]{}
	for i, s := range sigs {
		if err := s.validate(); err != nil {
			return nil, err
		}
		s = s.clone()
		c.sigs = append(c.sigs, s)
		c.maxLen = max(c.maxLen, s.HeaderLength())

		t, ok := byOffset[s.Offset]
		if !ok {
			t = table.New[[]int]()
			byOffset[s.Offset] = t
			c.index = append(c.index, offsetIndex{offset: s.Offset, table: t})
		}
		for _, p := range s.Patterns {
			ids, _ := t.Get(p)
			if n := len(ids); n > 0 && ids[n-1] == i {
				continue
			}
			t.Insert(p, append(ids, i))
		}
	}

	slices.SortFunc(c.index, func(a, b offsetIndex) int {
		return a.offset - b.offset
	})
	return c, nil
}

// MaxHeaderLength returns the number of leading bytes a caller must read
// for every signature in the catalog to be evaluable.
func (c *Catalog) MaxHeaderLength() int {
	return c.maxLen
}

func (c *Catalog) Len() int {
	return len(c.sigs)
}

// At returns the i-th signature. The result must not be modified.
func (c *Catalog) At(i int) *Signature {
	return &c.sigs[i]
}

// Signatures returns a copy of the catalog content.
func (c *Catalog) Signatures() []Signature {
	out := make([]Signature, len(c.sigs))
	for i, s := range c.sigs {
		out[i] = s.clone()
	}
	return out
}

// Match returns, in catalog order, the indices of the signatures triggered
// by header. A pattern only takes part in the match when header covers it
// entirely, so short files never trigger long patterns.
func (c *Catalog) Match(header []byte) []int {
	hit := make([]bool, len(c.sigs))
	for _, idx := range c.index {
		if idx.offset >= len(header) {
			break
		}
		idx.table.Walk(header[idx.offset:], func(_ []byte, ids []int) bool {
			for _, id := range ids {
				hit[id] = true
			}
			return false
		})
	}

	var ids []int
	for i, ok := range hit {
		if ok {
			ids = append(ids, i)
		}
	}
	return ids
}

var defaultCatalog = sync.OnceValue(func() *Catalog {
	c, err := NewCatalog(builtin...)
	if err != nil {
		panic(fmt.Sprintf("signature: built-in catalog: %v", err))
	}
	return c
})

// Default returns the catalog of built-in signatures.
func Default() *Catalog {
	return defaultCatalog()
}

// Builtin returns a copy of the built-in signatures, in catalog order.
func Builtin() []Signature {
	return Default().Signatures()
}

// WithExtra returns a new catalog made of the built-in signatures followed
// by extra. The default catalog is left untouched.
func WithExtra(extra ...Signature) (*Catalog, error) {
	if len(extra) == 0 {
		return Default(), nil
	}
	return NewCatalog(append(Builtin(), extra...)...)
}
