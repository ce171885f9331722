package table

// TableSize is the size of the marker array, one slot per uint16 hash.
const TableSize = 1 << 16

// PrefixTable maps short byte keys to values and answers the question
// "which stored keys are a prefix of this buffer?" without probing the
// element map for every prefix length.
//
// Every prefix of every inserted key is hashed into a 64KiB marker array.
// A walk over a buffer stops as soon as a prefix hash has no marker, so
// buffers that share no leading bytes with any key cost a single lookup.
// Hash collisions only produce extra map probes, never missed matches.
type PrefixTable[T any] struct {
	markers [TableSize]byte
	elems   map[string]T
	maxKey  int
}

const (
	none = iota
	// prefixMarker: some key continues past this prefix.
	prefixMarker
	// elemMarker: this prefix may itself be a stored key.
	elemMarker
)

// New returns an empty table.
func New[T any]() *PrefixTable[T] {
	return &PrefixTable[T]{
		elems: make(map[string]T),
	}
}

func next(h uint16, b byte) uint16 {
	return (h << 2) + uint16(b)
}

// Insert stores v under key, replacing any previous value.
// Empty keys are ignored.
func (t *PrefixTable[T]) Insert(key []byte, v T) {
	if len(key) == 0 {
		return
	}

	var h uint16
	for _, b := range key {
		h = next(h, b)
		t.markers[h] = max(t.markers[h], prefixMarker)
	}
	t.markers[h] = elemMarker
	t.elems[string(key)] = v
	t.maxKey = max(t.maxKey, len(key))
}

// Get returns the value stored under key.
func (t *PrefixTable[T]) Get(key []byte) (T, bool) {
	v, ok := t.elems[string(key)]
	return v, ok
}

// Walk calls onMatch, shortest key first, for every stored key that is a
// prefix of data. Returning true from onMatch stops the walk.
//
// With keys "ID3" and "ID3\x03", walking "ID3\x03\x00" visits both, while
// walking "ID" visits none: a key longer than data can never match.
func (t *PrefixTable[T]) Walk(data []byte, onMatch func(key []byte, v T) bool) {
	if len(t.elems) == 0 {
		return
	}

	var h uint16
	for i, b := range data[:min(len(data), t.maxKey)] {
		h = next(h, b)

		switch t.markers[h] {
		case none:
			return
		case elemMarker:
			key := data[:i+1]
			if v, ok := t.elems[string(key)]; ok && onMatch(key, v) {
				return
			}
		}
	}
}

// Size returns the number of stored keys.
func (t *PrefixTable[T]) Size() int {
	return len(t.elems)
}
