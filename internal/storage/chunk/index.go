package chunk

import (
	"errors"
	"fmt"
)

// ErrDuplicateKind is returned when an index names a kind twice.
var ErrDuplicateKind = errors.New("chunk: duplicate kind in index")

// Index is the ordered list of chunks in a file. Order is the on-disk order;
// lookups go through a position table built in a single pass.
type Index struct {
	entries []Descriptor
	pos     map[Kind]int
}

// NewIndex builds an index over entries, which must be in file order.
func NewIndex(entries []Descriptor) (*Index, error) {
	idx := &Index{
		entries: entries,
		pos:     make(map[Kind]int, len(entries)),
	}
	for i, d := range entries {
		if _, dup := idx.pos[d.Kind]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateKind, d.Kind)
		}
		idx.pos[d.Kind] = i
	}
	return idx, nil
}

// Len returns the number of chunks.
func (x *Index) Len() int { return len(x.entries) }

// At returns the i-th descriptor.
func (x *Index) At(i int) Descriptor { return x.entries[i] }

// Lookup finds the descriptor of kind k.
func (x *Index) Lookup(k Kind) (Descriptor, bool) {
	i, ok := x.pos[k]
	if !ok {
		return Descriptor{}, false
	}
	return x.entries[i], true
}

// Has reports whether the index contains kind k.
func (x *Index) Has(k Kind) bool {
	_, ok := x.pos[k]
	return ok
}

// Kinds returns the chunk kinds in file order.
func (x *Index) Kinds() []Kind {
	kinds := make([]Kind, len(x.entries))
	for i, d := range x.entries {
		kinds[i] = d.Kind
	}
	return kinds
}
