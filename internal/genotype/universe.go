package genotype

import "fmt"

// Universe is an indexed set of architecture strings, as loaded from an
// extraction table. It answers neighborhood queries by index so landscape
// code never re-parses strings it has already seen.
type Universe struct {
	archs []string
	index map[string]int
	// nbrCache memoizes neighbor index lists; the analyzer walks the same
	// neighborhoods many times (local maxima, basins, random walks).
	nbrCache map[int][]int
}

// NewUniverse indexes the given architecture strings. Every string must be a
// well-formed, distinct cell encoding.
func NewUniverse(archs []string) (*Universe, error) {
	u := &Universe{
		archs:    archs,
		index:    make(map[string]int, len(archs)),
		nbrCache: make(map[int][]int),
	}
	for i, a := range archs {
		if _, err := Parse(a); err != nil {
			return nil, fmt.Errorf("universe: index %d: %w", i, err)
		}
		if prev, ok := u.index[a]; ok {
			return nil, fmt.Errorf("universe: duplicate architecture at %d and %d: %q", prev, i, a)
		}
		u.index[a] = i
	}
	return u, nil
}

// Size returns the number of architectures in the universe.
func (u *Universe) Size() int { return len(u.archs) }

// Arch returns the architecture string at index i.
func (u *Universe) Arch(i int) string { return u.archs[i] }

// Index returns the index of the given architecture string, or -1.
func (u *Universe) Index(arch string) int {
	if i, ok := u.index[arch]; ok {
		return i
	}
	return -1
}

// Neighbors returns the indices of the one-edge neighbors of architecture i
// that are present in the universe. Over the full search space every cell
// has all 24 neighbors; over a subset some may be absent and are skipped.
func (u *Universe) Neighbors(i int) []int {
	if cached, ok := u.nbrCache[i]; ok {
		return cached
	}
	strs, err := NeighborStrings(u.archs[i])
	if err != nil {
		// NewUniverse already validated every member.
		panic(fmt.Sprintf("universe: arch %d became unparsable: %v", i, err))
	}
	var idxs []int
	for _, s := range strs {
		if j, ok := u.index[s]; ok {
			idxs = append(idxs, j)
		}
	}
	u.nbrCache[i] = idxs
	return idxs
}
