package identity

import (
	"github.com/agentstation/roster/pkg/records"
)

// indexedKinds are the key kinds kept by a MasterIndex.
var indexedKinds = []KeyKind{KeyEmail, KeyPhone, KeyID, KeyNameDOB, KeyName}

// MasterIndex maps every present key of the master dataset to the positions
// holding it, in ascending dataset order. It is built once per merge pass
// and is never updated with rows appended during that pass.
type MasterIndex struct {
	keys map[KeyKind]map[string][]int
	size int
}

// NewIndex returns an empty index.
func NewIndex() *MasterIndex {
	ix := &MasterIndex{keys: make(map[KeyKind]map[string][]int, len(indexedKinds))}
	for _, k := range indexedKinds {
		ix.keys[k] = make(map[string][]int)
	}
	return ix
}

// BuildIndex indexes every row of ds in one pass.
func BuildIndex(ds *records.Dataset, ex *Extractor) *MasterIndex {
	ix := NewIndex()
	for pos, rec := range ds.Rows {
		ix.Add(pos, ex.Keys(rec))
	}
	return ix
}

// Add records the present keys of ks at position pos. Positions must be
// added in ascending order.
func (ix *MasterIndex) Add(pos int, ks KeySet) {
	for _, kind := range indexedKinds {
		if key, ok := ks.Key(kind); ok {
			ix.keys[kind][key] = append(ix.keys[kind][key], pos)
		}
	}
	if pos >= ix.size {
		ix.size = pos + 1
	}
}

// Positions returns the positions sharing key of kind.
func (ix *MasterIndex) Positions(kind KeyKind, key string) []int {
	return ix.keys[kind][key]
}

// Len returns the number of distinct keys kept for kind.
func (ix *MasterIndex) Len(kind KeyKind) int {
	return len(ix.keys[kind])
}

// Size returns one more than the highest indexed position.
func (ix *MasterIndex) Size() int { return ix.size }

// Groups calls fn for every key of kind held by more than one position.
func (ix *MasterIndex) Groups(kind KeyKind, fn func(key string, positions []int)) {
	for key, positions := range ix.keys[kind] {
		if len(positions) > 1 {
			fn(key, positions)
		}
	}
}

// Match is the outcome of a successful lookup.
type Match struct {
	// Position is the master row the incoming record merges into.
	Position int `json:"position" yaml:"position"`
	// Kind is the key that produced the match.
	Kind KeyKind `json:"kind" yaml:"kind"`
	// Candidates is how many master rows share the key. Values above one
	// mean the match was ambiguous and the first row was chosen.
	Candidates int `json:"candidates" yaml:"candidates"`
}

// Ambiguous reports whether more than one master row shared the key.
func (m Match) Ambiguous() bool { return m.Candidates > 1 }

// FindMatch consults the keys of ks in Priority order and returns the first
// hit. Among several rows sharing a key the lowest position wins.
func (ix *MasterIndex) FindMatch(ks KeySet) (Match, bool) {
	for _, kind := range Priority {
		key, ok := ks.Key(kind)
		if !ok {
			continue
		}
		if positions := ix.keys[kind][key]; len(positions) > 0 {
			return Match{Position: positions[0], Kind: kind, Candidates: len(positions)}, true
		}
	}
	return Match{}, false
}
