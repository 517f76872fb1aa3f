package media

import (
	"sort"
	"strings"
)

// Index holds one key→path mapping per media kind. It is rebuilt wholesale
// on every refresh and never mutated afterwards.
type Index struct {
	sets      map[Kind]Set
	anomalies []Anomaly
}

// Set is the mapping for a single kind.
type Set map[string]string

// Has reports whether key (any case) has a file.
func (s Set) Has(key string) bool {
	_, ok := s[strings.ToUpper(strings.TrimSpace(key))]
	return ok
}

// Keys returns the keys in sorted order.
func (s Set) Keys() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// BuildIndex scans the folder configured for each kind. Kinds missing from
// dirs get an empty set.
func BuildIndex(dirs map[Kind]string) *Index {
	idx := &Index{sets: make(map[Kind]Set, len(Kinds))}
	for _, kind := range Kinds {
		dir, ok := dirs[kind]
		if !ok {
			idx.sets[kind] = Set{}
			continue
		}
		res := Scan(dir, kind.Extensions())
		idx.sets[kind] = Set(res.Entries)
		for _, a := range res.Anomalies {
			a.Media = kind
			idx.anomalies = append(idx.anomalies, a)
		}
	}
	return idx
}

// NewIndex builds an index from ready-made sets, mostly for tests.
func NewIndex(sets map[Kind]Set) *Index {
	idx := &Index{sets: make(map[Kind]Set, len(Kinds))}
	for _, kind := range Kinds {
		set := Set{}
		for k, v := range sets[kind] {
			set[strings.ToUpper(k)] = v
		}
		idx.sets[kind] = set
	}
	return idx
}

// Set returns the mapping for kind. The result must not be modified.
func (idx *Index) Set(kind Kind) Set {
	if idx == nil {
		return Set{}
	}
	if s, ok := idx.sets[kind]; ok {
		return s
	}
	return Set{}
}

// Lookup returns the file for key in the given kind.
func (idx *Index) Lookup(kind Kind, key string) (string, bool) {
	path, ok := idx.Set(kind)[strings.ToUpper(strings.TrimSpace(key))]
	return path, ok
}

// Has reports whether key has a file of the given kind.
func (idx *Index) Has(kind Kind, key string) bool {
	_, ok := idx.Lookup(kind, key)
	return ok
}

// Counts returns the number of indexed files per kind.
func (idx *Index) Counts() map[Kind]int {
	counts := make(map[Kind]int, len(Kinds))
	for _, kind := range Kinds {
		counts[kind] = len(idx.Set(kind))
	}
	return counts
}

// Anomalies returns everything the scans skipped, in scan order.
func (idx *Index) Anomalies() []Anomaly {
	if idx == nil {
		return nil
	}
	return idx.anomalies
}
