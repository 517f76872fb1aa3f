package bom

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrNoRoot is returned when no row is marked as a root.
var ErrNoRoot = errors.New("no final root found")

// Row is one part/parent pair from the spreadsheet. Line is the 1-based
// data row number, used only in diagnostics.
type Row struct {
	PartNo   string
	NextPart string
	Line     int
}

// RelationMap maps a parent key to its child keys in row order.
type RelationMap map[string][]string

// Report summarizes a build. Roots lists every root candidate; Root is the
// one that was used.
type Report struct {
	TotalParts    int      `json:"total_parts"`
	NodeCount     int      `json:"node_count"`
	Roots         []string `json:"roots"`
	Root          string   `json:"root"`
	Duplicates    int      `json:"duplicates"`
	OrphanParents []string `json:"orphan_parents,omitempty"`
	Unreachable   []string `json:"unreachable,omitempty"`
}

// IsRootMarker reports whether a parent value means "no parent".
func IsRootMarker(next string) bool {
	next = strings.TrimSpace(next)
	return next == "" || strings.EqualFold(next, "nan")
}

// Relations groups rows by parent. Rows with an empty part number are
// ignored. Roots are returned de-duplicated in row order.
func Relations(rows []Row) (rel RelationMap, roots []string, total int) {
	rel = make(RelationMap)
	seenRoot := make(map[string]bool)
	for _, r := range rows {
		part := strings.TrimSpace(r.PartNo)
		if part == "" {
			continue
		}
		total++
		next := strings.TrimSpace(r.NextPart)
		if IsRootMarker(next) {
			if !seenRoot[part] {
				seenRoot[part] = true
				roots = append(roots, part)
			}
			continue
		}
		rel[next] = append(rel[next], part)
	}
	return rel, roots, total
}

// Build constructs the tree. The first root in row order becomes the tree
// root; other candidates are listed in the report so the caller can warn.
func Build(rows []Row) (*Tree, *Report, error) {
	rel, roots, total := Relations(rows)
	report := &Report{TotalParts: total, Roots: roots}
	if len(roots) == 0 {
		return nil, report, ErrNoRoot
	}

	b := &builder{
		tree:   newTree(),
		rel:    rel,
		seen:   make(map[string]bool),
		dupSeq: make(map[string]int),
	}
	report.Root = roots[0]
	rootID := b.tree.add(report.Root, report.Root, NoNode, false)
	b.tree.Root = rootID
	b.seen[report.Root] = true
	b.expand(rootID)

	report.NodeCount = b.tree.Len()
	report.Duplicates = b.duplicates
	report.OrphanParents = orphanParents(rows, rel)
	report.Unreachable = unreachable(rows, b.seen)
	return b.tree, report, nil
}

type builder struct {
	tree       *Tree
	rel        RelationMap
	seen       map[string]bool
	dupSeq     map[string]int
	duplicates int
}

// expand attaches the children of id. The seen set is shared across the
// whole build, so each key is expanded at most once and cycles terminate.
func (b *builder) expand(id NodeID) {
	key := b.tree.Nodes[id].Key
	for _, child := range b.rel[key] {
		if b.seen[child] {
			b.duplicates++
			b.tree.add(child, b.dupDisplay(child), id, true)
			continue
		}
		b.seen[child] = true
		display := child
		if _, taken := b.tree.byDisplay[display]; taken {
			// A real key spelled like an earlier dup leaf, e.g. "Bdup1".
			display = b.dupDisplay(child)
		}
		childID := b.tree.add(child, display, id, false)
		b.expand(childID)
	}
}

// dupDisplay returns the next free "<key>dupN" display key.
func (b *builder) dupDisplay(key string) string {
	for {
		b.dupSeq[key]++
		display := fmt.Sprintf("%sdup%d", key, b.dupSeq[key])
		if _, taken := b.tree.byDisplay[display]; !taken {
			return display
		}
	}
}

func orphanParents(rows []Row, rel RelationMap) []string {
	parts := make(map[string]bool, len(rows))
	for _, r := range rows {
		if p := strings.TrimSpace(r.PartNo); p != "" {
			parts[p] = true
		}
	}
	var out []string
	for parent := range rel {
		if !parts[parent] {
			out = append(out, parent)
		}
	}
	sort.Strings(out)
	return out
}

func unreachable(rows []Row, seen map[string]bool) []string {
	var out []string
	listed := make(map[string]bool)
	for _, r := range rows {
		p := strings.TrimSpace(r.PartNo)
		if p == "" || seen[p] || listed[p] {
			continue
		}
		listed[p] = true
		out = append(out, p)
	}
	return out
}
