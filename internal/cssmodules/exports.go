package cssmodules

import "iter"

// ExportRecord is one identifier contributing to an exported name. A
// non-empty From means the identifier lives in another module and is reached
// through the compose dependency DependencyID.
type ExportRecord struct {
	Ident        string
	From         string
	DependencyID DependencyID
}

// ExportSet is an insertion-ordered set of records.
type ExportSet struct {
	records []ExportRecord
	index   map[ExportRecord]struct{}
}

func newExportSet(r ExportRecord) *ExportSet {
	s := &ExportSet{index: make(map[ExportRecord]struct{})}
	s.Insert(r)
	return s
}

// Insert adds r unless an equal record is already present.
func (s *ExportSet) Insert(r ExportRecord) bool {
	if _, ok := s.index[r]; ok {
		return false
	}
	s.index[r] = struct{}{}
	s.records = append(s.records, r)
	return true
}

// Extend inserts every record of other in order.
func (s *ExportSet) Extend(records []ExportRecord) {
	for _, r := range records {
		s.Insert(r)
	}
}

// Records returns the records in insertion order. The slice must not be modified.
func (s *ExportSet) Records() []ExportRecord {
	return s.records
}

// Len returns the number of records.
func (s *ExportSet) Len() int {
	return len(s.records)
}

// Idents returns the identifiers in insertion order.
func (s *ExportSet) Idents() []string {
	idents := make([]string, len(s.records))
	for i, r := range s.records {
		idents[i] = r.Ident
	}
	return idents
}

// ExportGraph maps exported names to the records they resolve to, keeping the
// order in which names were first seen. It is built during one parse and
// read-only afterwards.
type ExportGraph struct {
	names []string
	sets  map[string]*ExportSet
}

// NewExportGraph returns an empty graph.
func NewExportGraph() *ExportGraph {
	return &ExportGraph{sets: make(map[string]*ExportSet)}
}

// InsertOrMerge creates a singleton set for a new name, or adds r to the
// existing set. It reports whether the graph changed.
func (g *ExportGraph) InsertOrMerge(name string, r ExportRecord) bool {
	if set, ok := g.sets[name]; ok {
		return set.Insert(r)
	}
	g.names = append(g.names, name)
	g.sets[name] = newExportSet(r)
	return true
}

// InsertConvention expands raw by convention and inserts r under every
// resulting name. It returns the names.
func (g *ExportGraph) InsertConvention(raw string, convention Convention, r ExportRecord) []string {
	names := ExportNames(raw, convention)
	for _, name := range names {
		g.InsertOrMerge(name, r)
	}
	return names
}

// Compose applies "composes: names [from source]" to every class in
// localClasses, which must already be keys of the graph.
//
// Without a source, a name that is already declared contributes its whole
// set; any other name is inserted literally. With source "global" the name is
// inserted literally as well. Any other source inserts a record resolved
// through depID at generation time.
func (g *ExportGraph) Compose(localClasses, names []string, from string, depID DependencyID) error {
	for _, name := range names {
		for _, class := range localClasses {
			target, ok := g.sets[class]
			if !ok {
				return internalf(ErrUndeclaredLocalClass,
					"composes local class %q must already be added to exports", class)
			}

			if existing, found := g.sets[name]; found && from == "" {
				snapshot := append([]ExportRecord(nil), existing.records...)
				target.Extend(snapshot)
				continue
			}

			r := ExportRecord{Ident: name}
			if from != "" && from != "global" {
				r.From = from
				r.DependencyID = depID
			}
			target.Insert(r)
		}
	}
	return nil
}

// Get returns the set for name.
func (g *ExportGraph) Get(name string) (*ExportSet, bool) {
	if g == nil {
		return nil, false
	}
	set, ok := g.sets[name]
	return set, ok
}

// Len returns the number of exported names.
func (g *ExportGraph) Len() int {
	if g == nil {
		return 0
	}
	return len(g.names)
}

// Names returns the exported names in first-seen order.
func (g *ExportGraph) Names() []string {
	if g == nil {
		return nil
	}
	return append([]string(nil), g.names...)
}

// All iterates names and sets in first-seen order.
func (g *ExportGraph) All() iter.Seq2[string, *ExportSet] {
	return func(yield func(string, *ExportSet) bool) {
		if g == nil {
			return
		}
		for _, name := range g.names {
			if !yield(name, g.sets[name]) {
				return
			}
		}
	}
}
