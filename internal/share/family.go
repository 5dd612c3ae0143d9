package share

import "inheritance-engine/internal/model"

// Family groups living heir lines by relation.
type Family struct {
	lines map[model.Relation][]model.Heir
}

// NewFamily keeps only living heirs with a positive count, preserving input order.
func NewFamily(heirs []model.Heir) *Family {
	f := &Family{lines: make(map[model.Relation][]model.Heir)}
	for _, h := range heirs {
		if !h.IsAlive || h.Count < 1 {
			continue
		}
		f.lines[h.Relation] = append(f.lines[h.Relation], h)
	}
	return f
}

func (f *Family) Lines(rels ...model.Relation) []model.Heir {
	var out []model.Heir
	for _, r := range rels {
		out = append(out, f.lines[r]...)
	}
	return out
}

func (f *Family) Count(rels ...model.Relation) int {
	return Heads(f.Lines(rels...))
}

func (f *Family) Has(rels ...model.Relation) bool {
	return f.Count(rels...) > 0
}

// Remove drops a relation, e.g. once it has been excluded.
func (f *Family) Remove(r model.Relation) {
	delete(f.lines, r)
}

func (f *Family) Empty() bool {
	for _, lines := range f.lines {
		if Heads(lines) > 0 {
			return false
		}
	}
	return true
}
