// Package familytree derives an heir list from a GEDCOM family tree around a
// chosen deceased individual.
package familytree

import (
	"io"
	"strings"

	"github.com/cacack/gedcom-go/decoder"
	"github.com/cacack/gedcom-go/gedcom"
	"github.com/pkg/errors"

	"inheritance-engine/internal/model"
)

type Tree struct {
	people   map[string]*gedcom.Individual
	families []*gedcom.Family
}

// Decode parses a GEDCOM stream.
func Decode(r io.Reader) (*Tree, error) {
	doc, err := decoder.Decode(r)
	if err != nil {
		return nil, errors.Wrap(err, "familytree: decode gedcom")
	}
	return New(doc), nil
}

func New(doc *gedcom.Document) *Tree {
	t := &Tree{people: make(map[string]*gedcom.Individual)}
	if doc == nil {
		return t
	}
	for _, ind := range doc.Individuals() {
		if ind != nil && ind.XRef != "" {
			t.people[ind.XRef] = ind
		}
	}
	for _, fam := range doc.Families() {
		if fam != nil {
			t.families = append(t.families, fam)
		}
	}
	return t
}

// Import builds the calculator input for the individual xref. Estate amounts
// are left at zero. Relatives that cannot be classified (unknown sex) are
// skipped and reported in the returned notes.
func (t *Tree) Import(xref string, law model.LawSystem) (model.InheritanceInput, []string, error) {
	self, ok := t.people[normalizeXRef(xref)]
	if !ok {
		return model.InheritanceInput{}, nil, errors.Errorf("familytree: individual %s not found", xref)
	}
	gender, ok := genderOf(self)
	if !ok {
		return model.InheritanceInput{}, nil, errors.Errorf("familytree: individual %s has no recorded sex", xref)
	}

	b := &builder{seen: map[string]bool{self.XRef: true}}
	in := model.InheritanceInput{
		Deceased:  model.DeceasedInfo{Name: nameOf(self), Gender: gender, MaritalStatus: t.maritalStatus(self)},
		LawSystem: law,
	}

	if in.Deceased.MaritalStatus == model.Married {
		for _, sp := range t.currentSpouses(self) {
			b.add(sp, model.Spouse, model.Spouse)
		}
	}

	for _, child := range t.children(self) {
		b.add(child, model.Son, model.Daughter)
	}
	for _, child := range t.children(self) {
		if g, _ := genderOf(child); g == model.Male {
			for _, gc := range t.children(child) {
				b.add(gc, model.SonOfSon, model.DaughterOfSon)
			}
		}
	}

	father, mother := t.parents(self)
	b.add(father, model.Father, "")
	b.add(mother, "", model.Mother)

	var paternalGrandfather, paternalGrandmother, maternalGrandmother *gedcom.Individual
	if father != nil {
		paternalGrandfather, paternalGrandmother = t.parents(father)
	}
	if mother != nil {
		_, maternalGrandmother = t.parents(mother)
	}
	b.add(paternalGrandfather, model.Grandfather, "")
	b.add(paternalGrandmother, "", model.Grandmother)
	b.add(maternalGrandmother, "", model.Grandmother)

	for _, sib := range t.siblings(self) {
		sf, sm := t.parents(sib)
		switch {
		case father != nil && sf == father && mother != nil && sm == mother:
			b.add(sib, model.BrotherFull, model.SisterFull)
		case father != nil && sf == father:
			b.add(sib, model.BrotherPaternal, model.SisterPaternal)
		case mother != nil && sm == mother:
			b.add(sib, model.BrotherMaternal, model.SisterMaternal)
		}
	}

	if father != nil {
		for _, uncle := range t.siblings(father) {
			if uf, _ := t.parents(uncle); uf == nil || uf != paternalGrandfather {
				continue
			}
			if g, _ := genderOf(uncle); g != model.Male {
				continue
			}
			b.add(uncle, model.UnclePaternal, "")
			for _, cousin := range t.children(uncle) {
				b.add(cousin, model.SonOfUncle, "")
			}
		}
	}

	in.Heirs = b.heirs
	return in, b.notes, nil
}

type builder struct {
	seen  map[string]bool
	heirs []model.Heir
	notes []string
}

// add records ind under the relation matching its sex. An empty relation for
// a sex means that sex does not inherit in this position.
func (b *builder) add(ind *gedcom.Individual, male, female model.Relation) {
	if ind == nil || b.seen[ind.XRef] {
		return
	}
	g, ok := genderOf(ind)
	if !ok {
		b.notes = append(b.notes, nameOf(ind)+" ("+ind.XRef+") dilewati: jenis kelamin tidak tercatat")
		return
	}
	rel := male
	if g == model.Female {
		rel = female
	}
	if rel == "" {
		return
	}
	b.seen[ind.XRef] = true
	b.heirs = append(b.heirs, model.Heir{
		ID:       strings.Trim(ind.XRef, "@"),
		Relation: rel,
		Name:     nameOf(ind),
		Gender:   g,
		IsAlive:  !hasEvent(ind.Events, "DEAT"),
		Count:    1,
	})
}

func (t *Tree) spouseFamilies(ind *gedcom.Individual) []*gedcom.Family {
	var out []*gedcom.Family
	for _, f := range t.families {
		if f.Husband == ind.XRef || f.Wife == ind.XRef {
			out = append(out, f)
		}
	}
	return out
}

func (t *Tree) partner(f *gedcom.Family, ind *gedcom.Individual) *gedcom.Individual {
	if f.Husband == ind.XRef {
		return t.people[f.Wife]
	}
	return t.people[f.Husband]
}

// currentSpouses are living partners of families without a divorce event.
func (t *Tree) currentSpouses(ind *gedcom.Individual) []*gedcom.Individual {
	var out []*gedcom.Individual
	for _, f := range t.spouseFamilies(ind) {
		p := t.partner(f, ind)
		if p == nil || hasEvent(f.Events, "DIV") || hasEvent(p.Events, "DEAT") {
			continue
		}
		out = append(out, p)
	}
	return out
}

func (t *Tree) maritalStatus(ind *gedcom.Individual) model.MaritalStatus {
	status := model.Single
	for _, f := range t.spouseFamilies(ind) {
		p := t.partner(f, ind)
		if p == nil {
			continue
		}
		switch {
		case hasEvent(f.Events, "DIV"):
			if status == model.Single {
				status = model.Divorced
			}
		case hasEvent(p.Events, "DEAT"):
			if status != model.Married {
				status = model.Widowed
			}
		default:
			return model.Married
		}
	}
	return status
}

func (t *Tree) children(ind *gedcom.Individual) []*gedcom.Individual {
	var out []*gedcom.Individual
	for _, f := range t.spouseFamilies(ind) {
		for _, c := range f.Children {
			if child, ok := t.people[c]; ok {
				out = append(out, child)
			}
		}
	}
	return out
}

// parents returns the husband and wife of the first family listing ind as a child.
func (t *Tree) parents(ind *gedcom.Individual) (father, mother *gedcom.Individual) {
	for _, f := range t.families {
		for _, c := range f.Children {
			if c == ind.XRef {
				return t.people[f.Husband], t.people[f.Wife]
			}
		}
	}
	return nil, nil
}

// siblings are the other children of either parent, across all their families.
func (t *Tree) siblings(ind *gedcom.Individual) []*gedcom.Individual {
	father, mother := t.parents(ind)
	seen := map[string]bool{ind.XRef: true}
	var out []*gedcom.Individual
	for _, parent := range []*gedcom.Individual{father, mother} {
		if parent == nil {
			continue
		}
		for _, c := range t.children(parent) {
			if !seen[c.XRef] {
				seen[c.XRef] = true
				out = append(out, c)
			}
		}
	}
	return out
}

func genderOf(ind *gedcom.Individual) (model.Gender, bool) {
	switch strings.ToUpper(ind.Sex) {
	case "M":
		return model.Male, true
	case "F":
		return model.Female, true
	}
	return "", false
}

func nameOf(ind *gedcom.Individual) string {
	if len(ind.Names) == 0 || ind.Names[0] == nil {
		return ""
	}
	name := ind.Names[0]
	full := name.Full
	if full == "" {
		full = name.Given + " " + name.Surname
	}
	return strings.Join(strings.Fields(strings.ReplaceAll(full, "/", "")), " ")
}

func hasEvent(events []*gedcom.Event, tag string) bool {
	for _, e := range events {
		if e != nil && string(e.Type) == tag {
			return true
		}
	}
	return false
}

func normalizeXRef(xref string) string {
	xref = strings.TrimSpace(xref)
	if !strings.HasPrefix(xref, "@") {
		xref = "@" + xref + "@"
	}
	return xref
}
