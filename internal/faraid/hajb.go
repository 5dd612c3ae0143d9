package faraid

import (
	"fmt"
	"strings"

	"inheritance-engine/internal/model"
	"inheritance-engine/internal/share"
)

// Rule excludes the Blocked relations when at least MinBlockers living heirs
// of the Blockers relations are present. Unless names relations whose presence
// cancels the rule; RequiresAny names relations of which at least one must be
// present for the rule to apply.
type Rule struct {
	Blockers    []model.Relation
	MinBlockers int
	Blocked     []model.Relation
	Unless      []model.Relation
	RequiresAny []model.Relation
	Reason      string
}

var (
	allSiblings = []model.Relation{
		model.BrotherFull, model.SisterFull,
		model.BrotherPaternal, model.SisterPaternal,
		model.BrotherMaternal, model.SisterMaternal,
	}
	uncleLine        = []model.Relation{model.UnclePaternal, model.SonOfUncle}
	paternalLine     = []model.Relation{model.BrotherPaternal, model.SisterPaternal, model.UnclePaternal, model.SonOfUncle}
	maternalSiblings = []model.Relation{model.BrotherMaternal, model.SisterMaternal}
	femaleIssue      = []model.Relation{model.Daughter, model.DaughterOfSon}
)

func concat(groups ...[]model.Relation) []model.Relation {
	var out []model.Relation
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

// HajbRules is evaluated top to bottom. A blocker only counts while it has not
// itself been excluded by an earlier row.
var HajbRules = []Rule{
	{
		Blockers: []model.Relation{model.Son},
		Blocked:  concat([]model.Relation{model.SonOfSon, model.DaughterOfSon}, allSiblings, uncleLine),
		Reason:   "anak laki-laki menghalangi cucu, saudara, dan paman",
	},
	{
		Blockers: []model.Relation{model.Father},
		Blocked:  concat([]model.Relation{model.Grandfather}, allSiblings, uncleLine),
		Reason:   "ayah menghalangi kakek, saudara, dan paman",
	},
	{
		Blockers: []model.Relation{model.Mother},
		Blocked:  []model.Relation{model.Grandmother},
		Reason:   "ibu menghalangi nenek",
	},
	{
		Blockers: []model.Relation{model.SonOfSon},
		Blocked:  concat(allSiblings, uncleLine),
		Reason:   "cucu laki-laki menghalangi saudara dan paman",
	},
	{
		Blockers: []model.Relation{model.Grandfather},
		Blocked:  concat(allSiblings, uncleLine),
		Reason:   "kakek menggantikan kedudukan ayah terhadap saudara dan paman",
	},
	{
		Blockers: femaleIssue,
		Blocked:  maternalSiblings,
		Reason:   "keturunan pewaris menghalangi saudara seibu",
	},
	{
		Blockers:    []model.Relation{model.Daughter},
		MinBlockers: 2,
		Blocked:     []model.Relation{model.DaughterOfSon},
		Unless:      []model.Relation{model.SonOfSon},
		Reason:      "dua anak perempuan atau lebih telah menghabiskan bagian 2/3",
	},
	{
		Blockers: []model.Relation{model.BrotherFull},
		Blocked:  paternalLine,
		Reason:   "saudara laki-laki kandung menghalangi saudara seayah dan paman",
	},
	{
		Blockers:    []model.Relation{model.SisterFull},
		RequiresAny: femaleIssue,
		Blocked:     paternalLine,
		Reason:      "saudara perempuan kandung menjadi asabah bersama anak perempuan",
	},
	{
		Blockers:    []model.Relation{model.SisterFull},
		MinBlockers: 2,
		Blocked:     []model.Relation{model.SisterPaternal},
		Unless:      []model.Relation{model.BrotherPaternal},
		Reason:      "dua saudara perempuan kandung atau lebih telah menghabiskan bagian 2/3",
	},
	{
		Blockers: []model.Relation{model.BrotherPaternal},
		Blocked:  uncleLine,
		Reason:   "saudara laki-laki seayah menghalangi paman",
	},
	{
		Blockers:    []model.Relation{model.SisterPaternal},
		RequiresAny: femaleIssue,
		Blocked:     uncleLine,
		Reason:      "saudara perempuan seayah menjadi asabah bersama anak perempuan",
	},
	{
		Blockers: []model.Relation{model.UnclePaternal},
		Blocked:  []model.Relation{model.SonOfUncle},
		Reason:   "paman menghalangi anak laki-laki paman",
	},
}

func (r Rule) applies(fam *share.Family) bool {
	need := r.MinBlockers
	if need < 1 {
		need = 1
	}
	if fam.Count(r.Blockers...) < need {
		return false
	}
	if len(r.Unless) > 0 && fam.Has(r.Unless...) {
		return false
	}
	if len(r.RequiresAny) > 0 && !fam.Has(r.RequiresAny...) {
		return false
	}
	return true
}

// applyHajb removes excluded relations from fam and records them as zero portions.
func applyHajb(rules []Rule, fam *share.Family, deceased model.Gender, out *share.Outcome) {
	for _, rule := range rules {
		if !rule.applies(fam) {
			continue
		}
		var blockers []string
		for _, b := range rule.Blockers {
			if fam.Has(b) {
				blockers = append(blockers, strings.ToLower(b.Label(model.ExpectedGender(b, deceased))))
			}
		}
		for _, rel := range rule.Blocked {
			lines := fam.Lines(rel)
			if len(lines) == 0 {
				continue
			}
			out.Exclude(lines, fmt.Sprintf("Terhalang (mahjub) oleh %s: %s", strings.Join(blockers, ", "), rule.Reason))
			fam.Remove(rel)
		}
	}
}
