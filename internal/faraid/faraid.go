// Package faraid computes Islamic inheritance shares: exclusion (hajb),
// fixed shares (fard), residuaries (asabah), proportional reduction ('aul)
// and optionally the return of a surplus (radd).
package faraid

import (
	"fmt"
	"math/big"

	"inheritance-engine/internal/model"
	"inheritance-engine/internal/share"
)

type Options struct {
	// Radd returns a residue nobody can claim as asabah to the fixed-share
	// heirs other than the spouse, or to the spouse when nobody else inherits.
	// When false the residue is reported as undistributed.
	Radd bool
}

type grant struct {
	lines       []model.Heir
	fraction    *big.Rat
	explanation string
	spouse      bool
}

type calculation struct {
	deceased model.DeceasedInfo
	fam      *share.Family
	out      share.Outcome
	fixed    []grant
	residual []grant
}

// ComputeShares returns the fraction of the net estate due to every living
// heir line. Excluded heirs are listed with a zero fraction.
func ComputeShares(deceased model.DeceasedInfo, heirs []model.Heir, opts Options) share.Outcome {
	c := &calculation{deceased: deceased, fam: share.NewFamily(heirs)}
	c.out.Residue = share.Zero()
	c.out.Explain("Perhitungan menggunakan hukum waris Islam (faraid).")
	for _, h := range heirs {
		if !h.IsAlive {
			c.out.Explain(fmt.Sprintf("%s telah meninggal dunia sehingga tidak ikut mewarisi.", describe(h)))
		}
	}

	if c.fam.Empty() {
		c.out.Residue = share.One()
		c.out.Warn("Tidak ada ahli waris yang berhak; seluruh harta tidak terbagi.")
		return c.out
	}

	// Siblings reduce the mother's share even when they are themselves excluded.
	siblings := c.fam.Count(allSiblings...)
	applyHajb(HajbRules, c.fam, deceased.Gender, &c.out)

	c.assignFixed(siblings)
	residue := c.settle()
	residue = c.assignResidue(residue)
	if residue.Sign() > 0 {
		if opts.Radd {
			c.radd(residue)
			residue = share.Zero()
		} else {
			c.out.Warn(fmt.Sprintf("Sisa harta %s tidak memiliki ahli waris asabah dan tidak terbagi.", share.Format(residue)))
		}
	}

	for _, g := range c.fixed {
		c.out.Give(g.lines, g.fraction, g.explanation)
	}
	for _, g := range c.residual {
		c.out.Give(g.lines, g.fraction, g.explanation)
	}
	c.out.Residue = residue
	c.out.SortLike(heirs)
	return c.out
}

func (c *calculation) fix(lines []model.Heir, f *big.Rat, explanation string) {
	if len(lines) == 0 {
		return
	}
	c.fixed = append(c.fixed, grant{lines: lines, fraction: f, explanation: explanation})
}

func (c *calculation) assignFixed(siblingsBefore int) {
	fam := c.fam
	descendants := fam.Has(model.Son, model.Daughter, model.SonOfSon, model.DaughterOfSon)
	maleDesc := fam.Has(model.Son, model.SonOfSon)
	femaleDesc := fam.Has(femaleIssue...)

	var spouseShare *big.Rat
	if lines := fam.Lines(model.Spouse); len(lines) > 0 {
		var f *big.Rat
		var why string
		if c.deceased.Gender == model.Female {
			f, why = share.Frac(1, 2), "Suami mendapat 1/2 karena pewaris tidak memiliki keturunan"
			if descendants {
				f, why = share.Frac(1, 4), "Suami mendapat 1/4 karena pewaris memiliki keturunan"
			}
		} else {
			f, why = share.Frac(1, 4), "Istri mendapat 1/4 karena pewaris tidak memiliki keturunan"
			if descendants {
				f, why = share.Frac(1, 8), "Istri mendapat 1/8 karena pewaris memiliki keturunan"
			}
			if share.Heads(lines) > 1 {
				why += ", dibagi rata di antara para istri"
			}
		}
		c.fixed = append(c.fixed, grant{lines: lines, fraction: f, explanation: why, spouse: true})
		spouseShare = f
	}

	if !fam.Has(model.Son) {
		switch n := fam.Count(model.Daughter); {
		case n == 1:
			c.fix(fam.Lines(model.Daughter), share.Frac(1, 2), "Anak perempuan tunggal mendapat 1/2")
		case n >= 2:
			c.fix(fam.Lines(model.Daughter), share.Frac(2, 3), "Dua anak perempuan atau lebih bersama-sama mendapat 2/3, dibagi rata")
		}
	}

	if fam.Has(model.DaughterOfSon) && !fam.Has(model.SonOfSon) {
		lines := fam.Lines(model.DaughterOfSon)
		switch d := fam.Count(model.Daughter); {
		case d == 1:
			c.fix(lines, share.Frac(1, 6), "Cucu perempuan mendapat 1/6 sebagai pelengkap 2/3 bersama satu anak perempuan")
		case d == 0 && share.Heads(lines) == 1:
			c.fix(lines, share.Frac(1, 2), "Cucu perempuan tunggal mendapat 1/2 karena tidak ada anak")
		case d == 0:
			c.fix(lines, share.Frac(2, 3), "Dua cucu perempuan atau lebih bersama-sama mendapat 2/3 karena tidak ada anak")
		}
	}

	if lines := fam.Lines(model.Mother); len(lines) > 0 {
		switch {
		case descendants:
			c.fix(lines, share.Frac(1, 6), "Ibu mendapat 1/6 karena pewaris memiliki keturunan")
		case siblingsBefore >= 2:
			c.fix(lines, share.Frac(1, 6), "Ibu mendapat 1/6 karena pewaris memiliki dua saudara atau lebih")
		case spouseShare != nil && fam.Has(model.Father):
			f := share.Mul(share.Frac(1, 3), share.Sub(share.One(), spouseShare))
			c.fix(lines, f, "Ibu mendapat 1/3 dari sisa setelah bagian pasangan (masalah 'umariyyatain)")
		default:
			c.fix(lines, share.Frac(1, 3), "Ibu mendapat 1/3 karena pewaris tidak memiliki keturunan atau saudara")
		}
	}

	for _, rel := range []model.Relation{model.Father, model.Grandfather} {
		lines := fam.Lines(rel)
		if len(lines) == 0 || !descendants {
			continue
		}
		label := rel.Label(model.Male)
		if maleDesc {
			c.fix(lines, share.Frac(1, 6), label+" mendapat 1/6 karena pewaris memiliki keturunan laki-laki")
		} else {
			c.fix(lines, share.Frac(1, 6), label+" mendapat 1/6 dan juga sisa harta karena pewaris hanya memiliki keturunan perempuan")
		}
	}

	if lines := fam.Lines(model.Grandmother); len(lines) > 0 {
		c.fix(lines, share.Frac(1, 6), "Nenek mendapat 1/6 karena ibu tidak ada")
	}

	if lines := fam.Lines(maternalSiblings...); len(lines) > 0 {
		if share.Heads(lines) == 1 {
			c.fix(lines, share.Frac(1, 6), "Saudara seibu tunggal mendapat 1/6")
		} else {
			c.fix(lines, share.Frac(1, 3), "Saudara seibu bersama-sama mendapat 1/3, laki-laki dan perempuan sama rata")
		}
	}

	if lines := fam.Lines(model.SisterFull); len(lines) > 0 && !fam.Has(model.BrotherFull) && !femaleDesc {
		if share.Heads(lines) == 1 {
			c.fix(lines, share.Frac(1, 2), "Saudara perempuan kandung tunggal mendapat 1/2")
		} else {
			c.fix(lines, share.Frac(2, 3), "Dua saudara perempuan kandung atau lebih bersama-sama mendapat 2/3")
		}
	}

	if lines := fam.Lines(model.SisterPaternal); len(lines) > 0 && !fam.Has(model.BrotherPaternal) && !femaleDesc {
		switch full := fam.Count(model.SisterFull); {
		case full == 1:
			c.fix(lines, share.Frac(1, 6), "Saudara perempuan seayah mendapat 1/6 sebagai pelengkap 2/3 bersama saudara perempuan kandung")
		case full == 0 && share.Heads(lines) == 1:
			c.fix(lines, share.Frac(1, 2), "Saudara perempuan seayah tunggal mendapat 1/2")
		case full == 0:
			c.fix(lines, share.Frac(2, 3), "Dua saudara perempuan seayah atau lebih bersama-sama mendapat 2/3")
		}
	}
}

// settle applies 'aul when the fixed shares exceed the estate and returns
// what is left for the residuaries.
func (c *calculation) settle() *big.Rat {
	total := share.Zero()
	for _, g := range c.fixed {
		total.Add(total, g.fraction)
	}
	if total.Cmp(share.One()) <= 0 {
		return share.Sub(share.One(), total)
	}
	c.out.Warn(fmt.Sprintf("Jumlah bagian tetap (%s) melebihi seluruh harta; semua bagian dikurangi secara proporsional ('aul).", share.Format(total)))
	for i := range c.fixed {
		scaled := share.Quo(c.fixed[i].fraction, total)
		c.fixed[i].explanation += fmt.Sprintf(" (setelah 'aul menjadi %s)", share.Format(scaled))
		c.fixed[i].fraction = scaled
	}
	return share.Zero()
}

type asabahClass struct {
	males   []model.Relation
	females []model.Relation
	// withFemaleIssue marks sisters who become residuaries beside daughters.
	withFemaleIssue bool
	// withoutMaleIssue marks ascendants who only take the residue when the
	// deceased left no male descendant.
	withoutMaleIssue bool
	explanation      string
}

// asabahOrder lists residuary classes by priority; the first present class
// takes the whole residue.
var asabahOrder = []asabahClass{
	{males: []model.Relation{model.Son}, females: []model.Relation{model.Daughter},
		explanation: "Asabah: anak laki-laki dan anak perempuan menerima sisa harta dengan perbandingan 2:1"},
	{males: []model.Relation{model.SonOfSon}, females: []model.Relation{model.DaughterOfSon},
		explanation: "Asabah: cucu dari anak laki-laki menerima sisa harta dengan perbandingan 2:1"},
	{males: []model.Relation{model.Father}, withoutMaleIssue: true,
		explanation: "Asabah: ayah menerima sisa harta"},
	{males: []model.Relation{model.Grandfather}, withoutMaleIssue: true,
		explanation: "Asabah: kakek menerima sisa harta"},
	{males: []model.Relation{model.BrotherFull}, females: []model.Relation{model.SisterFull},
		explanation: "Asabah: saudara kandung menerima sisa harta dengan perbandingan 2:1"},
	{females: []model.Relation{model.SisterFull}, withFemaleIssue: true,
		explanation: "Asabah ma'al ghair: saudara perempuan kandung menerima sisa harta bersama anak perempuan"},
	{males: []model.Relation{model.BrotherPaternal}, females: []model.Relation{model.SisterPaternal},
		explanation: "Asabah: saudara seayah menerima sisa harta dengan perbandingan 2:1"},
	{females: []model.Relation{model.SisterPaternal}, withFemaleIssue: true,
		explanation: "Asabah ma'al ghair: saudara perempuan seayah menerima sisa harta bersama anak perempuan"},
	{males: []model.Relation{model.UnclePaternal},
		explanation: "Asabah: paman menerima sisa harta"},
	{males: []model.Relation{model.SonOfUncle},
		explanation: "Asabah: anak laki-laki paman menerima sisa harta"},
}

func (a asabahClass) present(fam *share.Family) bool {
	if a.withoutMaleIssue && fam.Has(model.Son, model.SonOfSon) {
		return false
	}
	if a.withFemaleIssue {
		return fam.Has(a.females...) && fam.Has(femaleIssue...)
	}
	return len(a.males) > 0 && fam.Has(a.males...)
}

// assignResidue hands the residue to the highest-priority residuary class and
// returns whatever could not be placed.
func (c *calculation) assignResidue(residue *big.Rat) *big.Rat {
	for _, class := range asabahOrder {
		if !class.present(c.fam) {
			continue
		}
		males := c.fam.Lines(class.males...)
		females := c.fam.Lines(class.females...)
		why := class.explanation
		if residue.Sign() == 0 {
			why += ", namun tidak ada sisa harta setelah bagian tetap"
		}
		if len(class.males) == 0 {
			c.residual = append(c.residual, grant{lines: females, fraction: residue, explanation: why})
			return share.Zero()
		}
		m, f := share.SplitTwoToOne(share.Heads(males), share.Heads(females), residue)
		c.residual = append(c.residual, grant{lines: males, fraction: m, explanation: why})
		if len(females) > 0 {
			c.residual = append(c.residual, grant{lines: females, fraction: f, explanation: why})
		}
		return share.Zero()
	}
	return residue
}

func (c *calculation) radd(residue *big.Rat) {
	base := share.Zero()
	for _, g := range c.fixed {
		if !g.spouse {
			base.Add(base, g.fraction)
		}
	}
	if base.Sign() == 0 {
		for i := range c.fixed {
			c.fixed[i].fraction = share.Add(c.fixed[i].fraction, residue)
			c.fixed[i].explanation += fmt.Sprintf("; ditambah sisa %s melalui radd karena tidak ada ahli waris lain", share.Format(residue))
		}
		c.out.Explain("Sisa harta dikembalikan (radd) kepada pasangan karena tidak ada ahli waris lain.")
		return
	}
	for i, g := range c.fixed {
		if g.spouse {
			continue
		}
		extra := share.Mul(residue, share.Quo(g.fraction, base))
		c.fixed[i].fraction = share.Add(g.fraction, extra)
		c.fixed[i].explanation += fmt.Sprintf("; ditambah %s melalui radd", share.Format(extra))
	}
	c.out.Explain(fmt.Sprintf("Sisa harta %s dikembalikan (radd) kepada ahli waris bagian tetap selain pasangan.", share.Format(residue)))
}

func describe(h model.Heir) string {
	label := h.Relation.Label(h.Gender)
	if h.Name == "" {
		return label
	}
	return fmt.Sprintf("%s (%s)", h.Name, label)
}
