// Package perdata computes inheritance shares under the Indonesian Civil Code
// (KUH Perdata / Burgerlijk Wetboek): four priority groups, the first group
// with a living heir takes the whole estate.
package perdata

import (
	"fmt"
	"math/big"

	"inheritance-engine/internal/model"
	"inheritance-engine/internal/share"
)

type Options struct {
	// SpouseCap limits the surviving spouse's share in group I, e.g. 1/4 for a
	// spouse of a later marriage (art. 852a). Nil leaves the spouse equal to a child.
	SpouseCap *big.Rat
}

// Group is one statutory priority group. Distribute assigns the whole estate
// among the group's living members.
type Group struct {
	Number     int
	Name       string
	Relations  []model.Relation
	Distribute func(fam *share.Family, opts Options, out *share.Outcome)
}

var siblingRelations = []model.Relation{
	model.BrotherFull, model.SisterFull,
	model.BrotherPaternal, model.SisterPaternal,
	model.BrotherMaternal, model.SisterMaternal,
}

// Groups is ordered by precedence.
var Groups = []Group{
	{
		Number:     1,
		Name:       "Golongan I (pasangan dan keturunan)",
		Relations:  []model.Relation{model.Spouse, model.Son, model.Daughter, model.SonOfSon, model.DaughterOfSon},
		Distribute: distributeGroupOne,
	},
	{
		Number:     2,
		Name:       "Golongan II (orang tua dan saudara)",
		Relations:  append([]model.Relation{model.Father, model.Mother}, siblingRelations...),
		Distribute: distributeGroupTwo,
	},
	{
		Number:     3,
		Name:       "Golongan III (kakek dan nenek)",
		Relations:  []model.Relation{model.Grandfather, model.Grandmother},
		Distribute: distributeGroupThree,
	},
	{
		Number:     4,
		Name:       "Golongan IV (keluarga sedarah garis menyamping)",
		Relations:  []model.Relation{model.UnclePaternal, model.SonOfUncle},
		Distribute: distributeGroupFour,
	},
}

// ComputeShares returns the fraction due to every living heir line. Heirs of
// a lower group than the inheriting one are listed with a zero fraction.
func ComputeShares(deceased model.DeceasedInfo, heirs []model.Heir, opts Options) share.Outcome {
	out := share.Outcome{Residue: share.Zero()}
	out.Explain("Perhitungan menggunakan hukum waris perdata (KUH Perdata).")
	for _, h := range heirs {
		if !h.IsAlive {
			out.Explain(fmt.Sprintf("%s telah meninggal dunia; penggantian tempat tidak diperhitungkan.", describe(h, deceased.Gender)))
		}
	}

	fam := share.NewFamily(heirs)
	if fam.Empty() {
		out.Residue = share.One()
		out.Warn("Tidak ada ahli waris yang berhak; seluruh harta jatuh kepada negara.")
		return out
	}

	inheriting := -1
	for i, g := range Groups {
		if inheriting >= 0 {
			out.Exclude(fam.Lines(g.Relations...), fmt.Sprintf("Tertutup oleh %s", Groups[inheriting].Name))
			continue
		}
		if !fam.Has(g.Relations...) {
			continue
		}
		inheriting = i
		out.Explain(fmt.Sprintf("%s mewarisi seluruh harta; golongan berikutnya tertutup.", g.Name))
		g.Distribute(fam, opts, &out)
	}

	out.SortLike(heirs)
	return out
}

func distributeGroupOne(fam *share.Family, opts Options, out *share.Outcome) {
	spouse := fam.Lines(model.Spouse)
	issue := fam.Lines(model.Son, model.Daughter)
	if len(issue) == 0 {
		issue = fam.Lines(model.SonOfSon, model.DaughterOfSon)
	} else {
		out.Exclude(fam.Lines(model.SonOfSon, model.DaughterOfSon), "Cucu tidak mewarisi selama anak pewaris masih hidup")
	}

	heads := share.Heads(spouse) + share.Heads(issue)
	spouseShare := share.Frac(int64(share.Heads(spouse)), int64(heads))
	why := "Pasangan mendapat bagian yang sama dengan seorang anak (Pasal 852a KUH Perdata)"
	if len(issue) == 0 {
		why = "Pasangan mewarisi seluruh harta karena tidak ada keturunan"
	} else if opts.SpouseCap != nil && spouseShare.Cmp(opts.SpouseCap) > 0 {
		spouseShare = new(big.Rat).Set(opts.SpouseCap)
		why = fmt.Sprintf("Bagian pasangan dibatasi paling banyak %s (Pasal 852a KUH Perdata)", share.Format(opts.SpouseCap))
	}
	out.Give(spouse, spouseShare, why)
	out.Give(issue, share.Sub(share.One(), spouseShare), "Keturunan mendapat bagian sama besar per kepala tanpa membedakan jenis kelamin (Pasal 852 KUH Perdata)")
}

// parentShares gives the share of each parent by number of living parents,
// indexed by sibling count; the last entry applies to any larger count.
var parentShares = map[int][]*big.Rat{
	2: {share.Frac(1, 2), share.Frac(1, 3), share.Frac(1, 4)},
	1: {share.Frac(1, 1), share.Frac(1, 2), share.Frac(1, 3), share.Frac(1, 4)},
}

func parentShare(parents, siblings int) *big.Rat {
	row := parentShares[parents]
	if siblings >= len(row) {
		siblings = len(row) - 1
	}
	return row[siblings]
}

func distributeGroupTwo(fam *share.Family, _ Options, out *share.Outcome) {
	parents := fam.Lines(model.Father, model.Mother)
	siblings := share.Heads(fam.Lines(siblingRelations...))

	rest := share.One()
	if len(parents) > 0 {
		// a deceased has at most two parents; extra heads split the parents' part
		n := min(share.Heads(parents), 2)
		total := share.Mul(parentShare(n, siblings), share.Frac(int64(n), 1))
		if siblings == 0 {
			total = share.One()
		}
		out.Give(parents, total, fmt.Sprintf("Orang tua masing-masing mendapat %s bersama %d saudara (Pasal 854-855 KUH Perdata)", share.Format(share.Quo(total, share.Frac(int64(share.Heads(parents)), 1))), siblings))
		rest = share.Sub(rest, total)
	}
	if siblings == 0 {
		return
	}

	full := fam.Lines(model.BrotherFull, model.SisterFull)
	paternal := append(append([]model.Heir{}, full...), fam.Lines(model.BrotherPaternal, model.SisterPaternal)...)
	maternal := append(append([]model.Heir{}, full...), fam.Lines(model.BrotherMaternal, model.SisterMaternal)...)
	halfSiblings := len(paternal) > len(full) || len(maternal) > len(full)

	switch {
	case !halfSiblings:
		out.Give(full, rest, "Saudara kandung membagi sisa harta sama rata (Pasal 856 KUH Perdata)")
	case len(paternal) == len(full) && len(full) == 0:
		out.Give(maternal, rest, "Saudara seibu membagi sisa harta sama rata karena tidak ada saudara dari garis ayah")
	case len(maternal) == len(full) && len(full) == 0:
		out.Give(paternal, rest, "Saudara seayah membagi sisa harta sama rata karena tidak ada saudara dari garis ibu")
	default:
		half := share.Mul(rest, share.Frac(1, 2))
		out.Give(paternal, half, "Bagian garis ayah dibagi di antara saudara kandung dan saudara seayah (Pasal 857 KUH Perdata)")
		out.Give(maternal, half, "Bagian garis ibu dibagi di antara saudara kandung dan saudara seibu (Pasal 857 KUH Perdata)")
	}
}

func distributeGroupThree(fam *share.Family, _ Options, out *share.Outcome) {
	out.Give(fam.Lines(model.Grandfather, model.Grandmother), share.One(), "Kakek dan nenek membagi harta sama rata per kepala (Pasal 853 KUH Perdata)")
}

func distributeGroupFour(fam *share.Family, _ Options, out *share.Outcome) {
	if uncles := fam.Lines(model.UnclePaternal); len(uncles) > 0 {
		out.Give(uncles, share.One(), "Paman sebagai keluarga sedarah terdekat membagi harta sama rata (Pasal 858 KUH Perdata)")
		out.Exclude(fam.Lines(model.SonOfUncle), "Tertutup oleh paman yang derajatnya lebih dekat")
		return
	}
	out.Give(fam.Lines(model.SonOfUncle), share.One(), "Anak laki-laki paman sebagai keluarga sedarah terdekat membagi harta sama rata (Pasal 858 KUH Perdata)")
}

func describe(h model.Heir, deceased model.Gender) string {
	label := h.Relation.Label(model.ExpectedGender(h.Relation, deceased))
	if h.Name == "" {
		return label
	}
	return fmt.Sprintf("%s (%s)", h.Name, label)
}
