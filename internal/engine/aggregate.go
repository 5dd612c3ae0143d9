package engine

import (
	"fmt"
	"math/big"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"inheritance-engine/internal/model"
	"inheritance-engine/internal/rupiah"
	"inheritance-engine/internal/share"
)

var hundred = decimal.NewFromInt(100)

// Aggregate turns the engine's fractions into Rupiah. Every line and the
// residue are floored, then the units left over are handed out one at a time
// by largest remainder, so no amount moves more than one Rupiah away from its
// exact value and the amounts plus the residue add up to net.
func Aggregate(in model.InheritanceInput, net int64, out share.Outcome) *model.InheritanceResult {
	res := &model.InheritanceResult{
		Input:        in,
		NetEstate:    net,
		Shares:       make([]model.HeirShare, 0, len(out.Portions)),
		Explanations: append([]string{}, out.Explanations...),
		Warnings:     append([]string{}, out.Warnings...),
	}

	fractions := make([]*big.Rat, 0, len(out.Portions)+1)
	for _, p := range out.Portions {
		fractions = append(fractions, p.Fraction)
	}
	// residue last so heirs win ties
	fractions = append(fractions, out.Residue)
	amounts, bumped := allocate(net, fractions)

	var rounded []string
	for i, p := range out.Portions {
		res.Shares = append(res.Shares, model.HeirShare{
			Heir:        p.Heir,
			Fraction:    share.Format(p.Fraction),
			Percentage:  percentOf(p.Fraction),
			Amount:      amounts[i],
			Explanation: p.Explanation,
		})
		if bumped[i] {
			rounded = append(rounded, lineName(p.Heir, in.Deceased.Gender))
		}
	}
	res.Residue = amounts[len(amounts)-1]
	if len(rounded) > 0 {
		res.Warnings = append(res.Warnings, fmt.Sprintf("Selisih pembulatan %s dibagikan Rp 1 per bagian kepada: %s.", rupiah.Format(int64(len(rounded))), strings.Join(rounded, ", ")))
	}

	for i := range res.Shares {
		if c := res.Shares[i].Heir.Count; c > 0 {
			res.Shares[i].AmountPerHeir = res.Shares[i].Amount / int64(c)
		}
	}
	if res.Residue > 0 {
		res.Explanations = append(res.Explanations, fmt.Sprintf("Harta yang tidak terbagi kepada ahli waris: %s.", rupiah.Format(res.Residue)))
	}
	return res
}

type remainder struct {
	idx int
	rem decimal.Decimal // numerator of the fractional part
	den decimal.Decimal
}

// allocate splits net by fractions that sum to one. Each amount is the floor
// of its exact value, plus one unit for the lines with the largest remainders
// until net is reached. Ties go to the earlier line.
func allocate(net int64, fractions []*big.Rat) ([]int64, []bool) {
	amounts := make([]int64, len(fractions))
	bumped := make([]bool, len(fractions))
	total := decimal.NewFromInt(net)

	rems := make([]remainder, 0, len(fractions))
	left := net
	for i, f := range fractions {
		if f == nil || f.Sign() <= 0 {
			continue
		}
		num := decimal.NewFromBigInt(f.Num(), 0)
		den := decimal.NewFromBigInt(f.Denom(), 0)
		q, r := total.Mul(num).QuoRem(den, 0)
		amounts[i] = q.IntPart()
		left -= amounts[i]
		rems = append(rems, remainder{idx: i, rem: r, den: den})
	}

	sort.SliceStable(rems, func(i, j int) bool {
		// r_i/d_i > r_j/d_j without dividing
		return rems[i].rem.Mul(rems[j].den).GreaterThan(rems[j].rem.Mul(rems[i].den))
	})
	for _, r := range rems {
		if left <= 0 || r.rem.IsZero() {
			break
		}
		amounts[r.idx]++
		bumped[r.idx] = true
		left--
	}
	// fractions short of one leave units over; the last entry takes them
	if left != 0 && len(amounts) > 0 {
		amounts[len(amounts)-1] += left
	}
	return amounts, bumped
}

func percentOf(f *big.Rat) float64 {
	if f == nil || f.Sign() == 0 {
		return 0
	}
	num := decimal.NewFromBigInt(f.Num(), 0)
	den := decimal.NewFromBigInt(f.Denom(), 0)
	pct, _ := num.Mul(hundred).Div(den).Round(10).Float64()
	return pct
}

func lineName(h model.Heir, deceased model.Gender) string {
	label := h.Relation.Label(model.ExpectedGender(h.Relation, deceased))
	if h.Name == "" {
		return label
	}
	return fmt.Sprintf("%s (%s)", h.Name, label)
}
