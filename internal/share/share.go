// Package share holds the exact-fraction outcome both rule engines produce
// before it is turned into Rupiah amounts.
package share

import (
	"math/big"
	"sort"

	"inheritance-engine/internal/model"
)

// Portion is the fraction of the net estate assigned to one heir line.
type Portion struct {
	Heir        model.Heir
	Fraction    *big.Rat
	Explanation string
}

type Outcome struct {
	Portions     []Portion
	Residue      *big.Rat
	Explanations []string
	Warnings     []string
}

func Frac(num, den int64) *big.Rat {
	return big.NewRat(num, den)
}

func Zero() *big.Rat {
	return new(big.Rat)
}

func One() *big.Rat {
	return big.NewRat(1, 1)
}

func Add(a, b *big.Rat) *big.Rat {
	return new(big.Rat).Add(a, b)
}

func Sub(a, b *big.Rat) *big.Rat {
	return new(big.Rat).Sub(a, b)
}

func Mul(a, b *big.Rat) *big.Rat {
	return new(big.Rat).Mul(a, b)
}

func Quo(a, b *big.Rat) *big.Rat {
	return new(big.Rat).Quo(a, b)
}

// Format renders a fraction the way it is shown to users: "1/8", "2/3", "1", "0".
func Format(r *big.Rat) string {
	if r == nil {
		return "0"
	}
	return r.RatString()
}

// Parse reads "1/4", "0.25" or "1". An empty string yields nil.
func Parse(s string) (*big.Rat, bool) {
	if s == "" {
		return nil, true
	}
	r, ok := new(big.Rat).SetString(s)
	return r, ok
}

// Give splits total across lines proportionally to each line's Count. A line
// that already holds a portion is topped up and its explanations are joined.
func (o *Outcome) Give(lines []model.Heir, total *big.Rat, explanation string) {
	heads := Heads(lines)
	if heads == 0 {
		return
	}
	for _, h := range lines {
		f := Mul(total, Frac(int64(h.Count), int64(heads)))
		if i := o.find(h); i >= 0 {
			o.Portions[i].Fraction = Add(o.Portions[i].Fraction, f)
			o.Portions[i].Explanation += "; " + explanation
			continue
		}
		o.Portions = append(o.Portions, Portion{Heir: h, Fraction: f, Explanation: explanation})
	}
}

func (o *Outcome) find(h model.Heir) int {
	for i, p := range o.Portions {
		if p.Heir.ID == h.ID && p.Heir.Relation == h.Relation {
			return i
		}
	}
	return -1
}

// SortLike orders portions the way their heirs appear in heirs.
func (o *Outcome) SortLike(heirs []model.Heir) {
	rank := make(map[string]int, len(heirs))
	for i, h := range heirs {
		k := string(h.Relation) + "/" + h.ID
		if _, ok := rank[k]; !ok {
			rank[k] = i
		}
	}
	sort.SliceStable(o.Portions, func(i, j int) bool {
		return rank[string(o.Portions[i].Heir.Relation)+"/"+o.Portions[i].Heir.ID] <
			rank[string(o.Portions[j].Heir.Relation)+"/"+o.Portions[j].Heir.ID]
	})
}

// Exclude records lines that receive nothing, keeping them visible in the result.
func (o *Outcome) Exclude(lines []model.Heir, explanation string) {
	for _, h := range lines {
		o.Portions = append(o.Portions, Portion{Heir: h, Fraction: Zero(), Explanation: explanation})
	}
}

func (o *Outcome) Explain(msg string) {
	o.Explanations = append(o.Explanations, msg)
}

func (o *Outcome) Warn(msg string) {
	o.Warnings = append(o.Warnings, msg)
}

// Assigned is the sum of all portion fractions.
func (o *Outcome) Assigned() *big.Rat {
	total := Zero()
	for _, p := range o.Portions {
		total.Add(total, p.Fraction)
	}
	return total
}

// Heads counts the individuals across lines.
func Heads(lines []model.Heir) int {
	n := 0
	for _, h := range lines {
		n += h.Count
	}
	return n
}

// SplitTwoToOne divides total between males and females where each male
// takes twice a female's portion.
func SplitTwoToOne(males, females int, total *big.Rat) (male, female *big.Rat) {
	units := int64(2*males + females)
	if units == 0 {
		return Zero(), Zero()
	}
	male = Mul(total, Frac(int64(2*males), units))
	female = Mul(total, Frac(int64(females), units))
	return male, female
}
