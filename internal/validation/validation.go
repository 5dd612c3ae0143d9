// Package validation checks an inheritance request before calculation. Every
// check returns human-readable Indonesian messages; an empty list means the
// input is acceptable.
package validation

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"inheritance-engine/internal/estate"
	"inheritance-engine/internal/model"
	"inheritance-engine/internal/rupiah"
)

const inputNS = "InheritanceInput."

type headLimit struct {
	relation model.Relation
	max      int
}

// headLimits caps relations that can only be held by a fixed number of
// people. Under Islamic law only the paternal grandfather is an heir.
var headLimits = map[model.LawSystem][]headLimit{
	model.LawIslam: {
		{model.Father, 1}, {model.Mother, 1}, {model.Grandfather, 1}, {model.Grandmother, 2},
	},
	model.LawPerdata: {
		{model.Father, 1}, {model.Mother, 1}, {model.Grandfather, 2}, {model.Grandmother, 2},
	},
}

// Validate runs every check. A missing law system short-circuits the rest.
func Validate(in model.InheritanceInput) []string {
	if errs := LawSystem(in); len(errs) > 0 {
		return errs
	}
	var errs []string
	errs = append(errs, Deceased(in)...)
	errs = append(errs, Heirs(in)...)
	errs = append(errs, Estate(in)...)
	return errs
}

func LawSystem(in model.InheritanceInput) []string {
	switch {
	case in.LawSystem == "":
		return []string{"Sistem hukum waris harus dipilih (islam atau perdata)"}
	case !in.LawSystem.Valid():
		return []string{fmt.Sprintf("Sistem hukum waris %q tidak dikenal", in.LawSystem)}
	}
	return nil
}

func Deceased(in model.InheritanceInput) []string {
	return structErrors(in, func(ns string) bool {
		return strings.HasPrefix(ns, inputNS+"Deceased.")
	})
}

func Heirs(in model.InheritanceInput) []string {
	errs := structErrors(in, func(ns string) bool {
		return ns == inputNS+"Heirs"
	})

	seen := make(map[string]bool, len(in.Heirs))
	heads := make(map[model.Relation]int)
	spouses := 0
	for i, h := range in.Heirs {
		prefix := fmt.Sprintf("Ahli waris %d", i+1)
		if h.Name != "" {
			prefix += " (" + h.Name + ")"
		}
		for _, msg := range structErrors(h, nil) {
			errs = append(errs, prefix+": "+msg)
		}
		if h.ID != "" {
			if seen[h.ID] {
				errs = append(errs, fmt.Sprintf("%s: ID %q digunakan lebih dari sekali", prefix, h.ID))
			}
			seen[h.ID] = true
		}
		if !h.Relation.Valid() {
			continue
		}
		heads[h.Relation] += h.Count
		if !h.Gender.Valid() {
			continue
		}

		if h.Relation == model.Spouse {
			if in.Deceased.MaritalStatus != model.Married {
				errs = append(errs, prefix+": pasangan hanya dapat ditambahkan jika pewaris berstatus menikah")
			}
			if in.Deceased.Gender.Valid() && h.Gender != in.Deceased.Gender.Opposite() {
				errs = append(errs, fmt.Sprintf("%s: jenis kelamin pasangan harus %s", prefix, genderWord(in.Deceased.Gender.Opposite())))
			}
			if h.IsAlive {
				spouses += h.Count
			}
			continue
		}
		if want, ok := h.Relation.FixedGender(); ok && h.Gender != want {
			errs = append(errs, fmt.Sprintf("%s: jenis kelamin untuk hubungan %s harus %s", prefix, strings.ToLower(h.Relation.Label(want)), genderWord(want)))
		}
	}

	for _, l := range headLimits[in.LawSystem] {
		if heads[l.relation] > l.max {
			g, _ := l.relation.FixedGender()
			errs = append(errs, fmt.Sprintf("Jumlah %s tidak boleh lebih dari %d (tercatat %d)", strings.ToLower(l.relation.Label(g)), l.max, heads[l.relation]))
		}
	}

	switch {
	case in.LawSystem == model.LawPerdata && spouses > 1:
		errs = append(errs, "Dalam hukum perdata hanya boleh ada satu pasangan yang masih hidup")
	case in.LawSystem == model.LawIslam && in.Deceased.Gender == model.Male && spouses > 4:
		errs = append(errs, "Jumlah istri tidak boleh lebih dari 4")
	case in.LawSystem == model.LawIslam && in.Deceased.Gender == model.Female && spouses > 1:
		errs = append(errs, "Jumlah suami hanya boleh 1")
	}
	return errs
}

func Estate(in model.InheritanceInput) []string {
	errs := structErrors(in, func(ns string) bool {
		switch strings.TrimPrefix(ns, inputNS) {
		case "TotalEstate", "Debts", "FuneralCosts", "Wasiat":
			return true
		}
		return false
	})

	if in.LawSystem == model.LawIslam && in.Wasiat > 0 {
		if limit := estate.WasiatCap(in); in.Wasiat > limit {
			errs = append(errs, fmt.Sprintf("Wasiat (%s) melebihi sepertiga harta setelah utang dan biaya pemakaman (%s)", rupiah.Format(in.Wasiat), rupiah.Format(limit)))
		}
	}
	if obligations := estate.Obligations(in); obligations.GreaterThan(decimal.NewFromInt(in.TotalEstate)) {
		errs = append(errs, fmt.Sprintf("Jumlah utang, biaya pemakaman, dan wasiat (%s) melebihi total harta (%s)", rupiah.FormatDecimal(obligations), rupiah.Format(in.TotalEstate)))
	}
	return errs
}

// Contract reports structurally impossible input: unknown enumerations or a
// fixed-gender relation carrying the other gender. Such input is a caller
// bug, not a user mistake.
func Contract(in model.InheritanceInput) []string {
	var problems []string
	if !in.LawSystem.Valid() {
		problems = append(problems, fmt.Sprintf("unknown law system %q", in.LawSystem))
	}
	if !in.Deceased.Gender.Valid() {
		problems = append(problems, fmt.Sprintf("unknown deceased gender %q", in.Deceased.Gender))
	}
	for i, h := range in.Heirs {
		if !h.Relation.Valid() {
			problems = append(problems, fmt.Sprintf("heir %d: unknown relation %q", i+1, h.Relation))
			continue
		}
		if want, ok := h.Relation.FixedGender(); ok && h.Gender != want {
			problems = append(problems, fmt.Sprintf("heir %d: relation %s requires gender %s, got %q", i+1, h.Relation, want, h.Gender))
		}
	}
	return problems
}

func genderWord(g model.Gender) string {
	if g == model.Female {
		return "perempuan"
	}
	return "laki-laki"
}
