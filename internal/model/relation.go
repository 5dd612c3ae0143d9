package model

type Relation string

const (
	Spouse          Relation = "spouse"
	Son             Relation = "son"
	Daughter        Relation = "daughter"
	Father          Relation = "father"
	Mother          Relation = "mother"
	Grandfather     Relation = "grandfather"
	Grandmother     Relation = "grandmother"
	BrotherFull     Relation = "brother_full"
	SisterFull      Relation = "sister_full"
	BrotherPaternal Relation = "brother_paternal"
	SisterPaternal  Relation = "sister_paternal"
	BrotherMaternal Relation = "brother_maternal"
	SisterMaternal  Relation = "sister_maternal"
	SonOfSon        Relation = "son_of_son"
	DaughterOfSon   Relation = "daughter_of_son"
	UnclePaternal   Relation = "uncle_paternal"
	SonOfUncle      Relation = "son_of_uncle"
)

type relationInfo struct {
	gender Gender // empty for spouse
	label  string
}

var relations = map[Relation]relationInfo{
	Spouse:          {"", "Pasangan"},
	Son:             {Male, "Anak laki-laki"},
	Daughter:        {Female, "Anak perempuan"},
	Father:          {Male, "Ayah"},
	Mother:          {Female, "Ibu"},
	Grandfather:     {Male, "Kakek"},
	Grandmother:     {Female, "Nenek"},
	BrotherFull:     {Male, "Saudara laki-laki kandung"},
	SisterFull:      {Female, "Saudara perempuan kandung"},
	BrotherPaternal: {Male, "Saudara laki-laki seayah"},
	SisterPaternal:  {Female, "Saudara perempuan seayah"},
	BrotherMaternal: {Male, "Saudara laki-laki seibu"},
	SisterMaternal:  {Female, "Saudara perempuan seibu"},
	SonOfSon:        {Male, "Cucu laki-laki dari anak laki-laki"},
	DaughterOfSon:   {Female, "Cucu perempuan dari anak laki-laki"},
	UnclePaternal:   {Male, "Paman (saudara ayah)"},
	SonOfUncle:      {Male, "Anak laki-laki paman"},
}

// Relations lists every relation in display order.
var Relations = []Relation{
	Spouse, Son, Daughter, Father, Mother, Grandfather, Grandmother,
	BrotherFull, SisterFull, BrotherPaternal, SisterPaternal,
	BrotherMaternal, SisterMaternal, SonOfSon, DaughterOfSon,
	UnclePaternal, SonOfUncle,
}

func (r Relation) Valid() bool {
	_, ok := relations[r]
	return ok
}

// FixedGender reports the gender implied by the relation. Spouse has none.
func (r Relation) FixedGender() (Gender, bool) {
	info, ok := relations[r]
	if !ok || info.gender == "" {
		return "", false
	}
	return info.gender, true
}

// Label returns the Indonesian label. For a spouse the label follows the
// spouse's own gender: Suami or Istri.
func (r Relation) Label(g Gender) string {
	if r == Spouse {
		switch g {
		case Male:
			return "Suami"
		case Female:
			return "Istri"
		}
	}
	if info, ok := relations[r]; ok {
		return info.label
	}
	return string(r)
}

// ExpectedGender is the gender an heir of relation r must carry when the
// deceased has gender deceased.
func ExpectedGender(r Relation, deceased Gender) Gender {
	if r == Spouse {
		return deceased.Opposite()
	}
	g, _ := r.FixedGender()
	return g
}
