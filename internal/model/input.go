package model

type LawSystem string

const (
	LawIslam   LawSystem = "islam"
	LawPerdata LawSystem = "perdata"
)

func (l LawSystem) Valid() bool {
	return l == LawIslam || l == LawPerdata
}

type Gender string

const (
	Male   Gender = "male"
	Female Gender = "female"
)

func (g Gender) Valid() bool {
	return g == Male || g == Female
}

// Opposite returns the other gender; used to derive the spouse's gender from the deceased.
func (g Gender) Opposite() Gender {
	if g == Male {
		return Female
	}
	return Male
}

type MaritalStatus string

const (
	Married  MaritalStatus = "married"
	Widowed  MaritalStatus = "widowed"
	Divorced MaritalStatus = "divorced"
	Single   MaritalStatus = "single"
)

func (m MaritalStatus) Valid() bool {
	switch m {
	case Married, Widowed, Divorced, Single:
		return true
	}
	return false
}

type DeceasedInfo struct {
	Name          string        `json:"name" yaml:"name" validate:"required" label:"Nama pewaris"`
	Gender        Gender        `json:"gender" yaml:"gender" validate:"required,oneof=male female" label:"Jenis kelamin pewaris"`
	MaritalStatus MaritalStatus `json:"maritalStatus" yaml:"marital_status" validate:"required,oneof=married widowed divorced single" label:"Status perkawinan"`
}

// Heir is one line of the heir list. Count aggregates identical co-heirs
// (e.g. three sons) that share the line's fraction equally.
type Heir struct {
	ID       string   `json:"id" yaml:"id" validate:"required" label:"ID ahli waris"`
	Relation Relation `json:"relation" yaml:"relation" validate:"required,heir_relation" label:"Hubungan"`
	Name     string   `json:"name" yaml:"name" label:"Nama ahli waris"`
	Gender   Gender   `json:"gender" yaml:"gender" validate:"required,oneof=male female" label:"Jenis kelamin ahli waris"`
	IsAlive  bool     `json:"isAlive" yaml:"is_alive"`
	Count    int      `json:"count" yaml:"count" validate:"min=1" label:"Jumlah"`
}

// InheritanceInput is everything the calculator needs. Money is whole Rupiah.
type InheritanceInput struct {
	Deceased     DeceasedInfo `json:"deceased" yaml:"deceased"`
	Heirs        []Heir       `json:"heirs" yaml:"heirs" validate:"required,min=1" label:"Daftar ahli waris"`
	TotalEstate  int64        `json:"totalEstate" yaml:"total_estate" validate:"gt=0" label:"Total harta"`
	Debts        int64        `json:"debts" yaml:"debts" validate:"gte=0" label:"Utang"`
	FuneralCosts int64        `json:"funeralCosts" yaml:"funeral_costs" validate:"gte=0" label:"Biaya pemakaman"`
	Wasiat       int64        `json:"wasiat" yaml:"wasiat" validate:"gte=0" label:"Wasiat"`
	LawSystem    LawSystem    `json:"lawSystem" yaml:"law_system"`
}
