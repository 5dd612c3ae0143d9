// Package casefile reads and writes inheritance cases as YAML or JSON files.
//
// Heir entries may omit id (a ULID is assigned), gender (derived from the
// relation), is_alive (defaults to true) and count (defaults to 1).
package casefile

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"github.com/oklog/ulid/v2"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"inheritance-engine/internal/model"
)

type Format string

const (
	YAML Format = "yaml"
	JSON Format = "json"
)

// FormatOf picks the format from the file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return YAML, nil
	case ".json":
		return JSON, nil
	}
	return "", errors.Errorf("casefile: unsupported extension %q (use .yaml, .yml or .json)", filepath.Ext(path))
}

type heirRecord struct {
	ID       string         `json:"id,omitempty" yaml:"id,omitempty"`
	Relation model.Relation `json:"relation" yaml:"relation"`
	Name     string         `json:"name,omitempty" yaml:"name,omitempty"`
	Gender   model.Gender   `json:"gender,omitempty" yaml:"gender,omitempty"`
	IsAlive  *bool          `json:"isAlive,omitempty" yaml:"is_alive,omitempty"`
	Count    int            `json:"count,omitempty" yaml:"count,omitempty"`
}

type document struct {
	LawSystem    model.LawSystem    `json:"lawSystem" yaml:"law_system"`
	Deceased     model.DeceasedInfo `json:"deceased" yaml:"deceased"`
	Heirs        []heirRecord       `json:"heirs" yaml:"heirs"`
	TotalEstate  int64              `json:"totalEstate" yaml:"total_estate"`
	Debts        int64              `json:"debts,omitempty" yaml:"debts,omitempty"`
	FuneralCosts int64              `json:"funeralCosts,omitempty" yaml:"funeral_costs,omitempty"`
	Wasiat       int64              `json:"wasiat,omitempty" yaml:"wasiat,omitempty"`
}

func Load(path string) (model.InheritanceInput, error) {
	format, err := FormatOf(path)
	if err != nil {
		return model.InheritanceInput{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return model.InheritanceInput{}, errors.Wrapf(err, "casefile: read %s", path)
	}
	in, err := Decode(data, format)
	if err != nil {
		return model.InheritanceInput{}, errors.Wrapf(err, "casefile: %s", path)
	}
	return in, nil
}

func Decode(data []byte, format Format) (model.InheritanceInput, error) {
	var doc document
	var err error
	switch format {
	case YAML:
		err = yaml.Unmarshal(data, &doc)
	case JSON:
		err = json.Unmarshal(data, &doc)
	default:
		err = errors.Errorf("unknown format %q", format)
	}
	if err != nil {
		return model.InheritanceInput{}, errors.Wrap(err, "decode case")
	}
	return doc.input(), nil
}

func (d document) input() model.InheritanceInput {
	in := model.InheritanceInput{
		Deceased:     d.Deceased,
		Heirs:        make([]model.Heir, 0, len(d.Heirs)),
		TotalEstate:  d.TotalEstate,
		Debts:        d.Debts,
		FuneralCosts: d.FuneralCosts,
		Wasiat:       d.Wasiat,
		LawSystem:    d.LawSystem,
	}
	for _, r := range d.Heirs {
		h := model.Heir{
			ID:       r.ID,
			Relation: r.Relation,
			Name:     r.Name,
			Gender:   r.Gender,
			IsAlive:  r.IsAlive == nil || *r.IsAlive,
			Count:    r.Count,
		}
		if h.ID == "" {
			h.ID = NewID()
		}
		if h.Gender == "" && r.Relation.Valid() && d.Deceased.Gender.Valid() {
			h.Gender = model.ExpectedGender(r.Relation, d.Deceased.Gender)
		}
		if h.Count == 0 {
			h.Count = 1
		}
		in.Heirs = append(in.Heirs, h)
	}
	return in
}

// NewID returns a fresh heir id.
func NewID() string {
	return ulid.Make().String()
}

func Encode(in model.InheritanceInput, format Format) ([]byte, error) {
	doc := document{
		LawSystem:    in.LawSystem,
		Deceased:     in.Deceased,
		Heirs:        make([]heirRecord, 0, len(in.Heirs)),
		TotalEstate:  in.TotalEstate,
		Debts:        in.Debts,
		FuneralCosts: in.FuneralCosts,
		Wasiat:       in.Wasiat,
	}
	for _, h := range in.Heirs {
		alive := h.IsAlive
		doc.Heirs = append(doc.Heirs, heirRecord{
			ID:       h.ID,
			Relation: h.Relation,
			Name:     h.Name,
			Gender:   h.Gender,
			IsAlive:  &alive,
			Count:    h.Count,
		})
	}
	switch format {
	case YAML:
		return yaml.Marshal(doc)
	case JSON:
		return json.MarshalIndent(doc, "", "  ")
	}
	return nil, errors.Errorf("casefile: unknown format %q", format)
}

func Save(path string, in model.InheritanceInput) error {
	format, err := FormatOf(path)
	if err != nil {
		return err
	}
	data, err := Encode(in, format)
	if err != nil {
		return errors.Wrapf(err, "casefile: encode %s", path)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrapf(err, "casefile: write %s", path)
	}
	return nil
}
