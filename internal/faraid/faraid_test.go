package faraid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inheritance-engine/internal/model"
	"inheritance-engine/internal/share"
)

var (
	male   = model.DeceasedInfo{Name: "Ahmad", Gender: model.Male, MaritalStatus: model.Married}
	female = model.DeceasedInfo{Name: "Aisyah", Gender: model.Female, MaritalStatus: model.Married}
)

func line(id string, rel model.Relation, count int) model.Heir {
	g, ok := rel.FixedGender()
	if !ok {
		g = model.Female
	}
	return model.Heir{ID: id, Relation: rel, Gender: g, IsAlive: true, Count: count}
}

func fractions(out share.Outcome) map[string]string {
	m := make(map[string]string, len(out.Portions))
	for _, p := range out.Portions {
		m[p.Heir.ID] = share.Format(p.Fraction)
	}
	return m
}

func requireWhole(t *testing.T, out share.Outcome) {
	t.Helper()
	total := share.Add(out.Assigned(), out.Residue)
	require.Equal(t, "1", share.Format(total), "fractions must cover the whole estate")
}

func TestComputeShares(t *testing.T) {
	tests := []struct {
		name     string
		deceased model.DeceasedInfo
		heirs    []model.Heir
		want     map[string]string
		residue  string
	}{
		{
			name:     "wife and sons",
			deceased: male,
			heirs:    []model.Heir{line("w", model.Spouse, 1), line("s", model.Son, 2)},
			want:     map[string]string{"w": "1/8", "s": "7/8"},
		},
		{
			name:     "two wives share one eighth",
			deceased: male,
			heirs:    []model.Heir{line("w1", model.Spouse, 1), line("w2", model.Spouse, 1), line("d", model.Daughter, 1), line("s", model.Son, 1)},
			want:     map[string]string{"w1": "1/16", "w2": "1/16", "s": "7/12", "d": "7/24"},
		},
		{
			name:     "husband without descendants",
			deceased: female,
			heirs:    []model.Heir{{ID: "h", Relation: model.Spouse, Gender: model.Male, IsAlive: true, Count: 1}, line("f", model.Father, 1)},
			want:     map[string]string{"h": "1/2", "f": "1/2"},
		},
		{
			name:     "two daughters and father",
			deceased: male,
			heirs:    []model.Heir{line("d", model.Daughter, 2), line("f", model.Father, 1)},
			want:     map[string]string{"d": "2/3", "f": "1/3"},
		},
		{
			name:     "daughter and son's daughter complement",
			deceased: male,
			heirs:    []model.Heir{line("d", model.Daughter, 1), line("ds", model.DaughterOfSon, 1), line("b", model.BrotherFull, 1)},
			want:     map[string]string{"d": "1/2", "ds": "1/6", "b": "1/3"},
		},
		{
			name:     "two daughters exclude son's daughter",
			deceased: male,
			heirs:    []model.Heir{line("d", model.Daughter, 2), line("ds", model.DaughterOfSon, 1), line("u", model.UnclePaternal, 1)},
			want:     map[string]string{"d": "2/3", "ds": "0", "u": "1/3"},
		},
		{
			name:     "son's son makes son's daughter residuary",
			deceased: male,
			heirs:    []model.Heir{line("d", model.Daughter, 2), line("ds", model.DaughterOfSon, 1), line("ss", model.SonOfSon, 1)},
			want:     map[string]string{"d": "2/3", "ss": "2/9", "ds": "1/9"},
		},
		{
			name:     "mother reduced by siblings",
			deceased: male,
			heirs:    []model.Heir{line("m", model.Mother, 1), line("f", model.Father, 1), line("b", model.BrotherFull, 2)},
			want:     map[string]string{"m": "1/6", "f": "5/6", "b": "0"},
		},
		{
			name:     "umariyyatain with husband",
			deceased: female,
			heirs:    []model.Heir{{ID: "h", Relation: model.Spouse, Gender: model.Male, IsAlive: true, Count: 1}, line("m", model.Mother, 1), line("f", model.Father, 1)},
			want:     map[string]string{"h": "1/2", "m": "1/6", "f": "1/3"},
		},
		{
			name:     "grandmother blocked by mother",
			deceased: male,
			heirs:    []model.Heir{line("m", model.Mother, 1), line("gm", model.Grandmother, 1), line("s", model.Son, 1)},
			want:     map[string]string{"m": "1/6", "gm": "0", "s": "5/6"},
		},
		{
			name:     "maternal siblings share a third equally",
			deceased: male,
			heirs:    []model.Heir{line("bm", model.BrotherMaternal, 1), line("sm", model.SisterMaternal, 1), line("bf", model.BrotherFull, 1)},
			want:     map[string]string{"bm": "1/6", "sm": "1/6", "bf": "2/3"},
		},
		{
			name:     "father with daughter takes sixth and residue",
			deceased: male,
			heirs:    []model.Heir{line("d", model.Daughter, 1), line("f", model.Father, 1)},
			want:     map[string]string{"d": "1/2", "f": "1/2"},
		},
		{
			name:     "full sister with daughter blocks paternal brother",
			deceased: male,
			heirs:    []model.Heir{line("d", model.Daughter, 1), line("sf", model.SisterFull, 1), line("bp", model.BrotherPaternal, 1)},
			want:     map[string]string{"d": "1/2", "sf": "1/2", "bp": "0"},
		},
		{
			name:     "paternal sister completes two thirds",
			deceased: male,
			heirs:    []model.Heir{line("sf", model.SisterFull, 1), line("sp", model.SisterPaternal, 1), line("u", model.UnclePaternal, 1)},
			want:     map[string]string{"sf": "1/2", "sp": "1/6", "u": "1/3"},
		},
		{
			name:     "grandfather blocks siblings",
			deceased: male,
			heirs:    []model.Heir{line("gf", model.Grandfather, 1), line("bf", model.BrotherFull, 1)},
			want:     map[string]string{"gf": "1", "bf": "0"},
		},
		{
			name:     "uncle blocks his son",
			deceased: male,
			heirs:    []model.Heir{line("u", model.UnclePaternal, 1), line("su", model.SonOfUncle, 3)},
			want:     map[string]string{"u": "1", "su": "0"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := ComputeShares(tt.deceased, tt.heirs, Options{})
			assert.Equal(t, tt.want, fractions(out))
			requireWhole(t, out)
		})
	}
}

func TestAwl(t *testing.T) {
	heirs := []model.Heir{
		{ID: "h", Relation: model.Spouse, Gender: model.Male, IsAlive: true, Count: 1},
		line("sf", model.SisterFull, 2),
	}
	out := ComputeShares(female, heirs, Options{})
	assert.Equal(t, map[string]string{"h": "3/7", "sf": "4/7"}, fractions(out))
	require.Len(t, out.Warnings, 1)
	assert.Contains(t, out.Warnings[0], "7/6")
}

func TestResidueWithoutAsabah(t *testing.T) {
	heirs := []model.Heir{line("w", model.Spouse, 1), line("m", model.Mother, 1)}

	out := ComputeShares(male, heirs, Options{})
	assert.Equal(t, "5/12", share.Format(out.Residue))
	assert.NotEmpty(t, out.Warnings)
	requireWhole(t, out)

	out = ComputeShares(male, heirs, Options{Radd: true})
	assert.Equal(t, "0", share.Format(out.Residue))
	assert.Equal(t, map[string]string{"w": "1/4", "m": "3/4"}, fractions(out))
}

func TestRaddToLoneSpouse(t *testing.T) {
	out := ComputeShares(male, []model.Heir{line("w", model.Spouse, 1)}, Options{Radd: true})
	assert.Equal(t, map[string]string{"w": "1"}, fractions(out))
}

func TestNoLivingHeirs(t *testing.T) {
	dead := line("s", model.Son, 1)
	dead.IsAlive = false
	out := ComputeShares(male, []model.Heir{dead}, Options{})
	assert.Empty(t, out.Portions)
	assert.Equal(t, "1", share.Format(out.Residue))
	assert.Len(t, out.Warnings, 1)
	assert.Len(t, out.Explanations, 2)
}

func TestHajbExplanationNamesBlocker(t *testing.T) {
	out := ComputeShares(male, []model.Heir{line("s", model.Son, 1), line("ss", model.SonOfSon, 1)}, Options{})
	require.Len(t, out.Portions, 2)
	assert.Contains(t, out.Portions[1].Explanation, "anak laki-laki")
	assert.Contains(t, out.Portions[1].Explanation, "mahjub")
}
