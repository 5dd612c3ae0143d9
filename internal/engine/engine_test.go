package engine

import (
	"fmt"
	"math"
	"math/big"
	"testing"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inheritance-engine/internal/faraid"
	"inheritance-engine/internal/model"
)

func heir(id string, rel model.Relation, gender model.Gender, count int) model.Heir {
	return model.Heir{ID: id, Relation: rel, Name: id, Gender: gender, IsAlive: true, Count: count}
}

func islamInput(total int64, deceased model.Gender, heirs ...model.Heir) model.InheritanceInput {
	return model.InheritanceInput{
		Deceased:    model.DeceasedInfo{Name: "Almarhum", Gender: deceased, MaritalStatus: model.Married},
		Heirs:       heirs,
		TotalEstate: total,
		LawSystem:   model.LawIslam,
	}
}

func perdataInput(total int64, heirs ...model.Heir) model.InheritanceInput {
	in := islamInput(total, model.Male, heirs...)
	in.LawSystem = model.LawPerdata
	return in
}

func shareOf(t *testing.T, res *model.InheritanceResult, id string) model.HeirShare {
	t.Helper()
	for _, s := range res.Shares {
		if s.Heir.ID == id {
			return s
		}
	}
	t.Fatalf("no share for heir %s", id)
	return model.HeirShare{}
}

func requireConserved(t *testing.T, res *model.InheritanceResult) {
	t.Helper()
	require.Equal(t, res.NetEstate, res.Distributed()+res.Residue, "amounts plus residue must equal the net estate")
}

// requireConsistentPercentages checks that every amount is within one Rupiah
// of its percentage applied to the net estate.
func requireConsistentPercentages(t *testing.T, res *model.InheritanceResult) {
	t.Helper()
	net := decimal.NewFromInt(res.NetEstate)
	for _, s := range res.Shares {
		want := decimal.NewFromFloat(s.Percentage).Mul(net).Div(decimal.NewFromInt(100)).Round(0).IntPart()
		diff := want - s.Amount
		if diff < -1 || diff > 1 {
			t.Fatalf("heir %s: amount %d, %.10f%% of %d is %d", s.Heir.ID, s.Amount, s.Percentage, res.NetEstate, want)
		}
	}
}

func TestWifeAndTwoSons(t *testing.T) {
	res, err := Calculate(islamInput(120_000_000, model.Male,
		heir("w", model.Spouse, model.Female, 1),
		heir("s", model.Son, model.Male, 2),
	))
	require.NoError(t, err)
	requireConserved(t, res)

	wife := shareOf(t, res, "w")
	assert.Equal(t, "1/8", wife.Fraction)
	assert.Equal(t, int64(15_000_000), wife.Amount)
	assert.InDelta(t, 12.5, wife.Percentage, 1e-9)

	sons := shareOf(t, res, "s")
	assert.Equal(t, "7/8", sons.Fraction)
	assert.Equal(t, int64(105_000_000), sons.Amount)
	assert.Equal(t, int64(52_500_000), sons.AmountPerHeir)
	assert.Equal(t, int64(0), res.Residue)
	assert.Empty(t, res.Warnings)
}

func TestAwlScalesFixedShares(t *testing.T) {
	in := islamInput(70_000_000, model.Female,
		heir("h", model.Spouse, model.Male, 1),
		heir("sis", model.SisterFull, model.Female, 2),
	)
	res, err := Calculate(in)
	require.NoError(t, err)
	requireConserved(t, res)

	assert.Equal(t, "3/7", shareOf(t, res, "h").Fraction)
	assert.Equal(t, int64(30_000_000), shareOf(t, res, "h").Amount)
	assert.Equal(t, "4/7", shareOf(t, res, "sis").Fraction)
	assert.Equal(t, int64(40_000_000), shareOf(t, res, "sis").Amount)
	assert.Contains(t, res.Warnings[0], "'aul")
}

func TestResidueWithoutResiduaryIsReported(t *testing.T) {
	res, err := Calculate(islamInput(100_000_000, model.Male, heir("w", model.Spouse, model.Female, 1)))
	require.NoError(t, err)
	requireConserved(t, res)

	assert.Equal(t, int64(25_000_000), shareOf(t, res, "w").Amount)
	assert.Equal(t, int64(75_000_000), res.Residue)
	assert.NotEmpty(t, res.Warnings)
}

func TestRaddReturnsResidue(t *testing.T) {
	calc := New(Options{Faraid: faraid.Options{Radd: true}})
	in := islamInput(120_000_000, model.Male,
		heir("m", model.Mother, model.Female, 1),
		heir("d", model.Daughter, model.Female, 1),
	)
	in.Deceased.MaritalStatus = model.Widowed

	res, err := calc.Calculate(in)
	require.NoError(t, err)
	requireConserved(t, res)

	assert.Equal(t, "3/4", shareOf(t, res, "d").Fraction)
	assert.Equal(t, "1/4", shareOf(t, res, "m").Fraction)
	assert.Equal(t, int64(0), res.Residue)
}

func TestUmariyyatain(t *testing.T) {
	res, err := Calculate(islamInput(120_000_000, model.Male,
		heir("w", model.Spouse, model.Female, 1),
		heir("f", model.Father, model.Male, 1),
		heir("m", model.Mother, model.Female, 1),
	))
	require.NoError(t, err)
	requireConserved(t, res)

	assert.Equal(t, int64(30_000_000), shareOf(t, res, "w").Amount)
	assert.Equal(t, int64(30_000_000), shareOf(t, res, "m").Amount)
	assert.Equal(t, int64(60_000_000), shareOf(t, res, "f").Amount)
}

func TestExcludedHeirKeepsZeroShare(t *testing.T) {
	res, err := Calculate(islamInput(60_000_000, model.Male,
		heir("s", model.Son, model.Male, 1),
		heir("b", model.BrotherFull, model.Male, 1),
	))
	require.NoError(t, err)
	requireConserved(t, res)

	brother := shareOf(t, res, "b")
	assert.Equal(t, int64(0), brother.Amount)
	assert.Equal(t, "0", brother.Fraction)
	assert.Contains(t, brother.Explanation, "Terhalang")
	assert.Equal(t, int64(60_000_000), shareOf(t, res, "s").Amount)
}

func TestPerdataSpouseEqualsChild(t *testing.T) {
	res, err := Calculate(perdataInput(90_000_000,
		heir("w", model.Spouse, model.Female, 1),
		heir("s", model.Son, model.Male, 1),
		heir("d", model.Daughter, model.Female, 1),
		heir("f", model.Father, model.Male, 1),
	))
	require.NoError(t, err)
	requireConserved(t, res)

	for _, id := range []string{"w", "s", "d"} {
		assert.Equal(t, int64(30_000_000), shareOf(t, res, id).Amount, id)
	}
	father := shareOf(t, res, "f")
	assert.Equal(t, int64(0), father.Amount)
	assert.Contains(t, father.Explanation, "Tertutup")
}

func TestPerdataParentsAndSiblings(t *testing.T) {
	in := perdataInput(100_000_000,
		heir("f", model.Father, model.Male, 1),
		heir("m", model.Mother, model.Female, 1),
		heir("b", model.BrotherFull, model.Male, 2),
	)
	in.Deceased.MaritalStatus = model.Single
	res, err := Calculate(in)
	require.NoError(t, err)
	requireConserved(t, res)

	assert.Equal(t, int64(25_000_000), shareOf(t, res, "f").Amount)
	assert.Equal(t, int64(25_000_000), shareOf(t, res, "m").Amount)
	assert.Equal(t, int64(50_000_000), shareOf(t, res, "b").Amount)
	assert.Equal(t, int64(25_000_000), shareOf(t, res, "b").AmountPerHeir)
}

func TestRoundingUnitGoesToFirstOfEqualRemainders(t *testing.T) {
	in := perdataInput(100,
		heir("a", model.Son, model.Male, 1),
		heir("b", model.Son, model.Male, 1),
		heir("c", model.Daughter, model.Female, 1),
	)
	in.Deceased.MaritalStatus = model.Widowed
	res, err := Calculate(in)
	require.NoError(t, err)
	requireConserved(t, res)

	assert.Equal(t, int64(34), shareOf(t, res, "a").Amount)
	assert.Equal(t, int64(33), shareOf(t, res, "b").Amount)
	assert.Equal(t, int64(33), shareOf(t, res, "c").Amount)
	assert.Contains(t, res.Warnings[len(res.Warnings)-1], "Selisih pembulatan")
	requireConsistentPercentages(t, res)
}

func TestRoundingSpreadsUnitsAcrossManyLines(t *testing.T) {
	heirs := []model.Heir{heir("sp", model.Spouse, model.Female, 1)}
	for i := 1; i <= 9; i++ {
		heirs = append(heirs, heir(fmt.Sprintf("s%d", i), model.Son, model.Male, 1))
	}
	res, err := Calculate(perdataInput(5, heirs...))
	require.NoError(t, err)
	requireConserved(t, res)
	requireConsistentPercentages(t, res)

	for _, s := range res.Shares {
		assert.Equal(t, "1/10", s.Fraction, s.Heir.ID)
		assert.Contains(t, []int64{0, 1}, s.Amount, s.Heir.ID)
	}
	assert.Equal(t, int64(1), shareOf(t, res, "sp").Amount)
	assert.Equal(t, int64(1), shareOf(t, res, "s4").Amount)
	assert.Equal(t, int64(0), shareOf(t, res, "s5").Amount)
	assert.Contains(t, res.Warnings[len(res.Warnings)-1], "Rp 5")
}

func TestAllocate(t *testing.T) {
	tests := []struct {
		name      string
		net       int64
		fractions []*big.Rat
		want      []int64
	}{
		{"exact", 120, []*big.Rat{big.NewRat(1, 8), big.NewRat(7, 8), nil}, []int64{15, 105, 0}},
		{"largest remainder first", 10, []*big.Rat{big.NewRat(1, 6), big.NewRat(1, 2), big.NewRat(1, 3)}, []int64{2, 5, 3}},
		{"heirs win ties with the residue", 1, []*big.Rat{big.NewRat(1, 2), big.NewRat(1, 2)}, []int64{1, 0}},
		{"short fractions fall to the last entry", 10, []*big.Rat{big.NewRat(1, 2), nil}, []int64{5, 5}},
		{"nothing to split", 0, []*big.Rat{big.NewRat(1, 3), big.NewRat(2, 3)}, []int64{0, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _ := allocate(tt.net, tt.fractions)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWasiatIsCappedUnderIslamicLaw(t *testing.T) {
	in := islamInput(120_000_000, model.Male, heir("s", model.Son, model.Male, 1))
	in.Wasiat = 60_000_000

	res, err := Calculate(in)
	require.NoError(t, err)
	requireConserved(t, res)
	assert.Equal(t, int64(80_000_000), res.NetEstate)
	assert.NotEmpty(t, res.Warnings)
}

func TestObligationsBeyondInt64LeaveNothingToShare(t *testing.T) {
	in := islamInput(100, model.Male, heir("s", model.Son, model.Male, 1))
	in.Deceased.MaritalStatus = model.Widowed
	in.Debts = math.MaxInt64
	in.FuneralCosts = math.MaxInt64

	assert.NotEmpty(t, Validate(in))
	res, err := Calculate(in)
	require.NoError(t, err)
	requireConserved(t, res)
	assert.Equal(t, int64(0), res.NetEstate)
	assert.Equal(t, int64(0), shareOf(t, res, "s").Amount)
	assert.NotEmpty(t, res.Warnings)
}

func TestContractViolation(t *testing.T) {
	in := islamInput(1_000_000, model.Male, heir("s", model.Son, model.Male, 1))
	in.LawSystem = "hindu"

	res, err := Calculate(in)
	require.Error(t, err)
	assert.Nil(t, res)
	assert.True(t, errors.Is(err, ErrContractViolation))
	assert.Equal(t, ErrContractViolation, errors.Cause(err))
}

func TestConservationAcrossScenarios(t *testing.T) {
	cases := []model.InheritanceInput{
		islamInput(99_999_999, model.Male,
			heir("w", model.Spouse, model.Female, 3),
			heir("d", model.Daughter, model.Female, 2),
			heir("m", model.Mother, model.Female, 1),
			heir("f", model.Father, model.Male, 1),
		),
		islamInput(1_000_001, model.Female,
			heir("h", model.Spouse, model.Male, 1),
			heir("m", model.Mother, model.Female, 1),
			heir("bm", model.BrotherMaternal, model.Male, 2),
			heir("bf", model.BrotherFull, model.Male, 1),
		),
		islamInput(7, model.Male,
			heir("d", model.Daughter, model.Female, 1),
			heir("ds", model.DaughterOfSon, model.Female, 1),
			heir("sf", model.SisterFull, model.Female, 1),
			heir("u", model.UnclePaternal, model.Male, 1),
		),
		perdataInput(1_000,
			heir("gf", model.Grandfather, model.Male, 1),
			heir("gm", model.Grandmother, model.Female, 1),
			heir("u", model.UnclePaternal, model.Male, 3),
		),
	}
	for i, in := range cases {
		res, err := Calculate(in)
		require.NoError(t, err, "case %d", i)
		requireConserved(t, res)
		for _, s := range res.Shares {
			assert.GreaterOrEqual(t, s.Amount, int64(0), "case %d", i)
			assert.GreaterOrEqual(t, s.Percentage, 0.0)
			assert.LessOrEqual(t, s.Percentage, 100.0)
		}
		requireConsistentPercentages(t, res)
	}
}

func TestProcessSuccess(t *testing.T) {
	req := &model.CalculationRequest{
		RequestID: "req-1",
		Input: islamInput(120_000_000, model.Male,
			heir("w", model.Spouse, model.Female, 1),
			heir("s", model.Son, model.Male, 2),
		),
	}

	resp := New(Options{}).Process(req)

	if resp.CalculationMetadata.CalculationOutcome != model.OutcomeSuccess {
		t.Fatalf("expected SUCCESS, got %s", resp.CalculationMetadata.CalculationOutcome)
	}
	if resp.CalculationMetadata.RequestID != "req-1" {
		t.Fatalf("expected request_id req-1, got %s", resp.CalculationMetadata.RequestID)
	}
	if resp.CalculationMetadata.CalculationID == "" {
		t.Fatal("expected a calculation id")
	}
	if len(resp.Messages) != 0 {
		t.Fatalf("expected 0 messages, got %d", len(resp.Messages))
	}
	if resp.Result == nil || len(resp.Result.Shares) != 2 {
		t.Fatalf("expected a result with 2 shares, got %+v", resp.Result)
	}
}

func TestProcessValidationFailure(t *testing.T) {
	in := islamInput(0, model.Male, heir("s", model.Son, model.Male, 1))
	resp := New(Options{}).Process(&model.CalculationRequest{Input: in})

	if resp.CalculationMetadata.CalculationOutcome != model.OutcomeFailure {
		t.Fatalf("expected FAILURE, got %s", resp.CalculationMetadata.CalculationOutcome)
	}
	if resp.Result != nil {
		t.Fatal("expected no result")
	}
	if len(resp.Messages) == 0 {
		t.Fatal("expected validation messages")
	}
	for i, m := range resp.Messages {
		if m.ID != i || m.Level != model.LevelCritical || m.Code != model.CodeValidation {
			t.Fatalf("unexpected message %+v", m)
		}
	}
}
