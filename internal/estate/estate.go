// Package estate nets the gross estate against debts, funeral costs and the
// bequest (wasiat). All amounts are whole Rupiah.
package estate

import (
	"fmt"

	"github.com/shopspring/decimal"

	"inheritance-engine/internal/model"
	"inheritance-engine/internal/rupiah"
)

type Breakdown struct {
	Gross           int64
	Debts           int64
	FuneralCosts    int64
	WasiatRequested int64
	WasiatCap       int64 // only meaningful under Islamic law
	Wasiat          int64 // effective bequest after the cap
	Net             int64
	Warnings        []string
}

var three = decimal.NewFromInt(3)

// rupiahs converts v for arithmetic. Negative obligations are rejected by the
// validator and count as nothing here.
func rupiahs(v int64, obligation bool) decimal.Decimal {
	if obligation && v < 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(v)
}

// Obligations is debts plus funeral costs plus the requested bequest. The sum
// is exact for any int64 inputs.
func Obligations(in model.InheritanceInput) decimal.Decimal {
	return rupiahs(in.Debts, true).Add(rupiahs(in.FuneralCosts, true)).Add(rupiahs(in.Wasiat, true))
}

func afterDebts(in model.InheritanceInput) decimal.Decimal {
	return rupiahs(in.TotalEstate, false).Sub(rupiahs(in.Debts, true)).Sub(rupiahs(in.FuneralCosts, true))
}

// WasiatCap is one third of the estate left after debts and funeral costs,
// rounded down. It is zero when obligations consume the estate.
func WasiatCap(in model.InheritanceInput) int64 {
	base := afterDebts(in)
	if !base.IsPositive() {
		return 0
	}
	q, _ := base.QuoRem(three, 0)
	return q.IntPart()
}

// NetEstate is the distributable estate.
func NetEstate(in model.InheritanceInput) int64 {
	return Normalize(in).Net
}

func Normalize(in model.InheritanceInput) Breakdown {
	b := Breakdown{
		Gross:           in.TotalEstate,
		Debts:           in.Debts,
		FuneralCosts:    in.FuneralCosts,
		WasiatRequested: in.Wasiat,
		Wasiat:          max(in.Wasiat, 0),
	}
	if in.LawSystem == model.LawIslam {
		b.WasiatCap = WasiatCap(in)
		if b.Wasiat > b.WasiatCap {
			b.Wasiat = b.WasiatCap
			b.Warnings = append(b.Warnings, fmt.Sprintf("Wasiat dibatasi sepertiga harta setelah utang dan biaya pemakaman: %s menjadi %s.", rupiah.Format(in.Wasiat), rupiah.Format(b.WasiatCap)))
		}
	}
	// net never exceeds the gross estate, so it fits once non-negative
	net := afterDebts(in).Sub(decimal.NewFromInt(b.Wasiat))
	if net.IsNegative() {
		b.Warnings = append(b.Warnings, fmt.Sprintf("Utang, biaya pemakaman, dan wasiat melebihi total harta sebesar %s; harta bersih dianggap nol.", rupiah.FormatDecimal(net.Neg())))
		net = decimal.Zero
	}
	b.Net = net.IntPart()
	return b
}
