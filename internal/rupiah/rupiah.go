// Package rupiah formats whole-Rupiah amounts the Indonesian way: "Rp 15.000.000".
package rupiah

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

func Format(amount int64) string {
	p := message.NewPrinter(language.Indonesian)
	if amount < 0 {
		return p.Sprintf("-Rp %d", -amount)
	}
	return p.Sprintf("Rp %d", amount)
}

// FormatDecimal formats sums that may not fit in an int64, such as the total
// of several obligations. The value is rounded to whole Rupiah.
func FormatDecimal(d decimal.Decimal) string {
	d = d.Round(0)
	if b := d.BigInt(); b.IsInt64() {
		return Format(b.Int64())
	}
	digits := d.Abs().String()
	var sb strings.Builder
	if d.IsNegative() {
		sb.WriteString("-")
	}
	sb.WriteString("Rp ")
	for i, c := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			sb.WriteByte('.')
		}
		sb.WriteRune(c)
	}
	return sb.String()
}
