package invoice2pdf

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// maxFractionDigits matches what invoice readers expect from the legacy
// documents: 1234.5 prints as 1,234.5 and 1/3 as 0.333.
const maxFractionDigits = 3

// FormatAmount renders d with en-US grouping and at most three fraction
// digits, trailing zeros trimmed. The locale is fixed so output never
// depends on the host.
func FormatAmount(d decimal.Decimal) string {
	v := d.Round(maxFractionDigits).InexactFloat64()
	p := message.NewPrinter(language.AmericanEnglish)
	return p.Sprint(number.Decimal(v, number.MaxFractionDigits(maxFractionDigits)))
}

// FormatMoney is FormatAmount prefixed with the currency symbol.
func FormatMoney(d decimal.Decimal) string {
	return CurrencySymbol + FormatAmount(d)
}
