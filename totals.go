package invoice2pdf

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// Totals holds the amounts derived from an invoice's items.
type Totals struct {
	Lines      []decimal.Decimal // one per item, input order
	Subtotal   decimal.Decimal
	TaxPercent decimal.Decimal
	TaxAmount  decimal.Decimal
	GrandTotal decimal.Decimal
}

// ComputeTotals derives line totals, subtotal, tax and grand total with
// exact decimal arithmetic.
func ComputeTotals(rec InvoiceRecord) Totals {
	t := Totals{
		Lines:      make([]decimal.Decimal, len(rec.Items)),
		Subtotal:   decimal.Zero,
		TaxPercent: rec.TaxPercent,
	}
	for i, item := range rec.Items {
		t.Lines[i] = item.Total()
		t.Subtotal = t.Subtotal.Add(t.Lines[i])
	}
	t.TaxAmount = t.Subtotal.Mul(rec.TaxPercent).Div(hundred)
	t.GrandTotal = t.Subtotal.Add(t.TaxAmount)
	return t
}

// HasTax reports whether the tax line belongs on the document.
func (t Totals) HasTax() bool {
	return t.TaxPercent.IsPositive()
}
