package invoice2pdf

import "testing"

// ---------------------------------------------------------------------------
// TestComputeTotals
// ---------------------------------------------------------------------------

func TestComputeTotals(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name                       string
		items                      [][2]string // qty, price
		tax                        string
		wantSub, wantTax, wantGrand string
		wantHasTax                 bool
	}{
		{
			name:  "web development at 18%",
			items: [][2]string{{"1", "25000"}},
			tax:   "18", wantSub: "25000", wantTax: "4500", wantGrand: "29500",
			wantHasTax: true,
		},
		{
			name:  "no tax",
			items: [][2]string{{"2", "100"}, {"1", "50"}},
			tax:   "0", wantSub: "250", wantTax: "0", wantGrand: "250",
		},
		{
			name:  "exact decimals",
			items: [][2]string{{"3", "0.1"}, {"1", "0.2"}},
			tax:   "10", wantSub: "0.5", wantTax: "0.05", wantGrand: "0.55",
			wantHasTax: true,
		},
		{
			name:  "fractional percent",
			items: [][2]string{{"4", "1250"}},
			tax:   "12.5", wantSub: "5000", wantTax: "625", wantGrand: "5625",
			wantHasTax: true,
		},
		{
			name:  "free items",
			items: [][2]string{{"5", "0"}},
			tax:   "18", wantSub: "0", wantTax: "0", wantGrand: "0",
			wantHasTax: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec := webDevRecord()
			rec.Items = nil
			for _, it := range tt.items {
				rec.Items = append(rec.Items, LineItem{Name: "item", Qty: dec(it[0]), Price: dec(it[1])})
			}
			rec.TaxPercent = dec(tt.tax)

			got := ComputeTotals(rec)
			if !got.Subtotal.Equal(dec(tt.wantSub)) {
				t.Errorf("Subtotal = %s, want %s", got.Subtotal, tt.wantSub)
			}
			if !got.TaxAmount.Equal(dec(tt.wantTax)) {
				t.Errorf("TaxAmount = %s, want %s", got.TaxAmount, tt.wantTax)
			}
			if !got.GrandTotal.Equal(dec(tt.wantGrand)) {
				t.Errorf("GrandTotal = %s, want %s", got.GrandTotal, tt.wantGrand)
			}
			if got.HasTax() != tt.wantHasTax {
				t.Errorf("HasTax() = %v, want %v", got.HasTax(), tt.wantHasTax)
			}
			if len(got.Lines) != len(tt.items) {
				t.Fatalf("len(Lines) = %d, want %d", len(got.Lines), len(tt.items))
			}
		})
	}
}

func TestComputeTotals_SumOfLines(t *testing.T) {
	t.Parallel()

	rec := webDevRecord()
	rec.Items = []LineItem{
		{Name: "a", Qty: dec("2"), Price: dec("19.99")},
		{Name: "b", Qty: dec("7"), Price: dec("3.333")},
		{Name: "c", Qty: dec("1"), Price: dec("1000")},
	}

	got := ComputeTotals(rec)
	sum := dec("0")
	for i, line := range got.Lines {
		if !line.Equal(rec.Items[i].Total()) {
			t.Errorf("Lines[%d] = %s, want %s", i, line, rec.Items[i].Total())
		}
		sum = sum.Add(line)
	}
	if !got.Subtotal.Equal(sum) {
		t.Errorf("Subtotal = %s, want sum of lines %s", got.Subtotal, sum)
	}
	if !got.GrandTotal.Equal(got.Subtotal.Add(got.TaxAmount)) {
		t.Error("GrandTotal != Subtotal + TaxAmount")
	}
}
