package invoice2pdf

import (
	"errors"
	"strings"
	"testing"

	"github.com/alnah/go-invoice2pdf/internal/assets"
)

// stubLoader serves fixed sources so tests can feed broken templates.
type stubLoader struct {
	template string
	style    string
	err      error
}

func (s stubLoader) LoadStyle(string) (string, error)    { return s.style, s.err }
func (s stubLoader) LoadTemplate(string) (string, error) { return s.template, s.err }

func newTestComposer(t *testing.T) *Composer {
	t.Helper()
	c, err := NewComposer(assets.NewEmbeddedLoader())
	if err != nil {
		t.Fatalf("NewComposer() error: %v", err)
	}
	return c
}

// ---------------------------------------------------------------------------
// TestCompose_WebDevelopment - Canonical invoice
// ---------------------------------------------------------------------------

func TestCompose_WebDevelopment(t *testing.T) {
	t.Parallel()

	out, err := newTestComposer(t).Compose(webDevRecord())
	if err != nil {
		t.Fatalf("Compose() error: %v", err)
	}

	for _, want := range []string{
		"<!DOCTYPE html>",
		"<title>Invoice INV-001</title>",
		"Invoice #: INV-001",
		"Date: 2025-01-15",
		"<td>Web Development</td>",
		`<td class="qty">1</td>`,
		`<td class="amount">₹25,000</td>`,
		"Subtotal: ₹25,000",
		"Tax (18%): ₹4,500",
		"TOTAL: ₹29,500",
		"Your Company",
		"billing@yourcompany.com",
		"Jane Doe",
		"Thank you for your business!",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
	if strings.Contains(out, "Phone:") {
		t.Error("phone line rendered for empty company phone")
	}
}

// ---------------------------------------------------------------------------
// TestCompose_ConditionalLines
// ---------------------------------------------------------------------------

func TestCompose_ConditionalLines(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		tax       string
		phone     string
		wantTax   bool
		wantPhone bool
	}{
		{"tax and phone", "18", "+91 98765 43210", true, true},
		{"no tax", "0", "+91 98765 43210", false, true},
		{"no phone", "5", "", true, false},
		{"neither", "0", "", false, false},
	}

	composer := newTestComposer(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec := webDevRecord()
			rec.TaxPercent = dec(tt.tax)
			rec.Company.Phone = tt.phone

			out, err := composer.Compose(rec)
			if err != nil {
				t.Fatalf("Compose() error: %v", err)
			}
			if got := strings.Contains(out, "Tax ("); got != tt.wantTax {
				t.Errorf("tax line present = %v, want %v", got, tt.wantTax)
			}
			if got := strings.Contains(out, "Phone: "+tt.phone); got != tt.wantPhone {
				t.Errorf("phone line present = %v, want %v", got, tt.wantPhone)
			}
			if !strings.Contains(out, "Subtotal: ") || !strings.Contains(out, "TOTAL: ") {
				t.Error("subtotal and total lines must always render")
			}
		})
	}
}

func TestCompose_FractionalTaxPercent(t *testing.T) {
	t.Parallel()

	rec := webDevRecord()
	rec.TaxPercent = dec("12.5")

	out, err := newTestComposer(t).Compose(rec)
	if err != nil {
		t.Fatalf("Compose() error: %v", err)
	}
	if !strings.Contains(out, "Tax (12.5%): ₹3,125") {
		t.Errorf("unexpected tax line in:\n%s", out)
	}
}

// ---------------------------------------------------------------------------
// TestCompose_Deterministic
// ---------------------------------------------------------------------------

func TestCompose_Deterministic(t *testing.T) {
	t.Parallel()

	composer := newTestComposer(t)
	rec := webDevRecord()
	rec.Items = append(rec.Items, LineItem{Name: "Hosting", Qty: dec("12"), Price: dec("499.5")})

	first, err := composer.Compose(rec)
	if err != nil {
		t.Fatalf("Compose() error: %v", err)
	}
	for range 5 {
		again, err := composer.Compose(rec)
		if err != nil {
			t.Fatalf("Compose() error: %v", err)
		}
		if again != first {
			t.Fatal("Compose() output differs between identical calls")
		}
	}
}

func TestCompose_RowOrder(t *testing.T) {
	t.Parallel()

	rec := webDevRecord()
	rec.Items = []LineItem{
		{Name: "Zeta design", Qty: dec("1"), Price: dec("10")},
		{Name: "Alpha audit", Qty: dec("2"), Price: dec("20")},
		{Name: "Mid review", Qty: dec("3"), Price: dec("30")},
	}

	out, err := newTestComposer(t).Compose(rec)
	if err != nil {
		t.Fatalf("Compose() error: %v", err)
	}

	prev := -1
	for _, item := range rec.Items {
		idx := strings.Index(out, "<td>"+item.Name+"</td>")
		if idx < 0 {
			t.Fatalf("row %q missing", item.Name)
		}
		if idx < prev {
			t.Errorf("row %q out of input order", item.Name)
		}
		prev = idx
	}
	if strings.Count(out, "<tr>") != len(rec.Items)+1 {
		t.Errorf("want one header row plus %d item rows", len(rec.Items))
	}
}

// ---------------------------------------------------------------------------
// TestCompose_Escaping - Free text never becomes markup
// ---------------------------------------------------------------------------

func TestCompose_Escaping(t *testing.T) {
	t.Parallel()

	const payload = `<script>alert("x")</script>`
	rec := webDevRecord()
	rec.InvoiceNo = payload
	rec.Customer.Name = payload
	rec.Customer.Address = `<img src=x onerror=alert(1)>`
	rec.Company.Name = "Smith & Sons"
	rec.Items[0].Name = "<b>bold</b>"

	out, err := newTestComposer(t).Compose(rec)
	if err != nil {
		t.Fatalf("Compose() error: %v", err)
	}

	for _, bad := range []string{"<script>", "<img", "<b>bold"} {
		if strings.Contains(out, bad) {
			t.Errorf("unescaped %q in output", bad)
		}
	}
	for _, want := range []string{"&lt;script&gt;", "Smith &amp; Sons", "&lt;b&gt;bold&lt;/b&gt;"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing escaped %q", want)
		}
	}
}

// ---------------------------------------------------------------------------
// TestNewComposer_Errors
// ---------------------------------------------------------------------------

func TestNewComposer_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		loader stubLoader
	}{
		{"loader failure", stubLoader{err: assets.ErrTemplateNotFound}},
		{"unparseable template", stubLoader{template: "{{.InvoiceNo", style: "body{}"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if _, err := NewComposer(tt.loader); !errors.Is(err, ErrCompose) {
				t.Errorf("NewComposer() error = %v, want ErrCompose", err)
			}
		})
	}
}

func TestCompose_ExecutionError(t *testing.T) {
	t.Parallel()

	c, err := NewComposer(stubLoader{template: "{{.NoSuchField}}", style: ""})
	if err != nil {
		t.Fatalf("NewComposer() error: %v", err)
	}
	if _, err := c.Compose(webDevRecord()); !errors.Is(err, ErrCompose) {
		t.Errorf("Compose() error = %v, want ErrCompose", err)
	}
}
