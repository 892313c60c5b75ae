package invoice2pdf

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/alnah/go-invoice2pdf/internal/assets"
)

// Composer turns a validated record into a standalone HTML document. It
// holds only the parsed template and is safe for concurrent use.
type Composer struct {
	tmpl  *template.Template
	style template.CSS
}

// NewComposer parses the invoice template and stylesheet from loader.
func NewComposer(loader assets.AssetLoader) (*Composer, error) {
	src, err := loader.LoadTemplate(assets.InvoiceTemplate)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCompose, err)
	}
	css, err := loader.LoadStyle(assets.InvoiceStyle)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCompose, err)
	}
	tmpl, err := template.New(assets.InvoiceTemplate).Option("missingkey=error").Parse(src)
	if err != nil {
		return nil, fmt.Errorf("%w: parsing template: %v", ErrCompose, err)
	}
	return &Composer{
		tmpl: tmpl,
		// #nosec G203 -- embedded stylesheet, not user input
		style: template.CSS(css),
	}, nil
}

// invoiceView is everything the template reads. Amounts are formatted
// here, and the two optional blocks are plain booleans.
type invoiceView struct {
	InvoiceNo     string
	Date          string
	Customer      Customer
	Company       Company
	Rows          []rowView
	Subtotal      string
	TaxPercent    string
	TaxAmount     string
	GrandTotal    string
	ShowTaxLine   bool
	ShowPhoneLine bool
	Style         template.CSS
}

type rowView struct {
	Name  string
	Qty   string
	Price string
	Total string
}

// Compose renders rec. Identical records give byte-identical output.
func (c *Composer) Compose(rec InvoiceRecord) (string, error) {
	var buf bytes.Buffer
	if err := c.tmpl.Execute(&buf, c.view(rec)); err != nil {
		return "", fmt.Errorf("%w: %v", ErrCompose, err)
	}
	return buf.String(), nil
}

func (c *Composer) view(rec InvoiceRecord) invoiceView {
	totals := ComputeTotals(rec)

	rows := make([]rowView, len(rec.Items))
	for i, item := range rec.Items {
		rows[i] = rowView{
			Name:  item.Name,
			Qty:   item.Qty.String(),
			Price: FormatMoney(item.Price),
			Total: FormatMoney(totals.Lines[i]),
		}
	}

	return invoiceView{
		InvoiceNo:     rec.InvoiceNo,
		Date:          rec.Date,
		Customer:      rec.Customer,
		Company:       rec.Company,
		Rows:          rows,
		Subtotal:      FormatMoney(totals.Subtotal),
		TaxPercent:    totals.TaxPercent.String(),
		TaxAmount:     FormatMoney(totals.TaxAmount),
		GrandTotal:    FormatMoney(totals.GrandTotal),
		ShowTaxLine:   totals.HasTax(),
		ShowPhoneLine: rec.Company.Phone != "",
		Style:         c.style,
	}
}
