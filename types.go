package invoice2pdf

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Page size constants.
const (
	PageSizeA4     = "a4"
	PageSizeLetter = "letter"
	PageSizeLegal  = "legal"
)

// Orientation constants.
const (
	OrientationPortrait  = "portrait"
	OrientationLandscape = "landscape"
)

// Margin bounds in inches.
const (
	MinMargin     = 0.25
	MaxMargin     = 3.0
	DefaultMargin = 0.5
)

// CurrencySymbol prefixes every monetary amount. Single currency, no
// conversion.
const CurrencySymbol = "₹"

// Defaults applied to company fields the request leaves out.
const (
	DefaultCompanyName    = "Your Company"
	DefaultCompanyAddress = "Your Address"
	DefaultCompanyEmail   = "billing@yourcompany.com"
)

// PageSettings configures the printed page. Backgrounds are always
// printed; the invoice header is a gradient.
type PageSettings struct {
	Size        string  // "a4", "letter", "legal"
	Orientation string  // "portrait", "landscape"
	Margin      float64 // inches, all four sides
}

// DefaultPageSettings returns A4 portrait with half-inch margins.
func DefaultPageSettings() *PageSettings {
	return &PageSettings{
		Size:        PageSizeA4,
		Orientation: OrientationPortrait,
		Margin:      DefaultMargin,
	}
}

// Validate checks size, orientation and margin bounds. A nil receiver is
// valid and means defaults. Comparison is case-insensitive.
func (p *PageSettings) Validate() error {
	if p == nil {
		return nil
	}
	switch strings.ToLower(p.Size) {
	case PageSizeA4, PageSizeLetter, PageSizeLegal:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidPageSize, p.Size)
	}
	switch strings.ToLower(p.Orientation) {
	case OrientationPortrait, OrientationLandscape:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidOrientation, p.Orientation)
	}
	if p.Margin < MinMargin || p.Margin > MaxMargin {
		return fmt.Errorf("%w: %.2f (must be between %.2f and %.2f)", ErrInvalidMargin, p.Margin, MinMargin, MaxMargin)
	}
	return nil
}

// Customer is the invoice recipient.
type Customer struct {
	Name    string
	Email   string
	Address string
}

// Company is the issuing business. Phone may be empty, in which case the
// phone line is left out of the document.
type Company struct {
	Name    string
	Address string
	Phone   string
	Email   string
}

// DefaultCompany returns the placeholder issuer used for absent fields.
func DefaultCompany() Company {
	return Company{
		Name:    DefaultCompanyName,
		Address: DefaultCompanyAddress,
		Email:   DefaultCompanyEmail,
	}
}

// LineItem is one billed row. Qty is at least 1 and Price is never
// negative once validated.
type LineItem struct {
	Name  string
	Qty   decimal.Decimal
	Price decimal.Decimal
}

// Total returns qty * price.
func (i LineItem) Total() decimal.Decimal {
	return i.Qty.Mul(i.Price)
}

// InvoiceRecord is a validated invoice. Totals are not part of it: they
// are recomputed from Items on every render.
type InvoiceRecord struct {
	InvoiceNo  string
	Date       string
	Customer   Customer
	Items      []LineItem
	TaxPercent decimal.Decimal
	Company    Company
}

// Filename returns the attachment name, Invoice-<no>.pdf.
func (r InvoiceRecord) Filename() string {
	return "Invoice-" + r.InvoiceNo + ".pdf"
}
