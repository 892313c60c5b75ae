package email

import (
	"bytes"
	"fmt"
	"html/template"
	"sync"

	"github.com/alnah/go-invoice2pdf/internal/assets"
)

// DefaultSignature closes the message when the sender has no display name.
const DefaultSignature = "Billing Team"

const invoiceTextBody = `Hi %s,

Please find your invoice attached.

If you have any questions, reply to this email.

Thanks,
%s`

// InvoiceParams describes one invoice delivery.
type InvoiceParams struct {
	InvoiceNo string
	To        Address
	Filename  string
	PDF       []byte
}

var invoiceHTML = sync.OnceValues(func() (*template.Template, error) {
	src, err := assets.NewEmbeddedLoader().LoadTemplate(assets.EmailTemplate)
	if err != nil {
		return nil, err
	}
	return template.New(assets.EmailTemplate).Parse(src)
})

// NewInvoiceMessage builds the email carrying an invoice PDF: subject
// "Invoice <no>", a plain and an HTML greeting, one PDF attachment.
func NewInvoiceMessage(from Address, p InvoiceParams) (Message, error) {
	tmpl, err := invoiceHTML()
	if err != nil {
		return Message{}, fmt.Errorf("email: loading body template: %w", err)
	}

	signature := from.Name
	if signature == "" {
		signature = DefaultSignature
	}

	var body bytes.Buffer
	err = tmpl.Execute(&body, struct {
		CustomerName string
		InvoiceNo    string
		Signature    string
	}{p.To.Name, p.InvoiceNo, signature})
	if err != nil {
		return Message{}, fmt.Errorf("email: rendering body: %w", err)
	}

	return Message{
		From:    from,
		To:      p.To,
		Subject: "Invoice " + p.InvoiceNo,
		Text:    fmt.Sprintf(invoiceTextBody, p.To.Name, signature),
		HTML:    body.String(),
		Attachments: []Attachment{{
			Filename:    p.Filename,
			ContentType: "application/pdf",
			Content:     p.PDF,
		}},
	}, nil
}
