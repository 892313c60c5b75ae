// Package invoice2pdf renders invoices to PDF and emails them.
//
// # Quick Start
//
// Build a service, render a validated record, and close when done:
//
//	svc, err := invoice2pdf.New()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer svc.Close()
//
//	res, err := svc.Render(ctx, rec)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile(res.Filename, res.PDF, 0644)
//
// Records normally come from raw JSON through the internal validate
// package, which applies the company defaults.
//
// # Pipeline
//
//  1. Totals are recomputed from the items with exact decimal math
//     (caller-supplied totals are never trusted).
//  2. The Composer fills the embedded HTML template; every text field is
//     escaped and the output is byte-identical for identical records.
//  3. The Converter hands the markup to an Engine under a deadline and
//     wraps any failure in a *ConversionError.
//  4. Send attaches the PDF to an email through the configured provider.
//     A failed conversion sends nothing; a missing credential fails
//     before any rendering.
//
// # Engines
//
// ChromeEngine prints through headless Chrome (go-rod) and launches the
// browser lazily. TextEngine lays out the stripped text with gofpdf for
// hosts without a browser. EnginePool bounds concurrent browsers:
//
//	pool := invoice2pdf.NewEnginePool(invoice2pdf.ResolvePoolSize(0), invoice2pdf.EngineChrome,
//	    func() invoice2pdf.Engine { return invoice2pdf.NewChromeEngine(30 * time.Second) })
//	svc, err := invoice2pdf.New(invoice2pdf.WithEngine(pool))
//
// # Errors
//
// Conversion failures match ErrConversion, delivery failures match
// ErrDelivery, and a send without credentials returns
// ErrEmailNotConfigured. Use errors.Is to tell them apart.
package invoice2pdf
