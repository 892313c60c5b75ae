package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	invoice2pdf "github.com/alnah/go-invoice2pdf"
	"github.com/alnah/go-invoice2pdf/internal/email"
	"github.com/alnah/go-invoice2pdf/internal/validate"
)

type batchSummary struct {
	Total      int `json:"total"`
	Successful int `json:"successful"`
	Failed     int `json:"failed"`
	EmailsSent int `json:"emailsSent"`
}

// batchResult reports one entry. An entry succeeds once its PDF is
// generated; delivery is reported separately in EmailSent/EmailError.
type batchResult struct {
	ID           string      `json:"id"`
	InvoiceNo    string      `json:"invoiceNo"`
	Customer     string      `json:"customer,omitempty"`
	Success      bool        `json:"success"`
	PDFGenerated bool        `json:"pdfGenerated"`
	Amount       json.Number `json:"amount,omitempty"`
	EmailSent    bool        `json:"emailSent"`
	SentTo       string      `json:"sentTo,omitempty"`
	EmailError   string      `json:"emailError,omitempty"`
	Error        string      `json:"error,omitempty"`
	Details      []string    `json:"details,omitempty"`
}

type batchResponse struct {
	Success   bool          `json:"success"`
	Summary   batchSummary  `json:"summary"`
	Results   []batchResult `json:"results"`
	Timestamp string        `json:"timestamp"`
}

func (s *Server) handleProcessInvoices(w http.ResponseWriter, r *http.Request) {
	data, ok := s.readBody(w, r)
	if !ok {
		return
	}
	entries, err := validate.Batch(data)
	if err != nil {
		s.respondFailure(w, r, err, "")
		return
	}

	results := make([]batchResult, len(entries))
	var g errgroup.Group
	g.SetLimit(s.cfg.BatchWorkers)
	for i, entry := range entries {
		g.Go(func() error {
			results[i] = s.processEntry(r.Context(), entry)
			return nil
		})
	}
	_ = g.Wait()

	summary := batchSummary{Total: len(results)}
	for _, res := range results {
		if res.Success {
			summary.Successful++
		} else {
			summary.Failed++
		}
		if res.EmailSent {
			summary.EmailsSent++
		}
	}

	s.logger.InfoContext(r.Context(), "batch processed",
		"total", summary.Total, "failed", summary.Failed, "emails_sent", summary.EmailsSent)

	respond(w, http.StatusOK, batchResponse{
		Success:   summary.Failed == 0,
		Summary:   summary,
		Results:   results,
		Timestamp: s.timestamp(),
	})
}

// processEntry validates, renders and, when a provider is configured,
// emails one entry. Failures stay inside the result.
func (s *Server) processEntry(ctx context.Context, entry validate.BatchEntry) batchResult {
	res := batchResult{ID: uuid.NewString(), InvoiceNo: entry.InvoiceNo, Customer: entry.CustomerName}

	rec, err := validate.Invoice(entry.Invoice, s.cfg.Company)
	if err != nil {
		res.Error = "Validation failed"
		var verr *validate.Errors
		if errors.As(err, &verr) {
			res.Details = prefixDetails(verr.Details)
		} else {
			res.Details = []string{err.Error()}
		}
		return res
	}
	res.InvoiceNo = rec.InvoiceNo
	if res.Customer == "" {
		res.Customer = rec.Customer.Name
	}

	override, err := entry.Recipient()
	if err != nil {
		res.Error = "Validation failed"
		var verr *validate.Errors
		if errors.As(err, &verr) {
			res.Details = verr.Details
		}
		return res
	}

	rendered, err := s.svc.Render(ctx, rec)
	if err != nil {
		res.Error = err.Error()
		return res
	}
	res.Success = true
	res.PDFGenerated = true
	res.Amount = json.Number(rendered.Totals.GrandTotal.String())

	if !s.svc.CanDeliver() {
		res.EmailError = invoice2pdf.ErrEmailNotConfigured.Error()
		return res
	}

	to := email.Address{Name: res.Customer, Email: rec.Customer.Email}
	if override != "" {
		to.Email = override
	}
	if _, err := s.svc.Deliver(ctx, rendered, to); err != nil {
		res.EmailError = err.Error()
		return res
	}
	res.EmailSent = true
	res.SentTo = to.Email
	return res
}

// prefixDetails anchors field messages under invoiceData, the key the
// client nested the invoice in.
func prefixDetails(details []string) []string {
	out := make([]string, len(details))
	for i, d := range details {
		switch {
		case strings.HasPrefix(d, `"value"`):
			out[i] = `"invoiceData"` + strings.TrimPrefix(d, `"value"`)
		case strings.HasPrefix(d, `"`):
			out[i] = `"invoiceData.` + d[1:]
		default:
			out[i] = d
		}
	}
	return out
}
