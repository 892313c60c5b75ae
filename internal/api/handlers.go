package api

import (
	"fmt"
	"mime"
	"net/http"
	"strconv"
	"strings"
	"time"
	"unicode"

	invoice2pdf "github.com/alnah/go-invoice2pdf"
	"github.com/alnah/go-invoice2pdf/internal/validate"
)

type healthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Service   string `json:"service"`
	Version   string `json:"version"`
	Engine    string `json:"engine"`
	Email     bool   `json:"emailConfigured"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respond(w, http.StatusOK, healthResponse{
		Status:    "OK",
		Timestamp: s.timestamp(),
		Service:   ServiceName,
		Version:   s.cfg.Version,
		Engine:    s.svc.EngineName(),
		Email:     s.svc.CanDeliver(),
	})
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	respond(w, http.StatusNotFound, errorBody{
		Error:              "Endpoint not found",
		AvailableEndpoints: Endpoints,
	})
}

// decodeInvoice reads and validates the body. It writes the error
// response itself and returns false when the caller should stop.
func (s *Server) decodeInvoice(w http.ResponseWriter, r *http.Request) (invoice2pdf.InvoiceRecord, bool) {
	data, ok := s.readBody(w, r)
	if !ok {
		return invoice2pdf.InvoiceRecord{}, false
	}
	rec, err := validate.Invoice(data, s.cfg.Company)
	if err != nil {
		s.respondFailure(w, r, err, "")
		return invoice2pdf.InvoiceRecord{}, false
	}
	return rec, true
}

func (s *Server) handleGeneratePDF(w http.ResponseWriter, r *http.Request) {
	rec, ok := s.decodeInvoice(w, r)
	if !ok {
		return
	}

	res, err := s.svc.Render(r.Context(), rec)
	if err != nil {
		s.respondFailure(w, r, err, "Failed to generate PDF")
		return
	}

	h := w.Header()
	h.Set("Content-Type", "application/pdf")
	h.Set("Content-Disposition", attachment(res.Filename))
	h.Set("Content-Length", strconv.Itoa(len(res.PDF)))
	h.Set("X-Render-Engine", res.Engine)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.PDF)
}

type sendResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	InvoiceNo string `json:"invoiceNo"`
	SentTo    string `json:"sentTo"`
	Timestamp string `json:"timestamp"`
	MessageID string `json:"messageId,omitempty"`
}

func (s *Server) handleSendInvoice(w http.ResponseWriter, r *http.Request) {
	rec, ok := s.decodeInvoice(w, r)
	if !ok {
		return
	}

	d, err := s.svc.Send(r.Context(), rec, invoice2pdf.SendOptions{})
	if err != nil {
		s.respondFailure(w, r, err, "Failed to send invoice")
		return
	}

	w.Header().Set("X-Render-Engine", d.Engine)
	respond(w, http.StatusOK, sendResponse{
		Success:   true,
		Message:   fmt.Sprintf("Invoice %s sent successfully to %s", rec.InvoiceNo, d.SentTo),
		InvoiceNo: rec.InvoiceNo,
		SentTo:    d.SentTo,
		Timestamp: s.timestamp(),
		MessageID: d.Receipt.MessageID,
	})
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	rec, ok := s.decodeInvoice(w, r)
	if !ok {
		return
	}

	html, err := s.svc.Preview(rec)
	if err != nil {
		s.respondFailure(w, r, err, "Failed to generate preview")
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(html))
}

func (s *Server) timestamp() string {
	return s.cfg.Now().UTC().Format(time.RFC3339Nano)
}

// attachment builds a Content-Disposition value. Plain ASCII names are
// quoted as-is; anything else goes through RFC 2231 encoding.
func attachment(filename string) string {
	ascii := true
	for _, r := range filename {
		if r > unicode.MaxASCII || unicode.IsControl(r) {
			ascii = false
			break
		}
	}
	if ascii {
		escaped := strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(filename)
		return `attachment; filename="` + escaped + `"`
	}
	return mime.FormatMediaType("attachment", map[string]string{"filename": filename})
}
