package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	invoice2pdf "github.com/alnah/go-invoice2pdf"
	"github.com/alnah/go-invoice2pdf/internal/hints"
	"github.com/alnah/go-invoice2pdf/internal/validate"
)

// respondFailure maps err onto the response contract:
//
//	validation        400 Validation failed + details
//	malformed JSON    400 Invalid JSON
//	no credential     503 Email delivery not configured
//	conversion        500 Failed to generate PDF
//	delivery          502 Failed to send invoice
//
// fallback titles any other error with status 500.
func (s *Server) respondFailure(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	var verr *validate.Errors
	switch {
	case errors.As(err, &verr):
		respond(w, http.StatusBadRequest, errorBody{Error: "Validation failed", Details: verr.Details})
		return
	case errors.Is(err, validate.ErrMalformed):
		respondErr(w, http.StatusBadRequest, "Invalid JSON", err.Error())
		return
	}

	status, title := http.StatusInternalServerError, fallback
	switch {
	case errors.Is(err, invoice2pdf.ErrEmailNotConfigured):
		status, title = http.StatusServiceUnavailable, "Email delivery not configured"
	case errors.Is(err, invoice2pdf.ErrConversion):
		title = "Failed to generate PDF"
	case errors.Is(err, invoice2pdf.ErrDelivery):
		status, title = http.StatusBadGateway, "Failed to send invoice"
	}
	if title == "" {
		title = "Internal server error"
	}

	attrs := []slog.Attr{
		slog.String("path", r.URL.Path),
		slog.Int("status", status),
		slog.String("error", err.Error()),
	}
	if hint := hintFor(err); hint != "" {
		attrs = append(attrs, slog.String("hint", hint))
	}
	s.logger.LogAttrs(r.Context(), slog.LevelError, title, attrs...)

	respondErr(w, status, title, err.Error())
}

// hintFor returns an operator hint for failures a config change fixes.
func hintFor(err error) string {
	var hint string
	switch {
	case errors.Is(err, invoice2pdf.ErrBrowserConnect):
		hint = hints.ForBrowserConnect()
	case errors.Is(err, context.DeadlineExceeded):
		hint = hints.ForTimeout()
	case errors.Is(err, invoice2pdf.ErrEmailNotConfigured):
		hint = hints.ForEmailNotConfigured("")
	}
	return strings.TrimPrefix(hint, "\n  hint: ")
}
