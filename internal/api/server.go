// Package api implements the HTTP layer of the invoice service. Handlers
// are methods on *Server; each translates domain errors into the JSON
// envelopes clients already depend on.
package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	invoice2pdf "github.com/alnah/go-invoice2pdf"
	"github.com/alnah/go-invoice2pdf/internal/logging"
)

// ServiceName is reported by /health.
const ServiceName = "Invoice PDF Backend"

// Endpoints lists the public routes, echoed by the 404 handler.
var Endpoints = []string{
	"GET /health",
	"POST /api/generate-pdf",
	"POST /api/send-invoice",
	"POST /api/preview",
	"POST /api/process-invoices",
}

// Config holds values read at startup.
type Config struct {
	// Version is reported by /health.
	Version string

	// Production adds Strict-Transport-Security.
	Production bool

	// MaxBodyBytes bounds every request body. Zero means 10MB.
	MaxBodyBytes int64

	// RequestTimeout bounds single-invoice routes. Zero disables it.
	RequestTimeout time.Duration

	// AllowedOrigins lists CORS origins. Empty allows any origin.
	AllowedOrigins []string

	// Company fills the fields a request body leaves out.
	Company invoice2pdf.Company

	// BatchWorkers bounds how many batch entries run at once. Zero means 1.
	BatchWorkers int

	// Now is the clock for response timestamps. Nil means time.Now.
	Now func() time.Time
}

const defaultMaxBodyBytes = 10 << 20

// Server holds the shared dependencies of every handler.
type Server struct {
	svc    *invoice2pdf.Service
	cfg    Config
	logger *slog.Logger
}

// NewServer wires the chi router around svc. The returned handler is
// ready for an http.Server.
func NewServer(svc *invoice2pdf.Service, cfg Config, logger *slog.Logger) http.Handler {
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = defaultMaxBodyBytes
	}
	if cfg.BatchWorkers <= 0 {
		cfg.BatchWorkers = 1
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if logger == nil {
		logger = logging.Discard()
	}

	s := &Server{svc: svc, cfg: cfg, logger: logger}
	return s.routes()
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.loggerMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(s.securityHeaders)
	r.Use(s.corsMiddleware)

	r.NotFound(s.handleNotFound)
	r.MethodNotAllowed(s.handleNotFound)

	r.Get("/health", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(s.deadline)
			r.Post("/generate-pdf", s.handleGeneratePDF)
			r.Post("/send-invoice", s.handleSendInvoice)
			r.Post("/preview", s.handlePreview)
		})

		// Batches run many conversions; only the client bounds them.
		r.Post("/process-invoices", s.handleProcessInvoices)
	})

	return r
}
