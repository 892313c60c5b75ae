package invoice2pdf

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/alnah/go-invoice2pdf/internal/assets"
	"github.com/alnah/go-invoice2pdf/internal/email"
	"github.com/alnah/go-invoice2pdf/internal/logging"
)

// Service runs the invoice pipeline: compose, convert, then optionally
// deliver. It is safe for concurrent use; pass an EnginePool to bound
// how many browsers run at once.
type Service struct {
	composer  *Composer
	converter *Converter
	mailer    email.Sender
	from      email.Address
	logger    *slog.Logger
}

type serviceConfig struct {
	engine  Engine
	timeout time.Duration
	page    *PageSettings
	loader  assets.AssetLoader
	mailer  email.Sender
	from    email.Address
	logger  *slog.Logger
}

// Option configures a Service.
type Option func(*serviceConfig)

// WithEngine sets the conversion engine. The Service owns it and closes
// it in Close. Without this option a ChromeEngine is used.
func WithEngine(e Engine) Option {
	return func(c *serviceConfig) {
		c.engine = e
	}
}

// WithTimeout sets the per-conversion deadline.
// Panics if d <= 0 (programming error).
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("invoice2pdf: WithTimeout requires a positive duration")
	}
	return func(c *serviceConfig) {
		c.timeout = d
	}
}

// WithPageSettings sets the printed page for every conversion.
func WithPageSettings(p *PageSettings) Option {
	return func(c *serviceConfig) {
		c.page = p
	}
}

// WithMailer enables Send and Deliver through s, with from as sender.
func WithMailer(s email.Sender, from email.Address) Option {
	return func(c *serviceConfig) {
		c.mailer = s
		c.from = from
	}
}

// WithLogger sets the logger. The default discards.
func WithLogger(l *slog.Logger) Option {
	return func(c *serviceConfig) {
		c.logger = l
	}
}

// WithAssetLoader sets where the invoice template and stylesheet come
// from. The default is the embedded set.
func WithAssetLoader(l assets.AssetLoader) Option {
	return func(c *serviceConfig) {
		c.loader = l
	}
}

// New builds a Service. It fails only if the page settings are invalid
// or the template cannot be parsed.
func New(opts ...Option) (*Service, error) {
	cfg := serviceConfig{timeout: defaultTimeout}
	for _, opt := range opts {
		opt(&cfg)
	}

	if err := cfg.page.Validate(); err != nil {
		return nil, err
	}
	if cfg.loader == nil {
		cfg.loader = assets.NewEmbeddedLoader()
	}
	if cfg.logger == nil {
		cfg.logger = logging.Discard()
	}

	composer, err := NewComposer(cfg.loader)
	if err != nil {
		return nil, err
	}
	if cfg.engine == nil {
		cfg.engine = NewChromeEngine(cfg.timeout)
	}

	return &Service{
		composer:  composer,
		converter: NewConverter(cfg.engine, cfg.timeout, cfg.page),
		mailer:    cfg.mailer,
		from:      cfg.from,
		logger:    cfg.logger,
	}, nil
}

// Result is one rendered invoice.
type Result struct {
	InvoiceNo string
	Filename  string
	HTML      string
	PDF       []byte
	Totals    Totals
	Engine    string
}

// SendOptions overrides the recipient taken from the record.
type SendOptions struct {
	To   string
	Name string
}

// Delivery is a rendered invoice that was accepted by the provider.
type Delivery struct {
	*Result
	SentTo  string
	Receipt *email.Receipt
}

// Preview composes rec without converting it.
func (s *Service) Preview(rec InvoiceRecord) (string, error) {
	return s.composer.Compose(rec)
}

// Render composes and converts rec.
func (s *Service) Render(ctx context.Context, rec InvoiceRecord) (*Result, error) {
	markup, err := s.composer.Compose(rec)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	pdf, err := s.converter.Convert(ctx, markup, nil)
	if err != nil {
		s.logger.ErrorContext(ctx, "pdf conversion failed",
			"invoice_no", rec.InvoiceNo, "engine", s.converter.EngineName(), "error", err)
		return nil, err
	}
	s.logger.DebugContext(ctx, "pdf generated",
		"invoice_no", rec.InvoiceNo, "bytes", len(pdf), "duration", time.Since(start))

	return &Result{
		InvoiceNo: rec.InvoiceNo,
		Filename:  rec.Filename(),
		HTML:      markup,
		PDF:       pdf,
		Totals:    ComputeTotals(rec),
		Engine:    s.converter.EngineName(),
	}, nil
}

// Send renders rec and emails the PDF. With no mailer configured it
// returns ErrEmailNotConfigured before rendering anything. A failed
// conversion means nothing is sent.
func (s *Service) Send(ctx context.Context, rec InvoiceRecord, opts SendOptions) (*Delivery, error) {
	if !s.CanDeliver() {
		return nil, ErrEmailNotConfigured
	}

	res, err := s.Render(ctx, rec)
	if err != nil {
		return nil, err
	}

	to := recipient(rec, opts)
	receipt, err := s.Deliver(ctx, res, to)
	if err != nil {
		return nil, err
	}
	return &Delivery{Result: res, SentTo: to.Email, Receipt: receipt}, nil
}

// Deliver emails an already rendered invoice to to.
func (s *Service) Deliver(ctx context.Context, res *Result, to email.Address) (*email.Receipt, error) {
	if !s.CanDeliver() {
		return nil, ErrEmailNotConfigured
	}

	msg, err := email.NewInvoiceMessage(s.from, email.InvoiceParams{
		InvoiceNo: res.InvoiceNo,
		To:        to,
		Filename:  res.Filename,
		PDF:       res.PDF,
	})
	if err != nil {
		return nil, &DeliveryError{Recipient: to.Email, Err: err}
	}

	receipt, err := s.mailer.Send(ctx, msg)
	if err != nil {
		if errors.Is(err, email.ErrNotConfigured) {
			return nil, fmt.Errorf("%w: %v", ErrEmailNotConfigured, err)
		}
		s.logger.ErrorContext(ctx, "invoice delivery failed",
			"invoice_no", res.InvoiceNo, "provider", s.mailer.Provider(), "error", err)
		return nil, &DeliveryError{Recipient: to.Email, Err: err}
	}

	s.logger.InfoContext(ctx, "invoice sent",
		"invoice_no", res.InvoiceNo, "provider", receipt.Provider, "message_id", receipt.MessageID)
	return receipt, nil
}

// CanDeliver reports whether a mailer is configured.
func (s *Service) CanDeliver() bool {
	return s.mailer != nil
}

// EngineName reports which engine converts documents.
func (s *Service) EngineName() string {
	return s.converter.EngineName()
}

// Close releases the engine.
func (s *Service) Close() error {
	return s.converter.Close()
}

func recipient(rec InvoiceRecord, opts SendOptions) email.Address {
	to := email.Address{Name: rec.Customer.Name, Email: rec.Customer.Email}
	if opts.To != "" {
		to.Email = opts.To
	}
	if opts.Name != "" {
		to.Name = opts.Name
	}
	return to
}
