package invoice2pdf

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/alnah/go-invoice2pdf/internal/email"
)

// Shared fakes for package tests.

var _ Engine = (*fakeEngine)(nil)

type fakeEngine struct {
	name     string
	output   []byte
	err      error
	panicMsg string
	delay    time.Duration // waits for ctx when set
	deaf     bool          // sleeps through delay, ignoring ctx

	mu         sync.Mutex
	calls      int
	lastMarkup string
	lastOpts   *RenderOptions
	closed     bool
}

func (f *fakeEngine) Render(ctx context.Context, markup string, opts *RenderOptions) ([]byte, error) {
	f.mu.Lock()
	f.calls++
	f.lastMarkup = markup
	f.lastOpts = opts
	f.mu.Unlock()

	if f.delay > 0 && f.deaf {
		time.Sleep(f.delay)
	} else if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.panicMsg != "" {
		panic(f.panicMsg)
	}
	if f.err != nil {
		return nil, f.err
	}
	if f.output != nil {
		return f.output, nil
	}
	return []byte("%PDF-1.4 fake"), nil
}

func (f *fakeEngine) Name() string {
	if f.name == "" {
		return "fake"
	}
	return f.name
}

func (f *fakeEngine) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeEngine) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

var _ email.Sender = (*fakeSender)(nil)

type fakeSender struct {
	err error

	mu   sync.Mutex
	sent []email.Message
}

func (s *fakeSender) Send(_ context.Context, msg email.Message) (*email.Receipt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	s.sent = append(s.sent, msg)
	return &email.Receipt{Provider: "fake", MessageID: "msg-1", StatusCode: 202}, nil
}

func (s *fakeSender) Provider() string { return "fake" }

func (s *fakeSender) messages() []email.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]email.Message(nil), s.sent...)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// webDevRecord is the canonical one-item invoice: 25000 at 18% tax.
func webDevRecord() InvoiceRecord {
	return InvoiceRecord{
		InvoiceNo: "INV-001",
		Date:      "2025-01-15",
		Customer: Customer{
			Name:    "Jane Doe",
			Email:   "jane@example.com",
			Address: "42 Market Street, Pune",
		},
		Items: []LineItem{
			{Name: "Web Development", Qty: dec("1"), Price: dec("25000")},
		},
		TaxPercent: dec("18"),
		Company:    DefaultCompany(),
	}
}
