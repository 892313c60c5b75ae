// Package email delivers rendered invoices through a transactional email
// provider. SendGrid goes through its official client, Resend through
// its JSON API. Both sit behind Sender so handlers and tests never touch
// the network directly.
package email

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"
)

// Provider names accepted in configuration.
const (
	ProviderSendGrid = "sendgrid"
	ProviderResend   = "resend"
)

const defaultSendTimeout = 15 * time.Second

var (
	// ErrNotConfigured means no API key was supplied. Callers check it
	// before doing any work that only makes sense if mail can go out.
	ErrNotConfigured   = errors.New("email: provider API key not configured")
	ErrUnknownProvider = errors.New("email: unknown provider")
	ErrInvalidMessage  = errors.New("email: invalid message")
	ErrRejected        = errors.New("email: provider rejected message")
	ErrTransport       = errors.New("email: transport failure")
)

// Address is a mailbox with an optional display name.
type Address struct {
	Name  string
	Email string
}

// String formats the address for a From or To header.
func (a Address) String() string {
	return (&mail.Address{Name: a.Name, Address: a.Email}).String()
}

// Attachment is a file carried by a Message. Content is raw bytes;
// providers encode it as they require.
type Attachment struct {
	Filename    string
	ContentType string
	Content     []byte
}

// Message is one outgoing email.
type Message struct {
	From        Address
	To          Address
	Subject     string
	Text        string
	HTML        string
	Attachments []Attachment
}

// Validate checks the fields every provider needs.
func (m Message) Validate() error {
	switch {
	case m.From.Email == "":
		return fmt.Errorf("%w: missing sender", ErrInvalidMessage)
	case m.To.Email == "":
		return fmt.Errorf("%w: missing recipient", ErrInvalidMessage)
	case m.Subject == "":
		return fmt.Errorf("%w: missing subject", ErrInvalidMessage)
	case m.Text == "" && m.HTML == "":
		return fmt.Errorf("%w: missing body", ErrInvalidMessage)
	}
	for _, a := range m.Attachments {
		if a.Filename == "" || len(a.Content) == 0 {
			return fmt.Errorf("%w: attachment needs a filename and content", ErrInvalidMessage)
		}
	}
	return nil
}

// Receipt is what a provider returns for an accepted message.
type Receipt struct {
	Provider   string
	MessageID  string
	StatusCode int
}

// Sender delivers messages.
type Sender interface {
	Send(ctx context.Context, msg Message) (*Receipt, error)
	Provider() string
}

// ProviderError carries a non-2xx provider answer. It matches ErrRejected.
type ProviderError struct {
	Provider   string
	StatusCode int
	Detail     string
}

func (e *ProviderError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("email: %s returned status %d", e.Provider, e.StatusCode)
	}
	return fmt.Sprintf("email: %s returned status %d: %s", e.Provider, e.StatusCode, e.Detail)
}

func (e *ProviderError) Is(target error) bool { return target == ErrRejected }

// maxDetail bounds how much of a provider body ends up in an error.
const maxDetail = 300

func truncate(s string) string {
	s = strings.TrimSpace(s)
	if len(s) <= maxDetail {
		return s
	}
	return s[:maxDetail] + "..."
}

// Config selects and authenticates a provider.
type Config struct {
	Provider string
	APIKey   string
	Timeout  time.Duration

	// BaseURL overrides the provider endpoint host. Empty means production.
	BaseURL string
}

// New returns the Sender for cfg.Provider. An empty APIKey yields
// ErrNotConfigured so callers can decide to run without delivery.
func New(cfg Config) (Sender, error) {
	if cfg.APIKey == "" {
		return nil, ErrNotConfigured
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultSendTimeout
	}
	switch strings.ToLower(cfg.Provider) {
	case "", ProviderSendGrid:
		return newSendGridSender(cfg), nil
	case ProviderResend:
		return newResendSender(cfg), nil
	default:
		return nil, fmt.Errorf("%w: %q (must be %s or %s)", ErrUnknownProvider, cfg.Provider, ProviderSendGrid, ProviderResend)
	}
}
