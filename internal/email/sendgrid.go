package email

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

const (
	sendgridHost     = "https://api.sendgrid.com"
	sendgridEndpoint = "/v3/mail/send"
)

type sendgridSender struct {
	apiKey  string
	host    string
	timeout time.Duration
}

func newSendGridSender(cfg Config) *sendgridSender {
	host := cfg.BaseURL
	if host == "" {
		host = sendgridHost
	}
	return &sendgridSender{apiKey: cfg.APIKey, host: host, timeout: cfg.Timeout}
}

func (s *sendgridSender) Provider() string { return ProviderSendGrid }

// Send posts msg to the v3 mail endpoint. SendGrid answers 202 with an
// empty body and the id in X-Message-Id.
func (s *sendgridSender) Send(ctx context.Context, msg Message) (*Receipt, error) {
	if err := msg.Validate(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	req := sendgrid.GetRequest(s.apiKey, sendgridEndpoint, s.host)
	req.Method = rest.Post
	req.Body = mail.GetRequestBody(buildSendGridMail(msg))

	resp, err := sendgrid.MakeRequestWithContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("%w: sendgrid: %v", ErrTransport, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &ProviderError{Provider: ProviderSendGrid, StatusCode: resp.StatusCode, Detail: truncate(resp.Body)}
	}

	var id string
	if ids := resp.Headers["X-Message-Id"]; len(ids) > 0 {
		id = ids[0]
	}
	return &Receipt{Provider: ProviderSendGrid, MessageID: id, StatusCode: resp.StatusCode}, nil
}

func buildSendGridMail(msg Message) *mail.SGMailV3 {
	m := mail.NewV3Mail()
	m.SetFrom(mail.NewEmail(msg.From.Name, msg.From.Email))
	m.Subject = msg.Subject

	p := mail.NewPersonalization()
	p.AddTos(mail.NewEmail(msg.To.Name, msg.To.Email))
	m.AddPersonalizations(p)

	// SendGrid requires text/plain before text/html.
	if msg.Text != "" {
		m.AddContent(mail.NewContent("text/plain", msg.Text))
	}
	if msg.HTML != "" {
		m.AddContent(mail.NewContent("text/html", msg.HTML))
	}

	for _, a := range msg.Attachments {
		att := mail.NewAttachment()
		att.SetContent(base64.StdEncoding.EncodeToString(a.Content))
		att.SetType(a.ContentType)
		att.SetFilename(a.Filename)
		att.SetDisposition("attachment")
		m.AddAttachment(att)
	}
	return m
}
