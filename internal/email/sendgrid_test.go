package email_test

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alnah/go-invoice2pdf/internal/email"
)

// sendgridPayload is the subset of the v3 mail body the tests inspect.
type sendgridPayload struct {
	From struct {
		Email string `json:"email"`
	} `json:"from"`
	Subject          string `json:"subject"`
	Personalizations []struct {
		To []struct {
			Name  string `json:"name"`
			Email string `json:"email"`
		} `json:"to"`
	} `json:"personalizations"`
	Content []struct {
		Type  string `json:"type"`
		Value string `json:"value"`
	} `json:"content"`
	Attachments []struct {
		Content     string `json:"content"`
		Type        string `json:"type"`
		Filename    string `json:"filename"`
		Disposition string `json:"disposition"`
	} `json:"attachments"`
}

// ---------------------------------------------------------------------------
// TestSendGrid_Send - Request shape and receipt
// ---------------------------------------------------------------------------

func TestSendGrid_Send(t *testing.T) {
	t.Parallel()

	var (
		gotAuth    string
		gotPath    string
		gotPayload sendgridPayload
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &gotPayload)
		w.Header().Set("X-Message-Id", "sg-123")
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	sender, err := email.New(email.Config{Provider: email.ProviderSendGrid, APIKey: "SG.test", BaseURL: srv.URL})
	if err != nil {
		t.Fatal(err)
	}

	receipt, err := sender.Send(context.Background(), validMessage())
	if err != nil {
		t.Fatalf("Send() error: %v", err)
	}

	if receipt.MessageID != "sg-123" || receipt.StatusCode != http.StatusAccepted {
		t.Errorf("receipt = %+v", receipt)
	}
	if gotAuth != "Bearer SG.test" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if gotPath != "/v3/mail/send" {
		t.Errorf("path = %q", gotPath)
	}
	if gotPayload.Subject != "Invoice INV-1" || gotPayload.From.Email != "billing@acme.test" {
		t.Errorf("payload = %+v", gotPayload)
	}
	if len(gotPayload.Personalizations) != 1 || gotPayload.Personalizations[0].To[0].Email != "jane@example.com" {
		t.Errorf("personalizations = %+v", gotPayload.Personalizations)
	}
	if len(gotPayload.Content) == 0 || gotPayload.Content[0].Type != "text/plain" {
		t.Errorf("content = %+v, text/plain must come first", gotPayload.Content)
	}
	if len(gotPayload.Attachments) != 1 {
		t.Fatalf("attachments = %d, want 1", len(gotPayload.Attachments))
	}
	att := gotPayload.Attachments[0]
	decoded, _ := base64.StdEncoding.DecodeString(att.Content)
	if string(decoded) != "%PDF-" || att.Type != "application/pdf" || att.Filename != "Invoice-INV-1.pdf" || att.Disposition != "attachment" {
		t.Errorf("attachment = %+v", att)
	}
}

func TestSendGrid_Send_Rejected(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"errors":[{"message":"The provided authorization grant is invalid"}]}`)
	}))
	defer srv.Close()

	sender, err := email.New(email.Config{APIKey: "SG.bad", BaseURL: srv.URL})
	if err != nil {
		t.Fatal(err)
	}

	_, err = sender.Send(context.Background(), validMessage())
	if !errors.Is(err, email.ErrRejected) {
		t.Fatalf("Send() error = %v, want ErrRejected", err)
	}
	var pe *email.ProviderError
	if !errors.As(err, &pe) || pe.StatusCode != http.StatusUnauthorized {
		t.Errorf("error should carry status 401, got %v", err)
	}
}

func TestSendGrid_Send_InvalidMessage(t *testing.T) {
	t.Parallel()

	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		called = true
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	sender, _ := email.New(email.Config{APIKey: "k", BaseURL: srv.URL})
	msg := validMessage()
	msg.To.Email = ""

	if _, err := sender.Send(context.Background(), msg); !errors.Is(err, email.ErrInvalidMessage) {
		t.Fatalf("Send() error = %v, want ErrInvalidMessage", err)
	}
	if called {
		t.Error("invalid message must not reach the provider")
	}
}

func TestSendGrid_Send_Transport(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	sender, _ := email.New(email.Config{APIKey: "k", BaseURL: url})
	if _, err := sender.Send(context.Background(), validMessage()); !errors.Is(err, email.ErrTransport) {
		t.Fatalf("Send() error = %v, want ErrTransport", err)
	}
}
