package main

// Notes:
// - loadConfig: we test precedence (defaults < file < env < flags), the
//   INVOICE2PDF_CONFIG fallback, unknown-variable warnings and that
//   errors keep their sentinels. The .env step is disabled (envFile "")
//   since it writes the process environment; config.LoadDotEnv has its
//   own tests.
// - newEngine/newService: we test engine selection and that a missing
//   key disables delivery instead of failing. No browser is started:
//   the pool creates engines lazily.
// These are acceptable gaps: we test observable behavior, not implementation details.

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	invoice2pdf "github.com/alnah/go-invoice2pdf"
	"github.com/alnah/go-invoice2pdf/internal/config"
	"github.com/alnah/go-invoice2pdf/internal/email"
	"github.com/alnah/go-invoice2pdf/internal/logging"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "invoice2pdf.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

const fileConfig = `server:
  port: "4000"
company:
  name: Acme Studio
render:
  engine: text
`

// ---------------------------------------------------------------------------
// TestLoadConfig - Precedence
// ---------------------------------------------------------------------------

func TestLoadConfig(t *testing.T) {
	t.Parallel()

	path := writeConfigFile(t, fileConfig)

	tests := []struct {
		name        string
		common      commonFlags
		env         map[string]string
		flags       func(*config.Config)
		wantPort    string
		wantEngine  string
		wantCompany string
	}{
		{
			name:        "defaults",
			wantPort:    "3000",
			wantEngine:  "chrome",
			wantCompany: "Your Company",
		},
		{
			name:        "file over defaults",
			common:      commonFlags{config: path},
			wantPort:    "4000",
			wantEngine:  "text",
			wantCompany: "Acme Studio",
		},
		{
			name:        "config from environment",
			env:         map[string]string{config.EnvConfig: path},
			wantPort:    "4000",
			wantEngine:  "text",
			wantCompany: "Acme Studio",
		},
		{
			name:        "env over file",
			common:      commonFlags{config: path},
			env:         map[string]string{"PORT": "5000", config.EnvCompanyName: "Env Co"},
			wantPort:    "5000",
			wantEngine:  "text",
			wantCompany: "Env Co",
		},
		{
			name:        "flags over env",
			common:      commonFlags{config: path},
			env:         map[string]string{"PORT": "5000"},
			wantPort:    "6000",
			wantEngine:  "chrome",
			wantCompany: "Acme Studio",
			flags: func(c *config.Config) {
				c.Server.Port = "6000"
				c.Render.Engine = "chrome"
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			deps := newTestDeps(t, tt.env)
			cfg, err := loadConfig(tt.common, deps.Dependencies, tt.flags)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if cfg.Server.Port != tt.wantPort {
				t.Errorf("Port = %q, want %q", cfg.Server.Port, tt.wantPort)
			}
			if cfg.Render.Engine != tt.wantEngine {
				t.Errorf("Engine = %q, want %q", cfg.Render.Engine, tt.wantEngine)
			}
			if cfg.Company.Name != tt.wantCompany {
				t.Errorf("Company.Name = %q, want %q", cfg.Company.Name, tt.wantCompany)
			}
		})
	}
}

func TestLoadConfig_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		common   commonFlags
		env      map[string]string
		flags    func(*config.Config)
		wantErr  error
		wantText string
	}{
		{
			name:     "missing named config gets a hint",
			common:   commonFlags{config: "no-such-invoice2pdf-config"},
			wantErr:  config.ErrConfigNotFound,
			wantText: "hint: use --config",
		},
		{
			name:    "missing config path",
			common:  commonFlags{config: filepath.Join(t.TempDir(), "absent.yaml")},
			wantErr: config.ErrConfigNotFound,
		},
		{
			name:    "invalid env",
			env:     map[string]string{config.EnvWorkers: "many"},
			wantErr: config.ErrInvalidEnv,
		},
		{
			name:    "invalid flag value",
			flags:   func(c *config.Config) { c.Render.Margin = 5 },
			wantErr: config.ErrInvalidValue,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			deps := newTestDeps(t, tt.env)
			_, err := loadConfig(tt.common, deps.Dependencies, tt.flags)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantText != "" && !strings.Contains(err.Error(), tt.wantText) {
				t.Errorf("error %q should contain %q", err, tt.wantText)
			}
		})
	}
}

func TestLoadConfig_WarnsOnUnknownEnv(t *testing.T) {
	t.Parallel()

	deps := newTestDeps(t, map[string]string{"INVOICE2PDF_PROT": "8080"})
	if _, err := loadConfig(commonFlags{}, deps.Dependencies, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(deps.stderr.String(), "INVOICE2PDF_PROT") {
		t.Errorf("stderr should warn about INVOICE2PDF_PROT, got %q", deps.stderr)
	}
}

// ---------------------------------------------------------------------------
// TestNewEngine - Engine selection
// ---------------------------------------------------------------------------

func TestNewEngine(t *testing.T) {
	t.Parallel()

	t.Run("text", func(t *testing.T) {
		t.Parallel()

		cfg := config.DefaultConfig()
		cfg.Render.Engine = "TEXT"
		if _, ok := newEngine(cfg).(invoice2pdf.TextEngine); !ok {
			t.Error("want TextEngine")
		}
	})

	t.Run("chrome pool sized from workers", func(t *testing.T) {
		t.Parallel()

		cfg := config.DefaultConfig()
		cfg.Render.Workers = 3
		engine := newEngine(cfg)
		defer func() { _ = engine.Close() }()

		pool, ok := engine.(*invoice2pdf.EnginePool)
		if !ok {
			t.Fatalf("engine = %T, want *EnginePool", engine)
		}
		if pool.Size() != 3 || pool.Name() != invoice2pdf.EngineChrome {
			t.Errorf("pool = %s/%d, want chrome/3", pool.Name(), pool.Size())
		}
	})
}

func TestPageSettings(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultConfig()
	cfg.Render.PageSize = "Letter"
	cfg.Render.Orientation = "LANDSCAPE"
	cfg.Render.Margin = 1

	got := pageSettings(cfg)
	if got.Size != invoice2pdf.PageSizeLetter || got.Orientation != invoice2pdf.OrientationLandscape || got.Margin != 1 {
		t.Errorf("pageSettings = %+v", got)
	}
	if err := got.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

// ---------------------------------------------------------------------------
// TestNewService - Mail wiring
// ---------------------------------------------------------------------------

func TestNewService(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		provider    string
		apiKey      string
		mail        bool
		wantDeliver bool
		wantWarn    bool
		wantErr     error
	}{
		{name: "no key disables delivery", provider: "sendgrid", mail: true, wantWarn: true},
		{name: "sendgrid key", provider: "sendgrid", apiKey: "SG.test", mail: true, wantDeliver: true},
		{name: "resend key", provider: "resend", apiKey: "re_test", mail: true, wantDeliver: true},
		{name: "mail not requested", provider: "sendgrid", apiKey: "SG.test"},
		{name: "unknown provider", provider: "mailgun", apiKey: "key", mail: true, wantErr: email.ErrUnknownProvider},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := config.DefaultConfig()
			cfg.Render.Engine = "text"
			cfg.Email.Provider = tt.provider
			cfg.Email.APIKey = tt.apiKey

			var logs bytes.Buffer
			svc, err := newService(cfg, logging.New(false, &logs, false), tt.mail)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			defer func() { _ = svc.Close() }()

			if svc.CanDeliver() != tt.wantDeliver {
				t.Errorf("CanDeliver() = %v, want %v", svc.CanDeliver(), tt.wantDeliver)
			}
			if svc.EngineName() != invoice2pdf.EngineText {
				t.Errorf("EngineName() = %q, want text", svc.EngineName())
			}
			if got := strings.Contains(logs.String(), "email delivery disabled"); got != tt.wantWarn {
				t.Errorf("warning logged = %v, want %v; logs: %s", got, tt.wantWarn, logs.String())
			}
		})
	}
}
