// Package config assembles the service configuration from defaults, an
// optional YAML file, a .env file and the environment. Flags are merged
// by the command on top of the result.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-invoice2pdf/internal/fileutil"
	"github.com/alnah/go-invoice2pdf/internal/yamlutil"
)

var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// Field length limits. Company fields end up on every invoice.
const (
	MaxNameLength    = 100
	MaxAddressLength = 300
	MaxPhoneLength   = 40
	MaxEmailLength   = 254 // RFC 5321
	MaxPortLength    = 5
	MaxKeyLength     = 512
)

// appDir names the directory searched under the user config dir.
const appDir = "go-invoice2pdf"

// Environment names.
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Config holds everything the service needs at startup.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Company CompanyConfig `yaml:"company"`
	Email   EmailConfig   `yaml:"email"`
	Render  RenderConfig  `yaml:"render"`
}

// ServerConfig defines the HTTP listener.
type ServerConfig struct {
	Port           string   `yaml:"port"`
	Env            string   `yaml:"env"`            // "development" or "production"
	RequestTimeout string   `yaml:"requestTimeout"` // Go duration, must exceed render.timeout
	MaxBodyBytes   int64    `yaml:"maxBodyBytes"`
	AllowedOrigins []string `yaml:"allowedOrigins"` // CORS; empty means "*"
}

// CompanyConfig provides defaults for company fields a request omits.
type CompanyConfig struct {
	Name    string `yaml:"name"`
	Address string `yaml:"address"`
	Phone   string `yaml:"phone"`
	Email   string `yaml:"email"`
}

// EmailConfig selects the delivery provider. An empty APIKey disables
// sending; rendering endpoints keep working.
type EmailConfig struct {
	Provider string `yaml:"provider"` // "sendgrid" or "resend"
	APIKey   string `yaml:"apiKey"`
	FromAddr string `yaml:"fromAddr"`
	FromName string `yaml:"fromName"`
}

// RenderConfig defines the conversion engine and page.
type RenderConfig struct {
	Engine      string  `yaml:"engine"`  // "chrome" or "text"
	Timeout     string  `yaml:"timeout"` // Go duration
	Workers     int     `yaml:"workers"` // 0 = auto
	PageSize    string  `yaml:"pageSize"`
	Orientation string  `yaml:"orientation"`
	Margin      float64 `yaml:"margin"` // inches
}

// DefaultConfig returns the values used when nothing else is set.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:           "3000",
			Env:            EnvDevelopment,
			RequestTimeout: "60s",
			MaxBodyBytes:   10 << 20,
		},
		Company: CompanyConfig{
			Name:    "Your Company",
			Address: "Your Address",
			Email:   "billing@yourcompany.com",
		},
		Email: EmailConfig{
			Provider: "sendgrid",
			FromAddr: "billing@yourcompany.com",
		},
		Render: RenderConfig{
			Engine:      "chrome",
			Timeout:     "30s",
			PageSize:    "a4",
			Orientation: "portrait",
			Margin:      0.5,
		},
	}
}

// Validate checks lengths, enumerations and durations. LoadConfig calls
// it; callers that build a Config by hand or merge flags call it again.
func (c *Config) Validate() error {
	var errs []error
	check := func(err error) {
		if err != nil {
			errs = append(errs, err)
		}
	}

	check(validateFieldLength("server.port", c.Server.Port, MaxPortLength))
	check(validateFieldLength("company.name", c.Company.Name, MaxNameLength))
	check(validateFieldLength("company.address", c.Company.Address, MaxAddressLength))
	check(validateFieldLength("company.phone", c.Company.Phone, MaxPhoneLength))
	check(validateFieldLength("company.email", c.Company.Email, MaxEmailLength))
	check(validateFieldLength("email.apiKey", c.Email.APIKey, MaxKeyLength))
	check(validateFieldLength("email.fromAddr", c.Email.FromAddr, MaxEmailLength))
	check(validateFieldLength("email.fromName", c.Email.FromName, MaxNameLength))

	check(validateOneOf("server.env", c.Server.Env, EnvDevelopment, EnvProduction))
	check(validateOneOf("email.provider", c.Email.Provider, "sendgrid", "resend"))
	check(validateOneOf("render.engine", c.Render.Engine, "chrome", "text"))
	check(validateOneOf("render.pageSize", c.Render.PageSize, "a4", "letter", "legal"))
	check(validateOneOf("render.orientation", c.Render.Orientation, "portrait", "landscape"))

	if c.Server.Port == "" {
		errs = append(errs, fmt.Errorf("%w: server.port is required", ErrInvalidValue))
	}
	if c.Server.MaxBodyBytes <= 0 {
		errs = append(errs, fmt.Errorf("%w: server.maxBodyBytes must be positive", ErrInvalidValue))
	}
	if c.Render.Workers < 0 {
		errs = append(errs, fmt.Errorf("%w: render.workers must not be negative, got %d", ErrInvalidValue, c.Render.Workers))
	}
	if c.Render.Margin < 0.25 || c.Render.Margin > 3.0 {
		errs = append(errs, fmt.Errorf("%w: render.margin must be between 0.25 and 3.0, got %.2f", ErrInvalidValue, c.Render.Margin))
	}

	render, err := parseDuration("render.timeout", c.Render.Timeout)
	check(err)
	request, err := parseDuration("server.requestTimeout", c.Server.RequestTimeout)
	check(err)
	if render > 0 && request > 0 && request <= render {
		errs = append(errs, fmt.Errorf("%w: server.requestTimeout (%s) must exceed render.timeout (%s)", ErrInvalidValue, request, render))
	}

	return errors.Join(errs...)
}

// RenderTimeout returns render.timeout. Only meaningful after Validate.
func (c *Config) RenderTimeout() time.Duration {
	d, _ := time.ParseDuration(c.Render.Timeout)
	return d
}

// RequestTimeout returns server.requestTimeout. Only meaningful after Validate.
func (c *Config) RequestTimeout() time.Duration {
	d, _ := time.ParseDuration(c.Server.RequestTimeout)
	return d
}

// IsProduction reports whether server.env is production.
func (c *Config) IsProduction() bool {
	return c.Server.Env == EnvProduction
}

// Redacted returns a copy safe to print: the API key is masked.
func (c *Config) Redacted() *Config {
	out := *c
	out.Server.AllowedOrigins = append([]string(nil), c.Server.AllowedOrigins...)
	if out.Email.APIKey != "" {
		out.Email.APIKey = "********"
	}
	return &out
}

// Marshal renders the redacted config as YAML.
func (c *Config) Marshal() ([]byte, error) {
	return yamlutil.Encode(c.Redacted())
}

func validateFieldLength(field, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, field, len(value), maxLength)
	}
	return nil
}

func validateOneOf(field, value string, allowed ...string) error {
	for _, a := range allowed {
		if strings.EqualFold(value, a) {
			return nil
		}
	}
	return fmt.Errorf("%w: %s %q (must be one of %s)", ErrInvalidValue, field, value, strings.Join(allowed, ", "))
}

func parseDuration(field, value string) (time.Duration, error) {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%w: %s %q is not a duration", ErrInvalidValue, field, value)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%w: %s must be positive, got %s", ErrInvalidValue, field, d)
	}
	return d, nil
}

// LoadConfig reads a YAML file on top of DefaultConfig. A value with a
// path separator is a file path; anything else is a name searched as
// <name>.yaml or <name>.yml in the working directory, then in the user
// config directory. A missing file is an error, never a silent fallback.
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	path := nameOrPath
	if !fileutil.IsFilePath(nameOrPath) {
		var err error
		if path, err = resolveConfigPath(nameOrPath); err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(path) // #nosec G304 -- operator-provided config path
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yamlutil.DecodeStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrConfigParse, path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SearchPaths lists where a config name is looked up, in order.
func SearchPaths(name string) []string {
	exts := []string{".yaml", ".yml"}
	paths := make([]string, 0, len(exts)*2)
	for _, ext := range exts {
		paths = append(paths, name+ext)
	}
	if dir, err := os.UserConfigDir(); err == nil {
		for _, ext := range exts {
			paths = append(paths, filepath.Join(dir, appDir, name+ext))
		}
	}
	return paths
}

func resolveConfigPath(name string) (string, error) {
	paths := SearchPaths(name)
	for _, p := range paths {
		if fileutil.FileExists(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(paths, ", "))
}
