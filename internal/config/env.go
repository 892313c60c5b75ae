package config

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"
)

// EnvPrefix marks the variables this service owns.
const EnvPrefix = "INVOICE2PDF_"

// Recognized variables. Provider keys and PORT keep the names hosting
// platforms and the SendGrid/Resend docs already use.
const (
	EnvConfig         = "INVOICE2PDF_CONFIG"
	EnvPort           = "INVOICE2PDF_PORT"
	EnvEnv            = "INVOICE2PDF_ENV"
	EnvRequestTimeout = "INVOICE2PDF_REQUEST_TIMEOUT"
	EnvEngine         = "INVOICE2PDF_ENGINE"
	EnvTimeout        = "INVOICE2PDF_TIMEOUT"
	EnvWorkers        = "INVOICE2PDF_WORKERS"
	EnvPageSize       = "INVOICE2PDF_PAGE_SIZE"
	EnvEmailProvider  = "INVOICE2PDF_EMAIL_PROVIDER"
	EnvFromName       = "INVOICE2PDF_FROM_NAME"
	EnvCompanyName    = "INVOICE2PDF_COMPANY_NAME"
	EnvCompanyAddress = "INVOICE2PDF_COMPANY_ADDRESS"
	EnvCompanyPhone   = "INVOICE2PDF_COMPANY_PHONE"
	EnvCompanyEmail   = "INVOICE2PDF_COMPANY_EMAIL"

	EnvPlatformPort = "PORT"
	EnvPlatformEnv  = "ENV"
	EnvSendGridKey  = "SENDGRID_API_KEY"
	EnvResendKey    = "RESEND_API_KEY"
	EnvFromEmail    = "FROM_EMAIL"
)

var ErrInvalidEnv = errors.New("invalid environment variable")

// knownEnvVars lists the INVOICE2PDF_* names, to catch typos.
var knownEnvVars = map[string]bool{
	EnvConfig: true, EnvPort: true, EnvEnv: true, EnvRequestTimeout: true,
	EnvEngine: true, EnvTimeout: true, EnvWorkers: true, EnvPageSize: true,
	EnvEmailProvider: true, EnvFromName: true,
	EnvCompanyName: true, EnvCompanyAddress: true, EnvCompanyPhone: true, EnvCompanyEmail: true,
}

// ApplyEnv overlays set variables onto cfg, so env wins over the file.
// getenv is os.Getenv in production.
func ApplyEnv(cfg *Config, getenv func(string) string) error {
	str := func(dst *string, names ...string) {
		for _, name := range names {
			if v := strings.TrimSpace(getenv(name)); v != "" {
				*dst = v
				return
			}
		}
	}

	str(&cfg.Server.Port, EnvPort, EnvPlatformPort)
	str(&cfg.Server.Env, EnvEnv, EnvPlatformEnv)
	str(&cfg.Server.RequestTimeout, EnvRequestTimeout)
	str(&cfg.Render.Engine, EnvEngine)
	str(&cfg.Render.Timeout, EnvTimeout)
	str(&cfg.Render.PageSize, EnvPageSize)
	str(&cfg.Email.Provider, EnvEmailProvider)
	str(&cfg.Email.FromAddr, EnvFromEmail)
	str(&cfg.Email.FromName, EnvFromName)
	str(&cfg.Company.Name, EnvCompanyName)
	str(&cfg.Company.Address, EnvCompanyAddress)
	str(&cfg.Company.Phone, EnvCompanyPhone)
	str(&cfg.Company.Email, EnvCompanyEmail)

	// The key follows the provider; a lone RESEND_API_KEY selects Resend.
	sendgridKey := getenv(EnvSendGridKey)
	resendKey := getenv(EnvResendKey)
	switch {
	case strings.EqualFold(cfg.Email.Provider, "resend") && resendKey != "":
		cfg.Email.APIKey = resendKey
	case sendgridKey != "" && !strings.EqualFold(cfg.Email.Provider, "resend"):
		cfg.Email.APIKey = sendgridKey
	case resendKey != "" && sendgridKey == "" && getenv(EnvEmailProvider) == "":
		cfg.Email.Provider = "resend"
		cfg.Email.APIKey = resendKey
	}

	if v := getenv(EnvWorkers); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return fmt.Errorf("%w: %s=%q (must be a non-negative integer)", ErrInvalidEnv, EnvWorkers, v)
		}
		cfg.Render.Workers = n
	}
	for _, name := range []string{EnvTimeout, EnvRequestTimeout} {
		if v := getenv(name); v != "" {
			if _, err := time.ParseDuration(v); err != nil {
				return fmt.Errorf("%w: %s=%q (must be a duration like 45s)", ErrInvalidEnv, name, v)
			}
		}
	}
	return nil
}

// UnknownEnvVars returns INVOICE2PDF_* names in environ that this
// service does not read, sorted.
func UnknownEnvVars(environ []string) []string {
	var unknown []string
	for _, kv := range environ {
		name, _, _ := strings.Cut(kv, "=")
		if strings.HasPrefix(name, EnvPrefix) && !knownEnvVars[name] {
			unknown = append(unknown, name)
		}
	}
	sort.Strings(unknown)
	return unknown
}

// LoadDotEnv sets KEY=value pairs from path for keys not already in the
// environment. A missing file is not an error. Blank lines and #
// comments are skipped; surrounding quotes on values are stripped.
// It returns the keys it set.
func LoadDotEnv(path string) ([]string, error) {
	f, err := os.Open(path) // #nosec G304 -- fixed name in working directory
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	var set []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimPrefix(line, "export ")
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = unquote(strings.TrimSpace(value))
		if _, exists := os.LookupEnv(key); exists || key == "" {
			continue
		}
		if err := os.Setenv(key, value); err != nil {
			return set, fmt.Errorf("setting %s from %s: %w", key, path, err)
		}
		set = append(set, key)
	}
	if err := scanner.Err(); err != nil {
		return set, fmt.Errorf("reading %s: %w", path, err)
	}
	return set, nil
}

func unquote(v string) string {
	if len(v) >= 2 && (v[0] == '"' && v[len(v)-1] == '"' || v[0] == '\'' && v[len(v)-1] == '\'') {
		return v[1 : len(v)-1]
	}
	return v
}
