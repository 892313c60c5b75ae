package main

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	invoice2pdf "github.com/alnah/go-invoice2pdf"
	"github.com/alnah/go-invoice2pdf/internal/config"
	"github.com/alnah/go-invoice2pdf/internal/email"
	"github.com/alnah/go-invoice2pdf/internal/fileutil"
	"github.com/alnah/go-invoice2pdf/internal/hints"
)

// loadConfig builds the effective configuration. Precedence, lowest
// first: defaults, YAML file, .env and environment, flags.
func loadConfig(common commonFlags, deps *Dependencies, applyFlags func(*config.Config)) (*config.Config, error) {
	if common.envFile != "" {
		if _, err := config.LoadDotEnv(common.envFile); err != nil {
			return nil, err
		}
	}

	name := common.config
	if name == "" {
		name = deps.Getenv(config.EnvConfig)
	}

	cfg := config.DefaultConfig()
	if name != "" {
		loaded, err := config.LoadConfig(name)
		if err != nil {
			if errors.Is(err, config.ErrConfigNotFound) && !fileutil.IsFilePath(name) {
				return nil, fmt.Errorf("%w%s", err, hints.ForConfigNotFound(config.SearchPaths(name)))
			}
			return nil, err
		}
		cfg = loaded
	}

	if err := config.ApplyEnv(cfg, deps.Getenv); err != nil {
		return nil, err
	}
	for _, v := range config.UnknownEnvVars(deps.Environ()) {
		fmt.Fprintf(deps.Stderr, "warning: unknown environment variable %s (ignored)\n", v)
	}

	if applyFlags != nil {
		applyFlags(cfg)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newEngine returns the text engine, or a lazily filled pool of Chrome
// engines sized from render.workers.
func newEngine(cfg *config.Config) invoice2pdf.Engine {
	if strings.EqualFold(cfg.Render.Engine, invoice2pdf.EngineText) {
		return invoice2pdf.TextEngine{}
	}
	timeout := cfg.RenderTimeout()
	size := invoice2pdf.ResolvePoolSize(cfg.Render.Workers)
	return invoice2pdf.NewEnginePool(size, invoice2pdf.EngineChrome, func() invoice2pdf.Engine {
		return invoice2pdf.NewChromeEngine(timeout)
	})
}

func pageSettings(cfg *config.Config) *invoice2pdf.PageSettings {
	return &invoice2pdf.PageSettings{
		Size:        strings.ToLower(cfg.Render.PageSize),
		Orientation: strings.ToLower(cfg.Render.Orientation),
		Margin:      cfg.Render.Margin,
	}
}

func defaultCompany(cfg *config.Config) invoice2pdf.Company {
	return invoice2pdf.Company{
		Name:    cfg.Company.Name,
		Address: cfg.Company.Address,
		Phone:   cfg.Company.Phone,
		Email:   cfg.Company.Email,
	}
}

// newService assembles the pipeline. With mail set, a configured
// provider is attached; a missing key only disables delivery.
func newService(cfg *config.Config, logger *slog.Logger, mail bool) (*invoice2pdf.Service, error) {
	opts := []invoice2pdf.Option{
		invoice2pdf.WithEngine(newEngine(cfg)),
		invoice2pdf.WithTimeout(cfg.RenderTimeout()),
		invoice2pdf.WithPageSettings(pageSettings(cfg)),
		invoice2pdf.WithLogger(logger),
	}

	if mail {
		sender, err := email.New(email.Config{
			Provider: cfg.Email.Provider,
			APIKey:   cfg.Email.APIKey,
		})
		switch {
		case errors.Is(err, email.ErrNotConfigured):
			logger.Warn("email delivery disabled",
				"hint", strings.TrimPrefix(hints.ForEmailNotConfigured(cfg.Email.Provider), "\n  hint: "))
		case err != nil:
			return nil, err
		default:
			from := email.Address{Name: cfg.Email.FromName, Email: cfg.Email.FromAddr}
			opts = append(opts, invoice2pdf.WithMailer(sender, from))
		}
	}

	return invoice2pdf.New(opts...)
}
