package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"go.uber.org/automaxprocs/maxprocs"

	invoice2pdf "github.com/alnah/go-invoice2pdf"
	"github.com/alnah/go-invoice2pdf/internal/api"
	"github.com/alnah/go-invoice2pdf/internal/config"
	"github.com/alnah/go-invoice2pdf/internal/logging"
)

// ErrListen means the port could not be bound.
var ErrListen = errors.New("cannot listen")

const (
	readHeaderTimeout = 10 * time.Second
	readTimeout       = 30 * time.Second
	idleTimeout       = 120 * time.Second
	shutdownTimeout   = 20 * time.Second
)

// runServe starts the HTTP API and blocks until ctx is canceled or the
// listener fails. In-flight requests get shutdownTimeout to finish.
func runServe(ctx context.Context, args []string, deps *Dependencies) error {
	flags, parsed, err := parseServeFlags(args)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(flags.common, deps, func(c *config.Config) {
		flags.apply(c, parsed.changed)
	})
	if err != nil {
		return err
	}

	logger := logging.New(cfg.IsProduction(), deps.Stderr, flags.common.verbose)

	// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
	// in which case Go runtime defaults apply and the program continues safely.
	_, _ = maxprocs.Set(maxprocs.Logger(func(format string, args ...any) {
		logger.Debug(fmt.Sprintf(format, args...))
	}))

	svc, err := newService(cfg, logger, true)
	if err != nil {
		return err
	}
	defer func() {
		if err := svc.Close(); err != nil {
			logger.Warn("closing engine", "error", err)
		}
	}()

	handler := api.NewServer(svc, api.Config{
		Version:        Version,
		Production:     cfg.IsProduction(),
		MaxBodyBytes:   cfg.Server.MaxBodyBytes,
		RequestTimeout: cfg.RequestTimeout(),
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Company:        defaultCompany(cfg),
		BatchWorkers:   invoice2pdf.ResolvePoolSize(cfg.Render.Workers),
		Now:            deps.Now,
	}, logger)

	// No WriteTimeout: a batch may legitimately run longer than any single
	// render. Single-invoice routes carry their own request deadline.
	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: readHeaderTimeout,
		ReadTimeout:       readTimeout,
		IdleTimeout:       idleTimeout,
		ErrorLog:          slog.NewLogLogger(logger.Handler(), slog.LevelWarn),
	}

	ln, err := net.Listen("tcp", ":"+cfg.Server.Port)
	if err != nil {
		return fmt.Errorf("%w on port %s: %v", ErrListen, cfg.Server.Port, err)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()
	logger.Info("server started",
		"addr", ln.Addr().String(),
		"env", cfg.Server.Env,
		"engine", svc.EngineName(),
		"email", svc.CanDeliver(),
		"version", Version,
	)

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serving: %w", err)
		}
		return nil
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	logger.Info("server stopped")
	return nil
}
