package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	invoice2pdf "github.com/alnah/go-invoice2pdf"
	"github.com/alnah/go-invoice2pdf/internal/config"
	"github.com/alnah/go-invoice2pdf/internal/fileutil"
	"github.com/alnah/go-invoice2pdf/internal/hints"
	"github.com/alnah/go-invoice2pdf/internal/logging"
	"github.com/alnah/go-invoice2pdf/internal/validate"
)

var (
	ErrReadInput   = errors.New("failed to read invoice file")
	ErrWriteOutput = errors.New("failed to write output")
)

// runRender converts one invoice JSON file offline, through the same
// validation and pipeline as the HTTP API.
func runRender(ctx context.Context, args []string, deps *Dependencies) error {
	flags, parsed, err := parseRenderFlags(args)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(flags.common, deps, func(c *config.Config) {
		flags.engine.apply(c, parsed.changed)
	})
	if err != nil {
		return err
	}
	logger := logging.New(false, deps.Stderr, flags.common.verbose)

	input := parsed.args[0]
	data, err := os.ReadFile(input) // #nosec G304 -- user-provided input path
	if err != nil {
		return fmt.Errorf("%w: %v", ErrReadInput, err)
	}
	rec, err := validate.Invoice(data, defaultCompany(cfg))
	if err != nil {
		return fmt.Errorf("%s: %w", input, err)
	}

	svc, err := newService(cfg, logger, false)
	if err != nil {
		return err
	}
	defer func() { _ = svc.Close() }()

	out := flags.output
	var payload []byte
	if flags.html {
		markup, err := svc.Preview(rec)
		if err != nil {
			return err
		}
		payload = []byte(markup)
		if out == "" {
			out = strings.TrimSuffix(rec.Filename(), ".pdf") + ".html"
		}
	} else {
		res, err := svc.Render(ctx, rec)
		if err != nil {
			return fmt.Errorf("%w%s", err, renderHint(err))
		}
		payload = res.PDF
		if out == "" {
			out = res.Filename
		}
	}

	if err := fileutil.WriteOutput(out, payload); err != nil {
		return fmt.Errorf("%w: %v%s", ErrWriteOutput, err, hints.ForOutputDirectory())
	}
	fmt.Fprintf(deps.Stdout, "%s -> %s (%d bytes)\n", input, out, len(payload))
	return nil
}

// renderHint returns the operator hint for a failed render, or "".
func renderHint(err error) string {
	switch {
	case errors.Is(err, invoice2pdf.ErrBrowserConnect):
		return hints.ForBrowserConnect()
	case errors.Is(err, context.DeadlineExceeded):
		return hints.ForTimeout()
	}
	return ""
}
