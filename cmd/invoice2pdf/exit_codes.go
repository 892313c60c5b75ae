package main

import (
	"errors"
	"os"

	invoice2pdf "github.com/alnah/go-invoice2pdf"
	"github.com/alnah/go-invoice2pdf/internal/config"
	"github.com/alnah/go-invoice2pdf/internal/email"
	"github.com/alnah/go-invoice2pdf/internal/validate"
)

// Exit codes for the invoice2pdf CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Clean shutdown or successful render
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, or invoice data
	ExitIO      = 3 // Unreadable input, unwritable output, port in use
	ExitBrowser = 4 // Browser/Chrome errors
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Browser errors (exit 4)
	if errors.Is(err, invoice2pdf.ErrBrowserConnect) ||
		errors.Is(err, invoice2pdf.ErrPageCreate) ||
		errors.Is(err, invoice2pdf.ErrPageLoad) ||
		errors.Is(err, invoice2pdf.ErrPDFGeneration) ||
		errors.Is(err, invoice2pdf.ErrEmptyArtifact) {
		return ExitBrowser
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrReadInput) ||
		errors.Is(err, ErrWriteOutput) ||
		errors.Is(err, ErrListen) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, ErrUsage) ||
		errors.Is(err, ErrUnknownCommand) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, config.ErrInvalidEnv) ||
		errors.Is(err, validate.ErrValidation) ||
		errors.Is(err, validate.ErrMalformed) ||
		errors.Is(err, invoice2pdf.ErrInvalidPageSize) ||
		errors.Is(err, invoice2pdf.ErrInvalidOrientation) ||
		errors.Is(err, invoice2pdf.ErrInvalidMargin) ||
		errors.Is(err, email.ErrUnknownProvider) {
		return ExitUsage
	}

	return ExitGeneral
}
