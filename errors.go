package invoice2pdf

import (
	"errors"
	"fmt"
)

// Sentinel errors for library operations.
var (
	ErrCompose    = errors.New("invoice composition failed")
	ErrConversion = errors.New("PDF conversion failed")
	ErrDelivery   = errors.New("invoice delivery failed")

	// ErrEmailNotConfigured is returned before any rendering when a send is
	// requested and no provider credential was configured.
	ErrEmailNotConfigured = errors.New("email delivery not configured")

	// Engine failures, wrapped inside a ConversionError.
	ErrBrowserConnect = errors.New("failed to connect to browser")
	ErrPageCreate     = errors.New("failed to create browser page")
	ErrPageLoad       = errors.New("failed to load page")
	ErrPDFGeneration  = errors.New("PDF generation failed")
	ErrEmptyArtifact  = errors.New("engine returned an empty document")
	ErrEngineClosed   = errors.New("engine is closed")
	ErrPoolClosed     = errors.New("engine pool is closed")

	// Page settings validation errors.
	ErrInvalidPageSize    = errors.New("invalid page size")
	ErrInvalidOrientation = errors.New("invalid orientation")
	ErrInvalidMargin      = errors.New("invalid margin")
)

// ConversionError reports a failed HTML to PDF conversion. It matches
// ErrConversion and unwraps to the engine's own error.
type ConversionError struct {
	Engine string
	Err    error
}

func (e *ConversionError) Error() string {
	if e.Engine == "" {
		return fmt.Sprintf("%s: %v", ErrConversion, e.Err)
	}
	return fmt.Sprintf("%s (%s engine): %v", ErrConversion, e.Engine, e.Err)
}

func (e *ConversionError) Unwrap() error { return e.Err }

func (e *ConversionError) Is(target error) bool { return target == ErrConversion }

// DeliveryError reports a provider rejection or transport failure after
// the PDF was produced.
type DeliveryError struct {
	Recipient string
	Err       error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("%s to %s: %v", ErrDelivery, e.Recipient, e.Err)
}

func (e *DeliveryError) Unwrap() error { return e.Err }

func (e *DeliveryError) Is(target error) bool { return target == ErrDelivery }
