package invoice2pdf

import (
	"context"
	"fmt"
	"time"
)

// defaultTimeout bounds one conversion when nothing else is configured.
const defaultTimeout = 30 * time.Second

// Converter is the adapter between a composed document and an Engine.
// It owns the page contract, the deadline and error wrapping; it never
// retries and never returns partial output.
type Converter struct {
	engine  Engine
	timeout time.Duration
	page    *PageSettings
}

// NewConverter wraps engine. Non-positive timeouts and nil page settings
// fall back to 30s and A4 portrait with half-inch margins.
func NewConverter(engine Engine, timeout time.Duration, page *PageSettings) *Converter {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if page == nil {
		page = DefaultPageSettings()
	}
	return &Converter{engine: engine, timeout: timeout, page: page}
}

// Timeout returns the per-conversion deadline.
func (c *Converter) Timeout() time.Duration { return c.timeout }

// EngineName reports which engine produces artifacts.
func (c *Converter) EngineName() string { return c.engine.Name() }

// Convert prints markup with page (nil means the converter's settings).
// Any engine failure, including a blown deadline or a panic inside the
// engine, comes back as a *ConversionError. The deadline holds even for
// an engine that ignores ctx: Convert returns when it expires and drops
// whatever the engine produces afterwards.
func (c *Converter) Convert(ctx context.Context, markup string, page *PageSettings) ([]byte, error) {
	if page == nil {
		page = c.page
	}
	if err := page.Validate(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	// Buffered so a late engine never blocks on a reader that left.
	done := make(chan renderResult, 1)
	go c.render(ctx, markup, NewRenderOptions(page), done)

	var res renderResult
	select {
	case res = <-done:
	case <-ctx.Done():
		return nil, &ConversionError{Engine: c.engine.Name(), Err: ctx.Err()}
	}

	// Output that raced the deadline is still late.
	if res.err == nil && ctx.Err() != nil {
		res.err = ctx.Err()
	}
	if res.err != nil {
		return nil, &ConversionError{Engine: c.engine.Name(), Err: res.err}
	}
	if len(res.pdf) == 0 {
		return nil, &ConversionError{Engine: c.engine.Name(), Err: ErrEmptyArtifact}
	}
	return res.pdf, nil
}

type renderResult struct {
	pdf []byte
	err error
}

func (c *Converter) render(ctx context.Context, markup string, opts *RenderOptions, done chan<- renderResult) {
	defer func() {
		if r := recover(); r != nil {
			done <- renderResult{err: fmt.Errorf("engine panic: %v", r)}
		}
	}()
	pdf, err := c.engine.Render(ctx, markup, opts)
	done <- renderResult{pdf: pdf, err: err}
}

// Close releases the engine.
func (c *Converter) Close() error {
	return c.engine.Close()
}
