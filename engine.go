package invoice2pdf

import (
	"context"
	"strings"
)

// Engine renders an HTML document into PDF bytes. Implementations must
// honor ctx cancellation and are used by one caller at a time.
type Engine interface {
	Render(ctx context.Context, markup string, opts *RenderOptions) ([]byte, error)
	Name() string
	Close() error
}

// Engine names, as reported in logs and the X-Render-Engine header.
const (
	EngineChrome = "chrome"
	EngineText   = "text"
)

// RenderOptions is the resolved print contract handed to an engine.
// Dimensions are in inches with orientation already applied.
type RenderOptions struct {
	PaperWidth      float64
	PaperHeight     float64
	MarginTop       float64
	MarginRight     float64
	MarginBottom    float64
	MarginLeft      float64
	PrintBackground bool
}

// Paper dimensions in inches, portrait.
const (
	a4WidthInches      = 8.27
	a4HeightInches     = 11.69
	letterWidthInches  = 8.5
	letterHeightInches = 11
	legalWidthInches   = 8.5
	legalHeightInches  = 14
)

// NewRenderOptions resolves page settings into engine options. A nil
// page means defaults. The same settings always give the same options.
func NewRenderOptions(page *PageSettings) *RenderOptions {
	if page == nil {
		page = DefaultPageSettings()
	}
	w, h := paperDimensions(page.Size)
	if strings.EqualFold(page.Orientation, OrientationLandscape) {
		w, h = h, w
	}
	return &RenderOptions{
		PaperWidth:      w,
		PaperHeight:     h,
		MarginTop:       page.Margin,
		MarginRight:     page.Margin,
		MarginBottom:    page.Margin,
		MarginLeft:      page.Margin,
		PrintBackground: true,
	}
}

func paperDimensions(size string) (width, height float64) {
	switch strings.ToLower(size) {
	case PageSizeLetter:
		return letterWidthInches, letterHeightInches
	case PageSizeLegal:
		return legalWidthInches, legalHeightInches
	default:
		return a4WidthInches, a4HeightInches
	}
}
