package invoice2pdf

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

var _ Engine = TextEngine{}

// TextEngine is the degraded path used when no browser can run: it
// strips the markup down to lines of text and lays them out with gofpdf.
// Styling is lost but every figure on the invoice survives.
type TextEngine struct{}

// Name implements Engine.
func (TextEngine) Name() string { return EngineText }

// Close implements Engine. There is nothing to release.
func (TextEngine) Close() error { return nil }

const (
	textFontSize   = 11
	textLineHeight = 0.22 // inches
)

// Render implements Engine.
func (TextEngine) Render(ctx context.Context, markup string, opts *RenderOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if opts == nil {
		opts = NewRenderOptions(nil)
	}

	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "in",
		Size:           gofpdf.SizeType{Wd: opts.PaperWidth, Ht: opts.PaperHeight},
	})
	pdf.SetMargins(opts.MarginLeft, opts.MarginTop, opts.MarginRight)
	pdf.SetAutoPageBreak(true, opts.MarginBottom)
	pdf.AddPage()

	// Core fonts are cp1252; the rupee sign has no glyph there.
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	for i, line := range markupToLines(markup) {
		style := ""
		if i == 0 {
			style = "B"
		}
		pdf.SetFont("Helvetica", style, textFontSize)
		line = strings.ReplaceAll(line, CurrencySymbol, "Rs. ")
		pdf.MultiCell(0, textLineHeight, tr(line), "", "L", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPDFGeneration, err)
	}
	return buf.Bytes(), nil
}

var (
	headPattern  = regexp.MustCompile(`(?is)<head\b.*?</head>`)
	blockPattern = regexp.MustCompile(`(?i)<(br\s*/?|/(div|p|h[1-6]|tr|li|table|thead|tbody))>`)
	cellPattern  = regexp.MustCompile(`(?i)</t[dh]>`)
	tagPattern   = regexp.MustCompile(`<[^>]*>`)
	spacePattern = regexp.MustCompile(`[ \t\r\f\v]+`)
)

// markupToLines keeps the visible text of markup, one output line per
// block element, table cells separated by " | ".
func markupToLines(markup string) []string {
	s := headPattern.ReplaceAllString(markup, "")
	// Source line breaks carry no meaning; block tags decide them.
	s = strings.NewReplacer("\r\n", " ", "\n", " ").Replace(s)
	s = cellPattern.ReplaceAllString(s, " | ")
	s = blockPattern.ReplaceAllString(s, "\n")
	s = tagPattern.ReplaceAllString(s, "")
	s = html.UnescapeString(s)

	var lines []string
	for _, raw := range strings.Split(s, "\n") {
		line := strings.TrimSpace(spacePattern.ReplaceAllString(raw, " "))
		line = strings.TrimSuffix(line, " |")
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
