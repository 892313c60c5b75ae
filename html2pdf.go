package invoice2pdf

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/alnah/go-invoice2pdf/internal/fileutil"
	"github.com/alnah/go-invoice2pdf/internal/process"
)

var _ Engine = (*ChromeEngine)(nil)

// ChromeEngine prints HTML through headless Chrome driven by go-rod.
// The browser is launched on first use, so building an engine is cheap.
// Rod downloads Chromium on first run when no browser is found.
type ChromeEngine struct {
	mu       sync.Mutex
	launcher *launcher.Launcher
	browser  *rod.Browser
	timeout  time.Duration
	closed   bool

	// life outlives any single request and ends with Close.
	life   context.Context
	cancel context.CancelFunc
}

// NewChromeEngine returns an engine whose page loads give up after
// timeout when ctx carries no earlier deadline.
func NewChromeEngine(timeout time.Duration) *ChromeEngine {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	life, cancel := context.WithCancel(context.Background())
	return &ChromeEngine{timeout: timeout, life: life, cancel: cancel}
}

// Name implements Engine.
func (e *ChromeEngine) Name() string { return EngineChrome }

// ensureBrowser starts Chrome on first use. ctx bounds the wait for the
// DevTools endpoint; the browser itself lives until Close.
func (e *ChromeEngine) ensureBrowser(ctx context.Context) (*rod.Browser, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return nil, ErrEngineClosed
	}
	if e.browser != nil {
		return e.browser, nil
	}

	l := launcher.New().Context(ctx).Headless(true)

	// Docker images ship their own Chromium.
	bin := os.Getenv("ROD_BROWSER_BIN")
	if bin != "" {
		l = l.Bin(bin)
	}
	// Containers and CI runners lack the user namespaces the sandbox needs.
	if os.Getenv("CI") == "true" || os.Getenv("ROD_NO_SANDBOX") == "1" || bin != "" {
		l = l.NoSandbox(true)
	}

	u, err := l.Launch()
	if err != nil {
		// %w twice keeps a blown deadline visible to errors.Is.
		return nil, fmt.Errorf("%w: %w", ErrBrowserConnect, err)
	}

	browser := rod.New().Context(e.life).ControlURL(u)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	e.launcher = l
	e.browser = browser
	return browser, nil
}

// Render loads markup from a temp file and prints it with opts.
func (e *ChromeEngine) Render(ctx context.Context, markup string, opts *RenderOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	browser, err := e.ensureBrowser(ctx)
	if err != nil {
		return nil, err
	}

	path, cleanup, err := fileutil.WriteTempFile(markup, "html")
	if err != nil {
		return nil, err
	}
	defer cleanup()

	// A browser clone carrying ctx makes every CDP call below, tab
	// creation included, stop with the request.
	page, err := browser.Context(ctx).Page(proto.TargetCreateTarget{URL: "file://" + path})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageCreate, err)
	}
	// The tab is closed under the engine lifetime so an expired request
	// does not leak it.
	defer func() { _ = page.Context(e.life).Close() }()

	timeout := e.timeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
		if timeout <= 0 {
			return nil, context.DeadlineExceeded
		}
	}

	if err := page.Timeout(timeout).WaitLoad(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageLoad, err)
	}

	reader, err := page.PDF(buildPDFOptions(opts))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPDFGeneration, err)
	}
	pdf, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: reading PDF stream: %v", ErrPDFGeneration, err)
	}
	return pdf, nil
}

// buildPDFOptions maps the engine-neutral options onto Chrome's
// Page.printToPDF parameters.
func buildPDFOptions(opts *RenderOptions) *proto.PagePrintToPDF {
	if opts == nil {
		opts = NewRenderOptions(nil)
	}
	return &proto.PagePrintToPDF{
		PaperWidth:      floatPtr(opts.PaperWidth),
		PaperHeight:     floatPtr(opts.PaperHeight),
		MarginTop:       floatPtr(opts.MarginTop),
		MarginBottom:    floatPtr(opts.MarginBottom),
		MarginLeft:      floatPtr(opts.MarginLeft),
		MarginRight:     floatPtr(opts.MarginRight),
		PrintBackground: opts.PrintBackground,
	}
}

func floatPtr(v float64) *float64 {
	return &v
}

// Close shuts the browser down and reaps its helper processes. Calling
// Close more than once is safe.
func (e *ChromeEngine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return nil
	}
	e.closed = true
	defer e.cancel()

	var err error
	if e.browser != nil {
		err = e.browser.Close()
		e.browser = nil
	}
	if e.launcher != nil {
		pid := e.launcher.PID()
		e.launcher.Kill()
		process.KillGroup(pid)
		e.launcher = nil
	}
	return err
}
