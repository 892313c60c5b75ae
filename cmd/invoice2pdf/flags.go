package main

import (
	"errors"
	"fmt"
	"io"

	flag "github.com/spf13/pflag"

	"github.com/alnah/go-invoice2pdf/internal/config"
)

var (
	// ErrUsage wraps flag parsing and argument count errors.
	ErrUsage = errors.New("invalid usage")

	errHelpRequested = errors.New("help requested")
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	envFile string
	verbose bool
}

// engineFlags override the render section of the config.
type engineFlags struct {
	engine      string
	timeout     string
	workers     int
	pageSize    string
	orientation string
	margin      float64
}

// serveFlags holds all flags for the serve command.
type serveFlags struct {
	common commonFlags
	engine engineFlags
	port   string
	env    string
}

// renderFlags holds all flags for the render command.
type renderFlags struct {
	common commonFlags
	engine engineFlags
	output string
	html   bool
}

// parsedFlags records which flags were set, so unset flags never
// overwrite the file or the environment.
type parsedFlags struct {
	changed map[string]bool
	args    []string
}

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.SortFlags = false
	return fs
}

func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.StringVar(&f.envFile, "env-file", ".env", "dotenv file read before the environment")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "debug logging")
}

func addEngineFlags(fs *flag.FlagSet, f *engineFlags) {
	fs.StringVarP(&f.engine, "engine", "e", "", "conversion engine: chrome, text")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "per-conversion deadline, e.g. 45s")
	fs.IntVarP(&f.workers, "workers", "w", 0, "browser pool size (0 = auto)")
	fs.StringVarP(&f.pageSize, "page-size", "p", "", "page size: a4, letter, legal")
	fs.StringVar(&f.orientation, "orientation", "", "orientation: portrait, landscape")
	fs.Float64Var(&f.margin, "margin", 0, "margin in inches (0.25-3.0)")
}

func parse(fs *flag.FlagSet, args []string) (*parsedFlags, error) {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, errHelpRequested
		}
		return nil, fmt.Errorf("%w: %v", ErrUsage, err)
	}
	p := &parsedFlags{changed: make(map[string]bool), args: fs.Args()}
	fs.Visit(func(f *flag.Flag) { p.changed[f.Name] = true })
	return p, nil
}

func parseServeFlags(args []string) (*serveFlags, *parsedFlags, error) {
	f := &serveFlags{}
	fs := newFlagSet("serve")
	addCommonFlags(fs, &f.common)
	addEngineFlags(fs, &f.engine)
	fs.StringVar(&f.port, "port", "", "listen port")
	fs.StringVar(&f.env, "env", "", "environment: development, production")

	p, err := parse(fs, args)
	if err != nil {
		return nil, nil, err
	}
	if len(p.args) > 0 {
		return nil, nil, fmt.Errorf("%w: serve takes no arguments, got %q", ErrUsage, p.args)
	}
	return f, p, nil
}

func parseRenderFlags(args []string) (*renderFlags, *parsedFlags, error) {
	f := &renderFlags{}
	fs := newFlagSet("render")
	addCommonFlags(fs, &f.common)
	addEngineFlags(fs, &f.engine)
	fs.StringVarP(&f.output, "output", "o", "", "output PDF path (default Invoice-<no>.pdf)")
	fs.BoolVar(&f.html, "html", false, "write the HTML document instead of the PDF")

	p, err := parse(fs, args)
	if err != nil {
		return nil, nil, err
	}
	if len(p.args) != 1 {
		return nil, nil, fmt.Errorf("%w: render takes exactly one input file", ErrUsage)
	}
	return f, p, nil
}

// apply copies the flags that were set onto cfg.
func (f *engineFlags) apply(cfg *config.Config, changed map[string]bool) {
	if changed["engine"] {
		cfg.Render.Engine = f.engine
	}
	if changed["timeout"] {
		cfg.Render.Timeout = f.timeout
	}
	if changed["workers"] {
		cfg.Render.Workers = f.workers
	}
	if changed["page-size"] {
		cfg.Render.PageSize = f.pageSize
	}
	if changed["orientation"] {
		cfg.Render.Orientation = f.orientation
	}
	if changed["margin"] {
		cfg.Render.Margin = f.margin
	}
}

func (f *serveFlags) apply(cfg *config.Config, changed map[string]bool) {
	f.engine.apply(cfg, changed)
	if changed["port"] {
		cfg.Server.Port = f.port
	}
	if changed["env"] {
		cfg.Server.Env = f.env
	}
}
