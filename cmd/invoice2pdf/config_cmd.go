package main

import "fmt"

// runConfig prints the effective configuration as YAML, API key masked.
func runConfig(args []string, deps *Dependencies) error {
	f := &commonFlags{}
	fs := newFlagSet("config")
	addCommonFlags(fs, f)
	parsed, err := parse(fs, args)
	if err != nil {
		return err
	}
	if len(parsed.args) > 0 {
		return fmt.Errorf("%w: config takes no arguments", ErrUsage)
	}

	cfg, err := loadConfig(*f, deps, nil)
	if err != nil {
		return err
	}
	out, err := cfg.Marshal()
	if err != nil {
		return err
	}
	_, err = deps.Stdout.Write(out)
	return err
}
