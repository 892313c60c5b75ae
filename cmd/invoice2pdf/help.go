package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: invoice2pdf [command] [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  serve      Run the HTTP API (default)")
	fmt.Fprintln(w, "  render     Render one invoice JSON file to PDF")
	fmt.Fprintln(w, "  config     Print the effective configuration")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'invoice2pdf help <command>' for details on a specific command.")
}

func printCommonFlags(w io.Writer) {
	fmt.Fprintln(w, "Configuration:")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path (or INVOICE2PDF_CONFIG)")
	fmt.Fprintln(w, "      --env-file <path>     Dotenv file, real environment wins (default .env)")
	fmt.Fprintln(w, "  -v, --verbose             Debug logging")
}

func printEngineFlags(w io.Writer) {
	fmt.Fprintln(w, "Rendering:")
	fmt.Fprintln(w, "  -e, --engine <s>          Engine: chrome, text")
	fmt.Fprintln(w, "  -t, --timeout <d>         Per-conversion deadline (default 30s)")
	fmt.Fprintln(w, "  -w, --workers <n>         Browser pool size (0 = auto)")
	fmt.Fprintln(w, "  -p, --page-size <s>       Page size: a4, letter, legal")
	fmt.Fprintln(w, "      --orientation <s>     Orientation: portrait, landscape")
	fmt.Fprintln(w, "      --margin <f>          Margin in inches (0.25-3.0)")
}

// printServeUsage prints usage for the serve command.
func printServeUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: invoice2pdf serve [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run the invoice HTTP API until interrupted.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Server:")
	fmt.Fprintln(w, "      --port <n>            Listen port (or PORT, default 3000)")
	fmt.Fprintln(w, "      --env <s>             Environment: development, production")
	fmt.Fprintln(w)
	printEngineFlags(w)
	fmt.Fprintln(w)
	printCommonFlags(w)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Email delivery is enabled by SENDGRID_API_KEY or RESEND_API_KEY,")
	fmt.Fprintln(w, "with FROM_EMAIL as sender.")
}

// printRenderUsage prints usage for the render command.
func printRenderUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: invoice2pdf render <input.json> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Render one invoice offline with the same validation as the API.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output:")
	fmt.Fprintln(w, "  -o, --output <path>       Output file (default Invoice-<no>.pdf)")
	fmt.Fprintln(w, "      --html                Write the HTML document instead of the PDF")
	fmt.Fprintln(w)
	printEngineFlags(w)
	fmt.Fprintln(w)
	printCommonFlags(w)
}

// runHelp prints help for a specific command.
func runHelp(args []string, deps *Dependencies) {
	if len(args) == 0 {
		printUsage(deps.Stdout)
		return
	}

	switch args[0] {
	case "serve":
		printServeUsage(deps.Stdout)
	case "render":
		printRenderUsage(deps.Stdout)
	case "config":
		fmt.Fprintln(deps.Stdout, "Usage: invoice2pdf config [flags]")
		fmt.Fprintln(deps.Stdout)
		fmt.Fprintln(deps.Stdout, "Print the effective configuration as YAML. The API key is masked.")
		fmt.Fprintln(deps.Stdout)
		printCommonFlags(deps.Stdout)
	case "version":
		fmt.Fprintln(deps.Stdout, "Usage: invoice2pdf version")
		fmt.Fprintln(deps.Stdout)
		fmt.Fprintln(deps.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(deps.Stdout, "Usage: invoice2pdf help [command]")
		fmt.Fprintln(deps.Stdout)
		fmt.Fprintln(deps.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(deps.Stderr, "Unknown command: %s\n", args[0])
		printUsage(deps.Stderr)
	}
}
