// Package hints turns common operator mistakes into one actionable line.
// Every hint reads "\n  hint: <text>" so it can be appended to an error
// message or stripped for a structured log attribute.
package hints

import (
	"os"
	"strings"

	"github.com/alnah/go-invoice2pdf/internal/fileutil"
)

// IsInContainer reports whether the process runs in Docker. Tests swap it.
var IsInContainer = func() bool {
	return fileutil.FileExists("/.dockerenv")
}

// ciVars are set by the CI systems whose runners lack a Chrome sandbox.
var ciVars = []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL"}

func inCI() bool {
	for _, v := range ciVars {
		if os.Getenv(v) != "" {
			return true
		}
	}
	return false
}

// ForBrowserConnect explains how to get Chrome running, or how to avoid it.
func ForBrowserConnect() string {
	var steps []string
	if (inCI() || IsInContainer()) && os.Getenv("ROD_NO_SANDBOX") != "1" {
		steps = append(steps, "set ROD_NO_SANDBOX=1 for Docker/CI")
	}
	if os.Getenv("ROD_BROWSER_BIN") == "" {
		steps = append(steps, "set ROD_BROWSER_BIN to use custom Chrome")
	}
	steps = append(steps, "or run with --engine text for plain PDFs without a browser")
	return formatHints(steps)
}

// ForTimeout returns a hint about raising the render deadline.
func ForTimeout() string {
	return format("raise the deadline with --timeout or INVOICE2PDF_TIMEOUT")
}

// ForConfigNotFound points at --config, and at the user config file
// among searchedPaths when there is one.
func ForConfigNotFound(searchedPaths []string) string {
	for _, p := range searchedPaths {
		if strings.Contains(p, ".config/go-invoice2pdf") {
			return format("use --config /path/to/file.yaml or create " + p)
		}
	}
	return format("use --config /path/to/file.yaml")
}

// ForEmailNotConfigured names the variables that enable delivery.
func ForEmailNotConfigured(provider string) string {
	key := "SENDGRID_API_KEY"
	if strings.EqualFold(provider, "resend") {
		key = "RESEND_API_KEY"
	}
	return format("set " + key + " (and FROM_EMAIL) to enable /api/send-invoice")
}

// ForOutputDirectory is appended when render cannot write its output.
func ForOutputDirectory() string {
	return format("check the output directory exists and is writable")
}

func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

func formatHints(steps []string) string {
	return format(strings.Join(steps, "; "))
}
