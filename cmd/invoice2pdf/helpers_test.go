package main

import (
	"bytes"
	"sort"
	"testing"
	"time"
)

// ---------------------------------------------------------------------------
// Test Infrastructure - Dependencies backed by buffers and a map environment
// ---------------------------------------------------------------------------

var fixedNow = time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)

type testDeps struct {
	*Dependencies
	stdout *bytes.Buffer
	stderr *bytes.Buffer
}

// newTestDeps never reads the real environment: env is all there is.
func newTestDeps(t *testing.T, env map[string]string) *testDeps {
	t.Helper()

	var stdout, stderr bytes.Buffer
	return &testDeps{
		Dependencies: &Dependencies{
			Now:    func() time.Time { return fixedNow },
			Stdout: &stdout,
			Stderr: &stderr,
			Getenv: func(k string) string { return env[k] },
			Environ: func() []string {
				out := make([]string, 0, len(env))
				for k, v := range env {
					out = append(out, k+"="+v)
				}
				sort.Strings(out)
				return out
			},
		},
		stdout: &stdout,
		stderr: &stderr,
	}
}

const validInvoiceJSON = `{
  "invoiceNo": "INV-001",
  "date": "2024-01-15",
  "customer": {"name": "Jane Doe", "email": "jane@example.com", "address": "1 Main St"},
  "items": [{"name": "Web Development", "qty": 1, "price": 25000}],
  "taxPercent": 18
}`
