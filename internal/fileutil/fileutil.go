// Package fileutil holds the small filesystem helpers shared by the
// Chrome engine, config lookup and the render command.
package fileutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// tempPrefix marks every scratch file this program creates.
const tempPrefix = "invoice2pdf-"

var (
	ErrExtensionEmpty   = errors.New("extension cannot be empty")
	ErrExtensionUnsafe  = errors.New("extension contains path separator or null byte")
	ErrOutputPathEmpty  = errors.New("output path cannot be empty")
	ErrOutputPathIsDir  = errors.New("output path is a directory")
	ErrOutputDirMissing = errors.New("output directory does not exist")
)

// WriteTempFile stores content in a fresh temp file with the given
// extension. The caller must run cleanup once done with path.
func WriteTempFile(content, extension string) (path string, cleanup func(), err error) {
	if err := ValidateExtension(extension); err != nil {
		return "", nil, err
	}

	f, err := os.CreateTemp("", tempPrefix+"*."+extension)
	if err != nil {
		return "", nil, fmt.Errorf("creating temp file: %w", err)
	}
	path = f.Name()
	cleanup = func() { _ = os.Remove(path) }

	if _, err := f.WriteString(content); err != nil {
		_ = f.Close()
		cleanup()
		return "", nil, fmt.Errorf("writing temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		cleanup()
		return "", nil, fmt.Errorf("closing temp file: %w", err)
	}
	return path, cleanup, nil
}

// ValidateExtension rejects extensions that could escape the temp dir.
func ValidateExtension(extension string) error {
	if extension == "" {
		return ErrExtensionEmpty
	}
	if strings.ContainsAny(extension, "/\\\x00") {
		return ErrExtensionUnsafe
	}
	return nil
}

// WriteOutput writes data to path through a sibling temp file and a
// rename, so a reader never observes a half-written PDF.
func WriteOutput(path string, data []byte) error {
	if path == "" {
		return ErrOutputPathEmpty
	}
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return fmt.Errorf("%w: %s", ErrOutputPathIsDir, path)
	}

	dir := filepath.Dir(path)
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return fmt.Errorf("%w: %s", ErrOutputDirMissing, dir)
	}

	f, err := os.CreateTemp(dir, tempPrefix+"*.part")
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	tmp := f.Name()

	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return fmt.Errorf("writing output file: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("closing output file: %w", err)
	}
	if err := os.Chmod(tmp, 0o644); err != nil { // #nosec G302 -- PDFs are meant to be shared
		_ = os.Remove(tmp)
		return fmt.Errorf("setting output permissions: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("moving output file into place: %w", err)
	}
	return nil
}

// FileExists reports whether path is an existing regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// IsFilePath reports whether s should be read as a path rather than a
// bare config name:
//
//   - "invoice2pdf"       -> false
//   - "./prod.yaml"       -> true
//   - "/etc/invoice.yaml" -> true
//   - "C:\cfg\prod.yaml"  -> true
func IsFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}
