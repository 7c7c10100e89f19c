// internal/writer/file/file.go
package file

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tamzrod/openpad-bridge/internal/writer"
)

// Config maps each document kind to the paths it is written to.
type Config struct {
	Paths map[writer.Kind][]string
}

// Writer replaces files atomically: temp file in the same directory,
// fsync, rename.
type Writer struct {
	paths map[writer.Kind][]string
}

// New creates every target directory up front.
func New(cfg Config) (*Writer, error) {
	paths := make(map[writer.Kind][]string, len(cfg.Paths))
	for kind, list := range cfg.Paths {
		for _, p := range list {
			if p == "" {
				continue
			}
			if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
				return nil, fmt.Errorf("file writer: mkdir %s: %w", filepath.Dir(p), err)
			}
			paths[kind] = append(paths[kind], p)
		}
	}
	return &Writer{paths: paths}, nil
}

// Paths returns the targets for kind.
func (w *Writer) Paths(kind writer.Kind) []string {
	return w.paths[kind]
}

func (w *Writer) Write(_ context.Context, doc writer.Document) error {
	var errs []error
	for _, p := range w.paths[doc.Kind] {
		if err := writeAtomic(p, doc.Body); err != nil {
			errs = append(errs, fmt.Errorf("file writer: %s: %w", p, err))
		}
	}
	return errors.Join(errs...)
}

func writeAtomic(path string, body []byte) error {
	dir := filepath.Dir(path)

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	// ------------------------------------------------------------
	// any failure below leaves the previous file untouched
	// ------------------------------------------------------------
	if _, err := tmp.Write(body); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}
