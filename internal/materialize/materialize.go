// Package materialize decides where a rendered artifact goes and writes it
package materialize

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mitchellh/go-homedir"
)

// DefaultPrefix is the file name prefix of generated output paths
const DefaultPrefix = "excalidraw"

// Target chooses output paths. The zero value generates paths in the OS
// temporary directory.
type Target struct {
	// Dir receives generated paths; empty means os.TempDir()
	Dir string
	// Prefix of generated file names; empty means DefaultPrefix
	Prefix string

	now func() time.Time
}

// Resolve returns the absolute output path. An explicit path is made
// absolute against the working directory after expanding a leading ~;
// otherwise a unique name of the form <prefix>-<unix nanos>.<ext> is
// generated in the target directory.
func (t Target) Resolve(explicit, ext string) (string, error) {
	if explicit != "" {
		expanded, err := homedir.Expand(explicit)
		if err != nil {
			return "", fmt.Errorf("failed to expand output path %s: %w", explicit, err)
		}
		abs, err := filepath.Abs(expanded)
		if err != nil {
			return "", fmt.Errorf("failed to resolve output path %s: %w", explicit, err)
		}
		return abs, nil
	}

	dir := t.Dir
	if dir == "" {
		dir = os.TempDir()
	} else {
		expanded, err := homedir.Expand(dir)
		if err != nil {
			return "", fmt.Errorf("failed to expand output directory %s: %w", dir, err)
		}
		dir = expanded
	}
	prefix := t.Prefix
	if prefix == "" {
		prefix = DefaultPrefix
	}
	now := time.Now
	if t.now != nil {
		now = t.now
	}

	name := fmt.Sprintf("%s-%d.%s", prefix, now().UnixNano(), ext)
	return filepath.Abs(filepath.Join(dir, name))
}

// Resolve is Target{}.Resolve
func Resolve(explicit, ext string) (string, error) {
	return Target{}.Resolve(explicit, ext)
}

// Write creates missing parent directories and writes data in one call,
// replacing any existing file
func Write(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}
	return os.WriteFile(path, data, 0644)
}
