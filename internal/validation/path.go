// Package validation checks tool-boundary input before it reaches the
// renderer: the elements JSON shape, the output format and scale, and the
// paths the CLI reads from and writes to.
package validation

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mitchellh/go-homedir"
)

// ValidateOutputPath checks an explicit output path. Empty is valid and
// means a generated path. Missing parent directories are fine since they
// are created on write, but the path must not name an existing directory
// and its closest existing ancestor must be a writable directory.
func ValidateOutputPath(outputPath string) error {
	if outputPath == "" {
		return nil
	}

	expanded, err := homedir.Expand(outputPath)
	if err != nil {
		return fmt.Errorf("failed to expand output path: %w", err)
	}
	absPath, err := filepath.Abs(expanded)
	if err != nil {
		return fmt.Errorf("failed to resolve absolute path: %w", err)
	}

	if info, err := os.Stat(absPath); err == nil && info.IsDir() {
		return fmt.Errorf("output path is a directory: %s", absPath)
	}

	// Find the closest existing ancestor
	dir := filepath.Dir(absPath)
	for {
		info, err := os.Stat(dir)
		if err == nil {
			if !info.IsDir() {
				return fmt.Errorf("output path parent is not a directory: %s", dir)
			}
			return checkWritable(dir)
		}
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to access output directory: %w", err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return nil
		}
		dir = parent
	}
}

// checkWritable creates and removes a probe file in dir
func checkWritable(dir string) error {
	testFile := filepath.Join(dir, ".sketch_write_test")
	f, err := os.OpenFile(testFile, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0600)
	if err != nil {
		return fmt.Errorf("output directory is not writable: %s: %w", dir, err)
	}
	f.Close()
	os.Remove(testFile)
	return nil
}

// ValidateInputPath validates an input path
// Returns error if path doesn't exist or is not accessible
func ValidateInputPath(inputPath string, mustBeDir bool) error {
	if inputPath == "" {
		return fmt.Errorf("input path cannot be empty")
	}

	expanded, err := homedir.Expand(inputPath)
	if err != nil {
		return fmt.Errorf("failed to expand input path: %w", err)
	}
	cleanPath := filepath.Clean(expanded)

	info, err := os.Stat(cleanPath)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("input path does not exist: %s", cleanPath)
		}
		return fmt.Errorf("failed to access input path: %w", err)
	}

	if mustBeDir && !info.IsDir() {
		return fmt.Errorf("input path must be a directory: %s", cleanPath)
	}
	if !mustBeDir && info.IsDir() {
		return fmt.Errorf("input path must be a file: %s", cleanPath)
	}

	return nil
}
