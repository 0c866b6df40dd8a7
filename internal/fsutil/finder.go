// Package fsutil provides file system helpers shared by the parameter
// tooling: discovering parameter files and replacing files atomically.
package fsutil

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ListParameterFiles returns the regular files directly inside dir, sorted
// by name. Hidden files and editor backups are skipped.
func ListParameterFiles(dir string) ([]string, error) {
	if dir == "" {
		panic("dir must not be empty")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list parameter directory %s: %w", dir, err)
	}

	var files []string
	for _, e := range entries {
		name := e.Name()
		if strings.HasPrefix(name, ".") || strings.HasSuffix(name, "~") {
			continue
		}
		if !e.Type().IsRegular() {
			continue
		}
		files = append(files, filepath.Join(dir, name))
	}
	sort.Strings(files)
	return files, nil
}

// ResolveName returns the path of the parameter file in dir whose name
// matches name, ignoring case. An exact match wins. When no file matches,
// the path name would be created at is returned.
func ResolveName(dir, name string) (string, error) {
	files, err := ListParameterFiles(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return filepath.Join(dir, name), nil
	}
	if err != nil {
		return "", err
	}

	match := ""
	for _, f := range files {
		base := filepath.Base(f)
		if base == name {
			return f, nil
		}
		if match == "" && strings.EqualFold(base, name) {
			match = f
		}
	}
	if match != "" {
		return match, nil
	}
	return filepath.Join(dir, name), nil
}
