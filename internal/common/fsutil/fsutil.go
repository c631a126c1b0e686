package fsutil

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/aliyansajid/aiforge/pkg/types"
)

// ExpandHome expands a leading '~' to the user's home directory.
func ExpandHome(path string) (string, error) {
	if path == "" {
		return path, nil
	}
	if path[0] != '~' {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("home dir: %w", err)
	}
	if path == "~" {
		return home, nil
	}
	// handle cases like ~/models/llm
	return filepath.Join(home, strings.TrimPrefix(path, "~/")), nil
}

// PathExists checks if the given path exists.
func PathExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil || !errors.Is(err, os.ErrNotExist)
}

// ListFiles walks dir recursively and returns every regular file as a path
// relative to dir plus its size. A missing or unreadable dir yields an empty
// listing, never an error: the listing feeds diagnostics and must not mask
// the failure it is describing.
func ListFiles(dir string) []types.FileEntry {
	var out []types.FileEntry
	_ = filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		rel, relErr := filepath.Rel(dir, p)
		if relErr != nil {
			rel = p
		}
		var size int64
		if info, infoErr := d.Info(); infoErr == nil {
			size = info.Size()
		}
		out = append(out, types.FileEntry{Path: rel, SizeBytes: size})
		return nil
	})
	return out
}

// FindBySuffix searches dir recursively for the first file carrying one of
// the given extensions, honoring suffix priority: all files are checked
// against suffixes[0] before suffixes[1] is considered.
func FindBySuffix(dir string, suffixes []string) (string, bool) {
	var matches []string
	_ = filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		matches = append(matches, p)
		return nil
	})
	for _, suffix := range suffixes {
		for _, p := range matches {
			if strings.HasSuffix(strings.ToLower(p), suffix) {
				return p, true
			}
		}
	}
	return "", false
}
