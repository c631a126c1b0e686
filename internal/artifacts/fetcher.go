// Package artifacts resolves model artifact identifiers to local directories.
// It is the storage/transfer collaborator of the resolution engine: a failed
// or partial fetch is treated by callers as "no model directory found", never
// as a process-fatal condition.
package artifacts

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aliyansajid/aiforge/internal/common/fsutil"
)

// Fetcher makes a model artifact bundle available on the local filesystem and
// returns the directory containing it.
type Fetcher interface {
	Fetch(ctx context.Context, identifier string) (string, error)
}

// LocalFetcher resolves identifiers against a root directory of already
// transferred bundles (e.g. a volume the deployment pipeline populated).
type LocalFetcher struct {
	// Root is the base directory bundles live under. Supports '~'.
	Root string
}

// fetchError wraps a failed artifact resolution.
type fetchError struct {
	identifier string
	cause      error
}

func (e fetchError) Error() string {
	return fmt.Sprintf("fetch artifact %q: %v", e.identifier, e.cause)
}

func (e fetchError) Unwrap() error { return e.cause }

// IsFetchError reports whether err came from artifact resolution.
func IsFetchError(err error) bool {
	var e fetchError
	return errors.As(err, &e)
}

// Fetch resolves identifier to a local directory. An absolute identifier is
// used as-is; a relative one is resolved under Root. An empty identifier
// resolves to Root itself.
func (f *LocalFetcher) Fetch(ctx context.Context, identifier string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fetchError{identifier: identifier, cause: err}
	}
	dir, err := f.resolve(identifier)
	if err != nil {
		return "", fetchError{identifier: identifier, cause: err}
	}
	fi, err := os.Stat(dir)
	if err != nil {
		return "", fetchError{identifier: identifier, cause: err}
	}
	if !fi.IsDir() {
		return "", fetchError{identifier: identifier, cause: fmt.Errorf("%s is not a directory", dir)}
	}
	return dir, nil
}

func (f *LocalFetcher) resolve(identifier string) (string, error) {
	if filepath.IsAbs(identifier) {
		return identifier, nil
	}
	root, err := fsutil.ExpandHome(f.Root)
	if err != nil {
		return "", err
	}
	if root == "" {
		root = "."
	}
	if identifier == "" {
		return filepath.Abs(root)
	}
	// Identifiers come from deploy metadata; refuse anything escaping Root.
	clean := filepath.Clean(identifier)
	if clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("identifier escapes the artifact root")
	}
	return filepath.Abs(filepath.Join(root, clean))
}
