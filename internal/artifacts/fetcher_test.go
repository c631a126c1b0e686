package artifacts

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestFetchRelativeIdentifier(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "models", "iris"), 0o755); err != nil {
		t.Fatal(err)
	}
	f := &LocalFetcher{Root: root}

	dir, err := f.Fetch(context.Background(), filepath.Join("models", "iris"))
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if dir != filepath.Join(root, "models", "iris") {
		t.Fatalf("dir = %q", dir)
	}
}

func TestFetchAbsoluteIdentifierBypassesRoot(t *testing.T) {
	bundle := t.TempDir()
	f := &LocalFetcher{Root: t.TempDir()}
	dir, err := f.Fetch(context.Background(), bundle)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if dir != bundle {
		t.Fatalf("dir = %q", dir)
	}
}

func TestFetchEmptyIdentifierResolvesRoot(t *testing.T) {
	root := t.TempDir()
	f := &LocalFetcher{Root: root}
	dir, err := f.Fetch(context.Background(), "")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if dir != root {
		t.Fatalf("dir = %q", dir)
	}
}

func TestFetchRefusesEscape(t *testing.T) {
	f := &LocalFetcher{Root: t.TempDir()}
	if _, err := f.Fetch(context.Background(), "../outside"); !IsFetchError(err) {
		t.Fatalf("expected fetch error, got %v", err)
	}
}

func TestFetchMissingBundle(t *testing.T) {
	f := &LocalFetcher{Root: t.TempDir()}
	if _, err := f.Fetch(context.Background(), "nope"); !IsFetchError(err) {
		t.Fatalf("expected fetch error, got %v", err)
	}
}

func TestFetchHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	f := &LocalFetcher{Root: t.TempDir()}
	if _, err := f.Fetch(ctx, "anything"); !IsFetchError(err) {
		t.Fatalf("expected fetch error, got %v", err)
	}
}
