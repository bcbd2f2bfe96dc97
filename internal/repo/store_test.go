package repo

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prehook/prehook/internal/errors"
)

func TestKey_Deterministic(t *testing.T) {
	a := Key("https://example.com/repo.git", "v1.0.0")
	b := Key("https://example.com/repo.git", "v1.0.0")
	if a != b {
		t.Error("Key should be deterministic")
	}

	c := Key("https://example.com/repo.git", "v1.0.1")
	if a == c {
		t.Error("different revs should produce different keys")
	}

	d := Key("https://example.com/other.git", "v1.0.0")
	if a == d {
		t.Error("different urls should produce different keys")
	}
}

// materialize writes a fake cache entry directly, bypassing git.
func materialize(t *testing.T, root, url, rev string) string {
	t.Helper()
	entryDir := filepath.Join(root, Key(url, rev))
	if err := os.MkdirAll(filepath.Join(entryDir, checkoutDirName), 0o755); err != nil {
		t.Fatal(err)
	}
	meta := Meta{URL: url, Rev: rev, Commit: "abc123", ClonedAt: time.Now().UTC()}
	if err := writeMeta(entryDir, meta); err != nil {
		t.Fatal(err)
	}
	return entryDir
}

func TestLookup(t *testing.T) {
	root := t.TempDir()
	s := NewStore(root)
	url, rev := "https://example.com/hooks.git", "v2.0.0"

	// Not cached yet
	_, err := s.Lookup(url, rev)
	if !errors.Is(err, errors.ErrRepoNotCached) {
		t.Fatalf("expected ErrRepoNotCached, got %v", err)
	}

	materialize(t, root, url, rev)

	entry, err := s.Lookup(url, rev)
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}
	if entry.Meta.URL != url || entry.Meta.Rev != rev {
		t.Errorf("Meta = %+v", entry.Meta)
	}
	if filepath.Base(entry.Path) != checkoutDirName {
		t.Errorf("Path = %q, want %s leaf", entry.Path, checkoutDirName)
	}
}

func TestLookup_PartialEntry(t *testing.T) {
	root := t.TempDir()
	s := NewStore(root)
	url, rev := "https://example.com/hooks.git", "v2.0.0"

	// Directory exists but metadata is missing (interrupted clone)
	if err := os.MkdirAll(filepath.Join(root, Key(url, rev)), 0o755); err != nil {
		t.Fatal(err)
	}

	_, err := s.Lookup(url, rev)
	if !errors.Is(err, errors.ErrRepoNotCached) {
		t.Errorf("partial entries should read as not cached, got %v", err)
	}
}

func TestEnsure_RejectsBadInput(t *testing.T) {
	s := NewStore(t.TempDir())

	if _, err := s.Ensure("-oProxyCommand=x", "v1"); err == nil {
		t.Error("invalid URL should be rejected before cloning")
	}
	if _, err := s.Ensure("https://example.com/repo.git", ""); err == nil {
		t.Error("missing rev should be rejected")
	}
}

func TestList(t *testing.T) {
	root := t.TempDir()
	s := NewStore(root)

	entries, err := s.List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected empty list, got %d entries", len(entries))
	}

	materialize(t, root, "https://example.com/a.git", "v1")
	materialize(t, root, "https://example.com/b.git", "v2")

	entries, err = s.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Errorf("List() returned %d entries, want 2", len(entries))
	}
}

func TestList_MissingRoot(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "never-created"))
	entries, err := s.List()
	if err != nil {
		t.Errorf("List() on missing root should not error: %v", err)
	}
	if entries != nil {
		t.Errorf("expected nil, got %v", entries)
	}
}

func TestPrune(t *testing.T) {
	root := t.TempDir()
	s := NewStore(root)

	keepURL := "https://example.com/keep.git"
	materialize(t, root, keepURL, "v1")
	materialize(t, root, "https://example.com/drop.git", "v1")

	removed, err := s.Prune(map[string]bool{Key(keepURL, "v1"): true})
	if err != nil {
		t.Fatalf("Prune() error = %v", err)
	}
	if removed != 1 {
		t.Errorf("removed = %d, want 1", removed)
	}

	entries, _ := s.List()
	if len(entries) != 1 || entries[0].Meta.URL != keepURL {
		t.Errorf("surviving entries = %+v", entries)
	}
}

func TestPruneAll(t *testing.T) {
	root := t.TempDir()
	s := NewStore(root)
	materialize(t, root, "https://example.com/a.git", "v1")
	materialize(t, root, "https://example.com/b.git", "v1")

	removed, err := s.PruneAll()
	if err != nil {
		t.Fatal(err)
	}
	if removed != 2 {
		t.Errorf("removed = %d, want 2", removed)
	}
}

func TestMetaRoundTrip(t *testing.T) {
	dir := t.TempDir()
	want := Meta{
		URL:      "https://example.com/hooks.git",
		Rev:      "v1.2.3",
		Commit:   "deadbeef",
		ClonedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}

	if err := writeMeta(dir, want); err != nil {
		t.Fatalf("writeMeta() error = %v", err)
	}

	got, err := readMeta(dir)
	if err != nil {
		t.Fatalf("readMeta() error = %v", err)
	}
	if *got != want {
		t.Errorf("round trip = %+v, want %+v", *got, want)
	}
}
