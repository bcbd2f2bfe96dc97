package paths

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/prehook/prehook/internal/errors"
)

func TestEnsureDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b", "c")

	if err := EnsureDir(dir, 0); err != nil {
		t.Fatalf("EnsureDir() error = %v", err)
	}

	info, err := os.Stat(dir)
	if err != nil {
		t.Fatalf("directory not created: %v", err)
	}
	if !info.IsDir() {
		t.Error("expected a directory")
	}

	// Idempotent
	if err := EnsureDir(dir, 0); err != nil {
		t.Errorf("EnsureDir() on existing dir error = %v", err)
	}
}

func TestFindConfig_Primary(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ConfigFileName)
	if err := os.WriteFile(path, []byte("repos: []\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := FindConfig(dir)
	if err != nil {
		t.Fatalf("FindConfig() error = %v", err)
	}
	if got != path {
		t.Errorf("FindConfig() = %q, want %q", got, path)
	}
}

func TestFindConfig_CompatFallback(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, CompatConfigFileName)
	if err := os.WriteFile(path, []byte("repos: []\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := FindConfig(dir)
	if err != nil {
		t.Fatalf("FindConfig() error = %v", err)
	}
	if got != path {
		t.Errorf("FindConfig() = %q, want %q", got, path)
	}
}

func TestFindConfig_PrefersPrimary(t *testing.T) {
	dir := t.TempDir()
	primary := filepath.Join(dir, ConfigFileName)
	for _, name := range []string{ConfigFileName, CompatConfigFileName} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("repos: []\n"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	got, err := FindConfig(dir)
	if err != nil {
		t.Fatalf("FindConfig() error = %v", err)
	}
	if got != primary {
		t.Errorf("FindConfig() = %q, want the primary name %q", got, primary)
	}
}

func TestFindConfig_NotFound(t *testing.T) {
	_, err := FindConfig(t.TempDir())
	if !errors.Is(err, ErrConfigNotFound) {
		t.Errorf("expected ErrConfigNotFound, got %v", err)
	}
}

func TestReposCacheDir(t *testing.T) {
	dir := ReposCacheDir()
	if dir == "" {
		t.Fatal("ReposCacheDir() should not be empty")
	}
	if filepath.Base(dir) != "repos" {
		t.Errorf("ReposCacheDir() = %q, want a 'repos' leaf", dir)
	}
}
