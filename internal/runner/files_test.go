package runner

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/prehook/prehook/internal/manifest"
)

func TestCandidates_Explicit(t *testing.T) {
	dir := t.TempDir()

	got, err := Candidates(dir, SourceExplicit, []string{"a.txt", "docs/b.md"}, "")
	if err != nil {
		t.Fatalf("Candidates() error = %v", err)
	}
	want := []string{"a.txt", "docs/b.md"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Candidates() = %v, want %v", got, want)
	}
}

func TestCandidates_ExplicitAbsolute(t *testing.T) {
	dir := t.TempDir()
	abs := filepath.Join(dir, "sub", "a.txt")

	got, err := Candidates(dir, SourceExplicit, []string{abs}, "")
	if err != nil {
		t.Fatalf("Candidates() error = %v", err)
	}
	if len(got) != 1 || got[0] != "sub/a.txt" {
		t.Errorf("Candidates() = %v, want [sub/a.txt]", got)
	}
}

func TestCandidates_GlobalExclude(t *testing.T) {
	dir := t.TempDir()

	got, err := Candidates(dir, SourceExplicit,
		[]string{"a.txt", "vendor/b.go", "c.go"}, `^vendor/`)
	if err != nil {
		t.Fatalf("Candidates() error = %v", err)
	}
	want := []string{"a.txt", "c.go"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Candidates() = %v, want %v", got, want)
	}
}

func TestCandidates_BadExcludePattern(t *testing.T) {
	dir := t.TempDir()

	if _, err := Candidates(dir, SourceExplicit, []string{"a"}, `([`); err == nil {
		t.Error("invalid exclude pattern should fail")
	}
}

func TestFilterForHook_FilesPattern(t *testing.T) {
	dir := t.TempDir()

	got, err := FilterForHook(dir, []string{"a.go", "b.txt", "c.go"},
		manifest.Hook{ID: "h", Files: `\.go$`})
	if err != nil {
		t.Fatalf("FilterForHook() error = %v", err)
	}
	want := []string{"a.go", "c.go"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("FilterForHook() = %v, want %v", got, want)
	}
}

func TestFilterForHook_ExcludeWins(t *testing.T) {
	dir := t.TempDir()

	got, err := FilterForHook(dir, []string{"a.go", "a_test.go"},
		manifest.Hook{ID: "h", Files: `\.go$`, Exclude: `_test\.go$`})
	if err != nil {
		t.Fatalf("FilterForHook() error = %v", err)
	}
	if len(got) != 1 || got[0] != "a.go" {
		t.Errorf("FilterForHook() = %v, want [a.go]", got)
	}
}

func TestFilterForHook_TypeFilterDropsMissingFiles(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "real.yaml"), []byte("a: 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := FilterForHook(dir, []string{"real.yaml", "gone.yaml"},
		manifest.Hook{ID: "h", Types: []string{"yaml"}})
	if err != nil {
		t.Fatalf("FilterForHook() error = %v", err)
	}
	if len(got) != 1 || got[0] != "real.yaml" {
		t.Errorf("FilterForHook() = %v, want [real.yaml]", got)
	}
}

func TestFilterForHook_BadPattern(t *testing.T) {
	dir := t.TempDir()

	if _, err := FilterForHook(dir, []string{"a"}, manifest.Hook{ID: "h", Files: `([`}); err == nil {
		t.Error("invalid files pattern should fail")
	}
}
