package manifest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/prehook/prehook/internal/config"
	"github.com/prehook/prehook/internal/errors"
	"github.com/prehook/prehook/internal/paths"
)

const sampleManifest = `
- id: check-yaml
  name: Check YAML
  entry: check-yaml
  language: system
  types: [yaml]
- id: trailing-whitespace
  name: Trim trailing whitespace
  entry: trailing-whitespace-fixer
  language: system
  types: [text]
`

func TestParse(t *testing.T) {
	m, err := Parse([]byte(sampleManifest))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	ids := m.IDs()
	if len(ids) != 2 || ids[0] != "check-yaml" || ids[1] != "trailing-whitespace" {
		t.Errorf("IDs() = %v", ids)
	}

	h, ok := m.Lookup("check-yaml")
	if !ok {
		t.Fatal("check-yaml should be defined")
	}
	if h.Entry != "check-yaml" || h.Language != "system" {
		t.Errorf("unexpected definition: %+v", h)
	}
}

func TestParse_MissingID(t *testing.T) {
	_, err := Parse([]byte("- name: anonymous\n  entry: x\n"))
	if err == nil {
		t.Error("expected error for hook without id")
	}
}

func TestParse_DuplicateID(t *testing.T) {
	_, err := Parse([]byte("- id: a\n  entry: x\n- id: a\n  entry: y\n"))
	if err == nil {
		t.Error("expected error for duplicate id")
	}
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, paths.ManifestFileName)
	if err := os.WriteFile(path, []byte(sampleManifest), 0o644); err != nil {
		t.Fatal(err)
	}

	m, err := LoadDir(dir)
	if err != nil {
		t.Fatalf("LoadDir() error = %v", err)
	}
	if len(m.IDs()) != 2 {
		t.Errorf("IDs() = %v", m.IDs())
	}
}

func TestLoadDir_Missing(t *testing.T) {
	_, err := LoadDir(t.TempDir())
	if err == nil {
		t.Error("expected error when manifest file is absent")
	}
}

func TestResolve_Overlay(t *testing.T) {
	m, err := Parse([]byte(sampleManifest))
	if err != nil {
		t.Fatal(err)
	}

	falseVal := false
	resolved, err := m.Resolve(config.Hook{
		ID:            "check-yaml",
		Args:          []string{"--allow-multiple-documents"},
		Files:         `\.ya?ml$`,
		PassFilenames: &falseVal,
	})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	// Config fields win
	if len(resolved.Args) != 1 || resolved.Args[0] != "--allow-multiple-documents" {
		t.Errorf("Args = %v", resolved.Args)
	}
	if resolved.Files != `\.ya?ml$` {
		t.Errorf("Files = %q", resolved.Files)
	}
	if resolved.ShouldPassFilenames() {
		t.Error("pass_filenames override should win")
	}

	// Manifest fields survive where config is silent
	if resolved.Entry != "check-yaml" {
		t.Errorf("Entry = %q, want manifest value", resolved.Entry)
	}
	if len(resolved.Types) != 1 || resolved.Types[0] != "yaml" {
		t.Errorf("Types = %v, want [yaml]", resolved.Types)
	}
}

func TestResolve_UnknownID(t *testing.T) {
	m, err := Parse([]byte(sampleManifest))
	if err != nil {
		t.Fatal(err)
	}

	_, err = m.Resolve(config.Hook{ID: "nope"})
	if !errors.Is(err, errors.ErrHookNotFound) {
		t.Errorf("expected ErrHookNotFound, got %v", err)
	}
}

func TestHook_DisplayName(t *testing.T) {
	if (Hook{ID: "x", Name: "Pretty"}).DisplayName() != "Pretty" {
		t.Error("Name should win when set")
	}
	if (Hook{ID: "x"}).DisplayName() != "x" {
		t.Error("ID should be the fallback")
	}
}

func TestHook_RunsAtStage(t *testing.T) {
	tests := []struct {
		name          string
		stages        []string
		defaultStages []string
		want          bool
	}{
		{"no stages anywhere", nil, nil, true},
		{"explicit match", []string{"pre-commit"}, nil, true},
		{"explicit miss", []string{"pre-push"}, nil, false},
		{"default match", nil, []string{"pre-commit"}, true},
		{"default miss", nil, []string{"pre-push"}, false},
		{"explicit beats default", []string{"pre-commit"}, []string{"pre-push"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := Hook{ID: "x", Stages: tt.stages}
			if got := h.RunsAtStage("pre-commit", tt.defaultStages); got != tt.want {
				t.Errorf("RunsAtStage() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFromConfig(t *testing.T) {
	h := FromConfig(config.Hook{
		ID:       "fmt",
		Entry:    "gofmt -l",
		Language: "system",
	})
	if h.ID != "fmt" || h.Entry != "gofmt -l" || h.Language != "system" {
		t.Errorf("unexpected hook: %+v", h)
	}
	if !h.ShouldPassFilenames() {
		t.Error("pass_filenames should default to true")
	}
}
