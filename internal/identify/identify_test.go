package identify

import (
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func writeFile(t *testing.T, dir, name string, data []byte, perm os.FileMode) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, perm); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestTags_ByExtension(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name string
		want []string
	}{
		{"config.yaml", []string{"yaml", "text"}},
		{"config.yml", []string{"yaml", "text"}},
		{"README.md", []string{"markdown", "text"}},
		{"main.go", []string{"go", "text"}},
		{"script.py", []string{"python", "text"}},
		{"run.sh", []string{"sh", "shell", "text"}},
		{"data.json", []string{"json", "text"}},
		{"logo.png", []string{"png", "binary"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, dir, tt.name, []byte("content"), 0o644)

			tags, err := Tags(path)
			if err != nil {
				t.Fatalf("Tags() error = %v", err)
			}
			for _, want := range tt.want {
				if !slices.Contains(tags, want) {
					t.Errorf("Tags(%s) = %v, missing %q", tt.name, tags, want)
				}
			}
			if !slices.Contains(tags, TagFile) {
				t.Errorf("Tags(%s) should always include %q", tt.name, TagFile)
			}
		})
	}
}

func TestTags_ByName(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "Makefile", []byte("all:\n"), 0o644)

	tags, err := Tags(path)
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Contains(tags, "makefile") {
		t.Errorf("Tags(Makefile) = %v, missing makefile", tags)
	}
}

func TestTags_Executable(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "tool", []byte("#!/bin/sh\n"), 0o755)

	tags, err := Tags(path)
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Contains(tags, TagExecutable) {
		t.Errorf("Tags() = %v, missing executable", tags)
	}
}

func TestTags_SniffText(t *testing.T) {
	dir := t.TempDir()

	textPath := writeFile(t, dir, "noext", []byte("plain text content\n"), 0o644)
	tags, err := Tags(textPath)
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Contains(tags, TagText) {
		t.Errorf("Tags() = %v, expected text for NUL-free content", tags)
	}

	binPath := writeFile(t, dir, "blob", []byte{0x7f, 0x45, 0x4c, 0x46, 0x00, 0x01}, 0o644)
	tags, err = Tags(binPath)
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Contains(tags, TagBinary) {
		t.Errorf("Tags() = %v, expected binary for content with NUL", tags)
	}
}

func TestTags_Symlink(t *testing.T) {
	dir := t.TempDir()
	target := writeFile(t, dir, "target.txt", []byte("x"), 0o644)
	link := filepath.Join(dir, "link")
	if err := os.Symlink(target, link); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}

	tags, err := Tags(link)
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Contains(tags, TagSymlink) {
		t.Errorf("Tags() = %v, missing symlink", tags)
	}
}

func TestTags_Missing(t *testing.T) {
	_, err := Tags(filepath.Join(t.TempDir(), "nope"))
	if err == nil {
		t.Error("expected error for missing file")
	}
}

func TestTagsByName(t *testing.T) {
	tags := TagsByName("docs/guide.md")
	if !slices.Contains(tags, "markdown") {
		t.Errorf("TagsByName() = %v, missing markdown", tags)
	}

	// Unknown names are optimistically text
	tags = TagsByName("LICENSE")
	if !slices.Contains(tags, TagText) {
		t.Errorf("TagsByName() = %v, expected optimistic text tag", tags)
	}
}

func TestMatch(t *testing.T) {
	tags := []string{"file", "yaml", "text"}

	tests := []struct {
		name         string
		types        []string
		typesOr      []string
		excludeTypes []string
		want         bool
	}{
		{"no filters", nil, nil, nil, true},
		{"types all present", []string{"yaml", "text"}, nil, nil, true},
		{"types missing one", []string{"yaml", "json"}, nil, nil, false},
		{"types_or hit", nil, []string{"json", "yaml"}, nil, true},
		{"types_or miss", nil, []string{"json", "toml"}, nil, false},
		{"exclude hit", nil, nil, []string{"yaml"}, false},
		{"exclude miss", nil, nil, []string{"json"}, true},
		{"combined", []string{"text"}, []string{"yaml"}, []string{"binary"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Match(tags, tt.types, tt.typesOr, tt.excludeTypes); got != tt.want {
				t.Errorf("Match() = %v, want %v", got, tt.want)
			}
		})
	}
}
