// Package identify computes type tags for files.
//
// Tags drive the types, types_or, and exclude_types hook filters. A file
// always carries the structural tags ("file", plus "symlink" or "executable"
// where applicable) and, for regular files, content tags derived from its
// extension or well-known name ("yaml", "markdown", "python", ...). Files
// with no recognized extension are probed for a NUL byte to distinguish
// "text" from "binary".
package identify

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Structural tags.
const (
	TagFile       = "file"
	TagSymlink    = "symlink"
	TagExecutable = "executable"
	TagText       = "text"
	TagBinary     = "binary"
)

// extensionTags maps lowercase file extensions (without the dot) to their
// type tags. Every entry implies "text" unless listed in binaryExtensions.
var extensionTags = map[string][]string{
	"bash":       {"bash", "shell"},
	"c":          {"c"},
	"cc":         {"c++"},
	"cfg":        {"ini"},
	"cjs":        {"javascript"},
	"cpp":        {"c++"},
	"cs":         {"c#"},
	"css":        {"css"},
	"csv":        {"csv"},
	"dockerfile": {"dockerfile"},
	"go":         {"go"},
	"h":          {"c", "header"},
	"hpp":        {"c++", "header"},
	"html":       {"html"},
	"ini":        {"ini"},
	"java":       {"java"},
	"js":         {"javascript"},
	"json":       {"json"},
	"jsx":        {"jsx", "javascript"},
	"ksh":        {"ksh", "shell"},
	"md":         {"markdown"},
	"mjs":        {"javascript"},
	"proto":      {"proto"},
	"py":         {"python"},
	"pyi":        {"pyi", "python"},
	"rb":         {"ruby"},
	"rs":         {"rust"},
	"sh":         {"sh", "shell"},
	"sql":        {"sql"},
	"svg":        {"svg", "xml"},
	"tf":         {"terraform"},
	"toml":       {"toml"},
	"ts":         {"ts"},
	"tsx":        {"tsx", "ts"},
	"txt":        {"plain-text"},
	"xml":        {"xml"},
	"yaml":       {"yaml"},
	"yml":        {"yaml"},
	"zsh":        {"zsh", "shell"},
}

// binaryExtensions are recognized extensions whose content is not text.
var binaryExtensions = map[string]bool{
	"gif":  true,
	"gz":   true,
	"ico":  true,
	"jar":  true,
	"jpeg": true,
	"jpg":  true,
	"pdf":  true,
	"png":  true,
	"so":   true,
	"tar":  true,
	"webp": true,
	"whl":  true,
	"zip":  true,
}

// nameTags maps exact file names to type tags.
var nameTags = map[string][]string{
	"Dockerfile":     {"dockerfile"},
	"Makefile":       {"makefile"},
	"makefile":       {"makefile"},
	"Gemfile":        {"ruby"},
	"Rakefile":       {"ruby"},
	"go.mod":         {"go-mod"},
	"go.sum":         {"go-sum"},
	".gitignore":     {"gitignore"},
	".gitattributes": {"gitattributes"},
}

// sniffLen bounds how much of a file is read to decide text vs binary.
const sniffLen = 1024

// Tags returns the type tags for the file at path. The path must exist;
// tags reflect the actual file on disk (mode bits, symlink status).
func Tags(path string) ([]string, error) {
	info, err := os.Lstat(path)
	if err != nil {
		return nil, err
	}

	if info.Mode()&os.ModeSymlink != 0 {
		return []string{TagSymlink}, nil
	}
	if info.IsDir() {
		return []string{"directory"}, nil
	}

	tags := []string{TagFile}
	if info.Mode().Perm()&0o111 != 0 {
		tags = append(tags, TagExecutable)
	} else {
		tags = append(tags, "non-executable")
	}

	named, text := tagsByName(filepath.Base(path))
	if named == nil {
		// Unknown extension: sniff content.
		text = looksLikeText(path)
	}
	tags = append(tags, named...)
	if text {
		tags = append(tags, TagText)
	} else {
		tags = append(tags, TagBinary)
	}
	return tags, nil
}

// TagsByName computes tags from the file name alone, without touching the
// filesystem. Files whose type cannot be determined by name are tagged
// "text" optimistically. Useful when classifying paths that may not exist
// locally (e.g. listings from git).
func TagsByName(name string) []string {
	tags := []string{TagFile}
	named, text := tagsByName(filepath.Base(name))
	if named == nil {
		text = true
	}
	tags = append(tags, named...)
	if text {
		tags = append(tags, TagText)
	} else {
		tags = append(tags, TagBinary)
	}
	return tags
}

// tagsByName returns the name-derived tags and whether they imply text
// content. A nil slice means the name is unrecognized.
func tagsByName(base string) (tags []string, text bool) {
	if t, ok := nameTags[base]; ok {
		return t, true
	}

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(base), "."))
	if ext == "" {
		return nil, false
	}
	if t, ok := extensionTags[ext]; ok {
		return t, true
	}
	if binaryExtensions[ext] {
		return []string{ext}, false
	}
	return nil, false
}

// looksLikeText reports whether the first bytes of the file contain no NUL.
// Unreadable files are treated as binary.
func looksLikeText(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	buf := make([]byte, sniffLen)
	n, err := f.Read(buf)
	if err != nil && err != io.EOF {
		return false
	}
	return !bytes.ContainsRune(buf[:n], 0)
}

// Match reports whether a file's tags satisfy the given filters:
// all of types (AND), any of typesOr (OR), and none of excludeTypes.
// Empty filters match everything.
func Match(tags, types, typesOr, excludeTypes []string) bool {
	set := make(map[string]bool, len(tags))
	for _, t := range tags {
		set[t] = true
	}

	for _, t := range types {
		if !set[t] {
			return false
		}
	}

	if len(typesOr) > 0 {
		any := false
		for _, t := range typesOr {
			if set[t] {
				any = true
				break
			}
		}
		if !any {
			return false
		}
	}

	for _, t := range excludeTypes {
		if set[t] {
			return false
		}
	}
	return true
}
