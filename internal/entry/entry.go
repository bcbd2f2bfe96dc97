// Package entry splits hook entry strings into argv.
//
// Entries in hook manifests are written as shell one-liners, so plain
// whitespace splitting breaks on quoting ("my tool" --flag='a b'). The
// shfmt parser from mvdan.cc/sh handles POSIX quoting and escaping; entries
// are parsed as a single simple command and expanded into fields without
// executing anything.
package entry

import (
	"strings"

	"mvdan.cc/sh/v3/shell"
	"mvdan.cc/sh/v3/syntax"

	"github.com/prehook/prehook/internal/errors"
)

// Split parses a hook entry string into argv. Environment variables are not
// expanded; a literal $VAR in an entry stays literal so hooks behave the
// same regardless of the caller's environment.
func Split(entry string) ([]string, error) {
	entry = strings.TrimSpace(entry)
	if entry == "" {
		return nil, errors.New("empty entry")
	}

	fields, err := shell.Fields(entry, keepLiteral)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing entry %q", entry)
	}
	if len(fields) == 0 {
		return nil, errors.Newf("entry %q expands to no command", entry)
	}
	return fields, nil
}

// keepLiteral renders unset variables back as their literal form instead of
// expanding to an empty string.
func keepLiteral(name string) string {
	return "$" + name
}

// IsWellFormed reports whether the entry parses as valid shell syntax.
// Used by validation and doctor checks without needing the split result.
func IsWellFormed(entry string) bool {
	parser := syntax.NewParser(syntax.Variant(syntax.LangPOSIX))
	_, err := parser.Parse(strings.NewReader(entry), "")
	return err == nil
}
