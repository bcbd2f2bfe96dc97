package runner

import (
	"path/filepath"
	"regexp"

	"github.com/prehook/prehook/internal/errors"
	"github.com/prehook/prehook/internal/git"
	"github.com/prehook/prehook/internal/identify"
	"github.com/prehook/prehook/internal/manifest"
)

// FileSource selects the candidate file set for a run.
type FileSource int

const (
	// SourceStaged uses files staged for commit (the default).
	SourceStaged FileSource = iota

	// SourceAll uses every tracked file.
	SourceAll

	// SourceExplicit uses files named on the command line.
	SourceExplicit
)

// Candidates returns the candidate file list for the repository at repoRoot,
// already filtered by the configuration's global exclude pattern. Paths are
// relative to repoRoot.
func Candidates(repoRoot string, source FileSource, explicit []string, globalExclude string) ([]string, error) {
	var files []string
	var err error

	switch source {
	case SourceAll:
		files, err = git.TrackedFiles(repoRoot)
	case SourceExplicit:
		files = relativize(repoRoot, explicit)
	default:
		files, err = git.StagedFiles(repoRoot)
	}
	if err != nil {
		return nil, err
	}

	if globalExclude == "" {
		return files, nil
	}

	re, err := regexp.Compile(globalExclude)
	if err != nil {
		return nil, errors.Wrap(err, "compiling global exclude")
	}

	kept := files[:0]
	for _, f := range files {
		if !re.MatchString(f) {
			kept = append(kept, f)
		}
	}
	return kept, nil
}

// relativize converts explicit paths to repo-relative form where possible.
func relativize(repoRoot string, paths []string) []string {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		if filepath.IsAbs(p) {
			if rel, err := filepath.Rel(repoRoot, p); err == nil {
				p = rel
			}
		}
		out = append(out, filepath.ToSlash(p))
	}
	return out
}

// FilterForHook narrows candidates to the files a hook should receive,
// applying the hook's files/exclude patterns and type filters. Type tags are
// computed against the real files under repoRoot; files that vanished from
// the working tree are dropped.
func FilterForHook(repoRoot string, candidates []string, h manifest.Hook) ([]string, error) {
	var filesRe, excludeRe *regexp.Regexp
	var err error

	if h.Files != "" {
		if filesRe, err = regexp.Compile(h.Files); err != nil {
			return nil, errors.Wrapf(err, "hook %s: files pattern", h.ID)
		}
	}
	if h.Exclude != "" {
		if excludeRe, err = regexp.Compile(h.Exclude); err != nil {
			return nil, errors.Wrapf(err, "hook %s: exclude pattern", h.ID)
		}
	}

	hasTypeFilter := len(h.Types) > 0 || len(h.TypesOr) > 0 || len(h.ExcludeTypes) > 0

	var out []string
	for _, f := range candidates {
		if filesRe != nil && !filesRe.MatchString(f) {
			continue
		}
		if excludeRe != nil && excludeRe.MatchString(f) {
			continue
		}
		if hasTypeFilter {
			tags, err := identify.Tags(filepath.Join(repoRoot, f))
			if err != nil {
				continue
			}
			if !identify.Match(tags, h.Types, h.TypesOr, h.ExcludeTypes) {
				continue
			}
		}
		out = append(out, f)
	}
	return out, nil
}
