// Package git provides Git operation wrappers for repository cloning,
// revision checkout, and changed-file discovery.
package git

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"
)

// scpLikePattern matches scp-style git URLs such as git@github.com:user/repo.git.
var scpLikePattern = regexp.MustCompile(`^[a-zA-Z0-9._-]+@[a-zA-Z0-9._-]+:[^ ]+\.git$`)

// knownSchemes are URL schemes accepted for hook repositories.
var knownSchemes = []string{"https://", "http://", "ssh://", "git://", "file://"}

// IsURL returns true if s looks like a git repository URL.
func IsURL(s string) bool {
	return ValidateURL(s) == nil
}

// ValidateURL checks that s is a safe, well-formed git repository URL.
// It rejects empty strings, option-like strings (argument injection), the
// ext:: transport, and unknown schemes.
func ValidateURL(s string) error {
	if s == "" {
		return errors.New("empty repository URL")
	}
	if strings.HasPrefix(s, "-") {
		return errors.Newf("repository URL must not start with '-': %s", s)
	}
	if strings.HasPrefix(s, "ext::") {
		return errors.New("ext:: transport is not allowed")
	}
	for _, scheme := range knownSchemes {
		if strings.HasPrefix(s, scheme) {
			return nil
		}
	}
	if scpLikePattern.MatchString(s) {
		return nil
	}
	return errors.Newf("unrecognized repository URL: %s", s)
}

// Clone clones a git repository from url to dest. Output is streamed to
// os.Stdout and os.Stderr. Stdin is connected to os.Stdin to support
// interactive authentication (e.g., SSH passphrase, credentials).
func Clone(url, dest string) error {
	cmd := exec.Command("git", "clone", "--quiet", url, dest)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return errors.Wrap(err, "git clone failed")
	}
	return nil
}

// Checkout checks out the given revision in repoPath.
func Checkout(repoPath, rev string) error {
	out, err := output(repoPath, "checkout", "--quiet", rev)
	if err != nil {
		return errors.Wrapf(err, "git checkout %s failed: %s", rev, out)
	}
	return nil
}

// ResolveRev returns the commit hash the given revision points at in repoPath.
func ResolveRev(repoPath, rev string) (string, error) {
	out, err := output(repoPath, "rev-parse", rev+"^{commit}")
	if err != nil {
		return "", errors.Wrapf(err, "resolving revision %s", rev)
	}
	return strings.TrimSpace(out), nil
}

// LatestTag returns the most recent version tag of the remote repository at
// url, using `git ls-remote --tags`. Peeled tag entries (^{}) are ignored.
// Tags are compared by version-aware ordering via `sort.Slice` on split
// numeric components, falling back to lexical comparison.
func LatestTag(url string) (string, error) {
	cmd := exec.Command("git", "ls-remote", "--tags", "--refs", url)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", errors.Wrapf(err, "git ls-remote failed: %s", strings.TrimSpace(stderr.String()))
	}

	var tags []string
	for _, line := range strings.Split(stdout.String(), "\n") {
		fields := strings.Fields(line)
		if len(fields) != 2 {
			continue
		}
		tag := strings.TrimPrefix(fields[1], "refs/tags/")
		if tag != "" {
			tags = append(tags, tag)
		}
	}
	if len(tags) == 0 {
		return "", errors.Newf("no tags found at %s", url)
	}

	sort.Slice(tags, func(i, j int) bool { return versionLess(tags[i], tags[j]) })
	return tags[len(tags)-1], nil
}

// versionLess compares two tag names component-wise, treating runs of digits
// numerically so that v1.10.0 sorts after v1.9.0.
func versionLess(a, b string) bool {
	as := splitVersion(a)
	bs := splitVersion(b)
	for i := 0; i < len(as) && i < len(bs); i++ {
		if as[i] == bs[i] {
			continue
		}
		an, aok := atoi(as[i])
		bn, bok := atoi(bs[i])
		if aok && bok {
			return an < bn
		}
		return as[i] < bs[i]
	}
	return len(as) < len(bs)
}

func splitVersion(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == '.' || r == '-' || r == '_'
	})
}

func atoi(s string) (int, bool) {
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
		n = n*10 + int(r-'0')
	}
	return n, len(s) > 0
}

// RepoRoot returns the top-level directory of the git repository containing dir.
func RepoRoot(dir string) (string, error) {
	out, err := output(dir, "rev-parse", "--show-toplevel")
	if err != nil {
		return "", errors.Wrap(err, "not inside a git repository")
	}
	return strings.TrimSpace(out), nil
}

// StagedFiles returns paths staged for commit in the repository at repoRoot,
// relative to the repository root. Deleted files are excluded since hooks
// cannot operate on them.
func StagedFiles(repoRoot string) ([]string, error) {
	out, err := output(repoRoot, "diff", "--cached", "--name-only", "--diff-filter=ACMRTUXB", "-z")
	if err != nil {
		return nil, errors.Wrap(err, "listing staged files")
	}
	return splitNul(out), nil
}

// TrackedFiles returns all files tracked by the repository at repoRoot.
func TrackedFiles(repoRoot string) ([]string, error) {
	out, err := output(repoRoot, "ls-files", "-z")
	if err != nil {
		return nil, errors.Wrap(err, "listing tracked files")
	}
	return splitNul(out), nil
}

// ModifiedFiles returns unstaged modifications in the working tree. Hooks
// that fix files in place show up here after a run.
func ModifiedFiles(repoRoot string) ([]string, error) {
	out, err := output(repoRoot, "diff", "--name-only", "-z")
	if err != nil {
		return nil, errors.Wrap(err, "listing modified files")
	}
	return splitNul(out), nil
}

// Diff returns the unstaged unified diff for the given paths. With no paths,
// the full working tree diff is returned.
func Diff(repoRoot string, paths ...string) (string, error) {
	args := append([]string{"diff", "--no-color"}, paths...)
	out, err := output(repoRoot, args...)
	if err != nil {
		return "", errors.Wrap(err, "computing diff")
	}
	return out, nil
}

// ValidateRemote checks if repoPath is a valid git repository by verifying
// the existence of a .git directory.
func ValidateRemote(repoPath string) error {
	gitDir := filepath.Join(repoPath, ".git")
	info, err := os.Stat(gitDir)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.Newf("not a git repository: %s", repoPath)
		}
		return errors.Wrap(err, "checking git directory")
	}
	if !info.IsDir() {
		return errors.Newf(".git is not a directory: %s", gitDir)
	}
	return nil
}

// output runs git with the given arguments in dir and returns its stdout.
func output(dir string, args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return stdout.String(), errors.Newf("git %s: %s", strings.Join(args, " "), msg)
	}
	return stdout.String(), nil
}

func splitNul(out string) []string {
	var files []string
	for _, f := range strings.Split(out, "\x00") {
		if f != "" {
			files = append(files, f)
		}
	}
	return files
}
