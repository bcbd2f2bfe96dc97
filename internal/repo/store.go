// Package repo manages the cache of cloned hook repositories.
//
// Each (url, rev) pair is materialized once under the cache root, keyed by a
// content digest of the pair, and checked out at the pinned revision. A
// meta.toml file inside each entry records what it holds, so the cache can
// be listed and pruned without re-deriving keys.
package repo

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"time"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/prehook/prehook/internal/errors"
	"github.com/prehook/prehook/internal/git"
	"github.com/prehook/prehook/internal/paths"
	"github.com/prehook/prehook/pkg/fileutil"
)

// metaFileName is the per-entry metadata file.
const metaFileName = "meta.toml"

// checkoutDirName is the subdirectory holding the actual clone, keeping it
// apart from the metadata file.
const checkoutDirName = "repo"

// Meta records what a cache entry holds.
type Meta struct {
	URL      string    `toml:"url"`
	Rev      string    `toml:"rev"`
	Commit   string    `toml:"commit"`
	ClonedAt time.Time `toml:"cloned_at"`
}

// Entry is a materialized hook repository.
type Entry struct {
	Meta Meta

	// Path is the checkout directory containing the repository contents.
	Path string
}

// Store manages the cache directory of cloned hook repositories.
type Store struct {
	root string
}

// NewStore creates a store rooted at dir. If dir is empty, the default
// cache location is used.
func NewStore(dir string) *Store {
	if dir == "" {
		dir = paths.ReposCacheDir()
	}
	return &Store{root: dir}
}

// Root returns the cache root directory.
func (s *Store) Root() string {
	return s.root
}

// Key derives the cache key for a (url, rev) pair.
func Key(url, rev string) string {
	sum := sha256.Sum256([]byte(url + "@" + rev))
	return hex.EncodeToString(sum[:])[:20]
}

// Lookup returns the cache entry for (url, rev) if it is already
// materialized. Returns ErrRepoNotCached otherwise.
func (s *Store) Lookup(url, rev string) (*Entry, error) {
	entryDir := filepath.Join(s.root, Key(url, rev))
	if !dirExists(entryDir) {
		return nil, errors.WithDetailf(errors.ErrRepoNotCached, "%s @ %s", url, rev)
	}
	meta, err := readMeta(entryDir)
	if err != nil {
		// An entry without readable metadata is a partial clone; treat it
		// as absent so Ensure re-materializes it.
		return nil, errors.WithDetailf(errors.ErrRepoNotCached, "%s @ %s", url, rev)
	}
	return &Entry{Meta: *meta, Path: filepath.Join(entryDir, checkoutDirName)}, nil
}

// Ensure materializes (url, rev) in the cache, cloning and checking out if
// needed. It is idempotent; an existing entry is returned as-is.
func (s *Store) Ensure(url, rev string) (*Entry, error) {
	if entry, err := s.Lookup(url, rev); err == nil {
		return entry, nil
	}

	if err := git.ValidateURL(url); err != nil {
		return nil, err
	}
	if rev == "" {
		return nil, errors.Newf("no revision pinned for %s", url)
	}

	entryDir := filepath.Join(s.root, Key(url, rev))
	if err := paths.EnsureDir(s.root, 0o755); err != nil {
		return nil, errors.Wrap(err, "creating cache directory")
	}

	// Drop any partial entry left by an interrupted clone.
	if err := os.RemoveAll(entryDir); err != nil {
		return nil, errors.Wrap(err, "clearing partial cache entry")
	}

	checkout := filepath.Join(entryDir, checkoutDirName)
	if err := os.MkdirAll(entryDir, 0o755); err != nil {
		return nil, errors.Wrap(err, "creating cache entry")
	}

	// Clean up the partial entry on any failure past this point.
	fail := func(err error) (*Entry, error) {
		if cleanupErr := os.RemoveAll(entryDir); cleanupErr != nil {
			return nil, errors.Wrapf(err, "(cleanup also failed: %v)", cleanupErr)
		}
		return nil, err
	}

	if err := git.Clone(url, checkout); err != nil {
		return fail(err)
	}
	if err := git.Checkout(checkout, rev); err != nil {
		return fail(errors.Wrapf(err, "pinned revision %s not found in %s", rev, url))
	}

	commit, err := git.ResolveRev(checkout, "HEAD")
	if err != nil {
		return fail(err)
	}

	meta := Meta{
		URL:      url,
		Rev:      rev,
		Commit:   commit,
		ClonedAt: time.Now().UTC(),
	}
	if err := writeMeta(entryDir, meta); err != nil {
		return fail(err)
	}

	return &Entry{Meta: meta, Path: checkout}, nil
}

// List returns all materialized cache entries, in directory order.
// Entries with unreadable metadata are skipped.
func (s *Store) List() ([]*Entry, error) {
	dirents, err := os.ReadDir(s.root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "reading cache directory")
	}

	var entries []*Entry
	for _, d := range dirents {
		if !d.IsDir() {
			continue
		}
		entryDir := filepath.Join(s.root, d.Name())
		meta, err := readMeta(entryDir)
		if err != nil {
			continue
		}
		entries = append(entries, &Entry{Meta: *meta, Path: filepath.Join(entryDir, checkoutDirName)})
	}
	return entries, nil
}

// Prune removes cache entries not present in keep, a set of (url, rev)
// pairs produced by Key. It returns the number of entries removed.
func (s *Store) Prune(keep map[string]bool) (int, error) {
	dirents, err := os.ReadDir(s.root)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, errors.Wrap(err, "reading cache directory")
	}

	removed := 0
	for _, d := range dirents {
		if !d.IsDir() || keep[d.Name()] {
			continue
		}
		if err := os.RemoveAll(filepath.Join(s.root, d.Name())); err != nil {
			return removed, errors.Wrapf(err, "removing cache entry %s", d.Name())
		}
		removed++
	}
	return removed, nil
}

// PruneAll removes every cache entry. Returns the number removed.
func (s *Store) PruneAll() (int, error) {
	return s.Prune(map[string]bool{})
}

func readMeta(entryDir string) (*Meta, error) {
	data, err := fileutil.ReadFileWithLimit(filepath.Join(entryDir, metaFileName))
	if err != nil {
		return nil, err
	}
	var meta Meta
	if err := toml.Unmarshal(data, &meta); err != nil {
		return nil, errors.Wrapf(err, "parsing %s", metaFileName)
	}
	return &meta, nil
}

func writeMeta(entryDir string, meta Meta) error {
	data, err := toml.Marshal(meta)
	if err != nil {
		return errors.Wrap(err, "marshaling metadata")
	}
	return fileutil.AtomicWriteFile(filepath.Join(entryDir, metaFileName), data, 0o644)
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
