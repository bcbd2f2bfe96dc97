package paths

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"

	"github.com/prehook/prehook/internal/errors"
)

// AppName is the directory name used under the XDG base directories.
const AppName = "prehook"

// ConfigFileName is the primary hook configuration file name.
const ConfigFileName = ".prehook.yaml"

// CompatConfigFileName is the pre-commit compatible configuration file name,
// accepted so existing configurations load unchanged.
const CompatConfigFileName = ".pre-commit-config.yaml"

// ManifestFileName is the hook manifest file expected at the root of every
// remote hook repository.
const ManifestFileName = ".pre-commit-hooks.yaml"

// Sentinel errors for path resolution.
var (
	// ErrHomeDirNotFound indicates the user's home directory could not be determined.
	ErrHomeDirNotFound = errors.New("home directory not found")

	// ErrConfigNotFound indicates no hook configuration file exists in the project.
	ErrConfigNotFound = errors.New("hook configuration not found")
)

// DefaultDirPerm is the default permission for newly created directories (private).
const DefaultDirPerm = 0o700

// EnsureDir creates the directory and any necessary parents with specified permissions.
// If perm is 0, DefaultDirPerm (0700) is used.
// This function is idempotent; it returns nil if the directory already exists.
func EnsureDir(path string, perm os.FileMode) error {
	if perm == 0 {
		perm = DefaultDirPerm
	}
	return os.MkdirAll(path, perm)
}

// Home returns the user's home directory, or an empty string if it cannot
// be determined. Use ResolveHome for proper error handling.
func Home() string {
	h, _ := ResolveHome()
	return h
}

// ResolveHome returns the user's home directory.
// Returns ErrHomeDirNotFound if the directory cannot be determined.
func ResolveHome() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(ErrHomeDirNotFound, err.Error())
	}
	return home, nil
}

// ConfigHome returns the XDG config home directory.
// On Linux: ~/.config
// On macOS: ~/Library/Application Support
// On Windows: %LOCALAPPDATA%
func ConfigHome() string {
	return xdg.ConfigHome
}

// CacheHome returns the XDG cache home directory.
// On Linux: ~/.cache
// On macOS: ~/Library/Caches
// On Windows: %LOCALAPPDATA%\cache
func CacheHome() string {
	return xdg.CacheHome
}

// ReposCacheDir returns the directory holding cached hook repository clones.
// Returns: <CacheHome>/prehook/repos/
func ReposCacheDir() string {
	return filepath.Join(CacheHome(), AppName, "repos")
}

// FindConfig locates the hook configuration file starting from dir.
// It prefers ConfigFileName and falls back to CompatConfigFileName.
// Returns ErrConfigNotFound if neither exists.
func FindConfig(dir string) (string, error) {
	for _, name := range []string{ConfigFileName, CompatConfigFileName} {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, nil
		}
	}
	return "", errors.WithDetail(ErrConfigNotFound, dir)
}

// GitHooksDir returns the hooks directory for the git repository rooted at
// repoRoot. The directory is not required to exist.
func GitHooksDir(repoRoot string) string {
	return filepath.Join(repoRoot, ".git", "hooks")
}
