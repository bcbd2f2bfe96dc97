package commands

import (
	"io"
	"os"

	"github.com/prehook/prehook/internal/config"
	"github.com/prehook/prehook/internal/errors"
	"github.com/prehook/prehook/internal/git"
	"github.com/prehook/prehook/internal/logging"
	"github.com/prehook/prehook/internal/paths"
	"github.com/prehook/prehook/internal/repo"
)

// resolveRepoRoot locates the enclosing git work tree.
func resolveRepoRoot() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", errors.NewSystemError(err, "cannot determine working directory")
	}
	root, err := git.RepoRoot(cwd)
	if err != nil {
		return "", errors.NewUserError(errors.ErrNotGitRepo, "run prehook from within a git repository")
	}
	return root, nil
}

// resolveConfigPath returns the hook configuration path, honoring --config.
func resolveConfigPath(repoRoot string) (string, error) {
	if configFlag != "" {
		if _, err := os.Stat(configFlag); err != nil {
			return "", errors.NewUserError(err, "configuration file not found")
		}
		return configFlag, nil
	}
	path, err := paths.FindConfig(repoRoot)
	if err != nil {
		return "", errors.NewUserError(err,
			"run `prehook sample-config > "+paths.ConfigFileName+"` to get started")
	}
	return path, nil
}

// loadConfig discovers, parses, and validates the hook configuration.
func loadConfig(repoRoot string) (*config.Config, string, error) {
	path, err := resolveConfigPath(repoRoot)
	if err != nil {
		return nil, "", err
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, path, errors.NewConfigError(err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, path, errors.NewConfigError(err)
	}
	return cfg, path, nil
}

// newStore opens the hook repository cache, honoring the cache_dir setting.
func newStore() *repo.Store {
	dir := ""
	if settings != nil {
		dir = settings.CacheDir
	}
	return repo.NewStore(dir)
}

// useColor decides whether command output should be colorized, combining the
// color setting with terminal detection.
func useColor(w io.Writer) bool {
	mode := "auto"
	if settings != nil && settings.Color != "" {
		mode = settings.Color
	}
	switch mode {
	case "always":
		return true
	case "never":
		return false
	default:
		return logging.SupportsColor(w)
	}
}

// defaultJobs returns the configured parallelism.
func defaultJobs() int {
	if settings != nil && settings.Jobs > 0 {
		return settings.Jobs
	}
	return 1
}
