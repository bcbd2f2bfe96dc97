package doctor

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/prehook/prehook/internal/config"
	"github.com/prehook/prehook/internal/entry"
	"github.com/prehook/prehook/internal/errors"
	"github.com/prehook/prehook/internal/manifest"
	"github.com/prehook/prehook/internal/paths"
	"github.com/prehook/prehook/internal/repo"
)

// GitCheck verifies that git is available and the working directory is
// inside a repository.
type GitCheck struct {
	Dir string
}

var _ Check = (*GitCheck)(nil)

// NewGitCheck creates a git availability check rooted at dir.
func NewGitCheck(dir string) *GitCheck {
	return &GitCheck{Dir: dir}
}

func (c *GitCheck) Name() string     { return "git" }
func (c *GitCheck) Category() string { return "environment" }

// Run executes the git diagnostic check.
func (c *GitCheck) Run() *CheckResult {
	result := &CheckResult{Name: c.Name(), Category: c.Category()}

	gitPath, err := exec.LookPath("git")
	if err != nil {
		result.Status = SeverityError
		result.Message = "git not found on PATH"
		result.FixHint = "install git and make sure it is on your PATH"
		return result
	}

	cmd := exec.Command(gitPath, "rev-parse", "--show-toplevel")
	cmd.Dir = c.Dir
	out, err := cmd.Output()
	if err != nil {
		result.Status = SeverityError
		result.Message = "not inside a git repository"
		result.FixHint = "run prehook from within a git work tree"
		return result
	}

	result.Status = SeverityPass
	result.Message = "git available"
	result.Details = map[string]any{
		"path":      gitPath,
		"repo_root": strings.TrimSpace(string(out)),
	}
	return result
}

// ConfigCheck verifies that the hook configuration parses and validates.
type ConfigCheck struct {
	Dir string
}

var _ Check = (*ConfigCheck)(nil)

// NewConfigCheck creates a configuration check rooted at dir.
func NewConfigCheck(dir string) *ConfigCheck {
	return &ConfigCheck{Dir: dir}
}

func (c *ConfigCheck) Name() string     { return "config" }
func (c *ConfigCheck) Category() string { return "config" }

// Run executes the configuration diagnostic check.
func (c *ConfigCheck) Run() *CheckResult {
	result := &CheckResult{Name: c.Name(), Category: c.Category()}

	path, err := paths.FindConfig(c.Dir)
	if err != nil {
		result.Status = SeverityError
		result.Message = "no hook configuration found"
		result.FixHint = "run `prehook sample-config > " + paths.ConfigFileName + "` to get started"
		return result
	}

	cfg, err := config.Load(path)
	if err != nil {
		result.Status = SeverityError
		result.Message = fmt.Sprintf("%s does not parse", filepath.Base(path))
		result.Details = map[string]any{"error": err.Error()}
		return result
	}
	if err := cfg.Validate(); err != nil {
		result.Status = SeverityError
		result.Message = fmt.Sprintf("%s is invalid", filepath.Base(path))
		result.Details = map[string]any{"error": err.Error()}
		return result
	}

	hooks := 0
	var exotic []string
	for _, r := range cfg.Repos {
		hooks += len(r.Hooks)
		for _, h := range r.Hooks {
			switch h.Language {
			case "", manifest.LanguageSystem, manifest.LanguageScript, manifest.LanguageFail:
			default:
				exotic = append(exotic, fmt.Sprintf("%s (%s)", h.ID, h.Language))
			}
		}
	}

	if len(exotic) > 0 {
		result.Status = SeverityWarning
		result.Message = "some hooks declare languages that run as plain system commands"
		result.Details = map[string]any{"hooks": exotic}
		result.FixHint = "make sure the tools those hooks invoke are installed on PATH"
		return result
	}

	result.Status = SeverityPass
	result.Message = fmt.Sprintf("%s valid (%d repos, %d hooks)", filepath.Base(path), len(cfg.Repos), hooks)
	return result
}

// ToolsCheck verifies that the executables local hooks invoke are on PATH.
type ToolsCheck struct {
	Config *config.Config
}

var _ Check = (*ToolsCheck)(nil)

// NewToolsCheck creates a tool availability check for the given configuration.
// A nil configuration yields an informational result.
func NewToolsCheck(cfg *config.Config) *ToolsCheck {
	return &ToolsCheck{Config: cfg}
}

func (c *ToolsCheck) Name() string     { return "tools" }
func (c *ToolsCheck) Category() string { return "environment" }

// Run executes the tool availability diagnostic check.
func (c *ToolsCheck) Run() *CheckResult {
	result := &CheckResult{Name: c.Name(), Category: c.Category()}

	if c.Config == nil {
		result.Status = SeverityInfo
		result.Message = "no configuration loaded, skipping tool checks"
		return result
	}

	var missing []string
	checked := 0
	for _, r := range c.Config.Repos {
		if !r.IsLocal() {
			continue
		}
		for _, h := range r.Hooks {
			if h.Language == manifest.LanguageFail || h.Entry == "" {
				continue
			}
			argv, err := entry.Split(h.Entry)
			if err != nil {
				missing = append(missing, fmt.Sprintf("%s (malformed entry)", h.ID))
				continue
			}
			checked++
			if _, err := exec.LookPath(argv[0]); err != nil {
				missing = append(missing, fmt.Sprintf("%s (%s)", h.ID, argv[0]))
			}
		}
	}

	if len(missing) > 0 {
		result.Status = SeverityWarning
		result.Message = fmt.Sprintf("%d hook tool(s) not found on PATH", len(missing))
		result.Details = map[string]any{"missing": missing}
		result.FixHint = "install the missing tools or adjust the hook entries"
		return result
	}

	result.Status = SeverityPass
	result.Message = fmt.Sprintf("all %d local hook tools found", checked)
	return result
}

// CacheCheck verifies that remote hook repositories are materialized in the
// local store.
type CacheCheck struct {
	Config *config.Config
	Store  *repo.Store
}

var _ Check = (*CacheCheck)(nil)

// NewCacheCheck creates a repository cache check.
func NewCacheCheck(cfg *config.Config, store *repo.Store) *CacheCheck {
	return &CacheCheck{Config: cfg, Store: store}
}

func (c *CacheCheck) Name() string     { return "repo-cache" }
func (c *CacheCheck) Category() string { return "cache" }

// Run executes the repository cache diagnostic check.
func (c *CacheCheck) Run() *CheckResult {
	result := &CheckResult{Name: c.Name(), Category: c.Category()}

	if c.Config == nil {
		result.Status = SeverityInfo
		result.Message = "no configuration loaded, skipping cache checks"
		return result
	}

	var missing []string
	remote := 0
	for _, r := range c.Config.Repos {
		if !r.IsRemote() {
			continue
		}
		remote++
		if _, err := c.Store.Lookup(r.Repo, r.Rev); errors.Is(err, errors.ErrRepoNotCached) {
			missing = append(missing, fmt.Sprintf("%s@%s", r.Repo, r.Rev))
		}
	}

	switch {
	case remote == 0:
		result.Status = SeverityInfo
		result.Message = "no remote hook repositories configured"
	case len(missing) > 0:
		result.Status = SeverityWarning
		result.Message = fmt.Sprintf("%d of %d remote repositories not cached", len(missing), remote)
		result.Details = map[string]any{"missing": missing}
		result.FixHint = "run `prehook run` to clone them on demand"
	default:
		result.Status = SeverityPass
		result.Message = fmt.Sprintf("all %d remote repositories cached", remote)
	}
	return result
}

// InstallCheck verifies that the git pre-commit hook shim is installed.
type InstallCheck struct {
	RepoRoot string
}

var _ Check = (*InstallCheck)(nil)

// NewInstallCheck creates a hook installation check for the repository at
// repoRoot.
func NewInstallCheck(repoRoot string) *InstallCheck {
	return &InstallCheck{RepoRoot: repoRoot}
}

func (c *InstallCheck) Name() string     { return "hook-installed" }
func (c *InstallCheck) Category() string { return "install" }

// Run executes the installation diagnostic check.
func (c *InstallCheck) Run() *CheckResult {
	result := &CheckResult{Name: c.Name(), Category: c.Category()}

	hookPath := filepath.Join(paths.GitHooksDir(c.RepoRoot), "pre-commit")
	data, err := os.ReadFile(hookPath)
	switch {
	case os.IsNotExist(err):
		result.Status = SeverityWarning
		result.Message = "no pre-commit hook installed"
		result.FixHint = "run `prehook install`"
	case err != nil:
		result.Status = SeverityError
		result.Message = "cannot read pre-commit hook"
		result.Details = map[string]any{"error": err.Error()}
	case !strings.Contains(string(data), "prehook"):
		result.Status = SeverityWarning
		result.Message = "pre-commit hook exists but was not installed by prehook"
		result.Details = map[string]any{"path": hookPath}
		result.FixHint = "run `prehook install --force` to replace it"
	default:
		result.Status = SeverityPass
		result.Message = "pre-commit hook installed"
		result.Details = map[string]any{"path": hookPath}
	}
	return result
}
