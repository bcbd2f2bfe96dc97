package config

import (
	"gopkg.in/yaml.v3"

	"github.com/prehook/prehook/internal/errors"
	"github.com/prehook/prehook/pkg/fileutil"
)

// Repo source values with special meaning.
const (
	// LocalRepo marks a repo entry whose hooks are defined inline in the
	// configuration rather than resolved from a remote manifest.
	LocalRepo = "local"

	// MetaRepo marks a repo entry whose hooks are prehook's built-in
	// self-checks.
	MetaRepo = "meta"
)

// StagePreCommit is the hook stage prehook executes. Other stage values are
// accepted in configuration and skipped at run time.
const StagePreCommit = "pre-commit"

// Config is the top-level hook configuration.
type Config struct {
	// FailFast stops the run at the first failing hook.
	FailFast bool `yaml:"fail_fast,omitempty"`

	// Exclude is a regular expression; matching paths are skipped by every hook.
	Exclude string `yaml:"exclude,omitempty"`

	// DefaultStages applies to hooks that do not declare stages themselves.
	DefaultStages []string `yaml:"default_stages,omitempty"`

	// Repos lists hook source repositories in execution order.
	Repos []Repo `yaml:"repos"`
}

// Repo describes one hook source: a remote git repository pinned at a
// revision, or the special sources "local" and "meta".
type Repo struct {
	// Repo is a git URL, "local", or "meta".
	Repo string `yaml:"repo"`

	// Rev is the pinned revision tag. Required for remote repos.
	Rev string `yaml:"rev,omitempty"`

	// Hooks selects and configures hooks from this source.
	Hooks []Hook `yaml:"hooks"`
}

// IsLocal reports whether the repo entry defines its hooks inline.
func (r Repo) IsLocal() bool { return r.Repo == LocalRepo }

// IsMeta reports whether the repo entry uses prehook's built-in hooks.
func (r Repo) IsMeta() bool { return r.Repo == MetaRepo }

// IsRemote reports whether the repo entry references a git repository.
func (r Repo) IsRemote() bool { return !r.IsLocal() && !r.IsMeta() }

// Hook configures a single hook. For remote repos, unset fields fall back to
// the hook's manifest definition; set fields override it.
type Hook struct {
	// ID identifies the hook within its source repository.
	ID string `yaml:"id"`

	// Name is the human-readable label shown in run output.
	Name string `yaml:"name,omitempty"`

	// Entry is the command to execute, shell-parsed into argv.
	Entry string `yaml:"entry,omitempty"`

	// Language selects how the entry is executed (system, script, fail).
	Language string `yaml:"language,omitempty"`

	// Args are extra arguments inserted before filenames.
	Args []string `yaml:"args,omitempty"`

	// Files is a regular expression; only matching paths are passed.
	Files string `yaml:"files,omitempty"`

	// Exclude is a regular expression; matching paths are dropped.
	Exclude string `yaml:"exclude,omitempty"`

	// Types requires every listed type tag (AND).
	Types []string `yaml:"types,omitempty"`

	// TypesOr requires at least one listed type tag (OR).
	TypesOr []string `yaml:"types_or,omitempty"`

	// ExcludeTypes drops files carrying any listed type tag.
	ExcludeTypes []string `yaml:"exclude_types,omitempty"`

	// Stages restricts the hook to the listed stages.
	Stages []string `yaml:"stages,omitempty"`

	// PassFilenames controls whether filenames are appended to the command.
	// Nil means "not set here"; the manifest value (default true) applies.
	PassFilenames *bool `yaml:"pass_filenames,omitempty"`

	// AlwaysRun executes the hook even when no files match.
	AlwaysRun bool `yaml:"always_run,omitempty"`

	// RequireSerial disables parallel batch execution for this hook.
	RequireSerial bool `yaml:"require_serial,omitempty"`

	// Verbose forces the hook's output to be shown even on success.
	Verbose bool `yaml:"verbose,omitempty"`
}

// HookIDs returns every configured hook id in configuration order.
func (c *Config) HookIDs() []string {
	var ids []string
	for _, r := range c.Repos {
		for _, h := range r.Hooks {
			ids = append(ids, h.ID)
		}
	}
	return ids
}

// Load reads and parses the hook configuration at path.
// The returned configuration is parsed but not yet validated; call Validate.
func Load(path string) (*Config, error) {
	data, err := fileutil.ReadFileWithLimit(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading hook configuration")
	}
	return Parse(data)
}

// Parse parses hook configuration from raw YAML.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(errors.ErrInvalidConfig, err.Error())
	}
	return &cfg, nil
}
