package config

import (
	"regexp"

	"github.com/prehook/prehook/internal/errors"
	"github.com/prehook/prehook/internal/git"
)

// Validate checks the well-formedness invariants of the hook configuration:
// unique hook ids within each repo entry, compilable regular expressions,
// revisions pinned on remote repos and absent on local/meta repos, and inline
// entry/language on local hooks. All violations are reported, joined into a
// single error wrapping ErrInvalidConfig.
func Validate(cfg *Config) error {
	return cfg.Validate()
}

// Validate implements the package-level Validate as a method.
func (cfg *Config) Validate() error {
	var violations []error

	report := func(format string, args ...any) {
		violations = append(violations, errors.Newf(format, args...))
	}

	if cfg.Exclude != "" {
		if _, err := regexp.Compile(cfg.Exclude); err != nil {
			report("top-level exclude is not a valid regexp: %v", err)
		}
	}

	if len(cfg.Repos) == 0 {
		report("configuration defines no repos")
	}

	for i, repo := range cfg.Repos {
		switch {
		case repo.Repo == "":
			report("repos[%d]: missing repo source", i)
		case repo.IsRemote():
			if err := git.ValidateURL(repo.Repo); err != nil {
				report("repos[%d]: %v", i, err)
			}
			if repo.Rev == "" {
				report("repos[%d] (%s): remote repos require a pinned rev", i, repo.Repo)
			}
		default:
			if repo.Rev != "" {
				report("repos[%d] (%s): rev is not allowed for %s repos", i, repo.Repo, repo.Repo)
			}
		}

		if len(repo.Hooks) == 0 {
			report("repos[%d] (%s): defines no hooks", i, repo.Repo)
		}

		seen := make(map[string]bool, len(repo.Hooks))
		for j, hook := range repo.Hooks {
			if hook.ID == "" {
				report("repos[%d].hooks[%d]: missing id", i, j)
				continue
			}
			if seen[hook.ID] {
				report("repos[%d] (%s): duplicate hook id %q", i, repo.Repo, hook.ID)
			}
			seen[hook.ID] = true

			if repo.IsLocal() {
				if hook.Entry == "" {
					report("repos[%d].hooks[%s]: local hooks require an entry", i, hook.ID)
				}
				if hook.Language == "" {
					report("repos[%d].hooks[%s]: local hooks require a language", i, hook.ID)
				}
			}

			for _, re := range []struct{ name, expr string }{
				{"files", hook.Files},
				{"exclude", hook.Exclude},
			} {
				if re.expr == "" {
					continue
				}
				if _, err := regexp.Compile(re.expr); err != nil {
					report("repos[%d].hooks[%s]: %s is not a valid regexp: %v", i, hook.ID, re.name, err)
				}
			}
		}
	}

	if len(violations) > 0 {
		return errors.Wrap(errors.ErrInvalidConfig, errors.Join(violations...).Error())
	}
	return nil
}
