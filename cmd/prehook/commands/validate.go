package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/prehook/prehook/internal/config"
	"github.com/prehook/prehook/internal/errors"
	"github.com/prehook/prehook/internal/manifest"
)

var validateManifests bool

func init() {
	validateCmd.Flags().BoolVar(&validateManifests, "manifests", false,
		"also resolve hook ids against cached hook repository manifests")
	rootCmd.AddCommand(validateCmd)
}

var validateCmd = &cobra.Command{
	Use:   "validate [path]",
	Short: "Validate the hook configuration",
	Long: `Parse and validate a hook configuration file without running anything.
All violations are reported at once. With no argument the configuration
is discovered the same way run discovers it.`,
	Example: `  prehook validate
  prehook validate .pre-commit-config.yaml`,
	Args: cobra.MaximumNArgs(1),
	RunE: runValidate,
}

func runValidate(cmd *cobra.Command, args []string) error {
	var path string
	if len(args) == 1 {
		path = args[0]
	} else {
		repoRoot, err := resolveRepoRoot()
		if err != nil {
			return err
		}
		if path, err = resolveConfigPath(repoRoot); err != nil {
			return err
		}
	}

	cfg, err := config.Load(path)
	if err != nil {
		return errors.NewConfigError(err)
	}
	if err := cfg.Validate(); err != nil {
		return errors.NewConfigError(err)
	}

	if validateManifests {
		if err := resolveAgainstManifests(cmd, cfg); err != nil {
			return err
		}
	}

	hooks := len(cfg.HookIDs())
	fmt.Fprintf(cmd.OutOrStdout(), "%s: valid (%d repos, %d hooks)\n", path, len(cfg.Repos), hooks)
	return nil
}

// resolveAgainstManifests checks every remote hook id against its repository
// manifest. Repositories not yet cached are reported but do not fail
// validation; run materializes them on demand.
func resolveAgainstManifests(cmd *cobra.Command, cfg *config.Config) error {
	store := newStore()
	out := cmd.OutOrStdout()

	var unresolved []error
	for _, r := range cfg.Repos {
		if !r.IsRemote() {
			continue
		}

		ent, err := store.Lookup(r.Repo, r.Rev)
		if err != nil {
			fmt.Fprintf(out, "%s @ %s: not cached, skipping manifest resolution\n", r.Repo, r.Rev)
			continue
		}
		m, err := manifest.LoadDir(ent.Path)
		if err != nil {
			return errors.NewSystemError(errors.Wrapf(err, "loading manifest for %s", r.Repo), "")
		}

		for _, h := range r.Hooks {
			if _, ok := m.Lookup(h.ID); !ok {
				unresolved = append(unresolved,
					errors.Newf("%s: hook %q not defined (available: %v)", r.Repo, h.ID, m.IDs()))
			}
		}
	}

	if len(unresolved) > 0 {
		return errors.NewConfigError(errors.Join(unresolved...))
	}
	return nil
}
