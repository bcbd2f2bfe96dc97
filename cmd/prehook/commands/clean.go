package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/prehook/prehook/internal/errors"
	"github.com/prehook/prehook/internal/repo"
)

var cleanUnused bool

func init() {
	cleanCmd.Flags().BoolVar(&cleanUnused, "unused", false,
		"remove only cache entries the current configuration no longer references")
	rootCmd.AddCommand(cleanCmd)
}

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove cached hook repositories",
	Long: `Delete clones from the hook repository cache. By default the whole
cache is removed; with --unused only entries not referenced by the
current configuration are pruned.`,
	Args: cobra.NoArgs,
	RunE: runClean,
}

func runClean(cmd *cobra.Command, _ []string) error {
	store := newStore()

	var removed int
	var err error
	if cleanUnused {
		repoRoot, rootErr := resolveRepoRoot()
		if rootErr != nil {
			return rootErr
		}
		cfg, _, cfgErr := loadConfig(repoRoot)
		if cfgErr != nil {
			return cfgErr
		}

		keep := make(map[string]bool)
		for _, r := range cfg.Repos {
			if r.IsRemote() {
				keep[repo.Key(r.Repo, r.Rev)] = true
			}
		}
		removed, err = store.Prune(keep)
	} else {
		removed, err = store.PruneAll()
	}
	if err != nil {
		return errors.NewSystemError(err, "cleaning repository cache")
	}

	fmt.Fprintf(cmd.OutOrStdout(), "removed %d cached repositories\n", removed)
	return nil
}
