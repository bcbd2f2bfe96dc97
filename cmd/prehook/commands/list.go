package commands

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/prehook/prehook/internal/config"
)

var listJSON bool

func init() {
	listCmd.Flags().BoolVar(&listJSON, "json", false,
		"output hooks as JSON")
	rootCmd.AddCommand(listCmd)
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the configured hooks",
	Long: `List every hook the configuration declares, grouped by source
repository. Remote repositories are shown with their pinned revision.`,
	Args: cobra.NoArgs,
	RunE: runList,
}

// listedHook is the JSON shape of one configured hook.
type listedHook struct {
	ID       string `json:"id"`
	Name     string `json:"name,omitempty"`
	Repo     string `json:"repo"`
	Rev      string `json:"rev,omitempty"`
	Language string `json:"language,omitempty"`
	Files    string `json:"files,omitempty"`
}

func runList(cmd *cobra.Command, _ []string) error {
	repoRoot, err := resolveRepoRoot()
	if err != nil {
		return err
	}
	cfg, _, err := loadConfig(repoRoot)
	if err != nil {
		return err
	}

	if listJSON {
		return listAsJSON(cmd, cfg)
	}

	out := cmd.OutOrStdout()
	for _, r := range cfg.Repos {
		if r.Rev != "" {
			fmt.Fprintf(out, "%s @ %s\n", r.Repo, r.Rev)
		} else {
			fmt.Fprintf(out, "%s\n", r.Repo)
		}

		w := tabwriter.NewWriter(out, 2, 4, 2, ' ', 0)
		for _, h := range r.Hooks {
			name := h.Name
			if name == "" {
				name = h.ID
			}
			fmt.Fprintf(w, "  %s\t%s\n", h.ID, name)
		}
		w.Flush()
	}
	return nil
}

func listAsJSON(cmd *cobra.Command, cfg *config.Config) error {
	var hooks []listedHook
	for _, r := range cfg.Repos {
		for _, h := range r.Hooks {
			hooks = append(hooks, listedHook{
				ID:       h.ID,
				Name:     h.Name,
				Repo:     r.Repo,
				Rev:      r.Rev,
				Language: h.Language,
				Files:    h.Files,
			})
		}
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(hooks)
}
