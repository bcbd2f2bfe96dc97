package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/prehook/prehook/internal/errors"
	"github.com/prehook/prehook/internal/git"
	"github.com/prehook/prehook/pkg/fileutil"
)

var autoupdateDryRun bool

func init() {
	autoupdateCmd.Flags().BoolVarP(&autoupdateDryRun, "dry-run", "n", false,
		"show what would change without rewriting the configuration")
	rootCmd.AddCommand(autoupdateCmd)
}

var autoupdateCmd = &cobra.Command{
	Use:   "autoupdate",
	Short: "Bump pinned revisions to the latest tags",
	Long: `Query each remote hook repository for its newest tag and rewrite the
configuration's rev pins in place. The file is edited textually so
comments and formatting survive.`,
	Args: cobra.NoArgs,
	RunE: runAutoupdate,
}

func runAutoupdate(cmd *cobra.Command, _ []string) error {
	repoRoot, err := resolveRepoRoot()
	if err != nil {
		return err
	}
	cfg, path, err := loadConfig(repoRoot)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return errors.NewSystemError(err, "cannot read configuration")
	}
	content := string(data)

	out := cmd.OutOrStdout()
	updated := 0
	for _, r := range cfg.Repos {
		if !r.IsRemote() {
			continue
		}

		latest, err := git.LatestTag(r.Repo)
		if err != nil {
			return errors.NewSystemError(errors.Wrapf(err, "querying %s", r.Repo), "")
		}
		if latest == "" || latest == r.Rev {
			fmt.Fprintf(out, "%s: already at %s\n", r.Repo, r.Rev)
			continue
		}

		rewritten, ok := bumpRev(content, r.Repo, r.Rev, latest)
		if !ok {
			return errors.NewSystemError(
				errors.Newf("cannot locate rev pin for %s in %s", r.Repo, path), "")
		}
		content = rewritten
		updated++
		fmt.Fprintf(out, "%s: %s -> %s\n", r.Repo, r.Rev, latest)
	}

	if updated == 0 || autoupdateDryRun {
		return nil
	}

	if err := fileutil.AtomicWriteFile(path, []byte(content), 0o644); err != nil {
		return errors.NewSystemError(err, "cannot rewrite configuration")
	}
	fmt.Fprintf(out, "updated %s\n", path)
	return nil
}

// bumpRev rewrites the rev pin that follows the given repo line, preserving
// the file's formatting. The same URL may appear in several entries; the
// first entry whose pin matches oldRev is rewritten. Reports whether a
// replacement happened.
func bumpRev(content, url, oldRev, newRev string) (string, bool) {
	lines := strings.Split(content, "\n")
	inRepo := false
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "- repo:") || strings.HasPrefix(trimmed, "repo:") {
			value := strings.TrimSpace(strings.TrimPrefix(strings.TrimPrefix(trimmed, "- "), "repo:"))
			inRepo = strings.Trim(value, `"'`) == url
			continue
		}
		if !inRepo || !strings.HasPrefix(trimmed, "rev:") {
			continue
		}
		// One rev line per entry; later entries for the same URL get their
		// own scan.
		inRepo = false

		value := strings.TrimSpace(strings.TrimPrefix(trimmed, "rev:"))
		if strings.Trim(value, `"'`) != oldRev {
			continue
		}
		lines[i] = strings.Replace(line, oldRev, newRev, 1)
		return strings.Join(lines, "\n"), true
	}
	return content, false
}
