package commands

import (
	"context"
	"time"

	"github.com/ktr0731/go-fuzzyfinder"
	"github.com/spf13/cobra"

	"github.com/prehook/prehook/internal/config"
	"github.com/prehook/prehook/internal/errors"
	"github.com/prehook/prehook/internal/logging"
	"github.com/prehook/prehook/internal/runner"
)

var (
	runAllFiles   bool
	runFiles      []string
	runFailFast   bool
	runJobs       int
	runShowDiff   bool
	runTimeout    time.Duration
	runSelectHook bool
)

func init() {
	runCmd.Flags().BoolVarP(&runAllFiles, "all-files", "a", false,
		"run against every tracked file instead of staged files")
	runCmd.Flags().StringSliceVar(&runFiles, "files", nil,
		"run against the given files only")
	runCmd.Flags().BoolVar(&runFailFast, "fail-fast", false,
		"stop at the first failing hook")
	runCmd.Flags().IntVarP(&runJobs, "jobs", "j", 0,
		"parallel file batches per hook (default: jobs setting)")
	runCmd.Flags().BoolVar(&runShowDiff, "show-diff-on-failure", false,
		"print the changes made by hooks that modified files")
	runCmd.Flags().DurationVar(&runTimeout, "timeout", 0,
		"per-hook execution timeout (default 5m)")
	runCmd.Flags().BoolVar(&runSelectHook, "select", false,
		"pick a single hook interactively")
	rootCmd.AddCommand(runCmd)
}

var runCmd = &cobra.Command{
	Use:   "run [hook-id]",
	Short: "Run hooks against the commit's files",
	Long: `Run the configured hooks. By default hooks run against files staged
for commit; use --all-files for the whole tree or --files for an
explicit list. Naming a hook id runs only that hook.

The command exits 0 when every hook passes, 1 when any hook fails or
modifies files, and 2 on setup problems.`,
	Example: `  prehook run
  prehook run gitleaks
  prehook run --all-files --show-diff-on-failure
  prehook run --files main.go --files docs/README.md`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRun,
}

func runRun(cmd *cobra.Command, args []string) error {
	repoRoot, err := resolveRepoRoot()
	if err != nil {
		return err
	}
	cfg, _, err := loadConfig(repoRoot)
	if err != nil {
		return err
	}

	hookID := ""
	if len(args) == 1 {
		hookID = args[0]
	}
	if runSelectHook {
		if hookID != "" {
			return errors.NewUserError(nil, "--select cannot be combined with a hook id argument")
		}
		if hookID, err = selectHook(cfg); err != nil {
			return err
		}
	}

	source := runner.SourceStaged
	var explicit []string
	switch {
	case runAllFiles && len(runFiles) > 0:
		return errors.NewUserError(nil, "--all-files and --files are mutually exclusive")
	case runAllFiles:
		source = runner.SourceAll
	case len(runFiles) > 0:
		source = runner.SourceExplicit
		explicit = runFiles
	}

	jobs := runJobs
	if jobs <= 0 {
		jobs = defaultJobs()
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	out := cmd.OutOrStdout()
	reporter := runner.NewReporter(out, useColor(out), verbosity > 0)
	logger := logging.FromContext(ctx)
	r := runner.New(repoRoot, newStore(), reporter, logger)

	summary, err := r.Run(ctx, cfg, runner.Options{
		Source:        source,
		ExplicitFiles: explicit,
		HookID:        hookID,
		FailFast:      runFailFast,
		Jobs:          jobs,
		Timeout:       runTimeout,
		CaptureDiff:   runShowDiff,
	})
	if err != nil {
		if errors.Is(err, errors.ErrHookNotFound) {
			return errors.NewUserError(err, "run `prehook list` to see configured hooks")
		}
		return errors.NewSystemError(err, "")
	}

	if summary.Failed() {
		if runShowDiff {
			reporter.ReportDiffs(summary)
		}
		return errors.NewExitError(errors.ErrHooksFailed, errors.ExitUser)
	}
	return nil
}

// selectHook prompts for a hook with a fuzzy finder over the configured ids.
func selectHook(cfg *config.Config) (string, error) {
	ids := cfg.HookIDs()
	if len(ids) == 0 {
		return "", errors.NewUserError(nil, "configuration defines no hooks")
	}
	idx, err := fuzzyfinder.Find(ids, func(i int) string { return ids[i] })
	if err != nil {
		if errors.Is(err, fuzzyfinder.ErrAbort) {
			return "", errors.NewUserError(nil, "no hook selected")
		}
		return "", errors.Wrap(err, "selecting hook")
	}
	return ids[idx], nil
}
