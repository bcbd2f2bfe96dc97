// Package runner plans and executes hook runs.
//
// A run resolves the configuration into an execution plan (materializing
// remote hook repositories and overlaying manifests), selects candidate
// files, and executes hooks in configuration order. Hooks run one at a time
// so each sees a deterministic working tree; within a hook, file batches run
// in parallel unless the hook requires serial execution.
package runner

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/prehook/prehook/internal/config"
	"github.com/prehook/prehook/internal/entry"
	"github.com/prehook/prehook/internal/errors"
	"github.com/prehook/prehook/internal/manifest"
	"github.com/prehook/prehook/internal/repo"
)

// DefaultTimeout bounds a single hook's execution.
const DefaultTimeout = 5 * time.Minute

// Options configures a run.
type Options struct {
	// Source selects the candidate file set.
	Source FileSource

	// ExplicitFiles is used with SourceExplicit.
	ExplicitFiles []string

	// HookID restricts the run to a single hook id. Empty runs all.
	HookID string

	// FailFast stops at the first failing hook (also set via config).
	FailFast bool

	// Jobs bounds parallel batch execution within a hook.
	Jobs int

	// Timeout bounds each hook's execution. Zero means DefaultTimeout.
	Timeout time.Duration

	// CaptureDiff snapshots hook inputs and records unified diffs of files
	// a hook modifies.
	CaptureDiff bool
}

// Runner executes hook runs against one repository.
type Runner struct {
	RepoRoot string
	Store    *repo.Store
	Reporter *Reporter
	Logger   *slog.Logger
}

// New creates a Runner. A nil reporter discards progress output.
func New(repoRoot string, store *repo.Store, reporter *Reporter, logger *slog.Logger) *Runner {
	if reporter == nil {
		reporter = NewReporter(io.Discard, false, false)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{RepoRoot: repoRoot, Store: store, Reporter: reporter, Logger: logger}
}

// plannedHook is one executable unit of a run.
type plannedHook struct {
	hook manifest.Hook

	// srcPath is the hook repository checkout, set for remote repos.
	srcPath string

	// meta is set for built-in meta hooks and runs in-process.
	meta metaFunc
}

// plan resolves the configuration into executable hooks, materializing
// remote repositories as needed. The returned plan preserves configuration
// order.
func (r *Runner) plan(cfg *config.Config, hookID string) ([]plannedHook, error) {
	var plan []plannedHook

	for _, repoCfg := range cfg.Repos {
		var m *manifest.Manifest
		var srcPath string

		if repoCfg.IsRemote() {
			ent, err := r.Store.Ensure(repoCfg.Repo, repoCfg.Rev)
			if err != nil {
				return nil, errors.Wrapf(err, "materializing %s", repoCfg.Repo)
			}
			srcPath = ent.Path
			if m, err = manifest.LoadDir(ent.Path); err != nil {
				return nil, err
			}
		}

		for _, hookCfg := range repoCfg.Hooks {
			if hookID != "" && hookCfg.ID != hookID {
				continue
			}

			var h manifest.Hook
			var mf metaFunc
			switch {
			case repoCfg.IsMeta():
				base, ok := metaHooks[hookCfg.ID]
				if !ok {
					return nil, errors.WithDetailf(errors.ErrHookNotFound,
						"meta hook %q (available: %v)", hookCfg.ID, metaHookIDs())
				}
				h = overlayMeta(base.def, hookCfg)
				mf = base.fn
			case repoCfg.IsLocal():
				h = manifest.FromConfig(hookCfg)
			default:
				var err error
				if h, err = m.Resolve(hookCfg); err != nil {
					return nil, errors.Wrapf(err, "in %s", repoCfg.Repo)
				}
			}

			if !h.RunsAtStage(config.StagePreCommit, cfg.DefaultStages) {
				continue
			}
			plan = append(plan, plannedHook{hook: h, srcPath: srcPath, meta: mf})
		}
	}

	if hookID != "" && len(plan) == 0 {
		return nil, errors.WithDetailf(errors.ErrHookNotFound, "no configured hook has id %q", hookID)
	}
	return plan, nil
}

// Run executes the configuration and returns a summary. A non-nil error
// reports infrastructure failure (clone errors, bad patterns); failing hooks
// are reported through the summary instead.
func (r *Runner) Run(ctx context.Context, cfg *config.Config, opts Options) (Summary, error) {
	plan, err := r.plan(cfg, opts.HookID)
	if err != nil {
		return Summary{}, err
	}

	candidates, err := Candidates(r.RepoRoot, opts.Source, opts.ExplicitFiles, cfg.Exclude)
	if err != nil {
		return Summary{}, err
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	failFast := opts.FailFast || cfg.FailFast

	var summary Summary
	for _, ph := range plan {
		result, err := r.runHook(ctx, ph, plan, candidates, opts, timeout)
		if err != nil {
			return summary, err
		}

		summary.Results = append(summary.Results, result)
		r.Reporter.Report(result)

		if failFast && result.Failed() {
			r.Logger.Debug("stopping after first failure", "hook", result.HookID)
			break
		}
	}
	return summary, nil
}

func (r *Runner) runHook(ctx context.Context, ph plannedHook, plan []plannedHook, candidates []string, opts Options, timeout time.Duration) (Result, error) {
	h := ph.hook
	result := Result{HookID: h.ID, Name: h.DisplayName(), Verbose: h.Verbose}

	files, err := FilterForHook(r.RepoRoot, candidates, h)
	if err != nil {
		return result, err
	}
	result.Files = len(files)

	if len(files) == 0 && !h.AlwaysRun && ph.meta == nil {
		result.Status = StatusSkipped
		return result, nil
	}

	start := time.Now()
	defer func() { result.Duration = time.Since(start) }()

	r.Logger.Debug("running hook", "hook", h.ID, "files", len(files))

	// Built-in meta hooks run in-process.
	if ph.meta != nil {
		output, code := ph.meta(r, plan, candidates)
		result.Output = output
		result.Status = statusFromCode(code)
		return result, nil
	}

	// language: fail exists to block matching files by name alone.
	if h.Language == manifest.LanguageFail {
		result.Status = StatusFailed
		result.Output = h.Entry
		if result.Output == "" {
			result.Output = h.DisplayName()
		}
		result.Output += "\n\n" + strings.Join(files, "\n")
		return result, nil
	}

	argv, err := entry.Split(h.Entry)
	if err != nil {
		return result, errors.Wrapf(err, "hook %s", h.ID)
	}
	if h.Language == manifest.LanguageScript && ph.srcPath != "" {
		argv[0] = filepath.Join(ph.srcPath, argv[0])
	}
	argv = append(argv, h.Args...)

	var before map[string]string
	if opts.CaptureDiff {
		before = snapshot(r.RepoRoot, files)
	}
	hashesBefore := hashFiles(r.RepoRoot, files)

	hookCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	env := []string{"PREHOOK=1", "PREHOOK_HOOK_ID=" + h.ID}
	output, exitCode, runErr := runBatches(hookCtx, argv, r.RepoRoot, env, batches(files), h.ShouldPassFilenames(), h.RequireSerial, opts.Jobs)
	result.Output = output
	if runErr != nil {
		result.Output = strings.TrimRight(result.Output+"\n"+runErr.Error(), "\n")
	}
	if hookCtx.Err() == context.DeadlineExceeded {
		result.Output = strings.TrimRight(result.Output+"\nhook timed out after "+timeout.String(), "\n")
		exitCode = 124
	}

	result.Modified = changedFiles(hashesBefore, hashFiles(r.RepoRoot, files))
	if opts.CaptureDiff && len(result.Modified) > 0 {
		result.Diff = renderDiff(r.RepoRoot, before, result.Modified)
	}

	if exitCode != 0 || len(result.Modified) > 0 {
		result.Status = StatusFailed
	} else {
		result.Status = StatusPassed
	}
	return result, nil
}

func statusFromCode(code int) Status {
	if code == 0 {
		return StatusPassed
	}
	return StatusFailed
}

// hashFiles returns content hashes for the given repo-relative files.
// Unreadable files are omitted.
func hashFiles(repoRoot string, files []string) map[string]string {
	hashes := make(map[string]string, len(files))
	for _, f := range files {
		data, err := os.ReadFile(filepath.Join(repoRoot, f))
		if err != nil {
			continue
		}
		sum := sha256.Sum256(data)
		hashes[f] = hex.EncodeToString(sum[:])
	}
	return hashes
}

// changedFiles lists files whose hash differs between two snapshots,
// including files present before and gone after.
func changedFiles(before, after map[string]string) []string {
	var changed []string
	for f, h := range after {
		if prev, ok := before[f]; ok && prev != h {
			changed = append(changed, f)
		}
	}
	for f := range before {
		if _, ok := after[f]; !ok {
			changed = append(changed, f)
		}
	}
	sort.Strings(changed)
	return changed
}

// snapshot captures file contents for later diff rendering.
func snapshot(repoRoot string, files []string) map[string]string {
	contents := make(map[string]string, len(files))
	for _, f := range files {
		data, err := os.ReadFile(filepath.Join(repoRoot, f))
		if err != nil {
			continue
		}
		contents[f] = string(data)
	}
	return contents
}

// renderDiff produces a unified diff between snapshotted and current
// contents for the modified files.
func renderDiff(repoRoot string, before map[string]string, modified []string) string {
	var b strings.Builder
	for _, f := range modified {
		after, err := os.ReadFile(filepath.Join(repoRoot, f))
		if err != nil {
			continue
		}
		text, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
			A:        difflib.SplitLines(before[f]),
			B:        difflib.SplitLines(string(after)),
			FromFile: "a/" + f,
			ToFile:   "b/" + f,
			Context:  3,
		})
		if err != nil {
			continue
		}
		b.WriteString(text)
	}
	return b.String()
}

// overlayMeta applies the user's configuration on top of a built-in meta
// hook definition.
func overlayMeta(base manifest.Hook, cfg config.Hook) manifest.Hook {
	if cfg.Name != "" {
		base.Name = cfg.Name
	}
	if cfg.Files != "" {
		base.Files = cfg.Files
	}
	if cfg.Exclude != "" {
		base.Exclude = cfg.Exclude
	}
	return base
}

// metaFunc is a built-in hook running in-process against the resolved plan.
type metaFunc func(r *Runner, plan []plannedHook, candidates []string) (output string, exitCode int)

type metaHook struct {
	def manifest.Hook
	fn  metaFunc
}

// metaHooks are prehook's built-in self-checks, selected with `repo: meta`.
var metaHooks = map[string]metaHook{
	"check-hooks-apply": {
		def: manifest.Hook{ID: "check-hooks-apply", Name: "Check hooks apply to the repository", AlwaysRun: true},
		fn:  checkHooksApply,
	},
	"identity": {
		def: manifest.Hook{ID: "identity", Name: "identity"},
		fn:  identity,
	},
}

func metaHookIDs() []string {
	ids := make([]string, 0, len(metaHooks))
	for id := range metaHooks {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// checkHooksApply fails if any configured hook matches no files at all,
// which usually means a stale files pattern or type filter.
func checkHooksApply(r *Runner, plan []plannedHook, candidates []string) (string, int) {
	var b strings.Builder
	code := 0
	for _, ph := range plan {
		if ph.meta != nil || ph.hook.AlwaysRun {
			continue
		}
		files, err := FilterForHook(r.RepoRoot, candidates, ph.hook)
		if err != nil {
			fmt.Fprintf(&b, "%s: %v\n", ph.hook.ID, err)
			code = 1
			continue
		}
		if len(files) == 0 {
			fmt.Fprintf(&b, "%s does not apply to this repository\n", ph.hook.ID)
			code = 1
		}
	}
	return b.String(), code
}

// identity prints its input files and always passes.
func identity(r *Runner, _ []plannedHook, candidates []string) (string, int) {
	return strings.Join(candidates, "\n"), 0
}
