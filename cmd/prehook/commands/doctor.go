package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/prehook/prehook/internal/config"
	"github.com/prehook/prehook/internal/doctor"
	"github.com/prehook/prehook/internal/errors"
	"github.com/prehook/prehook/internal/paths"
)

var (
	doctorJSON    bool
	doctorQuiet   bool
	doctorVerbose bool
)

func init() {
	doctorCmd.Flags().BoolVar(&doctorJSON, "json", false,
		"output results as JSON")
	doctorCmd.Flags().BoolVar(&doctorQuiet, "quiet", false,
		"suppress output, exit code only")
	doctorCmd.Flags().BoolVar(&doctorVerbose, "verbose", false,
		"show detailed check-by-check output")
	rootCmd.AddCommand(doctorCmd)
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Diagnose hook setup issues",
	Long: `Run diagnostic checks on the prehook setup: git availability, hook
configuration, tool availability, the repository cache, and the
installed git hook.

Output modes (mutually exclusive):
  (default)   Show errors and warnings
  --verbose   Show all checks including passed ones
  --quiet     No output, exit code only
  --json      Machine-readable JSON output

Exit codes:
  0 - All checks passed (no errors or warnings)
  1 - Warnings present, no errors
  2 - Errors present`,
	PreRunE: validateDoctorFlags,
	RunE:    runDoctor,
}

// validateDoctorFlags ensures output flags are mutually exclusive.
func validateDoctorFlags(_ *cobra.Command, _ []string) error {
	count := 0
	if doctorJSON {
		count++
	}
	if doctorQuiet {
		count++
	}
	if doctorVerbose {
		count++
	}

	if count > 1 {
		return errors.New("flags --json, --quiet, and --verbose are mutually exclusive")
	}

	return nil
}

func runDoctor(cmd *cobra.Command, _ []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return errors.NewSystemError(err, "cannot determine working directory")
	}

	// The remaining checks degrade gracefully when config loading fails;
	// the config check itself reports the failure.
	var cfg *config.Config
	repoRoot := cwd
	if root, err := resolveRepoRoot(); err == nil {
		repoRoot = root
	}
	if path, err := paths.FindConfig(repoRoot); err == nil {
		if loaded, err := config.Load(path); err == nil {
			cfg = loaded
		}
	}

	runner := doctor.NewRunner()
	runner.AddCheck(doctor.NewGitCheck(cwd))
	runner.AddCheck(doctor.NewConfigCheck(repoRoot))
	runner.AddCheck(doctor.NewToolsCheck(cfg))
	runner.AddCheck(doctor.NewCacheCheck(cfg, newStore()))
	runner.AddCheck(doctor.NewInstallCheck(repoRoot))

	report := runner.Run()

	if err := outputDoctorReport(cmd, report); err != nil {
		return err
	}

	if report.HasErrors() {
		return errors.NewExitError(errors.New("doctor found errors"), errors.ExitSystem)
	}
	if report.HasWarnings() {
		return errors.NewExitError(errors.New("doctor found warnings"), errors.ExitUser)
	}
	return nil
}

func outputDoctorReport(cmd *cobra.Command, report *doctor.Report) error {
	if doctorQuiet {
		return nil
	}

	if doctorJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return errors.Wrap(err, "encoding JSON")
		}
		return nil
	}

	return outputDoctorText(cmd, report)
}

func outputDoctorText(cmd *cobra.Command, report *doctor.Report) error {
	out := cmd.OutOrStdout()

	// In normal mode, show only errors and warnings
	// In verbose mode, show all checks
	showAll := doctorVerbose

	hasOutput := false
	for _, result := range report.Results {
		if !showAll && result.Status != doctor.SeverityError && result.Status != doctor.SeverityWarning {
			continue
		}

		hasOutput = true
		icon := statusIcon(result.Status)
		fmt.Fprintf(out, "%s [%s] %s: %s\n", icon, result.Category, result.Name, result.Message)

		if result.FixHint != "" && (result.Status == doctor.SeverityError || result.Status == doctor.SeverityWarning) {
			fmt.Fprintf(out, "  hint: %s\n", result.FixHint)
		}
	}

	if hasOutput || showAll {
		fmt.Fprintln(out)
	}

	fmt.Fprintf(out, "Summary: %d passed, %d info, %d warnings, %d errors\n",
		report.Summary.Passed, report.Summary.Info, report.Summary.Warnings, report.Summary.Errors)

	return nil
}

func statusIcon(s doctor.Severity) string {
	switch s {
	case doctor.SeverityPass:
		return "✓"
	case doctor.SeverityInfo:
		return "ℹ"
	case doctor.SeverityWarning:
		return "⚠"
	case doctor.SeverityError:
		return "✗"
	default:
		return "?"
	}
}
