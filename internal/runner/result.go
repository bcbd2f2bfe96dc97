package runner

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
)

// Status classifies the outcome of one hook.
type Status int

const (
	// StatusPassed means the hook ran and exited zero without modifying files.
	StatusPassed Status = iota

	// StatusFailed means the hook exited non-zero or modified files.
	StatusFailed

	// StatusSkipped means no files matched and the hook was not always_run.
	StatusSkipped
)

// String returns the display label for the status.
func (s Status) String() string {
	switch s {
	case StatusPassed:
		return "Passed"
	case StatusFailed:
		return "Failed"
	case StatusSkipped:
		return "Skipped"
	default:
		return "Unknown"
	}
}

// Result is the outcome of running one hook.
type Result struct {
	// HookID is the hook's configured id.
	HookID string

	// Name is the display label.
	Name string

	// Status is the outcome classification.
	Status Status

	// Files is how many files the hook received.
	Files int

	// Duration is wall-clock execution time.
	Duration time.Duration

	// Output is the hook's combined stdout and stderr.
	Output string

	// Modified lists files the hook changed in place, if any.
	Modified []string

	// Diff is the unified diff of modified files when diff capture is on.
	Diff string

	// Verbose forces output to be shown even on success.
	Verbose bool
}

// Failed reports whether the result is a failure.
func (r Result) Failed() bool { return r.Status == StatusFailed }

// Summary aggregates results of one run.
type Summary struct {
	Results []Result
}

// Failed reports whether any hook failed.
func (s Summary) Failed() bool {
	for _, r := range s.Results {
		if r.Failed() {
			return true
		}
	}
	return false
}

// reportWidth is the column where status labels are aligned.
const reportWidth = 70

// Reporter renders run results as they arrive.
type Reporter struct {
	out     io.Writer
	verbose bool

	passColor *color.Color
	failColor *color.Color
	skipColor *color.Color
}

// NewReporter creates a reporter writing to out. Colors engage only when the
// writer supports them; pass useColor=false to force plain output.
func NewReporter(out io.Writer, useColor, verbose bool) *Reporter {
	r := &Reporter{out: out, verbose: verbose}
	if useColor {
		r.passColor = color.New(color.FgGreen)
		r.failColor = color.New(color.FgRed, color.Bold)
		r.skipColor = color.New(color.FgCyan)
	}
	return r
}

// Report renders one result line (and failure output, when present).
func (rep *Reporter) Report(r Result) {
	label := r.Status.String()
	if r.Status == StatusSkipped {
		label = "Skipped (no files)"
	}

	name := r.Name
	dots := reportWidth - len(name) - len(label)
	if dots < 3 {
		dots = 3
	}

	colored := label
	switch r.Status {
	case StatusPassed:
		if rep.passColor != nil {
			colored = rep.passColor.Sprint(label)
		}
	case StatusFailed:
		if rep.failColor != nil {
			colored = rep.failColor.Sprint(label)
		}
	case StatusSkipped:
		if rep.skipColor != nil {
			colored = rep.skipColor.Sprint(label)
		}
	}

	fmt.Fprintf(rep.out, "%s%s%s", name, strings.Repeat(".", dots), colored)
	if rep.verbose && r.Status != StatusSkipped {
		fmt.Fprintf(rep.out, " (%d files, %s)", r.Files, r.Duration.Round(time.Millisecond))
	}
	fmt.Fprintln(rep.out)

	if r.Failed() || (r.Verbose && r.Output != "") {
		if r.Output != "" {
			fmt.Fprintln(rep.out, indent(strings.TrimRight(r.Output, "\n")))
		}
		for _, f := range r.Modified {
			fmt.Fprintf(rep.out, "  modified: %s\n", f)
		}
	}
}

// ReportDiffs prints captured diffs of files hooks modified.
func (rep *Reporter) ReportDiffs(s Summary) {
	for _, r := range s.Results {
		if r.Diff == "" {
			continue
		}
		fmt.Fprintf(rep.out, "\nChanges made by %s:\n", r.Name)
		fmt.Fprint(rep.out, r.Diff)
	}
}

func indent(s string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = "  " + l
	}
	return strings.Join(lines, "\n")
}
