package runner

import (
	"bytes"
	"strings"
	"testing"
)

func TestSummary_Failed(t *testing.T) {
	clean := Summary{Results: []Result{{Status: StatusPassed}, {Status: StatusSkipped}}}
	if clean.Failed() {
		t.Error("clean summary should not report failure")
	}

	dirty := Summary{Results: []Result{{Status: StatusPassed}, {Status: StatusFailed}}}
	if !dirty.Failed() {
		t.Error("summary with a failed result should report failure")
	}
}

func TestReporter_PassLine(t *testing.T) {
	var buf bytes.Buffer
	rep := NewReporter(&buf, false, false)

	rep.Report(Result{HookID: "fmt", Name: "gofumpt", Status: StatusPassed})

	line := buf.String()
	if !strings.HasPrefix(line, "gofumpt...") {
		t.Errorf("line = %q, want dot leader after name", line)
	}
	if !strings.Contains(line, "Passed") {
		t.Errorf("line = %q, want Passed label", line)
	}
}

func TestReporter_SkippedLabel(t *testing.T) {
	var buf bytes.Buffer
	rep := NewReporter(&buf, false, false)

	rep.Report(Result{Name: "lint", Status: StatusSkipped})

	if !strings.Contains(buf.String(), "Skipped (no files)") {
		t.Errorf("output = %q", buf.String())
	}
}

func TestReporter_FailureShowsOutput(t *testing.T) {
	var buf bytes.Buffer
	rep := NewReporter(&buf, false, false)

	rep.Report(Result{
		Name:     "lint",
		Status:   StatusFailed,
		Output:   "line 3: trailing whitespace",
		Modified: []string{"a.txt"},
	})

	out := buf.String()
	if !strings.Contains(out, "  line 3: trailing whitespace") {
		t.Errorf("output not indented: %q", out)
	}
	if !strings.Contains(out, "modified: a.txt") {
		t.Errorf("modified file not listed: %q", out)
	}
}

func TestReporter_PassOutputHiddenUnlessVerboseHook(t *testing.T) {
	var buf bytes.Buffer
	rep := NewReporter(&buf, false, false)

	rep.Report(Result{Name: "quiet", Status: StatusPassed, Output: "noise"})
	if strings.Contains(buf.String(), "noise") {
		t.Errorf("passing output should be hidden: %q", buf.String())
	}

	buf.Reset()
	rep.Report(Result{Name: "chatty", Status: StatusPassed, Output: "noise", Verbose: true})
	if !strings.Contains(buf.String(), "noise") {
		t.Errorf("verbose hook output should be shown: %q", buf.String())
	}
}

func TestReporter_ReportDiffs(t *testing.T) {
	var buf bytes.Buffer
	rep := NewReporter(&buf, false, false)

	rep.ReportDiffs(Summary{Results: []Result{
		{Name: "fmt", Diff: "--- a/a.txt\n+++ b/a.txt\n"},
		{Name: "clean", Diff: ""},
	}})

	out := buf.String()
	if !strings.Contains(out, "Changes made by fmt:") {
		t.Errorf("output = %q", out)
	}
	if strings.Contains(out, "clean") {
		t.Errorf("hooks without diffs should not appear: %q", out)
	}
}
