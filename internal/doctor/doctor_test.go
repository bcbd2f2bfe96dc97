package doctor

import (
	"testing"
)

type stubCheck struct {
	name     string
	category string
	status   Severity
}

func (s *stubCheck) Name() string     { return s.name }
func (s *stubCheck) Category() string { return s.category }
func (s *stubCheck) Run() *CheckResult {
	return &CheckResult{Name: s.name, Category: s.category, Status: s.status}
}

func TestRunner_AggregatesSummary(t *testing.T) {
	r := NewRunner()
	r.AddCheck(&stubCheck{name: "a", category: "x", status: SeverityPass})
	r.AddCheck(&stubCheck{name: "b", category: "x", status: SeverityWarning})
	r.AddCheck(&stubCheck{name: "c", category: "y", status: SeverityError})
	r.AddCheck(&stubCheck{name: "d", category: "y", status: SeverityInfo})

	report := r.Run()

	if len(report.Results) != 4 {
		t.Fatalf("got %d results, want 4", len(report.Results))
	}
	want := Summary{Passed: 1, Info: 1, Warnings: 1, Errors: 1}
	if report.Summary != want {
		t.Errorf("summary = %+v, want %+v", report.Summary, want)
	}
	if !report.HasErrors() {
		t.Error("HasErrors() should be true")
	}
	if !report.HasWarnings() {
		t.Error("HasWarnings() should be true")
	}
	if report.Timestamp.IsZero() {
		t.Error("timestamp should be set")
	}
}

func TestRunner_CleanReport(t *testing.T) {
	r := NewRunner()
	r.AddCheck(&stubCheck{name: "a", category: "x", status: SeverityPass})

	report := r.Run()
	if report.HasErrors() || report.HasWarnings() {
		t.Error("clean report should have no errors or warnings")
	}
}

func TestSeverity_String(t *testing.T) {
	cases := map[Severity]string{
		SeverityPass:    "pass",
		SeverityInfo:    "info",
		SeverityWarning: "warning",
		SeverityError:   "error",
		Severity(99):    "unknown",
	}
	for sev, want := range cases {
		if got := sev.String(); got != want {
			t.Errorf("Severity(%d).String() = %q, want %q", sev, got, want)
		}
	}
}
