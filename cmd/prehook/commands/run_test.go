package commands

import (
	"os"
	"strings"
	"testing"

	"github.com/prehook/prehook/internal/errors"
	"github.com/prehook/prehook/internal/paths"
)

func resetRunFlags() {
	runAllFiles = false
	runFiles = nil
	runFailFast = false
	runJobs = 0
	runShowDiff = false
	runTimeout = 0
	runSelectHook = false
}

func TestRun_LocalHooksAgainstExplicitFiles(t *testing.T) {
	initGitRepo(t)
	defer resetRunFlags()
	resetRunFlags()

	cfgContent := `repos:
  - repo: local
    hooks:
      - id: ok
        name: always ok
        entry: "true"
        language: system
`
	if err := os.WriteFile(paths.ConfigFileName, []byte(cfgContent), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile("a.txt", []byte("hello\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	c, buf := captureCmd()
	runFiles = []string{"a.txt"}

	if err := runRun(c, nil); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(buf.String(), "always ok") {
		t.Errorf("output = %q", buf.String())
	}
	if !strings.Contains(buf.String(), "Passed") {
		t.Errorf("output = %q, want Passed", buf.String())
	}
}

func TestRun_FailingHookExitsUser(t *testing.T) {
	initGitRepo(t)
	defer resetRunFlags()
	resetRunFlags()

	cfgContent := `repos:
  - repo: local
    hooks:
      - id: nope
        entry: "false"
        language: system
`
	if err := os.WriteFile(paths.ConfigFileName, []byte(cfgContent), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile("a.txt", []byte("hello\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	c, _ := captureCmd()
	runFiles = []string{"a.txt"}

	err := runRun(c, nil)
	if err == nil {
		t.Fatal("failing hook should surface an error")
	}
	var exitErr *errors.ExitError
	if !errors.As(err, &exitErr) || exitErr.Code != errors.ExitUser {
		t.Errorf("error = %v, want ExitError with code %d", err, errors.ExitUser)
	}
}

func TestRun_AllFilesAndFilesConflict(t *testing.T) {
	initGitRepo(t)
	defer resetRunFlags()
	resetRunFlags()

	if err := os.WriteFile(paths.ConfigFileName, []byte(`repos:
  - repo: local
    hooks:
      - id: ok
        entry: "true"
        language: system
`), 0o644); err != nil {
		t.Fatal(err)
	}

	c, _ := captureCmd()
	runAllFiles = true
	runFiles = []string{"a.txt"}

	if err := runRun(c, nil); err == nil {
		t.Error("conflicting file selection flags should fail")
	}
}

func TestRun_MissingConfig(t *testing.T) {
	initGitRepo(t)
	defer resetRunFlags()
	resetRunFlags()

	c, _ := captureCmd()
	if err := runRun(c, nil); err == nil {
		t.Error("missing configuration should fail")
	}
}
