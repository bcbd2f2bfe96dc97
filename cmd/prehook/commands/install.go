package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/prehook/prehook/internal/errors"
	"github.com/prehook/prehook/internal/paths"
	"github.com/prehook/prehook/pkg/fileutil"
)

var installForce bool

func init() {
	installCmd.Flags().BoolVarP(&installForce, "force", "f", false,
		"replace an existing pre-commit hook not installed by prehook")
	rootCmd.AddCommand(installCmd)
}

// hookShim is the script written to .git/hooks/pre-commit. The marker line
// is how install and uninstall recognize their own shim.
const hookShim = `#!/bin/sh
# installed by prehook
exec prehook run
`

const shimMarker = "installed by prehook"

var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Install the git pre-commit hook shim",
	Long: `Write a pre-commit script into .git/hooks that invokes prehook on
every commit. An existing hook written by something else is left
alone unless --force is given.`,
	Args: cobra.NoArgs,
	RunE: runInstall,
}

func runInstall(cmd *cobra.Command, _ []string) error {
	repoRoot, err := resolveRepoRoot()
	if err != nil {
		return err
	}

	hooksDir := paths.GitHooksDir(repoRoot)
	if err := paths.EnsureDir(hooksDir, 0o755); err != nil {
		return errors.NewSystemError(err, "cannot create hooks directory")
	}

	hookPath := filepath.Join(hooksDir, "pre-commit")
	if existing, err := os.ReadFile(hookPath); err == nil {
		if !strings.Contains(string(existing), shimMarker) && !installForce {
			return errors.NewUserError(
				errors.Newf("a pre-commit hook already exists at %s", hookPath),
				"use --force to replace it")
		}
	}

	if err := fileutil.AtomicWriteFile(hookPath, []byte(hookShim), 0o755); err != nil {
		return errors.NewSystemError(err, "cannot write hook script")
	}

	fmt.Fprintf(cmd.OutOrStdout(), "installed pre-commit hook at %s\n", hookPath)
	return nil
}
