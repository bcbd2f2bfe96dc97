package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/prehook/prehook/internal/errors"
	"github.com/prehook/prehook/internal/paths"
)

var uninstallForce bool

func init() {
	uninstallCmd.Flags().BoolVarP(&uninstallForce, "force", "f", false,
		"remove the pre-commit hook even if prehook did not install it")
	rootCmd.AddCommand(uninstallCmd)
}

var uninstallCmd = &cobra.Command{
	Use:   "uninstall",
	Short: "Remove the git pre-commit hook shim",
	Args:  cobra.NoArgs,
	RunE:  runUninstall,
}

func runUninstall(cmd *cobra.Command, _ []string) error {
	repoRoot, err := resolveRepoRoot()
	if err != nil {
		return err
	}

	hookPath := filepath.Join(paths.GitHooksDir(repoRoot), "pre-commit")
	data, err := os.ReadFile(hookPath)
	if os.IsNotExist(err) {
		fmt.Fprintln(cmd.OutOrStdout(), "no pre-commit hook installed")
		return nil
	}
	if err != nil {
		return errors.NewSystemError(err, "cannot read hook script")
	}

	if !strings.Contains(string(data), shimMarker) && !uninstallForce {
		return errors.NewUserError(
			errors.Newf("the pre-commit hook at %s was not installed by prehook", hookPath),
			"use --force to remove it anyway")
	}

	if err := os.Remove(hookPath); err != nil {
		return errors.NewSystemError(err, "cannot remove hook script")
	}

	fmt.Fprintf(cmd.OutOrStdout(), "removed pre-commit hook at %s\n", hookPath)
	return nil
}
