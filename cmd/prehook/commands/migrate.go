package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/prehook/prehook/internal/config"
	"github.com/prehook/prehook/internal/errors"
	"github.com/prehook/prehook/internal/paths"
	"github.com/prehook/prehook/pkg/fileutil"
)

var migrateForce bool

func init() {
	migrateCmd.Flags().BoolVarP(&migrateForce, "force", "f", false,
		"overwrite an existing "+paths.ConfigFileName)
	rootCmd.AddCommand(migrateCmd)
}

var migrateCmd = &cobra.Command{
	Use:   "migrate-config",
	Short: "Convert a " + paths.CompatConfigFileName + " into " + paths.ConfigFileName,
	Long: `Read the compatibility configuration file and write it back out under
prehook's native name. The hook semantics are identical; only the
filename changes. Comments are not preserved.`,
	Args: cobra.NoArgs,
	RunE: runMigrate,
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	repoRoot, err := resolveRepoRoot()
	if err != nil {
		return err
	}

	src := filepath.Join(repoRoot, paths.CompatConfigFileName)
	cfg, err := config.Load(src)
	if err != nil {
		return errors.NewUserError(err, "no readable "+paths.CompatConfigFileName+" in the repository root")
	}
	if err := cfg.Validate(); err != nil {
		return errors.NewConfigError(err)
	}

	dst := filepath.Join(repoRoot, paths.ConfigFileName)
	if _, err := os.Stat(dst); err == nil && !migrateForce {
		return errors.NewUserError(
			errors.Newf("%s already exists", dst),
			"use --force to overwrite it")
	}

	if err := fileutil.AtomicWriteYAML(dst, cfg); err != nil {
		return errors.NewSystemError(err, "cannot write configuration")
	}

	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", dst)
	return nil
}
