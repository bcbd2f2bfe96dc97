package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(sampleConfigCmd)
}

// sampleConfig is a working starting point covering the common cases:
// pinned remote hook repositories and an inline local hook.
const sampleConfig = `fail_fast: false
exclude: '^vendor/'

repos:
  - repo: https://github.com/gitleaks/gitleaks
    rev: v8.18.4
    hooks:
      - id: gitleaks

  - repo: https://github.com/crate-ci/typos
    rev: v1.23.6
    hooks:
      - id: typos

  - repo: https://github.com/adrienverge/yamllint
    rev: v1.35.1
    hooks:
      - id: yamllint
        args: [--strict]

  - repo: https://github.com/igorshubovych/markdownlint-cli
    rev: v0.41.0
    hooks:
      - id: markdownlint

  - repo: local
    hooks:
      - id: no-large-files
        name: forbid files over 1MB
        entry: sh -c 'for f in "$@"; do [ "$(wc -c < "$f")" -le 1048576 ] || { echo "$f too large"; exit 1; }; done' --
        language: system
`

var sampleConfigCmd = &cobra.Command{
	Use:   "sample-config",
	Short: "Print a starter hook configuration",
	Long: `Print an example configuration to stdout. Redirect it into a file to
bootstrap a repository:

  prehook sample-config > .prehook.yaml`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprint(cmd.OutOrStdout(), sampleConfig)
	},
}
