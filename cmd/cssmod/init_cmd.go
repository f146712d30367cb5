package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Generate a default .cssmod.yaml config file",
	Long:  `Create a .cssmod.yaml configuration file in the current directory with sensible defaults.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		force, _ := cmd.Flags().GetBool("force")

		if _, err := os.Stat(".cssmod.yaml"); err == nil && !force {
			return fmt.Errorf(".cssmod.yaml already exists (use --force to overwrite)")
		}

		if err := os.WriteFile(".cssmod.yaml", []byte(defaultConfig), 0644); err != nil {
			return fmt.Errorf("writing config file: %w", err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), "Created .cssmod.yaml")
		return nil
	},
}

const defaultConfig = `# cssmod configuration
# Docs: https://github.com/yacobolo/cssmod

verbose: false

# Build settings
build:
  source: web/styles
  output-dir: dist/styles
  include:
    - "**/*.css"
  module-type: css/auto            # css | css/module | css/auto
  local-ident-name: "[path][name]__[local]"
  exports-convention: as-is        # as-is | camel-case | camel-case-only | dashes | dashes-only
  unique-name: ""
  hash-salt: ""
  hash-length: 0                   # 0 = 16 hex digits
  public-path: ""
  es-module: false
  named-exports: false
  exports-only: false
  usage: ""                        # YAML usage manifest, empty = every export used
  runtime: []
  hot: false
  concatenate: false
  strict: false
  output-format: issues            # issues | summary | full | json
  print-lines: true
  print-linter-name: true
`

func init() {
	initCmd.Flags().Bool("force", false, "Overwrite existing config file")
}
