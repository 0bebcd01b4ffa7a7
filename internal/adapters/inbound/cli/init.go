package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pydoclens/pydoclens/internal/adapters/outbound/config"
	"github.com/pydoclens/pydoclens/internal/domain"
)

func newInitCmd() *cobra.Command {
	var (
		interpreter string
		workingDir  string
		force       bool
	)

	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Generate a .pydoclens.yaml configuration file",
		Long:  "Create a .pydoclens.yaml with the default settings, ready to edit.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "."
			if len(args) > 0 {
				path = args[0]
			}

			absPath, err := filepath.Abs(path)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			dest := filepath.Join(absPath, config.FileName)
			if !force {
				if _, err := os.Stat(dest); err == nil {
					return fmt.Errorf("%s already exists (use --force to overwrite)", config.FileName)
				}
			}

			cfg := domain.DefaultConfig()
			if workingDir != "" {
				cfg.WorkingDirectory = workingDir
			}
			cfg.PythonInterpreterPath = interpreter
			if err := cfg.Validate(); err != nil {
				return err
			}

			if err := os.WriteFile(dest, []byte(generateConfig(cfg)), 0644); err != nil {
				return fmt.Errorf("writing config: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", config.FileName)
			return nil
		},
	}

	cmd.Flags().StringVar(&interpreter, "interpreter", "", "Python interpreter to run pydoctest with")
	cmd.Flags().StringVar(&workingDir, "working-dir", "", "Directory pydoctest runs in, relative to the workspace root")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing .pydoclens.yaml")

	return cmd
}

func generateConfig(cfg domain.Config) string {
	var b strings.Builder
	b.WriteString("# pydoclens configuration\n\n")

	b.WriteString("# Directory pydoctest runs in, relative to this file.\n")
	fmt.Fprintf(&b, "working_directory: %q\n\n", cfg.WorkingDirectory)

	b.WriteString("# Run pydoctest as `<interpreter> -m <tool_module>` instead of the `tool` executable.\n")
	if cfg.PythonInterpreterPath != "" {
		fmt.Fprintf(&b, "python_interpreter_path: %q\n", cfg.PythonInterpreterPath)
	} else {
		b.WriteString("# python_interpreter_path: .venv/bin/python\n")
	}
	fmt.Fprintf(&b, "# tool: %s\n", cfg.Tool)
	fmt.Fprintf(&b, "# tool_module: %s\n\n", cfg.ToolModule)

	b.WriteString("# Upper bound for one pydoctest run. 0 disables it.\n")
	fmt.Fprintf(&b, "timeout: %s\n\n", cfg.Timeout)

	b.WriteString("# Files watched by `pydoclens watch`.\n")
	b.WriteString("include:\n")
	for _, p := range cfg.Include {
		fmt.Fprintf(&b, "  - %q\n", p)
	}
	b.WriteString("exclude:\n")
	for _, p := range cfg.Exclude {
		fmt.Fprintf(&b, "  - %q\n", p)
	}
	fmt.Fprintf(&b, "debounce: %s\n", cfg.Debounce)

	return b.String()
}
