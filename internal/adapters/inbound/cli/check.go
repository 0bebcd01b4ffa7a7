package cli

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pydoclens/pydoclens/internal/adapters/outbound/diagnostics"
	"github.com/pydoclens/pydoclens/internal/adapters/outbound/tui"
	"github.com/pydoclens/pydoclens/internal/application"
	"github.com/pydoclens/pydoclens/internal/domain"
	"github.com/pydoclens/pydoclens/internal/domain/diagnose"
)

type checkOutput struct {
	WorkspaceRoot string                  `json:"workspace_root"`
	Runs          []*application.Analysis `json:"runs"`
	Diagnostics   []domain.AnnotationSet  `json:"diagnostics"`
}

func newCheckCmd() *cobra.Command {
	var (
		flags      sessionFlags
		jsonOutput bool
		plain      bool
		ciMode     bool
	)

	cmd := &cobra.Command{
		Use:   "check [file.py...]",
		Short: "Run pydoctest once and print its diagnostics",
		Long: "Analyse the given Python files, or the whole workspace when none are given, " +
			"and print every docstring problem pydoctest reports.",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, a := range args {
				if !strings.HasSuffix(a, ".py") {
					return fmt.Errorf("%s is not a Python file", a)
				}
			}

			logger, err := newLogger(cmd)
			if err != nil {
				return err
			}
			surface := diagnostics.New()
			session, err := flags.open(logger, surface)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if err := session.Probe(ctx).Err(); err != nil {
				return fmt.Errorf("check failed: %w", err)
			}

			var runs []*application.Analysis
			if len(args) == 0 {
				a, err := session.AnalyzeWorkspace(ctx)
				if err != nil {
					return fmt.Errorf("check failed: %w", err)
				}
				runs = append(runs, a)
			}
			for _, path := range args {
				abs, err := filepath.Abs(path)
				if err != nil {
					return fmt.Errorf("resolving %s: %w", path, err)
				}
				a, err := session.AnalyzeFile(ctx, abs)
				if err != nil {
					return fmt.Errorf("check failed: %w", err)
				}
				runs = append(runs, a)
			}

			sets := surface.Snapshot()
			out := cmd.OutOrStdout()
			switch {
			case jsonOutput:
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				if err := enc.Encode(checkOutput{
					WorkspaceRoot: session.WorkspaceRoot(),
					Runs:          runs,
					Diagnostics:   sets,
				}); err != nil {
					return err
				}
			case plain:
				fmt.Fprint(out, tui.RenderProblemMatcher(sets, session.WorkspaceRoot()))
			default:
				fmt.Fprint(out, tui.RenderDiagnostics(sets, session.WorkspaceRoot()))
			}

			if n := diagnose.Count(sets); ciMode && n > 0 {
				return fmt.Errorf("%d docstring problem(s) found", n)
			}
			return nil
		},
	}

	flags.bind(cmd)
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	cmd.Flags().BoolVar(&plain, "plain", false, "Output one path:line:col line per problem")
	cmd.Flags().BoolVar(&ciMode, "ci", false, "CI mode: exit 1 if any problem is found")
	cmd.MarkFlagsMutuallyExclusive("json", "plain")

	return cmd
}
