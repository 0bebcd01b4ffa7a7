package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pydoclens/pydoclens/internal/adapters/outbound/snapshot"
	"github.com/pydoclens/pydoclens/internal/adapters/outbound/tui"
)

func newDiagnosticsCmd() *cobra.Command {
	var (
		flags      sessionFlags
		jsonOutput bool
		plain      bool
		clearSaved bool
	)

	cmd := &cobra.Command{
		Use:   "diagnostics",
		Short: "Print the diagnostics saved by the last watch session",
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := flags.workspaceRoot()
			if err != nil {
				return err
			}

			store := snapshot.New()
			if clearSaved {
				if err := store.Invalidate(root); err != nil {
					return fmt.Errorf("clearing diagnostics: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Cleared saved diagnostics in %s\n", root)
				return nil
			}

			snap, err := store.Load(root)
			if err != nil {
				return fmt.Errorf("loading diagnostics: %w", err)
			}
			if snap == nil {
				return fmt.Errorf("no diagnostics saved in %s (run pydoclens watch first)", root)
			}

			out := cmd.OutOrStdout()
			switch {
			case jsonOutput:
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(snap)
			case plain:
				fmt.Fprint(out, tui.RenderProblemMatcher(snap.Sets, root))
			default:
				fmt.Fprint(out, tui.RenderDiagnostics(snap.Sets, root))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&flags.path, "path", "", "Workspace root (defaults to the enclosing git worktree or the current directory)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	cmd.Flags().BoolVar(&plain, "plain", false, "Output one path:line:col line per problem")
	cmd.Flags().BoolVar(&clearSaved, "clear", false, "Delete the saved diagnostics instead of printing them")
	cmd.MarkFlagsMutuallyExclusive("json", "plain")
	cmd.MarkFlagsMutuallyExclusive("clear", "json")
	cmd.MarkFlagsMutuallyExclusive("clear", "plain")
	return cmd
}
