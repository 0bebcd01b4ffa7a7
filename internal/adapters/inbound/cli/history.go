package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pydoclens/pydoclens/internal/adapters/outbound/history"
	"github.com/pydoclens/pydoclens/internal/adapters/outbound/tui"
)

func newHistoryCmd() *cobra.Command {
	var (
		flags      sessionFlags
		limit      int
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent pydoctest runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := flags.workspaceRoot()
			if err != nil {
				return err
			}

			entries, err := history.New().Load(root)
			if err != nil {
				return fmt.Errorf("loading history: %w", err)
			}
			entries = history.Last(entries, limit)

			if jsonOutput {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(entries)
			}
			fmt.Fprint(cmd.OutOrStdout(), tui.RenderHistory(entries))
			return nil
		},
	}

	cmd.Flags().StringVar(&flags.path, "path", "", "Workspace root (defaults to the enclosing git worktree or the current directory)")
	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Number of runs to show (0 for all)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}
