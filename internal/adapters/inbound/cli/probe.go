package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pydoclens/pydoclens/internal/adapters/outbound/diagnostics"
	"github.com/pydoclens/pydoclens/internal/adapters/outbound/tui"
)

func newProbeCmd() *cobra.Command {
	var (
		flags      sessionFlags
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "probe",
		Short: "Check that the interpreter and pydoctest can be launched",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger(cmd)
			if err != nil {
				return err
			}
			session, err := flags.open(logger, diagnostics.New())
			if err != nil {
				return err
			}

			report := session.Probe(cmd.Context())
			if jsonOutput {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				if err := enc.Encode(report); err != nil {
					return err
				}
			} else {
				fmt.Fprint(cmd.OutOrStdout(), tui.RenderProbe(report))
			}
			return report.Err()
		},
	}

	flags.bind(cmd)
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}
