package cli

import (
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	mcpadapter "github.com/pydoclens/pydoclens/internal/adapters/inbound/mcp"
	"github.com/pydoclens/pydoclens/internal/adapters/outbound/diagnostics"
)

func newMCPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "MCP server commands",
		Long:  "Commands for running the pydoclens MCP (Model Context Protocol) server.",
	}
	cmd.AddCommand(newMCPServeCmd())
	return cmd
}

func newMCPServeCmd() *cobra.Command {
	var flags sessionFlags

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start pydoclens MCP server (stdio)",
		Long: "Start the pydoclens MCP server using stdio transport. This lets AI coding assistants " +
			"run pydoctest on files they edit and read back the docstring problems it reports.",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger(cmd)
			if err != nil {
				return err
			}
			surface := diagnostics.New()
			session, err := flags.open(logger, surface)
			if err != nil {
				return err
			}
			if err := session.Probe(cmd.Context()).Err(); err != nil {
				logger.Warn("pydoctest is not available; tools will report errors", "error", err)
			}

			s := mcpadapter.NewPyDocLensMCPServer(session, surface, version)
			return server.ServeStdio(s)
		},
	}

	flags.bind(cmd)
	return cmd
}
