package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/pydoclens/pydoclens/internal/adapters/outbound/diagnostics"
	"github.com/pydoclens/pydoclens/internal/adapters/outbound/snapshot"
	"github.com/pydoclens/pydoclens/internal/application"
)

const diagnosticsURI = "pydoclens://diagnostics"

// registerResources registers all pydoclens MCP resources on the given server.
func registerResources(s *server.MCPServer, session *application.Session, surface *diagnostics.Collection) {
	s.AddResource(
		mcplib.NewResource(
			diagnosticsURI,
			"Diagnostics",
			mcplib.WithResourceDescription("Docstring problems currently known for the workspace"),
			mcplib.WithMIMEType("application/json"),
		),
		handleDiagnosticsResource(session, surface),
	)
}

func handleDiagnosticsResource(session *application.Session, surface *diagnostics.Collection) server.ResourceHandlerFunc {
	return func(_ context.Context, _ mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
		data, err := json.MarshalIndent(snapshot.Snapshot{
			WorkspaceRoot: session.WorkspaceRoot(),
			Sets:          surface.Snapshot(),
		}, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshaling diagnostics: %w", err)
		}

		return []mcplib.ResourceContents{
			mcplib.TextResourceContents{
				URI:      diagnosticsURI,
				MIMEType: "application/json",
				Text:     string(data),
			},
		}, nil
	}
}
