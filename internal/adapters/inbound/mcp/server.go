package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/pydoclens/pydoclens/internal/adapters/outbound/diagnostics"
	"github.com/pydoclens/pydoclens/internal/application"
)

// NewPyDocLensMCPServer creates an MCP server whose tools drive session and
// whose diagnostics are read back from surface, the collection the session
// writes to.
func NewPyDocLensMCPServer(session *application.Session, surface *diagnostics.Collection, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"pydoclens",
		version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, false),
	)

	registerTools(s, session, surface)
	registerResources(s, session, surface)

	return s
}
