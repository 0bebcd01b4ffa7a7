package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/pydoclens/pydoclens/internal/adapters/outbound/diagnostics"
	"github.com/pydoclens/pydoclens/internal/application"
	"github.com/pydoclens/pydoclens/internal/domain"
)

// registerTools registers all pydoclens MCP tools on the given server.
func registerTools(s *server.MCPServer, session *application.Session, surface *diagnostics.Collection) {
	s.AddTool(
		mcplib.NewTool("pydoclens_check_file",
			mcplib.WithDescription("Run pydoctest on one Python file and return its docstring problems"),
			mcplib.WithString("file",
				mcplib.Required(),
				mcplib.Description("Path to the .py file, absolute or relative to the workspace root"),
			),
		),
		handleCheckFile(session),
	)

	s.AddTool(
		mcplib.NewTool("pydoclens_check_workspace",
			mcplib.WithDescription("Run pydoctest over the whole workspace and return every docstring problem"),
		),
		handleCheckWorkspace(session),
	)

	s.AddTool(
		mcplib.NewTool("pydoclens_probe",
			mcplib.WithDescription("Report whether the Python interpreter and pydoctest can be launched"),
		),
		handleProbe(session),
	)

	s.AddTool(
		mcplib.NewTool("pydoclens_diagnostics",
			mcplib.WithDescription("Return the diagnostics collected so far without running pydoctest"),
			mcplib.WithString("file", mcplib.Description("Only return diagnostics for this file")),
		),
		handleDiagnostics(session, surface),
	)
}

func handleCheckFile(session *application.Session) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		file, err := request.RequireString("file")
		if err != nil {
			return errorResult(err.Error()), nil
		}
		if !strings.HasSuffix(file, ".py") {
			return errorResult(fmt.Sprintf("%s is not a Python file", file)), nil
		}

		analysis, err := session.AnalyzeFile(ctx, resolve(session, file))
		if err != nil {
			return errorResult(fmt.Sprintf("check failed: %v", err)), nil
		}
		return jsonResult(analysis)
	}
}

func handleCheckWorkspace(session *application.Session) server.ToolHandlerFunc {
	return func(ctx context.Context, _ mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		analysis, err := session.AnalyzeWorkspace(ctx)
		if err != nil {
			return errorResult(fmt.Sprintf("check failed: %v", err)), nil
		}
		return jsonResult(analysis)
	}
}

func handleProbe(session *application.Session) server.ToolHandlerFunc {
	return func(ctx context.Context, _ mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		return jsonResult(session.Probe(ctx))
	}
}

func handleDiagnostics(session *application.Session, surface *diagnostics.Collection) server.ToolHandlerFunc {
	return func(_ context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		file, _ := request.GetArguments()["file"].(string)
		if file == "" {
			return jsonResult(surface.Snapshot())
		}

		target := resolve(session, file)
		annotations, ok := surface.Get(target)
		if !ok {
			annotations = []domain.Annotation{}
		}
		return jsonResult(domain.AnnotationSet{Target: target, Annotations: annotations})
	}
}

// resolve makes file absolute against the workspace root.
func resolve(session *application.Session, file string) string {
	if filepath.IsAbs(file) {
		return filepath.Clean(file)
	}
	return filepath.Join(session.WorkspaceRoot(), file)
}

func jsonResult(v interface{}) (*mcplib.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling result: %w", err)
	}
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(string(data))},
	}, nil
}

// errorResult returns a tool result that indicates an error occurred.
func errorResult(msg string) *mcplib.CallToolResult {
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(msg)},
		IsError: true,
	}
}
