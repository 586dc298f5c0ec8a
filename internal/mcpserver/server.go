// Package mcpserver wires the Tool Dispatcher onto github.com/mark3labs/mcp-go,
// the JSON-RPC transport spec.md §1 treats as an external collaborator: this
// package only registers tools/resources and translates apperr.GatewayError
// codes onto the MCP result shape (spec.md §6); it never re-implements
// validation or execution.
package mcpserver

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/shellgate/shellgate/internal/apperr"
	"github.com/shellgate/shellgate/internal/gateway"
)

// Server bundles an mcp-go MCPServer with the gateway Dispatcher it fronts.
type Server struct {
	mcp        *server.MCPServer
	dispatcher *gateway.Dispatcher
	state      *gateway.ServerState
	logger     *slog.Logger
}

// New builds a Server, registering all five tools from spec.md §4.7 and the
// resources from spec.md §6.
func New(dispatcher *gateway.Dispatcher, state *gateway.ServerState, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	m := server.NewMCPServer("shellgate", "0.1.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(true, false),
	)
	s := &Server{mcp: m, dispatcher: dispatcher, state: state, logger: logger}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio blocks, serving the MCP protocol over stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

func (s *Server) registerTools() {
	s.mcp.AddTool(
		mcp.NewTool("execute_command",
			mcp.WithDescription("Execute a command line in one of the configured shells (cmd, powershell, gitbash, wsl)"),
			mcp.WithString("shell", mcp.Required(), mcp.Description("Target shell name")),
			mcp.WithString("command", mcp.Required(), mcp.Description("Command line to execute")),
			mcp.WithString("workingDir", mcp.Description("Working directory; defaults to the server's active directory")),
		),
		s.handle("execute_command"),
	)
	s.mcp.AddTool(
		mcp.NewTool("get_config",
			mcp.WithDescription("Return the safe configuration document and a per-shell resolved summary"),
		),
		s.handle("get_config"),
	)
	s.mcp.AddTool(
		mcp.NewTool("get_current_directory",
			mcp.WithDescription("Return the server's current active working directory"),
		),
		s.handle("get_current_directory"),
	)
	s.mcp.AddTool(
		mcp.NewTool("set_current_directory",
			mcp.WithDescription("Change the server's active working directory"),
			mcp.WithString("path", mcp.Required(), mcp.Description("New working directory")),
		),
		s.handle("set_current_directory"),
	)
	s.mcp.AddTool(
		mcp.NewTool("validate_directories",
			mcp.WithDescription("Check each given directory against the allowed paths"),
			mcp.WithArray("directories", mcp.Required(), mcp.Description("Directories to validate")),
			mcp.WithString("shell", mcp.Description("Validate against this shell's allowed paths instead of the global set")),
		),
		s.handle("validate_directories"),
	)
}

// handle adapts one gateway.Dispatcher route onto an mcp-go tool handler.
// MethodNotFound/InvalidParams are protocol-shape errors and are returned
// as Go errors so mcp-go reports them as JSON-RPC errors; every other
// apperr code (InvalidRequest, InternalError) becomes an isError=true
// CallToolResult, per spec.md §7 ("non-zero exits/policy rejections are
// NOT exceptions"). A successful execute_command whose exitCode metadata
// is non-zero is likewise reported as isError=true: the shell ran fine,
// but its result is still a failure the caller must check, per spec.md
// §4.6/§6.
func (s *Server) handle(tool string) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		result, err := s.dispatcher.Dispatch(ctx, tool, req.GetArguments())
		if err != nil {
			if apperr.IsMethodNotFound(err) || apperr.IsInvalidParams(err) {
				return nil, err
			}
			s.logger.Warn("tool call rejected", "tool", tool, "error", err)
			return mcp.NewToolResultError(err.Error()), nil
		}

		text := result.Text
		exitCode, hasExitCode := result.Metadata["exitCode"]
		if hasExitCode {
			text = fmt.Sprintf("%s\n\n[exitCode=%v workingDirectory=%v]", text, exitCode, result.Metadata["workingDirectory"])
		}

		toolResult := mcp.NewToolResultText(text)
		if hasExitCode && exitCode != 0 {
			toolResult.IsError = true
		}
		return toolResult, nil
	}
}
