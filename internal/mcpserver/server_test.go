package mcpserver

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/shellgate/shellgate/internal/execsup"
	"github.com/shellgate/shellgate/internal/gateway"
	"github.com/shellgate/shellgate/internal/shellconfig"
	"github.com/shellgate/shellgate/internal/shellkind"
	"github.com/shellgate/shellgate/internal/validate"
)

func testServer(t *testing.T) *Server {
	t.Helper()
	cfg := &shellconfig.Config{
		Global: shellconfig.GlobalConfig{
			Security: shellconfig.SecurityConfig{
				MaxCommandLength:          2000,
				CommandTimeout:            5 * time.Second,
				EnableInjectionProtection: true,
			},
			Restrictions: shellconfig.RestrictionsConfig{BlockedOperators: []string{";", "&"}},
		},
		Shells: map[string]*shellconfig.ShellConfig{
			"wsl": {Enabled: true, Executable: shellconfig.ExecutableConfig{Command: "sh", Args: []string{"-c"}}},
		},
	}
	resolved := map[string]*shellconfig.ResolvedShellConfig{
		"wsl": {ShellName: "wsl", Kind: shellkind.Wsl, Executable: cfg.Shells["wsl"].Executable, Security: cfg.Global.Security},
	}
	state := gateway.NewServerState(cfg, resolved)
	contexts := validate.BuildContexts(resolved)
	dispatcher := gateway.NewDispatcher(state, contexts, execsup.New(contexts, nil), nil)
	return New(dispatcher, state, nil)
}

func TestShellSummary_KnownShell(t *testing.T) {
	s := testServer(t)
	payload, err := s.shellSummary("cli://config/shells/wsl")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cfg, ok := payload.(*shellconfig.ResolvedShellConfig)
	if !ok || cfg.ShellName != "wsl" {
		t.Errorf("expected resolved config for wsl, got %#v", payload)
	}
}

func TestShellSummary_UnknownShellErrors(t *testing.T) {
	s := testServer(t)
	_, err := s.shellSummary("cli://config/shells/powershell")
	if err == nil || !strings.Contains(err.Error(), "powershell") {
		t.Errorf("expected an error naming the unknown shell, got %v", err)
	}
}

func callTool(t *testing.T, s *Server, tool string, args map[string]interface{}) *mcp.CallToolResult {
	t.Helper()
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	result, err := s.handle(tool)(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected protocol error: %v", err)
	}
	return result
}

func TestHandle_NonZeroExitCodeIsReportedAsIsError(t *testing.T) {
	s := testServer(t)
	result := callTool(t, s, "execute_command", map[string]interface{}{
		"shell":   "wsl",
		"command": "exit 3",
	})
	if !result.IsError {
		t.Error("expected IsError true for a non-zero exit code")
	}
}

func TestHandle_ZeroExitCodeIsNotReportedAsIsError(t *testing.T) {
	s := testServer(t)
	result := callTool(t, s, "execute_command", map[string]interface{}{
		"shell":   "wsl",
		"command": "echo ok",
	})
	if result.IsError {
		t.Error("expected IsError false for a zero exit code")
	}
}

func TestHandle_DispatchRejectionIsReportedAsIsError(t *testing.T) {
	s := testServer(t)
	result := callTool(t, s, "execute_command", map[string]interface{}{
		"shell":   "unknown",
		"command": "echo hi",
	})
	if !result.IsError {
		t.Error("expected IsError true for a rejected dispatch")
	}
}

func TestSecuritySummary_ReflectsGlobalConfig(t *testing.T) {
	s := testServer(t)
	summary := s.securitySummary()
	if !summary.EnableInjectionProtection {
		t.Error("expected EnableInjectionProtection true")
	}
	if len(summary.DefaultBlockedOperators) != 2 {
		t.Errorf("expected 2 default blocked operators, got %v", summary.DefaultBlockedOperators)
	}
	if len(summary.EnabledShells) != 1 || summary.EnabledShells[0] != "wsl" {
		t.Errorf("expected enabledShells [wsl], got %v", summary.EnabledShells)
	}
}
