package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

// registerResources wires the four read-only resource URIs from spec.md §6.
func (s *Server) registerResources() {
	s.mcp.AddResource(
		mcp.NewResource("cli://config", "Full configuration", mcp.WithMIMEType("application/json")),
		s.readJSON(func(_ string) (interface{}, error) { return s.state.RawConfig(), nil }),
	)
	s.mcp.AddResource(
		mcp.NewResource("cli://config/global", "Global configuration block", mcp.WithMIMEType("application/json")),
		s.readJSON(func(_ string) (interface{}, error) { return s.state.RawConfig().Global, nil }),
	)
	s.mcp.AddResource(
		mcp.NewResource("cli://info/security", "Effective security posture summary", mcp.WithMIMEType("application/json")),
		s.readJSON(func(_ string) (interface{}, error) { return s.securitySummary(), nil }),
	)
	s.mcp.AddResourceTemplate(
		mcp.NewResourceTemplate("cli://config/shells/{shellName}", "Per-shell resolved configuration",
			mcp.WithMIMEType("application/json")),
		s.readJSON(s.shellSummary),
	)
}

func (s *Server) readJSON(fn func(uri string) (interface{}, error)) func(context.Context, mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return func(_ context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		payload, err := fn(req.Params.URI)
		if err != nil {
			return nil, err
		}
		b, err := json.MarshalIndent(payload, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshal resource %s: %w", req.Params.URI, err)
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{URI: req.Params.URI, MIMEType: "application/json", Text: string(b)},
		}, nil
	}
}

func (s *Server) shellSummary(uri string) (interface{}, error) {
	const prefix = "cli://config/shells/"
	name := strings.TrimPrefix(uri, prefix)
	cfg, ok := s.state.ResolvedConfigs()[name]
	if !ok {
		return nil, fmt.Errorf("shell %q is disabled or unknown", name)
	}
	return cfg, nil
}

type securityPosture struct {
	RestrictWorkingDirectoryDefault bool     `json:"restrictWorkingDirectoryDefault"`
	EnableInjectionProtection       bool     `json:"enableInjectionProtection"`
	MaxCommandLength                uint32   `json:"maxCommandLength"`
	DefaultBlockedOperators         []string `json:"defaultBlockedOperators"`
	EnabledShells                   []string `json:"enabledShells"`
}

func (s *Server) securitySummary() securityPosture {
	global := s.state.RawConfig().Global
	names := make([]string, 0, len(s.state.ResolvedConfigs()))
	for name := range s.state.ResolvedConfigs() {
		names = append(names, name)
	}
	return securityPosture{
		RestrictWorkingDirectoryDefault: global.Security.RestrictWorkingDirectory,
		EnableInjectionProtection:       global.Security.EnableInjectionProtection,
		MaxCommandLength:                global.Security.MaxCommandLength,
		DefaultBlockedOperators:         global.Restrictions.BlockedOperators,
		EnabledShells:                   names,
	}
}
