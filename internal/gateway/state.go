// Package gateway implements the Tool Dispatcher and ServerState from
// spec.md §3 and §4.7: the thin router over the validation engine,
// configuration resolver, and execution supervisor.
package gateway

import (
	"os"
	"sync"

	"github.com/shellgate/shellgate/internal/pathnorm"
	"github.com/shellgate/shellgate/internal/shellconfig"
	"github.com/shellgate/shellgate/internal/validate"
)

// ServerState holds the only mutable state shared across requests:
// serverActiveCwd, written exclusively by set_current_directory (spec.md
// §5). resolvedConfigs and rawConfig are fixed at construction.
type ServerState struct {
	mu              sync.RWMutex
	rawConfig       *shellconfig.Config
	resolvedConfigs map[string]*shellconfig.ResolvedShellConfig
	serverActiveCwd *string
	processCwd      string
}

// NewServerState builds server state and attempts to seed serverActiveCwd
// from global.paths.initialDir, per spec.md §3: "set at startup from
// initialDir if valid under restrictWorkingDirectory, otherwise unset".
func NewServerState(raw *shellconfig.Config, resolved map[string]*shellconfig.ResolvedShellConfig) *ServerState {
	cwd, err := os.Getwd()
	if err != nil {
		cwd = "."
	}
	s := &ServerState{rawConfig: raw, resolvedConfigs: resolved, processCwd: cwd}

	initialDir := raw.Global.Paths.InitialDir
	if initialDir == "" {
		return s
	}
	if !raw.Global.Security.RestrictWorkingDirectory {
		normalized := pathnorm.Normalize(initialDir)
		s.serverActiveCwd = &normalized
		return s
	}
	globalCtx := globalContext(raw, initialDir)
	if validate.ValidateWorkingDirectory(initialDir, globalCtx) == nil {
		normalized := pathnorm.Normalize(initialDir)
		s.serverActiveCwd = &normalized
	}
	return s
}

// ActiveCwd returns serverActiveCwd if set, else the host process's CWD
// (spec.md §4.7, get_current_directory).
func (s *ServerState) ActiveCwd() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.serverActiveCwd != nil {
		return *s.serverActiveCwd
	}
	return s.processCwd
}

// SetActiveCwd commits a new serverActiveCwd. Callers must validate dir
// before calling this; SetActiveCwd does not re-validate.
func (s *ServerState) SetActiveCwd(dir string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.serverActiveCwd = &dir
}

// RawConfig returns the raw configuration document retained for get_config
// reporting (spec.md §3).
func (s *ServerState) RawConfig() *shellconfig.Config {
	return s.rawConfig
}

// ResolvedConfigs returns the immutable per-shell resolved configurations.
func (s *ServerState) ResolvedConfigs() map[string]*shellconfig.ResolvedShellConfig {
	return s.resolvedConfigs
}
