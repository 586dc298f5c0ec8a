// Package shellconfig implements the configuration data model and the
// configuration resolver from spec.md §3 and §4.4: merging a global
// baseline with per-shell overrides into an immutable ResolvedShellConfig
// used by the validators.
package shellconfig

import (
	"time"

	"github.com/shellgate/shellgate/internal/shellkind"
)

// SecurityConfig is the security.* block of spec.md §3.
type SecurityConfig struct {
	MaxCommandLength          uint32        `json:"maxCommandLength"`
	CommandTimeout            time.Duration `json:"-"`
	CommandTimeoutSeconds     float64       `json:"commandTimeout"`
	EnableInjectionProtection bool          `json:"enableInjectionProtection"`
	RestrictWorkingDirectory  bool          `json:"restrictWorkingDirectory"`
}

// RestrictionsConfig is the restrictions.* block of spec.md §3. Fields are
// documented as sets but modeled as slices: blockedCommands/blockedArguments
// comparisons are case-insensitive and blockedOperators is a literal
// substring match, per spec.md §3 invariants.
type RestrictionsConfig struct {
	BlockedCommands  []string `json:"blockedCommands"`
	BlockedArguments []string `json:"blockedArguments"`
	BlockedOperators []string `json:"blockedOperators"`
}

// PathsConfig is the paths.* block of spec.md §3.
type PathsConfig struct {
	AllowedPaths []string `json:"allowedPaths"`
	InitialDir   string   `json:"initialDir,omitempty"`
}

// ExecutableConfig names the shell binary and its fixed invocation args.
type ExecutableConfig struct {
	Command string   `json:"command"`
	Args    []string `json:"args"`
}

// SecurityOverride is a partial SecurityConfig: nil pointer fields mean
// "not present", so the global value is kept.
type SecurityOverride struct {
	MaxCommandLength          *uint32  `json:"maxCommandLength,omitempty"`
	CommandTimeout            *float64 `json:"commandTimeout,omitempty"`
	EnableInjectionProtection *bool    `json:"enableInjectionProtection,omitempty"`
	RestrictWorkingDirectory  *bool    `json:"restrictWorkingDirectory,omitempty"`
}

// RestrictionsOverride is a partial RestrictionsConfig. BlockedCommands and
// BlockedArguments are concatenated onto the global list when present;
// BlockedOperators replaces the global list when present.
type RestrictionsOverride struct {
	BlockedCommands  []string `json:"blockedCommands,omitempty"`
	BlockedArguments []string `json:"blockedArguments,omitempty"`
	BlockedOperators []string `json:"blockedOperators,omitempty"`
}

// PathsOverride is a partial PathsConfig.
type PathsOverride struct {
	AllowedPaths []string `json:"allowedPaths,omitempty"`
	InitialDir   *string  `json:"initialDir,omitempty"`
}

// OverridesConfig bundles the three per-shell override blocks. A nil field
// means that block was not present in configuration.
type OverridesConfig struct {
	Security     *SecurityOverride     `json:"security,omitempty"`
	Restrictions *RestrictionsOverride `json:"restrictions,omitempty"`
	Paths        *PathsOverride        `json:"paths,omitempty"`
}

// PathMappingConfig controls WSL's Windows<->WSL path translation.
type PathMappingConfig struct {
	Enabled      bool `json:"enabled"`
	WindowsToWsl bool `json:"windowsToWsl"`
}

// WslConfig is the WSL-only wslConfig block.
type WslConfig struct {
	MountPoint         string             `json:"mountPoint,omitempty"`
	InheritGlobalPaths bool               `json:"inheritGlobalPaths"`
	PathMapping        *PathMappingConfig `json:"pathMapping,omitempty"`
}

// ShellConfig is one shells.<name> entry.
type ShellConfig struct {
	Enabled    bool             `json:"enabled"`
	Executable ExecutableConfig `json:"executable"`
	Overrides  *OverridesConfig `json:"overrides,omitempty"`
	WslConfig  *WslConfig       `json:"wslConfig,omitempty"`
}

// GlobalConfig is the global.* block of spec.md §3.
type GlobalConfig struct {
	Security     SecurityConfig      `json:"security"`
	Restrictions RestrictionsConfig  `json:"restrictions"`
	Paths        PathsConfig         `json:"paths"`
}

// Config is the full raw configuration document, read once at startup (and
// on every file-watch event) by an external collaborator per spec.md §1.
type Config struct {
	Global GlobalConfig            `json:"global"`
	Shells map[string]*ShellConfig `json:"shells"`
}

// ResolvedShellConfig is the immutable, fully materialized configuration
// for one enabled shell, produced once per resolve pass (spec.md §3).
type ResolvedShellConfig struct {
	ShellName    string
	Kind         shellkind.Kind
	Executable   ExecutableConfig
	Security     SecurityConfig
	Restrictions RestrictionsConfig
	Paths        PathsConfig
	Wsl          *WslConfig
}

// normalizeTimeout converts the configured float-seconds timeout to a
// time.Duration, defaulting to 30s if unset or non-positive (spec.md §3:
// "commandTimeout: seconds>0").
func (s *SecurityConfig) normalizeTimeout() {
	secs := s.CommandTimeoutSeconds
	if secs <= 0 {
		secs = 30
	}
	s.CommandTimeout = time.Duration(secs * float64(time.Second))
}
