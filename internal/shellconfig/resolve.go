package shellconfig

import (
	"sort"

	"github.com/shellgate/shellgate/internal/pathnorm"
	"github.com/shellgate/shellgate/internal/shellkind"
)

// ResolveAll merges the global config with each enabled shell's overrides,
// producing the immutable map of ResolvedShellConfig consumed by the
// validators (spec.md §4.4). Disabled shells are omitted, matching
// getEnabledShells.
func ResolveAll(cfg *Config) map[string]*ResolvedShellConfig {
	out := make(map[string]*ResolvedShellConfig)
	for name, sc := range cfg.Shells {
		if sc == nil || !sc.Enabled {
			continue
		}
		out[name] = resolveShell(name, sc, cfg.Global)
	}
	return out
}

// EnabledShellNames returns the names of enabled shells in deterministic
// (sorted) order, backing the getEnabledShells operation referenced by
// spec.md §4.4.
func EnabledShellNames(cfg *Config) []string {
	names := make([]string, 0, len(cfg.Shells))
	for name, sc := range cfg.Shells {
		if sc != nil && sc.Enabled {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

func resolveShell(name string, sc *ShellConfig, global GlobalConfig) *ResolvedShellConfig {
	security := global.Security
	restrictions := cloneRestrictions(global.Restrictions)
	paths := clonePaths(global.Paths)
	kind := shellkind.FromName(name)

	if sc.Overrides != nil {
		if sc.Overrides.Security != nil {
			applySecurityOverride(&security, sc.Overrides.Security)
		}
		if sc.Overrides.Restrictions != nil {
			applyRestrictionsOverride(&restrictions, sc.Overrides.Restrictions)
		}
		if sc.Overrides.Paths != nil {
			applyPathsOverride(&paths, sc.Overrides.Paths, kind, sc.WslConfig)
		}
	}
	security.normalizeTimeout()

	return &ResolvedShellConfig{
		ShellName:    name,
		Kind:         kind,
		Executable:   sc.Executable,
		Security:     security,
		Restrictions: restrictions,
		Paths:        paths,
		Wsl:          sc.WslConfig,
	}
}

func cloneRestrictions(r RestrictionsConfig) RestrictionsConfig {
	return RestrictionsConfig{
		BlockedCommands:  append([]string(nil), r.BlockedCommands...),
		BlockedArguments: append([]string(nil), r.BlockedArguments...),
		BlockedOperators: append([]string(nil), r.BlockedOperators...),
	}
}

func clonePaths(p PathsConfig) PathsConfig {
	return PathsConfig{
		AllowedPaths: append([]string(nil), p.AllowedPaths...),
		InitialDir:   p.InitialDir,
	}
}

func applySecurityOverride(dst *SecurityConfig, ov *SecurityOverride) {
	if ov.MaxCommandLength != nil {
		dst.MaxCommandLength = *ov.MaxCommandLength
	}
	if ov.CommandTimeout != nil {
		dst.CommandTimeoutSeconds = *ov.CommandTimeout
	}
	if ov.EnableInjectionProtection != nil {
		dst.EnableInjectionProtection = *ov.EnableInjectionProtection
	}
	if ov.RestrictWorkingDirectory != nil {
		dst.RestrictWorkingDirectory = *ov.RestrictWorkingDirectory
	}
}

// applyRestrictionsOverride concatenates blockedCommands/blockedArguments
// and replaces blockedOperators, matching spec.md §4.4.
func applyRestrictionsOverride(dst *RestrictionsConfig, ov *RestrictionsOverride) {
	if ov.BlockedCommands != nil {
		dst.BlockedCommands = append(append([]string(nil), dst.BlockedCommands...), ov.BlockedCommands...)
	}
	if ov.BlockedArguments != nil {
		dst.BlockedArguments = append(append([]string(nil), dst.BlockedArguments...), ov.BlockedArguments...)
	}
	if ov.BlockedOperators != nil {
		dst.BlockedOperators = append([]string(nil), ov.BlockedOperators...)
	}
}

// applyPathsOverride replaces allowedPaths for non-WSL shells; for WSL with
// inheritGlobalPaths=true it concatenates and re-normalizes instead, per
// spec.md §4.4.
func applyPathsOverride(dst *PathsConfig, ov *PathsOverride, kind shellkind.Kind, wsl *WslConfig) {
	if ov.AllowedPaths != nil {
		if kind == shellkind.Wsl && wsl != nil && wsl.InheritGlobalPaths {
			merged := append(append([]string(nil), dst.AllowedPaths...), ov.AllowedPaths...)
			dst.AllowedPaths = pathnorm.NormalizeAllowedPaths(merged)
		} else {
			dst.AllowedPaths = append([]string(nil), ov.AllowedPaths...)
		}
	}
	if ov.InitialDir != nil {
		dst.InitialDir = *ov.InitialDir
	}
}
