package validate

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/shellgate/shellgate/internal/apperr"
	"github.com/shellgate/shellgate/internal/cmdparse"
	"github.com/shellgate/shellgate/internal/pathnorm"
)

// ValidateShellOperators rejects command if it contains any of ctx's
// configured blocked operators as a literal substring, per spec.md §4.3.
// A no-op when injection protection is disabled or no operators are
// configured.
func ValidateShellOperators(command string, ctx *Context) error {
	cfg := ctx.Config
	if !cfg.Security.EnableInjectionProtection || len(cfg.Restrictions.BlockedOperators) == 0 {
		return nil
	}
	for _, op := range cfg.Restrictions.BlockedOperators {
		if op == "" {
			continue
		}
		if strings.Contains(command, op) {
			slog.Warn("validate.blocked_operator", "shell", ctx.ShellName, "operator", op)
			return apperr.InvalidRequest(ctx.ShellName,
				fmt.Sprintf("blocked operator for %s: %s", ctx.ShellName, op)).
				WithContext("operator", op)
		}
	}
	return nil
}

// IsCommandBlocked reports whether executable's extracted command name
// matches (case-insensitively) an entry in ctx's blockedCommands.
func IsCommandBlocked(executable string, ctx *Context) bool {
	name := cmdparse.ExtractCommandName(executable)
	if name == "" {
		return false
	}
	for _, blocked := range ctx.Config.Restrictions.BlockedCommands {
		if strings.EqualFold(name, blocked) {
			return true
		}
	}
	return false
}

// IsArgumentBlocked reports whether any entry in args equals (full-string,
// case-insensitive) an entry in ctx's blockedArguments. Per spec.md §9
// Open Question (a), this is exact equality, never a prefix/substring
// match.
func IsArgumentBlocked(args []string, ctx *Context) bool {
	for _, arg := range args {
		for _, blocked := range ctx.Config.Restrictions.BlockedArguments {
			if strings.EqualFold(arg, blocked) {
				return true
			}
		}
	}
	return false
}

// ValidateLength enforces maxCommandLength inclusively: length == max
// passes, length == max+1 fails (spec.md §8 boundary behavior).
func ValidateLength(command string, ctx *Context) error {
	max := ctx.Config.Security.MaxCommandLength
	if max > 0 && uint32(len(command)) > max {
		return apperr.InvalidRequest(ctx.ShellName,
			fmt.Sprintf("command exceeds maximum length of %d characters for %s", max, ctx.ShellName))
	}
	return nil
}

// ValidateStep runs the non-path single-step checks from spec.md §4.5 step
// 1: operator check, parse, command-blocked, arg-blocked, length check. It
// does not spawn a child and does not touch the working directory.
func ValidateStep(command string, ctx *Context) error {
	if err := ValidateShellOperators(command, ctx); err != nil {
		return err
	}
	if err := ValidateLength(command, ctx); err != nil {
		return err
	}
	parsed := cmdparse.Parse(command)
	if parsed.Command == "" {
		return apperr.InvalidRequest(ctx.ShellName, "empty command")
	}
	if IsCommandBlocked(parsed.Command, ctx) {
		return apperr.InvalidRequest(ctx.ShellName,
			fmt.Sprintf("blocked command for %s: %s", ctx.ShellName, cmdparse.ExtractCommandName(parsed.Command)))
	}
	if IsArgumentBlocked(parsed.Args, ctx) {
		return apperr.InvalidRequest(ctx.ShellName, fmt.Sprintf("blocked argument for %s", ctx.ShellName))
	}
	return nil
}

// ValidateWorkingDirectory implements spec.md §4.3: dialect-aware
// confinement of dir to ctx's configured allowed paths.
func ValidateWorkingDirectory(dir string, ctx *Context) error {
	cfg := ctx.Config
	if !cfg.Security.RestrictWorkingDirectory {
		return nil
	}
	if len(cfg.Paths.AllowedPaths) == 0 {
		return apperr.InvalidRequest(ctx.ShellName, "No allowed paths configured")
	}

	if ctx.ShellKind.UsesPosixDialect() {
		return validateWslWorkingDirectory(dir, ctx)
	}
	return validateWindowsWorkingDirectory(dir, ctx)
}

func validateWslWorkingDirectory(dir string, ctx *Context) error {
	if !strings.HasPrefix(dir, "/") {
		return apperr.InvalidRequest(ctx.ShellName, "WSL working directory must be an absolute path")
	}
	normalizedDir := pathnorm.Normalize(dir)
	allowed := pathnorm.NormalizeAllowedPaths(ctx.Config.Paths.AllowedPaths)
	for _, a := range allowed {
		if !strings.HasPrefix(a, "/") {
			continue
		}
		if normalizedDir == a || strings.HasPrefix(normalizedDir, strings.TrimSuffix(a, "/")+"/") {
			return nil
		}
	}
	return apperr.InvalidRequest(ctx.ShellName,
		fmt.Sprintf("WSL working directory must be within allowed paths: %s", strings.Join(allowed, ", ")))
}

func validateWindowsWorkingDirectory(dir string, ctx *Context) error {
	if !pathnorm.IsAbsolute(dir) {
		return apperr.InvalidRequest(ctx.ShellName, "Working directory must be within allowed paths: "+
			strings.Join(pathnorm.NormalizeAllowedPaths(ctx.Config.Paths.AllowedPaths), ", "))
	}
	normalizedDir := strings.ToLower(pathnorm.Normalize(dir))
	allowed := pathnorm.NormalizeAllowedPaths(ctx.Config.Paths.AllowedPaths)
	for _, a := range allowed {
		if strings.HasPrefix(a, "/") {
			continue
		}
		if normalizedDir == a || strings.HasPrefix(normalizedDir, strings.TrimSuffix(a, `\`)+`\`) {
			return nil
		}
	}
	return apperr.InvalidRequest(ctx.ShellName,
		fmt.Sprintf("Working directory must be within allowed paths: %s", strings.Join(allowed, ", ")))
}
