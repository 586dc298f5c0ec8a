package validate

import (
	"regexp"
	"strings"

	"github.com/shellgate/shellgate/internal/cmdparse"
	"github.com/shellgate/shellgate/internal/pathnorm"
)

var chainSeparator = regexp.MustCompile(`\s*&&\s*`)

// ValidateCommand implements the chain-aware validator from spec.md §4.5:
// it splits command at "&&" boundaries and, for each non-empty step,
// re-validates and tracks a running current directory through any "cd"/
// "chdir" steps so that e.g. "cd allowed && cd .. && rm x" is caught at
// the second "cd" if it escapes, and blocked commands later in the chain
// are still rejected even if earlier steps were harmless. It returns the
// working directory that would be in effect after the whole chain runs.
func ValidateCommand(ctx *Context, command string, workingDir string) (string, error) {
	currentDir := workingDir
	for _, rawStep := range chainSeparator.Split(command, -1) {
		step := strings.TrimSpace(rawStep)
		if step == "" {
			continue
		}
		if err := ValidateStep(step, ctx); err != nil {
			return "", err
		}

		parsed := cmdparse.Parse(step)
		name := cmdparse.ExtractCommandName(parsed.Command)
		if (name == "cd" || name == "chdir") && len(parsed.Args) > 0 {
			newDir := resolveCdTarget(parsed.Args[0], currentDir, ctx)
			if ctx.Config.Security.RestrictWorkingDirectory {
				if err := ValidateWorkingDirectory(newDir, ctx); err != nil {
					return "", err
				}
			}
			currentDir = newDir
		}
	}
	return currentDir, nil
}

// resolveCdTarget computes the would-be new directory for a "cd <target>"
// step, per spec.md §4.5 step 2.
func resolveCdTarget(target string, currentDir string, ctx *Context) string {
	if pathnorm.IsAbsolute(target) {
		return pathnorm.Normalize(target)
	}
	if target == ".." && isFilesystemRoot(currentDir) {
		return currentDir
	}
	if ctx.ShellKind.UsesPosixDialect() {
		joined := strings.TrimRight(currentDir, "/") + "/" + target
		return pathnorm.Normalize(joined)
	}
	joined := strings.TrimRight(currentDir, `\`) + `\` + target
	return pathnorm.Normalize(joined)
}

var (
	windowsRootPattern = regexp.MustCompile(`^[A-Za-z]:\\?$`)
	uncRootPattern     = regexp.MustCompile(`^\\{2}[^\\]+\\[^\\]+\\?$`)
)

// isFilesystemRoot reports whether dir is a dialect root: C:\, /, or
// \\host\share, per spec.md §4.5 step 2.
func isFilesystemRoot(dir string) bool {
	return dir == "/" || windowsRootPattern.MatchString(dir) || uncRootPattern.MatchString(dir)
}
