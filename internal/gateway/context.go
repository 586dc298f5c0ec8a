package gateway

import (
	"strings"

	"github.com/shellgate/shellgate/internal/shellconfig"
	"github.com/shellgate/shellgate/internal/shellkind"
	"github.com/shellgate/shellgate/internal/validate"
)

// globalContext builds a synthetic validation context over global.{security,
// paths} for the two tools that are not scoped to one shell:
// set_current_directory and validate_directories without a "shell"
// argument. Spec.md §4.7 says these check against "global allowed paths"
// without naming a dialect; a leading "/" picks the POSIX/WSL dialect,
// otherwise Windows, since global.paths.allowedPaths may mix both forms.
func globalContext(raw *shellconfig.Config, path string) *validate.Context {
	kind := shellkind.Windows
	if strings.HasPrefix(path, "/") {
		kind = shellkind.Wsl
	}
	return &validate.Context{
		ShellName: "global",
		ShellKind: kind,
		Config: &shellconfig.ResolvedShellConfig{
			ShellName: "global",
			Kind:      kind,
			Security:  raw.Global.Security,
			Paths:     raw.Global.Paths,
		},
	}
}
