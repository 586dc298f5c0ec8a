// Package validate implements the validation engine from spec.md §4.3 and
// §4.5: operator/command/argument blocking, working-directory confinement,
// and the chain-aware validateCommand that walks "cd a && cd b && ..."
// sequences with a running current directory.
package validate

import (
	"sort"

	"github.com/shellgate/shellgate/internal/shellconfig"
	"github.com/shellgate/shellgate/internal/shellkind"
)

// Context is the immutable per-shell bundle passed to every validator
// (spec.md §3, "Validation Context"). It is built once per enabled shell
// at server construction and never mutated afterward.
type Context struct {
	ShellName string
	ShellKind shellkind.Kind
	Config    *shellconfig.ResolvedShellConfig
}

// BuildContexts creates one Context per entry in resolved, keyed by shell
// name, matching "created once per enabled shell at server construction"
// (spec.md §2.4).
func BuildContexts(resolved map[string]*shellconfig.ResolvedShellConfig) map[string]*Context {
	out := make(map[string]*Context, len(resolved))
	for name, cfg := range resolved {
		out[name] = &Context{ShellName: name, ShellKind: cfg.Kind, Config: cfg}
	}
	return out
}

// Names returns the context keys in sorted order.
func Names(contexts map[string]*Context) []string {
	names := make([]string, 0, len(contexts))
	for n := range contexts {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
