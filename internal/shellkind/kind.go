// Package shellkind defines the small tagged-sum type shared by the path
// normalizer, the configuration resolver, and the validators so that shell
// dispatch is never done by comparing strings (spec.md §9: "avoid
// inheritance" / prefer tagged variants over stringly-typed dispatch).
package shellkind

// Kind identifies which native shell a request targets. It determines the
// path dialect (backslash vs forward-slash, drive letters vs /mnt mounts);
// blocked operators come from configuration, not from the Kind.
type Kind int

const (
	// Unknown is the zero value; never a valid configured shell.
	Unknown Kind = iota
	Windows
	PowerShell
	Gitbash
	Wsl
)

// Name is the configuration key used in shells.<name> and in log output.
func (k Kind) Name() string {
	switch k {
	case Windows:
		return "cmd"
	case PowerShell:
		return "powershell"
	case Gitbash:
		return "gitbash"
	case Wsl:
		return "wsl"
	default:
		return "unknown"
	}
}

func (k Kind) String() string { return k.Name() }

// FromName maps a configuration key to a Kind. Unknown keys map to Unknown.
func FromName(name string) Kind {
	switch name {
	case "cmd":
		return Windows
	case "powershell":
		return PowerShell
	case "gitbash":
		return Gitbash
	case "wsl":
		return Wsl
	default:
		return Unknown
	}
}

// UsesWindowsDialect reports whether path comparisons for this shell are
// backslash-delimited and case-insensitive (spec.md §3 invariants, §4.1).
func (k Kind) UsesWindowsDialect() bool {
	return k == Windows || k == PowerShell || k == Gitbash
}

// UsesPosixDialect reports whether path comparisons are forward-slash and
// case-sensitive.
func (k Kind) UsesPosixDialect() bool {
	return k == Wsl
}

// All enumerates every real (non-Unknown) shell kind, in a stable order.
func All() []Kind {
	return []Kind{Windows, PowerShell, Gitbash, Wsl}
}
