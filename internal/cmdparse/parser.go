// Package cmdparse implements the cross-shell command tokenizer from
// spec.md §4.2: splitting a command string into an executable and its
// arguments while honoring quoted segments, without interpreting any
// shell-escape sequences.
package cmdparse

import (
	"path"
	"strings"
)

// Parsed is the result of tokenizing a command string.
type Parsed struct {
	Command string
	Args    []string
}

// Parse tokenizes command left-to-right. A token is either a quoted run
// ("...", quotes stripped, internal whitespace preserved) or a run of
// non-whitespace characters. `--author="John Doe"` yields the single token
// `--author=John Doe`. Empty or whitespace-only input returns a Parsed with
// an empty Command and no Args.
func Parse(command string) Parsed {
	tokens := tokenize(command)
	if len(tokens) == 0 {
		return Parsed{Command: "", Args: nil}
	}
	args := tokens[1:]
	if len(args) == 0 {
		args = nil
	}
	return Parsed{Command: tokens[0], Args: args}
}

func tokenize(s string) []string {
	var tokens []string
	var cur strings.Builder
	hasCur := false
	inQuotes := false

	flush := func() {
		if hasCur {
			tokens = append(tokens, cur.String())
			cur.Reset()
			hasCur = false
		}
	}

	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '"':
			inQuotes = !inQuotes
			hasCur = true // a pair of empty quotes still yields a token
		case isSpace(c) && !inQuotes:
			flush()
		default:
			cur.WriteByte(c)
			hasCur = true
		}
	}
	flush()
	return tokens
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\v' || c == '\f'
}

// ExtractCommandName strips any directory prefix and a known executable
// extension (.exe, .cmd, .bat, case-insensitive) from executable, and
// lowercases the result, per spec.md §4.2.
func ExtractCommandName(executable string) string {
	if executable == "" {
		return ""
	}
	normalized := strings.ReplaceAll(executable, `\`, "/")
	base := path.Base(normalized)

	lower := strings.ToLower(base)
	for _, ext := range []string{".exe", ".cmd", ".bat"} {
		if strings.HasSuffix(lower, ext) {
			base = base[:len(base)-len(ext)]
			break
		}
	}
	return strings.ToLower(base)
}
