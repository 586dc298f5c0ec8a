// Package pathnorm implements the path normalizer and allowed-paths
// normalizer from spec.md §4.1: a pure, idempotent mapping of any of
// {Windows, Git-Bash, WSL, POSIX, UNC, drive-relative} spellings into the
// canonical shape for its dialect.
package pathnorm

import (
	"regexp"
	"strings"
)

var (
	uncPattern     = regexp.MustCompile(`^\\{2,}[^\\]+\\+[^\\]+(\\.*)?$`)
	gitbashPattern = regexp.MustCompile(`^/([a-zA-Z])(/.*)?$`)
	wslPattern     = regexp.MustCompile(`^/mnt/([a-zA-Z])(/.*)?$`)
	posixPattern   = regexp.MustCompile(`^/`)
	windowsPattern = regexp.MustCompile(`^[a-zA-Z]:`)
)

// Normalize maps an arbitrary path string into its canonical dialect form.
// It is idempotent: Normalize(Normalize(p)) == Normalize(p).
func Normalize(input string) string {
	if input == "" {
		return ""
	}

	if uncPattern.MatchString(input) {
		return normalizeUNC(input)
	}
	if gitbashPattern.MatchString(input) && !wslPattern.MatchString(input) {
		return normalizeGitbash(input)
	}
	if posixPattern.MatchString(input) {
		return normalizePosix(input)
	}
	if windowsPattern.MatchString(input) {
		return normalizeWindows(input)
	}
	if strings.HasPrefix(input, `\`) {
		return normalizeWindows("C:" + input)
	}
	// Bare relative path with no drive.
	return normalizeWindows(`C:\` + input)
}

// IsAbsolute reports whether input is already rooted under one of the
// recognized absolute forms (UNC, Windows drive, Git-Bash, WSL/POSIX),
// as opposed to a bare relative path or a backslash-rooted-without-drive
// path that Normalize would otherwise silently root under C:\.
func IsAbsolute(input string) bool {
	if input == "" {
		return false
	}
	return uncPattern.MatchString(input) ||
		gitbashPattern.MatchString(input) ||
		posixPattern.MatchString(input) ||
		windowsPattern.MatchString(input)
}

func normalizeUNC(input string) string {
	trimmed := strings.TrimLeft(input, `\`)
	return `\\` + collapseToSingle(trimmed, '\\')
}

func normalizeGitbash(input string) string {
	m := gitbashPattern.FindStringSubmatch(input)
	drive := strings.ToUpper(m[1])
	rest := m[2] // "" or "/..."
	rest = strings.TrimPrefix(rest, "/")
	return normalizeWindows(drive + ":\\" + rest)
}

func normalizePosix(input string) string {
	trailingSlash := len(input) > 1 && strings.HasSuffix(input, "/")
	collapsed := collapseToSingle(input, '/')
	segments := strings.Split(collapsed, "/")
	var stack []string
	for _, seg := range segments {
		switch seg {
		case "", ".":
			continue
		case "..":
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		default:
			stack = append(stack, seg)
		}
	}
	result := "/" + strings.Join(stack, "/")
	if trailingSlash && result != "/" {
		result += "/"
	}
	return result
}

func normalizeWindows(input string) string {
	drive := strings.ToUpper(input[:1])
	rest := input[2:] // skip "X:"
	rest = strings.ReplaceAll(rest, "/", `\`)
	rest = collapseToSingle(rest, '\\')
	rest = strings.TrimPrefix(rest, `\`)

	segments := strings.Split(rest, `\`)
	var stack []string
	for _, seg := range segments {
		switch seg {
		case "", ".":
			continue
		case "..":
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
			// never ascend above the drive root
		default:
			stack = append(stack, seg)
		}
	}

	if len(stack) == 0 {
		return drive + `:\`
	}
	return drive + `:\` + strings.Join(stack, `\`)
}

// collapseToSingle replaces every run of sep (including a leading run) with
// a single sep character.
func collapseToSingle(s string, sep byte) string {
	var b strings.Builder
	b.Grow(len(s))
	inRun := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == sep {
			if !inRun {
				b.WriteByte(sep)
				inRun = true
			}
			continue
		}
		inRun = false
		b.WriteByte(c)
	}
	return b.String()
}
