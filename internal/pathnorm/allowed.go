package pathnorm

import (
	"sort"
	"strings"
)

// NormalizeAllowedPaths implements the Allowed-Paths Normalizer from
// spec.md §4.1: each entry is normalized, Windows/Gitbash/UNC entries are
// lowercased for case-insensitive comparison, duplicates are removed, and
// any entry that is a nested child of another surviving entry (at a path
// separator boundary) is discarded — WSL/POSIX entries keep their case.
func NormalizeAllowedPaths(paths []string) []string {
	type entry struct {
		normalized string // comparison form (lowercased if windows-dialect)
		display    string // value to return
		sep        byte
	}

	entries := make([]entry, 0, len(paths))
	seen := make(map[string]bool, len(paths))
	for _, p := range paths {
		if p == "" {
			continue
		}
		n := Normalize(p)
		if n == "" {
			continue
		}
		var cmp string
		var sep byte
		if strings.HasPrefix(n, "/") {
			cmp = n
			sep = '/'
		} else {
			cmp = strings.ToLower(n)
			sep = '\\'
		}
		if seen[cmp] {
			continue
		}
		seen[cmp] = true
		entries = append(entries, entry{normalized: cmp, display: cmp, sep: sep})
	}

	sort.Slice(entries, func(i, j int) bool {
		if len(entries[i].normalized) != len(entries[j].normalized) {
			return len(entries[i].normalized) < len(entries[j].normalized)
		}
		return entries[i].normalized < entries[j].normalized
	})

	var kept []entry
	for _, e := range entries {
		covered := false
		for _, k := range kept {
			if k.sep != e.sep {
				continue
			}
			if isPrefixAtBoundary(e.normalized, k.normalized, k.sep) {
				covered = true
				break
			}
		}
		if !covered {
			kept = append(kept, e)
		}
	}

	sort.Slice(kept, func(i, j int) bool { return kept[i].normalized < kept[j].normalized })

	result := make([]string, len(kept))
	for i, k := range kept {
		result[i] = k.display
	}
	return result
}

// isPrefixAtBoundary reports whether child is prefix or lies strictly under
// parent, with the separator forming the boundary (so "c:\foo2" is not
// considered a child of "c:\foo").
func isPrefixAtBoundary(child, parent string, sep byte) bool {
	if child == parent {
		return true
	}
	if !strings.HasPrefix(child, parent) {
		return false
	}
	rest := child[len(parent):]
	if parent == string(sep) {
		return true // root covers everything under it
	}
	return len(rest) > 0 && rest[0] == sep
}
