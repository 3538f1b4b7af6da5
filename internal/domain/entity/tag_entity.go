package entity

import (
	"sort"
	"strings"
)

// Tag is a label shared by many articles.
type Tag struct {
	ID   int64
	Name string
}

// NormalizeTags trims, drops blanks and duplicates, and sorts by name.
func NormalizeTags(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
