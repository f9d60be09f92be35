package group

import "strings"

// Group is one league pool scraped from a federation overview page.
// Identity is (ID, Season, League); a group is parsed once per run and
// never mutated afterwards.
type Group struct {
	ID       string
	Name     string
	League   string
	Category string
	Season   string
	Year     string
	URL      string
}

// NormalizeID strips leading zeros so the federation's "043" and a
// caller-supplied "43" select the same group.
func NormalizeID(value string) string {
	value = strings.TrimSpace(value)
	trimmed := strings.TrimLeft(value, "0")
	if trimmed == "" && value != "" {
		return "0"
	}
	return trimmed
}

// MatchesFilter reports whether the group id is selected by the filter.
// An empty filter selects every group.
func MatchesFilter(id string, filter []string) bool {
	if len(filter) == 0 {
		return true
	}
	normalized := NormalizeID(id)
	for _, item := range filter {
		if NormalizeID(item) == normalized {
			return true
		}
	}
	return false
}
