package discovery

import (
	"path/filepath"
	"strings"

	"ecr/internal/domain"
)

// Filter selects testcases by description pattern
type Filter struct {
	pattern string
}

// NewFilter creates a new Filter, an empty pattern matches everything
func NewFilter(pattern string) *Filter {
	return &Filter{pattern: strings.TrimSpace(pattern)}
}

// Pattern returns the configured pattern
func (f *Filter) Pattern() string {
	return f.pattern
}

// Match reports whether a testcase description matches the pattern.
// Supports patterns like "*core-test" or "*payment*"
func (f *Filter) Match(description string) bool {
	if f == nil || f.pattern == "" {
		return true
	}
	pattern := f.pattern

	// Try to match using filepath.Match (supports * and ? wildcards)
	if matched, err := filepath.Match(pattern, description); err == nil && matched {
		return true
	}

	// If pattern contains wildcards but filepath.Match didn't match (descriptions
	// may contain '/'), require every literal part in order
	if strings.Contains(pattern, "*") {
		rest := description
		hasNonEmptyPart := false
		for _, part := range strings.Split(pattern, "*") {
			if part == "" {
				continue
			}
			hasNonEmptyPart = true
			idx := strings.Index(rest, part)
			if idx < 0 {
				return false
			}
			rest = rest[idx+len(part):]
		}
		return hasNonEmptyPart
	}

	// If no wildcards, do a simple contains check
	if !strings.Contains(pattern, "?") {
		return strings.Contains(description, pattern)
	}
	return false
}

// FilterEntries returns the entries whose description matches the pattern,
// keeping their list order and indices
func (f *Filter) FilterEntries(entries []domain.TestCaseEntry) []domain.TestCaseEntry {
	if f == nil || f.pattern == "" {
		return entries
	}
	var filtered []domain.TestCaseEntry
	for _, entry := range entries {
		if f.Match(entry.Description) {
			filtered = append(filtered, entry)
		}
	}
	return filtered
}
