package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Selectors describe where the reporting UI renders testcases and assertions.
// ListEntry and Card are positional templates with a single %d verb.
type Selectors struct {
	ListItem       string   `toml:"list_item"`
	ListEntry      string   `toml:"list_entry"`
	AssertCount    string   `toml:"assert_count"`
	Card           string   `toml:"card"`
	CardName       string   `toml:"card_name"`
	FailureMarkers []string `toml:"failure_markers"`
	PassCounter    string   `toml:"pass_counter"`
}

// Entry returns the selector of the i-th testcase entry
func (s Selectors) Entry(i int) string {
	return fmt.Sprintf(s.ListEntry, i)
}

// EntryCount returns the selector of the i-th entry's assertion count
func (s Selectors) EntryCount(i int) string {
	return nested(s.Entry(i), s.AssertCount)
}

// Assertion returns the selector of the j-th assertion card
func (s Selectors) Assertion(j int) string {
	return fmt.Sprintf(s.Card, j)
}

// AssertionName returns the selector of the j-th assertion's name
func (s Selectors) AssertionName(j int) string {
	return nested(s.Assertion(j), s.CardName)
}

// AssertionMarkers returns one selector per failure marker class for the j-th assertion
func (s Selectors) AssertionMarkers(j int) []string {
	markers := make([]string, 0, len(s.FailureMarkers))
	for _, m := range s.FailureMarkers {
		markers = append(markers, nested(s.Assertion(j), m))
	}
	return markers
}

// AssertionPassCounter returns the selector of the j-th assertion's pass counter
func (s Selectors) AssertionPassCounter(j int) string {
	return nested(s.Assertion(j), s.PassCounter)
}

// Validate checks that every selector is set and templates are positional
func (s Selectors) Validate() error {
	required := map[string]string{
		"list_item":    s.ListItem,
		"list_entry":   s.ListEntry,
		"assert_count": s.AssertCount,
		"card":         s.Card,
		"card_name":    s.CardName,
		"pass_counter": s.PassCounter,
	}
	for name, value := range required {
		if strings.TrimSpace(value) == "" {
			return fmt.Errorf("selector %s is empty", name)
		}
	}
	for name, tmpl := range map[string]string{"list_entry": s.ListEntry, "card": s.Card} {
		if strings.Count(tmpl, "%d") != 1 {
			return fmt.Errorf("selector %s must contain exactly one %%d: %q", name, tmpl)
		}
	}
	if len(s.FailureMarkers) == 0 {
		return fmt.Errorf("at least one failure marker selector is required")
	}
	return nil
}

// merge overrides every non-empty field of other onto s
func (s Selectors) merge(other Selectors) Selectors {
	if other.ListItem != "" {
		s.ListItem = other.ListItem
	}
	if other.ListEntry != "" {
		s.ListEntry = other.ListEntry
	}
	if other.AssertCount != "" {
		s.AssertCount = other.AssertCount
	}
	if other.Card != "" {
		s.Card = other.Card
	}
	if other.CardName != "" {
		s.CardName = other.CardName
	}
	if len(other.FailureMarkers) > 0 {
		s.FailureMarkers = append([]string(nil), other.FailureMarkers...)
	}
	if other.PassCounter != "" {
		s.PassCounter = other.PassCounter
	}
	return s
}

// LoadSelectors reads a TOML selector file and merges it over base
func LoadSelectors(path string, base Selectors) (Selectors, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return base, fmt.Errorf("read selectors file: %w", err)
	}
	var fromFile Selectors
	if err := toml.Unmarshal(data, &fromFile); err != nil {
		return base, fmt.Errorf("parse selectors file %s: %w", path, err)
	}
	merged := base.merge(fromFile)
	if err := merged.Validate(); err != nil {
		return base, fmt.Errorf("selectors file %s: %w", path, err)
	}
	return merged, nil
}

func nested(parent, child string) string {
	return parent + " " + child
}
