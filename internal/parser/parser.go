package parser

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ErrNoCount is returned when a text does not start with a number
var ErrNoCount = errors.New("no count in text")

var leadingInt = regexp.MustCompile(`^[+-]?\d+`)

// ParseCount reads the integer a counter badge displays. Like the UI's own
// formatting, only the leading digits count: "3 tests" is 3, "tests 3" is an error.
func ParseCount(text string) (int, error) {
	trimmed := strings.TrimSpace(text)
	match := leadingInt.FindString(trimmed)
	if match == "" {
		return 0, fmt.Errorf("%w: %q", ErrNoCount, text)
	}
	n, err := strconv.Atoi(match)
	if err != nil {
		return 0, fmt.Errorf("parse count %q: %w", text, err)
	}
	return n, nil
}

// ParseCountOrZero is ParseCount for counters that may not be rendered yet
func ParseCountOrZero(text string) int {
	n, err := ParseCount(text)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// Description strips the assertion count from a list entry's text
func Description(entryText, countText string) string {
	desc := strings.TrimSpace(entryText)
	count := strings.TrimSpace(countText)
	if count != "" {
		desc = strings.TrimSpace(strings.TrimSuffix(desc, count))
	}
	return desc
}
