package domain

// TestCaseEntry is one item of the reporting UI's testcase list
type TestCaseEntry struct {
	Index       int    `json:"index"`       // 1-based position in the list
	Description string `json:"description"` // Displayed testcase name
	Asserted    int    `json:"asserted"`    // Assertion count shown next to the name
}

// AssertionResult is one check rendered in a testcase's detail view
type AssertionResult struct {
	Index         int      `json:"index"`
	Name          string   `json:"name"`
	Failures      []string `json:"failures,omitempty"` // Text of failure and error markers
	Passed        int      `json:"passed"`             // Last value read from the pass counter
	NothingPassed bool     `json:"nothing_passed,omitempty"`
}

// Failed reports whether the assertion counts as a failure
func (a AssertionResult) Failed() bool {
	return len(a.Failures) > 0 || a.NothingPassed
}

// TestCaseResult holds everything collected for one testcase entry
type TestCaseResult struct {
	Entry      TestCaseEntry     `json:"entry"`
	Assertions []AssertionResult `json:"assertions"`
	Failures   int               `json:"failures"`
	Skipped    bool              `json:"skipped,omitempty"`
}
