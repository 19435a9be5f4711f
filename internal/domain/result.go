package domain

import (
	"time"

	"ecr/internal/exitcodes"
)

// RunResult aggregates the outcome of a whole traversal
type RunResult struct {
	Failures  int              `json:"failures"`
	TestCases []TestCaseResult `json:"testcases"`
	Duration  time.Duration    `json:"-"`
}

// Add appends a testcase result and accumulates its failures
func (r *RunResult) Add(tc TestCaseResult) {
	r.TestCases = append(r.TestCases, tc)
	r.Failures += tc.Failures
}

// ExitCode maps a completed run to Success or TestFailure
func (r *RunResult) ExitCode() int {
	if r.Failures > 0 {
		return exitcodes.TestFailure
	}
	return exitcodes.Success
}

// Assertions returns the number of assertions inspected
func (r *RunResult) Assertions() int {
	var n int
	for _, tc := range r.TestCases {
		n += len(tc.Assertions)
	}
	return n
}

// Skipped returns the number of testcases that were not entered
func (r *RunResult) Skipped() int {
	var n int
	for _, tc := range r.TestCases {
		if tc.Skipped {
			n++
		}
	}
	return n
}

// FailedAssertion pairs a failed assertion with the testcase it belongs to
type FailedAssertion struct {
	TestCase  TestCaseEntry
	Assertion AssertionResult
}

// FailedAssertions lists failed assertions in traversal order
func (r *RunResult) FailedAssertions() []FailedAssertion {
	var failed []FailedAssertion
	for _, tc := range r.TestCases {
		for _, a := range tc.Assertions {
			if a.Failed() {
				failed = append(failed, FailedAssertion{TestCase: tc.Entry, Assertion: a})
			}
		}
	}
	return failed
}

// RunReport is the JSON document written by the report exporter
type RunReport struct {
	Meta      RunReportMeta    `json:"meta"`
	TestCases []TestCaseResult `json:"testcases"`
}

// RunReportMeta contains summary data about a run
type RunReportMeta struct {
	RunID            string  `json:"run_id"`
	TotalTestCases   int     `json:"total_testcases"`
	SkippedTestCases int     `json:"skipped_testcases"`
	TotalAssertions  int     `json:"total_assertions"`
	Failures         int     `json:"failures"`
	Duration         string  `json:"duration"`
	DurationSeconds  float64 `json:"duration_seconds"`
	Error            string  `json:"error,omitempty"`
	Timestamp        string  `json:"timestamp"`
}
