package ui

import (
	"fmt"
	"io"
	"strings"

	"ecr/internal/config"
	"ecr/internal/domain"

	"github.com/fatih/color"
)

var (
	cyan   = color.New(color.FgCyan)
	green  = color.New(color.FgGreen)
	red    = color.New(color.FgRed)
	yellow = color.New(color.FgYellow)
	white  = color.New(color.FgWhite)
)

// Formatter formats and displays output. It also streams per-testcase
// progress lines while the collector runs.
type Formatter struct {
	config *config.Config
	out    io.Writer
}

// NewFormatter creates a new Formatter writing to the colour-aware stdout
func NewFormatter(cfg *config.Config) *Formatter {
	return &Formatter{
		config: cfg,
		out:    color.Output,
	}
}

// SetOutput redirects all output
func (f *Formatter) SetOutput(w io.Writer) {
	f.out = w
}

// RunStarted prints how many testcases the list shows
func (f *Formatter) RunStarted(total int) {
	fmt.Fprintf(f.out, "Running %d testcases\n", total)
}

// TestCaseStarted prints the testcase description and its assertion count
func (f *Formatter) TestCaseStarted(entry domain.TestCaseEntry) {
	fmt.Fprintln(f.out)
	cyan.Fprintf(f.out, " %s\n", entry.Description)
	fmt.Fprintf(f.out, " Collecting %d tests\n", entry.Asserted)
}

// TestCaseSkipped prints why a testcase was not entered
func (f *Formatter) TestCaseSkipped(entry domain.TestCaseEntry, reason string) {
	fmt.Fprintln(f.out)
	yellow.Fprintf(f.out, " Skipping %s: %s\n", entry.Description, reason)
}

// AssertionChecked prints the assertion name and its failure text or a pass notice
func (f *Formatter) AssertionChecked(_ domain.TestCaseEntry, a domain.AssertionResult) {
	fmt.Fprintf(f.out, "  %s\n", a.Name)
	for _, failure := range a.Failures {
		for _, line := range strings.Split(failure, "\n") {
			red.Fprintf(f.out, "   %s\n", line)
		}
	}
	switch {
	case a.NothingPassed:
		red.Fprintf(f.out, "   Nothing passed within %s\n", f.config.PollBudget())
	case len(a.Failures) == 0:
		green.Fprintln(f.out, "   No errors on test")
	}
}

// TestCaseFinished prints the failure count of a testcase that had failures
func (f *Formatter) TestCaseFinished(tc domain.TestCaseResult) {
	if tc.Failures > 0 {
		red.Fprintf(f.out, " ✗ %d failure(s) in %s\n", tc.Failures, tc.Entry.Description)
	}
}

// PrintSummary prints the statistics table, the failure tree and the
// total line. It is printed on success and on the error path.
func (f *Formatter) PrintSummary(result *domain.RunResult) {
	fmt.Fprint(f.out, "\n")
	cyan.Fprintln(f.out, "╔═══════════════════════════════════════════════════════════════╗")
	cyan.Fprintln(f.out, "║                  Testcase Collection Statistics               ║")
	cyan.Fprintln(f.out, "╚═══════════════════════════════════════════════════════════════╝")

	fmt.Fprintln(f.out, "┌─────────────────────────────────┬─────────────────────────────┐")
	f.row("Testcases", white, fmt.Sprintf("%d", len(result.TestCases)))
	f.separator()
	f.row("Skipped Testcases", yellow, fmt.Sprintf("%d", result.Skipped()))
	f.separator()
	f.row("Assertions", white, fmt.Sprintf("%d", result.Assertions()))
	f.separator()
	f.row("Failures", red, fmt.Sprintf("%d", result.Failures))
	f.separator()
	f.row("Duration", white, fmt.Sprintf("%.2fs", result.Duration.Seconds()))
	fmt.Fprintln(f.out, "└─────────────────────────────────┴─────────────────────────────┘")

	if result.Failures > 0 {
		fmt.Fprintln(f.out)
		f.printFailureTree(result)
	}

	fmt.Fprintf(f.out, "\nTOTAL Failures: %d\n", result.Failures)
	if result.Failures == 0 {
		green.Fprintln(f.out, "✓ All tests passed!")
	}
}

// PrintError prints the banner shown when the run aborted
func (f *Formatter) PrintError(err error) {
	fmt.Fprint(f.out, "\n")
	red.Fprintln(f.out, "╔═══════════════════════════════════════════════════════════════╗")
	red.Fprintln(f.out, "║                            ERROR                              ║")
	red.Fprintln(f.out, "╚═══════════════════════════════════════════════════════════════╝")
	red.Fprintf(f.out, "ERROR: %v\n", err)
}

// PrintTestCaseList prints discovered testcases as a tree
func (f *Formatter) PrintTestCaseList(entries []domain.TestCaseEntry) {
	green.Fprintf(f.out, "Found %d testcase(s):\n\n", len(entries))
	for i, entry := range entries {
		connector := "├── "
		if i == len(entries)-1 {
			connector = "└── "
		}
		cyan.Fprintf(f.out, "%s%s", connector, entry.Description)
		if entry.Asserted == 0 {
			fmt.Fprintf(f.out, " %s\n", red.Sprint("(no assertions)"))
			continue
		}
		fmt.Fprintf(f.out, " %s\n", yellow.Sprintf("(%d)", entry.Asserted))
	}
}

func (f *Formatter) row(label string, c *color.Color, value string) {
	fmt.Fprintf(f.out, "│ %-31s │ ", label)
	c.Fprintf(f.out, "%-27s │\n", value)
}

func (f *Formatter) separator() {
	fmt.Fprintln(f.out, "├─────────────────────────────────┼─────────────────────────────┤")
}

// printFailureTree prints failed assertions grouped under their testcase
func (f *Formatter) printFailureTree(result *domain.RunResult) {
	var failing []domain.TestCaseResult
	for _, tc := range result.TestCases {
		if tc.Failures > 0 {
			failing = append(failing, tc)
		}
	}

	for i, tc := range failing {
		isLastCase := i == len(failing)-1
		connector, childPrefix := "├── ", "│   "
		if isLastCase {
			connector, childPrefix = "└── ", "    "
		}
		yellow.Fprintf(f.out, "%s%s\n", connector, tc.Entry.Description)

		var failed []domain.AssertionResult
		for _, a := range tc.Assertions {
			if a.Failed() {
				failed = append(failed, a)
			}
		}
		for j, a := range failed {
			branch := "├── "
			if j == len(failed)-1 {
				branch = "└── "
			}
			name := a.Name
			if name == "" {
				name = fmt.Sprintf("assertion %d", a.Index)
			}
			if a.NothingPassed {
				name += " (nothing passed)"
			}
			red.Fprintf(f.out, "%s%s%s\n", childPrefix, branch, name)
		}
	}
}
