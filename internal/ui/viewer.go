package ui

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"ecr/internal/config"
	"ecr/internal/domain"

	"github.com/fatih/color"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

// Viewer displays a run's failures
type Viewer interface {
	View(result *domain.RunResult) error
}

// FailureViewer displays failed assertions in an interactive TUI
type FailureViewer struct {
	config *config.Config
}

// NewFailureViewer creates a new FailureViewer
func NewFailureViewer(cfg *config.Config) *FailureViewer {
	return &FailureViewer{config: cfg}
}

// View displays failed assertions: the list on the left, details on the right
func (fv *FailureViewer) View(result *domain.RunResult) error {
	failures := result.FailedAssertions()
	if len(failures) == 0 {
		color.Green("✓ No test failures found!")
		return nil
	}

	app := tview.NewApplication()

	list := tview.NewList().
		ShowSecondaryText(false).
		SetHighlightFullLine(true)

	for i, failure := range failures {
		list.AddItem(listItemText(i, failure), "", 0, nil)
	}

	list.SetMainTextColor(tview.Styles.PrimaryTextColor).
		SetSelectedTextColor(tcell.ColorWhite).
		SetSelectedBackgroundColor(tcell.ColorDarkCyan).
		SetSecondaryTextColor(tview.Styles.SecondaryTextColor)

	// Path of the selected failure (testcase::assertion)
	statsView := tview.NewTextView().
		SetDynamicColors(true).
		SetWrap(false).
		SetWordWrap(false)

	detailsView := tview.NewTextView().
		SetDynamicColors(true).
		SetWrap(true).
		SetWordWrap(true)

	detailsContainer := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(detailsView, 0, 1, false).
		AddItem(tview.NewBox(), 2, 0, false)

	rightSide := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(statsView, 3, 0, false).
		AddItem(detailsContainer, 0, 1, false)

	// list on left (1/3), details on right (2/3)
	flex := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(list, 0, 1, true).
		AddItem(rightSide, 0, 2, false)

	headerView := tview.NewTextView().
		SetTextAlign(tview.AlignCenter).
		SetDynamicColors(true).
		SetText(fmt.Sprintf(" Failed assertions (%d of %d testcases failing) | ↑↓ navigate, → details, ← back, q or Ctrl+C exit ",
			len(failures), failingTestCases(result)))

	updateDetails := func() {
		index := list.GetCurrentItem()
		if index >= 0 && index < len(failures) {
			statsView.SetText(fv.formatFailureStats(failures[index]))
			detailsView.SetText(fv.formatFailureDetails(failures[index]))
			detailsView.ScrollToBeginning()
		}
	}

	list.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyEnter, tcell.KeyRight:
			app.SetFocus(detailsView)
			return nil
		case tcell.KeyCtrlC:
			app.Stop()
			return nil
		case tcell.KeyRune:
			if event.Rune() == 'q' {
				app.Stop()
				return nil
			}
		}
		return event
	})

	detailsView.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyLeft, tcell.KeyEsc:
			app.SetFocus(list)
			return nil
		case tcell.KeyCtrlC:
			app.Stop()
			return nil
		}
		return event
	})

	list.SetChangedFunc(func(int, string, string, rune) {
		updateDetails()
	})
	updateDetails()

	mainLayout := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(headerView, 1, 0, false).
		AddItem(tview.NewBox(), 1, 0, false).
		AddItem(flex, 0, 1, true)

	if err := app.SetRoot(mainLayout, true).SetFocus(list).Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func listItemText(index int, failure domain.FailedAssertion) string {
	name := failure.Assertion.Name
	if name == "" {
		name = fmt.Sprintf("assertion %d", failure.Assertion.Index)
	}
	return fmt.Sprintf("[yellow]%d.[white] %s", index+1, tview.Escape(name))
}

func failingTestCases(result *domain.RunResult) int {
	var n int
	for _, tc := range result.TestCases {
		if tc.Failures > 0 {
			n++
		}
	}
	return n
}

// formatFailureDetails formats a failed assertion using tview color tags
func (fv *FailureViewer) formatFailureDetails(failure domain.FailedAssertion) string {
	var builder strings.Builder
	w := tabwriter.NewWriter(&builder, 0, 0, 2, ' ', 0)

	a := failure.Assertion
	fmt.Fprintf(w, "[red]✗ %s[white]\n\n", tview.Escape(a.Name))
	fmt.Fprintf(w, "[cyan]Testcase:[white]\t%s\n", tview.Escape(failure.TestCase.Description))
	fmt.Fprintf(w, "[cyan]Position:[white]\t%d of %d\n", a.Index, failure.TestCase.Asserted)
	fmt.Fprintf(w, "[cyan]Passed:[white]\t%d\n\n", a.Passed)

	if a.NothingPassed {
		fmt.Fprintf(w, "[yellow]Nothing passed within %s[white]\n\n", fv.config.PollBudget())
	}

	if len(a.Failures) > 0 {
		fmt.Fprintf(w, "[yellow]Failures:[white]\n")
		for i, text := range a.Failures {
			fmt.Fprintf(w, "[gray]%d)[white] %s\n\n", i+1, tview.Escape(text))
		}
	}

	w.Flush()
	return builder.String()
}

// formatFailureStats formats the header above the details
func (fv *FailureViewer) formatFailureStats(failure domain.FailedAssertion) string {
	return fmt.Sprintf("[cyan]path:[white] [yellow]%s[white]::[yellow]%s[white]\n",
		tview.Escape(failure.TestCase.Description), tview.Escape(failure.Assertion.Name))
}
