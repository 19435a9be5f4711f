package ui

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"ecr/internal/domain"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
)

// ProgressReporter shows a progress bar over testcases instead of
// per-assertion lines
type ProgressReporter struct {
	writer   io.Writer
	bar      *progressbar.ProgressBar
	failures int
}

// NewProgressReporter creates a progress reporter drawing on stderr
func NewProgressReporter() *ProgressReporter {
	return &ProgressReporter{writer: os.Stderr}
}

// RunStarted creates the bar sized to the testcase count
func (p *ProgressReporter) RunStarted(total int) {
	p.bar = progressbar.NewOptions(total,
		progressbar.OptionSetDescription(p.describe()),
		progressbar.OptionSetWidth(50),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        color.CyanString("█"),
			SaucerHead:    color.CyanString("█"),
			SaucerPadding: "░",
			BarStart:      "│",
			BarEnd:        "│",
		}),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWriter(p.writer),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprint(p.writer, "\n")
		}),
		progressbar.OptionSetRenderBlankState(true),
	)
}

// TestCaseStarted does nothing, the bar advances when a testcase ends
func (p *ProgressReporter) TestCaseStarted(domain.TestCaseEntry) {}

// TestCaseSkipped advances the bar
func (p *ProgressReporter) TestCaseSkipped(domain.TestCaseEntry, string) {
	p.advance()
}

// AssertionChecked does nothing, assertions are not shown in quiet mode
func (p *ProgressReporter) AssertionChecked(domain.TestCaseEntry, domain.AssertionResult) {}

// TestCaseFinished adds the testcase failures and advances the bar
func (p *ProgressReporter) TestCaseFinished(tc domain.TestCaseResult) {
	p.failures += tc.Failures
	p.advance()
}

// Finish completes the progress bar
func (p *ProgressReporter) Finish() {
	if p.bar != nil {
		p.bar.Finish()
	}
}

func (p *ProgressReporter) advance() {
	if p.bar == nil {
		return
	}
	p.bar.Describe(p.describe())
	p.bar.Add(1)
}

func (p *ProgressReporter) describe() string {
	return color.CyanString("Collecting: ") + color.RedString("[failures: %d]", p.failures)
}

// Spinner animates while the application starts
type Spinner struct {
	bar  *progressbar.ProgressBar
	stop chan struct{}
	once sync.Once
	wg   sync.WaitGroup
}

// NewSpinner starts a spinner with the given description on stderr
func NewSpinner(description string) *Spinner {
	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetDescription(color.CyanString(description)),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionClearOnFinish(),
	)
	s := &Spinner{bar: bar, stop: make(chan struct{})}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-s.stop:
				return
			case <-ticker.C:
				s.bar.Add(1)
			}
		}
	}()
	return s
}

// Finish stops and clears the spinner
func (s *Spinner) Finish() {
	s.once.Do(func() {
		close(s.stop)
		s.wg.Wait()
		s.bar.Finish()
	})
}
