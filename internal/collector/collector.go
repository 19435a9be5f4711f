// Package collector walks the reporting UI and aggregates assertion failures.
package collector

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"ecr/internal/browser"
	"ecr/internal/config"
	"ecr/internal/discovery"
	"ecr/internal/domain"
	"ecr/internal/parser"

	"github.com/phuslu/log"
)

// emptyMarker stands in for a failure marker that renders without text
const emptyMarker = "(failure marker without text)"

// Reporter receives progress while the collector walks the UI
type Reporter interface {
	RunStarted(total int)
	TestCaseStarted(entry domain.TestCaseEntry)
	TestCaseSkipped(entry domain.TestCaseEntry, reason string)
	AssertionChecked(entry domain.TestCaseEntry, a domain.AssertionResult)
	TestCaseFinished(tc domain.TestCaseResult)
}

// Collector walks testcases and their assertions through a browser.Client
type Collector struct {
	selectors   config.Selectors
	zeroAsserts config.ZeroAssertPolicy
	poller      *Poller
	filter      *discovery.Filter
	failFast    bool
	reporter    Reporter
}

// New creates a new Collector
func New(cfg *config.Config, filter *discovery.Filter) *Collector {
	return &Collector{
		selectors:   cfg.Selectors,
		zeroAsserts: cfg.ZeroAsserts,
		poller:      NewPoller(cfg.PollAttempts, cfg.PollInterval),
		filter:      filter,
		failFast:    cfg.Flags.FailFast,
		reporter:    nopReporter{},
	}
}

// SetReporter sets the progress reporter, nil disables reporting
func (c *Collector) SetReporter(r Reporter) {
	if r == nil {
		r = nopReporter{}
	}
	c.reporter = r
}

// Run visits every testcase in list order, inspects its assertions and
// returns the aggregated result. On an infrastructure error the partial
// result collected so far is returned along with the error.
func (c *Collector) Run(ctx context.Context, client browser.Client) (*domain.RunResult, error) {
	start := time.Now()
	result := &domain.RunResult{}
	defer func() { result.Duration = time.Since(start) }()

	total, err := c.countEntries(ctx, client)
	if err != nil {
		return result, err
	}
	c.reporter.RunStarted(total)

	// entered tracks whether the page currently shows a detail view
	entered := false
	for i := 1; i <= total; i++ {
		if entered {
			if err := client.Back(ctx); err != nil {
				return result, domain.Infra("navigate back", i-1, err)
			}
			entered = false
		}

		entry, err := c.readEntry(ctx, client, i)
		if err != nil {
			return result, err
		}

		if reason := c.skipReason(entry); reason != "" {
			c.reporter.TestCaseSkipped(entry, reason)
			result.Add(domain.TestCaseResult{Entry: entry, Skipped: true})
			continue
		}

		c.reporter.TestCaseStarted(entry)
		if err := client.Click(ctx, c.selectors.Entry(i)); err != nil {
			return result, domain.Infra("open testcase", i, err)
		}
		entered = true

		tc, err := c.collectAssertions(ctx, client, entry)
		result.Add(tc)
		if err != nil {
			return result, err
		}
		c.reporter.TestCaseFinished(tc)

		if c.failFast && tc.Failures > 0 {
			log.Info().Int("testcase", i).Msg("stopping after first failing testcase")
			break
		}
	}

	return result, nil
}

// Enumerate lists the testcase entries without entering any of them
func (c *Collector) Enumerate(ctx context.Context, client browser.Client) ([]domain.TestCaseEntry, error) {
	total, err := c.countEntries(ctx, client)
	if err != nil {
		return nil, err
	}
	entries := make([]domain.TestCaseEntry, 0, total)
	for i := 1; i <= total; i++ {
		entry, err := c.readEntry(ctx, client, i)
		if err != nil {
			return entries, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// countEntries waits for the testcase list and counts its entries
func (c *Collector) countEntries(ctx context.Context, client browser.Client) (int, error) {
	if err := client.WaitForText(ctx, c.selectors.ListItem); err != nil {
		return 0, domain.Infra("wait for testcase list", 0, err)
	}
	total, err := client.Count(ctx, c.selectors.ListItem)
	if err != nil {
		return 0, domain.Infra("count testcases", 0, err)
	}
	log.Debug().Int("testcases", total).Msg("testcase list rendered")
	return total, nil
}

// readEntry resolves the i-th list entry after the list has settled
func (c *Collector) readEntry(ctx context.Context, client browser.Client, i int) (domain.TestCaseEntry, error) {
	entry := domain.TestCaseEntry{Index: i}
	sel := c.selectors.Entry(i)

	if err := client.WaitForText(ctx, sel); err != nil {
		return entry, domain.Infra("wait for testcase", i, err)
	}

	countText, err := client.Text(ctx, c.selectors.EntryCount(i))
	if err != nil {
		return entry, domain.Infra("read assertion count", i, err)
	}
	asserted, err := parser.ParseCount(countText)
	if err != nil {
		return entry, domain.Infra("read assertion count", i, err)
	}
	if asserted < 0 {
		return entry, domain.Infra("read assertion count", i, fmt.Errorf("negative count %d", asserted))
	}
	entry.Asserted = asserted

	text, err := client.Text(ctx, sel)
	if err != nil {
		return entry, domain.Infra("read testcase description", i, err)
	}
	entry.Description = parser.Description(text, countText)
	return entry, nil
}

func (c *Collector) skipReason(entry domain.TestCaseEntry) string {
	if !c.filter.Match(entry.Description) {
		return fmt.Sprintf("does not match filter %q", c.filter.Pattern())
	}
	if entry.Asserted == 0 && c.zeroAsserts == config.ZeroAssertSkip {
		return "no assertions"
	}
	return ""
}

// assertionsToInspect returns how many positions the detail view is walked for
func (c *Collector) assertionsToInspect(entry domain.TestCaseEntry) int {
	if entry.Asserted == 0 && c.zeroAsserts == config.ZeroAssertProbe {
		return 1
	}
	return entry.Asserted
}

// collectAssertions walks the detail view of an entered testcase
func (c *Collector) collectAssertions(ctx context.Context, client browser.Client, entry domain.TestCaseEntry) (domain.TestCaseResult, error) {
	tc := domain.TestCaseResult{Entry: entry}
	n := c.assertionsToInspect(entry)
	for j := 1; j <= n; j++ {
		a, err := c.inspectAssertion(ctx, client, j)
		if err != nil {
			return tc, domain.Infra(fmt.Sprintf("inspect assertion %d", j), entry.Index, err)
		}
		tc.Assertions = append(tc.Assertions, a)
		if a.Failed() {
			tc.Failures++
		}
		c.reporter.AssertionChecked(entry, a)
	}
	return tc, nil
}

// inspectAssertion reads the j-th assertion of the current detail view.
// The pass counter is polled until it is non-zero or a failure marker
// shows up. A counter that stays zero for the whole budget is recorded as
// NothingPassed.
func (c *Collector) inspectAssertion(ctx context.Context, client browser.Client, j int) (domain.AssertionResult, error) {
	a := domain.AssertionResult{Index: j}

	name, err := client.Text(ctx, c.selectors.AssertionName(j))
	if err != nil {
		return a, err
	}
	a.Name = strings.TrimSpace(name)

	settled, attempts, err := c.poller.Until(ctx, func(ctx context.Context) (bool, error) {
		failures, err := c.readMarkers(ctx, client, j)
		if err != nil {
			return false, err
		}
		a.Failures = failures

		passed, err := c.readPassCounter(ctx, client, j)
		if err != nil {
			return false, err
		}
		a.Passed = passed

		return passed > 0 || len(failures) > 0, nil
	})
	if err != nil {
		return a, err
	}
	a.NothingPassed = !settled

	log.Debug().Int("assertion", j).Int("attempts", attempts).Int("passed", a.Passed).
		Int("markers", len(a.Failures)).Msg("assertion inspected")
	return a, nil
}

// readMarkers collects the text of every failure and error marker
func (c *Collector) readMarkers(ctx context.Context, client browser.Client, j int) ([]string, error) {
	var failures []string
	for _, sel := range c.selectors.AssertionMarkers(j) {
		texts, err := client.Texts(ctx, sel)
		if err != nil {
			return nil, err
		}
		for _, text := range texts {
			text = strings.TrimSpace(text)
			if text == "" {
				text = emptyMarker
			}
			failures = append(failures, text)
		}
	}
	return failures, nil
}

// readPassCounter returns the pass counter, 0 while it is not rendered
func (c *Collector) readPassCounter(ctx context.Context, client browser.Client, j int) (int, error) {
	text, err := client.Text(ctx, c.selectors.AssertionPassCounter(j))
	if errors.Is(err, domain.ErrNoSuchElement) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return parser.ParseCountOrZero(text), nil
}

type nopReporter struct{}

func (nopReporter) RunStarted(int)                                                {}
func (nopReporter) TestCaseStarted(domain.TestCaseEntry)                          {}
func (nopReporter) TestCaseSkipped(domain.TestCaseEntry, string)                  {}
func (nopReporter) AssertionChecked(domain.TestCaseEntry, domain.AssertionResult) {}
func (nopReporter) TestCaseFinished(domain.TestCaseResult)                        {}
