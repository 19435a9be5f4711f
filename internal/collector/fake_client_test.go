package collector

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"ecr/internal/config"
	"ecr/internal/domain"
)

// testSelectors keep the fake DOM trivial to resolve
var testSelectors = config.Selectors{
	ListItem:       "li",
	ListEntry:      "li:%d",
	AssertCount:    "count",
	Card:           "card:%d",
	CardName:       "name",
	FailureMarkers: []string{"fail", "error"},
	PassCounter:    "passed",
}

type fakeAssertion struct {
	name   string
	fails  []string
	errors []string
	passed int // counter value once rendered
	delay  int // counter reads that still show nothing
}

type fakeCase struct {
	description string
	countText   string // overrides the displayed count when set
	assertions  []fakeAssertion
}

// fakeClient models a reporting UI with a list page (page 0) and one
// detail page per testcase. Selectors only resolve on the page that
// renders them, so a query issued before navigating fails like it would
// in the real application.
type fakeClient struct {
	cases       []fakeCase
	page        int
	history     []int
	neverRender bool
	failClickAt int
	failBack    bool

	calls        []string
	counterReads map[string]int
}

func newFakeClient(cases ...fakeCase) *fakeClient {
	return &fakeClient{cases: cases, counterReads: map[string]int{}}
}

func passing(name string) fakeAssertion {
	return fakeAssertion{name: name, passed: 1}
}

func (f *fakeClient) record(format string, args ...interface{}) {
	f.calls = append(f.calls, fmt.Sprintf(format, args...))
}

// resolve returns the texts the selector matches on the current page
func (f *fakeClient) resolve(selector string) []string {
	parts := strings.Fields(selector)
	head := parts[0]
	child := ""
	if len(parts) > 1 {
		child = parts[1]
	}

	switch {
	case head == "li":
		if f.page != 0 || f.neverRender {
			return nil
		}
		texts := make([]string, 0, len(f.cases))
		for i := range f.cases {
			texts = append(texts, f.entryText(i+1))
		}
		return texts

	case strings.HasPrefix(head, "li:"):
		i, _ := strconv.Atoi(strings.TrimPrefix(head, "li:"))
		if f.page != 0 || f.neverRender || i < 1 || i > len(f.cases) {
			return nil
		}
		if child == "count" {
			return []string{f.countText(i)}
		}
		return []string{f.entryText(i)}

	case strings.HasPrefix(head, "card:"):
		j, _ := strconv.Atoi(strings.TrimPrefix(head, "card:"))
		if f.page == 0 {
			return nil
		}
		as := f.cases[f.page-1].assertions
		if j < 1 || j > len(as) {
			return nil
		}
		a := as[j-1]
		switch child {
		case "name":
			return []string{a.name}
		case "fail":
			return a.fails
		case "error":
			return a.errors
		case "passed":
			key := fmt.Sprintf("%d/%d", f.page, j)
			f.counterReads[key]++
			if f.counterReads[key] <= a.delay {
				return nil
			}
			return []string{strconv.Itoa(a.passed)}
		}
	}
	return nil
}

func (f *fakeClient) countText(i int) string {
	c := f.cases[i-1]
	if c.countText != "" {
		return c.countText
	}
	return strconv.Itoa(len(c.assertions))
}

func (f *fakeClient) entryText(i int) string {
	return f.cases[i-1].description + " " + f.countText(i)
}

func (f *fakeClient) WaitForText(_ context.Context, selector string) error {
	f.record("wait %s", selector)
	texts := f.resolve(selector)
	if len(texts) == 0 || strings.TrimSpace(texts[0]) == "" {
		return fmt.Errorf("wait for text %q: timed out after %s", selector, time.Second)
	}
	return nil
}

func (f *fakeClient) Count(_ context.Context, selector string) (int, error) {
	return len(f.resolve(selector)), nil
}

func (f *fakeClient) Text(_ context.Context, selector string) (string, error) {
	texts := f.resolve(selector)
	if len(texts) == 0 {
		return "", fmt.Errorf("text %q: %w", selector, domain.ErrNoSuchElement)
	}
	return texts[0], nil
}

func (f *fakeClient) Texts(_ context.Context, selector string) ([]string, error) {
	return f.resolve(selector), nil
}

func (f *fakeClient) Click(_ context.Context, selector string) error {
	f.record("click %s", selector)
	i, err := strconv.Atoi(strings.TrimPrefix(selector, "li:"))
	if err != nil || f.page != 0 || i < 1 || i > len(f.cases) {
		return fmt.Errorf("click %q: %w", selector, domain.ErrNoSuchElement)
	}
	if f.failClickAt == i {
		return errors.New("target closed")
	}
	f.history = append(f.history, f.page)
	f.page = i
	return nil
}

func (f *fakeClient) Back(context.Context) error {
	f.record("back")
	if f.failBack {
		return errors.New("navigation failed")
	}
	if len(f.history) == 0 {
		return errors.New("no previous history entry")
	}
	f.page = f.history[len(f.history)-1]
	f.history = f.history[:len(f.history)-1]
	return nil
}

// navigation returns the click and back calls in order
func (f *fakeClient) navigation() []string {
	var nav []string
	for _, c := range f.calls {
		if strings.HasPrefix(c, "click") || c == "back" {
			nav = append(nav, c)
		}
	}
	return nav
}

// recordingReporter keeps every callback for assertions on ordering
type recordingReporter struct {
	events []string
}

func (r *recordingReporter) RunStarted(total int) {
	r.events = append(r.events, fmt.Sprintf("run %d", total))
}

func (r *recordingReporter) TestCaseStarted(entry domain.TestCaseEntry) {
	r.events = append(r.events, fmt.Sprintf("start %d %s", entry.Index, entry.Description))
}

func (r *recordingReporter) TestCaseSkipped(entry domain.TestCaseEntry, reason string) {
	r.events = append(r.events, fmt.Sprintf("skip %d", entry.Index))
}

func (r *recordingReporter) AssertionChecked(entry domain.TestCaseEntry, a domain.AssertionResult) {
	r.events = append(r.events, fmt.Sprintf("assert %d.%d failed=%t", entry.Index, a.Index, a.Failed()))
}

func (r *recordingReporter) TestCaseFinished(tc domain.TestCaseResult) {
	r.events = append(r.events, fmt.Sprintf("finish %d failures=%d", tc.Entry.Index, tc.Failures))
}
