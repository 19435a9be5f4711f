package commands

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"ecr/internal/browser"
	"ecr/internal/config"
	"ecr/internal/domain"
)

var testSelectors = config.Selectors{
	ListItem:       "li",
	ListEntry:      "li:%d",
	AssertCount:    "count",
	Card:           "card:%d",
	CardName:       "name",
	FailureMarkers: []string{"fail"},
	PassCounter:    "passed",
}

// pageCase is a testcase with one assertion per entry in results. An empty
// result passes, anything else is shown as a failure marker.
type pageCase struct {
	description string
	results     []string
}

// pageClient renders a testcase list on page 0 and one detail page per testcase
type pageClient struct {
	cases       []pageCase
	page        int
	neverRender bool
}

func (p *pageClient) resolve(selector string) []string {
	parts := strings.Fields(selector)
	head, child := parts[0], ""
	if len(parts) > 1 {
		child = parts[1]
	}

	switch {
	case head == "li":
		if p.page != 0 || p.neverRender {
			return nil
		}
		texts := make([]string, 0, len(p.cases))
		for i := range p.cases {
			texts = append(texts, p.entryText(i+1))
		}
		return texts
	case strings.HasPrefix(head, "li:"):
		i, _ := strconv.Atoi(strings.TrimPrefix(head, "li:"))
		if p.page != 0 || p.neverRender || i < 1 || i > len(p.cases) {
			return nil
		}
		if child == "count" {
			return []string{strconv.Itoa(len(p.cases[i-1].results))}
		}
		return []string{p.entryText(i)}
	case strings.HasPrefix(head, "card:") && p.page > 0:
		j, _ := strconv.Atoi(strings.TrimPrefix(head, "card:"))
		results := p.cases[p.page-1].results
		if j < 1 || j > len(results) {
			return nil
		}
		switch child {
		case "name":
			return []string{fmt.Sprintf("assertion %d", j)}
		case "fail":
			if results[j-1] != "" {
				return []string{results[j-1]}
			}
		case "passed":
			if results[j-1] == "" {
				return []string{"1"}
			}
			return []string{"0"}
		}
	}
	return nil
}

func (p *pageClient) entryText(i int) string {
	return fmt.Sprintf("%s %d", p.cases[i-1].description, len(p.cases[i-1].results))
}

func (p *pageClient) WaitForText(_ context.Context, selector string) error {
	if texts := p.resolve(selector); len(texts) == 0 || texts[0] == "" {
		return fmt.Errorf("wait for text %q: timed out", selector)
	}
	return nil
}

func (p *pageClient) Count(_ context.Context, selector string) (int, error) {
	return len(p.resolve(selector)), nil
}

func (p *pageClient) Text(_ context.Context, selector string) (string, error) {
	texts := p.resolve(selector)
	if len(texts) == 0 {
		return "", fmt.Errorf("text %q: %w", selector, domain.ErrNoSuchElement)
	}
	return texts[0], nil
}

func (p *pageClient) Texts(_ context.Context, selector string) ([]string, error) {
	return p.resolve(selector), nil
}

func (p *pageClient) Click(_ context.Context, selector string) error {
	i, err := strconv.Atoi(strings.TrimPrefix(selector, "li:"))
	if err != nil || p.page != 0 || i < 1 || i > len(p.cases) {
		return fmt.Errorf("click %q: %w", selector, domain.ErrNoSuchElement)
	}
	p.page = i
	return nil
}

func (p *pageClient) Back(context.Context) error {
	if p.page == 0 {
		return errors.New("no previous history entry")
	}
	p.page = 0
	return nil
}

type fakeSession struct {
	client  browser.Client
	stopped int
}

func (s *fakeSession) Client() browser.Client { return s.client }

func (s *fakeSession) Stop() error {
	s.stopped++
	return nil
}

// fakeStarter hands out sess, or fails with err when it is set
type fakeStarter struct {
	sess *fakeSession
	err  error
}

func (s fakeStarter) Start(context.Context) (appSession, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.sess, nil
}

type fakeViewer struct {
	viewed int
}

func (v *fakeViewer) View(*domain.RunResult) error {
	v.viewed++
	return nil
}
