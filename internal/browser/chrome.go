package browser

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"ecr/internal/config"
	"ecr/internal/domain"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
	"github.com/phuslu/log"
)

// ChromeClient implements Client over the DevTools protocol with chromedp
type ChromeClient struct {
	ctx           context.Context // chromedp context attached to the page target
	actionTimeout time.Duration
	waitTimeout   time.Duration
	pollInterval  time.Duration
}

// NewChromeClient wraps a chromedp context that is already attached to a page
func NewChromeClient(ctx context.Context, cfg *config.Config) *ChromeClient {
	c := &ChromeClient{
		ctx:           ctx,
		actionTimeout: cfg.ActionTimeout,
		waitTimeout:   cfg.WaitTimeout,
		pollInterval:  cfg.PollInterval,
	}
	chromedp.ListenTarget(ctx, logPageEvent)
	return c
}

// run executes actions on the page, bounded by timeout and by the caller's ctx
func (c *ChromeClient) run(ctx context.Context, timeout time.Duration, actions ...chromedp.Action) error {
	runCtx, cancel := context.WithTimeout(c.ctx, timeout)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	if err := chromedp.Run(runCtx, actions...); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return err
	}
	return nil
}

// WaitForText polls until the first match of selector shows some text
func (c *ChromeClient) WaitForText(ctx context.Context, selector string) error {
	var ok bool
	err := c.run(ctx, c.waitTimeout+c.actionTimeout,
		chromedp.Poll(hasTextScript(selector), &ok,
			chromedp.WithPollingInterval(c.pollInterval),
			chromedp.WithPollingTimeout(c.waitTimeout),
		),
	)
	if err != nil {
		if errors.Is(err, chromedp.ErrPollingTimeout) {
			return fmt.Errorf("wait for text %q: timed out after %s", selector, c.waitTimeout)
		}
		return fmt.Errorf("wait for text %q: %w", selector, err)
	}
	return nil
}

// Count returns the number of nodes matching selector
func (c *ChromeClient) Count(ctx context.Context, selector string) (int, error) {
	var n int
	if err := c.run(ctx, c.actionTimeout, chromedp.Evaluate(countScript(selector), &n)); err != nil {
		return 0, fmt.Errorf("count %q: %w", selector, err)
	}
	return n, nil
}

// Text returns the text of the first match
func (c *ChromeClient) Text(ctx context.Context, selector string) (string, error) {
	var res textResult
	if err := c.run(ctx, c.actionTimeout, chromedp.Evaluate(textScript(selector), &res)); err != nil {
		return "", fmt.Errorf("text %q: %w", selector, err)
	}
	if !res.Found {
		return "", fmt.Errorf("text %q: %w", selector, domain.ErrNoSuchElement)
	}
	return res.Text, nil
}

// Texts returns the text of every match
func (c *ChromeClient) Texts(ctx context.Context, selector string) ([]string, error) {
	var texts []string
	if err := c.run(ctx, c.actionTimeout, chromedp.Evaluate(textsScript(selector), &texts)); err != nil {
		return nil, fmt.Errorf("texts %q: %w", selector, err)
	}
	return texts, nil
}

// Click clicks the first match once it is visible
func (c *ChromeClient) Click(ctx context.Context, selector string) error {
	if err := c.run(ctx, c.actionTimeout, chromedp.Click(selector, chromedp.ByQuery)); err != nil {
		return fmt.Errorf("click %q: %w", selector, err)
	}
	return nil
}

// Back moves to the previous history entry without waiting for a load
// event, hash navigations never fire one.
func (c *ChromeClient) Back(ctx context.Context) error {
	err := c.run(ctx, c.actionTimeout, chromedp.ActionFunc(func(ctx context.Context) error {
		cur, entries, err := page.GetNavigationHistory().Do(ctx)
		if err != nil {
			return err
		}
		if cur <= 0 || cur > int64(len(entries)-1) {
			return errors.New("no previous history entry")
		}
		return page.NavigateToHistoryEntry(entries[cur-1].ID).Do(ctx)
	}))
	if err != nil {
		return fmt.Errorf("navigate back: %w", err)
	}
	return nil
}

func logPageEvent(ev interface{}) {
	switch ev := ev.(type) {
	case *runtime.EventConsoleAPICalled:
		args := make([]string, 0, len(ev.Args))
		for _, arg := range ev.Args {
			if len(arg.Value) > 0 {
				args = append(args, string(arg.Value))
			} else {
				args = append(args, arg.Description)
			}
		}
		entry := log.Debug()
		if ev.Type == runtime.APITypeError {
			entry = log.Warn()
		}
		entry.Str("type", string(ev.Type)).Msg("app console: " + strings.Join(args, " "))
	case *runtime.EventExceptionThrown:
		details := ev.ExceptionDetails
		if details == nil {
			return
		}
		msg := details.Text
		if details.Exception != nil && details.Exception.Description != "" {
			msg = details.Exception.Description
		}
		log.Warn().Str("url", details.URL).Int64("line", details.LineNumber).Msg("app exception: " + msg)
	}
}
