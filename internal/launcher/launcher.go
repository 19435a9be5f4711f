// Package launcher starts the application under test and connects to its
// DevTools endpoint.
package launcher

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"ecr/internal/browser"
	"ecr/internal/config"
	"ecr/internal/discovery"

	"github.com/chromedp/cdproto/target"
	"github.com/chromedp/chromedp"
	"github.com/phuslu/log"
)

// targetRetryInterval is how often the target list is re-read while the
// first window is still opening
const targetRetryInterval = 100 * time.Millisecond

// Launcher starts the application and hands back a connected Session
type Launcher struct {
	config  *config.Config
	locator *discovery.Locator
}

// NewLauncher creates a new Launcher
func NewLauncher(cfg *config.Config, locator *discovery.Locator) *Launcher {
	return &Launcher{
		config:  cfg,
		locator: locator,
	}
}

// Start launches the application, or attaches to it when an attach URL is
// configured, and returns a session attached to its page target
func (l *Launcher) Start(ctx context.Context) (*Session, error) {
	if l.config.AttachURL != "" {
		return l.Attach(ctx, l.config.AttachURL)
	}

	electron, err := l.locator.Executable(l.config.GetElectronCandidates())
	if err != nil {
		return nil, err
	}

	entry, tmpDir, err := l.entryScript()
	if err != nil {
		return nil, err
	}

	cmd := exec.Command(electron, l.commandArgs(entry)...)
	cmd.Dir = l.config.ProjectPath
	cmd.Env = os.Environ()
	if l.config.AppURL != "" {
		cmd.Env = append(cmd.Env, fmt.Sprintf("ECR_APP_URL=%s", l.config.AppURL))
	}

	proc, err := startProcess(cmd)
	if err != nil {
		removeDir(tmpDir)
		return nil, err
	}

	sess := &Session{proc: proc, tmpDir: tmpDir}

	wsURL, err := proc.waitForDevTools(ctx, l.config.LaunchTimeout)
	if err != nil {
		sess.Stop()
		return nil, fmt.Errorf("failed to launch application: %w", err)
	}
	log.Info().Str("url", wsURL).Msg("DevTools endpoint announced")

	if err := l.connect(ctx, sess, wsURL, chromedp.NoModifyURL); err != nil {
		sess.Stop()
		return nil, err
	}
	return sess, nil
}

// Attach connects to an already running DevTools endpoint. url may be a
// browser websocket URL or the http address of the debugging port. The
// attached page stays open when the session stops.
func (l *Launcher) Attach(ctx context.Context, url string) (*Session, error) {
	sess := &Session{}
	if err := l.connect(ctx, sess, url); err != nil {
		sess.Stop()
		return nil, err
	}
	sess.keepPage = true
	return sess, nil
}

// entryScript returns the script to launch and the temporary directory
// holding it when the embedded bootstrap is used
func (l *Launcher) entryScript() (string, string, error) {
	entry, err := l.locator.File(l.config.GetEntryScriptPath())
	if err == nil {
		return entry, "", nil
	}
	if l.config.AppURL == "" {
		return "", "", err
	}

	dir, path, werr := writeBootstrap()
	if werr != nil {
		return "", "", werr
	}
	log.Debug().Str("script", path).Str("url", l.config.AppURL).Msg("using bootstrap entry script")
	return path, dir, nil
}

func (l *Launcher) commandArgs(entry string) []string {
	return []string{
		"--remote-debugging-port=" + strconv.Itoa(l.config.DebugPort),
		entry,
	}
}

// connect attaches the session to the page target behind url
func (l *Launcher) connect(ctx context.Context, sess *Session, url string, opts ...chromedp.RemoteAllocatorOption) error {
	allocCtx, allocCancel := chromedp.NewRemoteAllocator(context.Background(), url, opts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx,
		chromedp.WithLogf(func(format string, args ...interface{}) {
			log.Debug().Msgf(format, args...)
		}),
		chromedp.WithErrorf(func(format string, args ...interface{}) {
			log.Error().Msgf(format, args...)
		}),
	)
	sess.cancels = append(sess.cancels, browserCancel, allocCancel)

	id, err := l.pageTarget(ctx, browserCtx)
	if err != nil {
		return err
	}

	tabCtx, tabCancel := chromedp.NewContext(browserCtx, chromedp.WithTargetID(id))
	sess.cancels = append([]context.CancelFunc{tabCancel}, sess.cancels...)

	// The first Run attaches to the target; it must not run under a
	// deadline context since chromedp ties the connection to it.
	attached := make(chan error, 1)
	go func() { attached <- chromedp.Run(tabCtx) }()

	timer := time.NewTimer(l.config.LaunchTimeout)
	defer timer.Stop()
	select {
	case err := <-attached:
		if err != nil {
			return fmt.Errorf("failed to attach to page target: %w", err)
		}
	case <-timer.C:
		return fmt.Errorf("failed to attach to page target: timed out after %s", l.config.LaunchTimeout)
	case <-ctx.Done():
		return ctx.Err()
	}

	log.Info().Str("target", string(id)).Msg("attached to page target")
	sess.client = browser.NewChromeClient(tabCtx, l.config)
	return nil
}

// pageTarget waits for a page target matching the target filter
func (l *Launcher) pageTarget(ctx context.Context, browserCtx context.Context) (target.ID, error) {
	deadline := time.Now().Add(l.config.LaunchTimeout)
	ticker := time.NewTicker(targetRetryInterval)
	defer ticker.Stop()

	for {
		targets, err := listTargets(ctx, browserCtx, l.config.LaunchTimeout)
		if err != nil {
			return "", fmt.Errorf("failed to list DevTools targets: %w", err)
		}
		if t := selectTarget(targets, l.config.TargetFilter); t != nil {
			return t.TargetID, nil
		}
		log.Debug().Int("targets", len(targets)).Msg("no page target yet")

		if time.Now().After(deadline) {
			if l.config.TargetFilter != "" {
				return "", fmt.Errorf("no page target matching %q within %s", l.config.TargetFilter, l.config.LaunchTimeout)
			}
			return "", fmt.Errorf("no page target within %s", l.config.LaunchTimeout)
		}

		select {
		case <-ticker.C:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
}

// listTargets reads the target list. The first call connects to the
// browser, so it runs unbounded in a goroutine and is abandoned on timeout.
func listTargets(ctx context.Context, browserCtx context.Context, timeout time.Duration) ([]*target.Info, error) {
	type listing struct {
		targets []*target.Info
		err     error
	}
	ch := make(chan listing, 1)
	go func() {
		targets, err := chromedp.Targets(browserCtx)
		ch <- listing{targets, err}
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case l := <-ch:
		return l.targets, l.err
	case <-timer.C:
		return nil, errors.New("timed out connecting to DevTools endpoint")
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// selectTarget returns the first page target whose URL or title contains
// filter, or the first page target when filter is empty
func selectTarget(targets []*target.Info, filter string) *target.Info {
	for _, t := range targets {
		if t.Type != "page" {
			continue
		}
		if filter == "" || strings.Contains(t.URL, filter) || strings.Contains(t.Title, filter) {
			return t
		}
	}
	return nil
}

func removeDir(dir string) {
	if dir == "" {
		return
	}
	if err := os.RemoveAll(dir); err != nil {
		log.Warn().Err(err).Str("dir", dir).Msg("failed to remove bootstrap directory")
	}
}
