package launcher

import (
	"context"
	"sync"
	"time"

	"ecr/internal/browser"

	"github.com/phuslu/log"
)

// stopGrace is how long Stop waits for the application after interrupting it
const stopGrace = 5 * time.Second

// Session is a connected application. Stop releases everything it holds.
type Session struct {
	client  browser.Client
	cancels []context.CancelFunc // innermost first
	proc    *process
	tmpDir  string

	// keepPage leaves the chromedp contexts alive on Stop. Cancelling a
	// target context closes its page, which must not happen to an
	// application ecr did not start; the connection ends with the process.
	keepPage bool

	once    sync.Once
	stopErr error
}

// Client returns the page client of the session
func (s *Session) Client() browser.Client {
	return s.client
}

// Stop closes the DevTools connection, stops the launched application and
// removes the bootstrap directory. Attached sessions leave the page open.
// It is safe to call more than once.
func (s *Session) Stop() error {
	s.once.Do(func() {
		if s.keepPage {
			log.Debug().Msg("leaving attached page open")
		} else {
			for _, cancel := range s.cancels {
				cancel()
			}
		}
		if s.proc != nil {
			s.stopErr = s.proc.stop(stopGrace)
		}
		removeDir(s.tmpDir)
		log.Debug().Msg("session stopped")
	})
	return s.stopErr
}
