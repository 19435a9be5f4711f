package launcher

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/acarl005/stripansi"
	"github.com/phuslu/log"
)

// devToolsPattern matches the line the application prints once its
// debugging endpoint accepts connections
var devToolsPattern = regexp.MustCompile(`DevTools listening on (ws://\S+)`)

// ErrProcessExited is returned when the application exits before it
// announces its DevTools endpoint
var ErrProcessExited = errors.New("application exited before DevTools endpoint was announced")

// process is a started application with its output being scanned
type process struct {
	cmd  *exec.Cmd
	urls chan string
	done chan struct{}
	err  error // set before done is closed
}

// startProcess starts the command and streams its output. The first
// DevTools URL found on either stream is delivered on urls.
func startProcess(cmd *exec.Cmd) (*process, error) {
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to create stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to create stderr pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start %s: %w", cmd.Path, err)
	}
	log.Debug().Int("pid", cmd.Process.Pid).Str("path", cmd.Path).Strs("args", cmd.Args[1:]).Msg("application started")

	p := &process{
		cmd:  cmd,
		urls: make(chan string, 1),
		done: make(chan struct{}),
	}

	var scanWg sync.WaitGroup
	scanWg.Add(2)
	go func() {
		defer scanWg.Done()
		p.scan(stdout, "stdout")
	}()
	go func() {
		defer scanWg.Done()
		p.scan(stderr, "stderr")
	}()

	go func() {
		// Wait closes the pipes, so scanners must drain first
		scanWg.Wait()
		p.err = cmd.Wait()
		close(p.done)
	}()

	return p, nil
}

// scan forwards output lines to the debug log and publishes the DevTools URL
func (p *process) scan(r io.Reader, stream string) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(stripansi.Strip(scanner.Text()))
		if line == "" {
			continue
		}
		if m := devToolsPattern.FindStringSubmatch(line); m != nil {
			select {
			case p.urls <- m[1]:
			default:
			}
			continue
		}
		log.Debug().Str("stream", stream).Msg(line)
	}
}

// waitForDevTools blocks until the DevTools URL is announced, the process
// exits, timeout expires or ctx is done
func (p *process) waitForDevTools(ctx context.Context, timeout time.Duration) (string, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case u := <-p.urls:
		return u, nil
	case <-p.done:
		// The URL may have been the last line before exit
		select {
		case u := <-p.urls:
			return u, nil
		default:
		}
		if p.err != nil {
			return "", fmt.Errorf("%w: %v", ErrProcessExited, p.err)
		}
		return "", ErrProcessExited
	case <-timer.C:
		return "", fmt.Errorf("no DevTools endpoint announced within %s", timeout)
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// stop interrupts the process and kills it if it is still running after grace
func (p *process) stop(grace time.Duration) error {
	select {
	case <-p.done:
		return nil
	default:
	}

	if err := p.cmd.Process.Signal(os.Interrupt); err != nil {
		log.Debug().Err(err).Msg("interrupt failed, killing application")
		return p.kill()
	}

	timer := time.NewTimer(grace)
	defer timer.Stop()
	select {
	case <-p.done:
		return nil
	case <-timer.C:
		log.Warn().Dur("grace", grace).Msg("application did not exit, killing it")
		return p.kill()
	}
}

func (p *process) kill() error {
	if err := p.cmd.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
		return fmt.Errorf("failed to kill application: %w", err)
	}
	<-p.done
	return nil
}
