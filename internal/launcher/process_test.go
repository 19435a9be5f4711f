package launcher

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// helperCommand re-runs the test binary as a fake application
func helperCommand(mode string) *exec.Cmd {
	cmd := exec.Command(os.Args[0], "-test.run=TestHelperProcess", "--", mode)
	cmd.Env = append(os.Environ(), "GO_WANT_HELPER_PROCESS=1")
	return cmd
}

func TestHelperProcess(t *testing.T) {
	if os.Getenv("GO_WANT_HELPER_PROCESS") != "1" {
		return
	}
	mode := os.Args[len(os.Args)-1]
	switch mode {
	case "announce":
		fmt.Println("[main] starting")
		fmt.Fprintln(os.Stderr, "DevTools listening on ws://127.0.0.1:9333/devtools/browser/abc")
		time.Sleep(time.Minute)
	case "announce-exit":
		fmt.Fprintln(os.Stderr, "DevTools listening on ws://127.0.0.1:9333/devtools/browser/abc")
	case "crash":
		fmt.Fprintln(os.Stderr, "cannot find module")
		os.Exit(3)
	case "silent":
		time.Sleep(time.Minute)
	}
	os.Exit(0)
}

func TestProcess_AnnouncesDevTools(t *testing.T) {
	p, err := startProcess(helperCommand("announce"))
	require.NoError(t, err)
	defer p.stop(time.Second)

	url, err := p.waitForDevTools(context.Background(), 10*time.Second)
	require.NoError(t, err)
	assert.Equal(t, "ws://127.0.0.1:9333/devtools/browser/abc", url)
}

func TestProcess_AnnouncedBeforeExit(t *testing.T) {
	p, err := startProcess(helperCommand("announce-exit"))
	require.NoError(t, err)
	<-p.done

	url, err := p.waitForDevTools(context.Background(), time.Second)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "ws://"))
}

func TestProcess_ExitsEarly(t *testing.T) {
	p, err := startProcess(helperCommand("crash"))
	require.NoError(t, err)

	_, err = p.waitForDevTools(context.Background(), 10*time.Second)
	assert.True(t, errors.Is(err, ErrProcessExited))
	assert.Contains(t, err.Error(), "exit status 3")
}

func TestProcess_Timeout(t *testing.T) {
	p, err := startProcess(helperCommand("silent"))
	require.NoError(t, err)

	_, err = p.waitForDevTools(context.Background(), 50*time.Millisecond)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no DevTools endpoint announced")

	require.NoError(t, p.stop(time.Second))
	select {
	case <-p.done:
	default:
		t.Fatal("process still running after stop")
	}
}

func TestProcess_ContextCancelled(t *testing.T) {
	p, err := startProcess(helperCommand("silent"))
	require.NoError(t, err)
	defer p.stop(time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = p.waitForDevTools(ctx, 10*time.Second)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestProcess_StopAfterExit(t *testing.T) {
	p, err := startProcess(helperCommand("crash"))
	require.NoError(t, err)
	<-p.done

	assert.NoError(t, p.stop(time.Second))
}

func TestProcess_StartFails(t *testing.T) {
	_, err := startProcess(exec.Command("/nonexistent/electron"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to start")
}

func TestDevToolsPattern(t *testing.T) {
	tests := []struct {
		line string
		want string
	}{
		{"DevTools listening on ws://127.0.0.1:40111/devtools/browser/0f1e", "ws://127.0.0.1:40111/devtools/browser/0f1e"},
		{"\x1b[0mDevTools listening on ws://[::1]:9222/devtools/browser/x trailing", "ws://[::1]:9222/devtools/browser/x"},
		{"Debugger listening on ws://127.0.0.1:9229/uuid", ""},
		{"DevTools listening on", ""},
	}
	for _, tt := range tests {
		m := devToolsPattern.FindStringSubmatch(tt.line)
		got := ""
		if m != nil {
			got = m[1]
		}
		assert.Equal(t, tt.want, got, tt.line)
	}
}
