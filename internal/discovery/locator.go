package discovery

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
)

// Locator finds the files needed to start the application
type Locator struct {
	lookPath func(string) (string, error)
}

// NewLocator creates a new Locator resolving bare names through PATH
func NewLocator() *Locator {
	return &Locator{lookPath: exec.LookPath}
}

// Executable returns the first candidate that is an executable file.
// Candidates without a directory component are looked up in PATH.
func (l *Locator) Executable(candidates []string) (string, error) {
	for _, c := range candidates {
		if filepath.Base(c) == c {
			if p, err := l.lookPath(c); err == nil {
				return p, nil
			}
			continue
		}
		info, err := os.Stat(c)
		if err != nil || info.IsDir() {
			continue
		}
		if info.Mode()&0111 == 0 {
			continue
		}
		abs, err := filepath.Abs(c)
		if err != nil {
			return c, nil
		}
		return abs, nil
	}
	return "", fmt.Errorf("electron executable not found, tried %v", candidates)
}

// File checks that path exists and is a regular file
func (l *Locator) File(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("entry script does not exist: %s", path)
	}
	if info.IsDir() {
		return "", fmt.Errorf("entry script is a directory: %s", path)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return path, nil
	}
	return abs, nil
}
