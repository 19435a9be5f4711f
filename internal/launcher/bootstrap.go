package launcher

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
)

//go:embed bootstrap.js
var bootstrapScript []byte

// bootstrapFile is the entry script name inside the temporary directory
const bootstrapFile = "main.js"

// writeBootstrap writes the embedded entry script to a new temporary
// directory and returns the directory and the script path
func writeBootstrap() (string, string, error) {
	dir, err := os.MkdirTemp("", "ecr-bootstrap-")
	if err != nil {
		return "", "", fmt.Errorf("failed to create bootstrap directory: %w", err)
	}
	path := filepath.Join(dir, bootstrapFile)
	if err := os.WriteFile(path, bootstrapScript, 0o644); err != nil {
		os.RemoveAll(dir)
		return "", "", fmt.Errorf("failed to write bootstrap script: %w", err)
	}
	return dir, path, nil
}
