package report

import (
	"ecr/internal/config"
	"ecr/internal/domain"
)

// Writer exports a finished run. Reports are write-only: nothing reads
// them back on the next run.
type Writer interface {
	Write(result *domain.RunResult, runErr error) error
}

// JSONWriter writes the run as JSON to the configured report path
type JSONWriter struct {
	cfg *config.Config
}

// NewJSONWriter returns a Writer targeting the config's report path
func NewJSONWriter(cfg *config.Config) *JSONWriter {
	return &JSONWriter{cfg: cfg}
}
