package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"ecr/internal/domain"

	"github.com/google/uuid"
)

// Write marshals the run, including the abort reason when runErr is set.
// It does nothing when no report path is configured.
func (w *JSONWriter) Write(result *domain.RunResult, runErr error) error {
	path := w.cfg.GetReportPath()
	if path == "" {
		return nil
	}

	data, err := json.MarshalIndent(Build(result, runErr, time.Now(), uuid.NewString()), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create report dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// Build assembles the report document
func Build(result *domain.RunResult, runErr error, now time.Time, runID string) domain.RunReport {
	out := domain.RunReport{
		Meta: domain.RunReportMeta{
			RunID:            runID,
			TotalTestCases:   len(result.TestCases),
			SkippedTestCases: result.Skipped(),
			TotalAssertions:  result.Assertions(),
			Failures:         result.Failures,
			Duration:         result.Duration.String(),
			DurationSeconds:  result.Duration.Seconds(),
			Timestamp:        now.Format(time.RFC3339),
		},
		TestCases: result.TestCases,
	}
	if out.TestCases == nil {
		out.TestCases = []domain.TestCaseResult{}
	}
	if runErr != nil {
		out.Meta.Error = runErr.Error()
	}
	return out
}
