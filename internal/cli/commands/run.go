package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"ecr/internal/collector"
	"ecr/internal/config"
	"ecr/internal/discovery"
	"ecr/internal/domain"
	"ecr/internal/exitcodes"
	"ecr/internal/launcher"
	"ecr/internal/report"
	"ecr/internal/ui"

	"github.com/phuslu/log"
	"github.com/spf13/cobra"
)

// RunCommand handles the run command
type RunCommand struct {
	config    *config.Config
	starter   starter
	formatter *ui.Formatter
	writer    report.Writer
	viewer    ui.Viewer
}

// NewRunCommand creates a new RunCommand
func NewRunCommand(
	cfg *config.Config,
	l *launcher.Launcher,
	formatter *ui.Formatter,
	writer report.Writer,
	viewer ui.Viewer,
) *RunCommand {
	return &RunCommand{
		config:    cfg,
		starter:   launcherStarter{launcher: l},
		formatter: formatter,
		writer:    writer,
		viewer:    viewer,
	}
}

// Execute runs the command
func (rc *RunCommand) Execute(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if rc.config.RunTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, rc.config.RunTimeout)
		defer cancel()
	}

	finish := startSpinner(rc.config)
	sess, err := rc.starter.Start(ctx)
	finish()
	if err != nil {
		return rc.abort(&domain.RunResult{}, err)
	}
	defer func() {
		if err := sess.Stop(); err != nil {
			log.Warn().Err(err).Msg("failed to stop application")
		}
	}()

	c := collector.New(rc.config, discovery.NewFilter(rc.config.Flags.NameFilter))
	var progress *ui.ProgressReporter
	if rc.config.Flags.Quiet {
		progress = ui.NewProgressReporter()
		c.SetReporter(progress)
	} else {
		c.SetReporter(rc.formatter)
	}

	result, err := c.Run(ctx, sess.Client())
	if progress != nil {
		progress.Finish()
	}
	if err != nil {
		return rc.abort(result, err)
	}

	rc.formatter.PrintSummary(result)
	rc.writeReport(result, nil)

	if result.ExitCode() == exitcodes.Success {
		return nil
	}
	if rc.config.Flags.OpenFailures {
		if err := rc.viewer.View(result); err != nil {
			log.Error().Err(err).Msg("failure viewer exited with an error")
		}
	}
	return exitcodes.Failed(result.Failures)
}

// abort reports a run that could not be completed. The summary of what
// was collected is printed before the error banner.
func (rc *RunCommand) abort(result *domain.RunResult, err error) error {
	log.Error().Err(err).Int("failures", result.Failures).Msg("run aborted")
	rc.formatter.PrintSummary(result)
	rc.formatter.PrintError(err)
	rc.writeReport(result, err)
	return exitcodes.Runtime(err)
}

func (rc *RunCommand) writeReport(result *domain.RunResult, runErr error) {
	if err := rc.writer.Write(result, runErr); err != nil {
		log.Error().Err(err).Msg("failed to write report")
	}
}
