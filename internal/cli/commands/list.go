package commands

import (
	"os"
	"os/signal"
	"syscall"

	"ecr/internal/collector"
	"ecr/internal/config"
	"ecr/internal/discovery"
	"ecr/internal/exitcodes"
	"ecr/internal/launcher"
	"ecr/internal/ui"

	"github.com/fatih/color"
	"github.com/phuslu/log"
	"github.com/spf13/cobra"
)

// ListCommand handles the list command
type ListCommand struct {
	config    *config.Config
	starter   starter
	formatter *ui.Formatter
}

// NewListCommand creates a new ListCommand
func NewListCommand(
	cfg *config.Config,
	l *launcher.Launcher,
	formatter *ui.Formatter,
) *ListCommand {
	return &ListCommand{
		config:    cfg,
		starter:   launcherStarter{launcher: l},
		formatter: formatter,
	}
}

// Execute runs the command
func (lc *ListCommand) Execute(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	finish := startSpinner(lc.config)
	sess, err := lc.starter.Start(ctx)
	finish()
	if err != nil {
		lc.formatter.PrintError(err)
		return exitcodes.Runtime(err)
	}
	defer func() {
		if err := sess.Stop(); err != nil {
			log.Warn().Err(err).Msg("failed to stop application")
		}
	}()

	filter := discovery.NewFilter(lc.config.Flags.NameFilter)
	entries, err := collector.New(lc.config, filter).Enumerate(ctx, sess.Client())
	if err != nil {
		lc.formatter.PrintError(err)
		return exitcodes.Runtime(err)
	}

	matching := filter.FilterEntries(entries)
	if len(matching) == 0 {
		color.Yellow("No testcases found")
		return nil
	}

	lc.formatter.PrintTestCaseList(matching)
	return nil
}
