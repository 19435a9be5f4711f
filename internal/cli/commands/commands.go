package commands

import (
	"time"

	"ecr/internal/cli"
	"ecr/internal/config"
	"ecr/internal/discovery"
	"ecr/internal/launcher"
	"ecr/internal/logging"
	"ecr/internal/report"
	"ecr/internal/ui"

	"github.com/phuslu/log"
	"github.com/spf13/cobra"
)

// Commands holds all CLI commands
type Commands struct {
	Run  *RunCommand
	List *ListCommand
}

// NewCommands creates all commands with dependencies
func NewCommands(cfg *config.Config) *Commands {
	// Initialize dependencies
	locator := discovery.NewLocator()
	appLauncher := launcher.NewLauncher(cfg, locator)
	formatter := ui.NewFormatter(cfg)
	reportWriter := report.NewJSONWriter(cfg)
	failureViewer := ui.NewFailureViewer(cfg)

	return &Commands{
		Run:  NewRunCommand(cfg, appLauncher, formatter, reportWriter, failureViewer),
		List: NewListCommand(cfg, appLauncher, formatter),
	}
}

// Register registers all commands with cobra
func (c *Commands) Register(rootCmd *cobra.Command, flags *cli.Flags, cfg *config.Config) {
	// Flags are parsed before PreRunE, so config is loaded there and
	// copied into the shared cfg every dependency points to
	loadConfig := func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(flags.ToConfigFlags())
		if err != nil {
			return err
		}
		*cfg = *loaded
		logging.Setup(cfg.LogLevel)
		return nil
	}

	// Run command
	runCmd := &cobra.Command{
		Use:     "run",
		Short:   "Run the devcards tests of an Electron application",
		Long:    "Launch the application, walk every testcase in the devcards UI and collect assertion failures",
		RunE:    c.Run.Execute,
		PreRunE: loadConfig,
	}
	addAppFlags(runCmd, flags)
	runCmd.Flags().IntVar(&flags.PollAttempts, "poll-attempts", 0, "Pass counter reads per assertion (default 250)")
	runCmd.Flags().DurationVar(&flags.PollInterval, "poll-interval", 0, "Delay between pass counter reads (default 100ms)")
	runCmd.Flags().StringVar(&flags.ZeroAsserts, "zero-asserts", "", "Testcases without assertions: visit, probe or skip (default visit)")
	runCmd.Flags().StringVarP(&flags.NameFilter, "filter", "f", "", "Filter testcases by description (supports wildcards, e.g., 'app.core*' or '*payment*')")
	runCmd.Flags().BoolVar(&flags.FailFast, "fail-fast", false, "Stop after the first testcase with failures")
	runCmd.Flags().StringVar(&flags.ReportPath, "report", "", "Write a JSON report of the run to this file")
	runCmd.Flags().BoolVarP(&flags.Quiet, "quiet", "q", false, "Show a progress bar instead of per-assertion lines")
	runCmd.Flags().BoolVar(&flags.OpenFailures, "open-failures", false, "Open the failure viewer when the run finishes with failures")
	runCmd.Flags().DurationVar(&flags.RunTimeout, "timeout", 0, "Abort the whole run after this duration (default no limit)")
	rootCmd.AddCommand(runCmd)

	// List command
	listCmd := &cobra.Command{
		Use:     "list",
		Short:   "List discovered testcases",
		Long:    "Launch the application and list every testcase with its assertion count without entering them",
		RunE:    c.List.Execute,
		PreRunE: loadConfig,
	}
	addAppFlags(listCmd, flags)
	listCmd.Flags().StringVarP(&flags.NameFilter, "filter", "f", "", "Filter testcases by description (supports wildcards, e.g., 'app.core*' or '*payment*')")
	rootCmd.AddCommand(listCmd)
}

// addAppFlags adds the flags shared by every command that starts the application
func addAppFlags(cmd *cobra.Command, flags *cli.Flags) {
	cmd.Flags().StringVarP(&flags.ProjectPath, "project", "p", "", "Path to the application project (default current directory)")
	cmd.Flags().StringVar(&flags.ElectronPath, "electron", "", "Path to the electron executable (default node_modules, then PATH)")
	cmd.Flags().StringVarP(&flags.EntryScript, "entry", "e", "", "Entry script relative to the project (default integration.js)")
	cmd.Flags().StringVar(&flags.AppURL, "url", "", "URL of the devcards page, loaded by a bootstrap script when no entry script exists")
	cmd.Flags().IntVar(&flags.DebugPort, "port", 0, "Remote debugging port (default chosen by the application)")
	cmd.Flags().StringVar(&flags.AttachURL, "attach", "", "Attach to a running DevTools endpoint instead of launching; the page is left open on exit")
	cmd.Flags().StringVar(&flags.TargetFilter, "target", "", "Attach to the first page whose URL or title contains this text")
	cmd.Flags().DurationVar(&flags.LaunchTimeout, "launch-timeout", 0, "Time allowed for the application to start (default 15s)")
	cmd.Flags().DurationVar(&flags.WaitTimeout, "wait-timeout", 0, "Time allowed for an element to render (default 15s)")
	cmd.Flags().DurationVar(&flags.ActionTimeout, "action-timeout", 0, "Time allowed for a single DOM action (default 15s)")
	cmd.Flags().StringVar(&flags.SelectorsFile, "selectors", "", "TOML file overriding the UI selectors")
	cmd.Flags().StringVar(&flags.LogLevel, "log-level", "", "Diagnostic log level: trace, debug, info, warn, error (default warn)")
}

// startSpinner shows a spinner while the application starts, unless
// diagnostics are being logged to the same terminal
func startSpinner(cfg *config.Config) func() {
	started := time.Now()
	if logging.ParseLevel(cfg.LogLevel) <= log.InfoLevel {
		return func() {
			log.Info().Dur("elapsed", time.Since(started)).Msg("application ready")
		}
	}
	spinner := ui.NewSpinner("Starting application...")
	return spinner.Finish
}
