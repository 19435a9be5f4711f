package main

import (
	"errors"
	"fmt"
	"os"

	"ecr/internal/cli"
	"ecr/internal/cli/commands"
	"ecr/internal/config"
	"ecr/internal/exitcodes"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	// Create root command
	rootCmd := &cobra.Command{
		Use:           "ecr",
		Short:         "Electron devcards test runner",
		Long:          `Launches an Electron application, walks the devcards test UI through the DevTools protocol and reports every failed assertion.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Create initial config with defaults
	cfg := config.New()

	// Create flags struct (will be populated by command flags)
	var flags cli.Flags

	// Create commands with dependencies
	cmds := commands.NewCommands(cfg)

	// Register all commands
	cmds.Register(rootCmd, &flags, cfg)

	// Execute root command
	if err := rootCmd.Execute(); err != nil {
		// Commands report their own outcome; anything else is a usage or config error
		var exitErr *exitcodes.Error
		if !errors.As(err, &exitErr) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(exitcodes.Code(err))
	}
}
