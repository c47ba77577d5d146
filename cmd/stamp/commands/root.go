// Package commands implements the CLI commands for the stamp uid tool.
package commands

import (
	"context"
	"io"

	"github.com/spf13/cobra"
	"go.trai.ch/stamp/internal/app"
	"go.trai.ch/stamp/internal/build"
	"go.trai.ch/stamp/internal/core/ports"
)

// switchable is implemented by loggers whose output format can change at runtime.
type switchable interface {
	SetJSON(enable bool)
	SetVerbose(enable bool)
}

// CLI represents the command line interface for stamp.
type CLI struct {
	app     *app.App
	logger  ports.Logger
	rootCmd *cobra.Command
}

// New creates a new CLI instance with the given app.
func New(a *app.App, logger ports.Logger) *CLI {
	rootCmd := &cobra.Command{
		Use:           "stamp",
		Short:         "Content-addressed identities for build graphs",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
	}

	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	flags := rootCmd.PersistentFlags()
	flags.StringP("config", "c", "", "Path to the configuration file (default stamp.yaml)")
	flags.BoolP("no-cache", "n", false, "Ignore cached uids and recompute everything")
	flags.IntP("jobs", "j", 0, "Number of parallel file hashing jobs (default: configuration or CPU count)")
	flags.Bool("log-json", false, "Write logs as JSON")
	flags.BoolP("verbose", "v", false, "Enable debug logging")

	c := &CLI{
		app:     a,
		logger:  logger,
		rootCmd: rootCmd,
	}

	rootCmd.PersistentPreRun = func(cmd *cobra.Command, _ []string) {
		l, ok := c.logger.(switchable)
		if !ok {
			return
		}
		jsonLogs, _ := cmd.Flags().GetBool("log-json")
		verbose, _ := cmd.Flags().GetBool("verbose")
		l.SetJSON(jsonLogs)
		l.SetVerbose(verbose)
	}

	rootCmd.AddCommand(c.newUIDCmd())
	rootCmd.AddCommand(c.newWatchCmd())
	rootCmd.AddCommand(c.newStatsCmd())
	rootCmd.AddCommand(c.newExplainCmd())
	rootCmd.AddCommand(c.newLoopsCmd())
	rootCmd.AddCommand(c.newCleanCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOutput redirects command output. Used for testing.
func (c *CLI) SetOutput(w io.Writer) {
	c.rootCmd.SetOut(w)
	c.rootCmd.SetErr(w)
}

// options reads the flags shared by every command.
func options(cmd *cobra.Command) app.Options {
	configPath, _ := cmd.Flags().GetString("config")
	noCache, _ := cmd.Flags().GetBool("no-cache")
	jobs, _ := cmd.Flags().GetInt("jobs")
	return app.Options{
		ConfigPath: configPath,
		NoCache:    noCache,
		Jobs:       jobs,
	}
}
