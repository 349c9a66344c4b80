package app

import (
	"context"
	"encoding/json"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/tracefold/graphpub/pkg/graph"
	"github.com/tracefold/graphpub/pkg/logging"
)

// Execute runs the graphpub CLI application with the given arguments.
func (a *App) Execute(ctx context.Context, args []string) error {
	rootCmd := a.createRootCommand()
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(ctx)
}

// createRootCommand creates the root cobra command with all subcommands.
func (a *App) createRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "graphpub",
		Short:   "Graph batch publishing engine",
		Version: a.version,
		Long: `Graphpub reconciles authored batch declarations against a remote
graph store and emits the ordered mutation operations needed to make the
store match the batch.

The engine never mutates the store itself: every command writes its
operation list to stdout as JSON for the publishing pipeline to apply.`,
		PersistentPreRunE: a.setupCommand,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}

	rootCmd.PersistentFlags().String("config", "", "config file (default is $HOME/.graphpub.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output (shortcut for --log-level=debug)")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "minimal output (shortcut for --log-level=warn)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: trace, debug, info, warn, error (overrides -v/-q)")
	rootCmd.PersistentFlags().String("space", "", "space id (overrides GRAPHPUB_SPACE_ID)")

	rootCmd.SetVersionTemplate("graphpub {{.Version}}\n")

	rootCmd.AddCommand(a.createPublishCommand())
	rootCmd.AddCommand(a.createUpdateCommand())
	rootCmd.AddCommand(a.createDeleteCommand())
	rootCmd.AddCommand(a.createVersionCommand())

	return rootCmd
}

// setupCommand is called before any command runs. Flag values take
// precedence over config file and environment values.
func (a *App) setupCommand(cmd *cobra.Command, _ []string) error {
	verbose := mustGetBool(cmd, "verbose")
	quiet := mustGetBool(cmd, "quiet")
	logLevel := mustGetString(cmd, "log-level")
	space := mustGetString(cmd, "space")

	a.config.UpdateFromFlags(verbose, quiet, "")
	if logLevel != "" {
		a.config.LogLevel = logLevel
	}
	if space != "" {
		a.config.SpaceID = space
	}

	// Rebuild the logger now that flags are known
	logger := NewLogger(a.config)
	a.logger = &logger

	ctx := logging.WithLogger(cmd.Context(), a.logger)
	cmd.SetContext(ctx)
	return nil
}

// writeOperations serializes an operation list as JSON for the publishing
// pipeline.
func writeOperations(w io.Writer, ops []graph.Operation) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(graph.Envelopes(ops))
}

// ExitOnError prints an error to stderr and exits with status 1.
func ExitOnError(err error) {
	if err != nil {
		_, _ = os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
}

// mustGetBool retrieves a boolean flag value or panics if the flag doesn't
// exist. Only used for flags defined in this package.
func mustGetBool(cmd *cobra.Command, name string) bool {
	val, err := cmd.Flags().GetBool(name)
	if err != nil {
		panic("programming error: failed to get flag " + name + ": " + err.Error())
	}
	return val
}

// mustGetString retrieves a string flag value or panics if the flag doesn't
// exist. Only used for flags defined in this package.
func mustGetString(cmd *cobra.Command, name string) string {
	val, err := cmd.Flags().GetString(name)
	if err != nil {
		panic("programming error: failed to get flag " + name + ": " + err.Error())
	}
	return val
}
