package app

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// createVersionCommand creates the version command.
func (a *App) createVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "graphpub %s\n", a.version)
			fmt.Fprintf(cmd.OutOrStdout(), "  commit: %s\n", a.commit)
			fmt.Fprintf(cmd.OutOrStdout(), "  built:  %s\n", a.date)
			fmt.Fprintf(cmd.OutOrStdout(), "  go:     %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
		},
	}
}
