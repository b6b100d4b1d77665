package cli

import (
	"context"
	"os"

	"github.com/spf13/cobra"
)

// Execute runs the ontoforge CLI and returns an error if any command fails.
//
// Logging goes to stderr at the level from the config file; --verbose (-v)
// forces debug level. The logger is attached to the context of every
// workspace-backed command and is reachable through loggerFromContext.
func Execute(ctx context.Context) error {
	var verbose bool

	c := New(os.Stderr, LogInfo)
	root := c.RootCommand()
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	loadConfig := root.PersistentPreRunE
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if verbose {
			c.SetLogLevel(LogDebug)
		}
		if loadConfig != nil {
			return loadConfig(cmd, args)
		}
		return nil
	}

	return root.ExecuteContext(ctx)
}
