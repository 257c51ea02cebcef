package cmd

import (
	"context"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:          "platform",
	Short:        "Run platform tasks",
	SilenceUsage: true,
}

// Root returns the root command tasks are attached to.
func Root() *cobra.Command {
	return rootCmd
}

// Execute runs the root command. Tasks see ctx through cmd.Context().
func Execute(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
