package main

import (
	"github.com/spf13/cobra"
)

// globalOptions holds flags shared by every command.
type globalOptions struct {
	configPath string
	logLevel   string
}

// newRootCommand builds the command tree. Invoking the binary with no
// subcommand runs a report, so `tokenaudit --last 7d` and
// `tokenaudit report --last 7d` are equivalent.
func newRootCommand() *cobra.Command {
	global := &globalOptions{}
	opts := &reportOptions{}

	root := &cobra.Command{
		Use:           "tokenaudit",
		Short:         "Report Claude Code token usage and cost from local session logs",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runReport(cmd.Context(), global, opts)
		},
	}

	root.PersistentFlags().StringVar(&global.configPath, "config", "", "path to configuration file")
	root.PersistentFlags().StringVar(&global.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	bindReportFlags(root, opts)

	root.AddCommand(
		newReportCommand(global),
		newProjectsCommand(global),
		newVersionCommand(),
	)

	return root
}
