package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/tokenaudit/tokenaudit/pkg/discovery"
	"github.com/tokenaudit/tokenaudit/pkg/logger"
	"github.com/tokenaudit/tokenaudit/pkg/projects"
)

// newProjectsCommand lists the project directories under the data roots
// with their resolved filesystem paths.
func newProjectsCommand(global *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "projects",
		Short: "List discovered project directories and their resolved paths",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runProjects(global)
		},
	}
}

func runProjects(global *globalOptions) error {
	cfg, err := loadConfig(global)
	if err != nil {
		return err
	}

	log := logger.New(logger.Config{
		Level:  cfg.Logging.Level,
		Output: cfg.Logging.Output,
		Format: cfg.Logging.Format,
	})
	warns := logger.NewWarnings()

	resolver := projects.NewResolver()
	if err := resolver.LoadIndex(cfg.ClaudeConfigFile); err != nil {
		warns.Addf("project index unavailable, falling back to heuristic decoding: %v", err)
	}

	disc := discovery.New(cfg.DataDirs, resolver, log, warns)
	dirs, err := disc.Projects()
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "PROJECT\tMETHOD\tDIRECTORY")
	for _, dir := range dirs {
		fmt.Fprintf(w, "%s\t%s\t%s\n", dir.ResolvedPath, dir.Method, dir.EncodedName)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	warns.Flush(log)
	return nil
}
