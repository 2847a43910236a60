package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newVersionCommand reports the build version.
func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the tokenaudit version",
		Args:  cobra.NoArgs,
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Printf("tokenaudit %s\n", version)
		},
	}
}
