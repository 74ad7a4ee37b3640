package main

import (
	"fmt"

	"github.com/averycrespi/tabserver/pkg/project"
	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", project.Name, project.Version)
			return err
		},
	}
}
