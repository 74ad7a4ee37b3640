package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/averycrespi/tabserver/internal/outline"
	"github.com/spf13/cobra"
)

func newOutlineCmd(opts *rootOptions) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "outline <file>",
		Short: "Print the symbol outline of a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(opts.cfg)
			if err != nil {
				return err
			}
			defer a.shutdown(context.Background())

			tab, err := a.workspace.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to open %s: %w", args[0], err)
			}

			symbols, err := a.workspace.ResolveSymbols(cmd.Context(), tab.Label)
			if err != nil {
				return err
			}
			nodes := outline.Flatten(symbols)

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(nodes)
			}
			_, err = fmt.Fprint(out, outline.Render(nodes))
			return err
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the outline as JSON")
	return cmd
}
