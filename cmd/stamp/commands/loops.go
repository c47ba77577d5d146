package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (c *CLI) newLoopsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "loops",
		Short: "List the dependency loops of the graph",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			found, err := c.app.Loops(options(cmd))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(found) == 0 {
				_, err := fmt.Fprintln(out, "no loops")
				return err
			}
			for _, l := range found {
				status := "ok"
				if l.Check() != nil {
					status = "forbidden"
				}
				if _, err := fmt.Fprintf(out, "%s [%s]\n", l.Dump(), status); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
