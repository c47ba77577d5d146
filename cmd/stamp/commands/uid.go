package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.trai.ch/stamp/internal/app"
)

func (c *CLI) newUIDCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "uid [nodes...]",
		Short: "Compute the uids of the given nodes and everything they depend on",
		Long: "Compute the uids of the given nodes and everything they depend on.\n" +
			"Without arguments every root of the graph is used. Each line shows the full uid,\n" +
			"the self uid and the node.",
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := c.app.Run(cmd.Context(), args, options(cmd))
			if err != nil {
				return err
			}
			return writeUIDs(cmd.OutOrStdout(), report)
		},
	}
}

func writeUIDs(out io.Writer, report *app.Report) error {
	for _, n := range report.Nodes {
		if _, err := fmt.Fprintf(out, "%s  %s  %s\n", n.Full, n.Self, n.ID); err != nil {
			return err
		}
	}
	return nil
}
