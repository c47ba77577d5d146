package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func (c *CLI) newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats [nodes...]",
		Short: "Compute uids and report how the cache was used",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := c.app.Run(cmd.Context(), args, options(cmd))
			if err != nil {
				return err
			}

			s := report.Stats
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			_, _ = fmt.Fprintf(w, "campaign\t%s\n", report.CampaignID)
			_, _ = fmt.Fprintln(w, "\tloaded\tskipped\tdiscarded\tcomputed\tsaved")
			_, _ = fmt.Fprintf(w, "nodes\t%d\t%d\t%d\t%d\t%d\n",
				s.LoadedNodes, s.SkippedNodes, s.DiscardedNodes, s.ComputedNodes, s.SavedNodes)
			_, _ = fmt.Fprintf(w, "loops\t%d\t%d\t%d\t%d\t%d\n",
				s.LoadedLoops, s.SkippedLoops, s.DiscardedLoops, s.ComputedLoops, s.SavedLoops)
			_, _ = fmt.Fprintf(w, "structure changed\t%t\n", s.StructureChanged)
			return w.Flush()
		},
	}
}
