package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.trai.ch/stamp/internal/app"
)

func (c *CLI) newWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch [nodes...]",
		Short: "Recompute uids whenever workspace files change",
		Long: "Compute uids like the uid command, then watch the workspace and recompute\n" +
			"after every burst of changes. Each run is introduced by a line naming its campaign.\n" +
			"Stop with Ctrl-C.",
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			return c.app.Watch(cmd.Context(), args, options(cmd), func(report *app.Report) error {
				if _, err := fmt.Fprintf(out, "# campaign %s\n", report.CampaignID); err != nil {
					return err
				}
				return writeUIDs(out, report)
			})
		},
	}
}
