package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.trai.ch/stamp/internal/app"
)

func (c *CLI) newExplainCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "explain <node>",
		Short: "Recompute a node and show what went into each of its fingerprints",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			exp, err := c.app.Explain(cmd.Context(), args[0], options(cmd))
			if err != nil {
				return err
			}
			return writeExplanation(cmd.OutOrStdout(), exp)
		},
	}
}

func writeExplanation(w io.Writer, exp *app.Explanation) error {
	if _, err := fmt.Fprintf(w, "%s\n  full  %s\n  self  %s\n", exp.ID, exp.Record.Full, exp.Record.Self); err != nil {
		return err
	}
	for _, l := range exp.Logs {
		if _, err := fmt.Fprintf(w, "\n%s %s\n", l.Name, l.Fingerprint); err != nil {
			return err
		}
		for _, e := range l.Entries {
			if _, err := fmt.Fprintf(w, "  %-12s %4d bytes  %q\n", e.Label, len(e.Data), preview(e.Data)); err != nil {
				return err
			}
		}
	}
	return nil
}

// preview shortens update payloads for display.
func preview(data []byte) string {
	const limit = 48
	if len(data) <= limit {
		return string(data)
	}
	return string(data[:limit]) + "..."
}
