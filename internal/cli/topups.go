package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/example/topupadmin/internal/services"
)

func topupsCmd(con *console) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "topups",
		Short: "Monitor the pending top-up retry queue",
	}

	var filter services.TopupFilter
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List pending top-up jobs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rows, err := con.topups.List(cmd.Context(), filter, true)
			if err != nil {
				return err
			}
			return con.printQueue(cmd.OutOrStdout(), rows)
		},
	}
	listCmd.Flags().StringVar(&filter.OrderID, "order-id", "", "Only jobs for this order")
	listCmd.Flags().StringVar(&filter.ItemID, "item-id", "", "Only jobs for this order item")
	listCmd.Flags().IntVarP(&filter.Limit, "limit", "n", 0, "Maximum jobs (default 200, max 500)")
	cmd.AddCommand(listCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "show [job-id]",
		Short: "Show one job with its raw queue payload",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			detail, err := con.topups.Get(cmd.Context(), args[0], true)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if con.opts.asJSON {
				return writeJSON(w, detail)
			}

			fmt.Fprintf(w, "Job %s\n", detail.JobID)
			printKV(w, "State", detail.StateLabel)
			printKV(w, "Next run", formatTime(detail.NextRunAt))
			printKV(w, "Attempt", detail.Attempt)
			printKV(w, "Remaining", detail.TriesRemainingIncludingNext)
			printKV(w, "Order", detail.OrderID)
			printKV(w, "Item", detail.OrderItemID)
			printKV(w, "Last error", valueOrDash(detail.LastError))
			fmt.Fprintln(w, "\nRaw:")
			return writeJSON(w, detail.Raw)
		},
	})

	return cmd
}

func (c *console) printQueue(w io.Writer, rows []services.QueueRow) error {
	if c.opts.asJSON {
		return writeJSON(w, rows)
	}
	if len(rows) == 0 {
		fmt.Fprintln(w, "No pending top-ups.")
		return nil
	}

	tw := newTable(w)
	fmt.Fprintln(tw, "JOB\tSTATE\tNEXT RUN\tATTEMPT\tREMAINING\tORDER\tITEM\tLAST")
	for _, row := range rows {
		last := valueOrDash(row.LastStatus)
		if row.LastError != "" {
			last += " (" + row.LastError + ")"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%s\t%s\t%s\n",
			row.JobID, row.StateLabel, formatTime(row.NextRunAt), row.Attempt,
			row.TriesRemainingIncludingNext, row.OrderID, row.OrderItemID, last)
	}
	return tw.Flush()
}
