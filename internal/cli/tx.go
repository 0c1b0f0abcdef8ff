package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/example/topupadmin/internal/lifecycle"
	"github.com/example/topupadmin/internal/models"
	"github.com/example/topupadmin/internal/services"
	"github.com/example/topupadmin/internal/utils"
)

func txCmd(con *console) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tx",
		Short: "Reconcile payment and delivery transactions",
	}

	cmd.AddCommand(txListCmd(con))
	cmd.AddCommand(&cobra.Command{
		Use:   "stats",
		Short: "Show transaction counters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			stats, err := con.transactions.Stats(cmd.Context(), true)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if con.opts.asJSON {
				return writeJSON(w, stats)
			}
			printKV(w, "Total", stats.Total)
			printKV(w, "Pending", stats.Pending)
			printKV(w, "Paid", stats.Paid)
			printKV(w, "Confirmed", stats.Confirmed)
			printKV(w, "Failed", stats.Failed)
			printKV(w, "Rejected", stats.Rejected)
			printKV(w, "Amount", utils.FormatAmount(stats.TotalAmount, ""))
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "retry [transaction-id]",
		Short: "Re-trigger delivery for a transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := con.transactions.Retry(cmd.Context(), con.opts.operator, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Retry requested for %s\n", args[0])
			return nil
		},
	})
	cmd.AddCommand(txBulkCmd(con))

	return cmd
}

func txListCmd(con *console) *cobra.Command {
	var filter services.TransactionFilter

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List transactions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			page := utils.NewPagination(filter.Page, filter.Limit)
			filter.Page, filter.Limit = page.Page, page.Limit

			view, err := con.transactions.List(cmd.Context(), filter, true)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if con.opts.asJSON {
				return writeJSON(w, view)
			}

			tw := newTable(w)
			fmt.Fprintln(tw, "ID\tSTATUS\tOUTPUT\tAMOUNT\tPHONE\tCREATED\tRETRY")
			for _, row := range view.Rows {
				retry := ""
				if row.ShowRetry {
					retry = "yes"
				}
				fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\t%s\t%s\n",
					row.ID, row.Status, row.Output, utils.FormatAmount(row.Amount, row.Currency),
					valueOrDash(row.Phone), formatTime(&row.CreatedAt), retry)
			}
			if err := tw.Flush(); err != nil {
				return err
			}

			p := view.Pagination
			fmt.Fprintf(w, "\nPage %d of %d (%d transactions)\n", p.CurrentPage, p.TotalPages, p.TotalItems)
			return nil
		},
	}

	cmd.Flags().IntVar(&filter.Page, "page", 1, "Page number")
	cmd.Flags().IntVarP(&filter.Limit, "limit", "n", 20, "Transactions per page")
	cmd.Flags().StringVarP(&filter.Search, "search", "s", "", "Search by reference or phone")
	cmd.Flags().StringVar(&filter.Status, "status", "", "Filter by status")
	cmd.Flags().StringVar(&filter.StartDate, "from", "", "Start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&filter.EndDate, "to", "", "End date (YYYY-MM-DD)")

	return cmd
}

func txBulkCmd(con *console) *cobra.Command {
	var (
		status string
		yes    bool
	)

	cmd := &cobra.Command{
		Use:   "bulk [transaction-id...]",
		Short: "Override the status of several transactions",
		Long: `Override the status of the given transactions.

Allowed statuses: Confirmed, Paid, Failed, Rejected. The platform validates
each transition; nothing is checked locally beyond the status name.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ids := services.CleanIDs(args)
			if len(ids) == 0 {
				return services.ErrEmptySelection
			}
			req := services.BulkRequest{IDs: ids, Status: models.TransactionStatus(status)}
			if !lifecycle.IsBulkStatus(req.Status) {
				return fmt.Errorf("%w: %q", services.ErrInvalidBulkStatus, status)
			}

			if !yes {
				question := fmt.Sprintf("Set %d transaction(s) to %s?", len(ids), status)
				ok, err := confirm(cmd.InOrStdin(), cmd.OutOrStdout(), question)
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
					return nil
				}
			}
			req.Confirmed = true

			result, err := con.transactions.BulkUpdate(cmd.Context(), con.opts.operator, req)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if con.opts.asJSON {
				return writeJSON(w, result)
			}
			fmt.Fprintf(w, "Updated %d transaction(s) to %s\n", result.Updated, status)
			return nil
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "Target status (Confirmed, Paid, Failed, Rejected)")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	_ = cmd.MarkFlagRequired("status")

	return cmd
}

// confirm asks a yes/no question and blocks until a line is read.
func confirm(in io.Reader, out io.Writer, question string) (bool, error) {
	fmt.Fprintf(out, "%s [y/N] ", question)

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, err
	}

	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
