package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/example/topupadmin/internal/models"
	"github.com/example/topupadmin/internal/services"
	"github.com/example/topupadmin/internal/utils"
)

func orderCmd(con *console) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "order",
		Short: "Inspect and move orders through their lifecycle",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show [order-id]",
		Short: "Show an order and the actions available for it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			view, err := con.orders.Get(cmd.Context(), args[0], true)
			if err != nil {
				return err
			}
			return con.printOrder(cmd.OutOrStdout(), view)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "transition [order-id] [status]",
		Short: "Move an order to a new status",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			target := models.OrderStatus(strings.ToLower(args[1]))
			view, err := con.orders.Transition(cmd.Context(), con.opts.operator, args[0], target)
			if err != nil {
				return err
			}
			return con.printOrder(cmd.OutOrStdout(), view)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "cancel [order-id]",
		Short: "Cancel an order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			view, err := con.orders.Cancel(cmd.Context(), con.opts.operator, args[0])
			if err != nil {
				return err
			}
			return con.printOrder(cmd.OutOrStdout(), view)
		},
	})

	return cmd
}

func (c *console) printOrder(w io.Writer, view *services.OrderView) error {
	if c.opts.asJSON {
		return writeJSON(w, view)
	}

	order := view.Order
	fmt.Fprintf(w, "Order %s\n", order.ID)
	fmt.Fprintln(w, strings.Repeat("=", 40))
	printKV(w, "Status", order.Status)
	printKV(w, "Total", utils.FormatMinor(order.TotalMinor, order.Currency))
	printKV(w, "Customer", valueOrDash(order.Contact.Name))
	printKV(w, "Payment", valueOrDash(order.Summary.PaymentStatus))
	printKV(w, "Top-up", valueOrDash(order.Summary.TopupStatus))

	if len(order.Items) > 0 {
		fmt.Fprintln(w, "\nItems:")
		tw := newTable(w)
		fmt.Fprintln(tw, "  ID\tVARIANT\tQTY\tLINE TOTAL\tUSD\tLAST TOP-UP")
		for _, item := range order.Items {
			usd := "-"
			switch {
			case item.HasUSDSnapshot():
				usd = utils.FormatMinor(*item.DisplayUSDMinor, "USD")
			case !item.SnapshotConsistent():
				usd = "incomplete snapshot"
			}
			last := "-"
			if latest := item.LatestLog(); latest != nil {
				last = latest.Status
			}
			fmt.Fprintf(tw, "  %s\t%s\t%d\t%s\t%s\t%s\n",
				item.ID, item.VariantName, item.Quantity,
				utils.FormatMinor(item.LineTotalMinor(), order.Currency), usd, last)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}

	if len(order.Payments) > 0 {
		fmt.Fprintln(w, "\nPayments:")
		for _, payment := range order.Payments {
			mark := " "
			if payment.Succeeded() {
				mark = "*"
			}
			fmt.Fprintf(w, "  %s %s %s %s\n", mark, payment.Provider,
				utils.FormatMinor(payment.AmountMinor, payment.Currency), payment.Status)
		}
	}

	fmt.Fprintln(w, "\nActions:")
	if len(view.Actions) == 0 {
		fmt.Fprintln(w, "  (none)")
	}
	for _, action := range view.Actions {
		fmt.Fprintf(w, "  - %s\n", action.Label)
	}
	return nil
}
