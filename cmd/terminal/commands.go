package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/jeffleon2/draftea-topup/internal/models"
	"github.com/jeffleon2/draftea-topup/internal/tagreader"
	"github.com/jeffleon2/draftea-topup/internal/terminal"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

// presetOperator answers the first amount prompt from flags and hands every
// later prompt to the console.
type presetOperator struct {
	*terminal.Console
	order *terminal.Order
}

func (o *presetOperator) EnterAmount(ctx context.Context, tag models.TagIdentity) (terminal.Order, error) {
	if o.order != nil {
		order := *o.order
		o.order = nil
		return order, nil
	}
	return o.Console.EnterAmount(ctx, tag)
}

func topUpCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "topup",
		Short: "Top up a single tag",
		RunE: func(cmd *cobra.Command, args []string) error {
			rawTag, _ := cmd.Flags().GetString("tag")
			rawAmount, _ := cmd.Flags().GetString("amount")
			method, _ := cmd.Flags().GetString("method")

			tag, err := models.ParseTagIdentity(rawTag)
			if err != nil {
				return err
			}

			op := &presetOperator{Console: terminal.NewConsole(os.Stdin, cmd.OutOrStdout())}
			if rawAmount != "" {
				amount, err := decimal.NewFromString(rawAmount)
				if err != nil {
					return fmt.Errorf("invalid amount %q", rawAmount)
				}
				op.order = &terminal.Order{Amount: amount, Method: models.PaymentMethod(strings.ToUpper(method))}
			}

			t, err := openTill(op)
			if err != nil {
				return err
			}
			defer t.Close()

			ctx, stop := signalContext()
			defer stop()

			res := t.session.Process(ctx, tag)
			if res.Outcome != terminal.OutcomeCompleted {
				return fmt.Errorf("top-up %s", strings.ToLower(string(res.Outcome)))
			}
			return nil
		},
	}

	cmd.Flags().StringP("tag", "t", "", "Tag UID as printed by the reader")
	cmd.Flags().StringP("amount", "a", "", "Amount to top up (prompted when empty)")
	cmd.Flags().StringP("method", "m", string(models.PaymentMethodCash), "Payment method (CASH, SUMUP)")
	_ = cmd.MarkFlagRequired("tag")

	return cmd
}

func runCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Serve top-ups from the tag reader until interrupted",
		Long: `Reads tag scans from TERMINAL_TAG_DEVICE, one UID per line, and runs a
top-up for each. Amounts and confirmations are entered on stdin.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := openTill(terminal.NewConsole(os.Stdin, cmd.OutOrStdout()))
			if err != nil {
				return err
			}
			defer t.Close()

			if t.cfg.TagDevice == "" {
				return fmt.Errorf("TERMINAL_TAG_DEVICE must be set")
			}
			device := t.cfg.TagDevice
			reader := tagreader.New(func() (io.ReadCloser, error) {
				return os.Open(device)
			})

			ctx, stop := signalContext()
			defer stop()

			if n := len(t.session.Unresolved()); n > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "%d top-up(s) with unknown outcome, the next scan offers their replay first\n", n)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "terminal %s ready, waiting for tags on %s\n", t.cfg.TerminalID, device)
			if err := t.session.Run(ctx, reader.Scans(ctx)); err != nil && ctx.Err() == nil {
				return err
			}
			return nil
		},
	}
}

func pendingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pending",
		Short: "List top-ups whose book outcome is not known",
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := openTill(terminal.NewConsole(os.Stdin, cmd.OutOrStdout()))
			if err != nil {
				return err
			}
			defer t.Close()

			entries, err := t.journal.List()
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no pending top-ups")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "KEY\tSTATE\tTAG\tAMOUNT\tMETHOD\tCREATED")
			for _, e := range entries {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s %s\t%s\t%s\n",
					e.Key, e.State, e.TopUp.Tag, e.TopUp.Amount.StringFixed(models.AmountScale),
					e.TopUp.Currency, e.TopUp.PaymentMethod, e.TopUp.CreatedAt.Format("2006-01-02 15:04:05"))
			}
			return w.Flush()
		},
	}
}

func replayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "replay [key]",
		Short: "Re-send a pending top-up with its original idempotency key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := openTill(terminal.NewConsole(os.Stdin, cmd.OutOrStdout()))
			if err != nil {
				return err
			}
			defer t.Close()

			entry, err := t.journal.Get(args[0])
			if err != nil {
				return err
			}
			topUp, err := entry.NewTopUp()
			if err != nil {
				return fmt.Errorf("journal entry %s is unreadable: %w", args[0], err)
			}

			ctx, stop := signalContext()
			defer stop()

			res := t.session.Replay(ctx, topUp)
			if res.Outcome == terminal.OutcomeUnknown {
				return fmt.Errorf("outcome of %s is still unknown", args[0])
			}
			return nil
		},
	}
}
