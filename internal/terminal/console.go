package terminal

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/jeffleon2/draftea-topup/internal/models"
	"github.com/shopspring/decimal"
)

// Console is a line based Operator for a till without a touch screen.
type Console struct {
	in  *bufio.Scanner
	out io.Writer
}

func NewConsole(in io.Reader, out io.Writer) *Console {
	return &Console{in: bufio.NewScanner(in), out: out}
}

// EnterAmount reads "<amount> [CASH|SUMUP|TAG]". An empty line cancels.
func (c *Console) EnterAmount(ctx context.Context, tag models.TagIdentity) (Order, error) {
	for {
		line, err := c.prompt(ctx, "tag %s: amount and payment method (empty to cancel): ", tag)
		if err != nil {
			return Order{}, err
		}
		if line == "" {
			return Order{}, ErrCancelled
		}

		order, err := parseOrder(line)
		if err != nil {
			fmt.Fprintf(c.out, "  %v\n", err)
			continue
		}
		return order, nil
	}
}

func parseOrder(line string) (Order, error) {
	fields := strings.Fields(line)
	amount, err := decimal.NewFromString(strings.Replace(fields[0], ",", ".", 1))
	if err != nil {
		return Order{}, fmt.Errorf("invalid amount %q", fields[0])
	}
	order := Order{Amount: amount, Method: models.PaymentMethodCash}
	if len(fields) > 1 {
		order.Method = models.PaymentMethod(strings.ToUpper(fields[1]))
	}
	return order, nil
}

func (c *Console) Confirm(ctx context.Context, p models.PendingTopUp) (bool, error) {
	return c.yesNo(ctx, "top up %s %s (%s) for tag %s, balance %s -> %s. Book? [y/N] ",
		p.Amount.StringFixed(models.AmountScale), p.Currency, p.PaymentMethod, p.Tag,
		p.OldBalance.StringFixed(models.AmountScale), p.NewBalance.StringFixed(models.AmountScale))
}

func (c *Console) ConfirmReplay(ctx context.Context, topUp models.NewTopUp, cause *models.NetworkError) (bool, error) {
	fmt.Fprintf(c.out, "OUTCOME UNKNOWN for %s: %v\n", topUp, cause)
	fmt.Fprintln(c.out, "  money may or may not have been booked. Do not hand out or take back cash yet.")
	return c.yesNo(ctx, "re-send the same request? [y/N] ")
}

func (c *Console) Show(r Result) {
	switch r.Outcome {
	case OutcomeCompleted:
		fmt.Fprintf(c.out, "BOOKED %s %s for tag %s, new balance %s (transaction %s)\n",
			r.Completed.Amount.StringFixed(models.AmountScale), r.Completed.Currency, r.Completed.Tag,
			r.Completed.ResultingBalance.StringFixed(models.AmountScale), r.Completed.TransactionID)
	case OutcomeUnknown:
		fmt.Fprintf(c.out, "UNKNOWN %s: kept for replay (terminal pending)\n", r.TopUp.IdempotencyKey())
	case OutcomeBlocked:
		fmt.Fprintf(c.out, "BLOCKED: %s is still unknown, resolve it before topping up %s\n", r.TopUp.IdempotencyKey(), r.Tag)
	default:
		fmt.Fprintf(c.out, "%s: %v\n", r.Outcome, r.Err)
	}
}

func (c *Console) yesNo(ctx context.Context, format string, args ...any) (bool, error) {
	line, err := c.prompt(ctx, format, args...)
	if err != nil {
		return false, err
	}
	switch strings.ToLower(line) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

func (c *Console) prompt(ctx context.Context, format string, args ...any) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	fmt.Fprintf(c.out, format, args...)
	if !c.in.Scan() {
		if err := c.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimSpace(c.in.Text()), nil
}
