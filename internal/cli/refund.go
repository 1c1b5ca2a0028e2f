package cli

import (
	"errors"
	"fmt"
	"io"
	"time"

	"matchtrip-be/internal/entity"
	"matchtrip-be/internal/repository/specification"
	"matchtrip-be/internal/service"
	"matchtrip-be/pkg/events"
	"matchtrip-be/pkg/paymentgateway"
	"matchtrip-be/pkg/refund"
	"matchtrip-be/pkg/utils"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var refundCmd = &cobra.Command{
	Use:   "refund",
	Short: "Refund calculations",
}

var refundQuoteCmd = &cobra.Command{
	Use:   "quote",
	Short: "Quote a refund offline against a band file or the built-in schedule",
	RunE:  runRefundQuote,
}

var refundsCmd = &cobra.Command{
	Use:   "refunds",
	Short: "Operate on approved cancellations",
}

var refundsRetryCmd = &cobra.Command{
	Use:   "retry <cancellation-id>",
	Short: "Run the gateway refund again for an approved cancellation",
	Args:  cobra.ExactArgs(1),
	RunE:  runRefundsRetry,
}

func init() {
	refundQuoteCmd.Flags().Int64P("amount", "a", 0, "Paid amount")
	refundQuoteCmd.Flags().StringP("start", "s", "", "Trip start date (YYYY-MM-DD)")
	refundQuoteCmd.Flags().StringP("role", "r", string(refund.RoleTraveler), "traveler or guide")
	refundQuoteCmd.Flags().String("reason", "", "Reason type, e.g. medical_emergency")
	refundQuoteCmd.Flags().StringP("file", "f", "", "Band file (YAML); defaults to the built-in schedule")
	refundQuoteCmd.Flags().String("today", "", "Evaluate as of this date (YYYY-MM-DD) instead of now")
	refundQuoteCmd.Flags().String("currency", "KRW", "Currency used for display")
	_ = refundQuoteCmd.MarkFlagRequired("amount")
	_ = refundQuoteCmd.MarkFlagRequired("start")

	refundCmd.AddCommand(refundQuoteCmd)
	refundsCmd.AddCommand(refundsRetryCmd)
}

type quoteOptions struct {
	Amount   int64
	Start    string
	Role     string
	Reason   string
	File     string
	Today    string
	Currency string
}

func runRefundQuote(cmd *cobra.Command, args []string) error {
	var opts quoteOptions
	opts.Amount, _ = cmd.Flags().GetInt64("amount")
	opts.Start, _ = cmd.Flags().GetString("start")
	opts.Role, _ = cmd.Flags().GetString("role")
	opts.Reason, _ = cmd.Flags().GetString("reason")
	opts.File, _ = cmd.Flags().GetString("file")
	opts.Today, _ = cmd.Flags().GetString("today")
	opts.Currency, _ = cmd.Flags().GetString("currency")
	return quote(cmd.OutOrStdout(), opts)
}

func quote(w io.Writer, opts quoteOptions) error {
	if opts.Amount < 0 {
		return fmt.Errorf("amount must not be negative")
	}
	start, err := utils.ParseDate(opts.Start, nil)
	if err != nil {
		return fmt.Errorf("invalid --start: %w", err)
	}

	calcOpts := []refund.Option{}
	if opts.Today != "" {
		today, err := utils.ParseDate(opts.Today, nil)
		if err != nil {
			return fmt.Errorf("invalid --today: %w", err)
		}
		calcOpts = append(calcOpts, refund.WithClock(func() time.Time { return today }))
	}

	f, err := bandsOrDefault(opts.File)
	if err != nil {
		return err
	}
	if err := refund.ValidateBands(f.Bands); err != nil {
		return err
	}

	q, err := refund.NewCalculator(calcOpts...).Calculate(refund.Input{
		Amount:     opts.Amount,
		EventStart: start,
		Role:       refund.Role(opts.Role),
		ReasonType: opts.Reason,
	}, f.Bands)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "Days until start: %d\n", q.DaysUntilStart)
	fmt.Fprintf(w, "Policy:           %s\n", q.Description)
	fmt.Fprintf(w, "Percentage:       %d%%\n", q.Percentage)
	fmt.Fprintf(w, "Refund:           %s of %s\n",
		utils.FormatPrice(q.RefundAmount, opts.Currency), utils.FormatPrice(opts.Amount, opts.Currency))
	if q.NeedsReview {
		color.New(color.FgYellow).Fprintln(w, "Needs manual review by an admin")
	}
	return nil
}

func runRefundsRetry(cmd *cobra.Command, args []string) error {
	id, err := uuid.Parse(args[0])
	if err != nil {
		return fmt.Errorf("invalid cancellation id %q", args[0])
	}

	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	if e.cfg.Midtrans.ServerKey == "" {
		return fmt.Errorf("MIDTRANS_SERVER_KEY is not set")
	}

	// The queue is bypassed, so no pub/sub is needed; events only get logged.
	consumer := service.NewConsumerService(
		nil,
		service.RefundTopic,
		e.uow,
		paymentgateway.NewMidtrans(e.cfg.Midtrans.ServerKey, e.cfg.Midtrans.IsProduction, e.log),
		events.NewPublisher(nil, e.log),
		e.log,
	)

	ctx := cmd.Context()
	if err := consumer.ExecuteRefund(ctx, id); err != nil {
		if errors.Is(err, service.ErrRefundNotPending) {
			return fmt.Errorf("cancellation %s is not approved or was already refunded", id)
		}
		return err
	}

	c, err := e.uow.NewUnitOfWork(ctx).CancellationRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return err
	}
	if c != nil && c.RefundStatus == entity.RefundExecutionFailed {
		color.Red("Refund failed again: %s", c.RefundError)
		return fmt.Errorf("refund for %s failed", id)
	}
	color.Green("Refund for %s completed", id)
	return nil
}
