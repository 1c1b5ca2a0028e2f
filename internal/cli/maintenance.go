package cli

import (
	"context"
	"fmt"
	"time"

	"matchtrip-be/internal/entity"
	"matchtrip-be/internal/pkg/fieldcrypt"
	"matchtrip-be/internal/repository/specification"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var encryptionCmd = &cobra.Command{
	Use:   "encryption",
	Short: "Field encryption maintenance",
}

var encryptionBackfillCmd = &cobra.Command{
	Use:   "backfill",
	Short: "Encrypt phone and payout account values stored in plaintext",
	RunE:  runEncryptionBackfill,
}

var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Remove or close abandoned records",
}

var cleanupStalePaymentsCmd = &cobra.Command{
	Use:   "stale-payments",
	Short: "Mark pending payments older than a cutoff as failed",
	RunE:  runCleanupStalePayments,
}

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Consistency checks",
}

var verifyIntegrityCmd = &cobra.Command{
	Use:   "integrity",
	Short: "Report cancellations that disagree with their payment",
	RunE:  runVerifyIntegrity,
}

func init() {
	encryptionBackfillCmd.Flags().Bool("dry-run", false, "Only count affected users")
	encryptionBackfillCmd.Flags().Int("batch", 100, "Users per transaction")
	encryptionCmd.AddCommand(encryptionBackfillCmd)

	cleanupStalePaymentsCmd.Flags().Duration("older-than", 72*time.Hour, "Age after which a pending payment is abandoned")
	cleanupStalePaymentsCmd.Flags().Bool("dry-run", false, "Only list the payments")
	cleanupCmd.AddCommand(cleanupStalePaymentsCmd)

	verifyCmd.AddCommand(verifyIntegrityCmd)
}

func runEncryptionBackfill(cmd *cobra.Command, args []string) error {
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	batch, _ := cmd.Flags().GetInt("batch")
	if batch <= 0 {
		return fmt.Errorf("--batch must be positive")
	}

	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	if _, ok := e.cipher.(fieldcrypt.Passthrough); ok {
		return fmt.Errorf("FIELD_ENCRYPTION_KEY is not set, nothing would be encrypted")
	}

	ctx := cmd.Context()
	plaintext := specification.WithPlaintextSensitiveFields{Prefix: fieldcrypt.Prefix}

	total, err := e.uow.NewUnitOfWork(ctx).UserRepository().Count(ctx, plaintext)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%d users hold plaintext sensitive fields\n", total)
	if dryRun || total == 0 {
		return nil
	}

	done := 0
	seen := make(map[uuid.UUID]struct{}, total)
	for {
		n, err := backfillBatch(ctx, e, plaintext, batch, seen)
		if err != nil {
			return fmt.Errorf("after %d users: %w", done, err)
		}
		if n == 0 {
			break
		}
		done += n
		fmt.Fprintf(cmd.OutOrStdout(), "  encrypted %d/%d\n", done, total)
	}

	e.log.Info("MAINTENANCE", "Encryption backfill finished", map[string]interface{}{"users": done})
	color.Green("Encrypted sensitive fields for %d users", done)
	return nil
}

// backfillBatch re-saves one page of users so the mapper encrypts them. A user
// coming back twice means the write did not take and the loop would spin.
func backfillBatch(ctx context.Context, e *env, plaintext specification.Specification, batch int, seen map[uuid.UUID]struct{}) (int, error) {
	uow := e.uow.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return 0, err
	}
	defer uow.Rollback()

	users, err := uow.UserRepository().FindAll(ctx,
		plaintext,
		specification.OrderBy{Field: "id"},
		specification.Pagination{Limit: batch},
	)
	if err != nil {
		return 0, err
	}
	for _, u := range users {
		if _, dup := seen[u.Id]; dup {
			return 0, fmt.Errorf("user %s still plaintext after update", u.Id)
		}
		seen[u.Id] = struct{}{}
		if err := uow.UserRepository().Update(ctx, u); err != nil {
			return 0, fmt.Errorf("update user %s: %w", u.Id, err)
		}
	}
	if err := uow.Commit(); err != nil {
		return 0, err
	}
	return len(users), nil
}

func runCleanupStalePayments(cmd *cobra.Command, args []string) error {
	olderThan, _ := cmd.Flags().GetDuration("older-than")
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	if olderThan <= 0 {
		return fmt.Errorf("--older-than must be positive")
	}

	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	ctx := cmd.Context()
	cutoff := time.Now().Add(-olderThan)
	repo := e.uow.NewUnitOfWork(ctx).PaymentRepository()

	stale, err := repo.FindAll(ctx,
		specification.ByStatus{Status: string(entity.PaymentStatusPending)},
		specification.CreatedBefore{T: cutoff},
		specification.OrderBy{Field: "created_at"},
	)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "%d pending payments created before %s\n", len(stale), cutoff.Format(time.RFC3339))

	closed := 0
	for _, p := range stale {
		fmt.Fprintf(w, "  %s  %s  created %s\n", p.Id, p.OrderId, p.CreatedAt.Format(time.RFC3339))
		if dryRun {
			continue
		}
		// the webhook may have settled it since the query ran
		changed, err := repo.TransitionStatus(ctx, p.Id,
			[]entity.PaymentStatus{entity.PaymentStatusPending}, entity.PaymentStatusFailed)
		if err != nil {
			return fmt.Errorf("payment %s: %w", p.Id, err)
		}
		if changed {
			closed++
		}
	}

	if !dryRun {
		e.log.Info("MAINTENANCE", "Stale payments closed", map[string]interface{}{
			"closed":    closed,
			"olderThan": olderThan.String(),
		})
		color.Green("Marked %d payments as failed", closed)
	}
	return nil
}

const integrityPageSize = 200

func runVerifyIntegrity(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	ctx := cmd.Context()
	uow := e.uow.NewUnitOfWork(ctx)
	w := cmd.OutOrStdout()

	checked, problems := 0, 0
	for offset := 0; ; offset += integrityPageSize {
		page, err := uow.CancellationRepository().FindAll(ctx,
			specification.OrderBy{Field: "created_at"},
			specification.Pagination{Limit: integrityPageSize, Offset: offset},
		)
		if err != nil {
			return err
		}
		for _, c := range page {
			payment, err := uow.PaymentRepository().FindOne(ctx, specification.ByID{ID: c.PaymentId})
			if err != nil {
				return err
			}
			for _, p := range checkCancellation(c, payment) {
				color.New(color.FgRed).Fprintf(w, "✗ %s: %s\n", c.Id, p)
				problems++
			}
			checked++
		}
		if len(page) < integrityPageSize {
			break
		}
	}

	fmt.Fprintf(w, "Checked %d cancellations\n", checked)
	if problems > 0 {
		return fmt.Errorf("%d integrity problems found", problems)
	}
	color.Green("No integrity problems found")
	return nil
}

// checkCancellation lists every way c disagrees with its payment. payment is
// nil when the row is missing.
func checkCancellation(c *entity.CancellationRequest, payment *entity.Payment) []string {
	if payment == nil {
		return []string{fmt.Sprintf("payment %s not found", c.PaymentId)}
	}

	var problems []string
	if c.CalculatedRefund > payment.Amount {
		problems = append(problems, fmt.Sprintf("calculated refund %d exceeds payment amount %d", c.CalculatedRefund, payment.Amount))
	}
	if c.ActualRefundAmount != nil && *c.ActualRefundAmount > payment.Amount {
		problems = append(problems, fmt.Sprintf("actual refund %d exceeds payment amount %d", *c.ActualRefundAmount, payment.Amount))
	}
	if c.PaymentAmount != payment.Amount {
		problems = append(problems, fmt.Sprintf("snapshot amount %d differs from payment amount %d", c.PaymentAmount, payment.Amount))
	}
	if c.RefundStatus == entity.RefundExecutionCompleted &&
		payment.Status != entity.PaymentStatusRefunded && payment.Status != entity.PaymentStatusPartiallyRefunded {
		problems = append(problems, fmt.Sprintf("refund completed but payment is %s", payment.Status))
	}
	if c.Status == entity.CancellationStatusRejected && c.RefundStatus != entity.RefundExecutionNone {
		problems = append(problems, fmt.Sprintf("rejected request has refund status %s", c.RefundStatus))
	}
	return problems
}
