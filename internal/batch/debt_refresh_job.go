package batch

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// DebtRefresher recomputes customers.current_debt from active loans.
type DebtRefresher interface {
	RefreshCurrentDebt(ctx context.Context) (int64, error)
}

// RefreshDebtJob keeps each customer's cached current_debt aligned with the
// sum of their active loan amounts. Loans expire by date, so the cached value
// drifts without a periodic pass.
type RefreshDebtJob struct {
	customers DebtRefresher
	logger    *slog.Logger
}

func NewRefreshDebtJob(customers DebtRefresher, logger *slog.Logger) *RefreshDebtJob {
	if customers == nil || logger == nil {
		panic("RefreshDebtJob dependencies cannot be nil")
	}
	return &RefreshDebtJob{
		customers: customers,
		logger:    logger.With("job", "RefreshDebt"),
	}
}

func (j *RefreshDebtJob) Run(ctx context.Context) error {
	startTime := time.Now()
	j.logger.InfoContext(ctx, "Starting daily current debt refresh job.")

	updated, err := j.customers.RefreshCurrentDebt(ctx)
	if err != nil {
		j.logger.ErrorContext(ctx, "Failed to refresh current debt, aborting job.", slog.Any("error", err))
		return fmt.Errorf("cannot refresh current debt: %w", err)
	}

	j.logger.InfoContext(ctx, "Current debt refresh job finished.",
		slog.Int64("customers_updated", updated),
		slog.Duration("duration", time.Since(startTime)),
	)
	return nil
}
