package batch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/nisarahamed1507/credit-approval-backend-system/internal/config"
	"github.com/nisarahamed1507/credit-approval-backend-system/internal/ingest"
)

// IngestJob reloads customer and loan seed data from the configured CSV
// exports. Customers are loaded first so loan rows can reference them.
type IngestJob struct {
	ingestor *ingest.Ingestor
	cfg      config.IngestConfig
	logger   *slog.Logger
}

func NewIngestJob(ingestor *ingest.Ingestor, cfg config.IngestConfig, logger *slog.Logger) *IngestJob {
	if ingestor == nil || logger == nil {
		panic("IngestJob dependencies cannot be nil")
	}
	return &IngestJob{
		ingestor: ingestor,
		cfg:      cfg,
		logger:   logger.With("job", "Ingest"),
	}
}

func (j *IngestJob) Run(ctx context.Context) error {
	startTime := time.Now()
	j.logger.InfoContext(ctx, "Starting data ingestion job.",
		"customer_data", j.cfg.CustomerDataPath,
		"loan_data", j.cfg.LoanDataPath,
	)

	custResult, err := j.ingestor.IngestCustomers(ctx, j.cfg.CustomerDataPath)
	if err != nil {
		j.logger.ErrorContext(ctx, "Customer data ingestion failed, aborting job.", slog.Any("error", err))
		return fmt.Errorf("customer ingestion failed: %w", err)
	}

	loanResult, err := j.ingestor.IngestLoans(ctx, j.cfg.LoanDataPath)
	if err != nil {
		j.logger.ErrorContext(ctx, "Loan data ingestion failed.", slog.Any("error", err))
		return fmt.Errorf("loan ingestion failed: %w", err)
	}

	summaryLog := j.logger.With(
		slog.Duration("duration", time.Since(startTime)),
		slog.Int("customers_created", custResult.Created),
		slog.Int("customers_updated", custResult.Updated),
		slog.Int("loans_created", loanResult.Created),
		slog.Int("loans_updated", loanResult.Updated),
		slog.Int("row_errors", len(custResult.RowErrors)+len(loanResult.RowErrors)),
	)
	if len(custResult.RowErrors)+len(loanResult.RowErrors) > 0 {
		summaryLog.WarnContext(ctx, "Data ingestion job finished with row errors.")
	} else {
		summaryLog.InfoContext(ctx, "Data ingestion job finished successfully.")
	}
	return nil
}
