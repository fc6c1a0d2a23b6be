package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/nisarahamed1507/credit-approval-backend-system/internal/domain/loan"
	"github.com/nisarahamed1507/credit-approval-backend-system/internal/infrastructure/monitoring"
	"github.com/nisarahamed1507/credit-approval-backend-system/internal/pkg/apperrors"
)

type LoanRepository struct {
	db     DBPool
	logger *slog.Logger
}

var _ loan.Repository = (*LoanRepository)(nil)

var errMsgFormat = "%w: %w"

const loanColumns = `loan_id, customer_id, loan_amount, tenure, interest_rate, monthly_repayment, emis_paid_on_time, start_date, end_date, created_at, updated_at`

func NewLoanRepository(db DBPool, logger *slog.Logger) *LoanRepository {
	return &LoanRepository{db: db, logger: logger.With("component", "LoanRepository")}
}

func (r *LoanRepository) Create(ctx context.Context, l *loan.Loan) error {
	if l == nil {
		return fmt.Errorf("%w: loan cannot be nil", apperrors.ErrInvalidArgument)
	}

	query := `
        INSERT INTO loans (customer_id, loan_amount, tenure, interest_rate, monthly_repayment, emis_paid_on_time, start_date, end_date, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
        RETURNING loan_id, created_at, updated_at`

	status := "success"
	startTime := time.Now()

	err := r.db.QueryRow(ctx, query,
		l.CustomerID,
		decimalToNumeric(l.LoanAmount),
		l.Tenure,
		decimalToNumeric(l.InterestRate),
		decimalToNumeric(l.MonthlyRepayment),
		l.EmisPaidOnTime,
		l.StartDate,
		l.EndDate,
	).Scan(&l.LoanID, &l.CreatedAt, &l.UpdatedAt)

	if err != nil {
		status = "error"
	}
	monitoring.RecordDBQuery("LoanCreate", status, time.Since(startTime))

	if err != nil {
		translatedErr := translateDBError(err, r.logger)
		if errors.Is(translatedErr, apperrors.ErrConflict) {
			r.logger.WarnContext(ctx, "Failed to insert loan: customer does not exist", slog.Int64("customerID", l.CustomerID))
			return fmt.Errorf("%w: customer %d not found", apperrors.ErrConflict, l.CustomerID)
		}
		r.logger.ErrorContext(ctx, "Failed to insert loan", slog.Any("error", err))
		return translatedErr
	}

	r.logger.InfoContext(ctx, "Loan created in DB", "loan_id", l.LoanID, "customer_id", l.CustomerID)
	return nil
}

func (r *LoanRepository) FindByID(ctx context.Context, loanID int64) (*loan.Loan, error) {
	query := `
        SELECT ` + loanColumns + `
        FROM loans
        WHERE loan_id = $1`

	status := "success"
	startTime := time.Now()

	l, err := r.scanLoan(r.db.QueryRow(ctx, query, loanID))

	if err != nil {
		status = "error"
	}
	monitoring.RecordDBQuery("LoanFindByID", status, time.Since(startTime))

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.WarnContext(ctx, "Loan not found", "loan_id", loanID)
			return nil, apperrors.ErrNotFound
		}
		r.logger.ErrorContext(ctx, "Failed to get loan by ID", "loan_id", loanID, "error", err)
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}

	return l, nil
}

func (r *LoanRepository) ListByCustomer(ctx context.Context, customerID int64) ([]loan.Loan, error) {
	query := `
        SELECT ` + loanColumns + `
        FROM loans
        WHERE customer_id = $1
        ORDER BY start_date DESC`

	return r.queryLoans(ctx, "LoanListByCustomer", query, customerID)
}

func (r *LoanRepository) ListActiveByCustomer(ctx context.Context, customerID int64, asOf time.Time) ([]loan.Loan, error) {
	query := `
        SELECT ` + loanColumns + `
        FROM loans
        WHERE customer_id = $1 AND end_date >= $2
        ORDER BY start_date DESC`

	return r.queryLoans(ctx, "LoanListActiveByCustomer", query, customerID, asOf)
}

func (r *LoanRepository) Upsert(ctx context.Context, l *loan.Loan) (bool, error) {
	if l == nil || l.LoanID <= 0 {
		return false, fmt.Errorf("%w: upsert requires a loan with an identifier", apperrors.ErrInvalidArgument)
	}

	query := `
        INSERT INTO loans (loan_id, customer_id, loan_amount, tenure, interest_rate, monthly_repayment, emis_paid_on_time, start_date, end_date, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
        ON CONFLICT (loan_id) DO UPDATE SET
            customer_id = EXCLUDED.customer_id,
            loan_amount = EXCLUDED.loan_amount,
            tenure = EXCLUDED.tenure,
            interest_rate = EXCLUDED.interest_rate,
            monthly_repayment = EXCLUDED.monthly_repayment,
            emis_paid_on_time = EXCLUDED.emis_paid_on_time,
            start_date = EXCLUDED.start_date,
            end_date = EXCLUDED.end_date,
            updated_at = NOW()
        RETURNING (xmax = 0)`

	var inserted bool
	err := r.db.QueryRow(ctx, query,
		l.LoanID,
		l.CustomerID,
		decimalToNumeric(l.LoanAmount),
		l.Tenure,
		decimalToNumeric(l.InterestRate),
		decimalToNumeric(l.MonthlyRepayment),
		l.EmisPaidOnTime,
		l.StartDate,
		l.EndDate,
	).Scan(&inserted)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to upsert loan", slog.Int64("loanID", l.LoanID), slog.Any("error", err))
		return false, translateDBError(err, r.logger)
	}

	return inserted, nil
}

// SyncIdentitySequence realigns the loan_id sequence after bulk loads that
// supplied explicit identifiers.
func (r *LoanRepository) SyncIdentitySequence(ctx context.Context) error {
	query := `SELECT setval(pg_get_serial_sequence('loans', 'loan_id'), COALESCE(MAX(loan_id), 1)) FROM loans`
	if _, err := r.db.Exec(ctx, query); err != nil {
		r.logger.ErrorContext(ctx, "Failed to sync loan identity sequence", slog.Any("error", err))
		return fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	return nil
}

func (r *LoanRepository) queryLoans(ctx context.Context, queryName, query string, args ...any) ([]loan.Loan, error) {
	status := "success"
	startTime := time.Now()

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		monitoring.RecordDBQuery(queryName, "error", time.Since(startTime))
		r.logger.ErrorContext(ctx, "Failed to query loans", "query_name", queryName, "error", err)
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	defer rows.Close()

	loans := make([]loan.Loan, 0)
	for rows.Next() {
		l, scanErr := r.scanLoan(rows)
		if scanErr != nil {
			monitoring.RecordDBQuery(queryName, "error", time.Since(startTime))
			r.logger.ErrorContext(ctx, "Failed to scan loan row", "query_name", queryName, "error", scanErr)
			return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, scanErr)
		}
		loans = append(loans, *l)
	}
	if err := rows.Err(); err != nil {
		status = "error"
	}
	monitoring.RecordDBQuery(queryName, status, time.Since(startTime))

	if err := rows.Err(); err != nil {
		r.logger.ErrorContext(ctx, "Row iteration error", "query_name", queryName, "error", err)
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	return loans, nil
}

func (r *LoanRepository) scanLoan(row pgx.Row) (*loan.Loan, error) {
	var l loan.Loan
	var amount, rate, repayment pgtype.Numeric

	err := row.Scan(
		&l.LoanID, &l.CustomerID, &amount, &l.Tenure, &rate, &repayment,
		&l.EmisPaidOnTime, &l.StartDate, &l.EndDate, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if l.LoanAmount, err = numericToDecimal(amount); err != nil {
		return nil, fmt.Errorf("loan_amount: %w", err)
	}
	if l.InterestRate, err = numericToDecimal(rate); err != nil {
		return nil, fmt.Errorf("interest_rate: %w", err)
	}
	if l.MonthlyRepayment, err = numericToDecimal(repayment); err != nil {
		return nil, fmt.Errorf("monthly_repayment: %w", err)
	}
	return &l, nil
}
