package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/nisarahamed1507/credit-approval-backend-system/internal/domain/loan"
	"github.com/nisarahamed1507/credit-approval-backend-system/internal/pkg/apperrors"
)

func setupLoanRepo(t *testing.T) (context.Context, *LoanRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mockPool, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to open a stub database connection: %v", err)
	}

	ctx := context.Background()
	repo := NewLoanRepository(mockPool, logger)

	return ctx, repo, mockPool
}

func testLoan() *loan.Loan {
	start := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
	return &loan.Loan{
		CustomerID:       7,
		LoanAmount:       decimal.NewFromInt(100000),
		Tenure:           12,
		InterestRate:     decimal.RequireFromString("12.00"),
		MonthlyRepayment: decimal.RequireFromString("8884.88"),
		EmisPaidOnTime:   0,
		StartDate:        start,
		EndDate:          start.AddDate(0, 12, 0),
	}
}

func loanRows(loans ...*loan.Loan) *pgxmock.Rows {
	rows := pgxmock.NewRows([]string{
		"loan_id", "customer_id", "loan_amount", "tenure", "interest_rate", "monthly_repayment",
		"emis_paid_on_time", "start_date", "end_date", "created_at", "updated_at",
	})
	for _, l := range loans {
		rows.AddRow(
			l.LoanID, l.CustomerID,
			decimalToNumeric(l.LoanAmount), l.Tenure,
			decimalToNumeric(l.InterestRate), decimalToNumeric(l.MonthlyRepayment),
			l.EmisPaidOnTime, l.StartDate, l.EndDate, l.CreatedAt, l.UpdatedAt,
		)
	}
	return rows
}

func TestLoanRepositoryCreate(t *testing.T) {
	ctx, repo, mockPool := setupLoanRepo(t)
	defer mockPool.Close()

	insertSQL := `
        INSERT INTO loans (customer_id, loan_amount, tenure, interest_rate, monthly_repayment, emis_paid_on_time, start_date, end_date, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
        RETURNING loan_id, created_at, updated_at`

	expectInsert := func(l *loan.Loan) *pgxmock.ExpectedQuery {
		return mockPool.ExpectQuery(regexp.QuoteMeta(insertSQL)).
			WithArgs(
				l.CustomerID,
				decimalToNumeric(l.LoanAmount),
				l.Tenure,
				decimalToNumeric(l.InterestRate),
				decimalToNumeric(l.MonthlyRepayment),
				l.EmisPaidOnTime,
				l.StartDate,
				l.EndDate,
			)
	}

	t.Run("successful insert assigns identifier", func(t *testing.T) {
		l := testLoan()
		now := time.Now()

		expectInsert(l).WillReturnRows(pgxmock.NewRows([]string{"loan_id", "created_at", "updated_at"}).
			AddRow(int64(55), now, now))

		err := repo.Create(ctx, l)
		assert.NoError(t, err)
		assert.Equal(t, int64(55), l.LoanID)
		assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
	})

	t.Run("foreign key violation maps to conflict", func(t *testing.T) {
		l := testLoan()

		expectInsert(l).WillReturnError(&pgconn.PgError{Code: "23503", ConstraintName: "loans_customer_id_fkey"})

		err := repo.Create(ctx, l)
		assert.ErrorIs(t, err, apperrors.ErrConflict)
		assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
	})

	t.Run("nil loan rejected", func(t *testing.T) {
		err := repo.Create(ctx, nil)
		assert.ErrorIs(t, err, apperrors.ErrInvalidArgument)
	})
}

func TestLoanRepositoryFindByID(t *testing.T) {
	ctx, repo, mockPool := setupLoanRepo(t)
	defer mockPool.Close()

	selectSQL := `
        SELECT ` + loanColumns + `
        FROM loans
        WHERE loan_id = $1`

	t.Run("found", func(t *testing.T) {
		stored := testLoan()
		stored.LoanID = 55

		mockPool.ExpectQuery(regexp.QuoteMeta(selectSQL)).
			WithArgs(int64(55)).
			WillReturnRows(loanRows(stored))

		l, err := repo.FindByID(ctx, 55)
		assert.NoError(t, err)
		assert.Equal(t, int64(55), l.LoanID)
		assert.Equal(t, int64(7), l.CustomerID)
		assert.True(t, l.LoanAmount.Equal(decimal.NewFromInt(100000)))
		assert.True(t, l.MonthlyRepayment.Equal(decimal.RequireFromString("8884.88")))
		assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
	})

	t.Run("no rows maps to not found", func(t *testing.T) {
		mockPool.ExpectQuery(regexp.QuoteMeta(selectSQL)).
			WithArgs(int64(99)).
			WillReturnError(pgx.ErrNoRows)

		l, err := repo.FindByID(ctx, 99)
		assert.Nil(t, l)
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
		assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
	})
}

func TestLoanRepositoryListByCustomer(t *testing.T) {
	ctx, repo, mockPool := setupLoanRepo(t)
	defer mockPool.Close()

	listSQL := `
        SELECT ` + loanColumns + `
        FROM loans
        WHERE customer_id = $1
        ORDER BY start_date DESC`

	t.Run("returns all loans for the customer", func(t *testing.T) {
		first := testLoan()
		first.LoanID = 55
		second := testLoan()
		second.LoanID = 56
		second.StartDate = first.StartDate.AddDate(-1, 0, 0)
		second.EndDate = second.StartDate.AddDate(0, 12, 0)

		mockPool.ExpectQuery(regexp.QuoteMeta(listSQL)).
			WithArgs(int64(7)).
			WillReturnRows(loanRows(first, second))

		loans, err := repo.ListByCustomer(ctx, 7)
		assert.NoError(t, err)
		assert.Len(t, loans, 2)
		assert.Equal(t, int64(55), loans[0].LoanID)
		assert.Equal(t, int64(56), loans[1].LoanID)
		assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
	})

	t.Run("no loans yields empty slice", func(t *testing.T) {
		mockPool.ExpectQuery(regexp.QuoteMeta(listSQL)).
			WithArgs(int64(8)).
			WillReturnRows(loanRows())

		loans, err := repo.ListByCustomer(ctx, 8)
		assert.NoError(t, err)
		assert.NotNil(t, loans)
		assert.Empty(t, loans)
		assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
	})

	t.Run("query failure wraps database error", func(t *testing.T) {
		mockPool.ExpectQuery(regexp.QuoteMeta(listSQL)).
			WithArgs(int64(7)).
			WillReturnError(errors.New("connection reset"))

		loans, err := repo.ListByCustomer(ctx, 7)
		assert.Nil(t, loans)
		assert.ErrorIs(t, err, apperrors.ErrDatabase)
		assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
	})
}

func TestLoanRepositoryListActiveByCustomer(t *testing.T) {
	ctx, repo, mockPool := setupLoanRepo(t)
	defer mockPool.Close()

	listSQL := `
        SELECT ` + loanColumns + `
        FROM loans
        WHERE customer_id = $1 AND end_date >= $2
        ORDER BY start_date DESC`

	asOf := time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC)
	active := testLoan()
	active.LoanID = 55

	mockPool.ExpectQuery(regexp.QuoteMeta(listSQL)).
		WithArgs(int64(7), asOf).
		WillReturnRows(loanRows(active))

	loans, err := repo.ListActiveByCustomer(ctx, 7, asOf)
	assert.NoError(t, err)
	assert.Len(t, loans, 1)
	assert.Equal(t, int64(55), loans[0].LoanID)
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}

func TestLoanRepositoryUpsert(t *testing.T) {
	ctx, repo, mockPool := setupLoanRepo(t)
	defer mockPool.Close()

	upsertSQL := `
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

	l := testLoan()
	l.LoanID = 55

	t.Run("insert reports true", func(t *testing.T) {
		mockPool.ExpectQuery(regexp.QuoteMeta(upsertSQL)).
			WithArgs(
				l.LoanID,
				l.CustomerID,
				decimalToNumeric(l.LoanAmount),
				l.Tenure,
				decimalToNumeric(l.InterestRate),
				decimalToNumeric(l.MonthlyRepayment),
				l.EmisPaidOnTime,
				l.StartDate,
				l.EndDate,
			).WillReturnRows(pgxmock.NewRows([]string{"?column?"}).AddRow(true))

		inserted, err := repo.Upsert(ctx, l)
		assert.NoError(t, err)
		assert.True(t, inserted)
		assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
	})

	t.Run("missing identifier rejected", func(t *testing.T) {
		_, err := repo.Upsert(ctx, testLoan())
		assert.ErrorIs(t, err, apperrors.ErrInvalidArgument)
	})
}

func TestLoanRepositorySyncIdentitySequence(t *testing.T) {
	ctx, repo, mockPool := setupLoanRepo(t)
	defer mockPool.Close()

	syncSQL := `SELECT setval(pg_get_serial_sequence('loans', 'loan_id'), COALESCE(MAX(loan_id), 1)) FROM loans`

	mockPool.ExpectExec(regexp.QuoteMeta(syncSQL)).
		WillReturnResult(pgxmock.NewResult("SELECT", 1))

	assert.NoError(t, repo.SyncIdentitySequence(ctx))
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}
