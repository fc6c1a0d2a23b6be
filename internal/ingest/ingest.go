// Package ingest bulk-loads customer and loan seed data from CSV exports.
// Rows carry their own identifiers, so records are upserted and the identity
// sequences realigned afterwards.
package ingest

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/nisarahamed1507/credit-approval-backend-system/internal/domain/customer"
	"github.com/nisarahamed1507/credit-approval-backend-system/internal/domain/loan"
)

const dateLayout = "2006-01-02"

// defaultAge is used for customer rows, which do not carry an age column.
const defaultAge = 25

type CustomerStore interface {
	Upsert(ctx context.Context, cust *customer.Customer) (created bool, err error)
	SyncIdentitySequence(ctx context.Context) error
}

type LoanStore interface {
	Upsert(ctx context.Context, l *loan.Loan) (created bool, err error)
	SyncIdentitySequence(ctx context.Context) error
}

// Result summarizes one ingestion run. Row-level failures are collected in
// RowErrors and do not abort the run.
type Result struct {
	Created   int
	Updated   int
	RowErrors []string
}

type Ingestor struct {
	customers CustomerStore
	loans     LoanStore
	logger    *slog.Logger
}

func NewIngestor(customers CustomerStore, loans LoanStore, logger *slog.Logger) *Ingestor {
	if customers == nil || loans == nil {
		panic("Ingestor stores cannot be nil")
	}
	return &Ingestor{
		customers: customers,
		loans:     loans,
		logger:    logger.With("component", "Ingestor"),
	}
}

// IngestCustomers loads a customer CSV with columns:
// customer_id, first_name, last_name, phone_number, monthly_salary, approved_limit, current_debt
func (i *Ingestor) IngestCustomers(ctx context.Context, path string) (Result, error) {
	var res Result

	err := i.forEachRow(ctx, path, 7, func(ctx context.Context, row []string) error {
		cust, err := parseCustomerRow(row)
		if err != nil {
			return err
		}
		created, err := i.customers.Upsert(ctx, cust)
		if err != nil {
			return fmt.Errorf("customer %d: %w", cust.CustomerID, err)
		}
		if created {
			res.Created++
		} else {
			res.Updated++
		}
		return nil
	}, &res)
	if err != nil {
		return res, err
	}

	if err := i.customers.SyncIdentitySequence(ctx); err != nil {
		return res, fmt.Errorf("failed to sync customer sequence after ingestion: %w", err)
	}

	i.logger.InfoContext(ctx, "Customer data ingestion complete",
		"created", res.Created, "updated", res.Updated, "row_errors", len(res.RowErrors))
	return res, nil
}

// IngestLoans loads a loan CSV with columns:
// customer_id, loan_id, loan_amount, tenure, interest_rate, monthly_repayment, emis_paid_on_time, start_date, end_date
func (i *Ingestor) IngestLoans(ctx context.Context, path string) (Result, error) {
	var res Result

	err := i.forEachRow(ctx, path, 9, func(ctx context.Context, row []string) error {
		l, err := parseLoanRow(row)
		if err != nil {
			return err
		}
		created, err := i.loans.Upsert(ctx, l)
		if err != nil {
			return fmt.Errorf("loan %d: %w", l.LoanID, err)
		}
		if created {
			res.Created++
		} else {
			res.Updated++
		}
		return nil
	}, &res)
	if err != nil {
		return res, err
	}

	if err := i.loans.SyncIdentitySequence(ctx); err != nil {
		return res, fmt.Errorf("failed to sync loan sequence after ingestion: %w", err)
	}

	i.logger.InfoContext(ctx, "Loan data ingestion complete",
		"created", res.Created, "updated", res.Updated, "row_errors", len(res.RowErrors))
	return res, nil
}

// forEachRow streams the CSV at path, skipping the header row and empty rows,
// and applies fn to every data row. fn errors are recorded per row.
func (i *Ingestor) forEachRow(ctx context.Context, path string, wantColumns int, fn func(context.Context, []string) error, res *Result) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open data file %s: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	rowNum := 0
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		row, err := reader.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}

		rowNum++
		if rowNum == 1 {
			// header
			continue
		}
		if len(row) == 0 || row[0] == "" {
			continue
		}
		if len(row) < wantColumns {
			res.RowErrors = append(res.RowErrors, fmt.Sprintf("row %d: expected %d columns, got %d", rowNum, wantColumns, len(row)))
			continue
		}

		if err := fn(ctx, row); err != nil {
			i.logger.WarnContext(ctx, "Skipping bad row", "file", path, "row", rowNum, slog.Any("error", err))
			res.RowErrors = append(res.RowErrors, fmt.Sprintf("row %d: %v", rowNum, err))
		}
	}
}

func parseCustomerRow(row []string) (*customer.Customer, error) {
	customerID, err := strconv.ParseInt(row[0], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid customer_id %q: %w", row[0], err)
	}
	phoneNumber, err := strconv.ParseInt(row[3], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid phone_number %q: %w", row[3], err)
	}
	salary, err := decimal.NewFromString(row[4])
	if err != nil {
		return nil, fmt.Errorf("invalid monthly_salary %q: %w", row[4], err)
	}
	limit, err := decimal.NewFromString(row[5])
	if err != nil {
		return nil, fmt.Errorf("invalid approved_limit %q: %w", row[5], err)
	}
	debt := decimal.Zero
	if row[6] != "" {
		if debt, err = decimal.NewFromString(row[6]); err != nil {
			return nil, fmt.Errorf("invalid current_debt %q: %w", row[6], err)
		}
	}

	return &customer.Customer{
		CustomerID:    customerID,
		FirstName:     row[1],
		LastName:      row[2],
		Age:           defaultAge,
		PhoneNumber:   phoneNumber,
		MonthlySalary: salary,
		ApprovedLimit: limit,
		CurrentDebt:   debt,
	}, nil
}

func parseLoanRow(row []string) (*loan.Loan, error) {
	customerID, err := strconv.ParseInt(row[0], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid customer_id %q: %w", row[0], err)
	}
	loanID, err := strconv.ParseInt(row[1], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid loan_id %q: %w", row[1], err)
	}
	amount, err := decimal.NewFromString(row[2])
	if err != nil {
		return nil, fmt.Errorf("invalid loan_amount %q: %w", row[2], err)
	}
	tenure, err := strconv.Atoi(row[3])
	if err != nil {
		return nil, fmt.Errorf("invalid tenure %q: %w", row[3], err)
	}
	rate, err := decimal.NewFromString(row[4])
	if err != nil {
		return nil, fmt.Errorf("invalid interest_rate %q: %w", row[4], err)
	}
	repayment, err := decimal.NewFromString(row[5])
	if err != nil {
		return nil, fmt.Errorf("invalid monthly_repayment %q: %w", row[5], err)
	}
	emisPaid, err := strconv.Atoi(row[6])
	if err != nil {
		return nil, fmt.Errorf("invalid emis_paid_on_time %q: %w", row[6], err)
	}
	startDate, err := time.Parse(dateLayout, row[7])
	if err != nil {
		return nil, fmt.Errorf("invalid start_date %q: %w", row[7], err)
	}
	endDate, err := time.Parse(dateLayout, row[8])
	if err != nil {
		return nil, fmt.Errorf("invalid end_date %q: %w", row[8], err)
	}
	if endDate.Before(startDate) {
		return nil, fmt.Errorf("end_date %s precedes start_date %s", row[8], row[7])
	}

	return &loan.Loan{
		LoanID:           loanID,
		CustomerID:       customerID,
		LoanAmount:       amount,
		Tenure:           tenure,
		InterestRate:     rate,
		MonthlyRepayment: repayment,
		EmisPaidOnTime:   emisPaid,
		StartDate:        startDate,
		EndDate:          endDate,
	}, nil
}
