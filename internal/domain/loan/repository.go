package loan

import (
	"context"
	"time"
)

type Repository interface {
	// Create persists a new loan. The identifier is assigned by the database
	// sequence and written back into the loan.
	Create(ctx context.Context, loan *Loan) error

	FindByID(ctx context.Context, loanID int64) (*Loan, error)

	// ListByCustomer returns the customer's full loan history, newest start
	// date first.
	ListByCustomer(ctx context.Context, customerID int64) ([]Loan, error)

	// ListActiveByCustomer returns the loans whose end_date is on or after the
	// given date.
	ListActiveByCustomer(ctx context.Context, customerID int64, asOf time.Time) ([]Loan, error)

	// Upsert inserts or updates a loan keeping its externally supplied
	// identifier. Used by bulk data ingestion.
	Upsert(ctx context.Context, loan *Loan) (created bool, err error)
}
