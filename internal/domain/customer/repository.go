package customer

import (
	"context"
	"errors"
)

var (
	ErrNotFound = errors.New("customer not found")

	ErrDuplicatePhoneNumber = errors.New("phone number already registered")
)

type CustomerRepository interface {
	// Create persists a new customer. The identifier is assigned by the
	// database sequence and written back into the customer.
	Create(ctx context.Context, customer *Customer) error

	FindByID(ctx context.Context, customerID int64) (*Customer, error)

	// Upsert inserts or updates a customer keeping its externally supplied
	// identifier. Used by bulk data ingestion.
	Upsert(ctx context.Context, customer *Customer) (created bool, err error)

	// RefreshCurrentDebt recomputes current_debt for every customer from the
	// sum of their active loan amounts. Returns the number of rows updated.
	RefreshCurrentDebt(ctx context.Context) (int64, error)
}
