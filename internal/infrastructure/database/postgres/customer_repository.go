package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/nisarahamed1507/credit-approval-backend-system/internal/domain/customer"
	"github.com/nisarahamed1507/credit-approval-backend-system/internal/infrastructure/monitoring"
	"github.com/nisarahamed1507/credit-approval-backend-system/internal/pkg/apperrors"
)

type CustomerRepository struct {
	db     DBPool
	logger *slog.Logger
}

var _ customer.CustomerRepository = (*CustomerRepository)(nil)

func NewCustomerRepository(db DBPool, logger *slog.Logger) *CustomerRepository {
	if db == nil {
		panic("DBPool cannot be nil for CustomerRepository")
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
		logger.Warn("Warning: No logger provided to NewCustomerRepository, using default stderr handler")
	}
	return &CustomerRepository{
		db:     db,
		logger: logger.With("component", "CustomerRepository"),
	}
}

func (r *CustomerRepository) Create(ctx context.Context, cust *customer.Customer) error {
	if cust == nil {
		return fmt.Errorf("%w: customer cannot be nil", apperrors.ErrInvalidArgument)
	}

	r.logger.InfoContext(ctx, "Attempting to insert new customer", slog.String("name", cust.FullName()))

	query := `
        INSERT INTO customers (first_name, last_name, age, phone_number, monthly_salary, approved_limit, current_debt, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
        RETURNING customer_id, created_at, updated_at`

	err := r.db.QueryRow(ctx, query,
		cust.FirstName,
		cust.LastName,
		cust.Age,
		cust.PhoneNumber,
		decimalToNumeric(cust.MonthlySalary),
		decimalToNumeric(cust.ApprovedLimit),
		decimalToNumeric(cust.CurrentDebt),
	).Scan(
		&cust.CustomerID,
		&cust.CreatedAt,
		&cust.UpdatedAt,
	)

	if err != nil {
		translatedErr := translateDBError(err, r.logger)
		if errors.Is(translatedErr, apperrors.ErrAlreadyExists) {
			r.logger.WarnContext(ctx, "Failed to insert customer due to unique constraint violation",
				slog.Int64("phoneNumber", cust.PhoneNumber))
			return customer.ErrDuplicatePhoneNumber
		}
		r.logger.ErrorContext(ctx, "Failed to insert customer", slog.Any("error", err))
		return translatedErr
	}

	r.logger.InfoContext(ctx, "Customer inserted", slog.Int64("customerID", cust.CustomerID))
	return nil
}

func (r *CustomerRepository) FindByID(ctx context.Context, customerID int64) (*customer.Customer, error) {
	query := `
        SELECT customer_id, first_name, last_name, age, phone_number, monthly_salary, approved_limit, current_debt, created_at, updated_at
        FROM customers
        WHERE customer_id = $1`

	status := "success"
	startTime := time.Now()

	var cust customer.Customer
	var salary, limit, debt pgtype.Numeric
	err := r.db.QueryRow(ctx, query, customerID).Scan(
		&cust.CustomerID, &cust.FirstName, &cust.LastName, &cust.Age, &cust.PhoneNumber,
		&salary, &limit, &debt, &cust.CreatedAt, &cust.UpdatedAt,
	)

	if err != nil {
		status = "error"
	}
	monitoring.RecordDBQuery("CustomerFindByID", status, time.Since(startTime))

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.WarnContext(ctx, "Customer not found", "customer_id", customerID)
			return nil, customer.ErrNotFound
		}
		r.logger.ErrorContext(ctx, "Failed to get customer by ID", "customer_id", customerID, "error", err)
		return nil, fmt.Errorf("%w: %w", apperrors.ErrDatabase, err)
	}

	if cust.MonthlySalary, err = numericToDecimal(salary); err != nil {
		return nil, fmt.Errorf("%w: monthly_salary: %w", apperrors.ErrDatabase, err)
	}
	if cust.ApprovedLimit, err = numericToDecimal(limit); err != nil {
		return nil, fmt.Errorf("%w: approved_limit: %w", apperrors.ErrDatabase, err)
	}
	if cust.CurrentDebt, err = numericToDecimal(debt); err != nil {
		return nil, fmt.Errorf("%w: current_debt: %w", apperrors.ErrDatabase, err)
	}

	return &cust, nil
}

func (r *CustomerRepository) Upsert(ctx context.Context, cust *customer.Customer) (bool, error) {
	if cust == nil || cust.CustomerID <= 0 {
		return false, fmt.Errorf("%w: upsert requires a customer with an identifier", apperrors.ErrInvalidArgument)
	}

	query := `
        INSERT INTO customers (customer_id, first_name, last_name, age, phone_number, monthly_salary, approved_limit, current_debt, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
        ON CONFLICT (customer_id) DO UPDATE SET
            first_name = EXCLUDED.first_name,
            last_name = EXCLUDED.last_name,
            age = EXCLUDED.age,
            phone_number = EXCLUDED.phone_number,
            monthly_salary = EXCLUDED.monthly_salary,
            approved_limit = EXCLUDED.approved_limit,
            current_debt = EXCLUDED.current_debt,
            updated_at = NOW()
        RETURNING (xmax = 0)`

	var inserted bool
	err := r.db.QueryRow(ctx, query,
		cust.CustomerID,
		cust.FirstName,
		cust.LastName,
		cust.Age,
		cust.PhoneNumber,
		decimalToNumeric(cust.MonthlySalary),
		decimalToNumeric(cust.ApprovedLimit),
		decimalToNumeric(cust.CurrentDebt),
	).Scan(&inserted)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to upsert customer", slog.Int64("customerID", cust.CustomerID), slog.Any("error", err))
		return false, translateDBError(err, r.logger)
	}

	return inserted, nil
}

// SyncIdentitySequence realigns the customer_id sequence after bulk loads that
// supplied explicit identifiers, so subsequent registrations keep getting
// unique sequence-assigned IDs.
func (r *CustomerRepository) SyncIdentitySequence(ctx context.Context) error {
	query := `SELECT setval(pg_get_serial_sequence('customers', 'customer_id'), COALESCE(MAX(customer_id), 1)) FROM customers`
	if _, err := r.db.Exec(ctx, query); err != nil {
		r.logger.ErrorContext(ctx, "Failed to sync customer identity sequence", slog.Any("error", err))
		return fmt.Errorf("%w: %w", apperrors.ErrDatabase, err)
	}
	return nil
}

func (r *CustomerRepository) RefreshCurrentDebt(ctx context.Context) (int64, error) {
	query := `
        UPDATE customers
        SET current_debt = COALESCE((
                SELECT SUM(l.loan_amount)
                FROM loans l
                WHERE l.customer_id = customers.customer_id
                  AND l.end_date >= $1
            ), 0),
            updated_at = NOW()`

	status := "success"
	startTime := time.Now()

	cmdTag, err := r.db.Exec(ctx, query, time.Now().Truncate(24*time.Hour))
	if err != nil {
		status = "error"
	}
	monitoring.RecordDBQuery("CustomerRefreshCurrentDebt", status, time.Since(startTime))

	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to refresh current debt", slog.Any("error", err))
		return 0, fmt.Errorf("%w: %w", apperrors.ErrDatabase, err)
	}

	return cmdTag.RowsAffected(), nil
}
