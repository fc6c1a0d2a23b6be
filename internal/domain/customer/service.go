package customer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/nisarahamed1507/credit-approval-backend-system/internal/event"
	"github.com/nisarahamed1507/credit-approval-backend-system/internal/infrastructure/monitoring"
	"github.com/nisarahamed1507/credit-approval-backend-system/internal/pkg/apperrors"
)

type CustomerService interface {
	RegisterCustomer(ctx context.Context, firstName, lastName string, age int, phoneNumber int64, monthlyIncome decimal.Decimal) (*Customer, error)
	GetCustomer(ctx context.Context, customerID int64) (*Customer, error)
}

var _ CustomerService = (*customerService)(nil)

type customerService struct {
	repo   CustomerRepository
	pub    event.EventPublisher
	logger *slog.Logger
}

func NewCustomerService(repo CustomerRepository, pub event.EventPublisher, logger *slog.Logger) CustomerService {
	if repo == nil {
		panic("customer repository cannot be nil")
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
		logger.Warn("Warning: No logger provided to NewCustomerService, using default stderr handler")
	}
	if pub == nil {
		pub = event.NewNoopPublisher(logger)
	}

	return &customerService{
		repo:   repo,
		pub:    pub,
		logger: logger.With(slog.String("component", "customerService")),
	}
}

func (s *customerService) RegisterCustomer(ctx context.Context, firstName, lastName string, age int, phoneNumber int64, monthlyIncome decimal.Decimal) (*Customer, error) {
	s.logger.InfoContext(ctx, "Attempting to register new customer")

	firstName = strings.TrimSpace(firstName)
	lastName = strings.TrimSpace(lastName)
	if firstName == "" {
		s.logger.WarnContext(ctx, "Validation failed: first name is empty")
		return nil, apperrors.NewValidationError("first_name", "cannot be empty")
	}
	if lastName == "" {
		s.logger.WarnContext(ctx, "Validation failed: last name is empty")
		return nil, apperrors.NewValidationError("last_name", "cannot be empty")
	}
	if age < MinimumAge {
		s.logger.WarnContext(ctx, "Validation failed: customer is underage", slog.Int("age", age))
		return nil, apperrors.NewValidationError("age", fmt.Sprintf("must be at least %d", MinimumAge))
	}
	if phoneNumber <= 0 {
		s.logger.WarnContext(ctx, "Validation failed: invalid phone number")
		return nil, apperrors.NewValidationError("phone_number", "must be a positive number")
	}
	if monthlyIncome.IsNegative() {
		s.logger.WarnContext(ctx, "Validation failed: negative monthly income")
		return nil, apperrors.NewValidationError("monthly_income", "cannot be negative")
	}

	cust := NewCustomer(firstName, lastName, age, phoneNumber, monthlyIncome)

	s.logger.InfoContext(ctx, "Input validation passed, persisting customer",
		slog.String("approved_limit", cust.ApprovedLimit.StringFixed(2)))
	if err := s.repo.Create(ctx, cust); err != nil {
		if errors.Is(err, ErrDuplicatePhoneNumber) {
			s.logger.WarnContext(ctx, "Duplicate phone number detected during registration")
			return nil, ErrDuplicatePhoneNumber
		}
		s.logger.ErrorContext(ctx, "Repository failed to create customer", slog.Any("error", err))
		return nil, fmt.Errorf("failed to register customer: %w", err)
	}

	monitoring.RecordCustomerRegistered()
	s.publishRegisteredEvent(ctx, cust)

	s.logger.InfoContext(ctx, "Customer registered successfully", slog.Int64("customerID", cust.CustomerID))
	return cust, nil
}

func (s *customerService) GetCustomer(ctx context.Context, customerID int64) (*Customer, error) {
	s.logger.InfoContext(ctx, "Fetching customer", slog.Int64("customerID", customerID))

	cust, err := s.repo.FindByID(ctx, customerID)
	if err != nil {
		if errors.Is(err, ErrNotFound) || errors.Is(err, apperrors.ErrNotFound) {
			s.logger.WarnContext(ctx, "Customer not found by repository", slog.Int64("customerID", customerID))
			return nil, ErrNotFound
		}
		s.logger.ErrorContext(ctx, "Repository error fetching customer", slog.Any("error", err))
		return nil, fmt.Errorf("failed to get customer %d: %w", customerID, err)
	}

	return cust, nil
}

func (s *customerService) publishRegisteredEvent(ctx context.Context, cust *Customer) {
	evt := event.CustomerRegisteredEvent{
		Timestamp: time.Now(),
		Payload: event.CustomerEventPayload{
			CustomerID:    cust.CustomerID,
			Name:          cust.FullName(),
			Age:           cust.Age,
			PhoneNumber:   cust.PhoneNumber,
			MonthlySalary: cust.MonthlySalary,
			ApprovedLimit: cust.ApprovedLimit,
		},
	}

	if err := s.pub.PublishCustomerRegistered(ctx, evt); err != nil {
		s.logger.ErrorContext(ctx, "Failed to publish customer registered event",
			slog.Int64("customerID", cust.CustomerID), slog.Any("error", err))
	}
}
