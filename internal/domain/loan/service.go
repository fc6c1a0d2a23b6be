package loan

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/nisarahamed1507/credit-approval-backend-system/internal/domain/credit"
	"github.com/nisarahamed1507/credit-approval-backend-system/internal/domain/customer"
	"github.com/nisarahamed1507/credit-approval-backend-system/internal/event"
	"github.com/nisarahamed1507/credit-approval-backend-system/internal/infrastructure/monitoring"
	"github.com/nisarahamed1507/credit-approval-backend-system/internal/pkg/apperrors"
)

// OriginationResult carries the eligibility decision together with the
// persisted loan. Loan is nil when the decision rejected the request; that is
// a normal outcome, not an error.
type OriginationResult struct {
	Loan     *Loan
	Decision credit.Decision
}

// LoanDetail pairs a loan with its owning customer for the detail view.
type LoanDetail struct {
	Loan     Loan
	Customer *customer.Customer
}

// CustomerLoan is a history entry with the remaining EMI count.
type CustomerLoan struct {
	Loan
	RepaymentsLeft int
}

type LoanService interface {
	CheckEligibility(ctx context.Context, customerID int64, loanAmount, interestRate decimal.Decimal, tenure int) (credit.Decision, error)

	CreateLoan(ctx context.Context, customerID int64, loanAmount, interestRate decimal.Decimal, tenure int) (*OriginationResult, error)

	GetLoan(ctx context.Context, loanID int64) (*LoanDetail, error)

	ListCustomerLoans(ctx context.Context, customerID int64) ([]CustomerLoan, error)
}

type loanServiceImpl struct {
	repo            Repository
	customerService customer.CustomerService
	pub             event.EventPublisher
	logger          *slog.Logger
}

func NewLoanService(r Repository, cs customer.CustomerService, pub event.EventPublisher, logger *slog.Logger) LoanService {
	if r == nil || cs == nil {
		panic("loan service dependencies cannot be nil")
	}
	if pub == nil {
		pub = event.NewNoopPublisher(logger)
	}
	return &loanServiceImpl{
		repo:            r,
		customerService: cs,
		pub:             pub,
		logger:          logger.With("component", "loanService"),
	}
}

func validateLoanTerms(loanAmount, interestRate decimal.Decimal, tenure int) error {
	if !loanAmount.IsPositive() {
		return apperrors.NewValidationError("loan_amount", "must be greater than zero")
	}
	if interestRate.IsNegative() {
		return apperrors.NewValidationError("interest_rate", "cannot be negative")
	}
	if tenure < 1 {
		return apperrors.NewValidationError("tenure", "must be at least 1 month")
	}
	return nil
}

func (s *loanServiceImpl) CheckEligibility(ctx context.Context, customerID int64, loanAmount, interestRate decimal.Decimal, tenure int) (credit.Decision, error) {
	s.logger.InfoContext(ctx, "Checking loan eligibility", "customerID", customerID)

	if err := validateLoanTerms(loanAmount, interestRate, tenure); err != nil {
		s.logger.WarnContext(ctx, "Eligibility request failed validation", slog.Any("error", err))
		return credit.Decision{}, err
	}

	req := credit.EligibilityRequest{
		LoanAmount:   loanAmount,
		InterestRate: interestRate,
		Tenure:       tenure,
	}
	asOf := time.Now()

	cust, err := s.customerService.GetCustomer(ctx, customerID)
	if err != nil {
		if errors.Is(err, customer.ErrNotFound) || errors.Is(err, apperrors.ErrNotFound) {
			s.logger.WarnContext(ctx, "Customer not found for eligibility check", "customerID", customerID)
			decision := credit.Decide(nil, nil, req, asOf)
			monitoring.RecordEligibilityCheck("customer_not_found")
			return decision, nil
		}
		s.logger.ErrorContext(ctx, "Failed to load customer for eligibility check", slog.Any("error", err))
		return credit.Decision{}, fmt.Errorf("failed to load customer %d: %w", customerID, err)
	}

	history, err := s.repo.ListByCustomer(ctx, customerID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to load loan history", "customerID", customerID, slog.Any("error", err))
		return credit.Decision{}, fmt.Errorf("failed to load loan history for customer %d: %w", customerID, err)
	}

	decision := credit.Decide(cust, CreditRecords(history), req, asOf)

	monitoring.RecordCreditScore(decision.CreditScore)
	if decision.Approved {
		monitoring.RecordEligibilityCheck("approved")
	} else {
		monitoring.RecordEligibilityCheck("rejected")
	}

	s.logger.InfoContext(ctx, "Eligibility decision made",
		"customerID", customerID,
		"approved", decision.Approved,
		"creditScore", decision.CreditScore,
		"correctedRate", decision.CorrectedInterestRate.String(),
	)
	return decision, nil
}

func (s *loanServiceImpl) CreateLoan(ctx context.Context, customerID int64, loanAmount, interestRate decimal.Decimal, tenure int) (*OriginationResult, error) {
	s.logger.InfoContext(ctx, "Creating new loan", "customerID", customerID)

	decision, err := s.CheckEligibility(ctx, customerID, loanAmount, interestRate, tenure)
	if err != nil {
		return nil, err
	}

	if !decision.Approved {
		s.logger.InfoContext(ctx, "Loan request not approved", "customerID", customerID, "reason", decision.Message)
		return &OriginationResult{Decision: decision}, nil
	}

	now := time.Now()
	startDate := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	newLoan := &Loan{
		CustomerID:       customerID,
		LoanAmount:       loanAmount,
		Tenure:           tenure,
		InterestRate:     decision.CorrectedInterestRate,
		MonthlyRepayment: decision.MonthlyInstallment,
		EmisPaidOnTime:   0,
		StartDate:        startDate,
		EndDate:          startDate.AddDate(0, tenure, 0),
	}

	if err := s.repo.Create(ctx, newLoan); err != nil {
		s.logger.ErrorContext(ctx, "Failed to persist approved loan", "customerID", customerID, slog.Any("error", err))
		return nil, fmt.Errorf("%w: failed to save loan: %v", apperrors.ErrInternalServer, err)
	}

	monitoring.RecordLoanCreated()
	s.publishLoanCreatedEvent(ctx, newLoan, decision)

	s.logger.InfoContext(ctx, "Loan created successfully", "loanID", newLoan.LoanID, "customerID", customerID)
	return &OriginationResult{Loan: newLoan, Decision: decision}, nil
}

func (s *loanServiceImpl) GetLoan(ctx context.Context, loanID int64) (*LoanDetail, error) {
	s.logger.InfoContext(ctx, "Getting loan details", "loanID", loanID)

	l, err := s.repo.FindByID(ctx, loanID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.logger.WarnContext(ctx, "Loan not found", "loanID", loanID)
			return nil, fmt.Errorf("%w: loan with ID %d not found", apperrors.ErrNotFound, loanID)
		}
		s.logger.ErrorContext(ctx, "Failed to get loan", "loanID", loanID, slog.Any("error", err))
		return nil, fmt.Errorf("%w: failed to get loan %d: %v", apperrors.ErrInternalServer, loanID, err)
	}

	cust, err := s.customerService.GetCustomer(ctx, l.CustomerID)
	if err != nil {
		if errors.Is(err, customer.ErrNotFound) || errors.Is(err, apperrors.ErrNotFound) {
			s.logger.WarnContext(ctx, "No customer found for loan (data inconsistency?)", "loanID", loanID, "customerID", l.CustomerID)
		} else {
			s.logger.ErrorContext(ctx, "Failed to load customer for loan", "loanID", loanID, slog.Any("error", err))
			return nil, fmt.Errorf("failed to load customer for loan %d: %w", loanID, err)
		}
	}

	return &LoanDetail{Loan: *l, Customer: cust}, nil
}

func (s *loanServiceImpl) ListCustomerLoans(ctx context.Context, customerID int64) ([]CustomerLoan, error) {
	s.logger.InfoContext(ctx, "Listing loans for customer", "customerID", customerID)

	if _, err := s.customerService.GetCustomer(ctx, customerID); err != nil {
		if errors.Is(err, customer.ErrNotFound) || errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: customer with ID %d not found", apperrors.ErrNotFound, customerID)
		}
		return nil, fmt.Errorf("failed to verify customer %d: %w", customerID, err)
	}

	history, err := s.repo.ListByCustomer(ctx, customerID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to list loans", "customerID", customerID, slog.Any("error", err))
		return nil, fmt.Errorf("%w: failed to list loans for customer %d: %v", apperrors.ErrInternalServer, customerID, err)
	}

	asOf := time.Now()
	result := make([]CustomerLoan, 0, len(history))
	for _, l := range history {
		result = append(result, CustomerLoan{Loan: l, RepaymentsLeft: l.RepaymentsLeft(asOf)})
	}
	return result, nil
}

func (s *loanServiceImpl) publishLoanCreatedEvent(ctx context.Context, l *Loan, decision credit.Decision) {
	evt := event.LoanCreatedEvent{
		Timestamp: time.Now(),
		Payload: event.LoanEventPayload{
			LoanID:             l.LoanID,
			CustomerID:         l.CustomerID,
			LoanAmount:         l.LoanAmount,
			Tenure:             l.Tenure,
			InterestRate:       l.InterestRate,
			MonthlyInstallment: l.MonthlyRepayment,
			CreditScore:        decision.CreditScore,
			StartDate:          l.StartDate,
			EndDate:            l.EndDate,
		},
	}

	if err := s.pub.PublishLoanCreated(ctx, evt); err != nil {
		s.logger.ErrorContext(ctx, "Failed to publish loan created event", "loanID", l.LoanID, slog.Any("error", err))
	}
}
