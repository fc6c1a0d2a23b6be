package dto

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/nisarahamed1507/credit-approval-backend-system/internal/domain/credit"
	"github.com/nisarahamed1507/credit-approval-backend-system/internal/domain/loan"
)

type EligibilityRequest struct {
	CustomerID   int64           `json:"customer_id"`
	LoanAmount   decimal.Decimal `json:"loan_amount"`
	InterestRate decimal.Decimal `json:"interest_rate"`
	Tenure       int             `json:"tenure"`
}

func (r *EligibilityRequest) Validate() error {
	if r.CustomerID <= 0 {
		return fmt.Errorf("customer_id must be a positive number")
	}
	if !r.LoanAmount.IsPositive() {
		return fmt.Errorf("loan_amount must be greater than zero")
	}
	if r.InterestRate.IsNegative() {
		return fmt.Errorf("interest_rate cannot be negative")
	}
	if r.Tenure < 1 {
		return fmt.Errorf("tenure must be at least 1 month")
	}
	return nil
}

type EligibilityResponse struct {
	CustomerID            int64  `json:"customer_id"`
	Approval              bool   `json:"approval"`
	InterestRate          string `json:"interest_rate"`
	CorrectedInterestRate string `json:"corrected_interest_rate"`
	Tenure                int    `json:"tenure"`
	MonthlyInstallment    string `json:"monthly_installment"`
	Message               string `json:"message,omitempty"`
}

func NewEligibilityResponse(customerID int64, tenure int, decision credit.Decision) EligibilityResponse {
	return EligibilityResponse{
		CustomerID:            customerID,
		Approval:              decision.Approved,
		InterestRate:          decision.InterestRate.StringFixed(2),
		CorrectedInterestRate: decision.CorrectedInterestRate.StringFixed(2),
		Tenure:                tenure,
		MonthlyInstallment:    decision.MonthlyInstallment.StringFixed(2),
		Message:               decision.Message,
	}
}

type CreateLoanRequest struct {
	CustomerID   int64           `json:"customer_id"`
	LoanAmount   decimal.Decimal `json:"loan_amount"`
	InterestRate decimal.Decimal `json:"interest_rate"`
	Tenure       int             `json:"tenure"`
}

func (r *CreateLoanRequest) Validate() error {
	req := EligibilityRequest(*r)
	return req.Validate()
}

type CreateLoanResponse struct {
	LoanID             *int64 `json:"loan_id"`
	CustomerID         int64  `json:"customer_id"`
	LoanApproved       bool   `json:"loan_approved"`
	Message            string `json:"message,omitempty"`
	MonthlyInstallment string `json:"monthly_installment"`
}

func NewCreateLoanResponse(customerID int64, result *loan.OriginationResult) CreateLoanResponse {
	resp := CreateLoanResponse{
		CustomerID:         customerID,
		LoanApproved:       result.Decision.Approved,
		Message:            result.Decision.Message,
		MonthlyInstallment: result.Decision.MonthlyInstallment.StringFixed(2),
	}
	if result.Loan != nil {
		resp.LoanID = &result.Loan.LoanID
	}
	return resp
}

type LoanCustomerSummary struct {
	CustomerID  int64  `json:"id"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	PhoneNumber int64  `json:"phone_number"`
	Age         int    `json:"age"`
}

type LoanDetailResponse struct {
	LoanID             int64               `json:"loan_id"`
	Customer           LoanCustomerSummary `json:"customer"`
	LoanAmount         string              `json:"loan_amount"`
	InterestRate       string              `json:"interest_rate"`
	MonthlyInstallment string              `json:"monthly_installment"`
	Tenure             int                 `json:"tenure"`
}

// NewLoanDetailResponse maps a loan with its customer. The customer may be
// missing when the loan row outlived its owner; the summary is then left at
// its zero value rather than failing the whole lookup.
func NewLoanDetailResponse(detail *loan.LoanDetail) LoanDetailResponse {
	resp := LoanDetailResponse{
		LoanID:             detail.Loan.LoanID,
		LoanAmount:         detail.Loan.LoanAmount.StringFixed(2),
		InterestRate:       detail.Loan.InterestRate.StringFixed(2),
		MonthlyInstallment: detail.Loan.MonthlyRepayment.StringFixed(2),
		Tenure:             detail.Loan.Tenure,
	}
	if detail.Customer != nil {
		resp.Customer = LoanCustomerSummary{
			CustomerID:  detail.Customer.CustomerID,
			FirstName:   detail.Customer.FirstName,
			LastName:    detail.Customer.LastName,
			PhoneNumber: detail.Customer.PhoneNumber,
			Age:         detail.Customer.Age,
		}
	}
	return resp
}

type CustomerLoanResponse struct {
	LoanID             int64  `json:"loan_id"`
	LoanAmount         string `json:"loan_amount"`
	InterestRate       string `json:"interest_rate"`
	MonthlyInstallment string `json:"monthly_installment"`
	RepaymentsLeft     int    `json:"repayments_left"`
}

func NewCustomerLoanResponses(loans []loan.CustomerLoan) []CustomerLoanResponse {
	out := make([]CustomerLoanResponse, 0, len(loans))
	for _, cl := range loans {
		out = append(out, CustomerLoanResponse{
			LoanID:             cl.Loan.LoanID,
			LoanAmount:         cl.Loan.LoanAmount.StringFixed(2),
			InterestRate:       cl.Loan.InterestRate.StringFixed(2),
			MonthlyInstallment: cl.Loan.MonthlyRepayment.StringFixed(2),
			RepaymentsLeft:     cl.RepaymentsLeft,
		})
	}
	return out
}
