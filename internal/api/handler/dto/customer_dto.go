package dto

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/nisarahamed1507/credit-approval-backend-system/internal/domain/customer"
)

type RegisterCustomerRequest struct {
	FirstName     string          `json:"first_name"`
	LastName      string          `json:"last_name"`
	Age           int             `json:"age"`
	PhoneNumber   int64           `json:"phone_number"`
	MonthlyIncome decimal.Decimal `json:"monthly_income"`
}

func (r *RegisterCustomerRequest) Validate() error {
	if strings.TrimSpace(r.FirstName) == "" {
		return fmt.Errorf("first_name cannot be empty")
	}
	if strings.TrimSpace(r.LastName) == "" {
		return fmt.Errorf("last_name cannot be empty")
	}
	if r.Age < customer.MinimumAge {
		return fmt.Errorf("age must be at least %d", customer.MinimumAge)
	}
	if r.PhoneNumber <= 0 {
		return fmt.Errorf("phone_number must be a positive number")
	}
	if r.MonthlyIncome.IsNegative() {
		return fmt.Errorf("monthly_income cannot be negative")
	}
	return nil
}

type CustomerResponse struct {
	CustomerID    int64  `json:"customer_id"`
	Name          string `json:"name"`
	Age           int    `json:"age"`
	MonthlyIncome string `json:"monthly_income"`
	ApprovedLimit string `json:"approved_limit"`
	PhoneNumber   int64  `json:"phone_number"`
}

func NewCustomerResponse(cust *customer.Customer) CustomerResponse {
	if cust == nil {
		return CustomerResponse{}
	}

	return CustomerResponse{
		CustomerID:    cust.CustomerID,
		Name:          cust.FullName(),
		Age:           cust.Age,
		MonthlyIncome: cust.MonthlySalary.StringFixed(2),
		ApprovedLimit: cust.ApprovedLimit.StringFixed(2),
		PhoneNumber:   cust.PhoneNumber,
	}
}

type ErrorDetail struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type TokenRequest struct {
	Username string `json:"username"`
}
