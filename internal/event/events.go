package event

import (
	"time"

	"github.com/shopspring/decimal"
)

type CustomerEventPayload struct {
	CustomerID    int64           `json:"customerId"`
	Name          string          `json:"name"`
	Age           int             `json:"age"`
	PhoneNumber   int64           `json:"phoneNumber"`
	MonthlySalary decimal.Decimal `json:"monthlySalary"`
	ApprovedLimit decimal.Decimal `json:"approvedLimit"`
}

type CustomerRegisteredEvent struct {
	Timestamp time.Time            `json:"timestamp"`
	Payload   CustomerEventPayload `json:"payload"`
}

type LoanEventPayload struct {
	LoanID             int64           `json:"loanId"`
	CustomerID         int64           `json:"customerId"`
	LoanAmount         decimal.Decimal `json:"loanAmount"`
	Tenure             int             `json:"tenure"`
	InterestRate       decimal.Decimal `json:"interestRate"`
	MonthlyInstallment decimal.Decimal `json:"monthlyInstallment"`
	CreditScore        int             `json:"creditScore"`
	StartDate          time.Time       `json:"startDate"`
	EndDate            time.Time       `json:"endDate"`
}

type LoanCreatedEvent struct {
	Timestamp time.Time        `json:"timestamp"`
	Payload   LoanEventPayload `json:"payload"`
}
