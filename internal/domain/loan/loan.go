package loan

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/nisarahamed1507/credit-approval-backend-system/internal/domain/credit"
)

// Loan is a single loan record as stored for a customer. Amounts are decimals;
// dates carry day precision only.
type Loan struct {
	LoanID           int64           `json:"loanId"`
	CustomerID       int64           `json:"customerId"`
	LoanAmount       decimal.Decimal `json:"loanAmount"`
	Tenure           int             `json:"tenure"`
	InterestRate     decimal.Decimal `json:"interestRate"`
	MonthlyRepayment decimal.Decimal `json:"monthlyRepayment"`
	EmisPaidOnTime   int             `json:"emisPaidOnTime"`
	StartDate        time.Time       `json:"startDate"`
	EndDate          time.Time       `json:"endDate"`
	CreatedAt        time.Time       `json:"createdAt"`
	UpdatedAt        time.Time       `json:"updatedAt"`
}

// CreditRecord maps the loan into the snapshot shape the decision engine
// scores on.
func (l Loan) CreditRecord() credit.LoanRecord {
	return credit.LoanRecord{
		Amount:           l.LoanAmount,
		Tenure:           l.Tenure,
		MonthlyRepayment: l.MonthlyRepayment,
		EmisPaidOnTime:   l.EmisPaidOnTime,
		StartDate:        l.StartDate,
		EndDate:          l.EndDate,
	}
}

// CreditRecords maps a loan history for the decision engine, preserving order.
func CreditRecords(loans []Loan) []credit.LoanRecord {
	records := make([]credit.LoanRecord, 0, len(loans))
	for _, l := range loans {
		records = append(records, l.CreditRecord())
	}
	return records
}

// IsActive reports whether the loan is still running as of the given date:
// end_date >= asOf, compared at day precision.
func (l Loan) IsActive(asOf time.Time) bool {
	return l.CreditRecord().IsActive(asOf)
}

// RepaymentsLeft returns the number of whole months between asOf and the end
// date, or 0 when the loan is no longer active.
func (l Loan) RepaymentsLeft(asOf time.Time) int {
	if !l.IsActive(asOf) {
		return 0
	}
	end := l.EndDate
	monthsLeft := (end.Year()-asOf.Year())*12 + int(end.Month()) - int(asOf.Month())
	if monthsLeft < 0 {
		return 0
	}
	return monthsLeft
}
