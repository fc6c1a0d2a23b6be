package customer

import (
	"time"

	"github.com/shopspring/decimal"
)

const MinimumAge = 18

// approvedLimitMultiple and lakh implement the registration rule:
// approved_limit = 36 * monthly_salary, rounded to the nearest lakh.
var (
	approvedLimitMultiple = decimal.NewFromInt(36)
	lakh                  = decimal.NewFromInt(100_000)
)

type Customer struct {
	CustomerID    int64           `json:"customerId"`
	FirstName     string          `json:"firstName"`
	LastName      string          `json:"lastName"`
	Age           int             `json:"age"`
	PhoneNumber   int64           `json:"phoneNumber"`
	MonthlySalary decimal.Decimal `json:"monthlySalary"`
	ApprovedLimit decimal.Decimal `json:"approvedLimit"`
	CurrentDebt   decimal.Decimal `json:"currentDebt"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

func NewCustomer(firstName, lastName string, age int, phoneNumber int64, monthlySalary decimal.Decimal) *Customer {
	now := time.Now()
	return &Customer{
		FirstName:     firstName,
		LastName:      lastName,
		Age:           age,
		PhoneNumber:   phoneNumber,
		MonthlySalary: monthlySalary,
		ApprovedLimit: ApprovedLimitFor(monthlySalary),
		CurrentDebt:   decimal.Zero,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func (c *Customer) FullName() string {
	return c.FirstName + " " + c.LastName
}

// ApprovedLimitFor derives the maximum aggregate loan exposure permitted for a
// customer from their monthly salary. The lakh rounding is half-to-even, so an
// exact half-lakh product goes to the even multiple.
func ApprovedLimitFor(monthlySalary decimal.Decimal) decimal.Decimal {
	return monthlySalary.Mul(approvedLimitMultiple).Div(lakh).RoundBank(0).Mul(lakh)
}
