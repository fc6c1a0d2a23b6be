package credit

import (
	"time"

	"github.com/shopspring/decimal"
)

// LoanRecord is one historical loan as the engine sees it: just the figures
// and dates scoring needs, decoupled from how loans are stored. Callers map
// their persistence entities into records before calling Score or Decide.
type LoanRecord struct {
	Amount           decimal.Decimal
	Tenure           int
	MonthlyRepayment decimal.Decimal
	EmisPaidOnTime   int
	StartDate        time.Time
	EndDate          time.Time
}

// IsActive reports whether the loan is still running as of the given date:
// end_date >= asOf, compared at day precision.
func (r LoanRecord) IsActive(asOf time.Time) bool {
	return !truncateToDay(r.EndDate).Before(truncateToDay(asOf))
}

// StartedOrEndedInYear reports whether the loan's start or end date falls in
// the given calendar year.
func (r LoanRecord) StartedOrEndedInYear(year int) bool {
	return r.StartDate.Year() == year || r.EndDate.Year() == year
}

// SumActiveAmounts totals Amount over the records active as of the given date.
func SumActiveAmounts(history []LoanRecord, asOf time.Time) decimal.Decimal {
	total := decimal.Zero
	for _, r := range history {
		if r.IsActive(asOf) {
			total = total.Add(r.Amount)
		}
	}
	return total
}

// SumActiveRepayments totals MonthlyRepayment over the records active as of
// the given date.
func SumActiveRepayments(history []LoanRecord, asOf time.Time) decimal.Decimal {
	total := decimal.Zero
	for _, r := range history {
		if r.IsActive(asOf) {
			total = total.Add(r.MonthlyRepayment)
		}
	}
	return total
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
