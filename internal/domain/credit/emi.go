// Package credit implements the credit-approval decision engine: EMI
// computation, credit scoring from loan history, and the eligibility policy.
// Everything in this package is a pure function over an in-memory snapshot of
// one customer and their loans; callers materialize the data and pass the
// reference date explicitly.
package credit

import (
	"github.com/shopspring/decimal"
)

var (
	one = decimal.NewFromInt(1)

	// monthlyRateDivisor converts an annual percentage rate to a monthly
	// fractional rate: r = annual / 12 / 100.
	monthlyRateDivisor = decimal.NewFromInt(1200)
)

// MonthlyInstallment computes the EMI for a loan using the compound interest
// formula:
//
//	EMI = P * r * (1+r)^n / ((1+r)^n - 1)
//
// where r is the monthly rate and n the tenure in months. A non-positive
// tenure yields zero. A zero rate degenerates to principal/tenure. The result
// is rounded half-up to 2 decimal places on the compound branch.
func MonthlyInstallment(principal, annualRatePct decimal.Decimal, tenureMonths int) decimal.Decimal {
	if tenureMonths <= 0 {
		return decimal.Zero
	}

	n := decimal.NewFromInt(int64(tenureMonths))
	r := annualRatePct.Div(monthlyRateDivisor)
	if r.IsZero() {
		return principal.Div(n)
	}

	compound := one.Add(r).Pow(n)
	return principal.Mul(r).Mul(compound).Div(compound.Sub(one)).Round(2)
}
