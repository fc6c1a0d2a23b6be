package credit

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/nisarahamed1507/credit-approval-backend-system/internal/domain/customer"
)

const (
	// DefaultScore is returned for customers with no loan history.
	DefaultScore = 50

	MinScore = 0
	MaxScore = 100

	onTimeMaxPoints = 40
)

// countBand awards points when the observed count is <= upTo. Bands must be
// sorted ascending; counts beyond the last band get the table's floor.
type countBand struct {
	upTo   int
	points int
}

// loanCountBands scores the total number of loans ever taken: fewer is better.
// The zero-count row is unreachable behind the empty-history default but kept
// so the table reads as the complete policy.
var loanCountBands = []countBand{
	{upTo: 0, points: 20},
	{upTo: 1, points: 18},
	{upTo: 2, points: 15},
	{upTo: 3, points: 12},
	{upTo: 5, points: 8},
}

const loanCountFloor = 5

// recentActivityBands scores loans touching the current calendar year: less
// recent activity is better.
var recentActivityBands = []countBand{
	{upTo: 0, points: 20},
	{upTo: 1, points: 15},
	{upTo: 2, points: 10},
}

const recentActivityFloor = 5

// ratioBand awards points when utilization <= upTo of the approved limit.
type ratioBand struct {
	upTo   decimal.Decimal
	points int
}

var utilizationBands = []ratioBand{
	{upTo: decimal.NewFromFloat(0.30), points: 20},
	{upTo: decimal.NewFromFloat(0.50), points: 15},
	{upTo: decimal.NewFromFloat(0.70), points: 10},
}

const utilizationFloor = 5

// Score computes the 0-100 credit score for a customer from their full loan
// history as of the given date.
//
// Customers without history get DefaultScore. When the amount outstanding on
// active loans exceeds the approved limit the score is 0 regardless of any
// other component. Otherwise four components accumulate: on-time repayment
// ratio (up to 40 points), loan-count penalty, current-year activity, and
// limit utilization (up to 20 points each), clamped to [0,100].
func Score(cust *customer.Customer, history []LoanRecord, asOf time.Time) int {
	if len(history) == 0 {
		return DefaultScore
	}

	activeAmount := SumActiveAmounts(history, asOf)
	if activeAmount.GreaterThan(cust.ApprovedLimit) {
		return MinScore
	}

	score := onTimePoints(history)
	score += pointsForCount(loanCountBands, loanCountFloor, len(history))
	score += pointsForCount(recentActivityBands, recentActivityFloor, countRecentLoans(history, asOf.Year()))
	score += utilizationPoints(activeAmount, cust.ApprovedLimit)

	return clampScore(score)
}

// onTimePoints awards floor(40 * emis_paid_on_time / total_emis) across the
// whole history, or nothing when no EMIs were ever due.
func onTimePoints(history []LoanRecord) int {
	var totalEMIs, paidOnTime int64
	for _, r := range history {
		totalEMIs += int64(r.Tenure)
		paidOnTime += int64(r.EmisPaidOnTime)
	}
	if totalEMIs <= 0 {
		return 0
	}
	return int(int64(onTimeMaxPoints) * paidOnTime / totalEMIs)
}

func countRecentLoans(history []LoanRecord, year int) int {
	count := 0
	for _, r := range history {
		if r.StartedOrEndedInYear(year) {
			count++
		}
	}
	return count
}

// utilizationPoints compares the active loan amount against fractions of the
// approved limit. The comparisons multiply through by the limit so no division
// precision is involved. A zero limit contributes nothing.
func utilizationPoints(activeAmount, approvedLimit decimal.Decimal) int {
	if !approvedLimit.IsPositive() {
		return 0
	}
	for _, b := range utilizationBands {
		if activeAmount.LessThanOrEqual(approvedLimit.Mul(b.upTo)) {
			return b.points
		}
	}
	return utilizationFloor
}

func pointsForCount(bands []countBand, floor, count int) int {
	for _, b := range bands {
		if count <= b.upTo {
			return b.points
		}
	}
	return floor
}

func clampScore(score int) int {
	if score < MinScore {
		return MinScore
	}
	if score > MaxScore {
		return MaxScore
	}
	return score
}
