package credit_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/nisarahamed1507/credit-approval-backend-system/internal/domain/credit"
)

func request(amount, rate string, tenure int) credit.EligibilityRequest {
	return credit.EligibilityRequest{
		LoanAmount:   d(amount),
		InterestRate: d(rate),
		Tenure:       tenure,
	}
}

func TestDecideCustomerNotFound(t *testing.T) {
	req := request("100000", "10", 12)
	got := credit.Decide(nil, nil, req, asOf)

	assert.False(t, got.Approved)
	assert.Equal(t, credit.MsgCustomerNotFound, got.Message)
	assert.True(t, got.MonthlyInstallment.IsZero())
	assert.True(t, got.InterestRate.Equal(d("10")))
	assert.True(t, got.CorrectedInterestRate.Equal(d("10")))
}

func TestDecideEMICapOverridesScore(t *testing.T) {
	cust := testCustomer("1000000")
	cust.MonthlySalary = d("50000")

	// Spotless history keeps the score high; the cap must still reject.
	history := []credit.LoanRecord{paidOffLoan("20000", 12, 12)}
	current := runningLoan("50000", 24, 12)
	current.MonthlyRepayment = d("24000")
	history = append(history, current)

	req := request("100000", "12", 12)
	got := credit.Decide(cust, history, req, asOf)

	assert.False(t, got.Approved)
	assert.Equal(t, credit.MsgEMIExceedsSalary, got.Message)
	assert.Greater(t, got.CreditScore, 50, "rejection must not be about the score")
	assert.True(t, got.CorrectedInterestRate.Equal(req.InterestRate))
	assert.True(t, got.MonthlyInstallment.Equal(d("8884.88")))
}

func TestDecideEMIExactlyAtCapIsAllowed(t *testing.T) {
	cust := testCustomer("1000000")
	cust.MonthlySalary = d("20000")

	// installment is exactly half the salary: 120000 at 0% over 12 months
	req := request("120000", "0", 12)
	got := credit.Decide(cust, nil, req, asOf)

	assert.True(t, got.Approved)
	assert.Empty(t, got.Message)
}

func TestDecideHighScoreApprovedAsRequested(t *testing.T) {
	cust := testCustomer("1000000")
	cust.MonthlySalary = d("100000")
	history := []credit.LoanRecord{paidOffLoan("20000", 12, 12)}

	req := request("100000", "8", 12)
	got := credit.Decide(cust, history, req, asOf)

	assert.True(t, got.Approved)
	assert.Empty(t, got.Message)
	assert.Equal(t, 98, got.CreditScore)
	assert.True(t, got.CorrectedInterestRate.Equal(d("8")), "no correction above the top threshold")
	assert.True(t, got.MonthlyInstallment.Equal(credit.MonthlyInstallment(d("100000"), d("8"), 12)))
}

func TestDecideMiddleBandImposesTwelvePercentFloor(t *testing.T) {
	cust := testCustomer("1000000")
	cust.MonthlySalary = d("100000")

	// no history pins the score at the default of 50
	req := request("100000", "8", 12)
	got := credit.Decide(cust, nil, req, asOf)

	assert.True(t, got.Approved)
	assert.Equal(t, credit.DefaultScore, got.CreditScore)
	assert.True(t, got.InterestRate.Equal(d("8")), "requested rate is echoed back")
	assert.True(t, got.CorrectedInterestRate.Equal(d("12.00")))
	assert.True(t, got.MonthlyInstallment.Equal(credit.MonthlyInstallment(d("100000"), d("12.00"), 12)),
		"installment must be recomputed at the corrected rate")
}

func TestDecideMiddleBandKeepsRateAboveFloor(t *testing.T) {
	cust := testCustomer("1000000")
	cust.MonthlySalary = d("100000")

	req := request("100000", "14", 12)
	got := credit.Decide(cust, nil, req, asOf)

	assert.True(t, got.Approved)
	assert.True(t, got.CorrectedInterestRate.Equal(d("14")))
	assert.True(t, got.MonthlyInstallment.Equal(credit.MonthlyInstallment(d("100000"), d("14"), 12)))
}

// lowScoreHistory builds a history scoring 15: zero on-time EMIs, six loans,
// all touching the current year, with high utilization of the limit.
func lowScoreHistory() []credit.LoanRecord {
	loans := make([]credit.LoanRecord, 0, 6)
	for i := 0; i < 5; i++ {
		loans = append(loans, credit.LoanRecord{
			Amount:    d("1000"),
			Tenure:    12,
			StartDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			EndDate:   time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
		})
	}
	loans = append(loans, credit.LoanRecord{
		Amount:    d("90000"),
		Tenure:    24,
		StartDate: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC),
	})
	return loans
}

func TestDecideLowBandImposesSixteenPercentFloor(t *testing.T) {
	cust := testCustomer("100000")
	cust.MonthlySalary = d("1000000")

	history := lowScoreHistory()
	req := request("50000", "10", 12)
	got := credit.Decide(cust, history, req, asOf)

	assert.True(t, got.Approved)
	assert.Equal(t, 15, got.CreditScore)
	assert.True(t, got.CorrectedInterestRate.Equal(d("16.00")))
	assert.True(t, got.MonthlyInstallment.Equal(credit.MonthlyInstallment(d("50000"), d("16.00"), 12)))
}

func TestDecideScoreTooLowRejected(t *testing.T) {
	cust := testCustomer("100000")
	cust.MonthlySalary = d("1000000")

	// active debt beyond the approved limit forces the score to zero
	history := []credit.LoanRecord{runningLoan("150000", 24, 24)}
	req := request("50000", "10", 12)
	got := credit.Decide(cust, history, req, asOf)

	assert.False(t, got.Approved)
	assert.Equal(t, credit.MsgCreditScoreTooLow, got.Message)
	assert.Equal(t, credit.MinScore, got.CreditScore)
	assert.True(t, got.CorrectedInterestRate.Equal(d("10")), "no correction on a score rejection")
}

func TestDecideIsDeterministic(t *testing.T) {
	cust := testCustomer("1000000")
	cust.MonthlySalary = d("100000")
	history := []credit.LoanRecord{paidOffLoan("20000", 12, 12), runningLoan("40000", 24, 12)}
	req := request("100000", "11", 18)

	first := credit.Decide(cust, history, req, asOf)
	second := credit.Decide(cust, history, req, asOf)
	assert.Equal(t, first, second)
}

func TestDecideApprovalMessageIsEmpty(t *testing.T) {
	cust := testCustomer("1000000")
	cust.MonthlySalary = d("100000")

	got := credit.Decide(cust, nil, request("10000", "15", 12), asOf)
	assert.True(t, got.Approved)
	assert.Equal(t, "", got.Message)
}
