package credit

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/nisarahamed1507/credit-approval-backend-system/internal/domain/customer"
)

// Rejection messages surfaced in Decision.Message. Approval paths leave the
// message empty.
const (
	MsgCustomerNotFound  = "Customer not found"
	MsgEMIExceedsSalary  = "Total EMI exceeds 50% of monthly salary"
	MsgCreditScoreTooLow = "Credit score too low for loan approval"
)

// Score thresholds separating the approval bands, and the minimum interest
// rates imposed on the lower ones.
const (
	scoreNoCorrection = 50
	scoreFloorTwelve  = 30
	scoreFloorSixteen = 10
)

var (
	rateFloorTwelve  = decimal.RequireFromString("12.00")
	rateFloorSixteen = decimal.RequireFromString("16.00")

	halfSalary = decimal.RequireFromString("0.5")
)

// EligibilityRequest is the requested loan the decision is made for.
type EligibilityRequest struct {
	LoanAmount   decimal.Decimal
	InterestRate decimal.Decimal
	Tenure       int
}

// Decision is the full outcome of an eligibility check. A rejected loan is a
// normal decision, not an error: Approved is false and Message explains why.
// CorrectedInterestRate equals InterestRate when no floor was imposed.
type Decision struct {
	Approved              bool
	InterestRate          decimal.Decimal
	CorrectedInterestRate decimal.Decimal
	MonthlyInstallment    decimal.Decimal
	Message               string
	CreditScore           int
}

// Decide runs the approval policy for a customer snapshot and their loan
// history. A nil customer represents a failed lookup and yields a terminal
// "Customer not found" rejection.
//
// Rules, in order: the combined EMI of active loans plus the new installment
// must not exceed half the monthly salary (terminal, overrides the score);
// then the credit score selects the band: above 50 approved as requested,
// above 30 approved with a 12% rate floor, above 10 approved with a 16% rate
// floor, otherwise rejected. When a floor raises the rate the installment is
// recomputed at the corrected rate.
func Decide(cust *customer.Customer, history []LoanRecord, req EligibilityRequest, asOf time.Time) Decision {
	if cust == nil {
		return Decision{
			Approved:              false,
			InterestRate:          req.InterestRate,
			CorrectedInterestRate: req.InterestRate,
			MonthlyInstallment:    decimal.Zero,
			Message:               MsgCustomerNotFound,
		}
	}

	score := Score(cust, history, asOf)
	installment := MonthlyInstallment(req.LoanAmount, req.InterestRate, req.Tenure)

	currentEMI := SumActiveRepayments(history, asOf)
	maxAllowedEMI := cust.MonthlySalary.Mul(halfSalary)
	if currentEMI.Add(installment).GreaterThan(maxAllowedEMI) {
		return Decision{
			Approved:              false,
			InterestRate:          req.InterestRate,
			CorrectedInterestRate: req.InterestRate,
			MonthlyInstallment:    installment,
			Message:               MsgEMIExceedsSalary,
			CreditScore:           score,
		}
	}

	approved := true
	corrected := req.InterestRate
	message := ""

	switch {
	case score > scoreNoCorrection:
		// approved at the requested rate
	case score > scoreFloorTwelve:
		if corrected.LessThan(rateFloorTwelve) {
			corrected = rateFloorTwelve
		}
	case score > scoreFloorSixteen:
		if corrected.LessThan(rateFloorSixteen) {
			corrected = rateFloorSixteen
		}
	default:
		approved = false
		message = MsgCreditScoreTooLow
	}

	if !corrected.Equal(req.InterestRate) {
		installment = MonthlyInstallment(req.LoanAmount, corrected, req.Tenure)
	}

	return Decision{
		Approved:              approved,
		InterestRate:          req.InterestRate,
		CorrectedInterestRate: corrected,
		MonthlyInstallment:    installment,
		Message:               message,
		CreditScore:           score,
	}
}
