package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/nisarahamed1507/credit-approval-backend-system/internal/api/handler/dto"
	"github.com/nisarahamed1507/credit-approval-backend-system/internal/domain/loan"
	"github.com/nisarahamed1507/credit-approval-backend-system/internal/pkg/apperrors"
)

type LoanHandler struct {
	service loan.LoanService
	logger  *slog.Logger
}

func NewLoanHandler(s loan.LoanService, l *slog.Logger) *LoanHandler {
	if s == nil {
		panic("loan service cannot be nil")
	}
	if l == nil {
		panic("logger cannot be nil")
	}
	return &LoanHandler{
		service: s,
		logger:  l.With("component", "LoanHandler"),
	}
}

func getLoanIDFromURL(r *http.Request) (int64, error) {
	idStr := chi.URLParam(r, "loanID")
	if idStr == "" {
		return 0, fmt.Errorf("%w: loanID not found in URL path", apperrors.ErrInvalidArgument)
	}
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid loanID format in URL path: %s", apperrors.ErrInvalidArgument, idStr)
	}
	return id, nil
}

// CheckEligibility handles POST /loans/check-eligibility
// @Summary Check loan eligibility
// @Description Evaluates a prospective loan against the customer's credit score and repayment capacity without creating a loan.
// @Tags Loans
// @Accept json
// @Produce json
// @Param request body dto.EligibilityRequest true "Eligibility check request payload"
// @Success 200 {object} dto.EligibilityResponse "Eligibility decision"
// @Failure 400 {object} dto.ErrorResponse "Invalid request payload"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /loans/check-eligibility [post]
// @Security BearerAuth
func (h *LoanHandler) CheckEligibility(w http.ResponseWriter, r *http.Request) {

	h.logger.DebugContext(r.Context(), "Received check eligibility request")

	var req dto.EligibilityRequest
	if err := decodeJSON(r, &req); err != nil {
		h.logger.WarnContext(r.Context(), "Failed to decode request body", slog.Any("error", err))
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}
	if err := req.Validate(); err != nil {
		h.logger.WarnContext(r.Context(), "Request validation failed", slog.Any("error", err))
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}

	h.logger.DebugContext(r.Context(), "Calling loan service CheckEligibility")
	decision, err := h.service.CheckEligibility(r.Context(), req.CustomerID, req.LoanAmount, req.InterestRate, req.Tenure)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Service failed to check eligibility", slog.Any("error", err))
		respondError(w, err)
		return
	}

	resp := dto.NewEligibilityResponse(req.CustomerID, req.Tenure, decision)
	h.logger.InfoContext(r.Context(), "Eligibility checked successfully",
		slog.Int64("customerID", req.CustomerID),
		slog.Bool("approval", resp.Approval))
	respondJSON(w, http.StatusOK, resp)
}

// CreateLoan handles POST /loans
// @Summary Create a new loan
// @Description Runs the eligibility check and, when the loan is approved, records it against the customer.
// @Tags Loans
// @Accept json
// @Produce json
// @Param request body dto.CreateLoanRequest true "Loan creation request payload"
// @Success 201 {object} dto.CreateLoanResponse "Loan approved and created"
// @Success 200 {object} dto.CreateLoanResponse "Loan rejected, no loan created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request payload"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /loans [post]
// @Security BearerAuth
func (h *LoanHandler) CreateLoan(w http.ResponseWriter, r *http.Request) {

	h.logger.DebugContext(r.Context(), "Received create loan request")

	var req dto.CreateLoanRequest
	if err := decodeJSON(r, &req); err != nil {
		h.logger.WarnContext(r.Context(), "Failed to decode request body", slog.Any("error", err))
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}
	if err := req.Validate(); err != nil {
		h.logger.WarnContext(r.Context(), "Request validation failed", slog.Any("error", err))
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}

	h.logger.DebugContext(r.Context(), "Calling loan service CreateLoan")
	result, err := h.service.CreateLoan(r.Context(), req.CustomerID, req.LoanAmount, req.InterestRate, req.Tenure)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Service failed to create loan", slog.Any("error", err))
		respondError(w, err)
		return
	}

	resp := dto.NewCreateLoanResponse(req.CustomerID, result)
	status := http.StatusOK
	if result.Decision.Approved {
		status = http.StatusCreated
		h.logger.InfoContext(r.Context(), "Loan created successfully",
			slog.Int64("customerID", req.CustomerID),
			slog.Int64("loanID", result.Loan.LoanID))
	} else {
		h.logger.InfoContext(r.Context(), "Loan request rejected",
			slog.Int64("customerID", req.CustomerID),
			slog.String("reason", result.Decision.Message))
	}
	respondJSON(w, status, resp)
}

// GetLoan handles GET /loans/{loanID}
// @Summary Retrieve loan details
// @Description Retrieves the details of a loan by its ID, including a summary of the borrowing customer.
// @Tags Loans
// @Produce json
// @Param loanID path int true "Loan ID" Minimum(1)
// @Success 200 {object} dto.LoanDetailResponse "Loan details successfully retrieved"
// @Failure 400 {object} dto.ErrorResponse "Invalid loan ID format"
// @Failure 404 {object} dto.ErrorResponse "Loan not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /loans/{loanID} [get]
// @Security BearerAuth
func (h *LoanHandler) GetLoan(w http.ResponseWriter, r *http.Request) {

	loanID, err := getLoanIDFromURL(r)
	if err != nil {
		h.logger.WarnContext(r.Context(), "Failed to get loan ID from URL", slog.Any("error", err))
		respondError(w, err)
		return
	}

	h.logger.DebugContext(r.Context(), "Calling loan service GetLoan")
	detail, err := h.service.GetLoan(r.Context(), loanID)
	if err != nil {
		level := slog.LevelWarn
		if !errors.Is(err, apperrors.ErrNotFound) {
			level = slog.LevelError
		}
		h.logger.Log(r.Context(), level, "Service failed to get loan", slog.Any("error", err))
		respondError(w, err)
		return
	}

	resp := dto.NewLoanDetailResponse(detail)
	h.logger.InfoContext(r.Context(), "Loan retrieved successfully", slog.Int64("loanID", loanID))
	respondJSON(w, http.StatusOK, resp)
}

// ListCustomerLoans handles GET /customers/{customerID}/loans
// @Summary List loans for a customer
// @Description Retrieves all loans recorded against a customer, including how many repayments remain on each.
// @Tags Loans
// @Produce json
// @Param customerID path int true "Customer ID" Minimum(1)
// @Success 200 {array} dto.CustomerLoanResponse "List of the customer's loans"
// @Failure 400 {object} dto.ErrorResponse "Invalid customer ID format"
// @Failure 404 {object} dto.ErrorResponse "Customer not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /customers/{customerID}/loans [get]
// @Security BearerAuth
func (h *LoanHandler) ListCustomerLoans(w http.ResponseWriter, r *http.Request) {

	customerID, err := getCustomerIDFromURL(r)
	if err != nil {
		h.logger.WarnContext(r.Context(), "Failed to get customer ID from URL", slog.Any("error", err))
		respondError(w, err)
		return
	}

	h.logger.DebugContext(r.Context(), "Calling loan service ListCustomerLoans")
	loans, err := h.service.ListCustomerLoans(r.Context(), customerID)
	if err != nil {
		level := slog.LevelWarn
		if !errors.Is(err, apperrors.ErrNotFound) {
			level = slog.LevelError
		}
		h.logger.Log(r.Context(), level, "Service failed to list customer loans", slog.Any("error", err))
		respondError(w, err)
		return
	}

	resp := dto.NewCustomerLoanResponses(loans)
	h.logger.InfoContext(r.Context(), "Customer loans listed successfully",
		slog.Int64("customerID", customerID),
		slog.Int("count", len(resp)))
	respondJSON(w, http.StatusOK, resp)
}
