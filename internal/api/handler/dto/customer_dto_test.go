package dto_test

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/nisarahamed1507/credit-approval-backend-system/internal/api/handler/dto"
	"github.com/nisarahamed1507/credit-approval-backend-system/internal/domain/customer"
)

func validRegisterRequest() dto.RegisterCustomerRequest {
	return dto.RegisterCustomerRequest{
		FirstName:     "Asha",
		LastName:      "Rao",
		Age:           30,
		PhoneNumber:   9876543210,
		MonthlyIncome: decimal.NewFromInt(50000),
	}
}

func TestRegisterCustomerRequestValidate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		req := validRegisterRequest()
		assert.NoError(t, req.Validate())
	})

	t.Run("invalid", func(t *testing.T) {
		tests := []struct {
			name   string
			mutate func(*dto.RegisterCustomerRequest)
		}{
			{"empty first name", func(r *dto.RegisterCustomerRequest) { r.FirstName = "  " }},
			{"empty last name", func(r *dto.RegisterCustomerRequest) { r.LastName = "" }},
			{"underage", func(r *dto.RegisterCustomerRequest) { r.Age = 17 }},
			{"zero phone", func(r *dto.RegisterCustomerRequest) { r.PhoneNumber = 0 }},
			{"negative income", func(r *dto.RegisterCustomerRequest) { r.MonthlyIncome = decimal.NewFromInt(-1) }},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				req := validRegisterRequest()
				tt.mutate(&req)
				assert.Error(t, req.Validate())
			})
		}
	})
}

func TestRegisterCustomerRequestAcceptsNumericAndStringIncome(t *testing.T) {
	var req dto.RegisterCustomerRequest
	err := json.Unmarshal([]byte(`{"first_name":"A","last_name":"B","age":30,"phone_number":1,"monthly_income":50000}`), &req)
	assert.NoError(t, err)
	assert.True(t, decimal.NewFromInt(50000).Equal(req.MonthlyIncome))

	err = json.Unmarshal([]byte(`{"monthly_income":"50000.50"}`), &req)
	assert.NoError(t, err)
	assert.True(t, decimal.RequireFromString("50000.50").Equal(req.MonthlyIncome))
}

func TestNewCustomerResponse(t *testing.T) {
	cust := &customer.Customer{
		CustomerID:    7,
		FirstName:     "Asha",
		LastName:      "Rao",
		Age:           30,
		PhoneNumber:   9876543210,
		MonthlySalary: decimal.NewFromInt(50000),
		ApprovedLimit: decimal.NewFromInt(1800000),
	}

	resp := dto.NewCustomerResponse(cust)

	assert.Equal(t, int64(7), resp.CustomerID)
	assert.Equal(t, "Asha Rao", resp.Name)
	assert.Equal(t, "50000.00", resp.MonthlyIncome)
	assert.Equal(t, "1800000.00", resp.ApprovedLimit)
	assert.Equal(t, int64(9876543210), resp.PhoneNumber)
}

func TestNewCustomerResponseNil(t *testing.T) {
	resp := dto.NewCustomerResponse(nil)
	assert.Equal(t, dto.CustomerResponse{}, resp)
}
