package customer_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/nisarahamed1507/credit-approval-backend-system/internal/domain/customer"
	"github.com/nisarahamed1507/credit-approval-backend-system/internal/pkg/apperrors"
)

type MockCustomerRepository struct {
	mock.Mock
}

func (_m *MockCustomerRepository) Create(ctx context.Context, cust *customer.Customer) error {
	ret := _m.Called(ctx, cust)
	return ret.Error(0)
}

func (_m *MockCustomerRepository) FindByID(ctx context.Context, customerID int64) (*customer.Customer, error) {
	ret := _m.Called(ctx, customerID)

	var r0 *customer.Customer
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*customer.Customer)
	}
	return r0, ret.Error(1)
}

func (_m *MockCustomerRepository) Upsert(ctx context.Context, cust *customer.Customer) (bool, error) {
	ret := _m.Called(ctx, cust)
	return ret.Bool(0), ret.Error(1)
}

func (_m *MockCustomerRepository) RefreshCurrentDebt(ctx context.Context) (int64, error) {
	ret := _m.Called(ctx)
	return ret.Get(0).(int64), ret.Error(1)
}

func newTestService(repo customer.CustomerRepository) customer.CustomerService {
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	return customer.NewCustomerService(repo, nil, logger)
}

func TestRegisterCustomer(t *testing.T) {
	ctx := context.Background()

	t.Run("success assigns id and approved limit", func(t *testing.T) {
		mockRepo := new(MockCustomerRepository)
		svc := newTestService(mockRepo)

		mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*customer.Customer")).
			Run(func(args mock.Arguments) {
				args.Get(1).(*customer.Customer).CustomerID = 42
			}).
			Return(nil)

		cust, err := svc.RegisterCustomer(ctx, "Asha", "Rao", 30, 9876543210, decimal.NewFromInt(50000))

		assert.NoError(t, err)
		assert.Equal(t, int64(42), cust.CustomerID)
		assert.True(t, decimal.NewFromInt(1800000).Equal(cust.ApprovedLimit))
		assert.True(t, cust.CurrentDebt.IsZero())
		mockRepo.AssertExpectations(t)
	})

	t.Run("trims whitespace from names", func(t *testing.T) {
		mockRepo := new(MockCustomerRepository)
		svc := newTestService(mockRepo)

		mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*customer.Customer")).Return(nil)

		cust, err := svc.RegisterCustomer(ctx, "  Asha ", " Rao  ", 30, 9876543210, decimal.NewFromInt(50000))

		assert.NoError(t, err)
		assert.Equal(t, "Asha", cust.FirstName)
		assert.Equal(t, "Rao", cust.LastName)
	})

	t.Run("validation failures", func(t *testing.T) {
		tests := []struct {
			name      string
			firstName string
			lastName  string
			age       int
			phone     int64
			income    decimal.Decimal
		}{
			{"empty first name", "", "Rao", 30, 9876543210, decimal.NewFromInt(50000)},
			{"empty last name", "Asha", "  ", 30, 9876543210, decimal.NewFromInt(50000)},
			{"underage", "Asha", "Rao", 17, 9876543210, decimal.NewFromInt(50000)},
			{"zero phone", "Asha", "Rao", 30, 0, decimal.NewFromInt(50000)},
			{"negative income", "Asha", "Rao", 30, 9876543210, decimal.NewFromInt(-1)},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				mockRepo := new(MockCustomerRepository)
				svc := newTestService(mockRepo)

				cust, err := svc.RegisterCustomer(ctx, tt.firstName, tt.lastName, tt.age, tt.phone, tt.income)

				assert.Nil(t, cust)
				var validationErr *apperrors.ValidationError
				assert.ErrorAs(t, err, &validationErr)
				mockRepo.AssertNotCalled(t, "Create")
			})
		}
	})

	t.Run("duplicate phone number", func(t *testing.T) {
		mockRepo := new(MockCustomerRepository)
		svc := newTestService(mockRepo)

		mockRepo.On("Create", mock.Anything, mock.Anything).Return(customer.ErrDuplicatePhoneNumber)

		cust, err := svc.RegisterCustomer(ctx, "Asha", "Rao", 30, 9876543210, decimal.NewFromInt(50000))

		assert.Nil(t, cust)
		assert.ErrorIs(t, err, customer.ErrDuplicatePhoneNumber)
	})

	t.Run("repository failure is wrapped", func(t *testing.T) {
		mockRepo := new(MockCustomerRepository)
		svc := newTestService(mockRepo)

		dbErr := errors.New("connection reset")
		mockRepo.On("Create", mock.Anything, mock.Anything).Return(dbErr)

		cust, err := svc.RegisterCustomer(ctx, "Asha", "Rao", 30, 9876543210, decimal.NewFromInt(50000))

		assert.Nil(t, cust)
		assert.ErrorIs(t, err, dbErr)
	})
}

func TestGetCustomer(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		mockRepo := new(MockCustomerRepository)
		svc := newTestService(mockRepo)

		want := &customer.Customer{CustomerID: 7, FirstName: "Asha", LastName: "Rao"}
		mockRepo.On("FindByID", mock.Anything, int64(7)).Return(want, nil)

		got, err := svc.GetCustomer(ctx, 7)

		assert.NoError(t, err)
		assert.Equal(t, want, got)
		mockRepo.AssertExpectations(t)
	})

	t.Run("not found", func(t *testing.T) {
		mockRepo := new(MockCustomerRepository)
		svc := newTestService(mockRepo)

		mockRepo.On("FindByID", mock.Anything, int64(404)).Return(nil, customer.ErrNotFound)

		got, err := svc.GetCustomer(ctx, 404)

		assert.Nil(t, got)
		assert.ErrorIs(t, err, customer.ErrNotFound)
	})
}
