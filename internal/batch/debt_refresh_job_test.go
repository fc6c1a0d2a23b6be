package batch_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/nisarahamed1507/credit-approval-backend-system/internal/batch"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

type MockDebtRefresher struct {
	mock.Mock
}

func (_m *MockDebtRefresher) RefreshCurrentDebt(ctx context.Context) (int64, error) {
	ret := _m.Called(ctx)
	return ret.Get(0).(int64), ret.Error(1)
}

func TestRefreshDebtJobRun(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		refresher := new(MockDebtRefresher)
		refresher.On("RefreshCurrentDebt", ctx).Return(int64(42), nil).Once()

		job := batch.NewRefreshDebtJob(refresher, testLogger)
		err := job.Run(ctx)

		assert.NoError(t, err)
		refresher.AssertExpectations(t)
	})

	t.Run("refresh failure aborts the job", func(t *testing.T) {
		refreshErr := errors.New("deadlock detected")
		refresher := new(MockDebtRefresher)
		refresher.On("RefreshCurrentDebt", ctx).Return(int64(0), refreshErr).Once()

		job := batch.NewRefreshDebtJob(refresher, testLogger)
		err := job.Run(ctx)

		assert.ErrorIs(t, err, refreshErr)
		refresher.AssertExpectations(t)
	})
}

func TestNewRefreshDebtJobPanicsOnNilDependencies(t *testing.T) {
	assert.Panics(t, func() { batch.NewRefreshDebtJob(nil, testLogger) })
	assert.Panics(t, func() { batch.NewRefreshDebtJob(new(MockDebtRefresher), nil) })
}
