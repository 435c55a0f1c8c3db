package batch_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"credit-application-system/internal/batch"
	"credit-application-system/internal/domain/credit"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockCreditRepository struct {
	mock.Mock
}

func (m *MockCreditRepository) Save(ctx context.Context, cred *credit.Credit) error {
	args := m.Called(ctx, cred)
	return args.Error(0)
}

func (m *MockCreditRepository) FindAllByCustomerID(ctx context.Context, customerID int64) ([]*credit.Credit, error) {
	args := m.Called(ctx, customerID)
	if credits, ok := args.Get(0).([]*credit.Credit); ok {
		return credits, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCreditRepository) FindByCreditCode(ctx context.Context, creditCode uuid.UUID) (*credit.Credit, error) {
	args := m.Called(ctx, creditCode)
	if cred, ok := args.Get(0).(*credit.Credit); ok {
		return cred, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCreditRepository) CountByStatus(ctx context.Context) (map[credit.CreditStatus]int64, error) {
	args := m.Called(ctx)
	if counts, ok := args.Get(0).(map[credit.CreditStatus]int64); ok {
		return counts, args.Error(1)
	}
	return nil, args.Error(1)
}

func TestStatusReportJobRun(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx := context.Background()

	t.Run("reports counts for every status", func(t *testing.T) {
		mockRepo := new(MockCreditRepository)
		job := batch.NewStatusReportJob(mockRepo, logger)

		mockRepo.On("CountByStatus", ctx).Return(map[credit.CreditStatus]int64{
			credit.StatusInProgress: 5,
			credit.StatusApproved:   2,
		}, nil).Once()

		err := job.Run(ctx)

		assert.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})

	t.Run("empty table still succeeds", func(t *testing.T) {
		mockRepo := new(MockCreditRepository)
		job := batch.NewStatusReportJob(mockRepo, logger)

		mockRepo.On("CountByStatus", ctx).Return(map[credit.CreditStatus]int64{}, nil).Once()

		err := job.Run(ctx)

		assert.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})

	t.Run("repository failure aborts the job", func(t *testing.T) {
		mockRepo := new(MockCreditRepository)
		job := batch.NewStatusReportJob(mockRepo, logger)

		dbError := errors.New("database exploded")
		mockRepo.On("CountByStatus", ctx).Return(nil, dbError).Once()

		err := job.Run(ctx)

		assert.Error(t, err)
		assert.ErrorIs(t, err, dbError)
		mockRepo.AssertExpectations(t)
	})
}

func TestNewStatusReportJobPanicsOnNilDeps(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	assert.Panics(t, func() { batch.NewStatusReportJob(nil, logger) })
	assert.Panics(t, func() { batch.NewStatusReportJob(new(MockCreditRepository), nil) })
}
