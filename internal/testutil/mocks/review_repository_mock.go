package mocks

import (
	"context"
	"time"

	"github.com/jswierad/memodeck/internal/models"
	"github.com/jswierad/memodeck/internal/repository"
	"github.com/stretchr/testify/mock"
)

// MockReviewRepository is a mock implementation of repository.ReviewRepository
type MockReviewRepository struct {
	mock.Mock
}

func (m *MockReviewRepository) Get(ctx context.Context, userID, cardID int64) (*models.ReviewRecord, error) {
	args := m.Called(ctx, userID, cardID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ReviewRecord), args.Error(1)
}

func (m *MockReviewRepository) Insert(ctx context.Context, rec models.ReviewRecord) (int64, error) {
	args := m.Called(ctx, rec)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockReviewRepository) Update(ctx context.Context, rec models.ReviewRecord) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func (m *MockReviewRepository) Delete(ctx context.Context, userID, cardID int64) error {
	args := m.Called(ctx, userID, cardID)
	return args.Error(0)
}

func (m *MockReviewRepository) UpdateComment(ctx context.Context, userID, cardID int64, comment string) error {
	args := m.Called(ctx, userID, cardID, comment)
	return args.Error(0)
}

func (m *MockReviewRepository) SetCrammed(ctx context.Context, userID, cardID int64, crammed bool) error {
	args := m.Called(ctx, userID, cardID, crammed)
	return args.Error(0)
}

func (m *MockReviewRepository) CountOnDate(ctx context.Context, userID int64, day time.Time) (int, error) {
	args := m.Called(ctx, userID, day)
	return args.Int(0), args.Error(1)
}

func (m *MockReviewRepository) DueRecords(ctx context.Context, userID int64, today time.Time) ([]models.RecordWithCard, error) {
	args := m.Called(ctx, userID, today)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.RecordWithCard), args.Error(1)
}

func (m *MockReviewRepository) CramRecords(ctx context.Context, userID int64) ([]models.RecordWithCard, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.RecordWithCard), args.Error(1)
}

func (m *MockReviewRepository) ScheduleLoad(ctx context.Context, userID int64, from time.Time, days int) ([]models.ScheduleDay, error) {
	args := m.Called(ctx, userID, from, days)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ScheduleDay), args.Error(1)
}

func (m *MockReviewRepository) Stats(ctx context.Context, userID int64, today time.Time) (*models.UserStats, error) {
	args := m.Called(ctx, userID, today)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserStats), args.Error(1)
}

// InTx records the call, then runs fn against the mock itself so expectations
// set on the mock apply inside the transaction too.
func (m *MockReviewRepository) InTx(ctx context.Context, fn func(repository.ReviewRepository) error) error {
	args := m.Called(ctx)
	if err := args.Error(0); err != nil {
		return err
	}
	return fn(m)
}
