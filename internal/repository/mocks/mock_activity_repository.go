package mocks

import (
	"context"

	"docportal/internal/model"
	"docportal/internal/repository"
	"github.com/stretchr/testify/mock"
)

type MockActivityRepository struct {
	mock.Mock
}

var _ repository.ActivityRepository = (*MockActivityRepository)(nil)

func (m *MockActivityRepository) Append(ctx context.Context, e *model.ActivityEntry, keep int) error {
	args := m.Called(ctx, e, keep)
	return args.Error(0)
}

func (m *MockActivityRepository) List(ctx context.Context, filter repository.ActivityFilter) ([]model.ActivityEntry, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ActivityEntry), args.Error(1)
}

func (m *MockActivityRepository) Clear(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}
