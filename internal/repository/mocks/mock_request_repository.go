package mocks

import (
	"context"
	"time"

	"docportal/internal/model"
	"docportal/internal/repository"
	"github.com/stretchr/testify/mock"
)

type MockRequestRepository struct {
	mock.Mock
}

var _ repository.RequestRepository = (*MockRequestRepository)(nil)

func (m *MockRequestRepository) Create(ctx context.Context, r *model.DocumentRequest) (*model.DocumentRequest, error) {
	args := m.Called(ctx, r)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DocumentRequest), args.Error(1)
}

func (m *MockRequestRepository) FindByID(ctx context.Context, id string) (*model.DocumentRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DocumentRequest), args.Error(1)
}

func (m *MockRequestRepository) List(ctx context.Context, companyID string) ([]model.DocumentRequest, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.DocumentRequest), args.Error(1)
}

func (m *MockRequestRepository) Complete(ctx context.Context, id string, at time.Time) (*model.DocumentRequest, error) {
	args := m.Called(ctx, id, at)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DocumentRequest), args.Error(1)
}
