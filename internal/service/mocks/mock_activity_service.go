package mocks

import (
	"context"

	"docportal/internal/model"
	"docportal/internal/service"
	"github.com/stretchr/testify/mock"
)

type MockActivityService struct {
	mock.Mock
}

var _ service.ActivityService = (*MockActivityService)(nil)

func (m *MockActivityService) Record(ctx context.Context, action, details, user string) {
	m.Called(ctx, action, details, user)
}

func (m *MockActivityService) List(ctx context.Context, p *model.Principal, limit int, action string) ([]model.ActivityEntry, error) {
	args := m.Called(ctx, p, limit, action)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ActivityEntry), args.Error(1)
}

func (m *MockActivityService) Clear(ctx context.Context, p *model.Principal) (int64, error) {
	args := m.Called(ctx, p)
	return args.Get(0).(int64), args.Error(1)
}
