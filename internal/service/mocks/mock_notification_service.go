package mocks

import (
	"context"

	"docportal/internal/model"
	"docportal/internal/service"
	"github.com/stretchr/testify/mock"
)

type MockNotificationService struct {
	mock.Mock
}

var _ service.NotificationService = (*MockNotificationService)(nil)

func (m *MockNotificationService) Send(ctx context.Context, p *model.Principal, in service.NotificationInput) ([]model.Notification, error) {
	args := m.Called(ctx, p, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Notification), args.Error(1)
}

func (m *MockNotificationService) List(ctx context.Context, p *model.Principal) ([]model.Notification, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Notification), args.Error(1)
}

func (m *MockNotificationService) MarkRead(ctx context.Context, p *model.Principal, id string) (*model.Notification, error) {
	args := m.Called(ctx, p, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Notification), args.Error(1)
}

func (m *MockNotificationService) MarkAllRead(ctx context.Context, p *model.Principal) (int64, error) {
	args := m.Called(ctx, p)
	return args.Get(0).(int64), args.Error(1)
}
