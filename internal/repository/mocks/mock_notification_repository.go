package mocks

import (
	"context"
	"time"

	"docportal/internal/model"
	"docportal/internal/repository"
	"github.com/stretchr/testify/mock"
)

type MockNotificationRepository struct {
	mock.Mock
}

var _ repository.NotificationRepository = (*MockNotificationRepository)(nil)

func (m *MockNotificationRepository) Create(ctx context.Context, n *model.Notification) (*model.Notification, error) {
	args := m.Called(ctx, n)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Notification), args.Error(1)
}

func (m *MockNotificationRepository) CreateForAll(ctx context.Context, subject, message string, sentAt time.Time) ([]model.Notification, error) {
	args := m.Called(ctx, subject, message, sentAt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Notification), args.Error(1)
}

func (m *MockNotificationRepository) List(ctx context.Context, companyID string) ([]model.Notification, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Notification), args.Error(1)
}

func (m *MockNotificationRepository) MarkRead(ctx context.Context, id, companyID string, at time.Time) (*model.Notification, error) {
	args := m.Called(ctx, id, companyID, at)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Notification), args.Error(1)
}

func (m *MockNotificationRepository) MarkAllRead(ctx context.Context, companyID string, at time.Time) (int64, error) {
	args := m.Called(ctx, companyID, at)
	return args.Get(0).(int64), args.Error(1)
}
