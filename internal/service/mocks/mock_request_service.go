package mocks

import (
	"context"

	"docportal/internal/model"
	"docportal/internal/service"
	"github.com/stretchr/testify/mock"
)

type MockRequestService struct {
	mock.Mock
}

var _ service.RequestService = (*MockRequestService)(nil)

func (m *MockRequestService) Create(ctx context.Context, p *model.Principal, docType, description string) (*model.DocumentRequest, error) {
	args := m.Called(ctx, p, docType, description)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DocumentRequest), args.Error(1)
}

func (m *MockRequestService) List(ctx context.Context, p *model.Principal) ([]model.DocumentRequest, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.DocumentRequest), args.Error(1)
}

func (m *MockRequestService) UpdateStatus(ctx context.Context, p *model.Principal, id string, status model.RequestStatus) (*model.DocumentRequest, error) {
	args := m.Called(ctx, p, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DocumentRequest), args.Error(1)
}
