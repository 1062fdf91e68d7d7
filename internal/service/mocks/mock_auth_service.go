package mocks

import (
	"context"

	"docportal/internal/model"
	"docportal/internal/service"
	"github.com/stretchr/testify/mock"
)

type MockAuthService struct {
	mock.Mock
}

var _ service.AuthService = (*MockAuthService)(nil)

func (m *MockAuthService) Login(ctx context.Context, email, password string) (*service.LoginResult, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.LoginResult), args.Error(1)
}

func (m *MockAuthService) Logout(ctx context.Context, p *model.Principal) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockAuthService) ChangePassword(ctx context.Context, p *model.Principal, current, next string) error {
	args := m.Called(ctx, p, current, next)
	return args.Error(0)
}

func (m *MockAuthService) Authenticate(token string) (*model.Principal, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Principal), args.Error(1)
}
