package mocks

import (
	"context"

	"docportal/internal/model"
	"docportal/internal/repository"
	"github.com/stretchr/testify/mock"
)

type MockCompanyRepository struct {
	mock.Mock
}

var _ repository.CompanyRepository = (*MockCompanyRepository)(nil)

func (m *MockCompanyRepository) Create(ctx context.Context, c *model.Company) (*model.Company, error) {
	args := m.Called(ctx, c)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Company), args.Error(1)
}

func (m *MockCompanyRepository) FindByID(ctx context.Context, id string) (*model.Company, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Company), args.Error(1)
}

func (m *MockCompanyRepository) FindByEmail(ctx context.Context, email string) (*model.Company, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Company), args.Error(1)
}

func (m *MockCompanyRepository) List(ctx context.Context) ([]model.Company, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Company), args.Error(1)
}

func (m *MockCompanyRepository) Update(ctx context.Context, c *model.Company) (*model.Company, error) {
	args := m.Called(ctx, c)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Company), args.Error(1)
}

func (m *MockCompanyRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	args := m.Called(ctx, id, passwordHash)
	return args.Error(0)
}

func (m *MockCompanyRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
