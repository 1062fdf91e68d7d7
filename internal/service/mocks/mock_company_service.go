package mocks

import (
	"context"
	"io"

	"docportal/internal/model"
	"docportal/internal/service"
	"github.com/stretchr/testify/mock"
)

type MockCompanyService struct {
	mock.Mock
}

var _ service.CompanyService = (*MockCompanyService)(nil)

func (m *MockCompanyService) Create(ctx context.Context, p *model.Principal, in service.CompanyInput) (*model.Company, error) {
	args := m.Called(ctx, p, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Company), args.Error(1)
}

func (m *MockCompanyService) Get(ctx context.Context, p *model.Principal, id string) (*model.Company, error) {
	args := m.Called(ctx, p, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Company), args.Error(1)
}

func (m *MockCompanyService) List(ctx context.Context, p *model.Principal) ([]service.CompanySummary, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]service.CompanySummary), args.Error(1)
}

func (m *MockCompanyService) Update(ctx context.Context, p *model.Principal, id string, in service.CompanyUpdate) (*model.Company, error) {
	args := m.Called(ctx, p, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Company), args.Error(1)
}

func (m *MockCompanyService) Delete(ctx context.Context, p *model.Principal, id string) error {
	args := m.Called(ctx, p, id)
	return args.Error(0)
}

// Export writes the string given as the first Return value.
func (m *MockCompanyService) Export(ctx context.Context, p *model.Principal, w io.Writer) error {
	args := m.Called(ctx, p, w)
	if s, ok := args.Get(0).(string); ok {
		_, _ = io.WriteString(w, s)
	}
	return args.Error(1)
}
