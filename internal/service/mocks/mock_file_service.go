package mocks

import (
	"context"
	"io"

	"docportal/internal/model"
	"docportal/internal/service"
	"github.com/stretchr/testify/mock"
)

type MockFileService struct {
	mock.Mock
}

var _ service.FileService = (*MockFileService)(nil)

func (m *MockFileService) Upload(ctx context.Context, p *model.Principal, req service.UploadRequest) (*service.UploadResult, error) {
	args := m.Called(ctx, p, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.UploadResult), args.Error(1)
}

func (m *MockFileService) List(ctx context.Context, p *model.Principal, q service.FileQuery) ([]model.File, error) {
	args := m.Called(ctx, p, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.File), args.Error(1)
}

func (m *MockFileService) Get(ctx context.Context, p *model.Principal, id string) (*model.File, error) {
	args := m.Called(ctx, p, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.File), args.Error(1)
}

func (m *MockFileService) Delete(ctx context.Context, p *model.Principal, id string) error {
	args := m.Called(ctx, p, id)
	return args.Error(0)
}

func (m *MockFileService) MarkRead(ctx context.Context, p *model.Principal, id string) (*model.File, error) {
	args := m.Called(ctx, p, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.File), args.Error(1)
}

func (m *MockFileService) DownloadURL(ctx context.Context, p *model.Principal, id string) (*service.DownloadLink, error) {
	args := m.Called(ctx, p, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.DownloadLink), args.Error(1)
}

func (m *MockFileService) Open(ctx context.Context, p *model.Principal, id string) (io.ReadCloser, *model.File, error) {
	args := m.Called(ctx, p, id)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(io.ReadCloser), args.Get(1).(*model.File), args.Error(2)
}
