package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"dataroom/internal/model"
	"dataroom/internal/service"
)

type MockFileService struct {
	mock.Mock
}

func (m *MockFileService) List(ctx context.Context, ownerID, dataRoomID string, folderID *string) ([]model.File, error) {
	args := m.Called(ctx, ownerID, dataRoomID, folderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.File), args.Error(1)
}

func (m *MockFileService) Upload(ctx context.Context, ownerID string, in service.UploadFileInput) (*model.File, error) {
	args := m.Called(ctx, ownerID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.File), args.Error(1)
}

func (m *MockFileService) PresignUpload(ctx context.Context, ownerID string, in service.PresignUploadInput) (*service.UploadTicket, error) {
	args := m.Called(ctx, ownerID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.UploadTicket), args.Error(1)
}

func (m *MockFileService) CompleteUpload(ctx context.Context, ownerID string, in service.CompleteUploadInput) (*model.File, error) {
	args := m.Called(ctx, ownerID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.File), args.Error(1)
}

func (m *MockFileService) ViewURL(ctx context.Context, fileID, ownerID string) (string, error) {
	args := m.Called(ctx, fileID, ownerID)
	return args.String(0), args.Error(1)
}

func (m *MockFileService) Rename(ctx context.Context, fileID, ownerID, name string) (*model.File, error) {
	args := m.Called(ctx, fileID, ownerID, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.File), args.Error(1)
}

func (m *MockFileService) Delete(ctx context.Context, fileID, ownerID string) error {
	args := m.Called(ctx, fileID, ownerID)
	return args.Error(0)
}
