package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"dataroom/internal/model"
	"dataroom/internal/service"
)

type MockFolderService struct {
	mock.Mock
}

func (m *MockFolderService) List(ctx context.Context, dataRoomID, ownerID string) ([]model.Folder, error) {
	args := m.Called(ctx, dataRoomID, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Folder), args.Error(1)
}

func (m *MockFolderService) Contents(ctx context.Context, folderID, ownerID string) (*service.FolderContents, error) {
	args := m.Called(ctx, folderID, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.FolderContents), args.Error(1)
}

func (m *MockFolderService) Tree(ctx context.Context, folderID, ownerID string) ([]model.Crumb, error) {
	args := m.Called(ctx, folderID, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Crumb), args.Error(1)
}

func (m *MockFolderService) Create(ctx context.Context, ownerID string, in service.CreateFolderInput) (*model.Folder, error) {
	args := m.Called(ctx, ownerID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Folder), args.Error(1)
}

func (m *MockFolderService) Rename(ctx context.Context, folderID, ownerID, name string) (*model.Folder, error) {
	args := m.Called(ctx, folderID, ownerID, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Folder), args.Error(1)
}

func (m *MockFolderService) Move(ctx context.Context, folderID, ownerID string, newParentID *string) (*model.Folder, error) {
	args := m.Called(ctx, folderID, ownerID, newParentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Folder), args.Error(1)
}

func (m *MockFolderService) Delete(ctx context.Context, folderID, ownerID string) error {
	args := m.Called(ctx, folderID, ownerID)
	return args.Error(0)
}
