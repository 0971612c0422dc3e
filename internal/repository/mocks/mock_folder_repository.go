package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"dataroom/internal/model"
	"dataroom/internal/repository"
)

type MockFolderRepository struct {
	mock.Mock
}

func (m *MockFolderRepository) FindByIDForOwner(ctx context.Context, id, ownerID string) (*model.Folder, error) {
	args := m.Called(ctx, id, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Folder), args.Error(1)
}

func (m *MockFolderRepository) ListByDataRoom(ctx context.Context, dataRoomID string) ([]model.Folder, error) {
	args := m.Called(ctx, dataRoomID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Folder), args.Error(1)
}

func (m *MockFolderRepository) ListChildrenWithCounts(ctx context.Context, scope repository.NameScope) ([]model.FolderWithCounts, error) {
	args := m.Called(ctx, scope)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.FolderWithCounts), args.Error(1)
}

func (m *MockFolderRepository) ExistsName(ctx context.Context, scope repository.NameScope, name, excludeID string) (bool, error) {
	args := m.Called(ctx, scope, name, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockFolderRepository) Create(ctx context.Context, f *model.Folder) (*model.Folder, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Folder), args.Error(1)
}

func (m *MockFolderRepository) Rename(ctx context.Context, id, name string) (*model.Folder, error) {
	args := m.Called(ctx, id, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Folder), args.Error(1)
}

func (m *MockFolderRepository) SetParent(ctx context.Context, id string, parentID *string) (*model.Folder, error) {
	args := m.Called(ctx, id, parentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Folder), args.Error(1)
}

func (m *MockFolderRepository) PathToRoot(ctx context.Context, id string, maxDepth int) ([]model.Crumb, error) {
	args := m.Called(ctx, id, maxDepth)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Crumb), args.Error(1)
}

func (m *MockFolderRepository) DeleteSubtree(ctx context.Context, id string) ([]string, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}
