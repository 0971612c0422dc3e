package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"dataroom/internal/model"
	"dataroom/internal/repository"
)

type MockFileRepository struct {
	mock.Mock
}

func (m *MockFileRepository) FindByIDForOwner(ctx context.Context, id, ownerID string) (*model.File, error) {
	args := m.Called(ctx, id, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.File), args.Error(1)
}

func (m *MockFileRepository) ListByDataRoom(ctx context.Context, dataRoomID, ownerID string) ([]model.File, error) {
	args := m.Called(ctx, dataRoomID, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.File), args.Error(1)
}

func (m *MockFileRepository) ListByFolder(ctx context.Context, folderID, ownerID string) ([]model.File, error) {
	args := m.Called(ctx, folderID, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.File), args.Error(1)
}

func (m *MockFileRepository) ListByScope(ctx context.Context, scope repository.NameScope) ([]model.File, error) {
	args := m.Called(ctx, scope)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.File), args.Error(1)
}

func (m *MockFileRepository) ExistsName(ctx context.Context, scope repository.NameScope, name, excludeID string) (bool, error) {
	args := m.Called(ctx, scope, name, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockFileRepository) Create(ctx context.Context, f *model.File) (*model.File, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.File), args.Error(1)
}

func (m *MockFileRepository) Rename(ctx context.Context, id, name string) (*model.File, error) {
	args := m.Called(ctx, id, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.File), args.Error(1)
}

func (m *MockFileRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
