package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"dataroom/internal/model"
	"dataroom/internal/service"
)

type MockDataRoomService struct {
	mock.Mock
}

func (m *MockDataRoomService) GetOrCreate(ctx context.Context, owner *model.User) (*model.DataRoom, error) {
	args := m.Called(ctx, owner)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DataRoom), args.Error(1)
}

func (m *MockDataRoomService) Get(ctx context.Context, id, ownerID string) (*service.DataRoomView, error) {
	args := m.Called(ctx, id, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.DataRoomView), args.Error(1)
}

func (m *MockDataRoomService) SetName(ctx context.Context, owner *model.User, name string) (*model.DataRoom, error) {
	args := m.Called(ctx, owner, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DataRoom), args.Error(1)
}

func (m *MockDataRoomService) Rename(ctx context.Context, id, ownerID, name string) (*model.DataRoom, error) {
	args := m.Called(ctx, id, ownerID, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DataRoom), args.Error(1)
}

func (m *MockDataRoomService) Delete(ctx context.Context, id, ownerID string) error {
	args := m.Called(ctx, id, ownerID)
	return args.Error(0)
}
