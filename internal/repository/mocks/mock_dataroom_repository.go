package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"dataroom/internal/model"
)

type MockDataRoomRepository struct {
	mock.Mock
}

func (m *MockDataRoomRepository) FindByOwner(ctx context.Context, ownerID string) (*model.DataRoom, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DataRoom), args.Error(1)
}

func (m *MockDataRoomRepository) FindByIDForOwner(ctx context.Context, id, ownerID string) (*model.DataRoom, error) {
	args := m.Called(ctx, id, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DataRoom), args.Error(1)
}

func (m *MockDataRoomRepository) Create(ctx context.Context, room *model.DataRoom) (*model.DataRoom, error) {
	args := m.Called(ctx, room)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DataRoom), args.Error(1)
}

func (m *MockDataRoomRepository) Rename(ctx context.Context, id, name string) (*model.DataRoom, error) {
	args := m.Called(ctx, id, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DataRoom), args.Error(1)
}
