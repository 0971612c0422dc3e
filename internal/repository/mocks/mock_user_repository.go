package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"dataroom/internal/model"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindBySubject(ctx context.Context, subject string) (*model.User, error) {
	args := m.Called(ctx, subject)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) SetSubject(ctx context.Context, id, subject string) error {
	args := m.Called(ctx, id, subject)
	return args.Error(0)
}

func (m *MockUserRepository) CreateWithDataRoom(ctx context.Context, user *model.User, room *model.DataRoom) (*model.User, *model.DataRoom, error) {
	args := m.Called(ctx, user, room)
	var u *model.User
	var r *model.DataRoom
	if args.Get(0) != nil {
		u = args.Get(0).(*model.User)
	}
	if args.Get(1) != nil {
		r = args.Get(1).(*model.DataRoom)
	}
	return u, r, args.Error(2)
}
