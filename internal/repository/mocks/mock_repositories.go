package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"hotelapi/internal/model"
	"hotelapi/internal/repository"
)

type MockRoomRepository struct {
	mock.Mock
}

func (m *MockRoomRepository) room(args mock.Arguments) (*model.Room, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Room), args.Error(1)
}

func (m *MockRoomRepository) FindByRoomNumber(ctx context.Context, number int) (*model.Room, error) {
	return m.room(m.Called(ctx, number))
}

func (m *MockRoomRepository) MarkScheduled(ctx context.Context, number int) (*model.Room, error) {
	return m.room(m.Called(ctx, number))
}

func (m *MockRoomRepository) MarkBeingCleaned(ctx context.Context, number int) (*model.Room, error) {
	return m.room(m.Called(ctx, number))
}

func (m *MockRoomRepository) MarkClean(ctx context.Context, number int) (*model.Room, error) {
	return m.room(m.Called(ctx, number))
}

func (m *MockRoomRepository) MarkAvailable(ctx context.Context, number int) (*model.Room, error) {
	return m.room(m.Called(ctx, number))
}

type MockEmployeeRepository struct {
	mock.Mock
}

func (m *MockEmployeeRepository) FindByID(ctx context.Context, id int) (*model.Employee, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Employee), args.Error(1)
}

type MockCleaningRepository struct {
	mock.Mock
}

func (m *MockCleaningRepository) Save(ctx context.Context, task *model.CleaningTask) (*model.CleaningTask, error) {
	args := m.Called(ctx, task)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CleaningTask), args.Error(1)
}

func (m *MockCleaningRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCleaningRepository) FindByRoom(ctx context.Context, roomNumber int) (*model.CleaningTask, error) {
	args := m.Called(ctx, roomNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CleaningTask), args.Error(1)
}

func (m *MockCleaningRepository) List(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[model.CleaningTask], error) {
	args := m.Called(ctx, pq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.CleaningTask]), args.Error(1)
}

func (m *MockCleaningRepository) ListByEmployee(ctx context.Context, employeeID int, pq repository.PageQuery) (*repository.PageResult[model.CleaningTask], error) {
	args := m.Called(ctx, employeeID, pq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.CleaningTask]), args.Error(1)
}

// PassthroughTransactor runs fn directly with the caller's context.
type PassthroughTransactor struct{}

func (PassthroughTransactor) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
