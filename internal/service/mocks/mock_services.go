package mocks

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"hotelapi/internal/model"
	"hotelapi/internal/service"
	"hotelapi/internal/storage"
)

type MockCleaningService struct {
	mock.Mock
}

var _ service.CleaningService = (*MockCleaningService)(nil)

func (m *MockCleaningService) ScheduleCleaning(ctx context.Context, assigneeID, roomNumber, priority int) (*model.CleaningTask, error) {
	args := m.Called(ctx, assigneeID, roomNumber, priority)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CleaningTask), args.Error(1)
}

func (m *MockCleaningService) StartCleaning(ctx context.Context, workerID, roomNumber int) (*model.Room, error) {
	args := m.Called(ctx, workerID, roomNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Room), args.Error(1)
}

func (m *MockCleaningService) FinishCleaning(ctx context.Context, workerID, roomNumber int) (*model.Room, error) {
	args := m.Called(ctx, workerID, roomNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Room), args.Error(1)
}

func (m *MockCleaningService) RemoveCleaning(ctx context.Context, roomNumber int) error {
	args := m.Called(ctx, roomNumber)
	return args.Error(0)
}

func (m *MockCleaningService) FindByRoom(ctx context.Context, roomNumber int) (*model.CleaningTask, error) {
	args := m.Called(ctx, roomNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CleaningTask), args.Error(1)
}

func (m *MockCleaningService) ListCleanings(ctx context.Context, page service.Page) (*service.CleaningListResult, error) {
	args := m.Called(ctx, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.CleaningListResult), args.Error(1)
}

func (m *MockCleaningService) ListByEmployee(ctx context.Context, employeeID int, page service.Page) (*service.CleaningListResult, error) {
	args := m.Called(ctx, employeeID, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.CleaningListResult), args.Error(1)
}

type MockReportService struct {
	mock.Mock
}

var _ service.ReportService = (*MockReportService)(nil)

func (m *MockReportService) ExportQueue(ctx context.Context) (*service.Report, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Report), args.Error(1)
}

func (m *MockReportService) Open(ctx context.Context, name string) (io.ReadCloser, storage.ObjectInfo, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Get(1).(storage.ObjectInfo), args.Error(2)
	}
	return args.Get(0).(io.ReadCloser), args.Get(1).(storage.ObjectInfo), args.Error(2)
}
