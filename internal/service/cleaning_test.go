package service

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"hotelapi/internal/model"
	"hotelapi/internal/repository"
	repoMocks "hotelapi/internal/repository/mocks"
)

type repoSet struct {
	rooms     *repoMocks.MockRoomRepository
	employees *repoMocks.MockEmployeeRepository
	cleanings *repoMocks.MockCleaningRepository
}

func newRepoSet() repoSet {
	return repoSet{
		rooms:     new(repoMocks.MockRoomRepository),
		employees: new(repoMocks.MockEmployeeRepository),
		cleanings: new(repoMocks.MockCleaningRepository),
	}
}

func (r repoSet) service(opts ...Option) CleaningService {
	return NewCleaningService(repoMocks.PassthroughTransactor{}, r.rooms, r.employees, r.cleanings, opts...)
}

func (r repoSet) assert(t *testing.T) {
	r.rooms.AssertExpectations(t)
	r.employees.AssertExpectations(t)
	r.cleanings.AssertExpectations(t)
}

var (
	housekeeper  = &model.Employee{ID: 7, Role: model.RoleHousekeeper}
	receptionist = &model.Employee{ID: 3, Role: model.RoleReceptionist}
	fixedNow     = time.UnixMilli(1_700_000_000_000)
)

func TestCleaningService_ScheduleCleaning(t *testing.T) {
	tests := []struct {
		name       string
		priority   int
		setupMocks func(r repoSet)
		wantErr    error
		wantErrMsg string
	}{
		{
			name:     "happy path",
			priority: 5,
			setupMocks: func(r repoSet) {
				r.rooms.On("FindByRoomNumber", mock.Anything, 101).Return(&model.Room{Number: 101, CleaningStatus: model.StatusAvailable}, nil)
				r.employees.On("FindByID", mock.Anything, 7).Return(housekeeper, nil)
				r.cleanings.On("FindByRoom", mock.Anything, 101).Return(nil, repository.ErrNotFound)
				r.cleanings.On("Save", mock.Anything, &model.CleaningTask{
					RoomNumber: 101,
					EmployeeID: 7,
					DateAdded:  fixedNow.UnixMilli(),
					Priority:   5,
				}).Return(&model.CleaningTask{ID: 1, RoomNumber: 101, EmployeeID: 7, DateAdded: fixedNow.UnixMilli(), Priority: 5}, nil)
				r.rooms.On("MarkScheduled", mock.Anything, 101).Return(&model.Room{Number: 101, CleaningStatus: model.StatusScheduledForCleaning}, nil)
			},
		},
		{
			name:       "negative priority",
			priority:   -1,
			setupMocks: func(r repoSet) {},
			wantErr:    ErrInvalidPriority,
		},
		{
			name: "missing room",
			setupMocks: func(r repoSet) {
				r.rooms.On("FindByRoomNumber", mock.Anything, 101).Return(nil, repository.ErrNotFound)
			},
			wantErr: ErrRoomNotFound,
		},
		{
			name: "missing employee leaves room untouched",
			setupMocks: func(r repoSet) {
				r.rooms.On("FindByRoomNumber", mock.Anything, 101).Return(&model.Room{Number: 101}, nil)
				r.employees.On("FindByID", mock.Anything, 7).Return(nil, repository.ErrNotFound)
			},
			wantErr: ErrEmployeeNotFound,
		},
		{
			name: "existing task is rejected",
			setupMocks: func(r repoSet) {
				r.rooms.On("FindByRoomNumber", mock.Anything, 101).Return(&model.Room{Number: 101}, nil)
				r.employees.On("FindByID", mock.Anything, 7).Return(housekeeper, nil)
				r.cleanings.On("FindByRoom", mock.Anything, 101).Return(&model.CleaningTask{ID: 9, RoomNumber: 101}, nil)
			},
			wantErr: ErrAlreadyScheduled,
		},
		{
			name: "concurrent insert hits the unique index",
			setupMocks: func(r repoSet) {
				r.rooms.On("FindByRoomNumber", mock.Anything, 101).Return(&model.Room{Number: 101}, nil)
				r.employees.On("FindByID", mock.Anything, 7).Return(housekeeper, nil)
				r.cleanings.On("FindByRoom", mock.Anything, 101).Return(nil, repository.ErrNotFound)
				r.cleanings.On("Save", mock.Anything, mock.Anything).Return(nil, repository.ErrDuplicate)
			},
			wantErr: ErrAlreadyScheduled,
		},
		{
			name: "room in progress cannot be scheduled",
			setupMocks: func(r repoSet) {
				r.rooms.On("FindByRoomNumber", mock.Anything, 101).Return(&model.Room{Number: 101}, nil)
				r.employees.On("FindByID", mock.Anything, 7).Return(housekeeper, nil)
				r.cleanings.On("FindByRoom", mock.Anything, 101).Return(nil, repository.ErrNotFound)
				r.cleanings.On("Save", mock.Anything, mock.Anything).Return(&model.CleaningTask{ID: 1}, nil)
				r.rooms.On("MarkScheduled", mock.Anything, 101).Return(nil, repository.ErrInvalidTransition)
			},
			wantErr: ErrInvalidTransition,
		},
		{
			name: "persistence error is wrapped",
			setupMocks: func(r repoSet) {
				r.rooms.On("FindByRoomNumber", mock.Anything, 101).Return(&model.Room{Number: 101}, nil)
				r.employees.On("FindByID", mock.Anything, 7).Return(housekeeper, nil)
				r.cleanings.On("FindByRoom", mock.Anything, 101).Return(nil, repository.ErrNotFound)
				r.cleanings.On("Save", mock.Anything, mock.Anything).Return(nil, errors.New("db fail"))
			},
			wantErrMsg: "save cleaning: db fail",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newRepoSet()
			tt.setupMocks(r)
			svc := r.service(WithClock(func() time.Time { return fixedNow }))

			task, err := svc.ScheduleCleaning(context.Background(), 7, 101, tt.priority)

			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, task)
			case tt.wantErrMsg != "":
				assert.EqualError(t, err, tt.wantErrMsg)
			default:
				assert.NoError(t, err)
				assert.Equal(t, int64(1), task.ID)
				assert.Equal(t, fixedNow.UnixMilli(), task.DateAdded)
			}
			r.assert(t)
		})
	}
}

func TestCleaningService_StartCleaning(t *testing.T) {
	tests := []struct {
		name       string
		workerID   int
		setupMocks func(r repoSet)
		wantErr    error
	}{
		{
			name:     "happy path",
			workerID: 7,
			setupMocks: func(r repoSet) {
				r.employees.On("FindByID", mock.Anything, 7).Return(housekeeper, nil)
				r.rooms.On("MarkBeingCleaned", mock.Anything, 202).Return(&model.Room{Number: 202, CleaningStatus: model.StatusBeingCleaned}, nil)
			},
		},
		{
			name:     "receptionist is forbidden and room untouched",
			workerID: 3,
			setupMocks: func(r repoSet) {
				r.employees.On("FindByID", mock.Anything, 3).Return(receptionist, nil)
			},
			wantErr: ErrForbidden,
		},
		{
			name:     "missing worker",
			workerID: 9999,
			setupMocks: func(r repoSet) {
				r.employees.On("FindByID", mock.Anything, 9999).Return(nil, repository.ErrNotFound)
			},
			wantErr: ErrEmployeeNotFound,
		},
		{
			name:     "missing room",
			workerID: 7,
			setupMocks: func(r repoSet) {
				r.employees.On("FindByID", mock.Anything, 7).Return(housekeeper, nil)
				r.rooms.On("MarkBeingCleaned", mock.Anything, 202).Return(nil, repository.ErrNotFound)
			},
			wantErr: ErrRoomNotFound,
		},
		{
			name:     "room not scheduled",
			workerID: 7,
			setupMocks: func(r repoSet) {
				r.employees.On("FindByID", mock.Anything, 7).Return(housekeeper, nil)
				r.rooms.On("MarkBeingCleaned", mock.Anything, 202).Return(nil, repository.ErrInvalidTransition)
			},
			wantErr: ErrInvalidTransition,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newRepoSet()
			tt.setupMocks(r)

			room, err := r.service().StartCleaning(context.Background(), tt.workerID, 202)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, room)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, model.StatusBeingCleaned, room.CleaningStatus)
			}
			r.assert(t)
		})
	}
}

func TestCleaningService_FinishCleaning(t *testing.T) {
	tests := []struct {
		name       string
		workerID   int
		setupMocks func(r repoSet)
		wantErr    error
	}{
		{
			name:     "happy path",
			workerID: 7,
			setupMocks: func(r repoSet) {
				r.employees.On("FindByID", mock.Anything, 7).Return(housekeeper, nil)
				r.rooms.On("FindByRoomNumber", mock.Anything, 101).Return(&model.Room{Number: 101, CleaningStatus: model.StatusBeingCleaned}, nil)
				r.cleanings.On("FindByRoom", mock.Anything, 101).Return(&model.CleaningTask{ID: 4, RoomNumber: 101}, nil)
				r.cleanings.On("Delete", mock.Anything, int64(4)).Return(nil)
				r.rooms.On("MarkClean", mock.Anything, 101).Return(&model.Room{Number: 101, CleaningStatus: model.StatusClean}, nil)
			},
		},
		{
			name:     "missing room is reported before the role check",
			workerID: 3,
			setupMocks: func(r repoSet) {
				r.employees.On("FindByID", mock.Anything, 3).Return(receptionist, nil)
				r.rooms.On("FindByRoomNumber", mock.Anything, 101).Return(nil, repository.ErrNotFound)
			},
			wantErr: ErrRoomNotFound,
		},
		{
			name:     "receptionist is forbidden",
			workerID: 3,
			setupMocks: func(r repoSet) {
				r.employees.On("FindByID", mock.Anything, 3).Return(receptionist, nil)
				r.rooms.On("FindByRoomNumber", mock.Anything, 101).Return(&model.Room{Number: 101}, nil)
			},
			wantErr: ErrForbidden,
		},
		{
			name:     "no scheduled task",
			workerID: 7,
			setupMocks: func(r repoSet) {
				r.employees.On("FindByID", mock.Anything, 7).Return(housekeeper, nil)
				r.rooms.On("FindByRoomNumber", mock.Anything, 101).Return(&model.Room{Number: 101}, nil)
				r.cleanings.On("FindByRoom", mock.Anything, 101).Return(nil, repository.ErrNotFound)
			},
			wantErr: ErrCleaningNotFound,
		},
		{
			name:     "room never started",
			workerID: 7,
			setupMocks: func(r repoSet) {
				r.employees.On("FindByID", mock.Anything, 7).Return(housekeeper, nil)
				r.rooms.On("FindByRoomNumber", mock.Anything, 101).Return(&model.Room{Number: 101}, nil)
				r.cleanings.On("FindByRoom", mock.Anything, 101).Return(&model.CleaningTask{ID: 4, RoomNumber: 101}, nil)
				r.cleanings.On("Delete", mock.Anything, int64(4)).Return(nil)
				r.rooms.On("MarkClean", mock.Anything, 101).Return(nil, repository.ErrInvalidTransition)
			},
			wantErr: ErrInvalidTransition,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newRepoSet()
			tt.setupMocks(r)

			room, err := r.service().FinishCleaning(context.Background(), tt.workerID, 101)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, room)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, model.StatusClean, room.CleaningStatus)
			}
			r.assert(t)
		})
	}
}

func TestCleaningService_RemoveCleaning(t *testing.T) {
	t.Run("deletes task and releases room", func(t *testing.T) {
		r := newRepoSet()
		r.rooms.On("FindByRoomNumber", mock.Anything, 101).Return(&model.Room{Number: 101}, nil)
		r.cleanings.On("FindByRoom", mock.Anything, 101).Return(&model.CleaningTask{ID: 4, RoomNumber: 101}, nil)
		r.cleanings.On("Delete", mock.Anything, int64(4)).Return(nil)
		r.rooms.On("MarkAvailable", mock.Anything, 101).Return(&model.Room{Number: 101, CleaningStatus: model.StatusAvailable}, nil)

		assert.NoError(t, r.service().RemoveCleaning(context.Background(), 101))
		r.assert(t)
	})

	t.Run("nothing to remove", func(t *testing.T) {
		r := newRepoSet()
		r.rooms.On("FindByRoomNumber", mock.Anything, 101).Return(&model.Room{Number: 101}, nil)
		r.cleanings.On("FindByRoom", mock.Anything, 101).Return(nil, repository.ErrNotFound)

		assert.ErrorIs(t, r.service().RemoveCleaning(context.Background(), 101), ErrCleaningNotFound)
		r.assert(t)
	})
}

func TestCleaningService_ListCleanings(t *testing.T) {
	tests := []struct {
		name       string
		page       Page
		setupMocks func(r repoSet)
		wantErr    error
		wantPage   Page
	}{
		{
			name: "default size",
			page: Page{Index: 0},
			setupMocks: func(r repoSet) {
				r.cleanings.On("List", mock.Anything, repository.PageQuery{Limit: DefaultPageSize, Offset: 0}).
					Return(&repository.PageResult[model.CleaningTask]{Items: []model.CleaningTask{{ID: 1}}, Total: 1}, nil)
			},
			wantPage: Page{Index: 0, Size: DefaultPageSize},
		},
		{
			name: "offset from index",
			page: Page{Index: 2, Size: 5},
			setupMocks: func(r repoSet) {
				r.cleanings.On("List", mock.Anything, repository.PageQuery{Limit: 5, Offset: 10}).
					Return(&repository.PageResult[model.CleaningTask]{Items: []model.CleaningTask{}, Total: 3}, nil)
			},
			wantPage: Page{Index: 2, Size: 5},
		},
		{
			name:       "negative index",
			page:       Page{Index: -1, Size: 5},
			setupMocks: func(r repoSet) {},
			wantErr:    ErrInvalidPage,
		},
		{
			name:       "size above maximum",
			page:       Page{Size: MaxPageSize + 1},
			setupMocks: func(r repoSet) {},
			wantErr:    ErrInvalidPage,
		},
		{
			name:       "offset overflows int",
			page:       Page{Index: math.MaxInt/DefaultPageSize + 1, Size: DefaultPageSize},
			setupMocks: func(r repoSet) {},
			wantErr:    ErrInvalidPage,
		},
		{
			name:       "default size offset overflows int",
			page:       Page{Index: math.MaxInt/DefaultPageSize + 1},
			setupMocks: func(r repoSet) {},
			wantErr:    ErrInvalidPage,
		},
		{
			name: "largest representable offset",
			page: Page{Index: math.MaxInt / 5, Size: 5},
			setupMocks: func(r repoSet) {
				r.cleanings.On("List", mock.Anything, repository.PageQuery{Limit: 5, Offset: math.MaxInt / 5 * 5}).
					Return(&repository.PageResult[model.CleaningTask]{Items: []model.CleaningTask{}, Total: 1}, nil)
			},
			wantPage: Page{Index: math.MaxInt / 5, Size: 5},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newRepoSet()
			tt.setupMocks(r)

			res, err := r.service().ListCleanings(context.Background(), tt.page)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.wantPage.Index, res.Page)
				assert.Equal(t, tt.wantPage.Size, res.Size)
			}
			r.assert(t)
		})
	}
}

func TestCleaningService_ListByEmployee(t *testing.T) {
	t.Run("resolves employee first", func(t *testing.T) {
		r := newRepoSet()
		r.employees.On("FindByID", mock.Anything, 7).Return(housekeeper, nil)
		r.cleanings.On("ListByEmployee", mock.Anything, 7, repository.PageQuery{Limit: 10, Offset: 0}).
			Return(&repository.PageResult[model.CleaningTask]{Items: []model.CleaningTask{{ID: 1, EmployeeID: 7}}, Total: 1}, nil)

		res, err := r.service().ListByEmployee(context.Background(), 7, Page{Size: 10})

		assert.NoError(t, err)
		assert.Equal(t, 1, res.Total)
		r.assert(t)
	})

	t.Run("missing employee", func(t *testing.T) {
		r := newRepoSet()
		r.employees.On("FindByID", mock.Anything, 9999).Return(nil, repository.ErrNotFound)

		res, err := r.service().ListByEmployee(context.Background(), 9999, Page{})

		assert.ErrorIs(t, err, ErrEmployeeNotFound)
		assert.ErrorIs(t, err, ErrNotFound)
		assert.Nil(t, res)
		r.assert(t)
	})
}

func TestCleaningService_CustomAuthorizer(t *testing.T) {
	r := newRepoSet()
	r.employees.On("FindByID", mock.Anything, 7).Return(housekeeper, nil)

	denyAll := func(*model.Employee) error { return ErrForbidden }
	_, err := r.service(WithAuthorizer(denyAll)).StartCleaning(context.Background(), 7, 101)

	assert.ErrorIs(t, err, ErrForbidden)
	r.assert(t)
}

func TestOutcome(t *testing.T) {
	assert.Equal(t, "ok", Outcome(nil))
	assert.Equal(t, "not_found", Outcome(ErrRoomNotFound))
	assert.Equal(t, "forbidden", Outcome(ErrForbidden))
	assert.Equal(t, "conflict", Outcome(ErrAlreadyScheduled))
	assert.Equal(t, "conflict", Outcome(ErrInvalidTransition))
	assert.Equal(t, "invalid", Outcome(ErrInvalidPage))
	assert.Equal(t, "error", Outcome(errors.New("db fail")))
}
