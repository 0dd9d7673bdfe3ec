package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"hotelapi/internal/metrics"
	"hotelapi/internal/model"
	"hotelapi/internal/policy"
	"hotelapi/internal/repository"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrRoomNotFound     = fmt.Errorf("room %w", ErrNotFound)
	ErrEmployeeNotFound = fmt.Errorf("employee %w", ErrNotFound)
	ErrCleaningNotFound = fmt.Errorf("cleaning %w", ErrNotFound)

	ErrAlreadyScheduled  = errors.New("room already has a scheduled cleaning")
	ErrInvalidTransition = errors.New("room cleaning status does not allow this action")
	ErrInvalidPriority   = errors.New("priority must not be negative")
	ErrInvalidPage       = errors.New("invalid page")
	ErrForbidden         = policy.ErrForbidden
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

var tracer = otel.Tracer("hotelapi/internal/service")

// Page selects a slice of an ordered listing. Index is zero-based.
type Page struct {
	Index int
	Size  int
}

func (p Page) query() (repository.PageQuery, Page, error) {
	if p.Size == 0 {
		p.Size = DefaultPageSize
	}
	if p.Index < 0 || p.Size < 0 || p.Size > MaxPageSize {
		return repository.PageQuery{}, p, ErrInvalidPage
	}
	// Index*Size must fit in an int offset.
	if p.Index > math.MaxInt/p.Size {
		return repository.PageQuery{}, p, ErrInvalidPage
	}
	return repository.PageQuery{Limit: p.Size, Offset: p.Index * p.Size}, p, nil
}

// CleaningListResult is the service-level DTO for paginated cleaning tasks.
type CleaningListResult struct {
	Items []model.CleaningTask `json:"data"`
	Total int                  `json:"total"`
	Page  int                  `json:"page"`
	Size  int                  `json:"size"`
}

// CleaningService coordinates cleaning tasks with room status.
// Every mutating operation runs in one transaction, so a task exists exactly while its room
// is scheduled for or being cleaned.
type CleaningService interface {
	// ScheduleCleaning creates a task for the room assigned to the employee and marks the room scheduled.
	// A room that already has a task is rejected with ErrAlreadyScheduled.
	ScheduleCleaning(ctx context.Context, assigneeID, roomNumber, priority int) (*model.CleaningTask, error)

	// StartCleaning marks a scheduled room as being cleaned. Reception staff get ErrForbidden.
	StartCleaning(ctx context.Context, workerID, roomNumber int) (*model.Room, error)

	// FinishCleaning removes the room's task and marks the room clean. Reception staff get ErrForbidden.
	FinishCleaning(ctx context.Context, workerID, roomNumber int) (*model.Room, error)

	// RemoveCleaning cancels the room's task and releases the room.
	RemoveCleaning(ctx context.Context, roomNumber int) error

	// FindByRoom returns the task scheduled for the room.
	FindByRoom(ctx context.Context, roomNumber int) (*model.CleaningTask, error)

	// ListCleanings returns the work queue, highest priority and oldest first.
	ListCleanings(ctx context.Context, page Page) (*CleaningListResult, error)

	// ListByEmployee returns the queue restricted to one assignee.
	ListByEmployee(ctx context.Context, employeeID int, page Page) (*CleaningListResult, error)
}

// Option customizes the cleaning service.
type Option func(*cleaningService)

// WithClock replaces the wall clock used for DateAdded.
func WithClock(now func() time.Time) Option {
	return func(s *cleaningService) { s.now = now }
}

// WithAuthorizer replaces the housekeeping policy.
func WithAuthorizer(a policy.Authorizer) Option {
	return func(s *cleaningService) { s.authorize = a }
}

// WithMetrics records each operation's outcome.
func WithMetrics(m *metrics.CleaningMetrics) Option {
	return func(s *cleaningService) { s.metrics = m }
}

type cleaningService struct {
	tx        repository.Transactor
	rooms     repository.RoomRepository
	employees repository.EmployeeRepository
	cleanings repository.CleaningRepository

	authorize policy.Authorizer
	now       func() time.Time
	metrics   *metrics.CleaningMetrics
}

// NewCleaningService constructs a new CleaningService.
func NewCleaningService(
	tx repository.Transactor,
	rooms repository.RoomRepository,
	employees repository.EmployeeRepository,
	cleanings repository.CleaningRepository,
	opts ...Option,
) CleaningService {
	s := &cleaningService{
		tx:        tx,
		rooms:     rooms,
		employees: employees,
		cleanings: cleanings,
		authorize: policy.Housekeeping,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *cleaningService) ScheduleCleaning(ctx context.Context, assigneeID, roomNumber, priority int) (task *model.CleaningTask, err error) {
	ctx, end := s.trace(ctx, "ScheduleCleaning",
		attribute.Int("employee.id", assigneeID),
		attribute.Int("room.number", roomNumber),
		attribute.Int("cleaning.priority", priority),
	)
	defer func() { end(err) }()

	if priority < 0 {
		return nil, ErrInvalidPriority
	}

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := s.findRoom(ctx, roomNumber); err != nil {
			return err
		}
		if _, err := s.findEmployee(ctx, assigneeID); err != nil {
			return err
		}

		_, err := s.cleanings.FindByRoom(ctx, roomNumber)
		switch {
		case err == nil:
			return ErrAlreadyScheduled
		case !errors.Is(err, repository.ErrNotFound):
			return fmt.Errorf("find cleaning: %w", err)
		}

		saved, err := s.cleanings.Save(ctx, &model.CleaningTask{
			RoomNumber: roomNumber,
			EmployeeID: assigneeID,
			DateAdded:  s.now().UnixMilli(),
			Priority:   priority,
		})
		if err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return ErrAlreadyScheduled
			}
			return fmt.Errorf("save cleaning: %w", err)
		}

		if _, err := s.rooms.MarkScheduled(ctx, roomNumber); err != nil {
			return roomError(err)
		}
		task = saved
		return nil
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}

func (s *cleaningService) StartCleaning(ctx context.Context, workerID, roomNumber int) (room *model.Room, err error) {
	ctx, end := s.trace(ctx, "StartCleaning",
		attribute.Int("employee.id", workerID),
		attribute.Int("room.number", roomNumber),
	)
	defer func() { end(err) }()

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		worker, err := s.findEmployee(ctx, workerID)
		if err != nil {
			return err
		}
		if err := s.authorize(worker); err != nil {
			return err
		}

		r, err := s.rooms.MarkBeingCleaned(ctx, roomNumber)
		if err != nil {
			return roomError(err)
		}
		room = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return room, nil
}

func (s *cleaningService) FinishCleaning(ctx context.Context, workerID, roomNumber int) (room *model.Room, err error) {
	ctx, end := s.trace(ctx, "FinishCleaning",
		attribute.Int("employee.id", workerID),
		attribute.Int("room.number", roomNumber),
	)
	defer func() { end(err) }()

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		worker, err := s.findEmployee(ctx, workerID)
		if err != nil {
			return err
		}
		// A missing room is reported before the role check.
		if _, err := s.findRoom(ctx, roomNumber); err != nil {
			return err
		}
		if err := s.authorize(worker); err != nil {
			return err
		}

		task, err := s.findCleaning(ctx, roomNumber)
		if err != nil {
			return err
		}
		if err := s.cleanings.Delete(ctx, task.ID); err != nil {
			return fmt.Errorf("delete cleaning: %w", err)
		}

		r, err := s.rooms.MarkClean(ctx, roomNumber)
		if err != nil {
			return roomError(err)
		}
		room = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return room, nil
}

func (s *cleaningService) RemoveCleaning(ctx context.Context, roomNumber int) (err error) {
	ctx, end := s.trace(ctx, "RemoveCleaning", attribute.Int("room.number", roomNumber))
	defer func() { end(err) }()

	return s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := s.findRoom(ctx, roomNumber); err != nil {
			return err
		}
		task, err := s.findCleaning(ctx, roomNumber)
		if err != nil {
			return err
		}
		if err := s.cleanings.Delete(ctx, task.ID); err != nil {
			return fmt.Errorf("delete cleaning: %w", err)
		}
		if _, err := s.rooms.MarkAvailable(ctx, roomNumber); err != nil {
			return roomError(err)
		}
		return nil
	})
}

func (s *cleaningService) FindByRoom(ctx context.Context, roomNumber int) (task *model.CleaningTask, err error) {
	ctx, end := s.trace(ctx, "FindByRoom", attribute.Int("room.number", roomNumber))
	defer func() { end(err) }()

	if _, err := s.findRoom(ctx, roomNumber); err != nil {
		return nil, err
	}
	return s.findCleaning(ctx, roomNumber)
}

func (s *cleaningService) ListCleanings(ctx context.Context, page Page) (res *CleaningListResult, err error) {
	ctx, end := s.trace(ctx, "ListCleanings")
	defer func() { end(err) }()

	pq, page, err := page.query()
	if err != nil {
		return nil, err
	}
	out, err := s.cleanings.List(ctx, pq)
	if err != nil {
		return nil, err
	}
	return &CleaningListResult{Items: out.Items, Total: out.Total, Page: page.Index, Size: page.Size}, nil
}

func (s *cleaningService) ListByEmployee(ctx context.Context, employeeID int, page Page) (res *CleaningListResult, err error) {
	ctx, end := s.trace(ctx, "ListByEmployee", attribute.Int("employee.id", employeeID))
	defer func() { end(err) }()

	pq, page, err := page.query()
	if err != nil {
		return nil, err
	}
	if _, err := s.findEmployee(ctx, employeeID); err != nil {
		return nil, err
	}
	out, err := s.cleanings.ListByEmployee(ctx, employeeID, pq)
	if err != nil {
		return nil, err
	}
	return &CleaningListResult{Items: out.Items, Total: out.Total, Page: page.Index, Size: page.Size}, nil
}

func (s *cleaningService) findRoom(ctx context.Context, number int) (*model.Room, error) {
	room, err := s.rooms.FindByRoomNumber(ctx, number)
	if err != nil {
		return nil, roomError(err)
	}
	return room, nil
}

func (s *cleaningService) findEmployee(ctx context.Context, id int) (*model.Employee, error) {
	e, err := s.employees.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrEmployeeNotFound
		}
		return nil, fmt.Errorf("find employee: %w", err)
	}
	return e, nil
}

func (s *cleaningService) findCleaning(ctx context.Context, roomNumber int) (*model.CleaningTask, error) {
	task, err := s.cleanings.FindByRoom(ctx, roomNumber)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCleaningNotFound
		}
		return nil, fmt.Errorf("find cleaning: %w", err)
	}
	return task, nil
}

func roomError(err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return ErrRoomNotFound
	case errors.Is(err, repository.ErrInvalidTransition):
		return ErrInvalidTransition
	default:
		return fmt.Errorf("room: %w", err)
	}
}

// trace opens a span for op and returns a func that closes it and records the outcome.
func (s *cleaningService) trace(ctx context.Context, op string, attrs ...attribute.KeyValue) (context.Context, func(error)) {
	ctx, span := tracer.Start(ctx, "CleaningService."+op, trace.WithAttributes(attrs...))
	return ctx, func(err error) {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
		s.metrics.Observe(op, Outcome(err))
	}
}

// Outcome classifies an operation error into a short label.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrForbidden):
		return "forbidden"
	case errors.Is(err, ErrAlreadyScheduled), errors.Is(err, ErrInvalidTransition):
		return "conflict"
	case errors.Is(err, ErrInvalidPriority), errors.Is(err, ErrInvalidPage), errors.Is(err, ErrInvalidReportName):
		return "invalid"
	default:
		return "error"
	}
}
