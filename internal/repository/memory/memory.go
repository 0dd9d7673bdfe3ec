package memory

import (
	"cmp"
	"context"
	"maps"
	"slices"
	"sync"
	"time"

	"hotelapi/internal/model"
	"hotelapi/internal/repository"
)

type txKey struct{}

// Store keeps rooms, employees and cleaning tasks in process memory.
// It backs the repository interfaces for local runs and tests.
// Transactions are serialized; a failed transaction restores the state it started from.
// Calls made outside a transaction wait for the running one to finish, so they only
// observe committed state.
type Store struct {
	txMu sync.Mutex

	mu        sync.RWMutex
	rooms     map[int]model.Room
	employees map[int]model.Employee
	cleanings map[int64]model.CleaningTask
	nextID    int64
}

// NewStore returns an empty Store.
func NewStore() *Store {
	return &Store{
		rooms:     make(map[int]model.Room),
		employees: make(map[int]model.Employee),
		cleanings: make(map[int64]model.CleaningTask),
	}
}

var _ repository.Transactor = (*Store)(nil)

// AddRoom inserts or replaces a room.
func (s *Store) AddRoom(number int, status model.CleaningStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rooms[number] = model.Room{Number: number, CleaningStatus: status, UpdatedAt: time.Now().UTC()}
}

// AddEmployee inserts or replaces an employee.
func (s *Store) AddEmployee(e model.Employee) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.employees[e.ID] = e
}

// Rooms returns the room repository view of the store.
func (s *Store) Rooms() *Rooms { return &Rooms{s: s} }

// Employees returns the employee repository view of the store.
func (s *Store) Employees() *Employees { return &Employees{s: s} }

// Cleanings returns the cleaning repository view of the store.
func (s *Store) Cleanings() *Cleanings { return &Cleanings{s: s} }

// WithinTx runs fn while holding the store's transaction lock.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}

	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.RLock()
	rooms := maps.Clone(s.rooms)
	cleanings := maps.Clone(s.cleanings)
	nextID := s.nextID
	s.mu.RUnlock()

	if err := fn(context.WithValue(ctx, txKey{}, true)); err != nil {
		s.mu.Lock()
		s.rooms = rooms
		s.cleanings = cleanings
		s.nextID = nextID
		s.mu.Unlock()
		return err
	}
	return nil
}

// settled waits until no transaction is running unless ctx already belongs to one.
// The returned func releases the wait.
func (s *Store) settled(ctx context.Context) func() {
	if ctx.Value(txKey{}) != nil {
		return func() {}
	}
	s.txMu.Lock()
	return s.txMu.Unlock
}

// Rooms implements repository.RoomRepository.
type Rooms struct{ s *Store }

var _ repository.RoomRepository = (*Rooms)(nil)

func (r *Rooms) FindByRoomNumber(ctx context.Context, number int) (*model.Room, error) {
	defer r.s.settled(ctx)()
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	room, ok := r.s.rooms[number]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &room, nil
}

func (r *Rooms) MarkScheduled(ctx context.Context, number int) (*model.Room, error) {
	defer r.s.settled(ctx)()
	return r.transition(number, model.StatusScheduledForCleaning)
}

func (r *Rooms) MarkBeingCleaned(ctx context.Context, number int) (*model.Room, error) {
	defer r.s.settled(ctx)()
	return r.transition(number, model.StatusBeingCleaned)
}

func (r *Rooms) MarkClean(ctx context.Context, number int) (*model.Room, error) {
	defer r.s.settled(ctx)()
	return r.transition(number, model.StatusClean)
}

func (r *Rooms) MarkAvailable(ctx context.Context, number int) (*model.Room, error) {
	defer r.s.settled(ctx)()
	return r.transition(number, model.StatusAvailable)
}

func (r *Rooms) transition(number int, to model.CleaningStatus) (*model.Room, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	room, ok := r.s.rooms[number]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if !repository.CanTransition(room.CleaningStatus, to) {
		return nil, repository.ErrInvalidTransition
	}
	room.CleaningStatus = to
	room.UpdatedAt = time.Now().UTC()
	r.s.rooms[number] = room
	return &room, nil
}

// Employees implements repository.EmployeeRepository.
type Employees struct{ s *Store }

var _ repository.EmployeeRepository = (*Employees)(nil)

func (e *Employees) FindByID(ctx context.Context, id int) (*model.Employee, error) {
	defer e.s.settled(ctx)()
	e.s.mu.RLock()
	defer e.s.mu.RUnlock()
	emp, ok := e.s.employees[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &emp, nil
}

// Cleanings implements repository.CleaningRepository.
type Cleanings struct{ s *Store }

var _ repository.CleaningRepository = (*Cleanings)(nil)

func (c *Cleanings) Save(ctx context.Context, task *model.CleaningTask) (*model.CleaningTask, error) {
	defer c.s.settled(ctx)()
	c.s.mu.Lock()
	defer c.s.mu.Unlock()

	for _, other := range c.s.cleanings {
		if other.RoomNumber == task.RoomNumber && other.ID != task.ID {
			return nil, repository.ErrDuplicate
		}
	}

	out := *task
	if out.ID == 0 {
		c.s.nextID++
		out.ID = c.s.nextID
	} else if prev, ok := c.s.cleanings[out.ID]; ok {
		out.DateAdded = prev.DateAdded
	} else if out.ID > c.s.nextID {
		c.s.nextID = out.ID
	}
	c.s.cleanings[out.ID] = out
	return &out, nil
}

func (c *Cleanings) Delete(ctx context.Context, id int64) error {
	defer c.s.settled(ctx)()
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	delete(c.s.cleanings, id)
	return nil
}

func (c *Cleanings) FindByRoom(ctx context.Context, roomNumber int) (*model.CleaningTask, error) {
	defer c.s.settled(ctx)()
	c.s.mu.RLock()
	defer c.s.mu.RUnlock()
	for _, task := range c.s.cleanings {
		if task.RoomNumber == roomNumber {
			return &task, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (c *Cleanings) List(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[model.CleaningTask], error) {
	defer c.s.settled(ctx)()
	return c.page(pq, func(model.CleaningTask) bool { return true }), nil
}

func (c *Cleanings) ListByEmployee(ctx context.Context, employeeID int, pq repository.PageQuery) (*repository.PageResult[model.CleaningTask], error) {
	defer c.s.settled(ctx)()
	return c.page(pq, func(t model.CleaningTask) bool { return t.EmployeeID == employeeID }), nil
}

func (c *Cleanings) page(pq repository.PageQuery, keep func(model.CleaningTask) bool) *repository.PageResult[model.CleaningTask] {
	c.s.mu.RLock()
	all := make([]model.CleaningTask, 0, len(c.s.cleanings))
	for _, task := range c.s.cleanings {
		if keep(task) {
			all = append(all, task)
		}
	}
	c.s.mu.RUnlock()

	slices.SortFunc(all, compareQueueOrder)

	items := make([]model.CleaningTask, 0)
	offset := max(pq.Offset, 0)
	if offset < len(all) {
		end := len(all)
		if pq.Limit > 0 && offset+pq.Limit < end {
			end = offset + pq.Limit
		}
		items = append(items, all[offset:end]...)
	}
	return &repository.PageResult[model.CleaningTask]{Items: items, Total: len(all)}
}

// compareQueueOrder sorts by priority descending, then date added and ID ascending.
func compareQueueOrder(a, b model.CleaningTask) int {
	if c := cmp.Compare(b.Priority, a.Priority); c != 0 {
		return c
	}
	if c := cmp.Compare(a.DateAdded, b.DateAdded); c != 0 {
		return c
	}
	return cmp.Compare(a.ID, b.ID)
}
