package repository

import (
	"context"

	"hotelapi/internal/model"
)

// CleaningRepository defines data access for cleaning tasks.
// No business logic here, only persistence operations.
// Listings are ordered by priority descending, then date added ascending.
type CleaningRepository interface {
	// Save inserts the task when its ID is zero and assigns one; otherwise it overwrites the stored task.
	// Returns ErrDuplicate when the room already has a different task.
	Save(ctx context.Context, task *model.CleaningTask) (*model.CleaningTask, error)

	// Delete removes a task by ID. It returns nil if the row was deleted or did not exist.
	Delete(ctx context.Context, id int64) error

	// FindByRoom returns the task for the room or ErrNotFound.
	FindByRoom(ctx context.Context, roomNumber int) (*model.CleaningTask, error)

	// List returns a page of all tasks and the total count.
	List(ctx context.Context, pq PageQuery) (*PageResult[model.CleaningTask], error)

	// ListByEmployee returns a page of tasks assigned to the employee and their total count.
	ListByEmployee(ctx context.Context, employeeID int, pq PageQuery) (*PageResult[model.CleaningTask], error)
}
