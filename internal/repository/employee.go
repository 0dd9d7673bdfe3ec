package repository

import (
	"context"

	"hotelapi/internal/model"
)

// EmployeeRepository is a read-only employee directory.
type EmployeeRepository interface {
	// FindByID returns the employee or ErrNotFound.
	FindByID(ctx context.Context, id int) (*model.Employee, error)
}
