package postgres

import (
	"context"
	"database/sql"
	"errors"

	"hotelapi/internal/model"
	"hotelapi/internal/repository"
)

// EmployeePostgres is a PostgreSQL implementation of repository.EmployeeRepository.
type EmployeePostgres struct {
	db *sql.DB
}

// NewEmployeePostgres creates a new EmployeePostgres repository.
func NewEmployeePostgres(db *sql.DB) *EmployeePostgres {
	return &EmployeePostgres{db: db}
}

var _ repository.EmployeeRepository = (*EmployeePostgres)(nil)

// FindByID fetches a single employee by ID.
func (r *EmployeePostgres) FindByID(ctx context.Context, id int) (*model.Employee, error) {
	const q = `
		SELECT id, first_name, last_name, role
		FROM employees
		WHERE id = $1
	`
	var (
		e    model.Employee
		role string
	)
	if err := conn(ctx, r.db).QueryRowContext(ctx, q, id).Scan(
		&e.ID,
		&e.FirstName,
		&e.LastName,
		&role,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	e.Role = model.EmployeeRole(role)
	return &e, nil
}
