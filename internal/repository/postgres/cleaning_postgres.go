package postgres

import (
	"context"
	"database/sql"
	"errors"

	"hotelapi/internal/model"
	"hotelapi/internal/repository"
)

// CleaningPostgres is a PostgreSQL implementation of repository.CleaningRepository.
// It uses database/sql with parameterized queries and contains no business logic.
type CleaningPostgres struct {
	db *sql.DB
}

// NewCleaningPostgres creates a new CleaningPostgres repository.
func NewCleaningPostgres(db *sql.DB) *CleaningPostgres {
	return &CleaningPostgres{db: db}
}

var _ repository.CleaningRepository = (*CleaningPostgres)(nil)

func scanCleaning(row rowScanner) (*model.CleaningTask, error) {
	var c model.CleaningTask
	if err := row.Scan(
		&c.ID,
		&c.RoomNumber,
		&c.EmployeeID,
		&c.DateAdded,
		&c.Priority,
	); err != nil {
		return nil, err
	}
	return &c, nil
}

// Save inserts a new task or overwrites an existing one by ID.
// date_added is written once and kept on overwrite.
func (r *CleaningPostgres) Save(ctx context.Context, task *model.CleaningTask) (*model.CleaningTask, error) {
	var row *sql.Row
	db := conn(ctx, r.db)
	if task.ID == 0 {
		const q = `
			INSERT INTO cleanings (room_number, employee_id, date_added, priority)
			VALUES ($1, $2, $3, $4)
			RETURNING id, room_number, employee_id, date_added, priority
		`
		row = db.QueryRowContext(ctx, q, task.RoomNumber, task.EmployeeID, task.DateAdded, task.Priority)
	} else {
		const q = `
			INSERT INTO cleanings (id, room_number, employee_id, date_added, priority)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (id) DO UPDATE
			SET room_number = EXCLUDED.room_number,
			    employee_id = EXCLUDED.employee_id,
			    priority    = EXCLUDED.priority
			RETURNING id, room_number, employee_id, date_added, priority
		`
		row = db.QueryRowContext(ctx, q, task.ID, task.RoomNumber, task.EmployeeID, task.DateAdded, task.Priority)
	}

	out, err := scanCleaning(row)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, repository.ErrDuplicate
		}
		return nil, err
	}
	return out, nil
}

// Delete removes a task by ID. It does not return an error if the row does not exist.
func (r *CleaningPostgres) Delete(ctx context.Context, id int64) error {
	const q = `DELETE FROM cleanings WHERE id = $1`
	if _, err := conn(ctx, r.db).ExecContext(ctx, q, id); err != nil {
		return err
	}
	return nil
}

// FindByRoom fetches the task scheduled for a room.
func (r *CleaningPostgres) FindByRoom(ctx context.Context, roomNumber int) (*model.CleaningTask, error) {
	const q = `
		SELECT id, room_number, employee_id, date_added, priority
		FROM cleanings
		WHERE room_number = $1
	`
	c, err := scanCleaning(conn(ctx, r.db).QueryRowContext(ctx, q, roomNumber))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

// List returns tasks in queue order using LIMIT/OFFSET pagination and a total count.
func (r *CleaningPostgres) List(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[model.CleaningTask], error) {
	db := conn(ctx, r.db)

	const qCount = `SELECT COUNT(*) FROM cleanings`
	var total int
	if err := db.QueryRowContext(ctx, qCount).Scan(&total); err != nil {
		return nil, err
	}

	const qList = `
		SELECT id, room_number, employee_id, date_added, priority
		FROM cleanings
		ORDER BY priority DESC, date_added ASC, id ASC
		LIMIT $1 OFFSET $2
	`
	items, err := r.query(ctx, db, qList, pq.Limit, pq.Offset)
	if err != nil {
		return nil, err
	}
	return &repository.PageResult[model.CleaningTask]{Items: items, Total: total}, nil
}

// ListByEmployee returns the employee's tasks in queue order and their total count.
func (r *CleaningPostgres) ListByEmployee(ctx context.Context, employeeID int, pq repository.PageQuery) (*repository.PageResult[model.CleaningTask], error) {
	db := conn(ctx, r.db)

	const qCount = `SELECT COUNT(*) FROM cleanings WHERE employee_id = $1`
	var total int
	if err := db.QueryRowContext(ctx, qCount, employeeID).Scan(&total); err != nil {
		return nil, err
	}

	const qList = `
		SELECT id, room_number, employee_id, date_added, priority
		FROM cleanings
		WHERE employee_id = $1
		ORDER BY priority DESC, date_added ASC, id ASC
		LIMIT $2 OFFSET $3
	`
	items, err := r.query(ctx, db, qList, employeeID, pq.Limit, pq.Offset)
	if err != nil {
		return nil, err
	}
	return &repository.PageResult[model.CleaningTask]{Items: items, Total: total}, nil
}

func (r *CleaningPostgres) query(ctx context.Context, db querier, q string, args ...any) ([]model.CleaningTask, error) {
	rows, err := db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.CleaningTask, 0)
	for rows.Next() {
		c, err := scanCleaning(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
