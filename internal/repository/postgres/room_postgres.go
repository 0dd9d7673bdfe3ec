package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"hotelapi/internal/model"
	"hotelapi/internal/repository"
)

// RoomPostgres is a PostgreSQL implementation of repository.RoomRepository.
type RoomPostgres struct {
	db *sql.DB
}

// NewRoomPostgres creates a new RoomPostgres repository.
func NewRoomPostgres(db *sql.DB) *RoomPostgres {
	return &RoomPostgres{db: db}
}

var _ repository.RoomRepository = (*RoomPostgres)(nil)

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRoom(row rowScanner) (*model.Room, error) {
	var (
		room   model.Room
		status string
	)
	if err := row.Scan(&room.Number, &status, &room.UpdatedAt); err != nil {
		return nil, err
	}
	room.CleaningStatus = model.CleaningStatus(status)
	return &room, nil
}

// FindByRoomNumber fetches a room. Inside a transaction the row is locked until commit.
func (r *RoomPostgres) FindByRoomNumber(ctx context.Context, number int) (*model.Room, error) {
	q := `
		SELECT room_number, cleaning_status, updated_at
		FROM rooms
		WHERE room_number = $1
	`
	if inTx(ctx) {
		q += ` FOR UPDATE`
	}
	room, err := scanRoom(conn(ctx, r.db).QueryRowContext(ctx, q, number))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return room, nil
}

// MarkScheduled moves the room to SCHEDULED_FOR_CLEANING.
func (r *RoomPostgres) MarkScheduled(ctx context.Context, number int) (*model.Room, error) {
	return r.transition(ctx, number, model.StatusScheduledForCleaning)
}

// MarkBeingCleaned moves the room to BEING_CLEANED.
func (r *RoomPostgres) MarkBeingCleaned(ctx context.Context, number int) (*model.Room, error) {
	return r.transition(ctx, number, model.StatusBeingCleaned)
}

// MarkClean moves the room to CLEAN.
func (r *RoomPostgres) MarkClean(ctx context.Context, number int) (*model.Room, error) {
	return r.transition(ctx, number, model.StatusClean)
}

// MarkAvailable moves the room back to AVAILABLE.
func (r *RoomPostgres) MarkAvailable(ctx context.Context, number int) (*model.Room, error) {
	return r.transition(ctx, number, model.StatusAvailable)
}

// transition applies a conditional update guarded by the legal source states.
// When no row changes, a second query tells a missing room apart from an illegal transition.
func (r *RoomPostgres) transition(ctx context.Context, number int, to model.CleaningStatus) (*model.Room, error) {
	from := repository.TransitionSources[to]
	args := make([]any, 0, len(from)+2)
	args = append(args, number, string(to))
	placeholders := make([]string, len(from))
	for i, s := range from {
		args = append(args, string(s))
		placeholders[i] = fmt.Sprintf("$%d", i+3)
	}

	q := fmt.Sprintf(`
		UPDATE rooms
		SET cleaning_status = $2, updated_at = now()
		WHERE room_number = $1 AND cleaning_status IN (%s)
		RETURNING room_number, cleaning_status, updated_at
	`, strings.Join(placeholders, ", "))

	db := conn(ctx, r.db)
	room, err := scanRoom(db.QueryRowContext(ctx, q, args...))
	if err == nil {
		return room, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	const qExists = `SELECT EXISTS (SELECT 1 FROM rooms WHERE room_number = $1)`
	var exists bool
	if err := db.QueryRowContext(ctx, qExists, number).Scan(&exists); err != nil {
		return nil, err
	}
	if !exists {
		return nil, repository.ErrNotFound
	}
	return nil, repository.ErrInvalidTransition
}
