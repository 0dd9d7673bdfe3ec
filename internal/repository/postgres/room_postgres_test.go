package postgres

import (
	"context"
	"database/sql/driver"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotelapi/internal/model"
	"hotelapi/internal/repository"
)

var roomColumns = []string{"room_number", "cleaning_status", "updated_at"}

func TestRoomPostgres_FindByRoomNumber(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRoomPostgres(db)
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM rooms WHERE room_number = ?").
			WithArgs(101).
			WillReturnRows(sqlmock.NewRows(roomColumns).AddRow(101, "AVAILABLE", time.Now()))

		room, err := repo.FindByRoomNumber(ctx, 101)

		assert.NoError(t, err)
		assert.Equal(t, 101, room.Number)
		assert.Equal(t, model.StatusAvailable, room.CleaningStatus)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM rooms WHERE room_number = ?").
			WithArgs(999).
			WillReturnRows(sqlmock.NewRows(roomColumns))

		room, err := repo.FindByRoomNumber(ctx, 999)

		assert.ErrorIs(t, err, repository.ErrNotFound)
		assert.Nil(t, room)
	})

	t.Run("locks row inside a transaction", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery("SELECT (.+) FROM rooms WHERE room_number = (.+) FOR UPDATE").
			WithArgs(101).
			WillReturnRows(sqlmock.NewRows(roomColumns).AddRow(101, "CLEAN", time.Now()))
		mock.ExpectCommit()

		err := NewTransactor(db).WithinTx(ctx, func(ctx context.Context) error {
			_, err := repo.FindByRoomNumber(ctx, 101)
			return err
		})

		assert.NoError(t, err)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRoomPostgres_Transitions(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRoomPostgres(db)
	ctx := context.Background()

	tests := []struct {
		name string
		call func(ctx context.Context, n int) (*model.Room, error)
		args []any
		want model.CleaningStatus
	}{
		{
			name: "scheduled",
			call: repo.MarkScheduled,
			args: []any{"AVAILABLE", "CLEAN"},
			want: model.StatusScheduledForCleaning,
		},
		{
			name: "being cleaned",
			call: repo.MarkBeingCleaned,
			args: []any{"SCHEDULED_FOR_CLEANING"},
			want: model.StatusBeingCleaned,
		},
		{
			name: "clean",
			call: repo.MarkClean,
			args: []any{"BEING_CLEANED"},
			want: model.StatusClean,
		},
		{
			name: "available",
			call: repo.MarkAvailable,
			args: []any{"SCHEDULED_FOR_CLEANING", "BEING_CLEANED", "CLEAN"},
			want: model.StatusAvailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			driverArgs := []driver.Value{101, string(tt.want)}
			for _, a := range tt.args {
				driverArgs = append(driverArgs, a)
			}

			mock.ExpectQuery("UPDATE rooms SET cleaning_status = (.+) WHERE room_number = (.+) AND cleaning_status IN").
				WithArgs(driverArgs...).
				WillReturnRows(sqlmock.NewRows(roomColumns).AddRow(101, string(tt.want), time.Now()))

			room, err := tt.call(ctx, 101)

			assert.NoError(t, err)
			assert.Equal(t, tt.want, room.CleaningStatus)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRoomPostgres_TransitionFailures(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRoomPostgres(db)
	ctx := context.Background()

	t.Run("missing room", func(t *testing.T) {
		mock.ExpectQuery("UPDATE rooms").WillReturnRows(sqlmock.NewRows(roomColumns))
		mock.ExpectQuery("SELECT EXISTS").
			WithArgs(999).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

		room, err := repo.MarkBeingCleaned(ctx, 999)

		assert.ErrorIs(t, err, repository.ErrNotFound)
		assert.Nil(t, room)
	})

	t.Run("illegal source state", func(t *testing.T) {
		mock.ExpectQuery("UPDATE rooms").WillReturnRows(sqlmock.NewRows(roomColumns))
		mock.ExpectQuery("SELECT EXISTS").
			WithArgs(101).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

		room, err := repo.MarkClean(ctx, 101)

		assert.ErrorIs(t, err, repository.ErrInvalidTransition)
		assert.Nil(t, room)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}
