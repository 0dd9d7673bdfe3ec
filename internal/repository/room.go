package repository

import (
	"context"

	"hotelapi/internal/model"
)

// RoomRepository is the authoritative view over room cleaning status.
// Each Mark method applies one transition and returns the updated room.
type RoomRepository interface {
	// FindByRoomNumber returns the room or ErrNotFound.
	FindByRoomNumber(ctx context.Context, number int) (*model.Room, error)

	// MarkScheduled moves an Available or Clean room to ScheduledForCleaning.
	MarkScheduled(ctx context.Context, number int) (*model.Room, error)

	// MarkBeingCleaned moves a ScheduledForCleaning room to BeingCleaned.
	MarkBeingCleaned(ctx context.Context, number int) (*model.Room, error)

	// MarkClean moves a BeingCleaned room to Clean.
	MarkClean(ctx context.Context, number int) (*model.Room, error)

	// MarkAvailable releases a room back to Available from any other state.
	MarkAvailable(ctx context.Context, number int) (*model.Room, error)
}

// TransitionSources lists the states each target status may be entered from.
var TransitionSources = map[model.CleaningStatus][]model.CleaningStatus{
	model.StatusScheduledForCleaning: {model.StatusAvailable, model.StatusClean},
	model.StatusBeingCleaned:         {model.StatusScheduledForCleaning},
	model.StatusClean:                {model.StatusBeingCleaned},
	model.StatusAvailable:            {model.StatusScheduledForCleaning, model.StatusBeingCleaned, model.StatusClean},
}

// CanTransition reports whether a room in status from may move to status to.
func CanTransition(from, to model.CleaningStatus) bool {
	for _, s := range TransitionSources[to] {
		if s == from {
			return true
		}
	}
	return false
}
