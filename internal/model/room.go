package model

import "time"

// CleaningStatus is the housekeeping state of a room.
type CleaningStatus string

const (
	StatusAvailable            CleaningStatus = "AVAILABLE"
	StatusScheduledForCleaning CleaningStatus = "SCHEDULED_FOR_CLEANING"
	StatusBeingCleaned         CleaningStatus = "BEING_CLEANED"
	StatusClean                CleaningStatus = "CLEAN"
)

// Valid reports whether s is one of the known statuses.
func (s CleaningStatus) Valid() bool {
	switch s {
	case StatusAvailable, StatusScheduledForCleaning, StatusBeingCleaned, StatusClean:
		return true
	}
	return false
}

// Room is a lodging unit identified by its room number.
// The cleaning status is owned by the room repository; services change it only through transitions.
type Room struct {
	Number         int            `json:"room_number"`
	CleaningStatus CleaningStatus `json:"cleaning_status"`
	UpdatedAt      time.Time      `json:"updated_at"`
}
