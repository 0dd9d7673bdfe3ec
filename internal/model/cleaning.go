package model

// CleaningTask represents outstanding housekeeping work on one room.
// At most one task exists per room, and only while the room is scheduled for or being cleaned.
//
// DateAdded is expressed in milliseconds since the Unix epoch and never changes after creation.
type CleaningTask struct {
	ID         int64 `json:"id"`
	RoomNumber int   `json:"room_number"`
	EmployeeID int   `json:"employee_id"`
	DateAdded  int64 `json:"date_added"`
	Priority   int   `json:"priority"`
}
