package models

import "time"

// GeneratedScheduleEntry is one occupied slot of the winning timetable, as
// persisted to the result sink. A multi-slot session expands into one entry
// per occupied slot.
type GeneratedScheduleEntry struct {
	ID           string    `db:"id" json:"id"`
	SubjectCode  string    `db:"subject_code" json:"subject_code"`
	SubjectName  string    `db:"subject_name" json:"subject_name"`
	RoomCode     string    `db:"room_code" json:"room_code"`
	InstructorID int64     `db:"instructor_id" json:"instructor_id"`
	DayOfWeek    int       `db:"day_of_week" json:"day_of_week"`
	StartSlot    int       `db:"start_slot" json:"start_slot"`
	Department   string    `db:"department" json:"department"`
	YearLevel    string    `db:"year_level" json:"year_level"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// GeneratedScheduleFilter narrows schedule search results. Resolved ID and
// code lists come from identity lookups on the entity tables.
type GeneratedScheduleFilter struct {
	Department    string
	YearLevel     string
	SubjectCode   string
	SubjectCodes  []string
	SubjectName   string
	InstructorIDs []int64
	RoomCodes     []string
	RoomCodeLike  string
}
