package dto

import "github.com/vocsched/timetable-api/internal/models"

// CreateStudentRequest registers a student into a cohort.
type CreateStudentRequest struct {
	StudentID  string `json:"student_id" validate:"required"`
	FirstName  string `json:"first_name" validate:"required"`
	LastName   string `json:"last_name" validate:"required"`
	Department string `json:"department" validate:"required"`
	YearLevel  string `json:"year_level" validate:"required"`
	GroupNo    string `json:"group_no" validate:"required"`
}

// CreateInstructorRequest registers a teaching staff member.
type CreateInstructorRequest struct {
	FirstName        string                  `json:"first_name" validate:"required"`
	LastName         string                  `json:"last_name" validate:"required"`
	Department       string                  `json:"department" validate:"required"`
	Role             string                  `json:"role" validate:"omitempty,oneof=ORDINARY DEPARTMENT_HEAD"`
	MinHoursPerWeek  int                     `json:"min_hours_per_week" validate:"omitempty,min=0"`
	MaxHoursPerWeek  int                     `json:"max_hours_per_week" validate:"omitempty,min=0"`
	FullWeekRequired bool                    `json:"full_week_required"`
	Blackouts        []models.BlackoutWindow `json:"blackouts" validate:"omitempty,dive"`
}

// CreateClassroomRequest registers a teaching venue.
type CreateClassroomRequest struct {
	RoomCode        string `json:"room_code" validate:"required"`
	Category        string `json:"category" validate:"required"`
	Capacity        int    `json:"capacity" validate:"omitempty,min=0"`
	Building        string `json:"building"`
	DepartmentOwner string `json:"department_owner"`
}

// CreateOfferingRequest registers a subject and the cohort it is taught to.
type CreateOfferingRequest struct {
	SubjectCode   string `json:"subject_code" validate:"required"`
	SubjectName   string `json:"subject_name" validate:"required"`
	TheoryHours   int    `json:"theory_hours" validate:"omitempty,min=0"`
	PracticeHours int    `json:"practice_hours" validate:"omitempty,min=0"`
	Department    string `json:"department" validate:"required"`
	YearLevel     string `json:"year_level" validate:"required"`
	GroupNo       string `json:"group_no" validate:"required"`

	ActivityType         string  `json:"activity_type" validate:"omitempty,oneof=REGULAR FIXED"`
	RequiredRoomCategory *string `json:"required_room_category,omitempty"`
	FixedDay             *int    `json:"fixed_day,omitempty" validate:"omitempty,min=0"`
	FixedStartSlot       *int    `json:"fixed_start_slot,omitempty" validate:"omitempty,min=0"`
	FixedRoomCode        *string `json:"fixed_room_code,omitempty"`
	AdvisorID            *int64  `json:"advisor_id,omitempty"`

	Instructor1FirstName *string `json:"instructor_1_fname,omitempty"`
	Instructor1LastName  *string `json:"instructor_1_lname,omitempty"`
	Instructor2FirstName *string `json:"instructor_2_fname,omitempty"`
	Instructor2LastName  *string `json:"instructor_2_lname,omitempty"`
	Instructor3FirstName *string `json:"instructor_3_fname,omitempty"`
	Instructor3LastName  *string `json:"instructor_3_lname,omitempty"`
}
