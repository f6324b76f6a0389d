package models

import "time"

// Activity types for course sessions. FIXED sessions carry an externally
// mandated day, slot and room and are immune to optimization.
const (
	ActivityRegular = "REGULAR"
	ActivityFixed   = "FIXED"
)

// CourseSession is one schedulable teaching block: a curriculum row joined to
// its subject. Duration is derived from theory+practice hours.
type CourseSession struct {
	ID            string `db:"id" json:"id"`
	SubjectCode   string `db:"subject_code" json:"subject_code"`
	SubjectName   string `db:"subject_name" json:"subject_name"`
	TheoryHours   int    `db:"theory_hours" json:"theory_hours"`
	PracticeHours int    `db:"practice_hours" json:"practice_hours"`
	Department    string `db:"department" json:"department"`
	YearLevel     string `db:"year_level" json:"year_level"`
	GroupNo       string `db:"group_no" json:"group_no"`

	ActivityType         string  `db:"activity_type" json:"activity_type"`
	RequiredRoomCategory *string `db:"required_room_category" json:"required_room_category,omitempty"`
	FixedDay             *int    `db:"fixed_day" json:"fixed_day,omitempty"`
	FixedStartSlot       *int    `db:"fixed_start_slot" json:"fixed_start_slot,omitempty"`
	FixedRoomCode        *string `db:"fixed_room_code" json:"fixed_room_code,omitempty"`
	AdvisorID            *int64  `db:"advisor_id" json:"advisor_id,omitempty"`

	Instructor1FirstName *string `db:"instructor_1_fname" json:"instructor_1_fname,omitempty"`
	Instructor1LastName  *string `db:"instructor_1_lname" json:"instructor_1_lname,omitempty"`
	Instructor2FirstName *string `db:"instructor_2_fname" json:"instructor_2_fname,omitempty"`
	Instructor2LastName  *string `db:"instructor_2_lname" json:"instructor_2_lname,omitempty"`
	Instructor3FirstName *string `db:"instructor_3_fname" json:"instructor_3_fname,omitempty"`
	Instructor3LastName  *string `db:"instructor_3_lname" json:"instructor_3_lname,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// InstructorName is a declared first/last name pair on a session.
type InstructorName struct {
	FirstName string
	LastName  string
}

// DeclaredInstructors returns the non-empty instructor name pairs in order.
func (c *CourseSession) DeclaredInstructors() []InstructorName {
	pairs := []struct {
		first *string
		last  *string
	}{
		{c.Instructor1FirstName, c.Instructor1LastName},
		{c.Instructor2FirstName, c.Instructor2LastName},
		{c.Instructor3FirstName, c.Instructor3LastName},
	}
	names := make([]InstructorName, 0, len(pairs))
	for _, p := range pairs {
		if p.first == nil || p.last == nil {
			continue
		}
		if *p.first == "" || *p.last == "" {
			continue
		}
		names = append(names, InstructorName{FirstName: *p.first, LastName: *p.last})
	}
	return names
}

// DurationSlots derives the block length in whole slots, defaulting to one.
func (c *CourseSession) DurationSlots() int {
	total := c.TheoryHours + c.PracticeHours
	if total <= 0 {
		return 1
	}
	return total
}

// CohortKey identifies the student collision domain for this session.
func (c *CourseSession) CohortKey() string {
	return c.Department + "_" + c.YearLevel + "_" + c.GroupNo
}
