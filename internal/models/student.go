package models

import "time"

// Student belongs to a cohort (department + year level + group).
type Student struct {
	ID         string    `db:"id" json:"id"`
	StudentID  string    `db:"student_id" json:"student_id"`
	FirstName  string    `db:"first_name" json:"first_name"`
	LastName   string    `db:"last_name" json:"last_name"`
	Department string    `db:"department" json:"department"`
	YearLevel  string    `db:"year_level" json:"year_level"`
	GroupNo    string    `db:"group_no" json:"group_no"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// CohortKey identifies the student's collision domain (department + year level + group).
func (s *Student) CohortKey() string {
	return s.Department + "_" + s.YearLevel + "_" + s.GroupNo
}

// StudentFilter captures identity lookups used by schedule search.
type StudentFilter struct {
	StudentID string
	FirstName string
	LastName  string
}
