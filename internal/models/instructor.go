package models

import (
	"time"

	"github.com/jmoiron/sqlx/types"
)

// Instructor roles. Department heads carry a bounded weekly load band
// instead of the ordinary minimum-hours rule.
const (
	RoleOrdinary       = "ORDINARY"
	RoleDepartmentHead = "DEPARTMENT_HEAD"
)

// BlackoutWindow is a teaching window an instructor is unavailable for,
// expressed in slot-in-day coordinates (FromSlot..ToSlot inclusive).
type BlackoutWindow struct {
	Day      int `json:"day"`
	FromSlot int `json:"from_slot"`
	ToSlot   int `json:"to_slot"`
}

// Instructor is a teaching staff record.
type Instructor struct {
	ID               int64          `db:"id" json:"id"`
	FirstName        string         `db:"first_name" json:"first_name"`
	LastName         string         `db:"last_name" json:"last_name"`
	Department       string         `db:"department" json:"department"`
	Role             string         `db:"role" json:"role"`
	MinHoursPerWeek  int            `db:"min_hours_per_week" json:"min_hours_per_week"`
	MaxHoursPerWeek  int            `db:"max_hours_per_week" json:"max_hours_per_week"`
	FullWeekRequired bool           `db:"full_week_required" json:"full_week_required"`
	Blackouts        types.JSONText `db:"blackouts" json:"blackouts,omitempty"`
	CreatedAt        time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time      `db:"updated_at" json:"updated_at"`
}

// InstructorFilter captures lookup options used by schedule search.
type InstructorFilter struct {
	FirstName  string
	LastName   string
	Department string
}
