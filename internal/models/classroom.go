package models

import "time"

// Classroom is a bookable teaching venue.
type Classroom struct {
	ID              string    `db:"id" json:"id"`
	RoomCode        string    `db:"room_code" json:"room_code"`
	Category        string    `db:"category" json:"category"`
	Capacity        int       `db:"capacity" json:"capacity"`
	Building        string    `db:"building" json:"building"`
	DepartmentOwner *string   `db:"department_owner" json:"department_owner,omitempty"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}

// ClassroomFilter captures lookup options used by schedule search.
type ClassroomFilter struct {
	RoomCode        string
	Category        string
	Building        string
	DepartmentOwner string
}
