package dto

// GenerateTimetableRequest selects the search budget and strategy for a
// generation run. All fields are optional; zero values fall back to the
// configured defaults.
type GenerateTimetableRequest struct {
	Preset   string `json:"preset" validate:"omitempty,oneof=draft balanced precise" example:"balanced"`
	Strategy string `json:"strategy" validate:"omitempty,oneof=naive greedy" example:"greedy"`
	Seed     int64  `json:"seed" example:"42"`
	Async    bool   `json:"async" example:"false"`
}

// GenerateTimetableResponse reports the outcome of a finished run or the
// handle of an accepted asynchronous one.
type GenerateTimetableResponse struct {
	RunID       string             `json:"run_id"`
	Status      string             `json:"status"`
	Preset      string             `json:"preset,omitempty"`
	Strategy    string             `json:"strategy,omitempty"`
	Penalty     float64            `json:"penalty"`
	Breakdown   map[string]float64 `json:"breakdown,omitempty"`
	Runs        int                `json:"runs,omitempty"`
	Generations int                `json:"generations,omitempty"`
	ElapsedMs   int64              `json:"elapsed_ms,omitempty"`
	Records     int                `json:"records"`
	Persisted   int                `json:"persisted"`
	Error       string             `json:"error,omitempty"`
}

// ScheduleSearchRequest is the advanced search query. Mode decides which
// identity fields are consulted.
type ScheduleSearchRequest struct {
	Mode string `form:"mode" validate:"required,oneof=student instructor room subject" example:"student"`

	StudentID string `form:"student_id"`
	FirstName string `form:"first_name"`
	LastName  string `form:"last_name"`

	RoomCode string `form:"room_code"`

	SubjectCode string `form:"subject_code"`
	SubjectName string `form:"subject_name"`

	Department string `form:"department"`
	YearLevel  string `form:"year_level"`

	Page     int `form:"page" validate:"omitempty,min=1"`
	PageSize int `form:"page_size" validate:"omitempty,min=1,max=500"`
}

// StatsResponse summarises catalog and timetable volumes.
type StatsResponse struct {
	Students        int `json:"students"`
	Instructors     int `json:"instructors"`
	Classrooms      int `json:"classrooms"`
	Curriculums     int `json:"curriculums"`
	ScheduleEntries int `json:"schedule_entries"`
}
