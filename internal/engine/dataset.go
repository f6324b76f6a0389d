package engine

import (
	"encoding/json"
	"strings"

	"github.com/vocsched/timetable-api/internal/models"
	apperrors "github.com/vocsched/timetable-api/pkg/errors"
)

// Session is the solver-side view of one schedulable teaching block. All
// cross-references (rooms, instructors, cohorts) are resolved to dense
// indices so the hot evaluation path never touches strings.
type Session struct {
	SubjectCode string
	SubjectName string
	Duration    int
	Department  string
	YearLevel   string
	GroupNo     string
	Cohort      int

	Fixed     bool
	FixedDay  int
	FixedSlot int
	FixedRoom int

	RoomCategory string
	// Eligible holds indices into Dataset.Instructors. Never empty: when a
	// session declares no resolvable names, every instructor is eligible.
	Eligible []int
	// Advisor is the index of the mandated advisor for fixed sessions, -1
	// when unset or unresolvable.
	Advisor int
}

// Room is the solver-side view of a classroom.
type Room struct {
	Code     string
	Category string
}

// Instructor is the solver-side view of a staff member.
type Instructor struct {
	ID         int64
	Name       string
	Department string
	Head       bool
	MinHours   int
	MaxHours   int
	FullWeek   bool
	Blackouts  []models.BlackoutWindow
}

// Dataset is the immutable domain model a run evaluates against. Built once
// per generation request and shared read-only across all run goroutines.
type Dataset struct {
	Sessions    []Session
	Rooms       []Room
	Instructors []Instructor
	Cohorts     []string

	allInstructors  []int
	instructorIndex map[int64]int
	roomsByCategory map[string][]int
	restricted      map[string]bool
}

const (
	defaultMinHours     = 18
	defaultHeadMaxHours = 24
)

// CandidateRooms returns the room indices an unfixed session may be placed
// in: category-matching rooms when the session demands a category, every
// room otherwise. A demanded category with no matching room degrades to
// room 0, a documented quirk of the source data model kept rather than
// silently widened.
func (d *Dataset) CandidateRooms(s *Session) []int {
	if s.RoomCategory != "" {
		if rooms := d.roomsByCategory[s.RoomCategory]; len(rooms) > 0 {
			return rooms
		}
		return []int{0}
	}
	return d.allRooms()
}

func (d *Dataset) allRooms() []int {
	rooms := make([]int, len(d.Rooms))
	for i := range rooms {
		rooms[i] = i
	}
	return rooms
}

// RestrictedCategory reports whether any session demands the given room
// category. Rooms of such categories are reserved for the demanding sessions.
func (d *Dataset) RestrictedCategory(category string) bool {
	return d.restricted[category]
}

// InstructorIndex resolves a staff ID to its dense index, -1 when unknown.
func (d *Dataset) InstructorIndex(id int64) int {
	if i, ok := d.instructorIndex[id]; ok {
		return i
	}
	return -1
}

// BuildDataset resolves raw catalog rows into the dense domain model. All
// three collections must be non-empty; an evolutionary run over a partial
// catalog would silently produce garbage.
func BuildDataset(sessions []models.CourseSession, rooms []models.Classroom, instructors []models.Instructor) (*Dataset, error) {
	if len(sessions) == 0 || len(rooms) == 0 || len(instructors) == 0 {
		return nil, apperrors.ErrIncompleteData
	}

	d := &Dataset{
		Sessions:        make([]Session, 0, len(sessions)),
		Rooms:           make([]Room, 0, len(rooms)),
		Instructors:     make([]Instructor, 0, len(instructors)),
		instructorIndex: make(map[int64]int, len(instructors)),
		roomsByCategory: make(map[string][]int),
		restricted:      make(map[string]bool),
	}

	roomByCode := make(map[string]int, len(rooms))
	for i, r := range rooms {
		d.Rooms = append(d.Rooms, Room{Code: r.RoomCode, Category: r.Category})
		roomByCode[r.RoomCode] = i
		d.roomsByCategory[r.Category] = append(d.roomsByCategory[r.Category], i)
	}

	nameIndex := make(map[string]int, len(instructors))
	d.allInstructors = make([]int, len(instructors))
	for i, t := range instructors {
		in := Instructor{
			ID:         t.ID,
			Name:       strings.TrimSpace(t.FirstName + " " + t.LastName),
			Department: t.Department,
			Head:       t.Role == models.RoleDepartmentHead,
			MinHours:   t.MinHoursPerWeek,
			MaxHours:   t.MaxHoursPerWeek,
			FullWeek:   t.FullWeekRequired,
		}
		if in.MinHours <= 0 {
			in.MinHours = defaultMinHours
		}
		if in.Head && in.MaxHours <= 0 {
			in.MaxHours = defaultHeadMaxHours
		}
		if len(t.Blackouts) > 0 {
			// Malformed blackout JSON is treated as no blackouts rather
			// than failing the whole build.
			_ = json.Unmarshal(t.Blackouts, &in.Blackouts)
		}
		d.Instructors = append(d.Instructors, in)
		d.instructorIndex[t.ID] = i
		nameIndex[nameKey(t.FirstName, t.LastName)] = i
		d.allInstructors[i] = i
	}

	cohortIndex := make(map[string]int)
	for i := range sessions {
		c := &sessions[i]
		s := Session{
			SubjectCode: c.SubjectCode,
			SubjectName: c.SubjectName,
			Duration:    c.DurationSlots(),
			Department:  c.Department,
			YearLevel:   c.YearLevel,
			GroupNo:     c.GroupNo,
			Advisor:     -1,
		}

		key := c.CohortKey()
		cohort, ok := cohortIndex[key]
		if !ok {
			cohort = len(d.Cohorts)
			cohortIndex[key] = cohort
			d.Cohorts = append(d.Cohorts, key)
		}
		s.Cohort = cohort

		if c.RequiredRoomCategory != nil && *c.RequiredRoomCategory != "" {
			s.RoomCategory = *c.RequiredRoomCategory
			d.restricted[s.RoomCategory] = true
		}

		s.Eligible = resolveEligible(c, nameIndex, d.allInstructors)

		if c.ActivityType == models.ActivityFixed {
			s.Fixed = true
			if c.FixedDay != nil {
				s.FixedDay = *c.FixedDay
			}
			if c.FixedStartSlot != nil {
				s.FixedSlot = *c.FixedStartSlot
			}
			s.FixedRoom = resolveFixedRoom(c, roomByCode, d.roomsByCategory, s.RoomCategory)
			if c.AdvisorID != nil {
				if idx, ok := d.instructorIndex[*c.AdvisorID]; ok {
					s.Advisor = idx
				}
			}
		}

		d.Sessions = append(d.Sessions, s)
	}

	return d, nil
}

// resolveEligible maps the session's declared instructor names to indices.
// Unresolvable names are dropped; a fully empty result falls back to every
// instructor so the session remains assignable.
func resolveEligible(c *models.CourseSession, nameIndex map[string]int, all []int) []int {
	declared := c.DeclaredInstructors()
	if len(declared) == 0 {
		return all
	}
	eligible := make([]int, 0, len(declared))
	for _, n := range declared {
		if i, ok := nameIndex[nameKey(n.FirstName, n.LastName)]; ok {
			eligible = append(eligible, i)
		}
	}
	if len(eligible) == 0 {
		return all
	}
	return eligible
}

// resolveFixedRoom pins the mandated venue: the declared room code when it
// exists, otherwise the first room of the demanded category, otherwise room
// zero. The catalog is assumed non-empty here.
func resolveFixedRoom(c *models.CourseSession, byCode map[string]int, byCategory map[string][]int, category string) int {
	if c.FixedRoomCode != nil {
		if i, ok := byCode[*c.FixedRoomCode]; ok {
			return i
		}
	}
	if category != "" {
		if rooms := byCategory[category]; len(rooms) > 0 {
			return rooms[0]
		}
	}
	return 0
}

func nameKey(first, last string) string {
	return strings.ToLower(strings.TrimSpace(first)) + "|" + strings.ToLower(strings.TrimSpace(last))
}
