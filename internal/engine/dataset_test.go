package engine

import (
	"testing"

	"github.com/jmoiron/sqlx/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vocsched/timetable-api/internal/models"
	apperrors "github.com/vocsched/timetable-api/pkg/errors"
)

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }
func int64Ptr(i int64) *int64 { return &i }

func testConfig() Config {
	cfg := Config{
		Days:             5,
		SlotsPerDay:      10,
		LunchSlot:        4,
		ClosingSlot:      9,
		Population:       50,
		Generations:      50,
		Runs:             1,
		TournamentSize:   3,
		CrossoverProb:    0.8,
		MutationProb:     0.5,
		GeneMutationProb: 0.3,
		Strategy:         StrategyGreedy,
		Seed:             7,
		Workers:          2,
	}
	cfg.normalize()
	return cfg
}

func fixtureRooms() []models.Classroom {
	return []models.Classroom{
		{ID: "r1", RoomCode: "A-101", Category: "LECTURE"},
		{ID: "r2", RoomCode: "A-102", Category: "LECTURE"},
		{ID: "r3", RoomCode: "LAB-1", Category: "COMPUTER"},
	}
}

func fixtureInstructors() []models.Instructor {
	return []models.Instructor{
		{ID: 1, FirstName: "Ada", LastName: "Lovelace", Department: "IT", Role: models.RoleOrdinary, MinHoursPerWeek: 1},
		{ID: 2, FirstName: "Alan", LastName: "Turing", Department: "IT", Role: models.RoleOrdinary, MinHoursPerWeek: 1},
	}
}

func fixtureSessions() []models.CourseSession {
	return []models.CourseSession{
		{
			SubjectCode: "CS101", SubjectName: "Programming I",
			TheoryHours: 1, Department: "IT", YearLevel: "1", GroupNo: "1",
			ActivityType:         models.ActivityRegular,
			Instructor1FirstName: strPtr("Ada"), Instructor1LastName: strPtr("Lovelace"),
		},
		{
			SubjectCode: "CS102", SubjectName: "Discrete Math",
			TheoryHours: 2, Department: "IT", YearLevel: "1", GroupNo: "2",
			ActivityType:         models.ActivityRegular,
			Instructor1FirstName: strPtr("Alan"), Instructor1LastName: strPtr("Turing"),
		},
		{
			SubjectCode: "CS103", SubjectName: "Computer Lab",
			PracticeHours: 1, Department: "IT", YearLevel: "2", GroupNo: "1",
			ActivityType:         models.ActivityRegular,
			RequiredRoomCategory: strPtr("COMPUTER"),
			Instructor1FirstName: strPtr("Ada"), Instructor1LastName: strPtr("Lovelace"),
		},
	}
}

func fixtureDataset(t *testing.T) *Dataset {
	t.Helper()
	d, err := BuildDataset(fixtureSessions(), fixtureRooms(), fixtureInstructors())
	require.NoError(t, err)
	return d
}

func TestBuildDatasetRejectsEmptyCollections(t *testing.T) {
	_, err := BuildDataset(nil, fixtureRooms(), fixtureInstructors())
	assert.ErrorIs(t, err, apperrors.ErrIncompleteData)

	_, err = BuildDataset(fixtureSessions(), nil, fixtureInstructors())
	assert.ErrorIs(t, err, apperrors.ErrIncompleteData)

	_, err = BuildDataset(fixtureSessions(), fixtureRooms(), nil)
	assert.ErrorIs(t, err, apperrors.ErrIncompleteData)
}

func TestBuildDatasetResolvesReferences(t *testing.T) {
	d := fixtureDataset(t)

	require.Len(t, d.Sessions, 3)
	require.Len(t, d.Rooms, 3)
	require.Len(t, d.Instructors, 2)

	// Distinct cohorts: IT_1_1, IT_1_2, IT_2_1.
	assert.Len(t, d.Cohorts, 3)
	assert.NotEqual(t, d.Sessions[0].Cohort, d.Sessions[1].Cohort)

	assert.Equal(t, []int{0}, d.Sessions[0].Eligible)
	assert.Equal(t, []int{1}, d.Sessions[1].Eligible)
	assert.Equal(t, 2, d.Sessions[1].Duration)
	assert.Equal(t, "COMPUTER", d.Sessions[2].RoomCategory)
	assert.True(t, d.RestrictedCategory("COMPUTER"))
	assert.False(t, d.RestrictedCategory("LECTURE"))
}

func TestBuildDatasetEligibleFallsBackToAllInstructors(t *testing.T) {
	sessions := fixtureSessions()
	// An unresolvable declared name must not leave the session unassignable.
	sessions[0].Instructor1FirstName = strPtr("Grace")
	sessions[0].Instructor1LastName = strPtr("Hopper")

	d, err := BuildDataset(sessions, fixtureRooms(), fixtureInstructors())
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1}, d.Sessions[0].Eligible)
}

func TestBuildDatasetNameMatchingIsCaseInsensitive(t *testing.T) {
	sessions := fixtureSessions()
	sessions[0].Instructor1FirstName = strPtr(" ADA ")
	sessions[0].Instructor1LastName = strPtr("lovelace")

	d, err := BuildDataset(sessions, fixtureRooms(), fixtureInstructors())
	require.NoError(t, err)
	assert.Equal(t, []int{0}, d.Sessions[0].Eligible)
}

func TestBuildDatasetFixedRoomResolution(t *testing.T) {
	sessions := fixtureSessions()
	sessions[0].ActivityType = models.ActivityFixed
	sessions[0].FixedDay = intPtr(2)
	sessions[0].FixedStartSlot = intPtr(3)
	sessions[0].FixedRoomCode = strPtr("A-102")
	sessions[0].AdvisorID = int64Ptr(2)

	d, err := BuildDataset(sessions, fixtureRooms(), fixtureInstructors())
	require.NoError(t, err)

	s := d.Sessions[0]
	assert.True(t, s.Fixed)
	assert.Equal(t, 2, s.FixedDay)
	assert.Equal(t, 3, s.FixedSlot)
	assert.Equal(t, 1, s.FixedRoom)
	assert.Equal(t, 1, s.Advisor)
}

func TestBuildDatasetFixedRoomFallsBackToCategoryThenFirst(t *testing.T) {
	sessions := fixtureSessions()
	sessions[2].ActivityType = models.ActivityFixed
	sessions[2].FixedRoomCode = strPtr("NO-SUCH-ROOM")

	d, err := BuildDataset(sessions, fixtureRooms(), fixtureInstructors())
	require.NoError(t, err)
	// Unknown code with a demanded category resolves to the first room of
	// that category.
	assert.Equal(t, 2, d.Sessions[2].FixedRoom)

	sessions[2].RequiredRoomCategory = nil
	d, err = BuildDataset(sessions, fixtureRooms(), fixtureInstructors())
	require.NoError(t, err)
	assert.Equal(t, 0, d.Sessions[2].FixedRoom)
}

func TestBuildDatasetLoadDefaults(t *testing.T) {
	instructors := []models.Instructor{
		{ID: 1, FirstName: "Ada", LastName: "Lovelace", Role: models.RoleOrdinary},
		{ID: 2, FirstName: "Alan", LastName: "Turing", Role: models.RoleDepartmentHead},
	}
	d, err := BuildDataset(fixtureSessions(), fixtureRooms(), instructors)
	require.NoError(t, err)

	assert.Equal(t, defaultMinHours, d.Instructors[0].MinHours)
	assert.Equal(t, defaultMinHours, d.Instructors[1].MinHours)
	assert.Equal(t, defaultHeadMaxHours, d.Instructors[1].MaxHours)
	assert.True(t, d.Instructors[1].Head)
}

func TestBuildDatasetParsesBlackouts(t *testing.T) {
	instructors := fixtureInstructors()
	instructors[0].Blackouts = types.JSONText(`[{"day":1,"from_slot":0,"to_slot":3}]`)
	instructors[1].Blackouts = types.JSONText(`not-json`)

	d, err := BuildDataset(fixtureSessions(), fixtureRooms(), instructors)
	require.NoError(t, err)

	require.Len(t, d.Instructors[0].Blackouts, 1)
	assert.Equal(t, models.BlackoutWindow{Day: 1, FromSlot: 0, ToSlot: 3}, d.Instructors[0].Blackouts[0])
	assert.Empty(t, d.Instructors[1].Blackouts)
}

func TestCandidateRoomsRespectsCategory(t *testing.T) {
	d := fixtureDataset(t)

	assert.Equal(t, []int{2}, d.CandidateRooms(&d.Sessions[2]))
	assert.Len(t, d.CandidateRooms(&d.Sessions[0]), 3)

	// A demanded category with no matching room degrades to room 0.
	orphan := Session{RoomCategory: "GYM"}
	assert.Equal(t, []int{0}, d.CandidateRooms(&orphan))
}
