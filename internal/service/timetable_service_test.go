package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vocsched/timetable-api/internal/dto"
	"github.com/vocsched/timetable-api/internal/models"
	"github.com/vocsched/timetable-api/pkg/config"
	appErrors "github.com/vocsched/timetable-api/pkg/errors"
)

type catalogStub struct {
	sessions    []models.CourseSession
	rooms       []models.Classroom
	instructors []models.Instructor
	err         error
}

func (c *catalogStub) ListSessions(ctx context.Context) ([]models.CourseSession, error) {
	return c.sessions, c.err
}

func (c *catalogStub) List(ctx context.Context, filter models.ClassroomFilter) ([]models.Classroom, error) {
	return c.rooms, c.err
}

type instructorSourceStub struct {
	instructors []models.Instructor
}

func (c *instructorSourceStub) List(ctx context.Context, filter models.InstructorFilter) ([]models.Instructor, error) {
	return c.instructors, nil
}

type sinkStub struct {
	cleared bool
	entries []models.GeneratedScheduleEntry
	err     error
}

func (s *sinkStub) Clear(ctx context.Context) error {
	s.cleared = true
	return s.err
}

func (s *sinkStub) InsertBatch(ctx context.Context, entries []models.GeneratedScheduleEntry) error {
	if s.err != nil {
		return s.err
	}
	s.entries = append(s.entries, entries...)
	return nil
}

type invalidatorStub struct {
	calls int
}

func (i *invalidatorStub) InvalidateCache(ctx context.Context) {
	i.calls++
}

func strPtr(s string) *string { return &s }

func schedulerTestConfig() config.SchedulerConfig {
	return config.SchedulerConfig{
		Days:          5,
		SlotsPerDay:   10,
		LunchSlot:     4,
		ClosingSlot:   9,
		DefaultPreset: "draft",
		Strategy:      "greedy",
		Workers:       2,
		ExportBatch:   500,
	}
}

func testCatalog() (*catalogStub, *instructorSourceStub) {
	catalog := &catalogStub{
		sessions: []models.CourseSession{
			{
				SubjectCode: "CS101", SubjectName: "Programming I", TheoryHours: 1,
				Department: "IT", YearLevel: "1", GroupNo: "1", ActivityType: models.ActivityRegular,
				Instructor1FirstName: strPtr("Ada"), Instructor1LastName: strPtr("Lovelace"),
			},
			{
				SubjectCode: "CS102", SubjectName: "Discrete Math", TheoryHours: 2,
				Department: "IT", YearLevel: "1", GroupNo: "2", ActivityType: models.ActivityRegular,
				Instructor1FirstName: strPtr("Alan"), Instructor1LastName: strPtr("Turing"),
			},
		},
		rooms: []models.Classroom{
			{ID: "r1", RoomCode: "A-101", Category: "LECTURE"},
			{ID: "r2", RoomCode: "A-102", Category: "LECTURE"},
		},
	}
	instructors := &instructorSourceStub{
		instructors: []models.Instructor{
			{ID: 1, FirstName: "Ada", LastName: "Lovelace", Department: "IT", Role: models.RoleOrdinary, MinHoursPerWeek: 1},
			{ID: 2, FirstName: "Alan", LastName: "Turing", Department: "IT", Role: models.RoleOrdinary, MinHoursPerWeek: 1},
		},
	}
	return catalog, instructors
}

func TestTimetableServiceGenerateSync(t *testing.T) {
	catalog, instructors := testCatalog()
	sink := &sinkStub{}
	svc := NewTimetableService(catalog, catalog, instructors, sink, schedulerTestConfig(), nil, nil, nil)

	resp, err := svc.Generate(context.Background(), dto.GenerateTimetableRequest{Preset: "draft", Seed: 42})
	require.NoError(t, err)

	assert.Equal(t, RunStatusDone, resp.Status)
	assert.Equal(t, "draft", resp.Preset)
	assert.NotEmpty(t, resp.RunID)
	assert.True(t, sink.cleared)
	// 1 + 2 occupied slots across the two sessions.
	assert.Equal(t, 3, resp.Records)
	assert.Equal(t, 3, resp.Persisted)
	assert.Len(t, sink.entries, 3)
	assert.NotNil(t, resp.Breakdown)

	// The run is queryable afterwards.
	status, err := svc.RunStatus(resp.RunID)
	require.NoError(t, err)
	assert.Equal(t, RunStatusDone, status.Status)
}

func TestTimetableServiceGenerateDefaultsPreset(t *testing.T) {
	catalog, instructors := testCatalog()
	sink := &sinkStub{}
	svc := NewTimetableService(catalog, catalog, instructors, sink, schedulerTestConfig(), nil, nil, nil)

	resp, err := svc.Generate(context.Background(), dto.GenerateTimetableRequest{Seed: 1})
	require.NoError(t, err)
	assert.Equal(t, "draft", resp.Preset)
	assert.Equal(t, "greedy", resp.Strategy)
}

func TestTimetableServiceGenerateInvalidatesSearchCache(t *testing.T) {
	catalog, instructors := testCatalog()
	svc := NewTimetableService(catalog, catalog, instructors, &sinkStub{}, schedulerTestConfig(), nil, nil, nil)
	invalidator := &invalidatorStub{}
	svc.AttachInvalidator(invalidator)

	_, err := svc.Generate(context.Background(), dto.GenerateTimetableRequest{Preset: "draft", Seed: 42})
	require.NoError(t, err)
	assert.Equal(t, 1, invalidator.calls)
}

func TestTimetableServiceFailedRunKeepsSearchCache(t *testing.T) {
	catalog, instructors := testCatalog()
	catalog.rooms = nil
	svc := NewTimetableService(catalog, catalog, instructors, &sinkStub{}, schedulerTestConfig(), nil, nil, nil)
	invalidator := &invalidatorStub{}
	svc.AttachInvalidator(invalidator)

	_, err := svc.Generate(context.Background(), dto.GenerateTimetableRequest{Preset: "draft"})
	require.Error(t, err)
	assert.Zero(t, invalidator.calls)
}

func TestTimetableServiceGenerateUnknownPreset(t *testing.T) {
	catalog, instructors := testCatalog()
	cfg := schedulerTestConfig()
	cfg.DefaultPreset = "warp-speed"
	svc := NewTimetableService(catalog, catalog, instructors, &sinkStub{}, cfg, nil, nil, nil)

	_, err := svc.Generate(context.Background(), dto.GenerateTimetableRequest{})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnknownPreset.Code, appErrors.FromError(err).Code)
}

func TestTimetableServiceGenerateRejectsInvalidRequest(t *testing.T) {
	catalog, instructors := testCatalog()
	svc := NewTimetableService(catalog, catalog, instructors, &sinkStub{}, schedulerTestConfig(), nil, nil, nil)

	_, err := svc.Generate(context.Background(), dto.GenerateTimetableRequest{Preset: "bogus"})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestTimetableServiceGenerateIncompleteCatalog(t *testing.T) {
	catalog, instructors := testCatalog()
	catalog.rooms = nil
	svc := NewTimetableService(catalog, catalog, instructors, &sinkStub{}, schedulerTestConfig(), nil, nil, nil)

	resp, err := svc.Generate(context.Background(), dto.GenerateTimetableRequest{Preset: "draft"})
	require.Error(t, err)
	assert.ErrorIs(t, err, appErrors.ErrIncompleteData)
	assert.Equal(t, RunStatusFailed, resp.Status)

	// The failed run is recorded for later inspection.
	status, statusErr := svc.RunStatus(resp.RunID)
	require.NoError(t, statusErr)
	assert.Equal(t, RunStatusFailed, status.Status)
	assert.NotEmpty(t, status.Error)
}

func TestTimetableServiceGenerateCatalogLoadError(t *testing.T) {
	catalog, instructors := testCatalog()
	catalog.err = errors.New("connection refused")
	svc := NewTimetableService(catalog, catalog, instructors, &sinkStub{}, schedulerTestConfig(), nil, nil, nil)

	_, err := svc.Generate(context.Background(), dto.GenerateTimetableRequest{Preset: "draft"})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrInternal.Code, appErr.Code)
}

func TestTimetableServiceRunStatusUnknown(t *testing.T) {
	catalog, instructors := testCatalog()
	svc := NewTimetableService(catalog, catalog, instructors, &sinkStub{}, schedulerTestConfig(), nil, nil, nil)

	_, err := svc.RunStatus("nope")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestTimetableServiceAsyncWithoutQueue(t *testing.T) {
	catalog, instructors := testCatalog()
	svc := NewTimetableService(catalog, catalog, instructors, &sinkStub{}, schedulerTestConfig(), nil, nil, nil)

	_, err := svc.Generate(context.Background(), dto.GenerateTimetableRequest{Preset: "draft", Async: true})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrInternal.Code, appErr.Code)
}
