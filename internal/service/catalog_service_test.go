package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vocsched/timetable-api/internal/dto"
	"github.com/vocsched/timetable-api/internal/models"
	appErrors "github.com/vocsched/timetable-api/pkg/errors"
)

type studentCatalogStub struct {
	created *models.Student
	exists  bool
	count   int
}

func (s *studentCatalogStub) Create(ctx context.Context, student *models.Student) error {
	s.created = student
	return nil
}

func (s *studentCatalogStub) ExistsByStudentID(ctx context.Context, studentID string) (bool, error) {
	return s.exists, nil
}

func (s *studentCatalogStub) Count(ctx context.Context) (int, error) { return s.count, nil }

type instructorCatalogStub struct {
	created *models.Instructor
	count   int
}

func (s *instructorCatalogStub) Create(ctx context.Context, instructor *models.Instructor) error {
	instructor.ID = 10
	s.created = instructor
	return nil
}

func (s *instructorCatalogStub) List(ctx context.Context, filter models.InstructorFilter) ([]models.Instructor, error) {
	return nil, nil
}

func (s *instructorCatalogStub) Count(ctx context.Context) (int, error) { return s.count, nil }

type classroomCatalogStub struct {
	created *models.Classroom
	exists  bool
	count   int
}

func (s *classroomCatalogStub) Create(ctx context.Context, room *models.Classroom) error {
	s.created = room
	return nil
}

func (s *classroomCatalogStub) ExistsByCode(ctx context.Context, code string) (bool, error) {
	return s.exists, nil
}

func (s *classroomCatalogStub) List(ctx context.Context, filter models.ClassroomFilter) ([]models.Classroom, error) {
	return nil, nil
}

func (s *classroomCatalogStub) Count(ctx context.Context) (int, error) { return s.count, nil }

type curriculumCatalogStub struct {
	created *models.CourseSession
	count   int
}

func (s *curriculumCatalogStub) CreateOffering(ctx context.Context, session *models.CourseSession) error {
	s.created = session
	return nil
}

func (s *curriculumCatalogStub) Count(ctx context.Context) (int, error) { return s.count, nil }

type scheduleCounterStub struct {
	count int
}

func (s *scheduleCounterStub) Count(ctx context.Context) (int, error) { return s.count, nil }

func newCatalogFixture() (*CatalogService, *studentCatalogStub, *instructorCatalogStub, *classroomCatalogStub, *curriculumCatalogStub) {
	students := &studentCatalogStub{count: 120}
	instructors := &instructorCatalogStub{count: 15}
	classrooms := &classroomCatalogStub{count: 12}
	curriculums := &curriculumCatalogStub{count: 48}
	svc := NewCatalogService(students, instructors, classrooms, curriculums, &scheduleCounterStub{count: 300}, nil, nil)
	return svc, students, instructors, classrooms, curriculums
}

func TestCatalogServiceCreateStudent(t *testing.T) {
	svc, students, _, _, _ := newCatalogFixture()

	created, err := svc.CreateStudent(context.Background(), dto.CreateStudentRequest{
		StudentID: "S-100", FirstName: "Ada", LastName: "Lovelace",
		Department: "IT", YearLevel: "1", GroupNo: "2",
	})
	require.NoError(t, err)
	assert.Equal(t, "S-100", created.StudentID)
	assert.Equal(t, "IT_1_2", created.CohortKey())
	assert.NotNil(t, students.created)
}

func TestCatalogServiceCreateStudentConflict(t *testing.T) {
	svc, students, _, _, _ := newCatalogFixture()
	students.exists = true

	_, err := svc.CreateStudent(context.Background(), dto.CreateStudentRequest{
		StudentID: "S-100", FirstName: "Ada", LastName: "Lovelace",
		Department: "IT", YearLevel: "1", GroupNo: "2",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestCatalogServiceCreateStudentValidation(t *testing.T) {
	svc, _, _, _, _ := newCatalogFixture()

	_, err := svc.CreateStudent(context.Background(), dto.CreateStudentRequest{FirstName: "Ada"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestCatalogServiceCreateInstructorDefaultsAndBlackouts(t *testing.T) {
	svc, _, instructors, _, _ := newCatalogFixture()

	created, err := svc.CreateInstructor(context.Background(), dto.CreateInstructorRequest{
		FirstName: "Grace", LastName: "Hopper", Department: "IT",
		Blackouts: []models.BlackoutWindow{{Day: 1, FromSlot: 0, ToSlot: 3}},
	})
	require.NoError(t, err)
	assert.Equal(t, models.RoleOrdinary, created.Role)
	assert.Equal(t, int64(10), created.ID)
	assert.JSONEq(t, `[{"day":1,"from_slot":0,"to_slot":3}]`, string(instructors.created.Blackouts))
}

func TestCatalogServiceCreateClassroomConflict(t *testing.T) {
	svc, _, _, classrooms, _ := newCatalogFixture()
	classrooms.exists = true

	_, err := svc.CreateClassroom(context.Background(), dto.CreateClassroomRequest{RoomCode: "A-101", Category: "LECTURE"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestCatalogServiceCreateOfferingFixedRequiresPlacement(t *testing.T) {
	svc, _, _, _, _ := newCatalogFixture()

	_, err := svc.CreateOffering(context.Background(), dto.CreateOfferingRequest{
		SubjectCode: "HR101", SubjectName: "Homeroom", Department: "IT",
		YearLevel: "1", GroupNo: "1", ActivityType: models.ActivityFixed,
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestCatalogServiceCreateOffering(t *testing.T) {
	svc, _, _, _, curriculums := newCatalogFixture()

	day := 0
	slot := 0
	created, err := svc.CreateOffering(context.Background(), dto.CreateOfferingRequest{
		SubjectCode: "HR101", SubjectName: "Homeroom", Department: "IT",
		YearLevel: "1", GroupNo: "1", ActivityType: models.ActivityFixed,
		FixedDay: &day, FixedStartSlot: &slot,
	})
	require.NoError(t, err)
	assert.Equal(t, models.ActivityFixed, created.ActivityType)
	assert.NotNil(t, curriculums.created)
	// Hourless offerings still occupy one slot.
	assert.Equal(t, 1, created.DurationSlots())
}

func TestCatalogServiceStats(t *testing.T) {
	svc, _, _, _, _ := newCatalogFixture()

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, &dto.StatsResponse{
		Students:        120,
		Instructors:     15,
		Classrooms:      12,
		Curriculums:     48,
		ScheduleEntries: 300,
	}, stats)
}
