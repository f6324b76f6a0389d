package service

import (
	"context"
	"encoding/json"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/vocsched/timetable-api/internal/dto"
	"github.com/vocsched/timetable-api/internal/models"
	appErrors "github.com/vocsched/timetable-api/pkg/errors"
)

type studentCatalog interface {
	Create(ctx context.Context, student *models.Student) error
	ExistsByStudentID(ctx context.Context, studentID string) (bool, error)
	Count(ctx context.Context) (int, error)
}

type instructorCatalog interface {
	Create(ctx context.Context, instructor *models.Instructor) error
	List(ctx context.Context, filter models.InstructorFilter) ([]models.Instructor, error)
	Count(ctx context.Context) (int, error)
}

type classroomCatalog interface {
	Create(ctx context.Context, room *models.Classroom) error
	ExistsByCode(ctx context.Context, code string) (bool, error)
	List(ctx context.Context, filter models.ClassroomFilter) ([]models.Classroom, error)
	Count(ctx context.Context) (int, error)
}

type curriculumCatalog interface {
	CreateOffering(ctx context.Context, session *models.CourseSession) error
	Count(ctx context.Context) (int, error)
}

type scheduleCounter interface {
	Count(ctx context.Context) (int, error)
}

// CatalogService manages the scheduling catalog: students, instructors,
// classrooms and curriculum offerings.
type CatalogService struct {
	students    studentCatalog
	instructors instructorCatalog
	classrooms  classroomCatalog
	curriculums curriculumCatalog
	schedules   scheduleCounter

	validator *validator.Validate
	logger    *zap.Logger
}

// NewCatalogService constructs the catalog service.
func NewCatalogService(
	students studentCatalog,
	instructors instructorCatalog,
	classrooms classroomCatalog,
	curriculums curriculumCatalog,
	schedules scheduleCounter,
	validate *validator.Validate,
	logger *zap.Logger,
) *CatalogService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogService{
		students:    students,
		instructors: instructors,
		classrooms:  classrooms,
		curriculums: curriculums,
		schedules:   schedules,
		validator:   validate,
		logger:      logger,
	}
}

// CreateStudent registers a new student.
func (s *CatalogService) CreateStudent(ctx context.Context, req dto.CreateStudentRequest) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student payload")
	}
	exists, err := s.students.ExistsByStudentID(ctx, req.StudentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to validate student id")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "student id already registered")
	}
	student := &models.Student{
		StudentID:  req.StudentID,
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Department: req.Department,
		YearLevel:  req.YearLevel,
		GroupNo:    req.GroupNo,
	}
	if err := s.students.Create(ctx, student); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create student")
	}
	return student, nil
}

// CreateInstructor registers a new teaching staff member.
func (s *CatalogService) CreateInstructor(ctx context.Context, req dto.CreateInstructorRequest) (*models.Instructor, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid instructor payload")
	}
	role := req.Role
	if role == "" {
		role = models.RoleOrdinary
	}
	blackouts, err := json.Marshal(req.Blackouts)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid blackout windows")
	}
	instructor := &models.Instructor{
		FirstName:        req.FirstName,
		LastName:         req.LastName,
		Department:       req.Department,
		Role:             role,
		MinHoursPerWeek:  req.MinHoursPerWeek,
		MaxHoursPerWeek:  req.MaxHoursPerWeek,
		FullWeekRequired: req.FullWeekRequired,
		Blackouts:        blackouts,
	}
	if err := s.instructors.Create(ctx, instructor); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create instructor")
	}
	return instructor, nil
}

// CreateClassroom registers a new teaching venue.
func (s *CatalogService) CreateClassroom(ctx context.Context, req dto.CreateClassroomRequest) (*models.Classroom, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid classroom payload")
	}
	exists, err := s.classrooms.ExistsByCode(ctx, req.RoomCode)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to validate room code")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "room code already registered")
	}
	room := &models.Classroom{
		RoomCode: req.RoomCode,
		Category: req.Category,
		Capacity: req.Capacity,
		Building: req.Building,
	}
	if req.DepartmentOwner != "" {
		room.DepartmentOwner = &req.DepartmentOwner
	}
	if err := s.classrooms.Create(ctx, room); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create classroom")
	}
	return room, nil
}

// CreateOffering registers a subject together with the cohort it is taught
// to. Fixed offerings must carry their mandated day and slot.
func (s *CatalogService) CreateOffering(ctx context.Context, req dto.CreateOfferingRequest) (*models.CourseSession, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid offering payload")
	}
	activity := req.ActivityType
	if activity == "" {
		activity = models.ActivityRegular
	}
	if activity == models.ActivityFixed && (req.FixedDay == nil || req.FixedStartSlot == nil) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "fixed offerings require fixed_day and fixed_start_slot")
	}
	session := &models.CourseSession{
		SubjectCode:          req.SubjectCode,
		SubjectName:          req.SubjectName,
		TheoryHours:          req.TheoryHours,
		PracticeHours:        req.PracticeHours,
		Department:           req.Department,
		YearLevel:            req.YearLevel,
		GroupNo:              req.GroupNo,
		ActivityType:         activity,
		RequiredRoomCategory: req.RequiredRoomCategory,
		FixedDay:             req.FixedDay,
		FixedStartSlot:       req.FixedStartSlot,
		FixedRoomCode:        req.FixedRoomCode,
		AdvisorID:            req.AdvisorID,
		Instructor1FirstName: req.Instructor1FirstName,
		Instructor1LastName:  req.Instructor1LastName,
		Instructor2FirstName: req.Instructor2FirstName,
		Instructor2LastName:  req.Instructor2LastName,
		Instructor3FirstName: req.Instructor3FirstName,
		Instructor3LastName:  req.Instructor3LastName,
	}
	if err := s.curriculums.CreateOffering(ctx, session); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create offering")
	}
	return session, nil
}

// ListClassrooms returns venues matching the filter.
func (s *CatalogService) ListClassrooms(ctx context.Context, filter models.ClassroomFilter) ([]models.Classroom, error) {
	rooms, err := s.classrooms.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list classrooms")
	}
	return rooms, nil
}

// ListInstructors returns staff matching the filter.
func (s *CatalogService) ListInstructors(ctx context.Context, filter models.InstructorFilter) ([]models.Instructor, error) {
	instructors, err := s.instructors.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list instructors")
	}
	return instructors, nil
}

// Stats returns catalog and timetable volume counters.
func (s *CatalogService) Stats(ctx context.Context) (*dto.StatsResponse, error) {
	stats := &dto.StatsResponse{}
	counts := []struct {
		dest  *int
		name  string
		count func(context.Context) (int, error)
	}{
		{&stats.Students, "students", s.students.Count},
		{&stats.Instructors, "instructors", s.instructors.Count},
		{&stats.Classrooms, "classrooms", s.classrooms.Count},
		{&stats.Curriculums, "curriculums", s.curriculums.Count},
		{&stats.ScheduleEntries, "schedule entries", s.schedules.Count},
	}
	for _, c := range counts {
		total, err := c.count(ctx)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count "+c.name)
		}
		*c.dest = total
	}
	return stats, nil
}
