package service

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/vocsched/timetable-api/internal/dto"
	"github.com/vocsched/timetable-api/internal/models"
	appErrors "github.com/vocsched/timetable-api/pkg/errors"
)

type scheduleSearcher interface {
	Search(ctx context.Context, filter models.GeneratedScheduleFilter, page, pageSize int) ([]models.GeneratedScheduleEntry, int, error)
}

type studentFinder interface {
	Find(ctx context.Context, filter models.StudentFilter) ([]models.Student, error)
}

type instructorResolver interface {
	IDsMatching(ctx context.Context, filter models.InstructorFilter) ([]int64, error)
}

type roomResolver interface {
	CodesMatching(ctx context.Context, fragment string) ([]string, error)
}

type subjectResolver interface {
	SubjectCodesByName(ctx context.Context, name string) ([]string, error)
}

type cachedSearchResult struct {
	Entries []models.GeneratedScheduleEntry `json:"entries"`
	Total   int                             `json:"total"`
}

// SearchService answers advanced timetable queries: who, where and when. A
// query names an identity (student, instructor, room or subject); the
// service resolves it against the catalog and narrows the persisted
// timetable accordingly.
type SearchService struct {
	schedules   scheduleSearcher
	students    studentFinder
	instructors instructorResolver
	rooms       roomResolver
	subjects    subjectResolver

	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSearchService constructs the search service. The cache may be nil.
func NewSearchService(
	schedules scheduleSearcher,
	students studentFinder,
	instructors instructorResolver,
	rooms roomResolver,
	subjects subjectResolver,
	cache *CacheService,
	validate *validator.Validate,
	logger *zap.Logger,
) *SearchService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SearchService{
		schedules:   schedules,
		students:    students,
		instructors: instructors,
		rooms:       rooms,
		subjects:    subjects,
		cache:       cache,
		validator:   validate,
		logger:      logger,
	}
}

// Search resolves the query identity and returns matching timetable entries.
// An identity that resolves to nothing yields an empty result, not an error.
func (s *SearchService) Search(ctx context.Context, req dto.ScheduleSearchRequest) ([]models.GeneratedScheduleEntry, *models.Pagination, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid search query")
	}

	page := req.Page
	if page < 1 {
		page = 1
	}
	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = 100
	}

	key := searchCacheKey(req)
	if s.cache.Enabled() {
		var cached cachedSearchResult
		if hit, _ := s.cache.Get(ctx, key, &cached); hit {
			return cached.Entries, models.NewPagination(page, pageSize, cached.Total), nil
		}
	}

	filter, empty, err := s.resolveFilter(ctx, req)
	if err != nil {
		return nil, nil, err
	}
	if empty {
		return []models.GeneratedScheduleEntry{}, models.NewPagination(page, pageSize, 0), nil
	}

	entries, total, err := s.schedules.Search(ctx, filter, page, pageSize)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to search timetable")
	}

	if s.cache.Enabled() {
		_ = s.cache.Set(ctx, key, cachedSearchResult{Entries: entries, Total: total}, 0)
	}
	return entries, models.NewPagination(page, pageSize, total), nil
}

// InvalidateCache drops every cached search result. Called after a new
// timetable is generated.
func (s *SearchService) InvalidateCache(ctx context.Context) {
	if err := s.cache.Invalidate(ctx, "schedule:search:*"); err != nil {
		s.logger.Warn("search cache invalidation failed", zap.Error(err))
	}
}

// resolveFilter maps the query identity onto a schedule filter. The empty
// flag is set when the identity resolves to no catalog entity at all.
func (s *SearchService) resolveFilter(ctx context.Context, req dto.ScheduleSearchRequest) (models.GeneratedScheduleFilter, bool, error) {
	filter := models.GeneratedScheduleFilter{
		Department: req.Department,
		YearLevel:  req.YearLevel,
	}

	switch req.Mode {
	case "student":
		students, err := s.students.Find(ctx, models.StudentFilter{
			StudentID: req.StudentID,
			FirstName: req.FirstName,
			LastName:  req.LastName,
		})
		if err != nil {
			return filter, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve student")
		}
		if len(students) == 0 {
			return filter, true, nil
		}
		// A student's timetable is their cohort's timetable.
		filter.Department = students[0].Department
		filter.YearLevel = students[0].YearLevel

	case "instructor":
		ids, err := s.instructors.IDsMatching(ctx, models.InstructorFilter{
			FirstName: req.FirstName,
			LastName:  req.LastName,
		})
		if err != nil {
			return filter, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve instructor")
		}
		if len(ids) == 0 {
			return filter, true, nil
		}
		filter.InstructorIDs = ids

	case "room":
		codes, err := s.rooms.CodesMatching(ctx, req.RoomCode)
		if err != nil {
			return filter, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve room")
		}
		if len(codes) == 0 {
			return filter, true, nil
		}
		filter.RoomCodes = codes

	case "subject":
		if req.SubjectCode != "" {
			filter.SubjectCode = req.SubjectCode
			break
		}
		codes, err := s.subjects.SubjectCodesByName(ctx, req.SubjectName)
		if err != nil {
			return filter, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve subject")
		}
		if len(codes) == 0 {
			return filter, true, nil
		}
		filter.SubjectCodes = codes
	}

	return filter, false, nil
}

func searchCacheKey(req dto.ScheduleSearchRequest) string {
	sum := sha1.Sum([]byte(fmt.Sprintf("%+v", req)))
	return "schedule:search:" + hex.EncodeToString(sum[:])
}
