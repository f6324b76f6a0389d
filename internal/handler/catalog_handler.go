package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vocsched/timetable-api/internal/dto"
	"github.com/vocsched/timetable-api/internal/models"
	appErrors "github.com/vocsched/timetable-api/pkg/errors"
	"github.com/vocsched/timetable-api/pkg/response"
)

type catalogManager interface {
	CreateStudent(ctx context.Context, req dto.CreateStudentRequest) (*models.Student, error)
	CreateInstructor(ctx context.Context, req dto.CreateInstructorRequest) (*models.Instructor, error)
	CreateClassroom(ctx context.Context, req dto.CreateClassroomRequest) (*models.Classroom, error)
	CreateOffering(ctx context.Context, req dto.CreateOfferingRequest) (*models.CourseSession, error)
	ListClassrooms(ctx context.Context, filter models.ClassroomFilter) ([]models.Classroom, error)
	ListInstructors(ctx context.Context, filter models.InstructorFilter) ([]models.Instructor, error)
	Stats(ctx context.Context) (*dto.StatsResponse, error)
}

// CatalogHandler exposes catalog CRUD and statistics endpoints.
type CatalogHandler struct {
	service catalogManager
}

// NewCatalogHandler constructs the catalog handler.
func NewCatalogHandler(svc catalogManager) *CatalogHandler {
	return &CatalogHandler{service: svc}
}

// CreateStudent godoc
// @Summary Register a student
// @Tags Catalog
// @Accept json
// @Produce json
// @Param payload body dto.CreateStudentRequest true "Student payload"
// @Success 201 {object} response.Envelope
// @Router /students [post]
func (h *CatalogHandler) CreateStudent(c *gin.Context) {
	var req dto.CreateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid student payload"))
		return
	}
	student, err := h.service.CreateStudent(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, student)
}

// CreateInstructor godoc
// @Summary Register an instructor
// @Tags Catalog
// @Accept json
// @Produce json
// @Param payload body dto.CreateInstructorRequest true "Instructor payload"
// @Success 201 {object} response.Envelope
// @Router /instructors [post]
func (h *CatalogHandler) CreateInstructor(c *gin.Context) {
	var req dto.CreateInstructorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid instructor payload"))
		return
	}
	instructor, err := h.service.CreateInstructor(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, instructor)
}

// ListInstructors godoc
// @Summary List instructors
// @Tags Catalog
// @Produce json
// @Param department query string false "Filter by department"
// @Param last_name query string false "Filter by last name fragment"
// @Success 200 {object} response.Envelope
// @Router /instructors [get]
func (h *CatalogHandler) ListInstructors(c *gin.Context) {
	filter := models.InstructorFilter{
		FirstName:  c.Query("first_name"),
		LastName:   c.Query("last_name"),
		Department: c.Query("department"),
	}
	instructors, err := h.service.ListInstructors(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, instructors, nil)
}

// CreateClassroom godoc
// @Summary Register a classroom
// @Tags Catalog
// @Accept json
// @Produce json
// @Param payload body dto.CreateClassroomRequest true "Classroom payload"
// @Success 201 {object} response.Envelope
// @Router /classrooms [post]
func (h *CatalogHandler) CreateClassroom(c *gin.Context) {
	var req dto.CreateClassroomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid classroom payload"))
		return
	}
	room, err := h.service.CreateClassroom(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, room)
}

// ListClassrooms godoc
// @Summary List classrooms
// @Tags Catalog
// @Produce json
// @Param category query string false "Filter by category"
// @Param building query string false "Filter by building"
// @Success 200 {object} response.Envelope
// @Router /classrooms [get]
func (h *CatalogHandler) ListClassrooms(c *gin.Context) {
	filter := models.ClassroomFilter{
		RoomCode:        c.Query("room_code"),
		Category:        c.Query("category"),
		Building:        c.Query("building"),
		DepartmentOwner: c.Query("department_owner"),
	}
	rooms, err := h.service.ListClassrooms(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rooms, nil)
}

// CreateOffering godoc
// @Summary Register a curriculum offering
// @Description Registers the subject definition and the cohort it is taught to in one call.
// @Tags Catalog
// @Accept json
// @Produce json
// @Param payload body dto.CreateOfferingRequest true "Offering payload"
// @Success 201 {object} response.Envelope
// @Router /subjects [post]
func (h *CatalogHandler) CreateOffering(c *gin.Context) {
	var req dto.CreateOfferingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid offering payload"))
		return
	}
	session, err := h.service.CreateOffering(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, session)
}

// Stats godoc
// @Summary Catalog and timetable volume counters
// @Tags Catalog
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /stats [get]
func (h *CatalogHandler) Stats(c *gin.Context) {
	stats, err := h.service.Stats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, stats, nil)
}
