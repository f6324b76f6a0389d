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

type timetableGenerator interface {
	Generate(ctx context.Context, req dto.GenerateTimetableRequest) (*dto.GenerateTimetableResponse, error)
	RunStatus(runID string) (*dto.GenerateTimetableResponse, error)
}

type timetableSearcher interface {
	Search(ctx context.Context, req dto.ScheduleSearchRequest) ([]models.GeneratedScheduleEntry, *models.Pagination, error)
}

type timetableExporter interface {
	Render(ctx context.Context, format, department, yearLevel string) ([]byte, string, error)
}

// TimetableHandler exposes generation, search and export endpoints.
type TimetableHandler struct {
	generator timetableGenerator
	searcher  timetableSearcher
	exporter  timetableExporter
}

// NewTimetableHandler constructs the timetable handler.
func NewTimetableHandler(generator timetableGenerator, searcher timetableSearcher, exporter timetableExporter) *TimetableHandler {
	return &TimetableHandler{generator: generator, searcher: searcher, exporter: exporter}
}

// Generate godoc
// @Summary Generate the weekly timetable
// @Description Runs the evolutionary engine over the current catalog and replaces the persisted timetable. Set async=true to run in the background and poll the returned run.
// @Tags Timetable
// @Accept json
// @Produce json
// @Param payload body dto.GenerateTimetableRequest false "Generation options"
// @Success 200 {object} response.Envelope
// @Success 202 {object} response.Envelope
// @Router /schedules/generate [post]
func (h *TimetableHandler) Generate(c *gin.Context) {
	var req dto.GenerateTimetableRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid generation payload"))
			return
		}
	}
	result, err := h.generator.Generate(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	if req.Async {
		response.JSON(c, http.StatusAccepted, result, nil)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// RunStatus godoc
// @Summary Inspect a generation run
// @Tags Timetable
// @Produce json
// @Param id path string true "Run ID"
// @Success 200 {object} response.Envelope
// @Router /schedules/runs/{id} [get]
func (h *TimetableHandler) RunStatus(c *gin.Context) {
	result, err := h.generator.RunStatus(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Search godoc
// @Summary Search the persisted timetable
// @Description Advanced search by identity: a student's cohort, an instructor, a room or a subject.
// @Tags Timetable
// @Produce json
// @Param mode query string true "Search mode" Enums(student, instructor, room, subject)
// @Param student_id query string false "Student number (student mode)"
// @Param first_name query string false "First name (student or instructor mode)"
// @Param last_name query string false "Last name (student or instructor mode)"
// @Param room_code query string false "Room code fragment (room mode)"
// @Param subject_code query string false "Subject code (subject mode)"
// @Param subject_name query string false "Subject name fragment (subject mode)"
// @Success 200 {object} response.Envelope
// @Router /schedules/search [get]
func (h *TimetableHandler) Search(c *gin.Context) {
	var req dto.ScheduleSearchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid search query"))
		return
	}
	entries, pagination, err := h.searcher.Search(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entries, pagination)
}

// Export godoc
// @Summary Download the timetable as a file
// @Tags Timetable
// @Produce octet-stream
// @Param format query string true "File format" Enums(csv, pdf)
// @Param department query string false "Restrict to department"
// @Param year_level query string false "Restrict to year level"
// @Success 200 {file} binary
// @Router /schedules/export [get]
func (h *TimetableHandler) Export(c *gin.Context) {
	payload, filename, err := h.exporter.Render(c.Request.Context(), c.Query("format"), c.Query("department"), c.Query("year_level"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/octet-stream", payload)
}
