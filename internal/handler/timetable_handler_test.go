package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vocsched/timetable-api/internal/dto"
	"github.com/vocsched/timetable-api/internal/models"
	appErrors "github.com/vocsched/timetable-api/pkg/errors"
	"github.com/vocsched/timetable-api/pkg/response"
)

type generatorStub struct {
	resp        *dto.GenerateTimetableResponse
	err         error
	lastRequest dto.GenerateTimetableRequest
}

func (g *generatorStub) Generate(ctx context.Context, req dto.GenerateTimetableRequest) (*dto.GenerateTimetableResponse, error) {
	g.lastRequest = req
	return g.resp, g.err
}

func (g *generatorStub) RunStatus(runID string) (*dto.GenerateTimetableResponse, error) {
	return g.resp, g.err
}

type handlerSearcherStub struct {
	entries    []models.GeneratedScheduleEntry
	pagination *models.Pagination
	err        error
}

func (s *handlerSearcherStub) Search(ctx context.Context, req dto.ScheduleSearchRequest) ([]models.GeneratedScheduleEntry, *models.Pagination, error) {
	return s.entries, s.pagination, s.err
}

type exporterStub struct {
	payload  []byte
	filename string
	err      error
}

func (e *exporterStub) Render(ctx context.Context, format, department, yearLevel string) ([]byte, string, error) {
	return e.payload, e.filename, e.err
}

func newTimetableRouter(h *TimetableHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/schedules/generate", h.Generate)
	r.GET("/schedules/runs/:id", h.RunStatus)
	r.GET("/schedules/search", h.Search)
	r.GET("/schedules/export", h.Export)
	return r
}

func TestTimetableHandlerGenerate(t *testing.T) {
	generator := &generatorStub{resp: &dto.GenerateTimetableResponse{RunID: "r1", Status: "done", Penalty: 0, Records: 3, Persisted: 3}}
	h := NewTimetableHandler(generator, &handlerSearcherStub{}, &exporterStub{})
	router := newTimetableRouter(h)

	body, _ := json.Marshal(dto.GenerateTimetableRequest{Preset: "draft", Seed: 42})
	req := httptest.NewRequest(http.MethodPost, "/schedules/generate", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "draft", generator.lastRequest.Preset)
	assert.Equal(t, int64(42), generator.lastRequest.Seed)

	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.NotNil(t, envelope.Data)
}

func TestTimetableHandlerGenerateEmptyBodyUsesDefaults(t *testing.T) {
	generator := &generatorStub{resp: &dto.GenerateTimetableResponse{RunID: "r1", Status: "done"}}
	h := NewTimetableHandler(generator, &handlerSearcherStub{}, &exporterStub{})
	router := newTimetableRouter(h)

	req := httptest.NewRequest(http.MethodPost, "/schedules/generate", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, dto.GenerateTimetableRequest{}, generator.lastRequest)
}

func TestTimetableHandlerGenerateAsyncAccepted(t *testing.T) {
	generator := &generatorStub{resp: &dto.GenerateTimetableResponse{RunID: "r1", Status: "accepted"}}
	h := NewTimetableHandler(generator, &handlerSearcherStub{}, &exporterStub{})
	router := newTimetableRouter(h)

	body := []byte(`{"preset":"draft","async":true}`)
	req := httptest.NewRequest(http.MethodPost, "/schedules/generate", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusAccepted, rec.Code)
}

func TestTimetableHandlerGenerateError(t *testing.T) {
	generator := &generatorStub{err: appErrors.ErrIncompleteData}
	h := NewTimetableHandler(generator, &handlerSearcherStub{}, &exporterStub{})
	router := newTimetableRouter(h)

	req := httptest.NewRequest(http.MethodPost, "/schedules/generate", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.NotNil(t, envelope.Error)
	assert.Equal(t, appErrors.ErrIncompleteData.Code, envelope.Error.Code)
}

func TestTimetableHandlerRunStatusNotFound(t *testing.T) {
	generator := &generatorStub{err: appErrors.ErrNotFound}
	h := NewTimetableHandler(generator, &handlerSearcherStub{}, &exporterStub{})
	router := newTimetableRouter(h)

	req := httptest.NewRequest(http.MethodGet, "/schedules/runs/missing", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTimetableHandlerSearch(t *testing.T) {
	searcher := &handlerSearcherStub{
		entries:    []models.GeneratedScheduleEntry{{SubjectCode: "CS101"}},
		pagination: models.NewPagination(1, 100, 1),
	}
	h := NewTimetableHandler(&generatorStub{}, searcher, &exporterStub{})
	router := newTimetableRouter(h)

	req := httptest.NewRequest(http.MethodGet, "/schedules/search?mode=student&student_id=S-1", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.NotNil(t, envelope.Pagination)
	assert.Equal(t, 1, envelope.Pagination.Total)
}

func TestTimetableHandlerExport(t *testing.T) {
	exporter := &exporterStub{payload: []byte("Day,Slot\n"), filename: "timetable.csv"}
	h := NewTimetableHandler(&generatorStub{}, &handlerSearcherStub{}, exporter)
	router := newTimetableRouter(h)

	req := httptest.NewRequest(http.MethodGet, "/schedules/export?format=csv", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "timetable.csv")
	assert.Equal(t, "Day,Slot\n", rec.Body.String())
}
