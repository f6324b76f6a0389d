package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vocsched/timetable-api/internal/models"
	appErrors "github.com/vocsched/timetable-api/pkg/errors"
)

type listerStub struct {
	entries []models.GeneratedScheduleEntry
	filter  models.GeneratedScheduleFilter
}

func (s *listerStub) ListAll(ctx context.Context, filter models.GeneratedScheduleFilter) ([]models.GeneratedScheduleEntry, error) {
	s.filter = filter
	return s.entries, nil
}

func exportFixtureEntries() []models.GeneratedScheduleEntry {
	return []models.GeneratedScheduleEntry{
		{SubjectCode: "CS101", SubjectName: "Programming I", RoomCode: "A-101", InstructorID: 1, DayOfWeek: 0, StartSlot: 0, Department: "IT", YearLevel: "1"},
		{SubjectCode: "CS102", SubjectName: "Discrete Math", RoomCode: "A-102", InstructorID: 2, DayOfWeek: 2, StartSlot: 5, Department: "IT", YearLevel: "1"},
	}
}

func TestExportServiceRenderCSV(t *testing.T) {
	lister := &listerStub{entries: exportFixtureEntries()}
	svc := NewExportService(lister, nil)

	payload, filename, err := svc.Render(context.Background(), FormatCSV, "IT", "1")
	require.NoError(t, err)

	assert.Equal(t, "timetable_IT_y1.csv", filename)
	assert.Equal(t, "IT", lister.filter.Department)
	assert.Equal(t, "1", lister.filter.YearLevel)

	body := string(payload)
	assert.True(t, strings.HasPrefix(body, "Day,Slot,Subject Code"))
	assert.Contains(t, body, "Monday,0,CS101,Programming I,A-101,1,IT,1")
	assert.Contains(t, body, "Wednesday,5,CS102")
}

func TestExportServiceRenderPDF(t *testing.T) {
	lister := &listerStub{entries: exportFixtureEntries()}
	svc := NewExportService(lister, nil)

	payload, filename, err := svc.Render(context.Background(), FormatPDF, "", "")
	require.NoError(t, err)
	assert.Equal(t, "timetable.pdf", filename)
	assert.True(t, strings.HasPrefix(string(payload), "%PDF"))
}

func TestExportServiceRenderUnknownFormat(t *testing.T) {
	svc := NewExportService(&listerStub{}, nil)

	_, _, err := svc.Render(context.Background(), "xlsx", "", "")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}
