package service

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/vocsched/timetable-api/internal/models"
	appErrors "github.com/vocsched/timetable-api/pkg/errors"
	"github.com/vocsched/timetable-api/pkg/export"
)

// Export formats offered for timetable downloads.
const (
	FormatCSV = "csv"
	FormatPDF = "pdf"
)

var scheduleExportHeaders = []string{"Day", "Slot", "Subject Code", "Subject", "Room", "Instructor ID", "Department", "Year"}

var dayNames = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

type scheduleLister interface {
	ListAll(ctx context.Context, filter models.GeneratedScheduleFilter) ([]models.GeneratedScheduleEntry, error)
}

// ExportService renders the persisted timetable into downloadable files.
type ExportService struct {
	schedules scheduleLister
	csv       *export.CSVExporter
	pdf       *export.PDFExporter
	logger    *zap.Logger
}

// NewExportService constructs the export service.
func NewExportService(schedules scheduleLister, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		schedules: schedules,
		csv:       export.NewCSVExporter(),
		pdf:       export.NewPDFExporter(),
		logger:    logger,
	}
}

// Render produces the timetable in the requested format, optionally narrowed
// to a department and year level. The filename is derived from the filter.
func (s *ExportService) Render(ctx context.Context, format, department, yearLevel string) ([]byte, string, error) {
	filter := models.GeneratedScheduleFilter{Department: department, YearLevel: yearLevel}
	entries, err := s.schedules.ListAll(ctx, filter)
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load timetable")
	}

	data := export.Dataset{Headers: scheduleExportHeaders, Rows: make([]map[string]string, 0, len(entries))}
	for _, e := range entries {
		data.Rows = append(data.Rows, map[string]string{
			"Day":           dayName(e.DayOfWeek),
			"Slot":          strconv.Itoa(e.StartSlot),
			"Subject Code":  e.SubjectCode,
			"Subject":       e.SubjectName,
			"Room":          e.RoomCode,
			"Instructor ID": strconv.FormatInt(e.InstructorID, 10),
			"Department":    e.Department,
			"Year":          e.YearLevel,
		})
	}

	name := "timetable"
	if department != "" {
		name += "_" + department
	}
	if yearLevel != "" {
		name += "_y" + yearLevel
	}

	switch format {
	case FormatCSV:
		payload, err := s.csv.Render(data)
		if err != nil {
			return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
		}
		return payload, name + ".csv", nil
	case FormatPDF:
		title := fmt.Sprintf("Weekly Timetable %s", department)
		payload, err := s.pdf.Render(data, title)
		if err != nil {
			return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
		}
		return payload, name + ".pdf", nil
	default:
		return nil, "", appErrors.Clone(appErrors.ErrValidation, "unsupported export format: "+format)
	}
}

func dayName(day int) string {
	if day >= 0 && day < len(dayNames) {
		return dayNames[day]
	}
	return strconv.Itoa(day)
}
