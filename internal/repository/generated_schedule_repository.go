package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/vocsched/timetable-api/internal/models"
)

// GeneratedScheduleRepository manages the persisted timetable. A generation
// run replaces the previous timetable wholesale.
type GeneratedScheduleRepository struct {
	db *sqlx.DB
}

// NewGeneratedScheduleRepository constructs a GeneratedScheduleRepository.
func NewGeneratedScheduleRepository(db *sqlx.DB) *GeneratedScheduleRepository {
	return &GeneratedScheduleRepository{db: db}
}

// Clear removes every persisted timetable entry.
func (r *GeneratedScheduleRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM generated_schedules"); err != nil {
		return fmt.Errorf("clear generated schedules: %w", err)
	}
	return nil
}

// InsertBatch writes one batch of timetable entries.
func (r *GeneratedScheduleRepository) InsertBatch(ctx context.Context, entries []models.GeneratedScheduleEntry) error {
	if len(entries) == 0 {
		return nil
	}
	now := time.Now().UTC()
	for i := range entries {
		if entries[i].ID == "" {
			entries[i].ID = uuid.NewString()
		}
		entries[i].CreatedAt = now
	}
	const query = `INSERT INTO generated_schedules (id, subject_code, subject_name, room_code, instructor_id,
            day_of_week, start_slot, department, year_level, created_at)
        VALUES (:id, :subject_code, :subject_name, :room_code, :instructor_id,
            :day_of_week, :start_slot, :department, :year_level, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, entries); err != nil {
		return fmt.Errorf("insert schedule batch: %w", err)
	}
	return nil
}

func scheduleWhere(filter models.GeneratedScheduleFilter) (string, []interface{}) {
	conditions := []string{"1=1"}
	args := []interface{}{}
	if filter.Department != "" {
		conditions = append(conditions, fmt.Sprintf("department = $%d", len(args)+1))
		args = append(args, filter.Department)
	}
	if filter.YearLevel != "" {
		conditions = append(conditions, fmt.Sprintf("year_level = $%d", len(args)+1))
		args = append(args, filter.YearLevel)
	}
	if filter.SubjectCode != "" {
		conditions = append(conditions, fmt.Sprintf("subject_code = $%d", len(args)+1))
		args = append(args, filter.SubjectCode)
	}
	if len(filter.SubjectCodes) > 0 {
		conditions = append(conditions, fmt.Sprintf("subject_code = ANY($%d)", len(args)+1))
		args = append(args, pq.Array(filter.SubjectCodes))
	}
	if filter.SubjectName != "" {
		conditions = append(conditions, fmt.Sprintf("LOWER(subject_name) LIKE $%d", len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.SubjectName)+"%")
	}
	if len(filter.InstructorIDs) > 0 {
		conditions = append(conditions, fmt.Sprintf("instructor_id = ANY($%d)", len(args)+1))
		args = append(args, pq.Array(filter.InstructorIDs))
	}
	if len(filter.RoomCodes) > 0 {
		conditions = append(conditions, fmt.Sprintf("room_code = ANY($%d)", len(args)+1))
		args = append(args, pq.Array(filter.RoomCodes))
	}
	if filter.RoomCodeLike != "" {
		conditions = append(conditions, fmt.Sprintf("LOWER(room_code) LIKE $%d", len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.RoomCodeLike)+"%")
	}
	return strings.Join(conditions, " AND "), args
}

const scheduleColumns = `id, subject_code, subject_name, room_code, instructor_id,
            day_of_week, start_slot, department, year_level, created_at`

// Search returns timetable entries matching the filter with pagination.
func (r *GeneratedScheduleRepository) Search(ctx context.Context, filter models.GeneratedScheduleFilter, page, pageSize int) ([]models.GeneratedScheduleEntry, int, error) {
	where, args := scheduleWhere(filter)

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM generated_schedules WHERE %s", where)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count schedule entries: %w", err)
	}

	if page < 1 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 500 {
		pageSize = 100
	}
	offset := (page - 1) * pageSize

	query := fmt.Sprintf(`SELECT %s
        FROM generated_schedules WHERE %s
        ORDER BY day_of_week, start_slot, room_code LIMIT %d OFFSET %d`, scheduleColumns, where, pageSize, offset)

	var entries []models.GeneratedScheduleEntry
	if err := r.db.SelectContext(ctx, &entries, query, args...); err != nil {
		return nil, 0, fmt.Errorf("search schedule entries: %w", err)
	}
	return entries, total, nil
}

// ListAll returns every timetable entry matching the filter, used by file
// exports where pagination makes no sense.
func (r *GeneratedScheduleRepository) ListAll(ctx context.Context, filter models.GeneratedScheduleFilter) ([]models.GeneratedScheduleEntry, error) {
	where, args := scheduleWhere(filter)
	query := fmt.Sprintf(`SELECT %s
        FROM generated_schedules WHERE %s
        ORDER BY day_of_week, start_slot, room_code`, scheduleColumns, where)

	var entries []models.GeneratedScheduleEntry
	if err := r.db.SelectContext(ctx, &entries, query, args...); err != nil {
		return nil, fmt.Errorf("list schedule entries: %w", err)
	}
	return entries, nil
}

// Count returns the number of persisted timetable entries.
func (r *GeneratedScheduleRepository) Count(ctx context.Context) (int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM generated_schedules"); err != nil {
		return 0, fmt.Errorf("count schedule entries: %w", err)
	}
	return total, nil
}
