package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/vocsched/timetable-api/internal/models"
)

// CurriculumRepository manages curriculum rows and their subjects.
type CurriculumRepository struct {
	db *sqlx.DB
}

// NewCurriculumRepository constructs a CurriculumRepository.
func NewCurriculumRepository(db *sqlx.DB) *CurriculumRepository {
	return &CurriculumRepository{db: db}
}

const sessionColumns = `c.id, c.subject_code, s.name AS subject_name, s.theory_hours, s.practice_hours,
        c.department, c.year_level, c.group_no, c.activity_type, c.required_room_category,
        c.fixed_day, c.fixed_start_slot, c.fixed_room_code, c.advisor_id,
        c.instructor_1_fname, c.instructor_1_lname,
        c.instructor_2_fname, c.instructor_2_lname,
        c.instructor_3_fname, c.instructor_3_lname,
        c.created_at, c.updated_at`

// ListSessions returns every schedulable teaching block: curriculum rows
// joined to their subject definitions.
func (r *CurriculumRepository) ListSessions(ctx context.Context) ([]models.CourseSession, error) {
	query := fmt.Sprintf(`SELECT %s
        FROM curriculums c
        JOIN subjects s ON s.code = c.subject_code
        ORDER BY c.department, c.year_level, c.group_no, c.subject_code`, sessionColumns)
	var sessions []models.CourseSession
	if err := r.db.SelectContext(ctx, &sessions, query); err != nil {
		return nil, fmt.Errorf("list course sessions: %w", err)
	}
	return sessions, nil
}

// ListByFilter returns sessions narrowed to a department and year level.
func (r *CurriculumRepository) ListByFilter(ctx context.Context, department, yearLevel string) ([]models.CourseSession, error) {
	conditions := []string{"1=1"}
	args := []interface{}{}
	if department != "" {
		conditions = append(conditions, fmt.Sprintf("c.department = $%d", len(args)+1))
		args = append(args, department)
	}
	if yearLevel != "" {
		conditions = append(conditions, fmt.Sprintf("c.year_level = $%d", len(args)+1))
		args = append(args, yearLevel)
	}
	query := fmt.Sprintf(`SELECT %s
        FROM curriculums c
        JOIN subjects s ON s.code = c.subject_code
        WHERE %s
        ORDER BY c.subject_code`, sessionColumns, strings.Join(conditions, " AND "))
	var sessions []models.CourseSession
	if err := r.db.SelectContext(ctx, &sessions, query, args...); err != nil {
		return nil, fmt.Errorf("filter course sessions: %w", err)
	}
	return sessions, nil
}

// SubjectCodesByName resolves subject codes whose name matches the given
// fragment, used by schedule search.
func (r *CurriculumRepository) SubjectCodesByName(ctx context.Context, name string) ([]string, error) {
	const query = `SELECT code FROM subjects WHERE LOWER(name) LIKE $1`
	var codes []string
	if err := r.db.SelectContext(ctx, &codes, query, "%"+strings.ToLower(name)+"%"); err != nil {
		return nil, fmt.Errorf("resolve subject codes: %w", err)
	}
	return codes, nil
}

// CreateOffering upserts the subject definition and inserts the curriculum
// row in one transaction.
func (r *CurriculumRepository) CreateOffering(ctx context.Context, session *models.CourseSession) error {
	if session.ID == "" {
		session.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	session.CreatedAt = now
	session.UpdatedAt = now

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin offering tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	const subjectQuery = `INSERT INTO subjects (code, name, theory_hours, practice_hours)
        VALUES (:subject_code, :subject_name, :theory_hours, :practice_hours)
        ON CONFLICT (code) DO UPDATE SET name = EXCLUDED.name,
            theory_hours = EXCLUDED.theory_hours, practice_hours = EXCLUDED.practice_hours`
	if _, err := tx.NamedExecContext(ctx, subjectQuery, session); err != nil {
		return fmt.Errorf("upsert subject: %w", err)
	}

	const curriculumQuery = `INSERT INTO curriculums (id, subject_code, department, year_level, group_no,
            activity_type, required_room_category, fixed_day, fixed_start_slot, fixed_room_code, advisor_id,
            instructor_1_fname, instructor_1_lname, instructor_2_fname, instructor_2_lname,
            instructor_3_fname, instructor_3_lname, created_at, updated_at)
        VALUES (:id, :subject_code, :department, :year_level, :group_no,
            :activity_type, :required_room_category, :fixed_day, :fixed_start_slot, :fixed_room_code, :advisor_id,
            :instructor_1_fname, :instructor_1_lname, :instructor_2_fname, :instructor_2_lname,
            :instructor_3_fname, :instructor_3_lname, :created_at, :updated_at)`
	if _, err := tx.NamedExecContext(ctx, curriculumQuery, session); err != nil {
		return fmt.Errorf("create curriculum row: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit offering: %w", err)
	}
	return nil
}

// Count returns the number of curriculum rows.
func (r *CurriculumRepository) Count(ctx context.Context) (int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM curriculums"); err != nil {
		return 0, fmt.Errorf("count curriculums: %w", err)
	}
	return total, nil
}
