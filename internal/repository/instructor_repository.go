package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/vocsched/timetable-api/internal/models"
)

// InstructorRepository manages persistence for teaching staff.
type InstructorRepository struct {
	db *sqlx.DB
}

// NewInstructorRepository constructs an InstructorRepository.
func NewInstructorRepository(db *sqlx.DB) *InstructorRepository {
	return &InstructorRepository{db: db}
}

const instructorColumns = `id, first_name, last_name, department, role,
        min_hours_per_week, max_hours_per_week, full_week_required, blackouts, created_at, updated_at`

// List returns instructors matching the provided filters.
func (r *InstructorRepository) List(ctx context.Context, filter models.InstructorFilter) ([]models.Instructor, error) {
	conditions := []string{"1=1"}
	args := []interface{}{}
	if filter.FirstName != "" {
		conditions = append(conditions, fmt.Sprintf("LOWER(first_name) LIKE $%d", len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.FirstName)+"%")
	}
	if filter.LastName != "" {
		conditions = append(conditions, fmt.Sprintf("LOWER(last_name) LIKE $%d", len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.LastName)+"%")
	}
	if filter.Department != "" {
		conditions = append(conditions, fmt.Sprintf("department = $%d", len(args)+1))
		args = append(args, filter.Department)
	}
	query := fmt.Sprintf(`SELECT %s FROM instructors WHERE %s ORDER BY last_name, first_name`,
		instructorColumns, strings.Join(conditions, " AND "))

	var instructors []models.Instructor
	if err := r.db.SelectContext(ctx, &instructors, query, args...); err != nil {
		return nil, fmt.Errorf("list instructors: %w", err)
	}
	return instructors, nil
}

// IDsMatching resolves instructor IDs by name fragments, used by schedule
// search.
func (r *InstructorRepository) IDsMatching(ctx context.Context, filter models.InstructorFilter) ([]int64, error) {
	conditions := []string{"1=1"}
	args := []interface{}{}
	if filter.FirstName != "" {
		conditions = append(conditions, fmt.Sprintf("LOWER(first_name) LIKE $%d", len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.FirstName)+"%")
	}
	if filter.LastName != "" {
		conditions = append(conditions, fmt.Sprintf("LOWER(last_name) LIKE $%d", len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.LastName)+"%")
	}
	query := fmt.Sprintf("SELECT id FROM instructors WHERE %s", strings.Join(conditions, " AND "))

	var ids []int64
	if err := r.db.SelectContext(ctx, &ids, query, args...); err != nil {
		return nil, fmt.Errorf("resolve instructor ids: %w", err)
	}
	return ids, nil
}

// Create inserts a new instructor and backfills the generated ID.
func (r *InstructorRepository) Create(ctx context.Context, instructor *models.Instructor) error {
	now := time.Now().UTC()
	instructor.CreatedAt = now
	instructor.UpdatedAt = now
	if len(instructor.Blackouts) == 0 {
		instructor.Blackouts = []byte("[]")
	}
	const query = `INSERT INTO instructors (first_name, last_name, department, role,
            min_hours_per_week, max_hours_per_week, full_week_required, blackouts, created_at, updated_at)
        VALUES (:first_name, :last_name, :department, :role,
            :min_hours_per_week, :max_hours_per_week, :full_week_required, :blackouts, :created_at, :updated_at)
        RETURNING id`
	rows, err := r.db.NamedQueryContext(ctx, query, instructor)
	if err != nil {
		return fmt.Errorf("create instructor: %w", err)
	}
	defer rows.Close()
	if rows.Next() {
		if err := rows.Scan(&instructor.ID); err != nil {
			return fmt.Errorf("scan instructor id: %w", err)
		}
	}
	return rows.Err()
}

// Count returns the number of instructors.
func (r *InstructorRepository) Count(ctx context.Context) (int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM instructors"); err != nil {
		return 0, fmt.Errorf("count instructors: %w", err)
	}
	return total, nil
}
