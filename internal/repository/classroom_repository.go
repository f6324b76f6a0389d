package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/vocsched/timetable-api/internal/models"
)

// ClassroomRepository manages persistence for teaching venues.
type ClassroomRepository struct {
	db *sqlx.DB
}

// NewClassroomRepository constructs a ClassroomRepository.
func NewClassroomRepository(db *sqlx.DB) *ClassroomRepository {
	return &ClassroomRepository{db: db}
}

// List returns classrooms matching the provided filters.
func (r *ClassroomRepository) List(ctx context.Context, filter models.ClassroomFilter) ([]models.Classroom, error) {
	conditions := []string{"1=1"}
	args := []interface{}{}
	if filter.RoomCode != "" {
		conditions = append(conditions, fmt.Sprintf("LOWER(room_code) LIKE $%d", len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.RoomCode)+"%")
	}
	if filter.Category != "" {
		conditions = append(conditions, fmt.Sprintf("category = $%d", len(args)+1))
		args = append(args, filter.Category)
	}
	if filter.Building != "" {
		conditions = append(conditions, fmt.Sprintf("building = $%d", len(args)+1))
		args = append(args, filter.Building)
	}
	if filter.DepartmentOwner != "" {
		conditions = append(conditions, fmt.Sprintf("department_owner = $%d", len(args)+1))
		args = append(args, filter.DepartmentOwner)
	}
	query := fmt.Sprintf(`SELECT id, room_code, category, capacity, building, department_owner, created_at, updated_at
        FROM classrooms WHERE %s ORDER BY room_code`, strings.Join(conditions, " AND "))

	var rooms []models.Classroom
	if err := r.db.SelectContext(ctx, &rooms, query, args...); err != nil {
		return nil, fmt.Errorf("list classrooms: %w", err)
	}
	return rooms, nil
}

// CodesMatching resolves room codes by fragment, used by schedule search.
func (r *ClassroomRepository) CodesMatching(ctx context.Context, fragment string) ([]string, error) {
	const query = `SELECT room_code FROM classrooms WHERE LOWER(room_code) LIKE $1`
	var codes []string
	if err := r.db.SelectContext(ctx, &codes, query, "%"+strings.ToLower(fragment)+"%"); err != nil {
		return nil, fmt.Errorf("resolve room codes: %w", err)
	}
	return codes, nil
}

// ExistsByCode checks whether a room code is already taken.
func (r *ClassroomRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	var exists int
	err := r.db.GetContext(ctx, &exists, "SELECT 1 FROM classrooms WHERE room_code = $1 LIMIT 1", code)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check room code: %w", err)
	}
	return true, nil
}

// Create inserts a new classroom.
func (r *ClassroomRepository) Create(ctx context.Context, room *models.Classroom) error {
	if room.ID == "" {
		room.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	room.CreatedAt = now
	room.UpdatedAt = now
	const query = `INSERT INTO classrooms (id, room_code, category, capacity, building, department_owner, created_at, updated_at)
        VALUES (:id, :room_code, :category, :capacity, :building, :department_owner, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, room); err != nil {
		return fmt.Errorf("create classroom: %w", err)
	}
	return nil
}

// Count returns the number of classrooms.
func (r *ClassroomRepository) Count(ctx context.Context) (int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM classrooms"); err != nil {
		return 0, fmt.Errorf("count classrooms: %w", err)
	}
	return total, nil
}
