package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"coursecraft/internal/domain"
	"coursecraft/internal/repository/models"

	"github.com/jmoiron/sqlx"
)

// CourseDatabaseAdapter implements domain.CourseRepository using sqlx.DB
type CourseDatabaseAdapter struct {
	db *sqlx.DB
}

// NewCourseDatabaseAdapter creates a new instance of CourseDatabaseAdapter
func NewCourseDatabaseAdapter(db *sqlx.DB) domain.CourseRepository {
	return &CourseDatabaseAdapter{db: db}
}

// GetCourseByID implements domain.CourseRepository
func (a *CourseDatabaseAdapter) GetCourseByID(ctx context.Context, id string) (*domain.Course, error) {
	exec := GetExecutor(ctx, a.db)

	var modelCourse models.Course
	query := `SELECT id, title, description, status, created_at, updated_at, deleted_at
		FROM courses
		WHERE id = $1 AND deleted_at IS NULL`

	err := exec.GetContext(ctx, &modelCourse, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get course by ID %s: %w", id, err)
	}
	return toDomainCourse(&modelCourse), nil
}

func toDomainCourse(m *models.Course) *domain.Course {
	if m == nil {
		return nil
	}
	return &domain.Course{
		ID:          m.ID,
		Title:       m.Title,
		Description: m.Description.String,
		Status:      domain.Status(m.Status),
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}
