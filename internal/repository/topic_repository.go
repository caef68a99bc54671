package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"coursecraft/internal/domain"
	"coursecraft/internal/repository/models"
	"coursecraft/internal/util"

	"github.com/jmoiron/sqlx"
)

// TopicDatabaseAdapter implements domain.TopicRepository using sqlx.DB
type TopicDatabaseAdapter struct {
	db *sqlx.DB
}

// NewTopicDatabaseAdapter creates a new instance of TopicDatabaseAdapter
func NewTopicDatabaseAdapter(db *sqlx.DB) domain.TopicRepository {
	return &TopicDatabaseAdapter{db: db}
}

const topicColumns = `id, course_id, title, body, position, status, created_at, updated_at, deleted_at`

// GetTopicByID implements domain.TopicRepository
func (a *TopicDatabaseAdapter) GetTopicByID(ctx context.Context, id string) (*domain.Topic, error) {
	exec := GetExecutor(ctx, a.db)

	var modelTopic models.Topic
	query := `SELECT ` + topicColumns + `
		FROM topics
		WHERE id = $1 AND deleted_at IS NULL`

	err := exec.GetContext(ctx, &modelTopic, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get topic by ID %s: %w", id, err)
	}
	return toDomainTopic(&modelTopic), nil
}

// ListTopicsByCourse implements domain.TopicRepository. Every status is
// included; drafts and private topics are part of the tree.
func (a *TopicDatabaseAdapter) ListTopicsByCourse(ctx context.Context, courseID string) ([]*domain.Topic, error) {
	exec := GetExecutor(ctx, a.db)

	var modelTopics []models.Topic
	query := `SELECT ` + topicColumns + `
		FROM topics
		WHERE course_id = $1 AND deleted_at IS NULL
		ORDER BY position ASC, id ASC`

	if err := exec.SelectContext(ctx, &modelTopics, query, courseID); err != nil {
		return nil, fmt.Errorf("failed to list topics for course %s: %w", courseID, err)
	}

	topics := make([]*domain.Topic, 0, len(modelTopics))
	for i := range modelTopics {
		topics = append(topics, toDomainTopic(&modelTopics[i]))
	}
	return topics, nil
}

// MaxTopicPosition implements domain.TopicRepository. Returns -1 for a course
// with no topics so max+1 starts at 0.
func (a *TopicDatabaseAdapter) MaxTopicPosition(ctx context.Context, courseID string) (int, error) {
	exec := GetExecutor(ctx, a.db)

	var max int
	query := `SELECT COALESCE(MAX(position), -1)
		FROM topics
		WHERE course_id = $1 AND deleted_at IS NULL`

	if err := exec.GetContext(ctx, &max, query, courseID); err != nil {
		return 0, fmt.Errorf("failed to get max topic position for course %s: %w", courseID, err)
	}
	return max, nil
}

// SaveTopic implements domain.TopicRepository
func (a *TopicDatabaseAdapter) SaveTopic(ctx context.Context, topic *domain.Topic) error {
	if topic == nil {
		return fmt.Errorf("cannot save nil topic")
	}
	exec := GetExecutor(ctx, a.db)

	modelTopic := toModelTopic(topic)
	modelTopic.ID = util.NewULID()
	modelTopic.CreatedAt = time.Now()
	modelTopic.UpdatedAt = modelTopic.CreatedAt

	query := `INSERT INTO topics (id, course_id, title, body, position, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := exec.ExecContext(ctx, query,
		modelTopic.ID,
		modelTopic.CourseID,
		modelTopic.Title,
		modelTopic.Body,
		modelTopic.Position,
		modelTopic.Status,
		modelTopic.CreatedAt,
		modelTopic.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save topic: %w", err)
	}

	topic.ID = modelTopic.ID
	topic.CreatedAt = modelTopic.CreatedAt
	topic.UpdatedAt = modelTopic.UpdatedAt
	return nil
}

// UpdateTopic implements domain.TopicRepository. CourseID is never written;
// the parent link is immutable.
func (a *TopicDatabaseAdapter) UpdateTopic(ctx context.Context, topic *domain.Topic) error {
	if topic == nil {
		return fmt.Errorf("cannot update nil topic")
	}
	if topic.ID == "" {
		return fmt.Errorf("cannot update topic with empty ID")
	}
	exec := GetExecutor(ctx, a.db)

	modelTopic := toModelTopic(topic)
	modelTopic.UpdatedAt = time.Now()

	query := `UPDATE topics SET
		title = $1,
		body = $2,
		status = $3,
		updated_at = $4
		WHERE id = $5 AND deleted_at IS NULL`

	result, err := exec.ExecContext(ctx, query,
		modelTopic.Title,
		modelTopic.Body,
		modelTopic.Status,
		modelTopic.UpdatedAt,
		modelTopic.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update topic: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("topic with ID %s not found or not updated", topic.ID)
	}
	topic.UpdatedAt = modelTopic.UpdatedAt
	return nil
}

// UpdateTopicPosition implements domain.TopicRepository. The position value
// is written verbatim; the ordering engine owns the numbering.
func (a *TopicDatabaseAdapter) UpdateTopicPosition(ctx context.Context, id string, position int) error {
	exec := GetExecutor(ctx, a.db)

	query := `UPDATE topics SET position = $1, updated_at = $2
		WHERE id = $3 AND deleted_at IS NULL`

	result, err := exec.ExecContext(ctx, query, position, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update position for topic %s: %w", id, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("topic with ID %s not found", id)
	}
	return nil
}

// DeleteTopic implements domain.TopicRepository
func (a *TopicDatabaseAdapter) DeleteTopic(ctx context.Context, id string) error {
	exec := GetExecutor(ctx, a.db)

	query := `UPDATE topics SET deleted_at = $1, updated_at = $1
		WHERE id = $2 AND deleted_at IS NULL`

	result, err := exec.ExecContext(ctx, query, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to delete topic %s: %w", id, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("topic with ID %s not found", id)
	}
	return nil
}

// Helper functions for model conversion

func toDomainTopic(m *models.Topic) *domain.Topic {
	if m == nil {
		return nil
	}
	return &domain.Topic{
		ID:        m.ID,
		CourseID:  m.CourseID,
		Title:     m.Title,
		Body:      m.Body.String,
		Position:  m.Position,
		Status:    domain.Status(m.Status),
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func toModelTopic(d *domain.Topic) *models.Topic {
	if d == nil {
		return nil
	}
	return &models.Topic{
		ID:        d.ID,
		CourseID:  d.CourseID,
		Title:     d.Title,
		Body:      util.StringToNullString(d.Body),
		Position:  d.Position,
		Status:    string(d.Status),
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}
