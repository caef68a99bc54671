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

// ContentItemDatabaseAdapter implements domain.ContentItemRepository using sqlx.DB
type ContentItemDatabaseAdapter struct {
	db *sqlx.DB
}

// NewContentItemDatabaseAdapter creates a new instance of ContentItemDatabaseAdapter
func NewContentItemDatabaseAdapter(db *sqlx.DB) domain.ContentItemRepository {
	return &ContentItemDatabaseAdapter{db: db}
}

const contentItemColumns = `id, topic_id, item_type, title, body, position, status, created_at, updated_at, deleted_at`

// GetItemByID implements domain.ContentItemRepository
func (a *ContentItemDatabaseAdapter) GetItemByID(ctx context.Context, id string) (*domain.ContentItem, error) {
	exec := GetExecutor(ctx, a.db)

	var modelItem models.ContentItem
	query := `SELECT ` + contentItemColumns + `
		FROM content_items
		WHERE id = $1 AND deleted_at IS NULL`

	err := exec.GetContext(ctx, &modelItem, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get content item by ID %s: %w", id, err)
	}
	return toDomainContentItem(&modelItem), nil
}

// ListItemsByTopic implements domain.ContentItemRepository. All variants and
// all statuses come back; duplication and deletion are not filtered by
// visibility.
func (a *ContentItemDatabaseAdapter) ListItemsByTopic(ctx context.Context, topicID string) ([]*domain.ContentItem, error) {
	exec := GetExecutor(ctx, a.db)

	var modelItems []models.ContentItem
	query := `SELECT ` + contentItemColumns + `
		FROM content_items
		WHERE topic_id = $1 AND deleted_at IS NULL
		ORDER BY position ASC, id ASC`

	if err := exec.SelectContext(ctx, &modelItems, query, topicID); err != nil {
		return nil, fmt.Errorf("failed to list content items for topic %s: %w", topicID, err)
	}

	items := make([]*domain.ContentItem, 0, len(modelItems))
	for i := range modelItems {
		items = append(items, toDomainContentItem(&modelItems[i]))
	}
	return items, nil
}

// SaveItem implements domain.ContentItemRepository
func (a *ContentItemDatabaseAdapter) SaveItem(ctx context.Context, item *domain.ContentItem) error {
	if item == nil {
		return fmt.Errorf("cannot save nil content item")
	}
	exec := GetExecutor(ctx, a.db)

	modelItem := toModelContentItem(item)
	modelItem.ID = util.NewULID()
	modelItem.CreatedAt = time.Now()
	modelItem.UpdatedAt = modelItem.CreatedAt

	query := `INSERT INTO content_items (id, topic_id, item_type, title, body, position, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := exec.ExecContext(ctx, query,
		modelItem.ID,
		modelItem.TopicID,
		modelItem.ItemType,
		modelItem.Title,
		modelItem.Body,
		modelItem.Position,
		modelItem.Status,
		modelItem.CreatedAt,
		modelItem.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save content item: %w", err)
	}

	item.ID = modelItem.ID
	item.CreatedAt = modelItem.CreatedAt
	item.UpdatedAt = modelItem.UpdatedAt
	return nil
}

// UpdateItem implements domain.ContentItemRepository. TopicID and ItemType
// are never written; parent link and variant are immutable.
func (a *ContentItemDatabaseAdapter) UpdateItem(ctx context.Context, item *domain.ContentItem) error {
	if item == nil {
		return fmt.Errorf("cannot update nil content item")
	}
	if item.ID == "" {
		return fmt.Errorf("cannot update content item with empty ID")
	}
	exec := GetExecutor(ctx, a.db)

	modelItem := toModelContentItem(item)
	modelItem.UpdatedAt = time.Now()

	query := `UPDATE content_items SET
		title = $1,
		body = $2,
		status = $3,
		updated_at = $4
		WHERE id = $5 AND deleted_at IS NULL`

	result, err := exec.ExecContext(ctx, query,
		modelItem.Title,
		modelItem.Body,
		modelItem.Status,
		modelItem.UpdatedAt,
		modelItem.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update content item: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("content item with ID %s not found or not updated", item.ID)
	}
	item.UpdatedAt = modelItem.UpdatedAt
	return nil
}

// UpdateItemPosition implements domain.ContentItemRepository
func (a *ContentItemDatabaseAdapter) UpdateItemPosition(ctx context.Context, id string, position int) error {
	exec := GetExecutor(ctx, a.db)

	query := `UPDATE content_items SET position = $1, updated_at = $2
		WHERE id = $3 AND deleted_at IS NULL`

	result, err := exec.ExecContext(ctx, query, position, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update position for content item %s: %w", id, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("content item with ID %s not found", id)
	}
	return nil
}

// DeleteItem implements domain.ContentItemRepository
func (a *ContentItemDatabaseAdapter) DeleteItem(ctx context.Context, id string) error {
	exec := GetExecutor(ctx, a.db)

	query := `UPDATE content_items SET deleted_at = $1, updated_at = $1
		WHERE id = $2 AND deleted_at IS NULL`

	result, err := exec.ExecContext(ctx, query, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to delete content item %s: %w", id, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("content item with ID %s not found", id)
	}
	return nil
}

// Helper functions for model conversion

func toDomainContentItem(m *models.ContentItem) *domain.ContentItem {
	if m == nil {
		return nil
	}
	return &domain.ContentItem{
		ID:        m.ID,
		TopicID:   m.TopicID,
		Type:      domain.ContentType(m.ItemType),
		Title:     m.Title,
		Body:      m.Body.String,
		Position:  m.Position,
		Status:    domain.Status(m.Status),
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func toModelContentItem(d *domain.ContentItem) *models.ContentItem {
	if d == nil {
		return nil
	}
	return &models.ContentItem{
		ID:        d.ID,
		TopicID:   d.TopicID,
		ItemType:  string(d.Type),
		Title:     d.Title,
		Body:      util.StringToNullString(d.Body),
		Position:  d.Position,
		Status:    string(d.Status),
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}
