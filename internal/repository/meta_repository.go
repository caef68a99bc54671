package repository

import (
	"context"
	"fmt"

	"coursecraft/internal/domain"
	"coursecraft/internal/repository/models"

	"github.com/jmoiron/sqlx"
)

// MetaDatabaseAdapter implements domain.MetaRepository using sqlx.DB.
// entity_meta is one flat KV table keyed by entity ID, shared by courses,
// topics and content items.
type MetaDatabaseAdapter struct {
	db *sqlx.DB
}

// NewMetaDatabaseAdapter creates a new instance of MetaDatabaseAdapter
func NewMetaDatabaseAdapter(db *sqlx.DB) domain.MetaRepository {
	return &MetaDatabaseAdapter{db: db}
}

// ListMeta implements domain.MetaRepository
func (a *MetaDatabaseAdapter) ListMeta(ctx context.Context, entityID string) ([]domain.MetaEntry, error) {
	exec := GetExecutor(ctx, a.db)

	var modelEntries []models.MetaEntry
	query := `SELECT entity_id, meta_key, meta_value
		FROM entity_meta
		WHERE entity_id = $1
		ORDER BY meta_key ASC`

	if err := exec.SelectContext(ctx, &modelEntries, query, entityID); err != nil {
		return nil, fmt.Errorf("failed to list meta for entity %s: %w", entityID, err)
	}

	entries := make([]domain.MetaEntry, 0, len(modelEntries))
	for _, m := range modelEntries {
		entries = append(entries, domain.MetaEntry{
			EntityID: m.EntityID,
			Key:      m.MetaKey,
			Value:    m.MetaValue,
		})
	}
	return entries, nil
}

// SetMeta implements domain.MetaRepository. Upsert on (entity_id, meta_key).
func (a *MetaDatabaseAdapter) SetMeta(ctx context.Context, entityID, key, value string) error {
	exec := GetExecutor(ctx, a.db)

	query := `INSERT INTO entity_meta (entity_id, meta_key, meta_value)
		VALUES ($1, $2, $3)
		ON CONFLICT (entity_id, meta_key) DO UPDATE SET meta_value = EXCLUDED.meta_value`

	if _, err := exec.ExecContext(ctx, query, entityID, key, value); err != nil {
		return fmt.Errorf("failed to set meta %s for entity %s: %w", key, entityID, err)
	}
	return nil
}

// DeleteMetaByEntity implements domain.MetaRepository
func (a *MetaDatabaseAdapter) DeleteMetaByEntity(ctx context.Context, entityID string) error {
	exec := GetExecutor(ctx, a.db)

	if _, err := exec.ExecContext(ctx, `DELETE FROM entity_meta WHERE entity_id = $1`, entityID); err != nil {
		return fmt.Errorf("failed to delete meta for entity %s: %w", entityID, err)
	}
	return nil
}
