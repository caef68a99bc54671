package models

import (
	"database/sql"
	"time"
)

// Course is the db model for the courses table.
type Course struct {
	ID          string         `db:"id"`
	Title       string         `db:"title"`
	Description sql.NullString `db:"description"`
	Status      string         `db:"status"`
	CreatedAt   time.Time      `db:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at"`
	DeletedAt   sql.NullTime   `db:"deleted_at"`
}

func (Course) TableName() string {
	return "courses"
}

// Topic is the db model for the topics table.
type Topic struct {
	ID        string         `db:"id"`
	CourseID  string         `db:"course_id"`
	Title     string         `db:"title"`
	Body      sql.NullString `db:"body"`
	Position  int            `db:"position"`
	Status    string         `db:"status"`
	CreatedAt time.Time      `db:"created_at"`
	UpdatedAt time.Time      `db:"updated_at"`
	DeletedAt sql.NullTime   `db:"deleted_at"`
}

func (Topic) TableName() string {
	return "topics"
}

// ContentItem is the db model for the content_items table. All four variants
// share this row shape; variant payloads live in entity_meta.
type ContentItem struct {
	ID        string         `db:"id"`
	TopicID   string         `db:"topic_id"`
	ItemType  string         `db:"item_type"`
	Title     string         `db:"title"`
	Body      sql.NullString `db:"body"`
	Position  int            `db:"position"`
	Status    string         `db:"status"`
	CreatedAt time.Time      `db:"created_at"`
	UpdatedAt time.Time      `db:"updated_at"`
	DeletedAt sql.NullTime   `db:"deleted_at"`
}

func (ContentItem) TableName() string {
	return "content_items"
}

// MetaEntry is the db model for the entity_meta table.
type MetaEntry struct {
	EntityID  string `db:"entity_id"`
	MetaKey   string `db:"meta_key"`
	MetaValue string `db:"meta_value"`
}

func (MetaEntry) TableName() string {
	return "entity_meta"
}
