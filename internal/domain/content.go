package domain

import "time"

// Status is the lifecycle status of a topic or content item.
type Status string

const (
	StatusPublished Status = "published"
	StatusDraft     Status = "draft"
	StatusPrivate   Status = "private"
	// Pending and Future are only meaningful for live lessons.
	StatusPending Status = "pending"
	StatusFuture  Status = "future"
)

// ContentType tags the variant of a content item.
type ContentType string

const (
	TypeLesson     ContentType = "lesson"
	TypeAssignment ContentType = "assignment"
	TypeQuiz       ContentType = "quiz"
	TypeLiveLesson ContentType = "live_lesson"
)

// ContentTypes lists every variant, in dispatch-table order.
var ContentTypes = []ContentType{TypeLesson, TypeAssignment, TypeQuiz, TypeLiveLesson}

// IsValidContentType reports whether t names a known variant.
func IsValidContentType(t ContentType) bool {
	switch t {
	case TypeLesson, TypeAssignment, TypeQuiz, TypeLiveLesson:
		return true
	}
	return false
}

// ValidStatus reports whether s is allowed for the given variant.
// Pending/future are live-lesson scheduling states only.
func ValidStatus(t ContentType, s Status) bool {
	switch s {
	case StatusPublished, StatusDraft, StatusPrivate:
		return true
	case StatusPending, StatusFuture:
		return t == TypeLiveLesson
	}
	return false
}

// Course is the root of the content tree. Courses themselves are never
// reordered by this engine.
type Course struct {
	ID          string
	Title       string
	Description string
	Status      Status
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Topic is an ordered grouping of content items within a course.
// CourseID is immutable once the topic is created.
type Topic struct {
	ID        string
	CourseID  string
	Title     string
	Body      string
	Position  int
	Status    Status
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewTopic creates a new Topic instance
func NewTopic(courseID, title, body string) *Topic {
	now := time.Now()
	return &Topic{
		CourseID:  courseID,
		Title:     title,
		Body:      body,
		Status:    StatusDraft,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Validate validates the topic
func (t *Topic) Validate() error {
	if t.CourseID == "" {
		return NewValidationError("course ID is required")
	}
	if t.Title == "" {
		return NewValidationError("title is required")
	}
	return nil
}

// BelongsTo reports whether the topic is a direct child of the course.
func (t *Topic) BelongsTo(courseID string) bool {
	return t.CourseID == courseID
}

// ContentItem is the polymorphic unit addressed by reorder, duplicate and
// delete. TopicID is immutable after creation; the variant payload lives in
// entity metadata.
type ContentItem struct {
	ID        string
	TopicID   string
	Type      ContentType
	Title     string
	Body      string
	Position  int
	Status    Status
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewContentItem creates a new ContentItem instance
func NewContentItem(topicID string, itemType ContentType, title, body string) *ContentItem {
	now := time.Now()
	return &ContentItem{
		TopicID:   topicID,
		Type:      itemType,
		Title:     title,
		Body:      body,
		Status:    StatusDraft,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Validate validates the content item
func (c *ContentItem) Validate() error {
	if c.TopicID == "" {
		return NewValidationError("topic ID is required")
	}
	if c.Title == "" {
		return NewValidationError("title is required")
	}
	if !IsValidContentType(c.Type) {
		return NewValidationError("unknown content type: " + string(c.Type))
	}
	if c.Status != "" && !ValidStatus(c.Type, c.Status) {
		return NewValidationError("status " + string(c.Status) + " is not valid for " + string(c.Type))
	}
	return nil
}

// BelongsTo reports whether the item is a direct child of the topic.
func (c *ContentItem) BelongsTo(topicID string) bool {
	return c.TopicID == topicID
}

// IsWithin reports whether the item sits under the given course via its topic.
func (c *ContentItem) IsWithin(topic *Topic, courseID string) bool {
	return topic != nil && c.TopicID == topic.ID && topic.CourseID == courseID
}
