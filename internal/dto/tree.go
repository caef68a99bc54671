package dto

import "time"

// TopicResponse represents a topic in the API response
type TopicResponse struct {
	ID        string    `json:"id"`
	CourseID  string    `json:"course_id"`
	Title     string    `json:"title"`
	Body      string    `json:"body,omitempty"`
	Position  int       `json:"position"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ContentItemResponse represents a content item in the API response
type ContentItemResponse struct {
	ID        string    `json:"id"`
	TopicID   string    `json:"topic_id"`
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	Body      string    `json:"body,omitempty"`
	Position  int       `json:"position"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TopicNodeResponse is one topic with its items in position order
type TopicNodeResponse struct {
	Topic TopicResponse         `json:"topic"`
	Items []ContentItemResponse `json:"items"`
}

// CourseTreeResponse is the full course snapshot
type CourseTreeResponse struct {
	CourseID    string              `json:"course_id"`
	Title       string              `json:"title"`
	Description string              `json:"description,omitempty"`
	Topics      []TopicNodeResponse `json:"topics"`
}

// CreateTopicRequest is the request body for creating a topic
type CreateTopicRequest struct {
	Title  string `json:"title"`
	Body   string `json:"body"`
	Status string `json:"status"`
}

// UpdateTopicRequest is a partial update; nil fields are left untouched
type UpdateTopicRequest struct {
	Title  *string `json:"title"`
	Body   *string `json:"body"`
	Status *string `json:"status"`
}

// CreateContentItemRequest is the request body for creating a content item
type CreateContentItemRequest struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Body   string `json:"body"`
	Status string `json:"status"`
}

// UpdateContentItemRequest is a partial update; nil fields are left untouched
type UpdateContentItemRequest struct {
	Title  *string `json:"title"`
	Body   *string `json:"body"`
	Status *string `json:"status"`
}

// ReorderEntryRequest assigns one entity its new position
type ReorderEntryRequest struct {
	ID       string `json:"id"`
	Position int    `json:"position"`
}

// ReorderRequest is the request body for a batch reorder
type ReorderRequest struct {
	Entries []ReorderEntryRequest `json:"entries"`
}

// DuplicateTopicRequest optionally redirects the copy to another course
type DuplicateTopicRequest struct {
	TargetCourseID string `json:"target_course_id"`
}

// DuplicateContentItemRequest optionally redirects the copy to another topic
type DuplicateContentItemRequest struct {
	TargetTopicID string `json:"target_topic_id"`
}

// CascadeFailureResponse names one dependent cleanup that failed
type CascadeFailureResponse struct {
	ItemID   string `json:"item_id"`
	ItemType string `json:"item_type"`
	Stage    string `json:"stage"`
	Reason   string `json:"reason"`
}

// DeleteTopicResponse reports the topic delete outcome. The topic is gone
// even when cascade_failures is non-empty; failed cleanups are retryable.
type DeleteTopicResponse struct {
	DeletedID       string                   `json:"deleted_id"`
	CascadeFailures []CascadeFailureResponse `json:"cascade_failures,omitempty"`
}

// ErrorResponse represents an error in the API response
type ErrorResponse struct {
	Error string `json:"error"`
}
