package domain

import "context"

// ScopeKind names the parent type a reorder batch is validated against.
type ScopeKind string

const (
	ScopeCourse ScopeKind = "course"
	ScopeTopic  ScopeKind = "topic"
)

// Scope is the parent entity against which a reorder batch is validated:
// a course when reordering topics, a topic when reordering content items.
type Scope struct {
	Kind ScopeKind
	ID   string
}

// ReorderEntry assigns one entity its new position. Positions are written
// verbatim; the caller's ordering is authoritative.
type ReorderEntry struct {
	EntityID string
	Position int
}

// CascadeFailure names one dependent cleanup that failed during a topic
// delete. The topic itself is still removed.
type CascadeFailure struct {
	ItemID   string      `json:"item_id"`
	ItemType ContentType `json:"item_type"`
	Stage    string      `json:"stage"`
	Reason   string      `json:"reason"`
}

// CascadeResult is what a topic delete returns: the removed topic plus every
// sub-deletion that could not be completed. Callers distinguish "nothing
// happened" (an error return) from "the topic is gone but cleanup is
// incomplete" (a result with failures) so they can retry cleanup without
// recreating the topic.
type CascadeResult struct {
	DeletedID string           `json:"deleted_id"`
	Failures  []CascadeFailure `json:"cascade_failures,omitempty"`
}

// Partial reports whether any dependent cleanup failed.
func (r *CascadeResult) Partial() bool {
	return len(r.Failures) > 0
}

// TopicNode is one topic with its content items in position order.
type TopicNode struct {
	Topic *Topic
	Items []*ContentItem
}

// CourseTree is the full course snapshot: topics in position order, each with
// its items in position order.
type CourseTree struct {
	Course *Course
	Topics []*TopicNode
}

// OrderingService applies batched position updates atomically.
type OrderingService interface {
	// Reorder validates that every entry belongs to the scope, then applies
	// all position writes inside one transaction. The batch is rejected
	// whole on any precondition failure; nothing is ever half-applied.
	Reorder(ctx context.Context, scope Scope, entries []ReorderEntry) error
}

// DuplicationService deep-copies topics and content items with fresh IDs.
type DuplicationService interface {
	// DuplicateTopic copies the topic, its metadata and all its content
	// items (nested quiz trees included) under targetCourseID, in one
	// transaction. Returns the new topic.
	DuplicateTopic(ctx context.Context, topicID, targetCourseID string) (*Topic, error)

	// DuplicateContentItem copies one item (nested quiz tree included)
	// under targetTopicID, which may differ from the source's topic.
	DuplicateContentItem(ctx context.Context, itemID, targetTopicID string) (*ContentItem, error)
}

// DeletionService removes items and topics together with their dependents.
type DeletionService interface {
	// DeleteContentItem removes the item and its variant-specific
	// dependents; aborts with NotFound before touching anything if the
	// item does not exist.
	DeleteContentItem(ctx context.Context, itemID string) error

	// DeleteTopic removes every child item via its variant strategy,
	// collecting failures instead of aborting, then removes the topic
	// itself regardless.
	DeleteTopic(ctx context.Context, topicID string) (*CascadeResult, error)
}

// TreeService covers the CRUD and read surface around the three engines.
type TreeService interface {
	GetCourseTree(ctx context.Context, courseID string) (*CourseTree, error)
	CreateTopic(ctx context.Context, topic *Topic) (*Topic, error)
	UpdateTopic(ctx context.Context, topicID string, patch TopicPatch) (*Topic, error)
	CreateContentItem(ctx context.Context, item *ContentItem) (*ContentItem, error)
	UpdateContentItem(ctx context.Context, itemID string, patch ContentItemPatch) (*ContentItem, error)
}

// TopicPatch is a partial update: only non-nil fields change.
type TopicPatch struct {
	Title  *string
	Body   *string
	Status *Status
}

// ContentItemPatch is a partial update: only non-nil fields change. The
// parent topic and the variant are immutable after creation.
type ContentItemPatch struct {
	Title  *string
	Body   *string
	Status *Status
}
