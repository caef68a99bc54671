package handler

import (
	"coursecraft/internal/domain"
	"coursecraft/internal/dto"

	"github.com/gofiber/fiber/v2"
)

// TreeHandler handles course tree HTTP requests. It translates DTOs to
// engine calls and returns raw errors for the error middleware to map.
type TreeHandler struct {
	tree        domain.TreeService
	ordering    domain.OrderingService
	duplication domain.DuplicationService
	deletion    domain.DeletionService
}

// NewTreeHandler creates a new TreeHandler instance
func NewTreeHandler(
	tree domain.TreeService,
	ordering domain.OrderingService,
	duplication domain.DuplicationService,
	deletion domain.DeletionService,
) *TreeHandler {
	return &TreeHandler{
		tree:        tree,
		ordering:    ordering,
		duplication: duplication,
		deletion:    deletion,
	}
}

// GetCourseTree handles GET /api/courses/:courseID/tree
func (h *TreeHandler) GetCourseTree(c *fiber.Ctx) error {
	tree, err := h.tree.GetCourseTree(c.Context(), c.Params("courseID"))
	if err != nil {
		return err
	}
	return c.JSON(toCourseTreeResponse(tree))
}

// CreateTopic handles POST /api/courses/:courseID/topics
func (h *TreeHandler) CreateTopic(c *fiber.Ctx) error {
	var req dto.CreateTopicRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewValidationError("malformed request body")
	}

	topic := domain.NewTopic(c.Params("courseID"), req.Title, req.Body)
	if req.Status != "" {
		topic.Status = domain.Status(req.Status)
	}

	created, err := h.tree.CreateTopic(c.Context(), topic)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(toTopicResponse(created))
}

// UpdateTopic handles PATCH /api/topics/:topicID
func (h *TreeHandler) UpdateTopic(c *fiber.Ctx) error {
	var req dto.UpdateTopicRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewValidationError("malformed request body")
	}

	patch := domain.TopicPatch{Title: req.Title, Body: req.Body}
	if req.Status != nil {
		status := domain.Status(*req.Status)
		patch.Status = &status
	}

	updated, err := h.tree.UpdateTopic(c.Context(), c.Params("topicID"), patch)
	if err != nil {
		return err
	}
	return c.JSON(toTopicResponse(updated))
}

// DeleteTopic handles DELETE /api/topics/:topicID. Responds 200 even when
// some cascade cleanups failed; the failures are listed in the body so the
// caller can retry cleanup without recreating the topic.
func (h *TreeHandler) DeleteTopic(c *fiber.Ctx) error {
	result, err := h.deletion.DeleteTopic(c.Context(), c.Params("topicID"))
	if err != nil {
		return err
	}

	resp := dto.DeleteTopicResponse{DeletedID: result.DeletedID}
	for _, f := range result.Failures {
		resp.CascadeFailures = append(resp.CascadeFailures, dto.CascadeFailureResponse{
			ItemID:   f.ItemID,
			ItemType: string(f.ItemType),
			Stage:    f.Stage,
			Reason:   f.Reason,
		})
	}
	return c.JSON(resp)
}

// ReorderTopics handles POST /api/courses/:courseID/topics/reorder
func (h *TreeHandler) ReorderTopics(c *fiber.Ctx) error {
	return h.reorder(c, domain.Scope{Kind: domain.ScopeCourse, ID: c.Params("courseID")})
}

// ReorderItems handles POST /api/topics/:topicID/items/reorder
func (h *TreeHandler) ReorderItems(c *fiber.Ctx) error {
	return h.reorder(c, domain.Scope{Kind: domain.ScopeTopic, ID: c.Params("topicID")})
}

func (h *TreeHandler) reorder(c *fiber.Ctx, scope domain.Scope) error {
	var req dto.ReorderRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewValidationError("malformed request body")
	}

	entries := make([]domain.ReorderEntry, 0, len(req.Entries))
	for _, e := range req.Entries {
		entries = append(entries, domain.ReorderEntry{EntityID: e.ID, Position: e.Position})
	}

	if err := h.ordering.Reorder(c.Context(), scope, entries); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// DuplicateTopic handles POST /api/topics/:topicID/duplicate
func (h *TreeHandler) DuplicateTopic(c *fiber.Ctx) error {
	var req dto.DuplicateTopicRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return domain.NewValidationError("malformed request body")
		}
	}

	topic, err := h.duplication.DuplicateTopic(c.Context(), c.Params("topicID"), req.TargetCourseID)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(toTopicResponse(topic))
}

// DuplicateItem handles POST /api/items/:itemID/duplicate
func (h *TreeHandler) DuplicateItem(c *fiber.Ctx) error {
	var req dto.DuplicateContentItemRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return domain.NewValidationError("malformed request body")
		}
	}

	item, err := h.duplication.DuplicateContentItem(c.Context(), c.Params("itemID"), req.TargetTopicID)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(toContentItemResponse(item))
}

// CreateItem handles POST /api/topics/:topicID/items
func (h *TreeHandler) CreateItem(c *fiber.Ctx) error {
	var req dto.CreateContentItemRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewValidationError("malformed request body")
	}

	item := domain.NewContentItem(c.Params("topicID"), domain.ContentType(req.Type), req.Title, req.Body)
	if req.Status != "" {
		item.Status = domain.Status(req.Status)
	}

	created, err := h.tree.CreateContentItem(c.Context(), item)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(toContentItemResponse(created))
}

// UpdateItem handles PATCH /api/items/:itemID
func (h *TreeHandler) UpdateItem(c *fiber.Ctx) error {
	var req dto.UpdateContentItemRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewValidationError("malformed request body")
	}

	patch := domain.ContentItemPatch{Title: req.Title, Body: req.Body}
	if req.Status != nil {
		status := domain.Status(*req.Status)
		patch.Status = &status
	}

	updated, err := h.tree.UpdateContentItem(c.Context(), c.Params("itemID"), patch)
	if err != nil {
		return err
	}
	return c.JSON(toContentItemResponse(updated))
}

// DeleteItem handles DELETE /api/items/:itemID
func (h *TreeHandler) DeleteItem(c *fiber.Ctx) error {
	if err := h.deletion.DeleteContentItem(c.Context(), c.Params("itemID")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// DTO conversion helpers

func toTopicResponse(t *domain.Topic) dto.TopicResponse {
	return dto.TopicResponse{
		ID:        t.ID,
		CourseID:  t.CourseID,
		Title:     t.Title,
		Body:      t.Body,
		Position:  t.Position,
		Status:    string(t.Status),
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

func toContentItemResponse(i *domain.ContentItem) dto.ContentItemResponse {
	return dto.ContentItemResponse{
		ID:        i.ID,
		TopicID:   i.TopicID,
		Type:      string(i.Type),
		Title:     i.Title,
		Body:      i.Body,
		Position:  i.Position,
		Status:    string(i.Status),
		CreatedAt: i.CreatedAt,
		UpdatedAt: i.UpdatedAt,
	}
}

func toCourseTreeResponse(tree *domain.CourseTree) dto.CourseTreeResponse {
	resp := dto.CourseTreeResponse{
		CourseID:    tree.Course.ID,
		Title:       tree.Course.Title,
		Description: tree.Course.Description,
		Topics:      make([]dto.TopicNodeResponse, 0, len(tree.Topics)),
	}
	for _, node := range tree.Topics {
		topicNode := dto.TopicNodeResponse{
			Topic: toTopicResponse(node.Topic),
			Items: make([]dto.ContentItemResponse, 0, len(node.Items)),
		}
		for _, item := range node.Items {
			topicNode.Items = append(topicNode.Items, toContentItemResponse(item))
		}
		resp.Topics = append(resp.Topics, topicNode)
	}
	return resp
}
