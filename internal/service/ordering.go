package service

import (
	"context"
	"fmt"

	"coursecraft/internal/domain"
	"coursecraft/internal/logger"

	"go.uber.org/zap"
)

// orderingService implements domain.OrderingService. It validates a reorder
// batch against its scope, then writes every position inside one transaction.
// Positions are written verbatim and never renumbered; relative order is the
// only thing callers may rely on.
//
// Concurrent reorders of the same scope are not serialized here. The store's
// transaction isolation decides the outcome and the last commit wins.
type orderingService struct {
	topics    domain.TopicRepository
	items     domain.ContentItemRepository
	txManager domain.TransactionManager
	inval     TreeInvalidator
}

// NewOrderingService creates a new ordering service.
func NewOrderingService(
	topics domain.TopicRepository,
	items domain.ContentItemRepository,
	txManager domain.TransactionManager,
	inval TreeInvalidator,
) domain.OrderingService {
	return &orderingService{
		topics:    topics,
		items:     items,
		txManager: txManager,
		inval:     inval,
	}
}

// Reorder implements domain.OrderingService.
func (s *orderingService) Reorder(ctx context.Context, scope domain.Scope, entries []domain.ReorderEntry) error {
	if len(entries) == 0 {
		return domain.NewValidationError("reorder batch must not be empty")
	}

	var courseID string

	switch scope.Kind {
	case domain.ScopeCourse:
		if err := s.validateTopicBatch(ctx, scope, entries); err != nil {
			return err
		}
		courseID = scope.ID
	case domain.ScopeTopic:
		topic, err := s.validateItemBatch(ctx, scope, entries)
		if err != nil {
			return err
		}
		courseID = topic.CourseID
	default:
		return domain.NewValidationError(fmt.Sprintf("unknown scope kind: %s", scope.Kind))
	}

	err := s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		for _, entry := range entries {
			var writeErr error
			switch scope.Kind {
			case domain.ScopeCourse:
				writeErr = s.topics.UpdateTopicPosition(txCtx, entry.EntityID, entry.Position)
			case domain.ScopeTopic:
				writeErr = s.items.UpdateItemPosition(txCtx, entry.EntityID, entry.Position)
			}
			if writeErr != nil {
				return domain.NewPersistenceError(
					fmt.Sprintf("failed to write position for %s", entry.EntityID), writeErr)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.Get().Info("reorder applied",
		zap.String("scope_kind", string(scope.Kind)),
		zap.String("scope_id", scope.ID),
		zap.Int("entries", len(entries)),
	)

	s.inval.InvalidateCourseTree(ctx, courseID)
	return nil
}

// validateTopicBatch checks every entry resolves to a topic whose course is
// the scope. Runs before any write; a single foreign entry rejects the batch.
func (s *orderingService) validateTopicBatch(ctx context.Context, scope domain.Scope, entries []domain.ReorderEntry) error {
	siblings, err := s.topics.ListTopicsByCourse(ctx, scope.ID)
	if err != nil {
		return domain.NewPersistenceError("failed to load topics for scope validation", err)
	}
	byID := make(map[string]*domain.Topic, len(siblings))
	for _, t := range siblings {
		byID[t.ID] = t
	}
	for _, entry := range entries {
		if _, ok := byID[entry.EntityID]; !ok {
			return domain.NewScopeMismatchError(entry.EntityID, scope)
		}
	}
	return nil
}

// validateItemBatch checks the scope topic exists and every entry is one of
// its direct children. Returns the topic for course resolution.
func (s *orderingService) validateItemBatch(ctx context.Context, scope domain.Scope, entries []domain.ReorderEntry) (*domain.Topic, error) {
	topic, err := s.topics.GetTopicByID(ctx, scope.ID)
	if err != nil {
		return nil, domain.NewPersistenceError("failed to load scope topic", err)
	}
	if topic == nil {
		return nil, domain.NewTopicNotFoundError(scope.ID)
	}

	siblings, err := s.items.ListItemsByTopic(ctx, scope.ID)
	if err != nil {
		return nil, domain.NewPersistenceError("failed to load content items for scope validation", err)
	}
	byID := make(map[string]*domain.ContentItem, len(siblings))
	for _, item := range siblings {
		byID[item.ID] = item
	}
	for _, entry := range entries {
		if _, ok := byID[entry.EntityID]; !ok {
			return nil, domain.NewScopeMismatchError(entry.EntityID, scope)
		}
	}
	return topic, nil
}
