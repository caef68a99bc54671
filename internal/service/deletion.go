package service

import (
	"context"
	"fmt"

	"coursecraft/internal/domain"
	"coursecraft/internal/logger"

	"go.uber.org/zap"
)

// cascadeStrategy is the variant-specific cleanup that must run before the
// generic deletion removes an item and its metadata.
type cascadeStrategy interface {
	// BeforeDelete removes the variant's dependent records. It runs inside
	// the same transaction as the generic deletion that follows it.
	BeforeDelete(ctx context.Context, item *domain.ContentItem) error
}

// genericOnlyStrategy covers variants with no dependent tables.
type genericOnlyStrategy struct{}

func (genericOnlyStrategy) BeforeDelete(ctx context.Context, item *domain.ContentItem) error {
	return nil
}

// quizCascadeStrategy removes the quiz's dependent rows in dependency order:
// attempts, attempt answers, question answers (batch by question-id set),
// then questions. Question rows are the join key for attempt answers, so
// they must go last or foreign references would be orphaned.
type quizCascadeStrategy struct {
	quizzes domain.QuizRepository
}

func (s *quizCascadeStrategy) BeforeDelete(ctx context.Context, item *domain.ContentItem) error {
	if err := s.quizzes.DeleteAttemptsByQuiz(ctx, item.ID); err != nil {
		return fmt.Errorf("delete attempts: %w", err)
	}
	if err := s.quizzes.DeleteAttemptAnswersByQuiz(ctx, item.ID); err != nil {
		return fmt.Errorf("delete attempt answers: %w", err)
	}
	questionIDs, err := s.quizzes.ListQuestionIDsByQuiz(ctx, item.ID)
	if err != nil {
		return fmt.Errorf("list question ids: %w", err)
	}
	if err := s.quizzes.DeleteAnswersByQuestionIDs(ctx, questionIDs); err != nil {
		return fmt.Errorf("delete question answers: %w", err)
	}
	if err := s.quizzes.DeleteQuestionsByQuiz(ctx, item.ID); err != nil {
		return fmt.Errorf("delete questions: %w", err)
	}
	return nil
}

// liveLessonStrategy is a local bookkeeping hook only. Provider-side cleanup
// (the remote meeting or calendar event) is deliberately not attempted; the
// generic step removes all locally persisted provider metadata.
type liveLessonStrategy struct{}

func (liveLessonStrategy) BeforeDelete(ctx context.Context, item *domain.ContentItem) error {
	logger.Get().Info("live lesson deleted locally, provider resource left to caller",
		zap.String("item_id", item.ID),
	)
	return nil
}

// deletionService implements domain.DeletionService with a strategy table
// keyed by content type.
type deletionService struct {
	topics     domain.TopicRepository
	items      domain.ContentItemRepository
	meta       domain.MetaRepository
	txManager  domain.TransactionManager
	inval      TreeInvalidator
	strategies map[domain.ContentType]cascadeStrategy
}

// NewDeletionService creates a new cascade deletion service.
func NewDeletionService(
	topics domain.TopicRepository,
	items domain.ContentItemRepository,
	quizzes domain.QuizRepository,
	meta domain.MetaRepository,
	txManager domain.TransactionManager,
	inval TreeInvalidator,
) domain.DeletionService {
	return &deletionService{
		topics:    topics,
		items:     items,
		meta:      meta,
		txManager: txManager,
		inval:     inval,
		strategies: map[domain.ContentType]cascadeStrategy{
			domain.TypeLesson:     genericOnlyStrategy{},
			domain.TypeAssignment: genericOnlyStrategy{},
			domain.TypeQuiz:       &quizCascadeStrategy{quizzes: quizzes},
			domain.TypeLiveLesson: liveLessonStrategy{},
		},
	}
}

// DeleteContentItem implements domain.DeletionService.
func (s *deletionService) DeleteContentItem(ctx context.Context, itemID string) error {
	item, err := s.items.GetItemByID(ctx, itemID)
	if err != nil {
		return domain.NewPersistenceError("failed to load content item", err)
	}
	if item == nil {
		return domain.NewContentItemNotFoundError(itemID)
	}

	topic, err := s.topics.GetTopicByID(ctx, item.TopicID)
	if err != nil {
		return domain.NewPersistenceError("failed to load parent topic", err)
	}

	if err := s.deleteItemCascade(ctx, item); err != nil {
		return err
	}

	logger.Get().Info("content item deleted",
		zap.String("item_id", itemID),
		zap.String("item_type", string(item.Type)),
	)

	if topic != nil {
		s.inval.InvalidateCourseTree(ctx, topic.CourseID)
	}
	return nil
}

// DeleteTopic implements domain.DeletionService. Each child item's cascade
// runs in its own transaction; a failure is collected, not fatal, and the
// topic itself is removed regardless. The caller gets back every item that
// could not be fully cleaned up so cleanup can be retried without recreating
// the topic.
func (s *deletionService) DeleteTopic(ctx context.Context, topicID string) (*domain.CascadeResult, error) {
	topic, err := s.topics.GetTopicByID(ctx, topicID)
	if err != nil {
		return nil, domain.NewPersistenceError("failed to load topic", err)
	}
	if topic == nil {
		return nil, domain.NewTopicNotFoundError(topicID)
	}

	items, err := s.items.ListItemsByTopic(ctx, topicID)
	if err != nil {
		return nil, domain.NewPersistenceError("failed to list topic content items", err)
	}

	result := &domain.CascadeResult{DeletedID: topicID}
	for _, item := range items {
		if err := s.deleteItemCascade(ctx, item); err != nil {
			logger.Get().Warn("cascade cleanup failed for content item",
				zap.String("topic_id", topicID),
				zap.String("item_id", item.ID),
				zap.String("item_type", string(item.Type)),
				zap.Error(err),
			)
			result.Failures = append(result.Failures, domain.CascadeFailure{
				ItemID:   item.ID,
				ItemType: item.Type,
				Stage:    "cascade",
				Reason:   err.Error(),
			})
		}
	}

	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.meta.DeleteMetaByEntity(txCtx, topicID); err != nil {
			return err
		}
		return s.topics.DeleteTopic(txCtx, topicID)
	})
	if err != nil {
		return nil, domain.NewPersistenceError("failed to delete topic", err)
	}

	logger.Get().Info("topic deleted",
		zap.String("topic_id", topicID),
		zap.Int("items", len(items)),
		zap.Int("cascade_failures", len(result.Failures)),
	)

	s.inval.InvalidateCourseTree(ctx, topic.CourseID)
	return result, nil
}

// deleteItemCascade runs the variant strategy and the generic deletion (meta
// plus the item row) in one transaction.
func (s *deletionService) deleteItemCascade(ctx context.Context, item *domain.ContentItem) error {
	strategy, ok := s.strategies[item.Type]
	if !ok {
		return domain.NewValidationError(fmt.Sprintf("no deletion strategy for type %s", item.Type))
	}

	return s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := strategy.BeforeDelete(txCtx, item); err != nil {
			return domain.NewPersistenceError(
				fmt.Sprintf("cascade cleanup failed for %s", item.ID), err)
		}
		if err := s.meta.DeleteMetaByEntity(txCtx, item.ID); err != nil {
			return domain.NewPersistenceError(
				fmt.Sprintf("failed to delete metadata for %s", item.ID), err)
		}
		if err := s.items.DeleteItem(txCtx, item.ID); err != nil {
			return domain.NewPersistenceError(
				fmt.Sprintf("failed to delete content item %s", item.ID), err)
		}
		return nil
	})
}
