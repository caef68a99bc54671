package service

import (
	"context"

	"coursecraft/internal/domain"
	"coursecraft/internal/logger"

	"go.uber.org/zap"
)

// treeService implements domain.TreeService: the CRUD and read surface around
// the reorder/duplicate/delete engines. New entities append at the end of
// their sibling set; explicit ordering is the ordering engine's job.
type treeService struct {
	courses   domain.CourseRepository
	topics    domain.TopicRepository
	items     domain.ContentItemRepository
	txManager domain.TransactionManager
	treeCache *TreeCacheService
}

// NewTreeService creates a new tree service.
func NewTreeService(
	courses domain.CourseRepository,
	topics domain.TopicRepository,
	items domain.ContentItemRepository,
	txManager domain.TransactionManager,
	treeCache *TreeCacheService,
) domain.TreeService {
	return &treeService{
		courses:   courses,
		topics:    topics,
		items:     items,
		txManager: txManager,
		treeCache: treeCache,
	}
}

// GetCourseTree implements domain.TreeService.
func (s *treeService) GetCourseTree(ctx context.Context, courseID string) (*domain.CourseTree, error) {
	course, err := s.courses.GetCourseByID(ctx, courseID)
	if err != nil {
		return nil, domain.NewPersistenceError("failed to load course", err)
	}
	if course == nil {
		return nil, domain.NewCourseNotFoundError(courseID)
	}

	return s.treeCache.GetOrBuild(ctx, courseID, func(ctx context.Context) (*domain.CourseTree, error) {
		topics, err := s.topics.ListTopicsByCourse(ctx, courseID)
		if err != nil {
			return nil, domain.NewPersistenceError("failed to list course topics", err)
		}

		tree := &domain.CourseTree{Course: course, Topics: make([]*domain.TopicNode, 0, len(topics))}
		for _, topic := range topics {
			items, err := s.items.ListItemsByTopic(ctx, topic.ID)
			if err != nil {
				return nil, domain.NewPersistenceError("failed to list topic items", err)
			}
			tree.Topics = append(tree.Topics, &domain.TopicNode{Topic: topic, Items: items})
		}
		return tree, nil
	})
}

// CreateTopic implements domain.TreeService.
func (s *treeService) CreateTopic(ctx context.Context, topic *domain.Topic) (*domain.Topic, error) {
	if err := topic.Validate(); err != nil {
		return nil, err
	}

	course, err := s.courses.GetCourseByID(ctx, topic.CourseID)
	if err != nil {
		return nil, domain.NewPersistenceError("failed to load course", err)
	}
	if course == nil {
		return nil, domain.NewCourseNotFoundError(topic.CourseID)
	}
	if topic.Status == "" {
		topic.Status = domain.StatusDraft
	}

	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		maxPos, err := s.topics.MaxTopicPosition(txCtx, topic.CourseID)
		if err != nil {
			return domain.NewPersistenceError("failed to resolve append position", err)
		}
		topic.Position = maxPos + 1
		if err := s.topics.SaveTopic(txCtx, topic); err != nil {
			return domain.NewPersistenceError("failed to create topic", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Get().Info("topic created",
		zap.String("topic_id", topic.ID),
		zap.String("course_id", topic.CourseID),
	)
	s.treeCache.InvalidateCourseTree(ctx, topic.CourseID)
	return topic, nil
}

// UpdateTopic implements domain.TreeService. Only supplied fields change; the
// course link and position are untouched.
func (s *treeService) UpdateTopic(ctx context.Context, topicID string, patch domain.TopicPatch) (*domain.Topic, error) {
	topic, err := s.topics.GetTopicByID(ctx, topicID)
	if err != nil {
		return nil, domain.NewPersistenceError("failed to load topic", err)
	}
	if topic == nil {
		return nil, domain.NewTopicNotFoundError(topicID)
	}

	if patch.Title != nil {
		topic.Title = *patch.Title
	}
	if patch.Body != nil {
		topic.Body = *patch.Body
	}
	if patch.Status != nil {
		topic.Status = *patch.Status
	}
	if err := topic.Validate(); err != nil {
		return nil, err
	}

	if err := s.topics.UpdateTopic(ctx, topic); err != nil {
		return nil, domain.NewPersistenceError("failed to update topic", err)
	}

	s.treeCache.InvalidateCourseTree(ctx, topic.CourseID)
	return topic, nil
}

// CreateContentItem implements domain.TreeService.
func (s *treeService) CreateContentItem(ctx context.Context, item *domain.ContentItem) (*domain.ContentItem, error) {
	if item.Status == "" {
		item.Status = domain.StatusDraft
	}
	if err := item.Validate(); err != nil {
		return nil, err
	}

	topic, err := s.topics.GetTopicByID(ctx, item.TopicID)
	if err != nil {
		return nil, domain.NewPersistenceError("failed to load topic", err)
	}
	if topic == nil {
		return nil, domain.NewTopicNotFoundError(item.TopicID)
	}

	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		siblings, err := s.items.ListItemsByTopic(txCtx, item.TopicID)
		if err != nil {
			return domain.NewPersistenceError("failed to resolve append position", err)
		}
		item.Position = 0
		if len(siblings) > 0 {
			item.Position = siblings[len(siblings)-1].Position + 1
		}
		if err := s.items.SaveItem(txCtx, item); err != nil {
			return domain.NewPersistenceError("failed to create content item", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Get().Info("content item created",
		zap.String("item_id", item.ID),
		zap.String("item_type", string(item.Type)),
		zap.String("topic_id", item.TopicID),
	)
	s.treeCache.InvalidateCourseTree(ctx, topic.CourseID)
	return item, nil
}

// UpdateContentItem implements domain.TreeService. Parent topic and variant
// are immutable; only supplied fields change.
func (s *treeService) UpdateContentItem(ctx context.Context, itemID string, patch domain.ContentItemPatch) (*domain.ContentItem, error) {
	item, err := s.items.GetItemByID(ctx, itemID)
	if err != nil {
		return nil, domain.NewPersistenceError("failed to load content item", err)
	}
	if item == nil {
		return nil, domain.NewContentItemNotFoundError(itemID)
	}

	if patch.Title != nil {
		item.Title = *patch.Title
	}
	if patch.Body != nil {
		item.Body = *patch.Body
	}
	if patch.Status != nil {
		item.Status = *patch.Status
	}
	if err := item.Validate(); err != nil {
		return nil, err
	}

	if err := s.items.UpdateItem(ctx, item); err != nil {
		return nil, domain.NewPersistenceError("failed to update content item", err)
	}

	topic, err := s.topics.GetTopicByID(ctx, item.TopicID)
	if err == nil && topic != nil {
		s.treeCache.InvalidateCourseTree(ctx, topic.CourseID)
	}
	return item, nil
}
