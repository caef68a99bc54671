package service

import (
	"context"
	"encoding/json"
	"fmt"

	"coursecraft/internal/domain"
	"coursecraft/internal/logger"

	"go.uber.org/zap"
)

// CopyTitleSuffix marks a duplicated topic. Content item copies keep their
// original titles; the parent topic's marker already signals provenance.
const CopyTitleSuffix = " (copy)"

// duplicationService implements domain.DuplicationService. Every copy mints
// fresh IDs at every level and never carries provider-issued external
// identifiers; duplication is local-state only.
type duplicationService struct {
	courses   domain.CourseRepository
	topics    domain.TopicRepository
	items     domain.ContentItemRepository
	quizzes   domain.QuizRepository
	meta      domain.MetaRepository
	txManager domain.TransactionManager
	inval     TreeInvalidator
}

// NewDuplicationService creates a new duplication service.
func NewDuplicationService(
	courses domain.CourseRepository,
	topics domain.TopicRepository,
	items domain.ContentItemRepository,
	quizzes domain.QuizRepository,
	meta domain.MetaRepository,
	txManager domain.TransactionManager,
	inval TreeInvalidator,
) domain.DuplicationService {
	return &duplicationService{
		courses:   courses,
		topics:    topics,
		items:     items,
		quizzes:   quizzes,
		meta:      meta,
		txManager: txManager,
		inval:     inval,
	}
}

// DuplicateTopic implements domain.DuplicationService. The whole copy (topic,
// metadata, content items, nested quiz trees) runs in one transaction; any
// failure leaves no partial topic behind.
func (s *duplicationService) DuplicateTopic(ctx context.Context, topicID, targetCourseID string) (*domain.Topic, error) {
	source, err := s.topics.GetTopicByID(ctx, topicID)
	if err != nil {
		return nil, domain.NewPersistenceError("failed to load source topic", err)
	}
	if source == nil {
		return nil, domain.NewTopicNotFoundError(topicID)
	}

	if targetCourseID == "" {
		targetCourseID = source.CourseID
	}
	course, err := s.courses.GetCourseByID(ctx, targetCourseID)
	if err != nil {
		return nil, domain.NewPersistenceError("failed to load target course", err)
	}
	if course == nil {
		return nil, domain.NewCourseNotFoundError(targetCourseID)
	}

	var newTopic *domain.Topic
	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		maxPos, err := s.topics.MaxTopicPosition(txCtx, targetCourseID)
		if err != nil {
			return domain.NewPersistenceError("failed to resolve append position", err)
		}

		// Duplicates always append at the end of the target course; they
		// never interleave with existing topics.
		newTopic = &domain.Topic{
			CourseID: targetCourseID,
			Title:    source.Title + CopyTitleSuffix,
			Body:     source.Body,
			Position: maxPos + 1,
			Status:   source.Status,
		}
		if err := s.topics.SaveTopic(txCtx, newTopic); err != nil {
			return domain.NewPersistenceError("failed to create topic copy", err)
		}

		if err := s.copyMeta(txCtx, source.ID, newTopic.ID, domain.TopicMetaCopyAllowed); err != nil {
			return err
		}

		// Every variant, every status: drafts and scheduled items are
		// duplicated too.
		sourceItems, err := s.items.ListItemsByTopic(txCtx, source.ID)
		if err != nil {
			return domain.NewPersistenceError("failed to list source content items", err)
		}
		for _, item := range sourceItems {
			if _, err := s.copyContentItem(txCtx, item, newTopic.ID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Get().Info("topic duplicated",
		zap.String("source_topic_id", topicID),
		zap.String("new_topic_id", newTopic.ID),
		zap.String("target_course_id", targetCourseID),
	)

	s.inval.InvalidateCourseTree(ctx, targetCourseID)
	if targetCourseID != source.CourseID {
		s.inval.InvalidateCourseTree(ctx, source.CourseID)
	}
	return newTopic, nil
}

// DuplicateContentItem implements domain.DuplicationService. Cross-topic
// duplication is legal; the target topic is re-validated.
func (s *duplicationService) DuplicateContentItem(ctx context.Context, itemID, targetTopicID string) (*domain.ContentItem, error) {
	source, err := s.items.GetItemByID(ctx, itemID)
	if err != nil {
		return nil, domain.NewPersistenceError("failed to load source content item", err)
	}
	if source == nil {
		return nil, domain.NewContentItemNotFoundError(itemID)
	}

	if targetTopicID == "" {
		targetTopicID = source.TopicID
	}
	topic, err := s.topics.GetTopicByID(ctx, targetTopicID)
	if err != nil {
		return nil, domain.NewPersistenceError("failed to load target topic", err)
	}
	if topic == nil {
		return nil, domain.NewTopicNotFoundError(targetTopicID)
	}

	var newItem *domain.ContentItem
	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		newItem, err = s.copyContentItem(txCtx, source, targetTopicID)
		return err
	})
	if err != nil {
		return nil, err
	}

	logger.Get().Info("content item duplicated",
		zap.String("source_item_id", itemID),
		zap.String("new_item_id", newItem.ID),
		zap.String("item_type", string(newItem.Type)),
		zap.String("target_topic_id", targetTopicID),
	)

	s.inval.InvalidateCourseTree(ctx, topic.CourseID)
	return newItem, nil
}

// copyContentItem inserts a copy of item under targetTopicID, carries its
// metadata through the deny-list filter, and recurses into the question tree
// for quizzes. Title and position are preserved verbatim.
func (s *duplicationService) copyContentItem(ctx context.Context, item *domain.ContentItem, targetTopicID string) (*domain.ContentItem, error) {
	newItem := &domain.ContentItem{
		TopicID:  targetTopicID,
		Type:     item.Type,
		Title:    item.Title,
		Body:     item.Body,
		Position: item.Position,
		Status:   item.Status,
	}
	if err := s.items.SaveItem(ctx, newItem); err != nil {
		return nil, domain.NewPersistenceError(
			fmt.Sprintf("failed to copy content item %s", item.ID), err)
	}

	if err := s.copyMeta(ctx, item.ID, newItem.ID, domain.ContentItemMetaCopyAllowed); err != nil {
		return nil, err
	}

	if item.Type == domain.TypeQuiz {
		if err := s.copyQuizTree(ctx, item.ID, newItem.ID); err != nil {
			return nil, err
		}
	}
	return newItem, nil
}

// copyQuizTree duplicates the nested question/answer tree of a quiz. A quiz
// with zero questions, or a question with zero answers, is a no-op at that
// level. No foreign key in the copy ever points into the source tree.
func (s *duplicationService) copyQuizTree(ctx context.Context, sourceQuizID, newQuizID string) error {
	questions, err := s.quizzes.ListQuestionsByQuiz(ctx, sourceQuizID)
	if err != nil {
		return domain.NewPersistenceError("failed to list source quiz questions", err)
	}

	for _, question := range questions {
		newQuestion := &domain.QuizQuestion{
			QuizID:           newQuizID,
			Title:            question.Title,
			Description:      question.Description,
			Explanation:      question.Explanation,
			QuestionType:     question.QuestionType,
			Points:           question.Points,
			MultipleCorrect:  question.MultipleCorrect,
			RandomizeAnswers: question.RandomizeAnswers,
			Position:         question.Position,
		}
		if err := s.quizzes.SaveQuestion(ctx, newQuestion); err != nil {
			return domain.NewPersistenceError(
				fmt.Sprintf("failed to copy question %s", question.ID), err)
		}

		answers, err := s.quizzes.ListAnswersByQuestion(ctx, question.ID)
		if err != nil {
			return domain.NewPersistenceError(
				fmt.Sprintf("failed to list answers for question %s", question.ID), err)
		}
		for _, answer := range answers {
			newAnswer := &domain.QuestionAnswer{
				QuestionID: newQuestion.ID,
				AnswerText: answer.AnswerText,
				IsCorrect:  answer.IsCorrect,
				ImageRef:   answer.ImageRef,
				ViewFormat: answer.ViewFormat,
				Position:   answer.Position,
			}
			if err := s.quizzes.SaveAnswer(ctx, newAnswer); err != nil {
				return domain.NewPersistenceError(
					fmt.Sprintf("failed to copy answer %s", answer.ID), err)
			}
		}
	}
	return nil
}

// copyMeta carries the source entity's metadata to the copy, skipping
// deny-listed keys and scrubbing embedded external identifiers from
// structured values.
func (s *duplicationService) copyMeta(ctx context.Context, sourceID, targetID string, allowed func(string) bool) error {
	entries, err := s.meta.ListMeta(ctx, sourceID)
	if err != nil {
		return domain.NewPersistenceError("failed to list source metadata", err)
	}
	for _, entry := range entries {
		if !allowed(entry.Key) {
			continue
		}
		if err := s.meta.SetMeta(ctx, targetID, entry.Key, scrubStructuredValue(entry.Value)); err != nil {
			return domain.NewPersistenceError(
				fmt.Sprintf("failed to copy meta key %s", entry.Key), err)
		}
	}
	return nil
}

// scrubStructuredValue removes source-only identifier fields from a JSON
// object value. Non-JSON values are copied verbatim.
func scrubStructuredValue(value string) string {
	var obj map[string]interface{}
	if err := json.Unmarshal([]byte(value), &obj); err != nil {
		return value
	}
	changed := false
	for _, field := range domain.StructuredMetaScrubFields() {
		if _, ok := obj[field]; ok {
			delete(obj, field)
			changed = true
		}
	}
	if !changed {
		return value
	}
	scrubbed, err := json.Marshal(obj)
	if err != nil {
		return value
	}
	return string(scrubbed)
}
