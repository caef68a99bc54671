package domain

import "context"

// TransactionManager runs a function inside one atomic unit of work. The
// transaction travels in the context; repositories pick it up transparently.
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// CourseRepository defines the interface for course persistence
type CourseRepository interface {
	// GetCourseByID retrieves a course by its ID, nil if absent
	GetCourseByID(ctx context.Context, id string) (*Course, error)
}

// TopicRepository defines the interface for topic persistence
type TopicRepository interface {
	// GetTopicByID retrieves a topic by its ID, nil if absent
	GetTopicByID(ctx context.Context, id string) (*Topic, error)

	// ListTopicsByCourse returns the course's topics in position order,
	// every status included
	ListTopicsByCourse(ctx context.Context, courseID string) ([]*Topic, error)

	// MaxTopicPosition returns the highest position among the course's
	// topics, -1 when the course has none
	MaxTopicPosition(ctx context.Context, courseID string) (int, error)

	// SaveTopic persists a new topic and mints its ID
	SaveTopic(ctx context.Context, topic *Topic) error

	// UpdateTopic applies the supplied fields to an existing topic
	UpdateTopic(ctx context.Context, topic *Topic) error

	// UpdateTopicPosition writes a single position value verbatim
	UpdateTopicPosition(ctx context.Context, id string, position int) error

	// DeleteTopic removes the topic row
	DeleteTopic(ctx context.Context, id string) error
}

// ContentItemRepository defines the interface for content item persistence
type ContentItemRepository interface {
	// GetItemByID retrieves a content item by its ID, nil if absent
	GetItemByID(ctx context.Context, id string) (*ContentItem, error)

	// ListItemsByTopic returns the topic's items in position order, all
	// variants and all statuses included
	ListItemsByTopic(ctx context.Context, topicID string) ([]*ContentItem, error)

	// SaveItem persists a new content item and mints its ID
	SaveItem(ctx context.Context, item *ContentItem) error

	// UpdateItem applies the supplied fields to an existing item
	UpdateItem(ctx context.Context, item *ContentItem) error

	// UpdateItemPosition writes a single position value verbatim
	UpdateItemPosition(ctx context.Context, id string, position int) error

	// DeleteItem removes the content item row
	DeleteItem(ctx context.Context, id string) error
}

// QuizRepository defines the interface for the quiz question/answer/attempt
// tables touched by duplication and cascade deletion.
type QuizRepository interface {
	// ListQuestionsByQuiz returns the quiz's questions in position order
	ListQuestionsByQuiz(ctx context.Context, quizID string) ([]*QuizQuestion, error)

	// ListAnswersByQuestion returns the question's answers in position order
	ListAnswersByQuestion(ctx context.Context, questionID string) ([]*QuestionAnswer, error)

	// ListQuestionIDsByQuiz returns just the question IDs for a quiz
	ListQuestionIDsByQuiz(ctx context.Context, quizID string) ([]string, error)

	// SaveQuestion inserts a question row and mints its ID
	SaveQuestion(ctx context.Context, question *QuizQuestion) error

	// SaveAnswer inserts an answer row and mints its ID
	SaveAnswer(ctx context.Context, answer *QuestionAnswer) error

	// DeleteAttemptsByQuiz removes all attempt records for the quiz
	DeleteAttemptsByQuiz(ctx context.Context, quizID string) error

	// DeleteAttemptAnswersByQuiz removes all attempt answer records for the quiz
	DeleteAttemptAnswersByQuiz(ctx context.Context, quizID string) error

	// DeleteAnswersByQuestionIDs removes answer rows for the question set
	DeleteAnswersByQuestionIDs(ctx context.Context, questionIDs []string) error

	// DeleteQuestionsByQuiz removes all question rows for the quiz
	DeleteQuestionsByQuiz(ctx context.Context, quizID string) error
}

// MetaRepository defines the interface for entity key/value metadata
type MetaRepository interface {
	// ListMeta returns every meta entry for the entity
	ListMeta(ctx context.Context, entityID string) ([]MetaEntry, error)

	// SetMeta writes one meta entry, replacing an existing key
	SetMeta(ctx context.Context, entityID, key, value string) error

	// DeleteMetaByEntity removes all meta rows for the entity
	DeleteMetaByEntity(ctx context.Context, entityID string) error
}
