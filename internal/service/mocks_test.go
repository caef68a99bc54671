package service

import (
	"context"
	"sync"
	"time"

	"coursecraft/internal/domain"

	"github.com/stretchr/testify/mock"
)

// --- MockCourseRepository ---
type MockCourseRepository struct {
	mock.Mock
}

func (m *MockCourseRepository) GetCourseByID(ctx context.Context, id string) (*domain.Course, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Course), args.Error(1)
}

// --- MockTopicRepository ---
type MockTopicRepository struct {
	mock.Mock
}

func (m *MockTopicRepository) GetTopicByID(ctx context.Context, id string) (*domain.Topic, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Topic), args.Error(1)
}

func (m *MockTopicRepository) ListTopicsByCourse(ctx context.Context, courseID string) ([]*domain.Topic, error) {
	args := m.Called(ctx, courseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Topic), args.Error(1)
}

func (m *MockTopicRepository) MaxTopicPosition(ctx context.Context, courseID string) (int, error) {
	args := m.Called(ctx, courseID)
	return args.Int(0), args.Error(1)
}

func (m *MockTopicRepository) SaveTopic(ctx context.Context, topic *domain.Topic) error {
	args := m.Called(ctx, topic)
	return args.Error(0)
}

func (m *MockTopicRepository) UpdateTopic(ctx context.Context, topic *domain.Topic) error {
	args := m.Called(ctx, topic)
	return args.Error(0)
}

func (m *MockTopicRepository) UpdateTopicPosition(ctx context.Context, id string, position int) error {
	args := m.Called(ctx, id, position)
	return args.Error(0)
}

func (m *MockTopicRepository) DeleteTopic(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// --- MockContentItemRepository ---
type MockContentItemRepository struct {
	mock.Mock
}

func (m *MockContentItemRepository) GetItemByID(ctx context.Context, id string) (*domain.ContentItem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ContentItem), args.Error(1)
}

func (m *MockContentItemRepository) ListItemsByTopic(ctx context.Context, topicID string) ([]*domain.ContentItem, error) {
	args := m.Called(ctx, topicID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.ContentItem), args.Error(1)
}

func (m *MockContentItemRepository) SaveItem(ctx context.Context, item *domain.ContentItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockContentItemRepository) UpdateItem(ctx context.Context, item *domain.ContentItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockContentItemRepository) UpdateItemPosition(ctx context.Context, id string, position int) error {
	args := m.Called(ctx, id, position)
	return args.Error(0)
}

func (m *MockContentItemRepository) DeleteItem(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// --- MockQuizRepository ---
type MockQuizRepository struct {
	mock.Mock
}

func (m *MockQuizRepository) ListQuestionsByQuiz(ctx context.Context, quizID string) ([]*domain.QuizQuestion, error) {
	args := m.Called(ctx, quizID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.QuizQuestion), args.Error(1)
}

func (m *MockQuizRepository) ListAnswersByQuestion(ctx context.Context, questionID string) ([]*domain.QuestionAnswer, error) {
	args := m.Called(ctx, questionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.QuestionAnswer), args.Error(1)
}

func (m *MockQuizRepository) ListQuestionIDsByQuiz(ctx context.Context, quizID string) ([]string, error) {
	args := m.Called(ctx, quizID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockQuizRepository) SaveQuestion(ctx context.Context, question *domain.QuizQuestion) error {
	args := m.Called(ctx, question)
	return args.Error(0)
}

func (m *MockQuizRepository) SaveAnswer(ctx context.Context, answer *domain.QuestionAnswer) error {
	args := m.Called(ctx, answer)
	return args.Error(0)
}

func (m *MockQuizRepository) DeleteAttemptsByQuiz(ctx context.Context, quizID string) error {
	args := m.Called(ctx, quizID)
	return args.Error(0)
}

func (m *MockQuizRepository) DeleteAttemptAnswersByQuiz(ctx context.Context, quizID string) error {
	args := m.Called(ctx, quizID)
	return args.Error(0)
}

func (m *MockQuizRepository) DeleteAnswersByQuestionIDs(ctx context.Context, questionIDs []string) error {
	args := m.Called(ctx, questionIDs)
	return args.Error(0)
}

func (m *MockQuizRepository) DeleteQuestionsByQuiz(ctx context.Context, quizID string) error {
	args := m.Called(ctx, quizID)
	return args.Error(0)
}

// --- MockMetaRepository ---
type MockMetaRepository struct {
	mock.Mock
}

func (m *MockMetaRepository) ListMeta(ctx context.Context, entityID string) ([]domain.MetaEntry, error) {
	args := m.Called(ctx, entityID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.MetaEntry), args.Error(1)
}

func (m *MockMetaRepository) SetMeta(ctx context.Context, entityID, key, value string) error {
	args := m.Called(ctx, entityID, key, value)
	return args.Error(0)
}

func (m *MockMetaRepository) DeleteMetaByEntity(ctx context.Context, entityID string) error {
	args := m.Called(ctx, entityID)
	return args.Error(0)
}

// passthroughTxManager runs the unit of work directly and records whether it
// returned an error, standing in for commit/rollback.
type passthroughTxManager struct {
	calls      int
	rolledBack int
}

func (m *passthroughTxManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	m.calls++
	if err := fn(ctx); err != nil {
		m.rolledBack++
		return err
	}
	return nil
}

// recordingInvalidator records which course trees were invalidated.
type recordingInvalidator struct {
	mu        sync.Mutex
	courseIDs []string
}

func (r *recordingInvalidator) InvalidateCourseTree(ctx context.Context, courseID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.courseIDs = append(r.courseIDs, courseID)
}

func (r *recordingInvalidator) invalidated() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.courseIDs...)
}

// fakeCache is an in-memory domain.Cache for tree cache tests.
type fakeCache struct {
	mu      sync.Mutex
	store   map[string]string
	getErr  error
	setErr  error
	gets    int
	sets    int
	deletes int
}

func newFakeCache() *fakeCache {
	return &fakeCache{store: make(map[string]string)}
}

func (c *fakeCache) Get(ctx context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	if c.getErr != nil {
		return "", c.getErr
	}
	val, ok := c.store[key]
	if !ok {
		return "", domain.ErrCacheMiss
	}
	return val, nil
}

func (c *fakeCache) Set(ctx context.Context, key string, value string, expiration time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sets++
	if c.setErr != nil {
		return c.setErr
	}
	c.store[key] = value
	return nil
}

func (c *fakeCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.deletes++
	delete(c.store, key)
	return nil
}

func (c *fakeCache) Ping(ctx context.Context) error {
	return nil
}
