package service

import (
	"context"
	"errors"
	"testing"

	"coursecraft/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type deletionFixture struct {
	topics  *MockTopicRepository
	items   *MockContentItemRepository
	quizzes *MockQuizRepository
	meta    *MockMetaRepository
	tx      *passthroughTxManager
	inval   *recordingInvalidator
	svc     domain.DeletionService
}

func newDeletionFixture() *deletionFixture {
	f := &deletionFixture{
		topics:  new(MockTopicRepository),
		items:   new(MockContentItemRepository),
		quizzes: new(MockQuizRepository),
		meta:    new(MockMetaRepository),
		tx:      &passthroughTxManager{},
		inval:   &recordingInvalidator{},
	}
	f.svc = NewDeletionService(f.topics, f.items, f.quizzes, f.meta, f.tx, f.inval)
	return f
}

func TestDeleteContentItem_QuizCascadeOrder(t *testing.T) {
	f := newDeletionFixture()

	quiz := itemFixture("Q1", "t1", domain.TypeQuiz, 0)
	f.items.On("GetItemByID", mock.Anything, "Q1").Return(quiz, nil)
	f.topics.On("GetTopicByID", mock.Anything, "t1").Return(topicFixture("t1", "c1", 0), nil)

	var order []string
	record := func(step string) func(mock.Arguments) {
		return func(mock.Arguments) { order = append(order, step) }
	}

	f.quizzes.On("DeleteAttemptsByQuiz", mock.Anything, "Q1").Run(record("attempts")).Return(nil)
	f.quizzes.On("DeleteAttemptAnswersByQuiz", mock.Anything, "Q1").Run(record("attempt_answers")).Return(nil)
	f.quizzes.On("ListQuestionIDsByQuiz", mock.Anything, "Q1").Run(record("list_questions")).
		Return([]string{"qq1", "qq2"}, nil)
	f.quizzes.On("DeleteAnswersByQuestionIDs", mock.Anything, []string{"qq1", "qq2"}).Run(record("answers")).Return(nil)
	f.quizzes.On("DeleteQuestionsByQuiz", mock.Anything, "Q1").Run(record("questions")).Return(nil)
	f.meta.On("DeleteMetaByEntity", mock.Anything, "Q1").Run(record("meta")).Return(nil)
	f.items.On("DeleteItem", mock.Anything, "Q1").Run(record("item")).Return(nil)

	err := f.svc.DeleteContentItem(context.Background(), "Q1")

	require.NoError(t, err)
	// Dependents go first, in dependency order; the item row goes last.
	assert.Equal(t, []string{"attempts", "attempt_answers", "list_questions", "answers", "questions", "meta", "item"}, order)
	assert.Equal(t, 1, f.tx.calls)
	assert.Equal(t, []string{"c1"}, f.inval.invalidated())
}

func TestDeleteContentItem_LessonSkipsQuizTables(t *testing.T) {
	f := newDeletionFixture()

	lesson := itemFixture("L1", "t1", domain.TypeLesson, 0)
	f.items.On("GetItemByID", mock.Anything, "L1").Return(lesson, nil)
	f.topics.On("GetTopicByID", mock.Anything, "t1").Return(topicFixture("t1", "c1", 0), nil)
	f.meta.On("DeleteMetaByEntity", mock.Anything, "L1").Return(nil)
	f.items.On("DeleteItem", mock.Anything, "L1").Return(nil)

	err := f.svc.DeleteContentItem(context.Background(), "L1")

	assert.NoError(t, err)
	f.quizzes.AssertNotCalled(t, "DeleteAttemptsByQuiz", mock.Anything, mock.Anything)
	f.quizzes.AssertNotCalled(t, "DeleteQuestionsByQuiz", mock.Anything, mock.Anything)
}

func TestDeleteContentItem_Missing(t *testing.T) {
	f := newDeletionFixture()
	f.items.On("GetItemByID", mock.Anything, "gone").Return(nil, nil)

	err := f.svc.DeleteContentItem(context.Background(), "gone")

	assert.True(t, domain.IsCode(err, domain.CodeNotFound))
	assert.Equal(t, 0, f.tx.calls)
	f.items.AssertNotCalled(t, "DeleteItem", mock.Anything, mock.Anything)
}

func TestDeleteTopic_Missing(t *testing.T) {
	f := newDeletionFixture()
	f.topics.On("GetTopicByID", mock.Anything, "gone").Return(nil, nil)

	result, err := f.svc.DeleteTopic(context.Background(), "gone")

	assert.Nil(t, result)
	assert.True(t, domain.IsCode(err, domain.CodeNotFound))
}

func TestDeleteTopic_RemovesAllChildren(t *testing.T) {
	f := newDeletionFixture()

	f.topics.On("GetTopicByID", mock.Anything, "t1").Return(topicFixture("t1", "c1", 0), nil)
	f.items.On("ListItemsByTopic", mock.Anything, "t1").Return([]*domain.ContentItem{
		itemFixture("L1", "t1", domain.TypeLesson, 0),
		itemFixture("A1", "t1", domain.TypeAssignment, 1),
	}, nil)
	f.meta.On("DeleteMetaByEntity", mock.Anything, mock.Anything).Return(nil)
	f.items.On("DeleteItem", mock.Anything, "L1").Return(nil)
	f.items.On("DeleteItem", mock.Anything, "A1").Return(nil)
	f.topics.On("DeleteTopic", mock.Anything, "t1").Return(nil)

	result, err := f.svc.DeleteTopic(context.Background(), "t1")

	require.NoError(t, err)
	assert.Equal(t, "t1", result.DeletedID)
	assert.False(t, result.Partial())
	assert.Empty(t, result.Failures)
	// One transaction per item cascade plus one for the topic itself.
	assert.Equal(t, 3, f.tx.calls)
	assert.Equal(t, []string{"c1"}, f.inval.invalidated())
}

func TestDeleteTopic_CollectsCascadeFailures(t *testing.T) {
	f := newDeletionFixture()

	f.topics.On("GetTopicByID", mock.Anything, "t1").Return(topicFixture("t1", "c1", 0), nil)
	f.items.On("ListItemsByTopic", mock.Anything, "t1").Return([]*domain.ContentItem{
		itemFixture("L1", "t1", domain.TypeLesson, 0),
		itemFixture("Q1", "t1", domain.TypeQuiz, 1),
	}, nil)

	f.meta.On("DeleteMetaByEntity", mock.Anything, mock.Anything).Return(nil)
	f.items.On("DeleteItem", mock.Anything, "L1").Return(nil)

	// The quiz cascade blows up partway through.
	f.quizzes.On("DeleteAttemptsByQuiz", mock.Anything, "Q1").Return(errors.New("attempts table locked"))

	f.topics.On("DeleteTopic", mock.Anything, "t1").Return(nil)

	result, err := f.svc.DeleteTopic(context.Background(), "t1")

	// The topic delete still succeeds; the failure is reported, not fatal.
	require.NoError(t, err)
	assert.Equal(t, "t1", result.DeletedID)
	require.True(t, result.Partial())
	require.Len(t, result.Failures, 1)
	assert.Equal(t, "Q1", result.Failures[0].ItemID)
	assert.Equal(t, domain.TypeQuiz, result.Failures[0].ItemType)
	assert.Contains(t, result.Failures[0].Reason, "attempts table locked")

	// The quiz item row survives for a cleanup retry; its own transaction
	// rolled back.
	f.items.AssertNotCalled(t, "DeleteItem", mock.Anything, "Q1")
	assert.Equal(t, 1, f.tx.rolledBack)
	f.topics.AssertCalled(t, "DeleteTopic", mock.Anything, "t1")
}

func TestDeleteTopic_TopicRowFailureIsFatal(t *testing.T) {
	f := newDeletionFixture()

	f.topics.On("GetTopicByID", mock.Anything, "t1").Return(topicFixture("t1", "c1", 0), nil)
	f.items.On("ListItemsByTopic", mock.Anything, "t1").Return([]*domain.ContentItem{}, nil)
	f.meta.On("DeleteMetaByEntity", mock.Anything, "t1").Return(nil)
	f.topics.On("DeleteTopic", mock.Anything, "t1").Return(errors.New("deadlock"))

	result, err := f.svc.DeleteTopic(context.Background(), "t1")

	assert.Nil(t, result)
	assert.True(t, domain.IsCode(err, domain.CodePersistenceFailure))
	assert.Empty(t, f.inval.invalidated())
}
