package service

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"coursecraft/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type duplicationFixture struct {
	courses *MockCourseRepository
	topics  *MockTopicRepository
	items   *MockContentItemRepository
	quizzes *MockQuizRepository
	meta    *MockMetaRepository
	tx      *passthroughTxManager
	inval   *recordingInvalidator
	svc     domain.DuplicationService
}

func newDuplicationFixture() *duplicationFixture {
	f := &duplicationFixture{
		courses: new(MockCourseRepository),
		topics:  new(MockTopicRepository),
		items:   new(MockContentItemRepository),
		quizzes: new(MockQuizRepository),
		meta:    new(MockMetaRepository),
		tx:      &passthroughTxManager{},
		inval:   &recordingInvalidator{},
	}
	f.svc = NewDuplicationService(f.courses, f.topics, f.items, f.quizzes, f.meta, f.tx, f.inval)
	return f
}

func TestDuplicateTopic_DeepCopiesQuizTree(t *testing.T) {
	f := newDuplicationFixture()

	source := topicFixture("T", "c1", 2)
	source.Title = "Week 1"
	f.topics.On("GetTopicByID", mock.Anything, "T").Return(source, nil)
	f.courses.On("GetCourseByID", mock.Anything, "c1").Return(&domain.Course{ID: "c1", Title: "Go 101"}, nil)
	f.topics.On("MaxTopicPosition", mock.Anything, "c1").Return(4, nil)
	f.topics.On("SaveTopic", mock.Anything, mock.AnythingOfType("*domain.Topic")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*domain.Topic).ID = "T-copy"
		}).Return(nil)

	f.meta.On("ListMeta", mock.Anything, "T").Return([]domain.MetaEntry{
		{EntityID: "T", Key: "_topic_notes", Value: "keep me"},
		{EntityID: "T", Key: domain.MetaKeyEditLock, Value: "1700000000:7"},
	}, nil)
	f.meta.On("SetMeta", mock.Anything, "T-copy", "_topic_notes", "keep me").Return(nil)

	lesson := itemFixture("L1", "T", domain.TypeLesson, 0)
	lesson.Title = "Syntax basics"
	quiz := itemFixture("Q1", "T", domain.TypeQuiz, 1)
	quiz.Title = "Checkpoint"
	f.items.On("ListItemsByTopic", mock.Anything, "T").Return([]*domain.ContentItem{lesson, quiz}, nil)

	var savedItems []*domain.ContentItem
	f.items.On("SaveItem", mock.Anything, mock.AnythingOfType("*domain.ContentItem")).
		Run(func(args mock.Arguments) {
			item := args.Get(1).(*domain.ContentItem)
			item.ID = fmt.Sprintf("copy-%d", len(savedItems))
			savedItems = append(savedItems, item)
		}).Return(nil)

	f.meta.On("ListMeta", mock.Anything, "L1").Return([]domain.MetaEntry{}, nil)
	f.meta.On("ListMeta", mock.Anything, "Q1").Return([]domain.MetaEntry{}, nil)

	question := &domain.QuizQuestion{ID: "QQ1", QuizID: "Q1", Title: "What is a goroutine?", Points: 2, Position: 0}
	f.quizzes.On("ListQuestionsByQuiz", mock.Anything, "Q1").Return([]*domain.QuizQuestion{question}, nil)

	var savedQuestion *domain.QuizQuestion
	f.quizzes.On("SaveQuestion", mock.Anything, mock.AnythingOfType("*domain.QuizQuestion")).
		Run(func(args mock.Arguments) {
			savedQuestion = args.Get(1).(*domain.QuizQuestion)
			savedQuestion.ID = "QQ1-copy"
		}).Return(nil)

	answer := &domain.QuestionAnswer{ID: "A1", QuestionID: "QQ1", AnswerText: "A lightweight thread", IsCorrect: true, Position: 0}
	f.quizzes.On("ListAnswersByQuestion", mock.Anything, "QQ1").Return([]*domain.QuestionAnswer{answer}, nil)

	var savedAnswer *domain.QuestionAnswer
	f.quizzes.On("SaveAnswer", mock.Anything, mock.AnythingOfType("*domain.QuestionAnswer")).
		Run(func(args mock.Arguments) {
			savedAnswer = args.Get(1).(*domain.QuestionAnswer)
			savedAnswer.ID = "A1-copy"
		}).Return(nil)

	newTopic, err := f.svc.DuplicateTopic(context.Background(), "T", "")

	require.NoError(t, err)
	require.NotNil(t, newTopic)

	// The topic copy appends at the end with the marker suffix.
	assert.Equal(t, "Week 1 (copy)", newTopic.Title)
	assert.Equal(t, 5, newTopic.Position)
	assert.Equal(t, "c1", newTopic.CourseID)
	assert.NotEqual(t, source.ID, newTopic.ID)

	// Item copies keep title and position verbatim under the new topic.
	require.Len(t, savedItems, 2)
	assert.Equal(t, "Syntax basics", savedItems[0].Title)
	assert.Equal(t, 0, savedItems[0].Position)
	assert.Equal(t, "Checkpoint", savedItems[1].Title)
	assert.Equal(t, 1, savedItems[1].Position)
	for _, item := range savedItems {
		assert.Equal(t, "T-copy", item.TopicID)
		assert.NotContains(t, []string{"L1", "Q1"}, item.ID)
	}

	// The question tree hangs off the quiz copy, never the source.
	require.NotNil(t, savedQuestion)
	assert.Equal(t, "copy-1", savedQuestion.QuizID)
	assert.Equal(t, "What is a goroutine?", savedQuestion.Title)
	require.NotNil(t, savedAnswer)
	assert.Equal(t, "QQ1-copy", savedAnswer.QuestionID)
	assert.True(t, savedAnswer.IsCorrect)

	// Edit-lock bookkeeping is never copied.
	f.meta.AssertNotCalled(t, "SetMeta", mock.Anything, mock.Anything, domain.MetaKeyEditLock, mock.Anything)

	assert.Equal(t, 1, f.tx.calls)
	assert.Equal(t, []string{"c1"}, f.inval.invalidated())
}

func TestDuplicateTopic_SourceMissing(t *testing.T) {
	f := newDuplicationFixture()
	f.topics.On("GetTopicByID", mock.Anything, "missing").Return(nil, nil)

	topic, err := f.svc.DuplicateTopic(context.Background(), "missing", "")

	assert.Nil(t, topic)
	assert.True(t, domain.IsCode(err, domain.CodeNotFound))
	assert.Equal(t, 0, f.tx.calls)
}

func TestDuplicateTopic_TargetCourseMissing(t *testing.T) {
	f := newDuplicationFixture()
	f.topics.On("GetTopicByID", mock.Anything, "T").Return(topicFixture("T", "c1", 0), nil)
	f.courses.On("GetCourseByID", mock.Anything, "c2").Return(nil, nil)

	topic, err := f.svc.DuplicateTopic(context.Background(), "T", "c2")

	assert.Nil(t, topic)
	assert.True(t, domain.IsCode(err, domain.CodeNotFound))
	assert.Equal(t, 0, f.tx.calls)
}

func TestDuplicateTopic_CrossCourseInvalidatesBothTrees(t *testing.T) {
	f := newDuplicationFixture()
	f.topics.On("GetTopicByID", mock.Anything, "T").Return(topicFixture("T", "c1", 0), nil)
	f.courses.On("GetCourseByID", mock.Anything, "c2").Return(&domain.Course{ID: "c2"}, nil)
	f.topics.On("MaxTopicPosition", mock.Anything, "c2").Return(-1, nil)
	f.topics.On("SaveTopic", mock.Anything, mock.AnythingOfType("*domain.Topic")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*domain.Topic).ID = "T-copy"
		}).Return(nil)
	f.meta.On("ListMeta", mock.Anything, "T").Return([]domain.MetaEntry{}, nil)
	f.items.On("ListItemsByTopic", mock.Anything, "T").Return([]*domain.ContentItem{}, nil)

	newTopic, err := f.svc.DuplicateTopic(context.Background(), "T", "c2")

	require.NoError(t, err)
	// First topic in an empty course lands at position 0.
	assert.Equal(t, 0, newTopic.Position)
	assert.Equal(t, "c2", newTopic.CourseID)
	assert.ElementsMatch(t, []string{"c1", "c2"}, f.inval.invalidated())
}

func TestDuplicateContentItem_ScrubsExternalIdentifiers(t *testing.T) {
	f := newDuplicationFixture()

	source := itemFixture("LL1", "t1", domain.TypeLiveLesson, 3)
	f.items.On("GetItemByID", mock.Anything, "LL1").Return(source, nil)
	f.topics.On("GetTopicByID", mock.Anything, "t1").Return(topicFixture("t1", "c1", 0), nil)
	f.items.On("SaveItem", mock.Anything, mock.AnythingOfType("*domain.ContentItem")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*domain.ContentItem).ID = "LL1-copy"
		}).Return(nil)

	config := `{"provider":"zoom","event_id":"evt-9","meeting_id":"m-4","duration":60}`
	f.meta.On("ListMeta", mock.Anything, "LL1").Return([]domain.MetaEntry{
		{EntityID: "LL1", Key: domain.MetaKeyLiveLessonConfig, Value: config},
		{EntityID: "LL1", Key: domain.MetaKeyLiveEventID, Value: "evt-9"},
		{EntityID: "LL1", Key: domain.MetaKeyLiveProviderToken, Value: "tok"},
	}, nil)

	var copiedConfig string
	f.meta.On("SetMeta", mock.Anything, "LL1-copy", domain.MetaKeyLiveLessonConfig, mock.AnythingOfType("string")).
		Run(func(args mock.Arguments) {
			copiedConfig = args.Get(3).(string)
		}).Return(nil)

	newItem, err := f.svc.DuplicateContentItem(context.Background(), "LL1", "")

	require.NoError(t, err)
	assert.Equal(t, "t1", newItem.TopicID)
	assert.Equal(t, 3, newItem.Position)

	// Provider identifiers are stripped both as whole keys and inside
	// structured values.
	f.meta.AssertNotCalled(t, "SetMeta", mock.Anything, mock.Anything, domain.MetaKeyLiveEventID, mock.Anything)
	f.meta.AssertNotCalled(t, "SetMeta", mock.Anything, mock.Anything, domain.MetaKeyLiveProviderToken, mock.Anything)

	var parsed map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(copiedConfig), &parsed))
	assert.NotContains(t, parsed, "event_id")
	assert.NotContains(t, parsed, "meeting_id")
	assert.Equal(t, "zoom", parsed["provider"])
	assert.Equal(t, float64(60), parsed["duration"])
}

func TestDuplicateContentItem_TargetTopicMissing(t *testing.T) {
	f := newDuplicationFixture()
	f.items.On("GetItemByID", mock.Anything, "i1").Return(itemFixture("i1", "t1", domain.TypeLesson, 0), nil)
	f.topics.On("GetTopicByID", mock.Anything, "t-gone").Return(nil, nil)

	item, err := f.svc.DuplicateContentItem(context.Background(), "i1", "t-gone")

	assert.Nil(t, item)
	assert.True(t, domain.IsCode(err, domain.CodeNotFound))
}

func TestDuplicateContentItem_EmptyQuizIsNoOpAtQuestionLevel(t *testing.T) {
	f := newDuplicationFixture()
	source := itemFixture("Q1", "t1", domain.TypeQuiz, 0)
	f.items.On("GetItemByID", mock.Anything, "Q1").Return(source, nil)
	f.topics.On("GetTopicByID", mock.Anything, "t1").Return(topicFixture("t1", "c1", 0), nil)
	f.items.On("SaveItem", mock.Anything, mock.AnythingOfType("*domain.ContentItem")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*domain.ContentItem).ID = "Q1-copy"
		}).Return(nil)
	f.meta.On("ListMeta", mock.Anything, "Q1").Return([]domain.MetaEntry{}, nil)
	f.quizzes.On("ListQuestionsByQuiz", mock.Anything, "Q1").Return([]*domain.QuizQuestion{}, nil)

	_, err := f.svc.DuplicateContentItem(context.Background(), "Q1", "")

	assert.NoError(t, err)
	f.quizzes.AssertNotCalled(t, "SaveQuestion", mock.Anything, mock.Anything)
	f.quizzes.AssertNotCalled(t, "SaveAnswer", mock.Anything, mock.Anything)
}

func TestScrubStructuredValue(t *testing.T) {
	scrubbed := scrubStructuredValue(`{"event_id":"e1","keep":"yes"}`)
	var parsed map[string]interface{}
	if assert.NoError(t, json.Unmarshal([]byte(scrubbed), &parsed)) {
		assert.NotContains(t, parsed, "event_id")
		assert.Equal(t, "yes", parsed["keep"])
	}

	// Non-JSON values are carried verbatim.
	assert.Equal(t, "120", scrubStructuredValue("120"))
	assert.Equal(t, "plain text", scrubStructuredValue("plain text"))

	// JSON without scrub fields is untouched, byte for byte.
	original := `{"a":1,"b":2}`
	assert.Equal(t, original, scrubStructuredValue(original))
}
