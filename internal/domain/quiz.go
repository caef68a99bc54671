package domain

import "time"

// QuizQuestion is a child of exactly one quiz content item. Questions are
// never created or updated directly by this engine; they are only duplicated
// with their quiz or deleted with it.
type QuizQuestion struct {
	ID               string
	QuizID           string
	Title            string
	Description      string
	Explanation      string
	QuestionType     string
	Points           int
	MultipleCorrect  bool
	RandomizeAnswers bool
	Position         int
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// BelongsTo reports whether the question is a child of the quiz.
func (q *QuizQuestion) BelongsTo(quizID string) bool {
	return q.QuizID == quizID
}

// QuestionAnswer is a child of exactly one QuizQuestion and never outlives it.
type QuestionAnswer struct {
	ID         string
	QuestionID string
	AnswerText string
	IsCorrect  bool
	ImageRef   string
	ViewFormat string
	Position   int
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// BelongsTo reports whether the answer is a child of the question.
func (a *QuestionAnswer) BelongsTo(questionID string) bool {
	return a.QuestionID == questionID
}

// QuizAttempt records a user's run through a quiz. Attempts are cleaned up by
// the quiz cascade; this engine never creates them.
type QuizAttempt struct {
	ID         string
	QuizID     string
	UserID     string
	Score      float64
	StartedAt  time.Time
	FinishedAt *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// AttemptAnswer records a single answer given during an attempt. It references
// both the attempt and the question, which is why question rows must be
// removed after attempt answers during a quiz cascade.
type AttemptAnswer struct {
	ID          string
	AttemptID   string
	QuizID      string
	QuestionID  string
	GivenAnswer string
	IsCorrect   bool
	CreatedAt   time.Time
}
