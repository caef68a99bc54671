package models

import (
	"database/sql"
	"time"
)

// QuizQuestion is the db model for the quiz_questions table.
type QuizQuestion struct {
	ID               string         `db:"id"`
	QuizID           string         `db:"quiz_id"`
	Title            string         `db:"title"`
	Description      sql.NullString `db:"description"`
	Explanation      sql.NullString `db:"explanation"`
	QuestionType     string         `db:"question_type"`
	Points           int            `db:"points"`
	MultipleCorrect  bool           `db:"multiple_correct"`
	RandomizeAnswers bool           `db:"randomize_answers"`
	Position         int            `db:"position"`
	CreatedAt        time.Time      `db:"created_at"`
	UpdatedAt        time.Time      `db:"updated_at"`
}

func (QuizQuestion) TableName() string {
	return "quiz_questions"
}

// QuestionAnswer is the db model for the question_answers table.
type QuestionAnswer struct {
	ID         string         `db:"id"`
	QuestionID string         `db:"question_id"`
	AnswerText string         `db:"answer_text"`
	IsCorrect  bool           `db:"is_correct"`
	ImageRef   sql.NullString `db:"image_ref"`
	ViewFormat sql.NullString `db:"view_format"`
	Position   int            `db:"position"`
	CreatedAt  time.Time      `db:"created_at"`
	UpdatedAt  time.Time      `db:"updated_at"`
}

func (QuestionAnswer) TableName() string {
	return "question_answers"
}

// QuizAttempt is the db model for the quiz_attempts table.
type QuizAttempt struct {
	ID         string       `db:"id"`
	QuizID     string       `db:"quiz_id"`
	UserID     string       `db:"user_id"`
	Score      float64      `db:"score"`
	StartedAt  time.Time    `db:"started_at"`
	FinishedAt sql.NullTime `db:"finished_at"`
	CreatedAt  time.Time    `db:"created_at"`
	UpdatedAt  time.Time    `db:"updated_at"`
}

func (QuizAttempt) TableName() string {
	return "quiz_attempts"
}

// AttemptAnswer is the db model for the attempt_answers table.
type AttemptAnswer struct {
	ID          string         `db:"id"`
	AttemptID   string         `db:"attempt_id"`
	QuizID      string         `db:"quiz_id"`
	QuestionID  string         `db:"question_id"`
	GivenAnswer sql.NullString `db:"given_answer"`
	IsCorrect   bool           `db:"is_correct"`
	CreatedAt   time.Time      `db:"created_at"`
}

func (AttemptAnswer) TableName() string {
	return "attempt_answers"
}
