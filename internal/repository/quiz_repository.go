package repository

import (
	"context"
	"fmt"
	"time"

	"coursecraft/internal/domain"
	"coursecraft/internal/repository/models"
	"coursecraft/internal/util"

	"github.com/jmoiron/sqlx"
)

// QuizDatabaseAdapter implements domain.QuizRepository using sqlx.DB. It
// covers the dependent tables behind a quiz content item: questions, answers,
// attempts and attempt answers.
type QuizDatabaseAdapter struct {
	db *sqlx.DB
}

// NewQuizDatabaseAdapter creates a new instance of QuizDatabaseAdapter
func NewQuizDatabaseAdapter(db *sqlx.DB) domain.QuizRepository {
	return &QuizDatabaseAdapter{db: db}
}

// ListQuestionsByQuiz implements domain.QuizRepository
func (a *QuizDatabaseAdapter) ListQuestionsByQuiz(ctx context.Context, quizID string) ([]*domain.QuizQuestion, error) {
	exec := GetExecutor(ctx, a.db)

	var modelQuestions []models.QuizQuestion
	query := `SELECT id, quiz_id, title, description, explanation, question_type,
			points, multiple_correct, randomize_answers, position, created_at, updated_at
		FROM quiz_questions
		WHERE quiz_id = $1
		ORDER BY position ASC, id ASC`

	if err := exec.SelectContext(ctx, &modelQuestions, query, quizID); err != nil {
		return nil, fmt.Errorf("failed to list questions for quiz %s: %w", quizID, err)
	}

	questions := make([]*domain.QuizQuestion, 0, len(modelQuestions))
	for i := range modelQuestions {
		questions = append(questions, toDomainQuizQuestion(&modelQuestions[i]))
	}
	return questions, nil
}

// ListAnswersByQuestion implements domain.QuizRepository
func (a *QuizDatabaseAdapter) ListAnswersByQuestion(ctx context.Context, questionID string) ([]*domain.QuestionAnswer, error) {
	exec := GetExecutor(ctx, a.db)

	var modelAnswers []models.QuestionAnswer
	query := `SELECT id, question_id, answer_text, is_correct, image_ref, view_format,
			position, created_at, updated_at
		FROM question_answers
		WHERE question_id = $1
		ORDER BY position ASC, id ASC`

	if err := exec.SelectContext(ctx, &modelAnswers, query, questionID); err != nil {
		return nil, fmt.Errorf("failed to list answers for question %s: %w", questionID, err)
	}

	answers := make([]*domain.QuestionAnswer, 0, len(modelAnswers))
	for i := range modelAnswers {
		answers = append(answers, toDomainQuestionAnswer(&modelAnswers[i]))
	}
	return answers, nil
}

// ListQuestionIDsByQuiz implements domain.QuizRepository
func (a *QuizDatabaseAdapter) ListQuestionIDsByQuiz(ctx context.Context, quizID string) ([]string, error) {
	exec := GetExecutor(ctx, a.db)

	var ids []string
	query := `SELECT id FROM quiz_questions WHERE quiz_id = $1 ORDER BY position ASC, id ASC`
	if err := exec.SelectContext(ctx, &ids, query, quizID); err != nil {
		return nil, fmt.Errorf("failed to list question IDs for quiz %s: %w", quizID, err)
	}
	if ids == nil {
		return []string{}, nil
	}
	return ids, nil
}

// SaveQuestion implements domain.QuizRepository
func (a *QuizDatabaseAdapter) SaveQuestion(ctx context.Context, question *domain.QuizQuestion) error {
	if question == nil {
		return fmt.Errorf("cannot save nil question")
	}
	exec := GetExecutor(ctx, a.db)

	modelQuestion := toModelQuizQuestion(question)
	modelQuestion.ID = util.NewULID()
	modelQuestion.CreatedAt = time.Now()
	modelQuestion.UpdatedAt = modelQuestion.CreatedAt

	query := `INSERT INTO quiz_questions (id, quiz_id, title, description, explanation,
			question_type, points, multiple_correct, randomize_answers, position, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err := exec.ExecContext(ctx, query,
		modelQuestion.ID,
		modelQuestion.QuizID,
		modelQuestion.Title,
		modelQuestion.Description,
		modelQuestion.Explanation,
		modelQuestion.QuestionType,
		modelQuestion.Points,
		modelQuestion.MultipleCorrect,
		modelQuestion.RandomizeAnswers,
		modelQuestion.Position,
		modelQuestion.CreatedAt,
		modelQuestion.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save quiz question: %w", err)
	}

	question.ID = modelQuestion.ID
	question.CreatedAt = modelQuestion.CreatedAt
	question.UpdatedAt = modelQuestion.UpdatedAt
	return nil
}

// SaveAnswer implements domain.QuizRepository
func (a *QuizDatabaseAdapter) SaveAnswer(ctx context.Context, answer *domain.QuestionAnswer) error {
	if answer == nil {
		return fmt.Errorf("cannot save nil answer")
	}
	exec := GetExecutor(ctx, a.db)

	modelAnswer := toModelQuestionAnswer(answer)
	modelAnswer.ID = util.NewULID()
	modelAnswer.CreatedAt = time.Now()
	modelAnswer.UpdatedAt = modelAnswer.CreatedAt

	query := `INSERT INTO question_answers (id, question_id, answer_text, is_correct,
			image_ref, view_format, position, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := exec.ExecContext(ctx, query,
		modelAnswer.ID,
		modelAnswer.QuestionID,
		modelAnswer.AnswerText,
		modelAnswer.IsCorrect,
		modelAnswer.ImageRef,
		modelAnswer.ViewFormat,
		modelAnswer.Position,
		modelAnswer.CreatedAt,
		modelAnswer.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save question answer: %w", err)
	}

	answer.ID = modelAnswer.ID
	answer.CreatedAt = modelAnswer.CreatedAt
	answer.UpdatedAt = modelAnswer.UpdatedAt
	return nil
}

// DeleteAttemptsByQuiz implements domain.QuizRepository
func (a *QuizDatabaseAdapter) DeleteAttemptsByQuiz(ctx context.Context, quizID string) error {
	exec := GetExecutor(ctx, a.db)

	if _, err := exec.ExecContext(ctx, `DELETE FROM quiz_attempts WHERE quiz_id = $1`, quizID); err != nil {
		return fmt.Errorf("failed to delete attempts for quiz %s: %w", quizID, err)
	}
	return nil
}

// DeleteAttemptAnswersByQuiz implements domain.QuizRepository
func (a *QuizDatabaseAdapter) DeleteAttemptAnswersByQuiz(ctx context.Context, quizID string) error {
	exec := GetExecutor(ctx, a.db)

	if _, err := exec.ExecContext(ctx, `DELETE FROM attempt_answers WHERE quiz_id = $1`, quizID); err != nil {
		return fmt.Errorf("failed to delete attempt answers for quiz %s: %w", quizID, err)
	}
	return nil
}

// DeleteAnswersByQuestionIDs implements domain.QuizRepository. A batch delete
// over the question-id set; a quiz with no questions is a no-op.
func (a *QuizDatabaseAdapter) DeleteAnswersByQuestionIDs(ctx context.Context, questionIDs []string) error {
	if len(questionIDs) == 0 {
		return nil
	}
	exec := GetExecutor(ctx, a.db)

	query, args, err := sqlx.In(`DELETE FROM question_answers WHERE question_id IN (?)`, questionIDs)
	if err != nil {
		return fmt.Errorf("failed to build answer delete query: %w", err)
	}
	query = sqlx.Rebind(sqlx.DOLLAR, query)

	if _, err := exec.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to delete answers for %d questions: %w", len(questionIDs), err)
	}
	return nil
}

// DeleteQuestionsByQuiz implements domain.QuizRepository
func (a *QuizDatabaseAdapter) DeleteQuestionsByQuiz(ctx context.Context, quizID string) error {
	exec := GetExecutor(ctx, a.db)

	if _, err := exec.ExecContext(ctx, `DELETE FROM quiz_questions WHERE quiz_id = $1`, quizID); err != nil {
		return fmt.Errorf("failed to delete questions for quiz %s: %w", quizID, err)
	}
	return nil
}

// Helper functions for model conversion

func toDomainQuizQuestion(m *models.QuizQuestion) *domain.QuizQuestion {
	if m == nil {
		return nil
	}
	return &domain.QuizQuestion{
		ID:               m.ID,
		QuizID:           m.QuizID,
		Title:            m.Title,
		Description:      m.Description.String,
		Explanation:      m.Explanation.String,
		QuestionType:     m.QuestionType,
		Points:           m.Points,
		MultipleCorrect:  m.MultipleCorrect,
		RandomizeAnswers: m.RandomizeAnswers,
		Position:         m.Position,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
}

func toModelQuizQuestion(d *domain.QuizQuestion) *models.QuizQuestion {
	if d == nil {
		return nil
	}
	return &models.QuizQuestion{
		ID:               d.ID,
		QuizID:           d.QuizID,
		Title:            d.Title,
		Description:      util.StringToNullString(d.Description),
		Explanation:      util.StringToNullString(d.Explanation),
		QuestionType:     d.QuestionType,
		Points:           d.Points,
		MultipleCorrect:  d.MultipleCorrect,
		RandomizeAnswers: d.RandomizeAnswers,
		Position:         d.Position,
		CreatedAt:        d.CreatedAt,
		UpdatedAt:        d.UpdatedAt,
	}
}

func toDomainQuestionAnswer(m *models.QuestionAnswer) *domain.QuestionAnswer {
	if m == nil {
		return nil
	}
	return &domain.QuestionAnswer{
		ID:         m.ID,
		QuestionID: m.QuestionID,
		AnswerText: m.AnswerText,
		IsCorrect:  m.IsCorrect,
		ImageRef:   m.ImageRef.String,
		ViewFormat: m.ViewFormat.String,
		Position:   m.Position,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}

func toModelQuestionAnswer(d *domain.QuestionAnswer) *models.QuestionAnswer {
	if d == nil {
		return nil
	}
	return &models.QuestionAnswer{
		ID:         d.ID,
		QuestionID: d.QuestionID,
		AnswerText: d.AnswerText,
		IsCorrect:  d.IsCorrect,
		ImageRef:   util.StringToNullString(d.ImageRef),
		ViewFormat: util.StringToNullString(d.ViewFormat),
		Position:   d.Position,
		CreatedAt:  d.CreatedAt,
		UpdatedAt:  d.UpdatedAt,
	}
}
