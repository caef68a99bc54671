package main

import (
	"context"
	"log"
	"time"

	"coursecraft/internal/config"
	"coursecraft/internal/database"
	"coursecraft/internal/logger"
	"coursecraft/internal/util"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// Seeds a small demo course so a fresh environment has something to browse:
// one course, two topics, and a quiz with a question and two answers.
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger.Initialize(cfg.Logger)
	l := logger.Get()
	defer l.Sync()

	db, err := database.NewSQLXPostgresDB(cfg.GetDSN())
	if err != nil {
		l.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := seedDemoCourse(ctx, db, l); err != nil {
		l.Fatal("Seeding failed", zap.Error(err))
	}
	l.Info("Seeding completed successfully")
}

func seedDemoCourse(ctx context.Context, db *sqlx.DB, l *zap.Logger) error {
	var count int
	if err := db.GetContext(ctx, &count, "SELECT COUNT(*) FROM courses"); err != nil {
		return err
	}
	if count > 0 {
		l.Info("Courses already present, skipping seed", zap.Int("count", count))
		return nil
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	now := time.Now()
	courseID := util.NewULID()
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO courses (id, title, description, status, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $5)`,
		courseID, "Getting Started with CourseCraft",
		"A demo course seeded for local development.", "published", now); err != nil {
		return err
	}

	topicIDs := make([]string, 0, 2)
	for i, title := range []string{"Introduction", "Assessments"} {
		topicID := util.NewULID()
		topicIDs = append(topicIDs, topicID)
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO topics (id, course_id, title, body, position, status, created_at, updated_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $7)`,
			topicID, courseID, title, "", i, "published", now); err != nil {
			return err
		}
	}

	lessonID := util.NewULID()
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO content_items (id, topic_id, item_type, title, body, position, status, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)`,
		lessonID, topicIDs[0], "lesson", "Welcome",
		"Welcome to the demo course.", 0, "published", now); err != nil {
		return err
	}

	quizID := util.NewULID()
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO content_items (id, topic_id, item_type, title, body, position, status, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)`,
		quizID, topicIDs[1], "quiz", "Checkpoint Quiz",
		"", 0, "published", now); err != nil {
		return err
	}

	questionID := util.NewULID()
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO quiz_questions (id, quiz_id, title, question_type, points, multiple_correct, randomize_answers, position, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9)`,
		questionID, quizID, "What does this platform manage?", "single", 1, false, false, 0, now); err != nil {
		return err
	}

	answers := []struct {
		text    string
		correct bool
	}{
		{"Course content trees", true},
		{"Container orchestration", false},
	}
	for i, a := range answers {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO question_answers (id, question_id, answer_text, is_correct, position, created_at, updated_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $6)`,
			util.NewULID(), questionID, a.text, a.correct, i, now); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	l.Info("Seeded demo course",
		zap.String("course_id", courseID),
		zap.Int("topics", len(topicIDs)),
	)
	return nil
}
