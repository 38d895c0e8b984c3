package repository

import (
	"context"
	"database/sql"
	"fmt"

	"app/internal/model"
)

type QuizRepository interface {
	// ListByLesson returns the quizzes of one lesson in creation order.
	ListByLesson(ctx context.Context, lessonID string) ([]model.Quiz, error)
	// ListByLessons returns the quizzes of all given lessons in creation order.
	ListByLessons(ctx context.Context, lessonIDs []string) ([]model.Quiz, error)
	ListAll(ctx context.Context) ([]model.Quiz, error)
}

type quizRepo struct {
	db *sql.DB
}

func NewQuizRepo(db *sql.DB) QuizRepository {
	return &quizRepo{db: db}
}

const quizColumns = `id, lesson_id, question, options, correct_answer, is_ai_generated, created_at`

func (r *quizRepo) collectQuizzes(rows *sql.Rows) ([]model.Quiz, error) {
	defer rows.Close()
	quizzes := []model.Quiz{}
	for rows.Next() {
		var q model.Quiz
		if err := rows.Scan(
			&q.QuizID, &q.LessonID, &q.Question, &q.Options,
			&q.CorrectAnswer, &q.IsAIGenerated, &q.CreatedAt,
		); err != nil {
			return nil, err
		}
		quizzes = append(quizzes, q)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return quizzes, nil
}

func (r *quizRepo) ListByLesson(ctx context.Context, lessonID string) ([]model.Quiz, error) {
	query := `SELECT ` + quizColumns + ` FROM quizzes WHERE lesson_id = $1 ORDER BY created_at ASC`
	rows, err := r.db.QueryContext(ctx, query, lessonID)
	if err != nil {
		return nil, fmt.Errorf("querying lesson quizzes: %w", err)
	}
	return r.collectQuizzes(rows)
}

func (r *quizRepo) ListByLessons(ctx context.Context, lessonIDs []string) ([]model.Quiz, error) {
	if len(lessonIDs) == 0 {
		return []model.Quiz{}, nil
	}
	query := `SELECT ` + quizColumns + ` FROM quizzes WHERE lesson_id = ANY($1) ORDER BY created_at ASC`
	rows, err := r.db.QueryContext(ctx, query, lessonIDs)
	if err != nil {
		return nil, fmt.Errorf("querying quizzes for lessons: %w", err)
	}
	return r.collectQuizzes(rows)
}

func (r *quizRepo) ListAll(ctx context.Context) ([]model.Quiz, error) {
	query := `SELECT ` + quizColumns + ` FROM quizzes ORDER BY created_at ASC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying quizzes: %w", err)
	}
	return r.collectQuizzes(rows)
}
