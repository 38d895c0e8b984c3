package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"app/internal/model"
)

type LessonRepository interface {
	GetLessonByID(ctx context.Context, lessonID string) (*model.Lesson, error)
	// ListByCourse returns the course's lessons in creation order.
	ListByCourse(ctx context.Context, courseID string) ([]model.Lesson, error)
	// ListAll returns every lesson in creation order, used by the chatbot
	// for title matching.
	ListAll(ctx context.Context) ([]model.Lesson, error)
	AddResource(ctx context.Context, res *model.LessonResource) error
	ListResources(ctx context.Context, lessonID string) ([]model.LessonResource, error)
}

type lessonRepo struct {
	db *sql.DB
}

func NewLessonRepo(db *sql.DB) LessonRepository {
	return &lessonRepo{db: db}
}

const lessonColumns = `id, course_id, title, content, created_at`

func (r *lessonRepo) GetLessonByID(ctx context.Context, lessonID string) (*model.Lesson, error) {
	query := `SELECT ` + lessonColumns + ` FROM lessons WHERE id = $1`
	var l model.Lesson
	err := r.db.QueryRowContext(ctx, query, lessonID).Scan(
		&l.LessonID, &l.CourseID, &l.Title, &l.Content, &l.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &l, nil
}

func (r *lessonRepo) collectLessons(rows *sql.Rows) ([]model.Lesson, error) {
	defer rows.Close()
	lessons := []model.Lesson{}
	for rows.Next() {
		var l model.Lesson
		if err := rows.Scan(&l.LessonID, &l.CourseID, &l.Title, &l.Content, &l.CreatedAt); err != nil {
			return nil, err
		}
		lessons = append(lessons, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return lessons, nil
}

func (r *lessonRepo) ListByCourse(ctx context.Context, courseID string) ([]model.Lesson, error) {
	query := `SELECT ` + lessonColumns + ` FROM lessons WHERE course_id = $1 ORDER BY created_at ASC`
	rows, err := r.db.QueryContext(ctx, query, courseID)
	if err != nil {
		return nil, fmt.Errorf("querying course lessons: %w", err)
	}
	return r.collectLessons(rows)
}

func (r *lessonRepo) ListAll(ctx context.Context) ([]model.Lesson, error) {
	query := `SELECT ` + lessonColumns + ` FROM lessons ORDER BY created_at ASC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying lessons: %w", err)
	}
	return r.collectLessons(rows)
}

func (r *lessonRepo) AddResource(ctx context.Context, res *model.LessonResource) error {
	query := `
		INSERT INTO lesson_resources (lesson_id, name, url, kind)
		VALUES ($1, $2, $3, $4)
		RETURNING id, lesson_id, name, url, kind, created_at
	`
	return r.db.QueryRowContext(ctx, query, res.LessonID, res.Name, res.URL, res.Kind).Scan(
		&res.ResourceID, &res.LessonID, &res.Name, &res.URL, &res.Kind, &res.CreatedAt,
	)
}

func (r *lessonRepo) ListResources(ctx context.Context, lessonID string) ([]model.LessonResource, error) {
	query := `SELECT id, lesson_id, name, url, kind, created_at FROM lesson_resources WHERE lesson_id = $1 ORDER BY created_at ASC`
	rows, err := r.db.QueryContext(ctx, query, lessonID)
	if err != nil {
		return nil, fmt.Errorf("querying lesson resources: %w", err)
	}
	defer rows.Close()

	resources := []model.LessonResource{}
	for rows.Next() {
		var res model.LessonResource
		if err := rows.Scan(&res.ResourceID, &res.LessonID, &res.Name, &res.URL, &res.Kind, &res.CreatedAt); err != nil {
			return nil, err
		}
		resources = append(resources, res)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return resources, nil
}
