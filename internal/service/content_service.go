package service

import (
	"context"
	"fmt"

	"app/internal/model"
	"app/internal/repository"
)

// ContentService serves lesson and quiz content for the course player.
type ContentService interface {
	GetLesson(ctx context.Context, lessonID string) (*model.Lesson, error)
	ListLessons(ctx context.Context, courseID string) ([]model.Lesson, error)
	ListQuizzes(ctx context.Context, lessonID string) ([]model.Quiz, error)
	ListResources(ctx context.Context, lessonID string) ([]model.LessonResource, error)
}

type contentService struct {
	courseRepo repository.CourseRepository
	lessonRepo repository.LessonRepository
	quizRepo   repository.QuizRepository
}

// NewContentService creates a new ContentService
func NewContentService(
	courseRepo repository.CourseRepository,
	lessonRepo repository.LessonRepository,
	quizRepo repository.QuizRepository,
) ContentService {
	return &contentService{
		courseRepo: courseRepo,
		lessonRepo: lessonRepo,
		quizRepo:   quizRepo,
	}
}

func (s *contentService) GetLesson(ctx context.Context, lessonID string) (*model.Lesson, error) {
	lesson, err := s.lessonRepo.GetLessonByID(ctx, lessonID)
	if err != nil {
		return nil, fmt.Errorf("getting lesson: %w", err)
	}
	if lesson == nil {
		return nil, ErrLessonNotFound
	}
	return lesson, nil
}

func (s *contentService) ListLessons(ctx context.Context, courseID string) ([]model.Lesson, error) {
	course, err := s.courseRepo.GetCourseByID(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("getting course: %w", err)
	}
	if course == nil {
		return nil, ErrCourseNotFound
	}
	return s.lessonRepo.ListByCourse(ctx, courseID)
}

func (s *contentService) ListQuizzes(ctx context.Context, lessonID string) ([]model.Quiz, error) {
	lesson, err := s.lessonRepo.GetLessonByID(ctx, lessonID)
	if err != nil {
		return nil, fmt.Errorf("getting lesson: %w", err)
	}
	if lesson == nil {
		return nil, ErrLessonNotFound
	}
	return s.quizRepo.ListByLesson(ctx, lessonID)
}

func (s *contentService) ListResources(ctx context.Context, lessonID string) ([]model.LessonResource, error) {
	lesson, err := s.lessonRepo.GetLessonByID(ctx, lessonID)
	if err != nil {
		return nil, fmt.Errorf("getting lesson: %w", err)
	}
	if lesson == nil {
		return nil, ErrLessonNotFound
	}
	return s.lessonRepo.ListResources(ctx, lessonID)
}
