package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"app/internal/model"
	"app/internal/pubsub"
	"app/internal/repository"

	"github.com/rs/zerolog"
)

// viewHistoryCap bounds each user's recently-viewed list. A re-view
// moves the course back to the front instead of adding a duplicate.
const viewHistoryCap = 10

// LastVisited is the pair of resume pointers shown on the dashboard.
type LastVisited struct {
	Course *model.Course
	Lesson *model.Lesson
}

// ActivityService records course/lesson views and serves the
// last-visited pointers.
type ActivityService interface {
	// RecordView appends a course view (and optionally a lesson visit)
	// to the user's history and updates the last-visited pointers.
	RecordView(ctx context.Context, userID, courseID, lessonID string) error
	GetLastVisited(ctx context.Context, userID string) (*LastVisited, error)
}

type activityService struct {
	activityRepo repository.ActivityRepository
	userRepo     repository.UserRepository
	courseRepo   repository.CourseRepository
	lessonRepo   repository.LessonRepository
	publisher    pubsub.Publisher
	viewTopic    string
	logger       zerolog.Logger
}

// NewActivityService creates a new ActivityService
func NewActivityService(
	activityRepo repository.ActivityRepository,
	userRepo repository.UserRepository,
	courseRepo repository.CourseRepository,
	lessonRepo repository.LessonRepository,
	publisher pubsub.Publisher,
	viewTopic string,
	logger zerolog.Logger,
) ActivityService {
	return &activityService{
		activityRepo: activityRepo,
		userRepo:     userRepo,
		courseRepo:   courseRepo,
		lessonRepo:   lessonRepo,
		publisher:    publisher,
		viewTopic:    viewTopic,
		logger:       logger.With().Str("service", "ActivityService").Logger(),
	}
}

func (s *activityService) RecordView(ctx context.Context, userID, courseID, lessonID string) error {
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("getting user: %w", err)
	}
	if user == nil {
		return ErrUserNotFound
	}

	if courseID != "" {
		course, err := s.courseRepo.GetCourseByID(ctx, courseID)
		if err != nil {
			return fmt.Errorf("getting course: %w", err)
		}
		if course == nil {
			return ErrCourseNotFound
		}

		if err := s.userRepo.SetLastVisitedCourse(ctx, userID, courseID); err != nil {
			return fmt.Errorf("updating last visited course: %w", err)
		}
		if err := s.activityRepo.RecordView(ctx, userID, courseID, viewHistoryCap); err != nil {
			return fmt.Errorf("recording view: %w", err)
		}
		s.publishViewEvent(ctx, userID, courseID)
	}

	if lessonID != "" {
		lesson, err := s.lessonRepo.GetLessonByID(ctx, lessonID)
		if err != nil {
			return fmt.Errorf("getting lesson: %w", err)
		}
		if lesson == nil {
			return ErrLessonNotFound
		}
		if err := s.userRepo.SetLastVisitedLesson(ctx, userID, lessonID); err != nil {
			return fmt.Errorf("updating last visited lesson: %w", err)
		}
	}

	return nil
}

// publishViewEvent sends the analytics event. Delivery is best effort;
// the view itself has already been recorded.
func (s *activityService) publishViewEvent(ctx context.Context, userID, courseID string) {
	if s.publisher == nil {
		return
	}
	event := model.ViewEvent{
		UserID:   userID,
		CourseID: courseID,
		ViewedAt: time.Now().UTC(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to marshal view event")
		return
	}
	if _, err := s.publisher.Publish(ctx, s.viewTopic, payload); err != nil {
		s.logger.Error().Err(err).Str("course_id", courseID).Msg("Failed to publish view event")
	}
}

func (s *activityService) GetLastVisited(ctx context.Context, userID string) (*LastVisited, error) {
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("getting user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	lv := &LastVisited{}
	if user.LastVisitedCourse != nil {
		lv.Course, err = s.courseRepo.GetCourseByID(ctx, *user.LastVisitedCourse)
		if err != nil {
			return nil, fmt.Errorf("getting last visited course: %w", err)
		}
	}
	if user.LastVisitedLesson != nil {
		lv.Lesson, err = s.lessonRepo.GetLessonByID(ctx, *user.LastVisitedLesson)
		if err != nil {
			return nil, fmt.Errorf("getting last visited lesson: %w", err)
		}
	}
	return lv, nil
}
