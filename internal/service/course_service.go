package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"app/internal/model"
	"app/internal/repository"
)

var (
	ErrCourseNotFound = errors.New("course not found")
	ErrLessonNotFound = errors.New("lesson not found")
	ErrUserNotFound   = errors.New("user not found")
)

const (
	coursesPerPage    = 8
	suggestionLimit   = 5
	popularPageLimit  = 6
	defaultSortColumn = "created_at"
)

// maps API sort field names to catalog columns
var sortColumns = map[string]string{
	"createdAt": "created_at",
	"updatedAt": "updated_at",
	"title":     "title",
}

// CourseListing is one page of catalog results.
type CourseListing struct {
	Courses []model.Course
	Total   int
}

// CourseDetail is a course with its lessons and their quizzes.
type CourseDetail struct {
	Course  model.Course
	Teacher *model.User
	Lessons []LessonDetail
}

type LessonDetail struct {
	Lesson  model.Lesson
	Quizzes []model.Quiz
}

// CourseService defines the interface for catalog operations
type CourseService interface {
	// List performs a title search over the catalog with pagination.
	// sort has the form "field,DESC" (or ",ASC"); unknown fields fall
	// back to creation time.
	List(ctx context.Context, search string, published, isPaid *bool, sort string, page int) (*CourseListing, error)
	Suggest(ctx context.Context, search string) ([]string, error)
	Popular(ctx context.Context) ([]model.Course, error)
	// GetCourseDetail retrieves a course with teacher, lessons and quizzes
	GetCourseDetail(ctx context.Context, courseID string) (*CourseDetail, error)
	// Enroll adds the user to the course. The returned message mirrors
	// what the UI shows ("Enrollment successful!" / "Already enrolled...").
	Enroll(ctx context.Context, courseID, userID string) (string, error)
	Unenroll(ctx context.Context, courseID, userID string) error
	EnrolledCourses(ctx context.Context, userID string) ([]model.Course, error)
}

// courseService is the implementation of CourseService
type courseService struct {
	courseRepo repository.CourseRepository
	lessonRepo repository.LessonRepository
	quizRepo   repository.QuizRepository
	userRepo   repository.UserRepository
}

// NewCourseService creates a new CourseService
func NewCourseService(
	courseRepo repository.CourseRepository,
	lessonRepo repository.LessonRepository,
	quizRepo repository.QuizRepository,
	userRepo repository.UserRepository,
) CourseService {
	return &courseService{
		courseRepo: courseRepo,
		lessonRepo: lessonRepo,
		quizRepo:   quizRepo,
		userRepo:   userRepo,
	}
}

func (s *courseService) List(ctx context.Context, search string, published, isPaid *bool, sort string, page int) (*CourseListing, error) {
	if page < 1 {
		page = 1
	}

	column := defaultSortColumn
	desc := true
	if sort != "" {
		field, order, _ := strings.Cut(sort, ",")
		if c, ok := sortColumns[field]; ok {
			column = c
		}
		desc = strings.EqualFold(order, "DESC")
	}

	courses, total, err := s.courseRepo.SearchCourses(ctx, repository.CourseSearch{
		Search:    search,
		Published: published,
		IsPaid:    isPaid,
		SortField: column,
		SortDesc:  desc,
		Limit:     coursesPerPage,
		Offset:    (page - 1) * coursesPerPage,
	})
	if err != nil {
		return nil, fmt.Errorf("listing courses: %w", err)
	}
	return &CourseListing{Courses: courses, Total: total}, nil
}

func (s *courseService) Suggest(ctx context.Context, search string) ([]string, error) {
	return s.courseRepo.SuggestTitles(ctx, search, suggestionLimit)
}

func (s *courseService) Popular(ctx context.Context) ([]model.Course, error) {
	return s.courseRepo.ListPopularPublished(ctx, popularPageLimit)
}

func (s *courseService) GetCourseDetail(ctx context.Context, courseID string) (*CourseDetail, error) {
	course, err := s.courseRepo.GetCourseByID(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("getting course: %w", err)
	}
	if course == nil {
		return nil, ErrCourseNotFound
	}

	teacher, err := s.userRepo.GetUserByID(ctx, course.TeacherID)
	if err != nil {
		return nil, fmt.Errorf("getting teacher: %w", err)
	}

	lessons, err := s.lessonRepo.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("listing lessons: %w", err)
	}

	detail := &CourseDetail{Course: *course, Teacher: teacher}
	for _, lesson := range lessons {
		quizzes, err := s.quizRepo.ListByLesson(ctx, lesson.LessonID)
		if err != nil {
			return nil, fmt.Errorf("listing quizzes: %w", err)
		}
		detail.Lessons = append(detail.Lessons, LessonDetail{Lesson: lesson, Quizzes: quizzes})
	}
	return detail, nil
}

func (s *courseService) Enroll(ctx context.Context, courseID, userID string) (string, error) {
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("getting user: %w", err)
	}
	if user == nil {
		return "", ErrUserNotFound
	}
	course, err := s.courseRepo.GetCourseByID(ctx, courseID)
	if err != nil {
		return "", fmt.Errorf("getting course: %w", err)
	}
	if course == nil {
		return "", ErrCourseNotFound
	}

	already, err := s.courseRepo.Enroll(ctx, courseID, userID)
	if err != nil {
		return "", fmt.Errorf("enrolling: %w", err)
	}
	if already {
		return "Already enrolled in this course.", nil
	}
	return "Enrollment successful!", nil
}

func (s *courseService) Unenroll(ctx context.Context, courseID, userID string) error {
	course, err := s.courseRepo.GetCourseByID(ctx, courseID)
	if err != nil {
		return fmt.Errorf("getting course: %w", err)
	}
	if course == nil {
		return ErrCourseNotFound
	}
	return s.courseRepo.Unenroll(ctx, courseID, userID)
}

func (s *courseService) EnrolledCourses(ctx context.Context, userID string) ([]model.Course, error) {
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("getting user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return s.courseRepo.ListEnrolledByUser(ctx, userID)
}
