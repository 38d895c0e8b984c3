package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"app/internal/model"
	"app/internal/repository"

	"github.com/rs/zerolog"
)

var ErrEmptyMessage = errors.New("missing message")

const (
	chatListLimit    = 3
	fallbackApology  = "Sorry, I couldn't find a good answer."
	systemPrompt     = "You are EduLearn AI, an assistant for an e-learning platform."
	noEnrollmentsMsg = "Currently, no courses have any enrolled students yet. Check back later for trending courses!"
)

// Intent trigger patterns, tested against the lowercased message.
var (
	totalPattern   = regexp.MustCompile(`how many courses|total courses`)
	lessonPattern  = regexp.MustCompile(`lesson|lessons`)
	quizPattern    = regexp.MustCompile(`quiz|quizzes`)
	popularPattern = regexp.MustCompile(`\b(popular courses?|most enrolled)\b`)
	freePattern    = regexp.MustCompile(`free course`)
	paidPattern    = regexp.MustCompile(`paid course`)
	latestPattern  = regexp.MustCompile(`latest course|newest course`)
)

// ChatbotService answers single-turn questions about the catalog.
type ChatbotService interface {
	Respond(ctx context.Context, message string) (string, error)
}

// chatIntent pairs a trigger with its resolver. handled=false means the
// trigger fired but nothing matched the data, so evaluation continues
// with the next intent.
type chatIntent struct {
	name   string
	match  func(lower string) bool
	handle func(ctx context.Context, message, lower string) (reply string, handled bool, err error)
}

type chatbotService struct {
	courseRepo repository.CourseRepository
	lessonRepo repository.LessonRepository
	quizRepo   repository.QuizRepository
	completion CompletionClient
	intents    []chatIntent
	logger     zerolog.Logger
}

// NewChatbotService creates a new ChatbotService. Intent order is part of
// the contract: patterns overlap, and the first match wins.
func NewChatbotService(
	courseRepo repository.CourseRepository,
	lessonRepo repository.LessonRepository,
	quizRepo repository.QuizRepository,
	completion CompletionClient,
	logger zerolog.Logger,
) ChatbotService {
	s := &chatbotService{
		courseRepo: courseRepo,
		lessonRepo: lessonRepo,
		quizRepo:   quizRepo,
		completion: completion,
		logger:     logger.With().Str("service", "ChatbotService").Logger(),
	}
	s.intents = []chatIntent{
		{name: "total", match: totalPattern.MatchString, handle: s.handleTotal},
		{
			name: "lesson_quiz",
			match: func(lower string) bool {
				return lessonPattern.MatchString(lower) || quizPattern.MatchString(lower)
			},
			handle: s.handleLessonQuiz,
		},
		{name: "popular", match: popularPattern.MatchString, handle: s.handlePopular},
		{name: "free", match: freePattern.MatchString, handle: s.handleFree},
		{name: "paid", match: paidPattern.MatchString, handle: s.handlePaid},
		{name: "latest", match: latestPattern.MatchString, handle: s.handleLatest},
	}
	return s
}

func (s *chatbotService) Respond(ctx context.Context, message string) (string, error) {
	if strings.TrimSpace(message) == "" {
		return "", ErrEmptyMessage
	}
	lower := strings.ToLower(message)

	for _, intent := range s.intents {
		if !intent.match(lower) {
			continue
		}
		reply, handled, err := intent.handle(ctx, message, lower)
		if err != nil {
			return "", fmt.Errorf("%s intent: %w", intent.name, err)
		}
		if handled {
			s.logger.Debug().Str("intent", intent.name).Msg("Chatbot intent resolved")
			return reply, nil
		}
	}

	return s.fallback(ctx, message)
}

func (s *chatbotService) handleTotal(ctx context.Context, message, lower string) (string, bool, error) {
	count, err := s.courseRepo.CountPublished(ctx)
	if err != nil {
		return "", false, err
	}
	return fmt.Sprintf("There are %d published courses available on EduLearn.", count), true, nil
}

func (s *chatbotService) handleLessonQuiz(ctx context.Context, message, lower string) (string, bool, error) {
	wantsLessons := lessonPattern.MatchString(lower)
	wantsQuizzes := quizPattern.MatchString(lower)

	courses, err := s.courseRepo.FindPublished(ctx, repository.CourseQuery{})
	if err != nil {
		return "", false, err
	}

	var matchedCourse *model.Course
	for i := range courses {
		if strings.Contains(lower, strings.ToLower(courses[i].Title)) {
			matchedCourse = &courses[i]
			break
		}
	}

	if matchedCourse != nil {
		lessons, err := s.lessonRepo.ListByCourse(ctx, matchedCourse.CourseID)
		if err != nil {
			return "", false, err
		}

		if wantsLessons {
			if len(lessons) == 0 {
				return fmt.Sprintf("No lessons found in course %q.", matchedCourse.Title), true, nil
			}
			lines := make([]string, len(lessons))
			for i, l := range lessons {
				lines[i] = fmt.Sprintf("%d. %s", i+1, l.Title)
			}
			return fmt.Sprintf("Lessons in course %q:\n\n%s", matchedCourse.Title, strings.Join(lines, "\n")), true, nil
		}

		if wantsQuizzes {
			lessonIDs := make([]string, len(lessons))
			for i, l := range lessons {
				lessonIDs[i] = l.LessonID
			}
			quizzes, err := s.quizRepo.ListByLessons(ctx, lessonIDs)
			if err != nil {
				return "", false, err
			}
			if len(quizzes) == 0 {
				return fmt.Sprintf("No quizzes found in course %q.", matchedCourse.Title), true, nil
			}
			lines := make([]string, len(quizzes))
			for i, q := range quizzes {
				lines[i] = fmt.Sprintf("%d. %s", i+1, q.Question)
			}
			return fmt.Sprintf("Quizzes in course %q:\n\n%s", matchedCourse.Title, strings.Join(lines, "\n")), true, nil
		}
	}

	// No course title in the message; try lesson titles.
	lessons, err := s.lessonRepo.ListAll(ctx)
	if err != nil {
		return "", false, err
	}
	var matchedLesson *model.Lesson
	for i := range lessons {
		if strings.Contains(lower, strings.ToLower(lessons[i].Title)) {
			matchedLesson = &lessons[i]
			break
		}
	}

	if matchedLesson != nil && wantsQuizzes {
		quizzes, err := s.quizRepo.ListByLesson(ctx, matchedLesson.LessonID)
		if err != nil {
			return "", false, err
		}
		if len(quizzes) == 0 {
			return fmt.Sprintf("No quizzes found for lesson %q.", matchedLesson.Title), true, nil
		}
		lines := make([]string, len(quizzes))
		for i, q := range quizzes {
			lines[i] = fmt.Sprintf("%d. %s", i+1, q.Question)
		}
		return fmt.Sprintf("Quizzes in lesson %q:\n\n%s", matchedLesson.Title, strings.Join(lines, "\n")), true, nil
	}

	// Nothing matched; let the later intents or the AI fallback answer.
	return "", false, nil
}

func (s *chatbotService) handlePopular(ctx context.Context, message, lower string) (string, bool, error) {
	leaders, err := s.courseRepo.ListEnrollmentLeaders(ctx, chatListLimit)
	if err != nil {
		return "", false, err
	}
	if len(leaders) == 0 {
		return noEnrollmentsMsg, true, nil
	}
	lines := make([]string, len(leaders))
	for i, c := range leaders {
		lines[i] = fmt.Sprintf("%d. %s — %d students", i+1, c.Title, c.Enrolled)
	}
	return fmt.Sprintf("Here are the 3 most popular courses:\n\n%s", strings.Join(lines, "\n")), true, nil
}

func (s *chatbotService) handleFree(ctx context.Context, message, lower string) (string, bool, error) {
	paid := false
	courses, err := s.courseRepo.FindPublished(ctx, repository.CourseQuery{
		IsPaid:     &paid,
		SortNewest: true,
		Limit:      chatListLimit,
	})
	if err != nil {
		return "", false, err
	}
	if len(courses) == 0 {
		return "There are no free courses available right now.", true, nil
	}
	return fmt.Sprintf("Here are the latest free courses:\n\n%s", numberedTitles(courses)), true, nil
}

func (s *chatbotService) handlePaid(ctx context.Context, message, lower string) (string, bool, error) {
	paid := true
	courses, err := s.courseRepo.FindPublished(ctx, repository.CourseQuery{
		IsPaid:     &paid,
		SortNewest: true,
		Limit:      chatListLimit,
	})
	if err != nil {
		return "", false, err
	}
	if len(courses) == 0 {
		return "There are no paid courses available right now.", true, nil
	}
	return fmt.Sprintf("Here are the latest paid courses:\n\n%s", numberedTitles(courses)), true, nil
}

func (s *chatbotService) handleLatest(ctx context.Context, message, lower string) (string, bool, error) {
	courses, err := s.courseRepo.FindPublished(ctx, repository.CourseQuery{
		SortNewest: true,
		Limit:      chatListLimit,
	})
	if err != nil {
		return "", false, err
	}
	if len(courses) == 0 {
		return "No recent courses found.", true, nil
	}
	return fmt.Sprintf("Here are the 3 latest courses:\n\n%s", numberedTitles(courses)), true, nil
}

// fallback forwards the question plus the published catalog to the
// completion service. A failed call propagates as an error; only an
// empty reply degrades to the apology text.
func (s *chatbotService) fallback(ctx context.Context, message string) (string, error) {
	catalog, err := s.courseRepo.FindPublished(ctx, repository.CourseQuery{})
	if err != nil {
		return "", fmt.Errorf("loading catalog for fallback: %w", err)
	}

	lines := make([]string, len(catalog))
	for i, c := range catalog {
		category := c.Category
		if category == "" {
			category = "General"
		}
		lines[i] = fmt.Sprintf("%d. %s [%s]: %s", i+1, c.Title, category, c.Description)
	}

	prompt := fmt.Sprintf(`You are EduLearn AI, a helpful teaching assistant. Use the following data to answer the user's question.

Available Courses:
%s

User asked: %q

Respond appropriately.`, strings.Join(lines, "\n"), message)

	reply, err := s.completion.Complete(ctx, systemPrompt, prompt)
	if err != nil {
		s.logger.Error().Err(err).Msg("Completion service call failed")
		return "", err
	}
	if reply == "" {
		return fallbackApology, nil
	}
	return reply, nil
}

func numberedTitles(courses []model.Course) string {
	lines := make([]string, len(courses))
	for i, c := range courses {
		lines[i] = fmt.Sprintf("%d. %s", i+1, c.Title)
	}
	return strings.Join(lines, "\n")
}
