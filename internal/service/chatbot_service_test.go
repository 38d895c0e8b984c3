package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"app/internal/model"

	"github.com/rs/zerolog"
)

func newChatbotFixture() (*fakeCourseRepo, *fakeLessonRepo, *fakeQuizRepo, *fakeCompletionClient, ChatbotService) {
	courseRepo := newFakeCourseRepo(
		model.Course{CourseID: "c1", Title: "Algebra Basics", Category: "Math", IsPublished: true, IsPaid: false, CreatedAt: day(1)},
		model.Course{CourseID: "c2", Title: "Chemistry Lab", Category: "Science", IsPublished: true, IsPaid: true, CreatedAt: day(2)},
		model.Course{CourseID: "c3", Title: "World History", Category: "History", IsPublished: true, IsPaid: false, CreatedAt: day(3)},
		model.Course{CourseID: "c4", Title: "Go Programming", Category: "Tech", IsPublished: true, IsPaid: true, CreatedAt: day(4)},
		model.Course{CourseID: "c5", Title: "Hidden Draft", Category: "Tech", IsPublished: false, IsPaid: false, CreatedAt: day(5)},
	)
	lessonRepo := &fakeLessonRepo{
		lessons: []model.Lesson{
			{LessonID: "l1", CourseID: "c1", Title: "Linear Equations", CreatedAt: day(1)},
			{LessonID: "l2", CourseID: "c1", Title: "Quadratic Equations", CreatedAt: day(2)},
			{LessonID: "l3", CourseID: "c2", Title: "Titration", CreatedAt: day(3)},
		},
	}
	quizRepo := &fakeQuizRepo{
		quizzes: []model.Quiz{
			{QuizID: "q1", LessonID: "l1", Question: "Solve x + 2 = 5", CreatedAt: day(1)},
			{QuizID: "q2", LessonID: "l2", Question: "Factor x^2 - 4", CreatedAt: day(2)},
		},
	}
	completion := &fakeCompletionClient{reply: "Here is a thoughtful answer."}
	svc := NewChatbotService(courseRepo, lessonRepo, quizRepo, completion, zerolog.Nop())
	return courseRepo, lessonRepo, quizRepo, completion, svc
}

func respond(t *testing.T, svc ChatbotService, message string) string {
	t.Helper()
	reply, err := svc.Respond(context.Background(), message)
	if err != nil {
		t.Fatalf("Respond(%q): %v", message, err)
	}
	return reply
}

func TestChatbotEmptyMessage(t *testing.T) {
	_, _, _, _, svc := newChatbotFixture()

	for _, message := range []string{"", "   "} {
		if _, err := svc.Respond(context.Background(), message); !errors.Is(err, ErrEmptyMessage) {
			t.Fatalf("Respond(%q): want ErrEmptyMessage, got %v", message, err)
		}
	}
}

func TestChatbotTotalCourses(t *testing.T) {
	_, _, _, _, svc := newChatbotFixture()

	got := respond(t, svc, "How many courses are there?")
	want := "There are 4 published courses available on EduLearn."
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestChatbotFreeCourses(t *testing.T) {
	_, _, _, _, svc := newChatbotFixture()

	got := respond(t, svc, "Do you have any free course?")
	want := "Here are the latest free courses:\n\n1. World History\n2. Algebra Basics"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestChatbotPaidCourses(t *testing.T) {
	_, _, _, _, svc := newChatbotFixture()

	got := respond(t, svc, "Show me a paid course")
	want := "Here are the latest paid courses:\n\n1. Go Programming\n2. Chemistry Lab"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestChatbotLatestCourses(t *testing.T) {
	_, _, _, _, svc := newChatbotFixture()

	got := respond(t, svc, "What is the newest course?")
	want := "Here are the 3 latest courses:\n\n1. Go Programming\n2. World History\n3. Chemistry Lab"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestChatbotPopularLeaders(t *testing.T) {
	courseRepo, _, _, _, svc := newChatbotFixture()
	courseRepo.leaders = []model.Course{
		{CourseID: "c4", Title: "Go Programming", Enrolled: 42},
		{CourseID: "c1", Title: "Algebra Basics", Enrolled: 17},
	}

	got := respond(t, svc, "Which are the most enrolled?")
	want := "Here are the 3 most popular courses:\n\n1. Go Programming — 42 students\n2. Algebra Basics — 17 students"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestChatbotPopularWithoutEnrollments(t *testing.T) {
	_, _, _, _, svc := newChatbotFixture()

	got := respond(t, svc, "What are the popular courses right now?")
	if got != noEnrollmentsMsg {
		t.Fatalf("got %q, want %q", got, noEnrollmentsMsg)
	}
}

func TestChatbotLessonsInCourse(t *testing.T) {
	_, _, _, _, svc := newChatbotFixture()

	got := respond(t, svc, "List the lessons in Algebra Basics please")
	want := "Lessons in course \"Algebra Basics\":\n\n1. Linear Equations\n2. Quadratic Equations"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestChatbotQuizzesInCourse(t *testing.T) {
	_, _, _, _, svc := newChatbotFixture()

	got := respond(t, svc, "Any quizzes in Algebra Basics?")
	want := "Quizzes in course \"Algebra Basics\":\n\n1. Solve x + 2 = 5\n2. Factor x^2 - 4"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestChatbotQuizzesInLesson(t *testing.T) {
	_, _, _, _, svc := newChatbotFixture()

	got := respond(t, svc, "Is there a quiz for Linear Equations?")
	want := "Quizzes in lesson \"Linear Equations\":\n\n1. Solve x + 2 = 5"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestChatbotNoQuizzesInCourse(t *testing.T) {
	_, _, _, _, svc := newChatbotFixture()

	got := respond(t, svc, "Any quizzes in Chemistry Lab?")
	want := "No quizzes found in course \"Chemistry Lab\"."
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestChatbotLessonIntentFallsThroughToCompletion(t *testing.T) {
	_, _, _, completion, svc := newChatbotFixture()

	got := respond(t, svc, "Do you offer a lesson about underwater basket weaving?")
	if got != "Here is a thoughtful answer." {
		t.Fatalf("got %q, want completion reply", got)
	}
	if len(completion.calls) != 1 {
		t.Fatalf("want 1 completion call, got %d", len(completion.calls))
	}

	call := completion.calls[0]
	if call.system != systemPrompt {
		t.Fatalf("system prompt = %q", call.system)
	}
	// The fallback prompt carries the published catalog and the question.
	for _, fragment := range []string{
		"Available Courses:",
		"1. Algebra Basics [Math]:",
		"underwater basket weaving",
	} {
		if !strings.Contains(call.user, fragment) {
			t.Fatalf("fallback prompt missing %q:\n%s", fragment, call.user)
		}
	}
	if strings.Contains(call.user, "Hidden Draft") {
		t.Fatalf("fallback prompt leaked an unpublished course:\n%s", call.user)
	}
}

func TestChatbotCompletionFailure(t *testing.T) {
	_, _, _, completion, svc := newChatbotFixture()
	completion.err = ErrCompletionUnavailable

	_, err := svc.Respond(context.Background(), "Tell me something interesting")
	if !errors.Is(err, ErrCompletionUnavailable) {
		t.Fatalf("want ErrCompletionUnavailable, got %v", err)
	}
}

func TestChatbotEmptyCompletionReply(t *testing.T) {
	_, _, _, completion, svc := newChatbotFixture()
	completion.reply = ""

	got := respond(t, svc, "Tell me something interesting")
	if got != fallbackApology {
		t.Fatalf("got %q, want %q", got, fallbackApology)
	}
}

func TestChatbotIntentOrder(t *testing.T) {
	_, _, _, completion, svc := newChatbotFixture()

	// "how many courses" and "free course" both appear; the count intent
	// is checked first and wins.
	got := respond(t, svc, "How many courses are there, and is any a free course?")
	want := "There are 4 published courses available on EduLearn."
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
	if len(completion.calls) != 0 {
		t.Fatal("completion should not be called for a handled intent")
	}
}
