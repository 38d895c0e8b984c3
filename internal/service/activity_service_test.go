package service

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"testing"

	"app/internal/model"

	"github.com/rs/zerolog"
)

func newActivityFixture() (*fakeActivityRepo, *fakeUserRepo, *fakePublisher, ActivityService) {
	courses := make([]model.Course, 0, 12)
	for i := 1; i <= 12; i++ {
		courses = append(courses, course("c"+strconv.Itoa(i), "Math", true, day(i)))
	}
	courseRepo := newFakeCourseRepo(courses...)
	lessonRepo := &fakeLessonRepo{
		lessons: []model.Lesson{{LessonID: "l1", CourseID: "c1", Title: "Linear Equations"}},
	}
	activityRepo := newFakeActivityRepo()
	userRepo := newFakeUserRepo(&model.User{UserID: "alice", Name: "Alice", Email: "alice@example.com"})
	publisher := &fakePublisher{}
	svc := NewActivityService(activityRepo, userRepo, courseRepo, lessonRepo, publisher, "course-view-events", zerolog.Nop())
	return activityRepo, userRepo, publisher, svc
}

func TestRecordViewUpdatesHistoryAndPointers(t *testing.T) {
	activityRepo, userRepo, _, svc := newActivityFixture()

	if err := svc.RecordView(context.Background(), "alice", "c1", "l1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	user := userRepo.users["alice"]
	if user.LastVisitedCourse == nil || *user.LastVisitedCourse != "c1" {
		t.Errorf("last visited course = %v", user.LastVisitedCourse)
	}
	if user.LastVisitedLesson == nil || *user.LastVisitedLesson != "l1" {
		t.Errorf("last visited lesson = %v", user.LastVisitedLesson)
	}
	if activityRepo.recordedKeep != 10 {
		t.Errorf("history cap = %d, want 10", activityRepo.recordedKeep)
	}

	views, _ := activityRepo.GetRecentViews(context.Background(), "alice", 10)
	if len(views) != 1 || views[0].CourseID != "c1" {
		t.Errorf("views = %+v", views)
	}
}

func TestRecordViewMovesRepeatToFront(t *testing.T) {
	activityRepo, _, _, svc := newActivityFixture()

	for _, id := range []string{"c1", "c2", "c1"} {
		if err := svc.RecordView(context.Background(), "alice", id, ""); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	views, _ := activityRepo.GetRecentViews(context.Background(), "alice", 10)
	if len(views) != 2 || views[0].CourseID != "c1" || views[1].CourseID != "c2" {
		t.Fatalf("views = %+v", views)
	}
}

func TestRecordViewTrimsHistory(t *testing.T) {
	activityRepo, _, _, svc := newActivityFixture()

	for i := 1; i <= 12; i++ {
		if err := svc.RecordView(context.Background(), "alice", "c"+strconv.Itoa(i), ""); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	views, _ := activityRepo.GetRecentViews(context.Background(), "alice", 20)
	if len(views) != 10 {
		t.Fatalf("history length = %d, want 10", len(views))
	}
	if views[0].CourseID != "c12" {
		t.Fatalf("most recent view = %s, want c12", views[0].CourseID)
	}
}

func TestRecordViewPublishesEvent(t *testing.T) {
	_, _, publisher, svc := newActivityFixture()

	if err := svc.RecordView(context.Background(), "alice", "c1", ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(publisher.payloads) != 1 {
		t.Fatalf("want 1 published event, got %d", len(publisher.payloads))
	}
	if publisher.topics[0] != "course-view-events" {
		t.Errorf("topic = %q", publisher.topics[0])
	}

	var event model.ViewEvent
	if err := json.Unmarshal(publisher.payloads[0], &event); err != nil {
		t.Fatalf("decoding event: %v", err)
	}
	if event.UserID != "alice" || event.CourseID != "c1" {
		t.Errorf("event = %+v", event)
	}
}

func TestRecordViewPublishFailureIsNotFatal(t *testing.T) {
	_, _, publisher, svc := newActivityFixture()
	publisher.err = errors.New("broker down")

	if err := svc.RecordView(context.Background(), "alice", "c1", ""); err != nil {
		t.Fatalf("publish failure should not fail the view: %v", err)
	}
}

func TestRecordViewUnknownEntities(t *testing.T) {
	_, _, publisher, svc := newActivityFixture()

	if err := svc.RecordView(context.Background(), "nobody", "c1", ""); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("want ErrUserNotFound, got %v", err)
	}
	if err := svc.RecordView(context.Background(), "alice", "missing", ""); !errors.Is(err, ErrCourseNotFound) {
		t.Fatalf("want ErrCourseNotFound, got %v", err)
	}
	if err := svc.RecordView(context.Background(), "alice", "c1", "missing"); !errors.Is(err, ErrLessonNotFound) {
		t.Fatalf("want ErrLessonNotFound, got %v", err)
	}
	// The course-not-found case must not leak an analytics event.
	if len(publisher.payloads) > 1 {
		t.Fatalf("published %d events", len(publisher.payloads))
	}
}

func TestGetLastVisited(t *testing.T) {
	_, _, _, svc := newActivityFixture()

	if err := svc.RecordView(context.Background(), "alice", "c3", "l1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	lv, err := svc.GetLastVisited(context.Background(), "alice")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if lv.Course == nil || lv.Course.CourseID != "c3" {
		t.Errorf("last visited course = %+v", lv.Course)
	}
	if lv.Lesson == nil || lv.Lesson.LessonID != "l1" {
		t.Errorf("last visited lesson = %+v", lv.Lesson)
	}
}

func TestGetLastVisitedWithoutHistory(t *testing.T) {
	_, _, _, svc := newActivityFixture()

	lv, err := svc.GetLastVisited(context.Background(), "alice")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if lv.Course != nil || lv.Lesson != nil {
		t.Fatalf("want empty pointers, got %+v", lv)
	}
}
