package service

import (
	"context"
	"sort"
	"strings"

	"app/internal/model"
	"app/internal/repository"
)

// Data-driven fakes shared by the service tests. They mimic the SQL
// repositories' filtering and ordering so tests read like catalog setups.

type fakeCourseRepo struct {
	courses     []model.Course
	leaders     []model.Course
	enrollments map[string]map[string]bool
	lastSearch  repository.CourseSearch
}

func newFakeCourseRepo(courses ...model.Course) *fakeCourseRepo {
	return &fakeCourseRepo{
		courses:     courses,
		enrollments: map[string]map[string]bool{},
	}
}

func byNewest(courses []model.Course) []model.Course {
	out := append([]model.Course(nil), courses...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func (r *fakeCourseRepo) FindPublished(ctx context.Context, q repository.CourseQuery) ([]model.Course, error) {
	idSet := map[string]bool{}
	for _, id := range q.IDs {
		idSet[id] = true
	}
	catSet := map[string]bool{}
	for _, c := range q.Categories {
		catSet[c] = true
	}

	out := []model.Course{}
	for _, c := range r.courses {
		if !c.IsPublished {
			continue
		}
		if len(idSet) > 0 && !idSet[c.CourseID] {
			continue
		}
		if len(catSet) > 0 && !catSet[c.Category] {
			continue
		}
		if q.IsPaid != nil && c.IsPaid != *q.IsPaid {
			continue
		}
		out = append(out, c)
	}
	if q.SortNewest {
		out = byNewest(out)
	}
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

func (r *fakeCourseRepo) CountPublished(ctx context.Context) (int, error) {
	count := 0
	for _, c := range r.courses {
		if c.IsPublished {
			count++
		}
	}
	return count, nil
}

func (r *fakeCourseRepo) GetCourseByID(ctx context.Context, courseID string) (*model.Course, error) {
	for i := range r.courses {
		if r.courses[i].CourseID == courseID {
			c := r.courses[i]
			return &c, nil
		}
	}
	return nil, nil
}

func (r *fakeCourseRepo) SearchCourses(ctx context.Context, q repository.CourseSearch) ([]model.Course, int, error) {
	r.lastSearch = q

	matched := []model.Course{}
	for _, c := range r.courses {
		if q.Search != "" && !strings.Contains(strings.ToLower(c.Title), strings.ToLower(q.Search)) {
			continue
		}
		if q.Published != nil && c.IsPublished != *q.Published {
			continue
		}
		if q.IsPaid != nil && c.IsPaid != *q.IsPaid {
			continue
		}
		matched = append(matched, c)
	}
	total := len(matched)

	if q.Offset >= len(matched) {
		return []model.Course{}, total, nil
	}
	matched = matched[q.Offset:]
	if q.Limit > 0 && len(matched) > q.Limit {
		matched = matched[:q.Limit]
	}
	return matched, total, nil
}

func (r *fakeCourseRepo) SuggestTitles(ctx context.Context, search string, limit int) ([]string, error) {
	titles := []string{}
	for _, c := range r.courses {
		if strings.Contains(strings.ToLower(c.Title), strings.ToLower(search)) {
			titles = append(titles, c.Title)
		}
		if len(titles) == limit {
			break
		}
	}
	return titles, nil
}

func (r *fakeCourseRepo) ListPopularPublished(ctx context.Context, limit int) ([]model.Course, error) {
	out := []model.Course{}
	for _, c := range r.courses {
		if c.IsPublished {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Enrolled > out[j].Enrolled })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeCourseRepo) ListEnrollmentLeaders(ctx context.Context, limit int) ([]model.Course, error) {
	if r.leaders != nil {
		if limit > 0 && len(r.leaders) > limit {
			return r.leaders[:limit], nil
		}
		return r.leaders, nil
	}
	out := []model.Course{}
	for _, c := range r.courses {
		if c.IsPublished && c.Enrolled > 0 {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Enrolled > out[j].Enrolled })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeCourseRepo) Enroll(ctx context.Context, courseID, userID string) (bool, error) {
	roster, ok := r.enrollments[courseID]
	if !ok {
		roster = map[string]bool{}
		r.enrollments[courseID] = roster
	}
	if roster[userID] {
		return true, nil
	}
	roster[userID] = true
	return false, nil
}

func (r *fakeCourseRepo) Unenroll(ctx context.Context, courseID, userID string) error {
	if roster, ok := r.enrollments[courseID]; ok {
		delete(roster, userID)
	}
	return nil
}

func (r *fakeCourseRepo) ListEnrolledByUser(ctx context.Context, userID string) ([]model.Course, error) {
	out := []model.Course{}
	for _, c := range r.courses {
		if r.enrollments[c.CourseID][userID] {
			out = append(out, c)
		}
	}
	return out, nil
}

type fakeActivityRepo struct {
	views     map[string][]model.CourseView
	userOrder []string
	top       []string

	recorded     []string
	recordedKeep int
}

func newFakeActivityRepo() *fakeActivityRepo {
	return &fakeActivityRepo{views: map[string][]model.CourseView{}}
}

func (r *fakeActivityRepo) addView(userID string, view model.CourseView) {
	if _, ok := r.views[userID]; !ok {
		r.userOrder = append(r.userOrder, userID)
	}
	r.views[userID] = append(r.views[userID], view)
}

func (r *fakeActivityRepo) GetRecentViews(ctx context.Context, userID string, limit int) ([]model.CourseView, error) {
	views := r.views[userID]
	if limit > 0 && len(views) > limit {
		views = views[:limit]
	}
	return append([]model.CourseView(nil), views...), nil
}

func (r *fakeActivityRepo) FindViewersOfAny(ctx context.Context, courseIDs []string, excludeUserID string, limit int) ([]model.UserActivity, error) {
	wanted := map[string]bool{}
	for _, id := range courseIDs {
		wanted[id] = true
	}

	out := []model.UserActivity{}
	for _, userID := range r.userOrder {
		if userID == excludeUserID {
			continue
		}
		overlaps := false
		var viewed []string
		for _, v := range r.views[userID] {
			viewed = append(viewed, v.CourseID)
			if wanted[v.CourseID] {
				overlaps = true
			}
		}
		if !overlaps {
			continue
		}
		out = append(out, model.UserActivity{UserID: userID, ViewedCourseIDs: viewed})
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (r *fakeActivityRepo) TopViewedCourseIDs(ctx context.Context, limit int) ([]string, error) {
	top := r.top
	if limit > 0 && len(top) > limit {
		top = top[:limit]
	}
	return append([]string(nil), top...), nil
}

func (r *fakeActivityRepo) RecordView(ctx context.Context, userID, courseID string, keep int) error {
	r.recorded = append(r.recorded, courseID)
	r.recordedKeep = keep

	views := r.views[userID]
	pruned := []model.CourseView{{CourseID: courseID}}
	for _, v := range views {
		if v.CourseID != courseID {
			pruned = append(pruned, v)
		}
	}
	if len(pruned) > keep {
		pruned = pruned[:keep]
	}
	r.views[userID] = pruned
	return nil
}

type fakeUserRepo struct {
	users map[string]*model.User
}

func newFakeUserRepo(users ...*model.User) *fakeUserRepo {
	r := &fakeUserRepo{users: map[string]*model.User{}}
	for _, u := range users {
		r.users[u.UserID] = u
	}
	return r
}

func (r *fakeUserRepo) UpsertUser(ctx context.Context, u *model.User) error {
	r.users[u.UserID] = u
	return nil
}

func (r *fakeUserRepo) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	return r.users[id], nil
}

func (r *fakeUserRepo) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) SetLastVisitedCourse(ctx context.Context, userID, courseID string) error {
	if u, ok := r.users[userID]; ok {
		u.LastVisitedCourse = &courseID
	}
	return nil
}

func (r *fakeUserRepo) SetLastVisitedLesson(ctx context.Context, userID, lessonID string) error {
	if u, ok := r.users[userID]; ok {
		u.LastVisitedLesson = &lessonID
	}
	return nil
}

type fakeLessonRepo struct {
	lessons   []model.Lesson
	resources []model.LessonResource
}

func (r *fakeLessonRepo) GetLessonByID(ctx context.Context, lessonID string) (*model.Lesson, error) {
	for i := range r.lessons {
		if r.lessons[i].LessonID == lessonID {
			l := r.lessons[i]
			return &l, nil
		}
	}
	return nil, nil
}

func (r *fakeLessonRepo) ListByCourse(ctx context.Context, courseID string) ([]model.Lesson, error) {
	out := []model.Lesson{}
	for _, l := range r.lessons {
		if l.CourseID == courseID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (r *fakeLessonRepo) ListAll(ctx context.Context) ([]model.Lesson, error) {
	return append([]model.Lesson(nil), r.lessons...), nil
}

func (r *fakeLessonRepo) AddResource(ctx context.Context, res *model.LessonResource) error {
	r.resources = append(r.resources, *res)
	return nil
}

func (r *fakeLessonRepo) ListResources(ctx context.Context, lessonID string) ([]model.LessonResource, error) {
	out := []model.LessonResource{}
	for _, res := range r.resources {
		if res.LessonID == lessonID {
			out = append(out, res)
		}
	}
	return out, nil
}

type fakeQuizRepo struct {
	quizzes []model.Quiz
}

func (r *fakeQuizRepo) ListByLesson(ctx context.Context, lessonID string) ([]model.Quiz, error) {
	out := []model.Quiz{}
	for _, q := range r.quizzes {
		if q.LessonID == lessonID {
			out = append(out, q)
		}
	}
	return out, nil
}

func (r *fakeQuizRepo) ListByLessons(ctx context.Context, lessonIDs []string) ([]model.Quiz, error) {
	wanted := map[string]bool{}
	for _, id := range lessonIDs {
		wanted[id] = true
	}
	out := []model.Quiz{}
	for _, q := range r.quizzes {
		if wanted[q.LessonID] {
			out = append(out, q)
		}
	}
	return out, nil
}

func (r *fakeQuizRepo) ListAll(ctx context.Context) ([]model.Quiz, error) {
	return append([]model.Quiz(nil), r.quizzes...), nil
}

type completionCall struct {
	system string
	user   string
}

type fakeCompletionClient struct {
	reply string
	err   error
	calls []completionCall
}

func (c *fakeCompletionClient) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	c.calls = append(c.calls, completionCall{system: systemPrompt, user: userPrompt})
	if c.err != nil {
		return "", c.err
	}
	return c.reply, nil
}

type fakePublisher struct {
	topics   []string
	payloads [][]byte
	err      error
}

func (p *fakePublisher) Publish(ctx context.Context, topic string, payload []byte) (string, error) {
	if p.err != nil {
		return "", p.err
	}
	p.topics = append(p.topics, topic)
	p.payloads = append(p.payloads, payload)
	return "msg-1", nil
}
