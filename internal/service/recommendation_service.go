package service

import (
	"context"
	"fmt"

	"app/internal/model"
	"app/internal/repository"

	"github.com/rs/zerolog"
)

const (
	maxRecommendations = 6
	peerUserLimit      = 100
	categoryFetchLimit = 10
	popularRankLimit   = 15
	popularFetchLimit  = 10
	activityWindow     = 10
)

// RecommendationService produces the ranked course list shown on the
// user's dashboard.
type RecommendationService interface {
	// Recommend returns up to 6 published courses, each at most once.
	// An unknown user yields an empty list, not an error.
	Recommend(ctx context.Context, userID string) ([]model.Course, error)
}

type recommendationService struct {
	userRepo     repository.UserRepository
	activityRepo repository.ActivityRepository
	courseRepo   repository.CourseRepository
	stages       []recommendStage
	logger       zerolog.Logger
}

// recommendInput carries the requesting user's activity profile through
// the cascade.
type recommendInput struct {
	userID            string
	viewedIDs         []string
	viewedSet         map[string]bool
	categories        []string
	preferredCategory string
}

// recommendStage is one step of the fallback cascade. done reports
// whether the cascade should stop with this stage's result, even when
// that result is empty.
type recommendStage struct {
	name string
	run  func(ctx context.Context, in *recommendInput) (courses []model.Course, done bool, err error)
}

// NewRecommendationService creates a new RecommendationService
func NewRecommendationService(
	userRepo repository.UserRepository,
	activityRepo repository.ActivityRepository,
	courseRepo repository.CourseRepository,
	logger zerolog.Logger,
) RecommendationService {
	s := &recommendationService{
		userRepo:     userRepo,
		activityRepo: activityRepo,
		courseRepo:   courseRepo,
		logger:       logger.With().Str("service", "RecommendationService").Logger(),
	}
	// Order is the contract: each stage runs only when the previous one
	// declined to answer.
	s.stages = []recommendStage{
		{name: "collaborative", run: s.collaborativeStage},
		{name: "category", run: s.categoryStage},
		{name: "popularity", run: s.popularityStage},
		{name: "newest", run: s.newestStage},
	}
	return s
}

func (s *recommendationService) Recommend(ctx context.Context, userID string) ([]model.Course, error) {
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("loading user: %w", err)
	}
	if user == nil {
		return []model.Course{}, nil
	}

	views, err := s.activityRepo.GetRecentViews(ctx, userID, activityWindow)
	if err != nil {
		return nil, fmt.Errorf("loading view history: %w", err)
	}

	in := &recommendInput{
		userID:    userID,
		viewedSet: make(map[string]bool, len(views)),
	}
	for _, v := range views {
		in.viewedIDs = append(in.viewedIDs, v.CourseID)
		in.viewedSet[v.CourseID] = true
		if v.Category != "" {
			in.categories = append(in.categories, v.Category)
		}
	}
	if len(in.categories) > 0 {
		in.preferredCategory = in.categories[0]
	}

	for _, stage := range s.stages {
		courses, done, err := stage.run(ctx, in)
		if err != nil {
			return nil, fmt.Errorf("%s stage: %w", stage.name, err)
		}
		if done {
			s.logger.Debug().
				Str("user_id", userID).
				Str("stage", stage.name).
				Int("count", len(courses)).
				Msg("Recommendation stage resolved")
			return courses, nil
		}
	}

	// Unreachable: the newest stage always reports done.
	return []model.Course{}, nil
}

// collaborativeStage recommends what similar users viewed. Courses the
// requester has not seen come first; within each half the newest-first
// order from the catalog query is preserved.
func (s *recommendationService) collaborativeStage(ctx context.Context, in *recommendInput) ([]model.Course, bool, error) {
	peers, err := s.activityRepo.FindViewersOfAny(ctx, in.viewedIDs, in.userID, peerUserLimit)
	if err != nil {
		return nil, false, err
	}

	peerViewed := []string{}
	seen := map[string]bool{}
	for _, peer := range peers {
		for _, id := range peer.ViewedCourseIDs {
			if !seen[id] {
				seen[id] = true
				peerViewed = append(peerViewed, id)
			}
		}
	}
	if len(peerViewed) == 0 {
		return nil, false, nil
	}

	candidates, err := s.courseRepo.FindPublished(ctx, repository.CourseQuery{
		IDs:        peerViewed,
		SortNewest: true,
	})
	if err != nil {
		return nil, false, err
	}

	unique := dedupeCourses(candidates)
	prioritized := make([]model.Course, 0, len(unique))
	for _, c := range unique {
		if !in.viewedSet[c.CourseID] {
			prioritized = append(prioritized, c)
		}
	}
	for _, c := range unique {
		if in.viewedSet[c.CourseID] {
			prioritized = append(prioritized, c)
		}
	}

	if len(prioritized) == 0 {
		return nil, false, nil
	}
	return truncateCourses(prioritized, maxRecommendations), true, nil
}

// categoryStage falls back to the categories of the user's viewed courses.
func (s *recommendationService) categoryStage(ctx context.Context, in *recommendInput) ([]model.Course, bool, error) {
	if in.preferredCategory == "" {
		return nil, false, nil
	}
	categories := append([]string{in.preferredCategory}, in.categories...)

	candidates, err := s.courseRepo.FindPublished(ctx, repository.CourseQuery{
		Categories: categories,
		SortNewest: true,
		Limit:      categoryFetchLimit,
	})
	if err != nil {
		return nil, false, err
	}

	unseen := []model.Course{}
	for _, c := range candidates {
		if !in.viewedSet[c.CourseID] {
			unseen = append(unseen, c)
		}
	}
	if len(unseen) == 0 {
		return nil, false, nil
	}
	return truncateCourses(unseen, maxRecommendations), true, nil
}

// popularityStage ranks the globally most-viewed courses. Unlike the
// category stage it degrades to already-viewed courses when nothing
// unseen is popular, so the user sees something rather than nothing.
// The stage answers even when the candidate lookup comes back empty
// (all popular courses unpublished), which can produce an empty result
// ahead of the newest stage.
func (s *recommendationService) popularityStage(ctx context.Context, in *recommendInput) ([]model.Course, bool, error) {
	topIDs, err := s.activityRepo.TopViewedCourseIDs(ctx, popularRankLimit)
	if err != nil {
		return nil, false, err
	}
	if len(topIDs) == 0 {
		return nil, false, nil
	}

	candidates, err := s.courseRepo.FindPublished(ctx, repository.CourseQuery{
		IDs:        topIDs,
		SortNewest: true,
		Limit:      popularFetchLimit,
	})
	if err != nil {
		return nil, false, err
	}

	unseen := []model.Course{}
	for _, c := range candidates {
		if !in.viewedSet[c.CourseID] {
			unseen = append(unseen, c)
		}
	}
	if len(unseen) > 0 {
		return truncateCourses(unseen, maxRecommendations), true, nil
	}
	return truncateCourses(candidates, maxRecommendations), true, nil
}

func (s *recommendationService) newestStage(ctx context.Context, in *recommendInput) ([]model.Course, bool, error) {
	courses, err := s.courseRepo.FindPublished(ctx, repository.CourseQuery{
		SortNewest: true,
		Limit:      maxRecommendations,
	})
	if err != nil {
		return nil, false, err
	}
	return courses, true, nil
}

func dedupeCourses(courses []model.Course) []model.Course {
	seen := map[string]bool{}
	unique := make([]model.Course, 0, len(courses))
	for _, c := range courses {
		if !seen[c.CourseID] {
			seen[c.CourseID] = true
			unique = append(unique, c)
		}
	}
	return unique
}

func truncateCourses(courses []model.Course, n int) []model.Course {
	if len(courses) > n {
		return courses[:n]
	}
	return courses
}
