package repository

import (
	"context"
	"database/sql"
	"fmt"

	"app/internal/model"
)

// ActivityRepository exposes the per-user viewed-course history.
type ActivityRepository interface {
	// GetRecentViews returns up to limit entries, most recent first.
	GetRecentViews(ctx context.Context, userID string, limit int) ([]model.CourseView, error)
	// FindViewersOfAny returns up to limit users (excluding excludeUserID)
	// who viewed at least one of the given courses, along with everything
	// each of them viewed.
	FindViewersOfAny(ctx context.Context, courseIDs []string, excludeUserID string, limit int) ([]model.UserActivity, error)
	// TopViewedCourseIDs aggregates view counts across all users and
	// returns the most-viewed course IDs, highest count first.
	TopViewedCourseIDs(ctx context.Context, limit int) ([]string, error)
	// RecordView moves the course to the front of the user's history,
	// dropping any prior entry for it and trimming to keep entries.
	RecordView(ctx context.Context, userID, courseID string, keep int) error
}

type activityRepo struct {
	db *sql.DB
}

// NewActivityRepo creates a new ActivityRepository
func NewActivityRepo(db *sql.DB) ActivityRepository {
	return &activityRepo{db: db}
}

func (r *activityRepo) GetRecentViews(ctx context.Context, userID string, limit int) ([]model.CourseView, error) {
	query := fmt.Sprintf(`
		SELECT v.course_id, COALESCE(c.category, ''), v.viewed_at
		FROM course_views v
		JOIN courses c ON c.id = v.course_id
		WHERE v.user_id = $1
		ORDER BY v.viewed_at DESC
		LIMIT %d
	`, limit)
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("querying recent views: %w", err)
	}
	defer rows.Close()

	views := []model.CourseView{}
	for rows.Next() {
		var v model.CourseView
		if err := rows.Scan(&v.CourseID, &v.Category, &v.ViewedAt); err != nil {
			return nil, err
		}
		views = append(views, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return views, nil
}

func (r *activityRepo) FindViewersOfAny(ctx context.Context, courseIDs []string, excludeUserID string, limit int) ([]model.UserActivity, error) {
	if len(courseIDs) == 0 {
		return []model.UserActivity{}, nil
	}
	// Pick the peers first, then pull their full histories in one pass.
	query := fmt.Sprintf(`
		SELECT v.user_id, v.course_id
		FROM course_views v
		WHERE v.user_id IN (
			SELECT DISTINCT user_id FROM course_views
			WHERE course_id = ANY($1) AND user_id <> $2
			LIMIT %d
		)
		ORDER BY v.user_id, v.viewed_at DESC
	`, limit)
	rows, err := r.db.QueryContext(ctx, query, courseIDs, excludeUserID)
	if err != nil {
		return nil, fmt.Errorf("querying peer viewers: %w", err)
	}
	defer rows.Close()

	peers := []model.UserActivity{}
	index := map[string]int{}
	for rows.Next() {
		var userID, courseID string
		if err := rows.Scan(&userID, &courseID); err != nil {
			return nil, err
		}
		i, ok := index[userID]
		if !ok {
			peers = append(peers, model.UserActivity{UserID: userID})
			i = len(peers) - 1
			index[userID] = i
		}
		peers[i].ViewedCourseIDs = append(peers[i].ViewedCourseIDs, courseID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return peers, nil
}

func (r *activityRepo) TopViewedCourseIDs(ctx context.Context, limit int) ([]string, error) {
	query := fmt.Sprintf(`
		SELECT course_id
		FROM course_views
		GROUP BY course_id
		ORDER BY COUNT(*) DESC
		LIMIT %d
	`, limit)
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("aggregating view counts: %w", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return ids, nil
}

// RecordView performs the remove-then-prepend upsert inside one transaction
// so concurrent views of the same course cannot duplicate history entries.
func (r *activityRepo) RecordView(ctx context.Context, userID, courseID string, keep int) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning view transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM course_views WHERE user_id = $1 AND course_id = $2`,
		userID, courseID); err != nil {
		return fmt.Errorf("removing prior view entry: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO course_views (user_id, course_id, viewed_at) VALUES ($1, $2, NOW())`,
		userID, courseID); err != nil {
		return fmt.Errorf("inserting view entry: %w", err)
	}

	trim := fmt.Sprintf(`
		DELETE FROM course_views
		WHERE user_id = $1 AND course_id NOT IN (
			SELECT course_id FROM course_views
			WHERE user_id = $1
			ORDER BY viewed_at DESC
			LIMIT %d
		)
	`, keep)
	if _, err := tx.ExecContext(ctx, trim, userID); err != nil {
		return fmt.Errorf("trimming view history: %w", err)
	}

	return tx.Commit()
}
