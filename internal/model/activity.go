package model

import "time"

// CourseView is one entry in a user's recently-viewed history,
// most recent first. The category of the viewed course is carried
// along so the recommendation cascade can derive preferences
// without a second round trip.
type CourseView struct {
	CourseID string    `db:"course_id" json:"course_id"`
	Category string    `db:"category" json:"category,omitempty"`
	ViewedAt time.Time `db:"viewed_at" json:"viewed_at"`
}

// UserActivity groups the viewed-course IDs of a single user,
// used for peer lookups during collaborative filtering.
type UserActivity struct {
	UserID          string   `json:"user_id"`
	ViewedCourseIDs []string `json:"viewed_course_ids"`
}

// ViewEvent is the analytics payload published when a course view
// is recorded.
type ViewEvent struct {
	UserID   string    `json:"user_id"`
	CourseID string    `json:"course_id"`
	ViewedAt time.Time `json:"viewed_at"`
}
