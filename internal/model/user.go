package model

import "time"

// User represents a user in the system
type User struct {
	UserID            string    `db:"user_id" json:"user_id"`
	Name              string    `db:"name" json:"name"`
	Email             string    `db:"email" json:"email"`
	Role              string    `db:"role" json:"role"` // 'teacher' or 'student'
	AvatarURL         string    `db:"avatar_url" json:"avatar_url"`
	LastVisitedCourse *string   `db:"last_visited_course" json:"last_visited_course,omitempty"`
	LastVisitedLesson *string   `db:"last_visited_lesson" json:"last_visited_lesson,omitempty"`
	CreatedAt         time.Time `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time `db:"updated_at" json:"updated_at"`
}
