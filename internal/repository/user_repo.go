package repository

import (
	"app/internal/model"
	"context"
	"database/sql"
	"errors"
)

type UserRepository interface {
	// UpsertUser creates the profile on first sign-in and refreshes
	// name/avatar on subsequent ones.
	UpsertUser(ctx context.Context, u *model.User) error
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	SetLastVisitedCourse(ctx context.Context, userID, courseID string) error
	SetLastVisitedLesson(ctx context.Context, userID, lessonID string) error
}

type userRepo struct {
	db *sql.DB
}

func NewUserRepo(db *sql.DB) UserRepository {
	return &userRepo{db: db}
}

const userColumns = `user_id, name, email, role, avatar_url, last_visited_course, last_visited_lesson, created_at, updated_at`

func scanUser(scanner interface{ Scan(dest ...any) error }, u *model.User) error {
	return scanner.Scan(
		&u.UserID,
		&u.Name,
		&u.Email,
		&u.Role,
		&u.AvatarURL,
		&u.LastVisitedCourse,
		&u.LastVisitedLesson,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
}

func (r *userRepo) UpsertUser(ctx context.Context, u *model.User) error {
	query := `
		INSERT INTO users (user_id, name, email, role, avatar_url)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id) DO UPDATE
		SET name = EXCLUDED.name, avatar_url = EXCLUDED.avatar_url, updated_at = NOW()
		RETURNING ` + userColumns
	return scanUser(r.db.QueryRowContext(ctx, query, u.UserID, u.Name, u.Email, u.Role, u.AvatarURL), u)
}

func (r *userRepo) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	var u model.User
	query := `SELECT ` + userColumns + ` FROM users WHERE user_id = $1`
	if err := scanUser(r.db.QueryRowContext(ctx, query, id), &u); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *userRepo) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	var u model.User
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	if err := scanUser(r.db.QueryRowContext(ctx, query, email), &u); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *userRepo) SetLastVisitedCourse(ctx context.Context, userID, courseID string) error {
	query := `UPDATE users SET last_visited_course = $1, updated_at = NOW() WHERE user_id = $2`
	_, err := r.db.ExecContext(ctx, query, courseID, userID)
	return err
}

func (r *userRepo) SetLastVisitedLesson(ctx context.Context, userID, lessonID string) error {
	query := `UPDATE users SET last_visited_lesson = $1, updated_at = NOW() WHERE user_id = $2`
	_, err := r.db.ExecContext(ctx, query, lessonID, userID)
	return err
}
