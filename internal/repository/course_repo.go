package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"app/internal/model"

	"github.com/rs/zerolog"
)

const courseColumns = `id, title, description, teacher_id, COALESCE(image, ''), COALESCE(category, ''), is_published, is_paid, created_at, updated_at`

// CourseQuery narrows a published-course candidate query.
// The zero value means "all published courses, catalog order, no limit".
type CourseQuery struct {
	IDs        []string
	Categories []string
	IsPaid     *bool
	SortNewest bool
	Limit      int
}

// CourseSearch describes a catalog listing request.
type CourseSearch struct {
	Search    string
	Published *bool
	IsPaid    *bool
	SortField string // whitelisted column name
	SortDesc  bool
	Limit     int
	Offset    int
}

// CourseRepository defines the interface for interacting with course data
type CourseRepository interface {
	FindPublished(ctx context.Context, q CourseQuery) ([]model.Course, error)
	CountPublished(ctx context.Context) (int, error)
	// GetCourseByID retrieves a course by its ID
	GetCourseByID(ctx context.Context, courseID string) (*model.Course, error)
	// SearchCourses returns one page of matching courses plus the total match count
	SearchCourses(ctx context.Context, q CourseSearch) ([]model.Course, int, error)
	SuggestTitles(ctx context.Context, search string, limit int) ([]string, error)
	// ListPopularPublished orders published courses by enrollment, highest first
	ListPopularPublished(ctx context.Context, limit int) ([]model.Course, error)
	// ListEnrollmentLeaders is like ListPopularPublished but drops courses
	// with no enrollments and populates the Enrolled count
	ListEnrollmentLeaders(ctx context.Context, limit int) ([]model.Course, error)
	// Enroll adds the user to the course roster. Returns true when the user
	// was already enrolled.
	Enroll(ctx context.Context, courseID, userID string) (bool, error)
	Unenroll(ctx context.Context, courseID, userID string) error
	ListEnrolledByUser(ctx context.Context, userID string) ([]model.Course, error)
}

type courseRepo struct {
	db     *sql.DB
	logger zerolog.Logger
}

// NewCourseRepo creates a new CourseRepository
func NewCourseRepo(db *sql.DB, logger zerolog.Logger) CourseRepository {
	return &courseRepo{db: db, logger: logger.With().Str("repository", "CourseRepo").Logger()}
}

func scanCourse(scanner interface{ Scan(dest ...any) error }, c *model.Course) error {
	return scanner.Scan(
		&c.CourseID,
		&c.Title,
		&c.Description,
		&c.TeacherID,
		&c.Image,
		&c.Category,
		&c.IsPublished,
		&c.IsPaid,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
}

func (r *courseRepo) collectCourses(rows *sql.Rows) ([]model.Course, error) {
	defer rows.Close()
	courses := []model.Course{}
	for rows.Next() {
		var c model.Course
		if err := scanCourse(rows, &c); err != nil {
			return nil, err
		}
		courses = append(courses, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return courses, nil
}

// FindPublished retrieves published courses matching the given query
func (r *courseRepo) FindPublished(ctx context.Context, q CourseQuery) ([]model.Course, error) {
	conditions := []string{"is_published = TRUE"}
	args := []any{}

	if len(q.IDs) > 0 {
		args = append(args, q.IDs)
		conditions = append(conditions, fmt.Sprintf("id = ANY($%d)", len(args)))
	}
	if len(q.Categories) > 0 {
		args = append(args, q.Categories)
		conditions = append(conditions, fmt.Sprintf("category = ANY($%d)", len(args)))
	}
	if q.IsPaid != nil {
		args = append(args, *q.IsPaid)
		conditions = append(conditions, fmt.Sprintf("is_paid = $%d", len(args)))
	}

	order := "created_at ASC"
	if q.SortNewest {
		order = "created_at DESC"
	}

	query := fmt.Sprintf(`SELECT %s FROM courses WHERE %s ORDER BY %s`,
		courseColumns, strings.Join(conditions, " AND "), order)
	if q.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", q.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying published courses: %w", err)
	}
	return r.collectCourses(rows)
}

func (r *courseRepo) CountPublished(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM courses WHERE is_published = TRUE`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting published courses: %w", err)
	}
	return count, nil
}

// GetCourseByID retrieves a course by its ID
func (r *courseRepo) GetCourseByID(ctx context.Context, courseID string) (*model.Course, error) {
	query := fmt.Sprintf(`SELECT %s FROM courses WHERE id = $1`, courseColumns)
	var c model.Course
	if err := scanCourse(r.db.QueryRowContext(ctx, query, courseID), &c); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

// SearchCourses performs a case-insensitive title search with pagination
func (r *courseRepo) SearchCourses(ctx context.Context, q CourseSearch) ([]model.Course, int, error) {
	conditions := []string{"title ILIKE $1"}
	args := []any{"%" + q.Search + "%"}

	if q.Published != nil {
		args = append(args, *q.Published)
		conditions = append(conditions, fmt.Sprintf("is_published = $%d", len(args)))
	}
	if q.IsPaid != nil {
		args = append(args, *q.IsPaid)
		conditions = append(conditions, fmt.Sprintf("is_paid = $%d", len(args)))
	}
	where := strings.Join(conditions, " AND ")

	var total int
	countQuery := `SELECT COUNT(*) FROM courses WHERE ` + where
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting matching courses: %w", err)
	}

	sortField := "created_at"
	switch q.SortField {
	case "created_at", "title", "updated_at":
		sortField = q.SortField
	}
	direction := "ASC"
	if q.SortDesc {
		direction = "DESC"
	}

	query := fmt.Sprintf(`SELECT %s FROM courses WHERE %s ORDER BY %s %s LIMIT %d OFFSET %d`,
		courseColumns, where, sortField, direction, q.Limit, q.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("searching courses: %w", err)
	}
	courses, err := r.collectCourses(rows)
	if err != nil {
		return nil, 0, err
	}
	return courses, total, nil
}

// SuggestTitles returns up to limit course titles matching the search term
func (r *courseRepo) SuggestTitles(ctx context.Context, search string, limit int) ([]string, error) {
	query := fmt.Sprintf(`SELECT title FROM courses WHERE title ILIKE $1 LIMIT %d`, limit)
	rows, err := r.db.QueryContext(ctx, query, "%"+search+"%")
	if err != nil {
		return nil, fmt.Errorf("querying title suggestions: %w", err)
	}
	defer rows.Close()

	titles := []string{}
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		titles = append(titles, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return titles, nil
}

func (r *courseRepo) ListPopularPublished(ctx context.Context, limit int) ([]model.Course, error) {
	query := fmt.Sprintf(`
		SELECT c.id, c.title, c.description, c.teacher_id, COALESCE(c.image, ''), COALESCE(c.category, ''),
		       c.is_published, c.is_paid, c.created_at, c.updated_at
		FROM courses c
		LEFT JOIN course_enrollments e ON e.course_id = c.id
		WHERE c.is_published = TRUE
		GROUP BY c.id
		ORDER BY COUNT(e.user_id) DESC
		LIMIT %d
	`, limit)
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying popular courses: %w", err)
	}
	return r.collectCourses(rows)
}

func (r *courseRepo) ListEnrollmentLeaders(ctx context.Context, limit int) ([]model.Course, error) {
	query := fmt.Sprintf(`
		SELECT c.id, c.title, c.description, c.teacher_id, COALESCE(c.image, ''), COALESCE(c.category, ''),
		       c.is_published, c.is_paid, c.created_at, c.updated_at, COUNT(e.user_id) AS enrolled
		FROM courses c
		JOIN course_enrollments e ON e.course_id = c.id
		WHERE c.is_published = TRUE
		GROUP BY c.id
		HAVING COUNT(e.user_id) > 0
		ORDER BY enrolled DESC
		LIMIT %d
	`, limit)
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying enrollment leaders: %w", err)
	}
	defer rows.Close()

	courses := []model.Course{}
	for rows.Next() {
		var c model.Course
		if err := rows.Scan(
			&c.CourseID,
			&c.Title,
			&c.Description,
			&c.TeacherID,
			&c.Image,
			&c.Category,
			&c.IsPublished,
			&c.IsPaid,
			&c.CreatedAt,
			&c.UpdatedAt,
			&c.Enrolled,
		); err != nil {
			return nil, err
		}
		courses = append(courses, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return courses, nil
}

func (r *courseRepo) Enroll(ctx context.Context, courseID, userID string) (bool, error) {
	query := `
		INSERT INTO course_enrollments (course_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT (course_id, user_id) DO NOTHING
	`
	res, err := r.db.ExecContext(ctx, query, courseID, userID)
	if err != nil {
		return false, fmt.Errorf("enrolling user: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected == 0, nil
}

func (r *courseRepo) Unenroll(ctx context.Context, courseID, userID string) error {
	query := `DELETE FROM course_enrollments WHERE course_id = $1 AND user_id = $2`
	if _, err := r.db.ExecContext(ctx, query, courseID, userID); err != nil {
		return fmt.Errorf("unenrolling user: %w", err)
	}
	return nil
}

func (r *courseRepo) ListEnrolledByUser(ctx context.Context, userID string) ([]model.Course, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM courses
		WHERE id IN (SELECT course_id FROM course_enrollments WHERE user_id = $1)
		ORDER BY created_at DESC
	`, courseColumns)
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("querying enrolled courses: %w", err)
	}
	return r.collectCourses(rows)
}
