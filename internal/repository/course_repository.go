package repository

import (
	"context"
	"database/sql"

	"github.com/BridgeXconnect/ai-language-learning-platform-sub005/internal/model"
)

// CourseRepo reads and writes the course catalog.  Trainer and student
// dashboards browse published courses; the generation consumer inserts a
// draft course when the pipeline finishes.
type CourseRepo struct{ DB *sql.DB }

func NewCourseRepo(db *sql.DB) *CourseRepo { return &CourseRepo{DB: db} }

const courseColumns = "id, title, language, level, description, status, request_id, created_at, updated_at"

// Create inserts a course and returns its ID.
func (r *CourseRepo) Create(ctx context.Context, c *model.Course) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO courses (title, language, level, description, status, request_id) VALUES (?,?,?,?,?,?)",
		c.Title, c.Language, c.Level, c.Description, c.Status, c.RequestID)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	c.ID = uint64(id)
	return uint64(id), nil
}

// GetByID fetches a single course.
func (r *CourseRepo) GetByID(ctx context.Context, id uint64) (model.Course, error) {
	var c model.Course
	err := r.DB.QueryRowContext(ctx,
		"SELECT "+courseColumns+" FROM courses WHERE id=? LIMIT 1", id).
		Scan(&c.ID, &c.Title, &c.Language, &c.Level, &c.Description, &c.Status, &c.RequestID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return model.Course{}, ErrNotFound
		}
		return model.Course{}, err
	}
	return c, nil
}

// ListPublished returns published courses, newest first.
func (r *CourseRepo) ListPublished(ctx context.Context) ([]model.Course, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+courseColumns+" FROM courses WHERE status=? ORDER BY created_at DESC",
		model.CourseStatusPublished)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Course
	for rows.Next() {
		var c model.Course
		if err := rows.Scan(&c.ID, &c.Title, &c.Language, &c.Level, &c.Description, &c.Status, &c.RequestID, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Publish moves a course from DRAFT to PUBLISHED.
func (r *CourseRepo) Publish(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE courses SET status=? WHERE id=? AND status=?",
		model.CourseStatusPublished, id, model.CourseStatusDraft)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrConflict
	}
	return nil
}
