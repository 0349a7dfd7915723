package repository

import (
	"context"
	"database/sql"

	"github.com/BridgeXconnect/ai-language-learning-platform-sub005/internal/model"
)

// CourseRequestRepo provides CRUD operations for course generation
// requests.  Status transitions are guarded at the SQL level with
// conditional UPDATEs so concurrent reviews or pipeline events cannot
// clobber each other; an UPDATE that matches zero rows surfaces as
// ErrConflict.
type CourseRequestRepo struct{ DB *sql.DB }

func NewCourseRequestRepo(db *sql.DB) *CourseRequestRepo { return &CourseRequestRepo{DB: db} }

const requestColumns = "id, public_id, requester_id, title, language, level, description, status, progress, status_note, reviewer_id, course_id, created_at, updated_at"

// Create inserts a new PENDING request and returns its numeric ID.
func (r *CourseRequestRepo) Create(ctx context.Context, req *model.CourseRequest) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO course_requests (public_id, requester_id, title, language, level, description, status) VALUES (?,?,?,?,?,?,?)",
		req.PublicID, req.RequesterID, req.Title, req.Language, req.Level, req.Description, model.RequestStatusPending)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	req.ID = uint64(id)
	req.Status = model.RequestStatusPending
	return uint64(id), nil
}

// GetByPublicID fetches a request by its exposed UUID.
func (r *CourseRequestRepo) GetByPublicID(ctx context.Context, publicID string) (model.CourseRequest, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+requestColumns+" FROM course_requests WHERE public_id=? LIMIT 1", publicID)
	return scanRequest(row)
}

// ListByRequester returns a user's own requests, newest first.
func (r *CourseRequestRepo) ListByRequester(ctx context.Context, requesterID uint64) ([]model.CourseRequest, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+requestColumns+" FROM course_requests WHERE requester_id=? ORDER BY created_at DESC", requesterID)
	if err != nil {
		return nil, err
	}
	return collectRequests(rows)
}

// ListAll returns every request, newest first.  Course managers use this
// for the review queue; an optional status narrows the listing.
func (r *CourseRequestRepo) ListAll(ctx context.Context, status string) ([]model.CourseRequest, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if status == "" {
		rows, err = r.DB.QueryContext(ctx,
			"SELECT "+requestColumns+" FROM course_requests ORDER BY created_at DESC")
	} else {
		rows, err = r.DB.QueryContext(ctx,
			"SELECT "+requestColumns+" FROM course_requests WHERE status=? ORDER BY created_at DESC", status)
	}
	if err != nil {
		return nil, err
	}
	return collectRequests(rows)
}

// Review moves a PENDING request to APPROVED or REJECTED and records the
// reviewer.  Returns ErrConflict when the request already left PENDING.
func (r *CourseRequestRepo) Review(ctx context.Context, publicID string, reviewerID uint64, status string, note *string) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE course_requests SET status=?, status_note=?, reviewer_id=? WHERE public_id=? AND status=?",
		status, note, reviewerID, publicID, model.RequestStatusPending)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// Either the id is unknown or the request was already reviewed.
		if _, err := r.GetByPublicID(ctx, publicID); err != nil {
			return err
		}
		return ErrConflict
	}
	return nil
}

// SetGenerationStatus applies a pipeline status event to the request row.
// Progress-only updates keep the current status string.
func (r *CourseRequestRepo) SetGenerationStatus(ctx context.Context, publicID, status string, progress uint8, note *string) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE course_requests SET status=?, progress=?, status_note=? WHERE public_id=?",
		status, progress, note, publicID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// SetProgress updates only the progress column, leaving status untouched.
func (r *CourseRequestRepo) SetProgress(ctx context.Context, publicID string, progress uint8) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE course_requests SET progress=? WHERE public_id=?", progress, publicID)
	return err
}

// AttachCourse links the generated course to its request and marks the
// request COMPLETED.
func (r *CourseRequestRepo) AttachCourse(ctx context.Context, publicID string, courseID uint64) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE course_requests SET course_id=?, status=?, progress=100 WHERE public_id=?",
		courseID, model.RequestStatusCompleted, publicID)
	return err
}

func scanRequest(row *sql.Row) (model.CourseRequest, error) {
	var req model.CourseRequest
	err := row.Scan(&req.ID, &req.PublicID, &req.RequesterID, &req.Title, &req.Language, &req.Level,
		&req.Description, &req.Status, &req.Progress, &req.StatusNote, &req.ReviewerID, &req.CourseID,
		&req.CreatedAt, &req.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return model.CourseRequest{}, ErrNotFound
		}
		return model.CourseRequest{}, err
	}
	return req, nil
}

func collectRequests(rows *sql.Rows) ([]model.CourseRequest, error) {
	defer rows.Close()
	var out []model.CourseRequest
	for rows.Next() {
		var req model.CourseRequest
		if err := rows.Scan(&req.ID, &req.PublicID, &req.RequesterID, &req.Title, &req.Language, &req.Level,
			&req.Description, &req.Status, &req.Progress, &req.StatusNote, &req.ReviewerID, &req.CourseID,
			&req.CreatedAt, &req.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, req)
	}
	return out, rows.Err()
}
