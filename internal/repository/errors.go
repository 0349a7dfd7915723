// Package repository defines error types that are reused across multiple
// repositories.  These sentinel values allow higher layers such as
// handlers to distinguish between failure scenarios: ErrNotFound maps to
// 404, ErrForbidden to 403 and ErrConflict to 409.
package repository

import "errors"

// ErrNotFound is returned when a lookup matches no row.  Repositories
// translate sql.ErrNoRows into this sentinel so handlers never import
// database/sql.
var ErrNotFound = errors.New("not found")

// ErrForbidden is returned when the caller attempts an operation on a
// resource they do not own, such as reading another student's course
// request without the course_manager role.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when an update cannot be performed because of
// conflicting state, such as reviewing a course request that has already
// left PENDING.
var ErrConflict = errors.New("conflict")
