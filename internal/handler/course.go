package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/BridgeXconnect/ai-language-learning-platform-sub005/internal/model"
	"github.com/BridgeXconnect/ai-language-learning-platform-sub005/internal/repository"
)

// CourseHandler exposes the published course catalog consumed by trainer
// and student dashboards.
type CourseHandler struct {
	Courses *repository.CourseRepo
}

func NewCourseHandler(courses *repository.CourseRepo) *CourseHandler {
	return &CourseHandler{Courses: courses}
}

type coursePart struct {
	ID          uint64    `json:"id"`
	Title       string    `json:"title"`
	Language    string    `json:"language"`
	Level       string    `json:"level"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

func coursePartOf(c model.Course) coursePart {
	return coursePart{
		ID: c.ID, Title: c.Title, Language: c.Language, Level: c.Level,
		Description: c.Description, Status: c.Status, CreatedAt: c.CreatedAt,
	}
}

// List handles GET /v1/courses and returns published courses only.
func (h *CourseHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	list, err := h.Courses.ListPublished(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list failed"})
	}
	out := make([]coursePart, 0, len(list))
	for _, course := range list {
		out = append(out, coursePartOf(course))
	}
	return c.JSON(http.StatusOK, echo.Map{"courses": out})
}

// Publish handles PUT /v1/courses/:id/publish.  Course managers move a
// generated draft into the public catalog; re-publishing is a 409.
func (h *CourseHandler) Publish(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid course id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Courses.Publish(ctx, id); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			// Zero rows matched: either the id is unknown or the course
			// already left DRAFT.
			if _, err := h.Courses.GetByID(ctx, id); errors.Is(err, repository.ErrNotFound) {
				return c.JSON(http.StatusNotFound, echo.Map{"error": "course not found"})
			}
			return c.JSON(http.StatusConflict, echo.Map{"error": "course is not a draft"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "publish failed"})
	}

	course, err := h.Courses.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load course failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"course": coursePartOf(course)})
}
