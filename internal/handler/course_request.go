package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/BridgeXconnect/ai-language-learning-platform-sub005/internal/config"
	"github.com/BridgeXconnect/ai-language-learning-platform-sub005/internal/model"
	"github.com/BridgeXconnect/ai-language-learning-platform-sub005/internal/queue"
	"github.com/BridgeXconnect/ai-language-learning-platform-sub005/internal/repository"
	queue_publisher "github.com/BridgeXconnect/ai-language-learning-platform-sub005/internal/service"
)

// CourseRequestHandler serves the course-request lifecycle: students and
// sales submit requests, course managers review them, and approval hands
// the request to the generation pipeline over AMQP.  Methods assume JWT
// and role middleware already ran.
type CourseRequestHandler struct {
	Cfg      config.Config
	Requests *repository.CourseRequestRepo
}

func NewCourseRequestHandler(cfg config.Config, requests *repository.CourseRequestRepo) *CourseRequestHandler {
	return &CourseRequestHandler{Cfg: cfg, Requests: requests}
}

// ----- DTOs -----

type createRequestReq struct {
	Title       string `json:"title"`
	Language    string `json:"language"`
	Level       string `json:"level"`
	Description string `json:"description"`
}

type reviewReq struct {
	Decision string `json:"decision"` // approve | reject
	Note     string `json:"note"`
}

type requestPart struct {
	ID          string    `json:"id"` // public UUID
	Title       string    `json:"title"`
	Language    string    `json:"language"`
	Level       string    `json:"level"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	Progress    uint8     `json:"progress"`
	StatusNote  *string   `json:"status_note,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func requestPartOf(r model.CourseRequest) requestPart {
	return requestPart{
		ID: r.PublicID, Title: r.Title, Language: r.Language, Level: r.Level,
		Description: r.Description, Status: r.Status, Progress: r.Progress,
		StatusNote: r.StatusNote, CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt,
	}
}

var cefrLevels = map[string]bool{"A1": true, "A2": true, "B1": true, "B2": true, "C1": true, "C2": true}

// Create handles POST /v1/course-requests.  The new request starts
// PENDING and is identified externally by a UUID, which is also the
// websocket channel key for status updates.
func (h *CourseRequestHandler) Create(c echo.Context) error {
	uid, err := currentUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createRequestReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "invalid body"})
	}
	req.Title = strings.TrimSpace(req.Title)
	req.Language = strings.TrimSpace(req.Language)
	req.Level = strings.ToUpper(strings.TrimSpace(req.Level))
	if req.Title == "" || req.Language == "" {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "title/language required"})
	}
	if !cefrLevels[req.Level] {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "level must be a CEFR code (A1..C2)"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	r := model.CourseRequest{
		PublicID:    uuid.NewString(),
		RequesterID: uid,
		Title:       req.Title,
		Language:    req.Language,
		Level:       req.Level,
		Description: req.Description,
	}
	if _, err := h.Requests.Create(ctx, &r); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create request failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"request": requestPartOf(r)})
}

// List handles GET /v1/course-requests.  Course managers see the full
// queue (optionally narrowed with ?status=); everyone else sees only
// their own submissions.
func (h *CourseRequestHandler) List(c echo.Context) error {
	uid, err := currentUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	var (
		list []model.CourseRequest
	)
	if holdsRole(c, model.RoleCourseManager) {
		status := strings.ToUpper(strings.TrimSpace(c.QueryParam("status")))
		list, err = h.Requests.ListAll(ctx, status)
	} else {
		list, err = h.Requests.ListByRequester(ctx, uid)
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list failed"})
	}

	out := make([]requestPart, 0, len(list))
	for _, r := range list {
		out = append(out, requestPartOf(r))
	}
	return c.JSON(http.StatusOK, echo.Map{"requests": out})
}

// Get handles GET /v1/course-requests/:id.  Only the requester, course
// managers and admins may read a request.
func (h *CourseRequestHandler) Get(c echo.Context) error {
	r, status, err := h.authorizedRequest(c)
	if err != nil {
		return c.JSON(status, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, echo.Map{"request": requestPartOf(r)})
}

// Review handles PUT /v1/course-requests/:id/review.  Approving a
// PENDING request publishes a generation event for the AI pipeline;
// publishing is best-effort because the review is already committed.
func (h *CourseRequestHandler) Review(c echo.Context) error {
	uid, err := currentUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	publicID := c.Param("id")
	var req reviewReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	var status string
	switch strings.ToLower(strings.TrimSpace(req.Decision)) {
	case "approve":
		status = model.RequestStatusApproved
	case "reject":
		status = model.RequestStatusRejected
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "decision must be approve or reject"})
	}
	var note *string
	if req.Note != "" {
		note = &req.Note
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Requests.Review(ctx, publicID, uid, status, note); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "request not found"})
		case errors.Is(err, repository.ErrConflict):
			return c.JSON(http.StatusConflict, echo.Map{"error": "request already reviewed"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "review failed"})
		}
	}

	r, err := h.Requests.GetByPublicID(ctx, publicID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load request failed"})
	}

	if status == model.RequestStatusApproved {
		ev := queue.GenerationRequestedEvent{
			RequestID:   r.PublicID,
			Title:       r.Title,
			Language:    r.Language,
			Level:       r.Level,
			Description: r.Description,
			ApprovedBy:  uid,
			ApprovedAt:  time.Now().UTC().Format(time.RFC3339),
		}
		if err := queue_publisher.PublishGenerationRequested(ctx, h.Cfg.AMQPURL, ev); err != nil {
			log.Printf("review: generation event publish failed request=%s: %v", r.PublicID, err)
		}
	}

	return c.JSON(http.StatusOK, echo.Map{"request": requestPartOf(r)})
}

// authorizedRequest loads the :id request and enforces read access.
func (h *CourseRequestHandler) authorizedRequest(c echo.Context) (model.CourseRequest, int, error) {
	uid, err := currentUserID(c)
	if err != nil {
		return model.CourseRequest{}, http.StatusUnauthorized, errors.New("unauthorized")
	}
	publicID := c.Param("id")

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	r, err := h.Requests.GetByPublicID(ctx, publicID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.CourseRequest{}, http.StatusNotFound, errors.New("request not found")
		}
		return model.CourseRequest{}, http.StatusInternalServerError, errors.New("load request failed")
	}
	if r.RequesterID != uid && !holdsRole(c, model.RoleCourseManager) {
		return model.CourseRequest{}, http.StatusForbidden, errors.New("forbidden")
	}
	return r, http.StatusOK, nil
}
