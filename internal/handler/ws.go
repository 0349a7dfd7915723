package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/BridgeXconnect/ai-language-learning-platform-sub005/internal/model"
	"github.com/BridgeXconnect/ai-language-learning-platform-sub005/internal/realtime"
	"github.com/BridgeXconnect/ai-language-learning-platform-sub005/internal/repository"
)

// WSHandler upgrades dashboard connections onto the realtime hub.  One
// connection tracks one course request; the request's public id is the
// channel key.
type WSHandler struct {
	Requests *repository.CourseRequestRepo
	Hub      *realtime.Hub
	upgrader websocket.Upgrader
}

func NewWSHandler(requests *repository.CourseRequestRepo, hub *realtime.Hub) *WSHandler {
	return &WSHandler{
		Requests: requests,
		Hub:      hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Portals are served from separate origins in dev; the JWT
			// middleware already authenticated the caller.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// Subscribe handles GET /v1/course-requests/:id/ws.  The caller must own
// the request or hold course_manager.  After the upgrade the client
// receives a status_change snapshot of the persisted state, then live
// envelopes as pipeline events arrive.
func (h *WSHandler) Subscribe(c echo.Context) error {
	uid, err := currentUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	publicID := c.Param("id")

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	r, err := h.Requests.GetByPublicID(ctx, publicID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "request not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load request failed"})
	}
	if r.RequesterID != uid && !holdsRole(c, model.RoleCourseManager) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}

	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		// Upgrade already wrote the HTTP error response.
		log.Printf("ws: upgrade failed request=%s: %v", publicID, err)
		return nil
	}

	client := realtime.NewClient(h.Hub, conn, publicID)
	client.QueueSnapshot(snapshotOf(r))
	h.Hub.Register(client)
	client.Start()
	return nil
}

// snapshotOf renders the persisted row as a status_change envelope.
func snapshotOf(r model.CourseRequest) realtime.Envelope {
	progress := r.Progress
	data := realtime.StatusData{Status: r.Status, Progress: &progress}
	if r.StatusNote != nil {
		data.Message = *r.StatusNote
	}
	return realtime.Envelope{
		Event:     realtime.EventStatusChange,
		RequestID: r.PublicID,
		Data:      data,
	}
}
