package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/attendance/backend/internal/application/attendance"
	"github.com/attendance/backend/internal/domain/roster"
)

// SessionHandler handles session lifecycle HTTP requests
type SessionHandler struct {
	BaseHandler
	sessionService *attendance.SessionService
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(sessionService *attendance.SessionService) *SessionHandler {
	return &SessionHandler{
		sessionService: sessionService,
	}
}

// Start opens a new attendance session for a course. Only the course's
// assigned teacher may start one.
//
// POST /api/v1/sessions
func (h *SessionHandler) Start(c *gin.Context) {
	actor, err := getIdentity(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req attendance.StartSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	session, err := h.sessionService.Start(c.Request.Context(), actor, req.CourseID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, session)
}

// Get returns a single session by ID.
//
// GET /api/v1/sessions/:id
func (h *SessionHandler) Get(c *gin.Context) {
	actor, err := getIdentity(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid session ID")
		return
	}

	session, err := h.sessionService.Get(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, session)
}

// ListByCourse returns the sessions of a course, newest first.
//
// GET /api/v1/courses/:id/sessions
func (h *SessionHandler) ListByCourse(c *gin.Context) {
	actor, err := getIdentity(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	courseID, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid course ID")
		return
	}

	sessions, err := h.sessionService.ListByCourse(c.Request.Context(), actor, courseID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, sessions)
}

// End closes an open session. No further photo marks are accepted afterwards.
//
// POST /api/v1/sessions/:id/end
func (h *SessionHandler) End(c *gin.Context) {
	h.transition(c, h.sessionService.End)
}

// Submit finalizes a closed session. Unmarked enrolled students are recorded
// as absent and the session becomes read-only.
//
// POST /api/v1/sessions/:id/submit
func (h *SessionHandler) Submit(c *gin.Context) {
	h.transition(c, h.sessionService.Submit)
}

// Retake reopens a closed session for another marking pass.
//
// POST /api/v1/sessions/:id/retake
func (h *SessionHandler) Retake(c *gin.Context) {
	h.transition(c, h.sessionService.Retake)
}

// Delete removes a session and its attendance records.
//
// DELETE /api/v1/sessions/:id
func (h *SessionHandler) Delete(c *gin.Context) {
	actor, err := getIdentity(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid session ID")
		return
	}

	if err := h.sessionService.Delete(c.Request.Context(), actor, id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// transition runs one of the session lifecycle operations that share the
// same request and response shape.
func (h *SessionHandler) transition(c *gin.Context, op func(ctx context.Context, actor roster.Identity, sessionID uuid.UUID) (*attendance.SessionResponse, error)) {
	actor, err := getIdentity(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid session ID")
		return
	}

	session, err := op(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, session)
}
