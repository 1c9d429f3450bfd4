package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/attendance/backend/internal/application/attendance"
)

// AttendanceHandler handles attendance marking and reporting HTTP requests
type AttendanceHandler struct {
	BaseHandler
	ledgerService *attendance.LedgerService
	reportService *attendance.ReportService
}

// NewAttendanceHandler creates a new attendance handler
func NewAttendanceHandler(ledgerService *attendance.LedgerService, reportService *attendance.ReportService) *AttendanceHandler {
	return &AttendanceHandler{
		ledgerService: ledgerService,
		reportService: reportService,
	}
}

// MarkFromPhoto uploads a classroom photo, matches detected faces against the
// enrolled students and marks the matched students present.
//
// POST /api/v1/sessions/:id/attendance/photo
func (h *AttendanceHandler) MarkFromPhoto(c *gin.Context) {
	actor, err := getIdentity(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	sessionID, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid session ID")
		return
	}

	photo, _, err := readPhotoUpload(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.ledgerService.MarkFromPhoto(c.Request.Context(), actor, sessionID, photo)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// MarkManual marks a single student's attendance by hand.
//
// POST /api/v1/sessions/:id/attendance
func (h *AttendanceHandler) MarkManual(c *gin.Context) {
	actor, err := getIdentity(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	sessionID, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid session ID")
		return
	}

	var body struct {
		StudentID uuid.UUID `json:"student_id" binding:"required"`
		Status    string    `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	req := attendance.MarkManualRequest{
		SessionID: sessionID,
		StudentID: body.StudentID,
		Status:    body.Status,
	}
	record, err := h.ledgerService.MarkManual(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, record)
}

// EditRecord corrects an existing attendance record.
//
// PUT /api/v1/attendance/records/:id
func (h *AttendanceHandler) EditRecord(c *gin.Context) {
	actor, err := getIdentity(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	recordID, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid record ID")
		return
	}

	var req attendance.EditRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	record, err := h.ledgerService.Edit(c.Request.Context(), actor, recordID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, record)
}

// List returns the attendance records of a session.
//
// GET /api/v1/sessions/:id/attendance
func (h *AttendanceHandler) List(c *gin.Context) {
	actor, err := getIdentity(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	sessionID, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid session ID")
		return
	}

	records, err := h.ledgerService.List(c.Request.Context(), actor, sessionID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, records)
}

// StudentReport returns a student's attendance history with per-course
// percentages. Students may only view their own report.
//
// GET /api/v1/students/:id/attendance
func (h *AttendanceHandler) StudentReport(c *gin.Context) {
	actor, err := getIdentity(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	studentID, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid student ID")
		return
	}

	report, err := h.reportService.ReportFor(c.Request.Context(), actor, studentID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, report)
}
