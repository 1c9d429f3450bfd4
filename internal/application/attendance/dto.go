package attendance

import (
	"time"

	"github.com/attendance/backend/internal/domain/attendance"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StartSessionRequest is the payload for starting a session
type StartSessionRequest struct {
	CourseID uuid.UUID `json:"course_id" binding:"required"`
}

// MarkManualRequest is the payload for a manual attendance mark
type MarkManualRequest struct {
	SessionID uuid.UUID `json:"session_id" binding:"required"`
	StudentID uuid.UUID `json:"student_id" binding:"required"`
	Status    string    `json:"status" binding:"required"`
}

// EditRecordRequest is the payload for correcting an attendance record
type EditRecordRequest struct {
	Status string `json:"status" binding:"required"`
}

// SessionResponse represents a session in API responses
type SessionResponse struct {
	ID        uuid.UUID  `json:"id"`
	CourseID  uuid.UUID  `json:"course_id"`
	TeacherID uuid.UUID  `json:"teacher_id"`
	StartedAt time.Time  `json:"started_at"`
	EndedAt   *time.Time `json:"ended_at,omitempty"`
	Status    string     `json:"status"`
}

// RecordResponse represents an attendance record in API responses
type RecordResponse struct {
	ID          uuid.UUID `json:"id"`
	SessionID   uuid.UUID `json:"session_id"`
	StudentID   uuid.UUID `json:"student_id"`
	StudentName string    `json:"student_name,omitempty"`
	Status      string    `json:"status"`
	RecordedAt  time.Time `json:"recorded_at"`
}

// MarkPhotoResponse reports the outcome of a photo mark: how many faces the
// encoder detected and the records written for the matched students
type MarkPhotoResponse struct {
	SessionID     uuid.UUID        `json:"session_id"`
	FacesDetected int              `json:"faces_detected"`
	Marked        []RecordResponse `json:"marked"`
}

// CoursePercentageResponse is one course's attendance percentage for a student
type CoursePercentageResponse struct {
	CourseID   uuid.UUID       `json:"course_id"`
	CourseName string          `json:"course_name"`
	Present    int64           `json:"present"`
	Total      int64           `json:"total"`
	Percentage decimal.Decimal `json:"percentage"`
}

// HistoryEntryResponse is one session of a student's attendance history
type HistoryEntryResponse struct {
	SessionID   uuid.UUID `json:"session_id"`
	CourseID    uuid.UUID `json:"course_id"`
	CourseName  string    `json:"course_name"`
	SessionDate time.Time `json:"session_date"`
	Status      string    `json:"status"`
	RecordedAt  time.Time `json:"recorded_at"`
}

// StudentReportResponse bundles a student's history with per-course percentages
type StudentReportResponse struct {
	StudentID   uuid.UUID                  `json:"student_id"`
	StudentName string                     `json:"student_name"`
	History     []HistoryEntryResponse     `json:"history"`
	Percentages []CoursePercentageResponse `json:"percentages"`
}

// ToSessionResponse converts a domain session to its response representation
func ToSessionResponse(s *attendance.Session) SessionResponse {
	return SessionResponse{
		ID:        s.ID,
		CourseID:  s.CourseID,
		TeacherID: s.TeacherID,
		StartedAt: s.StartedAt,
		EndedAt:   s.EndedAt,
		Status:    s.Status.String(),
	}
}

// ToSessionResponses converts a slice of domain sessions
func ToSessionResponses(sessions []*attendance.Session) []SessionResponse {
	responses := make([]SessionResponse, len(sessions))
	for i, s := range sessions {
		responses[i] = ToSessionResponse(s)
	}
	return responses
}

// ToRecordResponse converts a domain record, with the student display name
// joined in when known
func ToRecordResponse(r *attendance.Record, studentName string) RecordResponse {
	return RecordResponse{
		ID:          r.ID,
		SessionID:   r.SessionID,
		StudentID:   r.StudentID,
		StudentName: studentName,
		Status:      r.Status.String(),
		RecordedAt:  r.RecordedAt,
	}
}
