package attendance

import (
	"fmt"
	"time"

	"github.com/attendance/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// SessionStatus represents the lifecycle status of a classroom session
type SessionStatus string

const (
	SessionStatusOpen      SessionStatus = "open"
	SessionStatusClosed    SessionStatus = "closed"
	SessionStatusSubmitted SessionStatus = "submitted"
)

// IsValid checks if the status is a valid SessionStatus
func (s SessionStatus) IsValid() bool {
	switch s {
	case SessionStatusOpen, SessionStatusClosed, SessionStatusSubmitted:
		return true
	}
	return false
}

// String returns the string representation of SessionStatus
func (s SessionStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status.
// The status is monotonic: open -> closed -> submitted, and open -> submitted
// directly (ending is not mandatory before submitting). Re-closing a closed
// session is allowed and re-stamps the end time. Submitted is terminal.
func (s SessionStatus) CanTransitionTo(target SessionStatus) bool {
	switch s {
	case SessionStatusOpen:
		return target == SessionStatusClosed || target == SessionStatusSubmitted
	case SessionStatusClosed:
		return target == SessionStatusClosed || target == SessionStatusSubmitted
	case SessionStatusSubmitted:
		return false // Terminal state
	}
	return false
}

// Session represents one instance of a course meeting for which attendance is
// tracked. It snapshots the course's teacher at start time: reassigning the
// course later does not change ownership of past sessions.
type Session struct {
	shared.BaseEntity
	CourseID  uuid.UUID `gorm:"type:uuid;not null;index"`
	TeacherID uuid.UUID `gorm:"type:uuid;not null;index"`
	StartedAt time.Time
	EndedAt   *time.Time
	Status    SessionStatus
}

// NewSession starts a new session for a course, owned by the given teacher
func NewSession(courseID, teacherID uuid.UUID) (*Session, error) {
	if courseID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_COURSE", "Course ID cannot be empty")
	}
	if teacherID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TEACHER", "Teacher ID cannot be empty")
	}
	return &Session{
		BaseEntity: shared.NewBaseEntity(),
		CourseID:   courseID,
		TeacherID:  teacherID,
		StartedAt:  time.Now(),
		Status:     SessionStatusOpen,
	}, nil
}

// End closes the session and stamps the end time
func (s *Session) End() error {
	if !s.Status.CanTransitionTo(SessionStatusClosed) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot end session in %s status", s.Status))
	}
	now := time.Now()
	s.Status = SessionStatusClosed
	s.EndedAt = &now
	s.UpdatedAt = now
	return nil
}

// Submit marks the session as submitted, stamping the end time if unset.
// Re-submitting an already-submitted session is rejected; the reconciliation
// pass runs exactly once per submission in the same transaction.
func (s *Session) Submit() error {
	if !s.Status.CanTransitionTo(SessionStatusSubmitted) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot submit session in %s status", s.Status))
	}
	now := time.Now()
	s.Status = SessionStatusSubmitted
	if s.EndedAt == nil {
		s.EndedAt = &now
	}
	s.UpdatedAt = now
	return nil
}

// Reopen resets the session to open for a retake. Submitted sessions cannot
// be retaken.
func (s *Session) Reopen() error {
	if s.Status == SessionStatusSubmitted {
		return shared.NewDomainError("INVALID_STATE", "Cannot retake a submitted session")
	}
	s.Status = SessionStatusOpen
	s.EndedAt = nil
	s.Touch()
	return nil
}

// IsOpen returns true if the session is open
func (s *Session) IsOpen() bool {
	return s.Status == SessionStatusOpen
}

// IsSubmitted returns true if the session has been submitted
func (s *Session) IsSubmitted() bool {
	return s.Status == SessionStatusSubmitted
}

// CanRecord returns true if attendance may still be written to the session
func (s *Session) CanRecord() bool {
	return !s.IsSubmitted()
}

// TableName returns the table name for GORM
func (Session) TableName() string {
	return "sessions"
}
