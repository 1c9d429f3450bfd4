package attendance

import (
	"time"

	"github.com/attendance/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// RecordStatus represents the attendance outcome for a student in a session
type RecordStatus string

const (
	RecordStatusPresent RecordStatus = "present"
	RecordStatusAbsent  RecordStatus = "absent"
	RecordStatusLate    RecordStatus = "late"
	RecordStatusExcused RecordStatus = "excused"
)

// IsValid checks if the status is a valid RecordStatus
func (s RecordStatus) IsValid() bool {
	switch s {
	case RecordStatusPresent, RecordStatusAbsent, RecordStatusLate, RecordStatusExcused:
		return true
	}
	return false
}

// String returns the string representation of RecordStatus
func (s RecordStatus) String() string {
	return string(s)
}

// Record is one attendance entry. Each (session, student) pair has at most
// one record; marking the same student again overwrites the status rather
// than appending a second row.
type Record struct {
	shared.BaseEntity
	SessionID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_session_student"`
	StudentID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_session_student"`
	Status     RecordStatus
	RecordedAt time.Time
}

// NewRecord creates an attendance record for a student in a session
func NewRecord(sessionID, studentID uuid.UUID, status RecordStatus) (*Record, error) {
	if sessionID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SESSION", "Session ID cannot be empty")
	}
	if studentID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_STUDENT", "Student ID cannot be empty")
	}
	if !status.IsValid() {
		return nil, shared.NewDomainError("INVALID_STATUS", "Invalid attendance status: "+status.String())
	}
	return &Record{
		BaseEntity: shared.NewBaseEntity(),
		SessionID:  sessionID,
		StudentID:  studentID,
		Status:     status,
		RecordedAt: time.Now(),
	}, nil
}

// SetStatus overwrites the record's status
func (r *Record) SetStatus(status RecordStatus) error {
	if !status.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", "Invalid attendance status: "+status.String())
	}
	r.Status = status
	r.RecordedAt = time.Now()
	r.Touch()
	return nil
}

// TableName returns the table name for GORM
func (Record) TableName() string {
	return "attendance_records"
}
