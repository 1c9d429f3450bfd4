package roster

import (
	"github.com/attendance/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Enrollment links a student to a course. The (student, course) pair is
// unique; enrollment determines which students a session's reconciliation
// pass accounts for.
type Enrollment struct {
	shared.BaseEntity
	StudentID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_student_course"`
	CourseID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_student_course"`
}

// NewEnrollment creates a new student-course link
func NewEnrollment(studentID, courseID uuid.UUID) (*Enrollment, error) {
	if studentID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_STUDENT", "Student ID cannot be empty")
	}
	if courseID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_COURSE", "Course ID cannot be empty")
	}
	return &Enrollment{
		BaseEntity: shared.NewBaseEntity(),
		StudentID:  studentID,
		CourseID:   courseID,
	}, nil
}

// TableName returns the table name for GORM
func (Enrollment) TableName() string {
	return "enrollments"
}
