package roster

import (
	"strings"

	"github.com/attendance/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Course represents a taught course with an optional owning teacher.
// The teacher assignment is advisory roster data: sessions snapshot the
// teacher at start time and are not retouched when the course is reassigned.
type Course struct {
	shared.BaseEntity
	Name        string
	Description string
	TeacherID   *uuid.UUID `gorm:"type:uuid;index"`
}

// NewCourse creates a new course
func NewCourse(name, description string) (*Course, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Course name cannot be empty")
	}
	if len(name) > 200 {
		return nil, shared.NewDomainError("INVALID_NAME", "Course name cannot exceed 200 characters")
	}
	return &Course{
		BaseEntity:  shared.NewBaseEntity(),
		Name:        name,
		Description: description,
	}, nil
}

// AssignTeacher sets the owning teacher for the course
func (c *Course) AssignTeacher(teacherID uuid.UUID) error {
	if teacherID == uuid.Nil {
		return shared.NewDomainError("INVALID_TEACHER", "Teacher ID cannot be empty")
	}
	c.TeacherID = &teacherID
	c.Touch()
	return nil
}

// UnassignTeacher clears the owning teacher
func (c *Course) UnassignTeacher() {
	c.TeacherID = nil
	c.Touch()
}

// IsTaughtBy reports whether the given teacher currently owns the course
func (c *Course) IsTaughtBy(teacherID uuid.UUID) bool {
	return c.TeacherID != nil && *c.TeacherID == teacherID
}

// Rename updates the course name
func (c *Course) Rename(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Course name cannot be empty")
	}
	c.Name = name
	c.Touch()
	return nil
}

// SetDescription updates the course description
func (c *Course) SetDescription(description string) {
	c.Description = description
	c.Touch()
}

// TableName returns the table name for GORM
func (Course) TableName() string {
	return "courses"
}
