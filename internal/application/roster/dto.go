package roster

import (
	"time"

	"github.com/attendance/backend/internal/domain/roster"
	"github.com/google/uuid"
)

// CreateUserRequest is the payload for provisioning a user
type CreateUserRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Role     string `json:"role" binding:"required"`
	Group    string `json:"group"`
}

// UpdateUserRequest is the payload for editing a user. Nil fields are left
// untouched.
type UpdateUserRequest struct {
	Name  *string `json:"name"`
	Email *string `json:"email" binding:"omitempty,email"`
	Role  *string `json:"role"`
	Group *string `json:"group"`
}

// ResetPasswordRequest resets a user's password, falling back to the
// provisioning default when no password is given
type ResetPasswordRequest struct {
	UserID   uuid.UUID `json:"user_id" binding:"required"`
	Password string    `json:"password"`
}

// CreateCourseRequest is the payload for creating a course
type CreateCourseRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// UpdateCourseRequest is the payload for editing a course
type UpdateCourseRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

// AssignStudentRequest links or unlinks a student and a course
type AssignStudentRequest struct {
	StudentID uuid.UUID `json:"student_id" binding:"required"`
	CourseID  uuid.UUID `json:"course_id" binding:"required"`
}

// AssignTeacherRequest assigns a teacher to a course
type AssignTeacherRequest struct {
	TeacherID uuid.UUID `json:"teacher_id" binding:"required"`
	CourseID  uuid.UUID `json:"course_id" binding:"required"`
}

// UserResponse represents a user in API responses
type UserResponse struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Role         string    `json:"role"`
	Group        string    `json:"group,omitempty"`
	HasEmbedding bool      `json:"has_embedding"`
	PhotoURL     string    `json:"photo_url,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// CourseResponse represents a course in API responses
type CourseResponse struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	TeacherID   *uuid.UUID `json:"teacher_id,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// ToUserResponse converts a domain user to its response representation
func ToUserResponse(u *roster.User) UserResponse {
	return UserResponse{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		Role:         u.Role.String(),
		Group:        u.Group,
		HasEmbedding: u.HasEmbedding(),
		CreatedAt:    u.CreatedAt,
	}
}

// ToUserResponses converts a slice of domain users
func ToUserResponses(users []roster.User) []UserResponse {
	responses := make([]UserResponse, len(users))
	for i := range users {
		responses[i] = ToUserResponse(&users[i])
	}
	return responses
}

// ToCourseResponse converts a domain course to its response representation
func ToCourseResponse(c *roster.Course) CourseResponse {
	return CourseResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		TeacherID:   c.TeacherID,
		CreatedAt:   c.CreatedAt,
	}
}

// ToCourseResponses converts a slice of domain courses
func ToCourseResponses(courses []roster.Course) []CourseResponse {
	responses := make([]CourseResponse, len(courses))
	for i := range courses {
		responses[i] = ToCourseResponse(&courses[i])
	}
	return responses
}
