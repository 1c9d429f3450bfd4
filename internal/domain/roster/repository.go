package roster

import (
	"context"

	"github.com/google/uuid"
)

// UserRepository defines persistence operations for users
type UserRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindAll(ctx context.Context) ([]User, error)
	FindByRole(ctx context.Context, role Role) ([]User, error)
	// FindStudentsByCourse returns all students enrolled in a course
	FindStudentsByCourse(ctx context.Context, courseID uuid.UUID) ([]User, error)
	ExistsByEmail(ctx context.Context, email string, excludeID uuid.UUID) (bool, error)
	Save(ctx context.Context, user *User) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// CourseRepository defines persistence operations for courses
type CourseRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Course, error)
	FindAll(ctx context.Context) ([]Course, error)
	FindByTeacher(ctx context.Context, teacherID uuid.UUID) ([]Course, error)
	FindByStudent(ctx context.Context, studentID uuid.UUID) ([]Course, error)
	// UnassignTeacher clears the teacher from every course the teacher owns
	UnassignTeacher(ctx context.Context, teacherID uuid.UUID) error
	Save(ctx context.Context, course *Course) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// EnrollmentRepository defines persistence operations for student-course links
type EnrollmentRepository interface {
	Find(ctx context.Context, studentID, courseID uuid.UUID) (*Enrollment, error)
	FindByCourse(ctx context.Context, courseID uuid.UUID) ([]Enrollment, error)
	FindByStudent(ctx context.Context, studentID uuid.UUID) ([]Enrollment, error)
	Exists(ctx context.Context, studentID, courseID uuid.UUID) (bool, error)
	Save(ctx context.Context, enrollment *Enrollment) error
	Delete(ctx context.Context, studentID, courseID uuid.UUID) error
	DeleteByCourse(ctx context.Context, courseID uuid.UUID) error
	DeleteByStudent(ctx context.Context, studentID uuid.UUID) error
}
