package roster

import (
	"context"

	"github.com/attendance/backend/internal/domain/attendance"
	"github.com/attendance/backend/internal/domain/roster"
	"github.com/attendance/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CourseService handles course and enrollment management
type CourseService struct {
	courses     roster.CourseRepository
	users       roster.UserRepository
	enrollments roster.EnrollmentRepository
	sessions    attendance.SessionRepository
	records     attendance.RecordRepository
	tx          shared.TransactionManager
	logger      *zap.Logger
}

// NewCourseService creates a new CourseService
func NewCourseService(
	courses roster.CourseRepository,
	users roster.UserRepository,
	enrollments roster.EnrollmentRepository,
	sessions attendance.SessionRepository,
	records attendance.RecordRepository,
	tx shared.TransactionManager,
	logger *zap.Logger,
) *CourseService {
	return &CourseService{
		courses:     courses,
		users:       users,
		enrollments: enrollments,
		sessions:    sessions,
		records:     records,
		tx:          tx,
		logger:      logger,
	}
}

// Create creates a new course
func (s *CourseService) Create(ctx context.Context, actor roster.Identity, req CreateCourseRequest) (*CourseResponse, error) {
	if !actor.IsAdmin() {
		return nil, shared.ErrForbidden
	}
	course, err := roster.NewCourse(req.Name, req.Description)
	if err != nil {
		return nil, err
	}
	if err := s.courses.Save(ctx, course); err != nil {
		return nil, err
	}
	resp := ToCourseResponse(course)
	return &resp, nil
}

// Get returns one course
func (s *CourseService) Get(ctx context.Context, actor roster.Identity, id uuid.UUID) (*CourseResponse, error) {
	course, err := s.courses.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToCourseResponse(course)
	return &resp, nil
}

// List returns the courses visible to the caller: all of them for admins,
// taught courses for teachers, enrolled courses for students
func (s *CourseService) List(ctx context.Context, actor roster.Identity) ([]CourseResponse, error) {
	var (
		courses []roster.Course
		err     error
	)
	switch {
	case actor.IsAdmin():
		courses, err = s.courses.FindAll(ctx)
	case actor.IsTeacher():
		courses, err = s.courses.FindByTeacher(ctx, actor.ID)
	case actor.IsStudent():
		courses, err = s.courses.FindByStudent(ctx, actor.ID)
	default:
		return nil, shared.ErrForbidden
	}
	if err != nil {
		return nil, err
	}
	return ToCourseResponses(courses), nil
}

// Update edits a course's name or description
func (s *CourseService) Update(ctx context.Context, actor roster.Identity, id uuid.UUID, req UpdateCourseRequest) (*CourseResponse, error) {
	if !actor.IsAdmin() {
		return nil, shared.ErrForbidden
	}
	course, err := s.courses.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		if err := course.Rename(*req.Name); err != nil {
			return nil, err
		}
	}
	if req.Description != nil {
		course.SetDescription(*req.Description)
	}
	if err := s.courses.Save(ctx, course); err != nil {
		return nil, err
	}
	resp := ToCourseResponse(course)
	return &resp, nil
}

// Delete removes a course together with its sessions, those sessions'
// attendance and the course's enrollment links, in one transaction
func (s *CourseService) Delete(ctx context.Context, actor roster.Identity, id uuid.UUID) error {
	if !actor.IsAdmin() {
		return shared.ErrForbidden
	}
	return s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		course, err := s.courses.FindByID(ctx, id)
		if err != nil {
			return err
		}

		sessions, err := s.sessions.FindByCourse(ctx, course.ID)
		if err != nil {
			return err
		}
		if len(sessions) > 0 {
			ids := make([]uuid.UUID, len(sessions))
			for i, sess := range sessions {
				ids[i] = sess.ID
			}
			if err := s.records.DeleteBySessions(ctx, ids); err != nil {
				return err
			}
			if err := s.sessions.DeleteByCourse(ctx, course.ID); err != nil {
				return err
			}
		}
		if err := s.enrollments.DeleteByCourse(ctx, course.ID); err != nil {
			return err
		}
		if err := s.courses.Delete(ctx, course.ID); err != nil {
			return err
		}
		s.logger.Info("Course deleted", zap.String("course_id", course.ID.String()))
		return nil
	})
}

// AssignStudent enrolls a student into a course. The (student, course) pair
// is unique; enrolling twice is rejected.
func (s *CourseService) AssignStudent(ctx context.Context, actor roster.Identity, req AssignStudentRequest) error {
	if !actor.IsAdmin() {
		return shared.ErrForbidden
	}
	student, err := s.users.FindByID(ctx, req.StudentID)
	if err != nil {
		return err
	}
	if !student.IsStudent() {
		return shared.NewDomainError("INVALID_INPUT", "Only students can be enrolled in a course")
	}
	if _, err := s.courses.FindByID(ctx, req.CourseID); err != nil {
		return err
	}
	enrolled, err := s.enrollments.Exists(ctx, req.StudentID, req.CourseID)
	if err != nil {
		return err
	}
	if enrolled {
		return shared.NewDomainError("ALREADY_EXISTS", "Student is already enrolled in this course")
	}

	enrollment, err := roster.NewEnrollment(req.StudentID, req.CourseID)
	if err != nil {
		return err
	}
	return s.enrollments.Save(ctx, enrollment)
}

// RemoveStudent unenrolls a student from a course. Past attendance records
// are kept.
func (s *CourseService) RemoveStudent(ctx context.Context, actor roster.Identity, req AssignStudentRequest) error {
	if !actor.IsAdmin() {
		return shared.ErrForbidden
	}
	enrolled, err := s.enrollments.Exists(ctx, req.StudentID, req.CourseID)
	if err != nil {
		return err
	}
	if !enrolled {
		return shared.ErrNotFound
	}
	return s.enrollments.Delete(ctx, req.StudentID, req.CourseID)
}

// AssignTeacher makes a teacher the owner of a course. Past sessions keep
// the teacher they were started under.
func (s *CourseService) AssignTeacher(ctx context.Context, actor roster.Identity, req AssignTeacherRequest) error {
	if !actor.IsAdmin() {
		return shared.ErrForbidden
	}
	teacher, err := s.users.FindByID(ctx, req.TeacherID)
	if err != nil {
		return err
	}
	if !teacher.IsTeacher() {
		return shared.NewDomainError("INVALID_INPUT", "Only teachers can be assigned to a course")
	}
	course, err := s.courses.FindByID(ctx, req.CourseID)
	if err != nil {
		return err
	}
	if err := course.AssignTeacher(teacher.ID); err != nil {
		return err
	}
	return s.courses.Save(ctx, course)
}

// ListStudents returns the students enrolled in a course
func (s *CourseService) ListStudents(ctx context.Context, actor roster.Identity, courseID uuid.UUID) ([]UserResponse, error) {
	course, err := s.courses.FindByID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && !(actor.IsTeacher() && course.IsTaughtBy(actor.ID)) {
		return nil, shared.ErrForbidden
	}
	students, err := s.users.FindStudentsByCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}
	return ToUserResponses(students), nil
}
