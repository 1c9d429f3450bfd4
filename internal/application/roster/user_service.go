package roster

import (
	"context"
	"fmt"
	"time"

	attendanceapp "github.com/attendance/backend/internal/application/attendance"
	"github.com/attendance/backend/internal/domain/attendance"
	"github.com/attendance/backend/internal/domain/roster"
	"github.com/attendance/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// UserServiceConfig contains provisioning configuration for the user service
type UserServiceConfig struct {
	DefaultPassword string        // Password applied by admin resets without an explicit one
	PhotoURLExpiry  time.Duration // Lifetime of presigned photo download URLs
}

// DefaultUserServiceConfig returns default configuration
func DefaultUserServiceConfig() UserServiceConfig {
	return UserServiceConfig{
		DefaultPassword: "changeme123",
		PhotoURLExpiry:  15 * time.Minute,
	}
}

// UserService handles user provisioning, photo enrollment and role-aware
// cascading deletion
type UserService struct {
	users       roster.UserRepository
	courses     roster.CourseRepository
	enrollments roster.EnrollmentRepository
	sessions    attendance.SessionRepository
	records     attendance.RecordRepository
	faces       attendanceapp.FaceGateway
	storage     ObjectStorageService
	tx          shared.TransactionManager
	config      UserServiceConfig
	logger      *zap.Logger
}

// NewUserService creates a new UserService
func NewUserService(
	users roster.UserRepository,
	courses roster.CourseRepository,
	enrollments roster.EnrollmentRepository,
	sessions attendance.SessionRepository,
	records attendance.RecordRepository,
	faces attendanceapp.FaceGateway,
	storage ObjectStorageService,
	tx shared.TransactionManager,
	config UserServiceConfig,
	logger *zap.Logger,
) *UserService {
	return &UserService{
		users:       users,
		courses:     courses,
		enrollments: enrollments,
		sessions:    sessions,
		records:     records,
		faces:       faces,
		storage:     storage,
		tx:          tx,
		config:      config,
		logger:      logger,
	}
}

// Create provisions a new user account
func (s *UserService) Create(ctx context.Context, actor roster.Identity, req CreateUserRequest) (*UserResponse, error) {
	if !actor.IsAdmin() {
		return nil, shared.ErrForbidden
	}
	exists, err := s.users.ExistsByEmail(ctx, req.Email, uuid.Nil)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "A user with this email already exists")
	}

	user, err := roster.NewUser(req.Name, req.Email, req.Password, roster.Role(req.Role), req.Group)
	if err != nil {
		return nil, err
	}
	if err := s.users.Save(ctx, user); err != nil {
		return nil, err
	}
	s.logger.Info("User created",
		zap.String("user_id", user.ID.String()),
		zap.String("role", user.Role.String()))

	resp := ToUserResponse(user)
	return &resp, nil
}

// Get returns one user, with a presigned photo URL when a photo is stored
func (s *UserService) Get(ctx context.Context, actor roster.Identity, id uuid.UUID) (*UserResponse, error) {
	if !actor.IsAdmin() && actor.ID != id {
		return nil, shared.ErrForbidden
	}
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToUserResponse(user)
	if user.PhotoKey != "" {
		url, _, err := s.storage.GenerateDownloadURL(ctx, user.PhotoKey, s.config.PhotoURLExpiry)
		if err != nil {
			s.logger.Warn("Failed to presign photo URL", zap.Error(err))
		} else {
			resp.PhotoURL = url
		}
	}
	return &resp, nil
}

// List returns all users, optionally filtered by role
func (s *UserService) List(ctx context.Context, actor roster.Identity, role string) ([]UserResponse, error) {
	if !actor.IsAdmin() {
		return nil, shared.ErrForbidden
	}
	var (
		users []roster.User
		err   error
	)
	if role != "" {
		r := roster.Role(role)
		if !r.IsValid() {
			return nil, shared.NewDomainError("INVALID_ROLE", "Invalid role: "+role)
		}
		users, err = s.users.FindByRole(ctx, r)
	} else {
		users, err = s.users.FindAll(ctx)
	}
	if err != nil {
		return nil, err
	}
	return ToUserResponses(users), nil
}

// Update edits a user's profile fields
func (s *UserService) Update(ctx context.Context, actor roster.Identity, id uuid.UUID, req UpdateUserRequest) (*UserResponse, error) {
	if !actor.IsAdmin() {
		return nil, shared.ErrForbidden
	}
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Email != nil && *req.Email != user.Email {
		taken, err := s.users.ExistsByEmail(ctx, *req.Email, user.ID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, shared.NewDomainError("ALREADY_EXISTS", "A user with this email already exists")
		}
		if err := user.SetEmail(*req.Email); err != nil {
			return nil, err
		}
	}
	if req.Name != nil {
		user.Name = *req.Name
		user.Touch()
	}
	if req.Role != nil {
		if err := user.SetRole(roster.Role(*req.Role)); err != nil {
			return nil, err
		}
	}
	if req.Group != nil {
		user.Group = *req.Group
		user.Touch()
	}

	if err := s.users.Save(ctx, user); err != nil {
		return nil, err
	}
	resp := ToUserResponse(user)
	return &resp, nil
}

// Delete removes a user and everything their role owns: a student's
// enrollments and attendance, or a teacher's sessions with their attendance
// plus the teacher slot on their courses. Everything commits together.
func (s *UserService) Delete(ctx context.Context, actor roster.Identity, id uuid.UUID) error {
	if !actor.IsAdmin() {
		return shared.ErrForbidden
	}
	if actor.ID == id {
		return shared.NewDomainError("INVALID_INPUT", "Cannot delete your own account")
	}

	return s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		user, err := s.users.FindByID(ctx, id)
		if err != nil {
			return err
		}

		switch {
		case user.IsStudent():
			if err := s.records.DeleteByStudent(ctx, user.ID); err != nil {
				return err
			}
			if err := s.enrollments.DeleteByStudent(ctx, user.ID); err != nil {
				return err
			}
		case user.IsTeacher():
			sessions, err := s.sessions.FindByTeacher(ctx, user.ID)
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
				if err := s.sessions.DeleteByTeacher(ctx, user.ID); err != nil {
					return err
				}
			}
			if err := s.courses.UnassignTeacher(ctx, user.ID); err != nil {
				return err
			}
		}

		if err := s.users.Delete(ctx, user.ID); err != nil {
			return err
		}
		s.logger.Info("User deleted",
			zap.String("user_id", user.ID.String()),
			zap.String("role", user.Role.String()))
		return nil
	})
}

// ResetPassword sets a user's password, falling back to the provisioning
// default when the request carries none
func (s *UserService) ResetPassword(ctx context.Context, actor roster.Identity, req ResetPasswordRequest) error {
	if !actor.IsAdmin() {
		return shared.ErrForbidden
	}
	user, err := s.users.FindByID(ctx, req.UserID)
	if err != nil {
		return err
	}
	password := req.Password
	if password == "" {
		password = s.config.DefaultPassword
	}
	if err := user.SetPassword(password); err != nil {
		return err
	}
	return s.users.Save(ctx, user)
}

// EnrollPhoto runs an uploaded photo through the face encoder and stores the
// resulting embedding on the student, keeping the photo in object storage.
// A photo without a detectable face is rejected. Admins may enroll anybody;
// students may enroll themselves.
func (s *UserService) EnrollPhoto(ctx context.Context, actor roster.Identity, id uuid.UUID, photo []byte, contentType string) (*UserResponse, error) {
	if !actor.IsAdmin() && actor.ID != id {
		return nil, shared.ErrForbidden
	}
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !user.IsStudent() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Only students can enroll a face photo")
	}
	// An embedding is set once; replacing it is an administrative action
	if user.HasEmbedding() && !actor.IsAdmin() {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Face is already enrolled; replacement requires an administrator")
	}

	embedding, err := s.faces.ExtractEmbedding(ctx, photo)
	if err != nil {
		return nil, err
	}

	photoKey := fmt.Sprintf("faces/%s/%s", user.ID, uuid.NewString())
	if err := s.storage.PutObject(ctx, photoKey, contentType, photo); err != nil {
		return nil, err
	}

	oldKey := user.PhotoKey
	if err := user.EnrollFace(embedding, photoKey); err != nil {
		return nil, err
	}
	if err := s.users.Save(ctx, user); err != nil {
		return nil, err
	}
	if oldKey != "" && oldKey != photoKey {
		if err := s.storage.DeleteObject(ctx, oldKey); err != nil {
			s.logger.Warn("Failed to delete replaced photo", zap.String("key", oldKey), zap.Error(err))
		}
	}

	s.logger.Info("Face enrolled", zap.String("user_id", user.ID.String()))
	resp := ToUserResponse(user)
	return &resp, nil
}
