package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/attendance/backend/internal/domain/roster"
	"github.com/attendance/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormUserRepository implements roster.UserRepository using GORM
type GormUserRepository struct {
	db *gorm.DB
}

// NewGormUserRepository creates a new GormUserRepository
func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

// FindByID finds a user by ID
func (r *GormUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*roster.User, error) {
	var user roster.User
	if err := dbFromContext(ctx, r.db).First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// FindByEmail finds a user by email, case-insensitively
func (r *GormUserRepository) FindByEmail(ctx context.Context, email string) (*roster.User, error) {
	var user roster.User
	if err := dbFromContext(ctx, r.db).
		First(&user, "email = ?", strings.ToLower(strings.TrimSpace(email))).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// FindAll returns all users ordered by name
func (r *GormUserRepository) FindAll(ctx context.Context) ([]roster.User, error) {
	var users []roster.User
	if err := dbFromContext(ctx, r.db).Order("name").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// FindByRole returns all users with the given role ordered by name
func (r *GormUserRepository) FindByRole(ctx context.Context, role roster.Role) ([]roster.User, error) {
	var users []roster.User
	if err := dbFromContext(ctx, r.db).
		Where("role = ?", role).
		Order("name").
		Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// FindStudentsByCourse returns all students enrolled in a course
func (r *GormUserRepository) FindStudentsByCourse(ctx context.Context, courseID uuid.UUID) ([]roster.User, error) {
	var users []roster.User
	if err := dbFromContext(ctx, r.db).
		Joins("JOIN enrollments ON enrollments.student_id = users.id").
		Where("enrollments.course_id = ? AND users.role = ?", courseID, roster.RoleStudent).
		Order("users.name").
		Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// ExistsByEmail reports whether another user already uses the email.
// Pass uuid.Nil as excludeID when creating a new user.
func (r *GormUserRepository) ExistsByEmail(ctx context.Context, email string, excludeID uuid.UUID) (bool, error) {
	var count int64
	query := dbFromContext(ctx, r.db).
		Model(&roster.User{}).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email)))
	if excludeID != uuid.Nil {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates a user
func (r *GormUserRepository) Save(ctx context.Context, user *roster.User) error {
	return dbFromContext(ctx, r.db).Save(user).Error
}

// Delete removes a user by ID
func (r *GormUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := dbFromContext(ctx, r.db).Delete(&roster.User{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var _ roster.UserRepository = (*GormUserRepository)(nil)
