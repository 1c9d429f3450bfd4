package persistence

import (
	"context"
	"errors"

	"github.com/attendance/backend/internal/domain/roster"
	"github.com/attendance/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormEnrollmentRepository implements roster.EnrollmentRepository using GORM
type GormEnrollmentRepository struct {
	db *gorm.DB
}

// NewGormEnrollmentRepository creates a new GormEnrollmentRepository
func NewGormEnrollmentRepository(db *gorm.DB) *GormEnrollmentRepository {
	return &GormEnrollmentRepository{db: db}
}

// Find returns the enrollment for a (student, course) pair
func (r *GormEnrollmentRepository) Find(ctx context.Context, studentID, courseID uuid.UUID) (*roster.Enrollment, error) {
	var enrollment roster.Enrollment
	if err := dbFromContext(ctx, r.db).
		First(&enrollment, "student_id = ? AND course_id = ?", studentID, courseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &enrollment, nil
}

// FindByCourse returns all enrollments of a course
func (r *GormEnrollmentRepository) FindByCourse(ctx context.Context, courseID uuid.UUID) ([]roster.Enrollment, error) {
	var enrollments []roster.Enrollment
	if err := dbFromContext(ctx, r.db).
		Where("course_id = ?", courseID).
		Find(&enrollments).Error; err != nil {
		return nil, err
	}
	return enrollments, nil
}

// FindByStudent returns all enrollments of a student
func (r *GormEnrollmentRepository) FindByStudent(ctx context.Context, studentID uuid.UUID) ([]roster.Enrollment, error) {
	var enrollments []roster.Enrollment
	if err := dbFromContext(ctx, r.db).
		Where("student_id = ?", studentID).
		Find(&enrollments).Error; err != nil {
		return nil, err
	}
	return enrollments, nil
}

// Exists reports whether the student is enrolled in the course
func (r *GormEnrollmentRepository) Exists(ctx context.Context, studentID, courseID uuid.UUID) (bool, error) {
	var count int64
	if err := dbFromContext(ctx, r.db).
		Model(&roster.Enrollment{}).
		Where("student_id = ? AND course_id = ?", studentID, courseID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates an enrollment
func (r *GormEnrollmentRepository) Save(ctx context.Context, enrollment *roster.Enrollment) error {
	return dbFromContext(ctx, r.db).Save(enrollment).Error
}

// Delete removes the enrollment for a (student, course) pair
func (r *GormEnrollmentRepository) Delete(ctx context.Context, studentID, courseID uuid.UUID) error {
	result := dbFromContext(ctx, r.db).
		Delete(&roster.Enrollment{}, "student_id = ? AND course_id = ?", studentID, courseID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// DeleteByCourse removes every enrollment of a course
func (r *GormEnrollmentRepository) DeleteByCourse(ctx context.Context, courseID uuid.UUID) error {
	return dbFromContext(ctx, r.db).
		Delete(&roster.Enrollment{}, "course_id = ?", courseID).Error
}

// DeleteByStudent removes every enrollment of a student
func (r *GormEnrollmentRepository) DeleteByStudent(ctx context.Context, studentID uuid.UUID) error {
	return dbFromContext(ctx, r.db).
		Delete(&roster.Enrollment{}, "student_id = ?", studentID).Error
}

var _ roster.EnrollmentRepository = (*GormEnrollmentRepository)(nil)
