package persistence

import (
	"context"
	"errors"

	"github.com/attendance/backend/internal/domain/roster"
	"github.com/attendance/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormCourseRepository implements roster.CourseRepository using GORM
type GormCourseRepository struct {
	db *gorm.DB
}

// NewGormCourseRepository creates a new GormCourseRepository
func NewGormCourseRepository(db *gorm.DB) *GormCourseRepository {
	return &GormCourseRepository{db: db}
}

// FindByID finds a course by ID
func (r *GormCourseRepository) FindByID(ctx context.Context, id uuid.UUID) (*roster.Course, error) {
	var course roster.Course
	if err := dbFromContext(ctx, r.db).First(&course, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &course, nil
}

// FindAll returns all courses ordered by name
func (r *GormCourseRepository) FindAll(ctx context.Context) ([]roster.Course, error) {
	var courses []roster.Course
	if err := dbFromContext(ctx, r.db).Order("name").Find(&courses).Error; err != nil {
		return nil, err
	}
	return courses, nil
}

// FindByTeacher returns all courses owned by the teacher
func (r *GormCourseRepository) FindByTeacher(ctx context.Context, teacherID uuid.UUID) ([]roster.Course, error) {
	var courses []roster.Course
	if err := dbFromContext(ctx, r.db).
		Where("teacher_id = ?", teacherID).
		Order("name").
		Find(&courses).Error; err != nil {
		return nil, err
	}
	return courses, nil
}

// FindByStudent returns all courses the student is enrolled in
func (r *GormCourseRepository) FindByStudent(ctx context.Context, studentID uuid.UUID) ([]roster.Course, error) {
	var courses []roster.Course
	if err := dbFromContext(ctx, r.db).
		Joins("JOIN enrollments ON enrollments.course_id = courses.id").
		Where("enrollments.student_id = ?", studentID).
		Order("courses.name").
		Find(&courses).Error; err != nil {
		return nil, err
	}
	return courses, nil
}

// UnassignTeacher clears the teacher from every course the teacher owns
func (r *GormCourseRepository) UnassignTeacher(ctx context.Context, teacherID uuid.UUID) error {
	return dbFromContext(ctx, r.db).
		Model(&roster.Course{}).
		Where("teacher_id = ?", teacherID).
		Update("teacher_id", nil).Error
}

// Save creates or updates a course
func (r *GormCourseRepository) Save(ctx context.Context, course *roster.Course) error {
	return dbFromContext(ctx, r.db).Save(course).Error
}

// Delete removes a course by ID
func (r *GormCourseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := dbFromContext(ctx, r.db).Delete(&roster.Course{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var _ roster.CourseRepository = (*GormCourseRepository)(nil)
