package persistence

import (
	"context"
	"errors"

	"github.com/attendance/backend/internal/domain/attendance"
	"github.com/attendance/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormSessionRepository implements attendance.SessionRepository using GORM
type GormSessionRepository struct {
	db *gorm.DB
}

// NewGormSessionRepository creates a new GormSessionRepository
func NewGormSessionRepository(db *gorm.DB) *GormSessionRepository {
	return &GormSessionRepository{db: db}
}

// FindByID finds a session by ID
func (r *GormSessionRepository) FindByID(ctx context.Context, id uuid.UUID) (*attendance.Session, error) {
	var session attendance.Session
	if err := dbFromContext(ctx, r.db).First(&session, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &session, nil
}

// FindByIDs returns the sessions with the given IDs
func (r *GormSessionRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*attendance.Session, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var sessions []*attendance.Session
	if err := dbFromContext(ctx, r.db).
		Where("id IN ?", ids).
		Find(&sessions).Error; err != nil {
		return nil, err
	}
	return sessions, nil
}

// FindByCourse returns a course's sessions, newest first
func (r *GormSessionRepository) FindByCourse(ctx context.Context, courseID uuid.UUID) ([]*attendance.Session, error) {
	var sessions []*attendance.Session
	if err := dbFromContext(ctx, r.db).
		Where("course_id = ?", courseID).
		Order("started_at DESC").
		Find(&sessions).Error; err != nil {
		return nil, err
	}
	return sessions, nil
}

// FindByTeacher returns a teacher's sessions, newest first
func (r *GormSessionRepository) FindByTeacher(ctx context.Context, teacherID uuid.UUID) ([]*attendance.Session, error) {
	var sessions []*attendance.Session
	if err := dbFromContext(ctx, r.db).
		Where("teacher_id = ?", teacherID).
		Order("started_at DESC").
		Find(&sessions).Error; err != nil {
		return nil, err
	}
	return sessions, nil
}

// CountByCourse counts a course's sessions
func (r *GormSessionRepository) CountByCourse(ctx context.Context, courseID uuid.UUID) (int64, error) {
	var count int64
	if err := dbFromContext(ctx, r.db).
		Model(&attendance.Session{}).
		Where("course_id = ?", courseID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a session
func (r *GormSessionRepository) Save(ctx context.Context, session *attendance.Session) error {
	return dbFromContext(ctx, r.db).Save(session).Error
}

// Delete removes a session by ID
func (r *GormSessionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := dbFromContext(ctx, r.db).Delete(&attendance.Session{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// DeleteByCourse removes every session of a course
func (r *GormSessionRepository) DeleteByCourse(ctx context.Context, courseID uuid.UUID) error {
	return dbFromContext(ctx, r.db).
		Delete(&attendance.Session{}, "course_id = ?", courseID).Error
}

// DeleteByTeacher removes every session owned by a teacher
func (r *GormSessionRepository) DeleteByTeacher(ctx context.Context, teacherID uuid.UUID) error {
	return dbFromContext(ctx, r.db).
		Delete(&attendance.Session{}, "teacher_id = ?", teacherID).Error
}

var _ attendance.SessionRepository = (*GormSessionRepository)(nil)
