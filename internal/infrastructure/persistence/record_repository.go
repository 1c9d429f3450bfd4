package persistence

import (
	"context"
	"errors"

	"github.com/attendance/backend/internal/domain/attendance"
	"github.com/attendance/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// recordConflictColumns is the unique key attendance upserts resolve against.
// Marking a student twice in one session overwrites the earlier status.
var recordConflictColumns = []clause.Column{
	{Name: "session_id"},
	{Name: "student_id"},
}

// GormRecordRepository implements attendance.RecordRepository using GORM
type GormRecordRepository struct {
	db *gorm.DB
}

// NewGormRecordRepository creates a new GormRecordRepository
func NewGormRecordRepository(db *gorm.DB) *GormRecordRepository {
	return &GormRecordRepository{db: db}
}

// FindByID finds a record by ID
func (r *GormRecordRepository) FindByID(ctx context.Context, id uuid.UUID) (*attendance.Record, error) {
	var record attendance.Record
	if err := dbFromContext(ctx, r.db).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

// FindBySession returns a session's records
func (r *GormRecordRepository) FindBySession(ctx context.Context, sessionID uuid.UUID) ([]*attendance.Record, error) {
	var records []*attendance.Record
	if err := dbFromContext(ctx, r.db).
		Where("session_id = ?", sessionID).
		Order("recorded_at").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// FindByStudent returns a student's records across all sessions, newest first
func (r *GormRecordRepository) FindByStudent(ctx context.Context, studentID uuid.UUID) ([]*attendance.Record, error) {
	var records []*attendance.Record
	if err := dbFromContext(ctx, r.db).
		Where("student_id = ?", studentID).
		Order("recorded_at DESC").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// CountByStudentAndCourse counts a student's records with the given status
// across all of a course's sessions
func (r *GormRecordRepository) CountByStudentAndCourse(ctx context.Context, studentID, courseID uuid.UUID, status attendance.RecordStatus) (int64, error) {
	var count int64
	if err := dbFromContext(ctx, r.db).
		Model(&attendance.Record{}).
		Joins("JOIN sessions ON sessions.id = attendance_records.session_id").
		Where("attendance_records.student_id = ? AND sessions.course_id = ? AND attendance_records.status = ?",
			studentID, courseID, status).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Upsert writes a record against the (session_id, student_id) unique
// constraint, updating status and recorded_at in place on conflict.
func (r *GormRecordRepository) Upsert(ctx context.Context, record *attendance.Record) error {
	db := dbFromContext(ctx, r.db)
	if err := db.
		Clauses(clause.OnConflict{
			Columns:   recordConflictColumns,
			DoUpdates: clause.AssignmentColumns([]string{"status", "recorded_at", "updated_at"}),
		}).
		Create(record).Error; err != nil {
		return err
	}
	// On conflict the persisted row keeps its original id. Reload into a
	// fresh struct so the caller holds the real row, not the candidate it
	// tried to insert.
	var persisted attendance.Record
	if err := db.First(&persisted, "session_id = ? AND student_id = ?", record.SessionID, record.StudentID).Error; err != nil {
		return err
	}
	*record = persisted
	return nil
}

// UpsertBatch writes many records in one statement with the same conflict
// handling as Upsert
func (r *GormRecordRepository) UpsertBatch(ctx context.Context, records []*attendance.Record) error {
	if len(records) == 0 {
		return nil
	}
	return dbFromContext(ctx, r.db).
		Clauses(clause.OnConflict{
			Columns:   recordConflictColumns,
			DoUpdates: clause.AssignmentColumns([]string{"status", "recorded_at", "updated_at"}),
		}).
		Create(&records).Error
}

// DeleteBySession removes every record of a session
func (r *GormRecordRepository) DeleteBySession(ctx context.Context, sessionID uuid.UUID) error {
	return dbFromContext(ctx, r.db).
		Delete(&attendance.Record{}, "session_id = ?", sessionID).Error
}

// DeleteBySessions removes every record of the given sessions
func (r *GormRecordRepository) DeleteBySessions(ctx context.Context, sessionIDs []uuid.UUID) error {
	if len(sessionIDs) == 0 {
		return nil
	}
	return dbFromContext(ctx, r.db).
		Delete(&attendance.Record{}, "session_id IN ?", sessionIDs).Error
}

// DeleteByStudent removes every record of a student
func (r *GormRecordRepository) DeleteByStudent(ctx context.Context, studentID uuid.UUID) error {
	return dbFromContext(ctx, r.db).
		Delete(&attendance.Record{}, "student_id = ?", studentID).Error
}

var _ attendance.RecordRepository = (*GormRecordRepository)(nil)
