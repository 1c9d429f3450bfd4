package attendance

import (
	"context"

	"github.com/google/uuid"
)

// SessionRepository defines persistence for sessions
type SessionRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Session, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*Session, error)
	FindByCourse(ctx context.Context, courseID uuid.UUID) ([]*Session, error)
	FindByTeacher(ctx context.Context, teacherID uuid.UUID) ([]*Session, error)
	CountByCourse(ctx context.Context, courseID uuid.UUID) (int64, error)
	Save(ctx context.Context, session *Session) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByCourse(ctx context.Context, courseID uuid.UUID) error
	DeleteByTeacher(ctx context.Context, teacherID uuid.UUID) error
}

// RecordRepository defines persistence for attendance records. Upsert
// writes against the (session_id, student_id) unique constraint so a second
// mark for the same student updates the existing row in place.
type RecordRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Record, error)
	FindBySession(ctx context.Context, sessionID uuid.UUID) ([]*Record, error)
	FindByStudent(ctx context.Context, studentID uuid.UUID) ([]*Record, error)
	CountByStudentAndCourse(ctx context.Context, studentID, courseID uuid.UUID, status RecordStatus) (int64, error)
	Upsert(ctx context.Context, record *Record) error
	UpsertBatch(ctx context.Context, records []*Record) error
	DeleteBySession(ctx context.Context, sessionID uuid.UUID) error
	DeleteBySessions(ctx context.Context, sessionIDs []uuid.UUID) error
	DeleteByStudent(ctx context.Context, studentID uuid.UUID) error
}
