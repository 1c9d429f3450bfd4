package persistence

import (
	"context"
	"errors"
	"testing"

	"github.com/attendance/backend/internal/domain/attendance"
	"github.com/attendance/backend/internal/domain/roster"
	"github.com/attendance/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestStore opens an in-memory database with the full schema. The upsert
// and transaction behavior under test depends on the real unique constraints,
// which sqlmock cannot enforce.
func newTestStore(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&roster.User{},
		&roster.Course{},
		&roster.Enrollment{},
		&attendance.Session{},
		&attendance.Record{},
	)
	require.NoError(t, err)

	return db
}

func seedSession(t *testing.T, db *gorm.DB) (*attendance.Session, uuid.UUID) {
	t.Helper()

	course, err := roster.NewCourse("Linear Algebra", "")
	require.NoError(t, err)
	require.NoError(t, db.Create(course).Error)

	teacherID := uuid.New()
	session, err := attendance.NewSession(course.ID, teacherID)
	require.NoError(t, err)
	require.NoError(t, db.Create(session).Error)

	return session, course.ID
}

func TestGormRecordRepository_Upsert_OverwritesOnConflict(t *testing.T) {
	db := newTestStore(t)
	repo := NewGormRecordRepository(db)
	ctx := context.Background()

	session, _ := seedSession(t, db)
	studentID := uuid.New()

	first, err := attendance.NewRecord(session.ID, studentID, attendance.RecordStatusAbsent)
	require.NoError(t, err)
	require.NoError(t, repo.Upsert(ctx, first))

	// A second mark for the same student updates the row instead of adding one
	second, err := attendance.NewRecord(session.ID, studentID, attendance.RecordStatusPresent)
	require.NoError(t, err)
	require.NoError(t, repo.Upsert(ctx, second))

	records, err := repo.FindBySession(ctx, session.ID)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, attendance.RecordStatusPresent, records[0].Status)
}

func TestGormRecordRepository_Upsert_KeepsPersistedID(t *testing.T) {
	db := newTestStore(t)
	repo := NewGormRecordRepository(db)
	ctx := context.Background()

	session, _ := seedSession(t, db)
	studentID := uuid.New()

	first, err := attendance.NewRecord(session.ID, studentID, attendance.RecordStatusAbsent)
	require.NoError(t, err)
	require.NoError(t, repo.Upsert(ctx, first))

	// Re-marking carries the stored row's id back to the caller, so the id
	// returned by the API can be edited afterwards
	second, err := attendance.NewRecord(session.ID, studentID, attendance.RecordStatusLate)
	require.NoError(t, err)
	require.NoError(t, repo.Upsert(ctx, second))

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, attendance.RecordStatusLate, second.Status)

	found, err := repo.FindByID(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, attendance.RecordStatusLate, found.Status)
}

func TestGormRecordRepository_UpsertBatch(t *testing.T) {
	db := newTestStore(t)
	repo := NewGormRecordRepository(db)
	ctx := context.Background()

	session, _ := seedSession(t, db)
	studentA := uuid.New()
	studentB := uuid.New()

	existing, err := attendance.NewRecord(session.ID, studentA, attendance.RecordStatusPresent)
	require.NoError(t, err)
	require.NoError(t, repo.Upsert(ctx, existing))

	absentA, err := attendance.NewRecord(session.ID, studentA, attendance.RecordStatusAbsent)
	require.NoError(t, err)
	absentB, err := attendance.NewRecord(session.ID, studentB, attendance.RecordStatusAbsent)
	require.NoError(t, err)

	require.NoError(t, repo.UpsertBatch(ctx, []*attendance.Record{absentA, absentB}))

	records, err := repo.FindBySession(ctx, session.ID)
	require.NoError(t, err)
	assert.Len(t, records, 2)

	require.NoError(t, repo.UpsertBatch(ctx, nil))
}

func TestGormRecordRepository_CountByStudentAndCourse(t *testing.T) {
	db := newTestStore(t)
	repo := NewGormRecordRepository(db)
	ctx := context.Background()

	session, courseID := seedSession(t, db)
	studentID := uuid.New()

	// One present record in the course and one in an unrelated course
	present, err := attendance.NewRecord(session.ID, studentID, attendance.RecordStatusPresent)
	require.NoError(t, err)
	require.NoError(t, repo.Upsert(ctx, present))

	otherSession, _ := seedSession(t, db)
	other, err := attendance.NewRecord(otherSession.ID, studentID, attendance.RecordStatusPresent)
	require.NoError(t, err)
	require.NoError(t, repo.Upsert(ctx, other))

	count, err := repo.CountByStudentAndCourse(ctx, studentID, courseID, attendance.RecordStatusPresent)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	count, err = repo.CountByStudentAndCourse(ctx, studentID, courseID, attendance.RecordStatusAbsent)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestGormRecordRepository_DeleteBySession(t *testing.T) {
	db := newTestStore(t)
	repo := NewGormRecordRepository(db)
	ctx := context.Background()

	session, _ := seedSession(t, db)
	keep, _ := seedSession(t, db)

	for _, sid := range []uuid.UUID{session.ID, keep.ID} {
		record, err := attendance.NewRecord(sid, uuid.New(), attendance.RecordStatusPresent)
		require.NoError(t, err)
		require.NoError(t, repo.Upsert(ctx, record))
	}

	require.NoError(t, repo.DeleteBySession(ctx, session.ID))

	gone, err := repo.FindBySession(ctx, session.ID)
	require.NoError(t, err)
	assert.Empty(t, gone)

	kept, err := repo.FindBySession(ctx, keep.ID)
	require.NoError(t, err)
	assert.Len(t, kept, 1)
}

func TestGormTransactionManager_RollsBackOnError(t *testing.T) {
	db := newTestStore(t)
	records := NewGormRecordRepository(db)
	sessions := NewGormSessionRepository(db)
	tx := NewGormTransactionManager(db)
	ctx := context.Background()

	session, _ := seedSession(t, db)

	boom := errors.New("boom")
	err := tx.WithinTransaction(ctx, func(ctx context.Context) error {
		record, err := attendance.NewRecord(session.ID, uuid.New(), attendance.RecordStatusPresent)
		require.NoError(t, err)
		if err := records.Upsert(ctx, record); err != nil {
			return err
		}
		if err := session.End(); err != nil {
			return err
		}
		if err := sessions.Save(ctx, session); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	// Nothing from the failed transaction is visible
	written, err := records.FindBySession(ctx, session.ID)
	require.NoError(t, err)
	assert.Empty(t, written)

	reloaded, err := sessions.FindByID(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, attendance.SessionStatusOpen, reloaded.Status)
}

func TestGormTransactionManager_CommitsAndNests(t *testing.T) {
	db := newTestStore(t)
	records := NewGormRecordRepository(db)
	tx := NewGormTransactionManager(db)
	ctx := context.Background()

	session, _ := seedSession(t, db)
	studentID := uuid.New()

	err := tx.WithinTransaction(ctx, func(ctx context.Context) error {
		// A nested call joins the outer transaction instead of opening a new one
		return tx.WithinTransaction(ctx, func(ctx context.Context) error {
			record, err := attendance.NewRecord(session.ID, studentID, attendance.RecordStatusLate)
			if err != nil {
				return err
			}
			return records.Upsert(ctx, record)
		})
	})
	require.NoError(t, err)

	written, err := records.FindBySession(ctx, session.ID)
	require.NoError(t, err)
	require.Len(t, written, 1)
	assert.Equal(t, attendance.RecordStatusLate, written[0].Status)
}

func TestGormRecordRepository_FindByID_NotFound(t *testing.T) {
	db := newTestStore(t)
	repo := NewGormRecordRepository(db)

	record, err := repo.FindByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)
	assert.Nil(t, record)
}
