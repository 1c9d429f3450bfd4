package roster

import (
	"context"
	"time"

	attendanceapp "github.com/attendance/backend/internal/application/attendance"
	domain "github.com/attendance/backend/internal/domain/attendance"
	"github.com/attendance/backend/internal/domain/roster"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockUserRepository is a mock implementation of roster.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*roster.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*roster.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*roster.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*roster.User), args.Error(1)
}

func (m *MockUserRepository) FindAll(ctx context.Context) ([]roster.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]roster.User), args.Error(1)
}

func (m *MockUserRepository) FindByRole(ctx context.Context, role roster.Role) ([]roster.User, error) {
	args := m.Called(ctx, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]roster.User), args.Error(1)
}

func (m *MockUserRepository) FindStudentsByCourse(ctx context.Context, courseID uuid.UUID) ([]roster.User, error) {
	args := m.Called(ctx, courseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]roster.User), args.Error(1)
}

func (m *MockUserRepository) ExistsByEmail(ctx context.Context, email string, excludeID uuid.UUID) (bool, error) {
	args := m.Called(ctx, email, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) Save(ctx context.Context, user *roster.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockCourseRepository is a mock implementation of roster.CourseRepository
type MockCourseRepository struct {
	mock.Mock
}

func (m *MockCourseRepository) FindByID(ctx context.Context, id uuid.UUID) (*roster.Course, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*roster.Course), args.Error(1)
}

func (m *MockCourseRepository) FindAll(ctx context.Context) ([]roster.Course, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]roster.Course), args.Error(1)
}

func (m *MockCourseRepository) FindByTeacher(ctx context.Context, teacherID uuid.UUID) ([]roster.Course, error) {
	args := m.Called(ctx, teacherID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]roster.Course), args.Error(1)
}

func (m *MockCourseRepository) FindByStudent(ctx context.Context, studentID uuid.UUID) ([]roster.Course, error) {
	args := m.Called(ctx, studentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]roster.Course), args.Error(1)
}

func (m *MockCourseRepository) UnassignTeacher(ctx context.Context, teacherID uuid.UUID) error {
	args := m.Called(ctx, teacherID)
	return args.Error(0)
}

func (m *MockCourseRepository) Save(ctx context.Context, course *roster.Course) error {
	args := m.Called(ctx, course)
	return args.Error(0)
}

func (m *MockCourseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockEnrollmentRepository is a mock implementation of roster.EnrollmentRepository
type MockEnrollmentRepository struct {
	mock.Mock
}

func (m *MockEnrollmentRepository) Find(ctx context.Context, studentID, courseID uuid.UUID) (*roster.Enrollment, error) {
	args := m.Called(ctx, studentID, courseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*roster.Enrollment), args.Error(1)
}

func (m *MockEnrollmentRepository) FindByCourse(ctx context.Context, courseID uuid.UUID) ([]roster.Enrollment, error) {
	args := m.Called(ctx, courseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]roster.Enrollment), args.Error(1)
}

func (m *MockEnrollmentRepository) FindByStudent(ctx context.Context, studentID uuid.UUID) ([]roster.Enrollment, error) {
	args := m.Called(ctx, studentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]roster.Enrollment), args.Error(1)
}

func (m *MockEnrollmentRepository) Exists(ctx context.Context, studentID, courseID uuid.UUID) (bool, error) {
	args := m.Called(ctx, studentID, courseID)
	return args.Bool(0), args.Error(1)
}

func (m *MockEnrollmentRepository) Save(ctx context.Context, enrollment *roster.Enrollment) error {
	args := m.Called(ctx, enrollment)
	return args.Error(0)
}

func (m *MockEnrollmentRepository) Delete(ctx context.Context, studentID, courseID uuid.UUID) error {
	args := m.Called(ctx, studentID, courseID)
	return args.Error(0)
}

func (m *MockEnrollmentRepository) DeleteByCourse(ctx context.Context, courseID uuid.UUID) error {
	args := m.Called(ctx, courseID)
	return args.Error(0)
}

func (m *MockEnrollmentRepository) DeleteByStudent(ctx context.Context, studentID uuid.UUID) error {
	args := m.Called(ctx, studentID)
	return args.Error(0)
}

// MockSessionRepository is a mock implementation of attendance.SessionRepository
type MockSessionRepository struct {
	mock.Mock
}

func (m *MockSessionRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Session, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Session), args.Error(1)
}

func (m *MockSessionRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.Session, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Session), args.Error(1)
}

func (m *MockSessionRepository) FindByCourse(ctx context.Context, courseID uuid.UUID) ([]*domain.Session, error) {
	args := m.Called(ctx, courseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Session), args.Error(1)
}

func (m *MockSessionRepository) FindByTeacher(ctx context.Context, teacherID uuid.UUID) ([]*domain.Session, error) {
	args := m.Called(ctx, teacherID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Session), args.Error(1)
}

func (m *MockSessionRepository) CountByCourse(ctx context.Context, courseID uuid.UUID) (int64, error) {
	args := m.Called(ctx, courseID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSessionRepository) Save(ctx context.Context, session *domain.Session) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *MockSessionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockSessionRepository) DeleteByCourse(ctx context.Context, courseID uuid.UUID) error {
	args := m.Called(ctx, courseID)
	return args.Error(0)
}

func (m *MockSessionRepository) DeleteByTeacher(ctx context.Context, teacherID uuid.UUID) error {
	args := m.Called(ctx, teacherID)
	return args.Error(0)
}

// MockRecordRepository is a mock implementation of attendance.RecordRepository
type MockRecordRepository struct {
	mock.Mock
}

func (m *MockRecordRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Record, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Record), args.Error(1)
}

func (m *MockRecordRepository) FindBySession(ctx context.Context, sessionID uuid.UUID) ([]*domain.Record, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Record), args.Error(1)
}

func (m *MockRecordRepository) FindByStudent(ctx context.Context, studentID uuid.UUID) ([]*domain.Record, error) {
	args := m.Called(ctx, studentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Record), args.Error(1)
}

func (m *MockRecordRepository) CountByStudentAndCourse(ctx context.Context, studentID, courseID uuid.UUID, status domain.RecordStatus) (int64, error) {
	args := m.Called(ctx, studentID, courseID, status)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRecordRepository) Upsert(ctx context.Context, record *domain.Record) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockRecordRepository) UpsertBatch(ctx context.Context, records []*domain.Record) error {
	args := m.Called(ctx, records)
	return args.Error(0)
}

func (m *MockRecordRepository) DeleteBySession(ctx context.Context, sessionID uuid.UUID) error {
	args := m.Called(ctx, sessionID)
	return args.Error(0)
}

func (m *MockRecordRepository) DeleteBySessions(ctx context.Context, sessionIDs []uuid.UUID) error {
	args := m.Called(ctx, sessionIDs)
	return args.Error(0)
}

func (m *MockRecordRepository) DeleteByStudent(ctx context.Context, studentID uuid.UUID) error {
	args := m.Called(ctx, studentID)
	return args.Error(0)
}

// MockFaceGateway is a mock implementation of attendanceapp.FaceGateway
type MockFaceGateway struct {
	mock.Mock
}

func (m *MockFaceGateway) ExtractEmbedding(ctx context.Context, image []byte) (roster.Embedding, error) {
	args := m.Called(ctx, image)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(roster.Embedding), args.Error(1)
}

func (m *MockFaceGateway) DetectAndMatch(ctx context.Context, image []byte, known map[uuid.UUID]roster.Embedding) ([]attendanceapp.FaceMatch, error) {
	args := m.Called(ctx, image, known)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]attendanceapp.FaceMatch), args.Error(1)
}

// MockObjectStorage is a mock implementation of ObjectStorageService
type MockObjectStorage struct {
	mock.Mock
}

func (m *MockObjectStorage) PutObject(ctx context.Context, storageKey, contentType string, data []byte) error {
	args := m.Called(ctx, storageKey, contentType, data)
	return args.Error(0)
}

func (m *MockObjectStorage) GenerateDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error) {
	args := m.Called(ctx, storageKey, expiresIn)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

func (m *MockObjectStorage) DeleteObject(ctx context.Context, storageKey string) error {
	args := m.Called(ctx, storageKey)
	return args.Error(0)
}

// noopTxManager runs the function directly without a database
type noopTxManager struct{}

func (noopTxManager) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
