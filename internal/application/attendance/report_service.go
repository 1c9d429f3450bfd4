package attendance

import (
	"context"
	"sort"

	"github.com/attendance/backend/internal/domain/attendance"
	"github.com/attendance/backend/internal/domain/roster"
	"github.com/attendance/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// ReportService computes attendance history and percentages. Everything is
// recomputed from the ledger on each call, nothing is cached.
type ReportService struct {
	sessions    attendance.SessionRepository
	records     attendance.RecordRepository
	users       roster.UserRepository
	courses     roster.CourseRepository
	enrollments roster.EnrollmentRepository
}

// NewReportService creates a new ReportService
func NewReportService(
	sessions attendance.SessionRepository,
	records attendance.RecordRepository,
	users roster.UserRepository,
	courses roster.CourseRepository,
	enrollments roster.EnrollmentRepository,
) *ReportService {
	return &ReportService{
		sessions:    sessions,
		records:     records,
		users:       users,
		courses:     courses,
		enrollments: enrollments,
	}
}

// ReportFor returns a student's full attendance history plus per-course
// percentages. Each enrolled course counts every session ever created for it
// in the denominator; only present records count in the numerator. A course
// without sessions reports 0, not a division fault.
func (s *ReportService) ReportFor(ctx context.Context, actor roster.Identity, studentID uuid.UUID) (*StudentReportResponse, error) {
	if !attendance.CanViewStudentHistory(actor, studentID) {
		return nil, shared.ErrForbidden
	}
	student, err := s.users.FindByID(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if !student.IsStudent() {
		return nil, shared.ErrNotFound
	}

	history, err := s.historyFor(ctx, studentID)
	if err != nil {
		return nil, err
	}
	percentages, err := s.percentagesFor(ctx, studentID)
	if err != nil {
		return nil, err
	}

	return &StudentReportResponse{
		StudentID:   student.ID,
		StudentName: student.Name,
		History:     history,
		Percentages: percentages,
	}, nil
}

func (s *ReportService) percentagesFor(ctx context.Context, studentID uuid.UUID) ([]CoursePercentageResponse, error) {
	courses, err := s.courses.FindByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}

	percentages := make([]CoursePercentageResponse, 0, len(courses))
	for i := range courses {
		course := &courses[i]
		total, err := s.sessions.CountByCourse(ctx, course.ID)
		if err != nil {
			return nil, err
		}
		present, err := s.records.CountByStudentAndCourse(ctx, studentID, course.ID, attendance.RecordStatusPresent)
		if err != nil {
			return nil, err
		}

		percentage := decimal.Zero
		if total > 0 {
			percentage = decimal.NewFromInt(present).Mul(hundred).Div(decimal.NewFromInt(total)).Round(2)
		}
		percentages = append(percentages, CoursePercentageResponse{
			CourseID:   course.ID,
			CourseName: course.Name,
			Present:    present,
			Total:      total,
			Percentage: percentage,
		})
	}
	return percentages, nil
}

func (s *ReportService) historyFor(ctx context.Context, studentID uuid.UUID) ([]HistoryEntryResponse, error) {
	records, err := s.records.FindByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return []HistoryEntryResponse{}, nil
	}

	sessionIDs := make([]uuid.UUID, len(records))
	for i, r := range records {
		sessionIDs[i] = r.SessionID
	}
	sessions, err := s.sessions.FindByIDs(ctx, sessionIDs)
	if err != nil {
		return nil, err
	}
	sessionByID := make(map[uuid.UUID]*attendance.Session, len(sessions))
	for _, sess := range sessions {
		sessionByID[sess.ID] = sess
	}

	courses, err := s.courses.FindByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}
	courseNames := make(map[uuid.UUID]string, len(courses))
	for i := range courses {
		courseNames[courses[i].ID] = courses[i].Name
	}

	history := make([]HistoryEntryResponse, 0, len(records))
	for _, r := range records {
		sess, ok := sessionByID[r.SessionID]
		if !ok {
			continue
		}
		history = append(history, HistoryEntryResponse{
			SessionID:   sess.ID,
			CourseID:    sess.CourseID,
			CourseName:  courseNames[sess.CourseID],
			SessionDate: sess.StartedAt,
			Status:      r.Status.String(),
			RecordedAt:  r.RecordedAt,
		})
	}
	sort.Slice(history, func(i, j int) bool {
		return history[i].SessionDate.After(history[j].SessionDate)
	})
	return history, nil
}
