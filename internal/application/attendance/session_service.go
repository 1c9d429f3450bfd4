package attendance

import (
	"context"

	"github.com/attendance/backend/internal/domain/attendance"
	"github.com/attendance/backend/internal/domain/roster"
	"github.com/attendance/backend/internal/domain/shared"
	"github.com/attendance/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
)

// Reconciler fills in absent records for enrolled students without one.
// Implemented by LedgerService; invoked inside the Submit transaction.
type Reconciler interface {
	Reconcile(ctx context.Context, session *attendance.Session) ([]*attendance.Record, error)
}

// SessionService drives the session lifecycle
type SessionService struct {
	sessions    attendance.SessionRepository
	records     attendance.RecordRepository
	courses     roster.CourseRepository
	enrollments roster.EnrollmentRepository
	reconciler  Reconciler
	tx          shared.TransactionManager
}

// NewSessionService creates a new SessionService
func NewSessionService(
	sessions attendance.SessionRepository,
	records attendance.RecordRepository,
	courses roster.CourseRepository,
	enrollments roster.EnrollmentRepository,
	reconciler Reconciler,
	tx shared.TransactionManager,
) *SessionService {
	return &SessionService{
		sessions:    sessions,
		records:     records,
		courses:     courses,
		enrollments: enrollments,
		reconciler:  reconciler,
		tx:          tx,
	}
}

// Start opens a new session for a course. Only the course's assigned teacher
// may start one; the session snapshots that teacher as its owner.
func (s *SessionService) Start(ctx context.Context, actor roster.Identity, courseID uuid.UUID) (*SessionResponse, error) {
	course, err := s.courses.FindByID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if !actor.IsTeacher() || !course.IsTaughtBy(actor.ID) {
		return nil, shared.ErrForbidden
	}

	session, err := attendance.NewSession(course.ID, actor.ID)
	if err != nil {
		return nil, err
	}
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, err
	}

	resp := ToSessionResponse(session)
	return &resp, nil
}

// Get returns one session
func (s *SessionService) Get(ctx context.Context, actor roster.Identity, sessionID uuid.UUID) (*SessionResponse, error) {
	session, err := s.authorizeView(ctx, actor, sessionID)
	if err != nil {
		return nil, err
	}
	resp := ToSessionResponse(session)
	return &resp, nil
}

// ListByCourse returns all sessions of a course
func (s *SessionService) ListByCourse(ctx context.Context, actor roster.Identity, courseID uuid.UUID) ([]SessionResponse, error) {
	course, err := s.courses.FindByID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	allowed := actor.IsAdmin() || (actor.IsTeacher() && course.IsTaughtBy(actor.ID))
	if !allowed && actor.IsStudent() {
		allowed, err = s.enrollments.Exists(ctx, actor.ID, courseID)
		if err != nil {
			return nil, err
		}
	}
	if !allowed {
		return nil, shared.ErrForbidden
	}

	sessions, err := s.sessions.FindByCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}
	return ToSessionResponses(sessions), nil
}

// End closes a session, stamping its end time
func (s *SessionService) End(ctx context.Context, actor roster.Identity, sessionID uuid.UUID) (*SessionResponse, error) {
	var resp SessionResponse
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		session, err := s.authorizeMutate(ctx, actor, sessionID)
		if err != nil {
			return err
		}
		if err := session.End(); err != nil {
			return err
		}
		if err := s.sessions.Save(ctx, session); err != nil {
			return err
		}
		resp = ToSessionResponse(session)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// Submit reconciles the roster against recorded attendance and marks the
// session submitted. The reconciliation pass and the status flip commit
// together; afterwards every enrolled student has exactly one record.
func (s *SessionService) Submit(ctx context.Context, actor roster.Identity, sessionID uuid.UUID) (*SessionResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "session", "submit",
		telemetry.WithAttribute(telemetry.SpanAttrSessionID, sessionID))
	defer span.End()

	var resp SessionResponse
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		session, err := s.authorizeMutate(ctx, actor, sessionID)
		if err != nil {
			return err
		}
		if err := session.Submit(); err != nil {
			return err
		}
		filled, err := s.reconciler.Reconcile(ctx, session)
		if err != nil {
			return err
		}
		telemetry.AddEvent(span, "roster_reconciled", "absent_filled", len(filled))
		if err := s.sessions.Save(ctx, session); err != nil {
			return err
		}
		resp = ToSessionResponse(session)
		return nil
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	telemetry.SetOK(span)
	return &resp, nil
}

// Retake wipes a session's attendance and reopens it for another pass
func (s *SessionService) Retake(ctx context.Context, actor roster.Identity, sessionID uuid.UUID) (*SessionResponse, error) {
	var resp SessionResponse
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		session, err := s.authorizeMutate(ctx, actor, sessionID)
		if err != nil {
			return err
		}
		if err := session.Reopen(); err != nil {
			return err
		}
		if err := s.records.DeleteBySession(ctx, session.ID); err != nil {
			return err
		}
		if err := s.sessions.Save(ctx, session); err != nil {
			return err
		}
		resp = ToSessionResponse(session)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// Delete removes a session and its attendance rows
func (s *SessionService) Delete(ctx context.Context, actor roster.Identity, sessionID uuid.UUID) error {
	return s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		session, err := s.authorizeMutate(ctx, actor, sessionID)
		if err != nil {
			return err
		}
		if err := s.records.DeleteBySession(ctx, session.ID); err != nil {
			return err
		}
		return s.sessions.Delete(ctx, session.ID)
	})
}

func (s *SessionService) authorizeMutate(ctx context.Context, actor roster.Identity, sessionID uuid.UUID) (*attendance.Session, error) {
	session, err := s.sessions.FindByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !attendance.CanMutateSession(actor, session) {
		return nil, shared.ErrForbidden
	}
	return session, nil
}

func (s *SessionService) authorizeView(ctx context.Context, actor roster.Identity, sessionID uuid.UUID) (*attendance.Session, error) {
	session, err := s.sessions.FindByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	enrolled := false
	if actor.IsStudent() {
		enrolled, err = s.enrollments.Exists(ctx, actor.ID, session.CourseID)
		if err != nil {
			return nil, err
		}
	}
	if !attendance.CanViewSession(actor, session, enrolled) {
		return nil, shared.ErrForbidden
	}
	return session, nil
}
