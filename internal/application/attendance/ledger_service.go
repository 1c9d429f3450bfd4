package attendance

import (
	"context"

	"github.com/attendance/backend/internal/domain/attendance"
	"github.com/attendance/backend/internal/domain/roster"
	"github.com/attendance/backend/internal/domain/shared"
	"github.com/attendance/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
)

// LedgerService writes and corrects attendance records
type LedgerService struct {
	sessions    attendance.SessionRepository
	records     attendance.RecordRepository
	users       roster.UserRepository
	enrollments roster.EnrollmentRepository
	faces       FaceGateway
	tx          shared.TransactionManager
}

// NewLedgerService creates a new LedgerService
func NewLedgerService(
	sessions attendance.SessionRepository,
	records attendance.RecordRepository,
	users roster.UserRepository,
	enrollments roster.EnrollmentRepository,
	faces FaceGateway,
	tx shared.TransactionManager,
) *LedgerService {
	return &LedgerService{
		sessions:    sessions,
		records:     records,
		users:       users,
		enrollments: enrollments,
		faces:       faces,
		tx:          tx,
	}
}

// MarkFromPhoto matches every detected face in the photo against the course's
// enrolled embeddings and upserts a present record per matched student. The
// face-encoder call happens outside the transaction; all resulting upserts
// commit together or not at all.
func (s *LedgerService) MarkFromPhoto(ctx context.Context, actor roster.Identity, sessionID uuid.UUID, photo []byte) (*MarkPhotoResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "attendance", "mark_photo",
		telemetry.WithAttribute(telemetry.SpanAttrSessionID, sessionID))
	defer span.End()

	session, err := s.sessions.FindByID(ctx, sessionID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if !attendance.CanMutateSession(actor, session) {
		return nil, shared.ErrForbidden
	}
	if !session.CanRecord() {
		return nil, shared.ErrInvalidState
	}

	students, err := s.users.FindStudentsByCourse(ctx, session.CourseID)
	if err != nil {
		return nil, err
	}
	known := make(map[uuid.UUID]roster.Embedding)
	names := make(map[uuid.UUID]string, len(students))
	for i := range students {
		names[students[i].ID] = students[i].Name
		if students[i].HasEmbedding() {
			known[students[i].ID] = students[i].FaceEmbedding
		}
	}
	if len(known) == 0 {
		return nil, shared.ErrNoEmbeddings
	}

	faces, err := s.faces.DetectAndMatch(ctx, photo, known)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if len(faces) == 0 {
		telemetry.RecordError(span, shared.ErrNoFaceDetected)
		return nil, shared.ErrNoFaceDetected
	}
	telemetry.SetAttribute(span, telemetry.SpanAttrFacesDetected, len(faces))

	resp := &MarkPhotoResponse{SessionID: session.ID, FacesDetected: len(faces)}
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		// Re-read inside the transaction: the session may have been
		// submitted while the encoder call was in flight.
		session, err := s.sessions.FindByID(ctx, session.ID)
		if err != nil {
			return err
		}
		if !session.CanRecord() {
			return shared.ErrInvalidState
		}
		for _, face := range faces {
			if !face.Matched {
				continue
			}
			record, err := attendance.NewRecord(session.ID, face.StudentID, attendance.RecordStatusPresent)
			if err != nil {
				return err
			}
			if err := s.records.Upsert(ctx, record); err != nil {
				return err
			}
			resp.Marked = append(resp.Marked, ToRecordResponse(record, names[face.StudentID]))
		}
		return nil
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	telemetry.SetAttribute(span, telemetry.SpanAttrFacesMatched, len(resp.Marked))
	telemetry.SetOK(span)
	return resp, nil
}

// MarkManual upserts one attendance record with an arbitrary status
func (s *LedgerService) MarkManual(ctx context.Context, actor roster.Identity, req MarkManualRequest) (*RecordResponse, error) {
	status := attendance.RecordStatus(req.Status)
	if !status.IsValid() {
		return nil, shared.NewDomainError("INVALID_STATUS", "Invalid attendance status: "+req.Status)
	}

	var resp RecordResponse
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		session, err := s.sessions.FindByID(ctx, req.SessionID)
		if err != nil {
			return err
		}
		if !attendance.CanMutateSession(actor, session) {
			return shared.ErrForbidden
		}
		if !session.CanRecord() {
			return shared.ErrInvalidState
		}
		enrolled, err := s.enrollments.Exists(ctx, req.StudentID, session.CourseID)
		if err != nil {
			return err
		}
		if !enrolled {
			return shared.ErrNotEnrolled
		}

		record, err := attendance.NewRecord(session.ID, req.StudentID, status)
		if err != nil {
			return err
		}
		if err := s.records.Upsert(ctx, record); err != nil {
			return err
		}

		student, err := s.users.FindByID(ctx, req.StudentID)
		if err != nil {
			return err
		}
		resp = ToRecordResponse(record, student.Name)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// Edit overwrites a record's status. The owning teacher and admins may
// correct records as long as the session is not submitted.
func (s *LedgerService) Edit(ctx context.Context, actor roster.Identity, recordID uuid.UUID, req EditRecordRequest) (*RecordResponse, error) {
	status := attendance.RecordStatus(req.Status)
	if !status.IsValid() {
		return nil, shared.NewDomainError("INVALID_STATUS", "Invalid attendance status: "+req.Status)
	}

	var resp RecordResponse
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		record, err := s.records.FindByID(ctx, recordID)
		if err != nil {
			return err
		}
		session, err := s.sessions.FindByID(ctx, record.SessionID)
		if err != nil {
			return err
		}
		if !attendance.CanEditAttendance(actor, session) {
			return shared.ErrForbidden
		}
		if session.IsSubmitted() {
			return shared.ErrInvalidState
		}

		if err := record.SetStatus(status); err != nil {
			return err
		}
		if err := s.records.Upsert(ctx, record); err != nil {
			return err
		}

		student, err := s.users.FindByID(ctx, record.StudentID)
		if err != nil {
			return err
		}
		resp = ToRecordResponse(record, student.Name)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// Reconcile inserts an absent record for every enrolled student the session
// has no record for. Running it again inserts nothing new.
func (s *LedgerService) Reconcile(ctx context.Context, session *attendance.Session) ([]*attendance.Record, error) {
	enrollments, err := s.enrollments.FindByCourse(ctx, session.CourseID)
	if err != nil {
		return nil, err
	}
	existing, err := s.records.FindBySession(ctx, session.ID)
	if err != nil {
		return nil, err
	}
	recorded := make(map[uuid.UUID]bool, len(existing))
	for _, r := range existing {
		recorded[r.StudentID] = true
	}

	var missing []*attendance.Record
	for _, e := range enrollments {
		if recorded[e.StudentID] {
			continue
		}
		record, err := attendance.NewRecord(session.ID, e.StudentID, attendance.RecordStatusAbsent)
		if err != nil {
			return nil, err
		}
		missing = append(missing, record)
	}
	if len(missing) == 0 {
		return nil, nil
	}
	if err := s.records.UpsertBatch(ctx, missing); err != nil {
		return nil, err
	}
	return missing, nil
}

// List returns a session's records with student names joined in
func (s *LedgerService) List(ctx context.Context, actor roster.Identity, sessionID uuid.UUID) ([]RecordResponse, error) {
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

	records, err := s.records.FindBySession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	students, err := s.users.FindStudentsByCourse(ctx, session.CourseID)
	if err != nil {
		return nil, err
	}
	names := make(map[uuid.UUID]string, len(students))
	for i := range students {
		names[students[i].ID] = students[i].Name
	}

	responses := make([]RecordResponse, len(records))
	for i, r := range records {
		responses[i] = ToRecordResponse(r, names[r.StudentID])
	}
	return responses, nil
}
