package attendance

import (
	"github.com/attendance/backend/internal/domain/roster"
	"github.com/google/uuid"
)

// CanMutateSession reports whether a caller may drive the session lifecycle
// (end, submit, retake, delete) or mark attendance into it. Only the owning
// teacher qualifies. Admins correct data through CanEditAttendance but do not
// control session flow.
func CanMutateSession(actor roster.Identity, s *Session) bool {
	if s == nil {
		return false
	}
	return actor.IsTeacher() && s.TeacherID == actor.ID
}

// CanEditAttendance reports whether a caller may overwrite attendance
// statuses on a session. The owning teacher and admins qualify, nobody else.
func CanEditAttendance(actor roster.Identity, s *Session) bool {
	if s == nil {
		return false
	}
	return actor.IsAdmin() || CanMutateSession(actor, s)
}

// CanViewSession reports whether a caller may read a session and its records.
// Admins and the owning teacher always can; students can when enrolled in the
// session's course, which the caller resolves into the enrolled flag.
func CanViewSession(actor roster.Identity, s *Session, enrolled bool) bool {
	if CanEditAttendance(actor, s) {
		return true
	}
	return actor.IsStudent() && enrolled
}

// CanViewStudentHistory reports whether a caller may read a student's
// attendance history and percentages. Students see only their own.
func CanViewStudentHistory(actor roster.Identity, studentID uuid.UUID) bool {
	if actor.IsAdmin() || actor.IsTeacher() {
		return true
	}
	return actor.IsStudent() && actor.ID == studentID
}
