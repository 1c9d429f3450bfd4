package router

import (
	"github.com/gin-gonic/gin"

	"github.com/attendance/backend/internal/domain/roster"
	"github.com/attendance/backend/internal/interfaces/http/handler"
	"github.com/attendance/backend/internal/interfaces/http/middleware"
)

// Handlers bundles the HTTP handlers mounted by Groups.
type Handlers struct {
	Auth       *handler.AuthHandler
	User       *handler.UserHandler
	Course     *handler.CourseHandler
	Session    *handler.SessionHandler
	Attendance *handler.AttendanceHandler
	System     *handler.SystemHandler
}

// Options tunes per-route middleware that is wired in main.
type Options struct {
	// LoginLimiter, when set, rate limits the login endpoint.
	LoginLimiter gin.HandlerFunc
}

// Groups builds the full route table. Authentication is enforced by the
// JWT middleware installed on the engine; the role guards here are the
// coarse authorization layer, with the services enforcing per-resource
// ownership underneath.
func Groups(h Handlers, opts Options) []*Group {
	staff := middleware.RequireRoles(roster.RoleAdmin, roster.RoleTeacher)
	admin := middleware.RequireAdmin()

	authGroup := NewGroup("auth", "/auth").
		POST("/logout", h.Auth.Logout).
		GET("/me", h.Auth.Me).
		POST("/change-password", h.Auth.ChangePassword)
	if opts.LoginLimiter != nil {
		authGroup.POST("/login", opts.LoginLimiter, h.Auth.Login)
	} else {
		authGroup.POST("/login", h.Auth.Login)
	}

	userGroup := NewGroup("users", "/users").
		POST("", admin, h.User.Create).
		GET("", staff, h.User.List).
		GET("/:id", staff, h.User.Get).
		PUT("/:id", admin, h.User.Update).
		DELETE("/:id", admin, h.User.Delete).
		POST("/reset-password", admin, h.User.ResetPassword).
		POST("/:id/photo", staff, h.User.EnrollPhoto)

	courseGroup := NewGroup("courses", "/courses").
		POST("", admin, h.Course.Create).
		GET("", staff, h.Course.List).
		GET("/:id", staff, h.Course.Get).
		PUT("/:id", admin, h.Course.Update).
		DELETE("/:id", admin, h.Course.Delete).
		PUT("/:id/teacher", admin, h.Course.AssignTeacher).
		POST("/:id/students", admin, h.Course.AssignStudent).
		DELETE("/:id/students/:student_id", admin, h.Course.RemoveStudent).
		GET("/:id/students", staff, h.Course.ListStudents).
		// Enrolled students may list a course's sessions; the service
		// checks enrollment.
		GET("/:id/sessions", h.Session.ListByCourse)

	// Session reads are open to any authenticated caller so enrolled
	// students can view sessions and their records; the services enforce
	// enrollment. Mutations stay staff-only at the route level.
	sessionGroup := NewGroup("sessions", "/sessions").
		POST("", staff, h.Session.Start).
		GET("/:id", h.Session.Get).
		POST("/:id/end", staff, h.Session.End).
		POST("/:id/submit", staff, h.Session.Submit).
		POST("/:id/retake", staff, h.Session.Retake).
		DELETE("/:id", staff, h.Session.Delete).
		POST("/:id/attendance/photo", staff, h.Attendance.MarkFromPhoto).
		POST("/:id/attendance", staff, h.Attendance.MarkManual).
		GET("/:id/attendance", h.Attendance.List)

	attendanceGroup := NewGroup("attendance", "/attendance").
		Use(staff).
		PUT("/records/:id", h.Attendance.EditRecord)

	// Students query their own history; the report service rejects
	// cross-student access for non-staff actors.
	studentGroup := NewGroup("students", "/students").
		GET("/:id/attendance", h.Attendance.StudentReport)

	systemGroup := NewGroup("system", "/system").
		GET("/ping", h.System.Ping).
		GET("/health", h.System.Health)

	return []*Group{
		authGroup,
		userGroup,
		courseGroup,
		sessionGroup,
		attendanceGroup,
		studentGroup,
		systemGroup,
	}
}
