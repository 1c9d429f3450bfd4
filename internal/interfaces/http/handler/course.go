package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/attendance/backend/internal/application/roster"
)

// CourseHandler handles course management HTTP requests
type CourseHandler struct {
	BaseHandler
	courseService *roster.CourseService
}

// NewCourseHandler creates a new course handler
func NewCourseHandler(courseService *roster.CourseService) *CourseHandler {
	return &CourseHandler{
		courseService: courseService,
	}
}

// Create creates a new course.
//
// POST /api/v1/courses
func (h *CourseHandler) Create(c *gin.Context) {
	actor, err := getIdentity(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req roster.CreateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	course, err := h.courseService.Create(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, course)
}

// Get returns a single course by ID.
//
// GET /api/v1/courses/:id
func (h *CourseHandler) Get(c *gin.Context) {
	actor, err := getIdentity(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid course ID")
		return
	}

	course, err := h.courseService.Get(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, course)
}

// List returns the courses visible to the caller. Teachers see their own
// courses, students see courses they are enrolled in, admins see everything.
//
// GET /api/v1/courses
func (h *CourseHandler) List(c *gin.Context) {
	actor, err := getIdentity(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	courses, err := h.courseService.List(c.Request.Context(), actor)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, courses)
}

// Update edits a course.
//
// PUT /api/v1/courses/:id
func (h *CourseHandler) Update(c *gin.Context) {
	actor, err := getIdentity(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid course ID")
		return
	}

	var req roster.UpdateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	course, err := h.courseService.Update(c.Request.Context(), actor, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, course)
}

// Delete removes a course and its dependent rows.
//
// DELETE /api/v1/courses/:id
func (h *CourseHandler) Delete(c *gin.Context) {
	actor, err := getIdentity(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid course ID")
		return
	}

	if err := h.courseService.Delete(c.Request.Context(), actor, id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// AssignStudent enrolls a student in the course.
//
// POST /api/v1/courses/:id/students
func (h *CourseHandler) AssignStudent(c *gin.Context) {
	actor, err := getIdentity(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	courseID, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid course ID")
		return
	}

	var body struct {
		StudentID uuid.UUID `json:"student_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	req := roster.AssignStudentRequest{StudentID: body.StudentID, CourseID: courseID}
	if err := h.courseService.AssignStudent(c.Request.Context(), actor, req); err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"message": "Student enrolled"})
}

// RemoveStudent removes a student's enrollment from the course.
//
// DELETE /api/v1/courses/:id/students/:student_id
func (h *CourseHandler) RemoveStudent(c *gin.Context) {
	actor, err := getIdentity(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	courseID, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid course ID")
		return
	}

	studentID, err := uuid.Parse(c.Param("student_id"))
	if err != nil {
		h.BadRequest(c, "Invalid student ID")
		return
	}

	req := roster.AssignStudentRequest{StudentID: studentID, CourseID: courseID}
	if err := h.courseService.RemoveStudent(c.Request.Context(), actor, req); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// AssignTeacher assigns a teacher to the course.
//
// PUT /api/v1/courses/:id/teacher
func (h *CourseHandler) AssignTeacher(c *gin.Context) {
	actor, err := getIdentity(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	courseID, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid course ID")
		return
	}

	var body struct {
		TeacherID uuid.UUID `json:"teacher_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	req := roster.AssignTeacherRequest{TeacherID: body.TeacherID, CourseID: courseID}
	if err := h.courseService.AssignTeacher(c.Request.Context(), actor, req); err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"message": "Teacher assigned"})
}

// ListStudents returns the students enrolled in the course.
//
// GET /api/v1/courses/:id/students
func (h *CourseHandler) ListStudents(c *gin.Context) {
	actor, err := getIdentity(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	courseID, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid course ID")
		return
	}

	students, err := h.courseService.ListStudents(c.Request.Context(), actor, courseID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, students)
}
