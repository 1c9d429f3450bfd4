package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/attendance/backend/internal/application/roster"
)

// maxPhotoBytes caps uploaded enrollment and attendance photos at 8 MiB.
const maxPhotoBytes = 8 << 20

var (
	errMissingPhoto  = errors.New("photo file is required")
	errPhotoTooLarge = errors.New("photo exceeds maximum allowed size")
)

// UserHandler handles user management HTTP requests
type UserHandler struct {
	BaseHandler
	userService *roster.UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *roster.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// Create provisions a new user account.
//
// POST /api/v1/users
func (h *UserHandler) Create(c *gin.Context) {
	actor, err := getIdentity(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req roster.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.userService.Create(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, user)
}

// Get returns a single user by ID.
//
// GET /api/v1/users/:id
func (h *UserHandler) Get(c *gin.Context) {
	actor, err := getIdentity(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid user ID")
		return
	}

	user, err := h.userService.Get(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, user)
}

// List returns users, optionally filtered by role.
//
// GET /api/v1/users?role=student
func (h *UserHandler) List(c *gin.Context) {
	actor, err := getIdentity(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	role := c.Query("role")

	users, err := h.userService.List(c.Request.Context(), actor, role)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, users)
}

// Update edits a user account.
//
// PUT /api/v1/users/:id
func (h *UserHandler) Update(c *gin.Context) {
	actor, err := getIdentity(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid user ID")
		return
	}

	var req roster.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.userService.Update(c.Request.Context(), actor, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, user)
}

// Delete removes a user account and its dependent rows.
//
// DELETE /api/v1/users/:id
func (h *UserHandler) Delete(c *gin.Context) {
	actor, err := getIdentity(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid user ID")
		return
	}

	if err := h.userService.Delete(c.Request.Context(), actor, id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// ResetPassword resets another user's password to the given value, or to the
// provisioning default when none is given.
//
// POST /api/v1/users/reset-password
func (h *UserHandler) ResetPassword(c *gin.Context) {
	actor, err := getIdentity(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req roster.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.userService.ResetPassword(c.Request.Context(), actor, req); err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"message": "Password reset"})
}

// EnrollPhoto uploads a reference photo for a student and stores the face
// embedding computed from it.
//
// POST /api/v1/users/:id/photo
func (h *UserHandler) EnrollPhoto(c *gin.Context) {
	actor, err := getIdentity(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid user ID")
		return
	}

	photo, contentType, err := readPhotoUpload(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	user, err := h.userService.EnrollPhoto(c.Request.Context(), actor, id, photo, contentType)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, user)
}

// parseIDParam parses the :id path parameter as a UUID
func parseIDParam(c *gin.Context) (uuid.UUID, error) {
	return uuid.Parse(c.Param("id"))
}

// readPhotoUpload reads the "photo" multipart file field
func readPhotoUpload(c *gin.Context) ([]byte, string, error) {
	fileHeader, err := c.FormFile("photo")
	if err != nil {
		return nil, "", errMissingPhoto
	}
	if fileHeader.Size > maxPhotoBytes {
		return nil, "", errPhotoTooLarge
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, "", err
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxPhotoBytes+1))
	if err != nil {
		return nil, "", err
	}
	if len(data) > maxPhotoBytes {
		return nil, "", errPhotoTooLarge
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	return data, contentType, nil
}
