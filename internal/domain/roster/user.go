package roster

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"net/mail"
	"strings"

	"github.com/attendance/backend/internal/domain/shared"
	"golang.org/x/crypto/bcrypt"
)

// Role represents a user's role in the system
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleTeacher Role = "teacher"
	RoleStudent Role = "student"
)

// IsValid checks if the role is a known Role
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleTeacher, RoleStudent:
		return true
	}
	return false
}

// String returns the string representation of Role
func (r Role) String() string {
	return string(r)
}

// Password cost for bcrypt
const bcryptCost = 12

// Embedding is a fixed-length face feature vector, persisted as JSON text.
type Embedding []float64

// Value implements driver.Valuer
func (e Embedding) Value() (driver.Value, error) {
	if e == nil {
		return nil, nil
	}
	return json.Marshal(e)
}

// Scan implements sql.Scanner
func (e *Embedding) Scan(value any) error {
	if value == nil {
		*e = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, e)
	case string:
		return json.Unmarshal([]byte(v), e)
	default:
		return fmt.Errorf("unsupported embedding column type %T", value)
	}
}

// User represents an account in the system: an admin, a teacher, or a student.
// Students may carry at most one face embedding, set at photo enrollment.
type User struct {
	shared.BaseEntity
	Name          string
	Email         string `gorm:"uniqueIndex"`
	PasswordHash  string
	Role          Role
	Group         string
	PhotoKey      string
	FaceEmbedding Embedding `gorm:"type:text"`
}

// NewUser creates a new user with a hashed password
func NewUser(name, email, password string, role Role, group string) (*User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Name cannot be empty")
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, shared.NewDomainError("INVALID_EMAIL", "Email address is not valid")
	}
	if !role.IsValid() {
		return nil, shared.NewDomainError("INVALID_ROLE", fmt.Sprintf("Unknown role %q", role))
	}

	user := &User{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
		Email:      email,
		Role:       role,
		Group:      group,
	}
	if err := user.SetPassword(password); err != nil {
		return nil, err
	}
	return user, nil
}

// SetPassword hashes and stores a new password
func (u *User) SetPassword(password string) error {
	if len(password) < 6 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password must be at least 6 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}
	u.PasswordHash = string(hash)
	u.Touch()
	return nil
}

// CheckPassword verifies a plaintext password against the stored hash
func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
	return err == nil
}

// SetEmail changes the user's email after validation
func (u *User) SetEmail(email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := mail.ParseAddress(email); err != nil {
		return shared.NewDomainError("INVALID_EMAIL", "Email address is not valid")
	}
	u.Email = email
	u.Touch()
	return nil
}

// SetRole changes the user's role
func (u *User) SetRole(role Role) error {
	if !role.IsValid() {
		return shared.NewDomainError("INVALID_ROLE", fmt.Sprintf("Unknown role %q", role))
	}
	u.Role = role
	u.Touch()
	return nil
}

// EnrollFace stores the face embedding extracted from an enrollment photo.
// A user has at most one embedding; re-enrolling replaces it.
func (u *User) EnrollFace(embedding Embedding, photoKey string) error {
	if u.Role != RoleStudent {
		return shared.NewDomainError("INVALID_ROLE", "Only students carry face embeddings")
	}
	if len(embedding) == 0 {
		return shared.NewDomainError("INVALID_EMBEDDING", "Embedding vector cannot be empty")
	}
	u.FaceEmbedding = embedding
	u.PhotoKey = photoKey
	u.Touch()
	return nil
}

// HasEmbedding reports whether the user has a registered face embedding
func (u *User) HasEmbedding() bool {
	return len(u.FaceEmbedding) > 0
}

// IsStudent returns true for student accounts
func (u *User) IsStudent() bool {
	return u.Role == RoleStudent
}

// IsTeacher returns true for teacher accounts
func (u *User) IsTeacher() bool {
	return u.Role == RoleTeacher
}

// IsAdmin returns true for admin accounts
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Identity returns the user's (id, role) pair for authorization checks
func (u *User) Identity() Identity {
	return Identity{ID: u.ID, Role: u.Role}
}

// TableName returns the table name for GORM
func (User) TableName() string {
	return "users"
}
