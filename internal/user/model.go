package user

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/redmonkez12/go-task-api/internal/validate"
)

const (
	NameMinLen  = 2
	NameMaxLen  = 80
	EmailMaxLen = 120
)

type User struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never expose password hash in JSON
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// PublicUser is the only user shape returned to clients.
type PublicUser struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

// Public strips everything a client must not see.
func (u *User) Public() *PublicUser {
	return &PublicUser{ID: u.ID, Name: u.Name, Email: u.Email}
}

// NormalizeEmail trims and lowercases so lookups are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateProfile checks name and email. Both are expected to be normalized.
func ValidateProfile(v *validate.Validator, name, email string) {
	v.Length("name", name, NameMinLen, NameMaxLen)
	v.Email("email", email, EmailMaxLen)
}

// UpdateProfileInput is the body of PUT /users/me.
type UpdateProfileInput struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Normalize trims the name and normalizes the email.
func (in UpdateProfileInput) Normalize() UpdateProfileInput {
	return UpdateProfileInput{
		Name:  strings.TrimSpace(in.Name),
		Email: NormalizeEmail(in.Email),
	}
}

func (in UpdateProfileInput) Validate() error {
	var v validate.Validator
	ValidateProfile(&v, in.Name, in.Email)
	return v.Err()
}
