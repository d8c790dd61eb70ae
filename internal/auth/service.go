package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/redmonkez12/go-task-api/internal/logging"
	"github.com/redmonkez12/go-task-api/internal/user"
	"github.com/redmonkez12/go-task-api/internal/validate"
)

// ErrInvalidCredentials is returned for an unknown email and for a wrong
// password alike.
var ErrInvalidCredentials = errors.New("invalid email or password")

const (
	passwordMinLen = 6
	passwordMaxLen = 72 // bcrypt ignores anything past 72 bytes
)

// UserRepository is the part of the credential store the auth flows need.
type UserRepository interface {
	Create(ctx context.Context, name, email, passwordHash string) (*user.User, error)
	GetByEmail(ctx context.Context, email string) (*user.User, error)
}

// Hasher hashes and verifies passwords.
type Hasher interface {
	Hash(password string) (string, error)
	Compare(encodedHash, password string) bool
}

// RegisterInput is the body of POST /auth/register.
type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (in RegisterInput) normalize() RegisterInput {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = user.NormalizeEmail(in.Email)
	return in
}

func (in RegisterInput) Validate() error {
	var v validate.Validator
	user.ValidateProfile(&v, in.Name, in.Email)
	switch {
	case utf8.RuneCountInString(in.Password) < passwordMinLen:
		v.Add("password", fmt.Sprintf("must be at least %d characters", passwordMinLen))
	case len(in.Password) > passwordMaxLen:
		v.Add("password", fmt.Sprintf("must be at most %d bytes", passwordMaxLen))
	}
	return v.Err()
}

// LoginInput is the body of POST /auth/login.
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (in LoginInput) Validate() error {
	var v validate.Validator
	v.Email("email", in.Email, user.EmailMaxLen)
	if in.Password == "" {
		v.Add("password", "is required")
	}
	return v.Err()
}

// AuthResult is returned by register and login.
type AuthResult struct {
	Token string           `json:"token"`
	User  *user.PublicUser `json:"user"`
}

// Service handles registration and login
type Service struct {
	users  UserRepository
	hasher Hasher
	tokens TokenService
	logger *logging.Logger
}

func NewService(users UserRepository, hasher Hasher, tokens TokenService, logger *logging.Logger) *Service {
	return &Service{
		users:  users,
		hasher: hasher,
		tokens: tokens,
		logger: logger,
	}
}

// Register creates a new account and returns a token for it.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	in = in.normalize()
	if err := in.Validate(); err != nil {
		return nil, err
	}

	_, err := s.users.GetByEmail(ctx, in.Email)
	if err == nil {
		return nil, user.ErrDuplicateEmail
	}
	if !errors.Is(err, user.ErrNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	passwordHash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	newUser, err := s.users.Create(ctx, in.Name, in.Email, passwordHash)
	if err != nil {
		if errors.Is(err, user.ErrDuplicateEmail) {
			return nil, user.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	token, err := s.tokens.Issue(newUser.ID.String())
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	s.logger.Info("user registered", "user_id", newUser.ID)

	return &AuthResult{Token: token, User: newUser.Public()}, nil
}

// Login checks credentials and returns a fresh token.
func (s *Service) Login(ctx context.Context, in LoginInput) (*AuthResult, error) {
	in.Email = user.NormalizeEmail(in.Email)
	if err := in.Validate(); err != nil {
		return nil, err
	}

	existingUser, err := s.users.GetByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if !s.hasher.Compare(existingUser.PasswordHash, in.Password) {
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(existingUser.ID.String())
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	return &AuthResult{Token: token, User: existingUser.Public()}, nil
}
