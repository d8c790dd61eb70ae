package auth

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/redmonkez12/go-task-api/internal/logging"
	"github.com/redmonkez12/go-task-api/internal/user"
	"github.com/redmonkez12/go-task-api/internal/validate"
)

// fakeUsers is an in-memory credential store keyed by normalized email.
type fakeUsers struct {
	mu        sync.Mutex
	byEmail   map[string]*user.User
	createErr error
	getErr    error
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{byEmail: map[string]*user.User{}}
}

func (f *fakeUsers) Create(ctx context.Context, name, email, passwordHash string) (*user.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.createErr != nil {
		return nil, f.createErr
	}
	if _, ok := f.byEmail[email]; ok {
		return nil, user.ErrDuplicateEmail
	}

	now := time.Now().UTC()
	u := &user.User{
		ID:           uuid.New(),
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	f.byEmail[email] = u
	cp := *u
	return &cp, nil
}

func (f *fakeUsers) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.getErr != nil {
		return nil, f.getErr
	}
	u, ok := f.byEmail[email]
	if !ok {
		return nil, user.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

type testEnv struct {
	service *Service
	users   *fakeUsers
	tokens  TokenService
	clock   *fakeClock
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	hasher, err := NewPasswordHasher("bcrypt", bcrypt.MinCost)
	require.NoError(t, err)

	clock := newClock()
	tokens, err := NewJWTService([]byte("test-secret"), WithClock(clock.Now))
	require.NoError(t, err)

	users := newFakeUsers()
	return &testEnv{
		service: NewService(users, hasher, tokens, logging.NewNopLogger()),
		users:   users,
		tokens:  tokens,
		clock:   clock,
	}
}

func TestService_RegisterThenLogin(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()

	reg, err := env.service.Register(ctx, RegisterInput{Name: "Alice", Email: "alice@x.com", Password: "secret1"})
	require.NoError(t, err)
	require.NotNil(t, reg.User)
	assert.Equal(t, "Alice", reg.User.Name)
	assert.Equal(t, "alice@x.com", reg.User.Email)

	subject, err := env.tokens.Verify(reg.Token)
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID.String(), subject)

	stored, err := env.users.GetByEmail(ctx, "alice@x.com")
	require.NoError(t, err)
	assert.NotEqual(t, "secret1", stored.PasswordHash)
	assert.True(t, strings.HasPrefix(stored.PasswordHash, "$2"))

	login, err := env.service.Login(ctx, LoginInput{Email: "ALICE@X.COM", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, login.User.ID)

	subject, err = env.tokens.Verify(login.Token)
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID.String(), subject)
}

func TestService_Register_NormalizesEmail(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	res, err := env.service.Register(context.Background(), RegisterInput{Name: "  Bob  ", Email: "  Bob@Example.COM ", Password: "hunter22"})
	require.NoError(t, err)
	assert.Equal(t, "Bob", res.User.Name)
	assert.Equal(t, "bob@example.com", res.User.Email)
}

func TestService_Register_DuplicateEmailIgnoresCase(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.service.Register(ctx, RegisterInput{Name: "Alice", Email: "alice@x.com", Password: "secret1"})
	require.NoError(t, err)

	_, err = env.service.Register(ctx, RegisterInput{Name: "Other", Email: "Alice@X.com", Password: "another1"})
	assert.ErrorIs(t, err, user.ErrDuplicateEmail)
	assert.Len(t, env.users.byEmail, 1)
}

func TestService_Register_RaceLosesOnUniqueIndex(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.users.createErr = user.ErrDuplicateEmail

	_, err := env.service.Register(context.Background(), RegisterInput{Name: "Alice", Email: "alice@x.com", Password: "secret1"})
	assert.ErrorIs(t, err, user.ErrDuplicateEmail)
}

func TestService_Register_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		in    RegisterInput
		field string
	}{
		{name: "short name", in: RegisterInput{Name: "A", Email: "a@x.com", Password: "secret1"}, field: "name"},
		{name: "bad email", in: RegisterInput{Name: "Alice", Email: "not-an-email", Password: "secret1"}, field: "email"},
		{name: "short password", in: RegisterInput{Name: "Alice", Email: "a@x.com", Password: "12345"}, field: "password"},
		{name: "multibyte password under minimum", in: RegisterInput{Name: "Alice", Email: "a@x.com", Password: "ééé"}, field: "password"},
		{name: "long password", in: RegisterInput{Name: "Alice", Email: "a@x.com", Password: strings.Repeat("p", 73)}, field: "password"},
		{name: "long name", in: RegisterInput{Name: strings.Repeat("n", 81), Email: "a@x.com", Password: "secret1"}, field: "name"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			env := newTestEnv(t)
			_, err := env.service.Register(context.Background(), tc.in)

			var verrs validate.Errors
			require.True(t, errors.As(err, &verrs), "expected validation error, got %v", err)
			require.NotEmpty(t, verrs)
			assert.Equal(t, tc.field, verrs[0].Field)
			assert.Empty(t, env.users.byEmail)
		})
	}
}

func TestService_Register_MultibytePasswordAtMinimum(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	_, err := env.service.Register(context.Background(), RegisterInput{Name: "Alice", Email: "alice@x.com", Password: "пароль"})
	require.NoError(t, err)
}

func TestService_Login_InvalidCredentials(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.service.Register(ctx, RegisterInput{Name: "Alice", Email: "alice@x.com", Password: "secret1"})
	require.NoError(t, err)

	_, wrongPassword := env.service.Login(ctx, LoginInput{Email: "alice@x.com", Password: "wrong"})
	_, unknownEmail := env.service.Login(ctx, LoginInput{Email: "nobody@x.com", Password: "secret1"})

	assert.ErrorIs(t, wrongPassword, ErrInvalidCredentials)
	assert.ErrorIs(t, unknownEmail, ErrInvalidCredentials)
	assert.Equal(t, wrongPassword.Error(), unknownEmail.Error())
}

func TestService_Login_Validation(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	_, err := env.service.Login(context.Background(), LoginInput{Email: "alice@x.com"})

	var verrs validate.Errors
	require.True(t, errors.As(err, &verrs))
	assert.Equal(t, "password", verrs[0].Field)
}

func TestService_Login_StoreFailureIsNotInvalidCredentials(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.users.getErr = errors.New("connection refused")

	_, err := env.service.Login(context.Background(), LoginInput{Email: "alice@x.com", Password: "secret1"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidCredentials)
}
