package auth

import (
	"errors"
	"time"
)

// TokenTTL is the fixed lifetime of an access token.
const TokenTTL = 7 * 24 * time.Hour

var (
	// ErrInvalidToken covers every verification failure: malformed input,
	// bad signature and expiry all look the same to callers.
	ErrInvalidToken = errors.New("invalid token")
	// ErrConfiguration means the token service has no usable signing key.
	ErrConfiguration = errors.New("token signing key is not configured")
)

// TokenService issues and verifies bearer tokens carrying a subject.
// Implementations include JWTService (HS256) and PasetoService (PASETO v4.local).
type TokenService interface {
	Issue(subject string) (string, error)
	Verify(token string) (string, error)
}

// Option configures a token service.
type Option func(*tokenOptions)

type tokenOptions struct {
	now func() time.Time
}

// WithClock overrides the time source used for iat/exp.
func WithClock(now func() time.Time) Option {
	return func(o *tokenOptions) {
		o.now = now
	}
}

func buildOptions(opts []Option) tokenOptions {
	o := tokenOptions{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// NewTokenService picks the implementation named by format ("jwt" or "paseto").
func NewTokenService(format string, secret []byte, opts ...Option) (TokenService, error) {
	var (
		svc TokenService
		err error
	)
	switch format {
	case "paseto":
		svc, err = NewPasetoService(secret, opts...)
	default:
		svc, err = NewJWTService(secret, opts...)
	}
	if err != nil {
		return nil, err
	}
	return svc, nil
}
