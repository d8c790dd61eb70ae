package auth

import (
	"errors"
	"fmt"
	"time"

	"aidanwoods.dev/go-paseto"
)

var errTokenExpired = errors.New("token has expired")

// PasetoService handles PASETO token creation and validation
// Uses v4.local (symmetric encryption with XChaCha20-Poly1305)
type PasetoService struct {
	symmetricKey paseto.V4SymmetricKey
	configured   bool
	now          func() time.Time
}

func NewPasetoService(symmetricKey []byte, opts ...Option) (*PasetoService, error) {
	if len(symmetricKey) != 32 {
		return nil, fmt.Errorf("%w: symmetric key must be exactly 32 bytes, got %d", ErrConfiguration, len(symmetricKey))
	}

	key, err := paseto.V4SymmetricKeyFromBytes(symmetricKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}

	o := buildOptions(opts)
	return &PasetoService{
		symmetricKey: key,
		configured:   true,
		now:          o.now,
	}, nil
}

// Issue generates a new PASETO v4.local token for subject
func (s *PasetoService) Issue(subject string) (string, error) {
	if !s.configured {
		return "", ErrConfiguration
	}

	now := s.now()

	token := paseto.NewToken()
	token.SetIssuedAt(now)
	token.SetNotBefore(now)
	token.SetExpiration(now.Add(TokenTTL))
	token.SetSubject(subject)

	return token.V4Encrypt(s.symmetricKey, nil), nil
}

// Verify decrypts a PASETO v4.local token and returns its subject
func (s *PasetoService) Verify(tokenStr string) (string, error) {
	if !s.configured {
		return "", ErrInvalidToken
	}

	parser := paseto.MakeParser([]paseto.Rule{s.notExpired})

	token, err := parser.ParseV4Local(s.symmetricKey, tokenStr, nil)
	if err != nil {
		return "", ErrInvalidToken
	}

	subject, err := token.GetSubject()
	if err != nil || subject == "" {
		return "", ErrInvalidToken
	}

	return subject, nil
}

// notExpired is paseto.NotExpired against the service clock.
func (s *PasetoService) notExpired(token paseto.Token) error {
	exp, err := token.GetExpiration()
	if err != nil {
		return err
	}
	if !s.now().Before(exp) {
		return errTokenExpired
	}
	return nil
}
