package auth

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/redmonkez12/go-task-api/internal/authctx"
	"github.com/redmonkez12/go-task-api/internal/httputil"
	"github.com/redmonkez12/go-task-api/internal/logging"
)

// Middleware handles authentication for protected routes
type Middleware struct {
	tokenService TokenService
}

func NewMiddleware(tokenService TokenService) *Middleware {
	return &Middleware{tokenService: tokenService}
}

// RequireAuth validates the bearer token and stores the subject in the
// request context. Every failure yields the same 401 response.
func (m *Middleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := logging.GetLoggerFromContext(r.Context())

		token, ok := bearerToken(r.Header.Get("Authorization"))
		if !ok {
			logger.Debug("rejected request: missing or malformed authorization header")
			unauthorized(w)
			return
		}

		subject, err := m.tokenService.Verify(token)
		if err != nil {
			logger.Debug("rejected request: token verification failed")
			unauthorized(w)
			return
		}

		userID, err := uuid.Parse(subject)
		if err != nil {
			logger.Warn("rejected request: token subject is not a user id")
			unauthorized(w)
			return
		}

		next.ServeHTTP(w, r.WithContext(authctx.WithUserID(r.Context(), userID)))
	})
}

// bearerToken extracts the credential from "Bearer <token>".
func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}

	token = strings.TrimSpace(token)
	if token == "" || strings.ContainsAny(token, " \t") {
		return "", false
	}

	return token, true
}

func unauthorized(w http.ResponseWriter) {
	httputil.RespondErrorWithCode(w, "unauthorized", httputil.CodeUnauthorized, http.StatusUnauthorized)
}
