package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redmonkez12/go-task-api/internal/httputil"
)

func post(h http.HandlerFunc, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h(w, httptest.NewRequest(http.MethodPost, path, strings.NewReader(body)))
	return w
}

func TestHandler_AliceScenario(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	h := NewHandler(env.service)

	w := post(h.Register, "/auth/register", `{"name":"Alice","email":"alice@x.com","password":"secret1"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.NotContains(t, w.Body.String(), "password")
	assert.NotContains(t, w.Body.String(), "$2")

	var reg AuthResult
	require.NoError(t, json.NewDecoder(w.Body).Decode(&reg))
	assert.NotEmpty(t, reg.Token)
	assert.Equal(t, "alice@x.com", reg.User.Email)

	w = post(h.Login, "/auth/login", `{"email":"ALICE@X.COM","password":"secret1"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var login AuthResult
	require.NoError(t, json.NewDecoder(w.Body).Decode(&login))
	assert.Equal(t, reg.User.ID, login.User.ID)

	w = post(h.Login, "/auth/login", `{"email":"alice@x.com","password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	var resp httputil.ErrorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, httputil.CodeInvalidCredentials, resp.Code)
}

func TestHandler_Register_Errors(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	h := NewHandler(env.service)

	w := post(h.Register, "/auth/register", `{"name":"Alice","email":"alice@x.com","password":"secret1"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	tests := []struct {
		name     string
		body     string
		wantCode string
	}{
		{name: "duplicate", body: `{"name":"Alice","email":"Alice@x.com","password":"secret1"}`, wantCode: httputil.CodeEmailAlreadyExists},
		{name: "validation", body: `{"name":"A","email":"nope","password":"1"}`, wantCode: httputil.CodeValidationFailed},
		{name: "malformed body", body: `{"name":`, wantCode: httputil.CodeInvalidRequestBody},
		{name: "unknown field", body: `{"name":"Alice","email":"a@x.com","password":"secret1","admin":true}`, wantCode: httputil.CodeInvalidRequestBody},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := post(h.Register, "/auth/register", tc.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)

			var resp httputil.ErrorResponse
			require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
			assert.Equal(t, tc.wantCode, resp.Code)
		})
	}
}

func TestHandler_Register_ValidationDetails(t *testing.T) {
	t.Parallel()

	h := NewHandler(newTestEnv(t).service)

	w := post(h.Register, "/auth/register", `{"name":"A","email":"nope","password":"1"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp httputil.ErrorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))

	fields := make([]string, 0, len(resp.Details))
	for _, d := range resp.Details {
		fields = append(fields, d.Field)
	}
	assert.ElementsMatch(t, []string{"name", "email", "password"}, fields)
}

func TestHandler_Logout(t *testing.T) {
	t.Parallel()

	h := NewHandler(newTestEnv(t).service)

	w := post(h.Logout, "/auth/logout", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"ok":true}`, w.Body.String())
}
