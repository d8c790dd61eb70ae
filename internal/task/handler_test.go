package task

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redmonkez12/go-task-api/internal/authctx"
	"github.com/redmonkez12/go-task-api/internal/httputil"
)

// newTestRouter mounts the task routes behind a stub that authenticates as
// the X-Test-User header.
func newTestRouter() http.Handler {
	s, _ := newTestService()
	h := NewHandler(s)

	r := chi.NewRouter()
	r.Route("/tasks", func(r chi.Router) {
		r.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				if id, err := uuid.Parse(req.Header.Get("X-Test-User")); err == nil {
					req = req.WithContext(authctx.WithUserID(req.Context(), id))
				}
				next.ServeHTTP(w, req)
			})
		})
		h.Routes(r)
	})
	return r
}

func do(t *testing.T, h http.Handler, user uuid.UUID, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if user != uuid.Nil {
		req.Header.Set("X-Test-User", user.String())
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeTask(t *testing.T, w *httptest.ResponseRecorder) *Task {
	t.Helper()
	var resp TaskResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	require.NotNil(t, resp.Task)
	return resp.Task
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp httputil.ErrorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	return resp.Code
}

func TestHandler_CRUD(t *testing.T) {
	t.Parallel()

	h := newTestRouter()
	owner := uuid.New()

	w := do(t, h, owner, http.MethodPost, "/tasks", `{"title":"Buy milk"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	created := decodeTask(t, w)
	assert.Equal(t, StatusTodo, created.Status)
	assert.Equal(t, owner, created.OwnerID)

	w = do(t, h, owner, http.MethodGet, "/tasks/"+created.ID.String(), "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, created.ID, decodeTask(t, w).ID)

	w = do(t, h, owner, http.MethodPut, "/tasks/"+created.ID.String(), `{"status":"in_progress"}`)
	require.Equal(t, http.StatusOK, w.Code)
	updated := decodeTask(t, w)
	assert.Equal(t, StatusInProgress, updated.Status)
	assert.Equal(t, "Buy milk", updated.Title)

	w = do(t, h, owner, http.MethodGet, "/tasks?status=in_progress&search=MILK", "")
	require.Equal(t, http.StatusOK, w.Code)
	var list TaskListResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&list))
	require.Len(t, list.Tasks, 1)
	assert.Equal(t, created.ID, list.Tasks[0].ID)

	w = do(t, h, owner, http.MethodDelete, "/tasks/"+created.ID.String(), "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"ok":true}`, w.Body.String())

	w = do(t, h, owner, http.MethodGet, "/tasks/"+created.ID.String(), "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, httputil.CodeNotFound, errorCode(t, w))
}

func TestHandler_List_EmptyIsArray(t *testing.T) {
	t.Parallel()

	w := do(t, newTestRouter(), uuid.New(), http.MethodGet, "/tasks?status=bogus", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"tasks":[]}`, w.Body.String())
}

func TestHandler_Errors(t *testing.T) {
	t.Parallel()

	h := newTestRouter()
	alice, bob := uuid.New(), uuid.New()

	w := do(t, h, alice, http.MethodPost, "/tasks", `{"title":"Alice's task"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	aliceTask := "/tasks/" + decodeTask(t, w).ID.String()

	tests := []struct {
		name       string
		user       uuid.UUID
		method     string
		target     string
		body       string
		wantStatus int
		wantCode   string
	}{
		{name: "no identity", method: http.MethodGet, target: "/tasks", wantStatus: http.StatusUnauthorized, wantCode: httputil.CodeUnauthorized},
		{name: "short title", user: alice, method: http.MethodPost, target: "/tasks", body: `{"title":"x"}`, wantStatus: http.StatusBadRequest, wantCode: httputil.CodeValidationFailed},
		{name: "bad status", user: alice, method: http.MethodPost, target: "/tasks", body: `{"title":"ok","status":"archived"}`, wantStatus: http.StatusBadRequest, wantCode: httputil.CodeInvalidStatus},
		{name: "owner in body", user: alice, method: http.MethodPost, target: "/tasks", body: `{"title":"ok","owner_id":"` + bob.String() + `"}`, wantStatus: http.StatusBadRequest, wantCode: httputil.CodeInvalidRequestBody},
		{name: "malformed id", user: alice, method: http.MethodGet, target: "/tasks/not-a-uuid", wantStatus: http.StatusBadRequest, wantCode: httputil.CodeInvalidID},
		{name: "other owner get", user: bob, method: http.MethodGet, target: aliceTask, wantStatus: http.StatusNotFound, wantCode: httputil.CodeNotFound},
		{name: "other owner update", user: bob, method: http.MethodPut, target: aliceTask, body: `{"title":"mine now"}`, wantStatus: http.StatusNotFound, wantCode: httputil.CodeNotFound},
		{name: "other owner delete", user: bob, method: http.MethodDelete, target: aliceTask, wantStatus: http.StatusNotFound, wantCode: httputil.CodeNotFound},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := do(t, h, tc.user, tc.method, tc.target, tc.body)
			assert.Equal(t, tc.wantStatus, w.Code)
			assert.Equal(t, tc.wantCode, errorCode(t, w))
		})
	}

	w = do(t, h, alice, http.MethodGet, aliceTask, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Alice's task", decodeTask(t, w).Title)
}
