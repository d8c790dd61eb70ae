package logging

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger_WithFields_SortedAttributes(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := newLogger(&buf, true)

	log.WithFields(map[string]any{"b": 2, "a": 1}).Info("hello")

	out := buf.String()
	assert.Contains(t, out, "msg=hello")
	assert.Less(t, strings.Index(out, "a=1"), strings.Index(out, "b=2"))
}

func TestLogger_ProductionIsJSONAtInfo(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := newLogger(&buf, false)

	log.Debug("hidden")
	log.Info("shown", "k", "v")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"msg":"shown"`)
	assert.Contains(t, out, `"k":"v"`)
}

func TestRequestLogger_StoresLoggerAndLogsStatus(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	base := newLogger(&buf, true)

	var fromCtx *Logger
	h := middleware.RequestID(RequestLogger(base)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fromCtx = GetLoggerFromContext(r.Context())
		w.WriteHeader(http.StatusNotFound)
	})))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/tasks/abc", nil))

	require.NotNil(t, fromCtx)
	assert.NotSame(t, base, fromCtx)

	out := buf.String()
	assert.Contains(t, out, "level=WARN")
	assert.Contains(t, out, "status=404")
	assert.Contains(t, out, "path=/tasks/abc")
	assert.Contains(t, out, "request_id=")
}

func TestGetLoggerFromContext_Fallback(t *testing.T) {
	t.Parallel()

	assert.NotNil(t, GetLoggerFromContext(context.Background()))

	l := NewNopLogger()
	assert.Same(t, l, GetLoggerFromContext(WithLogger(context.Background(), l)))
}
