package httputil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Title string `json:"title"`
}

func TestDecodeJSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{name: "valid", body: `{"title":"Buy milk"}`},
		{name: "unknown field", body: `{"title":"x","owner":"someone"}`, wantErr: true},
		{name: "trailing data", body: `{"title":"x"}{"title":"y"}`, wantErr: true},
		{name: "not json", body: `title=x`, wantErr: true},
		{name: "empty", body: ``, wantErr: true},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tc.body))
			w := httptest.NewRecorder()

			var dst sample
			err := DecodeJSON(w, r, &dst)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "Buy milk", dst.Title)
		})
	}
}

func TestRespondValidationError(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()
	RespondValidationError(w, []FieldError{{Field: "title", Message: "must be at least 2 characters"}})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var resp ErrorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, CodeValidationFailed, resp.Code)
	require.Len(t, resp.Details, 1)
	assert.Equal(t, "title", resp.Details[0].Field)
}

func TestRespondInternalError_HidesDetail(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()
	RespondInternalError(w)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"internal server error","code":"INTERNAL_ERROR"}`, w.Body.String())
}

func TestRespondOK(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()
	RespondOK(w)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"ok":true}`, w.Body.String())
}
