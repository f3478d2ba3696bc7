package apierr

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/minesboomer/internal/model"
)

func TestWriteError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"result not found", model.ErrResultNotFound, http.StatusNotFound, CodeResultNotFound},
		{"wrapped result not found", fmt.Errorf("get: %w", model.ErrResultNotFound), http.StatusNotFound, CodeResultNotFound},
		{"session not found", model.ErrSessionNotFound, http.StatusNotFound, CodeSessionNotFound},
		{"invalid request", NewInvalidRequestError("bad limit"), http.StatusBadRequest, CodeInvalidRequest},
		{"not found", NewNotFoundError(), http.StatusNotFound, CodeNotFound},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, CodeInternalError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			WriteError(rr, tt.err)

			assert.Equal(t, tt.status, rr.Code)
			assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
			assert.Equal(t, tt.code, resp.Error.Code)
			assert.Equal(t, tt.status, StatusOf(tt.err))
		})
	}
}

func TestInternalErrorHidesDetail(t *testing.T) {
	rr := httptest.NewRecorder()
	WriteError(rr, errors.New("redis: connection refused"))

	assert.NotContains(t, rr.Body.String(), "redis")
}
