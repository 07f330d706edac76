package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haneul-lab/league-system/services"
)

func TestReadJSON(t *testing.T) {
	type payload struct {
		Name string `json:"name"`
	}

	newRequest := func(body string) (*httptest.ResponseRecorder, *http.Request) {
		return httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	}

	t.Run("valid body", func(t *testing.T) {
		w, r := newRequest(`{"name": "Playoff"}`)
		var dst payload
		require.NoError(t, readJSON(w, r, &dst))
		assert.Equal(t, "Playoff", dst.Name)
	})

	t.Run("empty body", func(t *testing.T) {
		w, r := newRequest("")
		var dst payload
		assert.EqualError(t, readJSON(w, r, &dst), "body must not be empty")
	})

	t.Run("unknown field", func(t *testing.T) {
		w, r := newRequest(`{"nmae": "typo"}`)
		var dst payload
		err := readJSON(w, r, &dst)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown key")
	})

	t.Run("trailing garbage", func(t *testing.T) {
		w, r := newRequest(`{"name": "a"}{"name": "b"}`)
		var dst payload
		assert.EqualError(t, readJSON(w, r, &dst), "body must only contain a single JSON value")
	})

	t.Run("wrong type", func(t *testing.T) {
		w, r := newRequest(`{"name": 5}`)
		var dst payload
		err := readJSON(w, r, &dst)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "incorrect JSON type")
	})
}

func TestMapServiceErrorToHTTP(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{services.ErrStageNotFound, http.StatusNotFound},
		{services.ErrGroupNotFound, http.StatusNotFound},
		{services.ErrMatchNotFound, http.StatusNotFound},
		{services.ErrInvalidScore, http.StatusBadRequest},
		{services.ErrInsufficientPlayers, http.StatusBadRequest},
		{services.ErrInvalidGroupLayout, http.StatusBadRequest},
		{services.ErrMatchMissingOccupants, http.StatusBadRequest},
		{services.ErrMatchNotPlayable, http.StatusBadRequest},
		{services.ErrLeagueEmpty, http.StatusBadRequest},
		{services.ErrSourceStageNotFound, http.StatusBadRequest},
		{services.ErrStageTypeMismatch, http.StatusBadRequest},
		{services.ErrStageAlreadyStarted, http.StatusConflict},
		{services.ErrStageOrderConflict, http.StatusConflict},
		{services.ErrDownstreamCompleted, http.StatusConflict},
		{services.ErrInvalidCredentials, http.StatusUnauthorized},
		{services.ErrTransientStorage, http.StatusServiceUnavailable},
		{services.ErrStructuralInconsistency, http.StatusInternalServerError},
	}

	for _, tc := range tests {
		t.Run(tc.err.Error(), func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/", nil)

			mapServiceErrorToHTTP(rec, req, tc.err)
			assert.Equal(t, tc.status, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		})
	}
}
