package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haneul-lab/league-system/models"
	"github.com/haneul-lab/league-system/services"
)

type stubMatchService struct {
	gotMatchID int
	gotInput   services.RecordResultInput
	match      *models.Match
	err        error
}

func (s *stubMatchService) RecordMatchResult(ctx context.Context, matchID int, input services.RecordResultInput) (*models.Match, error) {
	s.gotMatchID = matchID
	s.gotInput = input
	if s.err != nil {
		return nil, s.err
	}
	return s.match, nil
}

func postResult(t *testing.T, svc services.MatchService, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	router := chi.NewRouter()
	router.Post("/matches/{matchID}/result", NewMatchHandler(svc).RecordResult)

	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestRecordResultHandler(t *testing.T) {
	t.Run("records and returns the match", func(t *testing.T) {
		stub := &stubMatchService{match: &models.Match{ID: 12, Status: models.MatchStatusCompleted}}

		rec := postResult(t, stub, "/matches/12/result",
			`{"sets": [{"player1_score": 11, "player2_score": 5}]}`)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, 12, stub.gotMatchID)
		require.Len(t, stub.gotInput.Sets, 1)
		assert.Equal(t, 11, stub.gotInput.Sets[0].Player1Score)
		assert.Contains(t, rec.Body.String(), `"match"`)
	})

	t.Run("rejects malformed match id", func(t *testing.T) {
		rec := postResult(t, &stubMatchService{}, "/matches/abc/result",
			`{"sets": [{"player1_score": 11, "player2_score": 5}]}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("rejects empty set list", func(t *testing.T) {
		rec := postResult(t, &stubMatchService{}, "/matches/12/result", `{"sets": []}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("maps service errors", func(t *testing.T) {
		stub := &stubMatchService{err: services.ErrDownstreamCompleted}
		rec := postResult(t, stub, "/matches/12/result",
			`{"sets": [{"player1_score": 11, "player2_score": 5}]}`)
		assert.Equal(t, http.StatusConflict, rec.Code)
	})
}
