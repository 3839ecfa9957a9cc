package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kequity/internal/contribution"
	"kequity/internal/jwtauth"
	reviewservice "kequity/internal/review/service"
	"kequity/internal/scoring"
	"kequity/internal/storage"
	id "kequity/pkg/domain"
)

var jwtService = jwtauth.NewService("test-signing-key", "test-issuer", "test-audience")

type fixture struct {
	router http.Handler
	store  *storage.InMemoryStore
}

func newReviewFixture(t *testing.T) *fixture {
	t.Helper()
	store := storage.NewInMemoryStore()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := reviewservice.New(store, storage.NewInMemoryTx(store), logger)

	h := New(svc, logger, jwtauth.NewAdapter(jwtService))
	r := chi.NewRouter()
	h.Register(r)
	return &fixture{router: r, store: store}
}

func (f *fixture) seedContribution(t *testing.T, authorID uuid.UUID) id.ContributionID {
	t.Helper()
	c := &contribution.Contribution{
		ID:            id.NewContributionID(),
		Kind:          scoring.KindResearch,
		Domain:        "security",
		AuthorID:      id.UserID(authorID),
		EffortMinutes: 60,
		CreatedAt:     time.Now(),
	}
	require.NoError(t, f.store.SaveContribution(context.Background(), c))
	return c.ID
}

func bearerToken(t *testing.T, userID uuid.UUID) string {
	t.Helper()
	token, err := jwtService.GenerateAccessToken(userID, time.Hour)
	require.NoError(t, err)
	return "Bearer " + token
}

func postReview(f *fixture, contributionID id.ContributionID, token string, payload map[string]any) *httptest.ResponseRecorder {
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest(http.MethodPost, "/contributions/"+contributionID.String()+"/reviews", bytes.NewReader(body))
	req.Header.Set("Authorization", token)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func TestSubmit_RequiresAuth(t *testing.T) {
	f := newReviewFixture(t)
	contributionID := f.seedContribution(t, uuid.New())

	body, _ := json.Marshal(map[string]any{"rating": "confirmed_correct", "confidence": 80})
	req := httptest.NewRequest(http.MethodPost, "/contributions/"+contributionID.String()+"/reviews", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSubmit_CommitsAndReturnsTotals(t *testing.T) {
	f := newReviewFixture(t)
	contributionID := f.seedContribution(t, uuid.New())
	reviewerID := uuid.New()

	rec := postReview(f, contributionID, bearerToken(t, reviewerID), map[string]any{
		"rating":     "confirmed_correct",
		"confidence": 80,
		"comment":    "reproduced the result",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp submitResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.NotEmpty(t, resp.ReviewID)
	assert.Positive(t, resp.ContributionNewTotalKE)
	assert.Positive(t, resp.ReviewerEarnedKE)
	assert.NotNil(t, resp.Warnings)
}

func TestSubmit_SelfReviewForbidden(t *testing.T) {
	f := newReviewFixture(t)
	authorID := uuid.New()
	contributionID := f.seedContribution(t, authorID)

	rec := postReview(f, contributionID, bearerToken(t, authorID), map[string]any{
		"rating":     "confirmed_correct",
		"confidence": 80,
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestSubmit_DuplicateConflict(t *testing.T) {
	f := newReviewFixture(t)
	contributionID := f.seedContribution(t, uuid.New())
	token := bearerToken(t, uuid.New())

	first := postReview(f, contributionID, token, map[string]any{"rating": "valuable_incomplete", "confidence": 60})
	require.Equal(t, http.StatusCreated, first.Code)

	second := postReview(f, contributionID, token, map[string]any{"rating": "valuable_incomplete", "confidence": 60})
	assert.Equal(t, http.StatusConflict, second.Code)
}

func TestSubmit_UnknownRatingRejected(t *testing.T) {
	f := newReviewFixture(t)
	contributionID := f.seedContribution(t, uuid.New())

	rec := postReview(f, contributionID, bearerToken(t, uuid.New()), map[string]any{
		"rating":     "five_stars",
		"confidence": 80,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSubmit_UnknownContribution(t *testing.T) {
	f := newReviewFixture(t)

	rec := postReview(f, id.NewContributionID(), bearerToken(t, uuid.New()), map[string]any{
		"rating":     "confirmed_correct",
		"confidence": 80,
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestList_ReturnsCommittedReviews(t *testing.T) {
	f := newReviewFixture(t)
	contributionID := f.seedContribution(t, uuid.New())

	rec := postReview(f, contributionID, bearerToken(t, uuid.New()), map[string]any{
		"rating":     "incorrect_constructive",
		"confidence": 70,
		"comment":    "the proof in section 3 has a gap",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	listReq := httptest.NewRequest(http.MethodGet, "/contributions/"+contributionID.String()+"/reviews", nil)
	listRec := httptest.NewRecorder()
	f.router.ServeHTTP(listRec, listReq)
	require.Equal(t, http.StatusOK, listRec.Code)

	var listResp struct {
		Reviews []reviewResponse `json:"reviews"`
	}
	require.NoError(t, json.NewDecoder(listRec.Body).Decode(&listResp))
	require.Len(t, listResp.Reviews, 1)
	assert.Equal(t, "incorrect_constructive", listResp.Reviews[0].Rating)
	assert.Equal(t, 70, listResp.Reviews[0].Confidence)
}
