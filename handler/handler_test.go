package handler

import (
	"Ideabox/config"
	"Ideabox/middleware"
	"Ideabox/pkg/jwt"
	"Ideabox/pkg/response"
	"Ideabox/service"
	"Ideabox/types"
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "handler-test-secret"

type fakeVotes struct {
	ideaID, voterID uint64
	voteType        string
	err             error
}

func (f *fakeVotes) Cast(_ context.Context, ideaID, voterID uint64, voteType, _ string) (*types.VoteResult, error) {
	f.ideaID, f.voterID, f.voteType = ideaID, voterID, voteType
	if f.err != nil {
		return nil, f.err
	}
	return &types.VoteResult{Accepted: true, Weight: 2, Status: "open"}, nil
}

func (f *fakeVotes) Remove(_ context.Context, ideaID, voterID uint64) error {
	f.ideaID, f.voterID = ideaID, voterID
	return f.err
}

type fakeDiscovery struct {
	params types.FeedParams
}

func (f *fakeDiscovery) Feed(_ context.Context, p types.FeedParams) ([]*types.IdeaSummary, error) {
	f.params = p
	if !types.ValidFeedKind(p.Kind) {
		return nil, service.ErrInvalidFeedKind
	}
	return []*types.IdeaSummary{{ID: 1}}, nil
}

func (f *fakeDiscovery) Similar(context.Context, uint64, int) ([]*types.IdeaSummary, error) {
	return []*types.IdeaSummary{}, nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: &config.App{HashSalt: "salt"},
		Jwt: &config.Jwt{Secret: testSecret, AccessExpire: 3600},
	}
}

func newEngine(routers ...interface{ RegisterRouter(gin.IRouter) }) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.RequestID())
	api := r.Group("/api")
	for _, rt := range routers {
		rt.RegisterRouter(api)
	}
	return r
}

func token(t *testing.T, uid uint64) string {
	t.Helper()
	tk, err := jwt.GenerateToken([]byte(testSecret), uid, middleware.TokenAccess, time.Hour)
	require.NoError(t, err)
	return "Bearer " + tk
}

func do(t *testing.T, r *gin.Engine, method, path, auth string, body any) (*httptest.ResponseRecorder, response.Response) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var resp response.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return w, resp
}

func TestVote_ActingAsMismatch(t *testing.T) {
	votes := &fakeVotes{}
	r := newEngine(&Vote{Config: testConfig(), VoteService: votes})

	_, resp := do(t, r, http.MethodPost, "/api/v1/ideas/7/votes", token(t, 5),
		types.CastVoteRequest{VoterID: 6, VoteType: "support"})
	assert.Equal(t, http.StatusForbidden, resp.Code)
	assert.Zero(t, votes.voterID)
}

func TestVote_CastEnvelope(t *testing.T) {
	votes := &fakeVotes{}
	r := newEngine(&Vote{Config: testConfig(), VoteService: votes})

	w, resp := do(t, r, http.MethodPost, "/api/v1/ideas/7/votes", token(t, 5),
		types.CastVoteRequest{VoterID: 5, VoteType: "support"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, resp.Code)
	assert.Equal(t, "success", resp.Msg)
	assert.EqualValues(t, 7, votes.ideaID)
	assert.EqualValues(t, 5, votes.voterID)
	assert.NotEmpty(t, w.Header().Get("X-Request-Id"))
}

func TestVote_BizErrorEnvelope(t *testing.T) {
	votes := &fakeVotes{err: service.ErrDuplicateDirection}
	r := newEngine(&Vote{Config: testConfig(), VoteService: votes})

	w, resp := do(t, r, http.MethodPost, "/api/v1/ideas/7/votes", token(t, 5),
		types.CastVoteRequest{VoteType: "support"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, http.StatusConflict, resp.Code)
}

func TestVote_RemoveWithoutBody(t *testing.T) {
	votes := &fakeVotes{}
	r := newEngine(&Vote{Config: testConfig(), VoteService: votes})

	_, resp := do(t, r, http.MethodDelete, "/api/v1/ideas/7/votes", token(t, 5), nil)
	assert.Equal(t, 0, resp.Code)
	assert.EqualValues(t, 5, votes.voterID)
}

func TestVote_RequiresToken(t *testing.T) {
	r := newEngine(&Vote{Config: testConfig(), VoteService: &fakeVotes{}})

	w, resp := do(t, r, http.MethodPost, "/api/v1/ideas/7/votes", "", types.CastVoteRequest{VoteType: "support"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, http.StatusUnauthorized, resp.Code)

	_, resp = do(t, r, http.MethodPost, "/api/v1/ideas/abc/votes", token(t, 5), types.CastVoteRequest{VoteType: "support"})
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestFeed_ViewerFromToken(t *testing.T) {
	disc := &fakeDiscovery{}
	r := newEngine(&Feed{Config: testConfig(), Discovery: disc})

	_, resp := do(t, r, http.MethodGet, "/api/v1/feed/for_you?limit=5&window_hours=2", token(t, 9), nil)
	assert.Equal(t, 0, resp.Code)
	assert.Equal(t, types.FeedForYou, disc.params.Kind)
	assert.EqualValues(t, 9, disc.params.ViewerID)
	assert.Equal(t, 5, disc.params.Limit)
	assert.InDelta(t, 2.0, disc.params.WindowHours, 1e-9)

	_, resp = do(t, r, http.MethodGet, "/api/v1/feed/hot", "", nil)
	assert.Equal(t, 0, resp.Code)
	assert.Zero(t, disc.params.ViewerID)

	_, resp = do(t, r, http.MethodGet, "/api/v1/feed/random", "", nil)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}
