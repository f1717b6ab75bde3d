package osu

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"aoba/bot/command/commandtest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeOsu struct {
	server      *httptest.Server
	tokenCalls  atomic.Int32
	scoreCalls  atomic.Int32
	lastAuth    atomic.Value
	lastMode    atomic.Value
	scoreStatus int
	pp          any
}

func newFakeOsu(t *testing.T) *fakeOsu {
	f := &fakeOsu{scoreStatus: http.StatusOK, pp: 123.6}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /oauth/token", func(w http.ResponseWriter, r *http.Request) {
		f.tokenCalls.Add(1)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "client_credentials", r.PostForm.Get("grant_type"))
		assert.Equal(t, "public", r.PostForm.Get("scope"))
		assert.Equal(t, "id", r.PostForm.Get("client_id"))
		assert.Equal(t, "secret", r.PostForm.Get("client_secret"))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"token_type":   "Bearer",
			"expires_in":   3600,
			"access_token": "token-" + string(rune('0'+f.tokenCalls.Load())),
		})
	})
	mux.HandleFunc("GET /api/v2/beatmaps/{beatmap}/scores/users/{user}", func(w http.ResponseWriter, r *http.Request) {
		f.scoreCalls.Add(1)
		f.lastAuth.Store(r.Header.Get("Authorization"))
		f.lastMode.Store(r.URL.Query().Get("mode"))
		assert.Equal(t, "42", r.PathValue("beatmap"))
		assert.Equal(t, "7", r.PathValue("user"))

		if f.scoreStatus != http.StatusOK {
			w.WriteHeader(f.scoreStatus)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"position": 1,
			"score":    map[string]any{"id": 9, "accuracy": 0.98, "pp": f.pp},
		})
	})

	f.server = httptest.NewServer(mux)
	t.Cleanup(f.server.Close)
	return f
}

func (f *fakeOsu) client() *Client {
	return NewClient(Config{
		ClientID:     "id",
		ClientSecret: "secret",
		APIBaseURL:   f.server.URL + "/api/v2",
		OAuthURL:     f.server.URL + "/oauth/token",
	})
}

func TestClient_CachesTokenUntilExpiry(t *testing.T) {
	fake := newFakeOsu(t)
	client := fake.client()

	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	client.now = func() time.Time { return now }

	_, err := client.UserBeatmapScore(context.Background(), 42, 7)
	require.NoError(t, err)
	_, err = client.UserBeatmapScore(context.Background(), 42, 7)
	require.NoError(t, err)

	assert.Equal(t, int32(1), fake.tokenCalls.Load())
	assert.Equal(t, "Bearer token-1", fake.lastAuth.Load())
	assert.Equal(t, "osu", fake.lastMode.Load())

	now = now.Add(time.Hour)
	_, err = client.UserBeatmapScore(context.Background(), 42, 7)
	require.NoError(t, err)

	assert.Equal(t, int32(2), fake.tokenCalls.Load())
	assert.Equal(t, "Bearer token-2", fake.lastAuth.Load())
}

func TestClient_ScoreNotFound(t *testing.T) {
	fake := newFakeOsu(t)
	fake.scoreStatus = http.StatusNotFound

	_, err := fake.client().UserBeatmapScore(context.Background(), 42, 7)

	assert.ErrorIs(t, err, ErrScoreNotFound)
}

func TestGetScorePP(t *testing.T) {
	fake := newFakeOsu(t)
	h := commandtest.NewHarness()
	require.NoError(t, h.Register(New(fake.client()).Commands()...))

	h.Invoke("5", "!get_score_pp 42 7")
	h.Invoke("5", "!get_score_pp abc 7")
	h.Invoke("5", "!get_score_pp 42")

	assert.Equal(t, []string{
		"Player has a 124pp score on this map!",
		"The beatmap and user IDs must be numbers!",
		"Usage: `!get_score_pp <beatmap_id> <user_id>`",
	}, h.Gateway.Messages())
}

func TestGetScorePP_MissingScore(t *testing.T) {
	fake := newFakeOsu(t)
	h := commandtest.NewHarness()
	require.NoError(t, h.Register(New(fake.client()).Commands()...))

	fake.pp = nil
	h.Invoke("5", "!get_score_pp 42 7")

	fake.scoreStatus = http.StatusNotFound
	h.Invoke("5", "!get_score_pp 42 7")

	fake.scoreStatus = http.StatusInternalServerError
	h.Invoke("5", "!get_score_pp 42 7")

	assert.Equal(t, []string{
		"Player's score on this map has no pp value!",
		"Player has no score on this map!",
		"Something went wrong, please try again or check the logs.",
	}, h.Gateway.Messages())
}

func TestConfig_Enabled(t *testing.T) {
	assert.False(t, Config{}.Enabled())
	assert.False(t, Config{ClientID: "id"}.Enabled())
	assert.True(t, Config{ClientID: "id", ClientSecret: "secret"}.Enabled())
}
