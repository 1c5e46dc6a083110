package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/morikuni/failure/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/newsroom-dev/newsroom/internal/collector"
)

type stubFetcher struct {
	mu     sync.Mutex
	limits map[collector.Source]int
}

func (s *stubFetcher) Fetch(ctx context.Context, src collector.Source, limit int) ([]collector.NewsItem, error) {
	s.mu.Lock()
	s.limits[src] = limit
	s.mu.Unlock()
	if src == collector.WSJ {
		return nil, failure.New(collector.ErrFeedParse, failure.Message("Could not parse feed"))
	}
	return []collector.NewsItem{collector.NewItem(src.Token(), "about "+src.Token())}, nil
}

func newTestRouter(t *testing.T, auth *AuthConfig) (*gin.Engine, *stubFetcher) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	f := &stubFetcher{limits: map[collector.Source]int{}}
	r := gin.New()
	if auth != nil {
		r.Use(BasicAuth(*auth))
	}
	NewServer(f, 10).RegisterRoutes(r)
	return r, f
}

func get(r http.Handler, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

type newsResponse struct {
	Code string      `json:"code"`
	Data []resultDTO `json:"data"`
}

func TestHealth(t *testing.T) {
	r, _ := newTestRouter(t, nil)
	w := get(r, "/health")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestListSources(t *testing.T) {
	r, _ := newTestRouter(t, nil)
	w := get(r, "/api/v1/sources")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Data []sourceDTO `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Data, 5)
	assert.Equal(t, "hackernews", body.Data[0].Token)
	assert.Equal(t, "GITHUB TRENDING", body.Data[4].Label)
	assert.True(t, body.Data[3].Feed)
}

func TestListNewsAllSourcesKeepsOrderAndEmbedsErrors(t *testing.T) {
	r, f := newTestRouter(t, nil)
	w := get(r, "/api/v1/news")
	require.Equal(t, http.StatusOK, w.Code)

	var body newsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Data, 5)

	for i, src := range collector.AllSources() {
		assert.Equal(t, src.Token(), body.Data[i].Source)
		assert.Equal(t, 10, f.limits[src])
	}

	wsj := body.Data[3]
	require.NotNil(t, wsj.Error)
	assert.Equal(t, "FeedParseError", wsj.Error.Code)
	assert.Empty(t, wsj.Items)

	hn := body.Data[0]
	assert.Nil(t, hn.Error)
	require.Len(t, hn.Items, 1)
	require.NotNil(t, hn.Items[0].Description)
	assert.Equal(t, "about hackernews", *hn.Items[0].Description)
}

func TestListNewsSingleSource(t *testing.T) {
	r, f := newTestRouter(t, nil)
	w := get(r, "/api/v1/news?source=github-trending&limit=3")
	require.Equal(t, http.StatusOK, w.Code)

	var body newsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Data, 1)
	assert.Equal(t, "github-trending", body.Data[0].Source)
	assert.Equal(t, map[collector.Source]int{collector.GithubTrending: 3}, f.limits)
}

func TestListNewsBadInput(t *testing.T) {
	r, f := newTestRouter(t, nil)

	tests := []struct {
		target string
		code   string
	}{
		{"/api/v1/news?source=HackerNews", "unrecognized_source"},
		{"/api/v1/news?source=reddit", "unrecognized_source"},
		{"/api/v1/news?limit=0", "invalid_limit"},
		{"/api/v1/news?limit=ten", "invalid_limit"},
	}
	for _, tt := range tests {
		w := get(r, tt.target)
		assert.Equal(t, http.StatusBadRequest, w.Code, tt.target)
		assert.Contains(t, w.Body.String(), tt.code, tt.target)
	}
	assert.Empty(t, f.limits, "no fetch should happen on bad input")
}

func TestBasicAuth(t *testing.T) {
	r, _ := newTestRouter(t, &AuthConfig{User: "user", Pass: "pass"})

	assert.Equal(t, http.StatusOK, get(r, "/health").Code)
	assert.Equal(t, http.StatusUnauthorized, get(r, "/api/v1/sources").Code)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/sources", nil)
	req.SetBasicAuth("user", "pass")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestBasicAuthChallenge(t *testing.T) {
	tests := []struct {
		name  string
		realm string
		want  string
	}{
		{name: "default realm", want: `Basic realm="newsroom"`},
		{name: "custom realm", realm: "ops", want: `Basic realm="ops"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _ := newTestRouter(t, &AuthConfig{User: "user", Pass: "pass", Realm: tt.realm})

			req := httptest.NewRequest(http.MethodGet, "/api/v1/news", nil)
			req.SetBasicAuth("user", "wrong")
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			require.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Equal(t, tt.want, w.Header().Get("WWW-Authenticate"))
			assert.JSONEq(t, `{"code":"unauthorized","message":"authentication required"}`, w.Body.String())
		})
	}
}

func TestBasicAuthExemptPaths(t *testing.T) {
	r, _ := newTestRouter(t, &AuthConfig{User: "user", Pass: "pass", Exempt: []string{"/api/v1/sources"}})

	assert.Equal(t, http.StatusOK, get(r, "/api/v1/sources").Code)
	// an explicit list replaces the default, so /health is guarded too
	assert.Equal(t, http.StatusUnauthorized, get(r, "/health").Code)
	assert.Equal(t, http.StatusUnauthorized, get(r, "/api/v1/news").Code)
}
