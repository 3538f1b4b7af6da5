package router

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-ddd-realworld/config"
	"github.com/oksasatya/go-ddd-realworld/internal/container"
	"github.com/oksasatya/go-ddd-realworld/internal/infrastructure/memory"
	"github.com/oksasatya/go-ddd-realworld/pkg/helpers"
	"github.com/oksasatya/go-ddd-realworld/pkg/validation"
)

func newTestEngine(t *testing.T) *gin.Engine {
	t.Helper()
	return newEngineWith(t, nil, nil)
}

// newEngineWith builds the engine over the memory store with rdb (may be nil)
// as the Redis backend. tune adjusts the config before routes are built.
func newEngineWith(t *testing.T, rdb *redis.Client, tune func(*config.Config)) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	validation.Init()

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	cfg := &config.Config{
		AppName:             "conduit",
		MetricsEnabled:      true,
		DebugMetricsEnabled: true,
		RateLimitAuth:       10,
		RateLimitWrite:      60,
		RateLimitWindow:     time.Minute,
	}
	if tune != nil {
		tune(cfg)
	}
	store := memory.NewStore()
	container.SetConfig(cfg)
	container.SetLogger(logger)
	container.SetPGPool(nil)
	container.SetRedis(rdb)
	container.SetIndex(nil)
	container.SetUploader(nil)
	container.SetRabbitPub(nil)
	container.SetJWT(helpers.NewJWTManager("test-secret", time.Hour, "conduit"))
	container.SetRepositories(container.Repositories{
		Users:    store.Users(),
		Articles: store.Articles(),
		Comments: store.Comments(),
		Tags:     store.Tags(),
		Tx:       store,
	})
	return NewEngine(cfg)
}

type result struct {
	Code   int
	Header http.Header
	Body   map[string]any
}

func do(t *testing.T, r http.Handler, method, path, token string, body any) result {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Token "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	res := result{Code: w.Code, Header: w.Header()}
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res.Body), w.Body.String())
	}
	return res
}

func obj(t *testing.T, m map[string]any, key string) map[string]any {
	t.Helper()
	v, ok := m[key].(map[string]any)
	require.True(t, ok, "missing object %q in %v", key, m)
	return v
}

func register(t *testing.T, r http.Handler, name string) string {
	t.Helper()
	res := do(t, r, http.MethodPost, "/api/users", "", gin.H{"user": gin.H{
		"username": name, "email": name + "@example.com", "password": "password-" + name,
	}})
	require.Equal(t, http.StatusCreated, res.Code, res.Body)
	token, _ := obj(t, res.Body, "user")["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func TestUserEndpoints(t *testing.T) {
	r := newTestEngine(t)
	token := register(t, r, "jake")

	res := do(t, r, http.MethodPost, "/api/users", "", gin.H{"user": gin.H{
		"username": "jake", "email": "other@example.com", "password": "password123",
	}})
	assert.Equal(t, http.StatusUnprocessableEntity, res.Code)

	res = do(t, r, http.MethodPost, "/api/users", "", gin.H{"user": gin.H{
		"username": "anna", "email": "not-an-email", "password": "short",
	}})
	require.Equal(t, http.StatusUnprocessableEntity, res.Code)
	errs := obj(t, res.Body, "errors")
	assert.Contains(t, errs, "email")
	assert.Contains(t, errs, "password")

	res = do(t, r, http.MethodPost, "/api/users/login", "", gin.H{"user": gin.H{"email": "jake@example.com", "password": "password-jake"}})
	require.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, "jake", obj(t, res.Body, "user")["username"])

	res = do(t, r, http.MethodPost, "/api/users/login", "", gin.H{"user": gin.H{"email": "jake@example.com", "password": "wrong-password"}})
	assert.Equal(t, http.StatusUnauthorized, res.Code)

	res = do(t, r, http.MethodGet, "/api/user", token, nil)
	require.Equal(t, http.StatusOK, res.Code)
	u := obj(t, res.Body, "user")
	assert.Equal(t, "jake@example.com", u["email"])
	assert.Equal(t, token, u["token"])

	res = do(t, r, http.MethodPut, "/api/user", token, gin.H{"user": gin.H{"bio": "I work at statefarm"}})
	require.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, "I work at statefarm", obj(t, res.Body, "user")["bio"])

	res = do(t, r, http.MethodGet, "/api/user", "", nil)
	assert.Equal(t, http.StatusUnauthorized, res.Code)
}

func TestArticleLifecycle(t *testing.T) {
	r := newTestEngine(t)
	jake := register(t, r, "jake")
	anna := register(t, r, "anna")

	res := do(t, r, http.MethodPost, "/api/articles", "", gin.H{"article": gin.H{"title": "x", "body": "y"}})
	assert.Equal(t, http.StatusUnauthorized, res.Code)

	res = do(t, r, http.MethodPost, "/api/articles", jake, gin.H{"article": gin.H{
		"title": "How to train your dragon", "description": "Ever wonder how?", "body": "You have to believe",
		"tagList": []string{"reactjs", "angularjs", "dragons"},
	}})
	require.Equal(t, http.StatusCreated, res.Code, res.Body)
	art := obj(t, res.Body, "article")
	assert.Equal(t, "how-to-train-your-dragon", art["slug"])
	assert.Equal(t, []any{"angularjs", "dragons", "reactjs"}, art["tagList"])
	assert.Equal(t, false, art["favorited"])
	assert.EqualValues(t, 0, art["favoritesCount"])

	res = do(t, r, http.MethodGet, "/api/articles/how-to-train-your-dragon", "", nil)
	require.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, "jake", obj(t, obj(t, res.Body, "article"), "author")["username"])

	res = do(t, r, http.MethodGet, "/api/articles?tag=dragons", "", nil)
	require.Equal(t, http.StatusOK, res.Code)
	assert.EqualValues(t, 1, res.Body["articlesCount"])

	res = do(t, r, http.MethodGet, "/api/articles?limit=1000", "", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, res.Code)

	res = do(t, r, http.MethodGet, "/api/tags", "", nil)
	require.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, []any{"angularjs", "dragons", "reactjs"}, res.Body["tags"])

	res = do(t, r, http.MethodPost, "/api/articles/how-to-train-your-dragon/favorite", anna, nil)
	require.Equal(t, http.StatusOK, res.Code)
	art = obj(t, res.Body, "article")
	assert.Equal(t, true, art["favorited"])
	assert.EqualValues(t, 1, art["favoritesCount"])

	res = do(t, r, http.MethodDelete, "/api/articles/how-to-train-your-dragon/favorite", anna, nil)
	require.Equal(t, http.StatusOK, res.Code)
	assert.EqualValues(t, 0, obj(t, res.Body, "article")["favoritesCount"])

	res = do(t, r, http.MethodPut, "/api/articles/how-to-train-your-dragon", anna, gin.H{"article": gin.H{"body": "mine now"}})
	assert.Equal(t, http.StatusForbidden, res.Code)

	res = do(t, r, http.MethodPut, "/api/articles/how-to-train-your-dragon", jake, gin.H{"article": gin.H{"description": "d2"}})
	require.Equal(t, http.StatusOK, res.Code)
	art = obj(t, res.Body, "article")
	assert.Equal(t, "d2", art["description"])
	assert.Equal(t, "You have to believe", art["body"])

	res = do(t, r, http.MethodPost, "/api/articles/how-to-train-your-dragon/comments", anna, gin.H{"comment": gin.H{"body": "Thank you so much!"}})
	require.Equal(t, http.StatusCreated, res.Code)
	commentID := obj(t, res.Body, "comment")["id"].(float64)

	res = do(t, r, http.MethodGet, "/api/articles/how-to-train-your-dragon/comments", "", nil)
	require.Equal(t, http.StatusOK, res.Code)
	assert.Len(t, res.Body["comments"], 1)

	path := "/api/articles/how-to-train-your-dragon/comments/" + jsonNumber(commentID)
	res = do(t, r, http.MethodDelete, path, jake, nil)
	assert.Equal(t, http.StatusForbidden, res.Code)
	res = do(t, r, http.MethodDelete, path, anna, nil)
	assert.Equal(t, http.StatusNoContent, res.Code)
	res = do(t, r, http.MethodDelete, "/api/articles/how-to-train-your-dragon/comments/abc", anna, nil)
	assert.Equal(t, http.StatusNotFound, res.Code)

	res = do(t, r, http.MethodDelete, "/api/articles/how-to-train-your-dragon", anna, nil)
	assert.Equal(t, http.StatusForbidden, res.Code)
	res = do(t, r, http.MethodDelete, "/api/articles/how-to-train-your-dragon", jake, nil)
	assert.Equal(t, http.StatusNoContent, res.Code)
	res = do(t, r, http.MethodGet, "/api/articles/how-to-train-your-dragon", "", nil)
	assert.Equal(t, http.StatusNotFound, res.Code)
	assert.Contains(t, obj(t, res.Body, "errors"), "body")
	assert.NotEmpty(t, res.Body["request_id"])
}

func jsonNumber(f float64) string {
	b, _ := json.Marshal(int64(f))
	return string(b)
}

func TestProfilesAndFeed(t *testing.T) {
	r := newTestEngine(t)
	jake := register(t, r, "jake")
	anna := register(t, r, "anna")

	res := do(t, r, http.MethodPost, "/api/articles", anna, gin.H{"article": gin.H{"title": "Anna writes", "body": "b"}})
	require.Equal(t, http.StatusCreated, res.Code)

	res = do(t, r, http.MethodGet, "/api/articles/feed", jake, nil)
	require.Equal(t, http.StatusOK, res.Code)
	assert.EqualValues(t, 0, res.Body["articlesCount"])
	assert.Equal(t, []any{}, res.Body["articles"])

	res = do(t, r, http.MethodPost, "/api/profiles/anna/follow", jake, nil)
	require.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, true, obj(t, res.Body, "profile")["following"])

	res = do(t, r, http.MethodGet, "/api/profiles/anna", jake, nil)
	require.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, true, obj(t, res.Body, "profile")["following"])

	res = do(t, r, http.MethodGet, "/api/profiles/anna", "", nil)
	require.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, false, obj(t, res.Body, "profile")["following"])

	res = do(t, r, http.MethodGet, "/api/articles/feed", jake, nil)
	require.Equal(t, http.StatusOK, res.Code)
	assert.EqualValues(t, 1, res.Body["articlesCount"])

	res = do(t, r, http.MethodDelete, "/api/profiles/anna/follow", jake, nil)
	require.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, false, obj(t, res.Body, "profile")["following"])

	res = do(t, r, http.MethodGet, "/api/profiles/nobody", "", nil)
	assert.Equal(t, http.StatusNotFound, res.Code)

	res = do(t, r, http.MethodGet, "/api/articles/search?q=anna", "", nil)
	require.Equal(t, http.StatusOK, res.Code)
	assert.EqualValues(t, 0, res.Body["articlesCount"])
}

func TestOpsEndpoints(t *testing.T) {
	r := newTestEngine(t)

	res := do(t, r, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, res.Code)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "conduit_http_requests_total")

	req = httptest.NewRequest(http.MethodGet, "/api/debug/vars", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "memstats")
}

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := helpers.NewRedisClient(mr.Addr(), "", 0)
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func TestSessionsRevokeTokens(t *testing.T) {
	mr, rdb := newRedis(t)
	r := newEngineWith(t, rdb, nil)

	first := register(t, r, "jake")
	assert.Equal(t, http.StatusOK, do(t, r, http.MethodGet, "/api/user", first, nil).Code)

	res := do(t, r, http.MethodPost, "/api/users/login", "", gin.H{"user": gin.H{"email": "jake@example.com", "password": "password-jake"}})
	require.Equal(t, http.StatusOK, res.Code)
	second, _ := obj(t, res.Body, "user")["token"].(string)
	require.NotEqual(t, first, second)

	res = do(t, r, http.MethodGet, "/api/user", first, nil)
	assert.Equal(t, http.StatusUnauthorized, res.Code)
	assert.Equal(t, http.StatusOK, do(t, r, http.MethodGet, "/api/user", second, nil).Code)

	assert.Equal(t, http.StatusNoContent, do(t, r, http.MethodPost, "/api/users/logout", second, nil).Code)
	claims, err := container.GetJWT().Parse(second)
	require.NoError(t, err)
	assert.False(t, mr.Exists(helpers.SessionKey(strconv.FormatInt(claims.UserID, 10))))
	assert.Equal(t, http.StatusUnauthorized, do(t, r, http.MethodGet, "/api/user", second, nil).Code)
	assert.Equal(t, http.StatusUnauthorized, do(t, r, http.MethodPost, "/api/articles", second,
		gin.H{"article": gin.H{"title": "t", "body": "b"}}).Code)
}

func TestLoginRateLimitIgnoresSpoofedPrivateIP(t *testing.T) {
	mr, rdb := newRedis(t)
	r := newEngineWith(t, rdb, func(cfg *config.Config) { cfg.RateLimitAuth = 2 })

	login := func(spoofed string) *httptest.ResponseRecorder {
		body := `{"user":{"email":"nobody@example.com","password":"wrong-password"}}`
		req := httptest.NewRequest(http.MethodPost, "/api/users/login", bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Real-IP", spoofed)
		req.Header.Set("X-Forwarded-For", spoofed)
		req.RemoteAddr = "203.0.113.7:40000"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	w := login("10.0.0.1")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "2", w.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "1", w.Header().Get("X-RateLimit-Remaining"))

	w = login("10.0.0.1")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))

	w = login("10.0.0.2")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "60", w.Header().Get("Retry-After"))
	assert.Equal(t, "60", w.Header().Get("X-RateLimit-Reset"))
	assert.Contains(t, w.Body.String(), "rate limit exceeded")

	assert.True(t, mr.Exists("rl:path:/api/users/login:ip:203.0.113.7"))
	assert.False(t, mr.Exists("rl:path:/api/users/login:ip:10.0.0.1"))

	// the window is per route, so registration still has its own budget
	res := do(t, r, http.MethodPost, "/api/users", "", gin.H{"user": gin.H{
		"username": "anna", "email": "anna@example.com", "password": "password-anna",
	}})
	assert.Equal(t, http.StatusCreated, res.Code)
}

func TestWriteRateLimitPerUser(t *testing.T) {
	_, rdb := newRedis(t)
	r := newEngineWith(t, rdb, func(cfg *config.Config) { cfg.RateLimitWrite = 1 })
	jake := register(t, r, "jake")

	res := do(t, r, http.MethodPost, "/api/articles", jake, gin.H{"article": gin.H{"title": "One", "body": "b"}})
	require.Equal(t, http.StatusCreated, res.Code)
	assert.Equal(t, "1", res.Header.Get("X-RateLimit-Limit"))

	res = do(t, r, http.MethodPost, "/api/articles", jake, gin.H{"article": gin.H{"title": "Two", "body": "b"}})
	assert.Equal(t, http.StatusTooManyRequests, res.Code)

	// reads are not counted
	assert.Equal(t, http.StatusOK, do(t, r, http.MethodGet, "/api/articles/one", jake, nil).Code)
}
