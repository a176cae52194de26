package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"liars_dice/internal/config"
)

// redisForTest connects with the app's own config; tests skip without REDIS_ADDR.
func redisForTest(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Load()
	if cfg.RedisAddr == "" {
		t.Skip("REDIS_ADDR not set; skipping integration test")
	}
	if InitRedisRateLimiter(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB) == nil {
		t.Fatal("redis ping failed")
	}
	t.Cleanup(func() {
		_ = redisClient.Close()
		redisClient = nil
	})
	return cfg
}

func clearKey(t *testing.T, key string) {
	t.Helper()
	ctx := context.Background()
	redisClient.Del(ctx, key)
	t.Cleanup(func() { redisClient.Del(ctx, key) })
}

func get(t *testing.T, url string) int {
	t.Helper()
	res, err := http.Get(url)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	res.Body.Close()
	return res.StatusCode
}

func TestRedisRateLimitIntegration(t *testing.T) {
	cfg := redisForTest(t)
	window := time.Duration(cfg.APIRateWindow) * time.Second
	clearKey(t, "rl:"+strconv.Itoa(cfg.APIRateWindow)+":127.0.0.1")

	r := gin.New()
	r.GET("/api/v1/rules", RateLimit(cfg.APIRateLimit, window), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	srv := httptest.NewServer(r)
	defer srv.Close()

	for i := 0; i < cfg.APIRateLimit; i++ {
		if code := get(t, srv.URL+"/api/v1/rules"); code != http.StatusOK {
			t.Fatalf("request %d: expected 200 got %d", i+1, code)
		}
	}
	if code := get(t, srv.URL+"/api/v1/rules"); code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 got %d", code)
	}
}

func TestGameRateLimitIntegration(t *testing.T) {
	cfg := redisForTest(t)
	window := time.Duration(cfg.GameRateWindow) * time.Second
	clearKey(t, "game_rl:RateLimitKnight:"+strconv.Itoa(cfg.GameRateWindow))

	r := gin.New()
	r.POST("/api/v1/matches/simulate",
		func(c *gin.Context) { c.Set(PlayerKey, "RateLimitKnight") },
		GameRateLimit(cfg.GameRateLimit, window),
		func(c *gin.Context) { c.Status(http.StatusCreated) },
	)

	post := func() *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/matches/simulate", nil))
		return w
	}
	for i := 0; i < cfg.GameRateLimit; i++ {
		w := post()
		if w.Code != http.StatusCreated {
			t.Fatalf("match %d: expected 201 got %d", i+1, w.Code)
		}
		want := strconv.Itoa(cfg.GameRateLimit - i - 1)
		if got := w.Header().Get("X-GameRateLimit-Remaining"); got != want {
			t.Fatalf("match %d: remaining %q, want %q", i+1, got, want)
		}
	}
	if w := post(); w.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 got %d", w.Code)
	}
}
