package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func newIdemRouter(lookup IdempotencyLookup) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) { c.Set("userEmail", "ana@empresa.com.br"); c.Next() })
	r.Use(IdempotencyValidator(IdempotencyOptions{}, lookup))
	r.POST("/api/v1/sync", func(c *gin.Context) {
		key, _ := GetIdempotencyKey(c)
		c.JSON(http.StatusOK, gin.H{"key": key, "replay": IsReplay(c)})
	})
	return r
}

func TestIdempotencyValidator_NoHeaderIsNoop(t *testing.T) {
	r := newIdemRouter(nil)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/sync", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"replay":false`) {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
}

func TestIdempotencyValidator_RejectsMalformedKey(t *testing.T) {
	r := newIdemRouter(nil)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/sync", nil)
	req.Header.Set(HeaderIdempotencyKey, "not valid !!")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestIdempotencyValidator_ReplayMarksContext(t *testing.T) {
	var gotEmail, gotScope, gotKey string
	lookup := func(_ context.Context, email, scope, key string, _ time.Time) (bool, error) {
		gotEmail, gotScope, gotKey = email, scope, key
		return true, nil
	}
	r := newIdemRouter(lookup)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/sync", nil)
	req.Header.Set(HeaderIdempotencyKey, "k-123")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if gotEmail != "ana@empresa.com.br" || gotScope != "sync" || gotKey != "k-123" {
		t.Fatalf("lookup tuple = (%q, %q, %q)", gotEmail, gotScope, gotKey)
	}
	if !strings.Contains(w.Body.String(), `"replay":true`) {
		t.Fatalf("replay flag not set: %s", w.Body.String())
	}
}

func TestGetIdempotencyKey_WrongType(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Set(ctxKeyIdemKey, 123)
	if _, ok := GetIdempotencyKey(c); ok {
		t.Fatal("non-string key must read as absent")
	}
}

func TestScopeFromRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodPost, "/fallback/path", nil)
	if got := scopeFromRoute(c); got != "path" {
		t.Fatalf("scopeFromRoute = %q, want %q", got, "path")
	}
}
