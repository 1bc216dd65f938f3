package httpkit

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"leadqual_backend/platform/apperr"
	"leadqual_backend/platform/logger"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(t *testing.T, handler gin.HandlerFunc) *httptest.ResponseRecorder {
	t.Helper()
	engine := gin.New()
	engine.GET("/", handler)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var body ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return body
}

func TestHandleErrorUsesDomainKind(t *testing.T) {
	rec := serve(t, func(c *gin.Context) {
		HandleError(c, fmt.Errorf("load: %w", apperr.NotFound("offer not found")))
	})

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if got := decodeError(t, rec).Error; got != "offer not found" {
		t.Fatalf("unexpected message %q", got)
	}
}

func TestHandleErrorHidesUntypedErrors(t *testing.T) {
	rec := serve(t, func(c *gin.Context) {
		HandleError(c, errors.New("pq: connection refused"))
	})

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if got := decodeError(t, rec).Error; got != msgInternal {
		t.Fatalf("unexpected message %q", got)
	}
}

func TestHandleErrorNilIsNoop(t *testing.T) {
	rec := serve(t, func(c *gin.Context) {
		if HandleError(c, nil) {
			t.Fatal("expected nil error to be unhandled")
		}
		c.Status(http.StatusNoContent)
	})
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
}

func TestRateLimitRejectsAfterBurst(t *testing.T) {
	limiter := NewPerMinuteLimiter(1, 1, logger.Nop())
	engine := gin.New()
	engine.Use(limiter.RateLimit())
	engine.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	first := httptest.NewRecorder()
	engine.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/", nil))
	second := httptest.NewRecorder()
	engine.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/", nil))

	if first.Code != http.StatusOK {
		t.Fatalf("expected first request to pass, got %d", first.Code)
	}
	if second.Code != http.StatusTooManyRequests {
		t.Fatalf("expected second request to be limited, got %d", second.Code)
	}
}

func TestRequestIDEchoesIncomingHeader(t *testing.T) {
	engine := gin.New()
	engine.Use(RequestID())
	engine.GET("/", func(c *gin.Context) {
		if got, _ := c.Request.Context().Value(logger.RequestIDKey).(string); got != "req-42" {
			t.Errorf("expected request id in context, got %q", got)
		}
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderRequestID, "req-42")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	if rec.Header().Get(HeaderRequestID) != "req-42" {
		t.Fatalf("expected echoed request id, got %q", rec.Header().Get(HeaderRequestID))
	}
}
