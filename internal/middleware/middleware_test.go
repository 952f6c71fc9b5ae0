package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/gastos/internal/domain/dto"
)

func TestRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.String(200, "ok") })
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if w.Code != 200 {
		t.Fatalf("code=%d", w.Code)
	}
	if w.Header().Get("X-Request-ID") == "" {
		t.Fatalf("missing request id header")
	}
}

func TestErrorHandler(t *testing.T) {
	cases := []struct {
		name    string
		handler gin.HandlerFunc
		code    int
		message string
	}{
		{
			name:    "plain error",
			handler: func(c *gin.Context) { _ = c.Error(assertErr{}) },
			code:    http.StatusInternalServerError,
			message: "Internal Server Error",
		},
		{
			name: "keeps error status",
			handler: func(c *gin.Context) {
				c.Status(http.StatusBadGateway)
				_ = c.Error(assertErr{})
			},
			code:    http.StatusBadGateway,
			message: "Bad Gateway",
		},
		{
			name:    "error response rendered as is",
			handler: func(c *gin.Context) { _ = c.Error(dto.NewErrorResponse("custom", nil)) },
			code:    http.StatusInternalServerError,
			message: "custom",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			gin.SetMode(gin.TestMode)
			r := gin.New()
			r.Use(ErrorHandler)
			r.GET("/", tc.handler)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
			if w.Code != tc.code {
				t.Fatalf("code=%d", w.Code)
			}
			var body dto.ErrorResponse
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body.Message != tc.message {
				t.Fatalf("message=%q want %q", body.Message, tc.message)
			}
		})
	}
}

func TestErrorHandler_LeavesWrittenResponses(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(ErrorHandler)
	r.GET("/", func(c *gin.Context) {
		AbortWithError(c, http.StatusUnprocessableEntity, "missing column", assertErr{})
	})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("code=%d", w.Code)
	}
}

type assertErr struct{}

func (assertErr) Error() string { return "boom" }

func TestRecoveryMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID(), RecoveryMiddleware())
	r.GET("/panic", func(c *gin.Context) { panic("boom") })
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))
	if w.Code != 500 {
		t.Fatalf("code=%d", w.Code)
	}
}

func TestRateLimiter(t *testing.T) {
	cases := []struct {
		name   string
		reqs   int
		lim    int
		expect int
	}{
		{name: "within limit", reqs: 2, lim: 3, expect: http.StatusOK},
		{name: "at limit", reqs: 3, lim: 3, expect: http.StatusOK},
		{name: "exceed limit", reqs: 5, lim: 3, expect: http.StatusTooManyRequests},
		{name: "disabled", reqs: 5, lim: 0, expect: http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			gin.SetMode(gin.TestMode)
			r := gin.New()
			r.Use(RateLimiter(tc.lim, time.Minute))
			r.GET("/", func(c *gin.Context) { c.String(200, "ok") })
			var last *httptest.ResponseRecorder
			for i := 0; i < tc.reqs; i++ {
				last = httptest.NewRecorder()
				r.ServeHTTP(last, httptest.NewRequest(http.MethodGet, "/", nil))
			}
			if last.Code != tc.expect {
				t.Fatalf("expected %d, got %d", tc.expect, last.Code)
			}
			if tc.expect == http.StatusTooManyRequests && last.Header().Get("Retry-After") != "60" {
				t.Fatalf("expected Retry-After 60, got %q", last.Header().Get("Retry-After"))
			}
		})
	}
}

func TestRateStore_WindowResets(t *testing.T) {
	clock := time.Date(2025, 9, 30, 12, 0, 0, 0, time.UTC)
	s := newRateStore(1, time.Minute)
	s.now = func() time.Time { return clock }

	if !s.allow("a") || s.allow("a") {
		t.Fatalf("expected first request allowed and second denied")
	}
	if !s.allow("b") {
		t.Fatalf("clients are counted separately")
	}
	clock = clock.Add(2 * time.Minute)
	if !s.allow("a") {
		t.Fatalf("expected new window to allow request")
	}
	if _, ok := s.clients["b"]; ok {
		t.Fatalf("expected stale client to be evicted")
	}
}

func TestAbortWithError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/err", func(c *gin.Context) {
		AbortWithError(c, http.StatusBadRequest, "bad stuff", assertErr{})
	})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/err", nil))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("code=%d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct == "" {
		t.Fatalf("expected content-type set")
	}
}

func TestTimeout(t *testing.T) {
	cases := []struct {
		name        string
		d           time.Duration
		wantDeadline bool
	}{
		{name: "bounded", d: time.Second, wantDeadline: true},
		{name: "disabled", d: 0, wantDeadline: false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			gin.SetMode(gin.TestMode)
			r := gin.New()
			r.Use(Timeout(tc.d))
			var ctx context.Context
			r.GET("/", func(c *gin.Context) {
				ctx = c.Request.Context()
				c.Status(http.StatusNoContent)
			})
			r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
			if _, ok := ctx.Deadline(); ok != tc.wantDeadline {
				t.Fatalf("deadline set=%v want %v", ok, tc.wantDeadline)
			}
		})
	}
}
