package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/gastos/internal/logger"
)

func TestToString(t *testing.T) {
	cases := []struct {
		in   any
		want string
	}{
		{nil, ""},
		{"abc", "abc"},
		{123, ""},
	}
	for _, tc := range cases {
		if got := toString(tc.in); got != tc.want {
			t.Fatalf("toString(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

// captureLog points the global logger at a buffer for the duration of the test.
func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	t.Setenv("LOG_PRETTY", "false")
	t.Setenv("LOG_LEVEL", "debug")
	var buf bytes.Buffer
	logger.InitTo(&buf)
	t.Cleanup(logger.Init)
	return &buf
}

func TestRequestLogger_LevelByStatus(t *testing.T) {
	cases := []struct {
		name   string
		status int
		level  string
	}{
		{name: "ok", status: http.StatusOK, level: "info"},
		{name: "client error", status: http.StatusBadRequest, level: "warn"},
		{name: "server error", status: http.StatusBadGateway, level: "error"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			buf := captureLog(t)
			gin.SetMode(gin.TestMode)
			r := gin.New()
			r.Use(RequestID(), RequestLogger())
			r.GET("/api/v1/expenses", func(c *gin.Context) { c.Status(tc.status) })

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/expenses?month=09", nil))

			var entry map[string]any
			if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
				t.Fatalf("log line is not json: %v (%q)", err, buf.String())
			}
			if entry["level"] != tc.level {
				t.Fatalf("level=%v, want %s", entry["level"], tc.level)
			}
			if entry["query"] != "month=09" || entry["path"] != "/api/v1/expenses" {
				t.Fatalf("unexpected fields: %v", entry)
			}
			if entry["request_id"] != w.Header().Get(RequestIDHeader) {
				t.Fatalf("request_id=%v, header=%s", entry["request_id"], w.Header().Get(RequestIDHeader))
			}
		})
	}
}

func TestRequestLogger_CollectsGinErrors(t *testing.T) {
	buf := captureLog(t)
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestLogger())
	r.GET("/", func(c *gin.Context) {
		_ = c.Error(errors.New("sheet unreachable"))
		c.Status(http.StatusBadGateway)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	if !bytes.Contains(buf.Bytes(), []byte("sheet unreachable")) {
		t.Fatalf("gin errors not logged: %s", buf.String())
	}
}
