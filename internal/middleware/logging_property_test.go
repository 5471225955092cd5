package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// Every request must produce exactly one completion log entry carrying
// method, path, status, duration and timestamp.
func TestProperty_RequestLogging(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("all requests are logged with required fields", prop.ForAll(
		func(method string, path string) bool {
			core, logs := observer.New(zapcore.InfoLevel)
			logger := zap.New(core)

			gin.SetMode(gin.TestMode)
			router := gin.New()
			router.Use(RequestLoggingMiddleware(logger))
			router.Handle(method, path, func(c *gin.Context) {
				c.Status(http.StatusOK)
			})

			req := httptest.NewRequest(method, path, nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			logEntries := logs.All()
			if len(logEntries) != 1 {
				t.Logf("expected one log entry, got %d", len(logEntries))
				return false
			}

			entry := logEntries[0]
			if entry.Message != "Request completed" {
				t.Logf("unexpected log message: %s", entry.Message)
				return false
			}

			fields := entry.ContextMap()
			if fields["method"] != method {
				t.Logf("method mismatch: expected %s, got %v", method, fields["method"])
				return false
			}
			if fields["path"] != path {
				t.Logf("path mismatch: expected %s, got %v", path, fields["path"])
				return false
			}
			if fields["status"] != int64(http.StatusOK) {
				t.Logf("status mismatch: got %v", fields["status"])
				return false
			}
			if _, ok := fields["duration"]; !ok {
				t.Logf("duration field missing")
				return false
			}
			if _, ok := fields["timestamp"]; !ok {
				t.Logf("timestamp field missing")
				return false
			}

			return true
		},
		gen.OneConstOf("GET", "POST", "PUT", "DELETE"),
		gen.OneConstOf("/api/v1/cases", "/api/v1/dashboard/summary", "/health"),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

// 4xx and 5xx responses must be logged at Warn and Error respectively so
// failing intake submissions stand out in the request log.
func TestProperty_RequestLoggingLevels(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("log level follows the status class", prop.ForAll(
		func(status int) bool {
			core, logs := observer.New(zapcore.InfoLevel)
			logger := zap.New(core)

			gin.SetMode(gin.TestMode)
			router := gin.New()
			router.Use(RequestLoggingMiddleware(logger))
			router.GET("/api/v1/cases", func(c *gin.Context) {
				c.Status(status)
			})

			req := httptest.NewRequest("GET", "/api/v1/cases", nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			logEntries := logs.All()
			if len(logEntries) != 1 {
				return false
			}

			level := logEntries[0].Level
			switch {
			case status >= 500:
				return level == zapcore.ErrorLevel
			case status >= 400:
				return level == zapcore.WarnLevel
			default:
				return level == zapcore.InfoLevel
			}
		},
		gen.OneConstOf(http.StatusOK, http.StatusCreated, http.StatusBadRequest,
			http.StatusNotFound, http.StatusInternalServerError, http.StatusBadGateway),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

// Handler errors must be logged with the error, request context and a
// stack trace.
func TestProperty_ErrorLoggingDetail(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("errors are logged with stack traces and context", prop.ForAll(
		func(errorMessage string, path string) bool {
			core, logs := observer.New(zapcore.ErrorLevel)
			logger := zap.New(core)

			gin.SetMode(gin.TestMode)
			router := gin.New()
			router.Use(ErrorLoggingMiddleware(logger))
			router.GET(path, func(c *gin.Context) {
				c.Error(gin.Error{
					Err:  &testError{msg: errorMessage},
					Type: gin.ErrorTypePrivate,
				})
				c.Status(http.StatusInternalServerError)
			})

			req := httptest.NewRequest("GET", path, nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			var errorLog *observer.LoggedEntry
			logEntries := logs.All()
			for i := range logEntries {
				if logEntries[i].Message == "Request error occurred" {
					errorLog = &logEntries[i]
					break
				}
			}
			if errorLog == nil {
				t.Logf("error log entry not found")
				return false
			}

			fields := errorLog.ContextMap()
			if _, ok := fields["error"]; !ok {
				t.Logf("error field missing")
				return false
			}
			if fields["method"] != "GET" {
				t.Logf("method field missing or incorrect")
				return false
			}
			if fields["path"] != path {
				t.Logf("path field missing or incorrect")
				return false
			}
			if _, ok := fields["stack_trace"]; !ok {
				t.Logf("stack_trace field missing")
				return false
			}

			return true
		},
		gen.AlphaString(),
		gen.OneConstOf("/api/v1/cases", "/api/v1/reports/abc", "/api/v1/followups/xyz"),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

// A request ID supplied by the caller must be preserved; a missing one
// must be generated. Either way it is echoed on the response.
func TestProperty_RequestIDPropagation(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("request IDs are preserved or generated", prop.ForAll(
		func(incomingID string) bool {
			gin.SetMode(gin.TestMode)
			router := gin.New()
			router.Use(RequestIDMiddleware())

			var seenID string
			router.GET("/health", func(c *gin.Context) {
				seenID = c.GetString("request_id")
				c.Status(http.StatusOK)
			})

			req := httptest.NewRequest("GET", "/health", nil)
			if incomingID != "" {
				req.Header.Set("X-Request-ID", incomingID)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			responseID := w.Header().Get("X-Request-ID")
			if responseID == "" || responseID != seenID {
				t.Logf("response ID %q does not match context ID %q", responseID, seenID)
				return false
			}
			if incomingID != "" && responseID != incomingID {
				t.Logf("incoming ID %q was not preserved", incomingID)
				return false
			}

			return true
		},
		gen.AlphaString(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestRecoveryMiddleware_PanicReturnsInternalError(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	logger := zap.New(core)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RecoveryMiddleware(logger))
	router.GET("/api/v1/cases", func(c *gin.Context) {
		panic("boom")
	})

	req := httptest.NewRequest("GET", "/api/v1/cases", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}

	found := false
	for _, entry := range logs.All() {
		if entry.Message == "Panic recovered" {
			found = true
			if _, ok := entry.ContextMap()["stack_trace"]; !ok {
				t.Fatal("stack_trace field missing from panic log")
			}
		}
	}
	if !found {
		t.Fatal("panic was not logged")
	}
}

type testError struct {
	msg string
}

func (e *testError) Error() string {
	return e.msg
}
