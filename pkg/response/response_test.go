package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func performRequest(handler gin.HandlerFunc) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest("GET", "/test", nil)
	handler(c)
	return w
}

func parseResponse(t *testing.T, w *httptest.ResponseRecorder) Envelope {
	t.Helper()
	var resp Envelope
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	return resp
}

func TestSuccess(t *testing.T) {
	w := performRequest(func(c *gin.Context) {
		Success(c, map[string]string{"name": "test"})
	})

	if w.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, w.Code)
	}

	resp := parseResponse(t, w)
	if resp.Code != 0 {
		t.Errorf("expected code 0, got %d", resp.Code)
	}
	if resp.Message != "ok" {
		t.Errorf("expected message 'ok', got %q", resp.Message)
	}
}

func TestCreated(t *testing.T) {
	w := performRequest(func(c *gin.Context) {
		Created(c, map[string]int{"id": 1})
	})

	if w.Code != http.StatusCreated {
		t.Errorf("expected status %d, got %d", http.StatusCreated, w.Code)
	}

	resp := parseResponse(t, w)
	if resp.Code != 0 {
		t.Errorf("expected code 0, got %d", resp.Code)
	}
}

func TestError_KindStatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    *AppError
		status int
	}{
		{"validation", NewValidation("bad input"), http.StatusBadRequest},
		{"unauthenticated", NewUnauthorized("bad credentials"), http.StatusUnauthorized},
		{"forbidden", NewForbidden("not a member"), http.StatusForbidden},
		{"not found", NewNotFound("no such project"), http.StatusNotFound},
		{"conflict", NewConflict("email already registered"), http.StatusConflict},
		{"internal", NewServerError("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := performRequest(func(c *gin.Context) {
				Error(c, tt.err)
			})

			if w.Code != tt.status {
				t.Errorf("expected status %d, got %d", tt.status, w.Code)
			}

			resp := parseResponse(t, w)
			if resp.Code != tt.status {
				t.Errorf("expected code %d, got %d", tt.status, resp.Code)
			}
			if resp.Message != tt.err.Message {
				t.Errorf("expected message %q, got %q", tt.err.Message, resp.Message)
			}
		})
	}
}

func TestError_WrappedAppError(t *testing.T) {
	w := performRequest(func(c *gin.Context) {
		wrapped := &wrapError{inner: NewNotFound("task not found")}
		Error(c, wrapped)
	})

	if w.Code != http.StatusNotFound {
		t.Errorf("expected status %d, got %d", http.StatusNotFound, w.Code)
	}
}

type wrapError struct {
	inner error
}

func (e *wrapError) Error() string { return e.inner.Error() }
func (e *wrapError) Unwrap() error { return e.inner }

func TestError_WithGenericError(t *testing.T) {
	w := performRequest(func(c *gin.Context) {
		Error(c, errors.New("something went wrong"))
	})

	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected status %d, got %d", http.StatusInternalServerError, w.Code)
	}

	resp := parseResponse(t, w)
	if resp.Code != 500 {
		t.Errorf("expected code 500, got %d", resp.Code)
	}
}

func TestBadRequest(t *testing.T) {
	w := performRequest(func(c *gin.Context) {
		BadRequest(c, "invalid input")
	})

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d", http.StatusBadRequest, w.Code)
	}

	resp := parseResponse(t, w)
	if resp.Code != 400 {
		t.Errorf("expected code 400, got %d", resp.Code)
	}
	if resp.Message != "invalid input" {
		t.Errorf("expected message 'invalid input', got %q", resp.Message)
	}
}

func TestUnauthorized(t *testing.T) {
	w := performRequest(func(c *gin.Context) {
		Unauthorized(c, "token expired")
	})

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected status %d, got %d", http.StatusUnauthorized, w.Code)
	}

	resp := parseResponse(t, w)
	if resp.Code != 401 {
		t.Errorf("expected code 401, got %d", resp.Code)
	}
}

func TestForbidden(t *testing.T) {
	w := performRequest(func(c *gin.Context) {
		Forbidden(c, "admin required")
	})

	if w.Code != http.StatusForbidden {
		t.Errorf("expected status %d, got %d", http.StatusForbidden, w.Code)
	}

	resp := parseResponse(t, w)
	if resp.Code != 403 {
		t.Errorf("expected code 403, got %d", resp.Code)
	}
}

func TestAppError_ErrorInterface(t *testing.T) {
	err := NewNotFound("user not found")
	if err.Error() != "user not found" {
		t.Errorf("expected 'user not found', got %q", err.Error())
	}
}
