package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

type fakeRecorder struct {
	entries []fakeEntry
}

type fakeEntry struct {
	level, module, action, message string
	extra                          map[string]interface{}
}

func (r *fakeRecorder) Record(level, module, action, message string, userID *uint, ip, userAgent string, extra map[string]interface{}) {
	r.entries = append(r.entries, fakeEntry{level, module, action, message, extra})
}

func TestAudit_RecordsMutatingRequests(t *testing.T) {
	rec := &fakeRecorder{}

	router := gin.New()
	router.Use(Audit(rec))
	router.POST("/api/projects", func(c *gin.Context) {
		c.JSON(201, gin.H{"id": 1})
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/projects", strings.NewReader(`{"name":"Website"}`))
	router.ServeHTTP(w, req)

	if len(rec.entries) != 1 {
		t.Fatalf("entries = %d, expected 1", len(rec.entries))
	}
	entry := rec.entries[0]
	if entry.module != "projects" || entry.action != "Create" {
		t.Errorf("module/action = %q/%q, expected projects/Create", entry.module, entry.action)
	}
	if entry.level != "info" {
		t.Errorf("level = %q, expected info", entry.level)
	}
}

func TestAudit_SkipsReads(t *testing.T) {
	rec := &fakeRecorder{}

	router := gin.New()
	router.Use(Audit(rec))
	router.GET("/api/projects", func(c *gin.Context) {
		c.JSON(200, gin.H{})
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/projects", nil)
	router.ServeHTTP(w, req)

	if len(rec.entries) != 0 {
		t.Errorf("entries = %d, expected 0 for GET", len(rec.entries))
	}
}

func TestAudit_FailedRequestIsWarning(t *testing.T) {
	rec := &fakeRecorder{}

	router := gin.New()
	router.Use(Audit(rec))
	router.DELETE("/api/projects/:id", func(c *gin.Context) {
		c.JSON(404, gin.H{})
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("DELETE", "/api/projects/99", nil)
	router.ServeHTTP(w, req)

	if len(rec.entries) != 1 {
		t.Fatalf("entries = %d, expected 1", len(rec.entries))
	}
	if rec.entries[0].level != "warning" {
		t.Errorf("level = %q, expected warning", rec.entries[0].level)
	}
	if !strings.Contains(rec.entries[0].message, "Failed") {
		t.Errorf("message = %q, expected Failed marker", rec.entries[0].message)
	}
}

func TestAudit_MasksPassword(t *testing.T) {
	rec := &fakeRecorder{}

	router := gin.New()
	router.Use(Audit(rec))
	router.POST("/api/auth/register", func(c *gin.Context) {
		c.JSON(201, gin.H{})
	})

	w := httptest.NewRecorder()
	body := `{"name":"Alice","email":"a@example.com","password":"supersecret"}`
	req, _ := http.NewRequest("POST", "/api/auth/register", strings.NewReader(body))
	router.ServeHTTP(w, req)

	if len(rec.entries) != 1 {
		t.Fatalf("entries = %d, expected 1", len(rec.entries))
	}
	recorded, _ := rec.entries[0].extra["body"].(string)
	if strings.Contains(recorded, "supersecret") {
		t.Errorf("recorded body contains the plaintext password: %q", recorded)
	}
	if !strings.Contains(recorded, "***") {
		t.Errorf("recorded body should contain a mask: %q", recorded)
	}
}

func TestParseRouteInfo(t *testing.T) {
	tests := []struct {
		path   string
		method string
		module string
		action string
	}{
		{"/api/projects", "POST", "projects", "Create"},
		{"/api/projects/:id", "PUT", "projects", "Update"},
		{"/api/tasks/:id", "DELETE", "tasks", "Delete"},
		{"/api/notifications/:id/read", "PUT", "notifications", "Update"},
	}

	for _, tt := range tests {
		module, action := parseRouteInfo(tt.path, tt.method)
		if module != tt.module || action != tt.action {
			t.Errorf("parseRouteInfo(%q, %q) = %q/%q, expected %q/%q",
				tt.path, tt.method, module, action, tt.module, tt.action)
		}
	}
}

func TestMaskSensitiveFields(t *testing.T) {
	in := `{"email":"a@example.com","password":"hunter2","token":"abc123"}`
	out := maskSensitiveFields(in)

	if strings.Contains(out, "hunter2") {
		t.Errorf("password not masked: %q", out)
	}
	if strings.Contains(out, "abc123") {
		t.Errorf("token not masked: %q", out)
	}
	if !strings.Contains(out, "a@example.com") {
		t.Errorf("non-sensitive fields must survive: %q", out)
	}
}
