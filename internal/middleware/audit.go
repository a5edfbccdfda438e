package middleware

import (
	"bytes"
	"io"
	"strings"

	"github.com/gin-gonic/gin"
)

// AuditRecorder persists one audit entry. Implemented by the audit log
// service; an interface here keeps the middleware free of a services
// import.
type AuditRecorder interface {
	Record(level, module, action, message string, userID *uint, ip, userAgent string, extra map[string]interface{})
}

// Audit records mutating requests (POST/PUT/DELETE) to the audit trail,
// with sensitive body fields masked.
func Audit(rec AuditRecorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		method := c.Request.Method
		if method != "POST" && method != "PUT" && method != "DELETE" {
			c.Next()
			return
		}

		var bodySnippet string
		if c.Request.Body != nil {
			bodyBytes, _ := io.ReadAll(c.Request.Body)
			c.Request.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))
			bodySnippet = string(bodyBytes)
			if len(bodySnippet) > 2000 {
				bodySnippet = bodySnippet[:2000] + "...[truncated]"
			}
			bodySnippet = maskSensitiveFields(bodySnippet)
		}

		c.Next()

		userID := GetUserID(c)
		email := GetUserEmail(c)
		status := c.Writer.Status()

		module, action := parseRouteInfo(c.FullPath(), method)

		var uid *uint
		if userID > 0 {
			uid = &userID
		}

		level := "info"
		if status >= 400 {
			level = "warning"
		}

		rec.Record(level, module, action, auditMessage(email, method, c.Request.URL.Path, status),
			uid, c.ClientIP(), c.Request.UserAgent(), map[string]interface{}{
				"method": method,
				"path":   c.Request.URL.Path,
				"status": status,
				"body":   bodySnippet,
			})
	}
}

// parseRouteInfo extracts module and action from a Gin route pattern,
// e.g. "/api/projects/:id" + "PUT" → module="projects", action="Update".
func parseRouteInfo(fullPath, method string) (module, action string) {
	path := strings.TrimPrefix(fullPath, "/api/")
	parts := strings.SplitN(path, "/", 2)
	module = parts[0]
	if module == "" {
		module = "unknown"
	}

	switch method {
	case "POST":
		action = "Create"
	case "PUT":
		action = "Update"
	case "DELETE":
		action = "Delete"
	default:
		action = method
	}
	return module, action
}

func auditMessage(email, method, path string, status int) string {
	var b strings.Builder
	if email == "" {
		email = "anonymous"
	}
	b.WriteString(email)
	b.WriteString(" ")
	b.WriteString(method)
	b.WriteString(" ")
	b.WriteString(path)
	if status >= 200 && status < 300 {
		b.WriteString(" OK")
	} else {
		b.WriteString(" Failed")
	}
	return b.String()
}

// maskSensitiveFields replaces sensitive values in a JSON body.
func maskSensitiveFields(body string) string {
	sensitiveKeys := []string{"password", "secret", "token"}
	lower := strings.ToLower(body)
	for _, key := range sensitiveKeys {
		if strings.Contains(lower, key) {
			body = maskJSONValue(body, key)
		}
	}
	return body
}

// maskJSONValue does a best-effort mask of the JSON string value for key.
func maskJSONValue(body, key string) string {
	lower := strings.ToLower(body)
	idx := strings.Index(lower, "\""+key+"\"")
	if idx == -1 {
		return body
	}

	colonIdx := strings.Index(body[idx+len(key)+2:], ":")
	if colonIdx == -1 {
		return body
	}
	valueStart := idx + len(key) + 2 + colonIdx + 1

	for valueStart < len(body) && (body[valueStart] == ' ' || body[valueStart] == '\t') {
		valueStart++
	}
	if valueStart >= len(body) {
		return body
	}

	if body[valueStart] == '"' {
		endQuote := strings.Index(body[valueStart+1:], "\"")
		if endQuote == -1 {
			return body
		}
		return body[:valueStart+1] + "***" + body[valueStart+1+endQuote:]
	}

	return body
}
