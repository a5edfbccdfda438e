package middleware

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORS returns a CORS middleware allowing the configured origin.
func CORS(allowedOrigin string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}

	if allowedOrigin == "" || allowedOrigin == "*" {
		// Credentialed requests cannot use a wildcard origin header
		cfg.AllowOriginFunc = func(origin string) bool { return true }
	} else {
		cfg.AllowOrigins = []string{allowedOrigin}
	}

	return cors.New(cfg)
}
