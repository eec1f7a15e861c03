package middleware

import (
	"net/http"
	"strings"

	"github.com/SscSPs/ledgerify/internal/utils"
	"github.com/gin-gonic/gin"
)

// pathsToSkip contains paths that should not be tracked by PostHog
var pathsToSkip = map[string]bool{
	"/health": true,
}

// PosthogMiddleware creates a Gin middleware handler that tracks API events with PostHog
func PosthogMiddleware(posthogClient *utils.PosthogClientWrapper) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !posthogClient.IsInitialized() || pathsToSkip[c.Request.URL.Path] {
			c.Next()
			return
		}

		c.Next()

		if len(c.Errors) > 0 || c.Writer.Status() >= http.StatusBadRequest {
			return
		}

		userID, exists := GetUserIDFromContext(c)
		if !exists {
			return
		}

		// "/api/v1/journal-entries/:entryID" -> "api_v1_journal-entries_:entryID"
		eventName := strings.ReplaceAll(strings.TrimPrefix(c.FullPath(), "/"), "/", "_")
		if eventName == "" {
			return
		}

		props := map[string]any{
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"status_code": c.Writer.Status(),
			"resource":    resourceFromRoute(c.FullPath()),
		}
		if len(c.Params) > 0 {
			params := make(map[string]string, len(c.Params))
			for _, param := range c.Params {
				params[param.Key] = param.Value
			}
			props["params"] = params
		}

		posthogClient.Enqueue(userID, eventName, props)
	}
}

// resourceFromRoute returns the first segment after the API version, e.g.
// "/api/v1/adjusting-entries/:entryID/status" -> "adjusting-entries".
func resourceFromRoute(route string) string {
	rest := strings.TrimPrefix(route, "/api/v1/")
	if rest == route {
		return ""
	}
	resource, _, _ := strings.Cut(rest, "/")
	return resource
}
