package site

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

const trackTimeout = 5 * time.Second

// VisitRecorder stores page views.
type VisitRecorder interface {
	Record(ctx context.Context, ip, userAgent, path string, at time.Time) error
}

var untrackedPrefixes = []string{
	"/static/",
	"/api/",
	"/favicon",
	"/privacy",
	"/contact",
}

// TrackVisits records full page loads in the background. Fragment requests
// issued by htmx, asset requests and clients sending DNT: 1 are skipped.
func TrackVisits(rec VisitRecorder, log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !trackable(c.Request) {
			c.Next()
			return
		}

		ip, ua, path := c.ClientIP(), c.Request.UserAgent(), c.Request.URL.Path
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), trackTimeout)
			defer cancel()
			if err := rec.Record(ctx, ip, ua, path, time.Now()); err != nil {
				log.Warn("error recording visitor", "path", path, "error", err)
			}
		}()
		c.Next()
	}
}

func trackable(r *http.Request) bool {
	if r.Method != http.MethodGet {
		return false
	}
	if r.Header.Get("DNT") == "1" || r.Header.Get("HX-Request") == "true" {
		return false
	}
	for _, prefix := range untrackedPrefixes {
		if strings.HasPrefix(r.URL.Path, prefix) {
			return false
		}
	}
	return true
}
