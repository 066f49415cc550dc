package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"ollama-chat/cmd/internal/logger"
	"ollama-chat/cmd/internal/trace"
	"ollama-chat/cmd/web/navigation"
	"ollama-chat/models"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

// NavigationHandler answers a navigation path with the view it resolves to.
func NavigationHandler(table *navigation.Table) gin.HandlerFunc {
	return func(c *gin.Context) {
		m, err := table.Resolve(c.Request.URL.Path)
		if err != nil {
			NotFoundHandler()(c)
			return
		}
		c.JSON(http.StatusOK, m)
	}
}

// FallbackHandler serves requests gin's tree did not match. A GET whose path
// still resolves in table, such as /chat/42/, gets the same answer as its
// canonical path; anything else is a 404.
func FallbackHandler(table *navigation.Table) gin.HandlerFunc {
	nav := NavigationHandler(table)
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
			NotFoundHandler()(c)
			return
		}
		nav(c)
	}
}

// NotFoundHandler is the catch-all: unmatched paths are a 404, not a redirect.
func NotFoundHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "route not found"})
	}
}

// ModelLister is satisfied by chatclient's Ollama namespace.
type ModelLister interface {
	GetModels(ctx context.Context) (models.ModelList, error)
}

// HealthHandler reports degraded when the upstream model listing fails.
func HealthHandler(upstream ModelLister) gin.HandlerFunc {
	return func(c *gin.Context) {
		if upstream == nil {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()
		if _, err := upstream.GetModels(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "upstream": "down", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

// ProxyHandler forwards requests under prefix to target with the prefix
// removed, so /back/conversations reaches {target}/conversations.
func ProxyHandler(target *url.URL, prefix string) gin.HandlerFunc {
	proxy := &httputil.ReverseProxy{
		Rewrite: func(pr *httputil.ProxyRequest) {
			p := strings.TrimPrefix(pr.In.URL.Path, prefix)
			if p == "" {
				p = "/"
			}
			pr.Out.URL.Path = p
			pr.Out.URL.RawPath = ""
			pr.SetURL(target)
			pr.SetXForwarded()
			if id := trace.RequestIDFromContext(pr.In.Context()); id != "" {
				_, span := trace.NextSpanID(pr.In.Context())
				pr.Out.Header.Set(trace.HeaderRequestID, id)
				pr.Out.Header.Set(trace.HeaderSpanID, span)
			}
		},
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			if errors.Is(err, context.Canceled) {
				return
			}
			logger.ErrorWithFields("proxy request failed", logger.Fields{
				"method":     r.Method,
				"path":       r.URL.Path,
				"target":     target.String(),
				"request_id": trace.RequestIDFromContext(r.Context()),
				"error":      err.Error(),
			})
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadGateway)
			_, _ = w.Write([]byte(`{"error":"upstream unavailable"}`))
		},
	}
	return func(c *gin.Context) {
		proxy.ServeHTTP(c.Writer, c.Request)
	}
}
