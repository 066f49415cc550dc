package router

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"

	"ollama-chat/cmd/web/handlers"
	"ollama-chat/cmd/web/middleware"
	"ollama-chat/cmd/web/navigation"
)

// ProxyPrefix is where the conversation API is mounted in the proxied
// topology.
const ProxyPrefix = "/back"

type Options struct {
	Table *navigation.Table
	// Upstream is the conversation service; nil disables the /back proxy.
	Upstream *url.URL
	Health   handlers.ModelLister
}

func New(opts Options) *gin.Engine {
	r := gin.New()
	// trailing slashes are resolved by the navigation table, not redirected
	r.RedirectTrailingSlash = false
	r.Use(gin.Recovery(), middleware.RequestTrace())

	r.GET("/health", handlers.HealthHandler(opts.Health))

	if opts.Upstream != nil {
		proxy := handlers.ProxyHandler(opts.Upstream, ProxyPrefix)
		r.Any(ProxyPrefix, proxy)
		r.Any(ProxyPrefix+"/*path", proxy)
	}

	table := opts.Table
	if table == nil {
		table = navigation.Default(false)
	}
	nav := handlers.NavigationHandler(table)
	for _, route := range table.Routes() {
		r.GET(route.Path, nav)
	}

	r.NoRoute(handlers.FallbackHandler(table))
	return r
}

// WithCORS wraps h so browsers served from allowedOrigins may call it.
func WithCORS(h http.Handler, allowedOrigins []string) http.Handler {
	if len(allowedOrigins) == 0 {
		return h
	}
	return cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions,
		},
		AllowedHeaders: []string{"Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"X-Request-Id", "X-Span-Id"},
	}).Handler(h)
}
