package main

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"ollama-chat/cmd/internal/clients/chatclient"
	"ollama-chat/cmd/internal/logger"
	"ollama-chat/cmd/web/navigation"
	"ollama-chat/cmd/web/router"
	"ollama-chat/config"
)

func main() {
	config.InitApp()
	cfg := config.GetConfig()
	logger.Init(cfg.Logging.Level)
	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	upstream, err := url.Parse(cfg.Web.UpstreamURL)
	if err != nil || upstream.Scheme == "" || upstream.Host == "" {
		logger.Log.Errorf("invalid web.upstream_url %q: %v", cfg.Web.UpstreamURL, err)
		os.Exit(1)
	}

	// health checks talk to the service directly, not through our own proxy
	healthCfg := cfg
	healthCfg.API.BaseURL = cfg.Web.UpstreamURL
	healthCfg.API.Variant = string(chatclient.VariantDirect)
	healthCfg.API.BasePath = ""
	upstreamClient, err := chatclient.FromConfig(healthCfg)
	if err != nil {
		logger.Log.Errorf("failed to create upstream client: %v", err)
		os.Exit(1)
	}

	engine := router.New(router.Options{
		Table:    navigation.Default(cfg.Routes.Assistant),
		Upstream: upstream,
		Health:   upstreamClient.Ollama,
	})

	srv := &http.Server{
		Addr:              cfg.Web.Addr,
		Handler:           router.WithCORS(engine, cfg.Web.AllowedOrigins),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.InfoWithFields("web shell listening", logger.Fields{
			"addr":     cfg.Web.Addr,
			"upstream": upstream.String(),
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Errorf("web shell stopped: %v", err)
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Errorf("graceful shutdown failed: %v", err)
	}
}
