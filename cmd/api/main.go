package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"recipefinder/internal/api"
	"recipefinder/internal/config"
	"recipefinder/internal/platform/spoonacular"
	"recipefinder/internal/screen"
)

const (
	pruneInterval   = time.Minute
	shutdownTimeout = 5 * time.Second
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	// Read configuration from config.json, .env and the environment
	cfg, err := config.Load("config.json")
	if err != nil {
		log.WithError(err).Fatal("failed to load configuration")
	}

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.WithError(err).Warnf("unknown log level %q, using info", cfg.LogLevel)
		level = logrus.InfoLevel
	}
	log.SetLevel(level)
	if level < logrus.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}

	router, sessions := setupRouter(cfg, log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go pruneSessions(ctx, sessions, pruneInterval, log)

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.WithField("addr", cfg.ListenAddr).Info("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server failed")
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("graceful shutdown failed")
		os.Exit(1)
	}
}

// setupRouter wires the Spoonacular client, the session store and the HTTP routes.
func setupRouter(cfg *config.Config, log logrus.FieldLogger) (*gin.Engine, *screen.Sessions) {
	client := spoonacular.NewClient(cfg)
	sessions := screen.NewSessions(client, cfg.SessionTTL())
	handler := api.NewHandler(sessions, client, cfg.ThumbnailWidth, cfg.RequestTimeout())

	router := api.NewRouter(handler, log, api.RouterConfig{
		AllowedOrigins: cfg.AllowedOrigins,
		SessionTTL:     cfg.SessionTTL(),
	})
	return router, sessions
}

func pruneSessions(ctx context.Context, sessions *screen.Sessions, every time.Duration, log logrus.FieldLogger) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := sessions.Prune(); n > 0 {
				log.WithField("removed", n).Debug("pruned idle sessions")
			}
		}
	}
}
